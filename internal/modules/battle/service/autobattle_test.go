package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/xerrors"
)

func TestAutoBattle_FightsToTheEnd(t *testing.T) {
	h := newHarness(t, fixedRand{0.5})
	h.wild.monster = monster("Rattata", 8, 5, engine.TypeNormal)
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))

	res, err := NewAutoBattler(h.manager, 0).AutoBattle(context.Background(), testSession, ash())
	require.NoError(t, err)
	assert.Equal(t, AutoOutcomeWon, res.Outcome)
	assert.Equal(t, engine.StatusResolved, res.Battle.Status)
	assert.Equal(t, 1, res.Battle.TurnNumber)
	assert.Equal(t, engine.ActionStart, res.Entries[0].ActionType)
	assert.Contains(t, res.Entries[1].ResultSummary, "Thunder Shock")
	assert.Equal(t, 1, h.rewards.calls())
}

func TestAutoBattle_TurnCapResolvesByKnockouts(t *testing.T) {
	h := newHarness(t, fixedRand{0.5})
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))

	res, err := NewAutoBattler(h.manager, 3).AutoBattle(context.Background(), testSession, ash())
	require.NoError(t, err)
	assert.Equal(t, AutoOutcomeDraw, res.Outcome)
	assert.Equal(t, engine.StatusResolved, res.Battle.Status)
	assert.Equal(t, 3, res.Battle.TurnNumber)
	assert.Equal(t, engine.ActionResolve, res.Entries[len(res.Entries)-1].ActionType)
	assert.Equal(t, 0, h.manager.Registry().Len())
}

func TestAutoBattle_SessionBusy(t *testing.T) {
	h := newHarness(t, fixedRand{0.5})
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))

	_, err := h.manager.InitiateBattle(context.Background(), testSession, ash())
	require.NoError(t, err)

	_, err = NewAutoBattler(h.manager, 0).AutoBattle(context.Background(), testSession, ash())
	requireCode(t, err, xerrors.CodeBattleAlreadyActive)
}

func TestNextAutoAction(t *testing.T) {
	pikachu := monster("Pikachu", 10, 100, engine.TypeElectric)
	pikachu.InstanceID = "p1"
	backup := monster("Eevee", 10, 100, engine.TypeNormal)
	backup.InstanceID = "p2"
	wild := monster("Rattata", 8, 50, engine.TypeNormal)
	wild.InstanceID = "w1"

	b := &engine.Battle{
		Mode:   engine.ModeWild,
		Status: engine.StatusActive,
		Participants: []*engine.Participant{
			{TrainerID: "ash", TrainerName: "Ash", Side: engine.SideA, Monsters: []*engine.MonsterState{pikachu, backup}},
			{TrainerID: "wild:1", TrainerName: "Wild Rattata", Side: engine.SideB, Synthetic: true, Monsters: []*engine.MonsterState{wild}},
		},
	}

	r := fixedRand{0.5}
	action, ok := nextAutoAction(b, "Ash", r)
	require.True(t, ok)
	assert.Equal(t, engine.ActionAttack, action.Type)
	assert.Equal(t, "Thunder Shock", action.MoveName)

	// 体力低于三成时换上后备
	pikachu.CurrentHP = 20
	action, ok = nextAutoAction(b, "Ash", r)
	require.True(t, ok)
	assert.Equal(t, engine.ActionRelease, action.Type)
	assert.Equal(t, 1, action.SlotIndex)

	pikachu.CurrentHP = 0
	action, ok = nextAutoAction(b, "Ash", r)
	require.True(t, ok)
	assert.Equal(t, engine.ActionRelease, action.Type)
	assert.Equal(t, 1, action.SlotIndex)

	backup.CurrentHP = 0
	_, ok = nextAutoAction(b, "Ash", r)
	assert.False(t, ok)
}
