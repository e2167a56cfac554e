package engine

import (
	"testing"

	"monster-battle/internal/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(v float64) *Resolver {
	return NewResolver(Config{}, fixedRand{v})
}

func attack(trainer, move string) Action {
	return Action{Type: ActionAttack, TrainerID: trainer, MoveName: move, SlotIndex: NoSlot}
}

func TestResolveAttack_DealsDamage(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "thunder shock"))
	require.NoError(t, err)

	wild := out.State.WildParticipant().ActiveMonster()
	// 6.8 * 0.5 (草/毒) * 1.5 (本系)
	assert.Equal(t, 35, wild.CurrentHP)
	assert.Equal(t, 29, out.State.Participant("ash").ActiveMonster().Moves[0].PP)
	assert.True(t, out.ConsumesTurn)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, ActionAttack, out.Entries[0].ActionType)
	assert.Contains(t, out.Entries[0].ResultSummary, "not very effective")
	assert.Empty(t, out.Faints)

	// 入参快照保持不变
	assert.Equal(t, 40, b.WildParticipant().ActiveMonster().CurrentHP)
	assert.Equal(t, 30, b.Participant("ash").ActiveMonster().Moves[0].PP)
}

func TestResolveAttack_Faint(t *testing.T) {
	wild := bulbasaur()
	wild.CurrentHP = 3
	b := wildBattle([]*MonsterState{pikachu()}, wild)

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)

	require.Len(t, out.Faints, 1)
	f := out.Faints[0]
	assert.Equal(t, "inst-bulbasaur", f.InstanceID)
	assert.Equal(t, SideB, f.OwnerSide)
	assert.Equal(t, "ash", f.CreditTrainerID)
	require.Len(t, out.Entries, 2)
	assert.Contains(t, out.Entries[1].ResultSummary, "fainted")
}

func TestResolveAttack_Validation(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(b *Battle)
		action Action
		code   xerrors.ErrorCode
	}{
		{
			name:   "unknown move",
			action: attack("ash", "Hyper Beam"),
			code:   xerrors.CodeMoveNotFound,
		},
		{
			name: "no pp",
			setup: func(b *Battle) {
				b.Participant("ash").ActiveMonster().Moves[1].PP = 0
			},
			action: attack("ash", "Tackle"),
			code:   xerrors.CodeNoPPLeft,
		},
		{
			name:   "struggle while pp remains",
			action: attack("ash", "Struggle"),
			code:   xerrors.CodeMoveNotFound,
		},
		{
			name: "fainted attacker",
			setup: func(b *Battle) {
				b.Participant("ash").ActiveMonster().CurrentHP = 0
			},
			action: attack("ash", "Tackle"),
			code:   xerrors.CodeMonsterFainted,
		},
		{
			name:   "stranger",
			action: attack("brock", "Tackle"),
			code:   xerrors.CodeNotParticipant,
		},
		{
			name:   "player cannot drive the wild side",
			action: attack("wild", "Tackle"),
			code:   xerrors.CodeNotParticipant,
		},
		{
			name: "unknown target",
			action: Action{Type: ActionAttack, TrainerID: "ash", MoveName: "Tackle",
				TargetName: "Mewtwo", SlotIndex: NoSlot},
			code: xerrors.CodeMonsterNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
			if tt.setup != nil {
				tt.setup(b)
			}
			_, err := newTestResolver(0.5).Resolve(b, tt.action)
			require.Error(t, err)
			assert.True(t, xerrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestResolveAttack_StruggleWhenOutOfPP(t *testing.T) {
	p := pikachu()
	for i := range p.Moves {
		p.Moves[i].PP = 0
	}
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "struggle"))
	require.NoError(t, err)
	assert.Less(t, out.State.WildParticipant().ActiveMonster().CurrentHP, 40)
}

func TestResolveAttack_EngineDrivenWildMove(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())

	action := attack("wild", "Vine Whip")
	action.EngineDriven = true
	out, err := newTestResolver(0.5).Resolve(b, action)
	require.NoError(t, err)
	assert.Less(t, out.State.Participant("ash").ActiveMonster().CurrentHP, 80)
}

func TestResolveAttack_StatChange(t *testing.T) {
	p := pikachu()
	growl, _ := LookupMove("Growl")
	p.Moves = append(p.Moves, growl)
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Growl"))
	require.NoError(t, err)
	assert.Equal(t, -1, out.State.WildParticipant().ActiveMonster().Stages.Attack)
	assert.Equal(t, 40, out.State.WildParticipant().ActiveMonster().CurrentHP)
}

func TestResolveAttack_StatusMove(t *testing.T) {
	p := pikachu()
	wave, _ := LookupMove("Thunder Wave")
	p.Moves = append(p.Moves, wave)
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Thunder Wave"))
	require.NoError(t, err)
	assert.Equal(t, StatusParalysis, out.State.WildParticipant().ActiveMonster().Status)

	// 已有异常状态时不会被覆盖
	out, err = newTestResolver(0.5).Resolve(out.State, attack("ash", "Thunder Wave"))
	require.NoError(t, err)
	assert.Contains(t, out.Entries[len(out.Entries)-1].ResultSummary, "failed")
}

func TestResolveAttack_Narrative(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
	action := attack("ash", "Tackle")
	action.Narrative = "Pikachu dashes across the meadow"

	out, err := newTestResolver(0.5).Resolve(b, action)
	require.NoError(t, err)
	assert.Equal(t, action.Narrative, out.Entries[0].NarrativeMessage)
	ash := out.State.Participant("ash")
	assert.Equal(t, 5, ash.WordCount)
	assert.Equal(t, 1, ash.MessageCount)
}

func TestStartOfTurn_Poison(t *testing.T) {
	p := pikachu()
	p.Status = StatusPoison
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.Equal(t, 70, out.State.Participant("ash").ActiveMonster().CurrentHP)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, ActionStatusTick, out.Entries[0].ActionType)
	assert.Equal(t, 0, out.Entries[0].Sequence)
	assert.Equal(t, 1, out.Entries[1].Sequence)
}

func TestStartOfTurn_PoisonFaintCreditsOpponent(t *testing.T) {
	p := pikachu()
	p.Status = StatusPoison
	p.CurrentHP = 5
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	require.Len(t, out.Faints, 1)
	assert.Equal(t, SideA, out.Faints[0].OwnerSide)
	assert.Empty(t, out.Faints[0].CreditTrainerID)
	assert.Equal(t, 40, out.State.WildParticipant().ActiveMonster().CurrentHP)

	require.True(t, out.State.CreditFaint(out.Faints[0]))
	assert.Equal(t, 1, out.State.WildParticipant().KOCount)
	assert.Equal(t, SideB, out.State.WinningSide())
}

func TestStartOfTurn_SleepSkips(t *testing.T) {
	p := pikachu()
	p.Status = StatusSleep
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.True(t, out.ConsumesTurn)
	me := out.State.Participant("ash").ActiveMonster()
	assert.Equal(t, 1, me.StatusTurns)
	assert.Equal(t, 35, me.Moves[1].PP)
	assert.Equal(t, 40, out.State.WildParticipant().ActiveMonster().CurrentHP)
}

func TestStartOfTurn_SleepWakesAfterThreeTurns(t *testing.T) {
	p := pikachu()
	p.Status = StatusSleep
	p.StatusTurns = 2
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.False(t, out.Skipped)
	assert.Equal(t, StatusNone, out.State.Participant("ash").ActiveMonster().Status)
}

func TestStartOfTurn_ParalysisSkip(t *testing.T) {
	p := pikachu()
	p.Status = StatusParalysis
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.1).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.True(t, out.Skipped)

	out, err = newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.False(t, out.Skipped)
}

func TestStartOfTurn_WeatherChip(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
	b.Weather = WeatherSandstorm

	out, err := newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.Equal(t, 75, out.State.Participant("ash").ActiveMonster().CurrentHP)

	rock := testMonster("Onix", 10, 80, TypeRock, TypeGround)
	b = wildBattle([]*MonsterState{rock}, bulbasaur())
	b.Weather = WeatherSandstorm
	out, err = newTestResolver(0.5).Resolve(b, attack("ash", "Tackle"))
	require.NoError(t, err)
	assert.Equal(t, 80, out.State.Participant("ash").ActiveMonster().CurrentHP)
}

func useItem(name string, qty int) Action {
	return Action{Type: ActionUseItem, TrainerID: "ash", ItemName: name, ItemQuantity: qty, SlotIndex: NoSlot}
}

func TestResolveUseItem_Potion(t *testing.T) {
	p := pikachu()
	p.CurrentHP = 50
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, useItem("potion", 3))
	require.NoError(t, err)
	assert.Equal(t, 70, out.State.Participant("ash").ActiveMonster().CurrentHP)
	assert.Equal(t, "Potion", out.ItemUsed)
	assert.True(t, out.ConsumesTurn)
}

func TestResolveUseItem_BenchTarget(t *testing.T) {
	c := charmander()
	c.CurrentHP = 10
	b := wildBattle([]*MonsterState{pikachu(), c}, bulbasaur())

	action := useItem("Super Potion", 1)
	action.TargetName = "Charmander"
	out, err := newTestResolver(0.5).Resolve(b, action)
	require.NoError(t, err)
	assert.Equal(t, 60, out.State.Participant("ash").Monsters[1].CurrentHP)
}

func TestResolveUseItem_Antidote(t *testing.T) {
	p := pikachu()
	p.Status = StatusPoison
	p.CurrentHP = 50
	b := wildBattle([]*MonsterState{p}, bulbasaur())

	out, err := newTestResolver(0.5).Resolve(b, useItem("Antidote", 1))
	require.NoError(t, err)
	me := out.State.Participant("ash").ActiveMonster()
	assert.Equal(t, StatusNone, me.Status)
	// 先结算中毒伤害再解毒
	assert.Equal(t, 40, me.CurrentHP)
}

func TestResolveUseItem_Errors(t *testing.T) {
	fainted := charmander()
	fainted.CurrentHP = 0

	tests := []struct {
		name   string
		mode   Mode
		action Action
		code   xerrors.ErrorCode
	}{
		{"unknown item", ModeWild, useItem("Mystery Box", 1), xerrors.CodeItemNotFound},
		{"none left", ModeWild, useItem("Potion", 0), xerrors.CodeInsufficientItems},
		{"full health", ModeWild, useItem("Potion", 1), xerrors.CodeItemNotUsable},
		{"nothing to cure", ModeWild, useItem("Antidote", 1), xerrors.CodeItemNotUsable},
		{"ball in trainer battle", ModePvP, useItem("Poke Ball", 1), xerrors.CodeItemNotUsable},
		{"fainted target", ModeWild, func() Action {
			a := useItem("Potion", 1)
			a.TargetName = "Charmander"
			return a
		}(), xerrors.CodeMonsterFainted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b *Battle
			if tt.mode == ModePvP {
				b = pvpBattle([]*MonsterState{pikachu(), fainted.Clone()}, []*MonsterState{bulbasaur()})
			} else {
				b = wildBattle([]*MonsterState{pikachu(), fainted.Clone()}, bulbasaur())
			}
			_, err := newTestResolver(0.5).Resolve(b, tt.action)
			require.Error(t, err)
			assert.True(t, xerrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestResolveUseItem_Capture(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())

	caught := true
	action := useItem("poke ball", 1)
	action.CaptureSucceeded = &caught
	out, err := newTestResolver(0.5).Resolve(b, action)
	require.NoError(t, err)
	assert.True(t, out.Captured)
	assert.Equal(t, "Poke Ball", out.ItemUsed)
	assert.True(t, out.State.WildParticipant().ActiveMonster().Captured)
	assert.Equal(t, 0, out.State.SideAvailableCount(SideB))

	missed := false
	action.CaptureSucceeded = &missed
	out, err = newTestResolver(0.5).Resolve(b, action)
	require.NoError(t, err)
	assert.False(t, out.Captured)
	assert.Equal(t, "Poke Ball", out.ItemUsed)
	assert.Contains(t, out.Entries[len(out.Entries)-1].ResultSummary, "broke free")
}

func TestResolveUseItem_CaptureRollRequired(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
	_, err := newTestResolver(0.5).Resolve(b, useItem("Great Ball", 1))
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))
}

func release(name string, slot int) Action {
	return Action{Type: ActionRelease, TrainerID: "ash", MonsterName: name, SlotIndex: slot}
}

func TestResolveRelease_VoluntaryPvP(t *testing.T) {
	p := pikachu()
	p.Stages.Attack = 2
	b := pvpBattle([]*MonsterState{p, charmander()}, []*MonsterState{bulbasaur()})

	out, err := newTestResolver(0.5).Resolve(b, release("charmander", NoSlot))
	require.NoError(t, err)
	ash := out.State.Participant("ash")
	assert.Equal(t, 1, ash.ActiveSlotIndex)
	assert.True(t, out.ConsumesTurn)
	assert.False(t, out.ForcedReplacement)
	assert.Equal(t, 0, ash.Monsters[0].Stages.Attack)
}

func TestResolveRelease_WildSwapFollowsConfig(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu(), charmander()}, bulbasaur())

	out, err := NewResolver(Config{}, fixedRand{0.5}).Resolve(b, release("", 1))
	require.NoError(t, err)
	assert.False(t, out.ConsumesTurn)

	out, err = NewResolver(Config{WildSwapConsumesTurn: true}, fixedRand{0.5}).Resolve(b, release("", 1))
	require.NoError(t, err)
	assert.True(t, out.ConsumesTurn)
}

func TestResolveRelease_ForcedReplacement(t *testing.T) {
	p := pikachu()
	p.CurrentHP = 0
	b := pvpBattle([]*MonsterState{p, charmander()}, []*MonsterState{bulbasaur()})

	out, err := newTestResolver(0.5).Resolve(b, release("Charmander", NoSlot))
	require.NoError(t, err)
	assert.True(t, out.ForcedReplacement)
	assert.False(t, out.ConsumesTurn)
	assert.Equal(t, "Charmander", out.State.Participant("ash").ActiveMonster().Name)
}

func TestResolveRelease_Errors(t *testing.T) {
	fainted := testMonster("Eevee", 10, 50, TypeNormal)
	fainted.CurrentHP = 0

	tests := []struct {
		name   string
		action Action
		code   xerrors.ErrorCode
	}{
		{"already active", release("Pikachu", NoSlot), xerrors.CodeMonsterActive},
		{"fainted", release("Eevee", NoSlot), xerrors.CodeMonsterFainted},
		{"not in party", release("Mew", NoSlot), xerrors.CodeMonsterNotFound},
		{"bad slot", release("", 9), xerrors.CodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pvpBattle([]*MonsterState{pikachu(), charmander(), fainted.Clone()}, []*MonsterState{bulbasaur()})
			_, err := newTestResolver(0.5).Resolve(b, tt.action)
			require.Error(t, err)
			assert.True(t, xerrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestResolveWithdraw(t *testing.T) {
	b := pvpBattle([]*MonsterState{pikachu(), charmander()}, []*MonsterState{bulbasaur()})

	_, err := newTestResolver(0.5).Resolve(b, Action{Type: ActionWithdraw, TrainerID: "ash", MonsterName: "Pikachu", SlotIndex: NoSlot})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))

	out, err := newTestResolver(0.5).Resolve(b, Action{Type: ActionWithdraw, TrainerID: "ash", MonsterName: "Pikachu", SlotIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.State.Participant("ash").ActiveSlotIndex)
	assert.Contains(t, out.Entries[0].ResultSummary, "withdrew Pikachu")
}

func TestResolveFlee(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())

	out, err := newTestResolver(0).Resolve(b, Action{Type: ActionFlee, TrainerID: "ash", SlotIndex: NoSlot})
	require.NoError(t, err)
	assert.True(t, out.Fled)
	assert.True(t, out.State.Participant("ash").HasFled)

	out, err = newTestResolver(0.99).Resolve(b, Action{Type: ActionFlee, TrainerID: "ash", SlotIndex: NoSlot})
	require.NoError(t, err)
	assert.False(t, out.Fled)
	assert.True(t, out.ConsumesTurn)
}

func TestResolveFlee_UsesNextAvailableWildMonster(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
	wild := b.WildParticipant()
	wild.Monsters[0].CurrentHP = 0
	wild.Monsters = append(wild.Monsters, testMonster("Onix", 60, 100, TypeRock))

	// 10 级对 60 级: 逃跑率降到下限 0.1
	out, err := newTestResolver(0.2).Resolve(b, Action{Type: ActionFlee, TrainerID: "ash", SlotIndex: NoSlot})
	require.NoError(t, err)
	assert.False(t, out.Fled)

	wild.Monsters[1].Captured = true
	_, err = newTestResolver(0).Resolve(b, Action{Type: ActionFlee, TrainerID: "ash", SlotIndex: NoSlot})
	require.Error(t, err)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeNoActiveMonster))
}

func TestResolveFlee_NotAllowedInPvP(t *testing.T) {
	b := pvpBattle([]*MonsterState{pikachu()}, []*MonsterState{bulbasaur()})
	_, err := newTestResolver(0).Resolve(b, Action{Type: ActionFlee, TrainerID: "ash", SlotIndex: NoSlot})
	require.Error(t, err)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeFleeNotAllowed))
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
}

func TestFleeChance(t *testing.T) {
	assert.InDelta(t, 0.5, FleeChance(10, 10, 0), 1e-9)
	assert.InDelta(t, 0.5, FleeChance(12, 10, 50), 1e-9)
	assert.InDelta(t, 0.95, FleeChance(40, 10, 0), 1e-9)
	assert.InDelta(t, 0.1, FleeChance(5, 25, 100), 1e-9)
}

func TestResolve_UnknownAction(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
	_, err := newTestResolver(0.5).Resolve(b, Action{Type: "dance", TrainerID: "ash"})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))
}
