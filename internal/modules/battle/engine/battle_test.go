package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditFaint_AwardsLevelsOnce(t *testing.T) {
	wild := testMonster("Onix", 25, 90, TypeRock)
	wild.CurrentHP = 0
	benched := charmander()
	benched.CurrentHP = 0
	b := wildBattle([]*MonsterState{pikachu(), benched}, wild)

	f := Faint{InstanceID: wild.InstanceID, Name: wild.Name, Level: 25, OwnerSide: SideB, CreditTrainerID: "ash"}
	require.True(t, b.CreditFaint(f))
	require.False(t, b.CreditFaint(f))

	ash := b.Participant("ash")
	assert.Equal(t, 1, ash.KOCount)
	assert.Equal(t, 13, ash.Monsters[0].Level)
	assert.Equal(t, 3, ash.Monsters[0].LevelsGained)
	// 已倒下的精灵不获得等级
	assert.Equal(t, 10, ash.Monsters[1].Level)
	assert.Equal(t, SideA, b.KOLedger[wild.InstanceID])
}

func TestCreditFaint_LevelCap(t *testing.T) {
	veteran := testMonster("Mewtwo", 99, 300, TypePsychic)
	b := wildBattle([]*MonsterState{veteran}, bulbasaur())

	require.True(t, b.CreditFaint(Faint{InstanceID: "inst-bulbasaur", Level: 60, OwnerSide: SideB}))
	assert.Equal(t, MaxLevel, b.Participant("ash").Monsters[0].Level)
	assert.Equal(t, 1, b.Participant("ash").Monsters[0].LevelsGained)
}

func TestCreditFaint_WrongSideCreditFallsBack(t *testing.T) {
	b := pvpBattle([]*MonsterState{pikachu()}, []*MonsterState{bulbasaur()})

	// 击倒者与倒下的精灵同阵营时，记到对方阵营的第一个参与者
	require.True(t, b.CreditFaint(Faint{InstanceID: "inst-pikachu", Level: 10, OwnerSide: SideA, CreditTrainerID: "ash"}))
	assert.Equal(t, 0, b.Participant("ash").KOCount)
	assert.Equal(t, 1, b.Participant("gary").KOCount)
}

func TestWinningSide(t *testing.T) {
	b := pvpBattle([]*MonsterState{pikachu()}, []*MonsterState{bulbasaur(), charmander()})
	b.WinCondition = 2
	assert.Equal(t, SideNone, b.WinningSide())

	gary := b.Participant("gary")
	gary.Monsters[0].CurrentHP = 0
	b.CreditFaint(Faint{InstanceID: gary.Monsters[0].InstanceID, Level: 10, OwnerSide: SideB})
	assert.Equal(t, SideNone, b.WinningSide())
	assert.Equal(t, SideA, b.LeadingSide())

	gary.Monsters[1].CurrentHP = 0
	b.CreditFaint(Faint{InstanceID: gary.Monsters[1].InstanceID, Level: 10, OwnerSide: SideB})
	assert.Equal(t, SideA, b.WinningSide())
}

func TestMaxWinCondition(t *testing.T) {
	b := pvpBattle([]*MonsterState{pikachu()}, []*MonsterState{bulbasaur(), charmander()})
	assert.Equal(t, 2, b.ReachableKOs(SideA))
	assert.Equal(t, 1, b.ReachableKOs(SideB))
	assert.Equal(t, 1, b.MaxWinCondition())

	b.Participant("ash").Monsters = append(b.Participant("ash").Monsters, testMonster("Eevee", 10, 50, TypeNormal))
	assert.Equal(t, 2, b.MaxWinCondition())

	gary := b.Participant("gary")
	gary.Monsters[0].CurrentHP = 0
	b.CreditFaint(Faint{InstanceID: gary.Monsters[0].InstanceID, Level: 10, OwnerSide: SideB})
	assert.Equal(t, 2, b.ReachableKOs(SideA), "credited knockouts stay reachable")

	gary.Monsters[1].Captured = true
	assert.Equal(t, 1, b.MaxWinCondition())
}

func TestWinningSide_NeedsOpponentExhausted(t *testing.T) {
	b := pvpBattle([]*MonsterState{pikachu()}, []*MonsterState{bulbasaur(), charmander()})
	gary := b.Participant("gary")
	gary.Monsters[0].CurrentHP = 0
	b.CreditFaint(Faint{InstanceID: gary.Monsters[0].InstanceID, Level: 10, OwnerSide: SideB})

	// 击倒数已满足，但对方还有能战斗的精灵
	assert.Equal(t, SideNone, b.WinningSide())
}

func TestBattleClone_IsDeep(t *testing.T) {
	b := wildBattle([]*MonsterState{pikachu()}, bulbasaur())
	b.KOLedger["x"] = SideA

	c := b.Clone()
	c.Participants[0].Monsters[0].CurrentHP = 1
	c.Participants[0].Monsters[0].Moves[0].PP = 0
	c.KOLedger["y"] = SideB
	c.Participants[0].KOCount = 9

	assert.Equal(t, 80, b.Participants[0].Monsters[0].CurrentHP)
	assert.Equal(t, 30, b.Participants[0].Monsters[0].Moves[0].PP)
	assert.Len(t, b.KOLedger, 1)
	assert.Equal(t, 0, b.Participants[0].KOCount)
}

func TestParticipantHelpers(t *testing.T) {
	fainted := pikachu()
	fainted.CurrentHP = 0
	p := testTrainer("ash", SideA, fainted, charmander())

	assert.True(t, p.NeedsReplacement())
	assert.Equal(t, 1, p.AvailableCount())
	assert.Equal(t, 1, p.FirstAvailableSlot())

	idx, m := p.FindMonster(" charmander ")
	assert.Equal(t, 1, idx)
	require.NotNil(t, m)

	p.ActiveSlotIndex = -1
	assert.Nil(t, p.ActiveMonster())
}

func TestStatStagesApply(t *testing.T) {
	var s StatStages
	assert.Equal(t, 2, s.Apply(StatAttack, 2))
	assert.Equal(t, 4, s.Apply(StatAttack, 5))
	assert.Equal(t, 0, s.Apply(StatAttack, 1))
	assert.Equal(t, MaxStage, s.Get(StatAttack))
	assert.Equal(t, -6, s.Apply(StatSpeed, -9))
}

func TestParseHelpers(t *testing.T) {
	side, ok := ParseSide("b")
	assert.True(t, ok)
	assert.Equal(t, SideB, side)
	assert.Equal(t, SideA, side.Opposite())

	w, ok := ParseWeather("Sandstorm")
	assert.True(t, ok)
	assert.Equal(t, WeatherSandstorm, w)
	_, ok = ParseTerrain("lava")
	assert.False(t, ok)

	st, ok := ParseStatusCondition("")
	assert.True(t, ok)
	assert.Equal(t, StatusNone, st)

	assert.True(t, StatusFled.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}
