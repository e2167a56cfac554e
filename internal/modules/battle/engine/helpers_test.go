package engine

import (
	"strings"
	"time"
)

// fixedRand 每次都返回同一个值
type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }
func (f fixedRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(f.v * float64(n))
}

func testMonster(name string, level, hp int, types ...MonsterType) *MonsterState {
	key := strings.ToLower(name)
	return &MonsterState{
		InstanceID: "inst-" + key,
		MonsterID:  "mon-" + key,
		Name:       name,
		Species:    name,
		Level:      level,
		Types:      types,
		Stats:      Stats{HP: hp, Attack: 50, Defense: 50, SpAttack: 50, SpDefense: 50, Speed: 50},
		MaxHP:      hp,
		CurrentHP:  hp,
		Status:     StatusNone,
		Moves:      DefaultMoveset(types),
	}
}

func testTrainer(id string, side Side, monsters ...*MonsterState) *Participant {
	return &Participant{
		TrainerID:       id,
		TrainerName:     strings.ToUpper(id[:1]) + id[1:],
		OwnerID:         "identity-" + id,
		Side:            side,
		ActiveSlotIndex: 0,
		Accepted:        true,
		Monsters:        monsters,
		JoinedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func wildBattle(player []*MonsterState, wild *MonsterState) *Battle {
	w := testTrainer("wild", SideB, wild)
	w.OwnerID = ""
	w.TrainerName = "Wild " + wild.Name
	w.Synthetic = true
	return &Battle{
		ID:                 "battle-1",
		AdventureSessionID: "session-1",
		Mode:               ModeWild,
		Status:             StatusActive,
		Weather:            WeatherClear,
		Terrain:            TerrainNormal,
		WinCondition:       1,
		TurnNumber:         1,
		ActingSide:         SideA,
		Participants:       []*Participant{testTrainer("ash", SideA, player...), w},
		KOLedger:           map[string]Side{},
	}
}

func pvpBattle(a, b []*MonsterState) *Battle {
	return &Battle{
		ID:                 "battle-2",
		AdventureSessionID: "session-2",
		Mode:               ModePvP,
		Status:             StatusActive,
		Weather:            WeatherClear,
		Terrain:            TerrainNormal,
		WinCondition:       1,
		TurnNumber:         1,
		ActingSide:         SideA,
		Participants:       []*Participant{testTrainer("ash", SideA, a...), testTrainer("gary", SideB, b...)},
		KOLedger:           map[string]Side{},
	}
}

func pikachu() *MonsterState   { return testMonster("Pikachu", 10, 80, TypeElectric) }
func bulbasaur() *MonsterState { return testMonster("Bulbasaur", 10, 40, TypeGrass, TypePoison) }
func charmander() *MonsterState {
	return testMonster("Charmander", 10, 60, TypeFire)
}
