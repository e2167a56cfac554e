package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sturdyNormal(name string) *MonsterState {
	m := testMonster(name, 50, 200, TypeNormal)
	m.Stats.Attack, m.Stats.Defense = 100, 100
	return m
}

func TestCalculateDamage_Formula(t *testing.T) {
	attacker, defender := sturdyNormal("Snorlax"), sturdyNormal("Tauros")

	// ((2*50/5+2)*100*40/100)/50 + 2 = 19.6, STAB 1.5, 浮动 1.0
	res := CalculateDamage(attacker, defender, Tackle, WeatherClear, TerrainNormal, fixedRand{0.5})
	assert.Equal(t, 29, res.Damage)
	assert.True(t, res.STAB)
	assert.False(t, res.Critical)
	assert.Equal(t, 1.0, res.Effectiveness)
}

func TestCalculateDamage_Critical(t *testing.T) {
	attacker, defender := sturdyNormal("Snorlax"), sturdyNormal("Tauros")

	res := CalculateDamage(attacker, defender, Tackle, WeatherClear, TerrainNormal, fixedRand{0})
	assert.True(t, res.Critical)
	// 29.4 * 1.5 * 0.85
	assert.Equal(t, 37, res.Damage)
}

func TestCalculateDamage_MinimumOne(t *testing.T) {
	attacker := testMonster("Magikarp", 1, 20, TypeNormal)
	attacker.Stats.SpAttack = 1
	defender := testMonster("Geodude", 50, 100, TypeWater, TypeRock)
	defender.Stats.SpDefense = 1000
	ember, ok := SignatureMove(TypeFire)
	require.True(t, ok)

	res := CalculateDamage(attacker, defender, ember, WeatherClear, TerrainNormal, fixedRand{0.5})
	assert.Equal(t, 0.25, res.Effectiveness)
	assert.Equal(t, 1, res.Damage)
}

func TestCalculateDamage_ImmuneDealsNothing(t *testing.T) {
	attacker := pikachu()
	defender := testMonster("Diglett", 10, 30, TypeGround)
	shock, _ := SignatureMove(TypeElectric)

	res := CalculateDamage(attacker, defender, shock, WeatherClear, TerrainNormal, fixedRand{0.5})
	assert.Equal(t, 0, res.Damage)
	assert.Equal(t, 0.0, res.Effectiveness)
}

func TestCalculateDamage_WeatherAndTerrain(t *testing.T) {
	attacker := testMonster("Squirtle", 30, 100, TypeNormal)
	defender := testMonster("Rattata", 30, 100, TypeNormal)
	gun, _ := SignatureMove(TypeWater)

	clear := CalculateDamage(attacker, defender, gun, WeatherClear, TerrainNormal, fixedRand{0.5}).Damage
	rain := CalculateDamage(attacker, defender, gun, WeatherRain, TerrainNormal, fixedRand{0.5}).Damage
	sun := CalculateDamage(attacker, defender, gun, WeatherSunny, TerrainNormal, fixedRand{0.5}).Damage
	assert.Greater(t, rain, clear)
	assert.Less(t, sun, clear)

	shock, _ := SignatureMove(TypeElectric)
	plain := CalculateDamage(attacker, defender, shock, WeatherClear, TerrainNormal, fixedRand{0.5}).Damage
	charged := CalculateDamage(attacker, defender, shock, WeatherClear, TerrainElectric, fixedRand{0.5}).Damage
	assert.Greater(t, charged, plain)
}

func TestCalculateDamage_StatusMove(t *testing.T) {
	growl, ok := LookupMove("growl")
	require.True(t, ok)
	res := CalculateDamage(pikachu(), bulbasaur(), growl, WeatherClear, TerrainNormal, fixedRand{0.5})
	assert.Equal(t, 0, res.Damage)
}

func TestHitChance(t *testing.T) {
	m := pikachu()
	assert.Equal(t, 1.0, hitChance(m, Tackle, WeatherClear))
	assert.InDelta(t, 0.6, hitChance(m, Tackle, WeatherFog), 1e-9)
	assert.Equal(t, 1.0, hitChance(m, Struggle, WeatherFog))
}

func TestBestMove(t *testing.T) {
	attacker := charmander()
	defender := bulbasaur()

	idx := BestMove(attacker, defender, WeatherClear, TerrainNormal)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "Ember", attacker.Moves[idx].Name)

	for i := range attacker.Moves {
		attacker.Moves[i].PP = 0
	}
	assert.Equal(t, -1, BestMove(attacker, defender, WeatherClear, TerrainNormal))
}

func TestDefaultMoveset(t *testing.T) {
	moves := DefaultMoveset([]MonsterType{TypeFire, TypeFlying})
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"Ember", "Gust", "Tackle"}, names)

	moves = DefaultMoveset(AllTypes)
	assert.Len(t, moves, MaxMoves)
}
