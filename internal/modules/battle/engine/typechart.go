package engine

import "strings"

// MonsterType 属性
type MonsterType string

const (
	TypeNormal   MonsterType = "normal"
	TypeFire     MonsterType = "fire"
	TypeWater    MonsterType = "water"
	TypeElectric MonsterType = "electric"
	TypeGrass    MonsterType = "grass"
	TypeIce      MonsterType = "ice"
	TypeFighting MonsterType = "fighting"
	TypePoison   MonsterType = "poison"
	TypeGround   MonsterType = "ground"
	TypeFlying   MonsterType = "flying"
	TypePsychic  MonsterType = "psychic"
	TypeBug      MonsterType = "bug"
	TypeRock     MonsterType = "rock"
	TypeGhost    MonsterType = "ghost"
	TypeDragon   MonsterType = "dragon"
	TypeDark     MonsterType = "dark"
	TypeSteel    MonsterType = "steel"
	TypeFairy    MonsterType = "fairy"
)

// MaxMonsterTypes 单只精灵最多的属性数
const MaxMonsterTypes = 5

// AllTypes 全部 18 种属性
var AllTypes = []MonsterType{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

// ParseType 解析属性，大小写不敏感
func ParseType(v string) (MonsterType, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, t := range AllTypes {
		if string(t) == v {
			return t, true
		}
	}
	return "", false
}

// typeChart 攻击属性 -> 防御属性 -> 倍率，缺省为 1
var typeChart = map[MonsterType]map[MonsterType]float64{
	TypeNormal:   {TypeRock: 0.5, TypeGhost: 0, TypeSteel: 0.5},
	TypeFire:     {TypeFire: 0.5, TypeWater: 0.5, TypeGrass: 2, TypeIce: 2, TypeBug: 2, TypeRock: 0.5, TypeDragon: 0.5, TypeSteel: 2},
	TypeWater:    {TypeFire: 2, TypeWater: 0.5, TypeGrass: 0.5, TypeGround: 2, TypeRock: 2, TypeDragon: 0.5},
	TypeElectric: {TypeWater: 2, TypeElectric: 0.5, TypeGrass: 0.5, TypeGround: 0, TypeFlying: 2, TypeDragon: 0.5},
	TypeGrass: {TypeFire: 0.5, TypeWater: 2, TypeGrass: 0.5, TypePoison: 0.5, TypeGround: 2, TypeFlying: 0.5,
		TypeBug: 0.5, TypeRock: 2, TypeDragon: 0.5, TypeSteel: 0.5},
	TypeIce: {TypeFire: 0.5, TypeWater: 0.5, TypeGrass: 2, TypeIce: 0.5, TypeGround: 2, TypeFlying: 2,
		TypeDragon: 2, TypeSteel: 0.5},
	TypeFighting: {TypeNormal: 2, TypeIce: 2, TypePoison: 0.5, TypeFlying: 0.5, TypePsychic: 0.5, TypeBug: 0.5,
		TypeRock: 2, TypeGhost: 0, TypeDark: 2, TypeSteel: 2, TypeFairy: 0.5},
	TypePoison:  {TypeGrass: 2, TypePoison: 0.5, TypeGround: 0.5, TypeRock: 0.5, TypeGhost: 0.5, TypeSteel: 0, TypeFairy: 2},
	TypeGround:  {TypeFire: 2, TypeElectric: 2, TypeGrass: 0.5, TypePoison: 2, TypeFlying: 0, TypeBug: 0.5, TypeRock: 2, TypeSteel: 2},
	TypeFlying:  {TypeElectric: 0.5, TypeGrass: 2, TypeFighting: 2, TypeBug: 2, TypeRock: 0.5, TypeSteel: 0.5},
	TypePsychic: {TypeFighting: 2, TypePoison: 2, TypePsychic: 0.5, TypeDark: 0, TypeSteel: 0.5},
	TypeBug: {TypeFire: 0.5, TypeGrass: 2, TypeFighting: 0.5, TypePoison: 0.5, TypeFlying: 0.5, TypePsychic: 2,
		TypeGhost: 0.5, TypeDark: 2, TypeSteel: 0.5, TypeFairy: 0.5},
	TypeRock:   {TypeFire: 2, TypeIce: 2, TypeFighting: 0.5, TypeGround: 0.5, TypeFlying: 2, TypeBug: 2, TypeSteel: 0.5},
	TypeGhost:  {TypeNormal: 0, TypePsychic: 2, TypeGhost: 2, TypeDark: 0.5},
	TypeDragon: {TypeDragon: 2, TypeSteel: 0.5, TypeFairy: 0},
	TypeDark:   {TypeFighting: 0.5, TypePsychic: 2, TypeGhost: 2, TypeDark: 0.5, TypeFairy: 0.5},
	TypeSteel:  {TypeFire: 0.5, TypeWater: 0.5, TypeElectric: 0.5, TypeIce: 2, TypeRock: 2, TypeSteel: 0.5, TypeFairy: 2},
	TypeFairy:  {TypeFire: 0.5, TypeFighting: 2, TypePoison: 0.5, TypeDragon: 2, TypeDark: 2, TypeSteel: 0.5},
}

const maxEffectiveness = 4.0

// Effectiveness 攻击属性对防御方全部属性的综合倍率，结果限制在 [0, 4]
func Effectiveness(attack MonsterType, defender []MonsterType) float64 {
	multiplier := 1.0
	row := typeChart[attack]
	for i, t := range defender {
		if i >= MaxMonsterTypes {
			break
		}
		if m, ok := row[t]; ok {
			multiplier *= m
		}
	}
	return clampFloat(multiplier, 0, maxEffectiveness)
}

// EffectivenessLabel 倍率对应的战报描述
func EffectivenessLabel(multiplier float64) string {
	switch {
	case multiplier == 0:
		return "It had no effect"
	case multiplier > 1:
		return "It's super effective"
	case multiplier < 1:
		return "It's not very effective"
	default:
		return ""
	}
}
