package engine

import "math"

const (
	stabMultiplier     = 1.5
	criticalChance     = 1.0 / 16
	criticalMultiplier = 1.5
	varianceMin        = 0.85
	varianceSpan       = 0.30
	terrainMultiplier  = 1.3
)

// DamageResult 一次伤害计算的结果
type DamageResult struct {
	Damage        int
	Effectiveness float64
	Critical      bool
	STAB          bool
}

// weatherModifier 天气对招式属性的修正
func weatherModifier(w Weather, t MonsterType) float64 {
	switch w {
	case WeatherRain:
		switch t {
		case TypeWater:
			return 1.5
		case TypeFire:
			return 0.5
		}
	case WeatherSunny:
		switch t {
		case TypeFire:
			return 1.5
		case TypeWater:
			return 0.5
		}
	case WeatherSnow:
		if t == TypeIce {
			return 1.2
		}
	}
	return 1
}

// terrainModifier 场地对招式属性的修正
func terrainModifier(tr Terrain, t MonsterType) float64 {
	boosted := map[Terrain]MonsterType{
		TerrainElectric: TypeElectric,
		TerrainGrassy:   TypeGrass,
		TerrainMisty:    TypeFairy,
		TerrainPsychic:  TypePsychic,
	}
	if bt, ok := boosted[tr]; ok && bt == t {
		return terrainMultiplier
	}
	return 1
}

// WeatherAccuracy 天气对命中率的修正
func WeatherAccuracy(w Weather) float64 {
	switch w {
	case WeatherSandstorm:
		return 0.8
	case WeatherHail:
		return 0.9
	case WeatherFog:
		return 0.6
	}
	return 1
}

// baseDamage ((2L/5+2) * Atk * Power / Def) / 50 + 2
func baseDamage(attacker, defender *MonsterState, move Move) float64 {
	var atk, def float64
	if move.Category == CategorySpecial {
		atk = float64(attacker.Stats.SpAttack) * StageMultiplier(attacker.Stages.SpAttack)
		def = float64(defender.Stats.SpDefense) * StageMultiplier(defender.Stages.SpDefense)
	} else {
		atk = float64(attacker.Stats.Attack) * StageMultiplier(attacker.Stages.Attack)
		def = float64(defender.Stats.Defense) * StageMultiplier(defender.Stages.Defense)
	}
	if atk < 1 {
		atk = 1
	}
	if def < 1 {
		def = 1
	}
	level := float64(attacker.Level)
	return ((2*level/5+2)*atk*float64(move.Power)/def)/50 + 2
}

// modifiers 属性克制以外的确定性修正
func modifiers(attacker *MonsterState, move Move, weather Weather, terrain Terrain) (float64, bool) {
	m := weatherModifier(weather, move.Type) * terrainModifier(terrain, move.Type)
	stab := attacker.HasType(move.Type)
	if stab {
		m *= stabMultiplier
	}
	return m, stab
}

// CalculateDamage 计算一次命中的伤害
// 随机数依次用于暴击判定和 ±15% 浮动
func CalculateDamage(attacker, defender *MonsterState, move Move, weather Weather, terrain Terrain, r RandSource) DamageResult {
	result := DamageResult{Effectiveness: Effectiveness(move.Type, defender.Types)}
	if move.Category == CategoryStatus || move.Power <= 0 {
		return result
	}

	mods, stab := modifiers(attacker, move, weather, terrain)
	result.STAB = stab
	dmg := baseDamage(attacker, defender, move) * result.Effectiveness * mods

	if chance(r, criticalChance) {
		result.Critical = true
		dmg *= criticalMultiplier
	}
	dmg *= varianceMin + varianceSpan*r.Float64()

	if result.Effectiveness == 0 {
		return result
	}
	result.Damage = int(math.Floor(dmg))
	if result.Damage < 1 {
		result.Damage = 1
	}
	return result
}

// ExpectedDamage 不含随机因素的期望伤害，已计入命中率
func ExpectedDamage(attacker, defender *MonsterState, move Move, weather Weather, terrain Terrain) float64 {
	if move.Category == CategoryStatus || move.Power <= 0 {
		return 0
	}
	eff := Effectiveness(move.Type, defender.Types)
	if eff == 0 {
		return 0
	}
	mods, _ := modifiers(attacker, move, weather, terrain)
	return baseDamage(attacker, defender, move) * eff * mods * hitChance(attacker, move, weather)
}

// hitChance 命中概率
func hitChance(attacker *MonsterState, move Move, weather Weather) float64 {
	if move.Accuracy <= 0 {
		return 1
	}
	p := float64(move.Accuracy) / 100 * WeatherAccuracy(weather) * StageMultiplier(attacker.Stages.Accuracy)
	return clampFloat(p, 0, 1)
}

// BestMove 期望伤害最高且还有 PP 的招式下标，PP 全部耗尽时返回 -1
func BestMove(attacker, defender *MonsterState, weather Weather, terrain Terrain) int {
	best, bestDamage := -1, -1.0
	for i, mv := range attacker.Moves {
		if mv.PP <= 0 {
			continue
		}
		d := 0.0
		if defender != nil {
			d = ExpectedDamage(attacker, defender, mv, weather, terrain)
		}
		if d > bestDamage {
			best, bestDamage = i, d
		}
	}
	return best
}
