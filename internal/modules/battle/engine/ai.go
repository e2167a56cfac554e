package engine

// Difficulty 电脑一方的决策强度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AIProfile 决策参数
type AIProfile struct {
	// RandomChance 随机出招的概率
	RandomChance float64
	// SwitchThreshold 在场精灵体力比例低于该值时换人
	SwitchThreshold float64
}

var aiProfiles = map[Difficulty]AIProfile{
	DifficultyEasy:   {RandomChance: 0.4, SwitchThreshold: 0.1},
	DifficultyMedium: {RandomChance: 0.2, SwitchThreshold: 0.2},
	DifficultyHard:   {RandomChance: 0.1, SwitchThreshold: 0.3},
}

// ProfileFor 未知难度按 medium 处理
func ProfileFor(d Difficulty) AIProfile {
	if p, ok := aiProfiles[d]; ok {
		return p
	}
	return aiProfiles[DifficultyMedium]
}

// DifficultyForAggression 攻击性越高的野生精灵出招越精准
func DifficultyForAggression(aggression int) Difficulty {
	switch {
	case aggression >= 75:
		return DifficultyHard
	case aggression >= 40:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// ChooseMove 选择招式位置，-1 表示只能使用挣扎
// 按 RandomChance 随机选一个还有 PP 的招式，否则取期望伤害最高的
func ChooseMove(attacker, defender *MonsterState, weather Weather, terrain Terrain, profile AIProfile, r RandSource) int {
	if r != nil && chance(r, profile.RandomChance) {
		var usable []int
		for i, mv := range attacker.Moves {
			if mv.PP > 0 {
				usable = append(usable, i)
			}
		}
		if len(usable) == 0 {
			return -1
		}
		return usable[r.IntN(len(usable))]
	}
	return BestMove(attacker, defender, weather, terrain)
}

// ChooseSwitch 在场精灵体力比例低于阈值时换上体力比例最高的后备
// 不需要换人时返回 NoSlot
func ChooseSwitch(p *Participant, profile AIProfile) int {
	active := p.ActiveMonster()
	if active == nil || !active.Available() {
		return NoSlot
	}
	ratio := hpRatio(active)
	if ratio >= profile.SwitchThreshold {
		return NoSlot
	}
	best, bestRatio := NoSlot, ratio
	for i, m := range p.Monsters {
		if i == p.ActiveSlotIndex || !m.Available() {
			continue
		}
		if r := hpRatio(m); r > bestRatio {
			best, bestRatio = i, r
		}
	}
	return best
}

func hpRatio(m *MonsterState) float64 {
	if m.MaxHP <= 0 {
		return 0
	}
	return float64(m.CurrentHP) / float64(m.MaxHP)
}
