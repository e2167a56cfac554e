package engine

import "fmt"

const (
	paralysisSkipChance = 0.25
	sleepWakeChance     = 0.33
	sleepMaxTurns       = 3
	freezeThawChance    = 0.20
	freezeMaxTurns      = 5
	secondaryChance     = 0.10
)

// typeSecondaryStatus 伤害招式按属性附带的异常状态
var typeSecondaryStatus = map[MonsterType]StatusCondition{
	TypeElectric: StatusParalysis,
	TypeIce:      StatusFreeze,
	TypeFire:     StatusBurn,
	TypePoison:   StatusPoison,
}

func fraction(maxHP, divisor int) int {
	d := maxHP / divisor
	if d < 1 {
		d = 1
	}
	return d
}

// weatherChipImmune 沙暴对岩石/地面/钢免疫，冰雹对冰免疫
func weatherChipImmune(w Weather, m *MonsterState) bool {
	switch w {
	case WeatherSandstorm:
		return m.HasType(TypeRock) || m.HasType(TypeGround) || m.HasType(TypeSteel)
	case WeatherHail:
		return m.HasType(TypeIce)
	}
	return true
}

// startOfTurn 行动方在场精灵的回合开始结算: 异常状态、天气伤害、无法行动判定
// 返回 true 表示本回合无法行动（包括因结算倒下）
func (rc *resolveContext) startOfTurn(p *Participant) bool {
	m := p.ActiveMonster()
	if m == nil || !m.Available() {
		return true
	}

	skip := false
	switch m.Status {
	case StatusPoison:
		rc.chip(p, m, fraction(m.MaxHP, 8), "is hurt by poison")
	case StatusBurn:
		rc.chip(p, m, fraction(m.MaxHP, 16), "is hurt by its burn")
	case StatusParalysis:
		if chance(rc.rand, paralysisSkipChance) {
			rc.tick(p, fmt.Sprintf("%s is paralyzed! It can't move", m.Name))
			skip = true
		}
	case StatusSleep:
		m.StatusTurns++
		if m.StatusTurns >= sleepMaxTurns || chance(rc.rand, sleepWakeChance) {
			m.Status, m.StatusTurns = StatusNone, 0
			rc.tick(p, fmt.Sprintf("%s woke up", m.Name))
		} else {
			rc.tick(p, fmt.Sprintf("%s is fast asleep", m.Name))
			skip = true
		}
	case StatusFreeze:
		m.StatusTurns++
		if m.StatusTurns >= freezeMaxTurns || chance(rc.rand, freezeThawChance) {
			m.Status, m.StatusTurns = StatusNone, 0
			rc.tick(p, fmt.Sprintf("%s thawed out", m.Name))
		} else {
			rc.tick(p, fmt.Sprintf("%s is frozen solid", m.Name))
			skip = true
		}
	}

	if m.Available() && !weatherChipImmune(rc.battle.Weather, m) {
		verb := "is buffeted by the sandstorm"
		if rc.battle.Weather == WeatherHail {
			verb = "is pelted by hail"
		}
		rc.chip(p, m, fraction(m.MaxHP, 16), verb)
	}

	return skip || !m.Available()
}

// chip 回合开始的固定伤害，倒下时记到对方
func (rc *resolveContext) chip(p *Participant, m *MonsterState, amount int, verb string) {
	m.SetHP(m.CurrentHP - amount)
	rc.tick(p, fmt.Sprintf("%s %s (-%d HP, %d/%d)", m.Name, verb, amount, m.CurrentHP, m.MaxHP))
	if m.Fainted() {
		rc.faint(p, m, "")
	}
}

// applyStatus 目标没有异常状态时才会生效
func applyStatus(target *MonsterState, status StatusCondition) bool {
	if status == StatusNone || status == "" || target.HasStatus() || !target.Available() {
		return false
	}
	target.Status = status
	target.StatusTurns = 0
	return true
}

// secondaryEffect 招式命中后的附加状态，招式自带效果优先于属性附带效果
func secondaryEffect(move Move) (StatusCondition, float64) {
	if move.StatusEffect != "" && move.StatusEffect != StatusNone {
		p := move.StatusChance
		if p <= 0 {
			p = 1
		}
		return move.StatusEffect, p
	}
	if move.Category == CategoryStatus {
		return StatusNone, 0
	}
	if s, ok := typeSecondaryStatus[move.Type]; ok {
		return s, secondaryChance
	}
	return StatusNone, 0
}

func statusVerb(s StatusCondition) string {
	switch s {
	case StatusPoison:
		return "was poisoned"
	case StatusParalysis:
		return "is paralyzed"
	case StatusSleep:
		return "fell asleep"
	case StatusBurn:
		return "was burned"
	case StatusFreeze:
		return "was frozen solid"
	}
	return ""
}
