package service

import (
	"context"

	"monster-battle/internal/modules/battle/engine"
)

// DefaultAutoBattleTurnCap 自动对战的回合上限，达到后按击倒数结算
const DefaultAutoBattleTurnCap = 200

// 自动对战结果
const (
	AutoOutcomeWon      = "won"
	AutoOutcomeLost     = "lost"
	AutoOutcomeDraw     = "draw"
	AutoOutcomeCaptured = "captured"
	AutoOutcomeFled     = "fled"
)

// AutoBattleResult 自动对战的全部记录与最终结果
type AutoBattleResult struct {
	Battle  *engine.Battle
	Entries []engine.LogEntry
	Outcome string
}

// AutoBattler 按 hard 难度的决策驱动玩家一方直到对战结束
type AutoBattler struct {
	manager  *BattleManager
	maxTurns int
}

// NewAutoBattler 创建自动对战，maxTurns <= 0 时使用默认上限
func NewAutoBattler(manager *BattleManager, maxTurns int) *AutoBattler {
	if maxTurns <= 0 {
		maxTurns = DefaultAutoBattleTurnCap
	}
	return &AutoBattler{manager: manager, maxTurns: maxTurns}
}

// AutoBattle 发起野生对战并自动打完
func (a *AutoBattler) AutoBattle(ctx context.Context, sessionID string, actor Actor) (*AutoBattleResult, error) {
	start, err := a.manager.InitiateBattle(ctx, sessionID, actor)
	if err != nil {
		return nil, err
	}
	b := start.Battle
	entries := append([]engine.LogEntry(nil), start.Entries...)

	for turns := 0; turns < a.maxTurns && !b.Status.IsTerminal(); turns++ {
		action, ok := nextAutoAction(b, actor.TrainerName, a.manager.resolver.Rand())
		if !ok {
			break
		}
		step, err := a.manager.act(ctx, sessionID, actor, action)
		if err != nil {
			return nil, err
		}
		b = step.Battle
		entries = append(entries, step.Entries...)
	}

	if !b.Status.IsTerminal() {
		step, err := a.manager.ResolveBattle(ctx, sessionID, actor)
		if err != nil {
			return nil, err
		}
		b = step.Battle
		entries = append(entries, step.Entries...)
	}

	return &AutoBattleResult{Battle: b, Entries: entries, Outcome: autoOutcome(b, actor.TrainerName)}, nil
}

// nextAutoAction 需要换人时派出第一只可战斗的精灵，体力过低时换上后备，否则按难度选招式
// 任意一方已无可战斗精灵时返回 false
func nextAutoAction(b *engine.Battle, trainerName string, r engine.RandSource) (engine.Action, bool) {
	me := b.ParticipantByName(trainerName)
	if me == nil || me.AvailableCount() == 0 || b.SideAvailableCount(me.Side.Opposite()) == 0 {
		return engine.Action{}, false
	}
	if me.NeedsReplacement() {
		return engine.Action{Type: engine.ActionRelease, SlotIndex: me.FirstAvailableSlot()}, true
	}
	profile := engine.ProfileFor(engine.DifficultyHard)
	if slot := engine.ChooseSwitch(me, profile); slot != engine.NoSlot {
		return engine.Action{Type: engine.ActionRelease, SlotIndex: slot}, true
	}

	var foe *engine.MonsterState
	for _, p := range b.SideParticipants(me.Side.Opposite()) {
		if m := p.ActiveMonster(); m != nil && m.Available() {
			foe = m
			break
		}
	}
	if foe == nil {
		return engine.Action{}, false
	}
	attacker := me.ActiveMonster()
	move := engine.Struggle.Name
	if idx := engine.ChooseMove(attacker, foe, b.Weather, b.Terrain, profile, r); idx >= 0 {
		move = attacker.Moves[idx].Name
	}
	return engine.Action{Type: engine.ActionAttack, MoveName: move}, true
}

func autoOutcome(b *engine.Battle, trainerName string) string {
	if b.Status == engine.StatusFled {
		return AutoOutcomeFled
	}
	if b.WinnerSide == engine.SideNone {
		return AutoOutcomeDraw
	}
	me := b.ParticipantByName(trainerName)
	if me == nil || me.Side != b.WinnerSide {
		return AutoOutcomeLost
	}
	if wild := b.WildParticipant(); wild != nil {
		for _, m := range wild.Monsters {
			if m.Captured {
				return AutoOutcomeCaptured
			}
		}
	}
	return AutoOutcomeWon
}
