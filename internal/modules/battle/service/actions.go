package service

import (
	"context"
	"fmt"
	"strings"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/notify"
	"monster-battle/internal/pkg/xerrors"
)

// AttackRequest 攻击参数，Target 可为对方训练师名或精灵名
type AttackRequest struct {
	MoveName  string
	Target    string
	Narrative string
}

// ItemRequest 使用道具参数，Target 为己方精灵名，为空时作用于在场精灵
type ItemRequest struct {
	ItemName  string
	Target    string
	Narrative string
}

// SwapRequest 换人参数，MonsterName 优先于 SlotIndex
type SwapRequest struct {
	MonsterName string
	SlotIndex   int
	Narrative   string
}

// Attack 使用招式攻击
func (m *BattleManager) Attack(ctx context.Context, sessionID string, actor Actor, req AttackRequest) (*TurnResult, error) {
	return m.act(ctx, sessionID, actor, engine.Action{
		Type:       engine.ActionAttack,
		MoveName:   req.MoveName,
		TargetName: req.Target,
		Narrative:  req.Narrative,
	})
}

// UseItem 使用背包中的道具，精灵球会触发捕获判定
func (m *BattleManager) UseItem(ctx context.Context, sessionID string, actor Actor, req ItemRequest) (*TurnResult, error) {
	return m.act(ctx, sessionID, actor, engine.Action{
		Type:       engine.ActionUseItem,
		ItemName:   req.ItemName,
		TargetName: req.Target,
		Narrative:  req.Narrative,
	})
}

// Release 派出队伍中的另一只精灵
func (m *BattleManager) Release(ctx context.Context, sessionID string, actor Actor, req SwapRequest) (*TurnResult, error) {
	return m.act(ctx, sessionID, actor, engine.Action{
		Type:        engine.ActionRelease,
		MonsterName: req.MonsterName,
		SlotIndex:   req.SlotIndex,
		Narrative:   req.Narrative,
	})
}

// Withdraw 收回在场精灵并换上指定位置的精灵
func (m *BattleManager) Withdraw(ctx context.Context, sessionID string, actor Actor, req SwapRequest) (*TurnResult, error) {
	return m.act(ctx, sessionID, actor, engine.Action{
		Type:        engine.ActionWithdraw,
		MonsterName: req.MonsterName,
		SlotIndex:   req.SlotIndex,
		Narrative:   req.Narrative,
	})
}

// Flee 尝试逃离野生对战
func (m *BattleManager) Flee(ctx context.Context, sessionID string, actor Actor, narrative string) (*TurnResult, error) {
	return m.act(ctx, sessionID, actor, engine.Action{
		Type:      engine.ActionFlee,
		Narrative: narrative,
	})
}

func (m *BattleManager) act(ctx context.Context, sessionID string, actor Actor, action engine.Action) (*TurnResult, error) {
	start := m.now()
	res, err := m.doAct(ctx, sessionID, actor, action)
	if m.metrics != nil {
		result := "accepted"
		switch {
		case err == nil:
		case xerrors.KindOf(err) == xerrors.KindInternal:
			result = "failed"
		default:
			result = "rejected"
		}
		m.metrics.RecordAction(string(action.Type), result, m.now().Sub(start), metrics.GetServiceName())
	}
	if err != nil {
		if appErr, ok := xerrors.As(err); ok && appErr.Kind() == xerrors.KindInternal {
			log.LogAppError(ctx, m.logger, "battle action failed", appErr)
		}
		return nil, err
	}
	return res, nil
}

func (m *BattleManager) doAct(ctx context.Context, sessionID string, actor Actor, action engine.Action) (*TurnResult, error) {
	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := requireStatus(cur, engine.StatusActive); err != nil {
		return nil, err
	}
	p, err := participantFor(cur, actor)
	if err != nil {
		return nil, err
	}
	action.TrainerID = p.TrainerID

	forcedRelease := action.Type == engine.ActionRelease && p.NeedsReplacement()
	if cur.Mode == engine.ModePvP && p.Side != cur.ActingSide && !forcedRelease {
		return nil, xerrors.FromCode(xerrors.CodeNotYourTurn).WithDetail("it is side %s's turn", cur.ActingSide)
	}

	if action.Type == engine.ActionUseItem {
		if err := m.prepareItem(ctx, cur, p, &action); err != nil {
			return nil, err
		}
	}

	out, err := m.resolver.Resolve(cur, action)
	if err != nil {
		return nil, err
	}
	next := out.State
	next.AdvanceTurn()
	entries := next.StampEntries(out.Entries)
	for _, f := range out.Faints {
		next.CreditFaint(f)
	}

	if next.Mode == engine.ModeWild && out.ConsumesTurn && !out.Fled && !out.Captured && next.WinningSide() == engine.SideNone {
		var counter []engine.LogEntry
		next, counter = m.wildCounter(ctx, next, p.TrainerID)
		entries = append(entries, counter...)
	}
	if next.Mode == engine.ModeWild && !out.Fled && !out.Captured && next.WinningSide() == engine.SideNone {
		var swap []engine.LogEntry
		next, swap = m.wildReplace(ctx, next)
		entries = append(entries, swap...)
	}
	if next.Mode == engine.ModePvP && out.ConsumesTurn {
		next.ActingSide = next.ActingSide.Opposite()
	}

	var opts finishOptions
	switch {
	case out.Fled:
		entries = append(entries, m.conclude(next, engine.StatusFled, engine.SideNone, describeFled(p.TrainerName))...)
	case out.Captured:
		opts.capturedBy = p.TrainerID
		entries = append(entries, m.conclude(next, engine.StatusResolved, p.Side,
			fmt.Sprintf("%s captured the wild monster. Side %s wins the battle", p.TrainerName, p.Side))...)
	default:
		if winner := next.WinningSide(); winner != engine.SideNone {
			entries = append(entries, m.conclude(next, engine.StatusResolved, winner, "")...)
			entries[len(entries)-1].ResultSummary = describeResult(next)
		}
	}

	if out.ItemUsed != "" {
		if err := m.trainers.ConsumeItem(ctx, p.TrainerID, out.ItemUsed, 1); err != nil {
			return nil, err
		}
	}
	if err := m.commit(ctx, e, next, entries); err != nil {
		if out.ItemUsed != "" {
			if rerr := m.trainers.RefundItem(ctx, p.TrainerID, out.ItemUsed, 1); rerr != nil {
				m.logger.ErrorContext(ctx, "refund item failed",
					log.String("trainer_id", p.TrainerID), log.String("item", out.ItemUsed), log.Any("error", rerr))
			}
		}
		return nil, err
	}

	if next.Status.IsTerminal() {
		m.finish(ctx, e, next, opts)
	} else {
		m.publish(ctx, notify.SubjectBattleTurn, next, summarize(entries))
	}
	return &TurnResult{Battle: next, Entries: entries}, nil
}

func describeFled(trainer string) string {
	return fmt.Sprintf("%s fled from the battle", trainer)
}

// prepareItem 查询背包数量，精灵球预先掷出捕获结果
func (m *BattleManager) prepareItem(ctx context.Context, b *engine.Battle, p *engine.Participant, action *engine.Action) error {
	item, ok := engine.LookupItem(action.ItemName)
	if !ok {
		return xerrors.FromCode(xerrors.CodeItemNotFound).WithDetail("%s", strings.TrimSpace(action.ItemName))
	}
	action.ItemName = item.Name

	qty, err := m.trainers.ItemQuantity(ctx, p.TrainerID, item.Name)
	if err != nil {
		return err
	}
	action.ItemQuantity = qty

	if item.Kind != engine.ItemBall || b.Mode != engine.ModeWild || qty < 1 {
		return nil
	}
	wild := b.WildParticipant()
	if wild == nil {
		return nil
	}
	target := wild.ActiveMonster()
	if target == nil || !target.Available() {
		return nil
	}
	caught, err := m.capture.AttemptCapture(ctx, target, item.Name)
	if err != nil {
		return err
	}
	action.CaptureSucceeded = &caught
	return nil
}

// wildCounter 野生方在同一回合内行动，目标优先为刚行动的训练师
// 出招和换人由攻击性对应的难度决定
func (m *BattleManager) wildCounter(ctx context.Context, b *engine.Battle, actorID string) (*engine.Battle, []engine.LogEntry) {
	wild := b.WildParticipant()
	if wild == nil {
		return b, nil
	}
	attacker := wild.ActiveMonster()
	if attacker == nil || !attacker.Available() {
		return b, nil
	}
	profile := engine.ProfileFor(engine.DifficultyForAggression(b.Aggression))
	if slot := engine.ChooseSwitch(wild, profile); slot != engine.NoSlot {
		return m.wildSwap(ctx, b, wild, slot)
	}

	var target *engine.Participant
	if p := b.Participant(actorID); p != nil && p.ActiveMonster() != nil && p.ActiveMonster().Available() {
		target = p
	} else {
		for _, q := range b.SideParticipants(wild.Side.Opposite()) {
			if mon := q.ActiveMonster(); mon != nil && mon.Available() && !q.HasFled && !q.HasForfeited {
				target = q
				break
			}
		}
	}
	if target == nil {
		return b, nil
	}

	move := engine.Struggle.Name
	if idx := engine.ChooseMove(attacker, target.ActiveMonster(), b.Weather, b.Terrain, profile, m.resolver.Rand()); idx >= 0 {
		move = attacker.Moves[idx].Name
	}
	out, err := m.resolver.Resolve(b, engine.Action{
		Type:         engine.ActionAttack,
		TrainerID:    wild.TrainerID,
		MoveName:     move,
		TargetName:   target.TrainerName,
		EngineDriven: true,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "wild counter move rejected",
			log.String("battle_id", b.ID), log.String("move", move), log.Any("error", err))
		return b, nil
	}
	next := out.State
	entries := next.StampEntries(out.Entries)
	for _, f := range out.Faints {
		next.CreditFaint(f)
	}
	return next, entries
}

// wildReplace 野生方在场精灵倒下后由下一只可战斗的精灵上场，不消耗回合
func (m *BattleManager) wildReplace(ctx context.Context, b *engine.Battle) (*engine.Battle, []engine.LogEntry) {
	wild := b.WildParticipant()
	if wild == nil || !wild.NeedsReplacement() {
		return b, nil
	}
	return m.wildSwap(ctx, b, wild, wild.FirstAvailableSlot())
}

func (m *BattleManager) wildSwap(ctx context.Context, b *engine.Battle, wild *engine.Participant, slot int) (*engine.Battle, []engine.LogEntry) {
	out, err := m.resolver.Resolve(b, engine.Action{
		Type:         engine.ActionRelease,
		TrainerID:    wild.TrainerID,
		SlotIndex:    slot,
		EngineDriven: true,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "wild switch rejected",
			log.String("battle_id", b.ID), log.Int("slot", slot), log.Any("error", err))
		return b, nil
	}
	next := out.State
	return next, next.StampEntries(out.Entries)
}

func summarize(entries []engine.LogEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ResultSummary != "" {
			parts = append(parts, e.ResultSummary)
		}
	}
	return strings.Join(parts, " | ")
}
