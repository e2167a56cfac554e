package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/xerrors"
)

// InitiateBattle 发起野生对战，训练师为 A 方，生成的野生精灵为 B 方
func (m *BattleManager) InitiateBattle(ctx context.Context, sessionID string, actor Actor) (*TurnResult, error) {
	trainer, err := m.ownedTrainer(ctx, actor)
	if err != nil {
		return nil, err
	}
	player, err := m.newParticipant(ctx, trainer, engine.SideA)
	if err != nil {
		return nil, err
	}
	player.Accepted = true

	battleID := m.newID()
	e, err := m.reserveSession(ctx, sessionID, battleID)
	if err != nil {
		return nil, err
	}

	area, err := m.areas.AreaForSession(ctx, sessionID)
	if err != nil {
		m.abandon(ctx, sessionID, e)
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "load area failed")
	}
	enc, err := m.encounters.GenerateWildEncounter(ctx, area)
	if err == nil && (enc == nil || len(enc.Monsters) == 0 || enc.Monsters[0] == nil) {
		err = fmt.Errorf("encounter source returned no monster")
	}
	if err != nil {
		m.abandon(ctx, sessionID, e)
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "generate encounter failed")
	}

	group := make([]*engine.MonsterState, 0, len(enc.Monsters))
	for _, mon := range enc.Monsters {
		if mon == nil {
			continue
		}
		c := mon.Clone()
		if c.InstanceID == "" {
			c.InstanceID = m.newID()
		}
		if c.Status == "" {
			c.Status = engine.StatusNone
		}
		group = append(group, c)
	}
	wildMon := group[0]
	now := m.now()
	wild := &engine.Participant{
		TrainerID:       wildTrainerPrefix + battleID,
		TrainerName:     "Wild " + wildMon.Name,
		Side:            engine.SideB,
		Synthetic:       true,
		ActiveSlotIndex: 0,
		Accepted:        true,
		Monsters:        group,
		JoinedAt:        now,
	}

	b := &engine.Battle{
		ID:                 battleID,
		AdventureSessionID: sessionID,
		AreaID:             area.AreaID,
		Mode:               engine.ModeWild,
		Status:             engine.StatusActive,
		Weather:            orDefault(enc.Weather, engine.WeatherClear),
		Terrain:            orDefault(enc.Terrain, engine.TerrainNormal),
		ActingSide:         engine.SideA,
		Aggression:         enc.Aggression,
		Aggressive:         enc.Aggressive,
		CreatedAt:          now,
		Participants:       []*engine.Participant{player, wild},
		KOLedger:           map[string]engine.Side{},
	}
	m.applyWinCondition(ctx, b)
	summary := fmt.Sprintf("A wild %s (Lv.%d) appeared! %s sent out %s",
		wildMon.Name, wildMon.Level, player.TrainerName, player.ActiveMonster().Name)
	if len(group) > 1 {
		summary = fmt.Sprintf("A group of %d wild monsters appeared, led by %s (Lv.%d)! %s sent out %s",
			len(group), wildMon.Name, wildMon.Level, player.TrainerName, player.ActiveMonster().Name)
	}
	if enc.Aggressive {
		summary += ". It looks aggressive"
	}
	entries := b.StampEntries([]engine.LogEntry{m.systemEntry(engine.ActionStart, engine.SideA, player.TrainerName, summary)})

	if err := m.commit(ctx, e, b, entries); err != nil {
		m.abandon(ctx, sessionID, e)
		return nil, err
	}
	e.mu.Unlock()

	m.started(ctx, b, summary)
	return &TurnResult{Battle: b, Entries: entries}, nil
}

// applyWinCondition 使用默认胜利条件，超过双方精灵数时下调到双方都能达到的值
func (m *BattleManager) applyWinCondition(ctx context.Context, b *engine.Battle) {
	b.WinCondition = m.winCondition
	if limit := b.MaxWinCondition(); b.WinCondition > limit {
		m.logger.InfoContext(ctx, "win condition capped to party size",
			log.String("battle_id", b.ID), log.Int("configured", m.winCondition), log.Int("applied", limit))
		b.WinCondition = limit
	}
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}

// InitiatePvPBattle 发起训练师对战，发起方为 A 方，被挑战者为 B 方
// autoAccept 为 true 时直接进入 Active，否则等待所有对手接受
func (m *BattleManager) InitiatePvPBattle(ctx context.Context, sessionID string, actor Actor, opponents []string, autoAccept bool) (*TurnResult, error) {
	initiator, err := m.ownedTrainer(ctx, actor)
	if err != nil {
		return nil, err
	}
	names, err := normalizeOpponents(initiator.Name, opponents)
	if err != nil {
		return nil, err
	}

	a, err := m.newParticipant(ctx, initiator, engine.SideA)
	if err != nil {
		return nil, err
	}
	a.Accepted = true
	participants := []*engine.Participant{a}
	for _, name := range names {
		trainer, err := m.trainers.FindTrainerByName(ctx, name)
		if err != nil {
			return nil, err
		}
		p, err := m.newParticipant(ctx, trainer, engine.SideB)
		if err != nil {
			return nil, err
		}
		p.Accepted = autoAccept
		participants = append(participants, p)
	}

	battleID := m.newID()
	e, err := m.reserveSession(ctx, sessionID, battleID)
	if err != nil {
		return nil, err
	}

	area, err := m.areas.AreaForSession(ctx, sessionID)
	if err != nil {
		m.abandon(ctx, sessionID, e)
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "load area failed")
	}

	status := engine.StatusOpen
	if autoAccept {
		status = engine.StatusActive
	}
	b := &engine.Battle{
		ID:                 battleID,
		AdventureSessionID: sessionID,
		AreaID:             area.AreaID,
		Mode:               engine.ModePvP,
		Status:             status,
		Weather:            orDefault(area.Weather, engine.WeatherClear),
		Terrain:            orDefault(area.Terrain, engine.TerrainNormal),
		ActingSide:         engine.SideA,
		CreatedAt:          m.now(),
		Participants:       participants,
		KOLedger:           map[string]engine.Side{},
	}
	m.applyWinCondition(ctx, b)
	summary := fmt.Sprintf("%s challenged %s to a battle", a.TrainerName, strings.Join(names, ", "))
	if autoAccept {
		summary += ". The battle begins"
	}
	entries := b.StampEntries([]engine.LogEntry{m.systemEntry(engine.ActionStart, engine.SideA, a.TrainerName, summary)})

	if err := m.commit(ctx, e, b, entries); err != nil {
		m.abandon(ctx, sessionID, e)
		return nil, err
	}
	e.mu.Unlock()

	m.started(ctx, b, summary)
	return &TurnResult{Battle: b, Entries: entries}, nil
}

func normalizeOpponents(initiator string, opponents []string) ([]string, error) {
	seen := make(map[string]bool, len(opponents))
	var names []string
	for _, raw := range opponents {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if key == strings.ToLower(initiator) {
			return nil, xerrors.NewValidationError("opponents", "a trainer cannot challenge itself")
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, xerrors.NewValidationError("opponents", "at least one opponent is required")
	}
	return names, nil
}

// AcceptPvPBattle 被挑战方接受对战，最后一个接受后对战开始
func (m *BattleManager) AcceptPvPBattle(ctx context.Context, sessionID string, actor Actor) (*TurnResult, error) {
	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if cur.Mode != engine.ModePvP {
		return nil, xerrors.FromCode(xerrors.CodeOperationNotAllowed).WithDetail("only trainer battles need to be accepted")
	}
	if err := requireStatus(cur, engine.StatusOpen); err != nil {
		return nil, err
	}
	next := cur.Clone()
	p, err := participantFor(next, actor)
	if err != nil {
		return nil, err
	}
	if p.Accepted {
		return nil, xerrors.NewConflictError("battle", fmt.Sprintf("%s has already accepted", p.TrainerName))
	}
	p.Accepted = true

	pending := 0
	for _, q := range next.Participants {
		if !q.Accepted {
			pending++
		}
	}
	summary := fmt.Sprintf("%s accepted the challenge", p.TrainerName)
	if pending == 0 {
		next.Status = engine.StatusActive
		summary += ". The battle begins"
	}
	entries := next.StampEntries([]engine.LogEntry{m.systemEntry(engine.ActionJoin, p.Side, p.TrainerName, summary)})

	if err := m.commit(ctx, e, next, entries); err != nil {
		return nil, err
	}
	log.LogBusinessEvent(ctx, m.logger, "battle_accepted", "battle", next.ID, map[string]interface{}{
		"trainer": p.TrainerName,
		"pending": pending,
	})
	return &TurnResult{Battle: next, Entries: entries}, nil
}

// JoinBattle 另一名训练师加入进行中的野生对战，与发起者同为 A 方
func (m *BattleManager) JoinBattle(ctx context.Context, sessionID string, actor Actor) (*TurnResult, error) {
	trainer, err := m.ownedTrainer(ctx, actor)
	if err != nil {
		return nil, err
	}

	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := requireStatus(cur, engine.StatusActive); err != nil {
		return nil, err
	}
	if cur.Mode != engine.ModeWild {
		return nil, xerrors.FromCode(xerrors.CodeOperationNotAllowed).WithDetail("trainer battles cannot be joined")
	}
	if cur.Participant(trainer.ID) != nil || cur.ParticipantByName(trainer.Name) != nil {
		return nil, xerrors.NewConflictError("battle", fmt.Sprintf("%s is already in the battle", trainer.Name))
	}

	p, err := m.newParticipant(ctx, trainer, engine.SideA)
	if err != nil {
		return nil, err
	}
	p.Accepted = true

	next := cur.Clone()
	next.Participants = append(next.Participants, p)
	summary := fmt.Sprintf("%s joined the battle and sent out %s", p.TrainerName, p.ActiveMonster().Name)
	entries := next.StampEntries([]engine.LogEntry{m.systemEntry(engine.ActionJoin, p.Side, p.TrainerName, summary)})

	if err := m.commit(ctx, e, next, entries); err != nil {
		return nil, err
	}
	log.LogBusinessEvent(ctx, m.logger, "battle_joined", "battle", next.ID, map[string]interface{}{
		"trainer": p.TrainerName,
	})
	return &TurnResult{Battle: next, Entries: entries}, nil
}

// Forfeit 认输，对方直接获胜
func (m *BattleManager) Forfeit(ctx context.Context, sessionID string, actor Actor) (*TurnResult, error) {
	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	next := cur.Clone()
	p, err := participantFor(next, actor)
	if err != nil {
		return nil, err
	}
	p.HasForfeited = true
	entries := m.conclude(next, engine.StatusForfeited, p.Side.Opposite(),
		fmt.Sprintf("%s forfeited. Side %s wins the battle", p.TrainerName, p.Side.Opposite()))
	entries[0].ActorSide, entries[0].ActorName = p.Side, p.TrainerName

	if err := m.commit(ctx, e, next, entries); err != nil {
		return nil, err
	}
	m.finish(ctx, e, next, finishOptions{})
	return &TurnResult{Battle: next, Entries: entries}, nil
}

// ResolveBattle 立即结算进行中的对战，击倒数多的一方获胜，相同则平局
// 调用方须是参与者或 GM
func (m *BattleManager) ResolveBattle(ctx context.Context, sessionID string, actor Actor) (*TurnResult, error) {
	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := requireStatus(cur, engine.StatusActive); err != nil {
		return nil, err
	}
	if _, err := participantFor(cur, actor); err != nil {
		admin, aerr := m.isAdmin(ctx, actor.IdentityID)
		if aerr != nil {
			return nil, aerr
		}
		if !admin {
			return nil, err
		}
	}

	next := cur.Clone()
	entries := m.conclude(next, engine.StatusResolved, next.LeadingSide(), "")
	entries[0].ResultSummary = describeResult(next)

	if err := m.commit(ctx, e, next, entries); err != nil {
		return nil, err
	}
	m.finish(ctx, e, next, finishOptions{})
	return &TurnResult{Battle: next, Entries: entries}, nil
}

// ReapIdle 强制结束闲置超时的对战，不发放奖励，返回回收数量
func (m *BattleManager) ReapIdle(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-m.idleTimeout)

	candidates := make(map[string]struct{})
	for _, sessionID := range m.registry.Sessions() {
		if b := m.registry.Snapshot(sessionID); b != nil && b.UpdatedAt.Before(cutoff) {
			candidates[sessionID] = struct{}{}
		}
	}
	stored, listErr := m.repo.ListIdleSessions(ctx, cutoff)
	if listErr != nil {
		listErr = xerrors.NewDatabaseError("list_idle", battleTable, listErr)
	}
	for _, sessionID := range stored {
		candidates[sessionID] = struct{}{}
	}

	sessions := make([]string, 0, len(candidates))
	for sessionID := range candidates {
		sessions = append(sessions, sessionID)
	}
	sort.Strings(sessions)

	reaped := 0
	for _, sessionID := range sessions {
		if err := ctx.Err(); err != nil {
			return reaped, err
		}
		ok, err := m.reapOne(ctx, sessionID, cutoff)
		if err != nil {
			m.logger.WarnContext(ctx, "reap idle battle failed",
				log.String("session_id", sessionID), log.Any("error", err))
			continue
		}
		if ok {
			reaped++
		}
	}
	return reaped, listErr
}

func (m *BattleManager) reapOne(ctx context.Context, sessionID string, cutoff time.Time) (bool, error) {
	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		if xerrors.HasCode(err, xerrors.CodeBattleNotFound) || xerrors.HasCode(err, xerrors.CodeBattleNotActive) {
			return false, nil
		}
		return false, err
	}
	defer e.mu.Unlock()

	// 加锁期间可能有新的动作
	if !cur.UpdatedAt.Before(cutoff) {
		return false, nil
	}

	next := cur.Clone()
	entries := m.conclude(next, engine.StatusForfeited, engine.SideNone,
		fmt.Sprintf("The battle was closed after %s of inactivity", m.idleTimeout))
	entries[0].ActionType = engine.ActionSystem

	if err := m.commit(ctx, e, next, entries); err != nil {
		return false, err
	}
	m.finish(ctx, e, next, finishOptions{skipRewards: true})
	if m.metrics != nil {
		m.metrics.RecordBattleReaped(metrics.GetServiceName())
	}
	return true, nil
}
