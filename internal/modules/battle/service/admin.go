package service

import (
	"context"
	"fmt"
	"strings"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/xerrors"
)

// StaticAdminAuthorizer 按配置的身份 ID 列表判断 GM 权限，可叠加远程授权
type StaticAdminAuthorizer struct {
	ids      map[string]struct{}
	fallback AdminAuthorizer
}

// NewStaticAdminAuthorizer 创建授权器，fallback 为空时只使用静态列表
func NewStaticAdminAuthorizer(ids []string, fallback AdminAuthorizer) *StaticAdminAuthorizer {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return &StaticAdminAuthorizer{ids: set, fallback: fallback}
}

// IsAdmin 静态列表命中时不再查询远程
func (a *StaticAdminAuthorizer) IsAdmin(ctx context.Context, identityID string) (bool, error) {
	if identityID == "" {
		return false, nil
	}
	if _, ok := a.ids[identityID]; ok {
		return true, nil
	}
	if a.fallback == nil {
		return false, nil
	}
	return a.fallback.IsAdmin(ctx, identityID)
}

func (m *BattleManager) isAdmin(ctx context.Context, identityID string) (bool, error) {
	if m.admins == nil || identityID == "" {
		return false, nil
	}
	ok, err := m.admins.IsAdmin(ctx, identityID)
	if err != nil {
		return false, xerrors.Wrap(err, xerrors.CodeExternalServiceError, "check admin permission failed")
	}
	return ok, nil
}

// requireAdmin 在读取对战之前校验权限
func (m *BattleManager) requireAdmin(ctx context.Context, identityID, operation string) error {
	ok, err := m.isAdmin(ctx, identityID)
	if err != nil {
		return err
	}
	if !ok {
		return xerrors.NewAdminRequiredError(identityID, operation)
	}
	return nil
}

// adminMutate GM 修改对战环境，不推进回合号
func (m *BattleManager) adminMutate(ctx context.Context, sessionID, identityID, operation string, mutate func(b *engine.Battle) (string, error)) (*TurnResult, error) {
	if err := m.requireAdmin(ctx, identityID, operation); err != nil {
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
	next := cur.Clone()
	summary, err := mutate(next)
	if err != nil {
		return nil, err
	}
	entries := next.StampEntries([]engine.LogEntry{m.systemEntry(engine.ActionSystem, engine.SideNone, "GM", summary)})

	if winner := next.WinningSide(); winner != engine.SideNone {
		entries = append(entries, m.conclude(next, engine.StatusResolved, winner, "")...)
		entries[len(entries)-1].ResultSummary = describeResult(next)
	}

	if err := m.commit(ctx, e, next, entries); err != nil {
		return nil, err
	}
	log.LogBusinessEvent(ctx, m.logger, "battle_admin_"+operation, "battle", next.ID, map[string]interface{}{
		"identity_id": identityID,
		"summary":     summary,
	})
	if next.Status.IsTerminal() {
		m.finish(ctx, e, next, finishOptions{})
	}
	return &TurnResult{Battle: next, Entries: entries}, nil
}

// SetWeather GM 修改天气
func (m *BattleManager) SetWeather(ctx context.Context, sessionID, identityID string, weather engine.Weather) (*TurnResult, error) {
	parsed, ok := engine.ParseWeather(string(weather))
	if !ok {
		return nil, xerrors.NewValidationError("weather", fmt.Sprintf("unknown weather %q", weather))
	}
	weather = parsed
	return m.adminMutate(ctx, sessionID, identityID, "set_weather", func(b *engine.Battle) (string, error) {
		b.Weather = weather
		return fmt.Sprintf("The weather changed to %s", weather), nil
	})
}

// SetTerrain GM 修改场地
func (m *BattleManager) SetTerrain(ctx context.Context, sessionID, identityID string, terrain engine.Terrain) (*TurnResult, error) {
	parsed, ok := engine.ParseTerrain(string(terrain))
	if !ok {
		return nil, xerrors.NewValidationError("terrain", fmt.Sprintf("unknown terrain %q", terrain))
	}
	terrain = parsed
	return m.adminMutate(ctx, sessionID, identityID, "set_terrain", func(b *engine.Battle) (string, error) {
		b.Terrain = terrain
		return fmt.Sprintf("The terrain changed to %s", terrain), nil
	})
}

// SetWinCondition GM 修改胜利条件，修改后立即重新判定胜负
// 超过任意一方还能达到的击倒数时拒绝
func (m *BattleManager) SetWinCondition(ctx context.Context, sessionID, identityID string, knockouts int) (*TurnResult, error) {
	if knockouts < 1 {
		return nil, xerrors.FromCode(xerrors.CodeInvalidWinCondition).WithDetail("win condition must be at least 1, got %d", knockouts)
	}
	return m.adminMutate(ctx, sessionID, identityID, "set_win_condition", func(b *engine.Battle) (string, error) {
		if limit := b.MaxWinCondition(); knockouts > limit {
			return "", xerrors.FromCode(xerrors.CodeInvalidWinCondition).
				WithDetail("win condition %d cannot be reached, at most %d knockouts remain possible", knockouts, limit)
		}
		b.WinCondition = knockouts
		return fmt.Sprintf("The win condition is now %d knockouts", knockouts), nil
	})
}

// ForceWin GM 判定指定一方获胜
func (m *BattleManager) ForceWin(ctx context.Context, sessionID, identityID string, side engine.Side) (*TurnResult, error) {
	return m.force(ctx, sessionID, identityID, side, true)
}

// ForceLose GM 判定指定一方认输，对方获胜
func (m *BattleManager) ForceLose(ctx context.Context, sessionID, identityID string, side engine.Side) (*TurnResult, error) {
	return m.force(ctx, sessionID, identityID, side, false)
}

func (m *BattleManager) force(ctx context.Context, sessionID, identityID string, side engine.Side, win bool) (*TurnResult, error) {
	if side != engine.SideA && side != engine.SideB {
		return nil, xerrors.NewValidationError("side", fmt.Sprintf("unknown side %q", side))
	}
	operation := "force_lose"
	if win {
		operation = "force_win"
	}
	if err := m.requireAdmin(ctx, identityID, operation); err != nil {
		return nil, err
	}

	e, cur, err := m.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	next := cur.Clone()
	var entries []engine.LogEntry
	if win {
		entries = m.conclude(next, engine.StatusResolved, side, fmt.Sprintf("The GM declared side %s the winner", side))
	} else {
		for _, p := range next.SideParticipants(side) {
			p.HasForfeited = true
		}
		entries = m.conclude(next, engine.StatusForfeited, side.Opposite(),
			fmt.Sprintf("The GM declared side %s the loser. Side %s wins the battle", side, side.Opposite()))
	}
	entries[0].ActorName = "GM"

	if err := m.commit(ctx, e, next, entries); err != nil {
		return nil, err
	}
	log.LogBusinessEvent(ctx, m.logger, "battle_admin_"+operation, "battle", next.ID, map[string]interface{}{
		"identity_id": identityID,
		"side":        string(side),
	})
	m.finish(ctx, e, next, finishOptions{})
	return &TurnResult{Battle: next, Entries: entries}, nil
}
