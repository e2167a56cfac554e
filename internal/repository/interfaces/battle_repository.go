package interfaces

import (
	"context"
	"time"

	"monster-battle/internal/modules/battle/engine"
)

// BattleRepository 对战快照与对战记录的持久化。
type BattleRepository interface {
	// Save 在同一事务中写入快照并追加记录
	Save(ctx context.Context, battle *engine.Battle, entries []engine.LogEntry) error
	// FindLatestBySession 查询会话最近一场对战，不存在时返回 nil
	FindLatestBySession(ctx context.Context, sessionID string) (*engine.Battle, error)
	// ListLogEntries 按回合与序号排序返回对战记录
	ListLogEntries(ctx context.Context, battleID string) ([]engine.LogEntry, error)
	// ListIdleSessions 查询在 before 之前最后更新且尚未结束的对战所属会话
	ListIdleSessions(ctx context.Context, before time.Time) ([]string, error)
}
