package impl

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/aarondl/strmangle"
	"github.com/friendsofgo/errors"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/repository/interfaces"
)

// DB 仓储需要的数据库能力，*sql.DB 满足该接口
type DB interface {
	boil.ContextExecutor
	boil.ContextBeginner
}

const logEntryColumns = 9

type battleRepositoryImpl struct {
	db DB
}

// NewBattleRepository 创建对战仓储实例
func NewBattleRepository(db DB) interfaces.BattleRepository {
	return &battleRepositoryImpl{db: db}
}

type battleRow struct {
	Snapshot types.JSON `boil:"snapshot"`
}

type logEntryRow struct {
	BattleID         string      `boil:"battle_id"`
	TurnNumber       int         `boil:"turn_number"`
	Sequence         int         `boil:"sequence"`
	ActorSide        null.String `boil:"actor_side"`
	ActorName        null.String `boil:"actor_name"`
	ActionType       string      `boil:"action_type"`
	NarrativeMessage null.String `boil:"narrative_message"`
	ResultSummary    string      `boil:"result_summary"`
	CreatedAt        time.Time   `boil:"created_at"`
}

type sessionRow struct {
	AdventureSessionID string `boil:"adventure_session_id"`
}

// Save 在同一事务中写入快照并追加记录
func (r *battleRepositoryImpl) Save(ctx context.Context, battle *engine.Battle, entries []engine.LogEntry) error {
	if battle == nil {
		return errors.New("battle is nil")
	}

	var snapshot types.JSON
	if err := snapshot.Marshal(battle); err != nil {
		return errors.Wrap(err, "序列化对战快照失败")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "开启事务失败")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO battle.battles (
			id, adventure_session_id, mode, status, turn_number,
			winner_side, snapshot, created_at, updated_at, resolved_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			status      = EXCLUDED.status,
			turn_number = EXCLUDED.turn_number,
			winner_side = EXCLUDED.winner_side,
			snapshot    = EXCLUDED.snapshot,
			updated_at  = EXCLUDED.updated_at,
			resolved_at = EXCLUDED.resolved_at
	`,
		battle.ID,
		battle.AdventureSessionID,
		string(battle.Mode),
		string(battle.Status),
		battle.TurnNumber,
		null.NewString(string(battle.WinnerSide), battle.WinnerSide != engine.SideNone),
		snapshot,
		battle.CreatedAt,
		battle.UpdatedAt,
		null.TimeFromPtr(battle.ResolvedAt),
	)
	if err != nil {
		return errors.Wrapf(err, "写入对战 %s 失败", battle.ID)
	}

	if len(entries) > 0 {
		args := make([]interface{}, 0, len(entries)*logEntryColumns)
		for _, e := range entries {
			args = append(args,
				battle.ID,
				e.TurnNumber,
				e.Sequence,
				null.NewString(string(e.ActorSide), e.ActorSide != engine.SideNone),
				null.NewString(e.ActorName, e.ActorName != ""),
				string(e.ActionType),
				null.NewString(e.NarrativeMessage, e.NarrativeMessage != ""),
				e.ResultSummary,
				e.Timestamp,
			)
		}
		query := fmt.Sprintf(`
			INSERT INTO battle.battle_log_entries (
				battle_id, turn_number, sequence, actor_side, actor_name,
				action_type, narrative_message, result_summary, created_at
			) VALUES %s`, strmangle.Placeholders(true, len(args), 1, logEntryColumns))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "写入对战 %s 记录失败", battle.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "提交事务失败")
	}
	return nil
}

// FindLatestBySession 查询会话最近一场对战
func (r *battleRepositoryImpl) FindLatestBySession(ctx context.Context, sessionID string) (*engine.Battle, error) {
	var row battleRow
	err := queries.Raw(`
		SELECT snapshot
		FROM battle.battles
		WHERE adventure_session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID).Bind(ctx, r.db, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "查询会话 %s 的对战失败", sessionID)
	}

	var b engine.Battle
	if err := row.Snapshot.Unmarshal(&b); err != nil {
		return nil, errors.Wrap(err, "解析对战快照失败")
	}
	if b.KOLedger == nil {
		b.KOLedger = map[string]engine.Side{}
	}
	return &b, nil
}

// ListLogEntries 按回合、序号排序返回对战记录
func (r *battleRepositoryImpl) ListLogEntries(ctx context.Context, battleID string) ([]engine.LogEntry, error) {
	var rows []*logEntryRow
	err := queries.Raw(`
		SELECT battle_id, turn_number, sequence, actor_side, actor_name,
			action_type, narrative_message, result_summary, created_at
		FROM battle.battle_log_entries
		WHERE battle_id = $1
		ORDER BY turn_number, sequence, id
	`, battleID).Bind(ctx, r.db, &rows)
	if err != nil {
		return nil, errors.Wrapf(err, "查询对战 %s 记录失败", battleID)
	}

	entries := make([]engine.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, engine.LogEntry{
			BattleID:         row.BattleID,
			TurnNumber:       row.TurnNumber,
			Sequence:         row.Sequence,
			ActorSide:        engine.Side(row.ActorSide.String),
			ActorName:        row.ActorName.String,
			ActionType:       engine.ActionType(row.ActionType),
			NarrativeMessage: row.NarrativeMessage.String,
			ResultSummary:    row.ResultSummary,
			Timestamp:        row.CreatedAt,
		})
	}
	return entries, nil
}

// ListIdleSessions 查询闲置的未结束对战所属会话
func (r *battleRepositoryImpl) ListIdleSessions(ctx context.Context, before time.Time) ([]string, error) {
	var rows []*sessionRow
	err := queries.Raw(`
		SELECT adventure_session_id
		FROM battle.battles
		WHERE status IN ($1, $2) AND updated_at < $3
		ORDER BY updated_at
	`, string(engine.StatusOpen), string(engine.StatusActive), before).Bind(ctx, r.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "查询闲置对战失败")
	}

	sessions := make([]string, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.AdventureSessionID)
	}
	return sessions, nil
}
