package impl

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/modules/battle/engine"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleBattle() *engine.Battle {
	return &engine.Battle{
		ID:                 "battle-1",
		AdventureSessionID: "session-1",
		Mode:               engine.ModeWild,
		Status:             engine.StatusActive,
		Weather:            engine.WeatherClear,
		Terrain:            engine.TerrainNormal,
		WinCondition:       1,
		TurnNumber:         1,
		ActingSide:         engine.SideA,
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
		Participants: []*engine.Participant{
			{TrainerID: "ash", TrainerName: "Ash", Side: engine.SideA, Accepted: true},
		},
		KOLedger: map[string]engine.Side{},
	}
}

func TestBattleRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBattleRepository(db)
	ctx := context.Background()

	t.Run("快照与记录在同一事务中写入", func(t *testing.T) {
		b := sampleBattle()
		entries := []engine.LogEntry{
			{BattleID: b.ID, TurnNumber: 1, Sequence: 0, ActorSide: engine.SideA, ActorName: "Pikachu", ActionType: engine.ActionAttack, ResultSummary: "hit", Timestamp: testNow},
			{BattleID: b.ID, TurnNumber: 1, Sequence: 1, ActionType: engine.ActionStatusTick, ResultSummary: "tick", Timestamp: testNow},
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO battle.battles").
			WithArgs(b.ID, b.AdventureSessionID, "wild", "active", 1, nil, sqlmock.AnyArg(), testNow, testNow, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO battle.battle_log_entries").
			WithArgs(
				b.ID, 1, 0, "A", "Pikachu", "attack", nil, "hit", testNow,
				b.ID, 1, 1, nil, nil, "status_tick", nil, "tick", testNow,
			).
			WillReturnResult(sqlmock.NewResult(2, 2))
		mock.ExpectCommit()

		require.NoError(t, repo.Save(ctx, b, entries))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("没有新记录时只写快照", func(t *testing.T) {
		b := sampleBattle()
		resolved := testNow.Add(time.Minute)
		b.Status = engine.StatusResolved
		b.WinnerSide = engine.SideA
		b.ResolvedAt = &resolved

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO battle.battles").
			WithArgs(b.ID, b.AdventureSessionID, "wild", "resolved", 1, "A", sqlmock.AnyArg(), testNow, testNow, resolved).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Save(ctx, b, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("写入记录失败时回滚", func(t *testing.T) {
		b := sampleBattle()
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO battle.battles").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO battle.battle_log_entries").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Save(ctx, b, []engine.LogEntry{{BattleID: b.ID, ActionType: engine.ActionStart, ResultSummary: "start", Timestamp: testNow}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBattleRepository_FindLatestBySession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBattleRepository(db)
	ctx := context.Background()

	t.Run("解析快照", func(t *testing.T) {
		b := sampleBattle()
		b.KOLedger = nil
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		mock.ExpectQuery("SELECT snapshot").
			WithArgs("session-1").
			WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(raw))

		got, err := repo.FindLatestBySession(ctx, "session-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "battle-1", got.ID)
		assert.Equal(t, engine.StatusActive, got.Status)
		assert.NotNil(t, got.KOLedger)
		require.Len(t, got.Participants, 1)
		assert.Equal(t, "Ash", got.Participants[0].TrainerName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("会话没有对战", func(t *testing.T) {
		mock.ExpectQuery("SELECT snapshot").
			WithArgs("session-2").
			WillReturnRows(sqlmock.NewRows([]string{"snapshot"}))

		got, err := repo.FindLatestBySession(ctx, "session-2")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBattleRepository_ListLogEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBattleRepository(db)

	columns := []string{
		"battle_id", "turn_number", "sequence", "actor_side", "actor_name",
		"action_type", "narrative_message", "result_summary", "created_at",
	}
	mock.ExpectQuery("FROM battle.battle_log_entries").
		WithArgs("battle-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("battle-1", 0, 0, nil, nil, "start", nil, "A wild Rattata appeared", testNow).
			AddRow("battle-1", 1, 0, "A", "Pikachu", "attack", "Go Pikachu!", "Pikachu used Thunder Shock", testNow))

	entries, err := repo.ListLogEntries(context.Background(), "battle-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, engine.ActionStart, entries[0].ActionType)
	assert.Equal(t, engine.SideNone, entries[0].ActorSide)
	assert.Empty(t, entries[0].NarrativeMessage)
	assert.Equal(t, engine.SideA, entries[1].ActorSide)
	assert.Equal(t, "Go Pikachu!", entries[1].NarrativeMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBattleRepository_ListIdleSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBattleRepository(db)
	before := testNow.Add(-30 * time.Minute)

	mock.ExpectQuery("SELECT adventure_session_id").
		WithArgs("open", "active", before).
		WillReturnRows(sqlmock.NewRows([]string{"adventure_session_id"}).
			AddRow("session-1").
			AddRow("session-3"))

	sessions, err := repo.ListIdleSessions(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, []string{"session-1", "session-3"}, sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
