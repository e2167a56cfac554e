package impl

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/friendsofgo/errors"
)

// schemaStatements 对战服务的表结构，全部可重复执行
var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS battle`,
	`CREATE TABLE IF NOT EXISTS battle.trainers (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		owner_id    TEXT NOT NULL,
		experience  BIGINT NOT NULL DEFAULT 0,
		coins       NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at  TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS trainers_name_uq ON battle.trainers (lower(name)) WHERE deleted_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS battle.trainer_monsters (
		id          TEXT PRIMARY KEY,
		trainer_id  TEXT NOT NULL REFERENCES battle.trainers (id),
		name        TEXT NOT NULL,
		species     TEXT,
		level       INT NOT NULL,
		current_hp  INT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'none',
		state       JSONB NOT NULL,
		party_slot  INT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS trainer_monsters_party_idx ON battle.trainer_monsters (trainer_id, party_slot)`,
	`CREATE TABLE IF NOT EXISTS battle.trainer_items (
		trainer_id  TEXT NOT NULL REFERENCES battle.trainers (id),
		item_name   TEXT NOT NULL,
		quantity    INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (trainer_id, item_name)
	)`,
	`CREATE TABLE IF NOT EXISTS battle.battles (
		id                    TEXT PRIMARY KEY,
		adventure_session_id  TEXT NOT NULL,
		mode                  TEXT NOT NULL,
		status                TEXT NOT NULL,
		turn_number           INT NOT NULL DEFAULT 0,
		winner_side           TEXT,
		snapshot              JSONB NOT NULL,
		created_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL,
		resolved_at           TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS battles_session_idx ON battle.battles (adventure_session_id, created_at DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS battles_one_active_uq ON battle.battles (adventure_session_id) WHERE status IN ('open', 'active')`,
	`CREATE TABLE IF NOT EXISTS battle.battle_log_entries (
		id                 BIGSERIAL PRIMARY KEY,
		battle_id          TEXT NOT NULL REFERENCES battle.battles (id),
		turn_number        INT NOT NULL,
		sequence           INT NOT NULL,
		actor_side         TEXT,
		actor_name         TEXT,
		action_type        TEXT NOT NULL,
		narrative_message  TEXT,
		result_summary     TEXT NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS battle_log_entries_order_idx ON battle.battle_log_entries (battle_id, turn_number, sequence)`,
	`CREATE TABLE IF NOT EXISTS battle.battle_rewards (
		battle_id   TEXT NOT NULL REFERENCES battle.battles (id),
		trainer_id  TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		experience  BIGINT NOT NULL,
		coins       NUMERIC(12,2) NOT NULL,
		word_bonus  NUMERIC(5,3) NOT NULL,
		granted_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (battle_id, trainer_id)
	)`,
}

// EnsureSchema 创建缺失的表和索引
func EnsureSchema(ctx context.Context, db boil.ContextExecutor) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "初始化对战表结构失败")
		}
	}
	return nil
}
