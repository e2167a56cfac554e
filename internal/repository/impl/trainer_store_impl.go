package impl

import (
	"context"
	"database/sql"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/friendsofgo/errors"
	"github.com/google/uuid"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/xerrors"
	"monster-battle/internal/repository/interfaces"
)

// MaxPartySize 队伍上限，超出的捕获精灵进入仓库
const MaxPartySize = engine.MaxPartySize

type trainerStoreImpl struct {
	db DB
}

// NewTrainerStore 创建训练师存储实例
func NewTrainerStore(db DB) interfaces.TrainerStore {
	return &trainerStoreImpl{db: db}
}

type trainerRow struct {
	ID      string `boil:"id"`
	Name    string `boil:"name"`
	OwnerID string `boil:"owner_id"`
}

type monsterRow struct {
	ID    string     `boil:"id"`
	State types.JSON `boil:"state"`
}

type quantityRow struct {
	Quantity int `boil:"quantity"`
}

func (row *monsterRow) toState() (*engine.MonsterState, error) {
	var m engine.MonsterState
	if err := row.State.Unmarshal(&m); err != nil {
		return nil, errors.Wrapf(err, "解析精灵 %s 失败", row.ID)
	}
	m.MonsterID = row.ID
	if m.Status == "" {
		m.Status = engine.StatusNone
	}
	return &m, nil
}

// storedState 去掉只在对战中有效的字段
func storedState(m *engine.MonsterState) (types.JSON, error) {
	c := m.Clone()
	c.InstanceID = ""
	c.Stages = engine.StatStages{}
	c.LevelsGained = 0
	c.Captured = false
	var state types.JSON
	if err := state.Marshal(c); err != nil {
		return nil, errors.Wrap(err, "序列化精灵失败")
	}
	return state, nil
}

// FindTrainerByName 按名称查找训练师（不区分大小写）
func (s *trainerStoreImpl) FindTrainerByName(ctx context.Context, name string) (*interfaces.Trainer, error) {
	var row trainerRow
	err := queries.Raw(`
		SELECT id, name, owner_id
		FROM battle.trainers
		WHERE lower(name) = lower($1) AND deleted_at IS NULL
	`, name).Bind(ctx, s.db, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, xerrors.NewTrainerNotFoundError(name)
	}
	if err != nil {
		return nil, xerrors.Wrap(errors.Wrapf(err, "查询训练师 %s 失败", name), xerrors.CodeDatabaseError, "find trainer failed")
	}
	return &interfaces.Trainer{ID: row.ID, Name: row.Name, OwnerID: row.OwnerID}, nil
}

// PartySnapshot 训练师当前队伍，按队伍位置排序
func (s *trainerStoreImpl) PartySnapshot(ctx context.Context, trainerID string) ([]*engine.MonsterState, error) {
	var rows []*monsterRow
	err := queries.Raw(`
		SELECT id, state
		FROM battle.trainer_monsters
		WHERE trainer_id = $1 AND party_slot IS NOT NULL
		ORDER BY party_slot
	`, trainerID).Bind(ctx, s.db, &rows)
	if err != nil {
		return nil, xerrors.Wrap(errors.Wrapf(err, "查询训练师 %s 队伍失败", trainerID), xerrors.CodeDatabaseError, "load party failed")
	}

	party := make([]*engine.MonsterState, 0, len(rows))
	for _, row := range rows {
		m, err := row.toState()
		if err != nil {
			return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "load party failed")
		}
		party = append(party, m)
	}
	return party, nil
}

// FindMonsterByName 在训练师的精灵中按名称查找，队伍中的优先
func (s *trainerStoreImpl) FindMonsterByName(ctx context.Context, trainerID, name string) (*engine.MonsterState, error) {
	var row monsterRow
	err := queries.Raw(`
		SELECT id, state
		FROM battle.trainer_monsters
		WHERE trainer_id = $1 AND lower(name) = lower($2)
		ORDER BY party_slot NULLS LAST
		LIMIT 1
	`, trainerID, name).Bind(ctx, s.db, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, xerrors.NewMonsterNotFoundError(name)
	}
	if err != nil {
		return nil, xerrors.Wrap(errors.Wrapf(err, "查询精灵 %s 失败", name), xerrors.CodeDatabaseError, "find monster failed")
	}
	m, err := row.toState()
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "find monster failed")
	}
	return m, nil
}

// ItemQuantity 道具数量，没有记录时为 0
func (s *trainerStoreImpl) ItemQuantity(ctx context.Context, trainerID, itemName string) (int, error) {
	var row quantityRow
	err := queries.Raw(`
		SELECT quantity
		FROM battle.trainer_items
		WHERE trainer_id = $1 AND item_name = $2
	`, trainerID, itemName).Bind(ctx, s.db, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, xerrors.Wrap(errors.Wrapf(err, "查询道具 %s 失败", itemName), xerrors.CodeDatabaseError, "load item quantity failed")
	}
	return row.Quantity, nil
}

// ConsumeItem 扣减道具，数量不足时不修改
func (s *trainerStoreImpl) ConsumeItem(ctx context.Context, trainerID, itemName string, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE battle.trainer_items
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE trainer_id = $1 AND item_name = $2 AND quantity >= $3
	`, trainerID, itemName, quantity)
	if err != nil {
		return xerrors.Wrap(errors.Wrapf(err, "扣减道具 %s 失败", itemName), xerrors.CodeDatabaseError, "consume item failed")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return xerrors.Wrap(err, xerrors.CodeDatabaseError, "consume item failed")
	}
	if affected == 0 {
		return xerrors.FromCode(xerrors.CodeInsufficientItems).WithDetail("%s", itemName)
	}
	return nil
}

// RefundItem 退还道具
func (s *trainerStoreImpl) RefundItem(ctx context.Context, trainerID, itemName string, quantity int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO battle.trainer_items (trainer_id, item_name, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (trainer_id, item_name) DO UPDATE SET
			quantity   = battle.trainer_items.quantity + EXCLUDED.quantity,
			updated_at = NOW()
	`, trainerID, itemName, quantity)
	if err != nil {
		return xerrors.Wrap(errors.Wrapf(err, "退还道具 %s 失败", itemName), xerrors.CodeDatabaseError, "refund item failed")
	}
	return nil
}

// PersistMonsterOutcome 写回体力、异常状态与等级
func (s *trainerStoreImpl) PersistMonsterOutcome(ctx context.Context, trainerID string, monster *engine.MonsterState) error {
	state, err := storedState(monster)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE battle.trainer_monsters
		SET level = $3, current_hp = $4, status = $5, state = $6, updated_at = NOW()
		WHERE id = $1 AND trainer_id = $2
	`, monster.MonsterID, trainerID, monster.Level, monster.CurrentHP, string(monster.Status), state)
	if err != nil {
		return errors.Wrapf(err, "写回精灵 %s 失败", monster.MonsterID)
	}
	return nil
}

// AddCapturedMonster 把捕获的精灵加入队伍，队伍已满时放入仓库
func (s *trainerStoreImpl) AddCapturedMonster(ctx context.Context, trainerID string, monster *engine.MonsterState) error {
	id := uuid.NewString()
	c := monster.Clone()
	c.MonsterID = id
	state, err := storedState(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO battle.trainer_monsters (
			id, trainer_id, name, species, level, current_hp, status, state, party_slot, created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8,
			CASE WHEN count(*) < $9 THEN COALESCE(MAX(party_slot) + 1, 0) END,
			NOW(), NOW()
		FROM battle.trainer_monsters
		WHERE trainer_id = $2 AND party_slot IS NOT NULL
	`, id, trainerID, c.Name, null.NewString(c.Species, c.Species != ""), c.Level, c.CurrentHP, string(c.Status), state, MaxPartySize)
	if err != nil {
		return errors.Wrapf(err, "保存捕获的精灵 %s 失败", c.Name)
	}
	return nil
}
