package impl

import (
	"context"
	"time"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/friendsofgo/errors"

	"monster-battle/internal/repository/interfaces"
)

type rewardLedgerImpl struct {
	db DB
}

// NewRewardLedger 创建奖励流水仓储实例
func NewRewardLedger(db DB) interfaces.RewardLedger {
	return &rewardLedgerImpl{db: db}
}

type rewardRow struct {
	BattleID   string        `boil:"battle_id"`
	TrainerID  string        `boil:"trainer_id"`
	Outcome    string        `boil:"outcome"`
	Experience int64         `boil:"experience"`
	Coins      types.Decimal `boil:"coins"`
	WordBonus  types.Decimal `boil:"word_bonus"`
	GrantedAt  time.Time     `boil:"granted_at"`
}

// Record 写入奖励并累加到训练师，(battle_id, trainer_id) 已存在时不做任何修改
func (l *rewardLedgerImpl) Record(ctx context.Context, grant *interfaces.RewardGrant) (bool, error) {
	if grant == nil {
		return false, errors.New("reward grant is nil")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "开启事务失败")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO battle.battle_rewards (
			battle_id, trainer_id, outcome, experience, coins, word_bonus, granted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (battle_id, trainer_id) DO NOTHING
	`, grant.BattleID, grant.TrainerID, grant.Outcome, grant.Experience, grant.Coins, grant.WordBonus, grant.GrantedAt)
	if err != nil {
		return false, errors.Wrapf(err, "写入对战 %s 奖励失败", grant.BattleID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "读取影响行数失败")
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE battle.trainers
		SET experience = experience + $2, coins = coins + $3, updated_at = NOW()
		WHERE id = $1
	`, grant.TrainerID, grant.Experience, grant.Coins)
	if err != nil {
		return false, errors.Wrapf(err, "累加训练师 %s 奖励失败", grant.TrainerID)
	}

	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "提交事务失败")
	}
	return true, nil
}

// ListByBattle 查询对战的全部奖励
func (l *rewardLedgerImpl) ListByBattle(ctx context.Context, battleID string) ([]*interfaces.RewardGrant, error) {
	var rows []*rewardRow
	err := queries.Raw(`
		SELECT battle_id, trainer_id, outcome, experience, coins, word_bonus, granted_at
		FROM battle.battle_rewards
		WHERE battle_id = $1
		ORDER BY trainer_id
	`, battleID).Bind(ctx, l.db, &rows)
	if err != nil {
		return nil, errors.Wrapf(err, "查询对战 %s 奖励失败", battleID)
	}

	grants := make([]*interfaces.RewardGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, &interfaces.RewardGrant{
			BattleID:   row.BattleID,
			TrainerID:  row.TrainerID,
			Outcome:    row.Outcome,
			Experience: row.Experience,
			Coins:      row.Coins,
			WordBonus:  row.WordBonus,
			GrantedAt:  row.GrantedAt,
		})
	}
	return grants, nil
}
