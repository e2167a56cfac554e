package interfaces

import (
	"context"
	"time"

	"github.com/aarondl/sqlboiler/v4/types"
)

// RewardGrant 一条对战奖励
type RewardGrant struct {
	BattleID  string
	TrainerID string
	// Outcome win / lose / draw / forfeit
	Outcome    string
	Experience int64
	Coins      types.Decimal
	WordBonus  types.Decimal
	GrantedAt  time.Time
}

// RewardLedger 奖励流水，同一场对战同一训练师只记一次。
type RewardLedger interface {
	// Record 写入奖励，已存在时返回 false
	Record(ctx context.Context, grant *RewardGrant) (bool, error)
	ListByBattle(ctx context.Context, battleID string) ([]*RewardGrant, error)
}
