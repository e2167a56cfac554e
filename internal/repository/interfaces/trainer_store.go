package interfaces

import (
	"context"

	"monster-battle/internal/modules/battle/engine"
)

// Trainer 训练师
type Trainer struct {
	ID   string
	Name string
	// OwnerID 训练师所属的身份 ID
	OwnerID string
}

// TrainerStore 训练师、精灵与背包的存取。
type TrainerStore interface {
	// FindTrainerByName 按名称查找训练师，不存在时返回 CodeTrainerNotFound
	FindTrainerByName(ctx context.Context, name string) (*Trainer, error)
	// PartySnapshot 训练师当前队伍，按队伍顺序返回
	PartySnapshot(ctx context.Context, trainerID string) ([]*engine.MonsterState, error)
	// FindMonsterByName 在训练师的精灵中按名称查找
	FindMonsterByName(ctx context.Context, trainerID, name string) (*engine.MonsterState, error)

	ItemQuantity(ctx context.Context, trainerID, itemName string) (int, error)
	// ConsumeItem 扣减道具，数量不足时返回 CodeInsufficientItems
	ConsumeItem(ctx context.Context, trainerID, itemName string, quantity int) error
	RefundItem(ctx context.Context, trainerID, itemName string, quantity int) error

	// PersistMonsterOutcome 对战结束后写回体力、异常状态与等级
	PersistMonsterOutcome(ctx context.Context, trainerID string, monster *engine.MonsterState) error
	// AddCapturedMonster 把捕获的野生精灵加入训练师名下
	AddCapturedMonster(ctx context.Context, trainerID string, monster *engine.MonsterState) error
}
