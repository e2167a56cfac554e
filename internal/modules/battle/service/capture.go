package service

import (
	"context"
	"math"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/xerrors"
)

const (
	minCaptureChance = 0.05
	maxCaptureChance = 1.0
	// 高于 10 级后每级降低的捕获率
	levelPenaltyPerLevel = 0.02
	levelPenaltyFrom     = 10
	// 满血到濒死之间最多增加的捕获率
	lowHPBonus = 0.5
)

// CaptureChance 根据球的捕获率、目标等级与剩余体力计算捕获概率
func CaptureChance(ballRate float64, target *engine.MonsterState) float64 {
	hpRatio := 1.0
	if target.MaxHP > 0 {
		hpRatio = float64(target.CurrentHP) / float64(target.MaxHP)
	}
	penalty := math.Max(0, float64(target.Level-levelPenaltyFrom)*levelPenaltyPerLevel)
	chance := ballRate - penalty + (1-hpRatio)*lowHPBonus
	return math.Min(maxCaptureChance, math.Max(minCaptureChance, chance))
}

// BallCaptureResolver 按道具捕获率掷骰的捕获判定
type BallCaptureResolver struct {
	rand engine.RandSource
}

// NewBallCaptureResolver 创建捕获判定器
func NewBallCaptureResolver(r engine.RandSource) *BallCaptureResolver {
	if r == nil {
		r = engine.DefaultRandSource()
	}
	return &BallCaptureResolver{rand: r}
}

// AttemptCapture 掷骰判定本次捕获是否成功，Master Ball 必定成功
func (c *BallCaptureResolver) AttemptCapture(ctx context.Context, target *engine.MonsterState, itemName string) (bool, error) {
	if target == nil {
		return false, xerrors.FromCode(xerrors.CodeNoActiveMonster)
	}
	item, ok := engine.LookupItem(itemName)
	if !ok || item.Kind != engine.ItemBall {
		return false, xerrors.FromCode(xerrors.CodeItemNotUsable).WithDetail("%s", itemName)
	}
	if item.CatchRate >= 1 {
		return true, nil
	}
	return c.rand.Float64() < CaptureChance(item.CatchRate, target), nil
}
