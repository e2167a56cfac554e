package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/sqlboiler/v4/types"
	"github.com/ericlagergren/decimal"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/repository/interfaces"
)

const (
	BaseExperience = 100
	BaseCoins      = 50
	// 叙事奖励: 每 1000 字 +100%，上限 +50%
	wordBonusDivisor = 1000
)

// 奖励结果标签
const (
	RewardWin     = "win"
	RewardLose    = "lose"
	RewardDraw    = "draw"
	RewardForfeit = "forfeit"
)

var (
	winExperienceMultiplier = new(decimal.Big).SetMantScale(15, 1)
	winCoinMultiplier       = new(decimal.Big).SetMantScale(12, 1)
	maxWordBonus            = new(decimal.Big).SetMantScale(5, 1)
	one                     = new(decimal.Big).SetMantScale(1, 0)
)

// RewardAmount 单个参与者的奖励
type RewardAmount struct {
	Outcome    string
	Experience int64
	Coins      *decimal.Big
	WordBonus  *decimal.Big
}

// WordBonus 叙事字数带来的奖励加成 min(0.5, words/1000)
func WordBonus(words int) *decimal.Big {
	if words <= 0 {
		return new(decimal.Big)
	}
	bonus := new(decimal.Big).SetMantScale(int64(words), 3)
	if bonus.Cmp(maxWordBonus) > 0 {
		return new(decimal.Big).Copy(maxWordBonus)
	}
	return bonus
}

// ComputeReward 计算单个参与者的奖励，ok 为 false 表示不发放
func ComputeReward(outcome BattleOutcome, p ParticipantOutcome) (RewardAmount, bool) {
	if p.Synthetic {
		return RewardAmount{}, false
	}

	label := RewardDraw
	xpMult, coinMult := one, one
	switch {
	case outcome.Status == engine.StatusForfeited && (p.Forfeited || (outcome.WinnerSide != engine.SideNone && p.Side != outcome.WinnerSide)):
		// 认输方没有奖励
		return RewardAmount{Outcome: RewardForfeit}, false
	case outcome.WinnerSide == engine.SideNone:
	case p.Side != outcome.WinnerSide:
		label = RewardLose
	case outcome.Status == engine.StatusForfeited:
		// 对手认输时获胜方只拿基础奖励
		label = RewardWin
	default:
		label = RewardWin
		xpMult, coinMult = winExperienceMultiplier, winCoinMultiplier
	}

	bonus := WordBonus(p.WordCount)
	factor := new(decimal.Big).Add(one, bonus)

	xp := new(decimal.Big).SetMantScale(BaseExperience, 0)
	xp.Mul(xp, xpMult).Mul(xp, factor)
	experience, _ := xp.Int64()

	coins := new(decimal.Big).SetMantScale(BaseCoins, 0)
	coins.Mul(coins, coinMult).Mul(coins, factor).Quantize(2)

	return RewardAmount{
		Outcome:    label,
		Experience: experience,
		Coins:      coins,
		WordBonus:  bonus,
	}, true
}

// DefaultRewardResolver 将奖励写入奖励流水
type DefaultRewardResolver struct {
	ledger  interfaces.RewardLedger
	metrics *metrics.BattleMetrics
	logger  log.Logger
	now     func() time.Time
}

// NewDefaultRewardResolver 创建默认奖励结算
func NewDefaultRewardResolver(ledger interfaces.RewardLedger, m *metrics.BattleMetrics, logger log.Logger) *DefaultRewardResolver {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &DefaultRewardResolver{
		ledger:  ledger,
		metrics: m,
		logger:  logger.With("component", "reward_resolver"),
		now:     time.Now,
	}
}

// GrantRewards 为每个非野生参与者记录奖励，重复调用不会重复发放
func (r *DefaultRewardResolver) GrantRewards(ctx context.Context, outcome BattleOutcome) error {
	if outcome.Status == engine.StatusFled || !outcome.Status.IsTerminal() {
		return nil
	}

	grantedAt := outcome.ResolvedAt
	if grantedAt.IsZero() {
		grantedAt = r.now()
	}

	for _, p := range outcome.Participants {
		amount, ok := ComputeReward(outcome, p)
		if !ok {
			continue
		}
		inserted, err := r.ledger.Record(ctx, &interfaces.RewardGrant{
			BattleID:   outcome.BattleID,
			TrainerID:  p.TrainerID,
			Outcome:    amount.Outcome,
			Experience: amount.Experience,
			Coins:      types.NewDecimal(amount.Coins),
			WordBonus:  types.NewDecimal(amount.WordBonus),
			GrantedAt:  grantedAt,
		})
		if err != nil {
			return fmt.Errorf("record reward for trainer %s: %w", p.TrainerID, err)
		}
		if !inserted {
			continue
		}
		if r.metrics != nil {
			r.metrics.RecordRewardGranted(amount.Outcome, metrics.GetServiceName())
		}
		log.LogBusinessEvent(ctx, r.logger, "battle_reward_granted", "trainer", p.TrainerID, map[string]interface{}{
			"battle_id":  outcome.BattleID,
			"outcome":    amount.Outcome,
			"experience": amount.Experience,
			"coins":      amount.Coins.String(),
		})
	}
	return nil
}
