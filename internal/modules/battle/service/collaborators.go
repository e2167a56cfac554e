// Package service 对战服务: 状态机、遭遇生成、奖励与捕获结算，以及面向表现层的门面。
package service

import (
	"context"
	"time"

	"monster-battle/internal/modules/battle/engine"
)

// Actor 发起操作的训练师及其身份
type Actor struct {
	IdentityID  string
	TrainerName string
}

// ParticipantOutcome 单个参与者的对战结果
type ParticipantOutcome struct {
	TrainerID   string
	TrainerName string
	Side        engine.Side
	Synthetic   bool
	Forfeited   bool
	KOCount     int
	WordCount   int
}

// BattleOutcome 对战进入终态后交给奖励结算的数据
type BattleOutcome struct {
	BattleID           string
	AdventureSessionID string
	Mode               engine.Mode
	Status             engine.Status
	// WinnerSide 为空表示平局
	WinnerSide   engine.Side
	TurnNumber   int
	Participants []ParticipantOutcome
	ResolvedAt   time.Time
}

// RewardResolver 对战奖励发放，每场对战只会被调用一次
type RewardResolver interface {
	GrantRewards(ctx context.Context, outcome BattleOutcome) error
}

// CaptureResolver 精灵球捕获判定
type CaptureResolver interface {
	AttemptCapture(ctx context.Context, target *engine.MonsterState, itemName string) (bool, error)
}

// EncounterSource 野生遭遇来源
type EncounterSource interface {
	GenerateWildEncounter(ctx context.Context, area AreaConfig) (*EncounterDefinition, error)
}

// AreaProvider 查询冒险会话所在区域
type AreaProvider interface {
	AreaForSession(ctx context.Context, sessionID string) (AreaConfig, error)
}

// AdminAuthorizer 判断身份是否拥有 GM 权限
type AdminAuthorizer interface {
	IsAdmin(ctx context.Context, identityID string) (bool, error)
}

// SessionGuard 跨实例的会话占用锁
type SessionGuard interface {
	Acquire(ctx context.Context, sessionID, owner string) (bool, error)
	Release(ctx context.Context, sessionID, owner string) error
}

// EventPublisher 对战事件发布
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
