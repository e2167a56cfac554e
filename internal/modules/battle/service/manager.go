package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/notify"
	"monster-battle/internal/pkg/xerrors"
	"monster-battle/internal/repository/interfaces"
)

const wildTrainerPrefix = "wild:"

// 错误元数据中的表名
const (
	battleTable    = "battles"
	battleLogTable = "battle_log_entries"
)

// ManagerOptions 对战规则配置
type ManagerOptions struct {
	// WinCondition 新对战的默认胜利条件（需要击倒的数量）
	WinCondition         int
	WildSwapConsumesTurn bool
	// IdleTimeout 超过该时长没有任何变更的对战会被回收
	IdleTimeout time.Duration
}

// ManagerDeps 对战管理器依赖，Guard/Events/Metrics 可为空
type ManagerDeps struct {
	Repo       interfaces.BattleRepository
	Trainers   interfaces.TrainerStore
	Rewards    RewardResolver
	Capture    CaptureResolver
	Encounters EncounterSource
	Areas      AreaProvider
	Admins     AdminAuthorizer
	Guard      SessionGuard
	Events     EventPublisher
	Metrics    *metrics.BattleMetrics
	Logger     log.Logger
	Rand       engine.RandSource
}

// TurnResult 一次变更后的快照与新增记录
type TurnResult struct {
	Battle  *engine.Battle
	Entries []engine.LogEntry
}

// BattleEvent 对外发布的对战事件
type BattleEvent struct {
	BattleID           string        `json:"battle_id"`
	AdventureSessionID string        `json:"adventure_session_id"`
	Mode               engine.Mode   `json:"mode"`
	Status             engine.Status `json:"status"`
	TurnNumber         int           `json:"turn_number"`
	WinnerSide         engine.Side   `json:"winner_side,omitempty"`
	Summary            string        `json:"summary,omitempty"`
	OccurredAt         time.Time     `json:"occurred_at"`
}

// BattleManager 对战状态机: 负责会话唯一性、动作串行化、回合推进与终局结算
type BattleManager struct {
	registry   *BattleRegistry
	repo       interfaces.BattleRepository
	trainers   interfaces.TrainerStore
	resolver   *engine.Resolver
	rewards    RewardResolver
	capture    CaptureResolver
	encounters EncounterSource
	areas      AreaProvider
	admins     AdminAuthorizer
	guard      SessionGuard
	events     EventPublisher
	metrics    *metrics.BattleMetrics
	logger     log.Logger

	winCondition int
	idleTimeout  time.Duration

	now   func() time.Time
	newID func() string
}

// NewBattleManager 创建对战管理器
func NewBattleManager(deps ManagerDeps, opts ManagerOptions) *BattleManager {
	logger := deps.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	if opts.WinCondition < 1 {
		opts.WinCondition = 1
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	areas := deps.Areas
	if areas == nil {
		areas = StaticAreaProvider{}
	}
	encounters := deps.Encounters
	if encounters == nil {
		encounters = NewEncounterGenerator(deps.Rand)
	}
	capture := deps.Capture
	if capture == nil {
		capture = NewBallCaptureResolver(deps.Rand)
	}
	events := deps.Events
	if events == nil {
		events = notify.Publisher{}
	}

	return &BattleManager{
		registry:     NewBattleRegistry(),
		repo:         deps.Repo,
		trainers:     deps.Trainers,
		resolver:     engine.NewResolver(engine.Config{WildSwapConsumesTurn: opts.WildSwapConsumesTurn}, deps.Rand),
		rewards:      deps.Rewards,
		capture:      capture,
		encounters:   encounters,
		areas:        areas,
		admins:       deps.Admins,
		guard:        deps.Guard,
		events:       events,
		metrics:      deps.Metrics,
		logger:       logger.With("component", "battle_manager"),
		winCondition: opts.WinCondition,
		idleTimeout:  opts.IdleTimeout,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Registry 进行中对战的注册表
func (m *BattleManager) Registry() *BattleRegistry {
	return m.registry
}

// acquire 取得会话对战的锁，返回时已持有 e.mu
// 注册表中没有时从存储加载，已结束的对战返回 CodeBattleNotActive
func (m *BattleManager) acquire(ctx context.Context, sessionID string) (*battleEntry, *engine.Battle, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, xerrors.NewValidationError("session_id", "session id is required")
	}

	e, ok := m.registry.get(sessionID)
	if !ok {
		b, err := m.repo.FindLatestBySession(ctx, sessionID)
		if err != nil {
			return nil, nil, xerrors.NewDatabaseError("load_latest", battleTable, err)
		}
		if b == nil {
			return nil, nil, xerrors.NewBattleNotFoundError(sessionID)
		}
		if b.Status.IsTerminal() {
			return nil, nil, xerrors.NewBattleNotActiveError(b.ID, string(b.Status))
		}
		e = m.registry.adopt(sessionID, b)
	}

	e.mu.Lock()
	cur := e.load()
	if cur == nil {
		// 发起失败后被移除的占位
		e.mu.Unlock()
		return nil, nil, xerrors.NewBattleNotFoundError(sessionID)
	}
	if cur.Status.IsTerminal() {
		e.mu.Unlock()
		return nil, nil, xerrors.NewBattleNotActiveError(cur.ID, string(cur.Status))
	}
	if m.guard != nil && e.guardOwner == "" {
		// 从存储恢复的对战沿用原对战 ID 作为会话锁持有者
		e.guardOwner = cur.ID
	}
	return e, cur, nil
}

func requireStatus(b *engine.Battle, allowed ...engine.Status) error {
	for _, s := range allowed {
		if b.Status == s {
			return nil
		}
	}
	return xerrors.NewBattleNotActiveError(b.ID, string(b.Status))
}

// commit 持久化新快照并追加记录，成功后才替换已提交快照
func (m *BattleManager) commit(ctx context.Context, e *battleEntry, next *engine.Battle, entries []engine.LogEntry) error {
	next.UpdatedAt = m.now()
	if err := m.repo.Save(ctx, next, entries); err != nil {
		return xerrors.NewDatabaseError("save", battleTable, err)
	}
	e.snapshot.Store(next)
	return nil
}

// systemEntry 非玩家动作产生的记录
func (m *BattleManager) systemEntry(actionType engine.ActionType, side engine.Side, actor, summary string) engine.LogEntry {
	return engine.LogEntry{
		ActorSide:     side,
		ActorName:     actor,
		ActionType:    actionType,
		ResultSummary: summary,
		Timestamp:     m.now(),
	}
}

// conclude 把对战置为终态并追加结算记录
func (m *BattleManager) conclude(b *engine.Battle, status engine.Status, winner engine.Side, summary string) []engine.LogEntry {
	now := m.now()
	b.Status = status
	b.WinnerSide = winner
	b.ResolvedAt = &now
	actionType := engine.ActionResolve
	if status == engine.StatusForfeited {
		actionType = engine.ActionForfeit
	}
	return b.StampEntries([]engine.LogEntry{m.systemEntry(actionType, winner, "", summary)})
}

func describeResult(b *engine.Battle) string {
	switch {
	case b.Status == engine.StatusFled:
		return "The battle ended: the trainer fled"
	case b.WinnerSide == engine.SideNone:
		return fmt.Sprintf("The battle ended in a draw (%d-%d)", b.SideKOCount(engine.SideA), b.SideKOCount(engine.SideB))
	default:
		return fmt.Sprintf("Side %s wins the battle (%d-%d)", b.WinnerSide, b.SideKOCount(engine.SideA), b.SideKOCount(engine.SideB))
	}
}

type finishOptions struct {
	skipRewards bool
	capturedBy  string
}

// finish 终局后的收尾: 写回精灵、发放奖励、释放会话。调用方持有 e.mu
func (m *BattleManager) finish(ctx context.Context, e *battleEntry, b *engine.Battle, opts finishOptions) {
	m.writeBack(ctx, b, opts.capturedBy)

	if b.Status != engine.StatusFled && !opts.skipRewards && m.rewards != nil {
		if err := m.rewards.GrantRewards(ctx, outcomeOf(b)); err != nil {
			m.logger.ErrorContext(ctx, "grant battle rewards failed",
				log.String("battle_id", b.ID), log.Any("error", err))
		}
	}

	m.registry.remove(b.AdventureSessionID, e)
	m.releaseGuard(ctx, b.AdventureSessionID, e)

	if m.metrics != nil {
		m.metrics.RecordBattleFinished(string(b.Mode), string(b.Status), b.TurnNumber, metrics.GetServiceName())
	}
	m.publish(ctx, notify.SubjectBattleFinished, b, describeResult(b))
	log.LogBusinessEvent(ctx, m.logger, "battle_finished", "battle", b.ID, map[string]interface{}{
		"session_id":  b.AdventureSessionID,
		"status":      string(b.Status),
		"winner_side": string(b.WinnerSide),
		"turns":       b.TurnNumber,
	})
}

// writeBack 把对战结果写回训练师的精灵，失败只记录日志
func (m *BattleManager) writeBack(ctx context.Context, b *engine.Battle, capturedBy string) {
	for _, p := range b.Participants {
		if p.Synthetic {
			continue
		}
		for _, mon := range p.Monsters {
			if err := m.trainers.PersistMonsterOutcome(ctx, p.TrainerID, mon); err != nil {
				m.logger.ErrorContext(ctx, "persist monster outcome failed",
					log.String("battle_id", b.ID), log.String("trainer_id", p.TrainerID),
					log.String("monster", mon.Name), log.Any("error", err))
			}
		}
	}

	if capturedBy == "" {
		return
	}
	wild := b.WildParticipant()
	if wild == nil {
		return
	}
	for _, mon := range wild.Monsters {
		if !mon.Captured {
			continue
		}
		if err := m.trainers.AddCapturedMonster(ctx, capturedBy, mon.Clone()); err != nil {
			m.logger.ErrorContext(ctx, "store captured monster failed",
				log.String("battle_id", b.ID), log.String("trainer_id", capturedBy), log.Any("error", err))
		}
	}
}

func outcomeOf(b *engine.Battle) BattleOutcome {
	out := BattleOutcome{
		BattleID:           b.ID,
		AdventureSessionID: b.AdventureSessionID,
		Mode:               b.Mode,
		Status:             b.Status,
		WinnerSide:         b.WinnerSide,
		TurnNumber:         b.TurnNumber,
	}
	if b.ResolvedAt != nil {
		out.ResolvedAt = *b.ResolvedAt
	}
	for _, p := range b.Participants {
		out.Participants = append(out.Participants, ParticipantOutcome{
			TrainerID:   p.TrainerID,
			TrainerName: p.TrainerName,
			Side:        p.Side,
			Synthetic:   p.Synthetic,
			Forfeited:   p.HasForfeited,
			KOCount:     p.KOCount,
			WordCount:   p.WordCount,
		})
	}
	return out
}

func (m *BattleManager) acquireGuard(ctx context.Context, sessionID, battleID string, e *battleEntry) error {
	if m.guard == nil {
		return nil
	}
	ok, err := m.guard.Acquire(ctx, sessionID, battleID)
	if err != nil {
		return xerrors.NewCacheError("acquire_session_guard", err)
	}
	if !ok {
		return xerrors.NewBattleAlreadyActiveError(sessionID, "")
	}
	e.guardOwner = battleID
	return nil
}

func (m *BattleManager) releaseGuard(ctx context.Context, sessionID string, e *battleEntry) {
	if m.guard == nil || e.guardOwner == "" {
		return
	}
	if err := m.guard.Release(ctx, sessionID, e.guardOwner); err != nil {
		m.logger.WarnContext(ctx, "release session guard failed",
			log.String("session_id", sessionID), log.Any("error", err))
	}
	e.guardOwner = ""
}

func (m *BattleManager) publish(ctx context.Context, subject string, b *engine.Battle, summary string) {
	event := BattleEvent{
		BattleID:           b.ID,
		AdventureSessionID: b.AdventureSessionID,
		Mode:               b.Mode,
		Status:             b.Status,
		TurnNumber:         b.TurnNumber,
		WinnerSide:         b.WinnerSide,
		Summary:            summary,
		OccurredAt:         m.now(),
	}
	if err := m.events.Publish(ctx, subject, event); err != nil {
		m.logger.WarnContext(ctx, "publish battle event failed",
			log.String("subject", subject), log.String("battle_id", b.ID), log.Any("error", err))
	}
}

// ownedTrainer 查找训练师并校验归属
func (m *BattleManager) ownedTrainer(ctx context.Context, actor Actor) (*interfaces.Trainer, error) {
	name := strings.TrimSpace(actor.TrainerName)
	if name == "" {
		return nil, xerrors.NewValidationError("trainer_name", "trainer name is required")
	}
	trainer, err := m.trainers.FindTrainerByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if trainer.OwnerID != actor.IdentityID {
		return nil, xerrors.NewNotOwnerError(actor.IdentityID, "trainer:"+trainer.Name)
	}
	return trainer, nil
}

// participantFor 按训练师名找到调用方控制的参与者
func participantFor(b *engine.Battle, actor Actor) (*engine.Participant, error) {
	name := strings.TrimSpace(actor.TrainerName)
	if name == "" {
		return nil, xerrors.NewValidationError("trainer_name", "trainer name is required")
	}
	p := b.ParticipantByName(name)
	if p == nil || p.Synthetic {
		return nil, xerrors.FromCode(xerrors.CodeNotParticipant).WithDetail("%s", name)
	}
	if p.OwnerID != actor.IdentityID {
		return nil, xerrors.NewNotOwnerError(actor.IdentityID, "trainer:"+p.TrainerName)
	}
	if p.HasFled || p.HasForfeited {
		return nil, xerrors.FromCode(xerrors.CodeNotParticipant).WithDetail("%s has left the battle", p.TrainerName)
	}
	return p, nil
}

// newParticipant 用训练师的队伍快照构建参与者
func (m *BattleManager) newParticipant(ctx context.Context, trainer *interfaces.Trainer, side engine.Side) (*engine.Participant, error) {
	party, err := m.trainers.PartySnapshot(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}
	p := &engine.Participant{
		TrainerID:       trainer.ID,
		TrainerName:     trainer.Name,
		OwnerID:         trainer.OwnerID,
		Side:            side,
		ActiveSlotIndex: engine.NoSlot,
		Monsters:        make([]*engine.MonsterState, 0, len(party)),
		JoinedAt:        m.now(),
	}
	for _, mon := range party {
		c := mon.Clone()
		if c.InstanceID == "" {
			c.InstanceID = m.newID()
		}
		if c.Status == "" {
			c.Status = engine.StatusNone
		}
		c.SetHP(c.CurrentHP)
		p.Monsters = append(p.Monsters, c)
	}
	p.ActiveSlotIndex = p.FirstAvailableSlot()
	if p.ActiveSlotIndex == engine.NoSlot {
		return nil, xerrors.FromCode(xerrors.CodeNoHealthyMonster).WithDetail("%s", trainer.Name)
	}
	return p, nil
}

// reserveSession 为新对战占用会话，返回时已持有 e.mu
// 失败时由 release 撤销占位
func (m *BattleManager) reserveSession(ctx context.Context, sessionID, battleID string) (*battleEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, xerrors.NewValidationError("session_id", "session id is required")
	}
	e, ok := m.registry.reserve(sessionID)
	if !ok {
		existing := ""
		if b := m.registry.Snapshot(sessionID); b != nil {
			existing = b.ID
		}
		return nil, xerrors.NewBattleAlreadyActiveError(sessionID, existing)
	}
	e.mu.Lock()

	fail := func(err error) (*battleEntry, error) {
		m.abandon(ctx, sessionID, e)
		return nil, err
	}
	latest, err := m.repo.FindLatestBySession(ctx, sessionID)
	if err != nil {
		return fail(xerrors.NewDatabaseError("load_latest", battleTable, err))
	}
	if latest != nil && !latest.Status.IsTerminal() {
		return fail(xerrors.NewBattleAlreadyActiveError(sessionID, latest.ID))
	}
	if err := m.acquireGuard(ctx, sessionID, battleID, e); err != nil {
		return fail(err)
	}
	return e, nil
}

// abandon 撤销尚未提交的占位并释放锁
func (m *BattleManager) abandon(ctx context.Context, sessionID string, e *battleEntry) {
	m.registry.remove(sessionID, e)
	m.releaseGuard(ctx, sessionID, e)
	e.mu.Unlock()
}

// started 新对战提交后的通知
func (m *BattleManager) started(ctx context.Context, b *engine.Battle, summary string) {
	if m.metrics != nil {
		m.metrics.RecordBattleStarted(string(b.Mode), metrics.GetServiceName())
	}
	m.publish(ctx, notify.SubjectBattleStarted, b, summary)
	log.LogBusinessEvent(ctx, m.logger, "battle_started", "battle", b.ID, map[string]interface{}{
		"session_id": b.AdventureSessionID,
		"mode":       string(b.Mode),
		"status":     string(b.Status),
	})
}

// GetBattleStatus 最近一次提交的快照，不加锁，可能落后于正在进行的动作
func (m *BattleManager) GetBattleStatus(ctx context.Context, sessionID string) (*engine.Battle, error) {
	if b := m.registry.Snapshot(sessionID); b != nil {
		return b, nil
	}
	b, err := m.repo.FindLatestBySession(ctx, sessionID)
	if err != nil {
		return nil, xerrors.NewDatabaseError("load_latest", battleTable, err)
	}
	if b == nil {
		return nil, xerrors.NewBattleNotFoundError(sessionID)
	}
	return b, nil
}

// GetBattleLog 会话最近一场对战的全部记录
func (m *BattleManager) GetBattleLog(ctx context.Context, sessionID string) ([]engine.LogEntry, error) {
	b, err := m.GetBattleStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries, err := m.repo.ListLogEntries(ctx, b.ID)
	if err != nil {
		return nil, xerrors.NewDatabaseError("list_log", battleLogTable, err)
	}
	return entries, nil
}
