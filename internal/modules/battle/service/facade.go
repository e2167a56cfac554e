package service

import (
	"context"
	"strings"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/i18n"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/xerrors"
)

// Result 门面操作的统一返回
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Code 失败时的业务错误码，供表现层映射状态码
	Code   int             `json:"code,omitempty"`
	Battle *BattleSnapshot `json:"battle,omitempty"`
	Log    []LogEntryView  `json:"log,omitempty"`
}

// BattleFacade 表现层唯一入口，错误在这里转换为 Result
type BattleFacade struct {
	manager *BattleManager
	auto    *AutoBattler
	logger  log.Logger
}

// NewBattleFacade 创建对战门面
func NewBattleFacade(manager *BattleManager, auto *AutoBattler, logger log.Logger) *BattleFacade {
	if logger == nil {
		logger = log.GetLogger()
	}
	if auto == nil {
		auto = NewAutoBattler(manager, DefaultAutoBattleTurnCap)
	}
	return &BattleFacade{manager: manager, auto: auto, logger: logger.With("component", "battle_facade")}
}

func (f *BattleFacade) fail(ctx context.Context, operation string, err error) Result {
	appErr := xerrors.Wrap(err, xerrors.CodeInternalError, "unexpected battle error")
	if appErr == nil {
		appErr = xerrors.FromCode(xerrors.CodeInternalError)
	}
	if appErr.Kind() == xerrors.KindInternal {
		log.LogAppError(ctx, f.logger, "battle operation failed: "+operation, appErr)
		return Result{Message: i18n.T(ctx, i18n.MsgGenericFailure), Code: appErr.Code.ToInt()}
	}
	msg := i18n.GetErrorMessage(appErr.Code, i18n.GetLanguage(ctx))
	if detail := appErr.Detail(); detail != "" {
		msg += ": " + detail
	}
	return Result{Message: msg, Code: appErr.Code.ToInt()}
}

func succeed(msg string, b *engine.Battle, entries []engine.LogEntry) Result {
	r := Result{Success: true, Message: msg, Battle: NewBattleSnapshot(b)}
	if len(entries) > 0 {
		r.Log = NewLogEntryViews(entries)
	}
	return r
}

// outcomeMessage 终局提示
func outcomeMessage(ctx context.Context, b *engine.Battle) string {
	switch {
	case b.Status == engine.StatusFled:
		return i18n.T(ctx, i18n.MsgBattleFled)
	case b.Status == engine.StatusForfeited && b.WinnerSide != engine.SideNone:
		return i18n.T(ctx, i18n.MsgBattleForfeited, string(b.WinnerSide.Opposite()))
	case b.WinnerSide == engine.SideNone:
		return i18n.T(ctx, i18n.MsgBattleDraw)
	default:
		return i18n.T(ctx, i18n.MsgBattleWon, string(b.WinnerSide))
	}
}

func (f *BattleFacade) turn(ctx context.Context, operation string, res *TurnResult, err error) Result {
	if err != nil {
		return f.fail(ctx, operation, err)
	}
	if res.Battle.Status.IsTerminal() {
		return succeed(outcomeMessage(ctx, res.Battle), res.Battle, res.Entries)
	}
	return succeed(i18n.T(ctx, i18n.MsgTurnResolved, res.Battle.TurnNumber, summarize(res.Entries)), res.Battle, res.Entries)
}

// InitiateBattle 发起野生对战
func (f *BattleFacade) InitiateBattle(ctx context.Context, sessionID string, actor Actor) Result {
	res, err := f.manager.InitiateBattle(ctx, sessionID, actor)
	if err != nil {
		return f.fail(ctx, "initiate_battle", err)
	}
	wild := res.Battle.WildParticipant().ActiveMonster()
	return succeed(i18n.T(ctx, i18n.MsgWildBattleStarted, wild.Name, wild.Level), res.Battle, res.Entries)
}

// InitiatePvPBattle 发起训练师对战
func (f *BattleFacade) InitiatePvPBattle(ctx context.Context, sessionID string, actor Actor, opponents []string, autoAccept bool) Result {
	res, err := f.manager.InitiatePvPBattle(ctx, sessionID, actor, opponents, autoAccept)
	if err != nil {
		return f.fail(ctx, "initiate_pvp_battle", err)
	}
	if res.Battle.Status == engine.StatusActive {
		return succeed(i18n.T(ctx, i18n.MsgPvPStarted), res.Battle, res.Entries)
	}
	var names []string
	for _, p := range res.Battle.SideParticipants(engine.SideB) {
		names = append(names, p.TrainerName)
	}
	return succeed(i18n.T(ctx, i18n.MsgPvPChallenge, actor.TrainerName, strings.Join(names, ", ")), res.Battle, res.Entries)
}

// AcceptPvPBattle 接受训练师对战
func (f *BattleFacade) AcceptPvPBattle(ctx context.Context, sessionID string, actor Actor) Result {
	res, err := f.manager.AcceptPvPBattle(ctx, sessionID, actor)
	if err != nil {
		return f.fail(ctx, "accept_pvp_battle", err)
	}
	msg := i18n.T(ctx, i18n.MsgPvPAccepted, actor.TrainerName)
	if res.Battle.Status == engine.StatusActive {
		msg += "; " + i18n.T(ctx, i18n.MsgPvPStarted)
	}
	return succeed(msg, res.Battle, res.Entries)
}

// JoinBattle 加入进行中的野生对战
func (f *BattleFacade) JoinBattle(ctx context.Context, sessionID string, actor Actor) Result {
	res, err := f.manager.JoinBattle(ctx, sessionID, actor)
	if err != nil {
		return f.fail(ctx, "join_battle", err)
	}
	return succeed(i18n.T(ctx, i18n.MsgJoined, actor.TrainerName), res.Battle, res.Entries)
}

// ExecuteAttack 攻击
func (f *BattleFacade) ExecuteAttack(ctx context.Context, sessionID string, actor Actor, req AttackRequest) Result {
	res, err := f.manager.Attack(ctx, sessionID, actor, req)
	return f.turn(ctx, "attack", res, err)
}

// UseItem 使用道具
func (f *BattleFacade) UseItem(ctx context.Context, sessionID string, actor Actor, req ItemRequest) Result {
	res, err := f.manager.UseItem(ctx, sessionID, actor, req)
	return f.turn(ctx, "use_item", res, err)
}

// ReleaseMonster 派出精灵
func (f *BattleFacade) ReleaseMonster(ctx context.Context, sessionID string, actor Actor, req SwapRequest) Result {
	res, err := f.manager.Release(ctx, sessionID, actor, req)
	return f.turn(ctx, "release", res, err)
}

// WithdrawMonster 收回精灵
func (f *BattleFacade) WithdrawMonster(ctx context.Context, sessionID string, actor Actor, req SwapRequest) Result {
	res, err := f.manager.Withdraw(ctx, sessionID, actor, req)
	return f.turn(ctx, "withdraw", res, err)
}

// FleeBattle 逃跑
func (f *BattleFacade) FleeBattle(ctx context.Context, sessionID string, actor Actor, narrative string) Result {
	res, err := f.manager.Flee(ctx, sessionID, actor, narrative)
	return f.turn(ctx, "flee", res, err)
}

// ForfeitBattle 认输
func (f *BattleFacade) ForfeitBattle(ctx context.Context, sessionID string, actor Actor) Result {
	res, err := f.manager.Forfeit(ctx, sessionID, actor)
	return f.turn(ctx, "forfeit", res, err)
}

// ResolveBattle 按击倒数立即结算
func (f *BattleFacade) ResolveBattle(ctx context.Context, sessionID string, actor Actor) Result {
	res, err := f.manager.ResolveBattle(ctx, sessionID, actor)
	return f.turn(ctx, "resolve", res, err)
}

// GetBattleStatus 查询对战状态
func (f *BattleFacade) GetBattleStatus(ctx context.Context, sessionID string) Result {
	b, err := f.manager.GetBattleStatus(ctx, sessionID)
	if err != nil {
		return f.fail(ctx, "get_battle_status", err)
	}
	return succeed(i18n.T(ctx, i18n.MsgBattleStatus, string(b.Status), b.TurnNumber), b, nil)
}

// GetBattleLog 查询对战记录
func (f *BattleFacade) GetBattleLog(ctx context.Context, sessionID string) Result {
	b, err := f.manager.GetBattleStatus(ctx, sessionID)
	if err != nil {
		return f.fail(ctx, "get_battle_log", err)
	}
	entries, err := f.manager.GetBattleLog(ctx, sessionID)
	if err != nil {
		return f.fail(ctx, "get_battle_log", err)
	}
	r := succeed(i18n.T(ctx, i18n.MsgBattleLog, len(entries)), b, nil)
	r.Log = NewLogEntryViews(entries)
	return r
}

// SetWinCondition GM 修改胜利条件
func (f *BattleFacade) SetWinCondition(ctx context.Context, sessionID, identityID string, knockouts int) Result {
	res, err := f.manager.SetWinCondition(ctx, sessionID, identityID, knockouts)
	if err != nil {
		return f.fail(ctx, "set_win_condition", err)
	}
	msg := i18n.T(ctx, i18n.MsgWinConditionSet, knockouts)
	if res.Battle.Status.IsTerminal() {
		msg += "; " + outcomeMessage(ctx, res.Battle)
	}
	return succeed(msg, res.Battle, res.Entries)
}

// SetWeather GM 修改天气
func (f *BattleFacade) SetWeather(ctx context.Context, sessionID, identityID, weather string) Result {
	res, err := f.manager.SetWeather(ctx, sessionID, identityID, engine.Weather(weather))
	if err != nil {
		return f.fail(ctx, "set_weather", err)
	}
	return succeed(i18n.T(ctx, i18n.MsgWeatherSet, string(res.Battle.Weather)), res.Battle, res.Entries)
}

// SetTerrain GM 修改场地
func (f *BattleFacade) SetTerrain(ctx context.Context, sessionID, identityID, terrain string) Result {
	res, err := f.manager.SetTerrain(ctx, sessionID, identityID, engine.Terrain(terrain))
	if err != nil {
		return f.fail(ctx, "set_terrain", err)
	}
	return succeed(i18n.T(ctx, i18n.MsgTerrainSet, string(res.Battle.Terrain)), res.Battle, res.Entries)
}

// ForceWinBattle GM 判定一方获胜
func (f *BattleFacade) ForceWinBattle(ctx context.Context, sessionID, identityID, side string) Result {
	s, parsed := engine.ParseSide(side)
	if !parsed {
		return f.fail(ctx, "force_win", xerrors.NewValidationError("side", "side must be A or B"))
	}
	res, err := f.manager.ForceWin(ctx, sessionID, identityID, s)
	return f.turn(ctx, "force_win", res, err)
}

// ForceLoseBattle GM 判定一方落败
func (f *BattleFacade) ForceLoseBattle(ctx context.Context, sessionID, identityID, side string) Result {
	s, parsed := engine.ParseSide(side)
	if !parsed {
		return f.fail(ctx, "force_lose", xerrors.NewValidationError("side", "side must be A or B"))
	}
	res, err := f.manager.ForceLose(ctx, sessionID, identityID, s)
	return f.turn(ctx, "force_lose", res, err)
}

// AutoBattle 发起野生对战并自动打完
func (f *BattleFacade) AutoBattle(ctx context.Context, sessionID string, actor Actor) Result {
	res, err := f.auto.AutoBattle(ctx, sessionID, actor)
	if err != nil {
		return f.fail(ctx, "auto_battle", err)
	}
	return succeed(i18n.T(ctx, i18n.MsgAutoBattle, res.Battle.TurnNumber, res.Outcome), res.Battle, res.Entries)
}
