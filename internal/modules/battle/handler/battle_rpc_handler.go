package handler

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"monster-battle/internal/modules/battle/service"
	"monster-battle/internal/pkg/i18n"
	"monster-battle/internal/pkg/trace"
	"monster-battle/internal/pkg/xerrors"
)

// rpcTimeout 单次 RPC 调用的处理时限
const rpcTimeout = 10 * time.Second

// BattleRPCHandler 对战 RPC 处理器
// 提供给 Admin Server 调用的 GM 接口，请求与响应均为 structpb.Struct
type BattleRPCHandler struct {
	facade *service.BattleFacade
}

// NewBattleRPCHandler 创建对战 RPC Handler
func NewBattleRPCHandler(facade *service.BattleFacade) *BattleRPCHandler {
	return &BattleRPCHandler{facade: facade}
}

// rpcRequest 解析后的 RPC 参数
type rpcRequest struct {
	fields *structpb.Struct
}

func (r rpcRequest) str(key string) string {
	if v, ok := r.fields.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func (r rpcRequest) num(key string) int {
	if v, ok := r.fields.GetFields()[key]; ok {
		return int(v.GetNumberValue())
	}
	return 0
}

func decodeRequest(data []byte) (rpcRequest, error) {
	req := &structpb.Struct{}
	if err := proto.Unmarshal(data, req); err != nil {
		return rpcRequest{}, xerrors.NewValidationError("request", "invalid protobuf data")
	}
	r := rpcRequest{fields: req}
	if r.str("session_id") == "" {
		return rpcRequest{}, xerrors.NewValidationError("session_id", "session_id is required")
	}
	return r, nil
}

// rpcContext 带上调用方的语言与追踪 ID
func rpcContext(r rpcRequest) (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if lang := r.str("language"); lang != "" {
		ctx = i18n.WithLanguage(ctx, i18n.ParseLanguageCode(lang))
	}
	traceID := r.str("trace_id")
	if traceID == "" {
		traceID = trace.GenerateTraceID()
	}
	ctx = trace.WithTraceID(ctx, traceID)
	return context.WithTimeout(ctx, rpcTimeout)
}

// encodeResult 把 Result 转成 structpb.Struct
func encodeResult(res service.Result) ([]byte, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "encode battle result failed")
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "encode battle result failed")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "encode battle result failed")
	}
	return proto.Marshal(out)
}

func (h *BattleRPCHandler) call(data []byte, fn func(ctx context.Context, r rpcRequest) service.Result) ([]byte, error) {
	r, err := decodeRequest(data)
	if err != nil {
		return nil, err
	}
	ctx, cancel := rpcContext(r)
	defer cancel()
	return encodeResult(fn(ctx, r))
}

// ==================== RPC Methods ====================

// ForceWinBattle GM 判定一方获胜
// 参数: session_id, identity_id, side
func (h *BattleRPCHandler) ForceWinBattle(data []byte) ([]byte, error) {
	return h.call(data, func(ctx context.Context, r rpcRequest) service.Result {
		return h.facade.ForceWinBattle(ctx, r.str("session_id"), r.str("identity_id"), r.str("side"))
	})
}

// ForceLoseBattle GM 判定一方落败
func (h *BattleRPCHandler) ForceLoseBattle(data []byte) ([]byte, error) {
	return h.call(data, func(ctx context.Context, r rpcRequest) service.Result {
		return h.facade.ForceLoseBattle(ctx, r.str("session_id"), r.str("identity_id"), r.str("side"))
	})
}

// SetBattleWeather GM 修改天气
func (h *BattleRPCHandler) SetBattleWeather(data []byte) ([]byte, error) {
	return h.call(data, func(ctx context.Context, r rpcRequest) service.Result {
		return h.facade.SetWeather(ctx, r.str("session_id"), r.str("identity_id"), r.str("weather"))
	})
}

// SetBattleTerrain GM 修改场地
func (h *BattleRPCHandler) SetBattleTerrain(data []byte) ([]byte, error) {
	return h.call(data, func(ctx context.Context, r rpcRequest) service.Result {
		return h.facade.SetTerrain(ctx, r.str("session_id"), r.str("identity_id"), r.str("terrain"))
	})
}

// SetWinCondition GM 修改胜利所需击倒数
func (h *BattleRPCHandler) SetWinCondition(data []byte) ([]byte, error) {
	return h.call(data, func(ctx context.Context, r rpcRequest) service.Result {
		return h.facade.SetWinCondition(ctx, r.str("session_id"), r.str("identity_id"), r.num("knockouts"))
	})
}

// GetBattleStatus 查询对战状态
func (h *BattleRPCHandler) GetBattleStatus(data []byte) ([]byte, error) {
	return h.call(data, func(ctx context.Context, r rpcRequest) service.Result {
		return h.facade.GetBattleStatus(ctx, r.str("session_id"))
	})
}
