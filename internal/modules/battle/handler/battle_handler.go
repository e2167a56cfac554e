package handler

import (
	"github.com/labstack/echo/v4"

	custommiddleware "monster-battle/internal/middleware"
	"monster-battle/internal/modules/battle/service"
	"monster-battle/internal/pkg/response"
	"monster-battle/internal/pkg/xerrors"
)

// BattleHandler 玩家对战 HTTP Handler
type BattleHandler struct {
	facade     *service.BattleFacade
	respWriter response.Writer
}

// NewBattleHandler 创建对战 Handler
func NewBattleHandler(facade *service.BattleFacade, respWriter response.Writer) *BattleHandler {
	return &BattleHandler{
		facade:     facade,
		respWriter: respWriter,
	}
}

// ==================== HTTP Request Models ====================

// TrainerRequest 只需要训练师名称的请求
type TrainerRequest struct {
	// 训练师名称
	TrainerName string `json:"trainer_name" validate:"required,trainer_name" example:"Ash"`
}

// PvPRequest 发起 PvP 对战请求
type PvPRequest struct {
	TrainerName string   `json:"trainer_name" validate:"required,trainer_name" example:"Ash"`
	// 对手训练师名称
	Opponents   []string `json:"opponents" validate:"required,min=1,max=5,dive,required,trainer_name" example:"Gary"`
	// 对手无需确认直接开战
	AutoAccept  bool     `json:"auto_accept" example:"false"`
}

// AttackRequest 攻击请求
type AttackRequest struct {
	TrainerName string `json:"trainer_name" validate:"required,trainer_name" example:"Ash"`
	MoveName    string `json:"move_name" validate:"required,max=64" example:"Thunder Shock"`
	// 目标精灵，空为对方在场精灵
	Target      string `json:"target,omitempty" validate:"omitempty,max=64" example:"Rattata"`
	// 玩家叙事文本
	Narrative   string `json:"narrative,omitempty" validate:"omitempty,narrative"`
}

// ItemRequest 使用道具请求
type ItemRequest struct {
	TrainerName string `json:"trainer_name" validate:"required,trainer_name" example:"Ash"`
	ItemName    string `json:"item_name" validate:"required,max=64" example:"Poke Ball"`
	Target      string `json:"target,omitempty" validate:"omitempty,max=64" example:"Pikachu"`
	Narrative   string `json:"narrative,omitempty" validate:"omitempty,narrative"`
}

// SwapRequest 换人请求，monster_name 优先于 slot_index
type SwapRequest struct {
	TrainerName string `json:"trainer_name" validate:"required,trainer_name" example:"Ash"`
	MonsterName string `json:"monster_name,omitempty" validate:"omitempty,max=64" example:"Bulbasaur"`
	SlotIndex   int    `json:"slot_index" validate:"min=0,max=5" example:"1"`
	Narrative   string `json:"narrative,omitempty" validate:"omitempty,narrative"`
}

// FleeRequest 逃跑请求
type FleeRequest struct {
	TrainerName string `json:"trainer_name" validate:"required,trainer_name" example:"Ash"`
	Narrative   string `json:"narrative,omitempty" validate:"omitempty,narrative"`
}

// ==================== Helpers ====================

// writeResult 成功时包装为标准响应，失败时按错误码映射 HTTP 状态
func writeResult(c echo.Context, w response.Writer, res service.Result) error {
	if res.Success {
		return response.EchoOK(c, w, res)
	}
	code := xerrors.ErrorCode(res.Code)
	if code == 0 {
		code = xerrors.CodeInternalError
	}
	body := response.Error[service.Result](code.ToInt(), res.Message, "")
	body.Data = &res
	return response.EchoJSON(c, w, body, xerrors.GetHTTPStatus(code))
}

// bind 绑定并校验请求体，失败时已写出错误响应
func bind(c echo.Context, w response.Writer, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, response.EchoBadRequest(c, w, "请求格式错误")
	}
	if err := c.Validate(req); err != nil {
		return false, response.EchoError(c, w, err)
	}
	return true, nil
}

func actorOf(c echo.Context, trainerName string) service.Actor {
	return service.Actor{
		IdentityID:  custommiddleware.GetIdentityID(c),
		TrainerName: trainerName,
	}
}

// ==================== HTTP Handlers ====================

// StartWildBattle 发起野生对战
// @Summary 发起野生对战
// @Description 在冒险会话中生成野生精灵并开始对战，同一会话同时只能有一场进行中的对战
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TrainerRequest true "训练师"
// @Success 200 {object} response.ResponseResult[service.Result] "对战开始"
// @Failure 400 {object} response.ResponseResult[service.Result] "请求参数错误"
// @Failure 409 {object} response.ResponseResult[service.Result] "会话中已有对战"
// @Router /battles/sessions/{session_id}/wild [post]
func (h *BattleHandler) StartWildBattle(c echo.Context) error {
	var req TrainerRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.InitiateBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName))
	return writeResult(c, h.respWriter, res)
}

// StartPvPBattle 发起 PvP 对战
// @Summary 发起 PvP 对战
// @Description 向一个或多个训练师发起挑战，对手全部接受后对战开始；auto_accept 为 true 时直接开始
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body PvPRequest true "挑战请求"
// @Success 200 {object} response.ResponseResult[service.Result] "挑战已发起"
// @Failure 400 {object} response.ResponseResult[service.Result] "请求参数错误"
// @Failure 404 {object} response.ResponseResult[service.Result] "训练师不存在"
// @Router /battles/sessions/{session_id}/pvp [post]
func (h *BattleHandler) StartPvPBattle(c echo.Context) error {
	var req PvPRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.InitiatePvPBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName), req.Opponents, req.AutoAccept)
	return writeResult(c, h.respWriter, res)
}

// AcceptPvPBattle 接受 PvP 挑战
// @Summary 接受 PvP 挑战
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TrainerRequest true "训练师"
// @Success 200 {object} response.ResponseResult[service.Result] "已接受"
// @Failure 409 {object} response.ResponseResult[service.Result] "挑战已开始或已接受"
// @Router /battles/sessions/{session_id}/pvp/accept [post]
func (h *BattleHandler) AcceptPvPBattle(c echo.Context) error {
	var req TrainerRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.AcceptPvPBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName))
	return writeResult(c, h.respWriter, res)
}

// JoinBattle 加入进行中的野生对战
// @Summary 加入野生对战
// @Description 另一名训练师加入 A 方共同对抗野生精灵
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TrainerRequest true "训练师"
// @Success 200 {object} response.ResponseResult[service.Result] "已加入"
// @Failure 409 {object} response.ResponseResult[service.Result] "对战不可加入"
// @Router /battles/sessions/{session_id}/join [post]
func (h *BattleHandler) JoinBattle(c echo.Context) error {
	var req TrainerRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.JoinBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName))
	return writeResult(c, h.respWriter, res)
}

// Attack 使用招式
// @Summary 使用招式
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body AttackRequest true "攻击请求"
// @Success 200 {object} response.ResponseResult[service.Result] "回合结果"
// @Failure 400 {object} response.ResponseResult[service.Result] "不合法的行动"
// @Failure 404 {object} response.ResponseResult[service.Result] "对战不存在"
// @Router /battles/sessions/{session_id}/attack [post]
func (h *BattleHandler) Attack(c echo.Context) error {
	var req AttackRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.ExecuteAttack(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName), service.AttackRequest{
		MoveName:  req.MoveName,
		Target:    req.Target,
		Narrative: req.Narrative,
	})
	return writeResult(c, h.respWriter, res)
}

// UseItem 使用道具
// @Summary 使用道具
// @Description 名称包含 ball 的道具会尝试捕获野生精灵，其余道具作用于己方精灵
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body ItemRequest true "道具请求"
// @Success 200 {object} response.ResponseResult[service.Result] "回合结果"
// @Failure 400 {object} response.ResponseResult[service.Result] "道具不足或不可用"
// @Router /battles/sessions/{session_id}/items [post]
func (h *BattleHandler) UseItem(c echo.Context) error {
	var req ItemRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.UseItem(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName), service.ItemRequest{
		ItemName:  req.ItemName,
		Target:    req.Target,
		Narrative: req.Narrative,
	})
	return writeResult(c, h.respWriter, res)
}

// ReleaseMonster 派出精灵
// @Summary 派出精灵
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body SwapRequest true "换人请求"
// @Success 200 {object} response.ResponseResult[service.Result] "回合结果"
// @Router /battles/sessions/{session_id}/release [post]
func (h *BattleHandler) ReleaseMonster(c echo.Context) error {
	var req SwapRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.ReleaseMonster(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName), service.SwapRequest{
		MonsterName: req.MonsterName,
		SlotIndex:   req.SlotIndex,
		Narrative:   req.Narrative,
	})
	return writeResult(c, h.respWriter, res)
}

// WithdrawMonster 收回精灵
// @Summary 收回精灵
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body SwapRequest true "换人请求"
// @Success 200 {object} response.ResponseResult[service.Result] "回合结果"
// @Router /battles/sessions/{session_id}/withdraw [post]
func (h *BattleHandler) WithdrawMonster(c echo.Context) error {
	var req SwapRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.WithdrawMonster(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName), service.SwapRequest{
		MonsterName: req.MonsterName,
		SlotIndex:   req.SlotIndex,
		Narrative:   req.Narrative,
	})
	return writeResult(c, h.respWriter, res)
}

// Flee 逃跑
// @Summary 逃离野生对战
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body FleeRequest true "逃跑请求"
// @Success 200 {object} response.ResponseResult[service.Result] "回合结果"
// @Failure 400 {object} response.ResponseResult[service.Result] "PvP 对战不能逃跑"
// @Router /battles/sessions/{session_id}/flee [post]
func (h *BattleHandler) Flee(c echo.Context) error {
	var req FleeRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.FleeBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName), req.Narrative)
	return writeResult(c, h.respWriter, res)
}

// Forfeit 认输
// @Summary 认输
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TrainerRequest true "训练师"
// @Success 200 {object} response.ResponseResult[service.Result] "对战结束"
// @Router /battles/sessions/{session_id}/forfeit [post]
func (h *BattleHandler) Forfeit(c echo.Context) error {
	var req TrainerRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.ForfeitBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName))
	return writeResult(c, h.respWriter, res)
}

// Resolve 按击倒数结算
// @Summary 结算对战
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TrainerRequest true "训练师"
// @Success 200 {object} response.ResponseResult[service.Result] "对战结束"
// @Router /battles/sessions/{session_id}/resolve [post]
func (h *BattleHandler) Resolve(c echo.Context) error {
	var req TrainerRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.ResolveBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName))
	return writeResult(c, h.respWriter, res)
}

// AutoBattle 自动对战
// @Summary 自动对战
// @Description 发起野生对战并由系统替双方行动直到结束
// @Tags 对战
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TrainerRequest true "训练师"
// @Success 200 {object} response.ResponseResult[service.Result] "对战结束"
// @Router /battles/sessions/{session_id}/auto [post]
func (h *BattleHandler) AutoBattle(c echo.Context) error {
	var req TrainerRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.AutoBattle(c.Request().Context(), c.Param("session_id"), actorOf(c, req.TrainerName))
	return writeResult(c, h.respWriter, res)
}

// GetStatus 查询对战状态
// @Summary 查询对战状态
// @Tags 对战
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Success 200 {object} response.ResponseResult[service.Result] "对战快照"
// @Failure 404 {object} response.ResponseResult[service.Result] "对战不存在"
// @Router /battles/sessions/{session_id}/status [get]
func (h *BattleHandler) GetStatus(c echo.Context) error {
	res := h.facade.GetBattleStatus(c.Request().Context(), c.Param("session_id"))
	return writeResult(c, h.respWriter, res)
}

// GetLog 查询对战记录
// @Summary 查询对战记录
// @Tags 对战
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Success 200 {object} response.ResponseResult[service.Result] "对战记录"
// @Failure 404 {object} response.ResponseResult[service.Result] "对战不存在"
// @Router /battles/sessions/{session_id}/log [get]
func (h *BattleHandler) GetLog(c echo.Context) error {
	res := h.facade.GetBattleLog(c.Request().Context(), c.Param("session_id"))
	return writeResult(c, h.respWriter, res)
}
