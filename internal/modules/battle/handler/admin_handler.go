package handler

import (
	"github.com/labstack/echo/v4"

	custommiddleware "monster-battle/internal/middleware"
	"monster-battle/internal/modules/battle/service"
	"monster-battle/internal/pkg/response"
)

// AdminHandler GM 对战控制 HTTP Handler，权限在 Manager 中校验
type AdminHandler struct {
	facade     *service.BattleFacade
	respWriter response.Writer
}

// NewAdminHandler 创建 GM Handler
func NewAdminHandler(facade *service.BattleFacade, respWriter response.Writer) *AdminHandler {
	return &AdminHandler{
		facade:     facade,
		respWriter: respWriter,
	}
}

// WeatherRequest 修改天气
type WeatherRequest struct {
	Weather string `json:"weather" validate:"required,battle_weather" example:"rain"`
}

// TerrainRequest 修改场地
type TerrainRequest struct {
	Terrain string `json:"terrain" validate:"required,battle_terrain" example:"grassy"`
}

// WinConditionRequest 修改胜利所需击倒数
type WinConditionRequest struct {
	Knockouts int `json:"knockouts" validate:"required,min=1,max=36" example:"2"`
}

// SideRequest 指定一方
type SideRequest struct {
	Side string `json:"side" validate:"required,oneof=A B a b" example:"A"`
}

// SetWeather 修改天气
// @Summary 修改对战天气
// @Tags 对战管理
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body WeatherRequest true "天气"
// @Success 200 {object} response.ResponseResult[service.Result] "已修改"
// @Failure 403 {object} response.ResponseResult[service.Result] "需要 GM 权限"
// @Router /admin/battles/sessions/{session_id}/weather [post]
func (h *AdminHandler) SetWeather(c echo.Context) error {
	var req WeatherRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.SetWeather(c.Request().Context(), c.Param("session_id"), custommiddleware.GetIdentityID(c), req.Weather)
	return writeResult(c, h.respWriter, res)
}

// SetTerrain 修改场地
// @Summary 修改对战场地
// @Tags 对战管理
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body TerrainRequest true "场地"
// @Success 200 {object} response.ResponseResult[service.Result] "已修改"
// @Failure 403 {object} response.ResponseResult[service.Result] "需要 GM 权限"
// @Router /admin/battles/sessions/{session_id}/terrain [post]
func (h *AdminHandler) SetTerrain(c echo.Context) error {
	var req TerrainRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.SetTerrain(c.Request().Context(), c.Param("session_id"), custommiddleware.GetIdentityID(c), req.Terrain)
	return writeResult(c, h.respWriter, res)
}

// SetWinCondition 修改胜利条件
// @Summary 修改胜利所需击倒数
// @Description 新条件立即生效，已满足时对战直接结束
// @Tags 对战管理
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body WinConditionRequest true "击倒数"
// @Success 200 {object} response.ResponseResult[service.Result] "已修改"
// @Failure 403 {object} response.ResponseResult[service.Result] "需要 GM 权限"
// @Router /admin/battles/sessions/{session_id}/win-condition [post]
func (h *AdminHandler) SetWinCondition(c echo.Context) error {
	var req WinConditionRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.SetWinCondition(c.Request().Context(), c.Param("session_id"), custommiddleware.GetIdentityID(c), req.Knockouts)
	return writeResult(c, h.respWriter, res)
}

// ForceWin 判定一方获胜
// @Summary 判定一方获胜
// @Tags 对战管理
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body SideRequest true "获胜方"
// @Success 200 {object} response.ResponseResult[service.Result] "对战结束"
// @Failure 403 {object} response.ResponseResult[service.Result] "需要 GM 权限"
// @Router /admin/battles/sessions/{session_id}/force-win [post]
func (h *AdminHandler) ForceWin(c echo.Context) error {
	var req SideRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.ForceWinBattle(c.Request().Context(), c.Param("session_id"), custommiddleware.GetIdentityID(c), req.Side)
	return writeResult(c, h.respWriter, res)
}

// ForceLose 判定一方落败
// @Summary 判定一方落败
// @Tags 对战管理
// @Accept json
// @Produce json
// @Param session_id path string true "冒险会话ID"
// @Param request body SideRequest true "落败方"
// @Success 200 {object} response.ResponseResult[service.Result] "对战结束"
// @Failure 403 {object} response.ResponseResult[service.Result] "需要 GM 权限"
// @Router /admin/battles/sessions/{session_id}/force-lose [post]
func (h *AdminHandler) ForceLose(c echo.Context) error {
	var req SideRequest
	if ok, err := bind(c, h.respWriter, &req); !ok {
		return err
	}
	res := h.facade.ForceLoseBattle(c.Request().Context(), c.Param("session_id"), custommiddleware.GetIdentityID(c), req.Side)
	return writeResult(c, h.respWriter, res)
}
