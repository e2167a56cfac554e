package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes 注册玩家与 GM 对战路由
// identity 为身份中间件，extra 追加在每个对战路由组上（例如限流）
func RegisterRoutes(v1 *echo.Group, battles *BattleHandler, admin *AdminHandler, identity echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{identity}, extra...)

	sessions := v1.Group("/battles/sessions/:session_id", mws...)
	{
		sessions.POST("/wild", battles.StartWildBattle)       // 野生对战
		sessions.POST("/pvp", battles.StartPvPBattle)         // 发起 PvP
		sessions.POST("/pvp/accept", battles.AcceptPvPBattle) // 接受 PvP
		sessions.POST("/join", battles.JoinBattle)            // 加入野生对战
		sessions.POST("/attack", battles.Attack)              // 使用招式
		sessions.POST("/items", battles.UseItem)              // 使用道具
		sessions.POST("/release", battles.ReleaseMonster)     // 派出精灵
		sessions.POST("/withdraw", battles.WithdrawMonster)   // 收回精灵
		sessions.POST("/flee", battles.Flee)                  // 逃跑
		sessions.POST("/forfeit", battles.Forfeit)            // 认输
		sessions.POST("/resolve", battles.Resolve)            // 结算
		sessions.POST("/auto", battles.AutoBattle)            // 自动对战
		sessions.GET("/status", battles.GetStatus)            // 对战状态
		sessions.GET("/log", battles.GetLog)                  // 对战记录
	}

	gm := v1.Group("/admin/battles/sessions/:session_id", mws...)
	{
		gm.POST("/weather", admin.SetWeather)
		gm.POST("/terrain", admin.SetTerrain)
		gm.POST("/win-condition", admin.SetWinCondition)
		gm.POST("/force-win", admin.ForceWin)
		gm.POST("/force-lose", admin.ForceLose)
	}
}
