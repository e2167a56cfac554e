package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 对战提示消息 key
const (
	MsgWildBattleStarted = "battle.wild_started"
	MsgPvPChallenge      = "battle.pvp_challenge"
	MsgPvPAccepted       = "battle.pvp_accepted"
	MsgPvPStarted        = "battle.pvp_started"
	MsgJoined            = "battle.joined"
	MsgTurnResolved      = "battle.turn_resolved"
	MsgBattleWon         = "battle.won"
	MsgBattleDraw        = "battle.draw"
	MsgBattleFled        = "battle.fled"
	MsgBattleForfeited   = "battle.forfeited"
	MsgBattleStatus      = "battle.status"
	MsgBattleLog         = "battle.log"
	MsgWeatherSet        = "battle.weather_set"
	MsgTerrainSet        = "battle.terrain_set"
	MsgWinConditionSet   = "battle.win_condition_set"
	MsgAutoBattle        = "battle.auto"
	MsgGenericFailure    = "battle.generic_failure"
)

var battleMessages = map[string]map[language.Tag]string{
	MsgWildBattleStarted: {language.Chinese: "野生的 %s (Lv.%d) 出现了！对战开始", language.English: "A wild %s (Lv.%d) appeared! The battle begins"},
	MsgPvPChallenge:      {language.Chinese: "%s 向 %s 发起了对战挑战", language.English: "%s challenged %s to a battle"},
	MsgPvPAccepted:       {language.Chinese: "%s 接受了挑战", language.English: "%s accepted the challenge"},
	MsgPvPStarted:        {language.Chinese: "所有训练师已就位，对战开始", language.English: "All trainers are ready, the battle begins"},
	MsgJoined:            {language.Chinese: "%s 加入了对战", language.English: "%s joined the battle"},
	MsgTurnResolved:      {language.Chinese: "第 %d 回合：%s", language.English: "Turn %d: %s"},
	MsgBattleWon:         {language.Chinese: "对战结束，%s 方获胜", language.English: "The battle is over, side %s wins"},
	MsgBattleDraw:        {language.Chinese: "对战结束，双方平局", language.English: "The battle ended in a draw"},
	MsgBattleFled:        {language.Chinese: "成功逃离了对战", language.English: "Got away safely"},
	MsgBattleForfeited:   {language.Chinese: "%s 方认输，对战结束", language.English: "Side %s forfeited the battle"},
	MsgBattleStatus:      {language.Chinese: "对战状态：%s（第 %d 回合）", language.English: "Battle status: %s (turn %d)"},
	MsgBattleLog:         {language.Chinese: "共 %d 条对战记录", language.English: "%d battle log entries"},
	MsgWeatherSet:        {language.Chinese: "天气变为 %s", language.English: "The weather changed to %s"},
	MsgTerrainSet:        {language.Chinese: "场地变为 %s", language.English: "The terrain changed to %s"},
	MsgWinConditionSet:   {language.Chinese: "胜利条件设为击倒 %d 只精灵", language.English: "Win condition set to %d knockouts"},
	MsgAutoBattle:        {language.Chinese: "自动对战结束，共 %d 回合，结果：%s", language.English: "Auto battle finished after %d turns, result: %s"},
	MsgGenericFailure:    {language.Chinese: "对战服务暂时不可用，请稍后再试", language.English: "The battle service is temporarily unavailable, please try again later"},
}

func init() {
	for key, messages := range battleMessages {
		for lang, msg := range messages {
			_ = message.SetString(lang, key, msg)
		}
	}
}
