// File: internal/pkg/i18n/error_messages.go
package i18n

import (
	"monster-battle/internal/pkg/xerrors"

	"golang.org/x/text/language"
)

// ErrorMessages 错误消息的多语言映射
var ErrorMessages = map[xerrors.ErrorCode]map[language.Tag]string{
	xerrors.CodeInternalError:     {language.Chinese: "内部服务错误", language.English: "Internal server error"},
	xerrors.CodeInvalidParams:     {language.Chinese: "参数错误", language.English: "Invalid parameters"},
	xerrors.CodeInvalidRequest:    {language.Chinese: "请求格式错误", language.English: "Invalid request format"},
	xerrors.CodeResourceNotFound:  {language.Chinese: "资源不存在", language.English: "Resource not found"},
	xerrors.CodeDuplicateResource: {language.Chinese: "资源已存在", language.English: "Resource already exists"},

	xerrors.CodeAuthenticationFailed: {language.Chinese: "认证失败", language.English: "Authentication failed"},
	xerrors.CodeInvalidToken:         {language.Chinese: "无效令牌", language.English: "Invalid token"},
	xerrors.CodeSessionExpired:       {language.Chinese: "会话过期", language.English: "Session expired"},

	xerrors.CodePermissionDenied: {language.Chinese: "权限不足", language.English: "Permission denied"},
	xerrors.CodeAdminRequired:    {language.Chinese: "需要 GM 权限", language.English: "Game master permission required"},
	xerrors.CodeNotOwner:         {language.Chinese: "你不是该训练师或精灵的所有者", language.English: "You do not own that trainer or monster"},

	xerrors.CodeOperationNotAllowed: {language.Chinese: "操作不被允许", language.English: "Operation not allowed"},
	xerrors.CodeResourceLocked:      {language.Chinese: "资源被锁定", language.English: "Resource locked"},

	xerrors.CodeDatabaseError: {language.Chinese: "数据库错误", language.English: "Database error"},
	xerrors.CodeCacheError:    {language.Chinese: "缓存服务错误", language.English: "Cache service error"},

	xerrors.CodeBattleNotFound:      {language.Chinese: "当前冒险没有进行中的对战", language.English: "No active battle in this adventure"},
	xerrors.CodeBattleAlreadyActive: {language.Chinese: "当前冒险已有进行中的对战", language.English: "A battle is already active in this adventure"},
	xerrors.CodeBattleNotActive:     {language.Chinese: "对战不处于进行状态", language.English: "The battle is not active"},
	xerrors.CodeNotYourTurn:         {language.Chinese: "还没轮到你行动", language.English: "It is not your turn"},
	xerrors.CodeNotParticipant:      {language.Chinese: "你不是该对战的参与者", language.English: "You are not part of this battle"},
	xerrors.CodeFleeNotAllowed:      {language.Chinese: "当前对战不允许逃跑", language.English: "You cannot flee from this battle"},
	xerrors.CodeInvalidWinCondition: {language.Chinese: "胜利条件无效", language.English: "Invalid win condition"},

	xerrors.CodeTrainerNotFound:  {language.Chinese: "训练师不存在", language.English: "Trainer not found"},
	xerrors.CodeMonsterNotFound:  {language.Chinese: "精灵不存在", language.English: "Monster not found"},
	xerrors.CodeMonsterFainted:   {language.Chinese: "精灵已倒下", language.English: "That monster has fainted"},
	xerrors.CodeNoActiveMonster:  {language.Chinese: "场上没有可行动的精灵", language.English: "No active monster on the field"},
	xerrors.CodeMonsterActive:    {language.Chinese: "精灵已在场上", language.English: "That monster is already on the field"},
	xerrors.CodeNoHealthyMonster: {language.Chinese: "没有可出战的精灵", language.English: "No monster is able to battle"},

	xerrors.CodeMoveNotFound:      {language.Chinese: "招式不存在", language.English: "Unknown move"},
	xerrors.CodeNoPPLeft:          {language.Chinese: "招式 PP 已耗尽", language.English: "No PP left for that move"},
	xerrors.CodeItemNotFound:      {language.Chinese: "道具不存在", language.English: "Unknown item"},
	xerrors.CodeInsufficientItems: {language.Chinese: "道具数量不足", language.English: "Not enough of that item"},
	xerrors.CodeItemNotUsable:     {language.Chinese: "道具当前无法使用", language.English: "That item cannot be used now"},
}

// GetErrorMessage 获取错误码对应语言的消息
func GetErrorMessage(code xerrors.ErrorCode, lang language.Tag) string {
	if messages, ok := ErrorMessages[code]; ok {
		if msg, ok := messages[lang]; ok {
			return msg
		}
		if msg, ok := messages[language.Chinese]; ok {
			return msg
		}
	}
	if lang == language.English {
		return "Unknown error"
	}
	return "未知错误"
}
