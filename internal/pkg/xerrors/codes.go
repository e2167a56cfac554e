// File: internal/pkg/xerrors/codes.go
package xerrors

import "fmt"

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// ToInt 转换为 int（用于 JSON 序列化等场景）
func (c ErrorCode) ToInt() int {
	return int(c)
}

// -----------------------------------------------------------------------------
// 错误码按领域分段
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess           ErrorCode = 100000 // 操作成功
	CodeInternalError     ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams     ErrorCode = 100002 // 参数错误
	CodeInvalidRequest    ErrorCode = 100003 // 请求格式错误
	CodeResourceNotFound  ErrorCode = 100404 // 资源不存在
	CodeDuplicateResource ErrorCode = 100409 // 资源已存在
	CodeRateLimitExceeded ErrorCode = 100429 // 请求频率限制

	// 2xxxxx: 认证相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidToken         ErrorCode = 200002 // 无效令牌
	CodeSessionExpired       ErrorCode = 200007 // 会话过期

	// 3xxxxx: 权限相关错误码
	CodePermissionDenied ErrorCode = 300001 // 权限不足
	CodeAdminRequired    ErrorCode = 300005 // 需要 GM 权限
	CodeNotOwner         ErrorCode = 300006 // 不是训练师/精灵的所有者

	// 6xxxxx: 业务逻辑错误码
	CodeBusinessLogicError  ErrorCode = 600001 // 业务逻辑错误
	CodeOperationNotAllowed ErrorCode = 600003 // 操作不被允许
	CodeResourceLocked      ErrorCode = 600004 // 资源被锁定

	// 7xxxxx: 外部服务错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeIdentityServiceError ErrorCode = 700002 // 身份服务错误
	CodeDatabaseError        ErrorCode = 700003 // 数据库错误
	CodeCacheError           ErrorCode = 700004 // 缓存服务错误
	CodeMessageQueueError    ErrorCode = 700005 // 消息队列错误

	// 8xxxxx: 对战业务错误码
	// 对战状态 (83xxxx)
	CodeBattleNotFound      ErrorCode = 830001 // 对战不存在
	CodeBattleAlreadyActive ErrorCode = 830002 // 当前冒险已有进行中的对战
	CodeBattleNotActive     ErrorCode = 830003 // 对战不处于进行状态
	CodeNotYourTurn         ErrorCode = 830004 // 还没轮到你行动
	CodeNotParticipant      ErrorCode = 830005 // 不是对战参与者
	CodeFleeNotAllowed      ErrorCode = 830006 // 当前对战不允许逃跑
	CodeInvalidWinCondition ErrorCode = 830007 // 胜利条件无效

	// 训练师/精灵 (84xxxx)
	CodeTrainerNotFound  ErrorCode = 840001 // 训练师不存在
	CodeMonsterNotFound  ErrorCode = 840002 // 精灵不存在
	CodeMonsterFainted   ErrorCode = 840003 // 精灵已倒下
	CodeNoActiveMonster  ErrorCode = 840004 // 场上没有可行动的精灵
	CodeMonsterActive    ErrorCode = 840005 // 精灵已在场上
	CodeNoHealthyMonster ErrorCode = 840006 // 没有可出战的精灵

	// 招式/道具 (85xxxx)
	CodeMoveNotFound      ErrorCode = 850001 // 招式不存在
	CodeNoPPLeft          ErrorCode = 850002 // 招式 PP 已耗尽
	CodeItemNotFound      ErrorCode = 850003 // 道具不存在
	CodeInsufficientItems ErrorCode = 850004 // 道具数量不足
	CodeItemNotUsable     ErrorCode = 850005 // 道具当前无法使用
)

// -----------------------------------------------------------------------------
// HTTP 状态码常量定义
// -----------------------------------------------------------------------------
const (
	HTTPStatusOK                  = 200
	HTTPStatusBadRequest          = 400
	HTTPStatusUnauthorized        = 401
	HTTPStatusForbidden           = 403
	HTTPStatusNotFound            = 404
	HTTPStatusConflict            = 409
	HTTPStatusUnprocessableEntity = 422
	HTTPStatusTooManyRequests     = 429
	HTTPStatusInternalServerError = 500
	HTTPStatusServiceUnavailable  = 503
)

// -----------------------------------------------------------------------------
// 错误消息映射
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:           "操作成功",
	CodeInternalError:     "内部服务错误",
	CodeInvalidParams:     "参数错误",
	CodeInvalidRequest:    "请求格式错误",
	CodeResourceNotFound:  "资源不存在",
	CodeDuplicateResource: "资源已存在",
	CodeRateLimitExceeded: "请求频率限制",

	CodeAuthenticationFailed: "认证失败",
	CodeInvalidToken:         "无效令牌",
	CodeSessionExpired:       "会话过期",

	CodePermissionDenied: "权限不足",
	CodeAdminRequired:    "需要 GM 权限",
	CodeNotOwner:         "你不是该训练师或精灵的所有者",

	CodeBusinessLogicError:  "业务逻辑错误",
	CodeOperationNotAllowed: "操作不被允许",
	CodeResourceLocked:      "资源被锁定",

	CodeExternalServiceError: "外部服务错误",
	CodeIdentityServiceError: "身份服务错误",
	CodeDatabaseError:        "数据库错误",
	CodeCacheError:           "缓存服务错误",
	CodeMessageQueueError:    "消息队列错误",

	CodeBattleNotFound:      "当前冒险没有进行中的对战",
	CodeBattleAlreadyActive: "当前冒险已有进行中的对战",
	CodeBattleNotActive:     "对战不处于进行状态",
	CodeNotYourTurn:         "还没轮到你行动",
	CodeNotParticipant:      "你不是该对战的参与者",
	CodeFleeNotAllowed:      "当前对战不允许逃跑",
	CodeInvalidWinCondition: "胜利条件无效",

	CodeTrainerNotFound:  "训练师不存在",
	CodeMonsterNotFound:  "精灵不存在",
	CodeMonsterFainted:   "精灵已倒下",
	CodeNoActiveMonster:  "场上没有可行动的精灵",
	CodeMonsterActive:    "精灵已在场上",
	CodeNoHealthyMonster: "没有可出战的精灵",

	CodeMoveNotFound:      "招式不存在",
	CodeNoPPLeft:          "招式 PP 已耗尽",
	CodeItemNotFound:      "道具不存在",
	CodeInsufficientItems: "道具数量不足",
	CodeItemNotUsable:     "道具当前无法使用",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch KindOfCode(code) {
	case KindNone:
		return HTTPStatusOK
	case KindValidation:
		return HTTPStatusBadRequest
	case KindNotFound:
		return HTTPStatusNotFound
	case KindConflict:
		return HTTPStatusConflict
	case KindForbidden:
		if code >= 200000 && code < 300000 {
			return HTTPStatusUnauthorized
		}
		return HTTPStatusForbidden
	}
	switch {
	case code == CodeRateLimitExceeded:
		return HTTPStatusTooManyRequests
	case code >= 700000 && code < 800000:
		return HTTPStatusServiceUnavailable
	default:
		return HTTPStatusInternalServerError
	}
}

// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 300000 && code < 400000:
		return "authorization"
	case code >= 600000 && code < 700000:
		return "business"
	case code >= 700000 && code < 800000:
		return "external"
	case code >= 800000 && code < 900000:
		return "battle"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 700001: // 外部服务错误
		if code >= 800000 {
			return LevelWarn
		}
		return LevelCritical
	case code == CodeInternalError:
		return LevelError
	default:
		return LevelWarn
	}
}

// isRetryableByCode 根据错误码判断是否可重试
func isRetryableByCode(code ErrorCode) bool {
	switch code {
	case CodeInternalError, CodeExternalServiceError, CodeIdentityServiceError,
		CodeDatabaseError, CodeCacheError, CodeMessageQueueError,
		CodeRateLimitExceeded, CodeResourceLocked:
		return true
	}
	return false
}
