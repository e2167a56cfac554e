// File: internal/pkg/xerrors/errors.go
package xerrors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	LevelInfo ErrorLevel = iota
	LevelWarn
	LevelError
	LevelCritical
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorContext 错误上下文信息
type ErrorContext struct {
	Service   string                 `json:"service,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AppError 领域错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	Level    ErrorLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`

	Context   *ErrorContext `json:"context,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`

	Stack string `json:"stack,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`

	Retryable bool `json:"retryable,omitempty"`
}

// Error 实现标准 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind 返回错误的分类
func (e *AppError) Kind() Kind {
	return KindOfCode(e.Code)
}

// Detail 返回附加的说明（用于拼接面向玩家的提示）
func (e *AppError) Detail() string {
	if e.Context == nil || e.Context.Metadata == nil {
		return ""
	}
	if v, ok := e.Context.Metadata["detail"].(string); ok {
		return v
	}
	return ""
}

// LogValue 实现 slog.LogValuer 接口
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("message", e.Message),
		slog.String("level", e.Level.String()),
		slog.String("category", e.Category),
		slog.String("kind", e.Kind().String()),
		slog.Bool("retryable", e.Retryable),
	}

	if e.Context != nil {
		if e.Context.Service != "" {
			attrs = append(attrs, slog.String("service", e.Context.Service))
		}
		if e.Context.Operation != "" {
			attrs = append(attrs, slog.String("operation", e.Context.Operation))
		}
		if len(e.Context.Metadata) > 0 {
			attrs = append(attrs, slog.Any("metadata", e.Context.Metadata))
		}
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("underlying_error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// WithService 添加服务和操作信息
func (e *AppError) WithService(service, operation string) *AppError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	e.Context.Service = service
	e.Context.Operation = operation
	return e
}

// WithMetadata 添加自定义元数据
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	if e.Context.Metadata == nil {
		e.Context.Metadata = make(map[string]interface{})
	}
	e.Context.Metadata[key] = value
	return e
}

// WithDetail 附加面向玩家的说明
func (e *AppError) WithDetail(format string, args ...interface{}) *AppError {
	return e.WithMetadata("detail", fmt.Sprintf(format, args...))
}

// New 创建新的AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Level:     getLevelByCode(code),
		Category:  getCategoryByCode(code),
		Timestamp: time.Now(),
		Retryable: isRetryableByCode(code),
	}
}

// NewWithError 创建包含原始错误的 AppError
func NewWithError(code ErrorCode, message string, err error) *AppError {
	appErr := New(code, message)
	appErr.Err = err

	if pc, file, line, ok := runtime.Caller(1); ok {
		appErr.File = file
		appErr.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			appErr.Stack = fn.Name()
		}
	}

	return appErr
}

// FromCode 根据错误码创建 AppError
func FromCode(code ErrorCode) *AppError {
	msg, ok := codeMessages[code]
	if !ok {
		msg = codeMessages[CodeInternalError]
	}
	return New(code, msg)
}

// 快捷构造函数

func NewValidationError(field, message string) *AppError {
	return FromCode(CodeInvalidParams).
		WithMetadata("field", field).
		WithMetadata("detail", message)
}

func NewConflictError(resource, reason string) *AppError {
	return FromCode(CodeDuplicateResource).
		WithMetadata("resource", resource).
		WithMetadata("detail", reason)
}

func NewAuthError(message string) *AppError {
	return FromCode(CodeAuthenticationFailed).
		WithMetadata("detail", message)
}

// NewDatabaseError 存储层错误，err 链中已有 AppError 时原样返回
func NewDatabaseError(operation, table string, err error) *AppError {
	if existing, ok := As(err); ok {
		return existing
	}
	appErr := FromCode(CodeDatabaseError).
		WithMetadata("db_operation", operation).
		WithMetadata("table", table)
	appErr.Err = err
	return appErr
}

// NewCacheError 缓存层错误，err 链中已有 AppError 时原样返回
func NewCacheError(operation string, err error) *AppError {
	if existing, ok := As(err); ok {
		return existing
	}
	appErr := FromCode(CodeCacheError).
		WithMetadata("cache_operation", operation)
	appErr.Err = err
	return appErr
}

func NewIdentityServiceError(operation string, err error) *AppError {
	appErr := FromCode(CodeIdentityServiceError).
		WithMetadata("identity_operation", operation)
	appErr.Err = err
	return appErr
}

// NewSessionInvalidError 创建会话无效错误
func NewSessionInvalidError(reason string) *AppError {
	return FromCode(CodeInvalidToken).
		WithMetadata("detail", reason)
}

// NewSessionExpiredError 创建会话过期错误
func NewSessionExpiredError() *AppError {
	return FromCode(CodeSessionExpired)
}

// 对战业务错误快捷构造器

func NewBattleNotFoundError(sessionID string) *AppError {
	return FromCode(CodeBattleNotFound).
		WithMetadata("adventure_session_id", sessionID)
}

func NewBattleAlreadyActiveError(sessionID, battleID string) *AppError {
	return FromCode(CodeBattleAlreadyActive).
		WithMetadata("adventure_session_id", sessionID).
		WithMetadata("battle_id", battleID)
}

func NewBattleNotActiveError(battleID, status string) *AppError {
	return FromCode(CodeBattleNotActive).
		WithMetadata("battle_id", battleID).
		WithMetadata("status", status)
}

func NewTrainerNotFoundError(name string) *AppError {
	return FromCode(CodeTrainerNotFound).
		WithMetadata("trainer", name).
		WithDetail("%s", name)
}

func NewMonsterNotFoundError(name string) *AppError {
	return FromCode(CodeMonsterNotFound).
		WithMetadata("monster", name).
		WithDetail("%s", name)
}

func NewNotOwnerError(identityID, resource string) *AppError {
	return FromCode(CodeNotOwner).
		WithMetadata("identity_id", identityID).
		WithMetadata("resource", resource)
}

func NewAdminRequiredError(identityID, operation string) *AppError {
	return FromCode(CodeAdminRequired).
		WithMetadata("identity_id", identityID).
		WithMetadata("operation", operation)
}

// Wrap 包装标准错误为 AppError(保留堆栈)
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewWithError(code, message, err)
}

// As 提取错误链中的 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode 判断错误链中是否包含指定错误码
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
