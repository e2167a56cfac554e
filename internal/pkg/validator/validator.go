package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"monster-battle/internal/pkg/xerrors"
)

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Option 验证器配置项
type Option func(v *validator.Validate)

// WithEnum 注册枚举类标签，取值大小写不敏感，空值交给 required 处理
func WithEnum(tag string, values ...string) Option {
	allowed := make(map[string]struct{}, len(values))
	for _, value := range values {
		allowed[strings.ToLower(value)] = struct{}{}
	}
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			if value == "" {
				return true
			}
			_, ok := allowed[strings.ToLower(value)]
			return ok
		})
	}
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		field := "request"
		if details := TranslateValidationErrors(err); len(details) > 0 {
			field = details[0].Field
		}
		return xerrors.NewValidationError(field, TranslateValidationError(err))
	}
	return nil
}

// New creates a new custom validator instance
func New(opts ...Option) *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("trainer_name", validateTrainerName)
	_ = v.RegisterValidation("narrative", validateNarrative)
	for _, opt := range opts {
		opt(v)
	}
	return &CustomValidator{validator: v}
}
