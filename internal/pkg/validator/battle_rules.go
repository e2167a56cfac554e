package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxNarrativeRunes 单条叙事文本的最大长度
const MaxNarrativeRunes = 2000

// validateTrainerName 训练师名称: 1-64 个字符，不含控制字符
func validateTrainerName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if name == "" {
		return true
	}
	if utf8.RuneCountInString(name) > 64 {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// validateNarrative 叙事文本不能超长，不能包含脚本标签
func validateNarrative(fl validator.FieldLevel) bool {
	text := fl.Field().String()
	if utf8.RuneCountInString(text) > MaxNarrativeRunes {
		return false
	}
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "<script") && !strings.Contains(lower, "javascript:")
}
