package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/pkg/xerrors"
)

type weatherRequest struct {
	Weather     string `validate:"required,battle_weather"`
	TrainerName string `validate:"required,trainer_name"`
	Narrative   string `validate:"narrative"`
}

func newTestValidator() *CustomValidator {
	return New(WithEnum("battle_weather", "clear", "rain", "sunny"))
}

func TestCustomValidator_AcceptsKnownEnum(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(&weatherRequest{Weather: "Rain", TrainerName: "Ash"})
	require.NoError(t, err)
}

func TestCustomValidator_RejectsUnknownEnum(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(&weatherRequest{Weather: "volcano", TrainerName: "Ash"})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))

	appErr, ok := xerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "天气的取值无效", appErr.Detail())
}

func TestCustomValidator_Narrative(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(&weatherRequest{Weather: "clear", TrainerName: "Ash", Narrative: "<script>alert(1)</script>"})
	require.Error(t, err)

	err = v.Validate(&weatherRequest{Weather: "clear", TrainerName: "Ash", Narrative: strings.Repeat("a", MaxNarrativeRunes+1)})
	require.Error(t, err)

	err = v.Validate(&weatherRequest{Weather: "clear", TrainerName: "Ash", Narrative: "Pikachu dashes forward"})
	require.NoError(t, err)
}

func TestTranslateValidationErrors_Required(t *testing.T) {
	v := newTestValidator()

	err := v.validator.Struct(&weatherRequest{})
	details := TranslateValidationErrors(err)
	require.Len(t, details, 2)
	assert.Equal(t, "天气不能为空", details[0].Message)
	assert.Equal(t, "训练师名称不能为空", details[1].Message)
}
