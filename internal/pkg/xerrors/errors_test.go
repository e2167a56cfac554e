package xerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewDatabaseError("save", "battles", cause)

	require.NotNil(t, appErr)
	assert.Equal(t, CodeDatabaseError, appErr.Code)
	assert.Equal(t, KindInternal, appErr.Kind())
	assert.True(t, appErr.Retryable)
	assert.Equal(t, "save", appErr.Context.Metadata["db_operation"])
	assert.Equal(t, "battles", appErr.Context.Metadata["table"])
	assert.ErrorIs(t, appErr, cause)
}

func TestNewCacheError(t *testing.T) {
	cause := errors.New("redis timeout")
	appErr := NewCacheError("acquire_session_guard", cause)

	assert.Equal(t, CodeCacheError, appErr.Code)
	assert.Equal(t, "acquire_session_guard", appErr.Context.Metadata["cache_operation"])
	assert.ErrorIs(t, appErr, cause)
}

func TestInfraErrors_KeepExistingAppError(t *testing.T) {
	inner := NewBattleNotFoundError("s1")
	wrapped := fmt.Errorf("load: %w", inner)

	assert.Same(t, inner, NewDatabaseError("load_latest", "battles", wrapped))
	assert.Same(t, inner, NewCacheError("acquire_session_guard", wrapped))
	assert.True(t, HasCode(NewDatabaseError("save", "battles", inner), CodeBattleNotFound))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternalError, "unused"))

	inner := NewValidationError("side", "side must be A or B")
	assert.Same(t, inner, Wrap(inner, CodeInternalError, "unused"))

	cause := errors.New("boom")
	appErr := Wrap(cause, CodeInternalError, "unexpected")
	assert.Equal(t, CodeInternalError, appErr.Code)
	assert.Equal(t, "unexpected", appErr.Message)
	assert.NotEmpty(t, appErr.File)
	assert.ErrorIs(t, appErr, cause)
}

func TestDetail(t *testing.T) {
	assert.Empty(t, FromCode(CodeInternalError).Detail())
	assert.Equal(t, "Pikachu", NewMonsterNotFoundError("Pikachu").Detail())
}
