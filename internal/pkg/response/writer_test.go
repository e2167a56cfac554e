package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"monster-battle/internal/pkg/i18n"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/xerrors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccess(t *testing.T) {
	h := NewResponseHandler(log.NewNopLogger(), "test")
	rec := httptest.NewRecorder()

	require.NoError(t, h.WriteSuccess(context.Background(), rec, map[string]int{"turn": 3}))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(xerrors.CodeSuccess), body["code"])
	assert.Equal(t, float64(3), body["data"].(map[string]any)["turn"])
}

func TestWriteError_LocalizesBattleError(t *testing.T) {
	h := NewResponseHandler(log.NewNopLogger(), "test")
	rec := httptest.NewRecorder()
	ctx := i18n.WithLanguage(context.Background(), language.English)

	require.NoError(t, h.WriteError(ctx, rec, xerrors.FromCode(xerrors.CodeNotYourTurn)))

	assert.Equal(t, xerrors.GetHTTPStatus(xerrors.CodeNotYourTurn), rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "It is not your turn", body["message"])
}

func TestWriteError_HidesInternalDetailInProduction(t *testing.T) {
	h := NewResponseHandler(log.NewNopLogger(), "production")
	rec := httptest.NewRecorder()

	require.NoError(t, h.WriteError(context.Background(), rec, errors.New("pq: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "内部服务错误", body["message"])
	_, hasDetail := body["error"]
	assert.False(t, hasDetail)
}
