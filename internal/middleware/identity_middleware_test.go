package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/pkg/ctxkey"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/response"
	"monster-battle/internal/pkg/sessioncache"
	"monster-battle/internal/pkg/xerrors"
)

type fakeSessionValidator struct {
	identities map[string]string
	calls      int
}

func (f *fakeSessionValidator) ValidateSession(_ context.Context, token string) (string, time.Time, error) {
	f.calls++
	if id, ok := f.identities[token]; ok {
		return id, time.Time{}, nil
	}
	return "", time.Time{}, xerrors.NewSessionInvalidError("unknown token")
}

func runIdentity(t *testing.T, validator SessionValidator, cache *sessioncache.Cache, headers map[string]string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	logger := log.NewNopLogger()
	writer := response.NewResponseHandler(logger, "test")

	var seen string
	handler := IdentityMiddleware(validator, cache, writer, logger)(func(c echo.Context) error {
		seen = ctxkey.GetString(c.Request().Context(), ctxkey.IdentityID)
		assert.Equal(t, seen, GetIdentityID(c))
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/battles/sessions/s1/status", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec, seen
}

func TestIdentityMiddleware_GatewayHeader(t *testing.T) {
	rec, seen := runIdentity(t, nil, nil, map[string]string{"X-User-ID": "ash"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ash", seen)
}

func TestIdentityMiddleware_SessionTokenIsCached(t *testing.T) {
	validator := &fakeSessionValidator{identities: map[string]string{"tok": "misty"}}
	cache := sessioncache.New(time.Minute, 10,
		metrics.NewResourceMetricsWithRegistry("test", prometheus.NewRegistry()), log.NewNopLogger())

	_, seen := runIdentity(t, validator, cache, map[string]string{"Authorization": "Bearer tok"})
	assert.Equal(t, "misty", seen)
	_, seen = runIdentity(t, validator, cache, map[string]string{"X-Session-Token": "tok"})
	assert.Equal(t, "misty", seen)

	assert.Equal(t, 1, validator.calls)
}

func TestIdentityMiddleware_RejectsMissingIdentity(t *testing.T) {
	rec, seen := runIdentity(t, nil, nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seen)
}

func TestIdentityMiddleware_RejectsInvalidToken(t *testing.T) {
	validator := &fakeSessionValidator{identities: map[string]string{}}
	rec, seen := runIdentity(t, validator, nil, map[string]string{"X-Session-Token": "bogus"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seen)
}

func TestSessionToken(t *testing.T) {
	assert.Equal(t, "abc", sessionToken("abc", "Bearer other"))
	assert.Equal(t, "other", sessionToken("", "bearer other"))
	assert.Equal(t, "", sessionToken("", "Basic xyz"))
}
