package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/pkg/xerrors"
)

func newKratosStub(t *testing.T, status int, body string) *KratosClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/whoami", r.URL.Path)
		assert.Equal(t, "token-1", r.Header.Get("X-Session-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewKratosClient(srv.URL)
}

func TestKratosClient_ValidateSession(t *testing.T) {
	body := `{
		"id": "session-1",
		"active": true,
		"expires_at": "2030-01-01T00:00:00Z",
		"identity": {
			"id": "identity-ash",
			"schema_id": "default",
			"schema_url": "http://kratos/schemas/default",
			"traits": {"username": "ash"}
		}
	}`
	c := newKratosStub(t, http.StatusOK, body)

	identityID, expiresAt, err := c.ValidateSession(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "identity-ash", identityID)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), expiresAt.UTC())
}

func TestKratosClient_ValidateSessionUnauthorized(t *testing.T) {
	c := newKratosStub(t, http.StatusUnauthorized, `{"error":{"code":401,"message":"no session"}}`)

	_, _, err := c.ValidateSession(context.Background(), "token-1")
	require.Error(t, err)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeSessionExpired))
}

func TestKratosClient_ValidateSessionInactive(t *testing.T) {
	body := `{
		"id": "session-1",
		"active": false,
		"identity": {
			"id": "identity-ash",
			"schema_id": "default",
			"schema_url": "http://kratos/schemas/default",
			"traits": {}
		}
	}`
	c := newKratosStub(t, http.StatusOK, body)

	_, _, err := c.ValidateSession(context.Background(), "token-1")
	require.Error(t, err)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidToken))
}
