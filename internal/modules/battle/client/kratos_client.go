package client

import (
	"context"
	"net/http"
	"time"

	ory "github.com/ory/kratos-client-go"

	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/xerrors"
)

// KratosClient 通过 Kratos Public API 校验会话
type KratosClient struct {
	publicURL    string
	publicClient *ory.APIClient
}

// NewKratosClient 创建 Kratos 客户端
func NewKratosClient(publicURL string) *KratosClient {
	cfg := ory.NewConfiguration()
	cfg.Servers = []ory.ServerConfiguration{
		{
			URL: publicURL,
		},
	}
	return &KratosClient{
		publicURL:    publicURL,
		publicClient: ory.NewAPIClient(cfg),
	}
}

// ValidateSession 校验会话令牌，返回身份 ID 与过期时间
func (c *KratosClient) ValidateSession(ctx context.Context, sessionToken string) (string, time.Time, error) {
	session, resp, err := c.publicClient.FrontendAPI.ToSession(ctx).
		XSessionToken(sessionToken).
		Execute()

	if resp != nil && resp.StatusCode >= http.StatusBadRequest {
		log.WarnContext(ctx, "Kratos API 返回错误状态码",
			"status_code", resp.StatusCode,
			"operation", "ValidateSession")
		if resp.StatusCode == http.StatusUnauthorized {
			return "", time.Time{}, xerrors.NewSessionExpiredError().
				WithService("kratos_client", "ValidateSession")
		}
		return "", time.Time{}, xerrors.NewSessionInvalidError("session validation failed").
			WithService("kratos_client", "ValidateSession")
	}
	if err != nil {
		log.ErrorContext(ctx, "验证 Session 失败", log.Any("error", err))
		return "", time.Time{}, xerrors.NewIdentityServiceError("to_session", err).
			WithService("kratos_client", "ValidateSession")
	}

	if !session.GetActive() || session.Identity == nil {
		return "", time.Time{}, xerrors.NewSessionInvalidError("session inactive").
			WithService("kratos_client", "ValidateSession")
	}

	return session.Identity.Id, session.GetExpiresAt(), nil
}
