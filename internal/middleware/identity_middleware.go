package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"monster-battle/internal/pkg/ctxkey"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/response"
	"monster-battle/internal/pkg/sessioncache"
)

// SessionValidator 校验会话令牌并返回身份 ID
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionToken string) (identityID string, expiresAt time.Time, err error)
}

// IdentityMiddleware 解析调用者身份
// 优先使用网关（Oathkeeper）注入的 X-User-ID，其次校验 X-Session-Token / Bearer 令牌
func IdentityMiddleware(validator SessionValidator, cache *sessioncache.Cache, respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			identityID := strings.TrimSpace(req.Header.Get("X-User-ID"))
			token := sessionToken(req.Header.Get("X-Session-Token"), req.Header.Get("Authorization"))

			if identityID == "" && token != "" && validator != nil {
				resolved, err := resolveIdentity(ctx, validator, cache, token)
				if err != nil {
					logger.WarnContext(ctx, "会话校验失败", log.Any("error", err))
					return respWriter.WriteError(ctx, c.Response().Writer, err)
				}
				identityID = resolved
			}

			if identityID == "" {
				logger.WarnContext(ctx, "认证失败: 缺少身份信息")
				return response.EchoUnauthorized(c, respWriter, "missing identity")
			}

			ctx = ctxkey.WithValue(ctx, ctxkey.IdentityID, identityID)
			if token != "" {
				ctx = ctxkey.WithValue(ctx, ctxkey.SessionToken, token)
			}
			c.SetRequest(req.WithContext(ctx))
			c.Set(string(ctxkey.IdentityID), identityID)

			return next(c)
		}
	}
}

func resolveIdentity(ctx context.Context, validator SessionValidator, cache *sessioncache.Cache, token string) (string, error) {
	if cache != nil {
		if session, ok := cache.Get(ctx, token); ok {
			return session.IdentityID, nil
		}
	}

	identityID, expiresAt, err := validator.ValidateSession(ctx, token)
	if err != nil {
		if cache != nil {
			cache.Delete(ctx, token, "validation_failed")
		}
		return "", err
	}

	if cache != nil {
		cache.Set(ctx, sessioncache.Session{Token: token, IdentityID: identityID, ExpiresAt: expiresAt})
	}
	return identityID, nil
}

func sessionToken(header, authorization string) string {
	if token := strings.TrimSpace(header); token != "" {
		return token
	}
	const prefix = "bearer "
	if len(authorization) > len(prefix) && strings.EqualFold(authorization[:len(prefix)], prefix) {
		return strings.TrimSpace(authorization[len(prefix):])
	}
	return ""
}

// GetIdentityID 从 Echo Context 中获取当前身份 ID
func GetIdentityID(c echo.Context) string {
	if id, ok := c.Get(string(ctxkey.IdentityID)).(string); ok {
		return id
	}
	return ctxkey.GetString(c.Request().Context(), ctxkey.IdentityID)
}
