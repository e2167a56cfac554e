package middleware

import (
	"monster-battle/internal/pkg/ctxkey"
	"monster-battle/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 限流中间件，已识别身份时按身份限流，否则按客户端 IP
func RateLimitMiddleware(perSecond float64, burst int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if identityID := ctxkey.GetString(c.Request().Context(), ctxkey.IdentityID); identityID != "" {
				return "identity:" + identityID, nil
			}
			return "ip:" + c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return xerrors.FromCode(xerrors.CodeInvalidRequest).
				WithService("echo-middleware", "rate_limiter").
				WithMetadata("client_ip", c.RealIP())
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return xerrors.FromCode(xerrors.CodeRateLimitExceeded).
				WithService("echo-middleware", "rate_limiter").
				WithMetadata("identifier", identifier)
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
