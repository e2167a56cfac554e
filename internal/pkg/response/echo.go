package response

import (
	"github.com/labstack/echo/v4"

	"monster-battle/internal/pkg/xerrors"
)

// EchoOK 写出成功响应
func EchoOK[T any](c echo.Context, w Writer, data T) error {
	return w.WriteSuccess(c.Request().Context(), c.Response().Writer, data)
}

// EchoError 按错误码写出错误响应
func EchoError(c echo.Context, w Writer, err error) error {
	return w.WriteError(c.Request().Context(), c.Response().Writer, err)
}

// EchoBadRequest 请求体无法解析时使用
func EchoBadRequest(c echo.Context, w Writer, message string) error {
	return EchoError(c, w, xerrors.NewValidationError("request", message))
}

// EchoUnauthorized 缺少或无法识别调用方身份
func EchoUnauthorized(c echo.Context, w Writer, message string) error {
	return EchoError(c, w, xerrors.NewAuthError(message))
}

// EchoJSON 以指定状态码直接写出 data，不再包装
func EchoJSON(c echo.Context, w Writer, data any, statusCode int) error {
	return w.WriteJSON(c.Request().Context(), c.Response().Writer, data, statusCode)
}
