package response

import (
	"context"
	"encoding/json"
	"net/http"

	"monster-battle/internal/pkg/i18n"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/trace"
	"monster-battle/internal/pkg/xerrors"
)

// Writer 统一的响应写入接口
type Writer interface {
	WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
	WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error
}

// ResponseHandler 默认的响应写入实现
type ResponseHandler struct {
	logger      log.Logger
	environment string
}

// NewResponseHandler 创建响应处理器
func NewResponseHandler(logger log.Logger, environment string) *ResponseHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ResponseHandler{logger: logger, environment: environment}
}

// WriteSuccess 写入成功响应
func (h *ResponseHandler) WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error {
	resp := Success(&data)
	resp.TraceId = trace.GetTraceID(ctx)
	return h.write(ctx, w, http.StatusOK, resp)
}

// WriteError 写入错误响应，内部错误只返回通用文案
func (h *ResponseHandler) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr := xerrors.Wrap(err, xerrors.CodeInternalError, "unexpected error")
	if appErr == nil {
		appErr = xerrors.FromCode(xerrors.CodeInternalError)
	}

	lang := i18n.GetLanguage(ctx)
	message := i18n.GetErrorMessage(appErr.Code, lang)
	detail := ""
	if appErr.Kind() == xerrors.KindInternal {
		log.LogAppError(ctx, h.logger, "request failed", appErr)
		if h.environment != "production" && appErr.Err != nil {
			detail = appErr.Err.Error()
		}
	} else {
		detail = appErr.Detail()
	}

	resp := Error[EmptyData](appErr.Code.ToInt(), message, detail)
	resp.TraceId = trace.GetTraceID(ctx)
	return h.write(ctx, w, xerrors.GetHTTPStatus(appErr.Code), resp)
}

// WriteJSON 直接写入 JSON
func (h *ResponseHandler) WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	return h.write(ctx, w, statusCode, data)
}

func (h *ResponseHandler) write(ctx context.Context, w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "写入JSON响应失败", log.Any("error", err))
		return err
	}
	return nil
}
