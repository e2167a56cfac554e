// File: internal/pkg/metrics/middleware.go
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EchoHandler 暴露 /metrics 端点
// registerer 同时实现 Gatherer 时使用它，否则回落到默认的 Gatherer
func EchoHandler() echo.HandlerFunc {
	gatherer := prometheus.DefaultGatherer
	if g, ok := GetRegisterer().(prometheus.Gatherer); ok {
		gatherer = g
	}
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	}
}
