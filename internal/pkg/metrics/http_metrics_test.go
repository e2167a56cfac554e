package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareWithMetrics_RecordsRouteTemplate(t *testing.T) {
	m := NewHTTPMetricsWithRegistry("test", prometheus.NewRegistry())

	e := echo.New()
	e.Use(MiddlewareWithMetrics(m))
	e.GET("/battles/sessions/:session_id/status", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/battles/sessions/a/status", "/battles/sessions/b/status", "/health"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(GetServiceName(), "/battles/sessions/:session_id/status", http.MethodGet, "200"))
	assert.Equal(t, float64(2), count)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RequestsInProgress.WithLabelValues(GetServiceName())))
}
