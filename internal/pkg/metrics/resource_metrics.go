// File: internal/pkg/metrics/resource_metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResourceMetrics 基础设施资源指标（数据库连接池、Redis、会话缓存）
type ResourceMetrics struct {
	DBConnections *prometheus.GaugeVec
	DBWaitCount   *prometheus.GaugeVec

	RedisOperations        *prometheus.CounterVec
	RedisOperationDuration *prometheus.HistogramVec

	CacheLookups *prometheus.CounterVec
}

// DefaultResourceMetrics 默认的资源指标实例
var DefaultResourceMetrics *ResourceMetrics

// RedisOperationBuckets Redis 操作延迟 buckets（秒）
var RedisOperationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

func init() {
	DefaultResourceMetrics = NewResourceMetrics("monster")
}

// NewResourceMetrics 创建资源指标收集器
func NewResourceMetrics(namespace string) *ResourceMetrics {
	return NewResourceMetricsWithRegistry(namespace, GetRegisterer())
}

// NewResourceMetricsWithRegistry 创建资源指标收集器（使用自定义注册表）
func NewResourceMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ResourceMetrics {
	factory := promauto.With(registerer)

	return &ResourceMetrics{
		DBConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connections",
				Help:      "Current number of database connections by state (open/in_use/idle/max)",
			},
			[]string{"service", "database", "state"},
		),
		DBWaitCount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "wait_count",
				Help:      "Total number of connections waited for, as reported by database/sql",
			},
			[]string{"service", "database"},
		),
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operations_total",
				Help:      "Total number of Redis operations by type and result (success/error/miss)",
			},
			[]string{"operation", "result", "service"},
		),
		RedisOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operation_duration_seconds",
				Help:      "Redis operation duration in seconds by operation type",
				Buckets:   RedisOperationBuckets,
			},
			[]string{"operation", "service"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "In-process cache lookups by cache and result (hit/miss/expired/evicted)",
			},
			[]string{"cache", "result", "service"},
		),
	}
}

// RecordDBPoolStats 记录数据库连接池状态
func (m *ResourceMetrics) RecordDBPoolStats(service, database string, open, inUse, idle, maxOpen int, waitCount int64) {
	service = normalizeServiceName(service)
	m.DBConnections.WithLabelValues(service, database, "open").Set(float64(open))
	m.DBConnections.WithLabelValues(service, database, "in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues(service, database, "idle").Set(float64(idle))
	m.DBConnections.WithLabelValues(service, database, "max").Set(float64(maxOpen))
	m.DBWaitCount.WithLabelValues(service, database).Set(float64(waitCount))
}

// RecordRedisOperation 记录 Redis 操作
// result: "success" / "error" / "miss"
func (m *ResourceMetrics) RecordRedisOperation(operation, result string, duration time.Duration, service string) {
	service = normalizeServiceName(service)
	m.RedisOperations.WithLabelValues(operation, result, service).Inc()
	m.RedisOperationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

// RecordCacheLookup 记录进程内缓存的命中情况
func (m *ResourceMetrics) RecordCacheLookup(cache, result, service string) {
	service = normalizeServiceName(service)
	m.CacheLookups.WithLabelValues(cache, result, service).Inc()
}
