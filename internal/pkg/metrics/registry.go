package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// registererHolder 保存包级指标构造函数使用的 Registerer
type registererHolder struct {
	mu         sync.RWMutex
	registerer prometheus.Registerer
}

var defaultRegisterer = &registererHolder{registerer: prometheus.DefaultRegisterer}

// GetRegisterer 当前的 Registerer，NewBattleMetrics 等构造函数和 /metrics 端点都从这里取
func GetRegisterer() prometheus.Registerer {
	defaultRegisterer.mu.RLock()
	defer defaultRegisterer.mu.RUnlock()
	return defaultRegisterer.registerer
}

// WithRegisterer 在 fn 执行期间使用 r，结束后恢复原值
// 测试中用来隔离 promauto 的重复注册
func WithRegisterer(r prometheus.Registerer, fn func()) {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	defaultRegisterer.mu.Lock()
	previous := defaultRegisterer.registerer
	defaultRegisterer.registerer = r
	defaultRegisterer.mu.Unlock()

	defer func() {
		defaultRegisterer.mu.Lock()
		defaultRegisterer.registerer = previous
		defaultRegisterer.mu.Unlock()
	}()
	fn()
}
