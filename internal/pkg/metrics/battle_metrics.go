// File: internal/pkg/metrics/battle_metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BattleMetrics 对战业务指标
type BattleMetrics struct {
	BattlesStarted  *prometheus.CounterVec
	BattlesFinished *prometheus.CounterVec
	ActiveBattles   *prometheus.GaugeVec
	BattleTurns     *prometheus.HistogramVec

	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec

	RewardsGranted *prometheus.CounterVec
	BattlesReaped  *prometheus.CounterVec
}

// DefaultBattleMetrics 默认的对战指标实例
var DefaultBattleMetrics *BattleMetrics

// ActionDurationBuckets 动作处理耗时 buckets（秒）
var ActionDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// BattleTurnBuckets 单场对战回合数 buckets
var BattleTurnBuckets = []float64{1, 2, 4, 8, 16, 32, 64, 128, 200}

func init() {
	DefaultBattleMetrics = NewBattleMetrics("monster")
}

// NewBattleMetrics 创建对战指标收集器
func NewBattleMetrics(namespace string) *BattleMetrics {
	return NewBattleMetricsWithRegistry(namespace, GetRegisterer())
}

// NewBattleMetricsWithRegistry 创建对战指标收集器（使用自定义注册表）
func NewBattleMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *BattleMetrics {
	factory := promauto.With(registerer)

	return &BattleMetrics{
		BattlesStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "started_total",
				Help:      "Total number of battles started by mode (wild/pvp)",
			},
			[]string{"mode", "service"},
		),
		BattlesFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "finished_total",
				Help:      "Total number of battles that reached a terminal status",
			},
			[]string{"mode", "status", "service"},
		),
		ActiveBattles: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "active",
				Help:      "Current number of open or active battles held in memory",
			},
			[]string{"service"},
		),
		BattleTurns: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "turns",
				Help:      "Number of turns played before a battle finished",
				Buckets:   BattleTurnBuckets,
			},
			[]string{"mode", "service"},
		),
		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "actions_total",
				Help:      "Total number of battle actions by type and result (accepted/rejected/failed)",
			},
			[]string{"action", "result", "service"},
		),
		ActionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "action_duration_seconds",
				Help:      "Time spent resolving and persisting a battle action",
				Buckets:   ActionDurationBuckets,
			},
			[]string{"action", "service"},
		),
		RewardsGranted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "rewards_granted_total",
				Help:      "Total number of reward grants by outcome (win/draw/forfeit)",
			},
			[]string{"outcome", "service"},
		),
		BattlesReaped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "reaped_total",
				Help:      "Total number of idle battles force-closed by the reaper",
			},
			[]string{"service"},
		),
	}
}

// RecordBattleStarted 记录对战开始
func (m *BattleMetrics) RecordBattleStarted(mode, service string) {
	service = normalizeServiceName(service)
	m.BattlesStarted.WithLabelValues(mode, service).Inc()
	m.ActiveBattles.WithLabelValues(service).Inc()
}

// RecordBattleFinished 记录对战结束
func (m *BattleMetrics) RecordBattleFinished(mode, status string, turns int, service string) {
	service = normalizeServiceName(service)
	m.BattlesFinished.WithLabelValues(mode, status, service).Inc()
	m.ActiveBattles.WithLabelValues(service).Dec()
	m.BattleTurns.WithLabelValues(mode, service).Observe(float64(turns))
}

// RecordAction 记录一次对战动作
// result: "accepted" / "rejected" / "failed"
func (m *BattleMetrics) RecordAction(action, result string, duration time.Duration, service string) {
	service = normalizeServiceName(service)
	m.ActionsTotal.WithLabelValues(action, result, service).Inc()
	m.ActionDuration.WithLabelValues(action, service).Observe(duration.Seconds())
}

// RecordRewardGranted 记录奖励发放
func (m *BattleMetrics) RecordRewardGranted(outcome, service string) {
	m.RewardsGranted.WithLabelValues(outcome, normalizeServiceName(service)).Inc()
}

// RecordBattleReaped 记录被回收的闲置对战
func (m *BattleMetrics) RecordBattleReaped(service string) {
	m.BattlesReaped.WithLabelValues(normalizeServiceName(service)).Inc()
}
