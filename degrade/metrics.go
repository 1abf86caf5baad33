package degrade

import "github.com/prometheus/client_golang/prometheus"

// 指标标签
const (
	labelTransition = "transition" // failure | success | reset
	labelChanged    = "changed"    // true | false
)

// breakerMetrics 状态迁移指标（内部使用）
type breakerMetrics struct {
	transitions *prometheus.CounterVec
	tier        prometheus.Gauge
}

// newBreakerMetrics 创建并注册指标，reg 为 nil 时返回 nil（指标关闭）
func newBreakerMetrics(reg prometheus.Registerer) *breakerMetrics {
	if reg == nil {
		return nil
	}

	m := &breakerMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tiergate",
			Subsystem: "breaker",
			Name:      "transitions_total",
			Help:      "Number of breaker state transitions by type and outcome.",
		}, []string{labelTransition, labelChanged}),
		tier: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tiergate",
			Subsystem: "breaker",
			Name:      "tier",
			Help:      "Current breaker tier (1=full, 2=degraded, 3=maintenance).",
		}),
	}

	reg.MustRegister(m.transitions, m.tier)
	return m
}

// observe 记录一次状态迁移
func (m *breakerMetrics) observe(transition string, res Result) {
	if m == nil {
		return
	}
	changed := "false"
	if res.Changed {
		changed = "true"
	}
	m.transitions.WithLabelValues(transition, changed).Inc()
	m.tier.Set(float64(res.Tier))
}
