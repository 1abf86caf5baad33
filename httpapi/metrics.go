package httpapi

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ceyewan/tiergate/degrade"
)

// apiMetrics HTTP 层的 Prometheus 指标
type apiMetrics struct {
	invokes       *prometheus.CounterVec
	storageErrors prometheus.Counter
}

// newAPIMetrics 注册 HTTP 指标，reg 为 nil 时返回 nil（指标关闭）
func newAPIMetrics(reg *prometheus.Registry) *apiMetrics {
	if reg == nil {
		return nil
	}
	m := &apiMetrics{
		invokes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tiergate",
			Subsystem: "http",
			Name:      "invokes_total",
			Help:      "Invoke requests by serving tier and response status.",
		}, []string{"tier", "status"}),
		storageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tiergate",
			Subsystem: "http",
			Name:      "storage_errors_total",
			Help:      "Requests rejected because breaker storage was unavailable.",
		}),
	}
	reg.MustRegister(m.invokes, m.storageErrors)
	return m
}

func (m *apiMetrics) observeInvoke(tier degrade.Tier, status int) {
	if m == nil {
		return
	}
	m.invokes.WithLabelValues(strconv.Itoa(int(tier)), strconv.Itoa(status)).Inc()
}

func (m *apiMetrics) observeStorageError() {
	if m == nil {
		return
	}
	m.storageErrors.Inc()
}
