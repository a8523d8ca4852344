package cart

import "github.com/prometheus/client_golang/prometheus"

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"

	outcomeOK   = "ok"
	outcomeNoop = "noop"
)

// Metrics counts cart operation outcomes. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Operations   *prometheus.CounterVec
	SaveFailures prometheus.Counter
	Sessions     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_operations_total",
				Help: "Cart operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_save_failures_total",
			Help: "Cart persistence writes that failed",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_sessions_active",
			Help: "Carts currently held in memory",
		}),
	}

	reg.MustRegister(m.Operations, m.SaveFailures, m.Sessions)
	return m
}

func (m *Metrics) observe(op, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) saveFailed() {
	if m == nil {
		return
	}
	m.SaveFailures.Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.Sessions.Inc()
}
