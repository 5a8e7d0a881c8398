package emulator

import "github.com/prometheus/client_golang/prometheus"

// Metrics carries the registry's prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	loads      *prometheus.CounterVec
	cacheHits  *prometheus.CounterVec
	violations *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them with reg, which may be
// prometheus.DefaultRegisterer or a per-test registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmocore",
			Subsystem: "emulator",
			Name:      "model_loads_total",
			Help:      "Model loads performed, by model name.",
		}, []string{"model"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmocore",
			Subsystem: "emulator",
			Name:      "model_cache_hits_total",
			Help:      "Model requests served from the in-process cache.",
		}, []string{"model"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmocore",
			Subsystem: "emulator",
			Name:      "bounds_violations_total",
			Help:      "Proposals rejected for leaving the trained region.",
		}, []string{"model"}),
	}
	for _, c := range []prometheus.Collector{m.loads, m.cacheHits, m.violations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordLoad(model string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(model).Inc()
}

func (m *Metrics) recordCacheHit(model string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(model).Inc()
}

func (m *Metrics) recordViolation(model string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(model).Inc()
}
