//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nestybox/memfault/domain"
)

const namespace = "memfault"

// Metrics holds the collectors fed by the injector on every intercepted call.
type Metrics struct {
	Calls  *prometheus.CounterVec
	Counts *prometheus.GaugeVec
}

// NewMetrics creates memfault's collectors and registers them on reg. A nil
// registerer leaves them unregistered, which is what unit tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {

	m := &Metrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Intercepted calls per entry point and outcome.",
			},
			[]string{"entry_point", "outcome"},
		),
		Counts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "invocation_count",
				Help:      "Current invocation counter of each entry point.",
			},
			[]string{"entry_point"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Calls, m.Counts)
	}

	return m
}

// Observe accounts for one call to entryPoint. count is the counter value
// after the call completed.
func (m *Metrics) Observe(entryPoint string, o domain.Outcome, count int64) {
	if m == nil {
		return
	}

	m.Calls.WithLabelValues(entryPoint, o.String()).Inc()
	m.Counts.WithLabelValues(entryPoint).Set(float64(count))
}

// Forget resets the gauge of an entry point whose counter went back to zero.
func (m *Metrics) Forget(entryPoint string) {
	if m == nil {
		return
	}

	m.Counts.WithLabelValues(entryPoint).Set(0)
}
