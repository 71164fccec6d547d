package bridge

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/bertml/resource"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomePanic = "panic"
)

// Metrics records boundary call outcomes and live handle counts.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls *prometheus.CounterVec
	live  *prometheus.GaugeVec
}

// NewMetrics creates the bridge collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bertml",
				Subsystem: "bridge",
				Name:      "calls_total",
				Help:      "Total number of boundary calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		live: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bertml",
				Subsystem: "bridge",
				Name:      "live_handles",
				Help:      "Live handles per resource table",
			},
			[]string{"table"},
		),
	}
	for _, c := range []prometheus.Collector{m.calls, m.live} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCall(op, outcome string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unnamed"
	}
	m.calls.WithLabelValues(op, outcome).Inc()
}

// OnResourceEvent tracks the live handle gauge of the event's table.
func (m *Metrics) OnResourceEvent(e resource.Event) {
	if m == nil {
		return
	}
	switch e.Type {
	case resource.EventAllocated:
		m.live.WithLabelValues(e.Table).Inc()
	case resource.EventDeallocated:
		m.live.WithLabelValues(e.Table).Dec()
	}
}
