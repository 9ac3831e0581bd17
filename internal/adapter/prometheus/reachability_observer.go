package prometheus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/khmm12/reachability-checker/internal/ports"
)

var _ ports.EventObserver = (*ReachabilityObserver)(nil)

// ReachabilityObserver mirrors run events into Prometheus metrics. Per-address
// status is last-write-wins and is reset whenever a new run shows up.
type ReachabilityObserver struct {
	logger   *slog.Logger
	exporter *Exporter

	mu     sync.Mutex
	runID  string
	states map[string]bool
}

func NewReachabilityObserver(logger *slog.Logger, exporter *Exporter) *ReachabilityObserver {
	return &ReachabilityObserver{
		logger:   logger,
		exporter: exporter,
		states:   make(map[string]bool),
	}
}

func (o *ReachabilityObserver) Observe(ctx context.Context, ev ports.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	m := o.exporter.metrics

	if ev.RunID != o.runID {
		o.logger.DebugContext(ctx, "Resetting reachability metrics for new run", slog.String("run_id", ev.RunID))

		o.runID = ev.RunID
		o.states = make(map[string]bool)
		m.addressStatus.Reset()
		m.addressesAlive.Set(0)
		m.addressesDown.Set(0)
		m.runActive.Set(1)
	}

	switch ev.Kind {
	case ports.EventProbing:
		m.runActive.Set(1)
	case ports.EventStatus:
		o.states[ev.Address] = ev.Alive

		result, status := "down", 0.0
		if ev.Alive {
			result, status = "alive", 1.0
		}

		m.addressStatus.WithLabelValues(ev.Address).Set(status)
		m.probesTotal.WithLabelValues(result).Inc()
		o.recount()
	case ports.EventStop:
		m.runActive.Set(0)
		m.runsTotal.Inc()
	}
}

func (o *ReachabilityObserver) recount() {
	var alive, down int

	for _, up := range o.states {
		if up {
			alive++
		} else {
			down++
		}
	}

	o.exporter.metrics.addressesAlive.Set(float64(alive))
	o.exporter.metrics.addressesDown.Set(float64(down))
}
