package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	runActive      prometheus.Gauge
	runsTotal      prometheus.Counter
	addressesAlive prometheus.Gauge
	addressesDown  prometheus.Gauge
	addressStatus  *prometheus.GaugeVec
	probesTotal    *prometheus.CounterVec
	eventsDropped  prometheus.Counter
}

const (
	prefix = "reachability_"
)

func newMetrics(reg *prometheus.Registry) (*metrics, error) {
	m := &metrics{
		runActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "run_active",
			Help: "Whether a probe run is in progress (1: running, 0: stopped)",
		}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "runs_total",
			Help: "Number of probe runs that have finished",
		}),
		addressesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "addresses_alive",
			Help: "Number of addresses whose latest attempt succeeded",
		}),
		addressesDown: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "addresses_down",
			Help: "Number of addresses whose latest attempt failed",
		}),
		addressStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "address_status",
			Help: "Status of a specific address (1: alive, 0: down)",
		}, []string{"address"}),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "probes_total",
			Help: "Number of completed probe attempts by result",
		}, []string{"result"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "events_dropped_total",
			Help: "Number of events dropped because a subscriber was not keeping up",
		}),
	}

	err := register(reg,
		m.runActive,
		m.runsTotal,
		m.addressesAlive,
		m.addressesDown,
		m.addressStatus,
		m.probesTotal,
		m.eventsDropped,
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register(r *prometheus.Registry, cs ...prometheus.Collector) error {
	for i, c := range cs {
		if err := r.Register(c); err != nil {
			for _, c := range cs[:i] {
				r.Unregister(c)
			}

			return err
		}
	}

	return nil
}
