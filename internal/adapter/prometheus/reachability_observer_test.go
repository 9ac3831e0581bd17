package prometheus

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/khmm12/reachability-checker/internal/ports"
)

func TestReachabilityObserver_TracksLatestStatusPerAddress(t *testing.T) {
	ctx := context.Background()
	exporter, observer := newTestObserver(t)

	observer.Observe(ctx, ports.NewProbingEvent("run-1", "http://a.example"))
	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://b.example", false))
	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://c.example", true))
	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://c.example", false))

	m := exporter.metrics

	requireMetric(t, 1.0, m.runActive)
	requireMetric(t, 1.0, m.addressesAlive)
	requireMetric(t, 2.0, m.addressesDown)
	requireMetric(t, 1.0, m.addressStatus.WithLabelValues("http://a.example"))
	requireMetric(t, 0.0, m.addressStatus.WithLabelValues("http://b.example"))
	requireMetric(t, 0.0, m.addressStatus.WithLabelValues("http://c.example"))
	requireMetric(t, 2.0, m.probesTotal.WithLabelValues("alive"))
	requireMetric(t, 2.0, m.probesTotal.WithLabelValues("down"))
}

func TestReachabilityObserver_StopMarksRunInactive(t *testing.T) {
	ctx := context.Background()
	exporter, observer := newTestObserver(t)

	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	observer.Observe(ctx, ports.NewStopEvent("run-1"))

	requireMetric(t, 0.0, exporter.metrics.runActive)
	requireMetric(t, 1.0, exporter.metrics.runsTotal)
	requireMetric(t, 1.0, exporter.metrics.addressesAlive)
}

func TestReachabilityObserver_ResetsOnNewRun(t *testing.T) {
	ctx := context.Background()
	exporter, observer := newTestObserver(t)

	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	observer.Observe(ctx, ports.NewStatusEvent("run-1", "http://b.example", false))
	observer.Observe(ctx, ports.NewStopEvent("run-1"))

	observer.Observe(ctx, ports.NewStatusEvent("run-2", "http://c.example", true))

	m := exporter.metrics

	requireMetric(t, 1.0, m.runActive)
	requireMetric(t, 1.0, m.addressesAlive)
	requireMetric(t, 0.0, m.addressesDown)
	require.Equal(t, 1, testutil.CollectAndCount(m.addressStatus))
	requireMetric(t, 1.0, m.runsTotal)
}

func TestExporter_CountsDroppedEvents(t *testing.T) {
	exporter, _ := newTestObserver(t)

	exporter.CountDroppedEvent()
	exporter.CountDroppedEvent()

	requireMetric(t, 2.0, exporter.metrics.eventsDropped)
}

func newTestObserver(t *testing.T) (*Exporter, *ReachabilityObserver) {
	t.Helper()

	exporter, err := NewExporter()
	require.NoError(t, err)

	observer := NewReachabilityObserver(slog.New(slog.NewTextHandler(io.Discard, nil)), exporter)

	return exporter, observer
}

func requireMetric(t *testing.T, expected float64, metric prometheus.Collector) {
	t.Helper()

	require.InDelta(t, expected, testutil.ToFloat64(metric), 0.001)
}
