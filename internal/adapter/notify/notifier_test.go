package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khmm12/reachability-checker/internal/ports"
)

func TestLogNotifier_TracksCurrentAddress(t *testing.T) {
	ctx := context.Background()
	n, _ := newTestNotifier(t)

	n.Observe(ctx, ports.NewProbingEvent("run-1", "http://a.example"))
	require.Equal(t, "http://a.example", n.Current())

	n.Observe(ctx, ports.NewProbingEvent("run-1", "http://b.example"))
	require.Equal(t, "http://b.example", n.Current())

	n.Observe(ctx, ports.NewStopEvent("run-1"))
	require.Empty(t, n.Current())
}

func TestLogNotifier_LogsOnlyTransitions(t *testing.T) {
	ctx := context.Background()
	n, buf := newTestNotifier(t)

	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", false))
	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://b.example", false))

	require.Equal(t, 3, strings.Count(buf.String(), "Address status changed"))
	require.Equal(t, map[string]bool{"http://a.example": false, "http://b.example": false}, n.Statuses())
}

func TestLogNotifier_SummarizesOnStop(t *testing.T) {
	ctx := context.Background()
	n, buf := newTestNotifier(t)

	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://b.example", false))
	n.Observe(ctx, ports.NewStopEvent("run-1"))

	require.Contains(t, buf.String(), "msg=\"Run stopped\" run_id=run-1 alive=1 down=1")
}

func TestLogNotifier_ForgetsPreviousRun(t *testing.T) {
	ctx := context.Background()
	n, _ := newTestNotifier(t)

	n.Observe(ctx, ports.NewStatusEvent("run-1", "http://a.example", true))
	n.Observe(ctx, ports.NewStatusEvent("run-2", "http://b.example", true))

	require.Equal(t, map[string]bool{"http://b.example": true}, n.Statuses())
}

func newTestNotifier(t *testing.T) (*LogNotifier, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return NewLogNotifier(logger), &buf
}
