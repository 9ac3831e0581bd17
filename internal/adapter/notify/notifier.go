package notify

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/khmm12/reachability-checker/internal/common/logging"
	"github.com/khmm12/reachability-checker/internal/ports"
)

var _ ports.EventObserver = (*LogNotifier)(nil)

// LogNotifier is the operator-facing view of a run: it tracks which address
// is currently being probed and logs status transitions.
type LogNotifier struct {
	logger *slog.Logger

	mu      sync.Mutex
	runID   string
	current string
	states  map[string]bool
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
		states: make(map[string]bool),
	}
}

func (n *LogNotifier) Observe(ctx context.Context, ev ports.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ev.RunID != n.runID {
		n.runID = ev.RunID
		n.current = ""
		n.states = make(map[string]bool)
	}

	logger := n.logger.With(slog.String("run_id", ev.RunID))

	switch ev.Kind {
	case ports.EventProbing:
		n.current = ev.Address
		logger.DebugContext(ctx, "Currently probing", logging.Address(ev.Address))
	case ports.EventStatus:
		prev, seen := n.states[ev.Address]
		n.states[ev.Address] = ev.Alive

		if !seen || prev != ev.Alive {
			logger.InfoContext(ctx, "Address status changed", logging.Address(ev.Address), slog.Bool("alive", ev.Alive))
		}
	case ports.EventStop:
		n.current = ""

		alive, down := n.count()
		logger.InfoContext(ctx, "Run stopped", slog.Int("alive", alive), slog.Int("down", down))
	}
}

// Current returns the address being probed, or "" when no run is active.
func (n *LogNotifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.current
}

// Statuses returns the latest known liveness of every reported address.
func (n *LogNotifier) Statuses() map[string]bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return maps.Clone(n.states)
}

func (n *LogNotifier) count() (alive, down int) {
	for _, up := range n.states {
		if up {
			alive++
		} else {
			down++
		}
	}

	return alive, down
}
