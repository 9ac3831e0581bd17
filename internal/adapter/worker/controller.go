package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/khmm12/reachability-checker/internal/address"
	"github.com/khmm12/reachability-checker/internal/common/logging"
	"github.com/khmm12/reachability-checker/internal/common/tracing"
	"github.com/khmm12/reachability-checker/internal/ports"
	"github.com/khmm12/reachability-checker/internal/usecase"
)

type RunState int32

const (
	StateIdle RunState = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var ErrStopTimeout = errors.New("timed out waiting for run to stop")

const stopDeliveryTimeout = 5 * time.Second

type Runner interface {
	Execute(ctx context.Context, cmd usecase.ProbeAddressesCommand) (usecase.ProbeAddressesResult, error)
}

// Controller owns the lifecycle of probe runs. At most one run is active;
// starting a new one stops the previous run first.
type Controller struct {
	logger    *slog.Logger
	runner    Runner
	publisher ports.EventPublisher

	// ops serializes Start and Stop.
	ops sync.Mutex

	mu     sync.RWMutex
	runID  string
	cancel context.CancelFunc
	done   chan struct{}

	state atomic.Int32
}

func NewController(logger *slog.Logger, runner Runner, publisher ports.EventPublisher) *Controller {
	done := make(chan struct{})
	close(done)

	return &Controller{
		logger:    logger,
		runner:    runner,
		publisher: publisher,
		done:      done,
	}
}

// Start extracts addresses from text and launches a run over them. It returns
// address.ErrNoAddresses without touching the current run when text holds
// nothing to probe.
func (c *Controller) Start(ctx context.Context, text string) error {
	addrs := address.Extract(text)
	if len(addrs) == 0 {
		return address.ErrNoAddresses
	}

	c.ops.Lock()
	defer c.ops.Unlock()

	if err := c.stop(ctx); err != nil {
		return fmt.Errorf("failed to stop previous run: %w", err)
	}

	runCtx, cancel := context.WithCancel(tracing.WithRunID(context.Background()))
	done := make(chan struct{})

	c.mu.Lock()
	c.runID = tracing.GetRunID(runCtx)
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.state.Store(int32(StateRunning))

	c.logger.InfoContext(runCtx, "Run started", slog.Int("addresses", len(addrs)))

	go c.run(runCtx, cancel, done, addrs)

	return nil
}

// Stop cancels the active run and waits until its workers have exited and
// its stop event has been published. It is a no-op when nothing is running.
func (c *Controller) Stop(ctx context.Context) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	return c.stop(ctx)
}

// Done is closed when the current run finishes, whether stopped or not.
func (c *Controller) Done() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.done
}

func (c *Controller) State() RunState {
	return RunState(c.state.Load())
}

func (c *Controller) RunID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.runID
}

func (c *Controller) stop(ctx context.Context) error {
	c.mu.RLock()
	cancel, done, runID := c.cancel, c.done, c.runID
	c.mu.RUnlock()

	if cancel == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	default:
	}

	c.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
	c.logger.InfoContext(ctx, "Stopping run", slog.String("run_id", runID))

	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrStopTimeout, ctx.Err())
	}
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, addrs []string) {
	defer close(done)
	defer cancel()

	now := time.Now()

	res, err := c.runner.Execute(ctx, usecase.ProbeAddressesCommand{Addresses: addrs})
	if err != nil {
		c.logger.ErrorContext(ctx, "Run failed", logging.Error(err), slog.Duration("duration", time.Since(now)))
	} else {
		c.logger.InfoContext(ctx, "Run finished",
			slog.Duration("duration", time.Since(now)),
			slog.Int("down", len(res.Down)),
			slog.Int("sweeps", res.Sweeps),
			slog.Bool("canceled", res.Canceled),
		)
	}

	pubCtx, pubCancel := context.WithTimeout(context.WithoutCancel(ctx), stopDeliveryTimeout)
	defer pubCancel()

	c.publisher.Publish(pubCtx, ports.NewStopEvent(tracing.GetRunID(ctx)))

	c.state.Store(int32(StateStopped))
}
