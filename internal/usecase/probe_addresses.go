package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/khmm12/reachability-checker/internal/address"
	"github.com/khmm12/reachability-checker/internal/common/logging"
	"github.com/khmm12/reachability-checker/internal/common/tracing"
	"github.com/khmm12/reachability-checker/internal/ports"
)

const DefaultConcurrency = 5

type ProbeAddressesOptions struct {
	// Concurrency is the number of workers; each one sweeps the whole address set.
	Concurrency int
	// Timeout bounds a single probe attempt.
	Timeout time.Duration
	// Interval is the minimum duration of one sweep. Zero disables pacing.
	Interval time.Duration
	// MaxSweeps limits how many sweeps each worker performs. Zero means until stopped.
	MaxSweeps int
}

type ProbeAddressesUseCase struct {
	logger    *slog.Logger
	probe     ports.AddressProbe
	publisher ports.EventPublisher
	opts      ProbeAddressesOptions
}

func NewProbeAddressesUseCase(logger *slog.Logger, probe ports.AddressProbe, publisher ports.EventPublisher, opts ProbeAddressesOptions) *ProbeAddressesUseCase {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	return &ProbeAddressesUseCase{
		logger:    logger,
		probe:     probe,
		publisher: publisher,
		opts:      opts,
	}
}

type ProbeAddressesCommand struct {
	Addresses []string
}

type ProbeAddressesResult struct {
	// Down lists addresses confirmed unreachable, in the order they went down.
	Down []string
	// Sweeps is the number of completed sweeps summed over all workers.
	Sweeps   int
	Canceled bool
}

// Execute runs the workers until ctx is canceled, every address is down, or
// each worker has completed MaxSweeps sweeps. It returns once all workers
// have exited.
func (u *ProbeAddressesUseCase) Execute(ctx context.Context, cmd ProbeAddressesCommand) (ProbeAddressesResult, error) {
	addrs := unique(cmd.Addresses)
	if len(addrs) == 0 {
		return ProbeAddressesResult{}, address.ErrNoAddresses
	}

	var (
		down   = newDownSet()
		sweeps atomic.Int64
		runID  = tracing.GetRunID(ctx)
	)

	u.logger.InfoContext(ctx, "Starting probe workers",
		slog.Int("workers", u.opts.Concurrency),
		slog.Int("addresses", len(addrs)),
		slog.Duration("timeout", u.opts.Timeout),
		slog.Duration("interval", u.opts.Interval),
	)

	g, gctx := errgroup.WithContext(ctx)

	for id := range u.opts.Concurrency {
		g.Go(func() error {
			sweeps.Add(int64(u.work(gctx, id, runID, addrs, down)))
			return nil
		})
	}

	_ = g.Wait()

	res := ProbeAddressesResult{
		Down:     down.Snapshot(),
		Sweeps:   int(sweeps.Load()),
		Canceled: ctx.Err() != nil,
	}

	u.logger.InfoContext(ctx, "Probe workers finished",
		slog.Int("sweeps", res.Sweeps),
		slog.Int("down", len(res.Down)),
		slog.Bool("canceled", res.Canceled),
	)

	return res, nil
}

func (u *ProbeAddressesUseCase) work(ctx context.Context, id int, runID string, addrs []string, down *downSet) int {
	logger := u.logger.With(slog.Int("worker", id))

	for sweeps := 0; ; {
		started := time.Now()

		for _, addr := range addrs {
			if ctx.Err() != nil {
				return sweeps
			}

			if down.Contains(addr) {
				continue
			}

			if !u.attempt(ctx, logger, runID, addr, down) {
				return sweeps
			}
		}

		sweeps++

		if down.Len() == len(addrs) {
			logger.DebugContext(ctx, "Every address is down, worker exits", slog.Int("sweeps", sweeps))
			return sweeps
		}

		if u.opts.MaxSweeps > 0 && sweeps >= u.opts.MaxSweeps {
			return sweeps
		}

		if !pause(ctx, u.opts.Interval-time.Since(started)) {
			return sweeps
		}
	}
}

// attempt probes addr once and reports the outcome. It returns false when the
// attempt was interrupted by cancellation.
func (u *ProbeAddressesUseCase) attempt(ctx context.Context, logger *slog.Logger, runID, addr string, down *downSet) bool {
	u.publisher.Publish(ctx, ports.NewProbingEvent(runID, addr))

	state, err := u.safeProbe(ctx, addr)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}

		logger.WarnContext(ctx, "Probe failed, marking address down", logging.Address(addr), logging.Error(err))
		state = ports.AddressDown
	}

	if state == ports.AddressAlive {
		u.publisher.Publish(ctx, ports.NewStatusEvent(runID, addr, true))
		return true
	}

	if state != ports.AddressDown {
		logger.WarnContext(ctx, "Unknown probe state, marking address down", logging.Address(addr), slog.String("state", state.String()))
	}

	if down.Add(addr) {
		logger.InfoContext(ctx, "Address is down", logging.Address(addr))
	}

	u.publisher.Publish(ctx, ports.NewStatusEvent(runID, addr, false))

	return true
}

func (u *ProbeAddressesUseCase) safeProbe(ctx context.Context, addr string) (state ports.AddressState, err error) {
	defer func() {
		if r := recover(); r != nil {
			state, err = ports.AddressUnknown, fmt.Errorf("probe panicked: %v", r)
		}
	}()

	return u.probe.Probe(ctx, addr, u.opts.Timeout)
}

func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func unique(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]string, 0, len(addrs))

	for _, a := range addrs {
		if _, ok := seen[a]; ok || a == "" {
			continue
		}

		seen[a] = struct{}{}
		out = append(out, a)
	}

	return out
}
