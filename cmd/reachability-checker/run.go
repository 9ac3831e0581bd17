package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/khmm12/reachability-checker/internal/adapter/eventbus"
	"github.com/khmm12/reachability-checker/internal/adapter/httpprobe"
	"github.com/khmm12/reachability-checker/internal/adapter/httpsrv"
	"github.com/khmm12/reachability-checker/internal/adapter/notify"
	"github.com/khmm12/reachability-checker/internal/adapter/prometheus"
	"github.com/khmm12/reachability-checker/internal/adapter/worker"
	"github.com/khmm12/reachability-checker/internal/address"
	"github.com/khmm12/reachability-checker/internal/common/logging"
	"github.com/khmm12/reachability-checker/internal/ports"
	"github.com/khmm12/reachability-checker/internal/usecase"
)

type Probe struct {
	Interval    time.Duration `name:"interval" env:"PROBE_INTERVAL" default:"1s" help:"The minimum duration of one sweep over all addresses per worker (e.g., 1s, 5m)."`
	Timeout     time.Duration `name:"timeout" env:"PROBE_TIMEOUT" default:"500ms" help:"The maximum duration of a single reachability attempt (e.g., 200ms, 1s)."`
	Concurrency int           `name:"concurrency" env:"PROBE_CONCURRENCY" default:"5" help:"The number of workers sweeping the address set."`
	Sweeps      int           `name:"sweeps" env:"PROBE_SWEEPS" default:"0" help:"Stop after each worker has completed this many sweeps. 0 runs until stopped."`
	Method      string        `name:"method" env:"PROBE_METHOD" default:"GET" help:"HTTP method used for probing (GET or HEAD)."`
	Insecure    bool          `name:"insecure" env:"PROBE_INSECURE" default:"false" help:"Skip TLS certificate verification."`
}

type Metrics struct {
	Addr string `name:"addr" env:"METRICS_ADDR" default:"127.0.0.1:8080" help:"HTTP Address to bind Prometheus metrics, health and stop endpoints. Empty disables the server."`
	Path string `name:"path" env:"METRICS_PATH" default:"/metrics" help:"Path to serve Prometheus metrics"`
}

type Run struct {
	Addresses []string `arg:"" optional:"" name:"address" help:"Addresses or any text containing them."`
	Input     string   `name:"input" short:"i" env:"INPUT_FILE" help:"Read the input text from a file ('-' for stdin)."`
	Probe     Probe    `embed:"" prefix:"probe."`
	Metrics   Metrics  `embed:"" prefix:"metrics."`
	LogLevel  string   `name:"log.level" env:"LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`
}

const shutdownTimeout = 5 * time.Second

func run(cli *CLI) error {
	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r := &cli.Run

	logLevel, err := parseLogLevel(r.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse to log level: %w", err)
	}

	logger := slog.New(logging.NewEnhancedHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	)).With(logging.NewProgramAttr())

	text, err := readInputText(os.Stdin, r.Addresses, r.Input)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read input", logging.Error(err))
		return err
	}

	exporter, err := prometheus.NewExporter()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create prometheus exporter", logging.Error(err))
		return err
	}

	client, err := httpprobe.New(logger, httpprobe.Options{
		Concurrency: r.Probe.Concurrency,
		Method:      r.Probe.Method,
		InsecureTLS: r.Probe.Insecure,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create http probe", logging.Error(err))
		return err
	}

	defer func() {
		logger.InfoContext(ctx, "Closing http probe client")
		_ = client.Close()
	}()

	bus := eventbus.NewBroadcaster(logger, eventbus.WithDropHook(exporter.CountDroppedEvent))

	var (
		forwarders sync.WaitGroup
		subs       []*eventbus.Subscription
	)

	notifier := notify.NewLogNotifier(logger)

	for _, observer := range []ports.EventObserver{
		notifier,
		prometheus.NewReachabilityObserver(logger, exporter),
	} {
		sub := bus.Subscribe(eventbus.DefaultBuffer)
		subs = append(subs, sub)

		forwarders.Go(func() {
			eventbus.Forward(context.WithoutCancel(ctx), sub, observer)
		})
	}

	uc := usecase.NewProbeAddressesUseCase(logger, httpprobe.NewProbe(client), bus, usecase.ProbeAddressesOptions{
		Concurrency: r.Probe.Concurrency,
		Timeout:     r.Probe.Timeout,
		Interval:    r.Probe.Interval,
		MaxSweeps:   r.Probe.Sweeps,
	})

	controller := worker.NewController(logger, uc, bus)

	var srv *httpsrv.Server
	if r.Metrics.Addr != "" {
		srv = httpsrv.NewServer(r.Metrics.Addr, httpsrv.ServerOptions{
			MetricsHandler: exporter.Handler().ServeHTTP,
			MetricsPath:    r.Metrics.Path,
			Stopper:        controller,
			RunState:       func() string { return controller.State().String() },
			Current:        notifier.Current,
		})
	}

	defer func() {
		logger.InfoContext(ctx, "Stopping...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		logger.InfoContext(ctx, "Stopping run...")
		serr := controller.Stop(shutdownCtx)
		if serr != nil {
			logger.ErrorContext(ctx, "Failed to stop run", logging.Error(serr))
		}

		if srv != nil {
			logger.InfoContext(ctx, "Stopping HTTP Server...")
			serr = srv.Shutdown(shutdownCtx)
			if serr != nil {
				logger.ErrorContext(ctx, "Failed to stop HTTP Server", logging.Error(serr))
			}
		}

		for _, sub := range subs {
			sub.Close()
		}

		forwarders.Wait()

		logger.InfoContext(ctx, "Stopped")
	}()

	errCh := make(chan error, 1)

	if srv != nil {
		go func() {
			logger.InfoContext(ctx, "Start HTTP Server", slog.String("address", srv.ListenAddr()))

			err := srv.Start()
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start HTTP Server", logging.Error(err))
				errCh <- err
			}
		}()
	}

	err = controller.Start(ctx, text)
	if err != nil {
		if errors.Is(err, address.ErrNoAddresses) {
			logger.ErrorContext(ctx, "No valid addresses found in input")
		} else {
			logger.ErrorContext(ctx, "Failed to start run", logging.Error(err))
		}

		return err
	}

	select {
	case <-controller.Done():
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func readInputText(stdin io.Reader, args []string, input string) (string, error) {
	parts := append([]string(nil), args...)

	if input != "" {
		var (
			data []byte
			err  error
		)

		if input == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(input)
		}

		if err != nil {
			return "", fmt.Errorf("failed to read input %s: %w", input, err)
		}

		parts = append(parts, string(data))
	}

	return strings.Join(parts, "\n"), nil
}

func (c *CLI) Validate() error {
	var errs []error

	r := &c.Run
	p := &r.Probe

	if len(r.Addresses) == 0 && r.Input == "" {
		errs = append(errs, errors.New("pass at least one address or --input"))
	}

	if p.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("--probe.timeout: must be greater than zero"))
	}

	if p.Interval <= p.Timeout {
		errs = append(errs, fmt.Errorf("--probe.interval: must be greater than --probe.timeout"))
	}

	if p.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("--probe.concurrency: must be greater than zero"))
	}

	if p.Sweeps < 0 {
		errs = append(errs, fmt.Errorf("--probe.sweeps: must not be negative"))
	}

	if !isProbeMethod(p.Method) {
		errs = append(errs, fmt.Errorf("--probe.method: must be one of GET, HEAD"))
	}

	if r.Metrics.Addr != "" && !isTCPAddr(r.Metrics.Addr) {
		errs = append(errs, fmt.Errorf("--metrics.addr: must be a valid tcp listening address (e.g. 127.0.0.1:8080)"))
	}

	if !isLogLevel(r.LogLevel) {
		errs = append(errs, fmt.Errorf("--log.level: must be one of debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func parseLogLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.Level(-1), fmt.Errorf("invalid log level: %s", levelStr)
	}
}
