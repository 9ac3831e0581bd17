package httpprobe

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/sync/semaphore"
)

type Options struct {
	Concurrency int
	Method      string
	InsecureTLS bool
}

type Client struct {
	logger      *slog.Logger
	http        *fasthttp.Client
	method      string
	concurrency int
	sem         *semaphore.Weighted
}

func New(logger *slog.Logger, opts Options) (*Client, error) {
	if opts.Concurrency <= 0 {
		return nil, fmt.Errorf("httpprobe: probe concurrency must be greater than zero")
	}

	method := strings.ToUpper(opts.Method)
	switch method {
	case "":
		method = fasthttp.MethodGet
	case fasthttp.MethodGet, fasthttp.MethodHead:
	default:
		return nil, fmt.Errorf("httpprobe: unsupported method %q", opts.Method)
	}

	return &Client{
		logger:      logger,
		http:        buildHTTPClient(opts),
		method:      method,
		concurrency: opts.Concurrency,
		sem:         semaphore.NewWeighted(int64(opts.Concurrency)),
	}, nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func buildHTTPClient(opts Options) *fasthttp.Client {
	return &fasthttp.Client{
		NoDefaultUserAgentHeader: true,
		MaxConnsPerHost:          opts.Concurrency,
		MaxIdleConnDuration:      10 * time.Second,
		// Only the status line matters; the body is never consumed.
		StreamResponseBody: true,
		TLSConfig: &tls.Config{
			InsecureSkipVerify: opts.InsecureTLS, //nolint:gosec // opt-in via --probe.insecure
		},
	}
}
