package httpprobe

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khmm12/reachability-checker/internal/ports"
)

const testTimeout = 500 * time.Millisecond

func TestProbe_StatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   ports.AddressState
	}{
		{name: "ok", status: http.StatusOK, want: ports.AddressAlive},
		{name: "redirect", status: http.StatusFound, want: ports.AddressAlive},
		{name: "not found", status: http.StatusNotFound, want: ports.AddressAlive},
		{name: "forbidden", status: http.StatusForbidden, want: ports.AddressAlive},
		{name: "internal error", status: http.StatusInternalServerError, want: ports.AddressDown},
		{name: "unavailable", status: http.StatusServiceUnavailable, want: ports.AddressDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tc.status == http.StatusFound {
					w.Header().Set("Location", "/elsewhere")
				}
				w.WriteHeader(tc.status)
			}))
			t.Cleanup(srv.Close)

			probe := newTestProbe(t, "GET")

			state, err := probe.Probe(t.Context(), srv.URL, testTimeout)

			require.NoError(t, err)
			require.Equal(t, tc.want, state)
		})
	}
}

func TestProbe_SendsBrowserHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	probe := newTestProbe(t, "HEAD")

	state, err := probe.Probe(t.Context(), srv.URL, testTimeout)
	require.NoError(t, err)
	require.Equal(t, ports.AddressAlive, state)

	got := <-headers
	require.Equal(t, userAgent, got.Get("User-Agent"))
	require.Equal(t, "no-cache", got.Get("Cache-Control"))
	require.Equal(t, "no-cache", got.Get("Pragma"))
	require.Equal(t, "en-US,en;q=0.5", got.Get("Accept-Language"))
	require.NotEmpty(t, got.Get("Accept"))
}

func TestProbe_ConnectionRefusedIsDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	probe := newTestProbe(t, "GET")

	state, err := probe.Probe(t.Context(), "http://"+addr, testTimeout)

	require.NoError(t, err)
	require.Equal(t, ports.AddressDown, state)
}

func TestProbe_TimeoutIsDown(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	probe := newTestProbe(t, "GET")

	started := time.Now()
	state, err := probe.Probe(t.Context(), srv.URL, 100*time.Millisecond)

	require.NoError(t, err)
	require.Equal(t, ports.AddressDown, state)
	require.Less(t, time.Since(started), 2*time.Second)
}

func TestProbe_MalformedAddressIsDown(t *testing.T) {
	probe := newTestProbe(t, "GET")

	state, err := probe.Probe(t.Context(), "http://", testTimeout)

	require.NoError(t, err)
	require.Equal(t, ports.AddressDown, state)
}

func TestProbe_CanceledContextIsNotClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	probe := newTestProbe(t, "GET")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	state, err := probe.Probe(ctx, srv.URL, testTimeout)

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, ports.AddressUnknown, state)
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(logger, Options{Concurrency: 0})
	require.ErrorContains(t, err, "concurrency")

	_, err = New(logger, Options{Concurrency: 1, Method: "POST"})
	require.ErrorContains(t, err, "unsupported method")
}

func newTestProbe(t *testing.T, method string) *Probe {
	t.Helper()

	client, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), Options{
		Concurrency: 2,
		Method:      method,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return NewProbe(client)
}
