package httpprobe

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/khmm12/reachability-checker/internal/common/logging"
	"github.com/khmm12/reachability-checker/internal/ports"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0"

// Some targets refuse requests that do not look like they come from a browser.
var browserHeaders = [][2]string{
	{"User-Agent", userAgent},
	{"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
	{"Accept-Language", "en-US,en;q=0.5"},
	{"Upgrade-Insecure-Requests", "1"},
	{"Sec-Fetch-Dest", "document"},
	{"Sec-Fetch-Mode", "navigate"},
	{"Sec-Fetch-Site", "none"},
	{"Sec-Fetch-User", "?1"},
	{"Pragma", "no-cache"},
	{"Cache-Control", "no-cache"},
}

type Probe struct {
	client *Client
}

func NewProbe(client *Client) *Probe {
	return &Probe{client: client}
}

// Probe performs a single reachability attempt. Any answer below 500 counts
// as alive: the host responded, which is all that is being checked.
func (p *Probe) Probe(ctx context.Context, address string, timeout time.Duration) (ports.AddressState, error) {
	if err := p.client.sem.Acquire(ctx, 1); err != nil {
		return ports.AddressUnknown, err
	}

	defer p.client.sem.Release(1)

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(address)
	req.Header.SetMethod(p.client.method)

	for _, h := range browserHeaders {
		req.Header.Set(h[0], h[1])
	}

	err := p.client.http.DoDeadline(req, resp, deadline)

	// A canceled or expired parent context is not the target's fault.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ports.AddressUnknown, ctxErr
	}

	if err != nil {
		p.client.logger.DebugContext(ctx, "Probe attempt failed", logging.Address(address), logging.Error(err))
		return ports.AddressDown, nil
	}

	if resp.StatusCode() >= fasthttp.StatusInternalServerError {
		return ports.AddressDown, nil
	}

	return ports.AddressAlive, nil
}
