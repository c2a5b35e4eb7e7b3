package probe

import (
	"context"
	"net/http"
	"time"
)

type cancelProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewCancelProber returns a Prober that bounds each attempt with a context
// deadline, actively cancelling the underlying request when it expires.
func NewCancelProber(client *http.Client, timeout time.Duration) Prober {
	return &cancelProber{client: client, timeout: timeout}
}

func (p *cancelProber) Probe(ctx context.Context, rawURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := newProbeRequest(ctx, rawURL)
	if err != nil {
		return Result{}
	}

	start := time.Now()

	res, err := p.client.Do(req)
	if err != nil {
		return Result{}
	}
	discard(res)

	return Result{OK: true, RTT: time.Since(start).Round(time.Millisecond)}
}
