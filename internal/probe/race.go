package probe

import (
	"context"
	"net/http"
	"time"
)

type raceProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewRaceProber returns a Prober for transports that cannot cancel an
// in-flight request. The request is issued without a deadline and raced
// against a timer; when the timer wins, the attempt is finalized as failed
// and the late response is drained and ignored rather than aborted.
func NewRaceProber(client *http.Client, timeout time.Duration) Prober {
	return &raceProber{client: client, timeout: timeout}
}

func (p *raceProber) Probe(ctx context.Context, rawURL string) Result {
	req, err := newProbeRequest(context.Background(), rawURL)
	if err != nil {
		return Result{}
	}

	start := time.Now()
	done := make(chan Result, 1)

	go func() {
		res, err := p.client.Do(req)
		if err != nil {
			done <- Result{}
			return
		}
		discard(res)
		done <- Result{OK: true, RTT: time.Since(start).Round(time.Millisecond)}
	}()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r
	case <-timer.C:
		return Result{}
	case <-ctx.Done():
		return Result{}
	}
}
