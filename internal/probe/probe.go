package probe

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Result is the outcome of a single timed reachability attempt.
// RTT is meaningful only when OK is true.
type Result struct {
	OK  bool
	RTT time.Duration
}

// Prober issues one timeout-bounded reachability check against a URL.
// Implementations must return within the configured timeout plus a small
// epsilon and must never let an error escape: every failure mode (dial
// error, refused connection, expired deadline) collapses into OK=false.
type Prober interface {
	Probe(ctx context.Context, rawURL string) Result
}

// New selects a probing strategy for the given client. Transports that
// honor request contexts get the cancelling prober, which aborts the
// in-flight request at the deadline to free the connection. Anything else
// is raced against a timer and the late response ignored.
func New(client *http.Client, timeout time.Duration) Prober {
	if supportsCancellation(client.Transport) {
		return NewCancelProber(client, timeout)
	}

	return NewRaceProber(client, timeout)
}

// requestCanceler is the pre-context cancellation hook older transports
// implement. http.Client falls back to it when a request deadline fires,
// so either protocol is enough to cut a request off in flight.
type requestCanceler interface {
	CancelRequest(*http.Request)
}

func supportsCancellation(rt http.RoundTripper) bool {
	switch rt.(type) {
	case nil, *http.Transport:
		return true
	}

	_, ok := rt.(requestCanceler)
	return ok
}

// newProbeRequest builds the GET issued by both probers. A query parameter
// carrying the current timestamp is appended so intermediary caches cannot
// short-circuit the round trip. No credentials and no body are sent; the
// response status is irrelevant to the caller.
func newProbeRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	return req, nil
}

func discard(res *http.Response) {
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
