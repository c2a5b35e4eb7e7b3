package sampler

import (
	"context"
	"sort"
	"time"

	"github.com/angeloszaimis/statusprobe/internal/probe"
)

// Options bound a single sampling run.
type Options struct {
	// SampleCount is the fixed attempt budget. The budget is always
	// exhausted, win or lose; a run is never short-circuited by success.
	SampleCount int

	// InterAttemptDelay is inserted between consecutive attempts but not
	// after the last one. Spreading attempts avoids amplifying load
	// against a possibly-struggling endpoint.
	InterAttemptDelay time.Duration

	// OnAttempt, when set, is invoked after each attempt resolves.
	OnAttempt func(probe.Result)
}

// Aggregate is the reduction of one bounded run against a single target.
type Aggregate struct {
	Reachable bool
	RTT       time.Duration
	Successes int
	Attempts  int
}

// Run executes Options.SampleCount attempts strictly one at a time, attempt
// i+1 starting only after attempt i has resolved. Failed attempts are
// discarded; successful RTTs are reduced to their median. Cancelling ctx
// does not cut the run short, it only makes remaining attempts fail fast.
func Run(ctx context.Context, p probe.Prober, rawURL string, opts Options) Aggregate {
	rtts := make([]time.Duration, 0, opts.SampleCount)

	for i := 0; i < opts.SampleCount; i++ {
		if i > 0 {
			wait(ctx, opts.InterAttemptDelay)
		}

		res := p.Probe(ctx, rawURL)
		if res.OK {
			rtts = append(rtts, res.RTT)
		}

		if opts.OnAttempt != nil {
			opts.OnAttempt(res)
		}
	}

	agg := Aggregate{
		Successes: len(rtts),
		Attempts:  opts.SampleCount,
	}

	if len(rtts) > 0 {
		agg.Reachable = true
		agg.RTT = Median(rtts)
	}

	return agg
}

// Median returns the lower-middle element of the samples: values are sorted
// ascending and the element at index (len-1)/2 is taken. Even counts use
// the lower of the two middle elements, never their average.
func Median(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return sorted[(len(sorted)-1)/2]
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
