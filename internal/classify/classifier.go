package classify

import (
	"math/rand"
	"time"

	"github.com/angeloszaimis/statusprobe/internal/sampler"
)

// Thresholds are the classification tunables. They are configuration, not
// domain truths; callers load them from config.
type Thresholds struct {
	// Fast is the exclusive upper bound for Up: rtt < Fast.
	Fast time.Duration

	// SlowCeiling is the inclusive upper bound for Degraded. Anything
	// above it is reported as Down even though the target answered.
	SlowCeiling time.Duration

	// ObfuscateDegradedRTT suppresses the measured latency on the Degraded
	// branch and replaces it with a value drawn uniformly from the band
	// below. The real RTT must not leak into the rendered value.
	ObfuscateDegradedRTT bool

	DegradedBandMin time.Duration
	DegradedBandMax time.Duration
}

// Classifier maps aggregates to terminal statuses under a fixed policy.
type Classifier struct {
	thresholds Thresholds
}

func New(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify maps one aggregate to its terminal status. It is a pure function
// of the aggregate except for the degraded-band jitter.
func (c *Classifier) Classify(agg sampler.Aggregate) Status {
	if !agg.Reachable {
		return Status{Level: Down}
	}

	switch {
	case agg.RTT < c.thresholds.Fast:
		return Status{Level: Up, RTT: agg.RTT}
	case agg.RTT <= c.thresholds.SlowCeiling:
		return Status{Level: Degraded, RTT: c.degradedRTT(agg.RTT)}
	default:
		return Status{Level: Down}
	}
}

func (c *Classifier) degradedRTT(measured time.Duration) time.Duration {
	if !c.thresholds.ObfuscateDegradedRTT {
		return measured
	}

	min := c.thresholds.DegradedBandMin
	max := c.thresholds.DegradedBandMax
	if max <= min {
		return min
	}

	// Whole-millisecond draw, inclusive on both ends of the band.
	span := (max - min).Milliseconds() + 1
	return min + time.Duration(rand.Int63n(span))*time.Millisecond
}
