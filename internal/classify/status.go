package classify

import (
	"strconv"
	"time"
)

// Level is the discrete health classification of a target.
type Level int

const (
	// Checking means a sampling run is in flight and no data exists yet.
	Checking Level = iota
	// Up means the target is reachable below the fast threshold.
	Up
	// Degraded means the target is reachable but slow.
	Degraded
	// Down means the target is unreachable, or reachable beyond the slow
	// ceiling; the two conditions are deliberately reported identically.
	Down
)

func (l Level) String() string {
	switch l {
	case Checking:
		return "checking"
	case Up:
		return "up"
	case Degraded:
		return "degraded"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Status is the observable state rendered for one target. RTT carries a
// value only for Up and Degraded; for Degraded it may be a synthetic value
// rather than the measured latency (see Thresholds.ObfuscateDegradedRTT).
//
// A target's status starts at Checking the moment it is registered and
// transitions exactly once to a terminal level when its run completes.
type Status struct {
	Level Level
	RTT   time.Duration
}

// DisplayText derives the human-readable string rendered next to a target:
// a millisecond figure for reachable targets, a fixed marker otherwise.
// The wording is a presentation concern and can be swapped without touching
// the probing logic.
func DisplayText(st Status) string {
	switch st.Level {
	case Up, Degraded:
		return strconv.FormatInt(st.RTT.Milliseconds(), 10) + " ms"
	case Down:
		return "unreachable"
	default:
		return "checking"
	}
}
