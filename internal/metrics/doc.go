// Package metrics collects per-target probing statistics (attempt counts,
// success counts, RTT percentiles, last classification) through a buffered
// event channel and serves them as a JSON snapshot.
package metrics
