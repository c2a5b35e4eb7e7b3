// Package classify maps per-target sampling aggregates to the three-way
// terminal status (up, degraded, down) under configurable latency
// thresholds, and derives the display text rendered for each status.
package classify
