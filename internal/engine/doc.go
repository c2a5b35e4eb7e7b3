// Package engine orchestrates a probing batch: one goroutine per configured
// target, join-all completion, immediate checking renders, fast-fail for
// unconfigured targets and metric event emission.
package engine
