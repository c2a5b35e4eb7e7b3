// Package sampler drives a bounded, strictly serial sequence of probe
// attempts for one target and reduces the successful samples to a median
// round-trip time.
package sampler
