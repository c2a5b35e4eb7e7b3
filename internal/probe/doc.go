// Package probe implements single-attempt reachability checks. It issues a
// cache-bypassing GET against a target URL under a hard per-attempt deadline
// and reports success plus elapsed round-trip time. Two interchangeable
// strategies sit behind the Prober interface: one that cancels the request
// at the deadline and one that races it against a timer for transports
// without cancellation support.
package probe
