// Package target defines the endpoint descriptor handed to the probing
// engine by the caller.
package target

// Target identifies one endpoint to probe. ID is an opaque handle used to
// route render events back to the caller; the engine never interprets it.
// A Target with an empty URL is legal and classifies as down without ever
// being probed.
type Target struct {
	ID  string
	URL string
}

// Configured reports whether the target has a URL to probe.
func (t Target) Configured() bool {
	return t.URL != ""
}
