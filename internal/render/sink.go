package render

import (
	"github.com/angeloszaimis/statusprobe/internal/classify"
)

// Sink receives render events from the engine. For every registered target
// handle it sees exactly two calls per run: one for the initial checking
// state and one for the terminal state. Each handle writes its own slot, so
// implementations are never raced on the same handle within a run.
type Sink interface {
	Render(handle string, st classify.Status, displayText string)
}

// MultiSink fans every render event out to each wrapped sink in order.
type MultiSink []Sink

func (m MultiSink) Render(handle string, st classify.Status, displayText string) {
	for _, s := range m {
		s.Render(handle, st, displayText)
	}
}
