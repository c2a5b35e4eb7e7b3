package render

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/angeloszaimis/statusprobe/internal/classify"
)

// Board holds the latest rendered state per target handle. It is the
// caller-owned storage the render contract writes into, and doubles as the
// source for the /status endpoint.
type Board struct {
	mutex sync.RWMutex
	slots map[string]Slot
}

// Slot is the rendered state of one target handle.
type Slot struct {
	Level     string    `json:"level"`
	RTTMillis int64     `json:"rtt_ms,omitempty"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBoard() *Board {
	return &Board{
		slots: make(map[string]Slot),
	}
}

// Render stores the latest status for the handle, replacing any prior slot.
func (b *Board) Render(handle string, st classify.Status, displayText string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	slot := Slot{
		Level:     st.Level.String(),
		Text:      displayText,
		UpdatedAt: time.Now(),
	}
	if st.Level == classify.Up || st.Level == classify.Degraded {
		slot.RTTMillis = st.RTT.Milliseconds()
	}

	b.slots[handle] = slot
}

// Snapshot returns a copy of every slot keyed by handle.
func (b *Board) Snapshot() map[string]Slot {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	snap := make(map[string]Slot, len(b.slots))
	for handle, slot := range b.slots {
		snap[handle] = slot
	}

	return snap
}

// Slot returns the current slot for a handle, if one has been rendered.
func (b *Board) Slot(handle string) (Slot, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	slot, ok := b.slots[handle]
	return slot, ok
}

// Handler serves the board snapshot as JSON.
func (b *Board) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(b.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}
