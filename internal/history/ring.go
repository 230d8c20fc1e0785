package history

import (
	"sync"
	"time"

	"codeberg.org/mutker/machinesim/internal/machine"
)

const defaultCapacity = 100

// Entry is one timestamped snapshot in the history.
type Entry struct {
	Time     time.Time        `json:"time"`
	Tick     uint64           `json:"tick"`
	Snapshot machine.Snapshot `json:"snapshot"`
}

// Ring is a fixed-capacity buffer of timestamped snapshots, oldest
// first. The driver owns it; the engine itself keeps no history and a
// reset clears the buffer along with the engine.
type Ring struct {
	mu  sync.RWMutex
	cap int
	buf []Entry
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	return &Ring{
		cap: capacity,
		buf: make([]Entry, 0, capacity),
	}
}

// Push appends an entry, evicting the oldest once the buffer is full.
func (r *Ring) Push(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf = append(r.buf, e)
	if len(r.buf) > r.cap {
		r.buf = r.buf[len(r.buf)-r.cap:]
	}
}

// List returns an oldest-first copy of the buffered entries.
func (r *Ring) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.buf))
	copy(out, r.buf)

	return out
}

// Len returns the number of buffered entries.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.buf)
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return r.cap
}

// Reset discards all buffered entries.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf = r.buf[:0]
}
