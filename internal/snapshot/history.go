package snapshot

import "time"

// DefaultHistoryCapacity keeps roughly ten minutes of context at the
// default 30s snapshot interval.
const DefaultHistoryCapacity = 20

// History is a fixed-capacity ring of snapshots. Pushing past capacity
// evicts the oldest entry; index 0 always addresses the newest entry.
// Not safe for concurrent use; the tracker serializes access.
type History struct {
	buf   []Snapshot
	head  int // next write position
	count int
}

// NewHistory creates a history with the given capacity, falling back to
// DefaultHistoryCapacity for non-positive values.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]Snapshot, capacity)}
}

// Push appends a snapshot, evicting the oldest entry when full. O(1).
func (h *History) Push(s Snapshot) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Clear drops all entries.
func (h *History) Clear() {
	h.head = 0
	h.count = 0
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return h.count }

// Cap returns the fixed capacity.
func (h *History) Cap() int { return len(h.buf) }

// At returns the snapshot at index i, where 0 is the most recent. ok is
// false when i is past the stored count.
func (h *History) At(i int) (Snapshot, bool) {
	if i < 0 || i >= h.count {
		return Snapshot{}, false
	}
	idx := (h.head - 1 - i + 2*len(h.buf)) % len(h.buf)
	return h.buf[idx], true
}

// Last returns the most recently pushed snapshot.
func (h *History) Last() (Snapshot, bool) {
	return h.At(0)
}

// Recent returns up to max snapshots, newest first.
func (h *History) Recent(max int) []Snapshot {
	if max > h.count {
		max = h.count
	}
	if max <= 0 {
		return nil
	}
	out := make([]Snapshot, 0, max)
	for i := 0; i < max; i++ {
		s, _ := h.At(i)
		out = append(out, s)
	}
	return out
}

// FindByApp returns the most recent snapshot for the given app name.
func (h *History) FindByApp(appName string) (Snapshot, bool) {
	for i := 0; i < h.count; i++ {
		s, _ := h.At(i)
		if s.AppName == appName {
			return s, true
		}
	}
	return Snapshot{}, false
}

// FindLastProductive returns the most recent snapshot that is both
// productive and meaningful.
func (h *History) FindLastProductive() (Snapshot, bool) {
	for i := 0; i < h.count; i++ {
		s, _ := h.At(i)
		if s.IsProductive && s.Meaningful() {
			return s, true
		}
	}
	return Snapshot{}, false
}

// TotalFocus sums duration-in-context over all productive entries.
func (h *History) TotalFocus() time.Duration {
	var total time.Duration
	for i := 0; i < h.count; i++ {
		s, _ := h.At(i)
		if s.IsProductive {
			total += s.DurationInContext
		}
	}
	return total
}
