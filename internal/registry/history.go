package registry

const (
	viewHistoryLimit      = 200
	commandHistoryLimit   = 20
	secondaryHistoryLimit = 20
)

// HistoryLog is a bounded, de-duplicated, insertion-ordered log. Pushing an
// entry removes any earlier entry with the same key before appending it.
type HistoryLog[T any] struct {
	limit int
	key   func(T) string
	items []T
}

// NewHistoryLog constructs a log holding at most limit entries.
func NewHistoryLog[T any](limit int, key func(T) string) *HistoryLog[T] {
	if limit <= 0 {
		limit = 1
	}
	return &HistoryLog[T]{limit: limit, key: key}
}

// Push records item as the most recent entry.
func (h *HistoryLog[T]) Push(item T) {
	k := h.key(item)
	kept := h.items[:0]
	for _, existing := range h.items {
		if h.key(existing) != k {
			kept = append(kept, existing)
		}
	}
	h.items = append(kept, item)
	if over := len(h.items) - h.limit; over > 0 {
		h.items = append(h.items[:0], h.items[over:]...)
	}
}

// Len returns the number of entries.
func (h *HistoryLog[T]) Len() int { return len(h.items) }

// Limit returns the configured bound.
func (h *HistoryLog[T]) Limit() int { return h.limit }

// Items returns a copy of the entries, oldest first.
func (h *HistoryLog[T]) Items() []T {
	return append([]T(nil), h.items...)
}

// Last returns the most recent entry.
func (h *HistoryLog[T]) Last() (T, bool) {
	return h.MostRecent(nil)
}

// MostRecent returns the newest entry for which skip reports false.
func (h *HistoryLog[T]) MostRecent(skip func(T) bool) (T, bool) {
	for i := len(h.items) - 1; i >= 0; i-- {
		if skip != nil && skip(h.items[i]) {
			continue
		}
		return h.items[i], true
	}
	var zero T
	return zero, false
}

// Clear drops every entry.
func (h *HistoryLog[T]) Clear() { h.items = nil }
