// Package tui provides a Bubble Tea terminal UI for storyseed stories.
package tui

// History remembers submitted input lines for Up/Down recall.
type History struct {
	entries []string
	max     int
	back    int // 0 = editing fresh input, n = n entries back from the newest
}

// NewHistory creates a history holding at most max entries.
func NewHistory(max int) *History {
	return &History{entries: make([]string, 0, max), max: max}
}

// Push records an input line. Repeating the newest entry is a no-op.
func (h *History) Push(input string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == input {
		return
	}
	if h.max > 0 && len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append(h.entries, input)
}

// Prev steps one entry older, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.back < len(h.entries) {
		h.back++
	}
	return h.at(), true
}

// Next steps one entry newer. Stepping past the newest returns
// ("", false) and goes back to fresh input.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.at(), true
}

// ResetCursor returns to fresh input.
func (h *History) ResetCursor() {
	h.back = 0
}

func (h *History) at() string {
	return h.entries[len(h.entries)-h.back]
}
