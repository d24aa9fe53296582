// Package tui provides a Bubble Tea terminal UI for Rising Waters.
package tui

import "strconv"

// History is a ring buffer of submitted input with cursor-based navigation.
// Bare option numbers are not kept: they mean something else every round.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	size   int
	cursor int // -1 = not navigating, else offset from the oldest entry
}

// NewHistory creates a history buffer holding at most max entries.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), cursor: -1}
}

// Len returns the number of stored entries.
func (h *History) Len() int { return h.size }

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push records input. Blank input, option numbers and repeats of the newest
// entry are skipped.
func (h *History) Push(input string) {
	if input == "" {
		return
	}
	if _, err := strconv.Atoi(input); err == nil {
		return
	}
	if h.size > 0 && h.at(h.size-1) == input {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = input
		h.size++
		return
	}
	h.ring[h.start] = input
	h.start = (h.start + 1) % len(h.ring)
}

// Prev returns the previous (older) entry, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.size - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next returns the next (newer) entry.
// Returns ("", false) when past the newest entry (back to fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.size {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
}
