package engine

import (
	"fmt"
	"time"
)

// Attempt records one combination trial and its observed outcome. Result is
// empty when the combination had no effect.
type Attempt struct {
	Pair   Pair      `json:"pair"`
	Result string    `json:"result,omitempty"`
	Seq    int       `json:"seq"`
	At     time.Time `json:"at"`
}

// Produced reports whether the attempt yielded an element.
func (a Attempt) Produced() bool {
	return a.Result != ""
}

// DuplicateAttemptError signals that a pair was submitted for recording
// twice. This is a core invariant violation: the selector must never return
// a pair that is already in memory, so a duplicate means session state has
// gone inconsistent and the session must abort.
type DuplicateAttemptError struct {
	Pair Pair
}

func (e *DuplicateAttemptError) Error() string {
	return fmt.Sprintf("pair %q already attempted", e.Pair)
}

// Memory records every unordered pair tried during the session. It is
// insertion-only: the first recorded outcome for a pair is authoritative and
// is never overwritten.
type Memory struct {
	attempts []Attempt
	index    map[string]int // pair key -> index into attempts
}

// NewMemory creates an empty attempt memory.
func NewMemory() *Memory {
	return &Memory{
		index: make(map[string]int),
	}
}

// Tried reports whether the unordered pair has been attempted, regardless of
// the order the two names were given in.
func (m *Memory) Tried(p Pair) bool {
	_, ok := m.index[p.Key()]
	return ok
}

// Record stores the outcome of a completed attempt. It returns a
// *DuplicateAttemptError if the pair was already recorded.
func (m *Memory) Record(p Pair, result string) (Attempt, error) {
	if m.Tried(p) {
		return Attempt{}, &DuplicateAttemptError{Pair: p}
	}
	attempt := Attempt{
		Pair:   p,
		Result: result,
		Seq:    len(m.attempts),
		At:     time.Now(),
	}
	m.index[p.Key()] = len(m.attempts)
	m.attempts = append(m.attempts, attempt)
	return attempt, nil
}

// Get returns the recorded attempt for a pair, if any.
func (m *Memory) Get(p Pair) (Attempt, bool) {
	i, ok := m.index[p.Key()]
	if !ok {
		return Attempt{}, false
	}
	return m.attempts[i], true
}

// All returns every attempt in insertion order. The returned slice is a
// copy; iterating it never observes later mutation.
func (m *Memory) All() []Attempt {
	out := make([]Attempt, len(m.attempts))
	copy(out, m.attempts)
	return out
}

// Len returns the number of recorded attempts.
func (m *Memory) Len() int {
	return len(m.attempts)
}
