package engine

// Goal is a target element the session is trying to produce. Goals carry an
// optional category label used for grouping in reports.
type Goal struct {
	Name     string
	Category string
	Achieved bool
}

// Tracker holds the session's goals in declaration order. Declaration order
// is the priority order: earlier goals are pursued first.
type Tracker struct {
	goals []*Goal
	index map[string]int
}

// NewTracker creates a tracker for the given goals. Duplicate names keep the
// first declaration.
func NewTracker(goals []Goal) *Tracker {
	t := &Tracker{
		index: make(map[string]int, len(goals)),
	}
	for _, g := range goals {
		key := Key(g.Name)
		if key == "" {
			continue
		}
		if _, exists := t.index[key]; exists {
			continue
		}
		goal := g
		goal.Achieved = false
		t.index[key] = len(t.goals)
		t.goals = append(t.goals, &goal)
	}
	return t
}

// Pending returns the goals not yet achieved, in declaration order.
func (t *Tracker) Pending() []*Goal {
	var out []*Goal
	for _, g := range t.goals {
		if !g.Achieved {
			out = append(out, g)
		}
	}
	return out
}

// MarkIfAchieved transitions a pending goal with the given element name to
// achieved and reports whether a transition happened. Calling it again for
// an already-achieved goal, or for a name that is not a goal, is a no-op.
func (t *Tracker) MarkIfAchieved(name string) bool {
	i, ok := t.index[Key(name)]
	if !ok || t.goals[i].Achieved {
		return false
	}
	t.goals[i].Achieved = true
	return true
}

// Complete reports whether every goal has been achieved. A tracker with no
// goals is trivially complete.
func (t *Tracker) Complete() bool {
	for _, g := range t.goals {
		if !g.Achieved {
			return false
		}
	}
	return true
}

// Goals returns all goals in declaration order.
func (t *Tracker) Goals() []*Goal {
	out := make([]*Goal, len(t.goals))
	copy(out, t.goals)
	return out
}

// AchievedCount returns the number of achieved goals.
func (t *Tracker) AchievedCount() int {
	n := 0
	for _, g := range t.goals {
		if g.Achieved {
			n++
		}
	}
	return n
}

// Len returns the total number of goals.
func (t *Tracker) Len() int {
	return len(t.goals)
}
