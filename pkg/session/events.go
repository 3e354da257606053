package session

import (
	"time"

	"github.com/entrhq/crucible/pkg/engine"
)

// EventType identifies the kind of session event.
type EventType string

const (
	// EventRefresh fires after the inventory has been re-read from the game
	EventRefresh EventType = "refresh"

	// EventAttempt fires when a pair has been selected for submission
	EventAttempt EventType = "attempt"

	// EventOutcome fires when a submission outcome has been recorded
	EventOutcome EventType = "outcome"

	// EventDiscovery fires when a combination produced a brand-new element
	EventDiscovery EventType = "discovery"

	// EventGoal fires when a pending goal transitions to achieved
	EventGoal EventType = "goal"

	// EventWarning fires for recoverable session-level problems
	EventWarning EventType = "warning"

	// EventFinished fires once, when the session terminates
	EventFinished EventType = "finished"
)

// Stats is a point-in-time snapshot of session progress.
type Stats struct {
	Inventory     int
	Attempts      int
	Discoveries   int
	GoalsAchieved int
	GoalsTotal    int
	Reward        int
}

// Event describes one observable step of the session loop.
type Event struct {
	Type    EventType
	Time    time.Time
	Pair    engine.Pair
	Result  string
	Message string
	Stats   Stats
}

// emit delivers an event without ever blocking the session loop: if the
// consumer is not keeping up the event is dropped.
func (d *Driver) emit(ev Event) {
	if d.events == nil {
		return
	}
	ev.Time = time.Now()
	ev.Stats = d.stats()
	select {
	case d.events <- ev:
	default:
	}
}
