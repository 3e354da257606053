package session

import (
	"time"

	"github.com/entrhq/crucible/pkg/engine"
)

// Reason explains why a session terminated.
type Reason string

const (
	// ReasonGoalsComplete means every configured goal was achieved
	ReasonGoalsComplete Reason = "goals-complete"

	// ReasonExhausted means no untried pair remained; this is a normal
	// outcome, not an engine failure, even if goals are left unreached
	ReasonExhausted Reason = "exhausted"

	// ReasonCanceled means the session was stopped externally
	ReasonCanceled Reason = "canceled"

	// ReasonFailed means an unrecoverable error ended the session
	ReasonFailed Reason = "failed"
)

// GoalStatus is the final state of one goal.
type GoalStatus struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Achieved bool   `json:"achieved"`
}

// Summary is the session output: the attempt log, final goal statuses, and
// discovery and reward totals, suitable for persistence or reporting.
type Summary struct {
	SessionID   string           `json:"session_id"`
	Reason      Reason           `json:"reason"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Duration    time.Duration    `json:"duration"`
	Attempts    []engine.Attempt `json:"attempts"`
	Goals       []GoalStatus     `json:"goals"`
	Unreached   []string         `json:"unreached_goals,omitempty"`
	Discoveries []string         `json:"discoveries,omitempty"`
	Inventory   []string         `json:"inventory"`
	Reward      int              `json:"reward"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// finish builds the final summary and emits the terminal event.
func (d *Driver) finish(startedAt time.Time, reason Reason) *Summary {
	finishedAt := time.Now()

	goals := make([]GoalStatus, 0, d.tracker.Len())
	var unreached []string
	for _, g := range d.tracker.Goals() {
		goals = append(goals, GoalStatus{
			Name:     g.Name,
			Category: g.Category,
			Achieved: g.Achieved,
		})
		if !g.Achieved {
			unreached = append(unreached, g.Name)
		}
	}

	summary := &Summary{
		SessionID:   d.log.SessionID(),
		Reason:      reason,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		Duration:    finishedAt.Sub(startedAt),
		Attempts:    d.memory.All(),
		Goals:       goals,
		Unreached:   unreached,
		Discoveries: append([]string(nil), d.discoveries...),
		Inventory:   d.inventory.Names(),
		Reward:      d.reward,
		Warnings:    append([]string(nil), d.warnings...),
	}

	d.emit(Event{Type: EventFinished, Message: string(reason)})
	return summary
}
