// Package session runs the automation control loop: it reads the live
// inventory through the browser collaborator, asks the engine which pair to
// combine next, submits the combination, and folds the outcome back into
// attempt memory, the goal tracker, and the inventory.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/crucible/pkg/config"
	"github.com/entrhq/crucible/pkg/engine"
	"github.com/entrhq/crucible/pkg/logging"
)

// Outcome is the observed result of one combination. An empty Result means
// the combination had no effect.
type Outcome struct {
	Result string
}

// Collaborator is the external browser-automation contract. Both operations
// may fail transiently; the driver retries them per the retry policy.
type Collaborator interface {
	// Elements returns the names of all elements currently available in
	// the game, in display order.
	Elements(ctx context.Context) ([]string, error)

	// Combine submits one combination and reports its outcome.
	Combine(ctx context.Context, a, b string) (Outcome, error)
}

// Options configures a driver beyond its collaborator and engine state.
type Options struct {
	Retry   config.RetryConfig
	Rewards config.RewardConfig
	Filter  *Filter
	Logger  *logging.Logger
	Events  chan<- Event
}

// Driver owns one session's state and runs the loop. It is strictly
// sequential: each iteration fully completes before the next begins, so the
// engine state needs no locking.
type Driver struct {
	collab    Collaborator
	library   *engine.Library
	tracker   *engine.Tracker
	memory    *engine.Memory
	inventory *engine.Inventory
	filter    *Filter
	retry     config.RetryConfig
	rewards   config.RewardConfig
	log       *logging.Logger
	events    chan<- Event

	started     bool
	reward      int
	discoveries []string
	warnings    []string
}

// New creates a driver with fresh inventory and attempt memory.
func New(collab Collaborator, library *engine.Library, goals []engine.Goal, opts Options) (*Driver, error) {
	if collab == nil {
		return nil, fmt.Errorf("collaborator is required")
	}
	if library == nil {
		library = engine.NewLibrary(nil)
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}
	filter := opts.Filter
	if filter == nil {
		var err error
		filter, err = NewFilter(config.ElementFilterConfig{})
		if err != nil {
			return nil, err
		}
	}
	log := opts.Logger
	if log == nil {
		// On error this still yields a stderr fallback logger.
		log, _ = logging.New("driver", logging.LevelInfo)
	}

	return &Driver{
		collab:    collab,
		library:   library,
		tracker:   engine.NewTracker(goals),
		memory:    engine.NewMemory(),
		inventory: engine.NewInventory(),
		filter:    filter,
		retry:     opts.Retry,
		rewards:   opts.Rewards,
		log:       log,
		events:    opts.Events,
	}, nil
}

// Run executes the session loop until the goals are complete, exploration is
// exhausted, the context is canceled, or an unrecoverable failure occurs.
// The returned summary is valid in every case, including on error.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	startedAt := time.Now()
	idleLeft := d.retry.IdleRetries
	failedSubmissions := 0

	for {
		// Cancellation is checked at the top of each iteration; memory only
		// gains entries through fully-completed Record calls below, so a
		// cancel here never leaves a partial update behind.
		select {
		case <-ctx.Done():
			d.log.Infof("session canceled")
			return d.finish(startedAt, ReasonCanceled), ctx.Err()
		default:
		}

		if err := d.refreshInventory(ctx); err != nil {
			d.log.Errorf("inventory refresh failed: %v", err)
			return d.finish(startedAt, ReasonFailed), err
		}

		if d.tracker.Complete() && d.tracker.Len() > 0 {
			d.log.Infof("all %d goals achieved", d.tracker.Len())
			return d.finish(startedAt, ReasonGoalsComplete), nil
		}

		pair, ok := engine.SelectNext(d.inventory, d.tracker, d.memory, d.library)
		if !ok {
			// Exhaustion is a normal terminal condition. Give the game a few
			// bounded chances to surface new elements before stopping.
			if idleLeft <= 0 {
				d.log.Infof("exploration exhausted after %d attempts", d.memory.Len())
				return d.finish(startedAt, ReasonExhausted), nil
			}
			idleLeft--
			d.log.Debugf("no untried pair available, waiting (%d idle retries left)", idleLeft)
			if err := sleepCtx(ctx, d.retry.Backoff); err != nil {
				return d.finish(startedAt, ReasonCanceled), err
			}
			continue
		}
		idleLeft = d.retry.IdleRetries

		if d.memory.Tried(pair) {
			// Core invariant violation: abort rather than corrupt state.
			err := &engine.DuplicateAttemptError{Pair: pair}
			d.log.Errorf("selector invariant violated: %v", err)
			return d.finish(startedAt, ReasonFailed), err
		}

		d.log.Infof("attempting %s", pair)
		d.emit(Event{Type: EventAttempt, Pair: pair})

		outcome, err := d.submit(ctx, pair)
		if err != nil {
			if ctx.Err() != nil {
				return d.finish(startedAt, ReasonCanceled), ctx.Err()
			}
			// A failed submission observed no outcome, so nothing is
			// recorded and the pair stays eligible for a future retry.
			failedSubmissions++
			d.warn("submission of %s failed: %v", pair, err)
			// IdleRetries also bounds consecutive failed submissions so a
			// dead browser cannot spin the loop forever.
			if failedSubmissions > d.retry.IdleRetries {
				d.log.Errorf("giving up after %d consecutive failed submissions", failedSubmissions)
				return d.finish(startedAt, ReasonFailed), fmt.Errorf("repeated submission failures: %w", err)
			}
			continue
		}
		failedSubmissions = 0

		if err := d.recordOutcome(pair, outcome); err != nil {
			return d.finish(startedAt, ReasonFailed), err
		}
	}
}

// refreshInventory reads the live element list and folds it into the
// session's inventory and goal tracker.
func (d *Driver) refreshInventory(ctx context.Context) error {
	var names []string
	err := d.withRetry(ctx, "read elements", func() error {
		var readErr error
		names, readErr = d.collab.Elements(ctx)
		return readErr
	})
	if err != nil {
		return fmt.Errorf("failed to read element list: %w", err)
	}

	for _, name := range names {
		if !d.filter.Allow(name) {
			d.log.Debugf("filtered out element %q", name)
			continue
		}
		// Elements appearing after the first refresh were produced during
		// this session.
		if _, added := d.inventory.Add(name, d.started); added {
			d.log.Debugf("inventory gained %q", name)
		}
		d.markGoal(name)
	}
	d.started = true
	d.emit(Event{Type: EventRefresh})
	return nil
}

// recordOutcome stores a completed attempt and applies its side effects.
func (d *Driver) recordOutcome(pair engine.Pair, outcome Outcome) error {
	attempt, err := d.memory.Record(pair, outcome.Result)
	if err != nil {
		// Duplicate record is a logic error and fatal to the session.
		d.log.Errorf("attempt record failed: %v", err)
		return err
	}

	if !attempt.Produced() {
		d.log.Infof("%s had no effect", pair)
		d.emit(Event{Type: EventOutcome, Pair: pair})
		return nil
	}

	d.log.Infof("%s produced %q", pair, outcome.Result)
	d.emit(Event{Type: EventOutcome, Pair: pair, Result: outcome.Result})

	// The first observed outcome is authoritative. A library entry that
	// disagrees with the live game is a diagnostic, never an overwrite.
	if expected, known := d.library.Lookup(pair); known && engine.Key(expected) != engine.Key(outcome.Result) {
		d.warn("library says %s -> %q but game produced %q", pair, expected, outcome.Result)
	}

	// The result passes through the same filter as refreshed elements, so
	// noise text picked up from the discovery notification never enters the
	// working inventory. The attempt itself stays recorded either way.
	if !d.filter.Allow(outcome.Result) {
		d.log.Debugf("filtered out result %q", outcome.Result)
		return nil
	}

	if _, added := d.inventory.Add(outcome.Result, true); added {
		d.discoveries = append(d.discoveries, outcome.Result)
		d.reward += d.rewards.NewElement
		d.emit(Event{Type: EventDiscovery, Pair: pair, Result: outcome.Result})
	}
	d.markGoal(outcome.Result)
	return nil
}

// markGoal transitions a matching pending goal and applies the goal reward.
func (d *Driver) markGoal(name string) {
	if d.tracker.MarkIfAchieved(name) {
		d.reward += d.rewards.Goal
		d.log.Infof("goal achieved: %q", name)
		d.emit(Event{Type: EventGoal, Result: name})
	}
}

// submit pushes one combination through the collaborator with bounded retry.
func (d *Driver) submit(ctx context.Context, pair engine.Pair) (Outcome, error) {
	var outcome Outcome
	err := d.withRetry(ctx, "combine", func() error {
		var combineErr error
		outcome, combineErr = d.collab.Combine(ctx, pair.First, pair.Second)
		return combineErr
	})
	return outcome, err
}

// withRetry runs op up to the configured number of attempts, doubling the
// backoff between tries.
func (d *Driver) withRetry(ctx context.Context, what string, op func() error) error {
	backoff := d.retry.Backoff
	var lastErr error
	for attempt := 1; attempt <= d.retry.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		d.log.Warnf("%s failed (attempt %d/%d): %v", what, attempt, d.retry.MaxAttempts, lastErr)
		if attempt < d.retry.MaxAttempts {
			if err := sleepCtx(ctx, backoff); err != nil {
				return err
			}
			backoff *= 2
		}
	}
	return lastErr
}

func (d *Driver) warn(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	d.warnings = append(d.warnings, message)
	d.log.Warnf("%s", message)
	d.emit(Event{Type: EventWarning, Message: message})
}

func (d *Driver) stats() Stats {
	return Stats{
		Inventory:     d.inventory.Len(),
		Attempts:      d.memory.Len(),
		Discoveries:   len(d.discoveries),
		GoalsAchieved: d.tracker.AchievedCount(),
		GoalsTotal:    d.tracker.Len(),
		Reward:        d.reward,
	}
}

// sleepCtx waits for the duration unless the context is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
