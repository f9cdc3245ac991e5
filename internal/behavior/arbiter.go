package behavior

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"assaultron/internal/world"
)

// maxDecisions bounds the selection history ring.
const maxDecisions = 200

// Decision records one arbitration outcome for diagnostics.
type Decision struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Goal     string    `json:"goal"`
	Emotion  string    `json:"emotion"`
	Behavior string    `json:"behavior"`
	Utility  float64   `json:"utility"`
	RunnerUp string    `json:"runner_up,omitempty"`
}

// Arbiter scores every behavior for the current intent and executes the
// winner. Selection is deterministic: strictly greatest utility wins, exact
// ties go to the behavior registered earliest.
type Arbiter struct {
	specs []Spec

	mu      sync.RWMutex
	history []Decision

	now func() time.Time // test hook
}

// NewArbiter validates the library and builds an arbiter. An empty or
// invalid library is a configuration error: fail here, not per turn.
func NewArbiter(specs []Spec) (*Arbiter, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyLibrary
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate behavior name %q", s.Name)
		}
		seen[s.Name] = true
	}
	lib := make([]Spec, len(specs))
	copy(lib, specs)
	return &Arbiter{specs: lib, now: time.Now}, nil
}

// Behaviors returns the library names in registration order.
func (a *Arbiter) Behaviors() []string {
	names := make([]string, len(a.specs))
	for i, s := range a.specs {
		names[i] = s.Name
	}
	return names
}

// SelectAndExecute picks the winning behavior for the intent and produces
// its body command. If the winner's production fails, selection re-runs
// once with that behavior excluded; a second failure fails the turn.
func (a *Arbiter) SelectAndExecute(intent world.Intent, body world.BodyState) (world.BodyCommand, Decision, error) {
	intent = intent.Normalized()

	cmd, dec, err := a.selectOnce(intent, body, -1)
	if err == nil {
		a.record(dec)
		return cmd, dec, nil
	}

	failed, ok := err.(*produceError)
	if !ok {
		return world.BodyCommand{}, Decision{}, err
	}
	log.Warn().
		Str("action", "select_retry").
		Str("behavior", a.specs[failed.index].Name).
		Err(failed.err).
		Msg("production failed, retrying without behavior")

	cmd, dec, err = a.selectOnce(intent, body, failed.index)
	if err != nil {
		if pe, ok := err.(*produceError); ok {
			err = pe.err
		}
		return world.BodyCommand{}, Decision{}, err
	}
	a.record(dec)
	return cmd, dec, nil
}

type produceError struct {
	index int
	err   error
}

func (e *produceError) Error() string { return e.err.Error() }
func (e *produceError) Unwrap() error { return e.err }

func (a *Arbiter) selectOnce(intent world.Intent, body world.BodyState, exclude int) (world.BodyCommand, Decision, error) {
	best, bestUtility := -1, -1.0
	runnerUp, runnerUtility := -1, -1.0
	for i, s := range a.specs {
		if i == exclude {
			continue
		}
		u := s.Utility(intent, body)
		if u > bestUtility {
			runnerUp, runnerUtility = best, bestUtility
			best, bestUtility = i, u
		} else if u > runnerUtility {
			runnerUp, runnerUtility = i, u
		}
	}
	if best < 0 {
		return world.BodyCommand{}, Decision{}, ErrEmptyLibrary
	}

	winner := a.specs[best]
	cmd, err := winner.Produce(intent, body)
	if err != nil {
		return world.BodyCommand{}, Decision{}, &produceError{index: best, err: err}
	}

	dec := Decision{
		ID:       uuid.NewString(),
		At:       a.now(),
		Goal:     intent.Goal,
		Emotion:  intent.Emotion,
		Behavior: winner.Name,
		Utility:  bestUtility,
	}
	if runnerUp >= 0 {
		dec.RunnerUp = a.specs[runnerUp].Name
	}

	log.Info().
		Str("action", "select").
		Str("behavior", dec.Behavior).
		Float64("utility", dec.Utility).
		Str("goal", intent.Goal).
		Str("emotion", intent.Emotion).
		Msg("behavior selected")
	return cmd, dec, nil
}

func (a *Arbiter) record(d Decision) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, d)
	if len(a.history) > maxDecisions {
		a.history = a.history[len(a.history)-maxDecisions:]
	}
}

// History returns up to limit most recent decisions, oldest first.
// limit <= 0 returns everything retained.
func (a *Arbiter) History(limit int) []Decision {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := len(a.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Decision, n)
	copy(out, a.history[len(a.history)-n:])
	return out
}
