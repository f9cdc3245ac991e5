package world

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// maxTransitions bounds the body transition history ring.
const maxTransitions = 100

// Transition records one committed body change, kept for diagnostics.
type Transition struct {
	At      time.Time   `json:"at"`
	From    BodyState   `json:"from"`
	To      BodyState   `json:"to"`
	Command BodyCommand `json:"command"`
}

// Snapshot is an immutable copy of all three state records.
type Snapshot struct {
	Body  BodyState  `json:"body"`
	World WorldState `json:"world"`
	Mood  MoodState  `json:"mood"`
}

// Model owns body, world and mood state behind a single lock. One Model per
// agent instance; all mutation goes through the Update methods, which are
// each atomic. Callers never see internal storage, only Snapshot copies.
type Model struct {
	mu    sync.RWMutex
	body  BodyState
	world WorldState
	mood  MoodState

	// prevMsgLen feeds the irritation repetition signal; -1 = no previous.
	prevMsgLen  int
	transitions []Transition

	now func() time.Time // test hook
}

// NewModel creates a Model with default body/world/mood state.
func NewModel() *Model {
	return &Model{
		body:       DefaultBodyState(),
		world:      DefaultWorldState(),
		mood:       DefaultMoodState(),
		prevMsgLen: -1,
		now:        time.Now,
	}
}

// Restore overwrites body and/or mood from persisted snapshots, typically
// right after NewModel at process start. Nil means keep the default.
// Invalid persisted labels are rejected so a corrupt file cannot poison the
// closed sets.
func (m *Model) Restore(body *BodyState, mood *MoodState) error {
	if body != nil {
		if err := body.Validate(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if body != nil {
		m.body = *body
	}
	if mood != nil {
		m.mood = mood.clamped()
	}
	return nil
}

// UpdateWorld merges cues into the world state. Each present field is
// validated before anything is applied, so a bad label leaves the state
// byte-for-byte unchanged.
func (m *Model) UpdateWorld(c Cues) error {
	var (
		env Environment
		thr ThreatLevel
		tod TimeOfDay
		err error
	)
	if c.Environment != "" {
		if env, err = ParseEnvironment(c.Environment); err != nil {
			return err
		}
	}
	if c.Threat != "" {
		if thr, err = ParseThreatLevel(c.Threat); err != nil {
			return err
		}
	}
	if c.TimeOfDay != "" {
		if tod, err = ParseTimeOfDay(c.TimeOfDay); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c.Entities != nil {
		m.world.Entities = dedupe(c.Entities)
	}
	if c.Environment != "" {
		m.world.Environment = env
	}
	if c.Threat != "" {
		m.world.Threat = thr
	}
	if c.TimeOfDay != "" {
		m.world.TimeOfDay = tod
	}
	m.world.UpdatedAt = m.now()
	return nil
}

// UpdateMood applies one turn of mood evolution. The only mutation point
// for mood; call at most once per turn. Negative length/elapsed inputs are
// a caller contract violation and are floored here at the boundary.
func (m *Model) UpdateMood(f MessageFeatures) MoodState {
	if f.Length < 0 {
		f.Length = 0
	}
	if f.Elapsed < 0 {
		f.Elapsed = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.mood = evolveMood(m.mood, f, m.prevMsgLen)
	m.mood.UpdatedAt = m.now()
	m.prevMsgLen = f.Length
	return m.mood
}

// UpdateBody applies a validated body command unconditionally: any posture
// may follow any posture. Transition legality checks, if ever wanted, go
// here and nowhere else.
func (m *Model) UpdateBody(c BodyCommand) error {
	if err := c.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	from := m.body
	m.body.Posture = c.Posture
	m.body.Luminance = c.Luminance
	m.body.LeftHand = c.LeftHand
	m.body.RightHand = c.RightHand
	m.body.UpdatedAt = m.now()

	m.transitions = append(m.transitions, Transition{
		At:      m.body.UpdatedAt,
		From:    from,
		To:      m.body,
		Command: c,
	})
	if len(m.transitions) > maxTransitions {
		m.transitions = m.transitions[len(m.transitions)-maxTransitions:]
	}

	log.Debug().
		Str("action", "body_update").
		Str("from", string(from.Posture)).
		Str("to", string(c.Posture)).
		Str("luminance", string(c.Luminance)).
		Msg("body state committed")
	return nil
}

// Snapshot returns a deep copy of all three records.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{Body: m.body, World: m.world, Mood: m.mood}
	if m.world.Entities != nil {
		s.World.Entities = append([]string(nil), m.world.Entities...)
	}
	return s
}

// Transitions returns up to limit most recent body transitions, oldest
// first. limit <= 0 returns everything retained.
func (m *Model) Transitions(limit int) []Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.transitions)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Transition, n)
	copy(out, m.transitions[len(m.transitions)-n:])
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
