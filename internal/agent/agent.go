// Package agent sequences one conversational turn through the embodied
// pipeline: world update, mood update, behavior arbitration, motion
// translation, body commit. Turns are serialized per agent instance.
package agent

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"assaultron/internal/behavior"
	"assaultron/internal/motion"
	"assaultron/internal/storage"
	"assaultron/internal/world"
)

// TurnInput is everything one turn consumes: the intent assessment from
// cognition, the raw user message (for cue analysis and mood features) and
// optional explicit cues from perception.
type TurnInput struct {
	Intent  world.Intent `json:"intent"`
	Message string       `json:"message"`
	Cues    *world.Cues  `json:"cues,omitempty"`
}

// TurnResult is the committed outcome of a successful turn.
type TurnResult struct {
	TurnID   string               `json:"turn_id"`
	Decision behavior.Decision    `json:"decision"`
	Command  world.BodyCommand    `json:"command"`
	Hardware motion.HardwareState `json:"hardware"`
	Body     world.BodyState      `json:"body"`
	Mood     world.MoodState      `json:"mood"`
}

// Agent owns the pipeline. Store and Archive may be nil; persistence is a
// side effect of a committed turn, never a reason to fail one.
type Agent struct {
	World   *world.Model
	Arbiter *behavior.Arbiter
	Store   *storage.Store
	Archive *storage.Archive

	// turnMu enforces at most one in-flight turn per agent instance.
	turnMu sync.Mutex

	lastTurnAt   time.Time
	interactions int

	now func() time.Time // test hook
}

func New(model *world.Model, arb *behavior.Arbiter, store *storage.Store, archive *storage.Archive) *Agent {
	return &Agent{
		World:   model,
		Arbiter: arb,
		Store:   store,
		Archive: archive,
		now:     time.Now,
	}
}

// ProcessTurn runs the five pipeline steps to completion, or fails leaving
// the previously committed state authoritative. Blocking I/O (LLM calls,
// perception) happens before this is invoked; everything here is cheap
// state arithmetic plus an async persistence tail.
func (ag *Agent) ProcessTurn(in TurnInput) (*TurnResult, error) {
	ag.turnMu.Lock()
	defer ag.turnMu.Unlock()

	turnID := uuid.NewString()
	now := ag.now()

	cues := world.AnalyzeMessageCues(in.Message)
	if in.Cues != nil {
		cues = cues.Merge(*in.Cues)
	}
	if cues.TimeOfDay == "" {
		cues.TimeOfDay = string(world.TimeOfDayAt(now))
	}
	if err := ag.World.UpdateWorld(cues); err != nil {
		log.Error().Str("turn", turnID).Err(err).Msg("world update rejected")
		return nil, err
	}

	var elapsed time.Duration
	if !ag.lastTurnAt.IsZero() {
		elapsed = now.Sub(ag.lastTurnAt)
	}
	ag.interactions++
	mood := ag.World.UpdateMood(world.MessageFeatures{
		Length:      len(in.Message),
		IsQuestion:  isQuestion(in.Message),
		Elapsed:     elapsed,
		Interaction: ag.interactions,
	})
	ag.lastTurnAt = now

	snap := ag.World.Snapshot()
	cmd, dec, err := ag.Arbiter.SelectAndExecute(in.Intent, snap.Body)
	if err != nil {
		log.Error().Str("turn", turnID).Err(err).Msg("turn failed, previous body state stands")
		return nil, err
	}

	hw, err := motion.Translate(cmd)
	if err != nil {
		log.Error().Str("turn", turnID).Err(err).Msg("translation failed, previous body state stands")
		return nil, err
	}

	if err := ag.World.UpdateBody(cmd); err != nil {
		log.Error().Str("turn", turnID).Err(err).Msg("body commit rejected")
		return nil, err
	}
	body := ag.World.Snapshot().Body

	var trans []world.Transition
	if ag.Archive != nil {
		trans = ag.World.Transitions(1)
	}
	go ag.persist(mood, body, dec, trans)

	log.Info().
		Str("action", "turn").
		Str("turn", turnID).
		Str("behavior", dec.Behavior).
		Str("posture", string(body.Posture)).
		Int("light", hw.LightIntensity).
		Msg("turn committed")

	return &TurnResult{
		TurnID:   turnID,
		Decision: dec,
		Command:  cmd,
		Hardware: hw,
		Body:     body,
		Mood:     mood,
	}, nil
}

// persist runs after the turn commits. Failures are logged and swallowed:
// affect state is simply not durable until the next successful write.
func (ag *Agent) persist(mood world.MoodState, body world.BodyState, dec behavior.Decision, trans []world.Transition) {
	if ag.Store != nil {
		if err := ag.Store.SaveSnapshot(mood, body); err != nil {
			log.Warn().Str("action", "persist").Err(err).Msg("snapshot write failed")
		}
	}
	if ag.Archive != nil {
		if err := ag.Archive.RecordDecision(dec); err != nil {
			log.Warn().Str("action", "persist").Err(err).Msg("decision archive failed")
		}
		for _, t := range trans {
			if err := ag.Archive.RecordTransition(t); err != nil {
				log.Warn().Str("action", "persist").Err(err).Msg("transition archive failed")
			}
		}
	}
}

func isQuestion(s string) bool {
	return strings.HasSuffix(strings.TrimSpace(s), "?")
}
