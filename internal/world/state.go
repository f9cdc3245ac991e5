// Package world owns the agent's internal model: body configuration, world
// perception and mood. All symbolic vocabularies are closed sets; anything
// outside them is rejected with ErrInvalidStateValue before state is touched.
package world

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStateValue marks a label outside one of the closed symbolic sets.
// Callers match it with errors.Is.
var ErrInvalidStateValue = errors.New("invalid state value")

func errInvalid(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidStateValue, kind, value)
}

// Posture is the high-level physical demeanor of the body.
type Posture string

const (
	PostureIdle       Posture = "idle"
	PostureAlert      Posture = "alert"
	PostureAggressive Posture = "aggressive"
	PostureRelaxed    Posture = "relaxed"
	PostureCurious    Posture = "curious"
)

// Postures lists the closed posture set in a stable order.
var Postures = []Posture{PostureIdle, PostureAlert, PostureAggressive, PostureRelaxed, PostureCurious}

func ParsePosture(s string) (Posture, error) {
	for _, p := range Postures {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: posture %q", ErrInvalidStateValue, s)
}

// Luminance is the symbolic light output level.
type Luminance string

const (
	LuminanceDim     Luminance = "dim"
	LuminanceSoft    Luminance = "soft"
	LuminanceNormal  Luminance = "normal"
	LuminanceBright  Luminance = "bright"
	LuminanceIntense Luminance = "intense"
)

var Luminances = []Luminance{LuminanceDim, LuminanceSoft, LuminanceNormal, LuminanceBright, LuminanceIntense}

func ParseLuminance(s string) (Luminance, error) {
	for _, l := range Luminances {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: luminance %q", ErrInvalidStateValue, s)
}

// HandState is a symbolic hand configuration.
type HandState string

const (
	HandClosed   HandState = "closed"
	HandRelaxed  HandState = "relaxed"
	HandOpen     HandState = "open"
	HandPointing HandState = "pointing"
)

var HandStates = []HandState{HandClosed, HandRelaxed, HandOpen, HandPointing}

func ParseHandState(s string) (HandState, error) {
	for _, h := range HandStates {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: hand state %q", ErrInvalidStateValue, s)
}

// Environment is the perceived ambient lighting.
type Environment string

const (
	EnvironmentDark   Environment = "dark"
	EnvironmentNormal Environment = "normal"
	EnvironmentBright Environment = "bright"
)

var Environments = []Environment{EnvironmentDark, EnvironmentNormal, EnvironmentBright}

func ParseEnvironment(s string) (Environment, error) {
	for _, e := range Environments {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: environment %q", ErrInvalidStateValue, s)
}

// ThreatLevel is the perceived danger level. Levels are totally ordered.
type ThreatLevel string

const (
	ThreatNone   ThreatLevel = "none"
	ThreatLow    ThreatLevel = "low"
	ThreatMedium ThreatLevel = "medium"
	ThreatHigh   ThreatLevel = "high"
)

var ThreatLevels = []ThreatLevel{ThreatNone, ThreatLow, ThreatMedium, ThreatHigh}

func ParseThreatLevel(s string) (ThreatLevel, error) {
	for _, t := range ThreatLevels {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: threat level %q", ErrInvalidStateValue, s)
}

// Rank returns the position of the level in the none..high order.
func (t ThreatLevel) Rank() int {
	for i, lv := range ThreatLevels {
		if lv == t {
			return i
		}
	}
	return 0
}

// AtLeast reports whether t is as severe as other.
func (t ThreatLevel) AtLeast(other ThreatLevel) bool {
	return t.Rank() >= other.Rank()
}

// BodyState is the current physical configuration of the virtual body.
// Mutated only through Model.UpdateBody.
type BodyState struct {
	Posture   Posture   `json:"posture"`
	Luminance Luminance `json:"luminance"`
	LeftHand  HandState `json:"left_hand"`
	RightHand HandState `json:"right_hand"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultBodyState is the configuration at process start: at rest, lights low.
func DefaultBodyState() BodyState {
	return BodyState{
		Posture:   PostureIdle,
		Luminance: LuminanceDim,
		LeftHand:  HandRelaxed,
		RightHand: HandRelaxed,
	}
}

// Validate checks every label against its closed set.
func (b BodyState) Validate() error {
	if _, err := ParsePosture(string(b.Posture)); err != nil {
		return err
	}
	if _, err := ParseLuminance(string(b.Luminance)); err != nil {
		return err
	}
	if _, err := ParseHandState(string(b.LeftHand)); err != nil {
		return err
	}
	_, err := ParseHandState(string(b.RightHand))
	return err
}

// WorldState is the agent's perception of its surroundings.
type WorldState struct {
	Entities    []string    `json:"entities"`
	Environment Environment `json:"environment"`
	Threat      ThreatLevel `json:"threat_level"`
	TimeOfDay   TimeOfDay   `json:"time_of_day"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func DefaultWorldState() WorldState {
	return WorldState{
		Environment: EnvironmentNormal,
		Threat:      ThreatNone,
		TimeOfDay:   TimeUnknown,
	}
}

// BodyCommand is a desired body configuration emitted by a behavior and
// consumed by the motion translator and Model.UpdateBody. Transient.
type BodyCommand struct {
	Posture         Posture   `json:"posture"`
	Luminance       Luminance `json:"luminance"`
	LeftHand        HandState `json:"left_hand"`
	RightHand       HandState `json:"right_hand"`
	AttentionTarget string    `json:"attention_target,omitempty"`
	Duration        float64   `json:"duration"` // seconds to hold, advisory
}

// Validate checks labels and that the hold duration is non-negative.
func (c BodyCommand) Validate() error {
	if err := (BodyState{
		Posture:   c.Posture,
		Luminance: c.Luminance,
		LeftHand:  c.LeftHand,
		RightHand: c.RightHand,
	}).Validate(); err != nil {
		return err
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidStateValue, c.Duration)
	}
	return nil
}
