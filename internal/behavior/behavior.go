// Package behavior holds the reaction library and the utility arbiter.
// Behaviors are declarative: trigger sets and weights are data, loadable
// from YAML, so tuning never touches selection logic.
package behavior

import (
	"errors"
	"fmt"
	"strings"

	"assaultron/internal/world"
)

var (
	// ErrEmptyLibrary means the arbiter was constructed with no behaviors.
	ErrEmptyLibrary = errors.New("behavior library is empty")

	// ErrProduction wraps a failure inside a behavior's production step.
	ErrProduction = errors.New("behavior production failed")
)

// CommandTemplate is the symbolic body configuration a behavior emits.
// Fields are plain strings so the template can come straight from YAML;
// they are validated against the closed sets on load and again on produce.
type CommandTemplate struct {
	Posture   string  `yaml:"posture" json:"posture"`
	Luminance string  `yaml:"luminance" json:"luminance"`
	LeftHand  string  `yaml:"left_hand" json:"left_hand"`
	RightHand string  `yaml:"right_hand" json:"right_hand"`
	Duration  float64 `yaml:"duration" json:"duration"`
}

// Spec is one named reaction rule: trigger sets and scoring weights plus
// the command it produces when it wins.
type Spec struct {
	Name string `yaml:"name" json:"name"`

	// Trigger labels, matched case-insensitively against intent goal and
	// emotion (exact or substring, either direction).
	Goals    []string `yaml:"goals" json:"goals"`
	Emotions []string `yaml:"emotions" json:"emotions"`

	GoalBonus        float64 `yaml:"goal_bonus" json:"goal_bonus"`
	EmotionBonus     float64 `yaml:"emotion_bonus" json:"emotion_bonus"`
	ConfidenceWeight float64 `yaml:"confidence_weight" json:"confidence_weight"`
	UrgencyWeight    float64 `yaml:"urgency_weight" json:"urgency_weight"`

	// Baseline keeps the score non-negative even with no trigger match,
	// so a fallback behavior is always selectable.
	Baseline float64 `yaml:"baseline" json:"baseline"`

	Command CommandTemplate `yaml:"command" json:"command"`

	// TrackFocus copies the intent focus into the command attention target.
	TrackFocus bool `yaml:"track_focus" json:"track_focus"`

	// EscalateLuminance, when > 0, switches the produced luminance to
	// intense once intent urgency exceeds it.
	EscalateLuminance float64 `yaml:"escalate_luminance,omitempty" json:"escalate_luminance,omitempty"`
}

// Validate checks the spec is usable: a name, non-negative weights and a
// command template drawn from the closed symbolic sets.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("behavior spec without a name")
	}
	for _, w := range []float64{s.GoalBonus, s.EmotionBonus, s.ConfidenceWeight, s.UrgencyWeight, s.Baseline} {
		if w < 0 {
			return fmt.Errorf("behavior %q: negative weight %v", s.Name, w)
		}
	}
	if _, err := s.command(world.Intent{}); err != nil {
		return fmt.Errorf("behavior %q: %w", s.Name, err)
	}
	return nil
}

// Utility scores the spec against an intent. Pure: same inputs, same score,
// always >= 0. The body state is accepted for parity with Produce; current
// rules do not read it.
func (s Spec) Utility(intent world.Intent, body world.BodyState) float64 {
	u := s.Baseline
	if matchesAny(intent.Goal, s.Goals) {
		u += s.GoalBonus
	}
	if matchesAny(intent.Emotion, s.Emotions) {
		u += s.EmotionBonus
	}
	u += s.ConfidenceWeight * intent.Confidence
	u += s.UrgencyWeight * intent.Urgency
	if u < 0 {
		u = 0
	}
	return u
}

// Produce materializes the body command for this behavior. Fails with
// ErrProduction when the template (possibly edited externally) carries a
// label outside the closed sets.
func (s Spec) Produce(intent world.Intent, body world.BodyState) (world.BodyCommand, error) {
	cmd, err := s.command(intent)
	if err != nil {
		return world.BodyCommand{}, fmt.Errorf("%w: %s: %v", ErrProduction, s.Name, err)
	}
	return cmd, nil
}

func (s Spec) command(intent world.Intent) (world.BodyCommand, error) {
	posture, err := world.ParsePosture(s.Command.Posture)
	if err != nil {
		return world.BodyCommand{}, err
	}
	luminance, err := world.ParseLuminance(s.Command.Luminance)
	if err != nil {
		return world.BodyCommand{}, err
	}
	left, err := world.ParseHandState(s.Command.LeftHand)
	if err != nil {
		return world.BodyCommand{}, err
	}
	right, err := world.ParseHandState(s.Command.RightHand)
	if err != nil {
		return world.BodyCommand{}, err
	}
	if s.Command.Duration < 0 {
		return world.BodyCommand{}, fmt.Errorf("negative duration %v", s.Command.Duration)
	}

	if s.EscalateLuminance > 0 && intent.Urgency > s.EscalateLuminance {
		luminance = world.LuminanceIntense
	}

	cmd := world.BodyCommand{
		Posture:   posture,
		Luminance: luminance,
		LeftHand:  left,
		RightHand: right,
		Duration:  s.Command.Duration,
	}
	if s.TrackFocus {
		cmd.AttentionTarget = intent.Focus
	}
	return cmd, nil
}

// matchesAny reports whether value matches any trigger label,
// case-insensitively, exact or substring in either direction.
func matchesAny(value string, triggers []string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, t := range triggers {
		tl := strings.ToLower(strings.TrimSpace(t))
		if tl == "" {
			continue
		}
		if v == tl || strings.Contains(v, tl) || strings.Contains(tl, v) {
			return true
		}
	}
	return false
}
