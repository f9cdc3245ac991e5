// Package motion translates symbolic body commands into bounded hardware
// values. This is the only layer that knows hardware numbers; everything
// above it speaks symbols. Translation is pure and idempotent.
package motion

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"assaultron/internal/world"
)

// Hardware envelope. The mapping tables stay inside it; the safety clamp
// exists for externally-configured overrides and future table edits.
const (
	MinIntensity = 0
	MaxIntensity = 100
	MinPosition  = 0
	MaxPosition  = 100
)

// luminanceIntensity maps symbolic luminance to light intensity (0-100).
var luminanceIntensity = map[world.Luminance]int{
	world.LuminanceDim:     10,
	world.LuminanceSoft:    35,
	world.LuminanceNormal:  50,
	world.LuminanceBright:  75,
	world.LuminanceIntense: 100,
}

// handPosition maps symbolic hand states to base positions (0-100).
var handPosition = map[world.HandState]int{
	world.HandClosed:   0,
	world.HandRelaxed:  30,
	world.HandOpen:     70,
	world.HandPointing: 50,
}

// postureBaseline sets the overall hand tension per posture; the final
// position is the mean of this baseline and the hand-state value. Posture
// sets overall tension, hand state fine-tunes the gesture.
var postureBaseline = map[world.Posture]int{
	world.PostureIdle:       0,
	world.PostureAlert:      30,
	world.PostureAggressive: 0,
	world.PostureRelaxed:    50,
	world.PostureCurious:    70,
}

// Hand pairs a servo position with the symbolic state that produced it.
type Hand struct {
	Position int             `json:"position"`
	State    world.HandState `json:"status"`
}

// HardwareState is the final actuator configuration for one turn. Handed
// to the actuator collaborator; never read back.
type HardwareState struct {
	LightIntensity int  `json:"led_intensity"`
	Left           Hand `json:"left"`
	Right          Hand `json:"right"`
}

// Translate maps a body command to hardware values and applies the safety
// clamp. No I/O, no state: identical input yields identical output.
func Translate(cmd world.BodyCommand) (HardwareState, error) {
	intensity, ok := luminanceIntensity[cmd.Luminance]
	if !ok {
		return HardwareState{}, fmt.Errorf("%w: luminance %q", world.ErrInvalidStateValue, cmd.Luminance)
	}
	baseline, ok := postureBaseline[cmd.Posture]
	if !ok {
		return HardwareState{}, fmt.Errorf("%w: posture %q", world.ErrInvalidStateValue, cmd.Posture)
	}
	left, err := handValue(cmd.LeftHand, baseline)
	if err != nil {
		return HardwareState{}, err
	}
	right, err := handValue(cmd.RightHand, baseline)
	if err != nil {
		return HardwareState{}, err
	}

	return HardwareState{
		LightIntensity: clamp(intensity, MinIntensity, MaxIntensity, "light"),
		Left:           Hand{Position: clamp(left, MinPosition, MaxPosition, "left_hand"), State: cmd.LeftHand},
		Right:          Hand{Position: clamp(right, MinPosition, MaxPosition, "right_hand"), State: cmd.RightHand},
	}, nil
}

func handValue(h world.HandState, baseline int) (int, error) {
	pos, ok := handPosition[h]
	if !ok {
		return 0, fmt.Errorf("%w: hand state %q", world.ErrInvalidStateValue, h)
	}
	return int(math.Round(float64(baseline+pos) / 2)), nil
}

// clamp bounds v into [lo, hi]. A clamp that changes the value means a
// mapping table left the hardware envelope; logged as a near-miss, not a
// failure.
func clamp(v, lo, hi int, channel string) int {
	if v < lo || v > hi {
		log.Warn().
			Str("action", "safety_clamp").
			Str("channel", channel).
			Int("value", v).
			Msg("mapped value outside hardware envelope")
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
