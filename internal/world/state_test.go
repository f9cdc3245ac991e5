package world

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosture(t *testing.T) {
	for _, p := range Postures {
		got, err := ParsePosture(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePosture("standing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStateValue))
}

func TestParseRejectsOutsideClosedSets(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) error
	}{
		{"posture", func(s string) error { _, err := ParsePosture(s); return err }},
		{"luminance", func(s string) error { _, err := ParseLuminance(s); return err }},
		{"hand", func(s string) error { _, err := ParseHandState(s); return err }},
		{"environment", func(s string) error { _, err := ParseEnvironment(s); return err }},
		{"threat", func(s string) error { _, err := ParseThreatLevel(s); return err }},
		{"time_of_day", func(s string) error { _, err := ParseTimeOfDay(s); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.parse("nope"), ErrInvalidStateValue)
			assert.ErrorIs(t, tt.parse(""), ErrInvalidStateValue)
			// Case matters: the sets are lowercase labels.
			assert.ErrorIs(t, tt.parse("IDLE"), ErrInvalidStateValue)
		})
	}
}

func TestThreatLevelOrdering(t *testing.T) {
	assert.True(t, ThreatHigh.AtLeast(ThreatMedium))
	assert.True(t, ThreatMedium.AtLeast(ThreatMedium))
	assert.False(t, ThreatLow.AtLeast(ThreatMedium))
	assert.True(t, ThreatNone.AtLeast(ThreatNone))

	for i := 1; i < len(ThreatLevels); i++ {
		assert.Greater(t, ThreatLevels[i].Rank(), ThreatLevels[i-1].Rank())
	}
}

func TestDefaultBodyState(t *testing.T) {
	b := DefaultBodyState()
	assert.Equal(t, PostureIdle, b.Posture)
	assert.Equal(t, LuminanceDim, b.Luminance)
	assert.Equal(t, HandRelaxed, b.LeftHand)
	assert.Equal(t, HandRelaxed, b.RightHand)
	require.NoError(t, b.Validate())
}

func TestBodyCommandValidate(t *testing.T) {
	cmd := BodyCommand{
		Posture:   PostureAlert,
		Luminance: LuminanceBright,
		LeftHand:  HandPointing,
		RightHand: HandPointing,
		Duration:  3,
	}
	require.NoError(t, cmd.Validate())

	bad := cmd
	bad.Posture = "crouching"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidStateValue)

	bad = cmd
	bad.Duration = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidStateValue)
}

func TestTimeOfDayAt(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{0, TimeLateNight},
		{2, TimeLateNight},
		{3, TimeEarlyMorning},
		{5, TimeEarlyMorning},
		{6, TimeMorning},
		{11, TimeMorning},
		{12, TimeAfternoon},
		{16, TimeAfternoon},
		{17, TimeEvening},
		{20, TimeEvening},
		{21, TimeNight},
		{23, TimeNight},
	}
	for _, tt := range tests {
		at := time.Date(2026, 8, 24, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.want, TimeOfDayAt(at), "hour %d", tt.hour)
	}
}

func TestAnalyzeMessageCues(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Cues
	}{
		{"dark room", "It's too dark in here!", Cues{Environment: "dark"}},
		{"blinding", "That light is blinding me", Cues{Environment: "bright"}},
		{"intruder", "There's an INTRUDER in the hall", Cues{Threat: "high"}},
		{"suspicious", "something suspicious outside", Cues{Threat: "medium"}},
		{"all clear", "we're safe now, all clear", Cues{Threat: "none"}},
		{"dark and dangerous", "it's dark and there's danger", Cues{Environment: "dark", Threat: "high"}},
		{"nothing", "how was your day", Cues{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeMessageCues(tt.message))
		})
	}
}

func TestCuesMerge(t *testing.T) {
	base := Cues{Environment: "dark", Threat: "low"}
	over := Cues{Threat: "high", Entities: []string{"intruder_1"}}

	merged := base.Merge(over)
	assert.Equal(t, "dark", merged.Environment)
	assert.Equal(t, "high", merged.Threat)
	assert.Equal(t, []string{"intruder_1"}, merged.Entities)

	assert.True(t, Cues{}.IsZero())
	assert.False(t, Cues{Entities: []string{}}.IsZero())
}
