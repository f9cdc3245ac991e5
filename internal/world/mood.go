package world

import (
	"time"
)

// Mood evolution constants. Tuned for slow drift: a quiet hour settles the
// agent most of the way back to baseline.
const (
	// MoodBaseline is the resting value every dimension drifts toward.
	MoodBaseline = 0.5

	// MoodDriftPerSecond scales time decay toward MoodBaseline.
	MoodDriftPerSecond = 0.0004

	// BoredomGrowthPerSecond scales the saturating boredom rise with idle time.
	BoredomGrowthPerSecond = 0.0008

	// CuriosityQuestionBump is added when the incoming message is a question.
	CuriosityQuestionBump = 0.08

	// IrritationRepeatBump is added when two short messages arrive in a row.
	IrritationRepeatBump = 0.06

	// ShortMessageLength is the exclusive upper bound for a "short" message.
	ShortMessageLength = 8

	// AttachmentGain is the per-interaction gain before diminishing returns.
	AttachmentGain = 0.01
)

// MoodState holds the four persisted affect scalars, each kept in [0,1].
// Engagement and stress are derived on read and never stored.
type MoodState struct {
	Curiosity  float64   `json:"curiosity"`
	Irritation float64   `json:"irritation"`
	Boredom    float64   `json:"boredom"`
	Attachment float64   `json:"attachment"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultMoodState starts every dimension at the baseline.
func DefaultMoodState() MoodState {
	return MoodState{
		Curiosity:  MoodBaseline,
		Irritation: MoodBaseline,
		Boredom:    MoodBaseline,
		Attachment: MoodBaseline,
	}
}

// Engagement is curiosity minus boredom, clamped to [0,1].
func (m MoodState) Engagement() float64 {
	return clamp01(m.Curiosity - m.Boredom)
}

// Stress is irritation plus half the boredom, clamped to [0,1].
func (m MoodState) Stress() float64 {
	return clamp01(m.Irritation + m.Boredom/2)
}

func (m MoodState) clamped() MoodState {
	m.Curiosity = clamp01(m.Curiosity)
	m.Irritation = clamp01(m.Irritation)
	m.Boredom = clamp01(m.Boredom)
	m.Attachment = clamp01(m.Attachment)
	return m
}

// MessageFeatures are the per-turn inputs to mood evolution. Length and
// Elapsed must be non-negative; UpdateMood guards the boundary.
type MessageFeatures struct {
	Length      int           // message length in characters
	IsQuestion  bool          // message ends in a question
	Elapsed     time.Duration // since the previous interaction
	Interaction int           // interaction count so far
}

// evolveMood applies one turn of mood evolution, in order: time decay toward
// baseline, boredom growth, curiosity bump, irritation repetition bump,
// attachment gain, final clamp. prevLen is the previous message length, or
// -1 when there is no previous message.
func evolveMood(m MoodState, f MessageFeatures, prevLen int) MoodState {
	sec := f.Elapsed.Seconds()

	// (a) every dimension settles toward the baseline over time
	drift := clamp01(sec * MoodDriftPerSecond)
	m.Curiosity += (MoodBaseline - m.Curiosity) * drift
	m.Irritation += (MoodBaseline - m.Irritation) * drift
	m.Boredom += (MoodBaseline - m.Boredom) * drift
	m.Attachment += (MoodBaseline - m.Attachment) * drift

	// (b) idle time breeds boredom, saturating as it approaches 1
	m.Boredom += (1 - m.Boredom) * clamp01(sec*BoredomGrowthPerSecond)

	// (c) questions spark curiosity
	if f.IsQuestion {
		m.Curiosity += CuriosityQuestionBump
	}

	// (d) repeated terse messages grate
	if f.Length < ShortMessageLength && prevLen >= 0 && prevLen < ShortMessageLength {
		m.Irritation += IrritationRepeatBump
	}

	// (e) every interaction deepens attachment, with diminishing returns
	m.Attachment += AttachmentGain * (1 - m.Attachment)

	return m.clamped()
}
