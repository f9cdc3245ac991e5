package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaultron/internal/behavior"
	"assaultron/internal/world"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveDecisions(t *testing.T) {
	a := openTestArchive(t)

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"relaxed_idle", "illuminate", "intimidate"} {
		err := a.RecordDecision(behavior.Decision{
			ID:       name + "-id",
			At:       base.Add(time.Duration(i) * time.Minute),
			Goal:     "g",
			Emotion:  "e",
			Behavior: name,
			Utility:  float64(i),
		})
		require.NoError(t, err)
	}

	n, err := a.DecisionCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recent, err := a.RecentBehaviors(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"intimidate", "illuminate"}, recent)

	// Same decision ID twice is a no-op, not an error.
	err = a.RecordDecision(behavior.Decision{ID: "intimidate-id", At: base, Behavior: "intimidate"})
	require.NoError(t, err)
	n, err = a.DecisionCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestArchiveTransitionsAndMoodSamples(t *testing.T) {
	a := openTestArchive(t)
	at := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	err := a.RecordTransition(world.Transition{
		At:   at,
		From: world.DefaultBodyState(),
		To: world.BodyState{
			Posture:   world.PostureAlert,
			Luminance: world.LuminanceBright,
			LeftHand:  world.HandPointing,
			RightHand: world.HandPointing,
		},
		Command: world.BodyCommand{
			Posture:   world.PostureAlert,
			Luminance: world.LuminanceBright,
			LeftHand:  world.HandPointing,
			RightHand: world.HandPointing,
			Duration:  3,
		},
	})
	require.NoError(t, err)

	require.NoError(t, a.RecordMoodSample(at, world.DefaultMoodState()))
	require.NoError(t, a.RecordMoodSample(at.Add(time.Minute), world.MoodState{Curiosity: 1, Irritation: 1, Boredom: 1, Attachment: 1}))

	var transitions int
	require.NoError(t, a.conn.Get(&transitions, `SELECT COUNT(*) FROM transitions`))
	assert.Equal(t, 1, transitions)

	var samples int
	require.NoError(t, a.conn.Get(&samples, `SELECT COUNT(*) FROM mood_samples`))
	assert.Equal(t, 2, samples)
}

func TestArchiveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	a, err := OpenArchive(path)
	require.NoError(t, err)
	require.NoError(t, a.RecordDecision(behavior.Decision{ID: "d1", At: time.Now(), Behavior: "illuminate"}))
	require.NoError(t, a.Close())

	a, err = OpenArchive(path)
	require.NoError(t, err)
	defer a.Close()

	n, err := a.DecisionCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
