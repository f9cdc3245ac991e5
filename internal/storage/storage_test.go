package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaultron/internal/world"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "agent.json")

	store, err := New(path)
	require.NoError(t, err)

	mood := world.MoodState{
		Curiosity:  0.7,
		Irritation: 0.2,
		Boredom:    0.4,
		Attachment: 0.6,
		UpdatedAt:  time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
	body := world.BodyState{
		Posture:   world.PostureAlert,
		Luminance: world.LuminanceBright,
		LeftHand:  world.HandPointing,
		RightHand: world.HandOpen,
		UpdatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveSnapshot(mood, body))
	require.NoError(t, store.Close())

	// A fresh store reloads what the previous process saved.
	store, err = New(path)
	require.NoError(t, err)
	defer store.Close()

	gotMood, err := store.LoadMood()
	require.NoError(t, err)
	require.NotNil(t, gotMood)
	assert.Equal(t, mood.Curiosity, gotMood.Curiosity)
	assert.Equal(t, mood.Attachment, gotMood.Attachment)

	gotBody, err := store.LoadBody()
	require.NoError(t, err)
	require.NotNil(t, gotBody)
	assert.Equal(t, world.PostureAlert, gotBody.Posture)
	assert.Equal(t, world.HandOpen, gotBody.RightHand)
}

func TestStoreCreatesNestedDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "agent.json")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(world.DefaultMoodState(), world.DefaultBodyState()))
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestStoreRejectsWritesAfterClose(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "agent.json"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.Error(t, store.SaveSnapshot(world.DefaultMoodState(), world.DefaultBodyState()))
}

func TestStoreEmptyIsAbsent(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "agent.json"))
	require.NoError(t, err)
	defer store.Close()

	mood, err := store.LoadMood()
	require.NoError(t, err)
	assert.Nil(t, mood)

	body, err := store.LoadBody()
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestStoreOverwritesPrevious(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "agent.json"))
	require.NoError(t, err)
	defer store.Close()

	first := world.DefaultMoodState()
	require.NoError(t, store.SaveSnapshot(first, world.DefaultBodyState()))

	second := first
	second.Curiosity = 0.9
	require.NoError(t, store.SaveSnapshot(second, world.DefaultBodyState()))

	got, err := store.LoadMood()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.9, got.Curiosity)
}
