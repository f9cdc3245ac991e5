// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keshon/datastore"

	"assaultron/internal/world"
)

const (
	moodKey = "mood"
	bodyKey = "body"

	// snapshotFlushInterval is how often the datastore flushes to disk.
	// Writes between flushes live in memory; Close performs a final save.
	snapshotFlushInterval = 30 * time.Second
)

// Store persists mood and body snapshots across restarts in a JSON
// datastore (atomic writes, periodic flush). Mood written here is what
// gives the agent affect continuity after a restart.
type Store struct {
	ds *datastore.DataStore

	// cancel stops the datastore's background flush goroutine; Close
	// blocks on it otherwise.
	cancel context.CancelFunc
}

func New(filePath string) (*Store, error) {
	// The datastore writes its file in place and does not create parents.
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds, err := datastore.New(ctx, filePath, datastore.WithSaveInterval(snapshotFlushInterval))
	if err != nil {
		cancel()
		return nil, err
	}
	return &Store{ds: ds, cancel: cancel}, nil
}

// Close stops the background flush and performs the final save.
func (s *Store) Close() error {
	s.cancel()
	return s.ds.Close()
}

// SaveSnapshot writes the current mood and body state. Called after each
// committed turn; failures are the caller's to log, the in-memory state
// stays authoritative.
func (s *Store) SaveSnapshot(mood world.MoodState, body world.BodyState) error {
	if err := s.ds.Set(moodKey, mood); err != nil {
		return err
	}
	return s.ds.Set(bodyKey, body)
}

// LoadMood returns the persisted mood state, or nil when none was saved.
func (s *Store) LoadMood() (*world.MoodState, error) {
	var m world.MoodState
	ok, err := s.ds.Get(moodKey, &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// LoadBody returns the persisted body state, or nil when none was saved.
func (s *Store) LoadBody() (*world.BodyState, error) {
	var b world.BodyState
	ok, err := s.ds.Get(bodyKey, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}
