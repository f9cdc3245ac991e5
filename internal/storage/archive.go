package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"assaultron/internal/behavior"
	"assaultron/internal/world"
)

// Archive is the append-only SQLite log behind the diagnostics surface:
// behavior decisions, body transitions and periodic mood samples. The
// in-memory ring buffers stay the live view; the archive survives them.
type Archive struct {
	conn *sqlx.DB
}

// OpenArchive opens or creates the SQLite archive at path.
func OpenArchive(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		goal TEXT NOT NULL,
		emotion TEXT NOT NULL,
		behavior TEXT NOT NULL,
		utility REAL NOT NULL,
		runner_up TEXT
	);
	CREATE TABLE IF NOT EXISTS transitions (
		at TEXT NOT NULL,
		from_state TEXT NOT NULL,
		to_state TEXT NOT NULL,
		command TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS mood_samples (
		at TEXT NOT NULL,
		curiosity REAL NOT NULL,
		irritation REAL NOT NULL,
		boredom REAL NOT NULL,
		attachment REAL NOT NULL,
		engagement REAL NOT NULL,
		stress REAL NOT NULL
	);`
	_, err := a.conn.Exec(schema)
	return err
}

// RecordDecision appends one arbitration outcome.
func (a *Archive) RecordDecision(d behavior.Decision) error {
	_, err := a.conn.Exec(
		`INSERT OR IGNORE INTO decisions (id, at, goal, emotion, behavior, utility, runner_up)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.At.UTC().Format(time.RFC3339Nano), d.Goal, d.Emotion, d.Behavior, d.Utility, d.RunnerUp,
	)
	return err
}

// RecordTransition appends one committed body transition. States and the
// command are stored as JSON blobs; the symbolic sets are the schema.
func (a *Archive) RecordTransition(t world.Transition) error {
	from, err := json.Marshal(t.From)
	if err != nil {
		return err
	}
	to, err := json.Marshal(t.To)
	if err != nil {
		return err
	}
	cmd, err := json.Marshal(t.Command)
	if err != nil {
		return err
	}
	_, err = a.conn.Exec(
		`INSERT INTO transitions (at, from_state, to_state, command) VALUES (?, ?, ?, ?)`,
		t.At.UTC().Format(time.RFC3339Nano), string(from), string(to), string(cmd),
	)
	return err
}

// RecordMoodSample appends one periodic mood observation, derived scalars
// included so dashboards never recompute them.
func (a *Archive) RecordMoodSample(at time.Time, m world.MoodState) error {
	_, err := a.conn.Exec(
		`INSERT INTO mood_samples (at, curiosity, irritation, boredom, attachment, engagement, stress)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano),
		m.Curiosity, m.Irritation, m.Boredom, m.Attachment, m.Engagement(), m.Stress(),
	)
	return err
}

// DecisionCount returns the number of archived decisions.
func (a *Archive) DecisionCount() (int, error) {
	var n int
	err := a.conn.Get(&n, `SELECT COUNT(*) FROM decisions`)
	return n, err
}

// RecentBehaviors returns the behavior names of the most recent archived
// decisions, newest first.
func (a *Archive) RecentBehaviors(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	var names []string
	err := a.conn.Select(&names, `SELECT behavior FROM decisions ORDER BY at DESC LIMIT ?`, limit)
	return names, err
}
