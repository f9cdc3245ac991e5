package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"assaultron/internal/storage"
	"assaultron/internal/world"
)

// Monitor is the background observer: it reads snapshots (never mutates),
// archives periodic mood samples and flags prolonged inactivity. It is the
// concurrent reader the Model's lock discipline exists for.
type Monitor struct {
	World    *world.Model
	Archive  *storage.Archive // may be nil
	Interval time.Duration
	// IdleAfter is how long without a body commit counts as inactivity.
	IdleAfter time.Duration
}

// Run blocks until ctx is cancelled; run in a goroutine.
func (m *Monitor) Run(ctx context.Context) {
	interval := m.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.tick(now)
		}
	}
}

func (m *Monitor) tick(now time.Time) {
	snap := m.World.Snapshot()

	log.Debug().
		Str("action", "monitor").
		Float64("engagement", snap.Mood.Engagement()).
		Float64("stress", snap.Mood.Stress()).
		Str("posture", string(snap.Body.Posture)).
		Str("threat", string(snap.World.Threat)).
		Msg("state sample")

	if m.Archive != nil {
		if err := m.Archive.RecordMoodSample(now, snap.Mood); err != nil {
			log.Warn().Str("action", "monitor").Err(err).Msg("mood sample archive failed")
		}
	}

	if m.IdleAfter > 0 && !snap.Body.UpdatedAt.IsZero() && now.Sub(snap.Body.UpdatedAt) > m.IdleAfter {
		log.Info().
			Str("action", "monitor").
			Dur("idle", now.Sub(snap.Body.UpdatedAt)).
			Msg("prolonged inactivity")
	}

	if snap.World.Threat.AtLeast(world.ThreatHigh) {
		log.Warn().
			Str("action", "monitor").
			Str("threat", string(snap.World.Threat)).
			Msg("threat level high")
	}
}
