// cmd/agent/main.go
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"assaultron/internal/agent"
	"assaultron/internal/api"
	"assaultron/internal/behavior"
	"assaultron/internal/config"
	"assaultron/internal/storage"
	"assaultron/internal/version"
	"assaultron/internal/world"
	"assaultron/pkg/jobmgr"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}
	setupLogging(cfg)

	log.Info().Str("version", version.Semver).Msgf("Starting %s...", version.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open snapshot store")
	}
	defer store.Close()

	var archive *storage.Archive
	if cfg.ArchivePath != "" {
		archive, err = storage.OpenArchive(cfg.ArchivePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open history archive")
		}
		defer archive.Close()
	}

	specs := behavior.DefaultLibrary()
	if cfg.BehaviorsPath != "" {
		specs, err = behavior.LoadLibrary(cfg.BehaviorsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.BehaviorsPath).Msg("load behavior library")
		}
		log.Info().Int("behaviors", len(specs)).Str("path", cfg.BehaviorsPath).Msg("behavior library loaded")
	}
	arbiter, err := behavior.NewArbiter(specs)
	if err != nil {
		log.Fatal().Err(err).Msg("build arbiter")
	}

	model := world.NewModel()
	restoreState(model, store)

	ag := agent.New(model, arbiter, store, archive)

	monitor := &agent.Monitor{
		World:     model,
		Archive:   archive,
		Interval:  cfg.MonitorInterval,
		IdleAfter: cfg.IdleThreshold,
	}
	srv := &api.Server{Agent: ag, Addr: cfg.ListenAddr}

	jobs := jobmgr.NewManager()
	jobs.Start(ctx, "monitor", func(ctx context.Context) error { //nolint:errcheck
		monitor.Run(ctx)
		return nil
	})
	jobs.Start(ctx, "api", srv.Run) //nolint:errcheck

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Msgf("Received signal %s, shutting down...", s)
	case err := <-jobs.Failures():
		log.Error().Err(err).Msg("background task error")
	}
	cancel()
	jobs.StopAll()

	// Flush the latest state before exit; the datastore also saves on Close.
	snap := model.Snapshot()
	if err := store.SaveSnapshot(snap.Mood, snap.Body); err != nil {
		log.Warn().Err(err).Msg("final snapshot write failed")
	}
	log.Info().Msg("Shutdown complete")
}

// restoreState reloads the persisted mood and body so affect carries across
// restarts. Missing or corrupt records fall back to defaults.
func restoreState(model *world.Model, store *storage.Store) {
	mood, err := store.LoadMood()
	if err != nil {
		log.Warn().Err(err).Msg("mood restore failed, starting fresh")
	}
	body, err := store.LoadBody()
	if err != nil {
		log.Warn().Err(err).Msg("body restore failed, starting fresh")
	}
	if mood == nil && body == nil {
		return
	}
	if err := model.Restore(body, mood); err != nil {
		log.Warn().Err(err).Msg("persisted state rejected, starting fresh")
		return
	}
	log.Info().Bool("mood", mood != nil).Bool("body", body != nil).Msg("state restored from disk")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
}
