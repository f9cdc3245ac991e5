// /internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, falling back to system environment variables")
	}
}

// Config holds all process-level settings. Everything has a default so the
// agent can start with an empty environment.
type Config struct {
	// StoragePath is the JSON datastore file holding mood/body snapshots.
	StoragePath string `env:"STORAGE_PATH" envDefault:"data/agent.json"`

	// ArchivePath is the SQLite file for decision/transition history.
	// Setting it empty disables archival; the default is applied in New
	// only when the variable is unset, so empty stays empty.
	ArchivePath string `env:"ARCHIVE_PATH"`

	// BehaviorsPath points to a YAML behavior library. Empty uses the
	// built-in default library.
	BehaviorsPath string `env:"BEHAVIORS_PATH"`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"30s"`
	IdleThreshold   time.Duration `env:"IDLE_THRESHOLD" envDefault:"10m"`
}

func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	// envDefault would also fire on a set-but-empty variable, erasing the
	// "empty disables archival" distinction.
	if _, set := os.LookupEnv("ARCHIVE_PATH"); !set {
		cfg.ArchivePath = "data/history.db"
	}
	return &cfg, nil
}
