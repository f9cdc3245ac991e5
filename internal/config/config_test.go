package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "data/agent.json", cfg.StoragePath)
	assert.Equal(t, "data/history.db", cfg.ArchivePath)
	assert.Empty(t, cfg.BehaviorsPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.MonitorInterval)
	assert.Equal(t, 10*time.Minute, cfg.IdleThreshold)
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("STORAGE_PATH", "/tmp/custom.json")
	t.Setenv("ARCHIVE_PATH", "")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("MONITOR_INTERVAL", "5s")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", cfg.StoragePath)
	assert.Equal(t, "", cfg.ArchivePath)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.MonitorInterval)
}

func TestNewEmptyArchivePathDisablesArchive(t *testing.T) {
	t.Setenv("ARCHIVE_PATH", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Empty(t, cfg.ArchivePath)
}

func TestNewRejectsBadDuration(t *testing.T) {
	t.Setenv("MONITOR_INTERVAL", "soon")
	_, err := New()
	assert.Error(t, err)
}
