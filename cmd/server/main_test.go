package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rebound/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, env := range []string{config.EnvListenAddr, config.EnvLogLevel, config.EnvSeed, config.EnvBalls} {
		t.Setenv(env, "")
	}
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rebound.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sandbox:\n  ball_count: 3\n"), 0o600))
	t.Setenv(config.EnvListenAddr, "127.0.0.1:9999")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sandbox.BallCount)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.ListenAddr)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
