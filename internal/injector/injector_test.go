package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rebound/internal/config"
	"github.com/zeusync/rebound/internal/core/sandbox"
)

func TestInitializeApp(t *testing.T) {
	cfg := config.Default()
	cfg.Sandbox.Seed = 7
	cfg.Sandbox.BallCount = 4

	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Sandbox.Close() })

	frame := app.Sandbox.Snapshot()
	assert.Len(t, frame.Bodies, 5)
	assert.Equal(t, cfg.Sandbox.ArenaWidth, frame.Width)
	assert.Equal(t, sandbox.PhaseIdle.String(), frame.Phase)
	assert.Zero(t, app.Server.ClientCount())

	again, err := InitializeApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Sandbox.Close() })
	assert.Equal(t, frame.Digest, again.Sandbox.Snapshot().Digest, "same seed places the same bodies")
}

func TestInitializeAppRejectsBadSandbox(t *testing.T) {
	cfg := config.Default()
	cfg.Sandbox.BodySize = 0

	_, err := InitializeApp(cfg)
	require.ErrorIs(t, err, sandbox.ErrInvalidSettings)
}
