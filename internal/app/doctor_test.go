package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

func TestCheckConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.True(t, checkConfigFile("").Passed, "defaults are fine")

	missing := checkConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.False(t, missing.Passed)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))
	found := checkConfigFile(path)
	assert.True(t, found.Passed)
	assert.Equal(t, path, found.Message)
}

func TestCheckThresholds(t *testing.T) {
	assert.True(t, checkThresholds(analyzer.DefaultThresholds()).Passed)

	th := analyzer.DefaultThresholds()
	th.RageClicks.MinClicks = 0
	c := checkThresholds(th)
	assert.False(t, c.Passed)
	assert.Contains(t, c.Message, "min_clicks")
}

func TestCheckStore(t *testing.T) {
	dbPath, dir := testEnv(t)

	checks := checkStore(context.Background(), dbPath)
	require.Len(t, checks, 3)
	assert.True(t, checks[0].Passed)
	assert.True(t, checks[1].Passed)
	assert.Equal(t, "v1", checks[1].Message)
	assert.False(t, checks[2].Passed, "empty store")

	require.NoError(t, execute(t, "import", "--db", dbPath, writeBundleFile(t, dir, checkoutBundle())))
	checks = checkStore(context.Background(), dbPath)
	assert.True(t, checks[2].Passed)
	assert.Equal(t, "1 sessions, 7 events, 2 emotion samples", checks[2].Message)
}

func TestDoctorCommand(t *testing.T) {
	dbPath, _ := testEnv(t)
	require.NoError(t, execute(t, "doctor", "--db", dbPath, "--json"))
}

func TestDoctorCommand_ReportsInvalidThresholds(t *testing.T) {
	dbPath, _ := testEnv(t)
	t.Setenv("UXPULSE_THRESHOLDS_CORRELATION_WINDOW_MS", "0")

	require.NoError(t, execute(t, "doctor", "--db", dbPath, "--json"))
	c := checkThresholds(cfg.Thresholds)
	assert.False(t, c.Passed)
	assert.Contains(t, c.Message, "correlation_window_ms")

	assert.ErrorIs(t, execute(t, "sessions", "--db", dbPath), analyzer.ErrInvalidConfiguration)
}
