package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, analyzer.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, filepath.Join(home, ".config", "uxpulse", DefaultDBName), cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.True(t, cfg.Output.Color)
}

func TestLoad_MissingExplicitFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Thresholds.RageClicks.MinClicks)
}

func TestLoad_FileOverridesMergeWithDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/sessions.db
log:
  level: debug
thresholds:
  rage_clicks:
    min_clicks: 4
  scroll_confusion:
    reset_after_emit: true
  correlation_window_ms: 2500
  severity:
    volatility: 0.75
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/sessions.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Thresholds.RageClicks.MinClicks)
	assert.Equal(t, int64(1000), cfg.Thresholds.RageClicks.TimeWindowMs, "unset keys keep defaults")
	assert.True(t, cfg.Thresholds.ScrollConfusion.ResetAfterEmit)
	assert.Equal(t, int64(2500), cfg.Thresholds.CorrelationWindowMs)
	assert.Equal(t, 0.75, cfg.Thresholds.Severity.Volatility)
	assert.Equal(t, 0.3, cfg.Thresholds.Severity.NegativeFrequency)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("UXPULSE_THRESHOLDS_CORRELATION_WINDOW_MS", "7000")
	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(7000), cfg.Thresholds.CorrelationWindowMs)
}

func TestLoad_InvalidThresholds(t *testing.T) {
	path := writeConfig(t, "thresholds:\n  engagement_window_ms: 0\n")
	_, err := Load(path)
	require.ErrorIs(t, err, analyzer.ErrInvalidConfiguration)
}

func TestLoadUnchecked_KeepsInvalidThresholds(t *testing.T) {
	path := writeConfig(t, "thresholds:\n  engagement_window_ms: 0\n")
	cfg, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Thresholds.EngagementWindowMs)
	assert.ErrorIs(t, cfg.Thresholds.Validate(), analyzer.ErrInvalidConfiguration)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "thresholds: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/data/x.db", expandPath("~/data/x.db"))
	assert.Equal(t, "/abs/x.db", expandPath("/abs/x.db"))
}
