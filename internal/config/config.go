package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

// Config is the top-level uxpulse configuration.
type Config struct {
	DBPath     string              `mapstructure:"db_path"`
	Log        Log                 `mapstructure:"log"`
	Output     Output              `mapstructure:"output"`
	Thresholds analyzer.Thresholds `mapstructure:"thresholds"`
}

// Log defines logging preferences.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "auto", "console", "json"
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// setDefaults registers every key so that file values and environment
// overrides merge over complete defaults.
func setDefaults(v *viper.Viper) {
	th := DefaultThresholds

	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	v.SetDefault("thresholds.rage_clicks.time_window_ms", th.RageClicks.TimeWindowMs)
	v.SetDefault("thresholds.rage_clicks.min_clicks", th.RageClicks.MinClicks)
	v.SetDefault("thresholds.dead_clicks.response_time_ms", th.DeadClicks.ResponseTimeMs)
	v.SetDefault("thresholds.scroll_confusion.direction_changes", th.ScrollConfusion.DirectionChanges)
	v.SetDefault("thresholds.scroll_confusion.reset_after_emit", th.ScrollConfusion.ResetAfterEmit)
	v.SetDefault("thresholds.emotion_change_threshold", th.EmotionChangeThreshold)
	v.SetDefault("thresholds.correlation_window_ms", th.CorrelationWindowMs)
	v.SetDefault("thresholds.engagement_window_ms", th.EngagementWindowMs)
	v.SetDefault("thresholds.severity.volatility", th.Severity.Volatility)
	v.SetDefault("thresholds.severity.negative_frequency", th.Severity.NegativeFrequency)
	v.SetDefault("thresholds.severity.scroll_reversals", th.Severity.ScrollReversals)
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed UXPULSE_ override file values, e.g.
// UXPULSE_THRESHOLDS_CORRELATION_WINDOW_MS. The thresholds are validated.
func Load(cfgFile string) (*Config, error) {
	cfg, err := LoadUnchecked(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnchecked is Load without threshold validation, for callers that
// report invalid thresholds themselves.
func LoadUnchecked(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("uxpulse")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
