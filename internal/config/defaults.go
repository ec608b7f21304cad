// Package config provides configuration loading and defaults for uxpulse.
package config

import "github.com/blackwell-systems/uxpulse/internal/analyzer"

// DefaultConfigDir is the default location for uxpulse configuration.
const DefaultConfigDir = "~/.config/uxpulse"

// DefaultDBName is the filename for the SQLite event store.
const DefaultDBName = "uxpulse.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultLog holds the default logging preferences.
var DefaultLog = Log{
	Level:  "info",
	Format: "auto",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultThresholds holds the stock analysis tuning.
var DefaultThresholds = analyzer.DefaultThresholds()
