package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blackwell-systems/uxpulse/internal/config"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setupLogging installs the global logger. verbose forces debug level.
func setupLogging(w *os.File, lc config.Log, verbose bool) error {
	level := lc.Level
	if verbose {
		level = "debug"
	}
	l, err := newLogger(w, lc.Format, isTerminal(w), level)
	if err != nil {
		return err
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = l
	return nil
}

// newLogger builds a logger writing to w. Format "auto" picks the console
// writer on a terminal and JSON lines otherwise.
func newLogger(w io.Writer, format string, tty bool, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log.level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !tty}
	case "json":
	case "", "auto":
		if tty {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}
	default:
		return zerolog.Nop(), fmt.Errorf("log.format %q: want auto, console or json", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
