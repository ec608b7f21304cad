package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/bundle"
	"github.com/blackwell-systems/uxpulse/internal/output"
	"github.com/blackwell-systems/uxpulse/internal/store"
	"github.com/blackwell-systems/uxpulse/internal/watcher"
)

var (
	watchInterval time.Duration
	watchQuiet    bool
	watchNotify   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <inbox-dir>",
	Short: "Import and analyze bundles as they arrive",
	Long: `Poll a directory for new or changed bundle files. Each one replaces its
session in the event store, is analyzed, and the analysis is saved. Severe friction
raises an alert in the terminal and, with --notify, on the desktop.

Examples:
  uxpulse watch ./inbox                  # check every 30s (ctrl-c to stop)
  uxpulse watch ./inbox --interval 5m
  uxpulse watch ./inbox --notify --quiet # desktop notifications only`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Check interval (e.g. 30s, 5m)")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications for warnings and critical alerts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval < time.Second {
		return fmt.Errorf("interval must be at least 1s, got %s", watchInterval)
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	alertFn := func(a watcher.Alert) {
		if watchNotify && a.Level != "info" {
			_ = watcher.Notify(a)
		}
		if !watchQuiet {
			printAlert(a)
		}
	}

	if !watchQuiet {
		fmt.Printf("uxpulse watching %s (checking every %s)\n", args[0], watchInterval)
	}
	w := watcher.New(args[0], watchInterval, importAndAnalyze(engine, db), alertFn)
	err = w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// importAndAnalyze stores the bundle in place of any earlier version,
// analyzes the stored session and saves the result.
func importAndAnalyze(engine *analyzer.Engine, db *store.DB) watcher.ProcessFunc {
	return func(ctx context.Context, f *bundle.File) (*analyzer.Diagnostics, error) {
		sess := store.Session{ID: f.SessionID, UserID: f.UserID, DeviceInfo: f.DeviceInfo}
		res, err := db.ReplaceBundle(ctx, sess, f.Bundle())
		if err != nil {
			return nil, err
		}
		log.Debug().Str("session", res.SessionID).Int("events", res.Events).Msg("bundle imported")

		d, err := engine.AnalyzeSession(ctx, db, f.SessionID, analyzer.TimeRange{})
		if err != nil {
			return nil, err
		}
		id, err := db.SaveAnalysis(ctx, d, engine.Thresholds(), appVersion)
		if err != nil {
			return nil, err
		}
		log.Info().Str("session", d.SessionID).Str("analysis", id).Msg("analysis saved")
		return d, nil
	}
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	label := a.Title
	if a.SessionID != "" {
		label += " " + output.StyleMuted.Render("["+a.SessionID+"]")
	}
	fmt.Printf("[%s] %s %s\n", timestamp, alertIcon(a.Level), label)
	if a.Message != "" {
		fmt.Printf("           %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case "critical":
		return output.StyleError.Render("●")
	case "warning":
		return output.StyleWarning.Render("▲")
	case "info":
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}
