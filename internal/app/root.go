// Package app contains the Cobra command tree for uxpulse.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/config"
	"github.com/blackwell-systems/uxpulse/internal/output"
	"github.com/blackwell-systems/uxpulse/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagDBPath  string
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "uxpulse",
	Short: "Correlate user behavior with emotional response",
	Long: `uxpulse analyzes recorded user sessions. It detects friction such as
rage clicks and scroll confusion, aggregates engagement, follows emotion
changes, and scores each friction point by how the user reacted to it.

Sessions come from JSON bundle files or from the local event store.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("uxpulse", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  analyze   Analyze a bundle file or a stored session")
		fmt.Println("  import    Load bundle files into the event store")
		fmt.Println("  sessions  List or end stored sessions")
		fmt.Println("  history   Browse saved analyses")
		fmt.Println("  watch     Import and analyze bundles as they arrive")
		fmt.Println("  mcp       Serve the event store to an assistant over MCP")
		fmt.Println("  score     Score SUS/UEQ answers for a respondent profile")
		fmt.Println("  doctor    Check configuration and event store health")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/uxpulse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Event store path (overrides db_path)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// uncheckedConfig marks commands that run with thresholds that fail
// validation.
const uncheckedConfig = "unchecked-config"

func setup(cmd *cobra.Command, args []string) error {
	load := config.Load
	if _, ok := cmd.Annotations[uncheckedConfig]; ok {
		load = config.LoadUnchecked
	}
	c, err := load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDBPath != "" {
		c.DBPath = flagDBPath
	}
	cfg = c

	if err := setupLogging(os.Stderr, c.Log, flagVerbose); err != nil {
		return err
	}
	if flagNoColor || !c.Output.Color || !isTerminal(os.Stdout) {
		output.SetNoColor(true)
	}
	log.Debug().Str("db_path", c.DBPath).Str("config", flagConfig).Msg("configuration loaded")
	return nil
}

func newEngine() (*analyzer.Engine, error) {
	e, err := analyzer.New(cfg.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}
	return e, nil
}

func openStore() (*store.DB, error) {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening event store %s: %w", cfg.DBPath, err)
	}
	return db, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
