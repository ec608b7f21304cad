package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/bundle"
	"github.com/blackwell-systems/uxpulse/internal/store"
)

var (
	analyzeFlagSession string
	analyzeFlagFrom    int64
	analyzeFlagTo      int64
	analyzeFlagSave    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [bundle-file|dir ...]",
	Short: "Analyze a session for friction and emotional response",
	Long: `Run the full correlation pipeline over one or more sessions and print
the diagnostic report.

Sessions are read from bundle files (use - for stdin) or, with --session,
from the event store.

Examples:
  uxpulse analyze session.json                  # analyze a bundle file
  uxpulse analyze recordings/ --json            # every bundle in a directory
  uxpulse analyze --session s-42                # a stored session
  uxpulse analyze --session s-42 --from 60000   # skip the first minute
  uxpulse analyze session.json --save           # import, analyze and keep the result`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlagSession, "session", "", "Analyze a stored session by ID")
	analyzeCmd.Flags().Int64Var(&analyzeFlagFrom, "from", 0, "Only events at or after this offset (ms)")
	analyzeCmd.Flags().Int64Var(&analyzeFlagTo, "to", 0, "Only events at or before this offset (ms, 0 = end)")
	analyzeCmd.Flags().BoolVar(&analyzeFlagSave, "save", false, "Store the session and its analysis in the event store")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	switch {
	case analyzeFlagSession != "" && len(args) > 0:
		return errors.New("give either bundle files or --session, not both")
	case analyzeFlagSession == "" && len(args) == 0:
		return errors.New("nothing to analyze: pass a bundle file or --session")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	if analyzeFlagSession != "" {
		return analyzeStored(cmd, engine, analyzeFlagSession)
	}
	return analyzeFiles(cmd, engine, args)
}

func analyzeStored(cmd *cobra.Command, engine *analyzer.Engine, sessionID string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	r := analyzer.TimeRange{Start: analyzeFlagFrom, End: analyzeFlagTo}
	d, err := engine.AnalyzeSession(cmd.Context(), db, sessionID, r)
	if err != nil {
		return err
	}
	if analyzeFlagSave {
		if err := saveAnalysis(cmd, db, d); err != nil {
			return err
		}
	}
	return emit([]*analyzer.Diagnostics{d})
}

func analyzeFiles(cmd *cobra.Command, engine *analyzer.Engine, paths []string) error {
	files, parseErr := bundle.ParsePaths(paths)
	if parseErr != nil {
		if len(files) == 0 {
			return parseErr
		}
		log.Warn().Err(parseErr).Msg("some bundle files were skipped")
	}
	if len(files) == 0 {
		return fmt.Errorf("no bundle files found in %v", paths)
	}

	var db *store.DB
	if analyzeFlagSave {
		var err error
		if db, err = openStore(); err != nil {
			return err
		}
		defer db.Close()
	}

	r := analyzer.TimeRange{Start: analyzeFlagFrom, End: analyzeFlagTo}
	var (
		results []*analyzer.Diagnostics
		failed  int
	)
	for _, f := range files {
		b := clip(f.Bundle(), r)
		log.Debug().Str("session", b.SessionID).Int("events", len(b.Events)).
			Int("samples", len(b.Samples)).Msg("analyzing bundle")

		d, err := engine.Analyze(cmd.Context(), b)
		if err != nil {
			if len(files) == 1 {
				return err
			}
			failed++
			log.Warn().Err(err).Str("file", f.Path).Msg("analysis failed")
			continue
		}

		if db != nil {
			sess := store.Session{ID: f.SessionID, UserID: f.UserID, DeviceInfo: f.DeviceInfo}
			if _, err := db.ImportBundle(cmd.Context(), sess, f.Bundle()); err != nil {
				return err
			}
			if err := saveAnalysis(cmd, db, d); err != nil {
				return err
			}
		}
		results = append(results, d)
	}

	if err := emit(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sessions could not be analyzed", failed, len(files))
	}
	return nil
}

func saveAnalysis(cmd *cobra.Command, db *store.DB, d *analyzer.Diagnostics) error {
	id, err := db.SaveAnalysis(cmd.Context(), d, cfg.Thresholds, appVersion)
	if err != nil {
		return err
	}
	log.Info().Str("session", d.SessionID).Str("analysis", id).Msg("analysis saved")
	return nil
}

// clip keeps the events and samples of b that fall inside r.
func clip(b analyzer.Bundle, r analyzer.TimeRange) analyzer.Bundle {
	if r.Start <= 0 && r.End <= 0 {
		return b
	}
	out := analyzer.Bundle{SessionID: b.SessionID}
	for _, e := range b.Events {
		if r.Contains(e.At()) {
			out.Events = append(out.Events, e)
		}
	}
	for _, s := range b.Samples {
		if r.Contains(s.Timestamp) {
			out.Samples = append(out.Samples, s)
		}
	}
	return out
}

func emit(results []*analyzer.Diagnostics) error {
	if flagJSON {
		if len(results) == 1 {
			return writeJSON(results[0])
		}
		return writeJSON(results)
	}
	for _, d := range results {
		renderDiagnostics(os.Stdout, d, cfg.Output.Width)
		fmt.Println()
	}
	return nil
}
