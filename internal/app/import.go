package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/bundle"
	"github.com/blackwell-systems/uxpulse/internal/event"
	"github.com/blackwell-systems/uxpulse/internal/output"
	"github.com/blackwell-systems/uxpulse/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <bundle-file|dir> ...",
	Short: "Load bundle files into the event store",
	Long: `Import recorded sessions from bundle files into the event store. Each
file is written in a single transaction. Importing a session that already
exists appends its events and samples, unless --replace is given.

Examples:
  uxpulse import session.json
  uxpulse import recordings/
  uxpulse import --replace session.json      # overwrite a stored session
  cat session.json | uxpulse import -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var importFlagReplace bool

func init() {
	importCmd.Flags().BoolVar(&importFlagReplace, "replace", false, "Discard stored events and samples of existing sessions first")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	files, parseErr := bundle.ParsePaths(args)
	if parseErr != nil {
		if len(files) == 0 {
			return parseErr
		}
		log.Warn().Err(parseErr).Msg("some bundle files were skipped")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	results := make([]store.ImportResult, 0, len(files))
	for _, f := range files {
		if !event.IsSorted(f.Events) {
			log.Debug().Str("file", f.Path).Msg("events are not in timestamp order, analysis will sort them")
		}
		sess := store.Session{ID: f.SessionID, UserID: f.UserID, DeviceInfo: f.DeviceInfo}
		importFn := db.ImportBundle
		if importFlagReplace {
			importFn = db.ReplaceBundle
		}
		res, err := importFn(cmd.Context(), sess, f.Bundle())
		if err != nil {
			return fmt.Errorf("importing %s: %w", f.Path, err)
		}
		log.Info().Str("session", res.SessionID).Bool("created", res.Created).
			Int("events", res.Events).Int("samples", res.Samples).Msg("session imported")
		results = append(results, res)
	}

	if flagJSON {
		return writeJSON(results)
	}

	tbl := output.NewTable("Session", "New", "Events", "Samples", "Breakdown")
	for _, r := range results {
		created := output.StyleMuted.Render("existing")
		if r.Created {
			created = output.StyleSuccess.Render("yes")
		}
		tbl.AddRow(r.SessionID, created, strconv.Itoa(r.Events), strconv.Itoa(r.Samples), kindBreakdown(r.Kinds))
	}
	fmt.Println(output.Section(fmt.Sprintf("Imported %d sessions", len(results)), cfg.Output.Width))
	fmt.Print(indent(tbl.Render()))
	return parseErr
}

// kindBreakdown renders per-kind event counts, e.g. "1 pageview, 3 click".
func kindBreakdown(counts map[event.Kind]int) string {
	var parts []string
	for _, k := range event.Kinds {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
