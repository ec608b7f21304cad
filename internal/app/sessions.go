package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/output"
)

var sessionsFlagLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	Long: `List the sessions in the event store, newest first, with the number of
events, emotion samples and saved analyses for each.

Examples:
  uxpulse sessions
  uxpulse sessions --limit 5
  uxpulse sessions end s-42`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var sessionsEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "Mark a stored session as ended",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsEnd,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsFlagLimit, "limit", 20, "Maximum sessions to display (0 = all)")
	sessionsCmd.AddCommand(sessionsEndCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.ListSessions(cmd.Context(), sessionsFlagLimit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if flagJSON {
		return writeJSON(list)
	}
	if len(list) == 0 {
		fmt.Println(output.StyleMuted.Render(" No sessions stored. Use 'uxpulse import' to add some."))
		return nil
	}

	tbl := output.NewTable("Session", "User", "Started", "Ended", "Events", "Samples", "Analyses")
	for _, s := range list {
		ended := output.StyleMuted.Render("open")
		if s.EndedAt != nil {
			ended = s.EndedAt.Local().Format(time.DateTime)
		}
		tbl.AddRow(s.ID, s.UserID, s.StartedAt.Local().Format(time.DateTime), ended,
			strconv.Itoa(s.EventCount), strconv.Itoa(s.SampleCount), strconv.Itoa(s.AnalysisCount))
	}
	fmt.Println(output.Section("Sessions", cfg.Output.Width))
	fmt.Print(indent(tbl.Render()))
	return nil
}

func runSessionsEnd(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EndSession(cmd.Context(), args[0], time.Now()); err != nil {
		return err
	}
	fmt.Println(output.StyleSuccess.Render(" Session " + args[0] + " ended."))
	return nil
}
