package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/output"
)

var (
	historyFlagSession string
	historyFlagLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history [analysis-id]",
	Short: "Browse saved analyses",
	Long: `List analyses saved with 'uxpulse analyze --save', or show one in full.

Examples:
  uxpulse history                      # latest analyses across sessions
  uxpulse history --session s-42       # one session's analyses
  uxpulse history 3f1c...              # the full report of one analysis`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlagSession, "session", "", "Only analyses of this session")
	historyCmd.Flags().IntVar(&historyFlagLimit, "limit", 20, "Maximum analyses to display (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		a, err := db.GetAnalysis(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(a)
		}
		renderDiagnostics(os.Stdout, a.Result, cfg.Output.Width)
		return nil
	}

	rows, err := db.ListAnalyses(cmd.Context(), historyFlagSession, historyFlagLimit)
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}
	if flagJSON {
		return writeJSON(rows)
	}
	if len(rows) == 0 {
		fmt.Println(output.StyleMuted.Render(" No saved analyses. Use 'uxpulse analyze --save'."))
		return nil
	}

	tbl := output.NewTable("ID", "Session", "Analyzed", "Friction", "Worst", "Dominant")
	for _, a := range rows {
		worst := "-"
		if a.FrictionPoints > 0 {
			worst = output.SeverityBar(a.MaxSeverity, analyzer.MaxSeverity)
		}
		tbl.AddRow(a.ID, a.SessionID, a.AnalyzedAt.Local().Format(time.DateTime),
			strconv.Itoa(a.FrictionPoints), worst, a.DominantEmotion)
	}
	fmt.Println(output.Section("Saved analyses", cfg.Output.Width))
	fmt.Print(indent(tbl.Render()))
	return nil
}
