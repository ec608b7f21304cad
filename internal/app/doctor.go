package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/config"
	"github.com/blackwell-systems/uxpulse/internal/output"
	"github.com/blackwell-systems/uxpulse/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the uxpulse setup is healthy",
	Long: `Run a series of health checks against the configuration and the event
store. Prints a pass/fail line for each check and a summary of how many
checks passed.`,
	Annotations: map[string]string{uncheckedConfig: ""},
	Args:        cobra.NoArgs,
	RunE:        runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := []doctorCheck{
		checkConfigFile(flagConfig),
		checkThresholds(cfg.Thresholds),
	}
	checks = append(checks, checkStore(cmd.Context(), cfg.DBPath)...)

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		return writeJSON(doctorOutput{Checks: checks, PassedCount: passed, TotalCount: len(checks)})
	}

	fmt.Println(output.Section("Doctor", cfg.Output.Width))
	fmt.Println()
	for _, c := range checks {
		renderDoctorCheck(c)
	}
	fmt.Println()

	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}
	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	indicator := output.StyleWarning.Render("✗")
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	}
	fmt.Printf("  %s  %s %s\n", indicator, output.StyleLabel.Render(c.Name), output.StyleMuted.Render(c.Message))
}

// checkConfigFile reports which configuration file is in effect. Running on
// defaults passes.
func checkConfigFile(explicit string) doctorCheck {
	path := explicit
	if path == "" {
		path = filepath.Join(config.ConfigDir(), config.DefaultConfigFile)
	}
	if _, err := os.Stat(path); err != nil {
		if explicit != "" {
			return doctorCheck{Name: "Config file", Passed: false, Message: fmt.Sprintf("not found: %s", path)}
		}
		return doctorCheck{Name: "Config file", Passed: true, Message: "none, using defaults"}
	}
	return doctorCheck{Name: "Config file", Passed: true, Message: path}
}

func checkThresholds(th analyzer.Thresholds) doctorCheck {
	if err := th.Validate(); err != nil {
		return doctorCheck{Name: "Thresholds", Passed: false, Message: err.Error()}
	}
	return doctorCheck{
		Name:   "Thresholds",
		Passed: true,
		Message: fmt.Sprintf("rage %d clicks/%dms, correlation %dms",
			th.RageClicks.MinClicks, th.RageClicks.TimeWindowMs, th.CorrelationWindowMs),
	}
}

// checkStore opens the event store and reports its schema and contents.
func checkStore(ctx context.Context, dbPath string) []doctorCheck {
	db, err := store.Open(dbPath)
	if err != nil {
		return []doctorCheck{{Name: "Event store", Passed: false, Message: err.Error()}}
	}
	defer db.Close()

	checks := []doctorCheck{{Name: "Event store", Passed: true, Message: dbPath}}

	version, err := db.SchemaVersion()
	switch {
	case err != nil:
		checks = append(checks, doctorCheck{Name: "Schema version", Passed: false, Message: err.Error()})
	case version != store.CurrentSchemaVersion:
		checks = append(checks, doctorCheck{Name: "Schema version", Passed: false,
			Message: fmt.Sprintf("v%d, expected v%d", version, store.CurrentSchemaVersion)})
	default:
		checks = append(checks, doctorCheck{Name: "Schema version", Passed: true, Message: fmt.Sprintf("v%d", version)})
	}

	sessions, err := db.ListSessions(ctx, 0)
	if err != nil {
		return append(checks, doctorCheck{Name: "Stored sessions", Passed: false, Message: err.Error()})
	}
	if len(sessions) == 0 {
		return append(checks, doctorCheck{Name: "Stored sessions", Passed: false,
			Message: "none yet, run 'uxpulse import'"})
	}
	events, samples := 0, 0
	for _, s := range sessions {
		events += s.EventCount
		samples += s.SampleCount
	}
	return append(checks, doctorCheck{Name: "Stored sessions", Passed: true,
		Message: fmt.Sprintf("%d sessions, %d events, %d emotion samples", len(sessions), events, samples)})
}
