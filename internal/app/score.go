package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/output"
	"github.com/blackwell-systems/uxpulse/internal/survey"
)

var scoreCmd = &cobra.Command{
	Use:   "score <answers.json|->",
	Short: "Score SUS and UEQ answers weighted by the respondent profile",
	Long: `Compute personalized System Usability Scale and User Experience
Questionnaire scores. The answers file holds the respondent profile and
the raw answers:

  {
    "profile": {"age": 35, "education": "bachelors", "occupation": "office_worker",
                "uiPreference": "minimal", "interactionPreference": "keyboard"},
    "susResponses": [4, 2, 5, 1, 4, 2, 5, 1, 4, 2],
    "ueqResponses": [5, 4, 3, 4, 5, 3]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// answersFile is the on-disk form of one respondent's answers.
type answersFile struct {
	Profile survey.Profile `json:"profile"`
	survey.Responses
}

func readAnswers(path string) (answersFile, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return answersFile{}, err
		}
		defer f.Close()
		r = f
	}
	var a answersFile
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return answersFile{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return a, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := readAnswers(args[0])
	if err != nil {
		return err
	}
	res, err := survey.Score(a.Responses, a.Profile)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(res)
	}

	fmt.Println(output.Section("Personalized score", cfg.Output.Width))
	fmt.Println(output.KeyValue("SUS", fmt.Sprintf("%.2f", res.SUS)))
	fmt.Println(output.KeyValue("UEQ", fmt.Sprintf("%.2f", res.UEQ)))
	fmt.Println()

	sus, ueq := res.Weights.SUS, res.Weights.UEQ
	tbl := output.NewTable("Dimension", "Weight")
	for _, row := range []struct {
		name string
		w    float64
	}{
		{"sus.learnability", sus.Learnability},
		{"sus.efficiency", sus.Efficiency},
		{"sus.memorability", sus.Memorability},
		{"sus.errors", sus.Errors},
		{"sus.satisfaction", sus.Satisfaction},
		{"ueq.attractiveness", ueq.Attractiveness},
		{"ueq.perspicuity", ueq.Perspicuity},
		{"ueq.efficiency", ueq.Efficiency},
		{"ueq.dependability", ueq.Dependability},
		{"ueq.stimulation", ueq.Stimulation},
		{"ueq.novelty", ueq.Novelty},
	} {
		tbl.AddRow(row.name, fmt.Sprintf("%.3f", row.w))
	}
	return tbl.Fprint(os.Stdout)
}
