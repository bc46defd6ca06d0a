package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"speakcoach/evaluator/internal/evaluation"
	"speakcoach/evaluator/models"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run <file.json>",
	Short: "Evaluate one transcript file",
	Long: `Evaluate one session synchronously and print the stored record.

The file holds {session_id, user_id, transcript, user_text?, audio_url?}.
user_text defaults to the user turns joined by spaces. The record is
persisted through the configured store like any other evaluation.`,
	Example: `  evaluator run session.json
  evaluator run session.json --json > result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the record as JSON")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	req, err := loadRunRequest(args[0])
	if err != nil {
		return err
	}

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	// A failed run still leaves a failed record behind, which is printed below.
	if id, err := a.pipeline.Run(cmd.Context(), req); id == "" {
		return err
	}
	rec, err := a.store.LatestBySession(cmd.Context(), req.SessionID)
	if err != nil {
		return fmt.Errorf("read evaluation: %w", err)
	}

	if runJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	renderRecord(cmd.OutOrStdout(), rec)
	return nil
}

// loadRunRequest reads and checks a run file.
func loadRunRequest(path string) (evaluation.RunRequest, error) {
	var req evaluation.RunRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse JSON: %w", err)
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.SessionID == "" || req.UserID == "" {
		return req, errors.New("session_id and user_id are required")
	}
	for i, t := range req.Transcript {
		if t.Role != models.RoleUser && t.Role != models.RoleAssistant {
			return req, fmt.Errorf("transcript[%d]: unknown role %q", i, t.Role)
		}
	}
	if req.UserText == "" {
		req.UserText = req.Transcript.UserText()
	}
	return req, nil
}

func renderRecord(w io.Writer, rec *models.EvaluationRecord) {
	s := newStyles()
	fmt.Fprintln(w, s.Title.Render("Evaluation "+rec.ID))
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n",
		s.Label.Render("session"), rec.SessionID,
		s.Label.Render("user"), rec.UserID,
		s.Label.Render("status"), s.status(rec.Status))
	if rec.ErrorMessage != nil {
		fmt.Fprintln(w, s.Bad.Render(*rec.ErrorMessage))
	}

	if vm := rec.VoiceMetrics; vm != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Section.Render("Voice metrics"))
		for _, m := range []struct {
			name string
			fb   models.MetricFeedback
		}{
			{"Grammar", vm.Grammar},
			{"Fluency", vm.Fluency},
			{"Filler words", vm.FillerWords},
			{"Clarity", vm.Clarity},
		} {
			fmt.Fprintf(w, "  %-13s %s\n", m.name, s.score(m.fb.Score))
			writeNotes(w, s, "+", m.fb.Positives)
			writeNotes(w, s, "-", m.fb.ToImprove)
		}
	}

	for _, t := range rec.Topics {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", s.Section.Render(t.Name), s.Help.Render(fmt.Sprintf("turns %d-%d", t.StartIndex, t.EndIndex)))
		for _, dim := range evaluation.TopicDimensions {
			if v, ok := t.Scores[dim]; ok {
				fmt.Fprintf(w, "  %-13s %s\n", dim, s.score(v))
			}
		}
		writeNotes(w, s, "+", t.WentWell)
		writeNotes(w, s, "-", t.ToImprove)
		writeNotes(w, s, "?", t.MissedPoints)
		if t.Rewrite != "" {
			fmt.Fprintf(w, "  %s %s\n", s.Label.Render("rewrite"), t.Rewrite)
		}
	}
}

func writeNotes(w io.Writer, s styles, mark string, notes []string) {
	for _, n := range notes {
		fmt.Fprintf(w, "    %s %s\n", s.Help.Render(mark), n)
	}
}
