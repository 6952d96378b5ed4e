// cmd/idea-validator/validate.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apperrors "idea-validator/internal/common/errors"
	apphttp "idea-validator/internal/common/http"
	"idea-validator/internal/models"
	"idea-validator/internal/pipeline"
	validationstore "idea-validator/internal/workers/records/validation-store"
)

var (
	form       models.IdeaForm
	jsonOutput bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one idea and print the report",
	Example: `  idea-validator validate --title "Kirana Connect" \
    --description "B2B ordering app for neighbourhood grocery stores" --stage MVP`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&form.Title, "title", "", "idea title (required)")
	f.StringVar(&form.Description, "description", "", "idea description (required)")
	f.StringVar(&form.TargetMarket, "target-market", "", "target market")
	f.StringVar(&form.BusinessModel, "business-model", "", "business model")
	f.StringVar(&form.Stage, "stage", "", "current stage")
	f.StringVar(&form.Budget, "budget", "", "available budget")
	f.StringVar(&form.Timeline, "timeline", "", "launch timeline")
	f.StringVar(&form.Experience, "experience", "", "founder experience")
	f.BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	_ = validateCmd.MarkFlagRequired("title")
	_ = validateCmd.MarkFlagRequired("description")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	log := newLogger(cfg, "stderr")

	httpClient := apphttp.NewClient(0, userAgent)
	service, err := newService(cmd.Context(), cfg, httpClient, validationstore.NewMemoryStore(log), nil, log)
	if err != nil {
		return err
	}

	result, err := service.Validate(cmd.Context(), form)
	if err != nil {
		return errors.New(apperrors.AsStandardError(err).Message)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printReport(cmd.OutOrStdout(), result)
	return nil
}

func printReport(w io.Writer, result *pipeline.Result) {
	r := result.Report
	if result.Outcome.Mocked() {
		fmt.Fprintf(w, "note: model unavailable (%s), showing sample data\n\n", result.Outcome)
	}
	fmt.Fprintf(w, "Overall score: %d/100\n\n", r.OverallScore)

	scores := r.SectionScores()
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %3d\n", name, scores[name])
	}

	printList(w, "Recommendations", r.Recommendations)
	printList(w, "Next steps", r.NextSteps)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(w, "  %d. %s\n", i+1, strings.TrimSpace(item))
	}
}
