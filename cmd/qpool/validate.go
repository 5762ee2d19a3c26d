package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/ingest"
	"github.com/sowhat82/mockexamify/internal/types"
	"github.com/sowhat82/mockexamify/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [batch-file...]",
	Short: "Validate questions without merging",
	Long: `Run the quality rules against batch files, or against a stored pool
when no files are given. Nothing is modified.

Findings are graded CRITICAL (question is unusable) or WARNING
(stylistic). The exit code is non-zero when any question would be
rejected: critical findings normally, any finding with --strict.

Examples:
  # Audit a pool in place
  qpool validate --pool Demo

  # Check a batch before merging it
  qpool validate batch_a.json

  # One-off strict audit, warnings reject too
  qpool validate --strict batch_a.json`,
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")
		strict = strict || cfg.Strict

		questions, err := collectQuestions(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		validator := validation.New()
		valid, rejected := validator.ValidateBatch(questions, strict)

		criticals, warnings := 0, 0
		for _, r := range rejected {
			color.Red("%s", r.Question.Preview(70))
			for _, f := range r.Findings {
				fmt.Printf("  %s\n", f)
				if f.Severity == validation.SeverityCritical {
					criticals++
				} else {
					warnings++
				}
			}
		}

		fmt.Println()
		fmt.Printf("checked %d questions: ", len(questions))
		color.Green("%d ok", len(valid))
		if len(rejected) > 0 {
			color.Red("%d rejected (%d critical, %d warning findings)",
				len(rejected), criticals, warnings)
			os.Exit(1)
		}
	},
}

// collectQuestions reads the given batch files, or loads the selected pool
// when no files are given.
func collectQuestions(paths []string) ([]types.Question, error) {
	if len(paths) == 0 {
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadPool(context.Background(), requirePool())
	}

	var questions []types.Question
	for _, path := range paths {
		batch, err := ingest.ReadFile(path)
		if err != nil {
			return nil, err
		}
		qs, recordErrs := batch.Questions()
		for _, e := range recordErrs {
			color.Yellow("skipped record: %v", e)
		}
		questions = append(questions, qs...)
	}
	return questions, nil
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Any finding rejects, warnings included")
	rootCmd.AddCommand(validateCmd)
}
