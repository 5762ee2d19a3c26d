package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/dedup"
	"github.com/sowhat82/mockexamify/internal/ingest"
	"github.com/sowhat82/mockexamify/internal/storage"
	"github.com/sowhat82/mockexamify/internal/types"
	"github.com/sowhat82/mockexamify/internal/validation"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <batch-file>...",
	Short: "Merge question batches into a pool",
	Long: `Merge one or more batch files into a pool.

Each batch is normalized, validated, and deduplicated against the pool
and against itself before anything is stored. Exact duplicates are
skipped and reported; questions with critical findings are rejected.

Examples:
  # Merge a batch into the Demo pool
  qpool merge --pool Demo batch_a.json

  # Reject questions with any finding, warnings included
  qpool merge --pool Demo --strict batch_a.json

  # Show what would happen without writing
  qpool merge --pool Demo --dry-run batch_a.json`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		keepDups, _ := cmd.Flags().GetBool("keep-duplicates")
		strict = strict || cfg.Strict

		pool := requirePool()
		ctx := context.Background()

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		existing, err := store.LoadPool(ctx, pool)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		validator := validation.New()
		exitCode := 0
		for _, path := range args {
			if err := mergeBatchFile(ctx, store, validator, pool, path, existing, strict, dryRun, keepDups); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = 1
				continue
			}
			// Later files dedup against what earlier files just merged.
			existing, err = store.LoadPool(ctx, pool)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		os.Exit(exitCode)
	},
}

func mergeBatchFile(ctx context.Context, store storage.Storage, validator *validation.Validator,
	pool, path string, existing []types.Question, strict, dryRun, keepDups bool) error {

	batch, err := ingest.ReadFile(path)
	if err != nil {
		return err
	}
	questions, recordErrs := batch.Questions()
	for _, e := range recordErrs {
		color.Yellow("  skipped record: %v", e)
	}

	valid, rejected := validator.ValidateBatch(questions, strict)
	printRejected(rejected)

	opts := dedup.DefaultMergeOptions()
	opts.SkipDuplicates = !keepDups
	report := dedup.MergeQuestionsToPool(pool, valid, existing, opts)

	printMergeReport(batch.Source, report, len(rejected))

	if dryRun {
		color.Cyan("  dry run: nothing written")
		return nil
	}

	if err := store.SavePool(ctx, pool, report.Merged); err != nil {
		return err
	}
	return store.RecordImport(ctx, storage.ImportRecord{
		ID:         uuid.NewString(),
		Pool:       pool,
		Source:     batch.Source,
		Added:      report.Added,
		Skipped:    report.SkippedDuplicates,
		ImportedAt: time.Now().UTC(),
	})
}

func printRejected(rejected []validation.Rejected) {
	for _, r := range rejected {
		color.Red("  rejected: %s", r.Question.Preview(60))
		for _, f := range r.Findings {
			fmt.Printf("    %s\n", f)
		}
	}
}

func printMergeReport(source string, report dedup.MergeReport, rejectedCount int) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s -> pool %s\n", bold(source), bold(report.PoolName))
	color.Green("  added:      %d", report.Added)
	if report.SkippedDuplicates > 0 {
		color.Yellow("  duplicates: %d", report.SkippedDuplicates)
		for _, d := range report.DuplicateDetails {
			fmt.Printf("    - %s\n", d)
		}
	}
	if rejectedCount > 0 {
		color.Red("  rejected:   %d", rejectedCount)
	}
	fmt.Printf("  pool total: %d\n", report.TotalQuestions)
}

func init() {
	mergeCmd.Flags().Bool("strict", false, "Reject questions with any finding, warnings included")
	mergeCmd.Flags().Bool("dry-run", false, "Report without writing to the pool")
	mergeCmd.Flags().Bool("keep-duplicates", false, "Merge exact duplicates instead of skipping them")
	rootCmd.AddCommand(mergeCmd)
}
