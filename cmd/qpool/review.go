package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/dedup"
	"github.com/sowhat82/mockexamify/internal/ingest"
	"github.com/sowhat82/mockexamify/internal/storage"
	"github.com/sowhat82/mockexamify/internal/types"
	"github.com/sowhat82/mockexamify/internal/validation"
)

var reviewCmd = &cobra.Command{
	Use:   "review <batch-file>",
	Short: "Interactively triage a batch before merging",
	Long: `Merge a batch with a human in the loop for borderline duplicates.

Each question is validated and scanned for semantic duplicates. Scores
at or above auto_duplicate_threshold are skipped automatically; scores
in the review band (review_threshold up to auto_duplicate_threshold)
are shown side by side for a keep/skip decision. Everything kept is
merged and saved at the end.

Keys at the prompt: k(eep), s(kip), q(uit, discarding nothing merged so far).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pool := requirePool()
		ctx := context.Background()

		detector, err := newDetector()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

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

		batch, err := ingest.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		questions, recordErrs := batch.Questions()
		for _, e := range recordErrs {
			color.Yellow("skipped record: %v", e)
		}

		valid, rejected := validation.New().ValidateBatch(questions, cfg.Strict)
		printRejected(rejected)

		fresh, exact := dedup.DetectExactDuplicates(valid, existing)
		if len(exact) > 0 {
			color.Yellow("%d exact duplicates skipped", len(exact))
		}

		kept, err := triageQuestions(ctx, detector, fresh, existing)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(kept) == 0 {
			fmt.Println("nothing kept; pool unchanged")
			return
		}

		report := dedup.MergeQuestionsToPool(pool, kept, existing, dedup.DefaultMergeOptions())
		if err := store.SavePool(ctx, pool, report.Merged); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.RecordImport(ctx, storage.ImportRecord{
			ID:         uuid.NewString(),
			Pool:       pool,
			Source:     batch.Source,
			Added:      report.Added,
			Skipped:    report.SkippedDuplicates + len(exact) + (len(fresh) - len(kept)),
			ImportedAt: time.Now().UTC(),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		color.Green("merged %d of %d questions into %s (pool total %d)",
			report.Added, len(questions), pool, report.TotalQuestions)
	},
}

// triageQuestions scans each question and asks the operator about matches
// in the review band. Auto-duplicates are skipped without asking.
func triageQuestions(ctx context.Context, detector *dedup.Detector, candidates, existing []types.Question) ([]types.Question, error) {
	if len(existing) == 0 {
		return candidates, nil
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cyan("keep/skip/quit [k/s/q]> "),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	dcfg := detector.Config()
	kept := make([]types.Question, 0, len(candidates))

	for _, candidate := range candidates {
		matches, err := detector.DetectSimilarQuestions(ctx, candidate, existing, dcfg.ReviewThreshold)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			kept = append(kept, candidate)
			continue
		}

		top := matches[0]
		if dcfg.IsAutoDuplicate(top.Score) {
			color.Red("auto-skip [%.2f]: %s", top.Score, candidate.Preview(70))
			fmt.Printf("  matches: %s\n", top.Existing.Preview(70))
			continue
		}

		fmt.Println()
		color.Yellow("possible duplicate [%.2f]", top.Score)
		fmt.Printf("  new:      %s\n", candidate.Preview(100))
		fmt.Printf("  existing: %s\n", top.Existing.Preview(100))

		keep, quit, err := askKeep(rl)
		if err != nil {
			return nil, err
		}
		if quit {
			break
		}
		if keep {
			kept = append(kept, candidate)
		}
	}
	return kept, nil
}

func askKeep(rl *readline.Instance) (keep, quit bool, err error) {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return false, true, nil
		}
		if err != nil {
			return false, false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "k", "keep", "y", "yes":
			return true, false, nil
		case "s", "skip", "n", "no":
			return false, false, nil
		case "q", "quit":
			return false, true, nil
		default:
			fmt.Println("k to keep, s to skip, q to quit")
		}
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
