package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/ai"
	"github.com/sowhat82/mockexamify/internal/dedup"
)

var similarCmd = &cobra.Command{
	Use:   "similar <batch-file>",
	Short: "Scan a batch for semantic duplicates of pool questions",
	Long: `Score each question in a batch against the pool with an AI model and
report pairs that look like rewordings of the same concept.

Exact duplicates are removed first; this scan is for what the content
hash cannot catch. Large pools are sampled (see sample_cap), so a clean
scan is strong but not absolute evidence. The scan stops and exits
non-zero if the provider rate-limits.

Examples:
  qpool similar --pool Demo batch_a.json
  qpool similar --pool Demo --threshold 0.85 batch_a.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		pool := requirePool()
		ctx := context.Background()

		detector, err := newDetector()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if threshold == 0 {
			threshold = detector.Config().ReviewThreshold
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
		if len(existing) == 0 {
			fmt.Printf("pool %s is empty; nothing to compare against\n", pool)
			return
		}

		candidates, err := collectQuestions(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// Exact matches are cheap to find; do not spend API calls on them.
		fresh, exact := dedup.DetectExactDuplicates(candidates, existing)
		if len(exact) > 0 {
			color.Yellow("%d exact duplicates excluded from the scan", len(exact))
		}

		totalMatches := 0
		for _, candidate := range fresh {
			matches, err := detector.DetectSimilarQuestions(ctx, candidate, existing, threshold)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
			for _, m := range matches {
				totalMatches++
				printMatch(detector.Config(), m)
			}
		}

		fmt.Println()
		if totalMatches == 0 {
			color.Green("no similar questions found at threshold %.2f", threshold)
			return
		}
		fmt.Printf("%d similar pairs found at threshold %.2f\n", totalMatches, threshold)
	},
}

func printMatch(cfg dedup.Config, m dedup.SimilarityMatch) {
	score := color.YellowString("%.2f", m.Score)
	if cfg.IsAutoDuplicate(m.Score) {
		score = color.RedString("%.2f", m.Score)
	}
	fmt.Printf("[%s] %s\n", score, m.Candidate.Preview(70))
	fmt.Printf("   ~ %s\n", m.Existing.Preview(70))
}

// newDetector builds the AI-backed similarity detector from the resolved
// configuration.
func newDetector() (*dedup.Detector, error) {
	dcfg, err := cfg.ToDedupConfig()
	if err != nil {
		return nil, err
	}

	model := cfg.AI.ScoringModel
	if model == "" {
		model = ai.GetScoringModel()
	}
	client, err := ai.NewClient(&ai.Config{Model: model})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w (is ANTHROPIC_API_KEY set?)", err)
	}
	return dedup.NewDetector(client, dcfg)
}

func init() {
	similarCmd.Flags().Float64("threshold", 0, "Similarity threshold (default: review_threshold)")
	rootCmd.AddCommand(similarCmd)
}
