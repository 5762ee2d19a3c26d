package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/dedup"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pool statistics",
	Long: `Summarize a pool: size, distinct content hashes, topic and difficulty
breakdowns, and the ingestion time range.

A distinct-hash count below the total means duplicates are present
(for example from a merge run with --keep-duplicates).`,
	Run: func(cmd *cobra.Command, args []string) {
		pool := requirePool()

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		questions, err := store.LoadPool(context.Background(), pool)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		stats := dedup.GetPoolStatistics(questions)

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("pool %s\n", bold(pool))
		fmt.Printf("  questions:       %d\n", stats.TotalQuestions)
		if stats.DistinctHashes < stats.TotalQuestions {
			color.Yellow("  distinct:        %d (%d duplicates present)",
				stats.DistinctHashes, stats.TotalQuestions-stats.DistinctHashes)
		} else {
			fmt.Printf("  distinct:        %d\n", stats.DistinctHashes)
		}
		if !stats.EarliestIngested.IsZero() {
			fmt.Printf("  first ingested:  %s\n", stats.EarliestIngested.Format("2006-01-02 15:04"))
			fmt.Printf("  last ingested:   %s\n", stats.LatestIngested.Format("2006-01-02 15:04"))
		}

		printHistogram("topics", stats.Topics)
		printHistogram("difficulty", stats.Difficulties)
	},
}

func printHistogram(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Largest buckets first, name as tiebreak.
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Printf("  %s:\n", label)
	for _, k := range keys {
		fmt.Printf("    %-20s %d\n", k, counts[k])
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
