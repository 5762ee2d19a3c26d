package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List pools",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		ctx := context.Background()
		names, err := store.ListPools(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Println("no pools yet; run 'qpool merge' to create one")
			return
		}

		for _, name := range names {
			questions, err := store.LoadPool(ctx, name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("%-30s %d questions\n", name, len(questions))
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a pool's import history",
	Long: `List the import audit trail for a pool, newest first: which batch
files were merged, when, and how many questions were added or skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		pool := requirePool()

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		records, err := store.ListImports(context.Background(), pool)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Printf("no imports recorded for pool %s\n", pool)
			return
		}

		for _, rec := range records {
			line := fmt.Sprintf("%s  %-30s %s",
				rec.ImportedAt.Format("2006-01-02 15:04"), rec.Source,
				color.GreenString("+%d", rec.Added))
			if rec.Skipped > 0 {
				line += color.YellowString(" (%d skipped)", rec.Skipped)
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(poolsCmd)
	rootCmd.AddCommand(historyCmd)
}
