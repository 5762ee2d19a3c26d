// qpool is the operator CLI for question-pool quality control: merging
// uploaded batches into pools, validating question quality, and finding
// duplicates before they reach students.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/config"
	"github.com/sowhat82/mockexamify/internal/storage"
	"github.com/sowhat82/mockexamify/internal/storage/sqlite"
)

var (
	cfgPath  string
	dbPath   string
	poolName string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "qpool",
	Short: "Question pool quality control",
	Long: `qpool manages exam question pools: ingesting uploaded batches,
rejecting malformed or truncated questions, catching exact and semantic
duplicates, and reporting on pool contents.

Pools live in a local SQLite database. Similarity scanning and
explanation repair call the Anthropic API and need ANTHROPIC_API_KEY set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath == "" {
			dbPath = cfg.Database
		}
		if poolName == "" {
			poolName = cfg.DefaultPool
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Path to qpool config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to pool database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&poolName, "pool", "", "Pool to operate on (overrides config default_pool)")
}

// openStore opens the pool database. Callers must Close it.
func openStore() (storage.Storage, error) {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool database at %s: %w", dbPath, err)
	}
	return store, nil
}

// requirePool returns the selected pool name or exits with guidance.
func requirePool() string {
	if poolName == "" {
		fmt.Fprintf(os.Stderr, "Error: no pool selected (use --pool or set default_pool in %s)\n", cfgPath)
		os.Exit(1)
	}
	return poolName
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
