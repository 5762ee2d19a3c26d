package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sowhat82/mockexamify/internal/ai"
	"github.com/sowhat82/mockexamify/internal/validation"
)

var fixExplanationsCmd = &cobra.Command{
	Use:   "fix-explanations",
	Short: "Regenerate flagged answer explanations",
	Long: `Find questions whose explanations are flagged by the quality rules
(hedging, contradicting the stored answer, or too short) and regenerate
them with an AI model.

Calls are paced one at a time. The pool is saved once at the end;
--dry-run lists what would be regenerated without calling the API.

Examples:
  qpool fix-explanations --pool Demo
  qpool fix-explanations --pool Demo --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		pool := requirePool()
		ctx := context.Background()

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		questions, err := store.LoadPool(ctx, pool)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		rules := explanationRules()
		flagged := make([]int, 0)
		for i := range questions {
			for _, rule := range rules {
				if len(rule.Check(questions[i])) > 0 {
					flagged = append(flagged, i)
					break
				}
			}
		}

		if len(flagged) == 0 {
			color.Green("all explanations look fine")
			return
		}
		fmt.Printf("%d of %d explanations flagged\n", len(flagged), len(questions))

		if dryRun {
			for _, i := range flagged {
				fmt.Printf("  - %s\n", questions[i].Preview(70))
			}
			return
		}

		model := cfg.AI.Model
		if model == "" {
			model = ai.GetDefaultModel()
		}
		client, err := ai.NewClient(&ai.Config{Model: model})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create AI client: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure ANTHROPIC_API_KEY is set in your environment\n")
			os.Exit(1)
		}

		dcfg, err := cfg.ToDedupConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pacer := ai.NewPacer(dcfg.PacingInterval)

		fixed := 0
		for _, i := range flagged {
			if err := pacer.Wait(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			explanation, err := client.RegenerateExplanation(ctx, questions[i])
			if err != nil {
				color.Red("  failed: %s: %v", questions[i].Preview(50), err)
				continue
			}
			questions[i].Explanation = explanation
			fixed++
			color.Green("  fixed: %s", questions[i].Preview(70))
		}

		if fixed == 0 {
			fmt.Println("nothing regenerated; pool unchanged")
			os.Exit(1)
		}
		if err := store.SavePool(ctx, pool, questions); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("regenerated %d explanations in %s\n", fixed, pool)
	},
}

// explanationRules returns just the explanation-focused quality rules.
func explanationRules() []validation.Rule {
	return []validation.Rule{
		validation.SelfContradictionRule{},
		validation.AnswerMismatchRule{},
		validation.ShortExplanationRule{},
	}
}

func init() {
	fixExplanationsCmd.Flags().Bool("dry-run", false, "List flagged explanations without regenerating")
	rootCmd.AddCommand(fixExplanationsCmd)
}
