package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/score"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score documentation completeness for every resource",
	Long: `Score recomputes the deterministic completeness score (0-110) for every
resource in the store from its current record, linked observations, and
linked datasets. Scores are derived values, recomputed per run, never
persisted. A failure in one resource type does not block the others.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().String("database", defaultDatabasePath, "resource store sqlite file")
	scoreCmd.Flags().Bool("yaml", false, "emit full score records as YAML instead of the summary table")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("database")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	scores, summary, err := score.ScoreAll(cmd.Context(), db, os.Stderr)
	if err != nil {
		return err
	}

	if asYAML {
		data, err := yaml.Marshal(scores)
		if err != nil {
			return fmt.Errorf("marshaling scores: %w", err)
		}
		os.Stdout.Write(data)
	} else {
		for _, s := range scores {
			fmt.Fprintf(os.Stdout, "%-12s %-26s %6.1f  %s\n", s.ResourceID, s.ResourceType, s.Total, s.Category)
		}
	}

	fmt.Fprintf(os.Stderr, "\nScore summary: %d scored, %d failed\n", summary.Scored, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("scoring failed for type(s): %v", summary.TypeErrors)
	}
	return nil
}
