package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/match"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/review"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/store"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

const defaultDatabasePath = "resources.db"

var matchCmd = &cobra.Command{
	Use:   "match [pmids...]",
	Short: "Link reviewed observations to resource records",
	Long: `Match looks up each observation extracted by review against the resource
store by exact (name, type). A single match appends the observation;
no match routes it to the unmatched side-channel CSV for curator triage;
multiple matches link deterministically to the lowest resource ID and
record an ambiguity warning. Without arguments it processes every
reviewed publication.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("artifacts-dir", defaultArtifactsDir, "directory holding verdict artifacts")
	matchCmd.Flags().String("database", defaultDatabasePath, "resource store sqlite file")
	matchCmd.Flags().String("output-dir", defaultOutputDir, "directory for the unmatched side-channel CSV")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	artifactsDir, _ := cmd.Flags().GetString("artifacts-dir")
	dbPath, _ := cmd.Flags().GetString("database")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	artifacts, err := review.NewArtifactStore(artifactsDir)
	if err != nil {
		return err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	pmids := args
	if len(pmids) == 0 {
		pmids, err = artifacts.List()
		if err != nil {
			return err
		}
	}

	var candidates []types.ObservationCandidate
	for _, pmid := range pmids {
		result, err := artifacts.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			continue
		}
		candidates = append(candidates, result.Observations...)
	}
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stdout, "no observations to match")
		return nil
	}

	result, err := match.MatchBatch(cmd.Context(), db, candidates, os.Stdout)
	if err != nil {
		return err
	}

	if len(result.Unmatched) > 0 {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path := filepath.Join(outputDir, "unmatched-observations.csv")
		if err := match.WriteUnmatched(path, result.Unmatched); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Unmatched observations: %s\n", path)
	}

	if result.Summary.Failed > 0 {
		return fmt.Errorf("%d observation(s) failed to match", result.Summary.Failed)
	}
	return nil
}
