package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/mine"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/review"
)

const (
	defaultArtifactsDir  = "artifacts"
	defaultReportsDir    = "reports"
	defaultReviewWorkers = 1
)

var reviewCmd = &cobra.Command{
	Use:   "review [pmids...]",
	Short: "Send mined mentions to the review collaborator",
	Long: `Review mines each cached publication and sends its candidate mentions
to the configured collaborator command, writing one verdict artifact per
publication. A publication whose artifact already exists is skipped
unless --force-rereview is set; failed publications stay pending for the
next run. Without arguments it reviews every cached publication.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().String("cache-dir", defaultCacheDir, "directory holding cache records")
	reviewCmd.Flags().String("artifacts-dir", defaultArtifactsDir, "directory for verdict artifacts")
	reviewCmd.Flags().String("reports-dir", defaultReportsDir, "directory for run reports")
	reviewCmd.Flags().String("command", "", "review collaborator executable (required)")
	reviewCmd.Flags().StringSlice("arg", nil, "fixed argument passed to the collaborator (repeatable)")
	reviewCmd.Flags().Duration("timeout", 0, "per-publication collaborator timeout (default 5m)")
	reviewCmd.Flags().Int("workers", defaultReviewWorkers, "bounded worker pool size")
	reviewCmd.Flags().Bool("force-rereview", false, "re-review publications that already have an artifact")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	command, _ := cmd.Flags().GetString("command")
	if command == "" {
		return fmt.Errorf("provide the collaborator executable with --command")
	}

	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	artifactsDir, _ := cmd.Flags().GetString("artifacts-dir")
	reportsDir, _ := cmd.Flags().GetString("reports-dir")
	collabArgs, _ := cmd.Flags().GetStringSlice("arg")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	workers, _ := cmd.Flags().GetInt("workers")
	force, _ := cmd.Flags().GetBool("force-rereview")

	cache, err := pubcache.NewStore(cacheDir)
	if err != nil {
		return err
	}
	artifacts, err := review.NewArtifactStore(artifactsDir)
	if err != nil {
		return err
	}

	pmids := args
	if len(pmids) == 0 {
		pmids, err = cache.List()
		if err != nil {
			return err
		}
	}
	if len(pmids) == 0 {
		return fmt.Errorf("no cached publications to review (run fetch first)")
	}

	var items []review.Item
	for _, pmid := range pmids {
		rec, err := cache.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			continue
		}
		items = append(items, review.Item{Record: rec, Mentions: mine.FromRecord(rec)})
	}

	reviewer := &review.CommandReviewer{
		Command: command,
		Args:    collabArgs,
		Timeout: timeout,
	}
	opts := review.Options{Force: force, Workers: workers}

	summary := review.ReviewBatch(cmd.Context(), reviewer, artifacts, items, opts, os.Stdout)

	reportPath, err := review.WriteReport(reportsDir, summary)
	if err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Run report: %s\n", reportPath)

	if summary.HasFailures() {
		return fmt.Errorf("%d publication(s) failed review and remain pending", summary.Failed)
	}
	return nil
}
