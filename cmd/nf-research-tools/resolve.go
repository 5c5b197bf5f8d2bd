package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/mine"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/resolve"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/review"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [pmids...]",
	Short: "Resolve review verdicts into submission tables",
	Long: `Resolve partitions mentions by their review verdicts: accepted mentions
go to per-type validated submission CSVs, uncertain mentions (including
collaborator suggestions with no verdict) go to a manual-review CSV, and
rejected mentions are dropped. With --filter it instead removes rejected
rows from an existing submission table by set-difference. Without
arguments it resolves every reviewed publication.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("cache-dir", defaultCacheDir, "directory holding cache records")
	resolveCmd.Flags().String("artifacts-dir", defaultArtifactsDir, "directory holding verdict artifacts")
	resolveCmd.Flags().String("output-dir", defaultOutputDir, "directory for submission tables")
	resolveCmd.Flags().String("filter", "", "existing submission CSV to filter instead of writing fresh tables")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	artifactsDir, _ := cmd.Flags().GetString("artifacts-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	filterPath, _ := cmd.Flags().GetString("filter")

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
		pmids, err = artifacts.List()
		if err != nil {
			return err
		}
	}
	if len(pmids) == 0 {
		return fmt.Errorf("no reviewed publications to resolve (run review first)")
	}

	var combined resolve.Resolution
	for _, pmid := range pmids {
		result, err := artifacts.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			continue
		}
		rec, err := cache.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			continue
		}

		mentions := mine.FromRecord(rec)
		mentions = append(mentions, result.SuggestedMentions...)

		res := resolve.Resolve(mentions, result.Verdicts)
		fmt.Fprintf(os.Stdout, "resolved %s: %d accepted, %d rejected, %d uncertain\n",
			pmid, len(res.Accepted), len(res.Rejected), len(res.Uncertain))
		combined.Merge(res)
	}

	if filterPath != "" {
		out, err := resolve.FilterTable(filterPath, combined.Rejected)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nFiltered table: %s\n", out)
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := resolve.WriteValidatedTables(outputDir, combined); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nResolve summary: %d accepted, %d rejected, %d uncertain\n",
		len(combined.Accepted), len(combined.Rejected), len(combined.Uncertain))
	return nil
}
