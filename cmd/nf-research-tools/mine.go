package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/mine"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/resolve"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

const defaultOutputDir = "output"

var mineCmd = &cobra.Command{
	Use:   "mine [pmids...]",
	Short: "Mine cached publication text for candidate tool mentions",
	Long: `Mine scans cached sections with the per-type pattern rules and writes
one candidate submission CSV per resource type. Without arguments it
mines every cached publication. Mining is recall-oriented: every
candidate is forwarded to review, none are silently dropped.`,
	RunE: runMine,
}

func init() {
	mineCmd.Flags().String("cache-dir", defaultCacheDir, "directory holding cache records")
	mineCmd.Flags().String("output-dir", defaultOutputDir, "directory for candidate submission tables")

	rootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cache, err := pubcache.NewStore(cacheDir)
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
		return fmt.Errorf("no cached publications to mine (run fetch first)")
	}

	var mentions []types.ToolMention
	for _, pmid := range pmids {
		rec, err := cache.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			continue
		}
		found := mine.FromRecord(rec)
		fmt.Fprintf(os.Stdout, "mined %s: %d candidate(s)\n", pmid, len(found))
		mentions = append(mentions, found...)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := resolve.WriteCandidateTables(outputDir, mentions); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nMine summary: %d candidate(s) from %d publication(s)\n", len(mentions), len(pmids))
	return nil
}
