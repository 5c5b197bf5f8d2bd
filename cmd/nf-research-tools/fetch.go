package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/fetch"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubmed"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/secrets"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultFetchDelay = 350 * time.Millisecond
	defaultUserAgent  = "nf-research-tools/0.1"
	defaultCacheDir   = "cache"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [pmids...]",
	Short: "Cache publication text from PubMed at a staged level",
	Long: `Fetch retrieves publication metadata and, for the minimal and full
levels, open-access full text, and writes one cache record per PMID.
A publication already cached at or above the requested level is skipped,
so reruns are cheap. Missing full text degrades the record to
abstract_only rather than failing.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("level", string(types.LevelMinimal), "cache level: abstract_only, minimal, or full")
	fetchCmd.Flags().String("cache-dir", defaultCacheDir, "directory for cache records")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive fetches (default 350ms, NCBI rate limit)")
	fetchCmd.Flags().String("api-key", "", "NCBI E-utilities API key (default: .secrets/ncbi-api-key)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PMIDs")
	}

	levelFlag, _ := cmd.Flags().GetString("level")
	level := types.CacheLevel(levelFlag)
	if level.Rank() == 0 {
		return fmt.Errorf("unknown cache level %q (want abstract_only, minimal, or full)", levelFlag)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultFetchDelay
	}
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	apiKey, _ := cmd.Flags().GetString("api-key")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		APIKey:     secretDefault(secrets.KeyNCBI, apiKey),
		FetchDelay: delay,
		CacheDir:   cacheDir,
	}

	cache, err := pubcache.NewStore(cfg.CacheDir)
	if err != nil {
		return err
	}
	client := pubmed.NewClient(cfg)

	result := fetch.FetchBatch(cmd.Context(), client, cache, args, level, cfg.FetchDelay, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d publication(s) failed to fetch", result.Failed)
	}
	return nil
}
