package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubmed"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/review"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/score"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/secrets"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/sections"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/store"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [pmids...]",
	Short: "Upgrade eligible cache records to full text",
	Long: `Upgrade promotes a publication's cache to the full level when its review
produced an accepting verdict above the confidence threshold, the
referenced resource meets the completeness threshold, and the
publication type is in the allow-set (Lab Research, Clinical Study).
All three must hold. The upgrade merge is additive: previously cached
text is never blanked, and the level never decreases. Without arguments
it evaluates every reviewed publication.`,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().String("cache-dir", defaultCacheDir, "directory holding cache records")
	upgradeCmd.Flags().String("artifacts-dir", defaultArtifactsDir, "directory holding verdict artifacts")
	upgradeCmd.Flags().String("database", defaultDatabasePath, "resource store sqlite file")
	upgradeCmd.Flags().Float64("min-confidence", 0, "minimum accepting-verdict confidence (default 0.8)")
	upgradeCmd.Flags().Float64("min-completeness", 0, "minimum normalized resource completeness (default 0.6)")
	upgradeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	upgradeCmd.Flags().Duration("delay", 0, "delay between consecutive fetches (default 350ms)")
	upgradeCmd.Flags().String("api-key", "", "NCBI E-utilities API key (default: .secrets/ncbi-api-key)")

	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	artifactsDir, _ := cmd.Flags().GetString("artifacts-dir")
	dbPath, _ := cmd.Flags().GetString("database")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	minCompleteness, _ := cmd.Flags().GetFloat64("min-completeness")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	delay, _ := cmd.Flags().GetDuration("delay")
	apiKey, _ := cmd.Flags().GetString("api-key")

	policy := types.DefaultUpgradePolicy()
	if minConfidence > 0 {
		policy.MinConfidence = minConfidence
	}
	if minCompleteness > 0 {
		policy.MinCompleteness = minCompleteness
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if delay == 0 {
		delay = defaultFetchDelay
	}

	cache, err := pubcache.NewStore(cacheDir)
	if err != nil {
		return err
	}
	artifacts, err := review.NewArtifactStore(artifactsDir)
	if err != nil {
		return err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	client := pubmed.NewClient(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		APIKey:     secretDefault(secrets.KeyNCBI, apiKey),
	})

	pmids := args
	if len(pmids) == 0 {
		pmids, err = artifacts.List()
		if err != nil {
			return err
		}
	}
	if len(pmids) == 0 {
		return fmt.Errorf("no reviewed publications to evaluate (run review first)")
	}

	ctx := cmd.Context()
	var upgraded, ineligible, skipped, failed int

	for i, pmid := range pmids {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		rec, err := cache.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			failed++
			continue
		}
		if rec.CacheLevel == types.LevelFull {
			fmt.Fprintf(os.Stdout, "skipped %s (already full)\n", pmid)
			skipped++
			continue
		}

		result, err := artifacts.Read(pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			failed++
			continue
		}

		completeness, err := acceptedResourceCompleteness(ctx, db, result, policy)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			failed++
			continue
		}

		if !pubcache.ShouldUpgrade(result.Verdicts, completeness, result.PublicationType, policy) {
			fmt.Fprintf(os.Stdout, "ineligible %s (%s, completeness %.2f)\n", pmid, result.PublicationType, completeness)
			ineligible++
			continue
		}

		doc, ok, err := client.FetchFullText(ctx, pmid)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			failed++
			continue
		}
		if !ok {
			fmt.Fprintf(os.Stdout, "skipped %s (no open-access full text)\n", pmid)
			skipped++
			continue
		}

		extracted, err := sections.Extract(doc)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			failed++
			continue
		}

		fields := types.CacheFields{
			Introduction: extracted["introduction"],
			Methods:      extracted["methods"],
			Results:      extracted["results"],
			Discussion:   extracted["discussion"],
		}
		if _, err := cache.Upgrade(pmid, fields); err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", pmid, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "upgraded %s to full\n", pmid)
		upgraded++
	}

	fmt.Fprintf(os.Stdout, "\nUpgrade summary: %d upgraded, %d ineligible, %d skipped, %d failed (total: %d)\n",
		upgraded, ineligible, skipped, failed, upgraded+ineligible+skipped+failed)
	if failed > 0 {
		return fmt.Errorf("%d publication(s) failed upgrade evaluation", failed)
	}
	return nil
}

// acceptedResourceCompleteness returns the highest normalized completeness
// among resources referenced by the publication's qualifying accepted
// verdicts. Zero when no accepted mention matches a stored resource.
func acceptedResourceCompleteness(ctx context.Context, db *store.Store, result *types.ReviewResult, policy types.UpgradePolicy) (float64, error) {
	var best float64
	for _, v := range result.Verdicts {
		if v.Verdict != types.VerdictAccept || v.Confidence < policy.MinConfidence {
			continue
		}
		records, err := db.FindResources(ctx, v.MentionName, v.MentionType)
		if err != nil {
			return 0, err
		}
		for _, r := range records {
			obs, err := db.ObservationsFor(ctx, r.ResourceID)
			if err != nil {
				return 0, err
			}
			ds, err := db.DatasetsFor(ctx, r.ResourceID)
			if err != nil {
				return 0, err
			}
			s, err := score.Score(r, obs, ds)
			if err != nil {
				return 0, err
			}
			if f := s.Fraction(); f > best {
				best = f
			}
		}
	}
	return best, nil
}
