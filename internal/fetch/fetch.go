// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package fetch populates the staged publication cache from the
// literature source.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/sections"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Source is the slice of the literature client the fetch stage needs.
type Source interface {
	FetchSummary(ctx context.Context, pmid string) (*types.Publication, error)
	FetchFullText(ctx context.Context, pmid string) (*types.FullTextDocument, bool, error)
}

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched  int
	Skipped  int
	Degraded int
	Failed   int
}

// Total returns the total number of publications processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped + r.Degraded + r.Failed
}

// HasFailures reports whether any publications failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchOne caches one publication at the requested level. A cached record
// whose level already ranks at or above the requested level is skipped.
// When the requested level needs full text but none is available, the
// record is written at abstract_only; the degraded return reports this.
func FetchOne(ctx context.Context, src Source, cache *pubcache.Store, pmid string, level types.CacheLevel, w io.Writer) (skipped, degraded bool, err error) {
	existing, err := cache.Read(pmid)
	if err != nil && !errors.Is(err, pubcache.ErrNotFound) {
		return false, false, fmt.Errorf("reading cache for %s: %w", pmid, err)
	}
	if existing != nil && existing.CacheLevel.Rank() >= level.Rank() {
		fmt.Fprintf(w, "skipped %s (cached at %s)\n", pmid, existing.CacheLevel)
		return true, false, nil
	}

	pub, err := src.FetchSummary(ctx, pmid)
	if err != nil {
		return false, false, err
	}

	fields := types.CacheFields{Abstract: pub.Abstract}
	writeLevel := level

	if level.Rank() > types.LevelAbstractOnly.Rank() {
		doc, ok, err := src.FetchFullText(ctx, pmid)
		if err != nil {
			return false, false, err
		}
		if !ok {
			fmt.Fprintf(w, "degraded %s (no open-access full text)\n", pmid)
			writeLevel = types.LevelAbstractOnly
			degraded = true
		} else {
			extracted, err := sections.Extract(doc)
			if err != nil {
				return false, false, fmt.Errorf("extracting sections for %s: %w", pmid, err)
			}
			fields.Methods = extracted["methods"]
			fields.Results = extracted["results"]
			if level == types.LevelFull {
				fields.Introduction = extracted["introduction"]
				fields.Discussion = extracted["discussion"]
			}
		}
	}

	if _, err := cache.Write(pmid, pub.Title, fields, writeLevel); err != nil {
		return false, false, fmt.Errorf("caching %s: %w", pmid, err)
	}
	if !degraded {
		fmt.Fprintf(w, "fetched %s (%s)\n", pmid, writeLevel)
	}
	return false, degraded, nil
}

// FetchBatch caches multiple publications, printing per-item status and
// returning a summary. It continues after individual failures and applies
// a delay between consecutive network fetches.
func FetchBatch(ctx context.Context, src Source, cache *pubcache.Store, pmids []string, level types.CacheLevel, delay time.Duration, w io.Writer) BatchResult {
	var result BatchResult
	for i, pmid := range pmids {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "failed  %s: %v\n", pmid, ctx.Err())
				result.Failed++
				continue
			case <-time.After(delay):
			}
		}
		skipped, degraded, err := FetchOne(ctx, src, cache, pmid, level, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed  %s: %v\n", pmid, err)
			result.Failed++
		case skipped:
			result.Skipped++
		case degraded:
			result.Degraded++
		default:
			result.Fetched++
		}
	}
	fmt.Fprintf(w, "\nFetch summary: %d fetched, %d skipped, %d degraded, %d failed (total: %d)\n",
		result.Fetched, result.Skipped, result.Degraded, result.Failed, result.Total())
	return result
}
