// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package review orchestrates external review of publications with
// candidate tool mentions.
//
// Each publication moves from pending to reviewed (artifact written) or
// skipped (artifact already exists and re-review is not forced). A failed
// collaborator call or malformed output leaves the publication pending:
// no artifact is written and the failure is reported in the run summary,
// never silently marked reviewed. Because one run only reviews pending
// publications, repeated runs over a growing publication set do strictly
// incremental work.
package review

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Item is one publication queued for review: its cache record and the
// mined candidate mentions.
type Item struct {
	Record   *types.CacheRecord
	Mentions []types.ToolMention
}

// Options controls a review run.
type Options struct {
	// Force re-reviews publications that already have an artifact.
	Force bool

	// Workers bounds the worker pool. Values below 1 mean 1: the
	// collaborator's rate limits dominate cost, so serial is the default.
	Workers int
}

// RunSummary aggregates a review run. Failed publications remain pending
// for the next run; the summary distinguishes a clean run from a partial
// one without log inspection.
type RunSummary struct {
	// RunID uniquely identifies this run's report.
	RunID string `json:"run_id" yaml:"run_id"`

	// Started records when the run began.
	Started time.Time `json:"started" yaml:"started"`

	Reviewed int `json:"reviewed" yaml:"reviewed"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Failed   int `json:"failed" yaml:"failed"`

	// Accepted, Rejected, and Uncertain count verdicts across newly
	// reviewed publications.
	Accepted  int `json:"accepted" yaml:"accepted"`
	Rejected  int `json:"rejected" yaml:"rejected"`
	Uncertain int `json:"uncertain" yaml:"uncertain"`

	// PublicationTypes breaks down newly reviewed publications by type.
	PublicationTypes map[string]int `json:"publication_types" yaml:"publication_types"`

	// Errors lists per-publication failures.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Total returns the number of publications processed.
func (s RunSummary) Total() int {
	return s.Reviewed + s.Skipped + s.Failed
}

// HasFailures reports whether any publication failed review.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// ReviewBatch reviews each item through the collaborator, writing one
// artifact per publication. Items whose artifact already exists are
// skipped unless opts.Force is set; skipped items cost no collaborator
// call. Per-publication failures never abort the batch.
//
// Workers above 1 review independent publications concurrently. Artifact
// keys are distinct per publication, so workers never contend on the same
// artifact; the summary and progress writer are mutex-guarded.
func ReviewBatch(ctx context.Context, reviewer Reviewer, artifacts *ArtifactStore, items []Item, opts Options, w io.Writer) RunSummary {
	summary := RunSummary{
		RunID:            uuid.NewString(),
		Started:          time.Now().UTC(),
		PublicationTypes: make(map[string]int),
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, item := range items {
		item := item
		g.Go(func() error {
			status, result, err := reviewOne(ctx, reviewer, artifacts, item, opts.Force)

			mu.Lock()
			defer mu.Unlock()
			switch status {
			case statusSkipped:
				fmt.Fprintf(w, "skipped  %s\n", item.Record.PMID)
				summary.Skipped++
			case statusReviewed:
				fmt.Fprintf(w, "reviewed %s (%d verdicts)\n", item.Record.PMID, len(result.Verdicts))
				summary.Reviewed++
				summary.PublicationTypes[string(result.PublicationType)]++
				for _, v := range result.Verdicts {
					switch v.Verdict {
					case types.VerdictAccept:
						summary.Accepted++
					case types.VerdictReject:
						summary.Rejected++
					case types.VerdictUncertain:
						summary.Uncertain++
					}
				}
			case statusFailed:
				fmt.Fprintf(w, "failed   %s: %v\n", item.Record.PMID, err)
				summary.Failed++
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", item.Record.PMID, err))
			}
			return nil
		})
	}
	g.Wait()

	sort.Strings(summary.Errors)
	fmt.Fprintf(w, "\nreviewed: %d, skipped: %d, failed: %d\n",
		summary.Reviewed, summary.Skipped, summary.Failed)
	return summary
}

type itemStatus int

const (
	statusSkipped itemStatus = iota
	statusReviewed
	statusFailed
)

// reviewOne handles a single publication: skip check, collaborator call,
// parse, artifact write. The existence check and the write use the same
// per-publication key, so no second artifact can appear for the same PMID.
func reviewOne(ctx context.Context, reviewer Reviewer, artifacts *ArtifactStore, item Item, force bool) (itemStatus, *types.ReviewResult, error) {
	pmid := item.Record.PMID

	if !force {
		exists, err := artifacts.Exists(pmid)
		if err != nil {
			return statusFailed, nil, err
		}
		if exists {
			return statusSkipped, nil, nil
		}
	}

	raw, err := reviewer.Review(ctx, BuildRequest(item.Record, item.Mentions))
	if err != nil {
		return statusFailed, nil, err
	}

	result, err := ParseResponse(pmid, raw, item.Mentions)
	if err != nil {
		return statusFailed, nil, err
	}

	if err := artifacts.Write(result); err != nil {
		return statusFailed, nil, err
	}
	return statusReviewed, result, nil
}

// WriteReport persists the run summary as a YAML report named after the
// run ID.
func WriteReport(dir string, summary RunSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory %s: %w", dir, err)
	}
	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshaling run report: %w", err)
	}
	path := filepath.Join(dir, "run-"+summary.RunID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing run report: %w", err)
	}
	return path, nil
}
