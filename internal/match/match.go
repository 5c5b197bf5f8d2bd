// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package match links extracted observations to persisted resource records
// by exact (name, type) lookup.
package match

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// ResourceStore is the persistent-store surface the matcher needs: typed
// resource queries and observation appends. Appends are the only write.
type ResourceStore interface {
	FindResources(ctx context.Context, name string, rtype types.ResourceType) ([]types.ResourceRecord, error)
	AppendObservation(ctx context.Context, obs types.Observation) error
}

// Ambiguity records a candidate observation that matched more than one
// resource. The observation is linked to the lowest resourceId so
// attribution is stable across runs, and the warning preserves the full
// candidate set for curators.
type Ambiguity struct {
	ResourceName string             `json:"resource_name" yaml:"resource_name"`
	ResourceType types.ResourceType `json:"resource_type" yaml:"resource_type"`
	CandidateIDs []string           `json:"candidate_ids" yaml:"candidate_ids"`
	LinkedID     string             `json:"linked_id" yaml:"linked_id"`
}

// Summary counts one matching run.
type Summary struct {
	Linked    int
	Unmatched int
	Ambiguous int
	Failed    int
}

// Total returns the number of candidate observations processed.
func (s Summary) Total() int {
	return s.Linked + s.Unmatched + s.Failed
}

// HasFailures reports whether any candidate failed with a store error.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Result holds the outcome of a matching run. Unmatched candidates are
// returned for the manual-review side-channel; they are never appended to
// the store and never attributed by fuzzy guess.
type Result struct {
	Summary     Summary
	Unmatched   []types.ObservationCandidate
	Ambiguities []Ambiguity
}

// MatchBatch links each candidate observation to a resource record.
// Exactly one match links directly. Multiple matches link to the first
// candidate after sorting by resourceId and emit an ambiguity warning.
// Zero matches route the candidate to the unmatched side-channel. Store
// errors fail the single candidate, not the batch.
func MatchBatch(ctx context.Context, store ResourceStore, candidates []types.ObservationCandidate, w io.Writer) (Result, error) {
	var res Result

	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		records, err := store.FindResources(ctx, c.ResourceName, c.ResourceType)
		if err != nil {
			fmt.Fprintf(w, "failed    %s (%s): %v\n", c.ResourceName, c.ResourceType, err)
			res.Summary.Failed++
			continue
		}

		if len(records) == 0 {
			fmt.Fprintf(w, "unmatched %s (%s)\n", c.ResourceName, c.ResourceType)
			res.Summary.Unmatched++
			res.Unmatched = append(res.Unmatched, c)
			continue
		}

		if len(records) > 1 {
			// Store query order is not guaranteed stable; sort on the
			// secondary key before taking the first.
			sort.Slice(records, func(i, j int) bool {
				return records[i].ResourceID < records[j].ResourceID
			})
			ids := make([]string, len(records))
			for i, r := range records {
				ids[i] = r.ResourceID
			}
			res.Summary.Ambiguous++
			res.Ambiguities = append(res.Ambiguities, Ambiguity{
				ResourceName: c.ResourceName,
				ResourceType: c.ResourceType,
				CandidateIDs: ids,
				LinkedID:     records[0].ResourceID,
			})
			fmt.Fprintf(w, "warning: %s (%s) matched %d resources, linked to %s\n",
				c.ResourceName, c.ResourceType, len(records), records[0].ResourceID)
		}

		obs := types.Observation{
			ResourceID:      records[0].ResourceID,
			ObservationType: c.ObservationType,
			Details:         c.Details,
			DOI:             c.DOI,
		}
		if err := store.AppendObservation(ctx, obs); err != nil {
			fmt.Fprintf(w, "failed    %s (%s): %v\n", c.ResourceName, c.ResourceType, err)
			res.Summary.Failed++
			continue
		}
		fmt.Fprintf(w, "linked    %s (%s) -> %s\n", c.ResourceName, c.ResourceType, records[0].ResourceID)
		res.Summary.Linked++
	}

	fmt.Fprintf(w, "\nlinked: %d, unmatched: %d, ambiguous: %d, failed: %d\n",
		res.Summary.Linked, res.Summary.Unmatched, res.Summary.Ambiguous, res.Summary.Failed)
	return res, nil
}

// WriteUnmatched appends unmatched candidates to the manual-review
// side-channel CSV at path, creating it with a header when absent.
func WriteUnmatched(path string, unmatched []types.ObservationCandidate) error {
	if len(unmatched) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating side-channel directory: %w", err)
	}

	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening side-channel %s: %w", path, err)
	}
	defer f.Close()

	wr := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if err := wr.Write([]string{"resourceName", "resourceType", "observationType", "details", "doi"}); err != nil {
			return fmt.Errorf("writing side-channel header: %w", err)
		}
	}
	for _, c := range unmatched {
		row := []string{c.ResourceName, string(c.ResourceType), c.ObservationType, c.Details, c.DOI}
		if err := wr.Write(row); err != nil {
			return fmt.Errorf("writing side-channel row: %w", err)
		}
	}
	wr.Flush()
	return wr.Error()
}
