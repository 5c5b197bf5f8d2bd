// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package pubcache persists per-publication text caches and decides when a
// cache is eligible for a full-text upgrade.
//
// Each publication has exactly one YAML record under the cache directory.
// Writes are additive merges: a field already populated in storage is never
// overwritten with a blank value, and the cache level only ever increases
// (abstract_only < minimal < full).
package pubcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// ErrNotFound is returned by Read when no record exists for a publication.
var ErrNotFound = errors.New("publication not in cache")

// Store manages the cache directory. All writes go through Write or
// Upgrade; reads are pure local lookups and never fetch remotely.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(pmid string) string {
	return filepath.Join(s.dir, pmid+".yaml")
}

// Read returns the cache record for pmid, or ErrNotFound.
func (s *Store) Read(pmid string) (*types.CacheRecord, error) {
	data, err := os.ReadFile(s.path(pmid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache record %s: %w", pmid, err)
	}
	var rec types.CacheRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing cache record %s: %w", pmid, err)
	}
	return &rec, nil
}

// List returns the PMIDs of all cached publications in directory order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory %s: %w", s.dir, err)
	}
	var pmids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".yaml" {
			continue
		}
		pmids = append(pmids, name[:len(name)-len(".yaml")])
	}
	return pmids, nil
}

// Write creates or merges the record for pmid. Non-empty supplied fields
// replace stored values; empty supplied fields leave stored values intact.
// The stored cache level becomes the maximum of the current and supplied
// levels, so a write can never downgrade a record.
func (s *Store) Write(pmid, title string, fields types.CacheFields, level types.CacheLevel) (*types.CacheRecord, error) {
	rec, err := s.Read(pmid)
	switch {
	case errors.Is(err, ErrNotFound):
		rec = &types.CacheRecord{
			PMID:       pmid,
			CacheLevel: level,
			FetchDate:  time.Now().UTC(),
		}
	case err != nil:
		return nil, err
	default:
		rec.CacheLevel = types.MaxLevel(rec.CacheLevel, level)
	}

	if title != "" {
		rec.Title = title
	}
	merge(rec, fields)

	if err := s.write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Upgrade applies an additive merge of new full-text fields to an existing
// record, raises the level to full, and stamps UpgradeDate. It must only be
// called when ShouldUpgrade returned true. Re-invoking with the same fields
// is a no-op beyond the timestamp refresh.
func (s *Store) Upgrade(pmid string, fields types.CacheFields) (*types.CacheRecord, error) {
	rec, err := s.Read(pmid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("upgrading %s: %w", pmid, ErrNotFound)
		}
		return nil, err
	}

	merge(rec, fields)
	rec.CacheLevel = types.MaxLevel(rec.CacheLevel, types.LevelFull)
	rec.UpgradeDate = time.Now().UTC()

	if err := s.write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ShouldUpgrade evaluates the upgrade conjunction: at least one accepting
// verdict at or above the policy confidence threshold, referenced-resource
// completeness at or above the policy threshold, and an allowed publication
// type. All three must hold.
func ShouldUpgrade(verdicts []types.ReviewVerdict, completeness float64, pubType types.PublicationType, policy types.UpgradePolicy) bool {
	accepted := false
	for _, v := range verdicts {
		if v.Verdict == types.VerdictAccept && v.Confidence >= policy.MinConfidence {
			accepted = true
			break
		}
	}
	return accepted && completeness >= policy.MinCompleteness && policy.Allows(pubType)
}

// merge copies non-empty supplied fields onto the record. Blank supplied
// fields never clear stored text.
func merge(rec *types.CacheRecord, fields types.CacheFields) {
	if fields.Abstract != "" {
		rec.Abstract = fields.Abstract
	}
	if fields.Introduction != "" {
		rec.Introduction = fields.Introduction
	}
	if fields.Methods != "" {
		rec.Methods = fields.Methods
	}
	if fields.Results != "" {
		rec.Results = fields.Results
	}
	if fields.Discussion != "" {
		rec.Discussion = fields.Discussion
	}
}

// write persists the record atomically: the YAML is written to a temp file
// in the cache directory and renamed over the destination, so a record on
// disk is always complete.
func (s *Store) write(rec *types.CacheRecord) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling cache record %s: %w", rec.PMID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache record %s: %w", rec.PMID, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.path(rec.PMID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
