// Copyright NF Open Science Initiative, 2026. All rights reserved.

package review

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// ErrArtifactNotFound is returned by Read when no artifact exists.
var ErrArtifactNotFound = errors.New("review artifact not found")

// ArtifactStore keeps one immutable review artifact per publication. The
// publication identifier is the idempotency key: artifact existence is the
// sole skip signal for non-forced runs. Artifacts are written atomically,
// so a file on disk is always a complete review.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates the artifact directory if needed.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts directory %s: %w", dir, err)
	}
	return &ArtifactStore{dir: dir}, nil
}

func (s *ArtifactStore) path(pmid string) string {
	return filepath.Join(s.dir, pmid+"-review.yaml")
}

// Exists reports whether a review artifact exists for pmid.
func (s *ArtifactStore) Exists(pmid string) (bool, error) {
	_, err := os.Stat(s.path(pmid))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking artifact for %s: %w", pmid, err)
}

// Read returns the artifact for pmid, or ErrArtifactNotFound.
func (s *ArtifactStore) Read(pmid string) (*types.ReviewResult, error) {
	data, err := os.ReadFile(s.path(pmid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("reading artifact for %s: %w", pmid, err)
	}
	var result types.ReviewResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing artifact for %s: %w", pmid, err)
	}
	return &result, nil
}

// List returns the PMIDs of all stored artifacts.
func (s *ArtifactStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading artifacts directory %s: %w", s.dir, err)
	}
	const suffix = "-review.yaml"
	var pmids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
			continue
		}
		pmids = append(pmids, name[:len(name)-len(suffix)])
	}
	return pmids, nil
}

// Write persists the artifact atomically via temp file and rename.
func (s *ArtifactStore) Write(result *types.ReviewResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling artifact for %s: %w", result.PMID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".review-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing artifact for %s: %w", result.PMID, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.path(result.PMID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
