// Copyright NF Open Science Initiative, 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nf-research-tools/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the literature-fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI E-utilities key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// FetchDelay is the delay between consecutive publications (default 350ms,
	// NCBI's unauthenticated rate limit).
	FetchDelay time.Duration `json:"fetch_delay" yaml:"fetch_delay"`

	// CacheDir is the directory holding per-publication cache records.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// ReviewConfig holds settings for the review orchestration stage.
type ReviewConfig struct {
	// Command is the review collaborator executable.
	Command string `json:"command" yaml:"command"`

	// Args are fixed arguments passed before the payload.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Timeout bounds a single collaborator call (default 5m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Workers is the bounded worker pool size (default 1; the collaborator's
	// rate limits dominate cost).
	Workers int `json:"workers" yaml:"workers"`

	// ArtifactsDir is the directory holding per-publication review artifacts.
	ArtifactsDir string `json:"artifacts_dir" yaml:"artifacts_dir"`
}

// UpgradePolicy holds the cache upgrade thresholds. The thresholds are
// configuration, not constants; defaults match the curation team's policy.
type UpgradePolicy struct {
	// MinConfidence is the minimum confidence of an accepting verdict (default 0.8).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// MinCompleteness is the minimum normalized completeness of the
	// referenced resource (default 0.6).
	MinCompleteness float64 `json:"min_completeness" yaml:"min_completeness"`

	// AllowedTypes lists publication types eligible for upgrade.
	AllowedTypes []PublicationType `json:"allowed_types" yaml:"allowed_types"`
}

// DefaultUpgradePolicy returns the standard upgrade thresholds.
func DefaultUpgradePolicy() UpgradePolicy {
	return UpgradePolicy{
		MinConfidence:   0.8,
		MinCompleteness: 0.6,
		AllowedTypes:    []PublicationType{PubLabResearch, PubClinicalStudy},
	}
}

// Allows reports whether the publication type is in the upgrade allow-set.
func (p UpgradePolicy) Allows(t PublicationType) bool {
	for _, a := range p.AllowedTypes {
		if a == t {
			return true
		}
	}
	return false
}

// StoreConfig holds settings for the persistent resource store.
type StoreConfig struct {
	// DatabasePath is the sqlite database file.
	DatabasePath string `json:"database_path" yaml:"database_path"`
}

// SubmissionConfig holds settings for submission-table output.
type SubmissionConfig struct {
	// OutputDir is the directory for submission CSVs and side-channel files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Review     ReviewConfig     `json:"review" yaml:"review"`
	Upgrade    UpgradePolicy    `json:"upgrade" yaml:"upgrade"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Submission SubmissionConfig `json:"submission" yaml:"submission"`
}
