// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package types defines shared data structures for the research-tools
// evidence pipeline: publications, staged text caches, tool mentions,
// review verdicts, resource records, observations, and completeness scores.
package types

import "time"

// PublicationType classifies a publication as reported by the review
// collaborator. Only lab research and clinical studies qualify a
// publication's cache for a full-text upgrade.
type PublicationType string

const (
	PubLabResearch   PublicationType = "Lab Research"
	PubClinicalStudy PublicationType = "Clinical Study"
	PubReviewArticle PublicationType = "Review Article"
	PubEditorial     PublicationType = "Editorial"
	PubLetter        PublicationType = "Letter"
)

// Publication holds literature metadata for a single PubMed record.
// Immutable once fetched; only the associated CacheRecord changes.
type Publication struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the publication abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Journal is the journal name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Date is the publication date.
	Date time.Time `json:"date" yaml:"date"`

	// DOI is the digital object identifier, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Passage is one block of a structured full-text document. A passage is
// either a structural heading (Heading set, Text empty) or body text.
type Passage struct {
	// Heading is the heading title when this passage is a structural heading.
	Heading string `json:"heading,omitempty" yaml:"heading,omitempty"`

	// Text is the passage body for non-heading passages.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// FullTextDocument is a structured full-text document as returned by the
// literature source. Passages appear in document order.
type FullTextDocument struct {
	// PMID identifies the source publication.
	PMID string `json:"pmid" yaml:"pmid"`

	// Passages holds headings and body text in document order.
	Passages []Passage `json:"passages" yaml:"passages"`
}

// CacheLevel indicates which text sections are cached for a publication.
// Levels are ordered: abstract_only < minimal < full. A publication's
// level never decreases.
type CacheLevel string

const (
	LevelAbstractOnly CacheLevel = "abstract_only"
	LevelMinimal      CacheLevel = "minimal"
	LevelFull         CacheLevel = "full"
)

// Rank returns the ordering position of the level. Unknown levels rank
// below abstract_only so a malformed record can always be repaired by a
// fresh write.
func (l CacheLevel) Rank() int {
	switch l {
	case LevelAbstractOnly:
		return 1
	case LevelMinimal:
		return 2
	case LevelFull:
		return 3
	}
	return 0
}

// MaxLevel returns the higher of two cache levels.
func MaxLevel(a, b CacheLevel) CacheLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// CacheFields holds the per-section text supplied to a cache write or
// upgrade. Empty fields never overwrite previously cached text.
type CacheFields struct {
	Abstract     string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Introduction string `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Methods      string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Results      string `json:"results,omitempty" yaml:"results,omitempty"`
	Discussion   string `json:"discussion,omitempty" yaml:"discussion,omitempty"`
}

// CacheRecord is the persisted text cache for one publication.
type CacheRecord struct {
	// PMID identifies the publication.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the publication title, kept with the cached text so the
	// review payload can be built without a second metadata fetch.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Abstract, Introduction, Methods, Results, and Discussion hold the
	// cached section text. Any of them may be empty.
	Abstract     string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Introduction string `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Methods      string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Results      string `json:"results,omitempty" yaml:"results,omitempty"`
	Discussion   string `json:"discussion,omitempty" yaml:"discussion,omitempty"`

	// CacheLevel indicates which sections this record is expected to carry.
	CacheLevel CacheLevel `json:"cache_level" yaml:"cache_level"`

	// FetchDate records when the record was first created.
	FetchDate time.Time `json:"fetch_date" yaml:"fetch_date"`

	// UpgradeDate records the most recent upgrade. Zero if never upgraded.
	UpgradeDate time.Time `json:"upgrade_date,omitempty" yaml:"upgrade_date,omitempty"`
}

// Sections returns the cached text keyed by canonical section name,
// including the abstract. Empty sections are included with empty values.
func (r *CacheRecord) Sections() map[string]string {
	return map[string]string{
		"abstract":     r.Abstract,
		"introduction": r.Introduction,
		"methods":      r.Methods,
		"results":      r.Results,
		"discussion":   r.Discussion,
	}
}

// HasResults reports whether results text is cached.
func (r *CacheRecord) HasResults() bool { return r.Results != "" }

// HasDiscussion reports whether discussion text is cached.
func (r *CacheRecord) HasDiscussion() bool { return r.Discussion != "" }
