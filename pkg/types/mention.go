// Copyright NF Open Science Initiative, 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// MentionOrigin records how a tool mention entered the pipeline.
type MentionOrigin string

const (
	// OriginMined marks mentions produced by the pattern miner.
	OriginMined MentionOrigin = "mined"

	// OriginSuggested marks mentions added by the review collaborator.
	OriginSuggested MentionOrigin = "ai-suggested"
)

// ToolMention is a candidate occurrence of a research tool in publication
// text. Mentions are ephemeral: they exist within a pipeline run until a
// review verdict resolves them.
type ToolMention struct {
	// Name is the tool name as mined or suggested (e.g. "NF1").
	Name string `json:"name" yaml:"name"`

	// Type is the candidate resource type.
	Type ResourceType `json:"type" yaml:"type"`

	// PMID identifies the source publication.
	PMID string `json:"pmid" yaml:"pmid"`

	// Section names the cached section the mention was found in.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`

	// Snippet is the surrounding text.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Origin records whether the mention was mined or ai-suggested.
	Origin MentionOrigin `json:"origin" yaml:"origin"`
}

// Key is the mention's identity for verdict matching and set-difference
// filtering: (publication, name, type), with the name case-folded.
func (m ToolMention) Key() string {
	return m.PMID + "|" + strings.ToLower(m.Name) + "|" + string(m.Type)
}

// Verdict is the outcome of reviewing one mention against its publication.
type Verdict string

const (
	VerdictAccept    Verdict = "Accept"
	VerdictReject    Verdict = "Reject"
	VerdictUncertain Verdict = "Uncertain"
)

// Valid reports whether v is one of the three recognized verdicts.
func (v Verdict) Valid() bool {
	return v == VerdictAccept || v == VerdictReject || v == VerdictUncertain
}

// ReviewVerdict is the collaborator's judgement of a single mention.
type ReviewVerdict struct {
	// MentionName is the reviewed mention's name.
	MentionName string `json:"mention_name" yaml:"mention_name"`

	// MentionType is the reviewed mention's resource type.
	MentionType ResourceType `json:"mention_type" yaml:"mention_type"`

	// Verdict is Accept, Reject, or Uncertain.
	Verdict Verdict `json:"verdict" yaml:"verdict"`

	// Confidence is the collaborator's certainty in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Reasoning is the collaborator's free-text justification.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Recommendation is an optional follow-up suggestion.
	Recommendation string `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// ObservationCandidate is a scientific observation extracted by the review
// collaborator, not yet linked to a resource record.
type ObservationCandidate struct {
	// ResourceName is the name of the tool the observation concerns.
	ResourceName string `json:"resource_name" yaml:"resource_name"`

	// ResourceType is the tool's resource type.
	ResourceType ResourceType `json:"resource_type" yaml:"resource_type"`

	// ObservationType categorizes the finding (e.g. "Body Weight").
	ObservationType string `json:"observation_type" yaml:"observation_type"`

	// Details is the observation text.
	Details string `json:"details" yaml:"details"`

	// DOI attributes the observation to a publication, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// ReviewResult is the immutable per-publication review artifact. Once
// written it is never modified by a non-forced run; its existence is the
// skip signal for subsequent runs.
type ReviewResult struct {
	// PMID identifies the reviewed publication.
	PMID string `json:"pmid" yaml:"pmid"`

	// PublicationType is the collaborator's classification of the publication.
	PublicationType PublicationType `json:"publication_type,omitempty" yaml:"publication_type,omitempty"`

	// Verdicts holds one verdict per submitted mention.
	Verdicts []ReviewVerdict `json:"verdicts" yaml:"verdicts"`

	// SuggestedMentions are additional candidates proposed by the collaborator.
	SuggestedMentions []ToolMention `json:"suggested_mentions,omitempty" yaml:"suggested_mentions,omitempty"`

	// Observations are extracted findings awaiting resource matching.
	Observations []ObservationCandidate `json:"observations,omitempty" yaml:"observations,omitempty"`

	// ReviewDate records when the review completed.
	ReviewDate time.Time `json:"review_date" yaml:"review_date"`
}
