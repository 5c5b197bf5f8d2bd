// Copyright NF Open Science Initiative, 2026. All rights reserved.

package review

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Wire structures for the collaborator's output document.
type response struct {
	PublicationMetadata struct {
		PublicationType string `yaml:"publicationType" json:"publicationType"`
	} `yaml:"publicationMetadata" json:"publicationMetadata"`
	Verdicts          []responseVerdict     `yaml:"verdicts" json:"verdicts"`
	SuggestedMentions []responseMention     `yaml:"suggested_mentions" json:"suggested_mentions"`
	Observations      []responseObservation `yaml:"observations" json:"observations"`
}

type responseVerdict struct {
	Name           string  `yaml:"name" json:"name"`
	Type           string  `yaml:"type" json:"type"`
	Verdict        string  `yaml:"verdict" json:"verdict"`
	Confidence     float64 `yaml:"confidence" json:"confidence"`
	Reasoning      string  `yaml:"reasoning" json:"reasoning"`
	Recommendation string  `yaml:"recommendation" json:"recommendation"`
}

type responseMention struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Section string `yaml:"section" json:"section"`
	Snippet string `yaml:"snippet" json:"snippet"`
}

type responseObservation struct {
	ResourceName    string `yaml:"resource_name" json:"resource_name"`
	ResourceType    string `yaml:"resource_type" json:"resource_type"`
	ObservationType string `yaml:"observation_type" json:"observation_type"`
	Details         string `yaml:"details" json:"details"`
	DOI             string `yaml:"doi" json:"doi"`
}

// ParseResponse validates the collaborator's raw output against the
// submitted mentions and converts it into a review artifact. Every
// submitted mention must receive exactly one valid verdict; anything
// malformed or missing is a parse failure reported per publication.
func ParseResponse(pmid string, raw []byte, mentions []types.ToolMention) (*types.ReviewResult, error) {
	var resp response
	if err := yaml.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("malformed review output for %s: %w", pmid, err)
	}

	byKey := make(map[string]responseVerdict, len(resp.Verdicts))
	for _, v := range resp.Verdicts {
		byKey[verdictKey(v.Name, v.Type)] = v
	}

	result := &types.ReviewResult{
		PMID:            pmid,
		PublicationType: types.PublicationType(resp.PublicationMetadata.PublicationType),
		ReviewDate:      time.Now().UTC(),
	}

	seen := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		key := verdictKey(m.Name, string(m.Type))
		if seen[key] {
			continue
		}
		seen[key] = true

		v, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("review output for %s missing verdict for mention %q (%s)", pmid, m.Name, m.Type)
		}
		verdict := types.Verdict(v.Verdict)
		if !verdict.Valid() {
			return nil, fmt.Errorf("review output for %s: invalid verdict %q for mention %q", pmid, v.Verdict, m.Name)
		}
		if v.Confidence < 0 || v.Confidence > 1 {
			return nil, fmt.Errorf("review output for %s: confidence %v out of range [0,1] for mention %q", pmid, v.Confidence, m.Name)
		}

		result.Verdicts = append(result.Verdicts, types.ReviewVerdict{
			MentionName:    m.Name,
			MentionType:    m.Type,
			Verdict:        verdict,
			Confidence:     v.Confidence,
			Reasoning:      v.Reasoning,
			Recommendation: v.Recommendation,
		})
	}

	for _, sm := range resp.SuggestedMentions {
		if sm.Name == "" {
			continue
		}
		result.SuggestedMentions = append(result.SuggestedMentions, types.ToolMention{
			Name:    sm.Name,
			Type:    types.ResourceType(sm.Type),
			PMID:    pmid,
			Section: sm.Section,
			Snippet: sm.Snippet,
			Origin:  types.OriginSuggested,
		})
	}

	for _, o := range resp.Observations {
		if o.ResourceName == "" || o.Details == "" {
			continue
		}
		result.Observations = append(result.Observations, types.ObservationCandidate{
			ResourceName:    o.ResourceName,
			ResourceType:    types.ResourceType(o.ResourceType),
			ObservationType: o.ObservationType,
			Details:         o.Details,
			DOI:             o.DOI,
		})
	}

	return result, nil
}

func verdictKey(name, rtype string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.TrimSpace(rtype)
}
