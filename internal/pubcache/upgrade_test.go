package pubcache

import (
	"testing"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

func TestShouldUpgradeConjunction(t *testing.T) {
	policy := types.DefaultUpgradePolicy()

	accepting := []types.ReviewVerdict{
		{MentionName: "Nf1 flox", MentionType: types.TypeAnimalModel, Verdict: types.VerdictAccept, Confidence: 0.9},
	}
	lowConfidence := []types.ReviewVerdict{
		{MentionName: "Nf1 flox", MentionType: types.TypeAnimalModel, Verdict: types.VerdictAccept, Confidence: 0.79},
	}
	rejecting := []types.ReviewVerdict{
		{MentionName: "NF1", MentionType: types.TypeAntibody, Verdict: types.VerdictReject, Confidence: 0.95},
	}

	tests := []struct {
		name         string
		verdicts     []types.ReviewVerdict
		completeness float64
		pubType      types.PublicationType
		want         bool
	}{
		{"all three hold", accepting, 0.7, types.PubLabResearch, true},
		{"clinical study allowed", accepting, 0.6, types.PubClinicalStudy, true},
		{"boundary thresholds hold", []types.ReviewVerdict{
			{Verdict: types.VerdictAccept, Confidence: 0.8},
		}, 0.6, types.PubLabResearch, true},
		{"confidence below threshold", lowConfidence, 0.9, types.PubLabResearch, false},
		{"no accepting verdict", rejecting, 0.9, types.PubLabResearch, false},
		{"no verdicts at all", nil, 0.9, types.PubLabResearch, false},
		{"completeness below threshold", accepting, 0.59, types.PubLabResearch, false},
		{"review article excluded", accepting, 0.9, types.PubReviewArticle, false},
		{"editorial excluded", accepting, 0.9, types.PubEditorial, false},
		{"letter excluded", accepting, 0.9, types.PubLetter, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldUpgrade(tt.verdicts, tt.completeness, tt.pubType, policy)
			if got != tt.want {
				t.Errorf("ShouldUpgrade = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldUpgradeHighConfidenceRejectDoesNotCount(t *testing.T) {
	policy := types.DefaultUpgradePolicy()
	verdicts := []types.ReviewVerdict{
		{Verdict: types.VerdictReject, Confidence: 0.99},
		{Verdict: types.VerdictUncertain, Confidence: 0.99},
	}
	if ShouldUpgrade(verdicts, 1.0, types.PubLabResearch, policy) {
		t.Error("only accepting verdicts satisfy the confidence condition")
	}
}
