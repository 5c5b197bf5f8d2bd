// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package resolve partitions reviewed tool mentions into accepted,
// rejected, and uncertain sets and filters submission tables accordingly.
package resolve

import (
	"strings"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// ResolvedMention is a mention paired with its verdict detail.
type ResolvedMention struct {
	types.ToolMention

	Confidence float64
	Reasoning  string
}

// Resolution partitions a publication's mentions by verdict. Accepted
// mentions feed the submission tables; rejected mentions are removed from
// submission output; uncertain mentions are flagged for manual review and
// excluded from automatic submission.
type Resolution struct {
	Accepted  []ResolvedMention
	Rejected  []ResolvedMention
	Uncertain []ResolvedMention
}

// Merge appends another resolution's partitions, deduplicating accepted
// mentions by identity so each accepted tool appears exactly once.
func (r *Resolution) Merge(other Resolution) {
	seen := make(map[string]bool, len(r.Accepted))
	for _, m := range r.Accepted {
		seen[m.Key()] = true
	}
	for _, m := range other.Accepted {
		if seen[m.Key()] {
			continue
		}
		seen[m.Key()] = true
		r.Accepted = append(r.Accepted, m)
	}
	r.Rejected = append(r.Rejected, other.Rejected...)
	r.Uncertain = append(r.Uncertain, other.Uncertain...)
}

// Resolve is a pure function over candidate mentions and their verdicts.
// A mention mined from several sections resolves once: the first
// occurrence carries the snippet, later duplicates collapse into it.
// Mentions without any verdict are treated as uncertain; nothing is
// silently dropped.
func Resolve(mentions []types.ToolMention, verdicts []types.ReviewVerdict) Resolution {
	byKey := make(map[string]types.ReviewVerdict, len(verdicts))
	for _, v := range verdicts {
		byKey[verdictKey(v.MentionName, v.MentionType)] = v
	}

	var res Resolution
	seen := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		key := verdictKey(m.Name, m.Type)
		if seen[key] {
			continue
		}
		seen[key] = true

		v, ok := byKey[key]
		if !ok {
			res.Uncertain = append(res.Uncertain, ResolvedMention{ToolMention: m})
			continue
		}

		rm := ResolvedMention{ToolMention: m, Confidence: v.Confidence, Reasoning: v.Reasoning}
		switch v.Verdict {
		case types.VerdictAccept:
			res.Accepted = append(res.Accepted, rm)
		case types.VerdictReject:
			res.Rejected = append(res.Rejected, rm)
		default:
			res.Uncertain = append(res.Uncertain, rm)
		}
	}
	return res
}

func verdictKey(name string, rtype types.ResourceType) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + string(rtype)
}
