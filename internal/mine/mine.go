// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package mine scans cached publication text for tool-name patterns and
// produces candidate mentions for review.
package mine

import (
	"strings"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// sectionOrder fixes the scan order so mining is deterministic. Methods
// lead because that is where tools are named with acquisition detail.
var sectionOrder = []string{"methods", "results", "discussion", "introduction", "abstract"}

const snippetRadius = 80

// FromRecord mines a cached publication. Given identical cached text and
// the same pattern table, the returned candidate list is identical and
// order-stable. Exact duplicates within a section collapse to the first
// occurrence; the same mention found in different sections is kept per
// section, and the resolver collapses those after review.
func FromRecord(rec *types.CacheRecord) []types.ToolMention {
	return Scan(rec.PMID, rec.Sections())
}

// Scan mines the given section texts for tool mentions.
func Scan(pmid string, sections map[string]string) []types.ToolMention {
	var mentions []types.ToolMention
	seen := make(map[string]bool)

	for _, section := range sectionOrder {
		text := sections[section]
		if text == "" {
			continue
		}
		for _, rule := range rules {
			for _, idx := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
				name := matchGroup(text, idx, rule.NameGroup)
				if name == "" {
					continue
				}
				key := section + "|" + strings.ToLower(name) + "|" + string(rule.Type)
				if seen[key] {
					continue
				}
				seen[key] = true
				mentions = append(mentions, types.ToolMention{
					Name:    name,
					Type:    rule.Type,
					PMID:    pmid,
					Section: section,
					Snippet: snippet(text, idx[0], idx[1]),
					Origin:  types.OriginMined,
				})
			}
		}
	}
	return mentions
}

// matchGroup extracts the rule's name group from a FindAllStringSubmatchIndex
// entry, trimmed. Returns "" when the group did not participate in the match.
func matchGroup(text string, idx []int, group int) string {
	start, end := idx[2*group], idx[2*group+1]
	if start < 0 || end < 0 {
		return ""
	}
	return strings.TrimSpace(text[start:end])
}

// snippet returns the text surrounding a match, clipped to word-safe
// whitespace and collapsed to one line.
func snippet(text string, start, end int) string {
	lo := start - snippetRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + snippetRadius
	if hi > len(text) {
		hi = len(text)
	}
	s := text[lo:hi]
	if lo > 0 {
		if i := strings.IndexByte(s, ' '); i >= 0 {
			s = s[i+1:]
		}
	}
	if hi < len(text) {
		if i := strings.LastIndexByte(s, ' '); i >= 0 {
			s = s[:i]
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
