// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package sections splits structured full-text documents into the four
// canonical publication sections by heuristic heading matching.
package sections

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// ErrDocumentMissing is returned when the full-text document is absent or
// empty. A missing individual section is not an error; it yields an empty
// string.
var ErrDocumentMissing = errors.New("full-text document missing")

// Canonical lists the section names Extract produces, in pipeline order.
var Canonical = []string{"introduction", "methods", "results", "discussion"}

// sectionPatterns maps each canonical section to the normalized heading
// titles that open it.
var sectionPatterns = map[string][]string{
	"introduction": {
		"introduction",
		"background",
	},
	"methods": {
		"methods",
		"method",
		"materials and methods",
		"materials & methods",
		"methodology",
		"experimental procedures",
		"patients and methods",
	},
	"results": {
		"results",
		"result",
		"findings",
		"observations",
	},
	"discussion": {
		"discussion",
		"conclusion",
		"conclusions",
		"concluding remarks",
		"summary and discussion",
		"discussion and conclusions",
	},
}

// headingNumber strips leading outline numbering like "2." or "III)".
var headingNumber = regexp.MustCompile(`^[0-9ivxIVX]+[.)]?\s+`)

// Extract splits doc into the canonical sections. The first heading
// matching a section's pattern set opens that section; any later heading
// matching any pattern set (including the same one) closes it. Repeated
// same-named sections concatenate in document order. Headings matching no
// pattern set (subsection titles) do not close the open section. Missing
// sections are returned as empty strings.
func Extract(doc *types.FullTextDocument) (map[string]string, error) {
	if doc == nil || len(doc.Passages) == 0 {
		return nil, ErrDocumentMissing
	}

	parts := make(map[string][]string, len(Canonical))
	current := ""

	for _, p := range doc.Passages {
		if p.Heading != "" {
			if name, ok := matchHeading(p.Heading); ok {
				current = name
			}
			continue
		}
		if current == "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		parts[current] = append(parts[current], strings.TrimSpace(p.Text))
	}

	out := make(map[string]string, len(Canonical))
	for _, name := range Canonical {
		out[name] = strings.Join(parts[name], "\n\n")
	}
	return out, nil
}

// matchHeading returns the canonical section a heading opens, if any.
func matchHeading(heading string) (string, bool) {
	norm := normalizeHeading(heading)
	for _, name := range Canonical {
		for _, pat := range sectionPatterns[name] {
			if norm == pat {
				return name, true
			}
		}
	}
	return "", false
}

// normalizeHeading lowercases the title, trims whitespace and trailing
// punctuation, and strips leading outline numbering.
func normalizeHeading(h string) string {
	h = strings.TrimSpace(h)
	h = headingNumber.ReplaceAllString(h, "")
	h = strings.ToLower(h)
	h = strings.TrimRight(h, ".:;")
	return strings.TrimSpace(h)
}
