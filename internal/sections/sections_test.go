package sections

import (
	"testing"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

func doc(passages ...types.Passage) *types.FullTextDocument {
	return &types.FullTextDocument{PMID: "12345", Passages: passages}
}

func heading(t string) types.Passage { return types.Passage{Heading: t} }
func text(t string) types.Passage    { return types.Passage{Text: t} }

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		doc  *types.FullTextDocument
		want map[string]string
	}{
		{
			name: "four sections in order",
			doc: doc(
				heading("Introduction"), text("intro text"),
				heading("Materials and Methods"), text("methods text"),
				heading("Results"), text("results text"),
				heading("Discussion"), text("discussion text"),
			),
			want: map[string]string{
				"introduction": "intro text",
				"methods":      "methods text",
				"results":      "results text",
				"discussion":   "discussion text",
			},
		},
		{
			name: "numbered headings and trailing punctuation",
			doc: doc(
				heading("2. METHODS:"), text("methods text"),
				heading("3) Findings"), text("results text"),
			),
			want: map[string]string{
				"introduction": "",
				"methods":      "methods text",
				"results":      "results text",
				"discussion":   "",
			},
		},
		{
			name: "subsection heading does not close section",
			doc: doc(
				heading("Methods"), text("cell culture"),
				heading("Western blotting"), text("blot details"),
				heading("Results"), text("results text"),
			),
			want: map[string]string{
				"introduction": "",
				"methods":      "cell culture\n\nblot details",
				"results":      "results text",
				"discussion":   "",
			},
		},
		{
			name: "repeated section concatenates in document order",
			doc: doc(
				heading("Results"), text("first block"),
				heading("Discussion"), text("discussed"),
				heading("Results"), text("second block"),
			),
			want: map[string]string{
				"introduction": "",
				"methods":      "",
				"results":      "first block\n\nsecond block",
				"discussion":   "discussed",
			},
		},
		{
			name: "same-name pattern closes previous section",
			doc: doc(
				heading("Discussion"), text("discussion body"),
				heading("Conclusions"), text("conclusion body"),
			),
			want: map[string]string{
				"introduction": "",
				"methods":      "",
				"results":      "",
				"discussion":   "discussion body\n\nconclusion body",
			},
		},
		{
			name: "text before any matching heading is dropped",
			doc: doc(
				text("preamble"),
				heading("Background"), text("intro body"),
			),
			want: map[string]string{
				"introduction": "intro body",
				"methods":      "",
				"results":      "",
				"discussion":   "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.doc)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			for _, name := range Canonical {
				if got[name] != tt.want[name] {
					t.Errorf("%s = %q, want %q", name, got[name], tt.want[name])
				}
			}
		})
	}
}

func TestExtractMissingDocument(t *testing.T) {
	if _, err := Extract(nil); err != ErrDocumentMissing {
		t.Errorf("nil doc: err = %v, want ErrDocumentMissing", err)
	}
	if _, err := Extract(&types.FullTextDocument{PMID: "1"}); err != ErrDocumentMissing {
		t.Errorf("empty doc: err = %v, want ErrDocumentMissing", err)
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Results  ", "results"},
		{"3. RESULTS", "results"},
		{"IV) Discussion and Conclusions", "discussion and conclusions"},
		{"Methods:", "methods"},
		{"Supplementary Figures", "supplementary figures"},
	}
	for _, tt := range tests {
		if got := normalizeHeading(tt.in); got != tt.want {
			t.Errorf("normalizeHeading(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
