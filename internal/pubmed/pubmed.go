// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package pubmed is the NCBI client: publication metadata via the
// E-utilities esummary endpoint, structured full text via the BioC
// PMC endpoint.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/httputil"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute an httptest server.
var (
	summaryAPIBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
	fullTextAPIBase = "https://www.ncbi.nlm.nih.gov/research/bionlp/RESTful/pmcoa.cgi/BioC_json"
)

// Client fetches publication data from NCBI.
type Client struct {
	http      *http.Client
	apiKey    string
	userAgent string
}

// NewClient builds a client from the fetch configuration. The API key is
// optional; without one NCBI enforces the lower unauthenticated rate limit.
func NewClient(cfg types.FetchConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
	}
}

// summaryEnvelope mirrors the esummary JSON layout: a result object keyed
// by PMID, plus a uids list we ignore.
type summaryEnvelope struct {
	Result map[string]summaryRecord `json:"result"`
}

type summaryRecord struct {
	Title    string          `json:"title"`
	Authors  []summaryAuthor `json:"authors"`
	Source   string          `json:"source"`
	PubDate  string          `json:"pubdate"`
	ELocID   string          `json:"elocationid"`
	Abstract string          `json:"abstract"`
}

type summaryAuthor struct {
	Name string `json:"name"`
}

// FetchSummary retrieves publication metadata for one PMID.
func (c *Client) FetchSummary(ctx context.Context, pmid string) (*types.Publication, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", pmid)
	q.Set("retmode", "json")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	var envelope summaryEnvelope
	if err := httputil.GetJSON(ctx, c.http, summaryAPIBase+"?"+q.Encode(), c.userAgent, &envelope); err != nil {
		return nil, fmt.Errorf("fetching summary for %s: %w", pmid, err)
	}

	rec, ok := envelope.Result[pmid]
	if !ok {
		return nil, fmt.Errorf("fetching summary for %s: no record in response", pmid)
	}

	pub := &types.Publication{
		PMID:     pmid,
		Title:    rec.Title,
		Abstract: rec.Abstract,
		Journal:  rec.Source,
		DOI:      parseELocationID(rec.ELocID),
	}
	for _, a := range rec.Authors {
		pub.Authors = append(pub.Authors, a.Name)
	}
	if d, err := parsePubDate(rec.PubDate); err == nil {
		pub.Date = d
	}
	return pub, nil
}

// parseELocationID extracts a DOI from esummary's elocationid field, which
// arrives as "doi: 10.1000/xyz" when present.
func parseELocationID(s string) string {
	const prefix = "doi: "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return ""
}

// parsePubDate handles the date granularities esummary emits.
func parsePubDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006 Jan 2", "2006 Jan", "2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized pubdate %q", s)
}

// biocEnvelope mirrors the BioC JSON layout: a list of collections, each
// holding documents of passages. The passage infons carry the section type.
type biocEnvelope []struct {
	Documents []struct {
		Passages []struct {
			Infons map[string]string `json:"infons"`
			Text   string            `json:"text"`
		} `json:"passages"`
	} `json:"documents"`
}

// FetchFullText retrieves the structured full text for a PMID from the PMC
// open-access BioC service. The second return value reports availability:
// (nil, false, nil) means the publication has no open-access full text,
// which is a normal outcome, not an error.
func (c *Client) FetchFullText(ctx context.Context, pmid string) (*types.FullTextDocument, bool, error) {
	u := fmt.Sprintf("%s/%s/unicode", fullTextAPIBase, url.PathEscape(pmid))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building full-text request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, false, fmt.Errorf("fetching full text for %s: %w", pmid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetching full text for %s: unexpected status %d", pmid, resp.StatusCode)
	}

	var envelope biocEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false, fmt.Errorf("parsing full text for %s: %w", pmid, err)
	}

	doc := &types.FullTextDocument{PMID: pmid}
	for _, coll := range envelope {
		for _, d := range coll.Documents {
			for _, p := range d.Passages {
				switch p.Infons["section_type"] {
				case "TITLE":
					doc.Passages = append(doc.Passages, types.Passage{Heading: p.Text})
				default:
					if p.Infons["type"] == "title" {
						doc.Passages = append(doc.Passages, types.Passage{Heading: p.Text})
						continue
					}
					doc.Passages = append(doc.Passages, types.Passage{Text: p.Text})
				}
			}
		}
	}
	if len(doc.Passages) == 0 {
		return nil, false, nil
	}
	return doc, true, nil
}
