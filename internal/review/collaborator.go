// Copyright NF Open Science Initiative, 2026. All rights reserved.

package review

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Request is the payload sent to the review collaborator for one
// publication: metadata, the cached text, and the candidate mentions.
type Request struct {
	PMID     string `json:"pmid" yaml:"pmid"`
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`

	// Sections holds the cached section text (may be sparse).
	Sections map[string]string `json:"sections" yaml:"sections"`

	// HasResults and HasDiscussion flag which deep sections are available,
	// so the collaborator knows what evidence it is and is not seeing.
	HasResults    bool `json:"hasResults" yaml:"hasResults"`
	HasDiscussion bool `json:"hasDiscussion" yaml:"hasDiscussion"`

	// Mentions are the candidates requiring a verdict each.
	Mentions []types.ToolMention `json:"mentions" yaml:"mentions"`
}

// BuildRequest assembles the review payload from a cache record and its
// mined mentions. Empty sections are omitted from the payload.
func BuildRequest(rec *types.CacheRecord, mentions []types.ToolMention) Request {
	sections := make(map[string]string)
	for name, text := range rec.Sections() {
		if name == "abstract" || text == "" {
			continue
		}
		sections[name] = text
	}
	return Request{
		PMID:          rec.PMID,
		Title:         rec.Title,
		Abstract:      rec.Abstract,
		Sections:      sections,
		HasResults:    rec.HasResults(),
		HasDiscussion: rec.HasDiscussion(),
		Mentions:      mentions,
	}
}

// Reviewer is the external review collaborator: one synchronous call per
// publication, returning the raw structured output or a failure. Timeout
// and cancellation are first-class outcomes, not swallowed exceptions.
// Tests supply a mock.
type Reviewer interface {
	Review(ctx context.Context, req Request) ([]byte, error)
}

// CommandReviewer invokes the collaborator as a subprocess: the YAML
// payload goes to stdin and the structured verdict document is read from
// stdout. A non-zero exit or an expired timeout is a collaborator failure.
type CommandReviewer struct {
	// Command is the collaborator executable.
	Command string

	// Args are fixed arguments passed to every invocation.
	Args []string

	// Timeout bounds one call. Zero means 5 minutes.
	Timeout time.Duration
}

const defaultReviewTimeout = 5 * time.Minute

// Review runs the collaborator once for req.
func (c *CommandReviewer) Review(ctx context.Context, req Request) ([]byte, error) {
	payload, err := yaml.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling review payload for %s: %w", req.PMID, err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultReviewTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("review of %s timed out after %v: %w", req.PMID, timeout, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("review collaborator failed for %s: %w: %s", req.PMID, err, msg)
		}
		return nil, fmt.Errorf("review collaborator failed for %s: %w", req.PMID, err)
	}

	return stdout.Bytes(), nil
}
