package review

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockReviewer returns a canned verdict document per publication and
// counts calls.
type mockReviewer struct {
	calls   atomic.Int64
	outputs map[string]string // pmid → raw output
	err     error
}

func (m *mockReviewer) Review(_ context.Context, req Request) ([]byte, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.outputs[req.PMID]), nil
}

func acceptAllOutput(mentions []types.ToolMention) string {
	var b strings.Builder
	b.WriteString("publicationMetadata:\n  publicationType: Lab Research\nverdicts:\n")
	for _, m := range mentions {
		b.WriteString("  - name: " + m.Name + "\n")
		b.WriteString("    type: \"" + string(m.Type) + "\"\n")
		b.WriteString("    verdict: Accept\n    confidence: 0.9\n")
	}
	return b.String()
}

func testItem(pmid string) Item {
	rec := &types.CacheRecord{
		PMID:       pmid,
		Title:      "Study " + pmid,
		Abstract:   "abstract",
		Methods:    "ST88-14 cells were cultured.",
		CacheLevel: types.LevelMinimal,
		FetchDate:  time.Now().UTC(),
	}
	return Item{
		Record: rec,
		Mentions: []types.ToolMention{
			{Name: "ST88-14", Type: types.TypeCellLine, PMID: pmid, Section: "methods", Origin: types.OriginMined},
		},
	}
}

func TestReviewBatchWritesArtifacts(t *testing.T) {
	artifacts, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	item := testItem("12345")
	reviewer := &mockReviewer{outputs: map[string]string{
		"12345": acceptAllOutput(item.Mentions),
	}}

	var out bytes.Buffer
	summary := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, &out)

	assert.Equal(t, 1, summary.Reviewed)
	assert.Equal(t, 0, summary.Skipped)
	assert.False(t, summary.HasFailures())
	assert.Equal(t, 1, summary.Accepted)
	assert.Equal(t, 1, summary.PublicationTypes["Lab Research"])
	assert.NotEmpty(t, summary.RunID)

	got, err := artifacts.Read("12345")
	require.NoError(t, err)
	assert.Len(t, got.Verdicts, 1)
	assert.Equal(t, types.VerdictAccept, got.Verdicts[0].Verdict)
}

func TestReviewBatchSkipIdempotence(t *testing.T) {
	dir := t.TempDir()
	artifacts, err := NewArtifactStore(dir)
	require.NoError(t, err)

	item := testItem("12345")
	reviewer := &mockReviewer{outputs: map[string]string{
		"12345": acceptAllOutput(item.Mentions),
	}}

	first := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, os.Stderr)
	require.Equal(t, 1, first.Reviewed)
	require.EqualValues(t, 1, reviewer.calls.Load())

	before, err := os.ReadFile(artifacts.path("12345"))
	require.NoError(t, err)

	// Second run: no collaborator call and no artifact change.
	second := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, os.Stderr)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 0, second.Reviewed)
	assert.EqualValues(t, 1, reviewer.calls.Load())

	after, err := os.ReadFile(artifacts.path("12345"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "artifact must be byte-identical after a skipped run")
}

func TestReviewBatchForceRereview(t *testing.T) {
	artifacts, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	item := testItem("12345")
	reviewer := &mockReviewer{outputs: map[string]string{
		"12345": acceptAllOutput(item.Mentions),
	}}

	ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, os.Stderr)
	summary := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{Force: true}, os.Stderr)

	assert.Equal(t, 1, summary.Reviewed)
	assert.EqualValues(t, 2, reviewer.calls.Load())
}

func TestReviewBatchFailureLeavesPublicationPending(t *testing.T) {
	artifacts, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	item := testItem("12345")
	reviewer := &mockReviewer{err: errors.New("collaborator unreachable")}

	var out bytes.Buffer
	summary := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, &out)

	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "collaborator unreachable")

	// No artifact: the publication stays pending and a later run retries it.
	exists, err := artifacts.Exists("12345")
	require.NoError(t, err)
	assert.False(t, exists)

	reviewer.err = nil
	reviewer.outputs = map[string]string{"12345": acceptAllOutput(item.Mentions)}
	retry := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, &out)
	assert.Equal(t, 1, retry.Reviewed)
}

func TestReviewBatchMalformedOutputIsFailure(t *testing.T) {
	artifacts, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	item := testItem("12345")
	reviewer := &mockReviewer{outputs: map[string]string{"12345": "verdicts: [unclosed"}}

	summary := ReviewBatch(context.Background(), reviewer, artifacts, []Item{item}, Options{}, os.Stderr)
	assert.Equal(t, 1, summary.Failed)

	exists, err := artifacts.Exists("12345")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReviewBatchWorkerPool(t *testing.T) {
	artifacts, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	var items []Item
	outputs := make(map[string]string)
	for _, pmid := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		item := testItem(pmid)
		items = append(items, item)
		outputs[pmid] = acceptAllOutput(item.Mentions)
	}
	reviewer := &mockReviewer{outputs: outputs}

	var out bytes.Buffer
	summary := ReviewBatch(context.Background(), reviewer, artifacts, items, Options{Workers: 4}, &out)

	assert.Equal(t, 8, summary.Reviewed)
	assert.EqualValues(t, 8, reviewer.calls.Load())

	// One artifact per publication, regardless of worker interleaving.
	pmids, err := artifacts.List()
	require.NoError(t, err)
	assert.Len(t, pmids, 8)
}

func TestBuildRequest(t *testing.T) {
	rec := &types.CacheRecord{
		PMID:     "12345",
		Title:    "A study",
		Abstract: "abstract text",
		Methods:  "methods text",
		Results:  "results text",
	}
	req := BuildRequest(rec, nil)

	assert.Equal(t, "abstract text", req.Abstract)
	assert.True(t, req.HasResults)
	assert.False(t, req.HasDiscussion)
	assert.Equal(t, "methods text", req.Sections["methods"])
	_, hasAbstract := req.Sections["abstract"]
	assert.False(t, hasAbstract, "abstract travels in its own field")
	_, hasDiscussion := req.Sections["discussion"]
	assert.False(t, hasDiscussion, "empty sections are omitted")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	summary := RunSummary{RunID: "test-run", Reviewed: 2, Skipped: 1,
		PublicationTypes: map[string]int{"Lab Research": 2}}

	path, err := WriteReport(dir, summary)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reviewed: 2")
	assert.Contains(t, string(data), "Lab Research")
}
