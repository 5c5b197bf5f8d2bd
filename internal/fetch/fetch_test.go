// Copyright NF Open Science Initiative, 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/pubcache"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

type fakeSource struct {
	pubs         map[string]*types.Publication
	fullText     map[string]*types.FullTextDocument
	summaryCalls int
	fullCalls    int
}

func (f *fakeSource) FetchSummary(_ context.Context, pmid string) (*types.Publication, error) {
	f.summaryCalls++
	pub, ok := f.pubs[pmid]
	if !ok {
		return nil, fmt.Errorf("fetching summary for %s: no record in response", pmid)
	}
	return pub, nil
}

func (f *fakeSource) FetchFullText(_ context.Context, pmid string) (*types.FullTextDocument, bool, error) {
	f.fullCalls++
	doc, ok := f.fullText[pmid]
	if !ok {
		return nil, false, nil
	}
	return doc, true, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pubs: map[string]*types.Publication{
			"100": {PMID: "100", Title: "NF1 in Schwann cells", Abstract: "Background on NF1."},
			"200": {PMID: "200", Title: "MEK inhibition", Abstract: "Selumetinib trial."},
		},
		fullText: map[string]*types.FullTextDocument{
			"100": {PMID: "100", Passages: []types.Passage{
				{Heading: "Introduction"},
				{Text: "NF1 encodes neurofibromin."},
				{Heading: "Methods"},
				{Text: "HEK293 cells were cultured."},
				{Heading: "Results"},
				{Text: "Loss of NF1 increased RAS activity."},
				{Heading: "Discussion"},
				{Text: "These findings suggest a therapeutic window."},
			}},
		},
	}
}

func newCache(t *testing.T) *pubcache.Store {
	t.Helper()
	cache, err := pubcache.NewStore(t.TempDir())
	require.NoError(t, err)
	return cache
}

func TestFetchOneAbstractOnly(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	skipped, degraded, err := FetchOne(context.Background(), src, cache, "100", types.LevelAbstractOnly, &buf)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.False(t, degraded)
	assert.Equal(t, 0, src.fullCalls, "abstract_only must not fetch full text")

	rec, err := cache.Read("100")
	require.NoError(t, err)
	assert.Equal(t, types.LevelAbstractOnly, rec.CacheLevel)
	assert.Equal(t, "Background on NF1.", rec.Abstract)
	assert.Empty(t, rec.Methods)
}

func TestFetchOneMinimalCachesMethodsAndResults(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	_, _, err := FetchOne(context.Background(), src, cache, "100", types.LevelMinimal, &buf)
	require.NoError(t, err)

	rec, err := cache.Read("100")
	require.NoError(t, err)
	assert.Equal(t, types.LevelMinimal, rec.CacheLevel)
	assert.Equal(t, "HEK293 cells were cultured.", rec.Methods)
	assert.Equal(t, "Loss of NF1 increased RAS activity.", rec.Results)
	assert.Empty(t, rec.Introduction, "minimal level excludes introduction")
	assert.Empty(t, rec.Discussion, "minimal level excludes discussion")
}

func TestFetchOneFullCachesAllSections(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	_, _, err := FetchOne(context.Background(), src, cache, "100", types.LevelFull, &buf)
	require.NoError(t, err)

	rec, err := cache.Read("100")
	require.NoError(t, err)
	assert.Equal(t, types.LevelFull, rec.CacheLevel)
	assert.Equal(t, "NF1 encodes neurofibromin.", rec.Introduction)
	assert.Equal(t, "These findings suggest a therapeutic window.", rec.Discussion)
}

func TestFetchOneSkipsWhenCachedAtOrAboveLevel(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	_, _, err := FetchOne(context.Background(), src, cache, "100", types.LevelFull, &buf)
	require.NoError(t, err)
	require.Equal(t, 1, src.summaryCalls)

	// A lower or equal requested level hits the cache, not the network.
	for _, level := range []types.CacheLevel{types.LevelAbstractOnly, types.LevelMinimal, types.LevelFull} {
		skipped, _, err := FetchOne(context.Background(), src, cache, "100", level, &buf)
		require.NoError(t, err)
		assert.True(t, skipped, string(level))
	}
	assert.Equal(t, 1, src.summaryCalls)
	assert.Contains(t, buf.String(), "skipped 100")
}

func TestFetchOneRefetchesForHigherLevel(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	_, _, err := FetchOne(context.Background(), src, cache, "100", types.LevelAbstractOnly, &buf)
	require.NoError(t, err)

	skipped, _, err := FetchOne(context.Background(), src, cache, "100", types.LevelFull, &buf)
	require.NoError(t, err)
	assert.False(t, skipped)

	rec, err := cache.Read("100")
	require.NoError(t, err)
	assert.Equal(t, types.LevelFull, rec.CacheLevel)
	assert.Equal(t, "Background on NF1.", rec.Abstract, "earlier abstract survives the upgrade write")
}

func TestFetchOneDegradesWithoutFullText(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	// PMID 200 has a summary but no open-access full text.
	skipped, degraded, err := FetchOne(context.Background(), src, cache, "200", types.LevelFull, &buf)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.True(t, degraded)
	assert.Contains(t, buf.String(), "degraded 200")

	rec, err := cache.Read("200")
	require.NoError(t, err)
	assert.Equal(t, types.LevelAbstractOnly, rec.CacheLevel)
	assert.Equal(t, "Selumetinib trial.", rec.Abstract)
}

func TestFetchBatchContinuesPastFailures(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	result := FetchBatch(context.Background(), src, cache, []string{"100", "nope", "200"}, types.LevelMinimal, 0, &buf)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Degraded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Contains(t, buf.String(), "failed  nope")
	assert.Contains(t, buf.String(), "Fetch summary: 1 fetched, 0 skipped, 1 degraded, 1 failed (total: 3)")

	// The failure did not block the later publication.
	_, err := cache.Read("200")
	require.NoError(t, err)
}

func TestFetchBatchAllSkippedOnRerun(t *testing.T) {
	src := newFakeSource()
	cache := newCache(t)
	var buf bytes.Buffer

	pmids := []string{"100", "200"}
	first := FetchBatch(context.Background(), src, cache, pmids, types.LevelAbstractOnly, 0, &buf)
	require.False(t, first.HasFailures())

	second := FetchBatch(context.Background(), src, cache, pmids, types.LevelAbstractOnly, 0, &buf)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.Fetched)
	assert.False(t, second.HasFailures())
}
