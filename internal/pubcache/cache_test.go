package pubcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestReadNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Read("99999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteCreatesRecord(t *testing.T) {
	s := testStore(t)

	rec, err := s.Write("12345", "A study", types.CacheFields{Abstract: "abstract text"}, types.LevelAbstractOnly)
	require.NoError(t, err)
	assert.Equal(t, "12345", rec.PMID)
	assert.Equal(t, types.LevelAbstractOnly, rec.CacheLevel)
	assert.False(t, rec.FetchDate.IsZero())
	assert.True(t, rec.UpgradeDate.IsZero())

	got, err := s.Read("12345")
	require.NoError(t, err)
	assert.Equal(t, "abstract text", got.Abstract)
	assert.Equal(t, "A study", got.Title)
}

func TestWriteNeverBlanksFields(t *testing.T) {
	s := testStore(t)

	_, err := s.Write("12345", "A study", types.CacheFields{
		Abstract: "abstract text",
		Methods:  "methods text",
	}, types.LevelMinimal)
	require.NoError(t, err)

	// A later write with empty fields must leave stored text intact.
	rec, err := s.Write("12345", "", types.CacheFields{Results: "results text"}, types.LevelAbstractOnly)
	require.NoError(t, err)

	assert.Equal(t, "abstract text", rec.Abstract)
	assert.Equal(t, "methods text", rec.Methods)
	assert.Equal(t, "results text", rec.Results)
	assert.Equal(t, "A study", rec.Title)
}

func TestCacheLevelMonotone(t *testing.T) {
	s := testStore(t)

	writes := []struct {
		level types.CacheLevel
		want  types.CacheLevel
	}{
		{types.LevelAbstractOnly, types.LevelAbstractOnly},
		{types.LevelFull, types.LevelFull},
		{types.LevelMinimal, types.LevelFull}, // lower level never downgrades
		{types.LevelAbstractOnly, types.LevelFull},
	}

	for _, w := range writes {
		rec, err := s.Write("12345", "", types.CacheFields{Abstract: "a"}, w.level)
		require.NoError(t, err)
		assert.Equal(t, w.want, rec.CacheLevel, "after write at %s", w.level)
	}
}

func TestUpgrade(t *testing.T) {
	s := testStore(t)

	_, err := s.Write("12345", "A study", types.CacheFields{
		Abstract: "abstract text",
		Methods:  "methods v1",
	}, types.LevelMinimal)
	require.NoError(t, err)

	rec, err := s.Upgrade("12345", types.CacheFields{
		Results:    "results text",
		Discussion: "discussion text",
	})
	require.NoError(t, err)

	assert.Equal(t, types.LevelFull, rec.CacheLevel)
	assert.False(t, rec.UpgradeDate.IsZero())
	// Previously populated fields survive the merge.
	assert.Equal(t, "abstract text", rec.Abstract)
	assert.Equal(t, "methods v1", rec.Methods)
	assert.Equal(t, "results text", rec.Results)

	// Re-upgrading with the same fields changes nothing but the timestamp.
	again, err := s.Upgrade("12345", types.CacheFields{
		Results:    "results text",
		Discussion: "discussion text",
	})
	require.NoError(t, err)
	assert.Equal(t, rec.Abstract, again.Abstract)
	assert.Equal(t, rec.Methods, again.Methods)
	assert.Equal(t, rec.Results, again.Results)
	assert.Equal(t, rec.Discussion, again.Discussion)
	assert.Equal(t, rec.CacheLevel, again.CacheLevel)
}

func TestUpgradeMissingRecord(t *testing.T) {
	s := testStore(t)
	_, err := s.Upgrade("404", types.CacheFields{Results: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := testStore(t)
	for _, pmid := range []string{"111", "222", "333"} {
		_, err := s.Write(pmid, "", types.CacheFields{Abstract: "a"}, types.LevelAbstractOnly)
		require.NoError(t, err)
	}
	pmids, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"111", "222", "333"}, pmids)
}
