// Copyright NF Open Science Initiative, 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "resources.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedResources(t *testing.T, s *Store) {
	t.Helper()
	err := s.ImportResources(context.Background(), []types.ResourceRecord{
		{
			ResourceID:   "syn200",
			ResourceType: types.TypeCellLine,
			ResourceName: "ipNF95.5",
			Synonyms:     []string{"ipNF 95.5"},
			RRID:         "CVCL_C467",
			Vendor:       "ATCC",
			Attributes:   map[string]string{"tissue": "plexiform neurofibroma"},
		},
		{
			ResourceID:   "syn100",
			ResourceType: types.TypeCellLine,
			ResourceName: "ipNF95.5",
			RRID:         "CVCL_C467",
		},
		{
			ResourceID:   "syn300",
			ResourceType: types.TypeAnimalModel,
			ResourceName: "Nf1 flox/flox",
			DOI:          "10.1000/nf1-model",
		},
	})
	require.NoError(t, err)
}

func TestFindResourcesOrderedByID(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	found, err := s.FindResources(context.Background(), "ipNF95.5", types.TypeCellLine)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "syn100", found[0].ResourceID)
	assert.Equal(t, "syn200", found[1].ResourceID)
}

func TestFindResourcesRequiresExactNameAndType(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	ctx := context.Background()

	found, err := s.FindResources(ctx, "ipNF95.5", types.TypeAnimalModel)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.FindResources(ctx, "ipnf95.5", types.TypeCellLine)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestResourceRoundTripPreservesFields(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	found, err := s.FindResources(context.Background(), "ipNF95.5", types.TypeCellLine)
	require.NoError(t, err)
	require.Len(t, found, 2)

	full := found[1]
	assert.Equal(t, []string{"ipNF 95.5"}, full.Synonyms)
	assert.Equal(t, "CVCL_C467", full.RRID)
	assert.Equal(t, "ATCC", full.Vendor)
	assert.Equal(t, "plexiform neurofibroma", full.Attributes["tissue"])
	assert.True(t, full.Has("tissue"))
}

func TestImportRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	err := s.ImportResources(context.Background(), []types.ResourceRecord{
		{ResourceID: "syn100", ResourceType: types.TypeCellLine, ResourceName: "other"},
	})
	assert.Error(t, err)
}

func TestImportRejectsUnknownType(t *testing.T) {
	s := openTestStore(t)

	err := s.ImportResources(context.Background(), []types.ResourceRecord{
		{ResourceID: "syn900", ResourceType: "Gadget", ResourceName: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resource type")

	// The transaction rolled back, nothing was written.
	all, err := s.AllResources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestObservationsAppendInOrder(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	ctx := context.Background()
	obs := []types.Observation{
		{ResourceID: "syn100", ObservationType: "usage", Details: "used as control line", DOI: "10.1/a"},
		{ResourceID: "syn100", ObservationType: "depletion", Details: "stocks exhausted"},
		{ResourceID: "syn300", ObservationType: "usage", Details: "bred for cohort"},
	}
	for _, o := range obs {
		require.NoError(t, s.AppendObservation(ctx, o))
	}

	got, err := s.ObservationsFor(ctx, "syn100")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "used as control line", got[0].Details)
	assert.Equal(t, "10.1/a", got[0].DOI)
	assert.Equal(t, "stocks exhausted", got[1].Details)

	got, err = s.ObservationsFor(ctx, "syn200")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDatasetsForResource(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	ctx := context.Background()
	require.NoError(t, s.AddDataset(ctx, types.Dataset{
		DatasetID: "ds2", ResourceID: "syn300", Name: "phenotyping", DOI: "10.2/b",
	}))
	require.NoError(t, s.AddDataset(ctx, types.Dataset{
		DatasetID: "ds1", ResourceID: "syn300", Name: "rnaseq",
	}))

	got, err := s.DatasetsFor(ctx, "syn300")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ds1", got[0].DatasetID)
	assert.Equal(t, "ds2", got[1].DatasetID)

	got, err = s.DatasetsFor(ctx, "syn100")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAllResourcesOrdered(t *testing.T) {
	s := openTestStore(t)
	seedResources(t, s)

	all, err := s.AllResources(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "syn100", all[0].ResourceID)
	assert.Equal(t, "syn200", all[1].ResourceID)
	assert.Equal(t, "syn300", all[2].ResourceID)
}
