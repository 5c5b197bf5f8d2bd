// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package score computes deterministic documentation-completeness scores
// for persisted resource records.
//
// Scoring is a pure function of the current resource record, its linked
// observations, and its linked datasets. There is no incremental state;
// every run recomputes from scratch.
package score

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Component maxima.
const (
	availabilityMax = 30.0
	criticalMax     = 30.0
	otherMax        = 15.0
	observationsMax = 25.0
	datasetsMax     = 10.0
)

// profile is the static per-type scoring table: the critical and
// secondary field lists a record of that type is scored against. One
// scoring function parametrized by this table replaces per-type branching.
type profile struct {
	critical []string
	other    []string
}

var profiles = map[types.ResourceType]profile{
	types.TypeAnimalModel: {
		critical: []string{"animalModelOfManifestation", "animalModelGeneticDisorder", "backgroundStrain", "animalType", "synonyms"},
		other:    []string{"animalState", "generation"},
	},
	types.TypeCellLine: {
		critical: []string{"cellLineCategory", "cellLineGeneticDisorder", "cellLineManifestation", "synonyms"},
		other:    []string{"tissue"},
	},
	types.TypeAntibody: {
		critical: []string{"targetAntigen", "hostOrganism", "clonality", "reactiveSpecies"},
		other:    []string{"conjugate"},
	},
	types.TypeGeneticReagent: {
		critical: []string{"insertName", "vectorType", "insertSpecies", "synonyms"},
		other:    []string{"promoter", "selectionMarker"},
	},
	types.TypeBiobank: {
		critical: []string{"specimenType", "diseaseType", "sampleSize", "accessRequirements"},
		other:    []string{"contactInformation"},
	},
	types.TypeComputationalTool: {
		critical: []string{"softwareType", "inputDataType", "outputDataType", "operatingSystem"},
		other:    []string{"license", "programmingLanguage"},
	},
	types.TypeAdvancedCellularModel: {
		critical: []string{"modelSystem", "cellType", "geneticDisorder", "manifestation"},
		other:    []string{"cultureConditions"},
	},
	types.TypePatientDerivedModel: {
		critical: []string{"modelType", "tumorType", "geneticDisorder", "passageNumber"},
		other:    []string{"hostStrain"},
	},
	types.TypeClinicalAssessmentTool: {
		critical: []string{"assessmentDomain", "ageRange", "administrationMethod", "validationStatus"},
		other:    []string{"scoringMethod", "language"},
	},
}

// Score computes the completeness score for one resource record. The
// total is the sum of five components and lies in [0,110].
func Score(r types.ResourceRecord, observations []types.Observation, datasets []types.Dataset) (types.CompletenessScore, error) {
	p, ok := profiles[r.ResourceType]
	if !ok {
		return types.CompletenessScore{}, fmt.Errorf("no scoring profile for resource type %q", r.ResourceType)
	}

	s := types.CompletenessScore{
		ResourceID:   r.ResourceID,
		ResourceType: r.ResourceType,
		Availability: availability(r),
		Critical:     fieldScore(r, p.critical, criticalMax),
		Other:        fieldScore(r, p.other, otherMax),
		Observations: observationScore(observations),
		Datasets:     datasetScore(datasets),
	}
	s.Total = s.Availability + s.Critical + s.Other + s.Observations + s.Datasets
	s.Category = Category(s.Total)
	return s, nil
}

// availability scores acquisition information. Biobanks are all-or-nothing
// on the access URL; every other type accumulates vendor info, RRID, and a
// linked publication DOI, capped at the component maximum.
func availability(r types.ResourceRecord) float64 {
	if r.ResourceType == types.TypeBiobank {
		if r.Has("biobankURL") {
			return availabilityMax
		}
		return 0
	}

	var pts float64
	if r.Has("vendor") {
		pts += 15
	}
	if r.Has("rrid") {
		pts += 7.5
	}
	if r.Has("doi") {
		pts += 7.5
	}
	if pts > availabilityMax {
		pts = availabilityMax
	}
	return pts
}

// fieldScore awards max/len(fields) per present field.
func fieldScore(r types.ResourceRecord, fields []string, max float64) float64 {
	if len(fields) == 0 {
		return 0
	}
	per := max / float64(len(fields))
	var pts float64
	for _, f := range fields {
		if r.Has(f) {
			pts += per
		}
	}
	return pts
}

// observationScore awards 7.5 per DOI-attributed observation and 2.5
// otherwise, capped at 25.
func observationScore(observations []types.Observation) float64 {
	var pts float64
	for _, o := range observations {
		if o.DOI != "" {
			pts += 7.5
		} else {
			pts += 2.5
		}
	}
	if pts > observationsMax {
		pts = observationsMax
	}
	return pts
}

// datasetScore awards 5 for the first linked dataset and 2.5 each for the
// second and third; further datasets add nothing.
func datasetScore(datasets []types.Dataset) float64 {
	switch {
	case len(datasets) == 0:
		return 0
	case len(datasets) == 1:
		return 5
	case len(datasets) == 2:
		return 7.5
	default:
		return datasetsMax
	}
}

// Category maps a total to its qualitative band. Boundary totals belong
// to the higher band: 80 is Excellent, 60 is Good, and so on.
func Category(total float64) types.ScoreCategory {
	switch {
	case total >= 80:
		return types.CategoryExcellent
	case total >= 60:
		return types.CategoryGood
	case total >= 40:
		return types.CategoryFair
	case total >= 20:
		return types.CategoryPoor
	default:
		return types.CategoryMinimal
	}
}

// ScoreStore is the persistent-store surface the batch scorer reads.
type ScoreStore interface {
	AllResources(ctx context.Context) ([]types.ResourceRecord, error)
	ObservationsFor(ctx context.Context, resourceID string) ([]types.Observation, error)
	DatasetsFor(ctx context.Context, resourceID string) ([]types.Dataset, error)
}

// BatchSummary counts a scoring run.
type BatchSummary struct {
	Scored int
	Failed int

	// TypeErrors lists resource types whose scoring failed. A failure in
	// one type never blocks scoring of the others.
	TypeErrors []string
}

// HasFailures reports whether any resource failed scoring.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ScoreAll recomputes completeness for every resource in the store,
// grouped by type so a per-type failure is isolated. Results are sorted
// by resource ID for stable output.
func ScoreAll(ctx context.Context, store ScoreStore, w io.Writer) ([]types.CompletenessScore, BatchSummary, error) {
	resources, err := store.AllResources(ctx)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("listing resources: %w", err)
	}

	byType := make(map[types.ResourceType][]types.ResourceRecord)
	for _, r := range resources {
		byType[r.ResourceType] = append(byType[r.ResourceType], r)
	}

	var (
		scores  []types.CompletenessScore
		summary BatchSummary
	)

	for _, rt := range types.AllResourceTypes {
		records := byType[rt]
		failedType := false
		for _, r := range records {
			obs, err := store.ObservationsFor(ctx, r.ResourceID)
			if err != nil {
				fmt.Fprintf(w, "failed %s: %v\n", r.ResourceID, err)
				summary.Failed++
				failedType = true
				continue
			}
			ds, err := store.DatasetsFor(ctx, r.ResourceID)
			if err != nil {
				fmt.Fprintf(w, "failed %s: %v\n", r.ResourceID, err)
				summary.Failed++
				failedType = true
				continue
			}
			s, err := Score(r, obs, ds)
			if err != nil {
				fmt.Fprintf(w, "failed %s: %v\n", r.ResourceID, err)
				summary.Failed++
				failedType = true
				continue
			}
			scores = append(scores, s)
			summary.Scored++
		}
		if failedType {
			summary.TypeErrors = append(summary.TypeErrors, string(rt))
		}
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].ResourceID < scores[j].ResourceID })
	fmt.Fprintf(w, "\nscored: %d, failed: %d\n", summary.Scored, summary.Failed)
	return scores, summary, nil
}
