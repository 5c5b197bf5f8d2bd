// Copyright NF Open Science Initiative, 2026. All rights reserved.

package types

// ScoreCategory is the qualitative band for a completeness total.
type ScoreCategory string

const (
	CategoryExcellent ScoreCategory = "Excellent"
	CategoryGood      ScoreCategory = "Good"
	CategoryFair      ScoreCategory = "Fair"
	CategoryPoor      ScoreCategory = "Poor"
	CategoryMinimal   ScoreCategory = "Minimal"
)

// CompletenessScore is the derived documentation score for one resource.
// It is recomputed from scratch each run; there is no incremental state.
type CompletenessScore struct {
	// ResourceID identifies the scored resource.
	ResourceID string `json:"resource_id" yaml:"resource_id"`

	// ResourceType is the resource's type.
	ResourceType ResourceType `json:"resource_type" yaml:"resource_type"`

	// Availability scores acquisition information (0-30).
	Availability float64 `json:"availability" yaml:"availability"`

	// Critical scores the type-specific critical field set (0-30).
	Critical float64 `json:"critical" yaml:"critical"`

	// Other scores the type-specific secondary field set (0-15).
	Other float64 `json:"other" yaml:"other"`

	// Observations scores linked observations (0-25, capped).
	Observations float64 `json:"observations" yaml:"observations"`

	// Datasets scores linked datasets (0-10, capped).
	Datasets float64 `json:"datasets" yaml:"datasets"`

	// Total is the sum of the five components, in [0,110].
	Total float64 `json:"total" yaml:"total"`

	// Category is the qualitative band for Total.
	Category ScoreCategory `json:"category" yaml:"category"`
}

// Fraction returns the total normalized to [0,1], used by the cache
// upgrade policy's completeness threshold.
func (s CompletenessScore) Fraction() float64 {
	return s.Total / 110
}
