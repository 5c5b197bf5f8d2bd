// Copyright NF Open Science Initiative, 2026. All rights reserved.

package types

// ResourceType is one of the nine fixed research-tool categories in the
// persistent store.
type ResourceType string

const (
	TypeAnimalModel            ResourceType = "Animal Model"
	TypeCellLine               ResourceType = "Cell Line"
	TypeAntibody               ResourceType = "Antibody"
	TypeGeneticReagent         ResourceType = "Genetic Reagent"
	TypeBiobank                ResourceType = "Biobank"
	TypeComputationalTool      ResourceType = "Computational Tool"
	TypeAdvancedCellularModel  ResourceType = "Advanced Cellular Model"
	TypePatientDerivedModel    ResourceType = "Patient-Derived Model"
	TypeClinicalAssessmentTool ResourceType = "Clinical Assessment Tool"
)

// AllResourceTypes lists the nine resource types in stable order.
var AllResourceTypes = []ResourceType{
	TypeAnimalModel,
	TypeCellLine,
	TypeAntibody,
	TypeGeneticReagent,
	TypeBiobank,
	TypeComputationalTool,
	TypeAdvancedCellularModel,
	TypePatientDerivedModel,
	TypeClinicalAssessmentTool,
}

// Valid reports whether t is one of the nine fixed resource types.
func (t ResourceType) Valid() bool {
	for _, rt := range AllResourceTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ResourceRecord is a persisted research-tool record. The store owns these
// rows; the pipeline only reads them for matching and scoring and appends
// observations against them.
type ResourceRecord struct {
	// ResourceID is the store's row identifier.
	ResourceID string `json:"resource_id" yaml:"resource_id"`

	// ResourceType is one of the nine fixed types.
	ResourceType ResourceType `json:"resource_type" yaml:"resource_type"`

	// ResourceName is the canonical tool name.
	ResourceName string `json:"resource_name" yaml:"resource_name"`

	// Synonyms lists alternate names.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	// RRID is the Research Resource Identifier, when registered.
	RRID string `json:"rrid,omitempty" yaml:"rrid,omitempty"`

	// Vendor and CatalogNumber record acquisition information.
	Vendor        string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	CatalogNumber string `json:"catalog_number,omitempty" yaml:"catalog_number,omitempty"`

	// BiobankURL is the access URL for Biobank resources.
	BiobankURL string `json:"biobank_url,omitempty" yaml:"biobank_url,omitempty"`

	// DOI links the resource to a publication.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Attributes holds the type-specific documentation fields
	// (e.g. "cellLineCategory", "backgroundStrain").
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Has reports whether the named documentation field is present. The shared
// fields (synonyms, rrid, vendor, biobankURL, doi) map to struct fields;
// anything else is looked up in Attributes.
func (r ResourceRecord) Has(field string) bool {
	switch field {
	case "synonyms":
		return len(r.Synonyms) > 0
	case "rrid":
		return r.RRID != ""
	case "vendor":
		return r.Vendor != "" || r.CatalogNumber != ""
	case "biobankURL":
		return r.BiobankURL != ""
	case "doi":
		return r.DOI != ""
	}
	return r.Attributes[field] != ""
}

// Observation is a scientific finding about a resource. Observations are
// append-only: the pipeline never mutates or deletes existing rows.
type Observation struct {
	// ResourceID links the observation to a resource record.
	ResourceID string `json:"resource_id" yaml:"resource_id"`

	// ObservationType categorizes the finding.
	ObservationType string `json:"observation_type" yaml:"observation_type"`

	// Details is the observation text.
	Details string `json:"details" yaml:"details"`

	// DOI attributes the observation to a publication (optional).
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Dataset is a dataset linked to a resource record.
type Dataset struct {
	// DatasetID is the store's row identifier.
	DatasetID string `json:"dataset_id" yaml:"dataset_id"`

	// ResourceID links the dataset to a resource record.
	ResourceID string `json:"resource_id" yaml:"resource_id"`

	// Name is the dataset title.
	Name string `json:"name" yaml:"name"`

	// DOI is the dataset's identifier, when registered.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}
