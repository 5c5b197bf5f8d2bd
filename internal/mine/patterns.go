// Copyright NF Open Science Initiative, 2026. All rights reserved.

package mine

import (
	"regexp"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Rule pairs a resource type with a lexical pattern. NameGroup selects the
// capture group that becomes the mention name; 0 uses the whole match.
type Rule struct {
	Type      types.ResourceType
	Pattern   *regexp.Regexp
	NameGroup int
}

// rules is the mining pattern table. Order matters: mining iterates rules
// in declared order so candidate lists are stable across runs. Mining is
// recall-oriented; precision is the reviewer's job.
var rules = []Rule{
	// Antibodies: anti-<target> phrasing and antibody RRIDs.
	{types.TypeAntibody, regexp.MustCompile(`(?i)\banti[-–]([A-Za-z][A-Za-z0-9]{1,14})\s+antibod(?:y|ies)\b`), 1},
	{types.TypeAntibody, regexp.MustCompile(`\bRRID:\s*(AB_\d+)\b`), 1},

	// Cell lines: "<name> cell line"/"<name> cells" where the name token
	// carries at least one capital or digit (ipNF95.5, ST88-14, HEK293),
	// and Cellosaurus RRIDs.
	{types.TypeCellLine, regexp.MustCompile(`\b([A-Za-z]{0,8}[A-Z0-9][A-Za-z0-9.]{0,10}(?:-[A-Za-z0-9]{1,6})?)\s+cell\s+lines?\b`), 1},
	{types.TypeCellLine, regexp.MustCompile(`\b([A-Za-z]{0,8}[A-Z0-9][A-Za-z0-9.]{0,10}(?:-[A-Za-z0-9]{1,6})?)\s+cells\b`), 1},
	{types.TypeCellLine, regexp.MustCompile(`\bRRID:\s*(CVCL_[A-Za-z0-9]+)\b`), 1},

	// Animal models: genotype nomenclature ("Nf1+/- mice", "Nf1fl/fl mice"),
	// background strains, and JAX stock numbers.
	{types.TypeAnimalModel, regexp.MustCompile(`\b([A-Z][a-z][a-z0-9]*(?:\+/[+-]|-/-|fl(?:ox)?/fl(?:ox)?))\s+(?:mice|mouse)\b`), 1},
	{types.TypeAnimalModel, regexp.MustCompile(`\b(C57BL/6N?J?|BALB/cJ?|FVB/NJ?|129S[0-9][A-Za-z0-9/]*)\b`), 1},
	{types.TypeAnimalModel, regexp.MustCompile(`(?i)(?:JAX|Jackson Laboratory)[^.\n]{0,40}?stock\s*(?:no\.?|number|#)\s*(\d{6})`), 1},

	// Genetic reagents: plasmid/vector names and Addgene catalog numbers.
	{types.TypeGeneticReagent, regexp.MustCompile(`\b(p[A-Z][A-Za-z0-9.\-]{2,20})\s+(?:plasmid|vector|construct)\b`), 1},
	{types.TypeGeneticReagent, regexp.MustCompile(`(?i)\bplasmid\s+(p?[A-Z][A-Za-z0-9.\-]{2,20})\b`), 1},
	{types.TypeGeneticReagent, regexp.MustCompile(`(?i)\baddgene\b[^.\n]{0,20}?#\s*(\d{4,6})`), 1},

	// Computational tools: common analysis software by name, generic
	// "<Name> software/package" phrasing, and software RRIDs.
	{types.TypeComputationalTool, regexp.MustCompile(`\b(GraphPad Prism|ImageJ|Fiji|FlowJo|MATLAB|SPSS|CellProfiler|Seurat|DESeq2|Bowtie2?|SAMtools|GATK|STAR aligner)\b`), 1},
	{types.TypeComputationalTool, regexp.MustCompile(`(?i)\busing\s+(?:the\s+)?([A-Z][A-Za-z0-9+.]{2,20})\s+(?:software|package|pipeline|toolkit)\b`), 1},
	{types.TypeComputationalTool, regexp.MustCompile(`\bRRID:\s*(SCR_\d+)\b`), 1},
}
