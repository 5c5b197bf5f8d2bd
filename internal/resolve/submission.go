// Copyright NF Open Science Initiative, 2026. All rights reserved.

package resolve

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// submissionColumns is the column set shared with the persistent store's
// resource tables. Column order is part of the file contract.
var submissionColumns = []string{"pmid", "resourceType", "resourceName", "section", "snippet", "origin", "confidence"}

// Column indices used by FilterRows.
const (
	colPMID = iota
	colType
	colName
)

// WriteCandidateTables writes one submission CSV per resource type from
// pre-review candidate mentions: submission-<type>.csv under dir.
func WriteCandidateTables(dir string, mentions []types.ToolMention) error {
	byType := make(map[types.ResourceType][][]string)
	for _, m := range mentions {
		byType[m.Type] = append(byType[m.Type], candidateRow(m, ""))
	}
	return writeTables(dir, "submission-%s.csv", byType)
}

// WriteValidatedTables writes the validated submission variant: one CSV
// per resource type containing only accepted mentions, plus a
// manual-review.csv collecting uncertain mentions. Rejected mentions
// appear in neither.
func WriteValidatedTables(dir string, res Resolution) error {
	byType := make(map[types.ResourceType][][]string)
	for _, m := range res.Accepted {
		byType[m.Type] = append(byType[m.Type], candidateRow(m.ToolMention, formatConfidence(m.Confidence)))
	}
	if err := writeTables(dir, "submission-%s-validated.csv", byType); err != nil {
		return err
	}

	manual := make([][]string, 0, len(res.Uncertain))
	for _, m := range res.Uncertain {
		manual = append(manual, candidateRow(m.ToolMention, formatConfidence(m.Confidence)))
	}
	return writeCSV(filepath.Join(dir, "manual-review.csv"), manual)
}

// FilterRows removes rows matching rejected mentions from an existing
// submission table. The difference is keyed by (pmid, name, type), never
// by row position, so reordered tables filter identically. The header row
// (if present) is preserved.
func FilterRows(rows [][]string, rejected []ResolvedMention) [][]string {
	drop := make(map[string]bool, len(rejected))
	for _, m := range rejected {
		drop[m.Key()] = true
	}

	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > colName && row[colPMID] == submissionColumns[0] {
			out = append(out, row)
			continue
		}
		if len(row) <= colName {
			out = append(out, row)
			continue
		}
		key := row[colPMID] + "|" + strings.ToLower(row[colName]) + "|" + row[colType]
		if drop[key] {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FilterTable applies FilterRows to a CSV file on disk, writing the result
// alongside it with a -validated suffix. Returns the output path.
func FilterTable(path string, rejected []ResolvedMention) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening submission table %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing submission table %s: %w", path, err)
	}

	filtered := FilterRows(rows, rejected)

	ext := filepath.Ext(path)
	outPath := strings.TrimSuffix(path, ext) + "-validated" + ext
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	wr := csv.NewWriter(out)
	if err := wr.WriteAll(filtered); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

func candidateRow(m types.ToolMention, confidence string) []string {
	return []string{m.PMID, string(m.Type), m.Name, m.Section, m.Snippet, string(m.Origin), confidence}
}

func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}

func writeTables(dir, pattern string, byType map[types.ResourceType][][]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating submission directory %s: %w", dir, err)
	}
	for _, rt := range types.AllResourceTypes {
		rows, ok := byType[rt]
		if !ok {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf(pattern, typeSlug(rt)))
		if err := writeCSV(path, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	wr := csv.NewWriter(f)
	if err := wr.Write(submissionColumns); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	if err := wr.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows to %s: %w", path, err)
	}
	return nil
}

func typeSlug(rt types.ResourceType) string {
	return strings.ToLower(strings.ReplaceAll(string(rt), " ", "-"))
}
