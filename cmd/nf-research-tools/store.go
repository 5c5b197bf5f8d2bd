package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nf-osi/nf-research-tools-schema-sub001/internal/store"
	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the resource database",
	Long: `Store manages the sqlite resource database the pipeline matches and
scores against. The pipeline itself never updates or deletes resource
metadata; curated records enter through import.`,
}

var storeImportCmd = &cobra.Command{
	Use:   "import [resources.csv]",
	Short: "Import curated resource records from a CSV file",
	Long: `Import loads resource records into the store. The CSV header must name
resourceId, resourceType, and resourceName; recognized optional columns
are synonyms (semicolon-separated), rrid, vendor, catalogNumber,
biobankURL, and doi. Any other column becomes a type-specific attribute.
Records with an existing resourceId are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreImport,
}

func init() {
	storeCmd.PersistentFlags().String("database", defaultDatabasePath, "resource store sqlite file")
	storeCmd.AddCommand(storeImportCmd)

	rootCmd.AddCommand(storeCmd)
}

func runStoreImport(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("database")

	records, err := readResourcesCSV(args[0])
	if err != nil {
		return err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ImportResources(cmd.Context(), records); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d resource(s) into %s\n", len(records), dbPath)
	return nil
}

func readResourcesCSV(path string) ([]types.ResourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"resourceId", "resourceType", "resourceName"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s is missing required column %q", path, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []types.ResourceRecord
	for _, row := range rows[1:] {
		r := types.ResourceRecord{
			ResourceID:    field(row, "resourceId"),
			ResourceType:  types.ResourceType(field(row, "resourceType")),
			ResourceName:  field(row, "resourceName"),
			RRID:          field(row, "rrid"),
			Vendor:        field(row, "vendor"),
			CatalogNumber: field(row, "catalogNumber"),
			BiobankURL:    field(row, "biobankURL"),
			DOI:           field(row, "doi"),
		}
		if s := field(row, "synonyms"); s != "" {
			for _, syn := range strings.Split(s, ";") {
				if syn = strings.TrimSpace(syn); syn != "" {
					r.Synonyms = append(r.Synonyms, syn)
				}
			}
		}
		for name, i := range col {
			switch name {
			case "resourceId", "resourceType", "resourceName", "synonyms",
				"rrid", "vendor", "catalogNumber", "biobankURL", "doi":
				continue
			}
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				if r.Attributes == nil {
					r.Attributes = make(map[string]string)
				}
				r.Attributes[name] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, r)
	}
	return records, nil
}
