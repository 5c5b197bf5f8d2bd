// Copyright NF Open Science Initiative, 2026. All rights reserved.

// Package store is the tabular persistent store for resource records,
// observations, and datasets.
//
// The pipeline's write surface is narrow: observation rows are appended,
// never updated or deleted, and resource metadata is only written through
// the explicit import path used for seeding and curated uploads.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

// Store manages the resource database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the sqlite database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resources (
			resource_id TEXT PRIMARY KEY,
			resource_type TEXT NOT NULL,
			resource_name TEXT NOT NULL,
			synonyms TEXT,
			rrid TEXT,
			vendor TEXT,
			catalog_number TEXT,
			biobank_url TEXT,
			doi TEXT,
			attributes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_name_type ON resources(resource_name, resource_type)`,
		`CREATE TABLE IF NOT EXISTS observations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			resource_id TEXT NOT NULL REFERENCES resources(resource_id),
			observation_type TEXT,
			details TEXT NOT NULL,
			doi TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_resource ON observations(resource_id)`,
		`CREATE TABLE IF NOT EXISTS datasets (
			dataset_id TEXT PRIMARY KEY,
			resource_id TEXT NOT NULL REFERENCES resources(resource_id),
			name TEXT,
			doi TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_resource ON datasets(resource_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// FindResources returns resource records matching (name, type) exactly.
// Rows are ordered by resource_id so callers see a stable order.
func (s *Store) FindResources(ctx context.Context, name string, rtype types.ResourceType) ([]types.ResourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id, resource_type, resource_name, synonyms, rrid,
		        vendor, catalog_number, biobank_url, doi, attributes
		 FROM resources
		 WHERE resource_name = ? AND resource_type = ?
		 ORDER BY resource_id`, name, string(rtype))
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()
	return scanResources(rows)
}

// AllResources returns every resource record, ordered by resource_id.
func (s *Store) AllResources(ctx context.Context) ([]types.ResourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id, resource_type, resource_name, synonyms, rrid,
		        vendor, catalog_number, biobank_url, doi, attributes
		 FROM resources ORDER BY resource_id`)
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()
	return scanResources(rows)
}

func scanResources(rows *sql.Rows) ([]types.ResourceRecord, error) {
	var records []types.ResourceRecord
	for rows.Next() {
		var (
			r                   types.ResourceRecord
			synonyms, attrsJSON sql.NullString
			rrid, vendor        sql.NullString
			catalog, biobank    sql.NullString
			doi                 sql.NullString
		)
		if err := rows.Scan(&r.ResourceID, &r.ResourceType, &r.ResourceName,
			&synonyms, &rrid, &vendor, &catalog, &biobank, &doi, &attrsJSON); err != nil {
			return nil, fmt.Errorf("scanning resource row: %w", err)
		}
		if synonyms.Valid && synonyms.String != "" {
			if err := json.Unmarshal([]byte(synonyms.String), &r.Synonyms); err != nil {
				return nil, fmt.Errorf("parsing synonyms for %s: %w", r.ResourceID, err)
			}
		}
		if attrsJSON.Valid && attrsJSON.String != "" {
			if err := json.Unmarshal([]byte(attrsJSON.String), &r.Attributes); err != nil {
				return nil, fmt.Errorf("parsing attributes for %s: %w", r.ResourceID, err)
			}
		}
		r.RRID = rrid.String
		r.Vendor = vendor.String
		r.CatalogNumber = catalog.String
		r.BiobankURL = biobank.String
		r.DOI = doi.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// AppendObservation appends one observation row. This is the pipeline's
// only write against store-owned data.
func (s *Store) AppendObservation(ctx context.Context, obs types.Observation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO observations (resource_id, observation_type, details, doi)
		 VALUES (?, ?, ?, ?)`,
		obs.ResourceID, obs.ObservationType, obs.Details, obs.DOI)
	if err != nil {
		return fmt.Errorf("appending observation for %s: %w", obs.ResourceID, err)
	}
	return nil
}

// ObservationsFor returns the observations linked to a resource in
// insertion order.
func (s *Store) ObservationsFor(ctx context.Context, resourceID string) ([]types.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id, observation_type, details, doi
		 FROM observations WHERE resource_id = ? ORDER BY rowid`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var observations []types.Observation
	for rows.Next() {
		var (
			o       types.Observation
			obsType sql.NullString
			doi     sql.NullString
		)
		if err := rows.Scan(&o.ResourceID, &obsType, &o.Details, &doi); err != nil {
			return nil, fmt.Errorf("scanning observation row: %w", err)
		}
		o.ObservationType = obsType.String
		o.DOI = doi.String
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

// DatasetsFor returns the datasets linked to a resource, ordered by
// dataset_id.
func (s *Store) DatasetsFor(ctx context.Context, resourceID string) ([]types.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dataset_id, resource_id, name, doi
		 FROM datasets WHERE resource_id = ? ORDER BY dataset_id`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var datasets []types.Dataset
	for rows.Next() {
		var (
			d    types.Dataset
			name sql.NullString
			doi  sql.NullString
		)
		if err := rows.Scan(&d.DatasetID, &d.ResourceID, &name, &doi); err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}
		d.Name = name.String
		d.DOI = doi.String
		datasets = append(datasets, d)
	}
	return datasets, rows.Err()
}

// ImportResources inserts resource records inside one transaction. It is
// the seeding/upload path, not a pipeline write: records with an existing
// resource_id are rejected rather than overwritten.
func (s *Store) ImportResources(ctx context.Context, records []types.ResourceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO resources (resource_id, resource_type, resource_name, synonyms,
		                        rrid, vendor, catalog_number, biobank_url, doi, attributes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if !r.ResourceType.Valid() {
			return fmt.Errorf("resource %s: unknown resource type %q", r.ResourceID, r.ResourceType)
		}
		synonymsJSON, _ := json.Marshal(r.Synonyms)
		attrsJSON, _ := json.Marshal(r.Attributes)
		if _, err := stmt.ExecContext(ctx,
			r.ResourceID, string(r.ResourceType), r.ResourceName, string(synonymsJSON),
			r.RRID, r.Vendor, r.CatalogNumber, r.BiobankURL, r.DOI, string(attrsJSON)); err != nil {
			return fmt.Errorf("inserting resource %s: %w", r.ResourceID, err)
		}
	}
	return tx.Commit()
}

// AddDataset links a dataset to a resource. Like ImportResources, this is
// a curated-upload path.
func (s *Store) AddDataset(ctx context.Context, d types.Dataset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (dataset_id, resource_id, name, doi) VALUES (?, ?, ?, ?)`,
		d.DatasetID, d.ResourceID, d.Name, d.DOI)
	if err != nil {
		return fmt.Errorf("adding dataset %s: %w", d.DatasetID, err)
	}
	return nil
}
