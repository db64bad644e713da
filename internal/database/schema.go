// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the full schema. DuckDB has no
// auto-increment column, so each table gets an explicit sequence.
// entity_tag carries the uniqueness constraint that makes auto-tagging
// upserts idempotent.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_department_id START 1`,
	`CREATE TABLE IF NOT EXISTS department (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_department_id'),
		name VARCHAR NOT NULL UNIQUE,
		code VARCHAR,
		faculty VARCHAR
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_researcher_id START 1`,
	`CREATE TABLE IF NOT EXISTS researcher (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_researcher_id'),
		full_name VARCHAR NOT NULL,
		email VARCHAR NOT NULL UNIQUE,
		title VARCHAR,
		department_id INTEGER REFERENCES department(id),
		bio VARCHAR DEFAULT '',
		created_at TIMESTAMP DEFAULT current_timestamp
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_tag_id START 1`,
	`CREATE TABLE IF NOT EXISTS tag (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_tag_id'),
		name VARCHAR NOT NULL UNIQUE
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_entity_tag_id START 1`,
	`CREATE TABLE IF NOT EXISTS entity_tag (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_entity_tag_id'),
		entity_type VARCHAR NOT NULL,
		entity_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL REFERENCES tag(id),
		UNIQUE (entity_type, entity_id, tag_id)
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_skill_id START 1`,
	`CREATE TABLE IF NOT EXISTS skill (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_skill_id'),
		name VARCHAR NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS researcher_skill (
		researcher_id INTEGER NOT NULL REFERENCES researcher(id),
		skill_id INTEGER NOT NULL REFERENCES skill(id),
		level INTEGER DEFAULT 1,
		PRIMARY KEY (researcher_id, skill_id)
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_project_id START 1`,
	`CREATE TABLE IF NOT EXISTS project (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_project_id'),
		title VARCHAR NOT NULL,
		summary VARCHAR,
		status VARCHAR NOT NULL DEFAULT 'active',
		start_date DATE,
		end_date DATE,
		pi_id INTEGER NOT NULL REFERENCES researcher(id),
		department_id INTEGER REFERENCES department(id),
		created_at TIMESTAMP DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS project_researcher (
		project_id INTEGER NOT NULL REFERENCES project(id),
		researcher_id INTEGER NOT NULL REFERENCES researcher(id),
		role VARCHAR,
		contribution_pct DOUBLE,
		joined_at DATE,
		PRIMARY KEY (project_id, researcher_id)
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_publication_id START 1`,
	`CREATE TABLE IF NOT EXISTS publication (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_publication_id'),
		title VARCHAR NOT NULL,
		venue VARCHAR,
		year INTEGER,
		doi VARCHAR,
		project_id INTEGER REFERENCES project(id),
		created_at TIMESTAMP DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS author_publication (
		publication_id INTEGER NOT NULL REFERENCES publication(id),
		researcher_id INTEGER NOT NULL REFERENCES researcher(id),
		author_order INTEGER DEFAULT 1,
		PRIMARY KEY (publication_id, researcher_id)
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_funding_agency_id START 1`,
	`CREATE TABLE IF NOT EXISTS funding_agency (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_funding_agency_id'),
		name VARCHAR NOT NULL UNIQUE,
		country VARCHAR,
		website VARCHAR
	)`,

	`CREATE SEQUENCE IF NOT EXISTS seq_grant_id START 1`,
	`CREATE TABLE IF NOT EXISTS funding_agency_grant (
		id INTEGER PRIMARY KEY DEFAULT nextval('seq_grant_id'),
		project_id INTEGER NOT NULL REFERENCES project(id),
		funding_agency_id INTEGER NOT NULL REFERENCES funding_agency(id),
		program_name VARCHAR,
		amount DOUBLE NOT NULL DEFAULT 0,
		currency VARCHAR NOT NULL DEFAULT 'EUR',
		start_date DATE,
		end_date DATE
	)`,
}

// EnsureSchema creates all tables and sequences if they don't exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
