// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkaya-dev/scholarmesh/internal/metrics"
	"github.com/mkaya-dev/scholarmesh/internal/models"
)

const publicationColumns = `id, title, COALESCE(venue, ''), year, COALESCE(doi, ''), project_id, created_at`

func scanPublication(row interface{ Scan(...interface{}) error }) (models.Publication, error) {
	var p models.Publication
	var year, projectID sql.NullInt64
	err := row.Scan(&p.ID, &p.Title, &p.Venue, &year, &p.DOI, &projectID, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if year.Valid {
		y := int(year.Int64)
		p.Year = &y
	}
	if projectID.Valid {
		id := int(projectID.Int64)
		p.ProjectID = &id
	}
	return p, nil
}

// ListPublications returns a page of publications with the total count.
// year filters to one publication year when non-nil.
func (db *DB) ListPublications(ctx context.Context, limit, offset int, year *int) ([]models.Publication, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if year != nil {
		where += " AND year = ?"
		args = append(args, *year)
	}

	var total int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, "SELECT count(*) FROM publication "+where, args...).Scan(&total)
	metrics.RecordDBQuery("count", "publication", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("count publications: %w", err)
	}

	query := "SELECT " + publicationColumns + " FROM publication " + where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "publication", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Publication, 0, limit)
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan publication: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// GetPublication returns one publication by id, or ErrNotFound.
func (db *DB) GetPublication(ctx context.Context, id int) (*models.Publication, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+publicationColumns+" FROM publication WHERE id = ?", id)
	p, err := scanPublication(row)
	metrics.RecordDBQuery("select", "publication", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get publication %d: %w", id, err)
	}
	return &p, nil
}

// CreatePublication inserts a publication together with its author
// list in one transaction. authorIDs are stored in the given order.
func (db *DB) CreatePublication(ctx context.Context, p *models.Publication, authorIDs []int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create publication: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO publication (title, venue, year, doi, project_id)
		 VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		p.Title, nullIfEmpty(p.Venue), p.Year, nullIfEmpty(p.DOI), p.ProjectID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create publication: %w", err)
	}

	for i, researcherID := range authorIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO author_publication (publication_id, researcher_id, author_order)
			 VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			p.ID, researcherID, i+1)
		if err != nil {
			return fmt.Errorf("add author %d: %w", researcherID, err)
		}
	}

	start := time.Now()
	err = tx.Commit()
	metrics.RecordDBQuery("insert", "publication", start, err)
	if err != nil {
		return fmt.Errorf("commit create publication: %w", err)
	}
	return nil
}

// DeletePublication removes a publication and its authorship rows.
func (db *DB) DeletePublication(ctx context.Context, id int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete publication: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM author_publication WHERE publication_id = ?`, id); err != nil {
		return fmt.Errorf("delete publication authors: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM publication WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete publication %d: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	start := time.Now()
	err = tx.Commit()
	metrics.RecordDBQuery("delete", "publication", start, err)
	if err != nil {
		return fmt.Errorf("commit delete publication %d: %w", id, err)
	}
	return nil
}

// ListPublicationAuthors returns a publication's authors in author order.
func (db *DB) ListPublicationAuthors(ctx context.Context, publicationID int) ([]models.PublicationAuthor, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.full_name, r.email, ap.author_order
		   FROM author_publication ap
		   JOIN researcher r ON r.id = ap.researcher_id
		  WHERE ap.publication_id = ?
		  ORDER BY ap.author_order, r.id`, publicationID)
	metrics.RecordDBQuery("select", "author_publication", start, err)
	if err != nil {
		return nil, fmt.Errorf("list publication authors: %w", err)
	}
	defer rows.Close()

	authors := []models.PublicationAuthor{}
	for rows.Next() {
		var a models.PublicationAuthor
		if err := rows.Scan(&a.ResearcherID, &a.FullName, &a.Email, &a.AuthorOrder); err != nil {
			return nil, fmt.Errorf("scan publication author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// AddPublicationAuthor links a researcher to a publication.
// Re-adding an existing author is a no-op.
func (db *DB) AddPublicationAuthor(ctx context.Context, publicationID, researcherID, authorOrder int) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO author_publication (publication_id, researcher_id, author_order)
		 VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		publicationID, researcherID, authorOrder)
	metrics.RecordDBQuery("upsert", "author_publication", start, err)
	if err != nil {
		return fmt.Errorf("add publication author: %w", err)
	}
	return nil
}

// RemovePublicationAuthor unlinks a researcher from a publication.
func (db *DB) RemovePublicationAuthor(ctx context.Context, publicationID, researcherID int) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM author_publication WHERE publication_id = ? AND researcher_id = ?`,
		publicationID, researcherID)
	metrics.RecordDBQuery("delete", "author_publication", start, err)
	if err != nil {
		return fmt.Errorf("remove publication author: %w", err)
	}
	return requireRow(res)
}
