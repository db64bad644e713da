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

func projectColumns(alias string) string {
	return fmt.Sprintf(
		`%[1]s.id, %[1]s.title, COALESCE(%[1]s.summary, ''), %[1]s.status, %[1]s.start_date, %[1]s.end_date, %[1]s.pi_id, %[1]s.department_id, %[1]s.created_at`,
		alias)
}

func scanProject(row interface{ Scan(...interface{}) error }) (models.Project, error) {
	var p models.Project
	var startDate, endDate sql.NullTime
	var deptID sql.NullInt64
	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Status, &startDate, &endDate, &p.PIID, &deptID, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if startDate.Valid {
		p.StartDate = &startDate.Time
	}
	if endDate.Valid {
		p.EndDate = &endDate.Time
	}
	if deptID.Valid {
		id := int(deptID.Int64)
		p.DepartmentID = &id
	}
	return p, nil
}

// ListProjects returns a page of projects with the total count.
// status filters to one lifecycle state when non-empty.
func (db *DB) ListProjects(ctx context.Context, limit, offset int, status string) ([]models.Project, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}

	var total int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, "SELECT count(*) FROM project "+where, args...).Scan(&total)
	metrics.RecordDBQuery("count", "project", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := "SELECT " + projectColumns("project") + " FROM project " + where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "project", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]models.Project, 0, limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// GetProject returns one project by id, or ErrNotFound.
func (db *DB) GetProject(ctx context.Context, id int) (*models.Project, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+projectColumns("project")+" FROM project WHERE id = ?", id)
	p, err := scanProject(row)
	metrics.RecordDBQuery("select", "project", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &p, nil
}

// CreateProject inserts a project and enrolls the PI as its first
// member in the same transaction.
func (db *DB) CreateProject(ctx context.Context, p *models.Project) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO project (title, summary, status, start_date, end_date, pi_id, department_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id, created_at`,
		p.Title, nullIfEmpty(p.Summary), p.Status, p.StartDate, p.EndDate, p.PIID, p.DepartmentID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO project_researcher (project_id, researcher_id, role, joined_at)
		 VALUES (?, ?, 'principal_investigator', ?) ON CONFLICT DO NOTHING`,
		p.ID, p.PIID, p.StartDate)
	if err != nil {
		return fmt.Errorf("enroll project PI: %w", err)
	}

	start := time.Now()
	err = tx.Commit()
	metrics.RecordDBQuery("insert", "project", start, err)
	if err != nil {
		return fmt.Errorf("commit create project: %w", err)
	}
	return nil
}

// UpdateProject updates a project's mutable fields by id.
func (db *DB) UpdateProject(ctx context.Context, p *models.Project) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE project SET title = ?, summary = ?, status = ?, start_date = ?, end_date = ?, department_id = ?
		  WHERE id = ?`,
		p.Title, nullIfEmpty(p.Summary), p.Status, p.StartDate, p.EndDate, p.DepartmentID, p.ID)
	metrics.RecordDBQuery("update", "project", start, err)
	if err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return requireRow(res)
}

// DeleteProject removes a project and its membership rows.
func (db *DB) DeleteProject(ctx context.Context, id int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_researcher WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("delete project members: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM project WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	start := time.Now()
	err = tx.Commit()
	metrics.RecordDBQuery("delete", "project", start, err)
	if err != nil {
		return fmt.Errorf("commit delete project %d: %w", id, err)
	}
	return nil
}

// ListProjectMembers returns a project's researchers with their roles.
func (db *DB) ListProjectMembers(ctx context.Context, projectID int) ([]models.ProjectMember, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.full_name, r.email, COALESCE(pr.role, ''), pr.contribution_pct, pr.joined_at
		   FROM project_researcher pr
		   JOIN researcher r ON r.id = pr.researcher_id
		  WHERE pr.project_id = ?
		  ORDER BY r.id`, projectID)
	metrics.RecordDBQuery("select", "project_researcher", start, err)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	members := []models.ProjectMember{}
	for rows.Next() {
		var m models.ProjectMember
		var pct sql.NullFloat64
		var joined sql.NullTime
		if err := rows.Scan(&m.ResearcherID, &m.FullName, &m.Email, &m.Role, &pct, &joined); err != nil {
			return nil, fmt.Errorf("scan project member: %w", err)
		}
		if pct.Valid {
			m.ContributionPct = &pct.Float64
		}
		if joined.Valid {
			m.JoinedAt = &joined.Time
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddProjectMember enrolls a researcher on a project. Re-adding an
// existing member is a no-op.
func (db *DB) AddProjectMember(ctx context.Context, projectID, researcherID int, role string, contributionPct *float64) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO project_researcher (project_id, researcher_id, role, contribution_pct, joined_at)
		 VALUES (?, ?, ?, ?, current_date) ON CONFLICT DO NOTHING`,
		projectID, researcherID, nullIfEmpty(role), contributionPct)
	metrics.RecordDBQuery("upsert", "project_researcher", start, err)
	if err != nil {
		return fmt.Errorf("add project member: %w", err)
	}
	return nil
}

// RemoveProjectMember removes a researcher from a project.
func (db *DB) RemoveProjectMember(ctx context.Context, projectID, researcherID int) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM project_researcher WHERE project_id = ? AND researcher_id = ?`,
		projectID, researcherID)
	metrics.RecordDBQuery("delete", "project_researcher", start, err)
	if err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}
	return requireRow(res)
}
