// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Catalog tables: departments, tags, skills, funding agencies, grants.
// Small reference data with flat CRUD, no pagination.

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

// ListDepartments returns all departments ordered by name.
func (db *DB) ListDepartments(ctx context.Context) ([]models.Department, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, COALESCE(code, ''), COALESCE(faculty, '') FROM department ORDER BY name`)
	metrics.RecordDBQuery("select", "department", start, err)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	out := []models.Department{}
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &d.Faculty); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDepartment returns one department by id, or ErrNotFound.
func (db *DB) GetDepartment(ctx context.Context, id int) (*models.Department, error) {
	var d models.Department
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(code, ''), COALESCE(faculty, '') FROM department WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Code, &d.Faculty)
	metrics.RecordDBQuery("select", "department", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get department %d: %w", id, err)
	}
	return &d, nil
}

// CreateDepartment inserts a department and fills its ID.
func (db *DB) CreateDepartment(ctx context.Context, d *models.Department) error {
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO department (name, code, faculty) VALUES (?, ?, ?) RETURNING id`,
		d.Name, nullIfEmpty(d.Code), nullIfEmpty(d.Faculty)).Scan(&d.ID)
	metrics.RecordDBQuery("insert", "department", start, err)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// ListTags returns the full tag vocabulary ordered by name.
func (db *DB) ListTags(ctx context.Context) ([]models.Tag, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM tag ORDER BY name`)
	metrics.RecordDBQuery("select", "tag", start, err)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	out := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTag inserts a tag and fills its ID.
func (db *DB) CreateTag(ctx context.Context, t *models.Tag) error {
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO tag (name) VALUES (?) RETURNING id`, t.Name).Scan(&t.ID)
	metrics.RecordDBQuery("insert", "tag", start, err)
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// ListSkills returns all skills ordered by name.
func (db *DB) ListSkills(ctx context.Context) ([]models.Skill, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM skill ORDER BY name`)
	metrics.RecordDBQuery("select", "skill", start, err)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	out := []models.Skill{}
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateSkill inserts a skill and fills its ID.
func (db *DB) CreateSkill(ctx context.Context, s *models.Skill) error {
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO skill (name) VALUES (?) RETURNING id`, s.Name).Scan(&s.ID)
	metrics.RecordDBQuery("insert", "skill", start, err)
	if err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return nil
}

// ListFundingAgencies returns all funding agencies ordered by name.
func (db *DB) ListFundingAgencies(ctx context.Context) ([]models.FundingAgency, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, COALESCE(country, ''), COALESCE(website, '') FROM funding_agency ORDER BY name`)
	metrics.RecordDBQuery("select", "funding_agency", start, err)
	if err != nil {
		return nil, fmt.Errorf("list funding agencies: %w", err)
	}
	defer rows.Close()

	out := []models.FundingAgency{}
	for rows.Next() {
		var a models.FundingAgency
		if err := rows.Scan(&a.ID, &a.Name, &a.Country, &a.Website); err != nil {
			return nil, fmt.Errorf("scan funding agency: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateFundingAgency inserts a funding agency and fills its ID.
func (db *DB) CreateFundingAgency(ctx context.Context, a *models.FundingAgency) error {
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO funding_agency (name, country, website) VALUES (?, ?, ?) RETURNING id`,
		a.Name, nullIfEmpty(a.Country), nullIfEmpty(a.Website)).Scan(&a.ID)
	metrics.RecordDBQuery("insert", "funding_agency", start, err)
	if err != nil {
		return fmt.Errorf("create funding agency: %w", err)
	}
	return nil
}

// ListProjectGrants returns the grants funding one project.
func (db *DB) ListProjectGrants(ctx context.Context, projectID int) ([]models.Grant, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, project_id, funding_agency_id, COALESCE(program_name, ''), amount, currency, start_date, end_date
		   FROM funding_agency_grant WHERE project_id = ? ORDER BY id`, projectID)
	metrics.RecordDBQuery("select", "funding_agency_grant", start, err)
	if err != nil {
		return nil, fmt.Errorf("list project grants: %w", err)
	}
	defer rows.Close()

	out := []models.Grant{}
	for rows.Next() {
		var g models.Grant
		var startDate, endDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.ProjectID, &g.FundingAgencyID, &g.ProgramName, &g.Amount, &g.Currency, &startDate, &endDate); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		if startDate.Valid {
			g.StartDate = &startDate.Time
		}
		if endDate.Valid {
			g.EndDate = &endDate.Time
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CreateGrant inserts a grant and fills its ID.
func (db *DB) CreateGrant(ctx context.Context, g *models.Grant) error {
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO funding_agency_grant (project_id, funding_agency_id, program_name, amount, currency, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		g.ProjectID, g.FundingAgencyID, nullIfEmpty(g.ProgramName), g.Amount, g.Currency, g.StartDate, g.EndDate,
	).Scan(&g.ID)
	metrics.RecordDBQuery("insert", "funding_agency_grant", start, err)
	if err != nil {
		return fmt.Errorf("create grant: %w", err)
	}
	return nil
}

// ListFundingAgencyProjects returns the projects funded by one agency,
// deduplicated across grants.
func (db *DB) ListFundingAgencyProjects(ctx context.Context, agencyID int) ([]models.Project, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT %s FROM project p
		 JOIN funding_agency_grant g ON g.project_id = p.id
		 WHERE g.funding_agency_id = ?
		 ORDER BY p.id`, projectColumns("p")),
		agencyID)
	metrics.RecordDBQuery("select", "funding_agency_grant", start, err)
	if err != nil {
		return nil, unavailable("list funding agency projects", err)
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan funded project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DashboardCounts returns the aggregate entity counts for the
// dashboard view in one query.
func (db *DB) DashboardCounts(ctx context.Context) (*models.DashboardCounts, error) {
	var c models.DashboardCounts
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM researcher),
			(SELECT count(*) FROM department),
			(SELECT count(*) FROM project),
			(SELECT count(*) FROM publication),
			(SELECT count(*) FROM tag),
			(SELECT count(*) FROM skill),
			(SELECT count(*) FROM project WHERE status = 'active')`,
	).Scan(&c.Researchers, &c.Departments, &c.Projects, &c.Publications, &c.Tags, &c.Skills, &c.ActiveProjects)
	metrics.RecordDBQuery("select", "dashboard", start, err)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &c, nil
}
