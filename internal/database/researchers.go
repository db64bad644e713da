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

const researcherColumns = `id, full_name, email, COALESCE(title, ''), department_id, COALESCE(bio, ''), created_at`

func scanResearcher(row interface{ Scan(...interface{}) error }) (models.Researcher, error) {
	var r models.Researcher
	var deptID sql.NullInt64
	err := row.Scan(&r.ID, &r.FullName, &r.Email, &r.Title, &deptID, &r.Bio, &r.CreatedAt)
	if err != nil {
		return r, err
	}
	if deptID.Valid {
		id := int(deptID.Int64)
		r.DepartmentID = &id
	}
	return r, nil
}

// ListResearchers returns a page of researchers with the total count.
// departmentID filters to one department when non-nil; search matches
// a case-insensitive substring of the full name.
func (db *DB) ListResearchers(ctx context.Context, limit, offset int, departmentID *int, search string) ([]models.Researcher, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if departmentID != nil {
		where += " AND department_id = ?"
		args = append(args, *departmentID)
	}
	if search != "" {
		where += " AND lower(full_name) LIKE '%' || lower(?) || '%'"
		args = append(args, search)
	}

	var total int
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, "SELECT count(*) FROM researcher "+where, args...).Scan(&total)
	metrics.RecordDBQuery("count", "researcher", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("count researchers: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM researcher %s ORDER BY id LIMIT ? OFFSET ?", researcherColumns, where)
	args = append(args, limit, offset)

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "researcher", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("list researchers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Researcher, 0, limit)
	for rows.Next() {
		r, err := scanResearcher(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan researcher: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// GetResearcher returns one researcher by id, or ErrNotFound.
func (db *DB) GetResearcher(ctx context.Context, id int) (*models.Researcher, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+researcherColumns+" FROM researcher WHERE id = ?", id)
	r, err := scanResearcher(row)
	metrics.RecordDBQuery("select", "researcher", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get researcher %d: %w", id, err)
	}
	return &r, nil
}

// CreateResearcher inserts a researcher and fills its ID and CreatedAt.
func (db *DB) CreateResearcher(ctx context.Context, r *models.Researcher) error {
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO researcher (full_name, email, title, department_id, bio)
		 VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		r.FullName, r.Email, nullIfEmpty(r.Title), r.DepartmentID, r.Bio,
	).Scan(&r.ID, &r.CreatedAt)
	metrics.RecordDBQuery("insert", "researcher", start, err)
	if err != nil {
		return fmt.Errorf("create researcher: %w", err)
	}
	return nil
}

// UpdateResearcher updates a researcher's mutable fields by id.
func (db *DB) UpdateResearcher(ctx context.Context, r *models.Researcher) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE researcher SET full_name = ?, email = ?, title = ?, department_id = ?, bio = ?
		  WHERE id = ?`,
		r.FullName, r.Email, nullIfEmpty(r.Title), r.DepartmentID, r.Bio, r.ID)
	metrics.RecordDBQuery("update", "researcher", start, err)
	if err != nil {
		return fmt.Errorf("update researcher %d: %w", r.ID, err)
	}
	return requireRow(res)
}

// DeleteResearcher removes a researcher and its tag and skill links.
func (db *DB) DeleteResearcher(ctx context.Context, id int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete researcher: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`DELETE FROM entity_tag WHERE entity_type = 'researcher' AND entity_id = ?`,
		`DELETE FROM researcher_skill WHERE researcher_id = ?`,
		`DELETE FROM researcher WHERE id = ?`,
	}
	for i, stmt := range statements {
		res, err := tx.ExecContext(ctx, stmt, id)
		if err != nil {
			return fmt.Errorf("delete researcher %d: %w", id, err)
		}
		// Only the final statement must match a row.
		if i == len(statements)-1 {
			if err := requireRow(res); err != nil {
				return err
			}
		}
	}

	start := time.Now()
	err = tx.Commit()
	metrics.RecordDBQuery("delete", "researcher", start, err)
	if err != nil {
		return fmt.Errorf("commit delete researcher %d: %w", id, err)
	}
	return nil
}

// OnboardResearcher creates a researcher together with its initial
// skill levels and tag links in a single transaction.
func (db *DB) OnboardResearcher(ctx context.Context, r *models.Researcher, skills []models.ResearcherSkill, tagIDs []int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin onboard: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO researcher (full_name, email, title, department_id, bio)
		 VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		r.FullName, r.Email, nullIfEmpty(r.Title), r.DepartmentID, r.Bio,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("onboard researcher: %w", err)
	}

	for _, s := range skills {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO researcher_skill (researcher_id, skill_id, level) VALUES (?, ?, ?)
			 ON CONFLICT DO NOTHING`,
			r.ID, s.SkillID, s.Level)
		if err != nil {
			return fmt.Errorf("onboard skill %d: %w", s.SkillID, err)
		}
	}

	for _, tagID := range tagIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entity_tag (entity_type, entity_id, tag_id) VALUES ('researcher', ?, ?)
			 ON CONFLICT DO NOTHING`,
			r.ID, tagID)
		if err != nil {
			return fmt.Errorf("onboard tag %d: %w", tagID, err)
		}
	}

	start := time.Now()
	err = tx.Commit()
	metrics.RecordDBQuery("insert", "researcher", start, err)
	if err != nil {
		return fmt.Errorf("commit onboard: %w", err)
	}
	return nil
}

// LoadTagVocabulary returns every tag. Part of the auto-tagging store
// surface.
func (db *DB) LoadTagVocabulary(ctx context.Context) ([]models.Tag, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM tag ORDER BY id`)
	metrics.RecordDBQuery("select", "tag", start, err)
	if err != nil {
		return nil, fmt.Errorf("load tag vocabulary: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// EnsureResearcherTag idempotently links a tag to a researcher.
// Returns true when a new association row was created. The unique
// constraint on (entity_type, entity_id, tag_id) makes the insert
// atomic per pair under concurrent runs.
func (db *DB) EnsureResearcherTag(ctx context.Context, researcherID, tagID int) (bool, error) {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO entity_tag (entity_type, entity_id, tag_id) VALUES ('researcher', ?, ?)
		 ON CONFLICT DO NOTHING`,
		researcherID, tagID)
	metrics.RecordDBQuery("upsert", "entity_tag", start, err)
	if err != nil {
		return false, fmt.Errorf("ensure researcher tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, nil
	}
	return affected > 0, nil
}

// ListResearcherTags returns the tags linked to a researcher.
func (db *DB) ListResearcherTags(ctx context.Context, researcherID int) ([]models.Tag, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.id, t.name
		   FROM entity_tag et
		   JOIN tag t ON t.id = et.tag_id
		  WHERE et.entity_type = 'researcher' AND et.entity_id = ?
		  ORDER BY t.name`, researcherID)
	metrics.RecordDBQuery("select", "entity_tag", start, err)
	if err != nil {
		return nil, fmt.Errorf("list researcher tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan researcher tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListResearcherSkills returns a researcher's skills with levels.
func (db *DB) ListResearcherSkills(ctx context.Context, researcherID int) ([]models.ResearcherSkill, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.id, s.name, rs.level
		   FROM researcher_skill rs
		   JOIN skill s ON s.id = rs.skill_id
		  WHERE rs.researcher_id = ?
		  ORDER BY s.name`, researcherID)
	metrics.RecordDBQuery("select", "researcher_skill", start, err)
	if err != nil {
		return nil, fmt.Errorf("list researcher skills: %w", err)
	}
	defer rows.Close()

	skills := []models.ResearcherSkill{}
	for rows.Next() {
		var s models.ResearcherSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.Level); err != nil {
			return nil, fmt.Errorf("scan researcher skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// SetResearcherSkill upserts a researcher's level for one skill.
func (db *DB) SetResearcherSkill(ctx context.Context, researcherID, skillID, level int) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO researcher_skill (researcher_id, skill_id, level) VALUES (?, ?, ?)
		 ON CONFLICT (researcher_id, skill_id) DO UPDATE SET level = excluded.level`,
		researcherID, skillID, level)
	metrics.RecordDBQuery("upsert", "researcher_skill", start, err)
	if err != nil {
		return fmt.Errorf("set researcher skill: %w", err)
	}
	return nil
}

// ListResearcherProjects returns the projects a researcher participates in.
func (db *DB) ListResearcherProjects(ctx context.Context, researcherID int) ([]models.Project, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns("p")+`
		   FROM project_researcher pr
		   JOIN project p ON p.id = pr.project_id
		  WHERE pr.researcher_id = ?
		  ORDER BY p.id`, researcherID)
	metrics.RecordDBQuery("select", "project_researcher", start, err)
	if err != nil {
		return nil, fmt.Errorf("list researcher projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// requireRow converts a zero-row write into ErrNotFound.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
