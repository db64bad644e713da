// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/mkaya-dev/scholarmesh/internal/metrics"
	"github.com/mkaya-dev/scholarmesh/internal/suggest"
)

// LoadSnapshot bulk-loads the profile index and collaboration graph
// for one suggestion run. Implements suggest.SnapshotProvider.
//
// Every loader failure aborts with ErrDataUnavailable; a run never
// scores against a partial snapshot.
func (db *DB) LoadSnapshot(ctx context.Context) (*suggest.Snapshot, error) {
	snap := &suggest.Snapshot{
		Researchers: make(map[int]suggest.Profile),
		DeptNames:   make(map[int]string),
		TagNames:    make(map[int]string),
		SkillNames:  make(map[int]string),
		Tags:        make(map[int]map[int]struct{}),
		Skills:      make(map[int]map[int]struct{}),
		Graph:       make(map[int]map[int]struct{}),
	}

	if err := db.loadProfiles(ctx, snap); err != nil {
		return nil, err
	}
	if err := db.loadDepartmentNames(ctx, snap); err != nil {
		return nil, err
	}
	if err := db.loadResearcherTags(ctx, snap); err != nil {
		return nil, err
	}
	if err := db.loadResearcherSkills(ctx, snap); err != nil {
		return nil, err
	}
	if err := db.loadCollaborationGraph(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

// loadProfiles loads every researcher, including those with no
// department, tags, or skills.
func (db *DB) loadProfiles(ctx context.Context, snap *suggest.Snapshot) error {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, full_name, department_id, COALESCE(bio, '') FROM researcher`)
	metrics.RecordDBQuery("select", "researcher", start, err)
	if err != nil {
		return unavailable("load researchers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p suggest.Profile
		var deptID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.FullName, &deptID, &p.Bio); err != nil {
			return unavailable("scan researcher", err)
		}
		if deptID.Valid {
			id := int(deptID.Int64)
			p.DepartmentID = &id
		}
		snap.Researchers[p.ID] = p
	}
	return rowsErr("load researchers", rows)
}

func (db *DB) loadDepartmentNames(ctx context.Context, snap *suggest.Snapshot) error {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM department`)
	metrics.RecordDBQuery("select", "department", start, err)
	if err != nil {
		return unavailable("load departments", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return unavailable("scan department", err)
		}
		snap.DeptNames[id] = name
	}
	return rowsErr("load departments", rows)
}

// loadResearcherTags loads the researcher tag membership sets and the
// tag name index from the same join, restricted to researcher entities.
func (db *DB) loadResearcherTags(ctx context.Context, snap *suggest.Snapshot) error {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT et.entity_id, t.id, t.name
		   FROM entity_tag et
		   JOIN tag t ON t.id = et.tag_id
		  WHERE et.entity_type = 'researcher'`)
	metrics.RecordDBQuery("select", "entity_tag", start, err)
	if err != nil {
		return unavailable("load researcher tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var researcherID, tagID int
		var name string
		if err := rows.Scan(&researcherID, &tagID, &name); err != nil {
			return unavailable("scan researcher tag", err)
		}
		snap.TagNames[tagID] = name
		addToSet(snap.Tags, researcherID, tagID)
	}
	return rowsErr("load researcher tags", rows)
}

func (db *DB) loadResearcherSkills(ctx context.Context, snap *suggest.Snapshot) error {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT rs.researcher_id, s.id, s.name
		   FROM researcher_skill rs
		   JOIN skill s ON s.id = rs.skill_id`)
	metrics.RecordDBQuery("select", "researcher_skill", start, err)
	if err != nil {
		return unavailable("load researcher skills", err)
	}
	defer rows.Close()

	for rows.Next() {
		var researcherID, skillID int
		var name string
		if err := rows.Scan(&researcherID, &skillID, &name); err != nil {
			return unavailable("scan researcher skill", err)
		}
		snap.SkillNames[skillID] = name
		addToSet(snap.Skills, researcherID, skillID)
	}
	return rowsErr("load researcher skills", rows)
}

// loadCollaborationGraph merges shared-project co-membership and
// shared-publication co-authorship into one undirected adjacency
// structure. Each self-join emits both directions of every pair, and
// set semantics deduplicate pairs connected through both relations.
func (db *DB) loadCollaborationGraph(ctx context.Context, snap *suggest.Snapshot) error {
	queries := []struct {
		table string
		query string
	}{
		{"project_researcher", `
			SELECT a.researcher_id, b.researcher_id
			  FROM project_researcher a
			  JOIN project_researcher b
			    ON a.project_id = b.project_id AND a.researcher_id <> b.researcher_id`},
		{"author_publication", `
			SELECT a.researcher_id, b.researcher_id
			  FROM author_publication a
			  JOIN author_publication b
			    ON a.publication_id = b.publication_id AND a.researcher_id <> b.researcher_id`},
	}

	for _, q := range queries {
		start := time.Now()
		rows, err := db.conn.QueryContext(ctx, q.query)
		metrics.RecordDBQuery("select", q.table, start, err)
		if err != nil {
			return unavailable("load collaboration graph", err)
		}

		for rows.Next() {
			var a, b int
			if err := rows.Scan(&a, &b); err != nil {
				rows.Close()
				return unavailable("scan collaboration pair", err)
			}
			addToSet(snap.Graph, a, b)
			addToSet(snap.Graph, b, a)
		}
		if err := rowsErr("load collaboration graph", rows); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

func addToSet(m map[int]map[int]struct{}, key, member int) {
	set, ok := m[key]
	if !ok {
		set = make(map[int]struct{})
		m[key] = set
	}
	set[member] = struct{}{}
}

func rowsErr(op string, rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return unavailable(op, err)
	}
	return nil
}
