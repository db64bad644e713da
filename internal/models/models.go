// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package models defines the domain types shared across the database, API
// and suggestion engine layers.
package models

import "time"

// Department is an organizational unit researchers belong to.
type Department struct {
	ID      int    `json:"department_id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Faculty string `json:"faculty,omitempty"`
}

// Researcher is a member of the research organization.
//
// DepartmentID is nil for researchers without a department assignment;
// the suggestion engine treats two nil departments as a department match.
type Researcher struct {
	ID           int       `json:"researcher_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Title        string    `json:"title,omitempty"`
	DepartmentID *int      `json:"department_id"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tag is a research interest label. Tag names double as auto-tagging
// patterns: a tag is linked to a researcher when its name occurs in the
// researcher's biography as a whole word.
type Tag struct {
	ID   int    `json:"tag_id"`
	Name string `json:"name"`
}

// Skill is a technical or methodological competency.
type Skill struct {
	ID   int    `json:"skill_id"`
	Name string `json:"name"`
}

// Project is a research project with participating researchers.
type Project struct {
	ID           int        `json:"project_id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary,omitempty"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	PIID         int        `json:"pi_id"`
	DepartmentID *int       `json:"department_id"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ProjectMember is a researcher's participation in a project.
type ProjectMember struct {
	ResearcherID    int        `json:"researcher_id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Role            string     `json:"role,omitempty"`
	ContributionPct *float64   `json:"contribution_pct"`
	JoinedAt        *time.Time `json:"joined_at"`
}

// Publication is a research output, optionally linked to a project.
type Publication struct {
	ID        int       `json:"publication_id"`
	Title     string    `json:"title"`
	Venue     string    `json:"venue,omitempty"`
	Year      *int      `json:"year"`
	DOI       string    `json:"doi,omitempty"`
	ProjectID *int      `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicationAuthor is a researcher's authorship of a publication.
type PublicationAuthor struct {
	ResearcherID int    `json:"researcher_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	AuthorOrder  int    `json:"author_order"`
}

// ResearcherSkill is a researcher's proficiency in a skill.
type ResearcherSkill struct {
	SkillID int    `json:"skill_id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
}

// FundingAgency is an organization that funds projects.
type FundingAgency struct {
	ID      int    `json:"funding_agency_id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Website string `json:"website,omitempty"`
}

// Grant is a funding award from an agency to a project.
type Grant struct {
	ID              int        `json:"grant_id"`
	ProjectID       int        `json:"project_id"`
	FundingAgencyID int        `json:"funding_agency_id"`
	ProgramName     string     `json:"program_name,omitempty"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
}

// DashboardCounts holds the aggregate entity counts for the dashboard view.
type DashboardCounts struct {
	Researchers    int `json:"researchers"`
	Departments    int `json:"departments"`
	Projects       int `json:"projects"`
	Publications   int `json:"publications"`
	Tags           int `json:"tags"`
	Skills         int `json:"skills"`
	ActiveProjects int `json:"active_projects"`
}
