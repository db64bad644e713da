// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/mkaya-dev/scholarmesh/internal/database"
	"github.com/mkaya-dev/scholarmesh/internal/models"
)

// ListDepartments handles GET /api/v1/departments.
func (rt *Router) ListDepartments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	departments, err := rt.db.ListDepartments(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list departments", err)
		return
	}
	respondData(w, http.StatusOK, departments, start)
}

// GetDepartment handles GET /api/v1/departments/{id}.
func (rt *Router) GetDepartment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "department id must be an integer", nil)
		return
	}

	department, err := rt.db.GetDepartment(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "department not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load department", err)
		return
	}
	respondData(w, http.StatusOK, department, start)
}

// CreateDepartment handles POST /api/v1/departments.
func (rt *Router) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req struct {
		Name    string `json:"name" validate:"required,max=200"`
		Code    string `json:"code" validate:"max=20"`
		Faculty string `json:"faculty" validate:"max=200"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	department := &models.Department{Name: req.Name, Code: req.Code, Faculty: req.Faculty}
	if err := rt.db.CreateDepartment(r.Context(), department); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create department", err)
		return
	}
	respondData(w, http.StatusCreated, department, start)
}

// ListTags handles GET /api/v1/tags.
func (rt *Router) ListTags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tags, err := rt.db.ListTags(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list tags", err)
		return
	}
	respondData(w, http.StatusOK, tags, start)
}

// CreateTag handles POST /api/v1/tags. New tags take effect on the
// next auto-tagging run; existing biographies aren't rescanned.
func (rt *Router) CreateTag(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	tag := &models.Tag{Name: req.Name}
	if err := rt.db.CreateTag(r.Context(), tag); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create tag", err)
		return
	}
	respondData(w, http.StatusCreated, tag, start)
}

// ListSkills handles GET /api/v1/skills.
func (rt *Router) ListSkills(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	skills, err := rt.db.ListSkills(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list skills", err)
		return
	}
	respondData(w, http.StatusOK, skills, start)
}

// CreateSkill handles POST /api/v1/skills.
func (rt *Router) CreateSkill(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	skill := &models.Skill{Name: req.Name}
	if err := rt.db.CreateSkill(r.Context(), skill); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create skill", err)
		return
	}
	respondData(w, http.StatusCreated, skill, start)
}

// ListFundingAgencies handles GET /api/v1/funding-agencies.
func (rt *Router) ListFundingAgencies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	agencies, err := rt.db.ListFundingAgencies(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list funding agencies", err)
		return
	}
	respondData(w, http.StatusOK, agencies, start)
}

// CreateFundingAgency handles POST /api/v1/funding-agencies.
func (rt *Router) CreateFundingAgency(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req struct {
		Name    string `json:"name" validate:"required,max=200"`
		Country string `json:"country" validate:"max=100"`
		Website string `json:"website" validate:"omitempty,url"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	agency := &models.FundingAgency{Name: req.Name, Country: req.Country, Website: req.Website}
	if err := rt.db.CreateFundingAgency(r.Context(), agency); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create funding agency", err)
		return
	}
	respondData(w, http.StatusCreated, agency, start)
}

// ListFundingAgencyProjects handles GET /api/v1/funding-agencies/{id}/projects.
func (rt *Router) ListFundingAgencyProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid funding agency id", nil)
		return
	}

	projects, err := rt.db.ListFundingAgencyProjects(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list funded projects", err)
		return
	}
	respondData(w, http.StatusOK, projects, start)
}
