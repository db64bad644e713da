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

// ProjectRequest is the create/update payload for a project.
type ProjectRequest struct {
	Title        string     `json:"title" validate:"required,max=300"`
	Summary      string     `json:"summary" validate:"max=5000"`
	Status       string     `json:"status" validate:"omitempty,oneof=active completed suspended planned"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	PIID         int        `json:"pi_id" validate:"required,min=1"`
	DepartmentID *int       `json:"department_id"`
}

// ListProjects handles GET /api/v1/projects.
func (rt *Router) ListProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := clampPageSize(getIntParam(r, "limit", 0), rt.cfg.DefaultPageSize, rt.cfg.MaxPageSize)
	offset := getIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	status := r.URL.Query().Get("status")

	projects, total, err := rt.db.ListProjects(r.Context(), limit, offset, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list projects", err)
		return
	}
	respondData(w, http.StatusOK, &models.PaginatedResponse{
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Items:  projects,
	}, start)
}

// GetProject handles GET /api/v1/projects/{id}.
func (rt *Router) GetProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	project, err := rt.db.GetProject(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load project", err)
		return
	}
	respondData(w, http.StatusOK, project, start)
}

// CreateProject handles POST /api/v1/projects. The PI is enrolled as
// the first member.
func (rt *Router) CreateProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ProjectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	project := &models.Project{
		Title:        req.Title,
		Summary:      req.Summary,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		PIID:         req.PIID,
		DepartmentID: req.DepartmentID,
	}
	if err := rt.db.CreateProject(r.Context(), project); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create project", err)
		return
	}
	respondData(w, http.StatusCreated, project, start)
}

// UpdateProject handles PUT /api/v1/projects/{id}.
func (rt *Router) UpdateProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	var req ProjectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	project := &models.Project{
		ID:           id,
		Title:        req.Title,
		Summary:      req.Summary,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		PIID:         req.PIID,
		DepartmentID: req.DepartmentID,
	}
	err := rt.db.UpdateProject(r.Context(), project)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to update project", err)
		return
	}
	respondData(w, http.StatusOK, project, start)
}

// DeleteProject handles DELETE /api/v1/projects/{id}.
func (rt *Router) DeleteProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	err := rt.db.DeleteProject(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to delete project", err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id}, start)
}

// ListProjectMembers handles GET /api/v1/projects/{id}/members.
func (rt *Router) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	members, err := rt.db.ListProjectMembers(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list project members", err)
		return
	}
	respondData(w, http.StatusOK, members, start)
}

// AddProjectMember handles POST /api/v1/projects/{id}/members.
func (rt *Router) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	var req struct {
		ResearcherID    int      `json:"researcher_id" validate:"required,min=1"`
		Role            string   `json:"role" validate:"max=100"`
		ContributionPct *float64 `json:"contribution_pct" validate:"omitempty,min=0,max=100"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := rt.db.AddProjectMember(r.Context(), id, req.ResearcherID, req.Role, req.ContributionPct); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to add project member", err)
		return
	}
	respondData(w, http.StatusCreated, map[string]int{"project_id": id, "researcher_id": req.ResearcherID}, start)
}

// RemoveProjectMember handles DELETE /api/v1/projects/{id}/members/{researcherID}.
func (rt *Router) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}
	researcherID, ok := urlParamInt(r, "researcherID")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	err := rt.db.RemoveProjectMember(r.Context(), id, researcherID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "membership not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to remove project member", err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"project_id": id, "researcher_id": researcherID}, start)
}

// ListProjectGrants handles GET /api/v1/projects/{id}/grants.
func (rt *Router) ListProjectGrants(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	grants, err := rt.db.ListProjectGrants(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list project grants", err)
		return
	}
	respondData(w, http.StatusOK, grants, start)
}

// CreateGrant handles POST /api/v1/projects/{id}/grants.
func (rt *Router) CreateGrant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "project id must be an integer", nil)
		return
	}

	var req struct {
		FundingAgencyID int        `json:"funding_agency_id" validate:"required,min=1"`
		ProgramName     string     `json:"program_name" validate:"max=300"`
		Amount          float64    `json:"amount" validate:"min=0"`
		Currency        string     `json:"currency" validate:"omitempty,len=3"`
		StartDate       *time.Time `json:"start_date"`
		EndDate         *time.Time `json:"end_date"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	grant := &models.Grant{
		ProjectID:       id,
		FundingAgencyID: req.FundingAgencyID,
		ProgramName:     req.ProgramName,
		Amount:          req.Amount,
		Currency:        req.Currency,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
	if err := rt.db.CreateGrant(r.Context(), grant); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create grant", err)
		return
	}
	respondData(w, http.StatusCreated, grant, start)
}
