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
	"github.com/mkaya-dev/scholarmesh/internal/events"
	"github.com/mkaya-dev/scholarmesh/internal/logging"
	"github.com/mkaya-dev/scholarmesh/internal/models"
	"github.com/mkaya-dev/scholarmesh/internal/suggest"
)

// ResearcherRequest is the create/update payload for a researcher.
type ResearcherRequest struct {
	FullName     string `json:"full_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Title        string `json:"title" validate:"max=100"`
	DepartmentID *int   `json:"department_id"`
	Bio          string `json:"bio" validate:"max=10000"`
}

// OnboardRequest creates a researcher with initial skills and tags in
// one call and returns first collaboration suggestions.
type OnboardRequest struct {
	ResearcherRequest
	Skills []OnboardSkill `json:"skills" validate:"dive"`
	TagIDs []int          `json:"tag_ids"`
}

// OnboardSkill is one initial skill assignment.
type OnboardSkill struct {
	SkillID int `json:"skill_id" validate:"required,min=1"`
	Level   int `json:"level" validate:"min=1,max=5"`
}

// OnboardResponse pairs the created researcher with its first
// suggestions.
type OnboardResponse struct {
	Researcher         *models.Researcher   `json:"researcher"`
	InitialSuggestions []suggest.Suggestion `json:"initial_suggestions"`
}

// publishSaved emits a researcher-saved event for auto-tagging. The
// write has already committed; a publish failure is only logged.
func (rt *Router) publishSaved(r *http.Request, researcherID int, bio string) {
	if rt.bus == nil || bio == "" {
		return
	}
	err := rt.bus.PublishResearcherSaved(r.Context(), events.ResearcherSaved{
		ResearcherID: researcherID,
		Bio:          bio,
	})
	if err != nil {
		logging.Warn().Err(err).Int("researcher_id", researcherID).Msg("Failed to publish researcher.saved")
	}
}

// ListResearchers handles GET /api/v1/researchers with pagination and
// optional department / name-search filters.
func (rt *Router) ListResearchers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := clampPageSize(getIntParam(r, "limit", 0), rt.cfg.DefaultPageSize, rt.cfg.MaxPageSize)
	offset := getIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	var departmentID *int
	if d := getIntParam(r, "department_id", 0); d > 0 {
		departmentID = &d
	}
	search := r.URL.Query().Get("search")

	researchers, total, err := rt.db.ListResearchers(r.Context(), limit, offset, departmentID, search)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list researchers", err)
		return
	}

	respondData(w, http.StatusOK, &models.PaginatedResponse{
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Items:  researchers,
	}, start)
}

// GetResearcher handles GET /api/v1/researchers/{id}.
func (rt *Router) GetResearcher(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	researcher, err := rt.db.GetResearcher(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "researcher not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load researcher", err)
		return
	}
	respondData(w, http.StatusOK, researcher, start)
}

// CreateResearcher handles POST /api/v1/researchers.
func (rt *Router) CreateResearcher(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ResearcherRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	researcher := &models.Researcher{
		FullName:     req.FullName,
		Email:        req.Email,
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		Bio:          req.Bio,
	}
	if err := rt.db.CreateResearcher(r.Context(), researcher); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create researcher", err)
		return
	}

	rt.publishSaved(r, researcher.ID, researcher.Bio)
	respondData(w, http.StatusCreated, researcher, start)
}

// UpdateResearcher handles PUT /api/v1/researchers/{id}.
func (rt *Router) UpdateResearcher(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	var req ResearcherRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	researcher := &models.Researcher{
		ID:           id,
		FullName:     req.FullName,
		Email:        req.Email,
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		Bio:          req.Bio,
	}
	err := rt.db.UpdateResearcher(r.Context(), researcher)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "researcher not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to update researcher", err)
		return
	}

	rt.publishSaved(r, id, req.Bio)
	respondData(w, http.StatusOK, researcher, start)
}

// DeleteResearcher handles DELETE /api/v1/researchers/{id}.
func (rt *Router) DeleteResearcher(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	err := rt.db.DeleteResearcher(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "researcher not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to delete researcher", err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id}, start)
}

// OnboardResearcher handles POST /api/v1/researchers/onboard: creates
// the researcher with initial skills and tags transactionally, then
// returns the first collaboration suggestions alongside the record.
func (rt *Router) OnboardResearcher(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req OnboardRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	researcher := &models.Researcher{
		FullName:     req.FullName,
		Email:        req.Email,
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		Bio:          req.Bio,
	}
	skills := make([]models.ResearcherSkill, 0, len(req.Skills))
	for _, s := range req.Skills {
		level := s.Level
		if level == 0 {
			level = 1
		}
		skills = append(skills, models.ResearcherSkill{SkillID: s.SkillID, Level: level})
	}

	if err := rt.db.OnboardResearcher(r.Context(), researcher, skills, req.TagIDs); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to onboard researcher", err)
		return
	}

	rt.publishSaved(r, researcher.ID, researcher.Bio)

	// First suggestions are best-effort: the onboarding itself has
	// already succeeded.
	suggestions, err := rt.engine.Suggest(r.Context(), researcher.ID, 5)
	if err != nil {
		logging.Warn().Err(err).Int("researcher_id", researcher.ID).Msg("Initial suggestions failed during onboarding")
		suggestions = nil
	}

	respondData(w, http.StatusCreated, &OnboardResponse{
		Researcher:         researcher,
		InitialSuggestions: suggestions,
	}, start)
}

// ListResearcherTags handles GET /api/v1/researchers/{id}/tags.
func (rt *Router) ListResearcherTags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	tags, err := rt.db.ListResearcherTags(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list researcher tags", err)
		return
	}
	respondData(w, http.StatusOK, tags, start)
}

// ListResearcherSkills handles GET /api/v1/researchers/{id}/skills.
func (rt *Router) ListResearcherSkills(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	skills, err := rt.db.ListResearcherSkills(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list researcher skills", err)
		return
	}
	respondData(w, http.StatusOK, skills, start)
}

// SetResearcherSkill handles PUT /api/v1/researchers/{id}/skills/{skillID}.
func (rt *Router) SetResearcherSkill(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}
	skillID, ok := urlParamInt(r, "skillID")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "skill id must be an integer", nil)
		return
	}

	var req struct {
		Level int `json:"level" validate:"min=1,max=5"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if req.Level == 0 {
		req.Level = 1
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := rt.db.SetResearcherSkill(r.Context(), id, skillID, req.Level); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to set researcher skill", err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"researcher_id": id, "skill_id": skillID, "level": req.Level}, start)
}

// ListResearcherProjects handles GET /api/v1/researchers/{id}/projects.
func (rt *Router) ListResearcherProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	projects, err := rt.db.ListResearcherProjects(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list researcher projects", err)
		return
	}
	respondData(w, http.StatusOK, projects, start)
}
