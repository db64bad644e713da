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

// PublicationRequest is the create payload for a publication.
type PublicationRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Venue     string `json:"venue" validate:"max=300"`
	Year      *int   `json:"year" validate:"omitempty,min=1900,max=2100"`
	DOI       string `json:"doi" validate:"max=200"`
	ProjectID *int   `json:"project_id"`
	AuthorIDs []int  `json:"author_ids"`
}

// ListPublications handles GET /api/v1/publications.
func (rt *Router) ListPublications(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := clampPageSize(getIntParam(r, "limit", 0), rt.cfg.DefaultPageSize, rt.cfg.MaxPageSize)
	offset := getIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	var year *int
	if y := getIntParam(r, "year", 0); y > 0 {
		year = &y
	}

	publications, total, err := rt.db.ListPublications(r.Context(), limit, offset, year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list publications", err)
		return
	}
	respondData(w, http.StatusOK, &models.PaginatedResponse{
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Items:  publications,
	}, start)
}

// GetPublication handles GET /api/v1/publications/{id}.
func (rt *Router) GetPublication(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "publication id must be an integer", nil)
		return
	}

	publication, err := rt.db.GetPublication(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "publication not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load publication", err)
		return
	}
	respondData(w, http.StatusOK, publication, start)
}

// CreatePublication handles POST /api/v1/publications. Authors are
// linked in the order given.
func (rt *Router) CreatePublication(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PublicationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	publication := &models.Publication{
		Title:     req.Title,
		Venue:     req.Venue,
		Year:      req.Year,
		DOI:       req.DOI,
		ProjectID: req.ProjectID,
	}
	if err := rt.db.CreatePublication(r.Context(), publication, req.AuthorIDs); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create publication", err)
		return
	}
	respondData(w, http.StatusCreated, publication, start)
}

// DeletePublication handles DELETE /api/v1/publications/{id}.
func (rt *Router) DeletePublication(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "publication id must be an integer", nil)
		return
	}

	err := rt.db.DeletePublication(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "publication not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to delete publication", err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"deleted": id}, start)
}

// ListPublicationAuthors handles GET /api/v1/publications/{id}/authors.
func (rt *Router) ListPublicationAuthors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "publication id must be an integer", nil)
		return
	}

	authors, err := rt.db.ListPublicationAuthors(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list publication authors", err)
		return
	}
	respondData(w, http.StatusOK, authors, start)
}

// AddPublicationAuthor handles POST /api/v1/publications/{id}/authors.
func (rt *Router) AddPublicationAuthor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "publication id must be an integer", nil)
		return
	}

	var req struct {
		ResearcherID int `json:"researcher_id" validate:"required,min=1"`
		AuthorOrder  int `json:"author_order" validate:"min=0"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.AuthorOrder == 0 {
		req.AuthorOrder = 1
	}

	if err := rt.db.AddPublicationAuthor(r.Context(), id, req.ResearcherID, req.AuthorOrder); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to add publication author", err)
		return
	}
	respondData(w, http.StatusCreated, map[string]int{"publication_id": id, "researcher_id": req.ResearcherID}, start)
}

// RemovePublicationAuthor handles DELETE /api/v1/publications/{id}/authors/{researcherID}.
func (rt *Router) RemovePublicationAuthor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "publication id must be an integer", nil)
		return
	}
	researcherID, ok := urlParamInt(r, "researcherID")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	err := rt.db.RemovePublicationAuthor(r.Context(), id, researcherID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "authorship not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to remove publication author", err)
		return
	}
	respondData(w, http.StatusOK, map[string]int{"publication_id": id, "researcher_id": researcherID}, start)
}
