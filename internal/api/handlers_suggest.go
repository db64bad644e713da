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
)

// CollaborationSuggestions handles GET /api/v1/researchers/{id}/collaboration-suggestions.
//
// Query parameters:
//   - limit: maximum number of suggestions (clamped to the configured
//     range; omitted or invalid values get the default)
//
// An unknown researcher id returns an empty list, not an error. Only a
// store failure produces a non-200 response.
func (rt *Router) CollaborationSuggestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := urlParamInt(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "researcher id must be an integer", nil)
		return
	}

	limit := getIntParam(r, "limit", 0)

	suggestions, err := rt.engine.Suggest(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, database.ErrDataUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "profile store unavailable", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "suggestion run failed", err)
		return
	}

	respondData(w, http.StatusOK, suggestions, start)
}

// Dashboard handles GET /api/v1/dashboard with aggregate entity counts.
func (rt *Router) Dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	counts, err := rt.db.DashboardCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load dashboard counts", err)
		return
	}
	respondData(w, http.StatusOK, counts, start)
}

// Health handles GET /health. Reports degraded with a 503 when the
// store doesn't answer a ping.
func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := http.StatusOK
	payload := map[string]string{"status": "healthy"}
	if err := rt.db.Ping(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		payload["status"] = "degraded"
		payload["database"] = err.Error()
	}
	respondData(w, status, payload, start)
}
