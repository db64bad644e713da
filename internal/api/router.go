// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package api provides the HTTP surface of the service: record CRUD,
// the onboarding flow, dashboard counts, and the collaboration
// suggestion endpoint.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkaya-dev/scholarmesh/internal/config"
	"github.com/mkaya-dev/scholarmesh/internal/database"
	"github.com/mkaya-dev/scholarmesh/internal/events"
	"github.com/mkaya-dev/scholarmesh/internal/suggest"
)

// Router builds the HTTP handler tree from its dependencies.
type Router struct {
	db     *database.DB
	engine *suggest.Engine
	bus    *events.Bus
	cfg    *config.APIConfig
}

// NewRouter creates the API router. bus may be nil, in which case
// researcher writes don't emit auto-tagging events.
func NewRouter(db *database.DB, engine *suggest.Engine, bus *events.Bus, cfg *config.APIConfig) *Router {
	return &Router{db: db, engine: engine, bus: bus, cfg: cfg}
}

// Routes assembles the chi handler tree.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", rt.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow))
		r.Use(prometheusMetrics)

		r.Get("/dashboard", rt.Dashboard)

		r.Route("/researchers", func(r chi.Router) {
			r.Get("/", rt.ListResearchers)
			r.Post("/", rt.CreateResearcher)
			r.Post("/onboard", rt.OnboardResearcher)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.GetResearcher)
				r.Put("/", rt.UpdateResearcher)
				r.Delete("/", rt.DeleteResearcher)

				r.Get("/collaboration-suggestions", rt.CollaborationSuggestions)
				r.Get("/tags", rt.ListResearcherTags)
				r.Get("/skills", rt.ListResearcherSkills)
				r.Put("/skills/{skillID}", rt.SetResearcherSkill)
				r.Get("/projects", rt.ListResearcherProjects)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", rt.ListProjects)
			r.Post("/", rt.CreateProject)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.GetProject)
				r.Put("/", rt.UpdateProject)
				r.Delete("/", rt.DeleteProject)

				r.Get("/members", rt.ListProjectMembers)
				r.Post("/members", rt.AddProjectMember)
				r.Delete("/members/{researcherID}", rt.RemoveProjectMember)
				r.Get("/grants", rt.ListProjectGrants)
				r.Post("/grants", rt.CreateGrant)
			})
		})

		r.Route("/publications", func(r chi.Router) {
			r.Get("/", rt.ListPublications)
			r.Post("/", rt.CreatePublication)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.GetPublication)
				r.Delete("/", rt.DeletePublication)

				r.Get("/authors", rt.ListPublicationAuthors)
				r.Post("/authors", rt.AddPublicationAuthor)
				r.Delete("/authors/{researcherID}", rt.RemovePublicationAuthor)
			})
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", rt.ListDepartments)
			r.Post("/", rt.CreateDepartment)
			r.Get("/{id}", rt.GetDepartment)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", rt.ListTags)
			r.Post("/", rt.CreateTag)
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", rt.ListSkills)
			r.Post("/", rt.CreateSkill)
		})

		r.Route("/funding-agencies", func(r chi.Router) {
			r.Get("/", rt.ListFundingAgencies)
			r.Post("/", rt.CreateFundingAgency)
			r.Get("/{id}/projects", rt.ListFundingAgencyProjects)
		})
	})

	return r
}
