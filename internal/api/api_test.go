// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/mkaya-dev/scholarmesh/internal/config"
	"github.com/mkaya-dev/scholarmesh/internal/database"
	"github.com/mkaya-dev/scholarmesh/internal/models"
	"github.com/mkaya-dev/scholarmesh/internal/suggest"
)

type testServer struct {
	db      *database.DB
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "api_test.duckdb"),
		Threads: 2,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	engine := suggest.New(db, nil, suggest.DefaultOptions())
	router := NewRouter(db, engine, nil, &config.APIConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		RateLimitReqs:   1000,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"*"},
	})

	return &testServer{db: db, handler: router.Routes()}
}

// do performs a request against the router and decodes the envelope.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (int, *models.APIResponse) {
	t.Helper()

	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response envelope (%d): %v: %s", rec.Code, err, rec.Body.String())
	}
	return rec.Code, &resp
}

func dataAsMap(t *testing.T, resp *models.APIResponse) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("response data is %T, want object", resp.Data)
	}
	return m
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	code, resp := ts.do(t, http.MethodGet, "/health", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q", resp.Status)
	}
	if dataAsMap(t, resp)["status"] != "healthy" {
		t.Errorf("health payload = %v", resp.Data)
	}
}

func TestResearcherEndpoints(t *testing.T) {
	ts := newTestServer(t)

	code, resp := ts.do(t, http.MethodPost, "/api/v1/researchers", map[string]interface{}{
		"full_name": "Ada Lovelace",
		"email":     "ada@example.edu",
		"bio":       "Analytical engines and computation",
	})
	if code != http.StatusCreated {
		t.Fatalf("create status = %d: %+v", code, resp.Error)
	}
	created := dataAsMap(t, resp)
	id := int(created["researcher_id"].(float64))
	if id == 0 {
		t.Fatal("created researcher has no id")
	}

	code, resp = ts.do(t, http.MethodGet, "/api/v1/researchers/1", nil)
	if code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if dataAsMap(t, resp)["full_name"] != "Ada Lovelace" {
		t.Errorf("get payload = %v", resp.Data)
	}

	// Missing email fails validation.
	code, resp = ts.do(t, http.MethodPost, "/api/v1/researchers", map[string]interface{}{
		"full_name": "No Email",
	})
	if code != http.StatusBadRequest {
		t.Errorf("invalid create status = %d, want 400", code)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
	}

	code, _ = ts.do(t, http.MethodGet, "/api/v1/researchers/9999", nil)
	if code != http.StatusNotFound {
		t.Errorf("get missing status = %d, want 404", code)
	}

	code, resp = ts.do(t, http.MethodGet, "/api/v1/researchers", nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	list := dataAsMap(t, resp)
	if int(list["total"].(float64)) != 1 {
		t.Errorf("list total = %v, want 1", list["total"])
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	dept := &models.Department{Name: "Computer Science"}
	if err := ts.db.CreateDepartment(ctx, dept); err != nil {
		t.Fatalf("create department: %v", err)
	}
	tag := &models.Tag{Name: "ML"}
	if err := ts.db.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	base := &models.Researcher{FullName: "Base", Email: "base@example.edu", DepartmentID: &dept.ID}
	cand := &models.Researcher{FullName: "Candidate", Email: "cand@example.edu", DepartmentID: &dept.ID}
	for _, r := range []*models.Researcher{base, cand} {
		if err := ts.db.CreateResearcher(ctx, r); err != nil {
			t.Fatalf("create researcher: %v", err)
		}
		if _, err := ts.db.EnsureResearcherTag(ctx, r.ID, tag.ID); err != nil {
			t.Fatalf("link tag: %v", err)
		}
	}

	code, resp := ts.do(t, http.MethodGet, "/api/v1/researchers/1/collaboration-suggestions?limit=10", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d: %+v", code, resp.Error)
	}
	items, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", resp.Data)
	}
	if len(items) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(items))
	}
	suggestion := items[0].(map[string]interface{})
	if int(suggestion["researcher_id"].(float64)) != cand.ID {
		t.Errorf("suggested researcher_id = %v, want %d", suggestion["researcher_id"], cand.ID)
	}
	// tag 1/1 = 1.0 weighted 0.3 plus same department 0.1
	if suggestion["score"].(float64) != 0.4 {
		t.Errorf("score = %v, want 0.4", suggestion["score"])
	}
	reasons := suggestion["reasons"].(map[string]interface{})
	tags := reasons["common_tags"].([]interface{})
	if len(tags) != 1 || tags[0] != "ML" {
		t.Errorf("common_tags = %v, want [ML]", tags)
	}

	// Unknown subject returns an empty list, not an error.
	code, resp = ts.do(t, http.MethodGet, "/api/v1/researchers/9999/collaboration-suggestions", nil)
	if code != http.StatusOK {
		t.Fatalf("unknown subject status = %d, want 200", code)
	}
	if items, ok := resp.Data.([]interface{}); !ok || len(items) != 0 {
		t.Errorf("unknown subject data = %v, want []", resp.Data)
	}

	// Non-integer id is rejected.
	code, _ = ts.do(t, http.MethodGet, "/api/v1/researchers/abc/collaboration-suggestions", nil)
	if code != http.StatusBadRequest {
		t.Errorf("non-integer id status = %d, want 400", code)
	}
}

func TestOnboardEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	skill := &models.Skill{Name: "Python"}
	if err := ts.db.CreateSkill(ctx, skill); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	tag := &models.Tag{Name: "ML"}
	if err := ts.db.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	code, resp := ts.do(t, http.MethodPost, "/api/v1/researchers/onboard", map[string]interface{}{
		"full_name": "Grace Hopper",
		"email":     "grace@example.edu",
		"bio":       "Compilers and machine-independent languages",
		"skills":    []map[string]int{{"skill_id": skill.ID, "level": 4}},
		"tag_ids":   []int{tag.ID},
	})
	if code != http.StatusCreated {
		t.Fatalf("onboard status = %d: %+v", code, resp.Error)
	}

	payload := dataAsMap(t, resp)
	researcher, ok := payload["researcher"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload = %v", payload)
	}
	id := int(researcher["researcher_id"].(float64))

	skills, err := ts.db.ListResearcherSkills(ctx, id)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(skills) != 1 || skills[0].Level != 4 {
		t.Errorf("onboarded skills = %+v", skills)
	}

	if _, present := payload["initial_suggestions"]; !present {
		t.Error("onboard response missing initial_suggestions")
	}
}

func TestDashboardEndpoint(t *testing.T) {
	ts := newTestServer(t)

	code, resp := ts.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	counts := dataAsMap(t, resp)
	for _, key := range []string{"researchers", "departments", "projects", "publications", "tags", "skills"} {
		if _, ok := counts[key]; !ok {
			t.Errorf("dashboard payload missing %q", key)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want upstream-id", got)
	}
}
