// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mkaya-dev/scholarmesh/internal/config"
	"github.com/mkaya-dev/scholarmesh/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "test.duckdb"),
		Threads: 2,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCreateResearcher(t *testing.T, db *DB, name, email string, deptID *int, bio string) *models.Researcher {
	t.Helper()
	r := &models.Researcher{FullName: name, Email: email, DepartmentID: deptID, Bio: bio}
	if err := db.CreateResearcher(context.Background(), r); err != nil {
		t.Fatalf("create researcher %s: %v", name, err)
	}
	return r
}

func TestResearcherCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dept := &models.Department{Name: "Computer Science", Code: "CS"}
	if err := db.CreateDepartment(ctx, dept); err != nil {
		t.Fatalf("create department: %v", err)
	}

	r := mustCreateResearcher(t, db, "Ada Lovelace", "ada@example.edu", &dept.ID, "Analytical engines")
	if r.ID == 0 {
		t.Fatal("create did not assign an id")
	}
	if r.CreatedAt.IsZero() {
		t.Error("create did not fill created_at")
	}

	got, err := db.GetResearcher(ctx, r.ID)
	if err != nil {
		t.Fatalf("get researcher: %v", err)
	}
	if got.FullName != "Ada Lovelace" || got.Email != "ada@example.edu" {
		t.Errorf("got %+v", got)
	}
	if got.DepartmentID == nil || *got.DepartmentID != dept.ID {
		t.Errorf("department_id = %v, want %d", got.DepartmentID, dept.ID)
	}

	got.Bio = "Updated biography"
	if err := db.UpdateResearcher(ctx, got); err != nil {
		t.Fatalf("update researcher: %v", err)
	}
	again, err := db.GetResearcher(ctx, r.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if again.Bio != "Updated biography" {
		t.Errorf("bio = %q after update", again.Bio)
	}

	if err := db.DeleteResearcher(ctx, r.ID); err != nil {
		t.Fatalf("delete researcher: %v", err)
	}
	if _, err := db.GetResearcher(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted researcher: err = %v, want ErrNotFound", err)
	}

	if err := db.DeleteResearcher(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing researcher: err = %v, want ErrNotFound", err)
	}
}

func TestListResearchersFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dept := &models.Department{Name: "Physics"}
	if err := db.CreateDepartment(ctx, dept); err != nil {
		t.Fatalf("create department: %v", err)
	}
	mustCreateResearcher(t, db, "Marie Curie", "marie@example.edu", &dept.ID, "")
	mustCreateResearcher(t, db, "Erwin Schrödinger", "erwin@example.edu", &dept.ID, "")
	mustCreateResearcher(t, db, "Rosalind Franklin", "rosalind@example.edu", nil, "")

	all, total, err := db.ListResearchers(ctx, 10, 0, nil, "")
	if err != nil {
		t.Fatalf("list researchers: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("total = %d, rows = %d, want 3/3", total, len(all))
	}

	byDept, total, err := db.ListResearchers(ctx, 10, 0, &dept.ID, "")
	if err != nil {
		t.Fatalf("list by department: %v", err)
	}
	if total != 2 || len(byDept) != 2 {
		t.Errorf("department filter: total = %d, rows = %d, want 2/2", total, len(byDept))
	}

	bySearch, total, err := db.ListResearchers(ctx, 10, 0, nil, "curie")
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if total != 1 || len(bySearch) != 1 || bySearch[0].FullName != "Marie Curie" {
		t.Errorf("search filter: got %+v", bySearch)
	}

	page, total, err := db.ListResearchers(ctx, 2, 2, nil, "")
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if total != 3 || len(page) != 1 {
		t.Errorf("pagination: total = %d, rows = %d, want 3/1", total, len(page))
	}
}

func TestEnsureResearcherTagIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := mustCreateResearcher(t, db, "Alan Turing", "alan@example.edu", nil, "")
	tag := &models.Tag{Name: "Cryptography"}
	if err := db.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	created, err := db.EnsureResearcherTag(ctx, r.ID, tag.ID)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Error("first upsert should create the association")
	}

	created, err = db.EnsureResearcherTag(ctx, r.ID, tag.ID)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert must be a no-op")
	}

	tags, err := db.ListResearcherTags(ctx, r.ID)
	if err != nil {
		t.Fatalf("list researcher tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Cryptography" {
		t.Errorf("tags = %+v, want one Cryptography link", tags)
	}
}

func TestOnboardResearcher(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	skill := &models.Skill{Name: "Python"}
	if err := db.CreateSkill(ctx, skill); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	tag := &models.Tag{Name: "ML"}
	if err := db.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	r := &models.Researcher{FullName: "Grace Hopper", Email: "grace@example.edu", Bio: "Compilers"}
	err := db.OnboardResearcher(ctx, r,
		[]models.ResearcherSkill{{SkillID: skill.ID, Level: 4}},
		[]int{tag.ID})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if r.ID == 0 {
		t.Fatal("onboard did not assign an id")
	}

	skills, err := db.ListResearcherSkills(ctx, r.ID)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(skills) != 1 || skills[0].Level != 4 {
		t.Errorf("skills = %+v", skills)
	}

	tags, err := db.ListResearcherTags(ctx, r.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "ML" {
		t.Errorf("tags = %+v", tags)
	}
}

func TestLoadSnapshotGraph(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := mustCreateResearcher(t, db, "A", "a@example.edu", nil, "")
	b := mustCreateResearcher(t, db, "B", "b@example.edu", nil, "")
	c := mustCreateResearcher(t, db, "C", "c@example.edu", nil, "")
	loner := mustCreateResearcher(t, db, "Loner", "loner@example.edu", nil, "")

	// A and B share a project; B and C co-author a publication.
	proj := &models.Project{Title: "Graph Study", Status: "active", PIID: a.ID}
	if err := db.CreateProject(ctx, proj); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := db.AddProjectMember(ctx, proj.ID, b.ID, "member", nil); err != nil {
		t.Fatalf("add member: %v", err)
	}

	pub := &models.Publication{Title: "On Graphs"}
	if err := db.CreatePublication(ctx, pub, []int{b.ID, c.ID}); err != nil {
		t.Fatalf("create publication: %v", err)
	}

	snap, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	if len(snap.Researchers) != 4 {
		t.Errorf("snapshot has %d researchers, want 4", len(snap.Researchers))
	}
	if _, ok := snap.Researchers[loner.ID]; !ok {
		t.Error("researcher with no links missing from snapshot")
	}

	// Graph symmetry over both relations.
	pairs := [][2]int{{a.ID, b.ID}, {b.ID, c.ID}}
	for _, p := range pairs {
		if _, ok := snap.Graph[p[0]][p[1]]; !ok {
			t.Errorf("edge %d->%d missing", p[0], p[1])
		}
		if _, ok := snap.Graph[p[1]][p[0]]; !ok {
			t.Errorf("edge %d->%d missing (symmetry)", p[1], p[0])
		}
	}
	if _, ok := snap.Graph[a.ID][c.ID]; ok {
		t.Error("A and C share nothing but got an edge")
	}
	if _, ok := snap.Graph[a.ID][a.ID]; ok {
		t.Error("self-edge present")
	}
}

func TestLoadSnapshotTagsAndSkills(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := mustCreateResearcher(t, db, "Tagged", "tagged@example.edu", nil, "")
	tag := &models.Tag{Name: "NLP"}
	if err := db.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := db.EnsureResearcherTag(ctx, r.ID, tag.ID); err != nil {
		t.Fatalf("link tag: %v", err)
	}
	skill := &models.Skill{Name: "Go"}
	if err := db.CreateSkill(ctx, skill); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	if err := db.SetResearcherSkill(ctx, r.ID, skill.ID, 3); err != nil {
		t.Fatalf("set skill: %v", err)
	}

	snap, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.TagNames[tag.ID] != "NLP" {
		t.Errorf("tag name index = %v", snap.TagNames)
	}
	if _, ok := snap.Tags[r.ID][tag.ID]; !ok {
		t.Error("tag membership missing")
	}
	if snap.SkillNames[skill.ID] != "Go" {
		t.Errorf("skill name index = %v", snap.SkillNames)
	}
	if _, ok := snap.Skills[r.ID][skill.ID]; !ok {
		t.Error("skill membership missing")
	}
}

func TestProjectMembership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pi := mustCreateResearcher(t, db, "PI", "pi@example.edu", nil, "")
	member := mustCreateResearcher(t, db, "Member", "member@example.edu", nil, "")

	proj := &models.Project{Title: "Membership", Status: "active", PIID: pi.ID}
	if err := db.CreateProject(ctx, proj); err != nil {
		t.Fatalf("create project: %v", err)
	}

	// Creating a project enrolls the PI automatically.
	members, err := db.ListProjectMembers(ctx, proj.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].ResearcherID != pi.ID {
		t.Fatalf("members after create = %+v", members)
	}
	if members[0].Role != "principal_investigator" {
		t.Errorf("PI role = %q", members[0].Role)
	}

	pct := 25.0
	if err := db.AddProjectMember(ctx, proj.ID, member.ID, "member", &pct); err != nil {
		t.Fatalf("add member: %v", err)
	}
	// Re-adding is a no-op.
	if err := db.AddProjectMember(ctx, proj.ID, member.ID, "member", &pct); err != nil {
		t.Fatalf("re-add member: %v", err)
	}

	members, err = db.ListProjectMembers(ctx, proj.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}

	if err := db.RemoveProjectMember(ctx, proj.ID, member.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if err := db.RemoveProjectMember(ctx, proj.ID, member.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove absent member: err = %v, want ErrNotFound", err)
	}
}

func TestDashboardCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := mustCreateResearcher(t, db, "Solo", "solo@example.edu", nil, "")
	proj := &models.Project{Title: "Active One", Status: "active", PIID: r.ID}
	if err := db.CreateProject(ctx, proj); err != nil {
		t.Fatalf("create project: %v", err)
	}
	done := &models.Project{Title: "Done One", Status: "completed", PIID: r.ID}
	if err := db.CreateProject(ctx, done); err != nil {
		t.Fatalf("create project: %v", err)
	}

	counts, err := db.DashboardCounts(ctx)
	if err != nil {
		t.Fatalf("dashboard counts: %v", err)
	}
	if counts.Researchers != 1 || counts.Projects != 2 || counts.ActiveProjects != 1 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestListFundingAgencyProjects(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pi := mustCreateResearcher(t, db, "PI", "pi@example.edu", nil, "")
	funded := &models.Project{Title: "Funded", Status: "active", PIID: pi.ID}
	if err := db.CreateProject(ctx, funded); err != nil {
		t.Fatalf("create project: %v", err)
	}
	unfunded := &models.Project{Title: "Unfunded", Status: "active", PIID: pi.ID}
	if err := db.CreateProject(ctx, unfunded); err != nil {
		t.Fatalf("create project: %v", err)
	}

	agency := &models.FundingAgency{Name: "Science Council", Country: "DE"}
	if err := db.CreateFundingAgency(ctx, agency); err != nil {
		t.Fatalf("create agency: %v", err)
	}

	// Two grants into the same project must not duplicate it.
	for _, program := range []string{"Starter", "Follow-up"} {
		g := &models.Grant{
			ProjectID:       funded.ID,
			FundingAgencyID: agency.ID,
			ProgramName:     program,
			Amount:          100000,
			Currency:        "EUR",
		}
		if err := db.CreateGrant(ctx, g); err != nil {
			t.Fatalf("create grant %s: %v", program, err)
		}
	}

	projects, err := db.ListFundingAgencyProjects(ctx, agency.ID)
	if err != nil {
		t.Fatalf("list funded projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0].ID != funded.ID || projects[0].Title != "Funded" {
		t.Errorf("got %+v", projects[0])
	}

	none, err := db.ListFundingAgencyProjects(ctx, agency.ID+100)
	if err != nil {
		t.Fatalf("list for unknown agency: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d projects for unknown agency, want 0", len(none))
	}
}
