// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package suggest

// Profile is one researcher as seen by the scoring engine.
// Built fresh per scoring run and never mutated.
type Profile struct {
	ID           int
	FullName     string
	DepartmentID *int
	Bio          string
}

// Snapshot is the immutable data a single suggestion run scores against:
// all researcher profiles, the name indexes, the per-researcher tag and
// skill membership sets, and the collaboration graph.
//
// The graph is an undirected adjacency structure: Graph[a] contains b iff
// Graph[b] contains a. Researchers with no collaborators may be absent
// from the map entirely; treat a missing key as an empty neighbor set.
type Snapshot struct {
	Researchers map[int]Profile
	DeptNames   map[int]string
	TagNames    map[int]string
	SkillNames  map[int]string

	// Tags and Skills map researcher id to the set of tag/skill ids.
	Tags   map[int]map[int]struct{}
	Skills map[int]map[int]struct{}

	Graph map[int]map[int]struct{}
}

// Neighbors returns the collaborator set for a researcher, or nil when
// the researcher has none.
func (s *Snapshot) Neighbors(id int) map[int]struct{} {
	return s.Graph[id]
}

// Reasons explains why a candidate was surfaced.
type Reasons struct {
	CommonTags             []string `json:"common_tags"`
	CommonSkills           []string `json:"common_skills"`
	CommonConnectionsCount int      `json:"common_connections_count"`
	AlreadyConnected       bool     `json:"already_connected"`

	// SemanticMatch is the bio similarity as an integer percentage.
	// Present only when the semantic signal was actually computed.
	SemanticMatch *int `json:"semantic_match,omitempty"`
}

// Suggestion is one ranked collaboration candidate.
type Suggestion struct {
	ResearcherID   int     `json:"researcher_id"`
	FullName       string  `json:"full_name"`
	DepartmentName *string `json:"department_name"`
	Score          float64 `json:"score"`
	Reasons        Reasons `json:"reasons"`
}
