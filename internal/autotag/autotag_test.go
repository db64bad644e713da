// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package autotag

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/mkaya-dev/scholarmesh/internal/models"
)

// mockStore records tag associations in memory.
type mockStore struct {
	tags     []models.Tag
	loadErr  error
	linkErr  error
	links    map[[2]int]struct{} // (researcher, tag)
	attempts int
}

func newMockStore(tagNames ...string) *mockStore {
	s := &mockStore{links: make(map[[2]int]struct{})}
	for i, name := range tagNames {
		s.tags = append(s.tags, models.Tag{ID: i + 1, Name: name})
	}
	return s
}

func (s *mockStore) LoadTagVocabulary(_ context.Context) ([]models.Tag, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.tags, nil
}

func (s *mockStore) EnsureResearcherTag(_ context.Context, researcherID, tagID int) (bool, error) {
	s.attempts++
	if s.linkErr != nil {
		return false, s.linkErr
	}
	key := [2]int{researcherID, tagID}
	if _, ok := s.links[key]; ok {
		return false, nil
	}
	s.links[key] = struct{}{}
	return true, nil
}

func (s *mockStore) linkedTagNames(researcherID int) []string {
	var names []string
	for key := range s.links {
		if key[0] != researcherID {
			continue
		}
		for _, tag := range s.tags {
			if tag.ID == key[1] {
				names = append(names, tag.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func TestRunLinksMatchingTags(t *testing.T) {
	store := newMockStore("ML", "Genomics", "Robotics")
	tagger := New(store)

	tagger.Run(context.Background(), 7, "Working on ML applied to genomics pipelines.")

	got := store.linkedTagNames(7)
	want := []string{"Genomics", "ML"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("linked tags = %v, want %v", got, want)
	}
}

func TestRunWordBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		bio     string
		matches bool
	}{
		{"AI not in AIRPLANE", "AI", "I research AIRPLANE aerodynamics", false},
		{"AI standalone", "AI", "I research AI alignment", true},
		{"Java not in JavaScript", "Java", "I build JavaScript frontends", false},
		{"Java standalone", "Java", "I teach Java to undergraduates", true},
		{"case insensitive", "Genomics", "My field is genomics.", true},
		{"punctuation adjacent", "NLP", "Interests: NLP, parsing.", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore(tt.tag)
			New(store).Run(context.Background(), 1, tt.bio)

			_, linked := store.links[[2]int{1, 1}]
			if linked != tt.matches {
				t.Errorf("tag %q against %q: linked = %v, want %v", tt.tag, tt.bio, linked, tt.matches)
			}
		})
	}
}

func TestRunIdempotent(t *testing.T) {
	store := newMockStore("ML")
	tagger := New(store)
	bio := "Research focus: ML systems."

	tagger.Run(context.Background(), 3, bio)
	tagger.Run(context.Background(), 3, bio)

	if len(store.links) != 1 {
		t.Errorf("association count = %d after two runs, want 1", len(store.links))
	}
}

func TestRunEmptyBioSkips(t *testing.T) {
	store := newMockStore("ML")
	New(store).Run(context.Background(), 1, "")

	if store.attempts != 0 {
		t.Error("empty biography should not touch the store")
	}
}

func TestRunVocabularyFailureIsSilent(t *testing.T) {
	store := newMockStore("ML")
	store.loadErr = errors.New("store unreachable")

	// Must not panic and must not attempt any links.
	New(store).Run(context.Background(), 1, "ML everywhere")

	if store.attempts != 0 {
		t.Error("no associations should be attempted when vocabulary load fails")
	}
}

func TestRunLinkFailureContinues(t *testing.T) {
	store := newMockStore("ML", "NLP")
	store.linkErr = errors.New("constraint violation")
	New(store).Run(context.Background(), 1, "ML and NLP research")

	// Both tags are attempted despite the first failure.
	if store.attempts != 2 {
		t.Errorf("attempts = %d, want 2", store.attempts)
	}
}
