// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mkaya-dev/scholarmesh/internal/autotag"
	"github.com/mkaya-dev/scholarmesh/internal/models"
)

// recordingStore implements autotag.Store and records link calls.
type recordingStore struct {
	mu    sync.Mutex
	links map[[2]int]struct{}
}

func (s *recordingStore) LoadTagVocabulary(_ context.Context) ([]models.Tag, error) {
	return []models.Tag{{ID: 1, Name: "ML"}}, nil
}

func (s *recordingStore) EnsureResearcherTag(_ context.Context, researcherID, tagID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{researcherID, tagID}
	if _, ok := s.links[key]; ok {
		return false, nil
	}
	s.links[key] = struct{}{}
	return true, nil
}

func (s *recordingStore) hasLink(researcherID, tagID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[[2]int{researcherID, tagID}]
	return ok
}

func TestResearcherSavedTriggersAutotag(t *testing.T) {
	store := &recordingStore{links: make(map[[2]int]struct{})}
	bus := NewBus()
	defer bus.Close()

	router, err := NewRouter(bus, autotag.New(store))
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := router.Run(ctx); err != nil {
			t.Logf("router stopped: %v", err)
		}
	}()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	err = bus.PublishResearcherSaved(ctx, ResearcherSaved{
		ResearcherID: 42,
		Bio:          "Applying ML to climate simulation",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if store.hasLink(42, 1) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("auto-tag link was not created from the published event")
}
