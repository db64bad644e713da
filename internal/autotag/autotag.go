// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package autotag scans researcher biographies against the tag
// vocabulary and links matching tags to the researcher. It runs after
// a researcher record is saved and is strictly best-effort: it never
// fails or rolls back the write that triggered it.
package autotag

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/mkaya-dev/scholarmesh/internal/logging"
	"github.com/mkaya-dev/scholarmesh/internal/metrics"
	"github.com/mkaya-dev/scholarmesh/internal/models"
)

// Store is the persistence surface the tagger needs.
type Store interface {
	// LoadTagVocabulary returns every tag in the system.
	LoadTagVocabulary(ctx context.Context) ([]models.Tag, error)

	// EnsureResearcherTag idempotently links a tag to a researcher.
	// Returns true when a new association was created, false when it
	// already existed.
	EnsureResearcherTag(ctx context.Context, researcherID, tagID int) (bool, error)
}

// Tagger links vocabulary tags to researchers whose biography mentions
// them as a whole word, case-insensitively.
type Tagger struct {
	store  Store
	logger zerolog.Logger
}

// New creates a Tagger backed by store.
func New(store Store) *Tagger {
	return &Tagger{
		store:  store,
		logger: logging.With().Str("component", "autotag").Logger(),
	}
}

// Run scans bio against the full tag vocabulary and links every
// matching tag to the researcher. Matching is whole-word and
// case-insensitive: a tag named "Java" does not match inside
// "JavaScript". Re-running over an unchanged biography is a no-op.
//
// All failures are logged and swallowed; the caller's write has
// already committed and must not be affected.
func (t *Tagger) Run(ctx context.Context, researcherID int, bio string) {
	if bio == "" {
		metrics.AutotagRunsTotal.WithLabelValues("skipped").Inc()
		return
	}

	tags, err := t.store.LoadTagVocabulary(ctx)
	if err != nil {
		metrics.AutotagRunsTotal.WithLabelValues("error").Inc()
		t.logger.Warn().Err(err).Int("researcher_id", researcherID).
			Msg("Tag vocabulary load failed, skipping auto-tag run")
		return
	}

	linked := 0
	for _, tag := range tags {
		pattern, err := wordPattern(tag.Name)
		if err != nil {
			t.logger.Warn().Err(err).Str("tag", tag.Name).Msg("Unusable tag name, skipping")
			continue
		}
		if !pattern.MatchString(bio) {
			continue
		}

		created, err := t.store.EnsureResearcherTag(ctx, researcherID, tag.ID)
		if err != nil {
			t.logger.Warn().Err(err).
				Int("researcher_id", researcherID).
				Int("tag_id", tag.ID).
				Msg("Tag association upsert failed")
			continue
		}
		if created {
			linked++
			metrics.AutotagLinksCreated.Inc()
		}
	}

	metrics.AutotagRunsTotal.WithLabelValues("ok").Inc()
	if linked > 0 {
		t.logger.Info().
			Int("researcher_id", researcherID).
			Int("tags_linked", linked).
			Msg("Auto-tagged researcher from biography")
	}
}

// wordPattern compiles a case-insensitive whole-word matcher for a tag
// name. The name is quoted, so vocabulary entries with regex
// metacharacters ("C++", "R&D") match literally.
func wordPattern(name string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
}
