// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package suggest implements the multi-signal collaboration suggestion
// engine. For a base researcher it scores every other researcher on five
// signals — shared tags, shared skills, same department, mutual
// collaborators, and biography similarity — and returns a ranked,
// truncated list of candidates with human-readable reasons.
//
// Each run scores against a single immutable Snapshot loaded from the
// store, so concurrent runs never observe interleaved writes.
package suggest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkaya-dev/scholarmesh/internal/logging"
	"github.com/mkaya-dev/scholarmesh/internal/metrics"
	"github.com/mkaya-dev/scholarmesh/internal/semantic"
)

// SnapshotProvider loads the profile index and collaboration graph for
// one scoring run.
type SnapshotProvider interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Engine ranks collaboration candidates for a base researcher.
type Engine struct {
	store    SnapshotProvider
	provider semantic.Provider // nil when semantic scoring is disabled
	opts     Options
	logger   zerolog.Logger
}

// New creates a suggestion engine. provider may be nil, in which case
// the semantic signal always contributes zero.
func New(store SnapshotProvider, provider semantic.Provider, opts Options) *Engine {
	return &Engine{
		store:    store,
		provider: provider,
		opts:     opts,
		logger:   logging.With().Str("component", "suggest").Logger(),
	}
}

// Suggest returns up to limit ranked collaboration candidates for the
// researcher baseID. The limit is clamped to the configured range. An
// unknown baseID yields an empty list, not an error; only a store
// failure aborts the run.
func (e *Engine) Suggest(ctx context.Context, baseID, limit int) ([]Suggestion, error) {
	start := time.Now()
	limit = e.opts.ClampLimit(limit)

	snap, err := e.store.LoadSnapshot(ctx)
	if err != nil {
		metrics.SuggestRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	base, ok := snap.Researchers[baseID]
	if !ok {
		e.logger.Debug().Int("researcher_id", baseID).Msg("Base researcher not in snapshot")
		metrics.SuggestRunsTotal.WithLabelValues("empty").Inc()
		return []Suggestion{}, nil
	}

	baseTags := snap.Tags[baseID]
	baseSkills := snap.Skills[baseID]
	baseNeighbors := snap.Neighbors(baseID)
	baseVec := e.embedBase(ctx, base)

	scored := make([]Suggestion, 0, len(snap.Researchers)-1)
	for id, cand := range snap.Researchers {
		if id == baseID {
			continue
		}
		metrics.SuggestCandidatesScored.Inc()

		s := e.scoreCandidate(ctx, snap, base, baseTags, baseSkills, baseNeighbors, baseVec, cand)
		if s.Score <= e.opts.ScoreCutoff {
			continue
		}
		scored = append(scored, s)
	}

	// Descending by score; candidate id ascending as the secondary key
	// so identical snapshots always rank identically.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ResearcherID < scored[j].ResearcherID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	outcome := "ok"
	if len(scored) == 0 {
		outcome = "empty"
	}
	metrics.SuggestRunsTotal.WithLabelValues(outcome).Inc()
	metrics.SuggestRunDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Int("researcher_id", baseID).
		Int("candidates", len(snap.Researchers)-1).
		Int("results", len(scored)).
		Dur("duration", time.Since(start)).
		Msg("Suggestion run complete")

	return scored, nil
}

// scoreCandidate computes the composite score and reasons payload for
// one candidate.
func (e *Engine) scoreCandidate(
	ctx context.Context,
	snap *Snapshot,
	base Profile,
	baseTags, baseSkills, baseNeighbors map[int]struct{},
	baseVec []float32,
	cand Profile,
) Suggestion {
	w := e.opts.Weights

	commonTags := intersect(baseTags, snap.Tags[cand.ID])
	tagScore := float64(len(commonTags)) / float64(maxInt(len(baseTags), 1))

	commonSkills := intersect(baseSkills, snap.Skills[cand.ID])
	skillScore := float64(len(commonSkills)) / float64(maxInt(len(baseSkills), 1))

	deptScore := 0.0
	if sameDepartment(base.DepartmentID, cand.DepartmentID) {
		deptScore = 1.0
	}

	candNeighbors := snap.Neighbors(cand.ID)
	mutual := len(intersect(baseNeighbors, candNeighbors))
	networkScore := math.Min(float64(mutual)/float64(e.opts.NetworkSaturation), 1.0)

	semScore, semComputed := e.semanticScore(ctx, baseVec, cand)

	score := w.Tag*tagScore + w.Skill*skillScore + w.Department*deptScore +
		w.Network*networkScore + w.Semantic*semScore

	reasons := Reasons{
		CommonTags:             resolveNames(commonTags, snap.TagNames),
		CommonSkills:           resolveNames(commonSkills, snap.SkillNames),
		CommonConnectionsCount: mutual,
		AlreadyConnected:       containsKey(baseNeighbors, cand.ID),
	}
	if semComputed {
		pct := int(math.Round(semScore * 100))
		reasons.SemanticMatch = &pct
	}

	var deptName *string
	if cand.DepartmentID != nil {
		if name, ok := snap.DeptNames[*cand.DepartmentID]; ok {
			deptName = &name
		}
	}

	return Suggestion{
		ResearcherID:   cand.ID,
		FullName:       cand.FullName,
		DepartmentName: deptName,
		Score:          math.Round(score*10000) / 10000,
		Reasons:        reasons,
	}
}

// embedBase embeds the base researcher's biography once per run.
// Returns nil when the semantic signal doesn't apply.
func (e *Engine) embedBase(ctx context.Context, base Profile) []float32 {
	if e.provider == nil || e.opts.Weights.Semantic == 0 {
		return nil
	}
	if len(base.Bio) <= e.opts.MinBioLength {
		return nil
	}

	vec, err := e.provider.Embed(ctx, base.Bio)
	if err != nil {
		metrics.SemanticCallErrors.Inc()
		e.logger.Warn().Err(err).Int("researcher_id", base.ID).
			Msg("Base bio embedding failed, semantic signal disabled for this run")
		return nil
	}
	return vec
}

// semanticScore computes the bio similarity signal for one candidate.
// Any provider failure degrades to 0 without failing the run. The
// second return reports whether a similarity was actually computed.
func (e *Engine) semanticScore(ctx context.Context, baseVec []float32, cand Profile) (float64, bool) {
	if baseVec == nil || len(cand.Bio) <= e.opts.MinBioLength {
		return 0, false
	}

	vec, err := e.provider.Embed(ctx, cand.Bio)
	if err != nil {
		metrics.SemanticCallErrors.Inc()
		e.logger.Debug().Err(err).Int("researcher_id", cand.ID).
			Msg("Candidate bio embedding failed, degrading semantic signal to 0")
		return 0, false
	}

	sim := semantic.Cosine(baseVec, vec)
	if sim < 0 {
		sim = 0
	}
	return sim, true
}

// intersect returns the ids present in both sets.
func intersect(a, b map[int]struct{}) []int {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	// Iterate the smaller set.
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make([]int, 0, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// resolveNames maps ids to display names, sorted for determinism.
func resolveNames(ids []int, names map[int]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// sameDepartment reports whether two nullable department references
// match. Two absent departments count as a match.
func sameDepartment(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func containsKey(set map[int]struct{}, id int) bool {
	_, ok := set[id]
	return ok
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
