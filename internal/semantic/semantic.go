// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package semantic provides text embedding and similarity for research bios.
//
// The suggestion engine treats this signal as best-effort: any provider
// failure degrades the semantic score to zero for the affected pair, it
// never fails a suggestion run.
package semantic

import (
	"context"
	"errors"
	"math"
)

// ErrEmptyText is returned when an empty string is passed to Embed.
var ErrEmptyText = errors.New("semantic: cannot embed empty text")

// Provider produces vector embeddings for free text.
type Provider interface {
	// Embed returns an embedding for text. Vectors from the same provider
	// are comparable with Cosine.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cosine computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, or 0 when the vectors differ in
// length or either has zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// l2normalize scales v to unit length in place.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
