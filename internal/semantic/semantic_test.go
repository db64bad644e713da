// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package semantic

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"scaled", []float32{2, 2}, []float32{1, 1}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestL2Normalize(t *testing.T) {
	v := []float32{3, 4}
	l2normalize(v)
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
		t.Errorf("normalized vector has magnitude %v, want 1.0", math.Sqrt(norm))
	}

	zero := []float32{0, 0, 0}
	l2normalize(zero)
	for i, x := range zero {
		if x != 0 {
			t.Errorf("zero vector changed at index %d: %v", i, x)
		}
	}
}

type failingProvider struct {
	calls int
}

func (f *failingProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return nil, errors.New("upstream unavailable")
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &failingProvider{}
	p := NewBreakerProvider(inner)

	// Breaker requires 10 requests at >=60% failure rate before tripping.
	for i := 0; i < 10; i++ {
		if _, err := p.Embed(context.Background(), "bio text"); err == nil {
			t.Fatal("expected error from failing provider")
		}
	}

	callsBefore := inner.calls
	if _, err := p.Embed(context.Background(), "bio text"); err == nil {
		t.Fatal("expected error with open breaker")
	}
	if inner.calls != callsBefore {
		t.Errorf("open breaker should not call provider, calls went %d -> %d", callsBefore, inner.calls)
	}
}

type fixedProvider struct {
	vec []float32
}

func (f *fixedProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, nil
}

func TestBreakerPassesThrough(t *testing.T) {
	want := []float32{0.6, 0.8}
	p := NewBreakerProvider(&fixedProvider{vec: want})

	got, err := p.Embed(context.Background(), "bio text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}
