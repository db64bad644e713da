// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package semantic

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mkaya-dev/scholarmesh/internal/logging"
	"github.com/mkaya-dev/scholarmesh/internal/metrics"
)

// BreakerProvider wraps a Provider with a circuit breaker so that a
// misbehaving embeddings API stops being called for a cooldown period
// instead of slowing down every suggestion request.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[[]float32]
}

// NewBreakerProvider wraps inner with a circuit breaker.
// The breaker opens after a 60% failure rate over at least 10 requests,
// and probes recovery after 30 seconds.
func NewBreakerProvider(inner Provider) *BreakerProvider {
	cbName := "semantic-embeddings"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Semantic provider circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerProvider{inner: inner, cb: cb}
}

// Embed delegates to the wrapped provider through the breaker.
// When the breaker is open this returns gobreaker.ErrOpenState without
// touching the provider.
func (p *BreakerProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.cb.Execute(func() ([]float32, error) {
		return p.inner.Embed(ctx, text)
	})
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
