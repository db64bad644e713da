// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	json "github.com/goccy/go-json"

	"github.com/mkaya-dev/scholarmesh/internal/autotag"
)

// Router consumes domain events and dispatches them to handlers.
type Router struct {
	router *message.Router
}

// NewRouter wires the auto-tagger onto the researcher-saved topic.
// Handlers get panic recovery and bounded exponential-backoff retry;
// a message that keeps failing is dropped after the retries, matching
// the best-effort contract of auto-tagging.
func NewRouter(bus *Bus, tagger *autotag.Tagger) (*Router, error) {
	logger := NewLoggerAdapter()

	r, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 30 * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	r.AddMiddleware(middleware.Recoverer)
	r.AddMiddleware(middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
		Logger:          logger,
	}.Middleware)

	r.AddNoPublisherHandler(
		"autotag-on-researcher-saved",
		TopicResearcherSaved,
		bus.Subscriber(),
		func(msg *message.Message) error {
			var ev ResearcherSaved
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				// Malformed payloads can't succeed on retry.
				logger.Error("Dropping malformed researcher.saved event", err, nil)
				return nil
			}
			tagger.Run(msg.Context(), ev.ResearcherID, ev.Bio)
			return nil
		},
	)

	return &Router{router: r}, nil
}

// Run blocks processing events until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel closed once the router has started.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router and its handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
