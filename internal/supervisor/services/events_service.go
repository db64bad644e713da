// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package services

import (
	"context"
	"fmt"
)

// EventRouter matches the event router's run loop.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventConsumerService runs the event router as a supervised service
// so a crashed consumer is restarted without affecting the HTTP layer.
type EventConsumerService struct {
	router EventRouter
}

// NewEventConsumerService wraps router.
func NewEventConsumerService(router EventRouter) *EventConsumerService {
	return &EventConsumerService{router: router}
}

// Serve implements suture.Service.
func (s *EventConsumerService) Serve(ctx context.Context) error {
	if err := s.router.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("event router failed: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *EventConsumerService) String() string {
	return "event-consumer"
}
