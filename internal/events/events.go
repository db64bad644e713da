// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package events carries post-commit domain events over an in-process
// Watermill pub/sub channel. The write path publishes after its
// transaction commits; subscribers (auto-tagging) run asynchronously
// and never affect the triggering request.
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
)

// TopicResearcherSaved carries ResearcherSaved events.
const TopicResearcherSaved = "researcher.saved"

// ResearcherSaved is published after a researcher row is created or
// updated with a non-empty biography.
type ResearcherSaved struct {
	ResearcherID int    `json:"researcher_id"`
	Bio          string `json:"bio"`
}

// Bus is the in-process event bus.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates an in-process pub/sub bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, NewLoggerAdapter()),
	}
}

// PublishResearcherSaved emits a researcher-saved event. Callers invoke
// this after their transaction has committed; a publish failure is
// therefore reportable but must not be treated as a write failure.
func (b *Bus) PublishResearcherSaved(_ context.Context, ev ResearcherSaved) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal researcher.saved event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicResearcherSaved, msg); err != nil {
		return fmt.Errorf("publish researcher.saved event: %w", err)
	}
	return nil
}

// Subscriber exposes the bus's subscribe side for the router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close shuts the bus down, releasing subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
