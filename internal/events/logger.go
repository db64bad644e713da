// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/mkaya-dev/scholarmesh/internal/logging"
)

// LoggerAdapter bridges Watermill's logging interface onto zerolog so
// bus internals log through the application's structured logger.
type LoggerAdapter struct {
	logger zerolog.Logger
}

// NewLoggerAdapter creates an adapter writing to the global logger.
func NewLoggerAdapter() *LoggerAdapter {
	return &LoggerAdapter{
		logger: logging.With().Str("component", "events").Logger(),
	}
}

func (a *LoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), fields).Msg(msg)
}

func (a *LoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Info(), fields).Msg(msg)
}

func (a *LoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), fields).Msg(msg)
}

func (a *LoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), fields).Msg(msg)
}

func (a *LoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &LoggerAdapter{logger: ctx.Logger()}
}

func (a *LoggerAdapter) event(ev *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	return ev
}
