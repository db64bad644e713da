// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package semantic

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mkaya-dev/scholarmesh/internal/config"
)

// embeddingClient is the subset of the OpenAI client used here.
// Narrowed for testability.
type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIProvider embeds text through the OpenAI embeddings API.
// Returned vectors are L2-normalized to unit length.
type OpenAIProvider struct {
	client  embeddingClient
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates a provider from the semantic config section.
func NewOpenAIProvider(cfg *config.SemanticConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("semantic: api_key is required when semantic scoring is enabled")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClient(cfg.APIKey),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Embed generates a unit-length embedding for text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return nil, ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: embeddings request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("semantic: no embedding data returned")
	}

	v := make([]float32, len(resp.Data[0].Embedding))
	copy(v, resp.Data[0].Embedding)
	l2normalize(v)

	return v, nil
}
