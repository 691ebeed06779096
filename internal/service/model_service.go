package service

import (
	"context"

	"retro-ai-online/backend/internal/llm"
)

// ModelService exposes model discovery and connectivity probing against the
// configured endpoint.
type ModelService struct {
	llm llm.Gateway
}

func NewModelService(gateway llm.Gateway) *ModelService {
	return &ModelService{llm: gateway}
}

// List returns the endpoint's models, or the synthetic default entry when
// the endpoint cannot be reached or does not support listing.
func (s *ModelService) List(ctx context.Context) []llm.ModelInfo {
	return s.llm.ListModels(ctx)
}

// TestConnection probes url, or the configured endpoint when url is empty.
func (s *ModelService) TestConnection(ctx context.Context, url string) llm.ConnectionResult {
	return s.llm.TestConnection(ctx, url)
}
