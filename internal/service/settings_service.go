package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/store"
)

// SettingsService reads and writes the single settings record. It also
// serves as the llm.SettingsSource: every outbound call sees the latest
// saved endpoint and sampling parameters.
type SettingsService struct {
	store    store.Store
	defaults model.Settings
}

func NewSettingsService(s store.Store, defaults model.Settings) *SettingsService {
	return &SettingsService{store: s, defaults: defaults}
}

// Get returns the stored settings, falling back to defaults when the
// record has not been seeded yet.
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		if err == store.ErrNotFound {
			defaults := s.defaults
			return &defaults, nil
		}
		return nil, err
	}
	return settings, nil
}

// Save validates and persists the full settings record.
func (s *SettingsService) Save(ctx context.Context, settings model.Settings) error {
	if strings.TrimSpace(settings.APIURL) == "" {
		return fmt.Errorf("%w: API URL is required", apperrors.ErrValidation)
	}
	if settings.Temperature < 0 || settings.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be between 0 and 2", apperrors.ErrValidation)
	}
	if settings.TopP < 0 || settings.TopP > 1 {
		return fmt.Errorf("%w: top_p must be between 0 and 1", apperrors.ErrValidation)
	}
	if settings.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens cannot be negative", apperrors.ErrValidation)
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("could not save settings: %w", err)
	}
	slog.Info("Settings updated", "api_url", settings.APIURL, "model", settings.Model)
	return nil
}

// APISettings implements llm.SettingsSource. Storage failures reduce to the
// defaults so an outbound call is never blocked by a read error.
func (s *SettingsService) APISettings(ctx context.Context) model.Settings {
	settings, err := s.Get(ctx)
	if err != nil {
		slog.Warn("Could not load settings for API call, using defaults", "error", err)
		return s.defaults
	}
	return *settings
}
