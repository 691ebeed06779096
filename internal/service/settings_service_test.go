package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/service"
	"retro-ai-online/backend/internal/store"
	mock_store "retro-ai-online/backend/internal/store/mocks"
)

var serviceDefaults = model.Settings{
	APIURL:      "http://localhost:5001/v1",
	Model:       "default",
	Temperature: 0.7,
	MaxTokens:   2048,
	TopP:        0.9,
	Theme:       "dark",
	AccentColor: "#D4000B",
	FontSize:    16,
}

func setupSettingsService(t *testing.T) (*service.SettingsService, *mock_store.MockStore) {
	mockStore := mock_store.NewMockStore(t)
	return service.NewSettingsService(mockStore, serviceDefaults), mockStore
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored record", func(t *testing.T) {
		settingsService, mockStore := setupSettingsService(t)

		stored := model.Settings{APIURL: "http://custom", Temperature: 1.3}
		mockStore.On("Settings", ctx).Return(&stored, nil).Once()

		settings, err := settingsService.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, stored, *settings)
	})

	t.Run("falls back to defaults when unseeded", func(t *testing.T) {
		settingsService, mockStore := setupSettingsService(t)

		mockStore.On("Settings", ctx).Return(nil, store.ErrNotFound).Once()

		settings, err := settingsService.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, serviceDefaults, *settings)
	})
}

func TestSettingsService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("valid record persists", func(t *testing.T) {
		settingsService, mockStore := setupSettingsService(t)

		settings := model.Settings{APIURL: "http://localhost:5001/v1", Temperature: 1.0, TopP: 0.5, MaxTokens: 100}
		mockStore.On("SaveSettings", ctx, settings).Return(nil).Once()

		assert.NoError(t, settingsService.Save(ctx, settings))
	})

	tests := []struct {
		name     string
		settings model.Settings
	}{
		{"missing API URL", model.Settings{Temperature: 1.0}},
		{"temperature too high", model.Settings{APIURL: "http://x", Temperature: 2.5}},
		{"negative temperature", model.Settings{APIURL: "http://x", Temperature: -0.1}},
		{"top_p above one", model.Settings{APIURL: "http://x", TopP: 1.5}},
		{"negative max_tokens", model.Settings{APIURL: "http://x", MaxTokens: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingsService, _ := setupSettingsService(t)

			err := settingsService.Save(ctx, tt.settings)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestSettingsService_APISettings(t *testing.T) {
	ctx := context.Background()

	t.Run("serves the stored record", func(t *testing.T) {
		settingsService, mockStore := setupSettingsService(t)

		stored := model.Settings{APIURL: "http://live", APIKey: "k"}
		mockStore.On("Settings", ctx).Return(&stored, nil).Once()

		assert.Equal(t, stored, settingsService.APISettings(ctx))
	})

	t.Run("read failures reduce to defaults", func(t *testing.T) {
		settingsService, mockStore := setupSettingsService(t)

		mockStore.On("Settings", ctx).Return(nil, assert.AnError).Once()

		assert.Equal(t, serviceDefaults, settingsService.APISettings(ctx))
	})
}
