package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retro-ai-online/backend/internal/api"
	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/interfaces/mocks"
	"retro-ai-online/backend/internal/model"
)

func setupSettingsHandler(t *testing.T) (*api.SettingsHandler, *mocks.MockSettingsService) {
	mockSvc := mocks.NewMockSettingsService(t)
	return api.NewSettingsHandler(mockSvc), mockSvc
}

func TestSettingsHandler_HandleGet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSettingsHandler(t)

		mockSvc.On("Get", mock.Anything).
			Return(&model.Settings{APIURL: "http://localhost:5001/v1", Theme: "dark"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
		rr := httptest.NewRecorder()
		handler.HandleGet(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var settings model.Settings
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &settings))
		assert.Equal(t, "dark", settings.Theme)
	})

	t.Run("Failure", func(t *testing.T) {
		handler, mockSvc := setupSettingsHandler(t)

		mockSvc.On("Get", mock.Anything).Return(nil, assert.AnError).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
		rr := httptest.NewRecorder()
		handler.HandleGet(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSettingsHandler_HandleUpdate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSettingsHandler(t)

		mockSvc.On("Save", mock.Anything, mock.MatchedBy(func(s model.Settings) bool {
			return s.APIURL == "http://localhost:5001/v1" && s.Temperature == 0.9
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/settings",
			strings.NewReader(`{"apiUrl":"http://localhost:5001/v1","temperature":0.9}`))
		rr := httptest.NewRecorder()
		handler.HandleUpdate(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var status api.StatusResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		assert.Equal(t, "ok", status.Status)
	})

	t.Run("Validation failure maps to 400", func(t *testing.T) {
		handler, mockSvc := setupSettingsHandler(t)

		mockSvc.On("Save", mock.Anything, mock.Anything).
			Return(apperrors.ErrValidation).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/settings",
			strings.NewReader(`{"temperature":9}`))
		rr := httptest.NewRecorder()
		handler.HandleUpdate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		handler, _ := setupSettingsHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader("{broken"))
		rr := httptest.NewRecorder()
		handler.HandleUpdate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
