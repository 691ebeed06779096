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
	"retro-ai-online/backend/internal/interfaces/mocks"
	"retro-ai-online/backend/internal/llm"
	"retro-ai-online/backend/internal/model"
)

type systemMocks struct {
	models     *mocks.MockModelService
	data       *mocks.MockDataService
	chat       *mocks.MockChatService
	characters *mocks.MockCharacterService
}

func setupSystemHandler(t *testing.T) (*api.SystemHandler, systemMocks) {
	m := systemMocks{
		models:     mocks.NewMockModelService(t),
		data:       mocks.NewMockDataService(t),
		chat:       mocks.NewMockChatService(t),
		characters: mocks.NewMockCharacterService(t),
	}
	handler := api.NewSystemHandler(m.models, m.data, m.chat, m.characters)
	return handler, m
}

func TestSystemHandler_HandleListModels(t *testing.T) {
	handler, m := setupSystemHandler(t)

	m.models.On("List", mock.Anything).
		Return([]llm.ModelInfo{{ID: "m1", Name: "m1"}}).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	rr := httptest.NewRecorder()
	handler.HandleListModels(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var models []llm.ModelInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &models))
	require.Len(t, models, 1)
	assert.Equal(t, "m1", models[0].ID)
}

func TestSystemHandler_HandleTestConnection(t *testing.T) {
	t.Run("Explicit URL", func(t *testing.T) {
		handler, m := setupSystemHandler(t)

		m.models.On("TestConnection", mock.Anything, "http://probe").
			Return(llm.ConnectionResult{Success: true, Message: "Successfully connected to API"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/connection/test",
			strings.NewReader(`{"url":"http://probe"}`))
		rr := httptest.NewRecorder()
		handler.HandleTestConnection(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result llm.ConnectionResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.Success)
	})

	t.Run("Empty body probes the configured endpoint", func(t *testing.T) {
		handler, m := setupSystemHandler(t)

		m.models.On("TestConnection", mock.Anything, "").
			Return(llm.ConnectionResult{Success: false, Message: "API connection failed"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/connection/test", nil)
		rr := httptest.NewRecorder()
		handler.HandleTestConnection(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestSystemHandler_HandleSession(t *testing.T) {
	t.Run("Both selections set", func(t *testing.T) {
		handler, m := setupSystemHandler(t)

		m.characters.On("Current", mock.Anything).
			Return(&model.Character{ID: "c1", Name: "Aria"}, nil).Once()
		m.chat.On("Current", mock.Anything).
			Return(&model.Conversation{ID: "conv1"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		rr := httptest.NewRecorder()
		handler.HandleSession(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var session api.SessionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
		require.NotNil(t, session.Character)
		assert.Equal(t, "Aria", session.Character.Name)
		require.NotNil(t, session.Conversation)
		assert.Equal(t, "conv1", session.Conversation.ID)
	})

	t.Run("Nothing selected yields nulls", func(t *testing.T) {
		handler, m := setupSystemHandler(t)

		m.characters.On("Current", mock.Anything).Return(nil, nil).Once()
		m.chat.On("Current", mock.Anything).Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		rr := httptest.NewRecorder()
		handler.HandleSession(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var session api.SessionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
		assert.Nil(t, session.Character)
		assert.Nil(t, session.Conversation)
	})
}

func TestSystemHandler_HandleExport(t *testing.T) {
	handler, m := setupSystemHandler(t)

	doc := &model.ExportDocument{
		Characters: []model.Character{{ID: "c1"}},
		Version:    model.ExportVersion,
	}
	m.data.On("Export", mock.Anything).Return(doc, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/data/export", nil)
	rr := httptest.NewRecorder()
	handler.HandleExport(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	var exported model.ExportDocument
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exported))
	assert.Equal(t, model.ExportVersion, exported.Version)
}

func TestSystemHandler_HandleImport(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, m := setupSystemHandler(t)

		m.data.On("Import", mock.Anything, mock.MatchedBy(func(doc *model.ExportDocument) bool {
			return len(doc.Characters) == 1
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/data/import",
			strings.NewReader(`{"characters":[{"id":"c1","name":"Aria"}],"version":"1.0"}`))
		rr := httptest.NewRecorder()
		handler.HandleImport(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		handler, _ := setupSystemHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/data/import", strings.NewReader("{broken"))
		rr := httptest.NewRecorder()
		handler.HandleImport(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSystemHandler_HandleWipe(t *testing.T) {
	handler, m := setupSystemHandler(t)

	m.data.On("Wipe", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/data/wipe", nil)
	rr := httptest.NewRecorder()
	handler.HandleWipe(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var status api.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "wiped", status.Status)
}
