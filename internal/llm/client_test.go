package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retro-ai-online/backend/internal/llm"
	"retro-ai-online/backend/internal/model"
)

// staticSettings serves a fixed settings record, standing in for the
// settings service.
type staticSettings struct {
	settings model.Settings
}

func (s staticSettings) APISettings(_ context.Context) model.Settings {
	return s.settings
}

func newTestClient(settings model.Settings) llm.Gateway {
	return llm.NewClient(staticSettings{settings: settings})
}

func TestSendChat_Success(t *testing.T) {
	var captured struct {
		path    string
		headers http.Header
		payload map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello back"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(model.Settings{
		APIURL:      server.URL,
		APIKey:      "secret-key",
		Model:       "my-model",
		Temperature: 1.1,
		MaxTokens:   512,
		TopP:        0.5,
	})

	reply, err := client.SendChat(context.Background(), []llm.Message{
		{Role: model.RoleSystem, Content: "You are X."},
		{Role: model.RoleUser, Content: "Hello"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Hello back", reply.Content)

	assert.Equal(t, "/chat/completions", captured.path)
	assert.Equal(t, "Bearer secret-key", captured.headers.Get("Authorization"))
	assert.Equal(t, "application/json", captured.headers.Get("Content-Type"))
	assert.NotEmpty(t, captured.headers.Get("X-Request-ID"))

	assert.Equal(t, "my-model", captured.payload["model"])
	assert.InDelta(t, 1.1, captured.payload["temperature"], 0.0001)
	assert.InDelta(t, 512, captured.payload["max_tokens"], 0.0001)
	assert.InDelta(t, 0.5, captured.payload["top_p"], 0.0001)
}

func TestSendChat_NoBearerWithoutKey(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(model.Settings{APIURL: server.URL})

	reply, err := client.SendChat(context.Background(), []llm.Message{{Role: model.RoleUser, Content: "hi"}}, nil)
	require.NoError(t, err)

	assert.Empty(t, auth)
	// Role defaults to assistant when the endpoint omits it.
	assert.Equal(t, model.RoleAssistant, reply.Role)
}

func TestSendChat_ParameterPrecedence(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	t.Run("zero-valued settings fall through to defaults", func(t *testing.T) {
		client := newTestClient(model.Settings{APIURL: server.URL})
		_, err := client.SendChat(context.Background(), []llm.Message{{Role: model.RoleUser, Content: "hi"}}, nil)
		require.NoError(t, err)

		assert.Equal(t, "default", payload["model"])
		assert.InDelta(t, 0.7, payload["temperature"], 0.0001)
		assert.InDelta(t, 2048, payload["max_tokens"], 0.0001)
		assert.InDelta(t, 0.9, payload["top_p"], 0.0001)
	})

	t.Run("overrides beat stored settings", func(t *testing.T) {
		client := newTestClient(model.Settings{APIURL: server.URL, Model: "stored", Temperature: 1.0})

		temp := 0.2
		freq := 0.5
		_, err := client.SendChat(context.Background(), []llm.Message{{Role: model.RoleUser, Content: "hi"}}, &llm.Params{
			Model:            "override",
			Temperature:      &temp,
			FrequencyPenalty: &freq,
		})
		require.NoError(t, err)

		assert.Equal(t, "override", payload["model"])
		assert.InDelta(t, 0.2, payload["temperature"], 0.0001)
		assert.InDelta(t, 0.5, payload["frequency_penalty"], 0.0001)
	})
}

func TestSendChat_ErrorStatusCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited, slow down\n"))
	}))
	defer server.Close()

	client := newTestClient(model.Settings{APIURL: server.URL})

	_, err := client.SendChat(context.Background(), []llm.Message{{Role: model.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)

	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limited, slow down", apiErr.Message)
}

func TestSendChat_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "garbage"},
		{"empty choices", `{"choices":[]}`},
		{"missing choices", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(model.Settings{APIURL: server.URL})
			_, err := client.SendChat(context.Background(), []llm.Message{{Role: model.RoleUser, Content: "hi"}}, nil)

			var apiErr *llm.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "Invalid response from API", apiErr.Message)
		})
	}
}

func TestListModels(t *testing.T) {
	t.Run("maps endpoint list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":[{"id":"model-a"},{"id":"model-b"}]}`))
		}))
		defer server.Close()

		client := newTestClient(model.Settings{APIURL: server.URL})
		models := client.ListModels(context.Background())

		require.Len(t, models, 2)
		assert.Equal(t, llm.ModelInfo{ID: "model-a", Name: "model-a"}, models[0])
	})

	t.Run("falls back when endpoint is down", func(t *testing.T) {
		client := newTestClient(model.Settings{APIURL: "http://127.0.0.1:1"})
		models := client.ListModels(context.Background())

		require.Len(t, models, 1)
		assert.Equal(t, "default", models[0].ID)
		assert.Equal(t, "Default Model", models[0].Name)
	})

	t.Run("falls back on empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		client := newTestClient(model.Settings{APIURL: server.URL})
		models := client.ListModels(context.Background())

		require.Len(t, models, 1)
		assert.Equal(t, "default", models[0].ID)
	})
}

func TestTestConnection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(model.Settings{APIURL: server.URL})
		result := client.TestConnection(context.Background(), "")

		assert.True(t, result.Success)
		assert.Equal(t, "Successfully connected to API", result.Message)
	})

	t.Run("explicit url beats configured one", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(model.Settings{APIURL: "http://127.0.0.1:1"})
		result := client.TestConnection(context.Background(), server.URL)

		assert.True(t, result.Success)
	})

	t.Run("unreachable endpoint reports failure without error", func(t *testing.T) {
		client := newTestClient(model.Settings{APIURL: "http://127.0.0.1:1"})
		result := client.TestConnection(context.Background(), "")

		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "API connection failed")
	})

	t.Run("non-2xx carries response detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("invalid api key"))
		}))
		defer server.Close()

		client := newTestClient(model.Settings{APIURL: server.URL})
		result := client.TestConnection(context.Background(), "")

		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "invalid api key")
	})
}
