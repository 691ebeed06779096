// Package llm wraps outbound HTTP calls to the user-configured
// OpenAI-compatible completion endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"retro-ai-online/backend/internal/model"
)

// Hardcoded fallbacks, applied when neither a per-call override nor the
// stored settings provide a value.
const (
	defaultModel       = "default"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
	defaultTopP        = 0.9
)

// Message is the wire shape of one chat turn. Timestamps are stripped
// before a thread leaves the process.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are optional per-call overrides. A nil field defers to the stored
// settings, which in turn defer to the hardcoded defaults.
type Params struct {
	Model            string
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
}

// ModelInfo is one entry of the endpoint's model list.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConnectionResult reduces a connectivity probe to a displayable outcome.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIError carries the completion endpoint's own error text (or status)
// back to the caller.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// SettingsSource supplies the endpoint configuration for each call, so a
// settings save applies to the very next request without a restart.
type SettingsSource interface {
	APISettings(ctx context.Context) model.Settings
}

// Gateway is the outbound interface to the completion endpoint.
type Gateway interface {
	// TestConnection probes url (or the configured endpoint when url is
	// empty). It never returns an error; failures become the message.
	TestConnection(ctx context.Context, url string) ConnectionResult
	// ListModels fetches the endpoint's model list. Any failure falls back
	// to a single synthetic default entry instead of propagating.
	ListModels(ctx context.Context) []ModelInfo
	// SendChat posts a chat-completion request and returns choices[0].message.
	SendChat(ctx context.Context, messages []Message, override *Params) (Message, error)
}

type client struct {
	httpClient *http.Client
	settings   SettingsSource
}

// NewClient builds a Gateway resolving its endpoint through settings.
// No client-level timeout is set; transport defaults apply.
func NewClient(settings SettingsSource) Gateway {
	return &client{
		httpClient: &http.Client{},
		settings:   settings,
	}
}

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type modelListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *client) TestConnection(ctx context.Context, url string) ConnectionResult {
	if url == "" {
		url = c.settings.APISettings(ctx).APIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(url, "/")+"/models", nil)
	if err != nil {
		return ConnectionResult{Success: false, Message: fmt.Sprintf("API connection failed: %s", err)}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ConnectionResult{Success: false, Message: fmt.Sprintf("API connection failed: %s", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return ConnectionResult{Success: true, Message: "Successfully connected to API"}
	}

	body, _ := io.ReadAll(resp.Body)
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = resp.Status
	}
	return ConnectionResult{Success: false, Message: fmt.Sprintf("Unable to connect to API: %s", detail)}
}

func (c *client) ListModels(ctx context.Context) []ModelInfo {
	fallback := []ModelInfo{{ID: "default", Name: "Default Model"}}

	settings := c.settings.APISettings(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(settings.APIURL, "/")+"/models", nil)
	if err != nil {
		slog.Warn("Failed to build model list request", "error", err)
		return fallback
	}
	c.setCommonHeaders(req, settings)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Failed to get models, using default", "error", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Model list request returned non-OK status, using default", "status", resp.StatusCode)
		return fallback
	}

	var list modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil || list.Data == nil {
		slog.Warn("Could not decode model list, using default", "error", err)
		return fallback
	}

	models := make([]ModelInfo, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, ModelInfo{ID: m.ID, Name: m.ID})
	}
	if len(models) == 0 {
		return fallback
	}
	return models
}

func (c *client) SendChat(ctx context.Context, messages []Message, override *Params) (Message, error) {
	settings := c.settings.APISettings(ctx)
	payload := buildPayload(messages, settings, override)

	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("could not marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(settings.APIURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return Message{}, fmt.Errorf("could not create request: %w", err)
	}
	c.setCommonHeaders(req, settings)

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	slog.Debug("Sending chat completion request", "request_id", requestID, "model", payload.Model, "messages", len(payload.Messages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return Message{}, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(errBody))}
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return Message{}, &APIError{StatusCode: resp.StatusCode, Message: "Invalid response from API"}
	}
	if len(completion.Choices) == 0 {
		return Message{}, &APIError{StatusCode: resp.StatusCode, Message: "Invalid response from API"}
	}

	message := completion.Choices[0].Message
	if message.Role == "" {
		message.Role = model.RoleAssistant
	}
	return message, nil
}

// setCommonHeaders attaches content type and, only when a key is
// configured, the bearer token.
func (c *client) setCommonHeaders(req *http.Request, settings model.Settings) {
	req.Header.Set("Content-Type", "application/json")
	if settings.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+settings.APIKey)
	}
}

// buildPayload resolves each sampling parameter: explicit per-call override,
// then stored settings, then the hardcoded default. Stored zero values fall
// through to defaults, matching how the settings form persists them.
func buildPayload(messages []Message, settings model.Settings, override *Params) chatRequest {
	payload := chatRequest{
		Model:       defaultModel,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		TopP:        defaultTopP,
	}

	if settings.Model != "" {
		payload.Model = settings.Model
	}
	if settings.Temperature != 0 {
		payload.Temperature = settings.Temperature
	}
	if settings.MaxTokens != 0 {
		payload.MaxTokens = settings.MaxTokens
	}
	if settings.TopP != 0 {
		payload.TopP = settings.TopP
	}

	if override != nil {
		if override.Model != "" {
			payload.Model = override.Model
		}
		if override.Temperature != nil {
			payload.Temperature = *override.Temperature
		}
		if override.MaxTokens != nil {
			payload.MaxTokens = *override.MaxTokens
		}
		if override.TopP != nil {
			payload.TopP = *override.TopP
		}
		if override.FrequencyPenalty != nil {
			payload.FrequencyPenalty = *override.FrequencyPenalty
		}
		if override.PresencePenalty != nil {
			payload.PresencePenalty = *override.PresencePenalty
		}
	}

	return payload
}
