package interfaces

import (
	"context"

	"retro-ai-online/backend/internal/llm"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/service"
)

// Service contracts consumed by the API layer. Depending on these instead
// of the concrete implementations keeps handlers mockable in tests.

// ChatService is the conversation lifecycle contract.
type ChatService interface {
	Start(ctx context.Context, character model.Character, initialText string) (*model.Conversation, error)
	Send(ctx context.Context, conversationID, text string) (*model.Conversation, error)
	Continue(ctx context.Context, conversationID string) (*model.Conversation, error)
	Regenerate(ctx context.Context, conversationID string) (*model.Conversation, error)
	Clear(ctx context.Context, conversationID string) (*model.Conversation, error)
	Delete(ctx context.Context, conversationID string) error
	List(ctx context.Context, characterID string) ([]model.Conversation, error)
	Get(ctx context.Context, conversationID string) (*model.Conversation, error)
	Select(ctx context.Context, conversationID string) (*model.Conversation, error)
	Current(ctx context.Context) (*model.Conversation, error)
}

// CharacterService is the character management contract.
type CharacterService interface {
	Save(ctx context.Context, input service.CharacterInput) (*model.Character, error)
	Import(ctx context.Context, raw []byte) (*model.Character, error)
	List(ctx context.Context) ([]model.Character, error)
	Get(ctx context.Context, characterID string) (*model.Character, error)
	Delete(ctx context.Context, characterID string) error
	Select(ctx context.Context, characterID string) (*model.Character, error)
	Current(ctx context.Context) (*model.Character, error)
}

// SettingsService is the settings contract.
type SettingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, settings model.Settings) error
}

// ModelService is the model discovery / connectivity contract.
type ModelService interface {
	List(ctx context.Context) []llm.ModelInfo
	TestConnection(ctx context.Context, url string) llm.ConnectionResult
}

// DataService is the backup/restore/wipe contract.
type DataService interface {
	Export(ctx context.Context) (*model.ExportDocument, error)
	Import(ctx context.Context, doc *model.ExportDocument) error
	Wipe(ctx context.Context) error
}
