package store

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"retro-ai-online/backend/internal/model"
)

// ErrNotFound is returned when a singular read (current pointer, settings,
// conversation by id) finds nothing. The service layer translates it into a
// domain-level error so callers never see database details.
var ErrNotFound = errors.New("store: not found")

// Store is durable key-value storage for the four entity collections plus
// the two current-selection pointers. Writes replace whole collections at
// blob granularity; a failed write leaves the previous blob intact.
type Store interface {
	// Seed creates any absent records: empty collections and the default
	// settings. Existing data is never touched; calling it twice is a no-op.
	Seed(ctx context.Context) error

	Characters(ctx context.Context) ([]model.Character, error)
	SaveCharacter(ctx context.Context, character model.Character) error
	// DeleteCharacter removes the character, every conversation referencing
	// it, and both current pointers when they reference the deleted id.
	DeleteCharacter(ctx context.Context, characterID string) error

	Conversations(ctx context.Context) ([]model.Conversation, error)
	ConversationsByCharacter(ctx context.Context, characterID string) ([]model.Conversation, error)
	Conversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	SaveConversation(ctx context.Context, conversation model.Conversation) error
	DeleteConversation(ctx context.Context, conversationID string) error

	Settings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	CurrentCharacter(ctx context.Context) (*model.Character, error)
	SetCurrentCharacter(ctx context.Context, character model.Character) error
	ClearCurrentCharacter(ctx context.Context) error

	CurrentConversation(ctx context.Context) (*model.Conversation, error)
	SetCurrentConversation(ctx context.Context, conversation model.Conversation) error
	ClearCurrentConversation(ctx context.Context) error

	Export(ctx context.Context) (*model.ExportDocument, error)
	// Import overwrites every collection present in the document and leaves
	// absent ones untouched. The version tag is not interpreted.
	Import(ctx context.Context, doc *model.ExportDocument) error
	// Wipe deletes characters, conversations and both current pointers, and
	// resets settings to the hardcoded defaults.
	Wipe(ctx context.Context) error
}

const idSuffixLen = 5

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID generates an entity id from the current Unix-millisecond timestamp
// in base36 plus a short random suffix. Uniqueness is probabilistic, which
// is acceptable for a single-writer local store; the timestamp prefix keeps
// ids roughly chronological.
func NewID() string {
	suffix := make([]byte, idSuffixLen)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + string(suffix)
}
