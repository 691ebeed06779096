package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"retro-ai-online/backend/internal/model"
)

// Logical record keys. One key holds one JSON blob; the layout is the same
// five records the original client kept, so an exported document from either
// side round-trips.
const (
	keyCharacters          = "rao_characters"
	keyConversations       = "rao_conversations"
	keySettings            = "rao_settings"
	keyCurrentCharacter    = "rao_current_character"
	keyCurrentConversation = "rao_current_conversation"
)

type sqliteStore struct {
	db       *sql.DB
	defaults model.Settings
}

// NewSQLiteStore wraps db as a Store. defaults is the settings record used
// by Seed and Wipe.
func NewSQLiteStore(db *sql.DB, defaults model.Settings) Store {
	return &sqliteStore{db: db, defaults: defaults}
}

// getItem reads one blob and decodes it into dest. ErrNotFound when the key
// is absent.
func (s *sqliteStore) getItem(ctx context.Context, key string, dest any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM storage WHERE key = ?", key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("could not read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("could not decode %s: %w", key, err)
	}
	return nil
}

// setItem encodes value and replaces the blob under key. Encoding happens
// before the write, so a failure at either step leaves the stored blob
// untouched.
func (s *sqliteStore) setItem(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", key, err)
	}
	query := "INSERT INTO storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := s.db.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) removeItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("could not remove %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Seed(ctx context.Context) error {
	var chars []model.Character
	if err := s.getItem(ctx, keyCharacters, &chars); err == ErrNotFound {
		if err := s.setItem(ctx, keyCharacters, []model.Character{}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var convs []model.Conversation
	if err := s.getItem(ctx, keyConversations, &convs); err == ErrNotFound {
		if err := s.setItem(ctx, keyConversations, []model.Conversation{}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var settings model.Settings
	if err := s.getItem(ctx, keySettings, &settings); err == ErrNotFound {
		if err := s.setItem(ctx, keySettings, s.defaults); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}

func (s *sqliteStore) Characters(ctx context.Context) ([]model.Character, error) {
	var chars []model.Character
	if err := s.getItem(ctx, keyCharacters, &chars); err != nil && err != ErrNotFound {
		return nil, err
	}
	if chars == nil {
		chars = []model.Character{}
	}
	return chars, nil
}

func (s *sqliteStore) SaveCharacter(ctx context.Context, character model.Character) error {
	chars, err := s.Characters(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range chars {
		if chars[i].ID == character.ID {
			chars[i] = character
			replaced = true
			break
		}
	}
	if !replaced {
		chars = append(chars, character)
	}
	if err := s.setItem(ctx, keyCharacters, chars); err != nil {
		return err
	}

	// Keep the denormalized current snapshot in sync with the collection.
	current, err := s.CurrentCharacter(ctx)
	if err != nil && err != ErrNotFound {
		return err
	}
	if current != nil && current.ID == character.ID {
		return s.setItem(ctx, keyCurrentCharacter, character)
	}
	return nil
}

func (s *sqliteStore) DeleteCharacter(ctx context.Context, characterID string) error {
	chars, err := s.Characters(ctx)
	if err != nil {
		return err
	}
	kept := chars[:0]
	for _, c := range chars {
		if c.ID != characterID {
			kept = append(kept, c)
		}
	}

	// Cascade: conversations referencing the character go with it.
	convs, err := s.Conversations(ctx)
	if err != nil {
		return err
	}
	keptConvs := convs[:0]
	for _, c := range convs {
		if c.CharacterID != characterID {
			keptConvs = append(keptConvs, c)
		}
	}
	if err := s.setItem(ctx, keyConversations, keptConvs); err != nil {
		return err
	}

	current, err := s.CurrentCharacter(ctx)
	if err != nil && err != ErrNotFound {
		return err
	}
	if current != nil && current.ID == characterID {
		if err := s.removeItem(ctx, keyCurrentCharacter); err != nil {
			return err
		}
	}

	currentConv, err := s.CurrentConversation(ctx)
	if err != nil && err != ErrNotFound {
		return err
	}
	if currentConv != nil && currentConv.CharacterID == characterID {
		if err := s.removeItem(ctx, keyCurrentConversation); err != nil {
			return err
		}
	}

	return s.setItem(ctx, keyCharacters, kept)
}

func (s *sqliteStore) Conversations(ctx context.Context) ([]model.Conversation, error) {
	var convs []model.Conversation
	if err := s.getItem(ctx, keyConversations, &convs); err != nil && err != ErrNotFound {
		return nil, err
	}
	if convs == nil {
		convs = []model.Conversation{}
	}
	return convs, nil
}

func (s *sqliteStore) ConversationsByCharacter(ctx context.Context, characterID string) ([]model.Conversation, error) {
	convs, err := s.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]model.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.CharacterID == characterID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (s *sqliteStore) Conversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	convs, err := s.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		if convs[i].ID == conversationID {
			return &convs[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *sqliteStore) SaveConversation(ctx context.Context, conversation model.Conversation) error {
	convs, err := s.Conversations(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range convs {
		if convs[i].ID == conversation.ID {
			convs[i] = conversation
			replaced = true
			break
		}
	}
	if !replaced {
		convs = append(convs, conversation)
	}
	if err := s.setItem(ctx, keyConversations, convs); err != nil {
		return err
	}

	// Refresh the current snapshot so a reload restores the thread as last
	// persisted, not as last selected.
	current, err := s.CurrentConversation(ctx)
	if err != nil && err != ErrNotFound {
		return err
	}
	if current != nil && current.ID == conversation.ID {
		return s.setItem(ctx, keyCurrentConversation, conversation)
	}
	return nil
}

func (s *sqliteStore) DeleteConversation(ctx context.Context, conversationID string) error {
	convs, err := s.Conversations(ctx)
	if err != nil {
		return err
	}
	kept := convs[:0]
	for _, c := range convs {
		if c.ID != conversationID {
			kept = append(kept, c)
		}
	}

	current, err := s.CurrentConversation(ctx)
	if err != nil && err != ErrNotFound {
		return err
	}
	if current != nil && current.ID == conversationID {
		if err := s.removeItem(ctx, keyCurrentConversation); err != nil {
			return err
		}
	}

	return s.setItem(ctx, keyConversations, kept)
}

func (s *sqliteStore) Settings(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	if err := s.getItem(ctx, keySettings, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *sqliteStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	return s.setItem(ctx, keySettings, settings)
}

func (s *sqliteStore) CurrentCharacter(ctx context.Context) (*model.Character, error) {
	var character model.Character
	if err := s.getItem(ctx, keyCurrentCharacter, &character); err != nil {
		return nil, err
	}
	return &character, nil
}

func (s *sqliteStore) SetCurrentCharacter(ctx context.Context, character model.Character) error {
	return s.setItem(ctx, keyCurrentCharacter, character)
}

func (s *sqliteStore) ClearCurrentCharacter(ctx context.Context) error {
	return s.removeItem(ctx, keyCurrentCharacter)
}

func (s *sqliteStore) CurrentConversation(ctx context.Context) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := s.getItem(ctx, keyCurrentConversation, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *sqliteStore) SetCurrentConversation(ctx context.Context, conversation model.Conversation) error {
	return s.setItem(ctx, keyCurrentConversation, conversation)
}

func (s *sqliteStore) ClearCurrentConversation(ctx context.Context) error {
	return s.removeItem(ctx, keyCurrentConversation)
}

func (s *sqliteStore) Export(ctx context.Context) (*model.ExportDocument, error) {
	chars, err := s.Characters(ctx)
	if err != nil {
		return nil, err
	}
	convs, err := s.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		if err != ErrNotFound {
			return nil, err
		}
		defaults := s.defaults
		settings = &defaults
	}
	return &model.ExportDocument{
		Characters:    chars,
		Conversations: convs,
		Settings:      settings,
		Version:       model.ExportVersion,
	}, nil
}

func (s *sqliteStore) Import(ctx context.Context, doc *model.ExportDocument) error {
	if doc == nil {
		return fmt.Errorf("no data to import")
	}
	if doc.Characters != nil {
		if err := s.setItem(ctx, keyCharacters, doc.Characters); err != nil {
			return err
		}
	}
	if doc.Conversations != nil {
		if err := s.setItem(ctx, keyConversations, doc.Conversations); err != nil {
			return err
		}
	}
	if doc.Settings != nil {
		if err := s.setItem(ctx, keySettings, *doc.Settings); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Wipe(ctx context.Context) error {
	if err := s.removeItem(ctx, keyCharacters); err != nil {
		return err
	}
	if err := s.removeItem(ctx, keyConversations); err != nil {
		return err
	}
	if err := s.removeItem(ctx, keyCurrentCharacter); err != nil {
		return err
	}
	if err := s.removeItem(ctx, keyCurrentConversation); err != nil {
		return err
	}
	if err := s.setItem(ctx, keySettings, s.defaults); err != nil {
		return err
	}
	return s.Seed(ctx)
}
