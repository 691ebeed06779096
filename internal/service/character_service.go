package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retro-ai-online/backend/internal/character"
	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/store"
)

// CharacterService owns character records: form-based create/update, JSON
// import through the normalizer, and cascade deletion.
type CharacterService struct {
	store store.Store
}

func NewCharacterService(s store.Store) *CharacterService {
	return &CharacterService{store: s}
}

// CharacterInput is the form payload for creating or updating a character.
// An empty ID means create.
type CharacterInput struct {
	ID              string  `json:"id"`
	Name            string  `json:"name" validate:"required,min=1"`
	Avatar          *string `json:"avatar"`
	Description     string  `json:"description"`
	Personality     string  `json:"personality"`
	FirstMessage    string  `json:"first_message"`
	ExampleMessages string  `json:"example_messages"`
}

// Save creates a new character or fully replaces an existing one by id.
func (s *CharacterService) Save(ctx context.Context, input CharacterInput) (*model.Character, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: character name is required", apperrors.ErrValidation)
	}

	now := time.Now()
	record := model.Character{
		ID:              input.ID,
		Name:            name,
		Avatar:          input.Avatar,
		Description:     strings.TrimSpace(input.Description),
		Personality:     strings.TrimSpace(input.Personality),
		FirstMessage:    strings.TrimSpace(input.FirstMessage),
		ExampleMessages: strings.TrimSpace(input.ExampleMessages),
		CreatedAt:       now,
	}

	if input.ID == "" {
		record.ID = store.NewID()
	} else {
		existing, err := s.Get(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = now
	}

	if err := s.store.SaveCharacter(ctx, record); err != nil {
		return nil, fmt.Errorf("could not save character: %w", err)
	}
	slog.Info("Saved character", "character_id", record.ID, "name", record.Name)
	return &record, nil
}

// Import normalizes a character card document of any supported community
// format and persists the resulting record.
func (s *CharacterService) Import(ctx context.Context, raw []byte) (*model.Character, error) {
	record, err := character.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveCharacter(ctx, record); err != nil {
		return nil, fmt.Errorf("could not save imported character: %w", err)
	}
	slog.Info("Imported character", "character_id", record.ID, "name", record.Name)
	return &record, nil
}

func (s *CharacterService) List(ctx context.Context) ([]model.Character, error) {
	return s.store.Characters(ctx)
}

func (s *CharacterService) Get(ctx context.Context, characterID string) (*model.Character, error) {
	chars, err := s.store.Characters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range chars {
		if chars[i].ID == characterID {
			return &chars[i], nil
		}
	}
	return nil, fmt.Errorf("%w: character %s", apperrors.ErrNotFound, characterID)
}

// Delete removes the character. The store cascades to its conversations and
// clears stale current pointers.
func (s *CharacterService) Delete(ctx context.Context, characterID string) error {
	if _, err := s.Get(ctx, characterID); err != nil {
		return err
	}
	if err := s.store.DeleteCharacter(ctx, characterID); err != nil {
		return fmt.Errorf("could not delete character: %w", err)
	}
	slog.Info("Deleted character", "character_id", characterID)
	return nil
}

// Select marks a character current, storing a full snapshot.
func (s *CharacterService) Select(ctx context.Context, characterID string) (*model.Character, error) {
	record, err := s.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCurrentCharacter(ctx, *record); err != nil {
		return nil, fmt.Errorf("could not set current character: %w", err)
	}
	return record, nil
}

// Current returns the current character snapshot, or nil when none is
// selected.
func (s *CharacterService) Current(ctx context.Context) (*model.Character, error) {
	record, err := s.store.CurrentCharacter(ctx)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
