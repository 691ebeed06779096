package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/llm"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/store"
)

// ContinueSentinel is the user turn sent when the user asks the assistant
// to keep going without new input.
const ContinueSentinel = "[continue]"

const titleMaxLen = 30

// ChatService owns the conversation lifecycle: creation, sending, the
// continue/regenerate flows, clearing and deletion, plus assembly of the
// outgoing message list for the completion endpoint.
type ChatService struct {
	store store.Store
	llm   llm.Gateway

	// One in-flight completion request per conversation. The original
	// client had no such guard; overlapping sends could interleave turns.
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewChatService(s store.Store, gateway llm.Gateway) *ChatService {
	return &ChatService{
		store:    s,
		llm:      gateway,
		inflight: make(map[string]struct{}),
	}
}

// acquire marks conversationID as having an in-flight request.
func (s *ChatService) acquire(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[conversationID]; busy {
		return fmt.Errorf("%w: a request is already in flight for this conversation", apperrors.ErrConflict)
	}
	s.inflight[conversationID] = struct{}{}
	return nil
}

func (s *ChatService) release(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, conversationID)
}

// Start creates a conversation for character, seeds the system message from
// its persona fields, persists it and marks it current.
//
// When the character defines a first message and no initial user text is
// given, the first message is appended as an assistant turn locally, with no
// network call. Initial user text instead becomes a user turn followed by a
// send.
func (s *ChatService) Start(ctx context.Context, character model.Character, initialText string) (*model.Conversation, error) {
	now := time.Now()
	conversation := model.Conversation{
		ID:          store.NewID(),
		CharacterID: character.ID,
		Title:       fmt.Sprintf("Conversation with %s", character.Name),
		CreatedAt:   now,
		UpdatedAt:   now,
		Messages: []model.Message{{
			Role:      model.RoleSystem,
			Content:   BuildSystemPrompt(character),
			Timestamp: now,
		}},
	}

	if err := s.store.SaveConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("could not save conversation: %w", err)
	}
	if err := s.store.SetCurrentConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("could not set current conversation: %w", err)
	}
	slog.Info("Started conversation", "conversation_id", conversation.ID, "character_id", character.ID)

	switch {
	case character.FirstMessage != "" && initialText == "":
		conversation.Messages = append(conversation.Messages, model.Message{
			Role:      model.RoleAssistant,
			Content:   character.FirstMessage,
			Timestamp: time.Now(),
		})
		if err := s.store.SaveConversation(ctx, conversation); err != nil {
			return nil, fmt.Errorf("could not save conversation: %w", err)
		}
	case initialText != "":
		if err := s.appendAndDeliver(ctx, &conversation, initialText); err != nil {
			return &conversation, err
		}
	}

	return &conversation, nil
}

// Send appends text as a user turn and requests the assistant reply. The
// user turn is persisted before the network call, so a failed call leaves
// it in place for a later regenerate.
func (s *ChatService) Send(ctx context.Context, conversationID, text string) (*model.Conversation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text cannot be empty", apperrors.ErrValidation)
	}

	if err := s.acquire(conversationID); err != nil {
		return nil, err
	}
	defer s.release(conversationID)

	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.appendAndDeliver(ctx, conversation, text); err != nil {
		return conversation, err
	}
	return conversation, nil
}

// Continue sends the [continue] sentinel as a user turn. Only valid when
// the last visible message came from the assistant.
func (s *ChatService) Continue(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if err := s.acquire(conversationID); err != nil {
		return nil, err
	}
	defer s.release(conversationID)

	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	visible := conversation.VisibleMessages()
	if len(visible) == 0 {
		return nil, fmt.Errorf("%w: no conversation to continue", apperrors.ErrValidation)
	}
	if visible[len(visible)-1].Role != model.RoleAssistant {
		return nil, fmt.Errorf("%w: nothing to continue, enter a message", apperrors.ErrValidation)
	}

	if err := s.appendAndDeliver(ctx, conversation, ContinueSentinel); err != nil {
		return conversation, err
	}
	return conversation, nil
}

// Regenerate redoes the last turn. A trailing assistant message is removed
// and the same context resent; a trailing user message is removed and
// re-appended as a fresh copy before resending. Either way exactly one
// outbound call is made.
func (s *ChatService) Regenerate(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if err := s.acquire(conversationID); err != nil {
		return nil, err
	}
	defer s.release(conversationID)

	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	visible := conversation.VisibleMessages()
	if len(visible) == 0 {
		return nil, fmt.Errorf("%w: no messages to regenerate", apperrors.ErrValidation)
	}

	last := conversation.Messages[len(conversation.Messages)-1]
	conversation.Messages = conversation.Messages[:len(conversation.Messages)-1]
	if err := s.persist(ctx, conversation); err != nil {
		return nil, err
	}

	if last.Role == model.RoleUser {
		if err := s.appendAndDeliver(ctx, conversation, last.Content); err != nil {
			return conversation, err
		}
		return conversation, nil
	}

	if err := s.deliver(ctx, conversation); err != nil {
		return conversation, err
	}
	return conversation, nil
}

// Clear truncates the thread to its system messages. The conversation row
// and id survive.
func (s *ChatService) Clear(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	systemOnly := make([]model.Message, 0, 1)
	for _, m := range conversation.Messages {
		if m.Role == model.RoleSystem {
			systemOnly = append(systemOnly, m)
		}
	}
	conversation.Messages = systemOnly
	if err := s.persist(ctx, conversation); err != nil {
		return nil, err
	}
	slog.Info("Cleared conversation", "conversation_id", conversationID)
	return conversation, nil
}

// Delete removes the conversation; the store clears the current pointer
// when it referenced the deleted id.
func (s *ChatService) Delete(ctx context.Context, conversationID string) error {
	if _, err := s.getConversation(ctx, conversationID); err != nil {
		return err
	}
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("could not delete conversation: %w", err)
	}
	slog.Info("Deleted conversation", "conversation_id", conversationID)
	return nil
}

// List returns the conversations for a character, or all of them when
// characterID is empty.
func (s *ChatService) List(ctx context.Context, characterID string) ([]model.Conversation, error) {
	if characterID == "" {
		return s.store.Conversations(ctx)
	}
	return s.store.ConversationsByCharacter(ctx, characterID)
}

func (s *ChatService) Get(ctx context.Context, conversationID string) (*model.Conversation, error) {
	return s.getConversation(ctx, conversationID)
}

// Select marks a conversation current, storing a full snapshot.
func (s *ChatService) Select(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCurrentConversation(ctx, *conversation); err != nil {
		return nil, fmt.Errorf("could not set current conversation: %w", err)
	}
	return conversation, nil
}

// Current returns the current conversation snapshot, or nil when none is
// selected.
func (s *ChatService) Current(ctx context.Context) (*model.Conversation, error) {
	conversation, err := s.store.CurrentConversation(ctx)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return conversation, nil
}

func (s *ChatService) getConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conversation, err := s.store.Conversation(ctx, conversationID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
		}
		return nil, err
	}
	return conversation, nil
}

// appendAndDeliver persists a new user turn and then requests the reply.
func (s *ChatService) appendAndDeliver(ctx context.Context, conversation *model.Conversation, text string) error {
	conversation.Messages = append(conversation.Messages, model.Message{
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	if err := s.persist(ctx, conversation); err != nil {
		return err
	}
	return s.deliver(ctx, conversation)
}

// deliver sends the assembled thread to the completion endpoint and merges
// the reply back into the persisted conversation.
func (s *ChatService) deliver(ctx context.Context, conversation *model.Conversation) error {
	reply, err := s.llm.SendChat(ctx, BuildAPIMessages(conversation), nil)
	if err != nil {
		return err
	}

	conversation.Messages = append(conversation.Messages, model.Message{
		Role:      model.RoleAssistant,
		Content:   reply.Content,
		Timestamp: time.Now(),
	})
	if err := s.persist(ctx, conversation); err != nil {
		return err
	}

	// A short title is synthesized once the second user turn completes.
	if conversation.UserMessageCount() == 2 {
		s.updateTitle(ctx, conversation)
	}
	return nil
}

func (s *ChatService) persist(ctx context.Context, conversation *model.Conversation) error {
	conversation.UpdatedAt = time.Now()
	if err := s.store.SaveConversation(ctx, *conversation); err != nil {
		return fmt.Errorf("could not save conversation: %w", err)
	}
	return nil
}

// updateTitle derives the title from the first user message. Failures only
// log; the reply has already been delivered.
func (s *ChatService) updateTitle(ctx context.Context, conversation *model.Conversation) {
	var first *model.Message
	for i := range conversation.Messages {
		if conversation.Messages[i].Role == model.RoleUser {
			first = &conversation.Messages[i]
			break
		}
	}
	if first == nil {
		return
	}

	conversation.Title = truncateTitle(first.Content)
	if err := s.persist(ctx, conversation); err != nil {
		slog.Warn("Could not persist conversation title", "conversation_id", conversation.ID, "error", err)
	}
}

// truncateTitle keeps the first 30 characters, with an ellipsis when
// something was cut.
func truncateTitle(content string) string {
	trimmed := strings.TrimSpace(content)
	runes := []rune(trimmed)
	if len(runes) <= titleMaxLen {
		return trimmed
	}
	return string(runes[:titleMaxLen]) + "..."
}

// BuildSystemPrompt assembles the persona system message. Section order
// matches the stored conversations of the original client, so existing
// exports replay identically.
func BuildSystemPrompt(character model.Character) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.", character.Name)
	if character.Personality != "" {
		fmt.Fprintf(&b, "\n\nPersonality: %s", character.Personality)
	}
	if character.Description != "" {
		fmt.Fprintf(&b, "\n\nDescription: %s", character.Description)
	}
	if character.ExampleMessages != "" {
		fmt.Fprintf(&b, "\n\nExample conversations:\n%s", character.ExampleMessages)
	}
	return b.String()
}

// BuildAPIMessages converts the stored thread into the outgoing list: the
// first system message (if any) at the head, then every user/assistant turn
// in stored order, timestamps stripped.
func BuildAPIMessages(conversation *model.Conversation) []llm.Message {
	out := make([]llm.Message, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		if m.Role == model.RoleSystem {
			out = append(out, llm.Message{Role: model.RoleSystem, Content: m.Content})
			break
		}
	}
	for _, m := range conversation.Messages {
		if m.Role == model.RoleUser || m.Role == model.RoleAssistant {
			out = append(out, llm.Message{Role: m.Role, Content: m.Content})
		}
	}
	return out
}
