package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"retro-ai-online/backend/internal/interfaces"
)

// ChatHandler serves conversation lifecycle endpoints.
type ChatHandler struct {
	chat       interfaces.ChatService
	characters interfaces.CharacterService
}

func NewChatHandler(chat interfaces.ChatService, characters interfaces.CharacterService) *ChatHandler {
	return &ChatHandler{chat: chat, characters: characters}
}

// StartConversationRequest starts a conversation with a character. Message
// is optional initial user text.
type StartConversationRequest struct {
	CharacterID string `json:"character_id" validate:"required"`
	Message     string `json:"message"`
}

// SendMessageRequest is one user turn. Empty content triggers the
// continuation flow instead of a normal send.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// HandleStart godoc
// @Summary      Start a conversation
// @Description  Seeds the system message from the character's persona. A character
// @Description  first message becomes the opening assistant turn; initial user text
// @Description  triggers an immediate completion request.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        request  body      StartConversationRequest  true  "Character and optional first user message"
// @Success      201      {object}  model.Conversation
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /v1/conversations [post]
func (h *ChatHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	character, err := h.characters.Get(r.Context(), req.CharacterID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	conversation, err := h.chat.Start(r.Context(), *character, strings.TrimSpace(req.Message))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conversation)
}

// HandleList godoc
// @Summary      List conversations
// @Tags         Conversations
// @Produce      json
// @Param        character_id  query     string  false  "Filter by character"
// @Success      200           {array}   model.Conversation
// @Failure      500           {object}  ErrorResponse
// @Router       /v1/conversations [get]
func (h *ChatHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.chat.List(r.Context(), r.URL.Query().Get("character_id"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversations)
}

// HandleGet godoc
// @Summary      Get one conversation with its full thread
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [get]
func (h *ChatHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.chat.Get(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversation)
}

// HandleSendMessage godoc
// @Summary      Send a user message
// @Description  Appends the user turn, requests the assistant reply and returns the
// @Description  updated thread. An empty content field continues the assistant's
// @Description  previous reply instead.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        conversationID  path      string              true  "Conversation ID"
// @Param        request         body      SendMessageRequest  true  "Message content"
// @Success      200             {object}  model.Conversation
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Failure      409             {object}  ErrorResponse
// @Failure      502             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/messages [post]
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	// The original client treats an empty send as "keep going".
	var err error
	var conversation interface{}
	if strings.TrimSpace(req.Content) == "" {
		conversation, err = h.chat.Continue(r.Context(), conversationID)
	} else {
		conversation, err = h.chat.Send(r.Context(), conversationID, req.Content)
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversation)
}

// HandleContinue godoc
// @Summary      Continue the assistant's reply
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      400             {object}  ErrorResponse
// @Failure      409             {object}  ErrorResponse
// @Failure      502             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/continue [post]
func (h *ChatHandler) HandleContinue(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.chat.Continue(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversation)
}

// HandleRegenerate godoc
// @Summary      Regenerate the last turn
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      400             {object}  ErrorResponse
// @Failure      409             {object}  ErrorResponse
// @Failure      502             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/regenerate [post]
func (h *ChatHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.chat.Regenerate(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversation)
}

// HandleClear godoc
// @Summary      Clear a conversation's messages
// @Description  Removes every visible turn, keeping the system message and the row.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/clear [post]
func (h *ChatHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.chat.Clear(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversation)
}

// HandleSelect godoc
// @Summary      Select the current conversation
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID}/select [post]
func (h *ChatHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.chat.Select(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conversation)
}

// HandleDelete godoc
// @Summary      Delete a conversation
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  StatusResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [delete]
func (h *ChatHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.Delete(r.Context(), chi.URLParam(r, "conversationID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
