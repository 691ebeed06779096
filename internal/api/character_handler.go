package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"retro-ai-online/backend/internal/interfaces"
	"retro-ai-online/backend/internal/service"
)

// CharacterHandler serves character CRUD and card import.
type CharacterHandler struct {
	service interfaces.CharacterService
}

func NewCharacterHandler(svc interfaces.CharacterService) *CharacterHandler {
	return &CharacterHandler{service: svc}
}

// HandleList godoc
// @Summary      List characters
// @Tags         Characters
// @Produce      json
// @Success      200  {array}   model.Character
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/characters [get]
func (h *CharacterHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	characters, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, characters)
}

// HandleSave godoc
// @Summary      Create or update a character
// @Description  Empty id creates a new character; a known id is replaced in full.
// @Tags         Characters
// @Accept       json
// @Produce      json
// @Param        character  body      service.CharacterInput  true  "Character fields"
// @Success      200        {object}  model.Character
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/characters [post]
func (h *CharacterHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var input service.CharacterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(input); err != nil {
		respondWithError(w, err)
		return
	}

	character, err := h.service.Save(r.Context(), input)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, character)
}

// HandleImport godoc
// @Summary      Import a character card
// @Description  Accepts any of the supported community character card JSON formats.
// @Tags         Characters
// @Accept       json
// @Produce      json
// @Success      201  {object}  model.Character
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/characters/import [post]
func (h *CharacterHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Could not read request body"})
		return
	}

	character, err := h.service.Import(r.Context(), raw)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, character)
}

// HandleDelete godoc
// @Summary      Delete a character
// @Description  Also deletes every conversation with this character.
// @Tags         Characters
// @Produce      json
// @Param        characterID  path      string  true  "Character ID"
// @Success      200          {object}  StatusResponse
// @Failure      404          {object}  ErrorResponse
// @Router       /v1/characters/{characterID} [delete]
func (h *CharacterHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")
	if err := h.service.Delete(r.Context(), characterID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// HandleSelect godoc
// @Summary      Select the current character
// @Tags         Characters
// @Produce      json
// @Param        characterID  path      string  true  "Character ID"
// @Success      200          {object}  model.Character
// @Failure      404          {object}  ErrorResponse
// @Router       /v1/characters/{characterID}/select [post]
func (h *CharacterHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterID")
	character, err := h.service.Select(r.Context(), characterID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, character)
}
