package api

import (
	"encoding/json"
	"net/http"

	"retro-ai-online/backend/internal/interfaces"
	"retro-ai-online/backend/internal/model"
)

// SettingsHandler serves the single settings record.
type SettingsHandler struct {
	service interfaces.SettingsService
}

func NewSettingsHandler(svc interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// HandleGet godoc
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  model.Settings
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// HandleUpdate godoc
// @Summary      Replace settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      model.Settings  true  "Full settings record"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/settings [post]
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	if err := h.service.Save(r.Context(), settings); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
