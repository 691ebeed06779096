package api

import (
	"encoding/json"
	"net/http"

	"retro-ai-online/backend/internal/interfaces"
	"retro-ai-online/backend/internal/model"
)

// SystemHandler serves model discovery, connectivity probing, session state
// and whole-store backup/restore.
type SystemHandler struct {
	models     interfaces.ModelService
	data       interfaces.DataService
	chat       interfaces.ChatService
	characters interfaces.CharacterService
}

func NewSystemHandler(models interfaces.ModelService, data interfaces.DataService, chat interfaces.ChatService, characters interfaces.CharacterService) *SystemHandler {
	return &SystemHandler{models: models, data: data, chat: chat, characters: characters}
}

// TestConnectionRequest optionally names an endpoint to probe instead of
// the configured one.
type TestConnectionRequest struct {
	URL string `json:"url"`
}

// SessionResponse is the denormalized current-selection state used to
// restore a client session.
type SessionResponse struct {
	Character    *model.Character    `json:"character"`
	Conversation *model.Conversation `json:"conversation"`
}

// HandleListModels godoc
// @Summary      List endpoint models
// @Description  Falls back to a single synthetic default entry when the endpoint
// @Description  cannot be reached or does not support listing.
// @Tags         System
// @Produce      json
// @Success      200  {array}  llm.ModelInfo
// @Router       /v1/models [get]
func (h *SystemHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.models.List(r.Context()))
}

// HandleTestConnection godoc
// @Summary      Probe endpoint connectivity
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        request  body      TestConnectionRequest  false  "Endpoint override"
// @Success      200      {object}  llm.ConnectionResult
// @Router       /v1/connection/test [post]
func (h *SystemHandler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req TestConnectionRequest
	// An empty or absent body probes the configured endpoint.
	_ = json.NewDecoder(r.Body).Decode(&req)
	respondWithJSON(w, http.StatusOK, h.models.TestConnection(r.Context(), req.URL))
}

// HandleSession godoc
// @Summary      Get current session state
// @Tags         System
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/session [get]
func (h *SystemHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	character, err := h.characters.Current(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	conversation, err := h.chat.Current(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, SessionResponse{Character: character, Conversation: conversation})
}

// HandleExport godoc
// @Summary      Export all data
// @Tags         System
// @Produce      json
// @Success      200  {object}  model.ExportDocument
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/data/export [get]
func (h *SystemHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.data.Export(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="retro-ai-online-data.json"`)
	respondWithJSON(w, http.StatusOK, doc)
}

// HandleImport godoc
// @Summary      Import data
// @Description  Overwrites every collection present in the document; absent
// @Description  collections are left untouched.
// @Tags         System
// @Accept       json
// @Produce      json
// @Param        document  body      model.ExportDocument  true  "Export document"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/data/import [post]
func (h *SystemHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var doc model.ExportDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	if err := h.data.Import(r.Context(), &doc); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "imported"})
}

// HandleWipe godoc
// @Summary      Forget everything
// @Description  Deletes all characters and conversations and resets settings to
// @Description  the hardcoded defaults.
// @Tags         System
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/data/wipe [post]
func (h *SystemHandler) HandleWipe(w http.ResponseWriter, r *http.Request) {
	if err := h.data.Wipe(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "wiped"})
}
