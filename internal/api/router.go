package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "retro-ai-online/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(characters *CharacterHandler, chat *ChatHandler, settings *SettingsHandler, system *SystemHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requests that only touch local storage get a timeout so client
		// connections cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Characters ---
			r.Get("/characters", characters.HandleList)
			r.Post("/characters", characters.HandleSave)
			r.Post("/characters/import", characters.HandleImport)
			r.Delete("/characters/{characterID}", characters.HandleDelete)
			r.Post("/characters/{characterID}/select", characters.HandleSelect)

			// --- Conversations ---
			r.Get("/conversations", chat.HandleList)
			r.Get("/conversations/{conversationID}", chat.HandleGet)
			r.Post("/conversations/{conversationID}/clear", chat.HandleClear)
			r.Post("/conversations/{conversationID}/select", chat.HandleSelect)
			r.Delete("/conversations/{conversationID}", chat.HandleDelete)

			// --- Settings ---
			r.Get("/settings", settings.HandleGet)
			r.Post("/settings", settings.HandleUpdate)

			// --- Session / data ---
			r.Get("/session", system.HandleSession)
			r.Get("/data/export", system.HandleExport)
			r.Post("/data/import", system.HandleImport)
			r.Post("/data/wipe", system.HandleWipe)
		})

		// Generation endpoints proxy to the model endpoint and may run for a
		// long time, so they carry no timeout middleware.
		r.Group(func(r chi.Router) {
			r.Post("/conversations", chat.HandleStart)
			r.Post("/conversations/{conversationID}/messages", chat.HandleSendMessage)
			r.Post("/conversations/{conversationID}/continue", chat.HandleContinue)
			r.Post("/conversations/{conversationID}/regenerate", chat.HandleRegenerate)

			r.Get("/models", system.HandleListModels)
			r.Post("/connection/test", system.HandleTestConnection)
		})
	})

	return r
}
