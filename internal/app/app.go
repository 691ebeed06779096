package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/viper"

	"retro-ai-online/backend/internal/api"
	"retro-ai-online/backend/internal/config"
	"retro-ai-online/backend/internal/database"
	"retro-ai-online/backend/internal/llm"
	"retro-ai-online/backend/internal/service"
	"retro-ai-online/backend/internal/store"
)

// App bundles the assembled application so tests can drive the router
// without binding a listener.
type App struct {
	DB     *sql.DB
	Router *chi.Mux

	cfg *config.Config
}

// NewApp opens the database, seeds the store and wires every service and
// handler into a ready router.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.Init(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	st := store.NewSQLiteStore(db, cfg.DefaultSettings())
	if err := st.Seed(context.Background()); err != nil {
		if cErr := db.Close(); cErr != nil {
			slog.Error("Failed to close database connection", "error", cErr)
		}
		return nil, fmt.Errorf("seed store: %w", err)
	}

	settingsService := service.NewSettingsService(st, cfg.DefaultSettings())
	gateway := llm.NewClient(settingsService)

	characterService := service.NewCharacterService(st)
	chatService := service.NewChatService(st, gateway)
	modelService := service.NewModelService(gateway)
	dataService := service.NewDataService(st)

	characterHandler := api.NewCharacterHandler(characterService)
	chatHandler := api.NewChatHandler(chatService, characterService)
	settingsHandler := api.NewSettingsHandler(settingsService)
	systemHandler := api.NewSystemHandler(modelService, dataService, chatService, characterService)

	router := api.NewRouter(characterHandler, chatHandler, settingsHandler, systemHandler)

	return &App{DB: db, Router: router, cfg: cfg}, nil
}

// Run wires the full application and serves it until the listener fails.
// It returns a process exit code so main stays a one-liner.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	a, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           a.Router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled because generation proxy calls have no upper bound.
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
