package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/store"
)

// DataService handles whole-store backup, restore and the "forget
// everything" wipe.
type DataService struct {
	store store.Store
}

func NewDataService(s store.Store) *DataService {
	return &DataService{store: s}
}

// Export captures characters, conversations and settings. Current-selection
// pointers are not part of the document.
func (s *DataService) Export(ctx context.Context) (*model.ExportDocument, error) {
	return s.store.Export(ctx)
}

// Import overwrites every collection present in doc; absent collections
// stay untouched.
func (s *DataService) Import(ctx context.Context, doc *model.ExportDocument) error {
	if doc == nil || (doc.Characters == nil && doc.Conversations == nil && doc.Settings == nil) {
		return fmt.Errorf("%w: nothing to import", apperrors.ErrValidation)
	}
	if err := s.store.Import(ctx, doc); err != nil {
		return fmt.Errorf("could not import data: %w", err)
	}
	slog.Info("Imported data",
		"characters", len(doc.Characters),
		"conversations", len(doc.Conversations),
		"settings", doc.Settings != nil)
	return nil
}

// Wipe deletes all characters, conversations and current pointers, and
// resets settings to the hardcoded defaults.
func (s *DataService) Wipe(ctx context.Context) error {
	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("could not wipe store: %w", err)
	}
	slog.Info("Store wiped, settings reset to defaults")
	return nil
}
