package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quiz-studio/authoring-service/internal/models"
)

// EditorStateRepository persists the authoring session as one JSONB blob.
// Its method set satisfies store.Persister, so the question store writes
// through it directly.
type EditorStateRepository interface {
	SaveEditorState(ctx context.Context, state models.EditorState) error
	LoadEditorState(ctx context.Context) (*models.EditorState, error)
	ClearEditorState(ctx context.Context) error
}

// WorksheetConfigRepository persists the export configuration.
type WorksheetConfigRepository interface {
	SaveConfig(ctx context.Context, cfg models.WorksheetConfig) error
	LoadConfig(ctx context.Context) (*models.WorksheetConfig, error)
	ClearConfig(ctx context.Context) error
}

// Repository aggregates the persistence surfaces of the service.
type Repository interface {
	EditorState() EditorStateRepository
	WorksheetConfig() WorksheetConfigRepository
}

// IsNotFoundError reports whether err is the database "no rows" condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
