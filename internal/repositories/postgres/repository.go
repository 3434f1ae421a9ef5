// Package postgres implements the repository interfaces over gorm with
// JSONB-backed singleton rows.
package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/repositories"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

type postgresRepository struct {
	editorState     *EditorStatePostgreSQL
	worksheetConfig *WorksheetConfigPostgreSQL
}

func NewRepository(db *gorm.DB, logger utils.Logger) repositories.Repository {
	return &postgresRepository{
		editorState:     NewEditorStatePostgreSQL(db, logger),
		worksheetConfig: NewWorksheetConfigPostgreSQL(db, logger),
	}
}

func (r *postgresRepository) EditorState() repositories.EditorStateRepository {
	return r.editorState
}

func (r *postgresRepository) WorksheetConfig() repositories.WorksheetConfigRepository {
	return r.worksheetConfig
}

// Migrate creates the persistence tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.EditorStateRecord{}, &models.WorksheetConfigRecord{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
