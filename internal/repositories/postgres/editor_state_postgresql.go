package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

// editorStateRowID pins the singleton row; the service is single-tenant.
const editorStateRowID = 1

type EditorStatePostgreSQL struct {
	db     *gorm.DB
	logger utils.Logger
}

func NewEditorStatePostgreSQL(db *gorm.DB, logger utils.Logger) *EditorStatePostgreSQL {
	return &EditorStatePostgreSQL{db: db, logger: logger}
}

func (r *EditorStatePostgreSQL) SaveEditorState(ctx context.Context, state models.EditorState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal editor state: %w", err)
	}
	record := models.EditorStateRecord{
		ID:    editorStateRowID,
		State: payload,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save editor state: %w", err)
	}
	return nil
}

// LoadEditorState returns (nil, nil) when no state has ever been saved;
// first-run is not an error.
func (r *EditorStatePostgreSQL) LoadEditorState(ctx context.Context) (*models.EditorState, error) {
	var record models.EditorStateRecord
	err := r.db.WithContext(ctx).First(&record, editorStateRowID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load editor state: %w", err)
	}
	var state models.EditorState
	if err := json.Unmarshal(record.State, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal editor state: %w", err)
	}
	return &state, nil
}

func (r *EditorStatePostgreSQL) ClearEditorState(ctx context.Context) error {
	err := r.db.WithContext(ctx).Delete(&models.EditorStateRecord{}, editorStateRowID).Error
	if err != nil {
		return fmt.Errorf("failed to clear editor state: %w", err)
	}
	return nil
}
