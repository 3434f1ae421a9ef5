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

const worksheetConfigRowID = 1

type WorksheetConfigPostgreSQL struct {
	db     *gorm.DB
	logger utils.Logger
}

func NewWorksheetConfigPostgreSQL(db *gorm.DB, logger utils.Logger) *WorksheetConfigPostgreSQL {
	return &WorksheetConfigPostgreSQL{db: db, logger: logger}
}

func (r *WorksheetConfigPostgreSQL) SaveConfig(ctx context.Context, cfg models.WorksheetConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal worksheet config: %w", err)
	}
	record := models.WorksheetConfigRecord{
		ID:     worksheetConfigRowID,
		Config: payload,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"config", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save worksheet config: %w", err)
	}
	return nil
}

// LoadConfig returns (nil, nil) when no config has ever been saved.
func (r *WorksheetConfigPostgreSQL) LoadConfig(ctx context.Context) (*models.WorksheetConfig, error) {
	var record models.WorksheetConfigRecord
	err := r.db.WithContext(ctx).First(&record, worksheetConfigRowID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load worksheet config: %w", err)
	}
	var cfg models.WorksheetConfig
	if err := json.Unmarshal(record.Config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worksheet config: %w", err)
	}
	return &cfg, nil
}

func (r *WorksheetConfigPostgreSQL) ClearConfig(ctx context.Context) error {
	err := r.db.WithContext(ctx).Delete(&models.WorksheetConfigRecord{}, worksheetConfigRowID).Error
	if err != nil {
		return fmt.Errorf("failed to clear worksheet config: %w", err)
	}
	return nil
}
