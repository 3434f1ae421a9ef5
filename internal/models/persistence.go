package models

import (
	"time"

	"gorm.io/datatypes"
)

// EditorStateRecord is the persisted form of the authoring session: the
// whole question list plus cursor serialized as one JSONB blob. The
// service is single-tenant, so exactly one row exists.
type EditorStateRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	State     datatypes.JSON `gorm:"type:jsonb;not null" json:"state"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (EditorStateRecord) TableName() string {
	return "editor_states"
}

// WorksheetConfigRecord persists the export configuration independently of
// the question list, also as a single JSONB row.
type WorksheetConfigRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Config    datatypes.JSON `gorm:"type:jsonb;not null" json:"config"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (WorksheetConfigRecord) TableName() string {
	return "worksheet_configs"
}
