package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/quiz-studio/authoring-service/internal/models"
)

// EventType represents different types of editor events
type EventType string

const (
	// Editor events
	EventQuestionsSaved    EventType = "questions.saved"
	EventQuestionsImported EventType = "questions.imported"
	EventQuestionsCleared  EventType = "questions.cleared"

	// Export events
	EventDocumentExported EventType = "document.exported"
	EventWorkbookExported EventType = "workbook.exported"
)

// EditorEvent is the base structure for all events published by the service
type EditorEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type QuestionsSavedEvent struct {
	QuestionCount int       `json:"question_count"`
	SelectedIndex int       `json:"selected_index"`
	SavedAt       time.Time `json:"saved_at"`
}

type QuestionsImportedEvent struct {
	FileCount     int       `json:"file_count"`
	ImportedCount int       `json:"imported_count"`
	SkippedFiles  int       `json:"skipped_files"`
	Format        string    `json:"format"`
	ImportedAt    time.Time `json:"imported_at"`
}

type DocumentExportedEvent struct {
	Target        string             `json:"target"`
	QuestionCount int                `json:"question_count"`
	NumeralType   models.NumeralType `json:"numeral_type"`
	UseTimer      bool               `json:"use_timer"`
	SizeBytes     int                `json:"size_bytes"`
	FromCache     bool               `json:"from_cache"`
	ExportedAt    time.Time          `json:"exported_at"`
}

type WorkbookExportedEvent struct {
	QuestionCount  int       `json:"question_count"`
	IncludeAnswers bool      `json:"include_answers"`
	SheetCount     int       `json:"sheet_count"`
	ExportedAt     time.Time `json:"exported_at"`
}

// Event factory functions

func NewQuestionsSavedEvent(questionCount, selectedIndex int) *EditorEvent {
	return newEvent(EventQuestionsSaved, QuestionsSavedEvent{
		QuestionCount: questionCount,
		SelectedIndex: selectedIndex,
		SavedAt:       time.Now(),
	})
}

func NewQuestionsImportedEvent(fileCount, importedCount, skippedFiles int, format string) *EditorEvent {
	return newEvent(EventQuestionsImported, QuestionsImportedEvent{
		FileCount:     fileCount,
		ImportedCount: importedCount,
		SkippedFiles:  skippedFiles,
		Format:        format,
		ImportedAt:    time.Now(),
	})
}

func NewDocumentExportedEvent(target string, questionCount int, cfg models.WorksheetConfig, sizeBytes int, fromCache bool) *EditorEvent {
	return newEvent(EventDocumentExported, DocumentExportedEvent{
		Target:        target,
		QuestionCount: questionCount,
		NumeralType:   cfg.NumeralType,
		UseTimer:      cfg.UseTimer,
		SizeBytes:     sizeBytes,
		FromCache:     fromCache,
		ExportedAt:    time.Now(),
	})
}

func NewWorkbookExportedEvent(questionCount, sheetCount int, includeAnswers bool) *EditorEvent {
	return newEvent(EventWorkbookExported, WorkbookExportedEvent{
		QuestionCount:  questionCount,
		IncludeAnswers: includeAnswers,
		SheetCount:     sheetCount,
		ExportedAt:     time.Now(),
	})
}

func NewQuestionsClearedEvent() *EditorEvent {
	return newEvent(EventQuestionsCleared, struct {
		ClearedAt time.Time `json:"cleared_at"`
	}{ClearedAt: time.Now()})
}

func newEvent(eventType EventType, data interface{}) *EditorEvent {
	return &EditorEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "authoring-service",
		Version:   "1.0",
		Data:      data,
	}
}

// GenerateEventID returns a unique event identifier
func GenerateEventID() string {
	return uuid.NewString()
}
