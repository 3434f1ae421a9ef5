package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quiz-studio/authoring-service/internal/events"
	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

// ImportService merges externally-authored question files into the store.
type ImportService interface {
	// ImportFiles dispatches every file by extension and appends all
	// recovered questions as one atomic batch.
	ImportFiles(ctx context.Context, files []ImportFile) (*ImportResult, error)
}

// ImportFile is one uploaded file, already read into memory.
type ImportFile struct {
	Name string
	Data []byte
}

// ImportResult summarizes a completed import. A file that yields zero
// questions is reported in SkippedFiles, never treated as fatal.
type ImportResult struct {
	TotalFiles    int               `json:"total_files"`
	ImportedCount int               `json:"imported_count"`
	SkippedFiles  []string          `json:"skipped_files,omitempty"`
	RowErrors     []RowError        `json:"row_errors,omitempty"`
	Questions     []models.Question `json:"questions,omitempty"`
}

type importService struct {
	store     *store.QuestionStore
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewImportService(questionStore *store.QuestionStore, publisher events.EventPublisher, logger utils.Logger) ImportService {
	return &importService{
		store:     questionStore,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *importService) ImportFiles(ctx context.Context, files []ImportFile) (*ImportResult, error) {
	result := &ImportResult{TotalFiles: len(files)}
	var raws []json.RawMessage

	for _, file := range files {
		fileRaws, rowErrors, err := s.parseFile(file)
		result.RowErrors = append(result.RowErrors, rowErrors...)
		if err != nil {
			s.logger.Warn("import file skipped", "filename", file.Name, "error", err)
			result.SkippedFiles = append(result.SkippedFiles, file.Name)
			continue
		}
		if len(fileRaws) == 0 {
			result.SkippedFiles = append(result.SkippedFiles, file.Name)
			continue
		}
		raws = append(raws, fileRaws...)
	}

	if len(raws) == 0 {
		return result, ErrEmptyImport
	}

	result.Questions = s.store.Append(raws)
	result.ImportedCount = len(result.Questions)

	s.publish(ctx, events.NewQuestionsImportedEvent(
		result.TotalFiles, result.ImportedCount, len(result.SkippedFiles), s.formatLabel(files)))

	s.logger.Info("import completed",
		"total_files", result.TotalFiles,
		"imported_count", result.ImportedCount,
		"skipped_files", len(result.SkippedFiles))

	return result, nil
}

func (s *importService) parseFile(file ImportFile) ([]json.RawMessage, []RowError, error) {
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".json", "":
		raws, err := parseJSONQuestions(file.Data)
		return raws, nil, err
	case ".csv":
		return s.parseTabular(readCSVRows(file.Data))
	case ".xlsx", ".xls":
		return s.parseTabular(readExcelRows(file.Data))
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedImportFormat, file.Name)
	}
}

// parseJSONQuestions accepts only a top-level JSON array; anything else
// yields zero questions.
func parseJSONQuestions(data []byte) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("not a question array: %w", err)
	}
	return raws, nil
}

func readCSVRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func readExcelRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	return rows, nil
}

// parseTabular converts header-mapped rows into raw question objects the
// sanitizer understands. Bad rows are reported individually; the rest of
// the file still imports.
func (s *importService) parseTabular(rows [][]string, readErr error) ([]json.RawMessage, []RowError, error) {
	if readErr != nil {
		return nil, nil, readErr
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"question_type", "question_text"} {
		if _, exists := headerMap[col]; !exists {
			return nil, nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var raws []json.RawMessage
	var rowErrors []RowError
	for rowIndex, record := range rows[1:] {
		raw, errs := parseTabularRow(record, headerMap, rowIndex+2)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		raws = append(raws, raw)
	}
	return raws, rowErrors, nil
}

func parseTabularRow(record []string, headerMap map[string]int, rowNum int) (json.RawMessage, []RowError) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	questionType := models.QuestionType(strings.ToLower(getColumn("question_type")))
	if !questionType.IsValid() {
		return nil, []RowError{{
			Row: rowNum, Column: "question_type", Message: "unknown question type", Value: getColumn("question_type"),
		}}
	}

	questionText := getColumn("question_text")
	if questionText == "" {
		return nil, []RowError{{
			Row: rowNum, Column: "question_text", Message: "required field",
		}}
	}

	payload := map[string]interface{}{
		"type":     string(questionType),
		"question": map[string]interface{}{"text": questionText},
		"feedback": getColumn("feedback"),
	}

	switch questionType {
	case models.MultipleChoice:
		var options []map[string]interface{}
		for _, col := range []string{"option_a", "option_b", "option_c", "option_d"} {
			if text := getColumn(col); text != "" {
				options = append(options, map[string]interface{}{"text": text})
			}
		}
		if len(options) < 2 {
			return nil, []RowError{{
				Row: rowNum, Column: "options", Message: "must have at least 2 options",
			}}
		}
		correct := strings.ToUpper(getColumn("correct_answer"))
		if len(correct) != 1 || correct[0] < 'A' || int(correct[0]-'A') >= len(options) {
			return nil, []RowError{{
				Row: rowNum, Column: "correct_answer", Message: "must be a letter naming one of the options", Value: correct,
			}}
		}
		payload["options"] = options
		payload["correct"] = int(correct[0] - 'A')
	case models.TrueFalse:
		switch strings.ToLower(getColumn("correct_answer")) {
		case "true":
			payload["correctAnswer"] = true
		case "false":
			payload["correctAnswer"] = false
		default:
			return nil, []RowError{{
				Row: rowNum, Column: "correct_answer", Message: "must be 'true' or 'false'", Value: getColumn("correct_answer"),
			}}
		}
	case models.FillInTheBlank, models.ShortAnswer:
		answer := getColumn("correct_answer")
		if answer == "" {
			return nil, []RowError{{
				Row: rowNum, Column: "correct_answer", Message: "required field",
			}}
		}
		payload["correctAnswer"] = answer
	default:
		return nil, []RowError{{
			Row: rowNum, Column: "question_type",
			Message: "type not supported in tabular import, use JSON", Value: string(questionType),
		}}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, []RowError{{
			Row: rowNum, Column: "row", Message: "failed to serialize row",
		}}
	}
	return raw, nil
}

func (s *importService) formatLabel(files []ImportFile) string {
	formats := make(map[string]bool)
	for _, file := range files {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Name)), ".")
		if ext == "" {
			ext = "json"
		}
		formats[ext] = true
	}
	var names []string
	for ext := range formats {
		names = append(names, ext)
	}
	if len(names) == 1 {
		return names[0]
	}
	return "mixed"
}

func (s *importService) publish(ctx context.Context, event *events.EditorEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEditorEvent(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.Type, "error", err)
	}
}
