package services

import (
	"errors"
	"fmt"

	apperrors "github.com/quiz-studio/authoring-service/internal/errors"
	"github.com/quiz-studio/authoring-service/internal/store"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Question editing errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrSoleQuestion     = store.ErrSoleQuestion

	// Config errors
	ErrConfigNotFound = errors.New("worksheet config not found")

	// Export errors
	ErrInvalidExportTarget = errors.New("invalid export target")
	ErrExporterUnavailable = errors.New("document exporter unavailable")

	// Import errors
	ErrUnsupportedImportFormat = errors.New("unsupported import file format")
	ErrEmptyImport             = errors.New("import produced no questions")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// RowError reports a problem with one row of a tabular import file.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (re RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %s", re.Row, re.Column, re.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, store.ErrIndexOutOfRange)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a refused structural mutation
func IsConflict(err error) bool {
	return errors.Is(err, ErrSoleQuestion)
}

// IsUnavailable checks if error means an export dependency is down
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrExporterUnavailable)
}
