// Package validator wraps go-playground/validator with the custom tags
// used by the authoring API, plus per-type question completeness checks.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quiz-studio/authoring-service/internal/models"
)

// Validator is the main validator instance that combines struct-tag
// validation with question completeness checks.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// Validate performs struct-tag validation and converts failures into the
// shared ValidationErrors shape.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Question returns the question completeness validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("numeral_type", validateNumeralType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateNumeralType(fl validator.FieldLevel) bool {
	switch models.NumeralType(fl.Field().String()) {
	case models.NumeralEastern, models.NumeralWestern:
		return true
	}
	return false
}
