package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("numeralType", "must be eastern or western", "roman")

	assert.Equal(t, "numeralType", err.Field)
	assert.Equal(t, "must be eastern or western", err.Message)
	assert.Equal(t, "roman", err.Value)
	assert.Equal(t, "validation error on field 'numeralType': must be eastern or western", err.Error())
}

func TestValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("type", "is required", "required", nil)

	assert.Equal(t, "required", err.Rule)
	assert.Equal(t, "type", err.Field)
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("title", "too long", nil))
	assert.Equal(t, "validation failed: title too long", errs.Error())

	errs = append(errs, *NewValidationError("footer", "too long", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}
