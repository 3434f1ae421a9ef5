package validator

import (
	"fmt"
	"strings"

	"github.com/quiz-studio/authoring-service/internal/models"
)

// QuestionValidator reports completeness problems in authored questions.
// Sanitized questions are always structurally sound, so these checks flag
// content an author still has to fill in before exporting: empty texts,
// missing answers, degenerate pair lists.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion returns every completeness problem found in q. A nil
// return means the question is ready for export.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(q.Question.Text) == "" && q.Question.Image == nil {
		errs = append(errs, ValidationError{
			Field:   "question",
			Message: "question text or image is required",
		})
	}

	switch q.Type {
	case models.MultipleChoice:
		errs = append(errs, v.validateMultipleChoice(q)...)
	case models.TrueFalse:
		// CorrectBool always holds a valid answer
	case models.FillInTheBlank, models.ShortAnswer:
		errs = append(errs, v.validateTextAnswer(q)...)
	case models.Matching, models.ConnectingLines:
		errs = append(errs, v.validatePairs(q)...)
	case models.Ordering:
		errs = append(errs, v.validateOrdering(q)...)
	case models.Classification:
		errs = append(errs, v.validateClassification(q)...)
	}

	return errs
}

// ValidateBatch validates all questions, prefixing fields with the
// zero-based question index.
func (v *QuestionValidator) ValidateBatch(questions []models.Question) ValidationErrors {
	var errs ValidationErrors
	for i := range questions {
		for _, e := range v.ValidateQuestion(&questions[i]) {
			e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}
	return errs
}

func (v *QuestionValidator) validateMultipleChoice(q *models.Question) ValidationErrors {
	var errs ValidationErrors
	if len(q.Options) < 2 {
		errs = append(errs, ValidationError{
			Field:   "options",
			Message: "must have at least 2 options",
			Value:   len(q.Options),
		})
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" && opt.Image == nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("options[%d]", i),
				Message: "option is empty",
			})
		}
	}
	return errs
}

func (v *QuestionValidator) validateTextAnswer(q *models.Question) ValidationErrors {
	for _, alt := range q.AnswerAlternatives() {
		if alt != "" {
			return nil
		}
	}
	return ValidationErrors{{
		Field:   "correctAnswer",
		Message: "at least one non-empty answer alternative is required",
	}}
}

func (v *QuestionValidator) validatePairs(q *models.Question) ValidationErrors {
	if len(q.Pairs) == 0 {
		return ValidationErrors{{
			Field:   "pairs",
			Message: "at least one prompt/answer pair is required",
		}}
	}
	var errs ValidationErrors
	for i, p := range q.Pairs {
		if strings.TrimSpace(p.Prompt.Text) == "" && p.Prompt.Image == nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("pairs[%d].prompt", i),
				Message: "prompt is empty",
			})
		}
		if strings.TrimSpace(p.Answer.Text) == "" && p.Answer.Image == nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("pairs[%d].answer", i),
				Message: "answer is empty",
			})
		}
	}
	return errs
}

func (v *QuestionValidator) validateOrdering(q *models.Question) ValidationErrors {
	if len(q.Items) < 2 {
		return ValidationErrors{{
			Field:   "items",
			Message: "must have at least 2 items to order",
			Value:   len(q.Items),
		}}
	}
	return nil
}

func (v *QuestionValidator) validateClassification(q *models.Question) ValidationErrors {
	var errs ValidationErrors
	if len(q.Groups) < 2 {
		errs = append(errs, ValidationError{
			Field:   "groups",
			Message: "must have at least 2 groups",
			Value:   len(q.Groups),
		})
	}
	if len(q.Items) == 0 {
		errs = append(errs, ValidationError{
			Field:   "items",
			Message: "at least one item to classify is required",
		})
	}
	known := make(map[string]bool, len(q.Groups))
	for _, g := range q.Groups {
		known[g.ID] = true
	}
	for i, item := range q.Items {
		if !known[item.GroupID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("items[%d].groupId", i),
				Message: "item references an unknown group",
				Value:   item.GroupID,
			})
		}
	}
	return errs
}
