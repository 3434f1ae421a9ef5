package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/utils"
	"github.com/quiz-studio/authoring-service/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	editor    services.EditorService
	validator *validator.Validator
}

func NewQuestionHandler(
	editor services.EditorService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: NewBaseHandler(logger),
		editor:      editor,
		validator:   validator,
	}
}

// ===== REQUEST STRUCTURES =====

// AddQuestionRequest carries an arbitrary question payload; the sanitizer
// repairs whatever shape arrives, so the body is passed through raw.
type AddQuestionRequest struct {
	Question json.RawMessage `json:"question"`
	AtIndex  *int            `json:"atIndex,omitempty"`
}

type MoveQuestionRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type SelectQuestionRequest struct {
	Index int `json:"index" validate:"min=0"`
}

// ===== HANDLERS =====

// ListQuestions returns the full editor state
// @Summary List questions
// @Description Returns all questions and the selection cursor
// @Tags questions
// @Produce json
// @Success 200 {object} models.EditorState
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	state := h.editor.State(c.Request.Context())
	c.JSON(http.StatusOK, state)
}

// GetQuestion returns one question by index
// @Summary Get question
// @Tags questions
// @Produce json
// @Param index path int true "Question index"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{index} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	index, ok := ParseIndexParam(c, "index")
	if !ok {
		return
	}

	question, err := h.editor.Question(c.Request.Context(), index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// CreateQuestion adds a question and selects it
// @Summary Add question
// @Description Sanitizes and inserts a question; omitted atIndex appends
// @Tags questions
// @Accept json
// @Produce json
// @Param question body AddQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Adding question")

	var req AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	atIndex := math.MaxInt32
	if req.AtIndex != nil {
		atIndex = *req.AtIndex
	}

	question, err := h.editor.Add(c.Request.Context(), req.Question, atIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion replaces the question at index
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param index path int true "Question index"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{index} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	index, ok := ParseIndexParam(c, "index")
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating question", "question_index", index)

	question, err := h.editor.Update(c.Request.Context(), index, raw)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes the question at index
// @Summary Delete question
// @Description Deletes a question; the last remaining question is kept
// @Tags questions
// @Param index path int true "Question index"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /questions/{index} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	index, ok := ParseIndexParam(c, "index")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting question", "question_index", index)

	if err := h.editor.Remove(c.Request.Context(), index); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateQuestion clones the question at index
// @Summary Duplicate question
// @Description Inserts a deep clone after the original and selects it
// @Tags questions
// @Produce json
// @Param index path int true "Question index"
// @Success 201 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{index}/duplicate [post]
func (h *QuestionHandler) DuplicateQuestion(c *gin.Context) {
	index, ok := ParseIndexParam(c, "index")
	if !ok {
		return
	}

	h.LogRequest(c, "Duplicating question", "question_index", index)

	question, err := h.editor.Duplicate(c.Request.Context(), index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// MoveQuestion reorders the question list
// @Summary Move question
// @Description Moves a question; out-of-range indices are ignored
// @Tags questions
// @Accept json
// @Produce json
// @Param move body MoveQuestionRequest true "From/to indices"
// @Success 200 {object} models.EditorState
// @Router /questions/reorder [put]
func (h *QuestionHandler) MoveQuestion(c *gin.Context) {
	var req MoveQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Moving question", "from", req.From, "to", req.To)

	if err := h.editor.Move(c.Request.Context(), req.From, req.To); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.editor.State(c.Request.Context()))
}

// SelectQuestion moves the selection cursor
// @Summary Select question
// @Tags questions
// @Accept json
// @Param selection body SelectQuestionRequest true "Index to select"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /questions/selection [put]
func (h *QuestionHandler) SelectQuestion(c *gin.Context) {
	var req SelectQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.editor.Select(c.Request.Context(), req.Index); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LintQuestions reports completeness problems across all questions
// @Summary Lint questions
// @Description Lists content an author still has to fill in before export
// @Tags questions
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /questions/lint [get]
func (h *QuestionHandler) LintQuestions(c *gin.Context) {
	problems := h.editor.Lint(c.Request.Context())
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "lint completed",
		Data:    problems,
	})
}

// ResetQuestions discards all questions
// @Summary Reset questions
// @Description Clears the list, leaving one blank placeholder question
// @Tags questions
// @Success 200 {object} models.EditorState
// @Router /questions [delete]
func (h *QuestionHandler) ResetQuestions(c *gin.Context) {
	h.LogRequest(c, "Resetting question list")

	if err := h.editor.Reset(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.editor.State(c.Request.Context()))
}
