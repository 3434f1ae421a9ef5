package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/grading"
	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

// SessionHandler exposes headless preview play-throughs of the current
// question list, driven by the same state machine exported quizzes embed.
type SessionHandler struct {
	BaseHandler
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
	}
}

// StartSession begins a preview play-through
// @Summary Start preview session
// @Tags sessions
// @Produce json
// @Success 201 {object} services.SessionInfo
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.LogRequest(c, "Starting preview session")

	info, err := h.sessions.Start(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// GetSession returns the session state
// @Summary Get preview session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionInfo
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	info, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// SubmitAnswer grades the current question
// @Summary Submit answer
// @Description Grades the response and locks the question; a second submit
// for the same question is ignored
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param response body grading.Response true "Answer"
// @Success 200 {object} services.SubmitResult
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var response grading.Response
	if err := c.ShouldBindJSON(&response); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.sessions.Submit(c.Request.Context(), c.Param("id"), response)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SkipQuestion marks the current question incorrect and advances
// @Summary Skip question
// @Description Same treatment a timer expiry gets in exported quizzes
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionInfo
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/skip [post]
func (h *SessionHandler) SkipQuestion(c *gin.Context) {
	info, err := h.sessions.Skip(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// NextQuestion advances the cursor
// @Summary Next question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionInfo
// @Router /sessions/{id}/next [post]
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	h.advance(c, true)
}

// PreviousQuestion moves the cursor back
// @Summary Previous question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionInfo
// @Router /sessions/{id}/previous [post]
func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	h.advance(c, false)
}

func (h *SessionHandler) advance(c *gin.Context, forward bool) {
	info, err := h.sessions.Advance(c.Request.Context(), c.Param("id"), forward)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// RestartSession resets the play-through
// @Summary Restart session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionInfo
// @Router /sessions/{id}/restart [post]
func (h *SessionHandler) RestartSession(c *gin.Context) {
	info, err := h.sessions.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// EndSession discards the session
// @Summary End session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
