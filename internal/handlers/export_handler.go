package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/generator"
	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	export services.ExportService
}

func NewExportHandler(export services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		export:      export,
	}
}

// ExportJSON downloads the question list as JSON
// @Summary Export questions as JSON
// @Description Pretty-printed array; the import endpoint accepts it back
// @Tags export
// @Produce json
// @Success 200 {array} models.Question
// @Router /export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	h.LogRequest(c, "Exporting questions as JSON")

	data, err := h.export.ExportJSON(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="questions.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ExportWorksheet downloads the static worksheet document
// @Summary Export worksheet HTML
// @Description Self-contained printable worksheet document
// @Tags export
// @Produce html
// @Success 200 {string} string
// @Failure 503 {object} ErrorResponse
// @Router /export/worksheet [get]
func (h *ExportHandler) ExportWorksheet(c *gin.Context) {
	h.exportDocument(c, generator.TargetWorksheet, "worksheet.html")
}

// ExportQuiz downloads the interactive quiz document
// @Summary Export interactive quiz HTML
// @Description Self-contained one-question-at-a-time quiz document
// @Tags export
// @Produce html
// @Success 200 {string} string
// @Failure 503 {object} ErrorResponse
// @Router /export/quiz [get]
func (h *ExportHandler) ExportQuiz(c *gin.Context) {
	h.exportDocument(c, generator.TargetInteractive, "quiz.html")
}

func (h *ExportHandler) exportDocument(c *gin.Context, target generator.Target, filename string) {
	h.LogRequest(c, "Exporting document", "target", string(target))

	doc, err := h.export.GenerateDocument(c.Request.Context(), target)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}

// ExportWorkbook downloads an XLSX workbook of the questions
// @Summary Export questions as XLSX
// @Tags export
// @Accept json
// @Param options body models.ExportOptions true "Workbook options"
// @Success 200 {string} binary
// @Failure 400 {object} ErrorResponse
// @Router /export/workbook [post]
func (h *ExportHandler) ExportWorkbook(c *gin.Context) {
	var opts models.ExportOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Exporting workbook",
		"include_answers", opts.IncludeAnswers,
		"question_per_page", opts.QuestionPerPage)

	data, err := h.export.ExportWorkbook(c.Request.Context(), opts)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
