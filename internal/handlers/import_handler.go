package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

// maxImportFileSize bounds one uploaded file; question files carry inline
// data-URI media, so this is generous.
const maxImportFileSize = 64 << 20

type ImportHandler struct {
	BaseHandler
	importer services.ImportService
}

func NewImportHandler(importer services.ImportService, logger utils.Logger) *ImportHandler {
	return &ImportHandler{
		BaseHandler: NewBaseHandler(logger),
		importer:    importer,
	}
}

// ImportQuestions appends questions from uploaded files
// @Summary Import questions
// @Description Accepts JSON, CSV and XLSX files under the "files" field;
// all recovered questions are appended as one batch, in file order
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.ImportResult}
// @Failure 400 {object} ErrorResponse
// @Router /import [post]
func (h *ImportHandler) ImportQuestions(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid multipart form",
			Details: err.Error(),
		})
		return
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "No files provided",
			Details: `use the "files" form field`,
		})
		return
	}

	h.LogRequest(c, "Importing question files", "file_count", len(uploads))

	files := make([]services.ImportFile, 0, len(uploads))
	for _, upload := range uploads {
		f, err := upload.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Failed to read uploaded file",
				Details: upload.Filename,
			})
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImportFileSize))
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Failed to read uploaded file",
				Details: upload.Filename,
			})
			return
		}
		files = append(files, services.ImportFile{Name: upload.Filename, Data: data})
	}

	result, err := h.importer.ImportFiles(c.Request.Context(), files)
	if err != nil {
		// Zero questions across all files is a client problem, but the
		// per-file summary still helps, so it rides along.
		if result != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Import produced no questions",
				Details: result,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "import completed",
		Data:    result,
	})
}
