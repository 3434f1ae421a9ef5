package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

type ConfigHandler struct {
	BaseHandler
	editor services.EditorService
}

func NewConfigHandler(editor services.EditorService, logger utils.Logger) *ConfigHandler {
	return &ConfigHandler{
		BaseHandler: NewBaseHandler(logger),
		editor:      editor,
	}
}

// GetConfig returns the worksheet configuration
// @Summary Get worksheet config
// @Description Returns the saved config, or defaults when none is saved
// @Tags config
// @Produce json
// @Success 200 {object} models.WorksheetConfig
// @Router /config [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.editor.GetConfig(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig saves the worksheet configuration
// @Summary Update worksheet config
// @Tags config
// @Accept json
// @Produce json
// @Param config body models.WorksheetConfig true "Config"
// @Success 200 {object} models.WorksheetConfig
// @Failure 400 {object} ErrorResponse
// @Router /config [put]
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var cfg models.WorksheetConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating worksheet config")

	saved, err := h.editor.UpdateConfig(c.Request.Context(), cfg)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ClearConfig deletes the saved configuration
// @Summary Clear worksheet config
// @Tags config
// @Success 204
// @Router /config [delete]
func (h *ConfigHandler) ClearConfig(c *gin.Context) {
	h.LogRequest(c, "Clearing worksheet config")

	if err := h.editor.ClearConfig(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
