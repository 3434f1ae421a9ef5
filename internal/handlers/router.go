package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/utils"
	"github.com/quiz-studio/authoring-service/internal/validator"
)

type HandlerManager struct {
	questionHandler *QuestionHandler
	configHandler   *ConfigHandler
	importHandler   *ImportHandler
	exportHandler   *ExportHandler
	sessionHandler  *SessionHandler
}

func NewHandlerManager(
	editor services.EditorService,
	importer services.ImportService,
	exporter services.ExportService,
	sessions services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(editor, validator, logger),
		configHandler:   NewConfigHandler(editor, logger),
		importHandler:   NewImportHandler(importer, logger),
		exportHandler:   NewExportHandler(exporter, logger),
		sessionHandler:  NewSessionHandler(sessions, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "authoring-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Question editing routes
		questions := v1.Group("/questions")
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.DELETE("", hm.questionHandler.ResetQuestions)
			questions.GET("/lint", hm.questionHandler.LintQuestions)
			questions.PUT("/reorder", hm.questionHandler.MoveQuestion)
			questions.PUT("/selection", hm.questionHandler.SelectQuestion)
			questions.GET("/:index", hm.questionHandler.GetQuestion)
			questions.PUT("/:index", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:index", hm.questionHandler.DeleteQuestion)
			questions.POST("/:index/duplicate", hm.questionHandler.DuplicateQuestion)
		}

		// Worksheet configuration routes
		config := v1.Group("/config")
		{
			config.GET("", hm.configHandler.GetConfig)
			config.PUT("", hm.configHandler.UpdateConfig)
			config.DELETE("", hm.configHandler.ClearConfig)
		}

		// Import route
		v1.POST("/import", hm.importHandler.ImportQuestions)

		// Export routes
		export := v1.Group("/export")
		{
			export.GET("/json", hm.exportHandler.ExportJSON)
			export.GET("/worksheet", hm.exportHandler.ExportWorksheet)
			export.GET("/quiz", hm.exportHandler.ExportQuiz)
			export.POST("/workbook", hm.exportHandler.ExportWorkbook)
		}

		// Preview session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.EndSession)
			sessions.POST("/:id/answer", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/skip", hm.sessionHandler.SkipQuestion)
			sessions.POST("/:id/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/restart", hm.sessionHandler.RestartSession)
		}
	}
}
