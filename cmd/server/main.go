package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quiz-studio/authoring-service/internal/cache"
	"github.com/quiz-studio/authoring-service/internal/config"
	"github.com/quiz-studio/authoring-service/internal/generator"
	"github.com/quiz-studio/authoring-service/internal/handlers"
	"github.com/quiz-studio/authoring-service/internal/repositories/postgres"
	"github.com/quiz-studio/authoring-service/internal/services"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
	"github.com/quiz-studio/authoring-service/internal/validator"
	"github.com/quiz-studio/authoring-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.IsDevelopment() {
		logger = utils.NewDevelopmentLogger()
	} else {
		logger = utils.NewDefaultLogger()
	}
	slogger := slog.Default()
	if sl, ok := logger.(*utils.SlogLogger); ok {
		slogger = sl.GetSlogLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	var cacheService cache.CacheService
	if err != nil {
		logger.Warn("redis unavailable, document caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, logger)
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("event publisher setup failed", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db, logger)

	questionStore := store.NewQuestionStore(repo.EditorState(), logger)
	questionStore.SetDebounce(cfg.SaveDebounce)
	questionStore.Load(context.Background())

	gen, err := generator.New(nil)
	if err != nil {
		logger.Error("document generator setup failed", "error", err)
		os.Exit(1)
	}

	v := validator.New()

	editor := services.NewEditorService(questionStore, repo, cacheService, publisher, v, logger)
	importer := services.NewImportService(questionStore, publisher, logger)
	exporter := services.NewExportService(questionStore, editor, gen, services.NewDocumentBuilder(nil), cacheService, publisher, logger)
	sessions := services.NewSessionService(questionStore, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(editor, importer, exporter, sessions, v, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Persist any pending editor mutations before the process exits.
	questionStore.Flush(shutdownCtx)

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
