package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quiz-studio/authoring-service/internal/cache"
	"github.com/quiz-studio/authoring-service/internal/events"
	"github.com/quiz-studio/authoring-service/internal/generator"
	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

// documentCacheTTL bounds how long a rendered document may outlive its
// snapshot; mutations invalidate earlier anyway.
const documentCacheTTL = time.Hour

// ExportService produces every downloadable artifact: the question JSON,
// the two self-contained HTML documents and the XLSX workbook.
type ExportService interface {
	ExportJSON(ctx context.Context) ([]byte, error)
	GenerateDocument(ctx context.Context, target generator.Target) (string, error)
	ExportWorkbook(ctx context.Context, opts models.ExportOptions) ([]byte, error)
}

type exportService struct {
	store     *store.QuestionStore
	config    func(ctx context.Context) (models.WorksheetConfig, error)
	generator *generator.Generator
	builder   *DocumentBuilder
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
	ops       *ServiceLogger
}

func NewExportService(
	questionStore *store.QuestionStore,
	editor EditorService,
	gen *generator.Generator,
	builder *DocumentBuilder,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
) ExportService {
	return &exportService{
		store:     questionStore,
		config:    editor.GetConfig,
		generator: gen,
		builder:   builder,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		ops:       NewServiceLogger(slogFrom(logger), LogConfig{Service: "authoring-service", Component: "export"}),
	}
}

// ExportJSON returns the sanitized question list as a pretty-printed JSON
// array, the interchange format the import path accepts back.
func (s *exportService) ExportJSON(ctx context.Context) ([]byte, error) {
	state := s.store.Snapshot()
	data, err := json.MarshalIndent(state.Questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	return data, nil
}

// GenerateDocument renders a self-contained HTML document for the target,
// serving from cache when the snapshot and config are unchanged.
func (s *exportService) GenerateDocument(ctx context.Context, target generator.Target) (string, error) {
	if !target.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidExportTarget, target)
	}
	if s.generator == nil {
		return "", ErrExporterUnavailable
	}

	state := s.store.Snapshot()
	cfg, err := s.config(ctx)
	if err != nil {
		s.logger.Warn("config load failed, exporting with defaults", "error", err)
		cfg = models.WorksheetConfig{}.Normalize()
	}

	key := s.documentKey(target, state, cfg)
	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.publish(ctx, events.NewDocumentExportedEvent(string(target), len(state.Questions), cfg, len(cached), true))
			return cached, nil
		}
	}

	done := s.ops.TimedOperation(ctx, "generate_"+string(target), -1)
	doc, err := s.generator.Generate(state.Questions, cfg, target)
	if err != nil {
		err = fmt.Errorf("failed to generate %s document: %w", target, err)
		done(err)
		return "", err
	}
	done(nil)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, doc, documentCacheTTL); err != nil {
			s.logger.Warn("document cache write failed", "key", key, "error", err)
		}
	}
	s.publish(ctx, events.NewDocumentExportedEvent(string(target), len(state.Questions), cfg, len(doc), false))
	return doc, nil
}

// ExportWorkbook builds the XLSX workbook via the DocumentBuilder.
func (s *exportService) ExportWorkbook(ctx context.Context, opts models.ExportOptions) ([]byte, error) {
	if s.builder == nil {
		return nil, ErrExporterUnavailable
	}
	state := s.store.Snapshot()
	done := s.ops.TimedOperation(ctx, "export_workbook", -1)
	data, sheets, err := s.builder.BuildWorkbook(state.Questions, opts)
	if err != nil {
		err = fmt.Errorf("failed to build workbook: %w", err)
		done(err)
		return nil, err
	}
	done(nil)
	s.publish(ctx, events.NewWorkbookExportedEvent(len(state.Questions), sheets, opts.IncludeAnswers))
	return data, nil
}

// documentKey hashes the full render input so any change to questions,
// cursor-independent config or target produces a distinct key.
func (s *exportService) documentKey(target generator.Target, state models.EditorState, cfg models.WorksheetConfig) string {
	payload, _ := json.Marshal(struct {
		Target    generator.Target       `json:"target"`
		Questions []models.Question      `json:"questions"`
		Config    models.WorksheetConfig `json:"config"`
	}{target, state.Questions, cfg})
	sum := sha256.Sum256(payload)
	return "document:" + string(target) + ":" + hex.EncodeToString(sum[:])
}

func (s *exportService) publish(ctx context.Context, event *events.EditorEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEditorEvent(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.Type, "error", err)
	}
}
