package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quiz-studio/authoring-service/internal/cache"
	"github.com/quiz-studio/authoring-service/internal/events"
	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/repositories"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
	"github.com/quiz-studio/authoring-service/internal/validator"
)

// documentCachePattern matches every cached rendered document; any editor
// mutation invalidates all of them.
const documentCachePattern = "document:*"

// EditorService drives the authoring session: the question list, its
// selection cursor and the worksheet configuration.
type EditorService interface {
	// Question list
	State(ctx context.Context) models.EditorState
	Question(ctx context.Context, index int) (models.Question, error)
	Add(ctx context.Context, raw json.RawMessage, atIndex int) (models.Question, error)
	Update(ctx context.Context, index int, raw json.RawMessage) (models.Question, error)
	Remove(ctx context.Context, index int) error
	Duplicate(ctx context.Context, index int) (models.Question, error)
	Move(ctx context.Context, from, to int) error
	Select(ctx context.Context, index int) error
	Reset(ctx context.Context) error

	// Completeness lint
	Lint(ctx context.Context) validator.ValidationErrors

	// Worksheet configuration
	GetConfig(ctx context.Context) (models.WorksheetConfig, error)
	UpdateConfig(ctx context.Context, cfg models.WorksheetConfig) (models.WorksheetConfig, error)
	ClearConfig(ctx context.Context) error

	// Flush forces any pending debounced persistence write.
	Flush(ctx context.Context)
}

type editorService struct {
	store     *store.QuestionStore
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
	ops       *ServiceLogger
}

func NewEditorService(
	questionStore *store.QuestionStore,
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) EditorService {
	return &editorService{
		store:     questionStore,
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: v,
		logger:    logger,
		ops:       NewServiceLogger(slogFrom(logger), LogConfig{Service: "authoring-service", Component: "editor"}),
	}
}

// ===== QUESTION LIST =====

func (s *editorService) State(ctx context.Context) models.EditorState {
	return s.store.Snapshot()
}

func (s *editorService) Question(ctx context.Context, index int) (models.Question, error) {
	q, err := s.store.Get(index)
	if err != nil {
		return models.Question{}, fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
	}
	return q, nil
}

func (s *editorService) Add(ctx context.Context, raw json.RawMessage, atIndex int) (models.Question, error) {
	done := s.ops.TimedOperation(ctx, "add_question", atIndex)
	q := s.store.Add(raw, atIndex)
	s.afterMutation(ctx)
	done(nil)
	return q, nil
}

func (s *editorService) Update(ctx context.Context, index int, raw json.RawMessage) (models.Question, error) {
	done := s.ops.TimedOperation(ctx, "update_question", index)
	q, err := s.store.Update(index, raw)
	if err != nil {
		err = fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
		done(err)
		return models.Question{}, err
	}
	s.afterMutation(ctx)
	done(nil)
	return q, nil
}

func (s *editorService) Remove(ctx context.Context, index int) error {
	done := s.ops.TimedOperation(ctx, "remove_question", index)
	if err := s.store.Remove(index); err != nil {
		if err == store.ErrSoleQuestion {
			done(err)
			return err
		}
		err = fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
		done(err)
		return err
	}
	s.afterMutation(ctx)
	done(nil)
	return nil
}

func (s *editorService) Duplicate(ctx context.Context, index int) (models.Question, error) {
	done := s.ops.TimedOperation(ctx, "duplicate_question", index)
	q, err := s.store.Duplicate(index)
	if err != nil {
		err = fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
		done(err)
		return models.Question{}, err
	}
	s.afterMutation(ctx)
	done(nil)
	return q, nil
}

// Move reorders questions. Out-of-range indices make it a no-op, not an
// error, so drag gestures past the list edges are ignored silently.
func (s *editorService) Move(ctx context.Context, from, to int) error {
	s.store.Move(from, to)
	s.afterMutation(ctx)
	return nil
}

func (s *editorService) Select(ctx context.Context, index int) error {
	if err := s.store.Select(index); err != nil {
		return fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
	}
	return nil
}

// Reset discards all questions, leaving one blank placeholder. The
// persisted state row is cleared too so a restart does not resurrect the
// discarded list.
func (s *editorService) Reset(ctx context.Context) error {
	s.store.Reset()
	if err := s.repo.EditorState().ClearEditorState(ctx); err != nil {
		s.logger.Warn("persisted editor state clear failed", "error", err)
	}
	s.invalidateDocuments(ctx)
	s.publish(ctx, events.NewQuestionsClearedEvent())
	return nil
}

func (s *editorService) Lint(ctx context.Context) validator.ValidationErrors {
	state := s.store.Snapshot()
	errs := s.validator.Question().ValidateBatch(state.Questions)
	if len(errs) > 0 {
		s.ops.LogValidationErrors(ctx, "lint_questions", errs)
	}
	return errs
}

// ===== WORKSHEET CONFIGURATION =====

func (s *editorService) GetConfig(ctx context.Context) (models.WorksheetConfig, error) {
	cfg, err := s.repo.WorksheetConfig().LoadConfig(ctx)
	if err != nil {
		return models.WorksheetConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return models.WorksheetConfig{}.Normalize(), nil
	}
	return cfg.Normalize(), nil
}

func (s *editorService) UpdateConfig(ctx context.Context, cfg models.WorksheetConfig) (models.WorksheetConfig, error) {
	if err := s.validator.Validate(cfg); err != nil {
		return models.WorksheetConfig{}, err
	}
	cfg = cfg.Normalize()
	if err := s.repo.WorksheetConfig().SaveConfig(ctx, cfg); err != nil {
		return models.WorksheetConfig{}, fmt.Errorf("failed to save config: %w", err)
	}
	s.invalidateDocuments(ctx)
	return cfg, nil
}

func (s *editorService) ClearConfig(ctx context.Context) error {
	if err := s.repo.WorksheetConfig().ClearConfig(ctx); err != nil {
		return fmt.Errorf("failed to clear config: %w", err)
	}
	s.invalidateDocuments(ctx)
	return nil
}

func (s *editorService) Flush(ctx context.Context) {
	s.store.Flush(ctx)
}

// ===== INTERNAL =====

func (s *editorService) afterMutation(ctx context.Context) {
	s.invalidateDocuments(ctx)
	state := s.store.Snapshot()
	s.publish(ctx, events.NewQuestionsSavedEvent(len(state.Questions), state.CurrentQuestionIndex))
}

func (s *editorService) invalidateDocuments(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, documentCachePattern); err != nil {
		s.logger.Warn("document cache invalidation failed", "error", err)
	}
}

// publish is fire-and-forget; a broker outage never blocks editing.
func (s *editorService) publish(ctx context.Context, event *events.EditorEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEditorEvent(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.Type, "error", err)
	}
}
