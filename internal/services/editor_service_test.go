package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-studio/authoring-service/internal/cache"
	"github.com/quiz-studio/authoring-service/internal/events"
	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/repositories"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
	"github.com/quiz-studio/authoring-service/internal/validator"
)

// memoryEditorStateRepo keeps the persisted snapshot in memory.
type memoryEditorStateRepo struct {
	mu    sync.Mutex
	state *models.EditorState
}

func (r *memoryEditorStateRepo) SaveEditorState(ctx context.Context, state models.EditorState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = &state
	return nil
}

func (r *memoryEditorStateRepo) LoadEditorState(ctx context.Context) (*models.EditorState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, nil
}

func (r *memoryEditorStateRepo) ClearEditorState(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = nil
	return nil
}

type memoryConfigRepo struct {
	mu  sync.Mutex
	cfg *models.WorksheetConfig
}

func (r *memoryConfigRepo) SaveConfig(ctx context.Context, cfg models.WorksheetConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = &cfg
	return nil
}

func (r *memoryConfigRepo) LoadConfig(ctx context.Context) (*models.WorksheetConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg, nil
}

func (r *memoryConfigRepo) ClearConfig(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = nil
	return nil
}

type memoryRepository struct {
	editorState *memoryEditorStateRepo
	config      *memoryConfigRepo
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		editorState: &memoryEditorStateRepo{},
		config:      &memoryConfigRepo{},
	}
}

func (r *memoryRepository) EditorState() repositories.EditorStateRepository { return r.editorState }
func (r *memoryRepository) WorksheetConfig() repositories.WorksheetConfigRepository {
	return r.config
}

// memoryCache mirrors the redis cache's JSON round-trip behavior and counts
// pattern invalidations.
type memoryCache struct {
	mu             sync.Mutex
	entries        map[string][]byte
	patternDeletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patternDeletes++
	c.entries = make(map[string][]byte)
	return nil
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type editorFixture struct {
	service   EditorService
	store     *store.QuestionStore
	repo      *memoryRepository
	cache     *memoryCache
	publisher *events.MockEventPublisher
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	repo := newMemoryRepository()
	logger := utils.NewDefaultLogger()
	questionStore := store.NewQuestionStore(repo.editorState, logger)
	questionStore.SetDebounce(0)
	cacheService := newMemoryCache()
	publisher := events.NewMockEventPublisher(slog.Default())

	service := NewEditorService(questionStore, repo, cacheService, publisher, validator.New(), logger)
	return &editorFixture{
		service:   service,
		store:     questionStore,
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
	}
}

func rawTF(correct bool) json.RawMessage {
	if correct {
		return json.RawMessage(`{"type":"true-false","question":{"text":"q"},"correctAnswer":true}`)
	}
	return json.RawMessage(`{"type":"true-false","question":{"text":"q"},"correctAnswer":false}`)
}

func TestEditorService_AddPublishesSavedEvent(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	q, err := f.service.Add(ctx, rawTF(true), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TrueFalse, q.Type)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionsSaved, published[0].Type)
	assert.NotEmpty(t, published[0].ID)
}

func TestEditorService_MutationInvalidatesDocumentCache(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, "document:worksheet:abc", "<html>", time.Hour))

	_, err := f.service.Add(ctx, rawTF(true), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.cache.patternDeletes)
	assert.Equal(t, 0, f.cache.len())
}

func TestEditorService_QuestionNotFound(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	_, err := f.service.Question(ctx, 7)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.True(t, IsNotFound(err))

	_, err = f.service.Update(ctx, 7, rawTF(true))
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = f.service.Duplicate(ctx, 7)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	assert.ErrorIs(t, f.service.Select(ctx, 7), ErrQuestionNotFound)
}

func TestEditorService_RemoveSoleQuestion(t *testing.T) {
	f := newEditorFixture(t)

	err := f.service.Remove(context.Background(), 0)
	assert.ErrorIs(t, err, ErrSoleQuestion)
	assert.True(t, IsConflict(err))
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestEditorService_ResetLeavesPlaceholderAndPublishes(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	_, err := f.service.Add(ctx, rawTF(true), 1)
	require.NoError(t, err)
	f.service.Flush(ctx)
	require.NotNil(t, f.repo.editorState.state)
	f.publisher.ClearEvents()

	require.NoError(t, f.service.Reset(ctx))

	state := f.service.State(ctx)
	require.Len(t, state.Questions, 1)
	assert.Equal(t, models.MultipleChoice, state.Questions[0].Type)
	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionsCleared, published[0].Type)
}

func TestEditorService_MoveOutOfRangeIsSilent(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.Move(ctx, 0, 99))
	assert.Equal(t, 1, len(f.service.State(ctx).Questions))
}

func TestEditorService_LintReportsIncompleteQuestions(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	// The blank placeholder has no question text and empty options.
	problems := f.service.Lint(ctx)
	assert.NotEmpty(t, problems)

	_, err := f.service.Update(ctx, 0, json.RawMessage(`{
		"type": "multiple-choice",
		"question": {"text": "<p>سؤال مكتمل</p>"},
		"options": [{"text": "أ"}, {"text": "ب"}],
		"correct": 0
	}`))
	require.NoError(t, err)

	assert.Empty(t, f.service.Lint(ctx))
}

func TestEditorService_ConfigRoundTrip(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	// Missing config yields normalized defaults.
	cfg, err := f.service.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.NumeralEastern, cfg.NumeralType)
	assert.Equal(t, models.DefaultTimerDuration, cfg.TimerDuration)

	saved, err := f.service.UpdateConfig(ctx, models.WorksheetConfig{
		Title:       "اختبار",
		NumeralType: models.NumeralWestern,
		UseTimer:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.NumeralWestern, saved.NumeralType)

	loaded, err := f.service.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "اختبار", loaded.Title)
	assert.True(t, loaded.UseTimer)

	require.NoError(t, f.service.ClearConfig(ctx))
	cleared, err := f.service.GetConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, cleared.Title)
}

func TestEditorService_UpdateConfigRejectsInvalid(t *testing.T) {
	f := newEditorFixture(t)

	_, err := f.service.UpdateConfig(context.Background(), models.WorksheetConfig{
		NumeralType: "roman",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = f.service.UpdateConfig(context.Background(), models.WorksheetConfig{
		TimerDuration: 100000,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestEditorService_ConfigChangeInvalidatesDocuments(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, "document:interactive:xyz", "<html>", time.Hour))
	_, err := f.service.UpdateConfig(ctx, models.WorksheetConfig{Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, 0, f.cache.len())
}

func TestEditorService_NilCacheAndPublisherTolerated(t *testing.T) {
	repo := newMemoryRepository()
	logger := utils.NewDefaultLogger()
	questionStore := store.NewQuestionStore(repo.editorState, logger)
	questionStore.SetDebounce(0)
	service := NewEditorService(questionStore, repo, nil, nil, validator.New(), logger)

	_, err := service.Add(context.Background(), rawTF(true), 1)
	assert.NoError(t, err)
	assert.NoError(t, service.Reset(context.Background()))
}
