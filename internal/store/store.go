// Package store owns the ordered question list and its selection cursor.
// It is the sole mutator of questions: callers hand in fully-formed
// replacements and the store re-sanitizes, rebases the cursor and schedules
// persistence.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

var (
	// ErrSoleQuestion is returned when removing would leave the list empty.
	ErrSoleQuestion = errors.New("cannot delete sole question")
	// ErrIndexOutOfRange is returned for operations on a missing position.
	ErrIndexOutOfRange = errors.New("question index out of range")
)

// Persister receives debounced snapshots of the editor state.
type Persister interface {
	SaveEditorState(ctx context.Context, state models.EditorState) error
	LoadEditorState(ctx context.Context) (*models.EditorState, error)
}

// DefaultDebounce is the settle window between the last mutation and the
// persistence write. A later mutation within the window supersedes the
// pending write entirely (last-write-wins, no merge).
const DefaultDebounce = 500 * time.Millisecond

// QuestionStore is safe for concurrent use, although the editing UI drives
// it from a single dispatch goroutine.
type QuestionStore struct {
	mu        sync.Mutex
	questions []models.Question
	selected  int

	persister Persister
	debounce  time.Duration
	pending   *time.Timer
	logger    utils.Logger
}

func NewQuestionStore(persister Persister, logger utils.Logger) *QuestionStore {
	return &QuestionStore{
		questions: []models.Question{models.Sanitize(nil)},
		persister: persister,
		debounce:  DefaultDebounce,
		logger:    logger,
	}
}

// SetDebounce overrides the persistence settle window (tests use 0).
func (s *QuestionStore) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// Load replaces the in-memory state with the persisted snapshot. A missing
// or failed load falls back to a fresh single-placeholder state; it never
// blocks the editor from opening.
func (s *QuestionStore) Load(ctx context.Context) {
	state, err := s.persister.LoadEditorState(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || state == nil || len(state.Questions) == 0 {
		if err != nil {
			s.logger.Warn("editor state load failed, starting fresh", "error", err)
		}
		s.questions = []models.Question{models.Sanitize(nil)}
		s.selected = 0
		return
	}
	s.questions = state.Questions
	s.selected = clamp(state.CurrentQuestionIndex, 0, len(state.Questions)-1)
}

// Snapshot returns a deep copy of the current editor state.
func (s *QuestionStore) Snapshot() models.EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.EditorState{
		Questions:            cloneQuestions(s.questions),
		CurrentQuestionIndex: s.selected,
	}
}

// Len returns the number of questions.
func (s *QuestionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Selected returns the selection cursor.
func (s *QuestionStore) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select moves the selection cursor without mutating the list.
func (s *QuestionStore) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	s.selected = index
	return nil
}

// Get returns a copy of the question at index.
func (s *QuestionStore) Get(index int) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return models.Question{}, ErrIndexOutOfRange
	}
	return cloneQuestion(s.questions[index]), nil
}

// Add sanitizes and inserts a question at atIndex (clamped to the list
// bounds) and selects it.
func (s *QuestionStore) Add(raw json.RawMessage, atIndex int) models.Question {
	q := models.Sanitize(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	at := clamp(atIndex, 0, len(s.questions))
	s.questions = append(s.questions, models.Question{})
	copy(s.questions[at+1:], s.questions[at:])
	s.questions[at] = q
	s.selected = at
	s.scheduleSaveLocked()
	return cloneQuestion(q)
}

// Append sanitizes and appends a batch as one atomic mutation. Used by
// multi-file import so concurrent file reads merge in a single write.
func (s *QuestionStore) Append(raws []json.RawMessage) []models.Question {
	if len(raws) == 0 {
		return nil
	}
	added := make([]models.Question, len(raws))
	for i, raw := range raws {
		added[i] = models.Sanitize(raw)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, added...)
	s.selected = len(s.questions) - 1
	s.scheduleSaveLocked()
	return cloneQuestions(added)
}

// Update replaces the question at index with a sanitized copy of raw.
func (s *QuestionStore) Update(index int, raw json.RawMessage) (models.Question, error) {
	q := models.Sanitize(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return models.Question{}, ErrIndexOutOfRange
	}
	s.questions[index] = q
	s.scheduleSaveLocked()
	return cloneQuestion(q), nil
}

// Remove deletes the question at index. Deleting the last remaining
// question is refused outright. The cursor decrements when the removal
// happens at or before it, never below zero.
func (s *QuestionStore) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	if len(s.questions) == 1 {
		return ErrSoleQuestion
	}
	s.questions = append(s.questions[:index], s.questions[index+1:]...)
	if index <= s.selected && s.selected > 0 {
		s.selected--
	}
	if s.selected >= len(s.questions) {
		s.selected = len(s.questions) - 1
	}
	s.scheduleSaveLocked()
	return nil
}

// Duplicate deep-clones the question at index and inserts the clone
// immediately after it, selecting the clone.
func (s *QuestionStore) Duplicate(index int) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return models.Question{}, ErrIndexOutOfRange
	}
	clone := cloneQuestion(s.questions[index])
	s.questions = append(s.questions, models.Question{})
	copy(s.questions[index+2:], s.questions[index+1:])
	s.questions[index+1] = clone
	s.selected = index + 1
	s.scheduleSaveLocked()
	return cloneQuestion(clone), nil
}

// Move reorders the question at from to position to. Out-of-range indices
// make the call a no-op. When the selected question moves, the selection
// follows it.
func (s *QuestionStore) Move(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved, ok := MoveItem(s.questions, from, to)
	if !ok {
		return
	}
	s.questions = moved
	switch {
	case s.selected == from:
		s.selected = to
	case from < s.selected && to >= s.selected:
		s.selected--
	case from > s.selected && to <= s.selected:
		s.selected++
	}
	s.scheduleSaveLocked()
}

// Reset discards everything, leaving a single placeholder question.
func (s *QuestionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = []models.Question{models.Sanitize(nil)}
	s.selected = 0
	s.scheduleSaveLocked()
}

// Flush forces any pending debounced write to run now.
func (s *QuestionStore) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	state := models.EditorState{
		Questions:            cloneQuestions(s.questions),
		CurrentQuestionIndex: s.selected,
	}
	s.mu.Unlock()
	s.save(ctx, state)
}

// scheduleSaveLocked arms the debounce timer; callers hold s.mu. A newer
// mutation stops the previous timer, so only the final state is written.
func (s *QuestionStore) scheduleSaveLocked() {
	if s.persister == nil {
		return
	}
	if s.pending != nil {
		s.pending.Stop()
	}
	state := models.EditorState{
		Questions:            cloneQuestions(s.questions),
		CurrentQuestionIndex: s.selected,
	}
	if s.debounce <= 0 {
		go s.save(context.Background(), state)
		return
	}
	s.pending = time.AfterFunc(s.debounce, func() {
		s.save(context.Background(), state)
	})
}

// save failures leave the in-memory state authoritative; the next mutation
// re-triggers a write attempt.
func (s *QuestionStore) save(ctx context.Context, state models.EditorState) {
	if err := s.persister.SaveEditorState(ctx, state); err != nil {
		s.logger.Error("editor state save failed", "error", err, "questions", len(state.Questions))
	}
}

// MoveItem returns a reordered copy of list with the element at from moved
// to to, preserving relative order of everything else. Out-of-range indices
// return the input unchanged with ok=false. It serves both question
// reordering and intra-question option/pair/item reordering.
func MoveItem[T any](list []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return list, false
	}
	out := make([]T, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	out = append(out[:to], append([]T{list[from]}, out[to:]...)...)
	return out, true
}

func cloneQuestion(q models.Question) models.Question {
	data, _ := json.Marshal(q)
	return models.Sanitize(data)
}

func cloneQuestions(qs []models.Question) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		out[i] = cloneQuestion(q)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
