package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/quiz-studio/authoring-service/internal/grading"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

// SessionService runs headless quiz play-throughs against the current
// question snapshot. Authors use it to preview grading without opening an
// exported document; the state machine is the same one the interactive
// document embeds.
type SessionService interface {
	Start(ctx context.Context) (*SessionInfo, error)
	Get(ctx context.Context, sessionID string) (*SessionInfo, error)
	Submit(ctx context.Context, sessionID string, response grading.Response) (*SubmitResult, error)
	Skip(ctx context.Context, sessionID string) (*SessionInfo, error)
	Advance(ctx context.Context, sessionID string, forward bool) (*SessionInfo, error)
	Restart(ctx context.Context, sessionID string) (*SessionInfo, error)
	End(ctx context.Context, sessionID string) error
}

// SessionInfo is the externally visible state of a play-through.
type SessionInfo struct {
	ID            string                  `json:"id"`
	Current       int                     `json:"current"`
	Score         int                     `json:"score"`
	QuestionCount int                     `json:"question_count"`
	States        []grading.QuestionState `json:"states"`
	Finished      bool                    `json:"finished"`
	Passed        bool                    `json:"passed"`
}

// SubmitResult reports one graded answer.
type SubmitResult struct {
	Correct  bool         `json:"correct"`
	Accepted bool         `json:"accepted"`
	Session  *SessionInfo `json:"session"`
}

type sessionService struct {
	store  *store.QuestionStore
	logger utils.Logger

	mu       sync.Mutex
	sessions map[string]*grading.Session
}

func NewSessionService(questionStore *store.QuestionStore, logger utils.Logger) SessionService {
	return &sessionService{
		store:    questionStore,
		logger:   logger,
		sessions: make(map[string]*grading.Session),
	}
}

// Start snapshots the current question list; later edits do not affect a
// running session.
func (s *sessionService) Start(ctx context.Context) (*SessionInfo, error) {
	state := s.store.Snapshot()
	session := grading.NewSession(state.Questions, nil)
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	s.logger.Info("preview session started", "session_id", id, "questions", len(state.Questions))
	return s.info(id, session), nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sessionID, session), nil
}

func (s *sessionService) Submit(ctx context.Context, sessionID string, response grading.Response) (*SubmitResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	correct, accepted := session.Submit(response)
	s.mu.Unlock()
	return &SubmitResult{
		Correct:  correct,
		Accepted: accepted,
		Session:  s.info(sessionID, session),
	}, nil
}

// Skip marks the current question incorrect, the same treatment timer
// expiry applies inside exported documents.
func (s *sessionService) Skip(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	session.Skip()
	session.Next()
	s.mu.Unlock()
	return s.info(sessionID, session), nil
}

func (s *sessionService) Advance(ctx context.Context, sessionID string, forward bool) (*SessionInfo, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if forward {
		session.Next()
	} else {
		session.Prev()
	}
	s.mu.Unlock()
	return s.info(sessionID, session), nil
}

func (s *sessionService) Restart(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	session.Restart()
	s.mu.Unlock()
	return s.info(sessionID, session), nil
}

func (s *sessionService) End(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *sessionService) lookup(sessionID string) (*grading.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) info(id string, session *grading.Session) *SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]grading.QuestionState, len(session.Questions))
	for i := range session.Questions {
		states[i] = session.State(i)
	}
	return &SessionInfo{
		ID:            id,
		Current:       session.Current,
		Score:         session.Score,
		QuestionCount: len(session.Questions),
		States:        states,
		Finished:      session.Finished(),
		Passed:        session.Passed(),
	}
}
