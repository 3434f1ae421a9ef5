package grading

import (
	"math/rand"

	"github.com/quiz-studio/authoring-service/internal/models"
)

// QuestionState is the lifecycle of one question within a play-through:
// unanswered -> answered(correct|incorrect), then locked against re-answering.
type QuestionState int

const (
	Unanswered QuestionState = iota
	AnsweredCorrect
	AnsweredIncorrect
)

// Session is the explicit state record for one interactive play-through.
// It mirrors the script state embedded in exported documents and exists so
// the state machine can be driven headlessly in tests.
type Session struct {
	Questions []models.Question

	Current int
	Score   int

	states []QuestionState
	// shuffles[i] is the presentation permutation for question i's
	// options/answers/items, built lazily on first view.
	shuffles map[int][]int

	shuffler *Shuffler
}

func NewSession(questions []models.Question, rng *rand.Rand) *Session {
	return &Session{
		Questions: questions,
		states:    make([]QuestionState, len(questions)),
		shuffles:  make(map[int][]int),
		shuffler:  NewShuffler(rng),
	}
}

// State returns the lifecycle state of question i.
func (s *Session) State(i int) QuestionState {
	if i < 0 || i >= len(s.states) {
		return Unanswered
	}
	return s.states[i]
}

// Answered reports whether question i is locked.
func (s *Session) Answered(i int) bool {
	return s.State(i) != Unanswered
}

// Shuffle returns the presentation permutation for question i, computing it
// once per play-through so re-visiting a question keeps its layout.
func (s *Session) Shuffle(i, n int) []int {
	if perm, ok := s.shuffles[i]; ok {
		return perm
	}
	perm := s.shuffler.Permutation(n)
	s.shuffles[i] = perm
	return perm
}

// Submit grades the response for the current question and locks it.
// A second submit for the same question is ignored; the verdict commit and
// the lock are atomic from the caller's point of view.
func (s *Session) Submit(r Response) (correct, accepted bool) {
	i := s.Current
	if i < 0 || i >= len(s.Questions) || s.states[i] != Unanswered {
		return false, false
	}
	correct = Grade(&s.Questions[i], r)
	if correct {
		s.states[i] = AnsweredCorrect
		s.Score++
	} else {
		s.states[i] = AnsweredIncorrect
	}
	return correct, true
}

// Skip marks the current question incorrect without a response. Timer
// expiry uses this so an unanswered question never blocks advancement.
func (s *Session) Skip() {
	i := s.Current
	if i < 0 || i >= len(s.Questions) || s.states[i] != Unanswered {
		return
	}
	s.states[i] = AnsweredIncorrect
}

// Next advances the cursor; it reports false once past the last question.
func (s *Session) Next() bool {
	if s.Current >= len(s.Questions)-1 {
		return false
	}
	s.Current++
	return true
}

// Prev moves the cursor back; it reports false at the first question.
func (s *Session) Prev() bool {
	if s.Current <= 0 {
		return false
	}
	s.Current--
	return true
}

// Finished reports whether every question has been answered or skipped.
func (s *Session) Finished() bool {
	for _, st := range s.states {
		if st == Unanswered {
			return false
		}
	}
	return true
}

// Passed reports certificate eligibility for the session.
func (s *Session) Passed() bool {
	return Passed(s.Score, len(s.Questions))
}

// Restart resets the play-through, discarding verdicts and shuffles.
func (s *Session) Restart() {
	s.Current = 0
	s.Score = 0
	s.states = make([]QuestionState, len(s.Questions))
	s.shuffles = make(map[int][]int)
}
