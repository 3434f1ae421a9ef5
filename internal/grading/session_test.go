package grading

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-studio/authoring-service/internal/models"
)

func sessionQuestions(t *testing.T) []models.Question {
	t.Helper()
	return []models.Question{
		mustQuestion(t, `{"type": "true-false", "correctAnswer": true}`),
		mustQuestion(t, `{"type": "fill-in-the-blank", "correctAnswer": "Paris"}`),
		mustQuestion(t, `{"type": "multiple-choice", "options": [{"text":"a"},{"text":"b"}], "correct": 0}`),
	}
}

func TestSession_SubmitLocksQuestion(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	correct, accepted := s.Submit(Response{Bool: true})
	assert.True(t, correct)
	assert.True(t, accepted)
	assert.Equal(t, AnsweredCorrect, s.State(0))
	assert.Equal(t, 1, s.Score)

	// A second submit on the same question is ignored, even a wrong one.
	_, accepted = s.Submit(Response{Bool: false})
	assert.False(t, accepted)
	assert.Equal(t, AnsweredCorrect, s.State(0))
	assert.Equal(t, 1, s.Score)
}

func TestSession_IncorrectSubmit(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	correct, accepted := s.Submit(Response{Bool: false})
	assert.False(t, correct)
	assert.True(t, accepted)
	assert.Equal(t, AnsweredIncorrect, s.State(0))
	assert.Equal(t, 0, s.Score)
}

func TestSession_SkipMarksIncorrect(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	s.Skip()
	assert.Equal(t, AnsweredIncorrect, s.State(0))
	assert.Equal(t, 0, s.Score)

	// Skipping an already-answered question changes nothing.
	s.Skip()
	assert.Equal(t, AnsweredIncorrect, s.State(0))
}

func TestSession_Navigation(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	assert.False(t, s.Prev())
	assert.Equal(t, 0, s.Current)

	assert.True(t, s.Next())
	assert.True(t, s.Next())
	assert.Equal(t, 2, s.Current)
	assert.False(t, s.Next())
	assert.Equal(t, 2, s.Current)

	assert.True(t, s.Prev())
	assert.Equal(t, 1, s.Current)
}

func TestSession_RevisitKeepsAnswerLocked(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	s.Submit(Response{Bool: true})
	require.True(t, s.Next())
	require.True(t, s.Prev())

	_, accepted := s.Submit(Response{Bool: true})
	assert.False(t, accepted)
	assert.True(t, s.Answered(0))
}

func TestSession_FinishedAndPassed(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	assert.False(t, s.Finished())

	s.Submit(Response{Bool: true})
	s.Next()
	s.Submit(Response{Text: "Paris"})
	s.Next()
	assert.False(t, s.Finished())

	s.Submit(Response{SelectedIndex: 0})
	assert.True(t, s.Finished())
	assert.Equal(t, 3, s.Score)
	assert.True(t, s.Passed())
}

func TestSession_FailsBelowThreshold(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	// 2 of 3 is 66%, below the 80% certificate threshold.
	s.Submit(Response{Bool: true})
	s.Next()
	s.Submit(Response{Text: "Paris"})
	s.Next()
	s.Skip()

	assert.True(t, s.Finished())
	assert.Equal(t, 2, s.Score)
	assert.False(t, s.Passed())
}

func TestSession_Restart(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(1)))

	s.Submit(Response{Bool: true})
	s.Next()
	s.Skip()

	s.Restart()

	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, Unanswered, s.State(0))
	assert.Equal(t, Unanswered, s.State(1))
	assert.False(t, s.Finished())

	// Answering works again after restart.
	correct, accepted := s.Submit(Response{Bool: true})
	assert.True(t, correct)
	assert.True(t, accepted)
}

func TestSession_ShuffleStablePerPlaythrough(t *testing.T) {
	s := NewSession(sessionQuestions(t), rand.New(rand.NewSource(42)))

	first := s.Shuffle(0, 6)
	second := s.Shuffle(0, 6)
	assert.Equal(t, first, second)

	// Each shuffle is a permutation of the original indices.
	seen := make(map[int]bool, len(first))
	for _, idx := range first {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 6)
		assert.False(t, seen[idx])
		seen[idx] = true
	}
}

func TestSession_EmptyQuestionList(t *testing.T) {
	s := NewSession(nil, rand.New(rand.NewSource(1)))

	_, accepted := s.Submit(Response{})
	assert.False(t, accepted)
	assert.True(t, s.Finished())
	assert.False(t, s.Passed())
	assert.False(t, s.Next())
}

func TestShuffler_Permutation(t *testing.T) {
	sh := NewShuffler(rand.New(rand.NewSource(7)))

	perm := sh.Permutation(10)
	require.Len(t, perm, 10)
	seen := make(map[int]bool, 10)
	for _, idx := range perm {
		seen[idx] = true
	}
	assert.Len(t, seen, 10)

	assert.Empty(t, sh.Permutation(0))
	assert.Equal(t, []int{0}, sh.Permutation(1))
}

func TestShuffler_NilRNG(t *testing.T) {
	sh := NewShuffler(nil)
	assert.Len(t, sh.Permutation(5), 5)
}

func TestIdentityPermutation(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, IdentityPermutation(4))
	assert.Empty(t, IdentityPermutation(0))
}
