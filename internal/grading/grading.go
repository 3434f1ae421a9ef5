// Package grading implements the per-type correctness algorithms shared by
// the editor preview and both exported document flavors. The functions are
// pure: a response is a plain data structure describing the user's final
// arrangement, decoupled from whatever gesture produced it.
package grading

import (
	"strings"

	"github.com/quiz-studio/authoring-service/internal/models"
)

// PassPercentage is the certificate-eligibility threshold.
const PassPercentage = 80

// Response is a user's answer to a single question. Exactly one field is
// meaningful, matching the question's variant.
type Response struct {
	// multiple-choice: the ORIGINAL index of the chosen option
	// (display order is a permutation; callers map back before grading).
	SelectedIndex int

	// true-false
	Bool bool

	// fill-in-the-blank / short-answer
	Text string

	// ordering: original indices in the user's final display order.
	Order []int

	// matching: per prompt-zone, the original pair index of the dropped
	// answer, or nil for an empty zone.
	ZoneOccupants []*int

	// connecting-lines
	Connections []Connection

	// classification
	Placements []Placement
	// PoolRemaining counts items the user never placed into a group.
	PoolRemaining int
}

// Connection is one prompt/answer link formed by click-click pairing.
type Connection struct {
	PromptIndex int `json:"promptIndex"`
	AnswerIndex int `json:"answerIndex"`
}

// Placement records which group zone an item ended up in.
type Placement struct {
	ItemGroupID string `json:"itemGroupId"`
	ZoneGroupID string `json:"zoneGroupId"`
}

// Grade returns the correctness verdict for a response against a sanitized
// question. Every variant has a defined verdict; there is no error path.
func Grade(q *models.Question, r Response) bool {
	switch q.Type {
	case models.MultipleChoice:
		return r.SelectedIndex == q.Correct

	case models.TrueFalse:
		return r.Bool == q.CorrectBool

	case models.FillInTheBlank:
		return gradeFillInTheBlank(q.CorrectAnswer, r.Text)

	case models.ShortAnswer:
		return gradeShortAnswer(q.CorrectAnswer, r.Text)

	case models.Ordering:
		return gradeOrdering(len(q.Items), r.Order)

	case models.Matching:
		return gradeMatching(len(q.Pairs), r.ZoneOccupants)

	case models.ConnectingLines:
		return gradeConnectingLines(len(q.Pairs), r.Connections)

	case models.Classification:
		return gradeClassification(r.Placements, r.PoolRemaining)
	}
	return false
}

// gradeFillInTheBlank: trimmed, case-sensitive, exact membership in the
// "|"-separated alternative set.
func gradeFillInTheBlank(correctAnswer, input string) bool {
	needle := strings.TrimSpace(input)
	for _, alt := range models.SplitAlternatives(correctAnswer) {
		if needle == alt {
			return true
		}
	}
	return false
}

// gradeShortAnswer: the trimmed input must contain at least one alternative
// as a substring. Deliberately looser than fill-in-the-blank to tolerate
// free-text phrasing.
func gradeShortAnswer(correctAnswer, input string) bool {
	haystack := strings.TrimSpace(input)
	for _, alt := range models.SplitAlternatives(correctAnswer) {
		if alt != "" && strings.Contains(haystack, alt) {
			return true
		}
	}
	return false
}

// gradeOrdering: the submitted original-index sequence must be exactly the
// authored order 0..n-1.
func gradeOrdering(n int, order []int) bool {
	if len(order) != n {
		return false
	}
	for i, idx := range order {
		if idx != i {
			return false
		}
	}
	return true
}

// gradeMatching: every zone must hold the answer whose original pair index
// equals the zone's prompt index. An empty zone fails the whole question.
func gradeMatching(pairs int, occupants []*int) bool {
	if len(occupants) != pairs {
		return false
	}
	for zone, occ := range occupants {
		if occ == nil || *occ != zone {
			return false
		}
	}
	return true
}

// gradeConnectingLines: exactly one connection per pair, each linking a
// prompt to its own answer.
func gradeConnectingLines(pairs int, conns []Connection) bool {
	if len(conns) != pairs {
		return false
	}
	for _, c := range conns {
		if c.PromptIndex != c.AnswerIndex {
			return false
		}
	}
	return true
}

// gradeClassification: the pool must be empty and every placed item must
// sit in the zone matching its groupId.
func gradeClassification(placements []Placement, poolRemaining int) bool {
	if poolRemaining > 0 {
		return false
	}
	for _, p := range placements {
		if p.ItemGroupID != p.ZoneGroupID {
			return false
		}
	}
	return true
}

// Score counts correct verdicts across paired questions and responses.
func Score(questions []models.Question, responses []Response) int {
	score := 0
	for i := range questions {
		if i >= len(responses) {
			break
		}
		if Grade(&questions[i], responses[i]) {
			score++
		}
	}
	return score
}

// Passed reports certificate eligibility for a score out of total.
func Passed(score, total int) bool {
	if total == 0 {
		return false
	}
	return score*100 >= PassPercentage*total
}
