package generator

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-studio/authoring-service/internal/models"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return g
}

func testQuestions(t *testing.T) []models.Question {
	t.Helper()
	return []models.Question{
		models.Sanitize(json.RawMessage(`{
			"type": "multiple-choice",
			"question": {"text": "<p>ما ناتج 5 + 7؟</p>"},
			"options": [{"text": "12"}, {"text": "13"}, {"text": "11"}],
			"correct": 0
		}`)),
		models.Sanitize(json.RawMessage(`{
			"type": "true-false",
			"question": {"text": "<p>الأرض كروية</p>"},
			"correctAnswer": true
		}`)),
	}
}

func TestGenerate_InvalidTarget(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.Generate(nil, models.WorksheetConfig{}, Target("pdf"))
	assert.Error(t, err)
}

func TestGenerate_WorksheetRendersQuestionBlocks(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate(testQuestions(t), models.WorksheetConfig{NumeralType: models.NumeralWestern}, TargetWorksheet)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(doc, `class="question-block"`))
	assert.Contains(t, doc, `id="question-0"`)
	assert.Contains(t, doc, `id="question-1"`)
	assert.Contains(t, doc, "<!DOCTYPE html>")
}

func TestGenerate_WorksheetTimerGating(t *testing.T) {
	g := newTestGenerator(t)
	questions := testQuestions(t)

	withTimer, err := g.Generate(questions, models.WorksheetConfig{UseTimer: true, TimerDuration: 10}, TargetWorksheet)
	require.NoError(t, err)
	assert.Contains(t, withTimer, `id="worksheet-timer"`)
	assert.Contains(t, withTimer, "const USE_TIMER = true")

	// The timer element is absent, not merely hidden. The CSS still names
	// the selector, so match on the element id, not the bare string.
	without, err := g.Generate(questions, models.WorksheetConfig{UseTimer: false}, TargetWorksheet)
	require.NoError(t, err)
	assert.NotContains(t, without, `id="worksheet-timer"`)
	assert.Contains(t, without, "const USE_TIMER = false")
}

func TestGenerate_InteractiveEmbedsQuizData(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate(testQuestions(t), models.WorksheetConfig{QuestionTime: 30}, TargetInteractive)
	require.NoError(t, err)

	assert.Contains(t, doc, "const QUIZ_DATA = { questions: [")
	assert.Contains(t, doc, "questionTime: 30")
	assert.Contains(t, doc, `numeralType: "eastern"`)
	// The interactive target renders questions client-side, not statically.
	assert.NotContains(t, doc, `class="question-block"`)
}

func TestGenerate_BothTargetsShareGradingScript(t *testing.T) {
	g := newTestGenerator(t)
	questions := testQuestions(t)
	cfg := models.WorksheetConfig{}

	worksheet, err := g.Generate(questions, cfg, TargetWorksheet)
	require.NoError(t, err)
	quiz, err := g.Generate(questions, cfg, TargetInteractive)
	require.NoError(t, err)

	assert.Contains(t, worksheet, "var Grading")
	assert.Contains(t, quiz, "var Grading")
}

func TestGenerate_EmptyQuestionList(t *testing.T) {
	g := newTestGenerator(t)

	for _, target := range []Target{TargetWorksheet, TargetInteractive} {
		t.Run(string(target), func(t *testing.T) {
			doc, err := g.Generate(nil, models.WorksheetConfig{}, target)
			require.NoError(t, err)
			assert.Contains(t, doc, "<!DOCTYPE html>")
			assert.NotContains(t, doc, `class="question-block"`)
		})
	}
}

func TestGenerate_EscapesScriptCloseInContent(t *testing.T) {
	g := newTestGenerator(t)
	questions := []models.Question{
		models.Sanitize(json.RawMessage(`{
			"type": "short-answer",
			"question": {"text": "<p>hello </script><script>alert(1)</p>"},
			"correctAnswer": "x"
		}`)),
	}

	doc, err := g.Generate(questions, models.WorksheetConfig{}, TargetInteractive)
	require.NoError(t, err)

	// The close tag inside the question snapshot must not survive verbatim,
	// or it would terminate the data script early.
	assert.NotContains(t, doc, "</script><script>alert(1)")
}

func TestGenerate_TitleDefaults(t *testing.T) {
	g := newTestGenerator(t)

	worksheet, err := g.Generate(nil, models.WorksheetConfig{}, TargetWorksheet)
	require.NoError(t, err)
	assert.Contains(t, worksheet, "ورقة عمل تفاعلية")

	quiz, err := g.Generate(nil, models.WorksheetConfig{}, TargetInteractive)
	require.NoError(t, err)
	assert.Contains(t, quiz, "الاختبار التفاعلي")

	custom, err := g.Generate(nil, models.WorksheetConfig{Title: "اختبار الوحدة الأولى"}, TargetWorksheet)
	require.NoError(t, err)
	assert.Contains(t, custom, "اختبار الوحدة الأولى")
}

func TestGenerate_EasternNumeralsInWorksheet(t *testing.T) {
	g := newTestGenerator(t)

	doc, err := g.Generate(testQuestions(t), models.WorksheetConfig{NumeralType: models.NumeralEastern}, TargetWorksheet)
	require.NoError(t, err)

	// Question headers use eastern digits.
	assert.Contains(t, doc, "السؤال ١")
	assert.Contains(t, doc, "السؤال ٢")
	// Text-node digits are converted.
	assert.Contains(t, doc, "٥ + ٧")
}

func TestGenerate_WorksheetShufflePreservesOriginalIndices(t *testing.T) {
	g := newTestGenerator(t)
	questions := []models.Question{
		models.Sanitize(json.RawMessage(`{
			"type": "ordering",
			"items": ["a", "b", "c", "d", "e"]
		}`)),
	}

	doc, err := g.Generate(questions, models.WorksheetConfig{}, TargetWorksheet)
	require.NoError(t, err)

	for _, attr := range []string{
		`data-original-index="0"`,
		`data-original-index="1"`,
		`data-original-index="2"`,
		`data-original-index="3"`,
		`data-original-index="4"`,
	} {
		assert.Equal(t, 1, strings.Count(doc, attr), attr)
	}
}

func TestRenderWorksheetQuestions_AllTypes(t *testing.T) {
	raws := map[string]string{
		"fill-in-the-blank": `{"type":"fill-in-the-blank","correctAnswer":"x"}`,
		"matching":          `{"type":"matching","pairs":[{"prompt":{"text":"a"},"answer":{"text":"1"}}]}`,
		"connecting-lines":  `{"type":"connecting-lines","pairs":[{"prompt":{"text":"a"},"answer":{"text":"1"}}]}`,
		"classification":    `{"type":"classification","groups":[{"id":"g1","text":"G"}],"items":[{"text":"i","groupId":"g1"}]}`,
	}
	markers := map[string]string{
		"fill-in-the-blank": `class="fill-blank-input"`,
		"matching":          `class="drop-zone" data-expected-index="0"`,
		"connecting-lines":  `data-column="prompt"`,
		"classification":    `data-group-id="g1"`,
	}

	g := newTestGenerator(t)
	for name, raw := range raws {
		t.Run(name, func(t *testing.T) {
			questions := []models.Question{models.Sanitize(json.RawMessage(raw))}
			doc, err := g.Generate(questions, models.WorksheetConfig{}, TargetWorksheet)
			require.NoError(t, err)
			assert.Contains(t, doc, markers[name])
		})
	}
}
