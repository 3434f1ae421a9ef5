package generator

import (
	"fmt"
	"html"
	"strings"

	"github.com/quiz-studio/authoring-service/internal/grading"
	"github.com/quiz-studio/authoring-service/internal/models"
)

// renderWorksheetQuestions bakes the static question markup. Shuffles happen
// here, at generation time; data-original-index attributes carry the mapping
// the embedded engine grades against.
func renderWorksheetQuestions(questions []models.Question, mode models.NumeralType, sh *grading.Shuffler) string {
	var b strings.Builder
	for i := range questions {
		renderQuestionBlock(&b, &questions[i], i, mode, sh)
	}
	return b.String()
}

func renderQuestionBlock(b *strings.Builder, q *models.Question, index int, mode models.NumeralType, sh *grading.Shuffler) {
	fmt.Fprintf(b, `<div class="question-block" id="question-%d">`, index)
	fmt.Fprintf(b, `<div class="question-header">السؤال %s</div>`, FormatNumber(index+1, mode))

	if q.HasReading() {
		b.WriteString(`<div class="reading-text">`)
		if q.Reading.Text != "" {
			b.WriteString("<div>" + TransformHTML(q.Reading.Text, mode) + "</div>")
		}
		if q.Reading.Image != nil {
			fmt.Fprintf(b, `<img src="%s" alt="نص قرائي">`, *q.Reading.Image)
		}
		if q.Reading.Audio != nil {
			fmt.Fprintf(b, `<audio src="%s" controls style="margin-top: 10px; width: 100%%;"></audio>`, *q.Reading.Audio)
		}
		b.WriteString("</div>")
	}

	b.WriteString(`<div class="question-text">` + TransformHTML(q.Question.Text, mode))
	if q.Question.Image != nil {
		fmt.Fprintf(b, `<img src="%s" alt="صورة السؤال">`, *q.Question.Image)
	}
	b.WriteString(`</div><div class="options-container">`)

	switch q.Type {
	case models.MultipleChoice:
		renderMultipleChoiceBlock(b, q, index, mode, sh)
	case models.TrueFalse:
		fmt.Fprintf(b, `<label class="tf-option"><input type="radio" name="q%d" value="true"> صح</label><label class="tf-option"><input type="radio" name="q%d" value="false"> خطأ</label>`, index, index)
	case models.FillInTheBlank:
		b.WriteString(`<input type="text" class="fill-blank-input" placeholder="اكتب إجابتك هنا...">`)
	case models.ShortAnswer:
		b.WriteString(`<textarea class="short-answer-input" rows="3" placeholder="اكتب إجابتك هنا..."></textarea>`)
	case models.Ordering:
		renderOrderingBlock(b, q, mode, sh)
	case models.Matching:
		renderMatchingBlock(b, q, mode, sh)
	case models.ConnectingLines:
		renderConnectingBlock(b, q, index, mode, sh)
	case models.Classification:
		renderClassificationBlock(b, q, mode, sh)
	}

	b.WriteString("</div>")
	fmt.Fprintf(b, `<div id="feedback-%d" class="feedback" style="display:none;"></div>`, index)
	b.WriteString("</div>")
}

// Options are shuffled for display; the radio value keeps the original
// index so the verdict stays a plain index comparison.
func renderMultipleChoiceBlock(b *strings.Builder, q *models.Question, index int, mode models.NumeralType, sh *grading.Shuffler) {
	for _, origIdx := range sh.Permutation(len(q.Options)) {
		opt := q.Options[origIdx]
		fmt.Fprintf(b, `<label class="mc-option"><input type="radio" name="q%d" value="%d"><div class="mc-option-content">%s</div>`,
			index, origIdx, TransformHTML(opt.Text, mode))
		if opt.Image != nil {
			fmt.Fprintf(b, `<img src="%s" alt="خيار">`, *opt.Image)
		}
		b.WriteString("</label>")
	}
}

func renderOrderingBlock(b *strings.Builder, q *models.Question, mode models.NumeralType, sh *grading.Shuffler) {
	b.WriteString(`<div class="ordering-container">`)
	for _, origIdx := range sh.Permutation(len(q.Items)) {
		item := q.Items[origIdx]
		fmt.Fprintf(b, `<div class="ordering-item" draggable="true" data-original-index="%d">`, origIdx)
		if item.Image != nil {
			fmt.Fprintf(b, `<img src="%s">`, *item.Image)
		}
		if item.Text != "" {
			b.WriteString("<span>" + TransformHTML(item.Text, mode) + "</span>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
}

func renderMatchingBlock(b *strings.Builder, q *models.Question, mode models.NumeralType, sh *grading.Shuffler) {
	b.WriteString(`<div class="matching-container"><div class="matching-column">`)
	for i, p := range q.Pairs {
		b.WriteString(`<div class="matching-prompt-item"><div class="prompt-content">`)
		writeMedia(b, p.Prompt, mode)
		fmt.Fprintf(b, `</div><div class="drop-zone" data-expected-index="%d"></div></div>`, i)
	}
	b.WriteString(`</div><div class="matching-column">`)
	for _, origIdx := range sh.Permutation(len(q.Pairs)) {
		fmt.Fprintf(b, `<div class="answer-item" draggable="true" data-original-index="%d">`, origIdx)
		writeMedia(b, q.Pairs[origIdx].Answer, mode)
		b.WriteString("</div>")
	}
	b.WriteString("</div></div>")
}

func renderConnectingBlock(b *strings.Builder, q *models.Question, index int, mode models.NumeralType, sh *grading.Shuffler) {
	fmt.Fprintf(b, `<div class="connecting-container" onclick="handleConnectorClick(event, %d)"><svg id="connection-svg-%d" class="connection-svg"></svg><div class="column">`, index, index)
	for i, p := range q.Pairs {
		fmt.Fprintf(b, `<div class="connect-item" data-column="prompt" id="q%d-prompt%d" data-prompt-index="%d">`, index, i, i)
		writeMedia(b, p.Prompt, mode)
		b.WriteString("</div>")
	}
	b.WriteString(`</div><div class="column">`)
	for pos, origIdx := range sh.Permutation(len(q.Pairs)) {
		fmt.Fprintf(b, `<div class="connect-item" data-column="answer" id="q%d-answer%d" data-answer-index="%d">`, index, pos, origIdx)
		writeMedia(b, q.Pairs[origIdx].Answer, mode)
		b.WriteString("</div>")
	}
	b.WriteString("</div></div>")
}

func renderClassificationBlock(b *strings.Builder, q *models.Question, mode models.NumeralType, sh *grading.Shuffler) {
	b.WriteString(`<div class="classification-container"><div class="classification-groups">`)
	for _, g := range q.Groups {
		b.WriteString(`<div class="group-box"><div class="group-header">` + TransformHTML(g.Text, mode) + "</div>")
		fmt.Fprintf(b, `<div class="group-drop-zone" data-group-id="%s"></div></div>`, html.EscapeString(g.ID))
	}
	b.WriteString(`</div><div class="classification-items">`)
	for _, origIdx := range sh.Permutation(len(q.Items)) {
		item := q.Items[origIdx]
		fmt.Fprintf(b, `<div class="class-item" draggable="true" data-group-id="%s">`, html.EscapeString(item.GroupID))
		if item.Image != nil {
			fmt.Fprintf(b, `<img src="%s">`, *item.Image)
		}
		if item.Text != "" {
			b.WriteString("<span>" + TransformHTML(item.Text, mode) + "</span>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div></div>")
}

func writeMedia(b *strings.Builder, m models.MediaContent, mode models.NumeralType) {
	if m.Image != nil {
		fmt.Fprintf(b, `<img src="%s">`, *m.Image)
	}
	if m.Text != "" {
		b.WriteString("<p>" + TransformHTML(m.Text, mode) + "</p>")
	}
}
