// Package generator turns a sanitized question list plus a worksheet
// configuration into a self-contained HTML document. Two targets exist: a
// static printable worksheet graded in one pass, and a one-question-at-a-time
// interactive quiz. Both embed the same grading script, so their verdicts
// cannot drift.
package generator

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"text/template"

	"github.com/quiz-studio/authoring-service/internal/grading"
	"github.com/quiz-studio/authoring-service/internal/models"
)

// Target selects the document flavor.
type Target string

const (
	TargetWorksheet   Target = "worksheet"
	TargetInteractive Target = "interactive"
)

func (t Target) IsValid() bool {
	return t == TargetWorksheet || t == TargetInteractive
}

//go:embed assets
var assets embed.FS

// scriptClose must not terminate the inline <script> that carries the
// embedded question snapshot.
var scriptClose = regexp.MustCompile(`(?i)</script>`)

type Generator struct {
	shuffler      *grading.Shuffler
	worksheetTmpl *template.Template
	quizTmpl      *template.Template
	gradingJS     string
	worksheetJS   string
	quizJS        string
	worksheetCSS  string
	quizCSS       string
}

// New builds a Generator. rng drives the worksheet's generation-time
// shuffles; pass nil for a time-seeded source.
func New(rng *rand.Rand) (*Generator, error) {
	g := &Generator{shuffler: grading.NewShuffler(rng)}

	var err error
	if g.gradingJS, err = asset("assets/grading.js"); err != nil {
		return nil, err
	}
	if g.worksheetJS, err = asset("assets/worksheet.js"); err != nil {
		return nil, err
	}
	if g.quizJS, err = asset("assets/quiz.js"); err != nil {
		return nil, err
	}
	if g.worksheetCSS, err = asset("assets/worksheet.css"); err != nil {
		return nil, err
	}
	if g.quizCSS, err = asset("assets/quiz.css"); err != nil {
		return nil, err
	}

	// text/template: the fields are trusted author content and pre-escaped
	// script payloads; html/template's contextual escaping would mangle both.
	if g.worksheetTmpl, err = parseTemplate("assets/worksheet.html.tmpl"); err != nil {
		return nil, err
	}
	if g.quizTmpl, err = parseTemplate("assets/quiz.html.tmpl"); err != nil {
		return nil, err
	}
	return g, nil
}

func asset(name string) (string, error) {
	data, err := assets.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read asset %s: %w", name, err)
	}
	return string(data), nil
}

func parseTemplate(name string) (*template.Template, error) {
	data, err := assets.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	t, err := template.New(name).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return t, nil
}

type templateData struct {
	Title           string
	Instructions    string
	Footer          string
	TeacherName     string
	Logo            string
	LogoAlt         string
	Seal            string
	UseTimer        bool
	ShowPrintButton bool
	NumeralType     string
	TimerDuration   int
	QuestionTime    int
	QuestionsJSON   string
	QuestionsHTML   string
	CSS             string
	GradingJS       string
	RuntimeJS       string
}

// Generate renders the document for the chosen target. An empty question
// list yields a valid, question-free document, never an error.
func (g *Generator) Generate(questions []models.Question, cfg models.WorksheetConfig, target Target) (string, error) {
	if !target.IsValid() {
		return "", fmt.Errorf("unknown generation target %q", target)
	}
	cfg = cfg.Normalize()
	if questions == nil {
		questions = []models.Question{}
	}

	raw, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("marshal questions: %w", err)
	}

	data := templateData{
		Title:           cfg.Title,
		Instructions:    cfg.Instructions,
		Footer:          cfg.Footer,
		TeacherName:     cfg.TeacherName,
		LogoAlt:         cfg.LogoAlt,
		UseTimer:        cfg.UseTimer,
		ShowPrintButton: cfg.ShowPrintButton,
		NumeralType:     string(cfg.NumeralType),
		TimerDuration:   cfg.TimerDuration,
		QuestionTime:    cfg.QuestionTime,
		QuestionsJSON:   scriptClose.ReplaceAllString(string(raw), `<\/script>`),
		GradingJS:       g.gradingJS,
	}
	if data.Title == "" {
		if target == TargetWorksheet {
			data.Title = "ورقة عمل تفاعلية"
		} else {
			data.Title = "الاختبار التفاعلي"
		}
	}
	if data.TeacherName == "" {
		data.TeacherName = "معلم المادة"
	}
	if cfg.Logo != nil {
		data.Logo = *cfg.Logo
	}
	if cfg.Seal != nil {
		data.Seal = *cfg.Seal
	}

	var tmpl *template.Template
	switch target {
	case TargetWorksheet:
		data.CSS = g.worksheetCSS
		data.RuntimeJS = g.worksheetJS
		data.QuestionsHTML = renderWorksheetQuestions(questions, cfg.NumeralType, g.shuffler)
		tmpl = g.worksheetTmpl
	case TargetInteractive:
		data.CSS = g.quizCSS
		data.RuntimeJS = g.quizJS
		tmpl = g.quizTmpl
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s document: %w", target, err)
	}
	return b.String(), nil
}
