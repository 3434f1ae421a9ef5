package models

type NumeralType string

const (
	NumeralEastern NumeralType = "eastern"
	NumeralWestern NumeralType = "western"
)

// WorksheetConfig holds the export parameters shared by the worksheet and
// interactive-quiz documents. It is persisted independently of questions.
type WorksheetConfig struct {
	Title        string      `json:"title"`
	Instructions string      `json:"instructions"`
	Footer       string      `json:"footer"`
	Logo         *string     `json:"logo"`
	LogoAlt      string      `json:"logoAlt"`
	NumeralType  NumeralType `json:"numeralType" validate:"omitempty,numeral_type"`
	TeacherName  string      `json:"teacherName"`
	Seal         *string     `json:"seal"`

	UseTimer bool `json:"useTimer"`
	// TimerDuration is the whole-document countdown in minutes (worksheet).
	TimerDuration int `json:"timerDuration" validate:"min=0,max=600"`
	// QuestionTime is the per-question countdown in seconds (interactive quiz).
	QuestionTime int `json:"questionTime" validate:"min=0,max=3600"`

	ShowPrintButton bool `json:"showPrintButton"`
}

const (
	DefaultTimerDuration = 20 // minutes
	DefaultQuestionTime  = 45 // seconds
)

// Normalize fills presentation defaults expected by the generators.
func (c WorksheetConfig) Normalize() WorksheetConfig {
	if c.NumeralType != NumeralWestern {
		c.NumeralType = NumeralEastern
	}
	if c.TimerDuration <= 0 {
		c.TimerDuration = DefaultTimerDuration
	}
	if c.QuestionTime <= 0 {
		c.QuestionTime = DefaultQuestionTime
	}
	return c
}

// ExportOptions parameterizes the workbook built by the document builder.
type ExportOptions struct {
	HeaderText             string `json:"headerText"`
	IncludeQuestionNumbers bool   `json:"includeQuestionNumbers"`
	IncludeAnswers         bool   `json:"includeAnswers"`
	RandomizeOrderItems    bool   `json:"randomizeOrderItems"`
	ForceRTL               bool   `json:"forceRtl"`
	QuestionPerPage        bool   `json:"questionPerPage"`
}
