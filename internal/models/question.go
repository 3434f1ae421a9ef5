package models

type QuestionType string

const (
	MultipleChoice  QuestionType = "multiple-choice"
	FillInTheBlank  QuestionType = "fill-in-the-blank"
	TrueFalse       QuestionType = "true-false"
	ShortAnswer     QuestionType = "short-answer"
	Matching        QuestionType = "matching"
	Ordering        QuestionType = "ordering"
	ConnectingLines QuestionType = "connecting-lines"
	Classification  QuestionType = "classification"
)

// AllQuestionTypes lists every supported variant in presentation order.
var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	FillInTheBlank,
	TrueFalse,
	ShortAnswer,
	Matching,
	Ordering,
	ConnectingLines,
	Classification,
}

// IsValid reports whether t is one of the eight supported variants.
func (t QuestionType) IsValid() bool {
	for _, qt := range AllQuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// MediaContent is rich content with an optional inline image.
// Text is an HTML fragment; Image is a data URI when present.
type MediaContent struct {
	Text  string  `json:"text"`
	Image *string `json:"image"`
}

// ReadingContent is a passage shown before the question body.
type ReadingContent struct {
	Text  string  `json:"text"`
	Image *string `json:"image"`
	Audio *string `json:"audio"`
}

// Pair is a prompt/answer association for matching and connecting-lines
// questions. Array position is the ground-truth correspondence.
type Pair struct {
	Prompt MediaContent `json:"prompt"`
	Answer MediaContent `json:"answer"`
}

// ClassificationGroup is a named bucket items are sorted into.
type ClassificationGroup struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Item is a draggable element used by ordering and classification questions.
// GroupID is only meaningful for classification items.
type Item struct {
	Text    string  `json:"text"`
	Image   *string `json:"image"`
	GroupID string  `json:"groupId,omitempty"`
}

// Question is one gradable unit of content, a tagged union on Type.
// Only the fields belonging to the variant named by Type are meaningful;
// Sanitize is the sole constructor that guarantees that shape.
type Question struct {
	Type     QuestionType   `json:"type" validate:"required,question_type"`
	Reading  ReadingContent `json:"reading"`
	Question MediaContent   `json:"question"`
	Feedback string         `json:"feedback"`

	// multiple-choice
	Options []MediaContent `json:"options,omitempty"`
	Correct int            `json:"correct,omitempty"`

	// fill-in-the-blank / short-answer: "|"-separated alternatives.
	// true-false: CorrectBool.
	CorrectAnswer string `json:"-"`
	CorrectBool   bool   `json:"-"`

	// matching / connecting-lines
	Pairs []Pair `json:"pairs,omitempty"`

	// ordering / classification
	Items []Item `json:"items,omitempty"`

	// classification
	Groups []ClassificationGroup `json:"groups,omitempty"`
}

// HasReading reports whether the question carries any reading content.
func (q *Question) HasReading() bool {
	return q.Reading.Text != "" || q.Reading.Image != nil || q.Reading.Audio != nil
}

// AnswerAlternatives splits the "|"-separated correct answer into its
// trimmed alternatives. Only meaningful for fill-in-the-blank and
// short-answer questions.
func (q *Question) AnswerAlternatives() []string {
	return SplitAlternatives(q.CorrectAnswer)
}

// EditorState is the persisted shape of the authoring session: the
// sanitized question list plus the selection cursor.
type EditorState struct {
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
}
