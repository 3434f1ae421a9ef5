package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Sanitize normalizes arbitrary question-like input into a well-formed
// Question. It never fails: unparseable input, a missing or unknown type,
// and any malformed field all resolve to a safe default shape. Applying
// Sanitize to its own output is a structural no-op.
func Sanitize(raw json.RawMessage) Question {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return defaultQuestion()
	}
	return sanitizeMap(m)
}

func defaultQuestion() Question {
	return Question{
		Type:     MultipleChoice,
		Question: MediaContent{},
		Options:  []MediaContent{{}, {}},
	}
}

func sanitizeMap(m map[string]json.RawMessage) Question {
	q := Question{
		Type:     MultipleChoice,
		Reading:  readingContent(m["reading"]),
		Question: mediaContent(m["question"]),
		Feedback: stringField(m["feedback"]),
	}

	var rawType string
	_ = json.Unmarshal(m["type"], &rawType)
	if t := QuestionType(rawType); t.IsValid() {
		q.Type = t
	} else {
		// Unrecognized variants fall back to a two-option multiple choice.
		q.Options = []MediaContent{{}, {}}
		return q
	}

	switch q.Type {
	case MultipleChoice:
		q.Options = mediaContentList(m["options"])
		if q.Options == nil {
			q.Options = []MediaContent{}
		}
		var correct int
		_ = json.Unmarshal(m["correct"], &correct)
		if correct < 0 || correct >= len(q.Options) {
			correct = 0
		}
		q.Correct = correct

	case FillInTheBlank, ShortAnswer:
		q.CorrectAnswer = stringField(m["correctAnswer"])

	case TrueFalse:
		// Anything but an explicit false is treated as true.
		answer := true
		var b bool
		if err := json.Unmarshal(m["correctAnswer"], &b); err == nil {
			answer = b
		}
		q.CorrectBool = answer

	case Matching, ConnectingLines:
		q.Pairs = pairList(m["pairs"])
		if len(q.Pairs) == 0 {
			// Legacy shape: parallel prompts/answers arrays.
			prompts := mediaContentList(m["prompts"])
			answers := mediaContentList(m["answers"])
			for i, p := range prompts {
				pair := Pair{Prompt: p}
				if i < len(answers) {
					pair.Answer = answers[i]
				}
				q.Pairs = append(q.Pairs, pair)
			}
		}
		if q.Pairs == nil {
			q.Pairs = []Pair{}
		}

	case Ordering:
		q.Items = itemList(m["items"], false)

	case Classification:
		q.Groups = groupList(m["groups"])
		q.Items = itemList(m["items"], true)
	}

	return q
}

func stringField(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func mediaContent(raw json.RawMessage) MediaContent {
	var mc MediaContent
	_ = json.Unmarshal(raw, &mc)
	return mc
}

func readingContent(raw json.RawMessage) ReadingContent {
	var rc ReadingContent
	_ = json.Unmarshal(raw, &rc)
	return rc
}

func mediaContentList(raw json.RawMessage) []MediaContent {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]MediaContent, len(items))
	for i, it := range items {
		out[i] = mediaContent(it)
	}
	return out
}

func pairList(raw json.RawMessage) []Pair {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Pair, 0, len(items))
	for _, it := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(it, &m); err != nil {
			out = append(out, Pair{})
			continue
		}
		out = append(out, Pair{
			Prompt: mediaContent(m["prompt"]),
			Answer: mediaContent(m["answer"]),
		})
	}
	return out
}

// itemList tolerates bare strings as items, coercing them to {text, image:null}.
// When classification is set, every item keeps its groupId (defaulting to "").
func itemList(raw json.RawMessage, classification bool) []Item {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Item{}
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			out = append(out, Item{Text: s})
			continue
		}
		var item Item
		_ = json.Unmarshal(it, &item)
		if !classification {
			item.GroupID = ""
		}
		out = append(out, item)
	}
	return out
}

func groupList(raw json.RawMessage) []ClassificationGroup {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []ClassificationGroup{}
	}
	out := make([]ClassificationGroup, 0, len(items))
	for _, it := range items {
		var g ClassificationGroup
		_ = json.Unmarshal(it, &g)
		if g.ID == "" {
			g.ID = "group-" + uuid.NewString()
		}
		out = append(out, g)
	}
	return out
}

// SplitAlternatives splits a "|"-separated answer into trimmed alternatives.
func SplitAlternatives(answer string) []string {
	parts := strings.Split(answer, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// UnmarshalJSON routes every decoded question through Sanitize, so state
// loaded from storage or import files is always well-formed.
func (q *Question) UnmarshalJSON(data []byte) error {
	*q = Sanitize(data)
	return nil
}

// MarshalJSON emits only the fields belonging to the question's variant.
// correctAnswer is a bool on the wire for true-false and a string for
// fill-in-the-blank and short-answer, matching the import/export format.
func (q Question) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"type":     q.Type,
		"reading":  q.Reading,
		"question": q.Question,
		"feedback": q.Feedback,
	}
	switch q.Type {
	case MultipleChoice:
		options := q.Options
		if options == nil {
			options = []MediaContent{}
		}
		out["options"] = options
		out["correct"] = q.Correct
	case FillInTheBlank, ShortAnswer:
		out["correctAnswer"] = q.CorrectAnswer
	case TrueFalse:
		out["correctAnswer"] = q.CorrectBool
	case Matching, ConnectingLines:
		pairs := q.Pairs
		if pairs == nil {
			pairs = []Pair{}
		}
		out["pairs"] = pairs
	case Ordering:
		items := q.Items
		if items == nil {
			items = []Item{}
		}
		out["items"] = items
	case Classification:
		groups := q.Groups
		if groups == nil {
			groups = []ClassificationGroup{}
		}
		items := q.Items
		if items == nil {
			items = []Item{}
		}
		out["groups"] = groups
		out["items"] = items
	}
	return json.Marshal(out)
}
