package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quiz-studio/authoring-service/internal/grading"
	"github.com/quiz-studio/authoring-service/internal/models"
)

// DocumentBuilder turns a sanitized question list into an XLSX workbook
// for offline review and printing. It consumes questions only; it never
// reaches back into the store.
type DocumentBuilder struct {
	shuffler *grading.Shuffler
}

func NewDocumentBuilder(shuffler *grading.Shuffler) *DocumentBuilder {
	if shuffler == nil {
		shuffler = grading.NewShuffler(nil)
	}
	return &DocumentBuilder{shuffler: shuffler}
}

var questionTypeLabels = map[models.QuestionType]string{
	models.MultipleChoice:  "اختيار من متعدد",
	models.FillInTheBlank:  "أكمل الفراغ",
	models.TrueFalse:       "صح أو خطأ",
	models.ShortAnswer:     "إجابة قصيرة",
	models.Matching:        "مطابقة",
	models.Ordering:        "ترتيب",
	models.ConnectingLines: "توصيل بالخطوط",
	models.Classification:  "تصنيف",
}

// BuildWorkbook renders the workbook and returns its bytes plus the number
// of sheets written.
func (b *DocumentBuilder) BuildWorkbook(questions []models.Question, opts models.ExportOptions) ([]byte, int, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create wrap style: %w", err)
	}

	sheets := 0
	if opts.QuestionPerPage {
		for i, q := range questions {
			name := fmt.Sprintf("سؤال %d", i+1)
			if err := b.ensureSheet(f, name, sheets == 0); err != nil {
				return nil, 0, err
			}
			if err := b.writeSheet(f, name, []models.Question{q}, i, opts, headerStyle, wrapStyle); err != nil {
				return nil, 0, err
			}
			sheets++
		}
		if sheets == 0 {
			if err := b.ensureSheet(f, "الأسئلة", true); err != nil {
				return nil, 0, err
			}
			sheets = 1
		}
	} else {
		const name = "الأسئلة"
		if err := b.ensureSheet(f, name, true); err != nil {
			return nil, 0, err
		}
		if err := b.writeSheet(f, name, questions, 0, opts, headerStyle, wrapStyle); err != nil {
			return nil, 0, err
		}
		sheets = 1
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), sheets, nil
}

// ensureSheet creates name, renaming the default first sheet instead of
// leaving an empty "Sheet1" behind.
func (b *DocumentBuilder) ensureSheet(f *excelize.File, name string, first bool) error {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return nil
}

func (b *DocumentBuilder) writeSheet(f *excelize.File, sheet string, questions []models.Question, numberOffset int, opts models.ExportOptions, headerStyle, wrapStyle int) error {
	if opts.ForceRTL {
		rtl := true
		if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("failed to set RTL view: %w", err)
		}
	}

	columns := b.columns(opts)
	lastCol := string(rune('A' + len(columns) - 1))
	row := 1

	if opts.HeaderText != "" {
		cell := fmt.Sprintf("A%d", row)
		if err := f.MergeCell(sheet, cell, fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return fmt.Errorf("failed to merge header cells: %w", err)
		}
		f.SetCellValue(sheet, cell, opts.HeaderText)
		f.SetCellStyle(sheet, cell, fmt.Sprintf("%s%d", lastCol, row), headerStyle)
		row++
	}

	for i, col := range columns {
		cell := fmt.Sprintf("%c%d", 'A'+i, row)
		f.SetCellValue(sheet, cell, col)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), headerStyle)
	row++

	for i, q := range questions {
		values := b.questionRow(q, numberOffset+i+1, opts)
		for col, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheet, cell, value)
			f.SetCellStyle(sheet, cell, cell, wrapStyle)
		}
		row++
	}

	f.SetColWidth(sheet, "A", "B", 16)
	f.SetColWidth(sheet, "C", lastCol, 45)
	return nil
}

func (b *DocumentBuilder) columns(opts models.ExportOptions) []string {
	var columns []string
	if opts.IncludeQuestionNumbers {
		columns = append(columns, "م")
	}
	columns = append(columns, "نوع السؤال", "نص السؤال", "التفاصيل")
	if opts.IncludeAnswers {
		columns = append(columns, "الإجابة الصحيحة")
	}
	return columns
}

func (b *DocumentBuilder) questionRow(q models.Question, number int, opts models.ExportOptions) []interface{} {
	var values []interface{}
	if opts.IncludeQuestionNumbers {
		values = append(values, number)
	}
	values = append(values,
		questionTypeLabels[q.Type],
		plainText(q.Question.Text),
		b.details(q, opts),
	)
	if opts.IncludeAnswers {
		values = append(values, b.answer(q))
	}
	return values
}

func (b *DocumentBuilder) details(q models.Question, opts models.ExportOptions) string {
	switch q.Type {
	case models.MultipleChoice:
		lines := make([]string, len(q.Options))
		for i, opt := range q.Options {
			lines[i] = fmt.Sprintf("%d. %s", i+1, plainText(opt.Text))
		}
		return strings.Join(lines, "\n")
	case models.TrueFalse:
		return "صح / خطأ"
	case models.Matching, models.ConnectingLines:
		lines := make([]string, len(q.Pairs))
		for i, p := range q.Pairs {
			lines[i] = plainText(p.Prompt.Text)
		}
		return strings.Join(lines, "\n")
	case models.Ordering:
		order := grading.IdentityPermutation(len(q.Items))
		if opts.RandomizeOrderItems {
			order = b.shuffler.Permutation(len(q.Items))
		}
		lines := make([]string, len(q.Items))
		for i, idx := range order {
			lines[i] = plainText(q.Items[idx].Text)
		}
		return strings.Join(lines, "\n")
	case models.Classification:
		lines := make([]string, 0, len(q.Groups)+len(q.Items))
		for _, g := range q.Groups {
			lines = append(lines, fmt.Sprintf("مجموعة: %s", plainText(g.Text)))
		}
		for _, item := range q.Items {
			lines = append(lines, plainText(item.Text))
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

func (b *DocumentBuilder) answer(q models.Question) string {
	switch q.Type {
	case models.MultipleChoice:
		if q.Correct >= 0 && q.Correct < len(q.Options) {
			return plainText(q.Options[q.Correct].Text)
		}
		return ""
	case models.TrueFalse:
		if q.CorrectBool {
			return "صح"
		}
		return "خطأ"
	case models.FillInTheBlank, models.ShortAnswer:
		return strings.Join(q.AnswerAlternatives(), " | ")
	case models.Matching, models.ConnectingLines:
		lines := make([]string, len(q.Pairs))
		for i, p := range q.Pairs {
			lines[i] = fmt.Sprintf("%s ← %s", plainText(p.Prompt.Text), plainText(p.Answer.Text))
		}
		return strings.Join(lines, "\n")
	case models.Ordering:
		lines := make([]string, len(q.Items))
		for i, item := range q.Items {
			lines[i] = fmt.Sprintf("%d. %s", i+1, plainText(item.Text))
		}
		return strings.Join(lines, "\n")
	case models.Classification:
		groups := make(map[string][]string)
		for _, item := range q.Items {
			groups[item.GroupID] = append(groups[item.GroupID], plainText(item.Text))
		}
		lines := make([]string, 0, len(q.Groups))
		for _, g := range q.Groups {
			lines = append(lines, fmt.Sprintf("%s: %s", plainText(g.Text), strings.Join(groups[g.ID], "، ")))
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}
