package services

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/quiz-studio/authoring-service/internal/events"
	"github.com/quiz-studio/authoring-service/internal/models"
	"github.com/quiz-studio/authoring-service/internal/store"
	"github.com/quiz-studio/authoring-service/internal/utils"
)

type importFixture struct {
	service   ImportService
	store     *store.QuestionStore
	publisher *events.MockEventPublisher
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	logger := utils.NewDefaultLogger()
	questionStore := store.NewQuestionStore(&memoryEditorStateRepo{}, logger)
	questionStore.SetDebounce(0)
	publisher := events.NewMockEventPublisher(slog.Default())
	return &importFixture{
		service:   NewImportService(questionStore, publisher, logger),
		store:     questionStore,
		publisher: publisher,
	}
}

func TestImportService_JSONFile(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{{
		Name: "questions.json",
		Data: []byte(`[
			{"type": "true-false", "question": {"text": "q1"}, "correctAnswer": true},
			{"type": "fill-in-the-blank", "question": {"text": "q2"}, "correctAnswer": "x"}
		]`),
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalFiles)
	assert.Equal(t, 2, result.ImportedCount)
	assert.Empty(t, result.SkippedFiles)
	// The store had its placeholder plus the two imported questions.
	assert.Equal(t, 3, f.store.Len())
	assert.Equal(t, 2, f.store.Selected())

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionsImported, published[0].Type)
}

func TestImportService_BadFileSkippedOthersImport(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "broken.json", Data: []byte(`{"not": "an array"}`)},
		{Name: "good.json", Data: []byte(`[{"type": "true-false", "question": {"text": "q"}, "correctAnswer": false}]`)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, []string{"broken.json"}, result.SkippedFiles)
	assert.Equal(t, 2, f.store.Len())
}

func TestImportService_AllFilesEmptyIsError(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "broken.json", Data: []byte(`nonsense`)},
		{Name: "empty.json", Data: []byte(`[]`)},
	})
	assert.ErrorIs(t, err, ErrEmptyImport)
	require.NotNil(t, result)
	assert.Len(t, result.SkippedFiles, 2)
	// Nothing reached the store.
	assert.Equal(t, 1, f.store.Len())
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestImportService_UnsupportedExtension(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "questions.docx", Data: []byte("irrelevant")},
	})
	assert.ErrorIs(t, err, ErrEmptyImport)
	assert.Equal(t, []string{"questions.docx"}, result.SkippedFiles)
}

func TestImportService_CSV(t *testing.T) {
	f := newImportFixture(t)
	csvData := "question_type,question_text,option_a,option_b,option_c,correct_answer,feedback\n" +
		"multiple-choice,ما عاصمة فرنسا؟,باريس,لندن,روما,A,أحسنت\n" +
		"true-false,الأرض مسطحة,,,,false,\n" +
		"fill-in-the-blank,أكمل الجملة,,,,الإجابة,\n"

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "questions.csv", Data: []byte(csvData)},
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.ImportedCount)

	mc := result.Questions[0]
	assert.Equal(t, models.MultipleChoice, mc.Type)
	require.Len(t, mc.Options, 3)
	assert.Equal(t, 0, mc.Correct)
	assert.Equal(t, "باريس", mc.Options[0].Text)
	assert.Equal(t, "أحسنت", mc.Feedback)

	tf := result.Questions[1]
	assert.Equal(t, models.TrueFalse, tf.Type)
	assert.False(t, tf.CorrectBool)

	fib := result.Questions[2]
	assert.Equal(t, models.FillInTheBlank, fib.Type)
	assert.Equal(t, "الإجابة", fib.CorrectAnswer)
}

func TestImportService_CSVRowErrorsDoNotAbortFile(t *testing.T) {
	f := newImportFixture(t)
	csvData := "question_type,question_text,correct_answer\n" +
		"true-false,سؤال جيد,true\n" +
		"true-false,سؤال سيئ,maybe\n" +
		"essay,نوع مجهول,x\n" +
		"matching,غير مدعوم جدولياً,x\n"

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "mixed.csv", Data: []byte(csvData)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, result.RowErrors, 3)
	assert.Equal(t, 3, result.RowErrors[0].Row)
	assert.Equal(t, "correct_answer", result.RowErrors[0].Column)
	assert.Equal(t, "question_type", result.RowErrors[1].Column)
	assert.Contains(t, result.RowErrors[2].Message, "use JSON")
}

func TestImportService_CSVMissingRequiredColumns(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "headers.csv", Data: []byte("kind,text\ntrue-false,q\n")},
	})
	assert.ErrorIs(t, err, ErrEmptyImport)
	assert.Equal(t, []string{"headers.csv"}, result.SkippedFiles)
}

func TestImportService_XLSX(t *testing.T) {
	f := newImportFixture(t)

	wb := excelize.NewFile()
	sheet := wb.GetSheetList()[0]
	rows := [][]interface{}{
		{"question_type", "question_text", "correct_answer"},
		{"true-false", "الماء سائل", "true"},
		{"short-answer", "اشرح التبخر", "حرارة"},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetCellValue(sheet, cell, value))
		}
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "questions.xlsx", Data: buf.Bytes()},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.ImportedCount)
	assert.Equal(t, models.TrueFalse, result.Questions[0].Type)
	assert.Equal(t, models.ShortAnswer, result.Questions[1].Type)
	assert.Equal(t, "حرارة", result.Questions[1].CorrectAnswer)
}

func TestImportService_MultipleFilesAppendAtomically(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "a.json", Data: []byte(`[{"type": "true-false", "question": {"text": "a"}, "correctAnswer": true}]`)},
		{Name: "b.csv", Data: []byte("question_type,question_text,correct_answer\nshort-answer,سؤال,جواب\n")},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ImportedCount)
	assert.Equal(t, 3, f.store.Len())

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	payload, ok := published[0].Data.(events.QuestionsImportedEvent)
	require.True(t, ok)
	assert.Equal(t, 2, payload.FileCount)
	assert.Equal(t, "mixed", payload.Format)
}

func TestImportService_XLSXGarbageSkipped(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportFiles(context.Background(), []ImportFile{
		{Name: "corrupt.xlsx", Data: bytes.Repeat([]byte{0x01}, 64)},
	})
	assert.ErrorIs(t, err, ErrEmptyImport)
}
