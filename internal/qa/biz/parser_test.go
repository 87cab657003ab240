package biz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
)

func TestParseQuestionnaireNumberedQuestions(t *testing.T) {
	text := "1. What is the company's legal name?\n\n2. Where is the company incorporated?"

	questions := biz.ParseQuestionnaire(text)
	require.Len(t, questions, 2)

	assert.Equal(t, "1", questions[0].SectionID)
	assert.Equal(t, "What is the company's legal name?", questions[0].QuestionText)
	assert.Equal(t, 0, questions[0].OrderIndex)

	assert.Equal(t, "2", questions[1].SectionID)
	assert.Equal(t, "Where is the company incorporated?", questions[1].QuestionText)
	assert.Equal(t, 1, questions[1].OrderIndex)
}

func TestParseQuestionnaireSectionHeader(t *testing.T) {
	text := "Section A\n\nIs the entity regulated?"

	questions := biz.ParseQuestionnaire(text)
	require.Len(t, questions, 1)

	assert.Equal(t, "Section A", questions[0].SectionTitle)
	assert.Equal(t, "0", questions[0].SectionID)
	assert.Equal(t, "Is the entity regulated?", questions[0].QuestionText)
}

func TestParseQuestionnaireDottedNumbering(t *testing.T) {
	text := "2.3) Does the company maintain insurance coverage for its operations?"

	questions := biz.ParseQuestionnaire(text)
	require.Len(t, questions, 1)
	// 点分编号取首段作为章节 ID
	assert.Equal(t, "2", questions[0].SectionID)
}

func TestParseQuestionnaireQuestionPrefix(t *testing.T) {
	text := "Question 4. Has the company been subject to regulatory sanctions?"

	questions := biz.ParseQuestionnaire(text)
	require.Len(t, questions, 1)
	assert.Equal(t, "4", questions[0].SectionID)
	assert.Equal(t, "Has the company been subject to regulatory sanctions?", questions[0].QuestionText)
}

func TestParseQuestionnaireLineFallback(t *testing.T) {
	// 长块无问号无整体编号, 兜底按行解析编号行
	text := "The following items must be completed by the responding party before submission and review by counsel\n" +
		"1. Provide the full registered address of the company headquarters\n" +
		"2. Provide the names of all current board members and officers"

	questions := biz.ParseQuestionnaire(text)
	require.Len(t, questions, 2)
	assert.Equal(t, "1", questions[0].SectionID)
	assert.Equal(t, "2", questions[1].SectionID)
}

func TestParseQuestionnaireSkipsShortBlocks(t *testing.T) {
	text := "ab\n\n1. What jurisdictions does the company operate in?"

	questions := biz.ParseQuestionnaire(text)
	require.Len(t, questions, 1)
	assert.Equal(t, "What jurisdictions does the company operate in?", questions[0].QuestionText)
}

func TestParseQuestionnaireEmpty(t *testing.T) {
	assert.Empty(t, biz.ParseQuestionnaire(""))
	assert.Empty(t, biz.ParseQuestionnaire("   \n\n   "))
}

func TestParseQuestionnaireDeterministic(t *testing.T) {
	text := "Governance\n\n1. Who audits the financial statements?\n\n2. Are audit reports available?"
	first := biz.ParseQuestionnaire(text)
	second := biz.ParseQuestionnaire(text)
	assert.Equal(t, first, second)
}
