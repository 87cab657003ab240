package textutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/textutil"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := textutil.SplitText("hello world", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitTextEmpty(t *testing.T) {
	assert.Nil(t, textutil.SplitText("", 1000, 200))
	assert.Nil(t, textutil.SplitText("   \n\n  ", 1000, 200))
}

func TestSplitTextPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 60)
	para2 := strings.Repeat("b", 60)
	text := para1 + "\n\n" + para2

	chunks := textutil.SplitText(text, 100, 20)
	require.GreaterOrEqual(t, len(chunks), 2)
	// 第一块应在段落边界断开而不是硬切 100 字符
	assert.Equal(t, para1, chunks[0])
}

func TestSplitTextHardCutWithoutBoundary(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := textutil.SplitText(text, 100, 20)

	require.NotEmpty(t, chunks)
	assert.Equal(t, strings.Repeat("x", 100), chunks[0])

	// 重建覆盖: 每块至多 chunkSize, 整体覆盖全部字符
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, 250)
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100)
	first := textutil.SplitText(text, 1000, 200)
	second := textutil.SplitText(text, 1000, 200)
	assert.Equal(t, first, second)
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	c := []float32{0, 1, 0}
	d := []float32{-1, 0, 0}

	assert.InDelta(t, 1.0, textutil.CosineSimilarity(a, b), 1e-9)
	assert.InDelta(t, 0.0, textutil.CosineSimilarity(a, c), 1e-9)
	assert.InDelta(t, -1.0, textutil.CosineSimilarity(a, d), 1e-9)

	// 零向量与长度不匹配均返回 0
	assert.Zero(t, textutil.CosineSimilarity(a, []float32{0, 0, 0}))
	assert.Zero(t, textutil.CosineSimilarity(a, []float32{1, 2}))
}

func TestNormalizeCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, textutil.NormalizeCosineSimilarity(1), 1e-9)
	assert.InDelta(t, 0.5, textutil.NormalizeCosineSimilarity(0), 1e-9)
	assert.InDelta(t, 0.0, textutil.NormalizeCosineSimilarity(-1), 1e-9)
}

func TestLexicalOverlap(t *testing.T) {
	assert.InDelta(t, 1.0, textutil.LexicalOverlap("the cat sat", "The cat sat."), 1e-9)
	assert.InDelta(t, 0.0, textutil.LexicalOverlap("alpha beta", "gamma delta"), 1e-9)
	assert.InDelta(t, 1.0, textutil.LexicalOverlap("", ""), 1e-9)
	assert.InDelta(t, 0.0, textutil.LexicalOverlap("something", ""), 1e-9)

	// 交集 2 / 较大集合 4
	score := textutil.LexicalOverlap("a b c d", "a b x")
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", textutil.TruncateString("abc", 10))
	assert.Equal(t, "ab", textutil.TruncateString("abcdef", 2))
	assert.Equal(t, "世界", textutil.TruncateString("世界你好", 2))
}
