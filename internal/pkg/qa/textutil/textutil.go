// Package textutil 提供问答流水线相关的文本处理工具函数。
package textutil

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// separators 按优先级排列的切分边界: 段落、行、句末、空格。
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText 将文本切分为带重叠的块, 长度以 Unicode 字符计。
// 优先在段落/行/句末/空格边界断开, 窗口内没有任何边界时硬切。
// 相同输入的切分结果是确定性的。
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		window := string(runes[start:end])
		cutEnd := chunkSize
		for _, sep := range separators {
			idx := strings.LastIndex(window, sep)
			if idx < 0 {
				continue
			}
			candidate := utf8.RuneCountInString(window[:idx]) + utf8.RuneCountInString(sep)
			// 边界必须落在重叠区之后, 否则下一个窗口无法前进。
			if candidate > overlap {
				cutEnd = candidate
				break
			}
		}

		if chunk := strings.TrimSpace(string(runes[start : start+cutEnd])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := start + cutEnd - overlap
		if next <= start {
			next = start + cutEnd
		}
		start = next
	}

	return chunks
}

// CosineSimilarity 计算两个向量的余弦相似度。
// 返回值范围为 [-1, 1]; 任一向量范数为零时返回 0。
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// NormalizeCosineSimilarity 将余弦相似度从 [-1, 1] 归一化到 [0, 1]。
func NormalizeCosineSimilarity(similarity float64) float64 {
	return (similarity + 1) / 2
}

// TokenSet 返回文本的小写去标点词集合。
func TokenSet(s string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	set := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		set[word] = struct{}{}
	}
	return set
}

// LexicalOverlap 计算两段文本词集合的重叠率:
// 交集大小除以较大集合的大小。两者皆空为 1.0, 恰一者空为 0.0。
func LexicalOverlap(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}

	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(intersection) / float64(larger)
}

// TruncateString 截断字符串到指定的最大 Unicode 字符数。
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
