// Package biz implements the business logic of the QA service.
package biz

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedQuestion 问卷解析出的一条问题记录。
type ParsedQuestion struct {
	SectionID    string
	SectionTitle string
	QuestionText string
	OrderIndex   int
}

var (
	// 允许可选的 Q/Question 前缀, 后接点分编号与 . 或 ) 分隔符。
	blockNumberRe = regexp.MustCompile(`(?is)^(?:q(?:uestion)?\s*)?(\d+(?:\.\d+)*)[.)]\s*(.+)$`)
	lineNumberRe  = regexp.MustCompile(`(?i)^(?:q(?:uestion)?\s*)?(\d+(?:\.\d+)*)[.)]\s*(.+)$`)

	horizontalWhitespaceRe = regexp.MustCompile(`[ \t]+`)
	excessNewlinesRe       = regexp.MustCompile(`\n{3,}`)
	blockBoundaryRe        = regexp.MustCompile(`\n\s*\n`)
)

// ParseQuestionnaire 将原始问卷文本解析为有序的问题列表。
// 纯函数, 无副作用, 对相同输入结果确定。
//
// 启发式规则按优先级匹配每个空行分隔的文本块:
//  1. 单行化后不足 80 字符且不含 "?" 的块视为章节标题, 章节 ID 取
//     当前已解析问题数。
//  2. 以编号前缀开头的块 ("1.", "2.3)", "Question 4.") 取编号首段作为
//     章节 ID, 其余部分为一条问题 (超过 2 字符才接受)。
//  3. 含 "?" 的块整体视为当前章节下的一条问题。
//  4. 兜底按行扫描, 对每行重新应用编号规则 (不足 5 字符的行跳过)。
func ParseQuestionnaire(text string) []ParsedQuestion {
	out := []ParsedQuestion{}
	sectionID, sectionTitle := "0", "General"
	order := 0

	// 归一化: 压缩横向空白, 3 个以上连续换行折叠为 2 个
	text = horizontalWhitespaceRe.ReplaceAllString(text, " ")
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")

	for _, block := range blockBoundaryRe.Split(text, -1) {
		block = strings.TrimSpace(block)
		if len(block) < 5 {
			continue
		}
		singleLine := strings.Join(strings.Fields(strings.ReplaceAll(block, "\n", " ")), " ")

		// 规则 1: 短块且无问号 → 章节标题
		if len(singleLine) < 80 && !strings.Contains(singleLine, "?") {
			sectionTitle = truncate(singleLine, 200)
			sectionID = strconv.Itoa(len(out))
			continue
		}

		// 规则 2: 编号前缀
		if m := blockNumberRe.FindStringSubmatch(singleLine); m != nil {
			sectionID = numeralSection(m[1])
			rest := strings.TrimSpace(m[2])
			if len(rest) > 2 {
				out = append(out, ParsedQuestion{
					SectionID:    sectionID,
					SectionTitle: sectionTitle,
					QuestionText: rest,
					OrderIndex:   order,
				})
				order++
			}
			continue
		}

		// 规则 3: 含问号的块整体视为问题
		if strings.Contains(singleLine, "?") {
			out = append(out, ParsedQuestion{
				SectionID:    sectionID,
				SectionTitle: sectionTitle,
				QuestionText: singleLine,
				OrderIndex:   order,
			})
			order++
			continue
		}

		// 规则 4: 按行兜底扫描
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if len(line) < 5 {
				continue
			}
			m := lineNumberRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			sectionID = numeralSection(m[1])
			rest := strings.TrimSpace(m[2])
			if len(rest) > 2 {
				out = append(out, ParsedQuestion{
					SectionID:    sectionID,
					SectionTitle: sectionTitle,
					QuestionText: rest,
					OrderIndex:   order,
				})
				order++
			}
		}
	}

	return out
}

// numeralSection 取点分编号的首段作为章节 ID ("2.3" → "2")。
func numeralSection(num string) string {
	if idx := strings.Index(num, "."); idx >= 0 {
		return num[:idx]
	}
	return num
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
