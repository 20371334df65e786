package consistency

import (
	"strings"
	"unicode"

	"longnovel-ai/internal/domain/entity"
)

// characterAppears 判断角色（按姓名或别名）是否在正文中出场。
func characterAppears(content string, ch *entity.Character) bool {
	if name := strings.TrimSpace(ch.Name); name != "" && strings.Contains(content, name) {
		return true
	}
	for _, alias := range ch.Aliases {
		if a := strings.TrimSpace(alias); a != "" && strings.Contains(content, a) {
			return true
		}
	}
	return false
}

// characterKeywords 提取角色设定中的关键词（特质 + 动机分词）。
func characterKeywords(ch *entity.Character) []string {
	keywords := make([]string, 0, len(ch.Traits)+4)
	for _, t := range ch.Traits {
		if t = strings.TrimSpace(t); t != "" {
			keywords = append(keywords, t)
		}
	}
	keywords = append(keywords, tokenize(ch.Motivation)...)
	return keywords
}

// keywordMatchRatio 计算关键词在正文中的命中比例。
// 无关键词时视为全部命中（无从校验则不扣分）。
func keywordMatchRatio(content string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1.0
	}
	hit := 0
	for _, k := range keywords {
		if strings.Contains(content, k) {
			hit++
		}
	}
	return float64(hit) / float64(len(keywords))
}

// overlapRatio 计算参照文本的词元在正文中的命中比例。
func overlapRatio(content, reference string) float64 {
	tokens := tokenize(reference)
	if len(tokens) == 0 {
		return 1.0
	}
	hit := 0
	for _, t := range tokens {
		if strings.Contains(content, t) {
			hit++
		}
	}
	return float64(hit) / float64(len(tokens))
}

// tokenize 对混合中英文的文本做轻量分词：
// 连续 CJK 文本切为二字词，拉丁词按空白切分，丢弃单字符词元。
func tokenize(s string) []string {
	var tokens []string
	var latin []rune
	var cjk []rune

	flushLatin := func() {
		if len(latin) >= 2 {
			tokens = append(tokens, strings.ToLower(string(latin)))
		}
		latin = latin[:0]
	}
	flushCJK := func() {
		for i := 0; i+1 < len(cjk); i += 2 {
			tokens = append(tokens, string(cjk[i:i+2]))
		}
		cjk = cjk[:0]
	}

	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			flushLatin()
			cjk = append(cjk, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushCJK()
			latin = append(latin, r)
		default:
			flushLatin()
			flushCJK()
		}
	}
	flushLatin()
	flushCJK()
	return dedup(tokens)
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// 禁止类约束的先导词。命中后提取约束主体做违例扫描。
var prohibitionMarkers = []string{"无法", "不能", "不可", "禁止", "绝不"}

// violatesConstraint 判断正文是否疑似违反一条禁止类约束。
// 约束形如“灵力无法复活死者”：当正文同时包含约束主语与被禁行为时判违例。
func violatesConstraint(content, constraint string) bool {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return false
	}

	for _, marker := range prohibitionMarkers {
		idx := strings.Index(constraint, marker)
		if idx < 0 {
			continue
		}
		subject := strings.TrimSpace(constraint[:idx])
		forbidden := strings.TrimSpace(constraint[idx+len(marker):])
		if subject == "" || forbidden == "" {
			continue
		}
		if strings.Contains(content, subject) && strings.Contains(content, forbidden) {
			return true
		}
	}
	return false
}
