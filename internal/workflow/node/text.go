package node

import "unicode/utf8"

// TruncateByRunes 按字符数截断，不会切断多字节字符。
// 用于控制提示词中各段上下文的长度。
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
