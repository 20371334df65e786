package node

import "strings"

// 不同供应商对不支持结构化输出的报错措辞不一，只能按关键词识别
var formatUnsupportedMarkers = []string{
	"response_format",
	"response_schema",
	"json_schema",
	"failed to parse",
}

// IsResponseFormatUnsupportedError 判断错误是否由模型不支持结构化输出导致，
// 命中后调用方应降级为纯文本提示词加 JSON 抽取。
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range formatUnsupportedMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	if strings.Contains(msg, "response") &&
		(strings.Contains(msg, "unknown parameter") || strings.Contains(msg, "invalid")) {
		return true
	}
	return false
}
