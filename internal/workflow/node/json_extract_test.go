package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean object",
			input: `{"title":"雾夜"}`,
			want:  `{"title":"雾夜"}`,
		},
		{
			name:  "object wrapped in prose",
			input: "好的，以下是大纲：\n{\"title\":\"雾夜\"}\n希望对你有帮助。",
			want:  `{"title":"雾夜"}`,
		},
		{
			name:  "markdown code fence",
			input: "```json\n{\"title\":\"雾夜\"}\n```",
			want:  `{"title":"雾夜"}`,
		},
		{
			name:  "array value",
			input: "结果：[1,2,3]",
			want:  `[1,2,3]`,
		},
		{
			name:  "object before array",
			input: `{"a":[1,2]} trailing`,
			want:  `{"a":[1,2]}`,
		},
		{
			name:  "empty input",
			input: "   ",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}

func TestTruncateByRunes(t *testing.T) {
	assert.Equal(t, "", TruncateByRunes("abc", 0))
	assert.Equal(t, "abc", TruncateByRunes("abc", 10))
	assert.Equal(t, "一二", TruncateByRunes("一二三", 2))
}
