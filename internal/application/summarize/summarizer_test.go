package summarize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractiveSummary(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		maxRunes int
		want     string
	}{
		{
			name:     "first and last sentence joined",
			content:  "林昭推开门。屋里一片漆黑。他点燃了蜡烛！",
			maxRunes: 200,
			want:     "林昭推开门。……他点燃了蜡烛！",
		},
		{
			name:     "single sentence",
			content:  "城市在黎明中苏醒。",
			maxRunes: 200,
			want:     "城市在黎明中苏醒。",
		},
		{
			name:     "no sentence terminator",
			content:  "  一段没有句读的内容  ",
			maxRunes: 200,
			want:     "一段没有句读的内容",
		},
		{
			name:     "empty content",
			content:  "",
			maxRunes: 200,
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractiveSummary(tt.content, tt.maxRunes))
		})
	}
}

func TestExtractiveSummary_RespectsRuneLimit(t *testing.T) {
	long := strings.Repeat("这是一个很长的句子，", 50) + "。结尾。"
	got := ExtractiveSummary(long, 200)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 200)
}

func TestExtractiveSummary_SkipsLastWhenOverBudget(t *testing.T) {
	first := strings.Repeat("前", 180) + "。"
	last := strings.Repeat("后", 30) + "。"
	got := ExtractiveSummary(first+last, 200)
	// 首句加末句超预算时只保留首句
	assert.NotContains(t, got, "……")
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 200)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("第一句。第二句！第三句？And a fourth. 残句")
	assert.Equal(t, []string{"第一句。", "第二句！", "第三句？", "And a fourth.", "残句"}, got)
}
