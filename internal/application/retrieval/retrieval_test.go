package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSegmentText(t *testing.T) {
	meta := SegmentMeta{ChapterNum: 12, ChapterTitle: "雾夜", ChunkIndex: 3}
	encoded := encodeSegmentText(meta, "林昭在码头等到了天亮。")

	got, body := decodeSegmentText(encoded)
	assert.Equal(t, meta, got)
	assert.Equal(t, "林昭在码头等到了天亮。", body)
}

func TestDecodeSegmentText_Degrades(t *testing.T) {
	tests := []struct {
		name  string
		input string
		body  string
	}{
		{
			name:  "plain text without meta",
			input: "  普通文本  ",
			body:  "普通文本",
		},
		{
			name:  "prefix without newline",
			input: "@@meta:{\"chapter_num\":1}",
			body:  "@@meta:{\"chapter_num\":1}",
		},
		{
			name:  "broken json",
			input: "@@meta:{not json}\n正文内容",
			body:  "正文内容",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := decodeSegmentText(tt.input)
			assert.Equal(t, SegmentMeta{}, meta)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestSplitByRunes(t *testing.T) {
	text := strings.Repeat("甲", 10)

	t.Run("short text single chunk", func(t *testing.T) {
		assert.Equal(t, []string{text}, splitByRunes(text, 20, 5))
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, splitByRunes("   ", 20, 5))
	})

	t.Run("chunks with overlap", func(t *testing.T) {
		chunks := splitByRunes(strings.Repeat("甲乙丙丁", 5), 8, 2)
		// 20 runes, step 6: 起点 0/6/12
		require.Len(t, chunks, 3)
		assert.Len(t, []rune(chunks[0]), 8)
		// 相邻块共享 2 个 rune 的重叠
		first := []rune(chunks[0])
		second := []rune(chunks[1])
		assert.Equal(t, string(first[6:]), string(second[:2]))
	})

	t.Run("nonpositive max keeps whole", func(t *testing.T) {
		assert.Equal(t, []string{"abc"}, splitByRunes("abc", 0, 0))
	})
}

func TestBuildPromptContext(t *testing.T) {
	segments := []Segment{
		{SegmentType: SegmentTypeSummary, ChapterNum: 3, Text: "林昭发现了密道。"},
		{SegmentType: SegmentTypeChapter, ChapterNum: 5, ChapterTitle: "雾夜", Text: "码头的灯\n\n灭了。"},
		{SegmentType: "profile", Text: "苏挽：冷静，多疑。"},
	}

	got := BuildPromptContext(segments, 10, 400)
	assert.Contains(t, got, "【相关情节回顾（可能为空）】")
	assert.Contains(t, got, "[1] (第3章摘要) 林昭发现了密道。")
	assert.Contains(t, got, "[2] (第5章 雾夜) 码头的灯 灭了。")
	assert.Contains(t, got, "[3] (上下文) 苏挽：冷静，多疑。")
}

func TestBuildPromptContext_Limits(t *testing.T) {
	assert.Empty(t, BuildPromptContext(nil, 10, 400))

	segments := []Segment{
		{SegmentType: SegmentTypeSummary, ChapterNum: 1, Text: "一"},
		{SegmentType: SegmentTypeSummary, ChapterNum: 2, Text: "二"},
		{SegmentType: SegmentTypeSummary, ChapterNum: 3, Text: "三"},
	}
	got := BuildPromptContext(segments, 2, 400)
	assert.Contains(t, got, "第1章摘要")
	assert.Contains(t, got, "第2章摘要")
	assert.NotContains(t, got, "第3章摘要")
}

func TestTruncateRunesAddsEllipsis(t *testing.T) {
	got := truncateRunes(strings.Repeat("长", 10), 4)
	assert.Equal(t, "长长长长…", got)
	assert.Equal(t, "短", truncateRunes("短", 4))
}

func TestCompactOneLine(t *testing.T) {
	assert.Equal(t, "a b c", compactOneLine("a\r\nb\n\n  c "))
}
