package consistency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
)

func TestNewChecker_Defaults(t *testing.T) {
	c := NewChecker(nil)
	assert.Equal(t, 60.0, c.passThreshold)
	assert.Equal(t, 0.3, c.characterWeight)
	assert.Equal(t, 0.4, c.plotWeight)
	assert.Equal(t, 0.2, c.worldWeight)
	assert.Equal(t, 0.1, c.logicWeight)
}

func TestNewChecker_ConfigOverride(t *testing.T) {
	c := NewChecker(&config.ConsistencyConfig{
		PassThreshold:   80,
		CharacterWeight: 0.5,
	})
	assert.Equal(t, 80.0, c.passThreshold)
	assert.Equal(t, 0.5, c.characterWeight)
	// 未设置的维度保持默认值
	assert.Equal(t, 0.4, c.plotWeight)
}

func TestCheck_CleanContentPasses(t *testing.T) {
	c := NewChecker(nil)
	report := c.Check(context.Background(), &CheckInput{
		Content: "林昭走进废墟，捡起那枚生锈的怀表。",
	})
	require.NotNil(t, report)
	assert.InDelta(t, 100.0, report.Overall, 0.001)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Issues)
}

func TestCheck_WeightedScoring(t *testing.T) {
	c := NewChecker(nil)
	in := &CheckInput{
		// 同一段正文同时触发一条世界观违例和一对逻辑矛盾
		Content: "他已经死了，可镜中的人还活着。灵力涌动，竟复活死者。",
		World: []*entity.WorldSetting{
			{Name: "灵力体系", Constraints: []string{"灵力无法复活死者"}},
		},
	}
	report := c.Check(context.Background(), in)

	assert.InDelta(t, 100.0, report.CharacterScore, 0.001)
	assert.InDelta(t, 100.0, report.PlotScore, 0.001)
	assert.InDelta(t, 75.0, report.WorldScore, 0.001)
	assert.InDelta(t, 80.0, report.LogicScore, 0.001)
	// 30 + 40 + 15 + 8
	assert.InDelta(t, 93.0, report.Overall, 0.001)
	assert.True(t, report.Passed)
	assert.Len(t, report.Issues, 2)
}

func TestCheck_FailsBelowThreshold(t *testing.T) {
	c := NewChecker(&config.ConsistencyConfig{PassThreshold: 99})
	report := c.Check(context.Background(), &CheckInput{
		Content: "他已经死了，可镜中的人还活着。",
	})
	assert.InDelta(t, 80.0, report.LogicScore, 0.001)
	assert.False(t, report.Passed)
}

func TestCheck_TimelineConfusion(t *testing.T) {
	c := NewChecker(nil)

	// 六种时间指示词全部出现时判定时间线混乱
	report := c.Check(context.Background(), &CheckInput{
		Content: "之前他说过，之后又反悔。刚才的承诺，现在已成空，未来与过去纠缠。",
	})
	assert.InDelta(t, 80.0, report.LogicScore, 0.001)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "时间指示词")

	// 不超过三种则不扣分
	report = c.Check(context.Background(), &CheckInput{
		Content: "之前的事已经过去，现在只看眼前。",
	})
	assert.InDelta(t, 100.0, report.LogicScore, 0.001)
	assert.Empty(t, report.Issues)
}

func TestCheck_UnknownCharactersSuspicious(t *testing.T) {
	c := NewChecker(nil)
	report := c.Check(context.Background(), &CheckInput{
		Content: "城门缓缓打开，无人走出。",
		Characters: []*entity.Character{
			{Name: "林昭"},
			{Name: "苏挽"},
		},
	})
	// 已知角色全部缺席扣一次分，但不至于不及格
	assert.InDelta(t, 70.0, report.CharacterScore, 0.001)
	assert.True(t, report.Passed)
}

func TestCheck_CharacterTraitMismatch(t *testing.T) {
	c := NewChecker(nil)
	report := c.Check(context.Background(), &CheckInput{
		Content: "林昭大笑着冲进人群，挥金如土。",
		Characters: []*entity.Character{
			{
				Name:   "林昭",
				Traits: []string{"沉默寡言", "节俭", "谨慎"},
			},
		},
	})
	assert.InDelta(t, 70.0, report.CharacterScore, 0.001)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "林昭")
}

func TestCheck_PlotContinuity(t *testing.T) {
	c := NewChecker(nil)

	// 正文完全覆盖目标词元时不扣分
	report := c.Check(context.Background(), &CheckInput{
		Content:     "林昭终于找到了地下室的入口，推门而入。",
		ChapterGoal: "找到地下室入口",
	})
	assert.InDelta(t, 100.0, report.PlotScore, 0.001)

	// 与上一章摘要毫无衔接时扣分
	report = c.Check(context.Background(), &CheckInput{
		Content:         "草原上牛羊成群，牧民悠然自得。",
		PreviousSummary: "飞船坠毁在火星殖民地，幸存者被困气闸。",
	})
	assert.InDelta(t, 80.0, report.PlotScore, 0.001)
}

func TestCharacterAppears(t *testing.T) {
	ch := &entity.Character{Name: "苏挽", Aliases: entity.StringSlice{"小挽", "苏姑娘"}}
	assert.True(t, characterAppears("苏挽转身离去", ch))
	assert.True(t, characterAppears("那位苏姑娘笑了", ch))
	assert.False(t, characterAppears("无人在场", ch))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "cjk bigrams",
			input: "灵力复活死者",
			want:  []string{"灵力", "复活", "死者"},
		},
		{
			name:  "latin words lowercased",
			input: "He cast Magic",
			want:  []string{"he", "cast", "magic"},
		},
		{
			name:  "single char dropped",
			input: "了 a",
			want:  nil,
		},
		{
			name:  "mixed with dedup",
			input: "魔法magic魔法",
			want:  []string{"魔法", "magic"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.input))
		})
	}
}

func TestKeywordMatchRatio(t *testing.T) {
	assert.Equal(t, 1.0, keywordMatchRatio("任意正文", nil))
	assert.Equal(t, 0.5, keywordMatchRatio("他很沉默", []string{"沉默", "狂放"}))
}

func TestViolatesConstraint(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		constraint string
		want       bool
	}{
		{
			name:       "subject and forbidden act both present",
			content:    "灵力涌动，复活死者",
			constraint: "灵力无法复活死者",
			want:       true,
		},
		{
			name:       "only subject present",
			content:    "灵力在他体内流转",
			constraint: "灵力无法复活死者",
			want:       false,
		},
		{
			name:       "no prohibition marker",
			content:    "随便什么内容",
			constraint: "灵力源自月光",
			want:       false,
		},
		{
			name:       "empty constraint",
			content:    "正文",
			constraint: "  ",
			want:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, violatesConstraint(tt.content, tt.constraint))
		})
	}
}
