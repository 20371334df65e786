package outline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"longnovel-ai/internal/domain/entity"
	wfmodel "longnovel-ai/internal/workflow/model"
)

func planWithChapters(n int) *wfmodel.OutlinePlanJSON {
	plan := &wfmodel.OutlinePlanJSON{Title: "迷雾之城", Theme: "寻亲与救赎"}
	for i := 1; i <= n; i++ {
		plan.Chapters = append(plan.Chapters, wfmodel.ChapterPlanJSON{
			SeqNum: i,
			Title:  fmt.Sprintf("第%d章", i),
			Goal:   fmt.Sprintf("推进第%d段剧情", i),
		})
	}
	return plan
}

func TestBuildOutline(t *testing.T) {
	outline, err := buildOutline("proj-1", planWithChapters(30), 30, 20)
	require.NoError(t, err)

	assert.Equal(t, "proj-1", outline.ProjectID)
	assert.Equal(t, "寻亲与救赎", outline.Synopsis)
	assert.Equal(t, entity.StringSlice{"迷雾之城"}, outline.Themes)
	assert.Equal(t, 1, outline.Version)
	assert.Equal(t, 30, outline.TotalChapters())

	// 30 章按 20 章一卷分为两卷
	require.Len(t, outline.Volumes, 2)
	assert.Len(t, outline.Volumes[0].Chapters, 20)
	assert.Len(t, outline.Volumes[1].Chapters, 10)
	assert.Equal(t, "第1卷", outline.Volumes[0].Title)
	assert.Equal(t, 21, outline.Volumes[1].Chapters[0].SeqNum)

	// 三幕边界：30% 与 70%
	assert.Equal(t, 9, outline.ActTwoAt)
	assert.Equal(t, 21, outline.ActEndAt)
}

func TestBuildOutline_Renumbers(t *testing.T) {
	plan := planWithChapters(12)
	plan.Chapters[3].SeqNum = 99
	outline, err := buildOutline("proj-1", plan, 12, 20)
	require.NoError(t, err)

	got, ok := outline.PlanFor(4)
	require.True(t, ok)
	assert.Equal(t, 4, got.SeqNum)
}

func TestBuildOutline_Errors(t *testing.T) {
	tests := []struct {
		name string
		plan *wfmodel.OutlinePlanJSON
	}{
		{name: "nil plan", plan: nil},
		{name: "no chapters", plan: &wfmodel.OutlinePlanJSON{}},
		{name: "too few chapters", plan: planWithChapters(entity.MinChapters - 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildOutline("proj-1", tt.plan, 30, 20)
			assert.Error(t, err)
		})
	}

	t.Run("empty goal", func(t *testing.T) {
		plan := planWithChapters(12)
		plan.Chapters[5].Goal = "  "
		_, err := buildOutline("proj-1", plan, 12, 20)
		assert.Error(t, err)
	})
}

func TestSplitVolumes(t *testing.T) {
	chapters := make([]entity.ChapterPlan, 45)
	for i := range chapters {
		chapters[i] = entity.ChapterPlan{SeqNum: i + 1}
	}

	volumes := splitVolumes(chapters, 20)
	require.Len(t, volumes, 3)
	assert.Len(t, volumes[0].Chapters, 20)
	assert.Len(t, volumes[1].Chapters, 20)
	assert.Len(t, volumes[2].Chapters, 5)
	assert.Equal(t, 3, volumes[2].SeqNum)

	// 非法卷大小回退为默认 20
	volumes = splitVolumes(chapters, 0)
	assert.Len(t, volumes, 3)
}

func TestActBoundaries(t *testing.T) {
	tests := []struct {
		chapters int
		actTwo   int
		actEnd   int
	}{
		{chapters: 30, actTwo: 9, actEnd: 21},
		{chapters: 100, actTwo: 30, actEnd: 70},
		{chapters: 10, actTwo: 3, actEnd: 7},
		// 低于下限时按最小章节数计算
		{chapters: 3, actTwo: 3, actEnd: 7},
	}
	for _, tt := range tests {
		actTwo, actEnd := entity.ActBoundaries(tt.chapters)
		assert.Equal(t, tt.actTwo, actTwo, "chapters=%d", tt.chapters)
		assert.Equal(t, tt.actEnd, actEnd, "chapters=%d", tt.chapters)
	}
}
