package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	p, err := NewProject("tenant-1", "迷雾之城", "少年寻亲", 100000)
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusDraft, p.Status)
	assert.Equal(t, DefaultChapterWords, p.Settings.ChapterWords)
	assert.Equal(t, 5, p.Settings.RecentWindow)
	assert.Equal(t, 20, p.Settings.VolumeSize)
}

func TestNewProject_TargetWordsTooLow(t *testing.T) {
	_, err := NewProject("tenant-1", "t", "p", MinTargetWords-1)
	assert.Error(t, err)

	_, err = NewProject("tenant-1", "t", "p", MinTargetWords)
	assert.NoError(t, err)
}

func TestEstimatedChapters(t *testing.T) {
	p, err := NewProject("tenant-1", "t", "p", 90000)
	require.NoError(t, err)
	assert.Equal(t, 30, p.EstimatedChapters())

	// 章节数不低于下限
	p.TargetWords = 12000
	assert.Equal(t, MinChapters, p.EstimatedChapters())
}

func TestProjectSettingsDefaults(t *testing.T) {
	var s *ProjectSettings
	assert.Equal(t, DefaultChapterWords, s.ChapterWordsOrDefault())
	assert.Equal(t, 5, s.RecentWindowOrDefault())
	assert.Equal(t, 20, s.VolumeSizeOrDefault())

	s = &ProjectSettings{ChapterWords: 5000, VolumeSize: 10}
	assert.Equal(t, 5000, s.ChapterWordsOrDefault())
	assert.Equal(t, 10, s.VolumeSizeOrDefault())
}

func TestChapterSetContent(t *testing.T) {
	c := NewChapter("proj-1", 3, "第三章", "夺回城门")
	assert.Equal(t, ChapterStatusPending, c.Status)

	c.SetContent("风雪夜，林昭独自守在城门前。")
	assert.Equal(t, 14, c.WordCount)
}

func TestChapterApplyCheck(t *testing.T) {
	c := NewChapter("proj-1", 1, "", "")

	c.ApplyCheck(&ConsistencyReport{Overall: 85, Passed: true})
	assert.Equal(t, ChapterStatusChecked, c.Status)

	c.ApplyCheck(&ConsistencyReport{Overall: 40, Passed: false})
	assert.Equal(t, ChapterStatusFailed, c.Status)

	c.ApplyCheck(nil)
	assert.Equal(t, ChapterStatusFailed, c.Status)
}

func TestGenerationMetadataAttemptsOrOne(t *testing.T) {
	var g *GenerationMetadata
	assert.Equal(t, 1, g.AttemptsOrOne())
	assert.Equal(t, 1, (&GenerationMetadata{}).AttemptsOrOne())
	assert.Equal(t, 3, (&GenerationMetadata{Attempts: 3}).AttemptsOrOne())
}

func TestClampImportance(t *testing.T) {
	assert.Equal(t, CharacterImportanceMax/2, ClampImportance(0))
	assert.Equal(t, CharacterImportanceMax/2, ClampImportance(-5))
	assert.Equal(t, CharacterImportanceMax, ClampImportance(99))
	assert.Equal(t, 7, ClampImportance(7))
}

func TestNewCharacterDefaults(t *testing.T) {
	c := NewCharacter("proj-1", "林昭", "", 0)
	assert.Equal(t, RoleSupporting, c.Role)
	assert.Equal(t, CharacterImportanceMax/2, c.Importance)
	assert.NotNil(t, c.Relationships)
}

func TestGenerationJobLifecycle(t *testing.T) {
	job := NewGenerationJob("tenant-1", "proj-1", JobTypeChapterGen, nil)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 5, job.Priority)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Complete([]byte(`{"word_count":3000}`))
	assert.Equal(t, JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
}

func TestGenerationJobRetry(t *testing.T) {
	job := NewGenerationJob("tenant-1", "proj-1", JobTypeBatchGen, nil)
	job.Start()
	job.Fail("llm timeout")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "llm timeout", job.ErrorMessage)
	assert.True(t, job.CanRetry(3))

	job.Retry()
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Empty(t, job.ErrorMessage)
	assert.Nil(t, job.StartedAt)

	job.Fail("again")
	job.RetryCount = 3
	assert.False(t, job.CanRetry(3))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "一二三", TruncateRunes("一二三四五", 3))
}

func TestNewChapterSummaryTruncates(t *testing.T) {
	long := strings.Repeat("摘", ChapterSummaryMaxRunes+50)
	s := NewChapterSummary("proj-1", 7, long, 3000)
	assert.Len(t, []rune(s.Text), ChapterSummaryMaxRunes)
	assert.Equal(t, 7, s.ChapterNum)
	assert.Equal(t, 3000, s.SourceWords)
}

func TestNewVolumeSummaryTruncates(t *testing.T) {
	long := strings.Repeat("卷", VolumeSummaryMaxRunes+1)
	s := NewVolumeSummary("proj-1", 2, 21, 40, long, 60000)
	assert.Len(t, []rune(s.Text), VolumeSummaryMaxRunes)
	assert.Equal(t, 2, s.VolumeNum)
}

func TestOutlineLookups(t *testing.T) {
	o := &Outline{Volumes: []VolumePlan{
		{SeqNum: 1, Chapters: []ChapterPlan{{SeqNum: 1}, {SeqNum: 2}}},
		{SeqNum: 2, Chapters: []ChapterPlan{{SeqNum: 3}}},
	}}
	assert.Equal(t, 3, o.TotalChapters())
	assert.Equal(t, 2, o.VolumeOf(3))
	assert.Equal(t, 0, o.VolumeOf(9))

	plan, ok := o.PlanFor(2)
	assert.True(t, ok)
	assert.Equal(t, 2, plan.SeqNum)

	_, ok = o.PlanFor(9)
	assert.False(t, ok)
}
