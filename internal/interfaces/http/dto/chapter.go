// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"longnovel-ai/internal/domain/entity"
)

// GenerateChapterRequest 单章生成请求。
// Async 为 true 时任务入队，由 worker 消费。
type GenerateChapterRequest struct {
	ChapterNum int    `json:"chapter_num,omitempty"`
	Title      string `json:"title,omitempty"`
	Goal       string `json:"goal,omitempty"`
	Async      bool   `json:"async,omitempty"`
}

// BatchGenerateRequest 批量生成请求
type BatchGenerateRequest struct {
	FromChapter int  `json:"from_chapter,omitempty"`
	ToChapter   int  `json:"to_chapter" binding:"required"`
	Async       bool `json:"async,omitempty"`
}

// AdjustChapterRequest 章节调整请求
type AdjustChapterRequest struct {
	Axis        string `json:"axis" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
}

// ConsistencyReportResponse 一致性报告响应
type ConsistencyReportResponse struct {
	CharacterScore float64  `json:"character_score"`
	PlotScore      float64  `json:"plot_score"`
	WorldScore     float64  `json:"world_score"`
	LogicScore     float64  `json:"logic_score"`
	Overall        float64  `json:"overall"`
	Passed         bool     `json:"passed"`
	Issues         []string `json:"issues,omitempty"`
}

// ChapterResponse 章节响应，列表场景不携带正文
type ChapterResponse struct {
	ID          string                     `json:"id"`
	ProjectID   string                     `json:"project_id"`
	VolumeNum   int                        `json:"volume_num,omitempty"`
	SeqNum      int                        `json:"seq_num"`
	Title       string                     `json:"title,omitempty"`
	Goal        string                     `json:"goal,omitempty"`
	Content     string                     `json:"content,omitempty"`
	WordCount   int                        `json:"word_count"`
	Status      string                     `json:"status"`
	Consistency *ConsistencyReportResponse `json:"consistency,omitempty"`
	Version     int                        `json:"version"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// ChapterListResponse 章节列表响应
type ChapterListResponse struct {
	Chapters []*ChapterResponse `json:"chapters"`
}

// GenerateChapterResponse 同步生成结果
type GenerateChapterResponse struct {
	Chapter  *ChapterResponse `json:"chapter"`
	Summary  string           `json:"summary,omitempty"`
	Attempts int              `json:"attempts"`
}

// EnqueuedResponse 异步任务入队结果
type EnqueuedResponse struct {
	JobID string `json:"job_id"`
}

// BatchOutcomeResponse 批量生成单章结果
type BatchOutcomeResponse struct {
	ChapterNum int    `json:"chapter_num"`
	Passed     bool   `json:"passed"`
	WordCount  int    `json:"word_count"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
}

// BatchGenerateResponse 批量生成汇总
type BatchGenerateResponse struct {
	FromChapter int                     `json:"from_chapter"`
	ToChapter   int                     `json:"to_chapter"`
	Succeeded   int                     `json:"succeeded"`
	Failed      int                     `json:"failed"`
	Outcomes    []*BatchOutcomeResponse `json:"outcomes"`
}

// AdjustChapterResponse 调整结果
type AdjustChapterResponse struct {
	Chapter *ChapterResponse           `json:"chapter"`
	Report  *ConsistencyReportResponse `json:"report,omitempty"`
	Applied bool                       `json:"applied"`
}

// ToConsistencyReportResponse 报告转换
func ToConsistencyReportResponse(r *entity.ConsistencyReport) *ConsistencyReportResponse {
	if r == nil {
		return nil
	}
	return &ConsistencyReportResponse{
		CharacterScore: r.CharacterScore,
		PlotScore:      r.PlotScore,
		WorldScore:     r.WorldScore,
		LogicScore:     r.LogicScore,
		Overall:        r.Overall,
		Passed:         r.Passed,
		Issues:         r.Issues,
	}
}

// ToChapterResponse 实体转换为响应
func ToChapterResponse(ch *entity.Chapter, withContent bool) *ChapterResponse {
	if ch == nil {
		return nil
	}
	resp := &ChapterResponse{
		ID:          ch.ID,
		ProjectID:   ch.ProjectID,
		VolumeNum:   ch.VolumeNum,
		SeqNum:      ch.SeqNum,
		Title:       ch.Title,
		Goal:        ch.Goal,
		WordCount:   ch.WordCount,
		Status:      string(ch.Status),
		Consistency: ToConsistencyReportResponse(ch.Consistency),
		Version:     ch.Version,
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
	if withContent {
		resp.Content = ch.ContentText
	}
	return resp
}

// ToChapterListResponse 实体列表转换为响应
func ToChapterListResponse(chapters []*entity.Chapter) *ChapterListResponse {
	resp := &ChapterListResponse{Chapters: make([]*ChapterResponse, 0, len(chapters))}
	for _, ch := range chapters {
		resp.Chapters = append(resp.Chapters, ToChapterResponse(ch, false))
	}
	return resp
}
