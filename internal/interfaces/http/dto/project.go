// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"longnovel-ai/internal/application/project"
	"longnovel-ai/internal/domain/entity"
)

// ProjectSettingsBody 项目设置请求体，零值字段不更新
type ProjectSettingsBody struct {
	ChapterWords  int     `json:"chapter_words,omitempty"`
	WritingStyle  string  `json:"writing_style,omitempty"`
	POV           string  `json:"pov,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
	RecentWindow  int     `json:"recent_window,omitempty"`
	VolumeSize    int     `json:"volume_size,omitempty"`
	MaxGenRetries int     `json:"max_gen_retries,omitempty"`
}

func (b *ProjectSettingsBody) ToEntity() *entity.ProjectSettings {
	if b == nil {
		return nil
	}
	return &entity.ProjectSettings{
		ChapterWords:  b.ChapterWords,
		WritingStyle:  b.WritingStyle,
		POV:           b.POV,
		Temperature:   b.Temperature,
		RecentWindow:  b.RecentWindow,
		VolumeSize:    b.VolumeSize,
		MaxGenRetries: b.MaxGenRetries,
	}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title       string               `json:"title" binding:"required"`
	Premise     string               `json:"premise" binding:"required"`
	Genre       string               `json:"genre,omitempty"`
	TargetWords int                  `json:"target_words" binding:"required"`
	Settings    *ProjectSettingsBody `json:"settings,omitempty"`
}

func (r *CreateProjectRequest) ToInput(tenantID string) project.CreateInput {
	return project.CreateInput{
		TenantID:    tenantID,
		Title:       r.Title,
		Premise:     r.Premise,
		Genre:       r.Genre,
		TargetWords: r.TargetWords,
		Settings:    r.Settings.ToEntity(),
	}
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Title    string               `json:"title,omitempty"`
	Premise  string               `json:"premise,omitempty"`
	Genre    string               `json:"genre,omitempty"`
	Settings *ProjectSettingsBody `json:"settings,omitempty"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Premise        string                  `json:"premise"`
	Genre          string                  `json:"genre,omitempty"`
	TargetWords    int                     `json:"target_words"`
	CurrentWords   int                     `json:"current_words"`
	CurrentChapter int                     `json:"current_chapter"`
	Status         string                  `json:"status"`
	Settings       *entity.ProjectSettings `json:"settings,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// ProjectListResponse 项目列表响应
type ProjectListResponse struct {
	Projects []*ProjectResponse `json:"projects"`
}

// ProjectStatsResponse 项目统计响应
type ProjectStatsResponse struct {
	TotalChapters   int     `json:"total_chapters"`
	CheckedChapters int     `json:"checked_chapters"`
	FailedChapters  int     `json:"failed_chapters"`
	TotalWords      int64   `json:"total_words"`
	MeanConsistency float64 `json:"mean_consistency"`
	OpenPlotThreads int     `json:"open_plot_threads"`
	CharacterCount  int     `json:"character_count"`
	Progress        float64 `json:"progress"`
}

// ToProjectResponse 实体转换为响应
func ToProjectResponse(p *entity.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Premise:        p.Premise,
		Genre:          p.Genre,
		TargetWords:    p.TargetWords,
		CurrentWords:   p.CurrentWords,
		CurrentChapter: p.CurrentChapter,
		Status:         string(p.Status),
		Settings:       p.Settings,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProjectListResponse 实体列表转换为响应
func ToProjectListResponse(projects []*entity.Project) *ProjectListResponse {
	resp := &ProjectListResponse{Projects: make([]*ProjectResponse, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, ToProjectResponse(p))
	}
	return resp
}
