// Package entity 定义领域实体
package entity

import (
	"fmt"
	"time"
)

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusWriting   ProjectStatus = "writing"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusFailed    ProjectStatus = "failed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

const (
	// MinTargetWords 项目最小目标字数
	MinTargetWords = 10000
	// DefaultChapterWords 单章默认目标字数
	DefaultChapterWords = 3000
	// MinChapters 最少章节数
	MinChapters = 10
)

// ProjectSettings 项目设置
type ProjectSettings struct {
	ChapterWords  int     `json:"chapter_words,omitempty"`
	WritingStyle  string  `json:"writing_style,omitempty"`
	POV           string  `json:"pov,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
	RecentWindow  int     `json:"recent_window,omitempty"`
	VolumeSize    int     `json:"volume_size,omitempty"`
	MaxGenRetries int     `json:"max_gen_retries,omitempty"`
}

// Project 小说项目实体
type Project struct {
	ID             string           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       string           `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Title          string           `json:"title" gorm:"type:varchar(255);not null"`
	Premise        string           `json:"premise" gorm:"type:text;not null"`
	Genre          string           `json:"genre,omitempty" gorm:"type:varchar(100)"`
	Style          string           `json:"style,omitempty" gorm:"type:varchar(100)"`
	TargetWords    int              `json:"target_words" gorm:"not null"`
	CurrentWords   int              `json:"current_words" gorm:"default:0"`
	CurrentChapter int              `json:"current_chapter" gorm:"default:0"`
	Settings       *ProjectSettings `json:"settings,omitempty" gorm:"type:jsonb;serializer:json"`
	Status         ProjectStatus    `json:"status" gorm:"type:varchar(50);default:'draft'"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProject 创建新项目
func NewProject(tenantID, title, premise string, targetWords int) (*Project, error) {
	if targetWords < MinTargetWords {
		return nil, fmt.Errorf("target words must be at least %d, got %d", MinTargetWords, targetWords)
	}
	now := time.Now()
	return &Project{
		TenantID:    tenantID,
		Title:       title,
		Premise:     premise,
		TargetWords: targetWords,
		Settings: &ProjectSettings{
			ChapterWords: DefaultChapterWords,
			RecentWindow: 5,
			VolumeSize:   20,
		},
		Status:    ProjectStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EstimatedChapters 估算章节数（不少于最小章节数）
func (p *Project) EstimatedChapters() int {
	words := p.Settings.ChapterWordsOrDefault()
	n := p.TargetWords / words
	if n < MinChapters {
		n = MinChapters
	}
	return n
}

// ChapterWordsOrDefault 返回单章目标字数
func (s *ProjectSettings) ChapterWordsOrDefault() int {
	if s == nil || s.ChapterWords <= 0 {
		return DefaultChapterWords
	}
	return s.ChapterWords
}

// RecentWindowOrDefault 返回近期记忆窗口大小
func (s *ProjectSettings) RecentWindowOrDefault() int {
	if s == nil || s.RecentWindow <= 0 {
		return 5
	}
	return s.RecentWindow
}

// VolumeSizeOrDefault 返回单卷章节数
func (s *ProjectSettings) VolumeSizeOrDefault() int {
	if s == nil || s.VolumeSize <= 0 {
		return 20
	}
	return s.VolumeSize
}

// MaxGenRetriesOrDefault 返回一致性失败后的最大重写次数
func (s *ProjectSettings) MaxGenRetriesOrDefault() int {
	if s == nil || s.MaxGenRetries <= 0 {
		return 2
	}
	return s.MaxGenRetries
}

// IsEditable 检查项目是否可编辑
func (p *Project) IsEditable() bool {
	return p.Status == ProjectStatusDraft || p.Status == ProjectStatusWriting
}

// AdvanceChapter 推进写作进度
func (p *Project) AdvanceChapter(wordCount int) {
	p.CurrentChapter++
	p.CurrentWords += wordCount
	if p.Status == ProjectStatusDraft {
		p.Status = ProjectStatusWriting
	}
	p.UpdatedAt = time.Now()
}
