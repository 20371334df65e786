// Package entity 定义领域实体
package entity

import (
	"time"
)

// ChapterStatus 章节状态
type ChapterStatus string

const (
	ChapterStatusPending    ChapterStatus = "pending"
	ChapterStatusGenerating ChapterStatus = "generating"
	ChapterStatusGenerated  ChapterStatus = "generated"
	ChapterStatusChecked    ChapterStatus = "checked"
	ChapterStatusFailed     ChapterStatus = "failed"
)

// GenerationMetadata 生成元数据
type GenerationMetadata struct {
	Model            string  `json:"model,omitempty"`
	Provider         string  `json:"provider,omitempty"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	Attempts         int     `json:"attempts,omitempty"`
	GeneratedAt      string  `json:"generated_at,omitempty"`
}

// AttemptsOrOne 返回已尝试次数，元数据缺失按一次计
func (g *GenerationMetadata) AttemptsOrOne() int {
	if g == nil || g.Attempts <= 0 {
		return 1
	}
	return g.Attempts
}

// ConsistencyReport 一致性检查结果（附在章节上，便于回溯）
type ConsistencyReport struct {
	CharacterScore float64  `json:"character_score"`
	PlotScore      float64  `json:"plot_score"`
	WorldScore     float64  `json:"world_score"`
	LogicScore     float64  `json:"logic_score"`
	Overall        float64  `json:"overall"`
	Passed         bool     `json:"passed"`
	Issues         []string `json:"issues,omitempty"`
}

// Chapter 章节实体
type Chapter struct {
	ID          string              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   string              `json:"project_id" gorm:"type:uuid;index;not null"`
	VolumeNum   int                 `json:"volume_num" gorm:"index"`
	SeqNum      int                 `json:"seq_num" gorm:"not null;index"`
	Title       string              `json:"title,omitempty" gorm:"type:varchar(255)"`
	Goal        string              `json:"goal,omitempty" gorm:"type:text"`
	ContentText string              `json:"content_text,omitempty" gorm:"type:text"`
	WordCount   int                 `json:"word_count" gorm:"default:0"`
	Status      ChapterStatus       `json:"status" gorm:"type:varchar(50);default:'pending'"`
	Consistency *ConsistencyReport  `json:"consistency,omitempty" gorm:"type:jsonb;serializer:json"`
	Generation  *GenerationMetadata `json:"generation,omitempty" gorm:"type:jsonb;serializer:json"`
	Version     int                 `json:"version" gorm:"default:1"`
	CreatedAt   time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// NewChapter 创建新章节
func NewChapter(projectID string, seqNum int, title, goal string) *Chapter {
	now := time.Now()
	return &Chapter{
		ProjectID: projectID,
		SeqNum:    seqNum,
		Title:     title,
		Goal:      goal,
		Status:    ChapterStatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetContent 设置章节正文并更新字数
func (c *Chapter) SetContent(content string) {
	c.ContentText = content
	c.WordCount = len([]rune(content))
	c.UpdatedAt = time.Now()
}

// ApplyCheck 记录一致性检查结果并流转状态
func (c *Chapter) ApplyCheck(report *ConsistencyReport) {
	c.Consistency = report
	if report != nil && report.Passed {
		c.Status = ChapterStatusChecked
	} else {
		c.Status = ChapterStatusFailed
	}
	c.UpdatedAt = time.Now()
}

// IncrementVersion 增加版本号
func (c *Chapter) IncrementVersion() {
	c.Version++
	c.UpdatedAt = time.Now()
}
