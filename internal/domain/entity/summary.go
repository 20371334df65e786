// Package entity 定义领域实体
package entity

import (
	"time"
)

const (
	// ChapterSummaryMaxRunes 章节摘要最大长度
	ChapterSummaryMaxRunes = 200
	// VolumeSummaryMaxRunes 卷摘要最大长度
	VolumeSummaryMaxRunes = 300
)

// ChapterSummary 章节摘要（历史层记忆的基本单元）
type ChapterSummary struct {
	ID          string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   string      `json:"project_id" gorm:"type:uuid;index;not null"`
	ChapterNum  int         `json:"chapter_num" gorm:"not null;index"`
	Text        string      `json:"text" gorm:"type:text;not null"`
	KeyEvents   StringSlice `json:"key_events,omitempty" gorm:"type:jsonb"`
	Characters  StringSlice `json:"characters,omitempty" gorm:"type:jsonb"`
	NewThreads  StringSlice `json:"new_threads,omitempty" gorm:"type:jsonb"`
	SourceWords int         `json:"source_words" gorm:"default:0"`
	VectorID    string      `json:"vector_id,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (ChapterSummary) TableName() string {
	return "chapter_summaries"
}

// NewChapterSummary 创建章节摘要，超长文本截断到上限
func NewChapterSummary(projectID string, chapterNum int, text string, sourceWords int) *ChapterSummary {
	return &ChapterSummary{
		ProjectID:   projectID,
		ChapterNum:  chapterNum,
		Text:        TruncateRunes(text, ChapterSummaryMaxRunes),
		KeyEvents:   StringSlice{},
		Characters:  StringSlice{},
		NewThreads:  StringSlice{},
		SourceWords: sourceWords,
		CreatedAt:   time.Now(),
	}
}

// VolumeSummary 卷摘要（长程历史记忆）
type VolumeSummary struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   string    `json:"project_id" gorm:"type:uuid;index;not null"`
	VolumeNum   int       `json:"volume_num" gorm:"not null;index"`
	FromChapter int       `json:"from_chapter" gorm:"not null"`
	ToChapter   int       `json:"to_chapter" gorm:"not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	ArcResolved string    `json:"arc_resolved,omitempty" gorm:"type:text"`
	SourceWords int       `json:"source_words" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (VolumeSummary) TableName() string {
	return "volume_summaries"
}

// NewVolumeSummary 创建卷摘要，超长文本截断到上限
func NewVolumeSummary(projectID string, volumeNum, from, to int, text string, sourceWords int) *VolumeSummary {
	return &VolumeSummary{
		ProjectID:   projectID,
		VolumeNum:   volumeNum,
		FromChapter: from,
		ToChapter:   to,
		Text:        TruncateRunes(text, VolumeSummaryMaxRunes),
		SourceWords: sourceWords,
		CreatedAt:   time.Now(),
	}
}

// TruncateRunes 按 rune 截断字符串
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
