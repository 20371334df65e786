// Package entity 定义领域实体
package entity

import (
	"time"
)

// ChapterPlan 大纲中的单章规划
type ChapterPlan struct {
	SeqNum         int    `json:"seq_num"`
	Title          string `json:"title"`
	Goal           string `json:"goal"`
	EstimatedWords int    `json:"estimated_words,omitempty"`
}

// VolumePlan 大纲中的分卷规划
type VolumePlan struct {
	SeqNum   int           `json:"seq_num"`
	Title    string        `json:"title"`
	Arc      string        `json:"arc,omitempty"`
	Chapters []ChapterPlan `json:"chapters"`
}

// Outline 项目大纲实体
// 第二幕、第三幕的起始章节按估算章节数的 30% 和 70% 计算。
type Outline struct {
	ID        string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID string       `json:"project_id" gorm:"type:uuid;uniqueIndex;not null"`
	Synopsis  string       `json:"synopsis" gorm:"type:text;not null"`
	Themes    StringSlice  `json:"themes,omitempty" gorm:"type:jsonb"`
	Volumes   []VolumePlan `json:"volumes" gorm:"type:jsonb;serializer:json"`
	ActTwoAt  int          `json:"act_two_at"`
	ActEndAt  int          `json:"act_end_at"`
	Version   int          `json:"version" gorm:"default:1"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Outline) TableName() string {
	return "outlines"
}

// ActBoundaries 按估算章节数计算三幕边界
func ActBoundaries(estimatedChapters int) (actTwo, actEnd int) {
	if estimatedChapters < MinChapters {
		estimatedChapters = MinChapters
	}
	actTwo = int(float64(estimatedChapters) * 0.3)
	actEnd = int(float64(estimatedChapters) * 0.7)
	if actTwo < 1 {
		actTwo = 1
	}
	if actEnd <= actTwo {
		actEnd = actTwo + 1
	}
	return actTwo, actEnd
}

// TotalChapters 返回大纲覆盖的章节总数
func (o *Outline) TotalChapters() int {
	n := 0
	for _, v := range o.Volumes {
		n += len(v.Chapters)
	}
	return n
}

// PlanFor 查找指定章节的规划
func (o *Outline) PlanFor(seqNum int) (ChapterPlan, bool) {
	for _, v := range o.Volumes {
		for _, ch := range v.Chapters {
			if ch.SeqNum == seqNum {
				return ch, true
			}
		}
	}
	return ChapterPlan{}, false
}

// VolumeOf 查找章节所属卷号，找不到返回 0
func (o *Outline) VolumeOf(seqNum int) int {
	for _, v := range o.Volumes {
		for _, ch := range v.Chapters {
			if ch.SeqNum == seqNum {
				return v.SeqNum
			}
		}
	}
	return 0
}
