// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// EventImportance 事件重要性
type EventImportance string

const (
	EventImportanceCritical EventImportance = "critical"
	EventImportanceMajor    EventImportance = "major"
	EventImportanceNormal   EventImportance = "normal"
	EventImportanceMinor    EventImportance = "minor"
)

// TimelineEvent 时间轴事件，按章节序号排列
type TimelineEvent struct {
	ID          string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   string          `json:"project_id" gorm:"type:uuid;index;not null"`
	ChapterNum  int             `json:"chapter_num" gorm:"not null;index"`
	Summary     string          `json:"summary" gorm:"type:text;not null"`
	Characters  pq.StringArray  `json:"characters,omitempty" gorm:"type:text[]"`
	Location    string          `json:"location,omitempty" gorm:"type:varchar(255)"`
	Importance  EventImportance `json:"importance" gorm:"type:varchar(50);default:'normal'"`
	Tags        pq.StringArray  `json:"tags,omitempty" gorm:"type:text[]"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (TimelineEvent) TableName() string {
	return "timeline_events"
}

// NewTimelineEvent 创建时间轴事件
func NewTimelineEvent(projectID string, chapterNum int, summary string) *TimelineEvent {
	return &TimelineEvent{
		ProjectID:  projectID,
		ChapterNum: chapterNum,
		Summary:    summary,
		Characters: pq.StringArray{},
		Tags:       pq.StringArray{},
		Importance: EventImportanceNormal,
		CreatedAt:  time.Now(),
	}
}
