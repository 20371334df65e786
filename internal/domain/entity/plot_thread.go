// Package entity 定义领域实体
package entity

import (
	"time"
)

// ThreadStatus 伏笔/线索状态
type ThreadStatus string

const (
	ThreadStatusOpen     ThreadStatus = "open"
	ThreadStatusResolved ThreadStatus = "resolved"
	ThreadStatusDropped  ThreadStatus = "dropped"
)

// PlotThread 情节线索，上下文组装时最多注入少量未收束线索
type PlotThread struct {
	ID          string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   string       `json:"project_id" gorm:"type:uuid;index;not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	OpenedAt    int          `json:"opened_at" gorm:"not null"` // 章节序号
	ResolvedAt  int          `json:"resolved_at,omitempty"`
	Status      ThreadStatus `json:"status" gorm:"type:varchar(50);default:'open';index"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (PlotThread) TableName() string {
	return "plot_threads"
}

// NewPlotThread 创建情节线索
func NewPlotThread(projectID, description string, openedAt int) *PlotThread {
	now := time.Now()
	return &PlotThread{
		ProjectID:   projectID,
		Description: description,
		OpenedAt:    openedAt,
		Status:      ThreadStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Resolve 标记线索已收束
func (t *PlotThread) Resolve(chapterNum int) {
	t.Status = ThreadStatusResolved
	t.ResolvedAt = chapterNum
	t.UpdatedAt = time.Now()
}
