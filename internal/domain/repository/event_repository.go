// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// EventRepository 时间轴事件仓储接口
type EventRepository interface {
	// Create 创建事件
	Create(ctx context.Context, event *entity.TimelineEvent) error

	// CreateBatch 批量创建事件
	CreateBatch(ctx context.Context, events []*entity.TimelineEvent) error

	// ListRecent 获取最近事件（按章节号倒序取，升序返回）
	ListRecent(ctx context.Context, projectID string, limit int) ([]*entity.TimelineEvent, error)

	// ListByChapter 获取指定章节的事件
	ListByChapter(ctx context.Context, projectID string, chapterNum int) ([]*entity.TimelineEvent, error)

	// ListByCharacter 获取涉及指定角色的事件
	ListByCharacter(ctx context.Context, projectID, characterName string, limit int) ([]*entity.TimelineEvent, error)
}
