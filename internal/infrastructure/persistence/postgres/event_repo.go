// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"sort"

	"longnovel-ai/internal/domain/entity"
)

// EventRepository 时间轴事件仓储实现
type EventRepository struct {
	client *Client
}

// NewEventRepository 创建事件仓储
func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// Create 创建事件
func (r *EventRepository) Create(ctx context.Context, event *entity.TimelineEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create timeline event: %w", err)
	}
	return nil
}

// CreateBatch 批量创建事件
func (r *EventRepository) CreateBatch(ctx context.Context, events []*entity.TimelineEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.CreateBatch")
	defer span.End()

	if len(events) == 0 {
		return nil
	}
	db := getDB(ctx, r.client.db)
	if err := db.CreateInBatches(events, 100).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create timeline events: %w", err)
	}
	return nil
}

// ListRecent 获取最近事件，按章节号升序返回
func (r *EventRepository) ListRecent(ctx context.Context, projectID string, limit int) ([]*entity.TimelineEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.ListRecent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var events []*entity.TimelineEvent
	if err := db.Where("project_id = ?", projectID).
		Order("chapter_num DESC, created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].ChapterNum < events[j].ChapterNum
	})
	return events, nil
}

// ListByChapter 获取指定章节的事件
func (r *EventRepository) ListByChapter(ctx context.Context, projectID string, chapterNum int) ([]*entity.TimelineEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.ListByChapter")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var events []*entity.TimelineEvent
	if err := db.Where("project_id = ? AND chapter_num = ?", projectID, chapterNum).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list events by chapter: %w", err)
	}
	return events, nil
}

// ListByCharacter 获取涉及指定角色的事件
func (r *EventRepository) ListByCharacter(ctx context.Context, projectID, characterName string, limit int) ([]*entity.TimelineEvent, error) {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.ListByCharacter")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var events []*entity.TimelineEvent
	if err := db.Where("project_id = ? AND ? = ANY(characters)", projectID, characterName).
		Order("chapter_num DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list events by character: %w", err)
	}
	return events, nil
}
