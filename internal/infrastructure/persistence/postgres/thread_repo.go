// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"longnovel-ai/internal/domain/entity"
)

// ThreadRepository 情节线索仓储实现
type ThreadRepository struct {
	client *Client
}

// NewThreadRepository 创建情节线索仓储
func NewThreadRepository(client *Client) *ThreadRepository {
	return &ThreadRepository{client: client}
}

// Create 创建线索
func (r *ThreadRepository) Create(ctx context.Context, thread *entity.PlotThread) error {
	ctx, span := tracer.Start(ctx, "postgres.ThreadRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(thread).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create plot thread: %w", err)
	}
	return nil
}

// CreateBatch 批量创建线索
func (r *ThreadRepository) CreateBatch(ctx context.Context, threads []*entity.PlotThread) error {
	ctx, span := tracer.Start(ctx, "postgres.ThreadRepository.CreateBatch")
	defer span.End()

	if len(threads) == 0 {
		return nil
	}
	db := getDB(ctx, r.client.db)
	if err := db.CreateInBatches(threads, 50).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create plot threads: %w", err)
	}
	return nil
}

// Update 更新线索
func (r *ThreadRepository) Update(ctx context.Context, thread *entity.PlotThread) error {
	ctx, span := tracer.Start(ctx, "postgres.ThreadRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(thread).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update plot thread: %w", err)
	}
	return nil
}

// ListOpen 获取未收束的线索（按开启章节升序）
func (r *ThreadRepository) ListOpen(ctx context.Context, projectID string, limit int) ([]*entity.PlotThread, error) {
	ctx, span := tracer.Start(ctx, "postgres.ThreadRepository.ListOpen")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Where("project_id = ? AND status = ?", projectID, entity.ThreadStatusOpen).
		Order("opened_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var threads []*entity.PlotThread
	if err := query.Find(&threads).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list open threads: %w", err)
	}
	return threads, nil
}

// ListByProject 获取项目全部线索
func (r *ThreadRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.PlotThread, error) {
	ctx, span := tracer.Start(ctx, "postgres.ThreadRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var threads []*entity.PlotThread
	if err := db.Where("project_id = ?", projectID).
		Order("opened_at ASC").
		Find(&threads).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list plot threads: %w", err)
	}
	return threads, nil
}

// CountOpen 统计未收束线索数量
func (r *ThreadRepository) CountOpen(ctx context.Context, projectID string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.ThreadRepository.CountOpen")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.PlotThread{}).
		Where("project_id = ? AND status = ?", projectID, entity.ThreadStatusOpen).
		Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count open threads: %w", err)
	}
	return int(count), nil
}
