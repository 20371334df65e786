// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"longnovel-ai/internal/domain/entity"
)

// OutlineRepository 大纲仓储实现
type OutlineRepository struct {
	client *Client
}

// NewOutlineRepository 创建大纲仓储
func NewOutlineRepository(client *Client) *OutlineRepository {
	return &OutlineRepository{client: client}
}

// Create 创建大纲
func (r *OutlineRepository) Create(ctx context.Context, outline *entity.Outline) error {
	ctx, span := tracer.Start(ctx, "postgres.OutlineRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(outline).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create outline: %w", err)
	}
	return nil
}

// GetByProject 获取项目大纲
func (r *OutlineRepository) GetByProject(ctx context.Context, projectID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "postgres.OutlineRepository.GetByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var outline entity.Outline
	if err := db.First(&outline, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get outline: %w", err)
	}
	return &outline, nil
}

// Update 更新大纲
func (r *OutlineRepository) Update(ctx context.Context, outline *entity.Outline) error {
	ctx, span := tracer.Start(ctx, "postgres.OutlineRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(outline).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update outline: %w", err)
	}
	return nil
}

// Delete 删除项目大纲
func (r *OutlineRepository) Delete(ctx context.Context, projectID string) error {
	ctx, span := tracer.Start(ctx, "postgres.OutlineRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Outline{}, "project_id = ?", projectID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete outline: %w", err)
	}
	return nil
}
