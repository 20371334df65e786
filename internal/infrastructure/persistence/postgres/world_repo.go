// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"longnovel-ai/internal/domain/entity"
)

// WorldRepository 世界观仓储实现
type WorldRepository struct {
	client *Client
}

// NewWorldRepository 创建世界观仓储
func NewWorldRepository(client *Client) *WorldRepository {
	return &WorldRepository{client: client}
}

// Create 创建世界观条目
func (r *WorldRepository) Create(ctx context.Context, setting *entity.WorldSetting) error {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(setting).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create world setting: %w", err)
	}
	return nil
}

// CreateBatch 批量创建世界观条目
func (r *WorldRepository) CreateBatch(ctx context.Context, settings []*entity.WorldSetting) error {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.CreateBatch")
	defer span.End()

	if len(settings) == 0 {
		return nil
	}
	db := getDB(ctx, r.client.db)
	if err := db.CreateInBatches(settings, 50).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create world settings: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取条目
func (r *WorldRepository) GetByID(ctx context.Context, id string) (*entity.WorldSetting, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var setting entity.WorldSetting
	if err := db.First(&setting, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get world setting: %w", err)
	}
	return &setting, nil
}

// Update 更新条目
func (r *WorldRepository) Update(ctx context.Context, setting *entity.WorldSetting) error {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(setting).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update world setting: %w", err)
	}
	return nil
}

// Delete 删除条目
func (r *WorldRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.WorldSetting{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete world setting: %w", err)
	}
	return nil
}

// ListByProject 获取项目全部世界观条目
func (r *WorldRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.WorldSetting, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var settings []*entity.WorldSetting
	if err := db.Where("project_id = ?", projectID).
		Order("category ASC, name ASC").
		Find(&settings).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list world settings: %w", err)
	}
	return settings, nil
}

// ListByCategory 按分类获取条目
func (r *WorldRepository) ListByCategory(ctx context.Context, projectID string, category entity.WorldCategory) ([]*entity.WorldSetting, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorldRepository.ListByCategory")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var settings []*entity.WorldSetting
	if err := db.Where("project_id = ? AND category = ?", projectID, category).
		Order("name ASC").
		Find(&settings).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list world settings by category: %w", err)
	}
	return settings, nil
}
