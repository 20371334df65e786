// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// WorldRepository 世界观仓储接口
type WorldRepository interface {
	// Create 创建世界观条目
	Create(ctx context.Context, setting *entity.WorldSetting) error

	// CreateBatch 批量创建世界观条目
	CreateBatch(ctx context.Context, settings []*entity.WorldSetting) error

	// GetByID 根据 ID 获取条目
	GetByID(ctx context.Context, id string) (*entity.WorldSetting, error)

	// Update 更新条目
	Update(ctx context.Context, setting *entity.WorldSetting) error

	// Delete 删除条目
	Delete(ctx context.Context, id string) error

	// ListByProject 获取项目全部世界观条目
	ListByProject(ctx context.Context, projectID string) ([]*entity.WorldSetting, error)

	// ListByCategory 按分类获取条目
	ListByCategory(ctx context.Context, projectID string, category entity.WorldCategory) ([]*entity.WorldSetting, error)
}
