// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// OutlineRepository 大纲仓储接口
type OutlineRepository interface {
	// Create 创建大纲
	Create(ctx context.Context, outline *entity.Outline) error

	// GetByProject 获取项目大纲
	GetByProject(ctx context.Context, projectID string) (*entity.Outline, error)

	// Update 更新大纲
	Update(ctx context.Context, outline *entity.Outline) error

	// Delete 删除大纲
	Delete(ctx context.Context, projectID string) error
}
