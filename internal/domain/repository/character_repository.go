// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// CharacterRepository 角色仓储接口
type CharacterRepository interface {
	// Create 创建角色
	Create(ctx context.Context, character *entity.Character) error

	// CreateBatch 批量创建角色
	CreateBatch(ctx context.Context, characters []*entity.Character) error

	// GetByID 根据 ID 获取角色
	GetByID(ctx context.Context, id string) (*entity.Character, error)

	// GetByName 根据项目和名字获取角色
	GetByName(ctx context.Context, projectID, name string) (*entity.Character, error)

	// Update 更新角色
	Update(ctx context.Context, character *entity.Character) error

	// Delete 删除角色
	Delete(ctx context.Context, id string) error

	// ListByProject 获取项目全部角色
	ListByProject(ctx context.Context, projectID string) ([]*entity.Character, error)

	// ListProtagonists 获取主角列表
	ListProtagonists(ctx context.Context, projectID string) ([]*entity.Character, error)
}
