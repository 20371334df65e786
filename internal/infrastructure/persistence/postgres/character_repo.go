// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"longnovel-ai/internal/domain/entity"
)

// CharacterRepository 角色仓储实现
type CharacterRepository struct {
	client *Client
}

// NewCharacterRepository 创建角色仓储
func NewCharacterRepository(client *Client) *CharacterRepository {
	return &CharacterRepository{client: client}
}

// Create 创建角色
func (r *CharacterRepository) Create(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(character).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// CreateBatch 批量创建角色
func (r *CharacterRepository) CreateBatch(ctx context.Context, characters []*entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.CreateBatch")
	defer span.End()

	if len(characters) == 0 {
		return nil
	}
	db := getDB(ctx, r.client.db)
	if err := db.CreateInBatches(characters, 50).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create characters: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取角色
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var character entity.Character
	if err := db.First(&character, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return &character, nil
}

// GetByName 根据项目和名字获取角色
func (r *CharacterRepository) GetByName(ctx context.Context, projectID, name string) (*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.GetByName")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var character entity.Character
	if err := db.Where("project_id = ? AND name = ?", projectID, name).First(&character).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get character by name: %w", err)
	}
	return &character, nil
}

// Update 更新角色
func (r *CharacterRepository) Update(ctx context.Context, character *entity.Character) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(character).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Delete 删除角色
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Character{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

// ListByProject 获取项目全部角色（按重要性倒序）
func (r *CharacterRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var characters []*entity.Character
	if err := db.Where("project_id = ?", projectID).
		Order("importance DESC, name ASC").
		Find(&characters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// ListProtagonists 获取主角列表
func (r *CharacterRepository) ListProtagonists(ctx context.Context, projectID string) ([]*entity.Character, error) {
	ctx, span := tracer.Start(ctx, "postgres.CharacterRepository.ListProtagonists")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var characters []*entity.Character
	if err := db.Where("project_id = ? AND role = ?", projectID, entity.RoleProtagonist).
		Order("importance DESC").
		Find(&characters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list protagonists: %w", err)
	}
	return characters, nil
}
