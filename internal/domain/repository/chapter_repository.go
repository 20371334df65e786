// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// ChapterFilter 章节过滤条件
type ChapterFilter struct {
	VolumeNum int
	Status    entity.ChapterStatus
}

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// Create 创建章节
	Create(ctx context.Context, chapter *entity.Chapter) error

	// GetByID 根据 ID 获取章节
	GetByID(ctx context.Context, id string) (*entity.Chapter, error)

	// Update 更新章节
	Update(ctx context.Context, chapter *entity.Chapter) error

	// Delete 删除章节
	Delete(ctx context.Context, id string) error

	// ListByProject 获取项目章节列表
	ListByProject(ctx context.Context, projectID string, filter *ChapterFilter, pagination Pagination) (*PagedResult[*entity.Chapter], error)

	// GetBySeq 根据项目和序号获取章节
	GetBySeq(ctx context.Context, projectID string, seqNum int) (*entity.Chapter, error)

	// GetRecent 获取最近完成的章节（按序号倒序）
	GetRecent(ctx context.Context, projectID string, limit int) ([]*entity.Chapter, error)

	// GetNextSeqNum 获取下一个章节序号
	GetNextSeqNum(ctx context.Context, projectID string) (int, error)

	// UpdateStatus 更新章节状态
	UpdateStatus(ctx context.Context, id string, status entity.ChapterStatus) error

	// ListRange 获取序号区间内的章节（升序）
	ListRange(ctx context.Context, projectID string, fromSeq, toSeq int) ([]*entity.Chapter, error)
}
