// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// ThreadRepository 情节线索仓储接口
type ThreadRepository interface {
	// Create 创建线索
	Create(ctx context.Context, thread *entity.PlotThread) error

	// CreateBatch 批量创建线索
	CreateBatch(ctx context.Context, threads []*entity.PlotThread) error

	// Update 更新线索
	Update(ctx context.Context, thread *entity.PlotThread) error

	// ListOpen 获取未收束的线索（按开启章节升序）
	ListOpen(ctx context.Context, projectID string, limit int) ([]*entity.PlotThread, error)

	// ListByProject 获取项目全部线索
	ListByProject(ctx context.Context, projectID string) ([]*entity.PlotThread, error)

	// CountOpen 统计未收束线索数量
	CountOpen(ctx context.Context, projectID string) (int, error)
}
