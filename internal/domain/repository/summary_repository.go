// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"longnovel-ai/internal/domain/entity"
)

// SummaryRepository 摘要仓储接口（章节摘要与卷摘要）
type SummaryRepository interface {
	// CreateChapterSummary 创建章节摘要
	CreateChapterSummary(ctx context.Context, summary *entity.ChapterSummary) error

	// GetChapterSummary 获取指定章节摘要
	GetChapterSummary(ctx context.Context, projectID string, chapterNum int) (*entity.ChapterSummary, error)

	// ListRecentSummaries 获取最近 N 章摘要（按章节号升序返回）
	ListRecentSummaries(ctx context.Context, projectID string, limit int) ([]*entity.ChapterSummary, error)

	// ListSummaryRange 获取章节号区间内的摘要（升序）
	ListSummaryRange(ctx context.Context, projectID string, fromChapter, toChapter int) ([]*entity.ChapterSummary, error)

	// ListAllSummaries 获取项目全部章节摘要（升序）
	ListAllSummaries(ctx context.Context, projectID string) ([]*entity.ChapterSummary, error)

	// CreateVolumeSummary 创建卷摘要
	CreateVolumeSummary(ctx context.Context, summary *entity.VolumeSummary) error

	// ListVolumeSummaries 获取项目全部卷摘要（按卷号升序）
	ListVolumeSummaries(ctx context.Context, projectID string) ([]*entity.VolumeSummary, error)
}
