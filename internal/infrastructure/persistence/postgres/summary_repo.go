// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"longnovel-ai/internal/domain/entity"
)

// SummaryRepository 摘要仓储实现
type SummaryRepository struct {
	client *Client
}

// NewSummaryRepository 创建摘要仓储
func NewSummaryRepository(client *Client) *SummaryRepository {
	return &SummaryRepository{client: client}
}

// CreateChapterSummary 创建章节摘要
func (r *SummaryRepository) CreateChapterSummary(ctx context.Context, summary *entity.ChapterSummary) error {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.CreateChapterSummary")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(summary).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chapter summary: %w", err)
	}
	return nil
}

// GetChapterSummary 获取指定章节摘要
func (r *SummaryRepository) GetChapterSummary(ctx context.Context, projectID string, chapterNum int) (*entity.ChapterSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.GetChapterSummary")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var summary entity.ChapterSummary
	if err := db.Where("project_id = ? AND chapter_num = ?", projectID, chapterNum).
		First(&summary).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chapter summary: %w", err)
	}
	return &summary, nil
}

// ListRecentSummaries 获取最近 N 章摘要，按章节号升序返回
func (r *SummaryRepository) ListRecentSummaries(ctx context.Context, projectID string, limit int) ([]*entity.ChapterSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.ListRecentSummaries")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var summaries []*entity.ChapterSummary
	if err := db.Where("project_id = ?", projectID).
		Order("chapter_num DESC").
		Limit(limit).
		Find(&summaries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list recent summaries: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ChapterNum < summaries[j].ChapterNum
	})
	return summaries, nil
}

// ListSummaryRange 获取章节号区间内的摘要（升序）
func (r *SummaryRepository) ListSummaryRange(ctx context.Context, projectID string, fromChapter, toChapter int) ([]*entity.ChapterSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.ListSummaryRange")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var summaries []*entity.ChapterSummary
	if err := db.Where("project_id = ? AND chapter_num >= ? AND chapter_num <= ?", projectID, fromChapter, toChapter).
		Order("chapter_num ASC").
		Find(&summaries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list summary range: %w", err)
	}
	return summaries, nil
}

// ListAllSummaries 获取项目全部章节摘要（升序）
func (r *SummaryRepository) ListAllSummaries(ctx context.Context, projectID string) ([]*entity.ChapterSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.ListAllSummaries")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var summaries []*entity.ChapterSummary
	if err := db.Where("project_id = ?", projectID).
		Order("chapter_num ASC").
		Find(&summaries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list all summaries: %w", err)
	}
	return summaries, nil
}

// CreateVolumeSummary 创建卷摘要
func (r *SummaryRepository) CreateVolumeSummary(ctx context.Context, summary *entity.VolumeSummary) error {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.CreateVolumeSummary")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(summary).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create volume summary: %w", err)
	}
	return nil
}

// ListVolumeSummaries 获取项目全部卷摘要（按卷号升序）
func (r *SummaryRepository) ListVolumeSummaries(ctx context.Context, projectID string) ([]*entity.VolumeSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.SummaryRepository.ListVolumeSummaries")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var summaries []*entity.VolumeSummary
	if err := db.Where("project_id = ?", projectID).
		Order("volume_num ASC").
		Find(&summaries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list volume summaries: %w", err)
	}
	return summaries, nil
}
