// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
)

// ProjectRepository 项目仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取项目
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var project entity.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// Update 更新项目
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// Delete 删除项目
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Project{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// List 获取项目列表
func (r *ProjectRepository) List(ctx context.Context, filter *repository.ProjectFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Project{})

	if filter != nil {
		if filter.Genre != "" {
			query = query.Where("genre = ?", filter.Genre)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []*entity.Project
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&projects).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return repository.NewPagedResult(projects, total, pagination), nil
}

// UpdateStatus 更新项目状态
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status entity.ProjectStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.UpdateStatus")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Project{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return nil
}

// AdvanceProgress 推进写作进度
func (r *ProjectRepository) AdvanceProgress(ctx context.Context, id string, chapterNum, wordDelta int) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.AdvanceProgress")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Model(&entity.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_chapter": chapterNum,
		"current_words":   gorm.Expr("current_words + ?", wordDelta),
		"status":          entity.ProjectStatusWriting,
	}).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to advance project progress: %w", err)
	}
	return nil
}

// GetStats 获取项目统计信息
func (r *ProjectRepository) GetStats(ctx context.Context, id string) (*repository.ProjectStats, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetStats")
	defer span.End()

	db := getDB(ctx, r.client.db)
	stats := &repository.ProjectStats{}

	row := db.Raw(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'checked'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(SUM(word_count), 0),
			COALESCE(AVG((consistency->>'overall')::float) FILTER (WHERE consistency IS NOT NULL), 0)
		FROM chapters WHERE project_id = ?`, id).Row()
	if err := row.Scan(&stats.TotalChapters, &stats.CheckedChapters, &stats.FailedChapters,
		&stats.TotalWords, &stats.MeanConsistency); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project stats: %w", err)
	}

	var openThreads int64
	if err := db.Model(&entity.PlotThread{}).
		Where("project_id = ? AND status = ?", id, entity.ThreadStatusOpen).
		Count(&openThreads).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count open threads: %w", err)
	}
	stats.OpenPlotThreads = int(openThreads)

	var characters int64
	if err := db.Model(&entity.Character{}).Where("project_id = ?", id).Count(&characters).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count characters: %w", err)
	}
	stats.CharacterCount = int(characters)

	return stats, nil
}
