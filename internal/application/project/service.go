// Package project 提供项目生命周期管理。
package project

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/infrastructure/persistence/redis"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"
)

var tracer = otel.Tracer("application.project")

type Service struct {
	projectRepo repository.ProjectRepository
	chapterRepo repository.ChapterRepository
	cache       *redis.Cache
}

func NewService(projectRepo repository.ProjectRepository, chapterRepo repository.ChapterRepository, cache *redis.Cache) *Service {
	return &Service{projectRepo: projectRepo, chapterRepo: chapterRepo, cache: cache}
}

// CreateInput 建项参数。TargetWords 低于下限直接拒绝。
type CreateInput struct {
	TenantID    string
	Title       string
	Premise     string
	Genre       string
	TargetWords int
	Settings    *entity.ProjectSettings
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "project.Service.Create")
	defer span.End()

	if in.Title == "" || in.Premise == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "title and premise are required")
	}
	p, err := entity.NewProject(in.TenantID, in.Title, in.Premise, in.TargetWords)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTargetWordsTooLow, "target words below minimum").
			WithDetail(fmt.Sprintf("minimum is %d", entity.MinTargetWords))
	}
	p.Genre = in.Genre
	if in.Settings != nil {
		merge(p.Settings, in.Settings)
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	span.SetAttributes(attribute.String("project_id", p.ID))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Project, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeProjectNotFound, "project not found")
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter *repository.ProjectFilter, page, pageSize int) (*repository.PagedResult[*entity.Project], error) {
	return s.projectRepo.List(ctx, filter, repository.NewPagination(page, pageSize))
}

// UpdateInput 可更新字段，零值跳过。
type UpdateInput struct {
	Title    string
	Premise  string
	Genre    string
	Settings *entity.ProjectSettings
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "project.Service.Update",
		trace.WithAttributes(attribute.String("project_id", id)))
	defer span.End()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsEditable() {
		return nil, apperrors.New(apperrors.CodeConflict, "project is not editable in its current status")
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Premise != "" {
		p.Premise = in.Premise
	}
	if in.Genre != "" {
		p.Genre = in.Genre
	}
	if in.Settings != nil {
		if p.Settings == nil {
			p.Settings = &entity.ProjectSettings{}
		}
		merge(p.Settings, in.Settings)
	}
	if err := s.projectRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateProject(ctx, p.TenantID, p.ID); err != nil {
			logger.FromContext(ctx).Warn("failed to invalidate project cache", "error", err)
		}
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	ctx, span := tracer.Start(ctx, "project.Service.Delete",
		trace.WithAttributes(attribute.String("project_id", id)))
	defer span.End()

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateProject(ctx, tenantID, id); err != nil {
			logger.FromContext(ctx).Warn("failed to invalidate project cache", "error", err)
		}
	}
	return nil
}

// Stats 返回项目写作进度统计。
func (s *Service) Stats(ctx context.Context, id string) (*repository.ProjectStats, error) {
	stats, err := s.projectRepo.GetStats(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeProjectNotFound, "project not found")
	}
	return stats, nil
}

// merge 把非零设置覆盖到现有设置上。
func merge(dst, src *entity.ProjectSettings) {
	if src.ChapterWords > 0 {
		dst.ChapterWords = src.ChapterWords
	}
	if src.WritingStyle != "" {
		dst.WritingStyle = src.WritingStyle
	}
	if src.POV != "" {
		dst.POV = src.POV
	}
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
	if src.RecentWindow > 0 {
		dst.RecentWindow = src.RecentWindow
	}
	if src.VolumeSize > 0 {
		dst.VolumeSize = src.VolumeSize
	}
	if src.MaxGenRetries > 0 {
		dst.MaxGenRetries = src.MaxGenRetries
	}
}
