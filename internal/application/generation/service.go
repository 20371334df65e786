// Package generation 编排单章生成：
// 组装记忆上下文、调用生成链、一致性检查、失败重写、摘要与记忆回写。
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/application/consistency"
	"longnovel-ai/internal/application/memory"
	"longnovel-ai/internal/application/summarize"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	workflowchain "longnovel-ai/internal/workflow/chain"
	wfmodel "longnovel-ai/internal/workflow/model"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"
	"longnovel-ai/pkg/metrics"
)

var tracer = otel.Tracer("application.generation")

type Service struct {
	projectRepo   repository.ProjectRepository
	outlineRepo   repository.OutlineRepository
	chapterRepo   repository.ChapterRepository
	characterRepo repository.CharacterRepository
	worldRepo     repository.WorldRepository
	summaryRepo   repository.SummaryRepository

	chain      *workflowchain.ChapterChain
	checker    *consistency.Checker
	summarizer *summarize.Summarizer
	store      *memory.Store

	provider   string
	model      string
	maxRetries int
}

func NewService(
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
	characterRepo repository.CharacterRepository,
	worldRepo repository.WorldRepository,
	summaryRepo repository.SummaryRepository,
	chain *workflowchain.ChapterChain,
	checker *consistency.Checker,
	summarizer *summarize.Summarizer,
	store *memory.Store,
	llmCfg *config.LLMConfig,
	genCfg *config.GenerationConfig,
) *Service {
	s := &Service{
		projectRepo:   projectRepo,
		outlineRepo:   outlineRepo,
		chapterRepo:   chapterRepo,
		characterRepo: characterRepo,
		worldRepo:     worldRepo,
		summaryRepo:   summaryRepo,
		chain:         chain,
		checker:       checker,
		summarizer:    summarizer,
		store:         store,
		maxRetries:    2,
	}
	if llmCfg != nil {
		s.provider = llmCfg.DefaultProvider
		if p, ok := llmCfg.Providers[llmCfg.DefaultProvider]; ok {
			s.model = p.Model
		}
	}
	if genCfg != nil && genCfg.MaxRetries > 0 {
		s.maxRetries = genCfg.MaxRetries
	}
	return s
}

// GenerateRequest 单章生成请求。
// ChapterNum 为 0 时生成下一章；Title/Goal 为空时取大纲规划。
type GenerateRequest struct {
	TenantID   string
	ProjectID  string
	ChapterNum int
	Title      string
	Goal       string
}

// GenerateResult 生成结果与过程信息
type GenerateResult struct {
	Chapter  *entity.Chapter
	Summary  *entity.ChapterSummary
	Attempts int
}

// GenerateChapter 生成一章并完成全部后置处理。
// 一致性检查不通过时带着问题清单重写，重写次数用尽后保留
// 最后一稿并标记失败，由调用方决定重试或人工修订。
func (s *Service) GenerateChapter(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateChapter",
		trace.WithAttributes(attribute.String("project_id", req.ProjectID)))
	defer span.End()

	metrics.ActiveGenerations.Inc()
	defer metrics.ActiveGenerations.Dec()
	start := time.Now()

	project, outline, err := s.loadProject(ctx, req.ProjectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	chapter, err := s.prepareChapter(ctx, project, outline, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("chapter_num", chapter.SeqNum))

	if err := s.Draft(ctx, req.TenantID, project, chapter); err != nil {
		metrics.ChapterGenerationTotal.WithLabelValues(req.TenantID, "failed").Inc()
		span.RecordError(err)
		return nil, err
	}
	result, err := s.Commit(ctx, req.TenantID, project, chapter)

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.ChapterGenerationTotal.WithLabelValues(req.TenantID, status).Inc()
	metrics.ChapterGenerationDuration.WithLabelValues(req.TenantID).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		// 一致性失败时 result 仍带着保留的草稿。
		return result, err
	}
	metrics.ChapterWordCount.WithLabelValues(req.TenantID).Observe(float64(chapter.WordCount))
	return result, nil
}

func (s *Service) loadProject(ctx context.Context, projectID string) (*entity.Project, *entity.Outline, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeProjectNotFound, "project not found")
	}
	if !project.IsEditable() {
		return nil, nil, apperrors.New(apperrors.CodeConflict, "project is not writable in its current status")
	}
	outline, err := s.outlineRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeOutlineNotFound, "outline not found, generate it first")
	}
	return project, outline, nil
}

// prepareChapter 解析章节定位，复用已有记录或按大纲新建。
func (s *Service) prepareChapter(ctx context.Context, project *entity.Project, outline *entity.Outline, req GenerateRequest) (*entity.Chapter, error) {
	seqNum := req.ChapterNum
	if seqNum <= 0 {
		next, err := s.chapterRepo.GetNextSeqNum(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve next chapter: %w", err)
		}
		seqNum = next
	}

	existing, err := s.chapterRepo.GetBySeq(ctx, project.ID, seqNum)
	if err == nil && existing != nil {
		if existing.Status == entity.ChapterStatusChecked {
			return nil, apperrors.New(apperrors.CodeConflict,
				fmt.Sprintf("chapter %d already generated and checked", seqNum))
		}
		if req.Title != "" {
			existing.Title = req.Title
		}
		if req.Goal != "" {
			existing.Goal = req.Goal
		}
		return existing, nil
	}

	title, goal := req.Title, req.Goal
	if title == "" || goal == "" {
		plan, ok := outline.PlanFor(seqNum)
		if !ok {
			return nil, apperrors.New(apperrors.CodeInvalidParam,
				fmt.Sprintf("chapter %d is beyond the outline, regenerate the outline first", seqNum))
		}
		if title == "" {
			title = plan.Title
		}
		if goal == "" {
			goal = plan.Goal
		}
	}

	chapter := entity.NewChapter(project.ID, seqNum, title, goal)
	chapter.VolumeNum = outline.VolumeOf(seqNum)
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}
	return chapter, nil
}

// Draft 生成一稿正文并落库，不做一致性检查。
// 批量流程用它并发起草，再按章节顺序 Commit。
func (s *Service) Draft(ctx context.Context, tenantID string, project *entity.Project, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "generation.Service.Draft",
		trace.WithAttributes(attribute.Int("chapter_num", chapter.SeqNum)))
	defer span.End()

	chapter.Status = entity.ChapterStatusGenerating
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return fmt.Errorf("failed to mark chapter generating: %w", err)
	}

	in, err := s.chainInput(ctx, tenantID, project, chapter, "")
	if err != nil {
		span.RecordError(err)
		return err
	}
	msg, err := s.chain.Invoke(ctx, in)
	if err != nil {
		chapter.Status = entity.ChapterStatusFailed
		_ = s.chapterRepo.Update(ctx, chapter)
		span.RecordError(err)
		return apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "chapter generation failed")
	}

	chapter.SetContent(strings.TrimSpace(msg.Content))
	chapter.Status = entity.ChapterStatusGenerated
	chapter.Generation = &entity.GenerationMetadata{
		Model:       s.model,
		Provider:    s.provider,
		Attempts:    1,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

// Commit 对已有草稿做一致性检查，不过则带反馈重写，
// 通过后生成摘要并回写记忆层。
func (s *Service) Commit(ctx context.Context, tenantID string, project *entity.Project, chapter *entity.Chapter) (*GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.Commit",
		trace.WithAttributes(attribute.Int("chapter_num", chapter.SeqNum)))
	defer span.End()
	log := logger.FromContext(ctx)

	characters, err := s.characterRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	world, err := s.worldRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list world settings: %w", err)
	}
	prevSummary := ""
	if chapter.SeqNum > 1 {
		if cs, err := s.summaryRepo.GetChapterSummary(ctx, project.ID, chapter.SeqNum-1); err == nil && cs != nil {
			prevSummary = cs.Text
		}
	}

	check := func(content string) *entity.ConsistencyReport {
		return s.checker.Check(ctx, &consistency.CheckInput{
			Content:         content,
			ChapterGoal:     chapter.Goal,
			Characters:      characters,
			World:           world,
			PreviousSummary: prevSummary,
		})
	}

	attempts := chapter.Generation.AttemptsOrOne()
	report := check(chapter.ContentText)
	for !report.Passed && attempts <= s.maxRetries {
		metrics.ChapterGenerationRetries.WithLabelValues(tenantID).Inc()
		log.Info("consistency check failed, rewriting",
			"chapter_num", chapter.SeqNum,
			"attempt", attempts,
			"overall", report.Overall,
			"issues", len(report.Issues))

		in, err := s.chainInput(ctx, tenantID, project, chapter, strings.Join(report.Issues, "\n"))
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		msg, err := s.chain.Invoke(ctx, in)
		if err != nil {
			chapter.Status = entity.ChapterStatusFailed
			_ = s.chapterRepo.Update(ctx, chapter)
			span.RecordError(err)
			return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "chapter rewrite failed")
		}
		attempts++
		chapter.SetContent(strings.TrimSpace(msg.Content))
		report = check(chapter.ContentText)
	}

	chapter.ApplyCheck(report)
	if chapter.Generation == nil {
		chapter.Generation = &entity.GenerationMetadata{Model: s.model, Provider: s.provider}
	}
	chapter.Generation.Attempts = attempts
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to persist chapter: %w", err)
	}

	// 未通过的稿子保留在库里供人工修订，但不进入记忆层。
	if !report.Passed {
		return &GenerateResult{Chapter: chapter, Attempts: attempts},
			apperrors.ErrConsistencyFailed.WithDetail(strings.Join(report.Issues, "; "))
	}

	summary := s.summarizer.SummarizeChapter(ctx, project.ID, chapter)
	if err := s.store.Update(ctx, tenantID, project, chapter, summary); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMemoryWriteFailed, "failed to update memory")
	}
	return &GenerateResult{Chapter: chapter, Summary: summary, Attempts: attempts}, nil
}

// chainInput 组装生成链输入，记忆上下文按章缓存，重写时命中缓存。
func (s *Service) chainInput(ctx context.Context, tenantID string, project *entity.Project, chapter *entity.Chapter, feedback string) (*wfmodel.ChapterGenerateInput, error) {
	memCtx, err := s.store.BuildContext(ctx, memory.ContextRequest{
		TenantID:    tenantID,
		Project:     project,
		ChapterNum:  chapter.SeqNum,
		ChapterGoal: chapter.Goal,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMemoryWriteFailed, "failed to build memory context")
	}

	in := &wfmodel.ChapterGenerateInput{
		ProjectTitle:     project.Title,
		Premise:          project.Premise,
		Genre:            project.Genre,
		ChapterNum:       chapter.SeqNum,
		ChapterTitle:     chapter.Title,
		ChapterGoal:      chapter.Goal,
		MemoryContext:    memCtx.MemoryText,
		RetrievedContext: memCtx.RetrievedText,
		PreviousEnding:   memCtx.PreviousEnding,
		RevisionFeedback: feedback,
		TargetWordCount:  project.Settings.ChapterWordsOrDefault(),
		Provider:         s.provider,
		Model:            s.model,
	}
	if project.Settings != nil {
		in.WritingStyle = project.Settings.WritingStyle
		in.POV = project.Settings.POV
		if project.Settings.Temperature > 0 {
			t := float32(project.Settings.Temperature)
			in.Temperature = &t
		}
	}
	return in, nil
}
