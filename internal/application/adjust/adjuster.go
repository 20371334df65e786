// Package adjust 实现统一的章节调整：
// 文风、节奏、人物关系、世界观、整体五个维度共用一条调整链，
// 调整稿重新过一致性检查后换版入库。
package adjust

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/application/consistency"
	"longnovel-ai/internal/application/memory"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	workflowchain "longnovel-ai/internal/workflow/chain"
	wfmodel "longnovel-ai/internal/workflow/model"
	apperrors "longnovel-ai/pkg/errors"
)

var tracer = otel.Tracer("application.adjust")

type Adjuster struct {
	projectRepo   repository.ProjectRepository
	chapterRepo   repository.ChapterRepository
	characterRepo repository.CharacterRepository
	worldRepo     repository.WorldRepository

	chain   *workflowchain.AdjustChain
	checker *consistency.Checker
	store   *memory.Store

	provider string
	model    string
}

func NewAdjuster(
	projectRepo repository.ProjectRepository,
	chapterRepo repository.ChapterRepository,
	characterRepo repository.CharacterRepository,
	worldRepo repository.WorldRepository,
	chain *workflowchain.AdjustChain,
	checker *consistency.Checker,
	store *memory.Store,
	llmCfg *config.LLMConfig,
) *Adjuster {
	a := &Adjuster{
		projectRepo:   projectRepo,
		chapterRepo:   chapterRepo,
		characterRepo: characterRepo,
		worldRepo:     worldRepo,
		chain:         chain,
		checker:       checker,
		store:         store,
	}
	if llmCfg != nil {
		a.provider = llmCfg.DefaultProvider
		if p, ok := llmCfg.Providers[llmCfg.DefaultProvider]; ok {
			a.model = p.Model
		}
	}
	return a
}

// Request 调整请求
type Request struct {
	TenantID    string
	ProjectID   string
	ChapterNum  int
	Axis        wfmodel.AdjustAxis
	Instruction string
}

// Result 调整结果。未通过一致性检查时原版保留，Applied 为 false。
type Result struct {
	Chapter *entity.Chapter
	Report  *entity.ConsistencyReport
	Applied bool
}

// Adjust 按指定维度重写一章。调整稿必须再次通过一致性检查
// 才会替换原文并递增版本号，否则丢弃并返回问题清单。
func (a *Adjuster) Adjust(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "adjust.Adjuster.Adjust",
		trace.WithAttributes(
			attribute.String("project_id", req.ProjectID),
			attribute.Int("chapter_num", req.ChapterNum),
			attribute.String("axis", string(req.Axis)),
		))
	defer span.End()

	if !req.Axis.Valid() {
		return nil, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("unknown adjust axis %q", req.Axis))
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "adjust instruction is required")
	}

	project, err := a.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeProjectNotFound, "project not found")
	}
	chapter, err := a.chapterRepo.GetBySeq(ctx, req.ProjectID, req.ChapterNum)
	if err != nil || chapter == nil {
		return nil, apperrors.ErrChapterNotFound
	}
	if chapter.ContentText == "" {
		return nil, apperrors.New(apperrors.CodeConflict,
			fmt.Sprintf("chapter %d has no content to adjust", req.ChapterNum))
	}

	memCtx, err := a.store.BuildContext(ctx, memory.ContextRequest{
		TenantID:    req.TenantID,
		Project:     project,
		ChapterNum:  chapter.SeqNum,
		ChapterGoal: chapter.Goal,
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeMemoryWriteFailed, "failed to build memory context")
	}

	in := &wfmodel.AdjustInput{
		Axis:          req.Axis,
		Instruction:   req.Instruction,
		ChapterNum:    chapter.SeqNum,
		ChapterTitle:  chapter.Title,
		Content:       chapter.ContentText,
		MemoryContext: memCtx.MemoryText,
		Provider:      a.provider,
		Model:         a.model,
	}
	if project.Settings != nil {
		in.WritingStyle = project.Settings.WritingStyle
	}

	out, err := a.chain.Invoke(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "adjust failed")
	}
	adjusted := strings.TrimSpace(out.Content)
	if adjusted == "" {
		return nil, apperrors.ErrLLMBadOutput
	}

	report, err := a.recheck(ctx, project.ID, chapter, adjusted)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !report.Passed {
		// 调整稿不达标时不动原文。
		return &Result{Chapter: chapter, Report: report, Applied: false}, nil
	}

	chapter.SetContent(adjusted)
	chapter.ApplyCheck(report)
	chapter.IncrementVersion()
	if err := a.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to persist adjusted chapter: %w", err)
	}
	return &Result{Chapter: chapter, Report: report, Applied: true}, nil
}

func (a *Adjuster) recheck(ctx context.Context, projectID string, chapter *entity.Chapter, content string) (*entity.ConsistencyReport, error) {
	characters, err := a.characterRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	world, err := a.worldRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list world settings: %w", err)
	}
	return a.checker.Check(ctx, &consistency.CheckInput{
		Content:     content,
		ChapterGoal: chapter.Goal,
		Characters:  characters,
		World:       world,
	}), nil
}
