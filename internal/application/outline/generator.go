// Package outline 负责大纲生成与解析。
package outline

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	workflowchain "longnovel-ai/internal/workflow/chain"
	wfmodel "longnovel-ai/internal/workflow/model"
	workflowport "longnovel-ai/internal/workflow/port"
	apperrors "longnovel-ai/pkg/errors"
)

var tracer = otel.Tracer("application.outline")

// maxParseRetries 大纲 JSON 解析失败后的重试次数。
const maxParseRetries = 2

type Generator struct {
	chain       *workflowchain.OutlineChain
	projectRepo repository.ProjectRepository
	outlineRepo repository.OutlineRepository

	provider string
	model    string
}

func NewGenerator(factory workflowport.ChatModelFactory, projectRepo repository.ProjectRepository, outlineRepo repository.OutlineRepository, provider, model string) *Generator {
	return &Generator{
		chain:       workflowchain.NewOutlineChain(factory),
		projectRepo: projectRepo,
		outlineRepo: outlineRepo,
		provider:    provider,
		model:       model,
	}
}

// Generate 为项目生成大纲并落库。已有大纲时版本号递增并覆盖。
func (g *Generator) Generate(ctx context.Context, projectID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "outline.Generator.Generate",
		trace.WithAttributes(attribute.String("project_id", projectID)))
	defer span.End()

	project, err := g.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if project.TargetWords < entity.MinTargetWords {
		return nil, apperrors.ErrTargetWordsTooLow
	}

	estimated := project.EstimatedChapters()
	in := &wfmodel.OutlineGenerateInput{
		Premise:      project.Premise,
		Genre:        project.Genre,
		TargetWords:  project.TargetWords,
		ChapterWords: project.Settings.ChapterWordsOrDefault(),
		EstimatedQty: estimated,
		WritingStyle: project.Style,
		Provider:     g.provider,
		Model:        g.model,
	}

	var out *wfmodel.OutlineGenerateOutput
	for attempt := 0; ; attempt++ {
		out, err = g.chain.Invoke(ctx, in)
		if err == nil {
			break
		}
		if attempt >= maxParseRetries {
			span.RecordError(err)
			return nil, apperrors.Wrap(err, apperrors.CodeLLMBadOutput, "outline generation failed")
		}
	}

	outline, err := buildOutline(projectID, out.Plan, estimated, project.Settings.VolumeSizeOrDefault())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if existing, getErr := g.outlineRepo.GetByProject(ctx, projectID); getErr == nil && existing != nil {
		outline.ID = existing.ID
		outline.Version = existing.Version + 1
		if err := g.outlineRepo.Update(ctx, outline); err != nil {
			span.RecordError(err)
			return nil, err
		}
		return outline, nil
	}

	if err := g.outlineRepo.Create(ctx, outline); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return outline, nil
}

// buildOutline 将模型输出转换为大纲实体，并校验章节规划完整性。
func buildOutline(projectID string, plan *wfmodel.OutlinePlanJSON, estimatedChapters, volumeSize int) (*entity.Outline, error) {
	if plan == nil || len(plan.Chapters) == 0 {
		return nil, apperrors.New(apperrors.CodeLLMBadOutput, "outline plan has no chapters")
	}

	chapters := make([]entity.ChapterPlan, 0, len(plan.Chapters))
	for i, c := range plan.Chapters {
		title := strings.TrimSpace(c.Title)
		goal := strings.TrimSpace(c.Goal)
		if goal == "" {
			return nil, apperrors.New(apperrors.CodeLLMBadOutput, fmt.Sprintf("chapter %d has empty goal", i+1))
		}
		seq := c.SeqNum
		if seq <= 0 {
			seq = i + 1
		}
		chapters = append(chapters, entity.ChapterPlan{
			SeqNum:         seq,
			Title:          title,
			Goal:           goal,
			EstimatedWords: c.EstimatedWords,
		})
	}
	if len(chapters) < entity.MinChapters {
		return nil, apperrors.New(apperrors.CodeLLMBadOutput, fmt.Sprintf("outline has %d chapters, need at least %d", len(chapters), entity.MinChapters))
	}

	// 重新编号并分卷
	for i := range chapters {
		chapters[i].SeqNum = i + 1
	}
	volumes := splitVolumes(chapters, volumeSize)

	actTwo, actEnd := entity.ActBoundaries(len(chapters))
	outline := &entity.Outline{
		ProjectID: projectID,
		Synopsis:  strings.TrimSpace(plan.Theme),
		Volumes:   volumes,
		ActTwoAt:  actTwo,
		ActEndAt:  actEnd,
		Version:   1,
	}
	if t := strings.TrimSpace(plan.Title); t != "" {
		outline.Themes = entity.StringSlice{t}
	}
	return outline, nil
}

func splitVolumes(chapters []entity.ChapterPlan, volumeSize int) []entity.VolumePlan {
	if volumeSize <= 0 {
		volumeSize = 20
	}
	volumes := make([]entity.VolumePlan, 0, len(chapters)/volumeSize+1)
	for start := 0; start < len(chapters); start += volumeSize {
		end := start + volumeSize
		if end > len(chapters) {
			end = len(chapters)
		}
		volumes = append(volumes, entity.VolumePlan{
			SeqNum:   len(volumes) + 1,
			Title:    fmt.Sprintf("第%d卷", len(volumes)+1),
			Chapters: chapters[start:end],
		})
	}
	return volumes
}
