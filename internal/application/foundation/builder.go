// Package foundation 负责角色与世界观设定的生成与落库。
package foundation

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/application/retrieval"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	workflowchain "longnovel-ai/internal/workflow/chain"
	wfmodel "longnovel-ai/internal/workflow/model"
	workflowport "longnovel-ai/internal/workflow/port"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"
)

var tracer = otel.Tracer("application.foundation")

const maxGenRetries = 2

type Builder struct {
	chain         *workflowchain.FoundationChain
	projectRepo   repository.ProjectRepository
	outlineRepo   repository.OutlineRepository
	characterRepo repository.CharacterRepository
	worldRepo     repository.WorldRepository
	tx            repository.Transactor
	indexer       *retrieval.Indexer

	provider string
	model    string
}

func NewBuilder(
	factory workflowport.ChatModelFactory,
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	characterRepo repository.CharacterRepository,
	worldRepo repository.WorldRepository,
	tx repository.Transactor,
	indexer *retrieval.Indexer,
	provider, model string,
) *Builder {
	return &Builder{
		chain:         workflowchain.NewFoundationChain(factory),
		projectRepo:   projectRepo,
		outlineRepo:   outlineRepo,
		characterRepo: characterRepo,
		worldRepo:     worldRepo,
		tx:            tx,
		indexer:       indexer,
		provider:      provider,
		model:         model,
	}
}

type BuildResult struct {
	Characters []*entity.Character
	World      []*entity.WorldSetting
}

// Build 基于项目创意与大纲概要生成角色与世界观设定，事务落库后写入向量档案。
func (b *Builder) Build(ctx context.Context, tenantID, projectID string) (*BuildResult, error) {
	ctx, span := tracer.Start(ctx, "foundation.Builder.Build",
		trace.WithAttributes(attribute.String("project_id", projectID)))
	defer span.End()

	project, err := b.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	outlineBrief := ""
	if outline, getErr := b.outlineRepo.GetByProject(ctx, projectID); getErr == nil && outline != nil {
		outlineBrief = outlineBriefText(outline)
	}

	in := &wfmodel.FoundationGenerateInput{
		ProjectTitle: project.Title,
		Premise:      project.Premise,
		Genre:        project.Genre,
		OutlineBrief: outlineBrief,
		Provider:     b.provider,
		Model:        b.model,
	}

	var out *wfmodel.FoundationGenerateOutput
	for attempt := 0; ; attempt++ {
		out, err = b.chain.Invoke(ctx, in)
		if err == nil {
			break
		}
		if attempt >= maxGenRetries {
			span.RecordError(err)
			return nil, apperrors.Wrap(err, apperrors.CodeLLMBadOutput, "foundation generation failed")
		}
	}

	characters, world, err := parseFoundation(projectID, out.Foundation)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	err = b.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := b.characterRepo.CreateBatch(txCtx, characters); err != nil {
			return err
		}
		return b.worldRepo.CreateBatch(txCtx, world)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 向量档案写入为 best-effort：失败只降级语义检索，不影响设定落库。
	if b.indexer != nil && b.indexer.Enabled() {
		log := logger.FromContext(ctx)
		if err := b.indexer.IndexCharacters(ctx, tenantID, projectID, characters); err != nil {
			log.Warn("failed to index character profiles", "error", err)
		}
		if err := b.indexer.IndexWorldSettings(ctx, tenantID, projectID, world); err != nil {
			log.Warn("failed to index world profiles", "error", err)
		}
	}

	return &BuildResult{Characters: characters, World: world}, nil
}

// parseFoundation 校验模型输出并转换为实体。主角必须恰好一名。
func parseFoundation(projectID string, f *wfmodel.FoundationJSON) ([]*entity.Character, []*entity.WorldSetting, error) {
	if f == nil || len(f.Characters) == 0 {
		return nil, nil, apperrors.New(apperrors.CodeLLMBadOutput, "foundation has no characters")
	}

	characters := make([]*entity.Character, 0, len(f.Characters))
	protagonists := 0
	for _, c := range f.Characters {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		role := entity.CharacterRole(strings.TrimSpace(c.Role))
		switch role {
		case entity.RoleProtagonist, entity.RoleAntagonist, entity.RoleSupporting:
		default:
			role = entity.RoleSupporting
		}
		if role == entity.RoleProtagonist {
			protagonists++
		}
		ch := entity.NewCharacter(projectID, name, role, c.Importance)
		ch.Aliases = entity.StringSlice(c.Aliases)
		ch.Traits = entity.StringSlice(c.Traits)
		ch.Motivation = strings.TrimSpace(c.Motivation)
		ch.Background = strings.TrimSpace(c.Background)
		ch.Relationships = c.Relationships
		characters = append(characters, ch)
	}
	if protagonists != 1 {
		return nil, nil, apperrors.New(apperrors.CodeLLMBadOutput, "foundation must have exactly one protagonist")
	}

	world := make([]*entity.WorldSetting, 0, len(f.World))
	for _, w := range f.World {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		category := entity.WorldCategory(strings.TrimSpace(w.Category))
		if !entity.ValidCategory(category) {
			category = entity.WorldCategorySociety
		}
		world = append(world, &entity.WorldSetting{
			ProjectID:   projectID,
			Category:    category,
			Name:        name,
			Detail:      strings.TrimSpace(w.Detail),
			Constraints: entity.StringSlice(w.Constraints),
		})
	}

	return characters, world, nil
}

func outlineBriefText(o *entity.Outline) string {
	var sb strings.Builder
	if s := strings.TrimSpace(o.Synopsis); s != "" {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	for _, v := range o.Volumes {
		for _, c := range v.Chapters {
			// 只取前三分之一章节的目标，控制 Prompt 长度。
			if c.SeqNum > o.ActTwoAt {
				break
			}
			sb.WriteString(strings.TrimSpace(c.Goal))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
