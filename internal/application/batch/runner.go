// Package batch 实现多章批量生成。
// 起草阶段受并发上限约束并行执行；定稿阶段严格按章节顺序串行，
// 保证每章提交时上一章的摘要与记忆已经就位。
package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"longnovel-ai/internal/application/generation"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"
)

var tracer = otel.Tracer("application.batch")

const (
	defaultWorkers = 3
	maxWorkers     = 3
	maxBatchSize   = 50
)

type Runner struct {
	gen         *generation.Service
	projectRepo repository.ProjectRepository
	outlineRepo repository.OutlineRepository
	chapterRepo repository.ChapterRepository
	jobRepo     repository.JobRepository
	workers     int
}

func NewRunner(
	gen *generation.Service,
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
	jobRepo repository.JobRepository,
	workers int,
) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &Runner{
		gen:         gen,
		projectRepo: projectRepo,
		outlineRepo: outlineRepo,
		chapterRepo: chapterRepo,
		jobRepo:     jobRepo,
		workers:     workers,
	}
}

// Request 批量生成请求，FromChapter 为 0 时从下一章开始。
type Request struct {
	TenantID    string
	ProjectID   string
	FromChapter int
	ToChapter   int
	JobID       string
}

// ChapterOutcome 单章结果
type ChapterOutcome struct {
	ChapterNum int    `json:"chapter_num"`
	Passed     bool   `json:"passed"`
	WordCount  int    `json:"word_count"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
}

// Result 批量生成汇总
type Result struct {
	FromChapter int              `json:"from_chapter"`
	ToChapter   int              `json:"to_chapter"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	Outcomes    []ChapterOutcome `json:"outcomes"`
}

// Run 执行批量生成。起草失败或定稿失败的章节不会中断后续章节，
// 全部结果汇总在 Result 里返回。
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "batch.Runner.Run",
		trace.WithAttributes(attribute.String("project_id", req.ProjectID)))
	defer span.End()
	log := logger.FromContext(ctx)

	from, to, err := r.resolveRange(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("from_chapter", from), attribute.Int("to_chapter", to))

	if req.JobID != "" {
		_ = r.jobRepo.UpdateStatus(ctx, req.JobID, entity.JobStatusRunning)
	}

	// 起草阶段：并行生成各章草稿。
	type draft struct {
		chapter *entity.Chapter
		err     error
	}
	drafts := make(map[int]*draft, to-from+1)
	for seq := from; seq <= to; seq++ {
		drafts[seq] = &draft{}
	}

	project, err := r.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeProjectNotFound, "project not found")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for seq := from; seq <= to; seq++ {
		seq := seq
		g.Go(func() error {
			d := drafts[seq]
			d.chapter, d.err = r.draftOne(gctx, req.TenantID, project, seq)
			if d.err != nil {
				logger.FromContext(gctx).Warn("chapter draft failed", "chapter_num", seq, "error", d.err)
			}
			return nil
		})
	}
	_ = g.Wait()

	// 定稿阶段：按章节顺序检查并写入记忆。
	result := &Result{FromChapter: from, ToChapter: to}
	total := to - from + 1
	for seq := from; seq <= to; seq++ {
		outcome := ChapterOutcome{ChapterNum: seq}
		d := drafts[seq]
		switch {
		case d.err != nil:
			outcome.Error = d.err.Error()
		default:
			res, err := r.gen.Commit(ctx, req.TenantID, project, d.chapter)
			if res != nil && res.Chapter != nil {
				outcome.WordCount = res.Chapter.WordCount
				outcome.Attempts = res.Attempts
			}
			if err != nil {
				outcome.Error = err.Error()
			} else {
				outcome.Passed = true
			}
		}
		if outcome.Passed {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if req.JobID != "" {
			_ = r.jobRepo.UpdateProgress(ctx, req.JobID, (seq-from+1)*100/total)
		}
	}

	log.Info("batch generation finished",
		"project_id", req.ProjectID,
		"from", from, "to", to,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	if req.JobID != "" {
		r.finishJob(ctx, req.JobID, result)
	}
	return result, nil
}

func (r *Runner) resolveRange(ctx context.Context, req Request) (int, int, error) {
	from := req.FromChapter
	if from <= 0 {
		next, err := r.chapterRepo.GetNextSeqNum(ctx, req.ProjectID)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to resolve next chapter: %w", err)
		}
		from = next
	}
	to := req.ToChapter
	if to < from {
		return 0, 0, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("invalid chapter range %d-%d", from, to))
	}
	if to-from+1 > maxBatchSize {
		return 0, 0, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("batch size %d exceeds limit %d", to-from+1, maxBatchSize))
	}

	outline, err := r.outlineRepo.GetByProject(ctx, req.ProjectID)
	if err != nil {
		return 0, 0, apperrors.Wrap(err, apperrors.CodeOutlineNotFound, "outline not found, generate it first")
	}
	if _, ok := outline.PlanFor(to); !ok {
		return 0, 0, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("chapter %d is beyond the outline", to))
	}
	return from, to, nil
}

func (r *Runner) draftOne(ctx context.Context, tenantID string, project *entity.Project, seqNum int) (*entity.Chapter, error) {
	outline, err := r.outlineRepo.GetByProject(ctx, project.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeOutlineNotFound, "outline not found")
	}
	plan, ok := outline.PlanFor(seqNum)
	if !ok {
		return nil, apperrors.New(apperrors.CodeInvalidParam, fmt.Sprintf("chapter %d is beyond the outline", seqNum))
	}

	chapter, err := r.chapterRepo.GetBySeq(ctx, project.ID, seqNum)
	if err != nil || chapter == nil {
		chapter = entity.NewChapter(project.ID, seqNum, plan.Title, plan.Goal)
		chapter.VolumeNum = outline.VolumeOf(seqNum)
		if err := r.chapterRepo.Create(ctx, chapter); err != nil {
			return nil, fmt.Errorf("failed to create chapter: %w", err)
		}
	} else if chapter.Status == entity.ChapterStatusChecked {
		return nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("chapter %d already checked", seqNum))
	}

	if err := r.gen.Draft(ctx, tenantID, project, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (r *Runner) finishJob(ctx context.Context, jobID string, result *Result) {
	job, err := r.jobRepo.GetByID(ctx, jobID)
	if err != nil || job == nil {
		return
	}
	payload, _ := json.Marshal(result)
	if result.Failed == 0 {
		job.Complete(payload)
	} else {
		job.OutputResult = payload
		job.Fail(fmt.Sprintf("%d of %d chapters failed", result.Failed, result.Failed+result.Succeeded))
	}
	if err := r.jobRepo.Update(ctx, job); err != nil {
		logger.FromContext(ctx).Warn("failed to finalize batch job", "job_id", jobID, "error", err)
	}
}
