package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"longnovel-ai/internal/application/adjust"
	"longnovel-ai/internal/application/batch"
	"longnovel-ai/internal/application/generation"
	"longnovel-ai/internal/application/quota"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/infrastructure/messaging"
	"longnovel-ai/internal/interfaces/http/dto"
	"longnovel-ai/internal/interfaces/http/middleware"
	wfmodel "longnovel-ai/internal/workflow/model"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"
)

// ChapterHandler 章节处理器
type ChapterHandler struct {
	gen          *generation.Service
	runner       *batch.Runner
	adjuster     *adjust.Adjuster
	chapterRepo  repository.ChapterRepository
	jobRepo      repository.JobRepository
	tenantRepo   repository.TenantRepository
	producer     *messaging.Producer
	quotaChecker *quota.TokenQuotaChecker
	txMgr        repository.Transactor
	tenantCtx    repository.TenantContextManager
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(
	gen *generation.Service,
	runner *batch.Runner,
	adjuster *adjust.Adjuster,
	chapterRepo repository.ChapterRepository,
	jobRepo repository.JobRepository,
	tenantRepo repository.TenantRepository,
	producer *messaging.Producer,
	quotaChecker *quota.TokenQuotaChecker,
	txMgr repository.Transactor,
	tenantCtx repository.TenantContextManager,
) *ChapterHandler {
	return &ChapterHandler{
		gen:          gen,
		runner:       runner,
		adjuster:     adjuster,
		chapterRepo:  chapterRepo,
		jobRepo:      jobRepo,
		tenantRepo:   tenantRepo,
		producer:     producer,
		quotaChecker: quotaChecker,
		txMgr:        txMgr,
		tenantCtx:    tenantCtx,
	}
}

// checkQuota 生成前校验租户 Token 余额
func (h *ChapterHandler) checkQuota(c *gin.Context, tenantID string) bool {
	ctx := c.Request.Context()
	tenant, err := h.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		respondError(c, err, "failed to get tenant")
		return false
	}
	if err := precheckQuota(ctx, h.quotaChecker, tenant); err != nil {
		respondError(c, err, "quota check failed")
		return false
	}
	return true
}

// ListChapters 获取章节列表，正文不随列表返回
// @Summary 获取章节列表
// @Tags Chapters
// @Produce json
// @Param pid path string true "项目 ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态过滤"
// @Param volume query int false "卷号过滤"
// @Success 200 {object} dto.Response[dto.ChapterListResponse]
// @Router /v1/projects/{pid}/chapters [get]
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	pageReq := dto.BindPage(c)

	var filter *repository.ChapterFilter
	status := c.Query("status")
	volume, _ := strconv.Atoi(c.Query("volume"))
	if status != "" || volume > 0 {
		filter = &repository.ChapterFilter{
			VolumeNum: volume,
			Status:    entity.ChapterStatus(status),
		}
	}

	result, err := h.chapterRepo.ListByProject(c.Request.Context(), dto.BindProjectID(c), filter,
		repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		respondError(c, err, "failed to list chapters")
		return
	}
	dto.SuccessWithPage(c, dto.ToChapterListResponse(result.Items),
		dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total)))
}

// GetChapter 获取章节详情，含正文
// @Summary 获取章节详情
// @Tags Chapters
// @Produce json
// @Param pid path string true "项目 ID"
// @Param num path int true "章节序号"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/{num} [get]
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	seqNum, err := strconv.Atoi(c.Param("num"))
	if err != nil || seqNum <= 0 {
		dto.BadRequest(c, "invalid chapter number")
		return
	}

	ch, err := h.chapterRepo.GetBySeq(c.Request.Context(), dto.BindProjectID(c), seqNum)
	if err != nil {
		respondError(c, err, "failed to get chapter")
		return
	}
	dto.Success(c, dto.ToChapterResponse(ch, true))
}

// DeleteChapter 删除章节
// @Summary 删除章节
// @Tags Chapters
// @Param pid path string true "项目 ID"
// @Param num path int true "章节序号"
// @Success 204
// @Router /v1/projects/{pid}/chapters/{num} [delete]
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	ctx := c.Request.Context()
	seqNum, err := strconv.Atoi(c.Param("num"))
	if err != nil || seqNum <= 0 {
		dto.BadRequest(c, "invalid chapter number")
		return
	}

	ch, err := h.chapterRepo.GetBySeq(ctx, dto.BindProjectID(c), seqNum)
	if err != nil {
		respondError(c, err, "failed to get chapter")
		return
	}
	if err := h.chapterRepo.Delete(ctx, ch.ID); err != nil {
		respondError(c, err, "failed to delete chapter")
		return
	}
	dto.NoContent(c)
}

// GenerateChapter 生成单章。
// 同步模式走完整的生成、校验、重写与记忆更新流程；
// async 为 true 时创建 generation_job 并投递消息，由 worker 消费。
// @Summary 生成单章
// @Tags Chapters
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.GenerateChapterRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerateChapterResponse]
// @Success 202 {object} dto.Response[dto.EnqueuedResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/generate [post]
func (h *ChapterHandler) GenerateChapter(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.GenerateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if !h.checkQuota(c, tenantID) {
		return
	}

	if req.Async {
		h.enqueueGenJob(c, tenantID, projectID, entity.JobTypeChapterGen, req.ChapterNum, map[string]interface{}{
			"chapter_num": req.ChapterNum,
			"title":       req.Title,
			"goal":        req.Goal,
		})
		return
	}

	result, err := h.gen.GenerateChapter(ctx, generation.GenerateRequest{
		TenantID:   tenantID,
		ProjectID:  projectID,
		ChapterNum: req.ChapterNum,
		Title:      req.Title,
		Goal:       req.Goal,
	})
	if err != nil && !errors.Is(err, apperrors.ErrConsistencyFailed) {
		respondError(c, err, "failed to generate chapter")
		return
	}

	// 一致性未达标的章节以 failed 状态返回，由调用方决定是否人工修订
	resp := &dto.GenerateChapterResponse{
		Chapter:  dto.ToChapterResponse(result.Chapter, true),
		Attempts: result.Attempts,
	}
	if result.Summary != nil {
		resp.Summary = result.Summary.Text
	}
	dto.Success(c, resp)
}

// BatchGenerate 批量生成章节
// @Summary 批量生成章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.BatchGenerateRequest true "批量生成请求"
// @Success 200 {object} dto.Response[dto.BatchGenerateResponse]
// @Success 202 {object} dto.Response[dto.EnqueuedResponse]
// @Router /v1/projects/{pid}/chapters/batch [post]
func (h *ChapterHandler) BatchGenerate(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	projectID := dto.BindProjectID(c)

	var req dto.BatchGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if !h.checkQuota(c, tenantID) {
		return
	}

	if req.Async {
		h.enqueueGenJob(c, tenantID, projectID, entity.JobTypeBatchGen, 0, map[string]interface{}{
			"from_chapter": req.FromChapter,
			"to_chapter":   req.ToChapter,
		})
		return
	}

	result, err := h.runner.Run(ctx, batch.Request{
		TenantID:    tenantID,
		ProjectID:   projectID,
		FromChapter: req.FromChapter,
		ToChapter:   req.ToChapter,
	})
	if err != nil {
		respondError(c, err, "failed to run batch generation")
		return
	}

	resp := &dto.BatchGenerateResponse{
		FromChapter: result.FromChapter,
		ToChapter:   result.ToChapter,
		Succeeded:   result.Succeeded,
		Failed:      result.Failed,
	}
	for _, o := range result.Outcomes {
		resp.Outcomes = append(resp.Outcomes, &dto.BatchOutcomeResponse{
			ChapterNum: o.ChapterNum,
			Passed:     o.Passed,
			WordCount:  o.WordCount,
			Attempts:   o.Attempts,
			Error:      o.Error,
		})
	}
	dto.Success(c, resp)
}

// AdjustChapter 按指定维度调整已生成章节
// @Summary 调整章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param num path int true "章节序号"
// @Param body body dto.AdjustChapterRequest true "调整请求"
// @Success 200 {object} dto.Response[dto.AdjustChapterResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/{num}/adjust [post]
func (h *ChapterHandler) AdjustChapter(c *gin.Context) {
	ctx := c.Request.Context()
	seqNum, err := strconv.Atoi(c.Param("num"))
	if err != nil || seqNum <= 0 {
		dto.BadRequest(c, "invalid chapter number")
		return
	}

	var req dto.AdjustChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.adjuster.Adjust(ctx, adjust.Request{
		TenantID:    middleware.GetTenantIDFromGin(c),
		ProjectID:   dto.BindProjectID(c),
		ChapterNum:  seqNum,
		Axis:        wfmodel.AdjustAxis(req.Axis),
		Instruction: req.Instruction,
	})
	if err != nil {
		respondError(c, err, "failed to adjust chapter")
		return
	}
	dto.Success(c, &dto.AdjustChapterResponse{
		Chapter: dto.ToChapterResponse(result.Chapter, true),
		Report:  dto.ToConsistencyReportResponse(result.Report),
		Applied: result.Applied,
	})
}

// StreamChapter 通过 SSE 流式生成章节初稿。
// 流式路径不做一致性重写，完整流程需走同步生成接口。
// @Summary 流式生成章节
// @Tags Chapters
// @Accept json
// @Produce text/event-stream
// @Param pid path string true "项目 ID"
// @Param body body dto.GenerateChapterRequest true "生成请求"
// @Success 200 "SSE stream"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/stream [post]
func (h *ChapterHandler) StreamChapter(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	var req dto.GenerateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if !h.checkQuota(c, tenantID) {
		return
	}

	reader, result, err := h.gen.StreamDraft(ctx, generation.GenerateRequest{
		TenantID:   tenantID,
		ProjectID:  dto.BindProjectID(c),
		ChapterNum: req.ChapterNum,
		Title:      req.Title,
		Goal:       req.Goal,
	})
	if err != nil {
		respondError(c, err, "failed to start chapter stream")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	contentCh := make(chan string, 16)
	doneCh := make(chan *entity.Chapter, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(contentCh)
		defer close(doneCh)
		defer close(errCh)
		defer reader.Close()

		var raw strings.Builder
		for {
			msg, recvErr := reader.Recv()
			if errors.Is(recvErr, io.EOF) {
				break
			}
			if recvErr != nil {
				errCh <- recvErr
				result.Chapter.Status = entity.ChapterStatusFailed
				if updateErr := h.chapterRepo.Update(ctx, result.Chapter); updateErr != nil {
					logger.Error(ctx, "failed to mark streamed chapter failed", updateErr)
				}
				return
			}
			if msg.Content != "" {
				raw.WriteString(msg.Content)
				contentCh <- msg.Content
			}
		}

		chapter := result.Chapter
		chapter.SetContent(strings.TrimSpace(raw.String()))
		chapter.Status = entity.ChapterStatusGenerated
		if updateErr := h.chapterRepo.Update(ctx, chapter); updateErr != nil {
			errCh <- updateErr
			return
		}
		doneCh <- chapter
	}()

	index := 0
	c.Stream(func(w io.Writer) bool {
		return streamTick(c, ctx, contentCh, doneCh, errCh, &index)
	})
}

// streamTick 消费一次生成流并写出对应 SSE 事件，返回 false 表示流结束。
// 内容通道读到关闭后才取终止信号：生产者按 errCh、doneCh、contentCh 的
// 逆序关闭通道，contentCh 关闭时终止信号已写入（均带缓冲），直接读取
// 不会阻塞，done 事件也不会因 select 随机性被丢弃。
func streamTick(c *gin.Context, ctx context.Context, contentCh <-chan string, doneCh <-chan *entity.Chapter, errCh <-chan error, index *int) bool {
	select {
	case chunk, ok := <-contentCh:
		if !ok {
			if streamErr := <-errCh; streamErr != nil {
				c.SSEvent("error", gin.H{"message": streamErr.Error()})
				return false
			}
			if chapter := <-doneCh; chapter != nil {
				c.SSEvent("done", gin.H{
					"chapter_num": chapter.SeqNum,
					"word_count":  chapter.WordCount,
				})
			}
			return false
		}
		c.SSEvent("content", gin.H{"chunk": chunk, "index": *index})
		*index = *index + 1
		return true

	case <-ctx.Done():
		return false
	}
}

// enqueueGenJob 创建 generation_job 并投递 Redis Stream，返回 202
func (h *ChapterHandler) enqueueGenJob(c *gin.Context, tenantID, projectID string, jobType entity.JobType, chapterNum int, params map[string]interface{}) {
	ctx := c.Request.Context()

	inputParams, _ := json.Marshal(params)
	job := entity.NewGenerationJob(tenantID, projectID, jobType, inputParams)
	job.ChapterNum = chapterNum
	if key := strings.TrimSpace(c.GetHeader("Idempotency-Key")); key != "" {
		if existing, err := h.jobRepo.GetByIdempotencyKey(ctx, key); err == nil && existing != nil {
			dto.Accepted(c, &dto.EnqueuedResponse{JobID: existing.ID})
			return
		}
		job.IdempotencyKey = key
	}

	if err := withTenantTx(ctx, h.txMgr, h.tenantCtx, tenantID, func(txCtx context.Context) error {
		return h.jobRepo.Create(txCtx, job)
	}); err != nil {
		respondError(c, err, "failed to create generation job")
		return
	}

	if _, err := h.producer.PublishGenJob(ctx, &messaging.GenerationJobMessage{
		JobID:          job.ID,
		TenantID:       tenantID,
		ProjectID:      projectID,
		ChapterNum:     chapterNum,
		JobType:        string(jobType),
		Priority:       job.Priority,
		IdempotencyKey: job.IdempotencyKey,
		Params:         params,
	}); err != nil {
		logger.Error(ctx, "failed to publish generation job", err, "job_id", job.ID)
		job.Fail("failed to publish job message")
		if updateErr := h.jobRepo.Update(ctx, job); updateErr != nil {
			logger.Warn(ctx, "failed to mark job failed", "job_id", job.ID, "error", updateErr)
		}
		dto.InternalError(c, "failed to enqueue generation job")
		return
	}

	dto.Accepted(c, &dto.EnqueuedResponse{JobID: job.ID})
}
