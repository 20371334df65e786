// Package handler 提供 HTTP 请求处理器
package handler

import (
	"longnovel-ai/internal/application/project"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/dto"
	"longnovel-ai/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	svc *project.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *project.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// CreateProject 创建项目
// @Summary 创建小说项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Create(ctx, req.ToInput(tenantID))
	if err != nil {
		respondError(c, err, "failed to create project")
		return
	}
	dto.Created(c, dto.ToProjectResponse(p))
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Tags Projects
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态过滤"
// @Param genre query string false "题材过滤"
// @Success 200 {object} dto.Response[dto.ProjectListResponse]
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	pageReq := dto.BindPage(c)

	var filter *repository.ProjectFilter
	status, genre := c.Query("status"), c.Query("genre")
	if status != "" || genre != "" {
		filter = &repository.ProjectFilter{
			Status: entity.ProjectStatus(status),
			Genre:  genre,
		}
	}

	result, err := h.svc.List(ctx, filter, pageReq.Page, pageReq.PageSize)
	if err != nil {
		respondError(c, err, "failed to list projects")
		return
	}
	resp := dto.ToProjectListResponse(result.Items)
	dto.SuccessWithPage(c, resp, dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total)))
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}
	dto.Success(c, dto.ToProjectResponse(p))
}

// UpdateProject 更新项目
// @Summary 更新项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), dto.BindProjectID(c), project.UpdateInput{
		Title:    req.Title,
		Premise:  req.Premise,
		Genre:    req.Genre,
		Settings: req.Settings.ToEntity(),
	})
	if err != nil {
		respondError(c, err, "failed to update project")
		return
	}
	dto.Success(c, dto.ToProjectResponse(p))
}

// DeleteProject 删除项目
// @Summary 删除项目
// @Tags Projects
// @Param pid path string true "项目 ID"
// @Success 204
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromGin(c)
	if err := h.svc.Delete(c.Request.Context(), tenantID, dto.BindProjectID(c)); err != nil {
		respondError(c, err, "failed to delete project")
		return
	}
	dto.NoContent(c)
}

// GetProjectStats 获取项目进度统计
// @Summary 获取项目进度统计
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectStatsResponse]
// @Router /v1/projects/{pid}/stats [get]
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	projectID := dto.BindProjectID(c)
	p, err := h.svc.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "failed to get project stats")
		return
	}

	resp := &dto.ProjectStatsResponse{
		TotalChapters:   stats.TotalChapters,
		CheckedChapters: stats.CheckedChapters,
		FailedChapters:  stats.FailedChapters,
		TotalWords:      stats.TotalWords,
		MeanConsistency: stats.MeanConsistency,
		OpenPlotThreads: stats.OpenPlotThreads,
		CharacterCount:  stats.CharacterCount,
	}
	if p.TargetWords > 0 {
		resp.Progress = float64(stats.TotalWords) / float64(p.TargetWords)
	}
	dto.Success(c, resp)
}
