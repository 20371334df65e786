package handler

import (
	"longnovel-ai/internal/application/outline"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// OutlineHandler 大纲处理器
type OutlineHandler struct {
	generator   *outline.Generator
	outlineRepo repository.OutlineRepository
}

// NewOutlineHandler 创建大纲处理器
func NewOutlineHandler(generator *outline.Generator, outlineRepo repository.OutlineRepository) *OutlineHandler {
	return &OutlineHandler{generator: generator, outlineRepo: outlineRepo}
}

// GenerateOutline 基于项目创意生成三幕式大纲
// @Summary 生成大纲
// @Tags Outline
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 201 {object} dto.Response[dto.OutlineResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/outline [post]
func (h *OutlineHandler) GenerateOutline(c *gin.Context) {
	o, err := h.generator.Generate(c.Request.Context(), dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to generate outline")
		return
	}
	dto.Created(c, dto.ToOutlineResponse(o))
}

// GetOutline 获取项目大纲
// @Summary 获取大纲
// @Tags Outline
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.OutlineResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/outline [get]
func (h *OutlineHandler) GetOutline(c *gin.Context) {
	o, err := h.outlineRepo.GetByProject(c.Request.Context(), dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get outline")
		return
	}
	dto.Success(c, dto.ToOutlineResponse(o))
}
