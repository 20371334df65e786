package handler

import (
	"longnovel-ai/internal/application/foundation"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/dto"
	"longnovel-ai/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// FoundationHandler 角色与世界观设定处理器
type FoundationHandler struct {
	builder       *foundation.Builder
	characterRepo repository.CharacterRepository
	worldRepo     repository.WorldRepository
}

// NewFoundationHandler 创建设定处理器
func NewFoundationHandler(builder *foundation.Builder, characterRepo repository.CharacterRepository, worldRepo repository.WorldRepository) *FoundationHandler {
	return &FoundationHandler{
		builder:       builder,
		characterRepo: characterRepo,
		worldRepo:     worldRepo,
	}
}

// BuildFoundation 生成角色与世界观设定
// @Summary 生成角色与世界观设定
// @Tags Foundation
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 201 {object} dto.Response[dto.FoundationResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/foundation [post]
func (h *FoundationHandler) BuildFoundation(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromGin(c)
	result, err := h.builder.Build(c.Request.Context(), tenantID, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to build foundation")
		return
	}
	dto.Created(c, dto.ToFoundationResponse(result.Characters, result.World))
}

// ListCharacters 获取项目角色列表
// @Summary 获取角色列表
// @Tags Foundation
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[[]dto.CharacterResponse]
// @Router /v1/projects/{pid}/characters [get]
func (h *FoundationHandler) ListCharacters(c *gin.Context) {
	characters, err := h.characterRepo.ListByProject(c.Request.Context(), dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to list characters")
		return
	}
	resp := make([]*dto.CharacterResponse, 0, len(characters))
	for _, ch := range characters {
		resp = append(resp, dto.ToCharacterResponse(ch))
	}
	dto.Success(c, resp)
}

// UpdateCharacter 更新角色设定，零值字段保持不变
// @Summary 更新角色设定
// @Tags Foundation
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param cid path string true "角色 ID"
// @Param body body dto.UpdateCharacterRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.CharacterResponse]
// @Router /v1/projects/{pid}/characters/{cid} [put]
func (h *FoundationHandler) UpdateCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ch, err := h.characterRepo.GetByID(ctx, c.Param("cid"))
	if err != nil {
		respondError(c, err, "failed to get character")
		return
	}

	if len(req.Aliases) > 0 {
		ch.Aliases = req.Aliases
	}
	if len(req.Traits) > 0 {
		ch.Traits = req.Traits
	}
	if req.Motivation != "" {
		ch.Motivation = req.Motivation
	}
	if req.Background != "" {
		ch.Background = req.Background
	}
	if len(req.Relationships) > 0 {
		ch.Relationships = req.Relationships
	}
	if req.Importance > 0 {
		ch.Importance = entity.ClampImportance(req.Importance)
	}

	if err := h.characterRepo.Update(ctx, ch); err != nil {
		respondError(c, err, "failed to update character")
		return
	}
	dto.Success(c, dto.ToCharacterResponse(ch))
}

// ListWorldSettings 获取世界观条目，支持按类别过滤
// @Summary 获取世界观条目
// @Tags Foundation
// @Produce json
// @Param pid path string true "项目 ID"
// @Param category query string false "类别过滤"
// @Success 200 {object} dto.Response[[]dto.WorldSettingResponse]
// @Router /v1/projects/{pid}/world [get]
func (h *FoundationHandler) ListWorldSettings(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := dto.BindProjectID(c)

	var (
		settings []*entity.WorldSetting
		err      error
	)
	if category := c.Query("category"); category != "" {
		settings, err = h.worldRepo.ListByCategory(ctx, projectID, entity.WorldCategory(category))
	} else {
		settings, err = h.worldRepo.ListByProject(ctx, projectID)
	}
	if err != nil {
		respondError(c, err, "failed to list world settings")
		return
	}

	resp := make([]*dto.WorldSettingResponse, 0, len(settings))
	for _, w := range settings {
		resp = append(resp, dto.ToWorldSettingResponse(w))
	}
	dto.Success(c, resp)
}

// UpdateWorldSetting 更新世界观条目
// @Summary 更新世界观条目
// @Tags Foundation
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param wid path string true "条目 ID"
// @Param body body dto.UpdateWorldSettingRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.WorldSettingResponse]
// @Router /v1/projects/{pid}/world/{wid} [put]
func (h *FoundationHandler) UpdateWorldSetting(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateWorldSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	w, err := h.worldRepo.GetByID(ctx, c.Param("wid"))
	if err != nil {
		respondError(c, err, "failed to get world setting")
		return
	}

	if req.Detail != "" {
		w.Detail = req.Detail
	}
	if len(req.Constraints) > 0 {
		w.Constraints = req.Constraints
	}

	if err := h.worldRepo.Update(ctx, w); err != nil {
		respondError(c, err, "failed to update world setting")
		return
	}
	dto.Success(c, dto.ToWorldSettingResponse(w))
}
