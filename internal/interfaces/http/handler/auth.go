// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/dto"
	"longnovel-ai/internal/interfaces/http/middleware"
	"longnovel-ai/pkg/logger"
	"longnovel-ai/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler 租户级认证处理器。
// 以租户为主体签发 JWT，没有独立的用户体系。
type AuthHandler struct {
	jwtManager *utils.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
	tenantRepo repository.TenantRepository
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg middleware.AuthConfig, accessTTL, refreshTTL time.Duration, tenantRepo repository.TenantRepository) *AuthHandler {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		jwtManager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tenantRepo: tenantRepo,
	}
}

// Register 注册租户并签发首个令牌对
// @Summary 注册租户
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterTenantRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	exists, err := h.tenantRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		logger.Error(ctx, "failed to check tenant slug", err)
		dto.InternalError(c, "failed to register tenant")
		return
	}
	if exists {
		dto.Conflict(c, "tenant slug already taken")
		return
	}

	tenant := entity.NewTenant(req.Name, req.Slug)
	if err := h.tenantRepo.Create(ctx, tenant); err != nil {
		logger.Error(ctx, "failed to create tenant", err)
		dto.InternalError(c, "failed to register tenant")
		return
	}

	h.issue(c, tenant)
}

// Token 按租户标识换取令牌对
// @Summary 获取访问令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.TokenRequest true "租户标识"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tenant, err := h.tenantRepo.GetBySlug(ctx, req.TenantSlug)
	if err != nil || tenant == nil {
		dto.NotFound(c, "tenant not found")
		return
	}
	if !tenant.IsActive() {
		dto.Forbidden(c, "tenant is not active")
		return
	}

	h.issue(c, tenant)
}

// RefreshToken 刷新令牌对
// @Summary 刷新访问令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "刷新令牌"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	claims, err := h.jwtManager.ParseToken(req.RefreshToken)
	if err != nil || claims.Type != "refresh" {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}

	tenant, err := h.tenantRepo.GetByID(ctx, claims.TenantID)
	if err != nil || tenant == nil || !tenant.IsActive() {
		dto.Unauthorized(c, "tenant unavailable")
		return
	}

	h.issue(c, tenant)
}

func (h *AuthHandler) issue(c *gin.Context, tenant *entity.Tenant) {
	pair, err := h.jwtManager.GenerateTokenPair(tenant.ID, "", "owner", h.accessTTL, h.refreshTTL)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to generate tokens", err)
		dto.InternalError(c, "failed to generate tokens")
		return
	}
	resp := &dto.AuthResponse{
		TenantID:     tenant.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.accessTTL.Seconds()),
	}
	if c.Request.Method == "POST" && c.FullPath() == "/v1/auth/register" {
		dto.Created(c, resp)
		return
	}
	dto.Success(c, resp)
}
