// Package router 提供 HTTP 路由配置
package router

import (
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/handler"
	"longnovel-ai/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterHandlers 路由依赖的处理器集合
type RouterHandlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Tenant     *handler.TenantHandler
	Project    *handler.ProjectHandler
	Outline    *handler.OutlineHandler
	Foundation *handler.FoundationHandler
	Chapter    *handler.ChapterHandler
	Memory     *handler.MemoryHandler
	Retrieval  *handler.RetrievalHandler
	Job        *handler.JobHandler
}

// Router HTTP 路由器
type Router struct {
	engine    *gin.Engine
	cfg       *config.Config
	authCfg   middleware.AuthConfig
	limiter   middleware.RateLimiter
	tx        repository.Transactor
	tenantCtx repository.TenantContextManager
	handlers  RouterHandlers
}

// NewWithDeps 创建带完整依赖的路由器
func NewWithDeps(cfg *config.Config, authCfg middleware.AuthConfig, limiter middleware.RateLimiter,
	tx repository.Transactor, tenantCtx repository.TenantContextManager, handlers RouterHandlers) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:    gin.New(),
		cfg:       cfg,
		authCfg:   authCfg,
		limiter:   limiter,
		tx:        tx,
		tenantCtx: tenantCtx,
		handlers:  handlers,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	// 认证与租户上下文，Auth 解析 JWT 后由 Tenant 写入 request context
	r.engine.Use(middleware.Auth(r.authCfg))
	r.engine.Use(middleware.Tenant(middleware.TenantConfig{Enabled: true}))

	// 审计日志
	r.engine.Use(middleware.Audit())

	// 限流中间件，Key 按租户与路径划分
	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             r.cfg.Security.RateLimit.Burst,
	}, r.limiter))

	// 请求级事务与租户隔离，长耗时的生成类接口自行管理短事务
	r.engine.Use(middleware.DBTransaction(r.tx, r.tenantCtx))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// API v1 路由组
	v1 := r.engine.Group("/v1")
	RegisterV1Routes(v1, r.handlers)
}
