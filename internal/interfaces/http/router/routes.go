// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h RouterHandlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/token", h.Auth.Token)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:pid", h.Project.GetProject)
		projects.PUT("/:pid", h.Project.UpdateProject)
		projects.DELETE("/:pid", h.Project.DeleteProject)
		projects.GET("/:pid/stats", h.Project.GetProjectStats)

		// 大纲
		projects.POST("/:pid/outline", h.Outline.GenerateOutline)
		projects.GET("/:pid/outline", h.Outline.GetOutline)

		// 角色与世界观设定
		projects.POST("/:pid/foundation", h.Foundation.BuildFoundation)
		projects.GET("/:pid/characters", h.Foundation.ListCharacters)
		projects.PUT("/:pid/characters/:cid", h.Foundation.UpdateCharacter)
		projects.GET("/:pid/world", h.Foundation.ListWorldSettings)
		projects.PUT("/:pid/world/:wid", h.Foundation.UpdateWorldSetting)

		// 章节生成
		projects.GET("/:pid/chapters", h.Chapter.ListChapters)
		projects.POST("/:pid/chapters/generate", h.Chapter.GenerateChapter)
		projects.POST("/:pid/chapters/batch", h.Chapter.BatchGenerate)
		projects.POST("/:pid/chapters/stream", h.Chapter.StreamChapter) // SSE
		projects.GET("/:pid/chapters/:num", h.Chapter.GetChapter)
		projects.DELETE("/:pid/chapters/:num", h.Chapter.DeleteChapter)
		projects.POST("/:pid/chapters/:num/adjust", h.Chapter.AdjustChapter)

		// 分层记忆
		projects.GET("/:pid/memory/context", h.Memory.GetMemoryContext)
		projects.POST("/:pid/memory/export", h.Memory.ExportMemory)
		projects.POST("/:pid/memory/import", h.Memory.ImportMemory)

		// 项目下的任务
		projects.GET("/:pid/jobs", h.Job.ListProjectJobs)
	}

	// 检索调试
	retrieval := v1.Group("/retrieval")
	{
		retrieval.POST("/search", h.Retrieval.Search)
		retrieval.POST("/debug", h.Retrieval.DebugSearch)
	}

	// 任务管理
	jobs := v1.Group("/jobs")
	{
		jobs.GET("/:jid", h.Job.GetJob)
		jobs.DELETE("/:jid", h.Job.CancelJob)
	}

	// 租户管理
	tenants := v1.Group("/tenants")
	{
		tenants.GET("/current", h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", h.Tenant.UpdateCurrentTenant)
	}
}
