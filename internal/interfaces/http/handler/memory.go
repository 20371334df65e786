package handler

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"longnovel-ai/internal/application/memory"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/dto"
	"longnovel-ai/internal/interfaces/http/middleware"
)

// MemoryHandler 分层记忆处理器
type MemoryHandler struct {
	store       *memory.Store
	projectRepo repository.ProjectRepository
	workspace   *config.WorkspaceConfig
}

// NewMemoryHandler 创建记忆处理器
func NewMemoryHandler(store *memory.Store, projectRepo repository.ProjectRepository, workspace *config.WorkspaceConfig) *MemoryHandler {
	return &MemoryHandler{
		store:       store,
		projectRepo: projectRepo,
		workspace:   workspace,
	}
}

// GetMemoryContext 预览指定章节位置的记忆上下文
// @Summary 预览记忆上下文
// @Tags Memory
// @Produce json
// @Param pid path string true "项目 ID"
// @Param chapter_num query int true "章节序号"
// @Param goal query string false "章节目标"
// @Success 200 {object} dto.Response[dto.MemoryContextResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/memory/context [get]
func (h *MemoryHandler) GetMemoryContext(c *gin.Context) {
	ctx := c.Request.Context()
	chapterNum, err := strconv.Atoi(c.Query("chapter_num"))
	if err != nil || chapterNum <= 0 {
		dto.BadRequest(c, "invalid chapter_num")
		return
	}

	project, err := h.projectRepo.GetByID(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}

	memCtx, err := h.store.BuildContext(ctx, memory.ContextRequest{
		TenantID:    middleware.GetTenantIDFromGin(c),
		Project:     project,
		ChapterNum:  chapterNum,
		ChapterGoal: c.Query("goal"),
	})
	if err != nil {
		respondError(c, err, "failed to build memory context")
		return
	}

	dto.Success(c, &dto.MemoryContextResponse{
		MemoryText:     memCtx.MemoryText,
		RetrievedText:  memCtx.RetrievedText,
		PreviousEnding: memCtx.PreviousEnding,
		CharacterCount: memCtx.CharacterCount,
		RecentCount:    memCtx.RecentCount,
		VolumeCount:    memCtx.VolumeCount,
	})
}

// ExportMemory 导出项目记忆快照到工作目录
// @Summary 导出记忆快照
// @Tags Memory
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.MemoryExportResponse]
// @Router /v1/projects/{pid}/memory/export [post]
func (h *MemoryHandler) ExportMemory(c *gin.Context) {
	path, err := h.store.Export(c.Request.Context(), dto.BindProjectID(c), h.workspace.MemoryDir, h.workspace.BackupKeep)
	if err != nil {
		respondError(c, err, "failed to export memory snapshot")
		return
	}
	dto.Success(c, &dto.MemoryExportResponse{Path: path})
}

// ImportMemory 从快照文件恢复项目记忆
// @Summary 导入记忆快照
// @Tags Memory
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.MemoryImportRequest true "快照路径"
// @Success 200 {object} dto.Response[dto.MemoryImportResponse]
// @Router /v1/projects/{pid}/memory/import [post]
func (h *MemoryHandler) ImportMemory(c *gin.Context) {
	var req dto.MemoryImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	path, err := resolveSnapshotPath(h.workspace.MemoryDir, req.Path)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	snapshot, err := h.store.Import(c.Request.Context(), dto.BindProjectID(c), path)
	if err != nil {
		respondError(c, err, "failed to import memory snapshot")
		return
	}
	dto.Success(c, &dto.MemoryImportResponse{
		Characters:       len(snapshot.Characters),
		WorldSettings:    len(snapshot.WorldSettings),
		ChapterSummaries: len(snapshot.ChapterSummaries),
		VolumeSummaries:  len(snapshot.VolumeSummaries),
		Events:           len(snapshot.Events),
		Threads:          len(snapshot.Threads),
	})
}

// resolveSnapshotPath 把客户端提供的快照路径锚定到记忆工作目录。
// 绝对路径与目录穿越一律拒绝，防止读取服务器上的任意文件；
// 导出接口返回的带目录前缀的路径可以原样传回。
func resolveSnapshotPath(memoryDir, name string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(name))
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("snapshot path is required")
	}
	sep := string(filepath.Separator)
	base := filepath.Clean(memoryDir)
	if cleaned == base || strings.HasPrefix(cleaned, base+sep) {
		return cleaned, nil
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("snapshot path must be relative to the memory dir")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+sep) {
		return "", fmt.Errorf("snapshot path escapes the memory dir")
	}
	return filepath.Join(base, cleaned), nil
}
