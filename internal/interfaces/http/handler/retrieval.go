package handler

import (
	"github.com/gin-gonic/gin"

	appretrieval "longnovel-ai/internal/application/retrieval"
	"longnovel-ai/internal/interfaces/http/dto"
	"longnovel-ai/internal/interfaces/http/middleware"
)

// RetrievalHandler 向量检索处理器
type RetrievalHandler struct {
	engine *appretrieval.Engine
}

// NewRetrievalHandler 创建检索处理器
func NewRetrievalHandler(engine *appretrieval.Engine) *RetrievalHandler {
	return &RetrievalHandler{engine: engine}
}

// Search 语义检索章节片段与角色档案
// @Summary 语义检索
// @Tags Retrieval
// @Accept json
// @Produce json
// @Param body body dto.RetrievalSearchRequest true "检索请求"
// @Success 200 {object} dto.Response[dto.RetrievalSearchResponse]
// @Router /v1/retrieval/search [post]
func (h *RetrievalHandler) Search(c *gin.Context) {
	h.search(c, false)
}

// DebugSearch 带调试信息的语义检索
// @Summary 语义检索（调试）
// @Tags Retrieval
// @Accept json
// @Produce json
// @Param body body dto.RetrievalSearchRequest true "检索请求"
// @Success 200 {object} dto.Response[dto.RetrievalSearchResponse]
// @Router /v1/retrieval/debug [post]
func (h *RetrievalHandler) DebugSearch(c *gin.Context) {
	h.search(c, true)
}

func (h *RetrievalHandler) search(c *gin.Context, debug bool) {
	var req dto.RetrievalSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	in := appretrieval.SearchInput{
		TenantID:          middleware.GetTenantIDFromGin(c),
		ProjectID:         req.ProjectID,
		Query:             req.Query,
		CurrentChapterNum: req.CurrentChapterNum,
		TopK:              req.TopK,
		SegmentTypes:      req.SegmentTypes,
		IncludeCharacters: req.IncludeCharacters,
	}

	search := h.engine.Search
	if debug {
		search = h.engine.DebugSearch
	}
	out, err := search(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to search")
		return
	}
	dto.Success(c, dto.ToRetrievalSearchResponse(out))
}
