package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
)

// Engine 负责生成前的记忆召回：向量检索章节/摘要片段，并按查询命中角色名。
type Engine struct {
	embedder  embedding.Embedder
	vector    VectorRepository
	character repository.CharacterRepository

	embeddingBatchSize int
}

func NewEngine(embedder embedding.Embedder, vectorRepo VectorRepository, characterRepo repository.CharacterRepository, embeddingBatchSize int) *Engine {
	bs := embeddingBatchSize
	if bs <= 0 {
		bs = defaultEmbeddingBatch
	}
	return &Engine{
		embedder:           embedder,
		vector:             vectorRepo,
		character:          characterRepo,
		embeddingBatchSize: bs,
	}
}

func (e *Engine) Enabled() bool {
	return e != nil && e.embedder != nil && e.vector != nil
}

func (e *Engine) ensureReady(ctx context.Context) error {
	if e == nil || e.vector == nil {
		return ErrVectorDisabled
	}
	return e.vector.EnsureCollections(ctx)
}

func (e *Engine) Search(ctx context.Context, in SearchInput) (*SearchOutput, error) {
	return e.search(ctx, in, false)
}

func (e *Engine) DebugSearch(ctx context.Context, in SearchInput) (*SearchOutput, error) {
	return e.search(ctx, in, true)
}

func (e *Engine) search(ctx context.Context, in SearchInput, forceDebug bool) (*SearchOutput, error) {
	if in.TopK <= 0 {
		in.TopK = 10
	}
	if in.TopK > 50 {
		in.TopK = 50
	}
	in.Query = strings.TrimSpace(in.Query)
	in.TenantID = strings.TrimSpace(in.TenantID)
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	if in.TenantID == "" || in.ProjectID == "" {
		return nil, fmt.Errorf("tenant_id and project_id are required")
	}
	if in.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	out := &SearchOutput{}

	var dbg *DebugInfo
	if forceDebug {
		dbg = &DebugInfo{}
	}

	// 1) 向量召回（可降级）
	if e.Enabled() {
		if err := e.ensureReady(ctx); err != nil {
			out.DisabledReason = err.Error()
		} else {
			start := time.Now()
			emb, err := e.embedQuery(ctx, in.Query)
			if err != nil {
				out.DisabledReason = err.Error()
			} else {
				if in.IncludeEmbedding {
					out.QueryEmbedding = emb
				}

				results, err := e.vector.SearchSegments(ctx, &VectorSearchParams{
					TenantID:          in.TenantID,
					ProjectID:         in.ProjectID,
					QueryVector:       emb,
					CurrentChapterNum: in.CurrentChapterNum,
					TopK:              in.TopK,
					SegmentTypes:      in.SegmentTypes,
				})
				if err != nil {
					out.DisabledReason = err.Error()
				} else {
					out.Segments = make([]Segment, 0, len(results))
					for _, r := range results {
						if r == nil {
							continue
						}
						meta, text := decodeSegmentText(r.TextContent)
						seg := Segment{
							ID:     strings.TrimSpace(r.ID),
							Text:   strings.TrimSpace(text),
							Score:  1 - float64(r.Score), // 将“距离”转换为更直观的相似度（COSINE: distance=1-cos）
							Source: "vector",

							SegmentType:  strings.TrimSpace(r.SegmentType),
							ChapterNum:   r.ChapterNum,
							ChapterTitle: strings.TrimSpace(meta.ChapterTitle),
						}
						if seg.ChapterNum == 0 && meta.ChapterNum > 0 {
							seg.ChapterNum = meta.ChapterNum
						}
						out.Segments = append(out.Segments, seg)
					}
					if dbg != nil {
						dbg.VectorSearchTimeMs = time.Since(start).Milliseconds()
						dbg.TotalCandidates = len(out.Segments)
						dbg.FilteredCandidates = len(out.Segments)
					}
				}
			}
		}
	} else {
		out.DisabledReason = ErrVectorDisabled.Error()
	}

	// 2) 结构化定位：查询中出现的角色名（可选）
	if in.IncludeCharacters && e != nil && e.character != nil {
		start := time.Now()
		out.Characters = e.matchCharacters(ctx, in.ProjectID, in.Query)
		if dbg != nil {
			dbg.CharacterSearchTimeMs = time.Since(start).Milliseconds()
		}
	}

	if dbg != nil {
		out.Debug = dbg
	}
	return out, nil
}

// matchCharacters 返回名字或别名出现在查询文本中的角色。
func (e *Engine) matchCharacters(ctx context.Context, projectID, query string) []CharacterRef {
	characters, err := e.character.ListByProject(ctx, projectID)
	if err != nil || len(characters) == 0 {
		return nil
	}
	refs := make([]CharacterRef, 0, 4)
	for _, c := range characters {
		if c == nil {
			continue
		}
		if !mentionsCharacter(query, c) {
			continue
		}
		refs = append(refs, CharacterRef{
			ID:   c.ID,
			Name: c.Name,
			Role: string(c.Role),
		})
	}
	return refs
}

func mentionsCharacter(text string, c *entity.Character) bool {
	if name := strings.TrimSpace(c.Name); name != "" && strings.Contains(text, name) {
		return true
	}
	for _, alias := range c.Aliases {
		if a := strings.TrimSpace(alias); a != "" && strings.Contains(text, a) {
			return true
		}
	}
	return false
}

func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if e == nil || e.embedder == nil {
		return nil, ErrVectorDisabled
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("query is empty")
	}
	v64, err := e.embedder.EmbedStrings(ctx, []string{q})
	if err != nil {
		return nil, err
	}
	if len(v64) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	vec := v64[0]
	out := make([]float32, 0, len(vec))
	for _, x := range vec {
		out = append(out, float32(x))
	}
	return out, nil
}
