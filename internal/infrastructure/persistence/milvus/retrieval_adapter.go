package milvus

import (
	"context"

	"longnovel-ai/internal/application/retrieval"
)

// RetrievalVectorRepository 将 milvus.Repository 适配为检索服务的向量仓储端口。
type RetrievalVectorRepository struct {
	repo *Repository
}

func NewRetrievalVectorRepository(repo *Repository) *RetrievalVectorRepository {
	return &RetrievalVectorRepository{repo: repo}
}

var _ retrieval.VectorRepository = (*RetrievalVectorRepository)(nil)

func (r *RetrievalVectorRepository) EnsureCollections(ctx context.Context) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	return r.repo.EnsureCollections(ctx)
}

func (r *RetrievalVectorRepository) SearchSegments(ctx context.Context, params *retrieval.VectorSearchParams) ([]*retrieval.VectorSearchResult, error) {
	if r == nil || r.repo == nil {
		return nil, retrieval.ErrVectorDisabled
	}
	if params == nil {
		return nil, nil
	}

	out, err := r.repo.SearchSegments(ctx, &SearchParams{
		TenantID:          params.TenantID,
		ProjectID:         params.ProjectID,
		QueryVector:       params.QueryVector,
		CurrentChapterNum: params.CurrentChapterNum,
		TopK:              params.TopK,
		SegmentTypes:      params.SegmentTypes,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*retrieval.VectorSearchResult, 0, len(out))
	for i := range out {
		v := out[i]
		if v == nil {
			continue
		}
		results = append(results, &retrieval.VectorSearchResult{
			ID:          v.ID,
			Score:       v.Score,
			TextContent: v.TextContent,
			ChapterNum:  v.ChapterNum,
			SegmentType: v.SegmentType,
		})
	}
	return results, nil
}

func (r *RetrievalVectorRepository) DeleteSegmentsByType(ctx context.Context, tenantID, projectID string, chapterNum int64, segmentType string) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	return r.repo.DeleteSegmentsByType(ctx, tenantID, projectID, chapterNum, segmentType)
}

func (r *RetrievalVectorRepository) InsertSegments(ctx context.Context, tenantID, projectID string, segments []*retrieval.VectorSegment) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	if len(segments) == 0 {
		return nil
	}

	out := make([]*NovelSegment, 0, len(segments))
	for i := range segments {
		s := segments[i]
		if s == nil {
			continue
		}
		out = append(out, &NovelSegment{
			ID:          s.ID,
			TenantID:    s.TenantID,
			ProjectID:   s.ProjectID,
			ChapterNum:  s.ChapterNum,
			SegmentType: s.SegmentType,
			TextContent: s.TextContent,
			Vector:      s.Vector,
		})
	}
	return r.repo.InsertSegments(ctx, tenantID, projectID, out)
}

func (r *RetrievalVectorRepository) InsertProfiles(ctx context.Context, tenantID, projectID string, profiles []*retrieval.VectorProfile) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	if len(profiles) == 0 {
		return nil
	}

	out := make([]*NovelProfile, 0, len(profiles))
	for i := range profiles {
		p := profiles[i]
		if p == nil {
			continue
		}
		out = append(out, &NovelProfile{
			ID:          p.ID,
			TenantID:    p.TenantID,
			ProjectID:   p.ProjectID,
			ProfileID:   p.ProfileID,
			ProfileType: p.ProfileType,
			Name:        p.Name,
			Description: p.Description,
			Vector:      p.Vector,
		})
	}
	return r.repo.InsertProfiles(ctx, tenantID, projectID, out)
}
