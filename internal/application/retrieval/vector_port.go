package retrieval

import "context"

// VectorRepository 定义应用层对“向量存储/检索”的最小依赖（port）。
// 由基础设施层提供具体实现（例如 Milvus）。
type VectorRepository interface {
	EnsureCollections(ctx context.Context) error
	SearchSegments(ctx context.Context, params *VectorSearchParams) ([]*VectorSearchResult, error)
	DeleteSegmentsByType(ctx context.Context, tenantID, projectID string, chapterNum int64, segmentType string) error
	InsertSegments(ctx context.Context, tenantID, projectID string, segments []*VectorSegment) error
	InsertProfiles(ctx context.Context, tenantID, projectID string, profiles []*VectorProfile) error
}

type VectorSearchParams struct {
	TenantID          string
	ProjectID         string
	QueryVector       []float32
	CurrentChapterNum int64
	TopK              int
	SegmentTypes      []string
}

type VectorSearchResult struct {
	ID          string
	Score       float32
	TextContent string
	ChapterNum  int64
	SegmentType string
}

type VectorSegment struct {
	ID          string
	TenantID    string
	ProjectID   string
	ChapterNum  int64
	SegmentType string
	TextContent string
	Vector      []float32
}

type VectorProfile struct {
	ID          string
	TenantID    string
	ProjectID   string
	ProfileID   string
	ProfileType string
	Name        string
	Description string
	Vector      []float32
}
