package retrieval

// 片段类型：章节正文分片与章节摘要分别写入，检索时可按需过滤。
const (
	SegmentTypeChapter = "chapter"
	SegmentTypeSummary = "summary"
)

// 档案类型：角色与世界观条目写入 novel_profiles 集合。
const (
	ProfileTypeCharacter = "character"
	ProfileTypeWorld     = "world"
)

// SearchInput 本地检索输入。
type SearchInput struct {
	TenantID          string
	ProjectID         string
	Query             string
	CurrentChapterNum int64
	TopK              int

	// SegmentTypes 为空表示不过滤；非空则仅检索指定 segment_type。
	SegmentTypes []string

	IncludeCharacters bool
	IncludeEmbedding  bool
}

type Segment struct {
	ID     string
	Text   string
	Score  float64
	Source string

	SegmentType  string
	ChapterNum   int64
	ChapterTitle string
}

type CharacterRef struct {
	ID   string
	Name string
	Role string
}

type DebugInfo struct {
	VectorSearchTimeMs    int64
	CharacterSearchTimeMs int64
	TotalCandidates       int
	FilteredCandidates    int
}

type SearchOutput struct {
	Segments   []Segment
	Characters []CharacterRef

	DisabledReason string
	QueryEmbedding []float32
	Debug          *DebugInfo
}
