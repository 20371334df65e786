package model

// AdjustAxis 统一调整的维度。
type AdjustAxis string

const (
	AdjustAxisStyle        AdjustAxis = "style"
	AdjustAxisPace         AdjustAxis = "pace"
	AdjustAxisRelationship AdjustAxis = "relationship"
	AdjustAxisWorldview    AdjustAxis = "worldview"
	AdjustAxisOverall      AdjustAxis = "overall"
)

func (a AdjustAxis) Valid() bool {
	switch a {
	case AdjustAxisStyle, AdjustAxisPace, AdjustAxisRelationship, AdjustAxisWorldview, AdjustAxisOverall:
		return true
	}
	return false
}

type AdjustInput struct {
	Axis        AdjustAxis
	Instruction string

	ChapterNum   int
	ChapterTitle string
	Content      string

	MemoryContext string
	WritingStyle  string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type AdjustOutput struct {
	Content string
	Meta    LLMUsageMeta
}
