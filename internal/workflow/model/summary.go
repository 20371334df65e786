package model

type ChapterSummaryInput struct {
	ChapterNum   int
	ChapterTitle string
	Content      string
	MaxRunes     int

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// ChapterSummaryJSON 是模型需要输出的 JSON 结构。
type ChapterSummaryJSON struct {
	Summary    string   `json:"summary"`
	KeyEvents  []string `json:"key_events,omitempty"`
	Characters []string `json:"characters,omitempty"`
	NewThreads []string `json:"new_threads,omitempty"`
}

type ChapterSummaryOutput struct {
	Summary *ChapterSummaryJSON
	RawJSON string
	Meta    LLMUsageMeta
}

type VolumeSummaryInput struct {
	VolumeNum        int
	FirstChapter     int
	LastChapter      int
	ChapterSummaries []string
	MaxRunes         int

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type VolumeSummaryOutput struct {
	Summary string
	Meta    LLMUsageMeta
}
