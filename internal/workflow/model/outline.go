package model

type OutlineGenerateInput struct {
	Premise     string
	Genre       string
	TargetWords int
	// ChapterWords 决定期望章节数（target_words / chapter_words，至少 10 章）。
	ChapterWords int
	EstimatedQty int
	WritingStyle string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// OutlinePlanJSON 是模型需要输出的 JSON 结构。
type OutlinePlanJSON struct {
	Title    string            `json:"title"`
	Theme    string            `json:"theme"`
	Chapters []ChapterPlanJSON `json:"chapters"`
}

type ChapterPlanJSON struct {
	SeqNum         int    `json:"seq_num"`
	Title          string `json:"title"`
	Goal           string `json:"goal"`
	EstimatedWords int    `json:"estimated_words,omitempty"`
}

type OutlineGenerateOutput struct {
	Plan    *OutlinePlanJSON
	RawJSON string
	Meta    LLMUsageMeta
}
