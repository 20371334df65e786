package model

type ChapterGenerateInput struct {
	ProjectTitle string
	Premise      string
	Genre        string

	ChapterNum   int
	ChapterTitle string
	ChapterGoal  string

	// MemoryContext 是分层记忆装配出的上下文块（核心设定 + 近期摘要 + 时间线等）。
	MemoryContext string
	// RetrievedContext 是向量召回的相关情节块，可能为空。
	RetrievedContext string
	// PreviousEnding 是上一章结尾片段，用于衔接。
	PreviousEnding string

	// RevisionFeedback 非空时表示带着一致性反馈重写。
	RevisionFeedback string

	TargetWordCount int
	WritingStyle    string
	POV             string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type ChapterGenerateOutput struct {
	Content string
	Meta    LLMUsageMeta
}
