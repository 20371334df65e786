package service

import "context"

// LLMUsageInput 一次 LLM 调用的计量数据，生成工作流回调在调用结束后上报。
type LLMUsageInput struct {
	TenantID string

	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// LLMUsageRecorder 记录 LLM 用量，扣减租户配额并落流水。
// 记录失败不应阻断生成主流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
