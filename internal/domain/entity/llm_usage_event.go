// Package entity 定义领域实体
package entity

import "time"

// LLMUsageEvent 单次 LLM 调用的用量流水，按租户聚合后用于配额核算。
type LLMUsageEvent struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID         string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Provider         string    `json:"provider" gorm:"type:varchar(32);not null"`
	Model            string    `json:"model" gorm:"type:varchar(64);not null"`
	Workflow         string    `json:"workflow" gorm:"type:varchar(32);index;default:''"`
	TokensPrompt     int       `json:"tokens_prompt" gorm:"not null;default:0"`
	TokensCompletion int       `json:"tokens_completion" gorm:"not null;default:0"`
	DurationMs       int       `json:"duration_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TotalTokens 输入与输出 token 之和
func (e *LLMUsageEvent) TotalTokens() int {
	return e.TokensPrompt + e.TokensCompletion
}

func (LLMUsageEvent) TableName() string {
	return "llm_usage_events"
}
