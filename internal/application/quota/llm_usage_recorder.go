package quota

import (
	"context"
	"fmt"
	"strings"

	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/domain/service"
)

// LLMUsageRecorder 把每次 LLM 调用写成用量流水。
// 日配额检查通过汇总流水完成，不单独维护余额字段。
type LLMUsageRecorder struct {
	tenantRepo repository.TenantRepository
	usageRepo  repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(tenantRepo repository.TenantRepository, usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{
		tenantRepo: tenantRepo,
		usageRepo:  usageRepo,
	}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}

	tenantID := strings.TrimSpace(in.TenantID)
	if tenantID == "" {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	evt := &entity.LLMUsageEvent{
		TenantID:         tenantID,
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Workflow:         strings.TrimSpace(in.Workflow),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
	}
	_ = r.usageRepo.Create(ctx, evt)
	return nil
}
