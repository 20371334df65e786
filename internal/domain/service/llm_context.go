package service

import (
	"context"
	"strings"
)

type llmCtxKey int

const (
	llmCtxKeyWorkflow llmCtxKey = iota
	llmCtxKeyProvider
)

// unknownLabel 作为指标与流水的兜底标签，避免出现空维度。
const unknownLabel = "unknown"

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func fromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknownLabel
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknownLabel
	}
	return strings.TrimSpace(s)
}

// WithWorkflow 在上下文中标记当前 LLM 调用所属的工作流（outline/foundation/chapter 等）。
func WithWorkflow(ctx context.Context, workflow string) context.Context {
	return withValue(ctx, llmCtxKeyWorkflow, workflow)
}

// WithProvider 在上下文中标记当前 LLM 调用使用的供应商。
func WithProvider(ctx context.Context, provider string) context.Context {
	return withValue(ctx, llmCtxKeyProvider, provider)
}

func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

func WorkflowFromContext(ctx context.Context) string {
	return fromContext(ctx, llmCtxKeyWorkflow)
}

func ProviderFromContext(ctx context.Context) string {
	return fromContext(ctx, llmCtxKeyProvider)
}
