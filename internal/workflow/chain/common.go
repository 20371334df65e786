package chain

import (
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	wfmodel "longnovel-ai/internal/workflow/model"
	workflowprompt "longnovel-ai/internal/workflow/prompt"
)

var promptRegistry = workflowprompt.NewRegistry()

func usageMeta(provider, modelName string, temperature *float32, outMsg *schema.Message) wfmodel.LLMUsageMeta {
	meta := wfmodel.LLMUsageMeta{
		Provider:    strings.TrimSpace(provider),
		Model:       strings.TrimSpace(modelName),
		GeneratedAt: time.Now().UTC(),
	}
	if temperature != nil {
		meta.Temperature = float64(*temperature)
	}
	if outMsg != nil && outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}
	return meta
}

func buildModelOptions(modelName string, temperature *float32, maxTokens *int) []model.Option {
	opts := make([]model.Option, 0, 3)
	if temperature != nil {
		opts = append(opts, model.WithTemperature(*temperature))
	}
	if maxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*maxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
