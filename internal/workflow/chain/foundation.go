package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	llmctx "longnovel-ai/internal/domain/service"
	wfmodel "longnovel-ai/internal/workflow/model"
	"longnovel-ai/internal/workflow/node"
	workflowport "longnovel-ai/internal/workflow/port"
	workflowprompt "longnovel-ai/internal/workflow/prompt"
)

type FoundationChain struct {
	factory workflowport.ChatModelFactory
}

func NewFoundationChain(factory workflowport.ChatModelFactory) *FoundationChain {
	return &FoundationChain{factory: factory}
}

func (c *FoundationChain) Invoke(ctx context.Context, in *wfmodel.FoundationGenerateInput) (*wfmodel.FoundationGenerateOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Premise) == "" {
		return nil, fmt.Errorf("premise is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "foundation_generate", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptFoundationGenV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"project_title": strings.TrimSpace(in.ProjectTitle),
		"genre":         strings.TrimSpace(in.Genre),
		"premise":       strings.TrimSpace(in.Premise),
		"outline_brief": strings.TrimSpace(in.OutlineBrief),
	})
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(in.Model, in.Temperature, in.MaxTokens)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		return nil, fmt.Errorf("empty llm response")
	}

	raw := node.ExtractJSONObject(outMsg.Content)
	var foundation wfmodel.FoundationJSON
	if err := json.Unmarshal([]byte(raw), &foundation); err != nil {
		return nil, fmt.Errorf("invalid foundation json: %w", err)
	}

	return &wfmodel.FoundationGenerateOutput{
		Foundation: &foundation,
		RawJSON:    raw,
		Meta:       usageMeta(in.Provider, in.Model, in.Temperature, outMsg),
	}, nil
}
