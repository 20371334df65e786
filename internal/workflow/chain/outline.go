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

type OutlineChain struct {
	factory workflowport.ChatModelFactory
}

func NewOutlineChain(factory workflowport.ChatModelFactory) *OutlineChain {
	return &OutlineChain{factory: factory}
}

func (c *OutlineChain) Invoke(ctx context.Context, in *wfmodel.OutlineGenerateInput) (*wfmodel.OutlineGenerateOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Premise) == "" {
		return nil, fmt.Errorf("premise is required")
	}
	if in.TargetWords <= 0 {
		return nil, fmt.Errorf("target_words is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "outline_generate", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptOutlineGenV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"premise":            strings.TrimSpace(in.Premise),
		"genre":              strings.TrimSpace(in.Genre),
		"target_words":       in.TargetWords,
		"chapter_words":      in.ChapterWords,
		"estimated_chapters": in.EstimatedQty,
		"writing_style":      strings.TrimSpace(in.WritingStyle),
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
	var plan wfmodel.OutlinePlanJSON
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("invalid outline json: %w", err)
	}

	return &wfmodel.OutlineGenerateOutput{
		Plan:    &plan,
		RawJSON: raw,
		Meta:    usageMeta(in.Provider, in.Model, in.Temperature, outMsg),
	}, nil
}
