package chain

import (
	"context"
	"fmt"
	"strings"

	llmctx "longnovel-ai/internal/domain/service"
	wfmodel "longnovel-ai/internal/workflow/model"
	workflowport "longnovel-ai/internal/workflow/port"
	workflowprompt "longnovel-ai/internal/workflow/prompt"
)

type AdjustChain struct {
	factory workflowport.ChatModelFactory
}

func NewAdjustChain(factory workflowport.ChatModelFactory) *AdjustChain {
	return &AdjustChain{factory: factory}
}

func (c *AdjustChain) Invoke(ctx context.Context, in *wfmodel.AdjustInput) (*wfmodel.AdjustOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if !in.Axis.Valid() {
		return nil, fmt.Errorf("invalid adjust axis: %s", in.Axis)
	}
	if strings.TrimSpace(in.Instruction) == "" {
		return nil, fmt.Errorf("instruction is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("chapter content is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "chapter_adjust", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptAdjustV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"axis":           string(in.Axis),
		"instruction":    strings.TrimSpace(in.Instruction),
		"memory_context": strings.TrimSpace(in.MemoryContext),
		"chapter_num":    in.ChapterNum,
		"chapter_title":  strings.TrimSpace(in.ChapterTitle),
		"content":        strings.TrimSpace(in.Content),
		"writing_style":  strings.TrimSpace(in.WritingStyle),
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

	return &wfmodel.AdjustOutput{
		Content: strings.TrimSpace(outMsg.Content),
		Meta:    usageMeta(in.Provider, in.Model, in.Temperature, outMsg),
	}, nil
}
