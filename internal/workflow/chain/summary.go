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

type SummaryChain struct {
	factory workflowport.ChatModelFactory
}

func NewSummaryChain(factory workflowport.ChatModelFactory) *SummaryChain {
	return &SummaryChain{factory: factory}
}

// SummarizeChapter 生成章节摘要（结构化 JSON）。
func (c *SummaryChain) SummarizeChapter(ctx context.Context, in *wfmodel.ChapterSummaryInput) (*wfmodel.ChapterSummaryOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("chapter content is required")
	}
	if in.MaxRunes <= 0 {
		return nil, fmt.Errorf("max_runes is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "chapter_summarize", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptChapterSumV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"chapter_num":   in.ChapterNum,
		"chapter_title": strings.TrimSpace(in.ChapterTitle),
		"content":       strings.TrimSpace(in.Content),
		"max_runes":     in.MaxRunes,
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
	var sum wfmodel.ChapterSummaryJSON
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return nil, fmt.Errorf("invalid summary json: %w", err)
	}
	if strings.TrimSpace(sum.Summary) == "" {
		return nil, fmt.Errorf("empty summary text")
	}

	return &wfmodel.ChapterSummaryOutput{
		Summary: &sum,
		RawJSON: raw,
		Meta:    usageMeta(in.Provider, in.Model, in.Temperature, outMsg),
	}, nil
}

// SummarizeVolume 将一卷的章节摘要压缩为卷摘要（纯文本）。
func (c *SummaryChain) SummarizeVolume(ctx context.Context, in *wfmodel.VolumeSummaryInput) (*wfmodel.VolumeSummaryOutput, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if len(in.ChapterSummaries) == 0 {
		return nil, fmt.Errorf("chapter summaries are required")
	}
	if in.MaxRunes <= 0 {
		return nil, fmt.Errorf("max_runes is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "volume_summarize", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i, s := range in.ChapterSummaries {
		if strings.TrimSpace(s) == "" {
			continue
		}
		fmt.Fprintf(&sb, "第 %d 章：%s\n", in.FirstChapter+i, strings.TrimSpace(s))
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptVolumeSumV1)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"volume_num":        in.VolumeNum,
		"first_chapter":     in.FirstChapter,
		"last_chapter":      in.LastChapter,
		"chapter_summaries": strings.TrimSpace(sb.String()),
		"max_runes":         in.MaxRunes,
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

	return &wfmodel.VolumeSummaryOutput{
		Summary: strings.TrimSpace(outMsg.Content),
		Meta:    usageMeta(in.Provider, in.Model, in.Temperature, outMsg),
	}, nil
}
