package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	llmctx "longnovel-ai/internal/domain/service"
	wfmodel "longnovel-ai/internal/workflow/model"
	workflowport "longnovel-ai/internal/workflow/port"
	workflowprompt "longnovel-ai/internal/workflow/prompt"
)

type ChapterChain struct {
	factory workflowport.ChatModelFactory
}

func NewChapterChain(factory workflowport.ChatModelFactory) *ChapterChain {
	return &ChapterChain{factory: factory}
}

func (c *ChapterChain) Invoke(ctx context.Context, in *wfmodel.ChapterGenerateInput) (*schema.Message, error) {
	if err := validateChapterInput(c, in); err != nil {
		return nil, err
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "chapter_generate", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatChapterMessages(ctx, in)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(in.Model, in.Temperature, in.MaxTokens)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

// Stream 返回 Eino StreamReader；调用方负责 Close()。
// 约定：流可能在最后返回一个 Content 为空但包含 Usage 的消息，用于 Token 统计。
func (c *ChapterChain) Stream(ctx context.Context, in *wfmodel.ChapterGenerateInput) (*schema.StreamReader[*schema.Message], error) {
	if err := validateChapterInput(c, in); err != nil {
		return nil, err
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "chapter_stream", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatChapterMessages(ctx, in)
	if err != nil {
		return nil, err
	}
	return chatModel.Stream(ctx, msgs, buildModelOptions(in.Model, in.Temperature, in.MaxTokens)...)
}

func validateChapterInput(c *ChapterChain, in *wfmodel.ChapterGenerateInput) error {
	if c == nil || c.factory == nil {
		return fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return fmt.Errorf("input is nil")
	}
	if in.ChapterNum <= 0 {
		return fmt.Errorf("chapter_num is required")
	}
	if strings.TrimSpace(in.ChapterGoal) == "" {
		return fmt.Errorf("chapter goal is required")
	}
	if in.TargetWordCount <= 0 {
		return fmt.Errorf("target_word_count is required")
	}
	return nil
}

func formatChapterMessages(ctx context.Context, in *wfmodel.ChapterGenerateInput) ([]*schema.Message, error) {
	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptChapterGenV1)
	if err != nil {
		return nil, err
	}

	feedback := strings.TrimSpace(in.RevisionFeedback)
	if feedback != "" {
		feedback = "上一稿未通过一致性检查，请修正以下问题后重写：\n" + feedback
	}

	vars := map[string]any{
		"project_title":     strings.TrimSpace(in.ProjectTitle),
		"genre":             strings.TrimSpace(in.Genre),
		"premise":           strings.TrimSpace(in.Premise),
		"memory_context":    strings.TrimSpace(in.MemoryContext),
		"retrieved_context": strings.TrimSpace(in.RetrievedContext),
		"previous_ending":   strings.TrimSpace(in.PreviousEnding),
		"chapter_num":       in.ChapterNum,
		"chapter_title":     strings.TrimSpace(in.ChapterTitle),
		"chapter_goal":      strings.TrimSpace(in.ChapterGoal),
		"target_word_count": in.TargetWordCount,
		"writing_style":     strings.TrimSpace(in.WritingStyle),
		"pov":               strings.TrimSpace(in.POV),
		"revision_feedback": feedback,
	}
	return tpl.Format(ctx, vars)
}
