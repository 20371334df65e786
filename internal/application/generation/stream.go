package generation

import (
	"context"

	"github.com/cloudwego/eino/schema"

	apperrors "longnovel-ai/pkg/errors"
)

// StreamDraft 以流式方式生成一章草稿并实时吐出 token。
// 流式稿不做一致性重写，完整内容由调用方收齐后走 GenerateChapter
// 的检查路径或人工确认。
func (s *Service) StreamDraft(ctx context.Context, req GenerateRequest) (*schema.StreamReader[*schema.Message], *GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.StreamDraft")
	defer span.End()

	project, outline, err := s.loadProject(ctx, req.ProjectID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	chapter, err := s.prepareChapter(ctx, project, outline, req)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	in, err := s.chainInput(ctx, req.TenantID, project, chapter, "")
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	reader, err := s.chain.Stream(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "chapter stream failed")
	}
	return reader, &GenerateResult{Chapter: chapter, Attempts: 1}, nil
}
