// Package summarize 负责章节摘要与卷摘要的生成。
// LLM 摘要失败时退化为抽取式摘要，保证记忆层永远有可用摘要。
package summarize

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/domain/entity"
	workflowchain "longnovel-ai/internal/workflow/chain"
	wfmodel "longnovel-ai/internal/workflow/model"
	workflowport "longnovel-ai/internal/workflow/port"
	"longnovel-ai/pkg/logger"
	"longnovel-ai/pkg/metrics"
)

var tracer = otel.Tracer("application.summarize")

type Summarizer struct {
	chain *workflowchain.SummaryChain

	provider string
	model    string
}

func NewSummarizer(factory workflowport.ChatModelFactory, provider, model string) *Summarizer {
	return &Summarizer{
		chain:    workflowchain.NewSummaryChain(factory),
		provider: provider,
		model:    model,
	}
}

// SummarizeChapter 为章节生成摘要实体（不落库）。
// LLM 失败时回退为抽取式摘要，摘要文本始终不超过上限。
func (s *Summarizer) SummarizeChapter(ctx context.Context, projectID string, chapter *entity.Chapter) *entity.ChapterSummary {
	ctx, span := tracer.Start(ctx, "summarize.Summarizer.SummarizeChapter",
		trace.WithAttributes(attribute.Int("chapter_num", chapter.SeqNum)))
	defer span.End()

	sourceWords := utf8.RuneCountInString(chapter.ContentText)

	out, err := s.chain.SummarizeChapter(ctx, &wfmodel.ChapterSummaryInput{
		ChapterNum:   chapter.SeqNum,
		ChapterTitle: chapter.Title,
		Content:      chapter.ContentText,
		MaxRunes:     entity.ChapterSummaryMaxRunes,
		Provider:     s.provider,
		Model:        s.model,
	})

	var summary *entity.ChapterSummary
	if err != nil || out == nil || out.Summary == nil {
		if err != nil {
			span.RecordError(err)
			logger.FromContext(ctx).Warn("llm chapter summary failed, falling back to extractive",
				"chapter_num", chapter.SeqNum, "error", err)
		}
		summary = entity.NewChapterSummary(projectID, chapter.SeqNum,
			ExtractiveSummary(chapter.ContentText, entity.ChapterSummaryMaxRunes), sourceWords)
	} else {
		summary = entity.NewChapterSummary(projectID, chapter.SeqNum, out.Summary.Summary, sourceWords)
		summary.KeyEvents = entity.StringSlice(out.Summary.KeyEvents)
		summary.Characters = entity.StringSlice(out.Summary.Characters)
		summary.NewThreads = entity.StringSlice(out.Summary.NewThreads)
	}

	if sourceWords > 0 {
		ratio := float64(utf8.RuneCountInString(summary.Text)) / float64(sourceWords)
		metrics.MemorySummaryCompression.WithLabelValues("chapter").Observe(ratio)
	}
	return summary
}

// SummarizeVolume 将一卷的章节摘要压缩为卷摘要实体（不落库）。
func (s *Summarizer) SummarizeVolume(ctx context.Context, projectID string, volumeNum, from, to int, chapterSummaries []*entity.ChapterSummary) *entity.VolumeSummary {
	ctx, span := tracer.Start(ctx, "summarize.Summarizer.SummarizeVolume",
		trace.WithAttributes(attribute.Int("volume_num", volumeNum)))
	defer span.End()

	texts := make([]string, 0, len(chapterSummaries))
	sourceWords := 0
	for _, cs := range chapterSummaries {
		if cs == nil {
			continue
		}
		texts = append(texts, cs.Text)
		sourceWords += cs.SourceWords
	}

	out, err := s.chain.SummarizeVolume(ctx, &wfmodel.VolumeSummaryInput{
		VolumeNum:        volumeNum,
		FirstChapter:     from,
		LastChapter:      to,
		ChapterSummaries: texts,
		MaxRunes:         entity.VolumeSummaryMaxRunes,
		Provider:         s.provider,
		Model:            s.model,
	})

	text := ""
	if err != nil || out == nil || strings.TrimSpace(out.Summary) == "" {
		if err != nil {
			span.RecordError(err)
			logger.FromContext(ctx).Warn("llm volume summary failed, falling back to extractive",
				"volume_num", volumeNum, "error", err)
		}
		text = ExtractiveSummary(strings.Join(texts, " "), entity.VolumeSummaryMaxRunes)
	} else {
		text = out.Summary
	}

	summary := entity.NewVolumeSummary(projectID, volumeNum, from, to, text, sourceWords)
	if sourceWords > 0 {
		ratio := float64(utf8.RuneCountInString(summary.Text)) / float64(sourceWords)
		metrics.MemorySummaryCompression.WithLabelValues("volume").Observe(ratio)
	}
	return summary
}

// ExtractiveSummary 是无 LLM 的退化摘要：取首尾句拼接并按 rune 截断。
func ExtractiveSummary(content string, maxRunes int) string {
	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return entity.TruncateRunes(strings.TrimSpace(content), maxRunes)
	}

	var sb strings.Builder
	sb.WriteString(sentences[0])
	if len(sentences) > 1 {
		last := sentences[len(sentences)-1]
		if utf8.RuneCountInString(sb.String())+utf8.RuneCountInString(last) < maxRunes {
			sb.WriteString("……")
			sb.WriteString(last)
		}
	}
	return entity.TruncateRunes(sb.String(), maxRunes)
}

func splitSentences(s string) []string {
	var out []string
	var cur []rune
	for _, r := range strings.TrimSpace(s) {
		cur = append(cur, r)
		switch r {
		case '。', '！', '？', '.', '!', '?':
			if t := strings.TrimSpace(string(cur)); t != "" {
				out = append(out, t)
			}
			cur = cur[:0]
		}
	}
	if t := strings.TrimSpace(string(cur)); t != "" {
		out = append(out, t)
	}
	return out
}
