package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"

	"longnovel-ai/internal/domain/entity"
)

const (
	defaultChunkSizeRunes    = 800
	defaultChunkOverlapRunes = 80
	defaultEmbeddingBatch    = 32
)

// Indexer 负责将章节正文、章节摘要与设定档案写入向量库。
type Indexer struct {
	embedder embedding.Embedder
	vector   VectorRepository

	embeddingBatchSize int
	chunkSizeRunes     int
	chunkOverlapRunes  int
}

func NewIndexer(embedder embedding.Embedder, vectorRepo VectorRepository, embeddingBatchSize int) *Indexer {
	bs := embeddingBatchSize
	if bs <= 0 {
		bs = defaultEmbeddingBatch
	}
	return &Indexer{
		embedder:           embedder,
		vector:             vectorRepo,
		embeddingBatchSize: bs,
		chunkSizeRunes:     defaultChunkSizeRunes,
		chunkOverlapRunes:  defaultChunkOverlapRunes,
	}
}

func (i *Indexer) Enabled() bool {
	return i != nil && i.embedder != nil && i.vector != nil
}

func (i *Indexer) ensureReady(ctx context.Context) error {
	if i == nil || i.vector == nil {
		return ErrVectorDisabled
	}
	return i.vector.EnsureCollections(ctx)
}

// IndexChapter 将章节正文分片写入向量库。重复写入会先删除同章节旧分片。
func (i *Indexer) IndexChapter(ctx context.Context, tenantID, projectID string, chapter *entity.Chapter) error {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("tenant_id and project_id are required")
	}
	if chapter == nil {
		return fmt.Errorf("chapter is nil")
	}
	if chapter.SeqNum <= 0 {
		return fmt.Errorf("chapter.seq_num is required")
	}
	if !i.Enabled() {
		return ErrVectorDisabled
	}
	if err := i.ensureReady(ctx); err != nil {
		return err
	}

	chapterNum := int64(chapter.SeqNum)
	if err := i.vector.DeleteSegmentsByType(ctx, tenantID, projectID, chapterNum, SegmentTypeChapter); err != nil {
		return err
	}

	content := strings.TrimSpace(chapter.ContentText)
	if content == "" {
		// 空正文不写索引；但会先执行删除以避免“旧分片残留”。
		return nil
	}

	chunks := splitByRunes(content, i.chunkSizeRunes, i.chunkOverlapRunes)
	if len(chunks) == 0 {
		return nil
	}

	embedInputs := make([]string, 0, len(chunks))
	segments := make([]*VectorSegment, 0, len(chunks))

	for idx, chunk := range chunks {
		meta := SegmentMeta{
			ChapterNum:   chapterNum,
			ChapterTitle: strings.TrimSpace(chapter.Title),
			ChunkIndex:   idx,
		}
		textContent := encodeSegmentText(meta, strings.TrimSpace(chunk))

		embedText := strings.TrimSpace(chunk)
		if t := strings.TrimSpace(chapter.Title); t != "" {
			embedText = "章节标题：" + t + "\n" + embedText
		}

		embedInputs = append(embedInputs, embedText)
		segments = append(segments, &VectorSegment{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			ProjectID:   projectID,
			ChapterNum:  chapterNum,
			SegmentType: SegmentTypeChapter,
			TextContent: textContent,
		})
	}

	vectors, err := i.embedBatch(ctx, embedInputs)
	if err != nil {
		return err
	}
	for idx := range segments {
		segments[idx].Vector = vectors[idx]
	}
	return i.vector.InsertSegments(ctx, tenantID, projectID, segments)
}

// IndexSummary 将章节摘要整体写入向量库（摘要短，不分片）。
func (i *Indexer) IndexSummary(ctx context.Context, tenantID, projectID string, summary *entity.ChapterSummary) error {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("tenant_id and project_id are required")
	}
	if summary == nil {
		return fmt.Errorf("summary is nil")
	}
	if summary.ChapterNum <= 0 {
		return fmt.Errorf("summary.chapter_num is required")
	}
	if !i.Enabled() {
		return ErrVectorDisabled
	}
	if err := i.ensureReady(ctx); err != nil {
		return err
	}

	chapterNum := int64(summary.ChapterNum)
	if err := i.vector.DeleteSegmentsByType(ctx, tenantID, projectID, chapterNum, SegmentTypeSummary); err != nil {
		return err
	}

	text := strings.TrimSpace(summary.Text)
	if text == "" {
		return nil
	}

	meta := SegmentMeta{ChapterNum: chapterNum}
	seg := &VectorSegment{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		ProjectID:   projectID,
		ChapterNum:  chapterNum,
		SegmentType: SegmentTypeSummary,
		TextContent: encodeSegmentText(meta, text),
	}

	vectors, err := i.embedBatch(ctx, []string{text})
	if err != nil {
		return err
	}
	seg.Vector = vectors[0]
	return i.vector.InsertSegments(ctx, tenantID, projectID, []*VectorSegment{seg})
}

// IndexCharacters 将角色档案写入 novel_profiles 集合，供语义检索设定使用。
func (i *Indexer) IndexCharacters(ctx context.Context, tenantID, projectID string, characters []*entity.Character) error {
	if !i.Enabled() {
		return ErrVectorDisabled
	}
	if len(characters) == 0 {
		return nil
	}
	if err := i.ensureReady(ctx); err != nil {
		return err
	}

	embedInputs := make([]string, 0, len(characters))
	profiles := make([]*VectorProfile, 0, len(characters))
	for _, c := range characters {
		if c == nil || strings.TrimSpace(c.Name) == "" {
			continue
		}
		desc := characterProfileText(c)
		embedInputs = append(embedInputs, desc)
		profiles = append(profiles, &VectorProfile{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			ProjectID:   projectID,
			ProfileID:   c.ID,
			ProfileType: ProfileTypeCharacter,
			Name:        c.Name,
			Description: desc,
		})
	}
	if len(profiles) == 0 {
		return nil
	}

	vectors, err := i.embedBatch(ctx, embedInputs)
	if err != nil {
		return err
	}
	for idx := range profiles {
		profiles[idx].Vector = vectors[idx]
	}
	return i.vector.InsertProfiles(ctx, tenantID, projectID, profiles)
}

// IndexWorldSettings 将世界观条目写入 novel_profiles 集合。
func (i *Indexer) IndexWorldSettings(ctx context.Context, tenantID, projectID string, settings []*entity.WorldSetting) error {
	if !i.Enabled() {
		return ErrVectorDisabled
	}
	if len(settings) == 0 {
		return nil
	}
	if err := i.ensureReady(ctx); err != nil {
		return err
	}

	embedInputs := make([]string, 0, len(settings))
	profiles := make([]*VectorProfile, 0, len(settings))
	for _, w := range settings {
		if w == nil || strings.TrimSpace(w.Name) == "" {
			continue
		}
		desc := worldProfileText(w)
		embedInputs = append(embedInputs, desc)
		profiles = append(profiles, &VectorProfile{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			ProjectID:   projectID,
			ProfileID:   w.ID,
			ProfileType: ProfileTypeWorld,
			Name:        w.Name,
			Description: desc,
		})
	}
	if len(profiles) == 0 {
		return nil
	}

	vectors, err := i.embedBatch(ctx, embedInputs)
	if err != nil {
		return err
	}
	for idx := range profiles {
		profiles[idx].Vector = vectors[idx]
	}
	return i.vector.InsertProfiles(ctx, tenantID, projectID, profiles)
}

func characterProfileText(c *entity.Character) string {
	var sb strings.Builder
	sb.WriteString("角色：" + strings.TrimSpace(c.Name))
	if len(c.Traits) > 0 {
		sb.WriteString("\n性格：" + strings.Join(c.Traits, "、"))
	}
	if m := strings.TrimSpace(c.Motivation); m != "" {
		sb.WriteString("\n动机：" + m)
	}
	if b := strings.TrimSpace(c.Background); b != "" {
		sb.WriteString("\n背景：" + b)
	}
	return sb.String()
}

func worldProfileText(w *entity.WorldSetting) string {
	var sb strings.Builder
	sb.WriteString("设定：" + strings.TrimSpace(w.Name))
	sb.WriteString("（" + string(w.Category) + "）")
	if d := strings.TrimSpace(w.Detail); d != "" {
		sb.WriteString("\n" + d)
	}
	if len(w.Constraints) > 0 {
		sb.WriteString("\n约束：" + strings.Join(w.Constraints, "；"))
	}
	return sb.String()
}

func (i *Indexer) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if i == nil || i.embedder == nil {
		return nil, ErrVectorDisabled
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += i.embeddingBatchSize {
		end := start + i.embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		v64, err := i.embedder.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range v64 {
			f32 := make([]float32, 0, len(vec))
			for _, x := range vec {
				f32 = append(f32, float32(x))
			}
			out = append(out, f32)
		}
	}
	return out, nil
}
