package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/application/retrieval"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/infrastructure/persistence/redis"
	"longnovel-ai/pkg/logger"
	"longnovel-ai/pkg/metrics"
)

// 角色相关度打分参数。
const (
	importanceWeight  = 0.05
	recentAppearBonus = 0.3
	everAppearBonus   = 0.1
	goalMentionBonus  = 0.5

	retrievedSegmentMaxRunes = 400
)

// ContextRequest 上下文构建请求
type ContextRequest struct {
	TenantID    string
	Project     *entity.Project
	ChapterNum  int
	ChapterGoal string
}

// Context 组装好的分层记忆上下文。
// MemoryText 注入生成提示词的记忆块；RetrievedText 是语义检索补充，
// 向量库不可用时为空。
type Context struct {
	MemoryText     string `json:"memory_text"`
	RetrievedText  string `json:"retrieved_text"`
	PreviousEnding string `json:"previous_ending"`

	CharacterCount int `json:"character_count"`
	RecentCount    int `json:"recent_count"`
	VolumeCount    int `json:"volume_count"`
}

// BuildContext 组装指定章节的生成上下文，结果按章缓存。
// 层序固定：核心设定、相关角色、近期章节摘要、卷摘要、
// 时间线尾部、地点、未决线索。核心层永远在最前且不被截断。
func (s *Store) BuildContext(ctx context.Context, req ContextRequest) (*Context, error) {
	ctx, span := tracer.Start(ctx, "memory.Store.BuildContext",
		trace.WithAttributes(
			attribute.String("project_id", req.Project.ID),
			attribute.Int("chapter_num", req.ChapterNum),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.MemoryContextBuildDuration.WithLabelValues(req.TenantID).Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		key := redis.MemoryContextKey(req.TenantID, req.Project.ID, req.ChapterNum)
		if raw, err := s.cache.Get(ctx, key); err == nil && len(raw) > 0 {
			var cached Context
			if err := json.Unmarshal(raw, &cached); err == nil {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return &cached, nil
			}
		}
	}

	mc, err := s.assemble(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.cache != nil {
		key := redis.MemoryContextKey(req.TenantID, req.Project.ID, req.ChapterNum)
		if err := s.cache.Set(ctx, key, mc, s.contextTTL); err != nil {
			logger.FromContext(ctx).Warn("failed to cache memory context", "error", err)
		}
	}
	return mc, nil
}

func (s *Store) assemble(ctx context.Context, req ContextRequest) (*Context, error) {
	projectID := req.Project.ID
	var b strings.Builder

	// 核心层：前提、主角、世界观硬约束。
	b.WriteString("【核心设定】\n")
	b.WriteString(fmt.Sprintf("作品：%s（%s）\n", req.Project.Title, req.Project.Genre))
	b.WriteString("前提：" + req.Project.Premise + "\n")

	characters, err := s.characterRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	for _, c := range characters {
		if c.IsProtagonist() {
			b.WriteString("主角：" + characterLine(c, req.ChapterNum) + "\n")
		}
	}

	world, err := s.worldRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list world settings: %w", err)
	}
	constraints := collectConstraints(world)
	if len(constraints) > 0 {
		b.WriteString("世界观约束：\n")
		for _, c := range constraints {
			b.WriteString("- " + c + "\n")
		}
	}

	// 相关角色层：按相关度排序，主角已在核心层，此处跳过。
	ranked := rankCharacters(characters, req.ChapterNum, s.recentWindow, req.ChapterGoal)
	charCount := 0
	if len(ranked) > 0 {
		b.WriteString("\n【相关角色】\n")
		for _, c := range ranked {
			b.WriteString("- " + characterLine(c, req.ChapterNum) + "\n")
			charCount++
		}
	}

	// 近期层：最近 N 章摘要原样注入。
	recent, err := s.summaryRepo.ListRecentSummaries(ctx, projectID, s.recentWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent summaries: %w", err)
	}
	if len(recent) > 0 {
		b.WriteString("\n【近期剧情】\n")
		for _, cs := range recent {
			b.WriteString(fmt.Sprintf("第%d章：%s\n", cs.ChapterNum, cs.Text))
		}
	}

	// 历史层：卷摘要覆盖近期窗口之外的长程剧情。
	volumes, err := s.summaryRepo.ListVolumeSummaries(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list volume summaries: %w", err)
	}
	if len(volumes) > 0 {
		b.WriteString("\n【前情卷要】\n")
		for _, vs := range volumes {
			b.WriteString(fmt.Sprintf("第%d卷（%d-%d章）：%s\n", vs.VolumeNum, vs.FromChapter, vs.ToChapter, vs.Text))
		}
	}

	// 时间线尾部与未决线索，帮助模型不丢事件顺序和伏笔。
	events, err := s.eventRepo.ListRecent(ctx, projectID, s.timelineTail)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	if len(events) > 0 {
		b.WriteString("\n【时间线】\n")
		for _, ev := range events {
			b.WriteString(fmt.Sprintf("第%d章：%s\n", ev.ChapterNum, ev.Summary))
		}
	}

	locations := geographyNames(world, s.maxLocations)
	if len(locations) > 0 {
		b.WriteString("\n【主要地点】" + strings.Join(locations, "、") + "\n")
	}

	threads, err := s.threadRepo.ListOpen(ctx, projectID, s.maxOpenThreads)
	if err != nil {
		return nil, fmt.Errorf("failed to list open threads: %w", err)
	}
	if len(threads) > 0 {
		b.WriteString("\n【未决伏笔】\n")
		for _, t := range threads {
			b.WriteString(fmt.Sprintf("- %s（第%d章埋下）\n", t.Description, t.OpenedAt))
		}
	}

	mc := &Context{
		MemoryText:     b.String(),
		CharacterCount: charCount,
		RecentCount:    len(recent),
		VolumeCount:    len(volumes),
	}

	// 语义检索层：向量库不可用时静默降级。
	if s.engine != nil && s.engine.Enabled() && req.ChapterGoal != "" {
		out, err := s.engine.Search(ctx, retrieval.SearchInput{
			TenantID:          req.TenantID,
			ProjectID:         projectID,
			Query:             req.ChapterGoal,
			CurrentChapterNum: int64(req.ChapterNum),
			TopK:              s.retrievalTopK,
		})
		if err != nil {
			logger.FromContext(ctx).Warn("semantic retrieval degraded", "error", err)
		} else {
			mc.RetrievedText = retrieval.BuildPromptContext(out.Segments, s.retrievalTopK, retrievedSegmentMaxRunes)
		}
	}

	// 上一章结尾，保证章间衔接。
	if req.ChapterNum > 1 {
		prev, err := s.chapterRepo.GetBySeq(ctx, projectID, req.ChapterNum-1)
		if err == nil && prev != nil {
			mc.PreviousEnding = tailRunes(prev.ContentText, 300)
		}
	}
	return mc, nil
}

// rankCharacters 按相关度降序返回非主角角色。
// 相关度 = 重要性*0.05 + 出场近因加成 + 章节目标点名加成；
// 同分时按角色名哈希升序，排序结果与入参顺序无关。
func rankCharacters(characters []*entity.Character, chapterNum, recentWindow int, goal string) []*entity.Character {
	type scored struct {
		c     *entity.Character
		score float64
		hash  uint64
	}
	ranked := make([]scored, 0, len(characters))
	for _, c := range characters {
		if c.IsProtagonist() {
			continue
		}
		score := float64(c.Importance) * importanceWeight
		if c.LastAppear > 0 && chapterNum-c.LastAppear <= recentWindow {
			score += recentAppearBonus
		} else if c.AppearCount > 0 {
			score += everAppearBonus
		}
		if goal != "" && strings.Contains(goal, c.Name) {
			score += goalMentionBonus
		}
		ranked = append(ranked, scored{c: c, score: score, hash: nameHash(c.Name)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].hash < ranked[j].hash
	})
	out := make([]*entity.Character, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.c)
	}
	return out
}

func nameHash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func characterLine(c *entity.Character, chapterNum int) string {
	parts := []string{c.Name}
	if len(c.Traits) > 0 {
		parts = append(parts, "性格："+strings.Join(c.Traits, "、"))
	}
	if c.Motivation != "" {
		parts = append(parts, "动机："+c.Motivation)
	}
	for i := len(c.Development) - 1; i >= 0; i-- {
		if c.Development[i].ChapterNum < chapterNum {
			parts = append(parts, "近况："+c.Development[i].Change)
			break
		}
	}
	return strings.Join(parts, "，")
}

func collectConstraints(world []*entity.WorldSetting) []string {
	var out []string
	for _, w := range world {
		for _, c := range w.Constraints {
			out = append(out, c)
		}
	}
	return out
}

func geographyNames(world []*entity.WorldSetting, max int) []string {
	var out []string
	for _, w := range world {
		if w.Category != entity.WorldCategoryGeography {
			continue
		}
		out = append(out, w.Name)
		if len(out) >= max {
			break
		}
	}
	return out
}

func tailRunes(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[len(r)-max:])
}
