// Package memory 实现三层记忆：
// 核心层（设定，永不驱逐）、近期层（最近 N 章摘要）、历史层（章节与卷摘要）。
package memory

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"longnovel-ai/internal/application/retrieval"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/infrastructure/persistence/redis"
	"longnovel-ai/pkg/logger"
)

var tracer = otel.Tracer("application.memory")

// 默认层参数，config 缺省时生效。
const (
	defaultRecentWindow   = 5
	defaultVolumeSize     = 20
	defaultTimelineTail   = 10
	defaultMaxLocations   = 5
	defaultMaxOpenThreads = 3
	defaultRetrievalTopK  = 8
	defaultContextTTL     = 10 * time.Minute
)

// VolumeSummarizer 生成卷摘要，由 summarize.Summarizer 实现。
type VolumeSummarizer interface {
	SummarizeVolume(ctx context.Context, projectID string, volumeNum, from, to int, chapterSummaries []*entity.ChapterSummary) *entity.VolumeSummary
}

type Store struct {
	projectRepo   repository.ProjectRepository
	outlineRepo   repository.OutlineRepository
	chapterRepo   repository.ChapterRepository
	characterRepo repository.CharacterRepository
	worldRepo     repository.WorldRepository
	summaryRepo   repository.SummaryRepository
	eventRepo     repository.EventRepository
	threadRepo    repository.ThreadRepository
	tx            repository.Transactor

	cache      *redis.Cache
	engine     *retrieval.Engine
	indexer    *retrieval.Indexer
	summarizer VolumeSummarizer

	recentWindow   int
	volumeSize     int
	timelineTail   int
	maxLocations   int
	maxOpenThreads int
	retrievalTopK  int
	contextTTL     time.Duration
}

type StoreDeps struct {
	ProjectRepo   repository.ProjectRepository
	OutlineRepo   repository.OutlineRepository
	ChapterRepo   repository.ChapterRepository
	CharacterRepo repository.CharacterRepository
	WorldRepo     repository.WorldRepository
	SummaryRepo   repository.SummaryRepository
	EventRepo     repository.EventRepository
	ThreadRepo    repository.ThreadRepository
	Tx            repository.Transactor

	Cache      *redis.Cache
	Engine     *retrieval.Engine
	Indexer    *retrieval.Indexer
	Summarizer VolumeSummarizer
}

func NewStore(deps StoreDeps, cfg *config.MemoryConfig) *Store {
	s := &Store{
		projectRepo:   deps.ProjectRepo,
		outlineRepo:   deps.OutlineRepo,
		chapterRepo:   deps.ChapterRepo,
		characterRepo: deps.CharacterRepo,
		worldRepo:     deps.WorldRepo,
		summaryRepo:   deps.SummaryRepo,
		eventRepo:     deps.EventRepo,
		threadRepo:    deps.ThreadRepo,
		tx:            deps.Tx,
		cache:         deps.Cache,
		engine:        deps.Engine,
		indexer:       deps.Indexer,
		summarizer:    deps.Summarizer,

		recentWindow:   defaultRecentWindow,
		volumeSize:     defaultVolumeSize,
		timelineTail:   defaultTimelineTail,
		maxLocations:   defaultMaxLocations,
		maxOpenThreads: defaultMaxOpenThreads,
		retrievalTopK:  defaultRetrievalTopK,
		contextTTL:     defaultContextTTL,
	}
	if cfg != nil {
		if cfg.RecentWindow > 0 {
			s.recentWindow = cfg.RecentWindow
		}
		if cfg.VolumeSize > 0 {
			s.volumeSize = cfg.VolumeSize
		}
		if cfg.TimelineTail > 0 {
			s.timelineTail = cfg.TimelineTail
		}
		if cfg.MaxLocations > 0 {
			s.maxLocations = cfg.MaxLocations
		}
		if cfg.MaxOpenThreads > 0 {
			s.maxOpenThreads = cfg.MaxOpenThreads
		}
		if cfg.RetrievalTopK > 0 {
			s.retrievalTopK = cfg.RetrievalTopK
		}
		if cfg.ContextTTL > 0 {
			s.contextTTL = cfg.ContextTTL
		}
	}
	return s
}

func (s *Store) VolumeSize() int   { return s.volumeSize }
func (s *Store) RecentWindow() int { return s.recentWindow }

// Update 在章节定稿后更新记忆层。
// 摘要、角色出场、时间线事件、伏笔线索、进度推进在同一事务内写入；
// 向量索引与卷摘要在事务外补做，失败只降级语义检索，不回滚章节。
func (s *Store) Update(ctx context.Context, tenantID string, project *entity.Project, chapter *entity.Chapter, summary *entity.ChapterSummary) error {
	ctx, span := tracer.Start(ctx, "memory.Store.Update",
		trace.WithAttributes(
			attribute.String("project_id", project.ID),
			attribute.Int("chapter_num", chapter.SeqNum),
		))
	defer span.End()

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.summaryRepo.CreateChapterSummary(txCtx, summary); err != nil {
			return err
		}
		if err := s.updateCharacters(txCtx, project.ID, chapter.SeqNum, summary); err != nil {
			return err
		}
		if err := s.recordEvents(txCtx, project.ID, chapter.SeqNum, summary); err != nil {
			return err
		}
		if err := s.openThreads(txCtx, project.ID, chapter.SeqNum, summary); err != nil {
			return err
		}
		return s.projectRepo.AdvanceProgress(txCtx, project.ID, chapter.SeqNum, chapter.WordCount)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	log := logger.FromContext(ctx)
	if chapter.SeqNum%s.volumeSize == 0 {
		if err := s.rollupVolume(ctx, project.ID, chapter.SeqNum); err != nil {
			log.Warn("failed to roll up volume summary", "chapter_num", chapter.SeqNum, "error", err)
		}
	}
	if s.indexer != nil && s.indexer.Enabled() {
		if err := s.indexer.IndexChapter(ctx, tenantID, project.ID, chapter); err != nil {
			log.Warn("failed to index chapter", "chapter_num", chapter.SeqNum, "error", err)
		}
		if err := s.indexer.IndexSummary(ctx, tenantID, project.ID, summary); err != nil {
			log.Warn("failed to index chapter summary", "chapter_num", chapter.SeqNum, "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.InvalidateMemoryContext(ctx, tenantID, project.ID); err != nil {
			log.Warn("failed to invalidate memory context cache", "error", err)
		}
	}
	return nil
}

// updateCharacters 刷新摘要中出场角色的出场统计。
func (s *Store) updateCharacters(ctx context.Context, projectID string, chapterNum int, summary *entity.ChapterSummary) error {
	for _, name := range summary.Characters {
		ch, err := s.characterRepo.GetByName(ctx, projectID, name)
		if err != nil || ch == nil {
			// 摘要里的新名字不自动建档，留给设定调整流程处理。
			continue
		}
		ch.RecordAppearance(chapterNum)
		if err := s.characterRepo.Update(ctx, ch); err != nil {
			return err
		}
	}
	return nil
}

// recordEvents 将摘要关键事件写入时间线。
func (s *Store) recordEvents(ctx context.Context, projectID string, chapterNum int, summary *entity.ChapterSummary) error {
	if len(summary.KeyEvents) == 0 {
		return nil
	}
	events := make([]*entity.TimelineEvent, 0, len(summary.KeyEvents))
	for _, ev := range summary.KeyEvents {
		e := entity.NewTimelineEvent(projectID, chapterNum, ev)
		e.Characters = pq.StringArray(summary.Characters)
		events = append(events, e)
	}
	return s.eventRepo.CreateBatch(ctx, events)
}

// openThreads 将摘要中的新伏笔登记为未决线索。
func (s *Store) openThreads(ctx context.Context, projectID string, chapterNum int, summary *entity.ChapterSummary) error {
	if len(summary.NewThreads) == 0 {
		return nil
	}
	threads := make([]*entity.PlotThread, 0, len(summary.NewThreads))
	for _, t := range summary.NewThreads {
		threads = append(threads, entity.NewPlotThread(projectID, t, chapterNum))
	}
	return s.threadRepo.CreateBatch(ctx, threads)
}

// rollupVolume 在一卷写满时把该卷的章节摘要压缩成卷摘要。
func (s *Store) rollupVolume(ctx context.Context, projectID string, chapterNum int) error {
	volumeNum := chapterNum / s.volumeSize
	from := (volumeNum-1)*s.volumeSize + 1

	summaries, err := s.summaryRepo.ListSummaryRange(ctx, projectID, from, chapterNum)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return nil
	}

	var vs *entity.VolumeSummary
	if s.summarizer != nil {
		vs = s.summarizer.SummarizeVolume(ctx, projectID, volumeNum, from, chapterNum, summaries)
	} else {
		texts := make([]string, 0, len(summaries))
		sourceWords := 0
		for _, cs := range summaries {
			texts = append(texts, cs.Text)
			sourceWords += cs.SourceWords
		}
		vs = entity.NewVolumeSummary(projectID, volumeNum, from, chapterNum, strings.Join(texts, " "), sourceWords)
	}
	return s.summaryRepo.CreateVolumeSummary(ctx, vs)
}
