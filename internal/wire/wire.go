//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"longnovel-ai/internal/application/adjust"
	"longnovel-ai/internal/application/consistency"
	"longnovel-ai/internal/application/generation"
	"longnovel-ai/internal/application/memory"
	"longnovel-ai/internal/application/project"
	"longnovel-ai/internal/application/quota"
	"longnovel-ai/internal/application/summarize"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/domain/service"
	"longnovel-ai/internal/infrastructure/llm"
	"longnovel-ai/internal/infrastructure/persistence/postgres"
	"longnovel-ai/internal/infrastructure/persistence/redis"
	"longnovel-ai/internal/interfaces/http/handler"
	"longnovel-ai/internal/interfaces/http/middleware"
	"longnovel-ai/internal/interfaces/http/router"
	workflowchain "longnovel-ai/internal/workflow/chain"
	workflowport "longnovel-ai/internal/workflow/port"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		EmbeddingSet,
		MilvusAppSet,
		RetrievalSet,
		LLMSet,
		AppSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeWorker 初始化异步生成 worker
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		EmbeddingSet,
		MilvusAppSet,
		RetrievalSet,
		LLMSet,
		AppSet,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializeCLI 初始化命令行工具
func InitializeCLI(ctx context.Context, cfg *config.Config) (*CLIApp, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		EmbeddingSet,
		MilvusAppSet,
		RetrievalSet,
		LLMSet,
		AppSet,
		ProvideWorkspaceConfig,
		wire.Struct(new(CLIApp), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewTenantContext,
	postgres.NewTenantRepository,
	postgres.NewProjectRepository,
	postgres.NewOutlineRepository,
	postgres.NewChapterRepository,
	postgres.NewCharacterRepository,
	postgres.NewWorldRepository,
	postgres.NewSummaryRepository,
	postgres.NewEventRepository,
	postgres.NewThreadRepository,
	postgres.NewJobRepository,
	postgres.NewLLMUsageEventRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.TenantContextManager), new(*postgres.TenantContext)),
	wire.Bind(new(repository.TenantRepository), new(*postgres.TenantRepository)),
	wire.Bind(new(repository.ProjectRepository), new(*postgres.ProjectRepository)),
	wire.Bind(new(repository.OutlineRepository), new(*postgres.OutlineRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.CharacterRepository), new(*postgres.CharacterRepository)),
	wire.Bind(new(repository.WorldRepository), new(*postgres.WorldRepository)),
	wire.Bind(new(repository.SummaryRepository), new(*postgres.SummaryRepository)),
	wire.Bind(new(repository.EventRepository), new(*postgres.EventRepository)),
	wire.Bind(new(repository.ThreadRepository), new(*postgres.ThreadRepository)),
	wire.Bind(new(repository.JobRepository), new(*postgres.JobRepository)),
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
)

// MilvusAppSet 可选 Milvus（不可达时不阻塞启动）
var MilvusAppSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideMilvusRepositoryOptional,
	ProvideRetrievalVectorRepositoryOptional,
)

// EmbeddingSet 可选 Embedder（不可用时禁用向量检索/索引）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// RetrievalSet 向量检索引擎（HTTP 与生成侧共用）
var RetrievalSet = wire.NewSet(
	ProvideRetrievalEngine,
	ProvideRetrievalIndexer,
)

// LLMSet 模型工厂提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
)

// AppSet 应用服务提供者集合
var AppSet = wire.NewSet(
	ProvideConsistencyConfig,
	ProvideLLMConfig,
	ProvideGenerationConfig,
	ProvideMemoryConfig,
	consistency.NewChecker,
	ProvideSummarizer,
	wire.Bind(new(memory.VolumeSummarizer), new(*summarize.Summarizer)),
	wire.Struct(new(memory.StoreDeps), "*"),
	memory.NewStore,
	workflowchain.NewChapterChain,
	workflowchain.NewAdjustChain,
	generation.NewService,
	ProvideBatchRunner,
	adjust.NewAdjuster,
	ProvideOutlineGenerator,
	ProvideFoundationBuilder,
	project.NewService,
	quota.NewTokenQuotaChecker,
	quota.NewLLMUsageRecorder,
	wire.Bind(new(service.LLMUsageRecorder), new(*quota.LLMUsageRecorder)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthConfig,
	ProvideWorkspaceConfig,
	ProvideAuthHandler,
	handler.NewHealthHandler,
	handler.NewProjectHandler,
	handler.NewOutlineHandler,
	handler.NewFoundationHandler,
	handler.NewChapterHandler,
	handler.NewMemoryHandler,
	handler.NewRetrievalHandler,
	handler.NewJobHandler,
	handler.NewTenantHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
