// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"strings"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/gin-gonic/gin"

	"longnovel-ai/internal/application/batch"
	"longnovel-ai/internal/application/foundation"
	"longnovel-ai/internal/application/generation"
	"longnovel-ai/internal/application/memory"
	"longnovel-ai/internal/application/outline"
	"longnovel-ai/internal/application/project"
	"longnovel-ai/internal/application/quota"
	"longnovel-ai/internal/application/retrieval"
	"longnovel-ai/internal/application/summarize"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/repository"
	infraembedding "longnovel-ai/internal/infrastructure/embedding"
	"longnovel-ai/internal/infrastructure/messaging"
	"longnovel-ai/internal/infrastructure/persistence/milvus"
	"longnovel-ai/internal/infrastructure/persistence/postgres"
	"longnovel-ai/internal/infrastructure/persistence/redis"
	"longnovel-ai/internal/interfaces/http/handler"
	"longnovel-ai/internal/interfaces/http/middleware"
	"longnovel-ai/internal/interfaces/http/router"
	workflowport "longnovel-ai/internal/workflow/port"
	"longnovel-ai/pkg/logger"
)

// App API 服务依赖容器
type App struct {
	Router        *router.Router
	UsageRecorder *quota.LLMUsageRecorder
	TenantCtx     *postgres.TenantContext
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.Router.Engine()
}

// Worker 异步生成 worker 的依赖容器
type Worker struct {
	Gen           *generation.Service
	Runner        *batch.Runner
	JobRepo       repository.JobRepository
	TxMgr         repository.Transactor
	TenantCtx     repository.TenantContextManager
	RedisClient   *redis.Client
	UsageRecorder *quota.LLMUsageRecorder
	PgTenantCtx   *postgres.TenantContext
}

// CLIApp 本地命令行工具的依赖容器
type CLIApp struct {
	Projects      *project.Service
	Outline       *outline.Generator
	Foundation    *foundation.Builder
	Gen           *generation.Service
	Runner        *batch.Runner
	Memory        *memory.Store
	TenantRepo    repository.TenantRepository
	ChapterRepo   repository.ChapterRepository
	UsageRecorder *quota.LLMUsageRecorder
	TenantCtx     *postgres.TenantContext
	Workspace     *config.WorkspaceConfig
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideMilvusClientOptional 提供可选的 Milvus 客户端
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, vector features disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

func ProvideMilvusRepositoryOptional(client *milvus.Client) *milvus.Repository {
	if client == nil {
		return nil
	}
	return milvus.NewRepository(client)
}

func ProvideRetrievalVectorRepositoryOptional(repo *milvus.Repository) retrieval.VectorRepository {
	if repo == nil {
		return nil
	}
	return milvus.NewRetrievalVectorRepository(repo)
}

// ProvideEmbedderOptional 提供可选的 Embedder
func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config) (einoembedding.Embedder, error) {
	embedder, err := infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Warn(ctx, "embedding not available, vector features disabled", "error", err.Error())
		return nil, nil
	}
	return embedder, nil
}

// ProvideRetrievalEngine 提供检索引擎
func ProvideRetrievalEngine(cfg *config.Config, embedder einoembedding.Embedder, vectorRepo retrieval.VectorRepository, characterRepo repository.CharacterRepository) *retrieval.Engine {
	bs := 0
	if cfg != nil {
		bs = cfg.Embedding.BatchSize
	}
	return retrieval.NewEngine(embedder, vectorRepo, characterRepo, bs)
}

// ProvideRetrievalIndexer 提供向量索引器
func ProvideRetrievalIndexer(cfg *config.Config, embedder einoembedding.Embedder, vectorRepo retrieval.VectorRepository) *retrieval.Indexer {
	bs := 0
	if cfg != nil {
		bs = cfg.Embedding.BatchSize
	}
	return retrieval.NewIndexer(embedder, vectorRepo, bs)
}

// defaultProviderModel 解析默认 LLM 提供商与模型
func defaultProviderModel(cfg *config.Config) (string, string) {
	provider := strings.TrimSpace(cfg.LLM.DefaultProvider)
	model := ""
	if pc, ok := cfg.LLM.Providers[provider]; ok {
		model = strings.TrimSpace(pc.Model)
	}
	return provider, model
}

// ProvideSummarizer 提供摘要器
func ProvideSummarizer(cfg *config.Config, factory workflowport.ChatModelFactory) *summarize.Summarizer {
	provider, model := defaultProviderModel(cfg)
	return summarize.NewSummarizer(factory, provider, model)
}

// ProvideOutlineGenerator 提供大纲生成器
func ProvideOutlineGenerator(cfg *config.Config, factory workflowport.ChatModelFactory, projectRepo repository.ProjectRepository, outlineRepo repository.OutlineRepository) *outline.Generator {
	provider, model := defaultProviderModel(cfg)
	return outline.NewGenerator(factory, projectRepo, outlineRepo, provider, model)
}

// ProvideFoundationBuilder 提供角色与世界观生成器
func ProvideFoundationBuilder(
	cfg *config.Config,
	factory workflowport.ChatModelFactory,
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	characterRepo repository.CharacterRepository,
	worldRepo repository.WorldRepository,
	tx repository.Transactor,
	indexer *retrieval.Indexer,
) *foundation.Builder {
	provider, model := defaultProviderModel(cfg)
	return foundation.NewBuilder(factory, projectRepo, outlineRepo, characterRepo, worldRepo, tx, indexer, provider, model)
}

// ProvideBatchRunner 提供批量生成器
func ProvideBatchRunner(
	gen *generation.Service,
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
	jobRepo repository.JobRepository,
	cfg *config.Config,
) *batch.Runner {
	return batch.NewRunner(gen, projectRepo, outlineRepo, chapterRepo, jobRepo, cfg.Generation.BatchWorkers)
}

// ProvideConsistencyConfig 提供一致性校验配置
func ProvideConsistencyConfig(cfg *config.Config) *config.ConsistencyConfig {
	return &cfg.Consistency
}

// ProvideLLMConfig 提供 LLM 配置
func ProvideLLMConfig(cfg *config.Config) *config.LLMConfig {
	return &cfg.LLM
}

// ProvideGenerationConfig 提供生成配置
func ProvideGenerationConfig(cfg *config.Config) *config.GenerationConfig {
	return &cfg.Generation
}

// ProvideMemoryConfig 提供记忆配置
func ProvideMemoryConfig(cfg *config.Config) *config.MemoryConfig {
	return &cfg.Memory
}

// ProvideWorkspaceConfig 提供工作目录配置
func ProvideWorkspaceConfig(cfg *config.Config) *config.WorkspaceConfig {
	return &cfg.Workspace
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	skipPaths := append([]string{}, middleware.DefaultSkipPaths...)
	skipPaths = append(skipPaths, "/v1/auth")
	return middleware.AuthConfig{
		Secret:    cfg.Security.JWT.Secret,
		Issuer:    cfg.Security.JWT.Issuer,
		SkipPaths: skipPaths,
		Enabled:   true,
	}
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(authCfg middleware.AuthConfig, cfg *config.Config, tenantRepo repository.TenantRepository) *handler.AuthHandler {
	return handler.NewAuthHandler(authCfg, cfg.Security.JWT.Expiration, cfg.Security.JWT.RefreshExpiration, tenantRepo)
}
