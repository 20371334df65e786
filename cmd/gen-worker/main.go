// Package main 异步生成 worker 入口（gen-worker）
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"longnovel-ai/internal/application/batch"
	"longnovel-ai/internal/application/generation"
	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/infrastructure/eino/callback"
	"longnovel-ai/internal/infrastructure/messaging"
	"longnovel-ai/internal/wire"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"
	"longnovel-ai/pkg/tracer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "gen-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	w, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	callback.Init(w.UsageRecorder, w.PgTenantCtx)

	consumer := messaging.NewConsumer(w.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:       messaging.StreamChapterGen,
		Group:        messaging.ConsumerGroupGenWorker,
		ConsumerName: hostnameConsumerName(),
		BlockTimeout: cfg.Messaging.RedisStream.BlockTimeout,
		RetryLimit:   cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})

	consumer.RegisterHandler(messaging.MsgTypeChapterGen, func(msgCtx context.Context, msg *messaging.Message) error {
		var payload messaging.GenerationJobMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			return err
		}
		return handleChapterGen(msgCtx, w, payload)
	})

	consumer.RegisterHandler(messaging.MsgTypeBatchGen, func(msgCtx context.Context, msg *messaging.Message) error {
		var payload messaging.GenerationJobMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			return err
		}
		return handleBatchGen(msgCtx, w, payload)
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}

	log := logger.FromContext(ctx)
	log.Info("gen-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("gen-worker shutting down")
	consumer.Stop()
}

// handleChapterGen 执行单章生成任务。生成调用耗时较长，不放入数据库事务，
// 任务状态流转通过 JobRepository 单独落库。
func handleChapterGen(ctx context.Context, w *wire.Worker, payload messaging.GenerationJobMessage) error {
	log := logger.FromContext(ctx)

	job, err := w.JobRepo.GetByID(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		log.Warn("job not found, skipping", "job_id", payload.JobID)
		return nil
	}
	if job.Status == entity.JobStatusCancelled {
		log.Info("job cancelled, skipping", "job_id", payload.JobID)
		return nil
	}

	if err := markRunning(ctx, w, payload.TenantID, payload.JobID); err != nil {
		return err
	}

	req := generation.GenerateRequest{
		TenantID:   payload.TenantID,
		ProjectID:  payload.ProjectID,
		ChapterNum: payload.ChapterNum,
		Title:      stringParam(payload.Params, "title"),
		Goal:       stringParam(payload.Params, "goal"),
	}
	res, genErr := w.Gen.GenerateChapter(ctx, req)
	if genErr != nil && !errors.Is(genErr, apperrors.ErrConsistencyFailed) {
		job.Fail(genErr.Error())
		if err := updateJob(ctx, w, payload.TenantID, job); err != nil {
			log.Error("failed to persist job failure", "job_id", job.ID, "error", err)
		}
		return genErr
	}

	output := map[string]interface{}{
		"chapter_num": res.Chapter.SeqNum,
		"word_count":  res.Chapter.WordCount,
		"status":      string(res.Chapter.Status),
		"attempts":    res.Attempts,
	}
	result, _ := json.Marshal(output)
	job.Complete(result)
	return updateJob(ctx, w, payload.TenantID, job)
}

// handleBatchGen 执行批量生成任务。进度与完结状态由 Runner 自己维护。
func handleBatchGen(ctx context.Context, w *wire.Worker, payload messaging.GenerationJobMessage) error {
	job, err := w.JobRepo.GetByID(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job == nil || job.Status == entity.JobStatusCancelled {
		return nil
	}

	_, runErr := w.Runner.Run(ctx, batch.Request{
		TenantID:    payload.TenantID,
		ProjectID:   payload.ProjectID,
		FromChapter: intParam(payload.Params, "from_chapter"),
		ToChapter:   intParam(payload.Params, "to_chapter"),
		JobID:       payload.JobID,
	})
	if runErr != nil {
		job.Fail(runErr.Error())
		if err := updateJob(ctx, w, payload.TenantID, job); err != nil {
			logger.FromContext(ctx).Error("failed to persist job failure", "job_id", job.ID, "error", err)
		}
		return runErr
	}
	return nil
}

func markRunning(ctx context.Context, w *wire.Worker, tenantID, jobID string) error {
	return w.TxMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := w.TenantCtx.SetTenant(txCtx, tenantID); err != nil {
			return err
		}
		return w.JobRepo.UpdateStatus(txCtx, jobID, entity.JobStatusRunning)
	})
}

func updateJob(ctx context.Context, w *wire.Worker, tenantID string, job *entity.GenerationJob) error {
	return w.TxMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := w.TenantCtx.SetTenant(txCtx, tenantID); err != nil {
			return err
		}
		return w.JobRepo.Update(txCtx, job)
	})
}

func stringParam(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func intParam(params map[string]interface{}, key string) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return 0
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
