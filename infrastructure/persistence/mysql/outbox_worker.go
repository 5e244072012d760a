package mysql

import (
	"context"
	"fmt"
	"time"

	"ddd-kernel/config"
	"ddd-kernel/infrastructure/persistence/mysql/po"
	"ddd-kernel/pkg/logger"
	"ddd-kernel/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// OutboxPublisher 把 outbox 中的事件投递到进程外（消息队列、webhook 等）
type OutboxPublisher interface {
	Publish(ctx context.Context, eventKind, payload string) error
}

// LoggingOutboxPublisher 只输出日志，用于本地开发
type LoggingOutboxPublisher struct{}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventKind, payload string) error {
	logger.Info("Outbox event published",
		zap.String("event_kind", eventKind),
		zap.String("payload", payload),
	)
	return nil
}

type outboxStore interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error)
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error
}

// OutboxWorker 轮询 outbox 并投递待发送事件
type OutboxWorker struct {
	repository   outboxStore
	publisher    OutboxPublisher
	limiter      *rate.Limiter
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewOutboxWorker(repository *OutboxRepository, publisher OutboxPublisher, cfg config.WorkerConfig) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	return newOutboxWorker(repository, publisher, cfg)
}

func newOutboxWorker(repository outboxStore, publisher OutboxPublisher, cfg config.WorkerConfig) (*OutboxWorker, error) {
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if cfg.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	// publish_rate 为 0 时不限速
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.PublishRate > 0 {
		burst := cfg.PublishBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.PublishRate), burst)
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		limiter:      limiter,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
	}, nil
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.ObserveOutboxBatch(time.Since(start)) }()

	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}

		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventKind, event.Payload); err != nil {
			metrics.RecordOutboxPublish(event.EventKind, false)
			logger.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_kind", event.EventKind),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		metrics.RecordOutboxPublish(event.EventKind, true)
		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}
