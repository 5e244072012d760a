package mysql

import (
	"context"
	"fmt"

	"ddd-kernel/domain/shared"
	"ddd-kernel/infrastructure/persistence"
	"ddd-kernel/infrastructure/persistence/retry"
	"ddd-kernel/pkg/logger"
	"ddd-kernel/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork GORM 实现的工作单元
//
// Execute 的流程：
// 1. 开启事务，把事务放入 context 供仓储使用
// 2. 执行业务函数，期间仓储通过 RegisterNew/RegisterDirty/RegisterRemoved 登记聚合
// 3. 把已登记聚合的待派发事件写入 outbox（同一事务）
// 4. 提交；可重试的错误（乐观锁冲突、死锁等）按退避策略重试整个事务
// 5. 提交成功后，由派发器同步派发各聚合的事件
type UnitOfWork struct {
	db               *gorm.DB
	tracker          *shared.AggregateTracker
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	logger           *zap.Logger
}

// NewUnitOfWork dispatcher 为 nil 时只写 outbox，不做进程内派发
func NewUnitOfWork(db *gorm.DB, dispatcher *shared.Dispatcher) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		tracker:          shared.NewAggregateTracker(dispatcher),
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.DefaultConfig,
		logger:           logger.Get().Named("uow"),
	}
}

func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	executeOnce := func(ctx context.Context) error {
		u.tracker.Reset()

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		for _, agg := range u.tracker.Aggregates() {
			if err := u.outboxRepository.SaveEvents(txCtx, agg); err != nil {
				tx.Rollback()
				return err
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	if err := retry.Do(ctx, u.retryConfig, executeOnce); err != nil {
		metrics.RecordUnitOfWork(metrics.OutcomeRolledBack)
		u.tracker.Release()
		return err
	}

	if err := u.tracker.DispatchCommitted(); err != nil {
		metrics.RecordUnitOfWork(metrics.OutcomeDispatchFailed)
		u.logger.Warn("Domain event dispatch failed after commit",
			zap.String("request_id", persistence.RequestIDFromContext(ctx)),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordUnitOfWork(metrics.OutcomeCommitted)
	return nil
}

// 同一聚合多次登记只保留一次，避免事件重复写入 outbox
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot)     { u.tracker.Track(aggregate) }
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot)   { u.tracker.Track(aggregate) }
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) { u.tracker.Track(aggregate) }

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
