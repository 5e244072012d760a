package mysql

import (
	"context"
	"fmt"

	"ddd-kernel/domain/shared"
	"ddd-kernel/infrastructure/persistence"
	"ddd-kernel/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// outboxInsertBatch 单条 INSERT 最多携带的事件数
const outboxInsertBatch = 100

// OutboxRepository 事务性 outbox
//
// 写入：UnitOfWork 在提交前把已登记聚合的事件与聚合状态写入同一事务。
// 投递：OutboxWorker 按 PENDING -> PROCESSING -> PUBLISHED 推进状态，
// 失败时回到 PENDING，重试次数达到上限后停在 FAILED。
// 状态迁移都是带前置状态的单条 UPDATE，多个 worker 并发时不会互相覆盖。
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) conn(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvents 聚合的全部事件批量插入；没有事件时不访问数据库
func (r *OutboxRepository) SaveEvents(ctx context.Context, aggregate shared.AggregateRoot) error {
	return r.insert(ctx, aggregate.DomainEvents())
}

// SaveEvent 写入单个事件，主要给不经过工作单元的调用方
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	return r.insert(ctx, []shared.DomainEvent{event})
}

func (r *OutboxRepository) insert(ctx context.Context, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]*po.OutboxEventPO, 0, len(events))
	for _, event := range events {
		if err := shared.ValidateEvent(event); err != nil {
			return fmt.Errorf("invalid domain event: %w", err)
		}
		row, err := po.FromDomainEvent(event)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.Kind(), err)
		}
		rows = append(rows, row)
	}

	write := func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(rows, outboxInsertBatch).Error; err != nil {
			return fmt.Errorf("failed to save events to outbox: %w", err)
		}
		return nil
	}
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return write(tx)
	}
	return r.db.WithContext(ctx).Transaction(write)
}

// GetPendingEvents 按写入顺序取出待投递事件
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := r.conn(ctx).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing PENDING -> PROCESSING，行数为 0 表示已被其他 worker 抢占
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, po.EventStatusPending, map[string]any{
		"status":     string(po.EventStatusProcessing),
		"updated_at": gorm.Expr("NOW()"),
	}, "event not found or already being processed")
}

// MarkEventPublished PROCESSING -> PUBLISHED
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, po.EventStatusProcessing, map[string]any{
		"status":     string(po.EventStatusPublished),
		"updated_at": gorm.Expr("NOW()"),
	}, "event not found or not being processed")
}

// MarkEventFailed PROCESSING -> PENDING，重试次数加一；达到 maxRetries 时改为 FAILED
//
// gorm 按列名排序生成 SET，MySQL 从左到右求值，
// 所以 status 的 CASE 看到的是已经加一后的 retry_count。
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	return r.transition(ctx, eventID, po.EventStatusProcessing, map[string]any{
		"retry_count": gorm.Expr("retry_count + 1"),
		"status": gorm.Expr("CASE WHEN retry_count >= ? THEN ? ELSE ? END",
			maxRetries, string(po.EventStatusFailed), string(po.EventStatusPending)),
		"updated_at": gorm.Expr("NOW()"),
	}, "event not found or not being processed")
}

func (r *OutboxRepository) transition(ctx context.Context, eventID string, from po.EventStatus, changes map[string]any, missing string) error {
	result := r.conn(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(from)).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %s", missing, eventID)
	}
	return nil
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
