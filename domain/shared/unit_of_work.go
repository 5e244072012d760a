package shared

import (
	"context"
	"errors"
)

// ErrEventDispatch 事务已提交，但进程内事件派发失败；调用方不应重试整个业务操作
var ErrEventDispatch = errors.New("domain event dispatch failed after commit")

// UnitOfWork 管理事务边界与聚合事件收集。
// 事务提交成功后，实现方负责请求派发器派发已登记聚合的事件。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository 在同一事务内持久化领域事件，供跨进程投递
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
	// SaveEvents 一次写入聚合的全部待派发事件
	SaveEvents(ctx context.Context, aggregate AggregateRoot) error
}
