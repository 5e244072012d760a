package shared

import (
	"errors"
	"fmt"
)

// AggregateTracker 工作单元内登记的聚合，提交后交给派发器
// 同一聚合按 ID 只登记一次；dispatcher 为 nil 时提交后直接清空事件
type AggregateTracker struct {
	dispatcher *Dispatcher
	aggregates []AggregateRoot
}

func NewAggregateTracker(dispatcher *Dispatcher) *AggregateTracker {
	return &AggregateTracker{dispatcher: dispatcher}
}

func (t *AggregateTracker) Track(aggregate AggregateRoot) {
	id := aggregate.ID()
	for _, existing := range t.aggregates {
		if existing.ID().Equals(&id) {
			return
		}
	}
	t.aggregates = append(t.aggregates, aggregate)
}

// Aggregates 按登记顺序返回
func (t *AggregateTracker) Aggregates() []AggregateRoot {
	return t.aggregates
}

// Release 回滚后的聚合不再等待派发，事件保留在聚合上
func (t *AggregateTracker) Release() {
	if t.dispatcher == nil {
		return
	}
	for _, agg := range t.aggregates {
		t.dispatcher.Unmark(agg.ID())
	}
}

// Reset 开始新的一次尝试：上一次尝试的聚合实例已失效
func (t *AggregateTracker) Reset() {
	t.Release()
	t.aggregates = t.aggregates[:0]
}

// DispatchCommitted 每个聚合独立派发，一个聚合失败不影响其他聚合
// 失败的聚合保持标记与事件，错误以 ErrEventDispatch 包装返回
func (t *AggregateTracker) DispatchCommitted() error {
	var errs []error
	for _, agg := range t.aggregates {
		if t.dispatcher == nil {
			agg.ClearEvents()
			continue
		}
		if len(agg.DomainEvents()) > 0 {
			t.dispatcher.MarkAggregateForDispatch(agg)
		}
		if err := t.dispatcher.DispatchEventsForAggregate(agg.ID()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrEventDispatch, errors.Join(errs...))
}
