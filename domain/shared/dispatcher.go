package shared

import (
	"fmt"
	"sync"

	"ddd-kernel/pkg/logger"
	"ddd-kernel/pkg/metrics"

	"go.uber.org/zap"
)

// HandlerFunc 领域事件处理器，同步执行，返回 error 表示处理失败
type HandlerFunc func(event DomainEvent) error

// Subscriber 事件订阅方，在组合根启动时向派发器注册自己的处理器
type Subscriber interface {
	SetupSubscriptions(d *Dispatcher)
}

// DispatcherOption 派发器选项
type DispatcherOption func(*Dispatcher)

// WithLogger 指定派发器使用的 logger
func WithLogger(l *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDispatchLogging 是否为每个派发的事件输出 debug 日志
func WithDispatchLogging(enabled bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.logDispatch = enabled
	}
}

// Dispatcher 领域事件派发器
//
// 聚合在业务操作中记录事件并把自己标记为待派发；
// 外部工作单元在事务提交成功后调用 DispatchEventsForAggregate，
// 派发器按记录顺序同步调用处理器，然后清空事件并移除标记。
//
// 派发器是显式的值，由组合根创建并传递给聚合与订阅方，不存在全局状态。
// 内部状态受互斥锁保护，处理器在锁外执行，因此处理器中可以再次标记聚合。
type Dispatcher struct {
	mu          sync.Mutex
	handlers    map[EventKind][]HandlerFunc
	marked      []AggregateRoot
	logger      *zap.Logger
	logDispatch bool
}

// NewDispatcher 创建派发器
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers:    make(map[EventKind][]HandlerFunc),
		logger:      logger.Get().Named("dispatcher"),
		logDispatch: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Use 让订阅方完成注册
func (d *Dispatcher) Use(subscribers ...Subscriber) {
	for _, s := range subscribers {
		s.SetupSubscriptions(d)
	}
}

// Register 为事件类型追加处理器；注册是累加的，不去重
func (d *Dispatcher) Register(kind EventKind, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], handler)
}

// Subscribe 以具体事件类型注册处理器，处理器签名在编译期检查
// 同一 kind 下出现其他 Go 类型的事件时返回错误
func Subscribe[E DomainEvent](d *Dispatcher, kind EventKind, handler func(event E) error) {
	d.Register(kind, func(event DomainEvent) error {
		typed, ok := event.(E)
		if !ok {
			return fmt.Errorf("event %s: unexpected type %T", kind, event)
		}
		return handler(typed)
	})
}

// MarkAggregateForDispatch 标记聚合等待派发；同一标识的聚合已被标记时为空操作
func (d *Dispatcher) MarkAggregateForDispatch(aggregate AggregateRoot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexOf(aggregate.ID()) >= 0 {
		return
	}
	d.marked = append(d.marked, aggregate)
}

// DispatchEventsForAggregate 派发指定聚合的全部待派发事件
//
// 未找到被标记的聚合时静默返回 nil。
// 处理器失败即停止：剩余的处理器与事件不再调用，错误向上返回，
// 聚合保持标记状态且事件不被清空，由调用方决定是否重试。
// 处理器中的 panic 不会被捕获。
func (d *Dispatcher) DispatchEventsForAggregate(id UniqueEntityID) error {
	d.mu.Lock()
	idx := d.indexOf(id)
	if idx < 0 {
		d.mu.Unlock()
		return nil
	}
	aggregate := d.marked[idx]
	events := aggregate.DomainEvents()
	d.mu.Unlock()

	for _, event := range events {
		if err := d.dispatch(event); err != nil {
			return err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	aggregate.ClearEvents()
	if idx := d.indexOf(id); idx >= 0 {
		d.marked = append(d.marked[:idx], d.marked[idx+1:]...)
	}
	return nil
}

func (d *Dispatcher) dispatch(event DomainEvent) error {
	d.mu.Lock()
	registered := d.handlers[event.Kind()]
	handlers := make([]HandlerFunc, len(registered))
	copy(handlers, registered)
	d.mu.Unlock()

	for i, handler := range handlers {
		if err := handler(event); err != nil {
			d.logger.Warn("Domain event handler failed",
				zap.String("event_kind", string(event.Kind())),
				zap.String("aggregate_id", event.AggregateID().String()),
				zap.Int("handler_index", i),
				zap.Error(err),
			)
			metrics.RecordEventDispatched(string(event.Kind()), false)
			return fmt.Errorf("dispatch %s for aggregate %s: %w", event.Kind(), event.AggregateID(), err)
		}
	}

	metrics.RecordEventDispatched(string(event.Kind()), true)
	if d.logDispatch {
		d.logger.Debug("Domain event dispatched",
			zap.String("event_kind", string(event.Kind())),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Int("handlers", len(handlers)),
		)
	}
	return nil
}

// Unmark 移出待派发列表但不派发，聚合上的事件保持不变
// 工作单元回滚后调用，避免长生命周期的派发器持有失败事务中的聚合
func (d *Dispatcher) Unmark(id UniqueEntityID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if idx := d.indexOf(id); idx >= 0 {
		d.marked = append(d.marked[:idx], d.marked[idx+1:]...)
	}
}

// IsMarked 聚合是否处于待派发状态
func (d *Dispatcher) IsMarked(id UniqueEntityID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.indexOf(id) >= 0
}

// MarkedCount 待派发聚合数量
func (d *Dispatcher) MarkedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.marked)
}

// ClearHandlers 清空所有处理器（测试之间重置用）
func (d *Dispatcher) ClearHandlers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[EventKind][]HandlerFunc)
}

// ClearMarkedAggregates 清空待派发列表（测试之间重置用）
func (d *Dispatcher) ClearMarkedAggregates() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marked = nil
}

func (d *Dispatcher) indexOf(id UniqueEntityID) int {
	for i, aggregate := range d.marked {
		if aggregate.ID().Equals(&id) {
			return i
		}
	}
	return -1
}

var _ EventMarker = (*Dispatcher)(nil)
