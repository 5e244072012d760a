package shared

// AggregateRoot 聚合根接口（派发器消费的契约）
// 聚合根是一致性边界的入口点，负责记录领域事件
// 特性：
// 1. 有稳定的全局唯一标识
// 2. 按记录顺序暴露待派发的领域事件
// 3. 事件派发完成后可被清空
type AggregateRoot interface {
	ID() UniqueEntityID
	DomainEvents() []DomainEvent
	ClearEvents()
}

// EventMarker 接收"该聚合有待派发事件"的通知，通常由 Dispatcher 实现
type EventMarker interface {
	MarkAggregateForDispatch(aggregate AggregateRoot)
}

// AggregateBase 可嵌入的聚合根基础实现
//
// 使用方式：
//
//	type Board struct {
//	    shared.AggregateBase
//	    title string
//	}
//
//	func (b *Board) Rename(title string) {
//	    b.title = title
//	    b.AddDomainEvent(NewBoardRenamedEvent(b.ID(), title))
//	}
//
// 聚合必须以指针形式使用：派发器保存的是嵌入字段的地址
type AggregateBase struct {
	id      UniqueEntityID
	version int
	events  []DomainEvent
	marker  EventMarker
}

// NewAggregateBase 创建聚合根基础部分；id 为零值时生成新标识，marker 可以为 nil
func NewAggregateBase(id UniqueEntityID, marker EventMarker) AggregateBase {
	if id.IsZero() {
		id = NewUniqueEntityID()
	}
	return AggregateBase{id: id, marker: marker}
}

func (a *AggregateBase) ID() UniqueEntityID { return a.id }

// Version 乐观锁版本号，由持久化层在保存成功后递增
func (a *AggregateBase) Version() int { return a.version }

// SetVersion 仅供仓储在重建聚合时使用
func (a *AggregateBase) SetVersion(version int) { a.version = version }

func (a *AggregateBase) IncrementVersion() { a.version++ }

// BindDispatcher 绑定事件标记者（重建的聚合在进入业务操作前绑定）
func (a *AggregateBase) BindDispatcher(marker EventMarker) {
	a.marker = marker
	if len(a.events) > 0 && marker != nil {
		marker.MarkAggregateForDispatch(a)
	}
}

// AddDomainEvent 记录领域事件，并标记聚合等待派发
func (a *AggregateBase) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
	if a.marker != nil {
		a.marker.MarkAggregateForDispatch(a)
	}
}

// DomainEvents 按记录顺序返回待派发事件的副本
func (a *AggregateBase) DomainEvents() []DomainEvent {
	events := make([]DomainEvent, len(a.events))
	copy(events, a.events)
	return events
}

func (a *AggregateBase) ClearEvents() {
	a.events = nil
}

var _ AggregateRoot = (*AggregateBase)(nil)
