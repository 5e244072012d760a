package shared

import (
	"fmt"
	"time"
)

// EventKind 领域事件类型标识（显式判别值，用作处理器注册表的键）
// 建议使用稳定的 "<aggregate>.<past_tense>" 字符串，如 "board.task_added"
type EventKind string

// DomainEvent 领域事件接口
type DomainEvent interface {
	Kind() EventKind
	OccurredOn() time.Time
	AggregateID() UniqueEntityID
}

// BaseEvent 可嵌入的领域事件基础实现
type BaseEvent struct {
	kind        EventKind
	aggregateID UniqueEntityID
	occurredOn  time.Time
}

// NewBaseEvent 创建事件基础信息，发生时间为当前时间
func NewBaseEvent(kind EventKind, aggregateID UniqueEntityID) BaseEvent {
	return BaseEvent{
		kind:        kind,
		aggregateID: aggregateID,
		occurredOn:  time.Now(),
	}
}

func (e BaseEvent) Kind() EventKind             { return e.kind }
func (e BaseEvent) OccurredOn() time.Time       { return e.occurredOn }
func (e BaseEvent) AggregateID() UniqueEntityID { return e.aggregateID }

// ValidateEvent 验证领域事件
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.Kind() == "" {
		return fmt.Errorf("event kind cannot be empty")
	}

	if event.AggregateID().IsZero() {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
