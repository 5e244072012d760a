package po

import (
	"time"

	"ddd-kernel/domain/shared"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutboxEventPO outbox 表记录
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventKind   string    `gorm:"size:100;index;not null"`          // e.g. "board.task_added"
	Payload     string    `gorm:"type:json;not null"`               // envelope, see eventEnvelope
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus outbox 事件投递状态
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// PayloadProvider 事件可以自行决定写入 outbox 的数据；未实现时序列化事件本身的导出字段
type PayloadProvider interface {
	Payload() any
}

type eventEnvelope struct {
	EventKind   string    `json:"event_kind"`
	AggregateID string    `json:"aggregate_id"`
	OccurredOn  time.Time `json:"occurred_on"`
	Data        any       `json:"data"`
}

// FromDomainEvent 领域事件转换为 outbox 记录
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	var data any = event
	if p, ok := event.(PayloadProvider); ok {
		data = p.Payload()
	}

	payload, err := json.MarshalToString(eventEnvelope{
		EventKind:   string(event.Kind()),
		AggregateID: event.AggregateID().String(),
		OccurredOn:  event.OccurredOn(),
		Data:        data,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.NewString(),
		AggregateID: event.AggregateID().String(),
		EventKind:   string(event.Kind()),
		Payload:     payload,
		Status:      string(EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ToEventData 解析 payload（调试与测试用）
func (po *OutboxEventPO) ToEventData() (map[string]any, error) {
	var data map[string]any
	if err := json.UnmarshalFromString(po.Payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}
