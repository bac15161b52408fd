package kafka

import "time"

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

type OutboxEvent struct {
	ID            string     `gorm:"column:id;primaryKey;size:36"`
	RequestID     string     `gorm:"column:request_id;size:64"`
	AggregateType string     `gorm:"column:aggregate_type;size:64;not null"`
	AggregateID   string     `gorm:"column:aggregate_id;size:128;not null"`
	EventType     string     `gorm:"column:event_type;size:64;not null"`
	Topic         string     `gorm:"column:topic;size:128;not null"`
	Payload       []byte     `gorm:"column:payload;not null"`
	Status        string     `gorm:"column:status;size:16;not null;index:idx_outbox_status_next"`
	RetryCount    int        `gorm:"column:retry_count;not null;default:0"`
	ErrorMessage  *string    `gorm:"column:error_message;size:500"`
	NextRetryAt   time.Time  `gorm:"column:next_retry_at;index:idx_outbox_status_next"`
	ProcessedAt   *time.Time `gorm:"column:processed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (OutboxEvent) TableName() string { return "analytics_outbox_events" }
