package events

import "time"

const (
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"
	DataChangedTopic       = "hr.data.changed.v1"
)

// RefreshTopics are the topics whose events invalidate the analytics snapshot.
var RefreshTopics = []string{EmployeeLifecycleTopic, DataChangedTopic}

// HRDataChangedEvent is published by the HR system whenever one of its
// tables changes. Consumers only need to know that something changed; the
// fields are kept for logging.
type HRDataChangedEvent struct {
	EventType  string    `json:"event_type"`
	Table      string    `json:"table,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	EmployeeID string    `json:"employee_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
