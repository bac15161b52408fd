package events

import (
	"time"

	"go-hris-analytics/internal/report"
)

const ReportRequestedTopic = "hr.report.requested.v1"

type ReportRequestedEvent struct {
	EventType   string        `json:"event_type"`
	Report      string        `json:"report"`
	Params      report.Params `json:"params"`
	RequestedBy string        `json:"requested_by,omitempty"`
	RequestID   string        `json:"request_id,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}
