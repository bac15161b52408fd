package events

import (
	"time"

	"go-hris-analytics/internal/report"
)

const (
	ReportGeneratedTopic     = "hr.report.generated.v1"
	ReportGeneratedEventType = "report_generated"

	// MaxEmbeddedRows is the largest result carried inline in the event.
	MaxEmbeddedRows = 100
)

type ReportGeneratedEvent struct {
	EventID         string          `json:"event_id"`
	EventType       string          `json:"event_type"`
	Report          string          `json:"report"`
	Title           string          `json:"title"`
	Params          report.Params   `json:"params"`
	SnapshotVersion string          `json:"snapshot_version"`
	RowCount        int             `json:"row_count"`
	Columns         []report.Column `json:"columns,omitempty"`
	Rows            []report.Row    `json:"rows,omitempty"`
	// Unavailable lists dashboard metrics that could not be computed.
	Unavailable []string  `json:"unavailable,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReportGenerated summarizes res. Rows are embedded only for small results.
func NewReportGenerated(id, version string, res report.Result, generatedAt time.Time) ReportGeneratedEvent {
	ev := ReportGeneratedEvent{
		EventID:         id,
		EventType:       ReportGeneratedEventType,
		Report:          res.Report,
		Title:           res.Title,
		Params:          res.Params,
		SnapshotVersion: version,
		RowCount:        len(res.Rows),
		Columns:         res.Columns,
		GeneratedAt:     generatedAt,
	}
	if len(res.Rows) <= MaxEmbeddedRows {
		ev.Rows = res.Rows
	}
	if res.Report == "dashboard" {
		for _, row := range res.Rows {
			if row["status"] == report.StatusUnavailable {
				name, _ := row["metric"].(string)
				ev.Unavailable = append(ev.Unavailable, name)
			}
		}
	}
	return ev
}
