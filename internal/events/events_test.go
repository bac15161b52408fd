package events_test

import (
	"testing"
	"time"

	"go-hris-analytics/internal/events"
	"go-hris-analytics/internal/report"

	"github.com/stretchr/testify/assert"
)

func TestNewReportGenerated(t *testing.T) {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("embeds small results and lists unavailable metrics", func(t *testing.T) {
		res := report.Result{
			Report: "dashboard",
			Title:  "System Dashboard",
			Rows: []report.Row{
				{"metric": "Total Employees", "value": 8, "status": report.StatusOK},
				{"metric": "Org Depth", "value": nil, "status": report.StatusUnavailable},
			},
		}

		ev := events.NewReportGenerated("evt-1", "v1", res, at)

		assert.Equal(t, events.ReportGeneratedEventType, ev.EventType)
		assert.Equal(t, "v1", ev.SnapshotVersion)
		assert.Equal(t, 2, ev.RowCount)
		assert.Len(t, ev.Rows, 2)
		assert.Equal(t, []string{"Org Depth"}, ev.Unavailable)
		assert.Equal(t, at, ev.GeneratedAt)
	})

	t.Run("omits rows of large results", func(t *testing.T) {
		res := report.Result{Report: "employee-directory"}
		for i := 0; i <= events.MaxEmbeddedRows; i++ {
			res.Rows = append(res.Rows, report.Row{"employeeId": i})
		}

		ev := events.NewReportGenerated("evt-2", "v1", res, at)

		assert.Equal(t, events.MaxEmbeddedRows+1, ev.RowCount)
		assert.Nil(t, ev.Rows)
		assert.Nil(t, ev.Unavailable)
	})
}
