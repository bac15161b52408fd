package analytics

import (
	"strconv"
	"strings"
	"time"

	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/store"
)

const dateLayout = "2006-01-02"

// ReportQuery holds the query string options of a report request. Ranges are
// checked by the report itself so the API and the CLI reject the same values.
type ReportQuery struct {
	Limit            *int   `form:"limit"`
	MinProjects      *int   `form:"min_projects"`
	Month            *int   `form:"month"`
	Year             *int   `form:"year"`
	Department       string `form:"department" binding:"max=100"`
	AsOf             string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
	PayrollYear      *int   `form:"payroll_year"`
	PayrollMonths    string `form:"payroll_months"`
	RatingWindowDays *int   `form:"rating_window_days"`
	EmployeeID       *int64 `form:"employee_id"`
}

type ExportQuery struct {
	ReportQuery
	Format string `form:"format"`
}

// ToParams converts the query into report parameters. An empty as_of is left
// unset; the service fills it from its clock.
func (q ReportQuery) ToParams() (report.Params, error) {
	p := report.Params{
		Limit:            q.Limit,
		MinProjects:      q.MinProjects,
		Month:            q.Month,
		Year:             q.Year,
		Department:       strings.TrimSpace(q.Department),
		PayrollYear:      q.PayrollYear,
		RatingWindowDays: q.RatingWindowDays,
		EmployeeID:       q.EmployeeID,
	}

	if q.AsOf != "" {
		asOf, err := time.Parse(dateLayout, q.AsOf)
		if err != nil {
			return report.Params{}, apperror.InvalidField("as_of").WithErr(err)
		}
		p.AsOf = store.Day(asOf)
	}

	months, err := ParseMonths(q.PayrollMonths)
	if err != nil {
		return report.Params{}, apperror.InvalidField("payroll_months").WithErr(err)
	}
	p.PayrollMonths = months

	return p, nil
}

// ParseMonths reads a comma separated month list such as "1,2,3".
func ParseMonths(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	months := make([]int, 0, len(parts))
	for _, part := range parts {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, nil
}

type ReportResponse struct {
	Report          string          `json:"report"`
	Title           string          `json:"title"`
	Params          report.Params   `json:"params"`
	Columns         []report.Column `json:"columns"`
	Rows            []report.Row    `json:"rows"`
	SnapshotVersion string          `json:"snapshotVersion"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	// Cached is set when the response came from redis.
	Cached bool `json:"-"`
}

func (r ReportResponse) Result() report.Result {
	return report.Result{
		Report:  r.Report,
		Title:   r.Title,
		Params:  r.Params,
		Columns: r.Columns,
		Rows:    r.Rows,
	}
}

func mapToResponse(res report.Result, version string, generatedAt time.Time) ReportResponse {
	return ReportResponse{
		Report:          res.Report,
		Title:           res.Title,
		Params:          res.Params,
		Columns:         res.Columns,
		Rows:            res.Rows,
		SnapshotVersion: version,
		GeneratedAt:     generatedAt,
	}
}

type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type SnapshotInfo struct {
	Version  string             `json:"version"`
	LoadedAt time.Time          `json:"loadedAt"`
	Entities map[store.Kind]int `json:"entities"`
}

type StatusResponse struct {
	SnapshotVersion string             `json:"snapshotVersion,omitempty"`
	LoadedAt        *time.Time         `json:"loadedAt,omitempty"`
	Entities        map[store.Kind]int `json:"entities,omitempty"`
	SourceTables    map[string]int64   `json:"sourceTables"`
	LastError       string             `json:"lastError,omitempty"`
	Reports         []string           `json:"reports"`
}
