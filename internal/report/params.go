package report

import (
	"fmt"
	"math"
	"time"
)

// Params is the union of every report's options. Nil means "use the default".
// A report ignores options it does not recognize.
type Params struct {
	Limit            *int      `json:"limit,omitempty"`
	MinProjects      *int      `json:"minProjects,omitempty"`
	Month            *int      `json:"month,omitempty"`
	Year             *int      `json:"year,omitempty"`
	Department       string    `json:"department,omitempty"`
	PayrollYear      *int      `json:"payrollYear,omitempty"`
	PayrollMonths    []int     `json:"payrollMonths,omitempty"`
	RatingWindowDays *int      `json:"ratingWindowDays,omitempty"`
	EmployeeID       *int64    `json:"employeeId,omitempty"`
	// AsOf is the "current date" for status computations. Callers set it from
	// their clock; reports never read the system time.
	AsOf             time.Time `json:"asOf"`
}

// Int is a helper for building Params literals.
func Int(v int) *int { return &v }

// ID is Int for entity ids.
func ID(v int64) *int64 { return &v }

// ParameterError is returned before any computation starts when an option is
// outside its domain.
type ParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q (%v): %s", e.Param, e.Value, e.Reason)
}

func intIn(name string, v *int, def, lo, hi int) (int, error) {
	if v == nil {
		return def, nil
	}
	if *v < lo || *v > hi {
		reason := fmt.Sprintf("must be between %d and %d", lo, hi)
		if hi == math.MaxInt {
			reason = fmt.Sprintf("must be at least %d", lo)
		}
		return 0, &ParameterError{Param: name, Value: *v, Reason: reason}
	}
	return *v, nil
}

func (p Params) asOf() (time.Time, error) {
	if p.AsOf.IsZero() {
		return time.Time{}, &ParameterError{Param: "asOf", Value: "", Reason: "a reference date is required"}
	}
	y, m, d := p.AsOf.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// monthYear resolves month and year, defaulting to the month of AsOf.
func (p Params) monthYear() (int, int, error) {
	var defMonth, defYear int
	if p.Month == nil || p.Year == nil {
		asOf, err := p.asOf()
		if err != nil {
			return 0, 0, err
		}
		defMonth, defYear = int(asOf.Month()), asOf.Year()
	}
	month, err := intIn("month", p.Month, defMonth, 1, 12)
	if err != nil {
		return 0, 0, err
	}
	year, err := intIn("year", p.Year, defYear, 2000, math.MaxInt)
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

// year resolves Year, defaulting to the year of AsOf.
func (p Params) year() (int, error) {
	if p.Year != nil {
		return intIn("year", p.Year, 0, 2000, math.MaxInt)
	}
	asOf, err := p.asOf()
	if err != nil {
		return 0, err
	}
	return asOf.Year(), nil
}
