package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/hierarchy"
	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

type dashboardParams struct {
	asOf          time.Time
	payrollYear   int
	payrollMonths []int
	ratingWindow  int
}

type metric struct {
	name    string
	compute func(s *store.Store, p dashboardParams) (value any, detail string, err error)
}

var dashboardMetrics = []metric{
	{"Total Employees", func(s *store.Store, _ dashboardParams) (any, string, error) {
		return len(s.Employees()), "", nil
	}},
	{"Total Departments", func(s *store.Store, _ dashboardParams) (any, string, error) {
		return len(s.Departments()), "", nil
	}},
	{"Active Projects", func(s *store.Store, p dashboardParams) (any, string, error) {
		n := aggregate.CountWhere(s.Projects(), func(pr store.Project) bool { return pr.ActiveOn(p.asOf) })
		return n, "as of " + date(p.asOf), nil
	}},
	{"Average Salary", func(s *store.Store, _ dashboardParams) (any, string, error) {
		return aggregate.AvgMoneyOf(s.Employees(), func(e store.Employee) money.Money { return e.Salary }), "", nil
	}},
	{"Payroll Cost", payrollCostMetric},
	{"Average Performance Rating", func(s *store.Store, p dashboardParams) (any, string, error) {
		from := p.asOf.AddDate(0, 0, -p.ratingWindow)
		recent := relational.Where(s.Reviews(), func(r store.PerformanceReview) bool {
			return !r.Date.Before(from) && !r.Date.After(p.asOf)
		})
		avg := aggregate.AvgOf(recent, func(r store.PerformanceReview) int { return r.Rating }).WithScale(2)
		return avg, fmt.Sprintf("%d reviews in the last %d days", len(recent), p.ratingWindow), nil
	}},
	{"Pending Leave Requests", func(s *store.Store, _ dashboardParams) (any, string, error) {
		return aggregate.CountWhere(s.Leaves(), func(l store.LeaveRequest) bool { return l.Status == store.LeavePending }), "", nil
	}},
	{"Most Expensive Department", func(s *store.Store, _ dashboardParams) (any, string, error) {
		type cost struct {
			dept  store.Department
			total money.Money
		}
		byDept := s.EmployeesByDepartment()
		costs := relational.Select(s.Departments(), func(d store.Department) cost {
			return cost{dept: d, total: aggregate.SumOf(byDept.Lookup(d.ID), func(e store.Employee) money.Money { return e.Salary })}
		})
		top, ok := aggregate.ArgMax(costs, func(c cost) money.Money { return c.total })
		if !ok || top.total == 0 {
			return nil, "", errors.New("no department has employees")
		}
		return top.dept.Name, top.total.Format("$") + " total salary", nil
	}},
	{"Org Depth", func(s *store.Store, _ dashboardParams) (any, string, error) {
		forest, err := hierarchy.BuildForest(s.Employees())
		if err != nil {
			return nil, "", err
		}
		return forest.Depth(), fmt.Sprintf("%d root(s), %d orphan(s)", len(forest.Roots), len(forest.Orphans)), nil
	}},
}

func payrollCostMetric(s *store.Store, p dashboardParams) (any, string, error) {
	months := make(map[int]bool, len(p.payrollMonths))
	for _, m := range p.payrollMonths {
		months[m] = true
	}
	records := relational.Where(s.Payroll(), func(r store.PayrollRecord) bool {
		return r.Year == p.payrollYear && months[r.Month]
	})
	total := aggregate.SumOf(records, func(r store.PayrollRecord) money.Money { return r.NetSalary })

	names := make([]string, len(p.payrollMonths))
	for i, m := range p.payrollMonths {
		names[i] = strconv.Itoa(m)
	}
	return total, fmt.Sprintf("%d months %s", p.payrollYear, strings.Join(names, ",")), nil
}

func (p Params) dashboard() (dashboardParams, error) {
	asOf, err := p.asOf()
	if err != nil {
		return dashboardParams{}, err
	}
	year, err := intIn("payrollYear", p.PayrollYear, asOf.Year(), 2000, math.MaxInt)
	if err != nil {
		return dashboardParams{}, err
	}
	window, err := intIn("ratingWindowDays", p.RatingWindowDays, 365, 1, 36500)
	if err != nil {
		return dashboardParams{}, err
	}
	months := p.PayrollMonths
	if len(months) == 0 {
		months = []int{1, 2, 3}
	}
	for _, m := range months {
		if m < 1 || m > 12 {
			return dashboardParams{}, &ParameterError{Param: "payrollMonths", Value: m, Reason: "months must be between 1 and 12"}
		}
	}
	return dashboardParams{asOf: asOf, payrollYear: year, payrollMonths: months, ratingWindow: window}, nil
}

// dashboard evaluates every metric independently. A metric that fails, or
// panics, becomes an unavailable row; the others are unaffected.
func dashboard(r Runner, s *store.Store, p Params) (Result, error) {
	dp, err := p.dashboard()
	if err != nil {
		return Result{}, err
	}

	rows := make([]Row, len(dashboardMetrics))
	tasks := make([]func(), len(dashboardMetrics))
	for i, m := range dashboardMetrics {
		tasks[i] = func() { rows[i] = evaluate(m, s, dp) }
	}
	r.exec()(tasks)

	return Result{
		Columns: []Column{
			col("metric", "Metric", TypeString),
			col("value", "Value", TypeMixed),
			col("detail", "Detail", TypeString),
			col("status", "Status", TypeString),
			col("error", "Error", TypeString),
		},
		Rows: rows,
	}, nil
}

func evaluate(m metric, s *store.Store, p dashboardParams) (row Row) {
	defer func() {
		if rec := recover(); rec != nil {
			row = unavailable(m.name, fmt.Errorf("panic: %v", rec))
		}
	}()

	value, detail, err := m.compute(s, p)
	if err != nil {
		return unavailable(m.name, err)
	}
	return Row{"metric": m.name, "value": value, "detail": detail, "status": StatusOK, "error": nil}
}

func unavailable(name string, err error) Row {
	return Row{"metric": name, "value": nil, "detail": "", "status": StatusUnavailable, "error": err.Error()}
}
