package report

import (
	"errors"
	"fmt"

	"go-hris-analytics/internal/store"
)

var ErrUnknownReport = errors.New("unknown report")

// ParamSpec documents one recognized option of a report.
type ParamSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
}

// Definition is one entry of the catalog.
type Definition struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params"`
	// Hierarchy reports fail on manager cycles; the others stay computable.
	Hierarchy bool `json:"hierarchy"`
	// PerEmployee reports need an employeeId and are left out of batch runs.
	PerEmployee bool `json:"perEmployee"`

	run func(r Runner, s *store.Store, p Params) (Result, error)
}

var catalog = []Definition{
	{
		Name: "top-salaries", Title: "Top Salaries by Department",
		Description: "Highest paid employees per department, competition ranked",
		Params:      []ParamSpec{{Name: "limit", Description: "rank cut-off, 1-1000", Default: "3"}},
		run:         topSalaries,
	},
	{
		Name: "multi-projects", Title: "Employees on Multiple Projects",
		Description: "Employees assigned to more than minProjects distinct projects",
		Params:      []ParamSpec{{Name: "minProjects", Description: "exclusive lower bound", Default: "2"}},
		run:         multiProjects,
	},
	{
		Name: "attendance-report", Title: "Monthly Attendance by Department",
		Description: "Attendance status counts and absenteeism rate per department for one month",
		Params: []ParamSpec{
			{Name: "month", Description: "1-12", Default: "month of asOf"},
			{Name: "year", Description: ">= 2000", Default: "year of asOf"},
		},
		run: attendanceReport,
	},
	{
		Name: "payroll-cost", Title: "Payroll Cost by Department",
		Description: "Payroll totals per department for one year, with unreconciled net salaries flagged",
		Params:      []ParamSpec{{Name: "year", Description: ">= 2000", Default: "year of asOf"}},
		run:         payrollCost,
	},
	{
		Name: "dashboard", Title: "System Dashboard",
		Description: "Independent headline metrics; a failing metric is marked unavailable",
		Params: []ParamSpec{
			{Name: "asOf", Description: "reference date", Default: "today"},
			{Name: "payrollYear", Description: "payroll period year", Default: "year of asOf"},
			{Name: "payrollMonths", Description: "payroll period months", Default: "1,2,3"},
			{Name: "ratingWindowDays", Description: "reviews considered recent", Default: "365"},
		},
		run: dashboard,
	},
	{
		Name: "org-chart", Title: "Organization Chart",
		Description: "Reporting hierarchy in breadth-first order with level and path",
		Hierarchy:   true,
		run:         orgChart,
	},
	{
		Name: "project-budget", Title: "Project Budgets",
		Description: "Team size, budget per team member and active status per project",
		Params:      []ParamSpec{{Name: "asOf", Description: "reference date", Default: "today"}},
		run:         projectBudget,
	},
	{
		Name: "department-summary", Title: "Departments",
		Description: "Head, headcount and salary totals per department",
		run:         departmentSummary,
	},
	{
		Name: "job-title-salaries", Title: "Salaries by Job Title",
		Description: "Headcount and salary statistics per job title against its band",
		Params:      []ParamSpec{{Name: "limit", Description: "maximum rows, 0 for all", Default: "0"}},
		run:         jobTitleSalaries,
	},
	{
		Name: "employee-directory", Title: "Employee Directory",
		Description: "Employees with job title, department and manager",
		Params: []ParamSpec{
			{Name: "department", Description: "case-insensitive department name filter"},
			{Name: "limit", Description: "maximum rows, 1-1000", Default: "50"},
		},
		run: employeeDirectory,
	},
	{
		Name: "employee", Title: "Employee Details",
		Description: "One employee with job title, department and manager",
		Params:      []ParamSpec{{Name: "employeeId", Description: "employee id, required"}},
		PerEmployee: true,
		run:         employeeDetail,
	},
	{
		Name: "leave-summary", Title: "Leave Requests",
		Description: "Leave requests and days by type and status",
		Params:      []ParamSpec{{Name: "year", Description: "year the leave starts in, 0 for all", Default: "0"}},
		run:         leaveSummary,
	},
	{
		Name: "review-ranking", Title: "Performance Review Ranking",
		Description: "Average rating per employee ranked within department",
		Params:      []ParamSpec{{Name: "limit", Description: "rank cut-off, 1-1000", Default: "3"}},
		run:         reviewRanking,
	},
}

// Catalog lists every report in a stable order.
func Catalog() []Definition {
	return append([]Definition(nil), catalog...)
}

// Names lists the report names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, d := range catalog {
		names[i] = d.Name
	}
	return names
}

// BatchNames lists, in catalog order, the reports that run without an
// entity id.
func BatchNames() []string {
	var names []string
	for _, d := range catalog {
		if !d.PerEmployee {
			names = append(names, d.Name)
		}
	}
	return names
}

// Lookup finds a report by name.
func Lookup(name string) (Definition, error) {
	for _, d := range catalog {
		if d.Name == name {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// Executor runs independent tasks and returns once all have finished.
type Executor func(tasks []func())

// Sequential runs tasks one after another on the calling goroutine.
func Sequential(tasks []func()) {
	for _, t := range tasks {
		t()
	}
}

// Runner runs reports. The zero value computes everything sequentially;
// Exec may spread the dashboard's metrics over a worker pool.
type Runner struct {
	Exec Executor
}

func (r Runner) exec() Executor {
	if r.Exec == nil {
		return Sequential
	}
	return r.Exec
}

// Run computes the named report over s.
func (r Runner) Run(s *store.Store, name string, p Params) (Result, error) {
	def, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	res, err := def.run(r, s, p)
	if err != nil {
		return Result{}, err
	}
	res.Report = def.Name
	res.Params = p
	if res.Title == "" {
		res.Title = def.Title
	}
	if res.Rows == nil {
		res.Rows = []Row{}
	}
	return res, nil
}

// Run computes the named report with the zero Runner.
func Run(s *store.Store, name string, p Params) (Result, error) {
	return Runner{}.Run(s, name, p)
}
