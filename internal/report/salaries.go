package report

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
	"go-hris-analytics/internal/window"
)

const maxLimit = 1000

type employeeDept = relational.Pair[store.Employee, store.Department]

// withDepartment joins employees to their department.
func withDepartment(s *store.Store, employees []store.Employee) []employeeDept {
	return relational.Join(employees, s.DepartmentsByID(), func(e store.Employee) int64 { return e.DepartmentID })
}

// withStaff joins rows to the employee they reference and that employee's
// department, keeping the order of rows.
func withStaff[T any](s *store.Store, rows []T, employeeID func(T) int64) []relational.Pair[T, employeeDept] {
	withEmployee := relational.Join(rows, s.EmployeesByID(), employeeID)
	joined := relational.Join(withEmployee, s.DepartmentsByID(), func(r relational.Pair[T, store.Employee]) int64 {
		return r.Right.DepartmentID
	})
	return relational.Select(joined, func(r relational.Pair[relational.Pair[T, store.Employee], store.Department]) relational.Pair[T, employeeDept] {
		return relational.Pair[T, employeeDept]{Left: r.Left.Left, Right: employeeDept{Left: r.Left.Right, Right: r.Right}}
	})
}

func topSalaries(_ Runner, s *store.Store, p Params) (Result, error) {
	limit, err := intIn("limit", p.Limit, 3, 1, maxLimit)
	if err != nil {
		return Result{}, err
	}

	rows := withDepartment(s, s.Employees())
	slices.SortStableFunc(rows, func(a, b employeeDept) int {
		return strings.Compare(a.Right.Name, b.Right.Name)
	})

	ranked := window.Rank(rows, window.Ordering[employeeDept, int64]{
		Partition: func(r employeeDept) int64 { return r.Right.ID },
		Compare:   window.By(func(r employeeDept) money.Money { return r.Left.Salary }),
		Direction: window.Desc,
		ID:        func(r employeeDept) int64 { return r.Left.ID },
	})

	res := Result{
		Title: "Top " + strconv.Itoa(limit) + " Salaries by Department",
		Columns: []Column{
			col("department", "Department", TypeString),
			col("employeeId", "ID", TypeInt),
			col("firstName", "First Name", TypeString),
			col("lastName", "Last Name", TypeString),
			col("salary", "Salary", TypeMoney),
			col("rank", "Rank", TypeInt),
		},
	}
	for _, r := range window.LimitPerPartition(ranked, limit) {
		e := r.Row.Left
		res.Rows = append(res.Rows, Row{
			"department": r.Row.Right.Name,
			"employeeId": e.ID,
			"firstName":  e.FirstName,
			"lastName":   e.LastName,
			"salary":     e.Salary,
			"rank":       r.Rank,
		})
	}
	return res, nil
}

func jobTitleSalaries(_ Runner, s *store.Store, p Params) (Result, error) {
	limit, err := intIn("limit", p.Limit, 0, 0, maxLimit)
	if err != nil {
		return Result{}, err
	}

	type stats struct {
		title    store.JobTitle
		count    int
		avg      aggregate.Ratio
		min, max money.Money
	}
	var all []stats
	byTitle := s.EmployeesByJobTitle()
	for _, jt := range s.JobTitles() {
		emps := byTitle.Lookup(jt.ID)
		if len(emps) == 0 {
			continue
		}
		salary := func(e store.Employee) money.Money { return e.Salary }
		lo, _ := aggregate.MinOf(emps, salary)
		hi, _ := aggregate.MaxOf(emps, salary)
		all = append(all, stats{title: jt, count: len(emps), avg: aggregate.AvgMoneyOf(emps, salary), min: lo, max: hi})
	}
	slices.SortStableFunc(all, func(a, b stats) int {
		if c := b.avg.Cmp(a.avg); c != 0 {
			return c
		}
		return cmp.Compare(a.title.Name, b.title.Name)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	res := Result{
		Columns: []Column{
			col("jobTitle", "Job Title", TypeString),
			col("headcount", "Employees", TypeInt),
			col("averageSalary", "Avg Salary", TypeMoney),
			col("minSalary", "Min Salary", TypeMoney),
			col("maxSalary", "Max Salary", TypeMoney),
			col("bandMin", "Band Min", TypeMoney),
			col("bandMax", "Band Max", TypeMoney),
		},
	}
	for _, st := range all {
		res.Rows = append(res.Rows, Row{
			"jobTitle":      st.title.Name,
			"headcount":     st.count,
			"averageSalary": st.avg,
			"minSalary":     st.min,
			"maxSalary":     st.max,
			"bandMin":       st.title.MinSalary,
			"bandMax":       st.title.MaxSalary,
		})
	}
	return res, nil
}
