package report

import (
	"cmp"
	"slices"
	"strings"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/hierarchy"
	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
)

// noHead is shown where a left join found nothing.
const noHead = "—"

func orgChart(_ Runner, s *store.Store, _ Params) (Result, error) {
	forest, err := hierarchy.BuildForest(s.Employees())
	if err != nil {
		return Result{}, err
	}
	byID := s.EmployeesByID()
	managerName := func(e store.Employee) any {
		if e.ManagerID == nil {
			return nil
		}
		if m := byID.Lookup(*e.ManagerID); len(m) > 0 {
			return m[0].Name()
		}
		return nil
	}

	res := Result{
		Columns: []Column{
			col("employeeId", "ID", TypeInt),
			col("name", "Name", TypeString),
			col("level", "Level", TypeInt),
			col("path", "Path", TypeString),
			col("manager", "Manager", TypeString),
			col("orphan", "Orphan", TypeBool),
		},
	}
	for _, n := range forest.Nodes {
		res.Rows = append(res.Rows, Row{
			"employeeId": n.Employee.ID,
			"name":       n.Employee.Name(),
			"level":      n.Level,
			"path":       strings.Join(n.Path, " > "),
			"manager":    managerName(n.Employee),
			"orphan":     false,
		})
	}
	for _, e := range forest.Orphans {
		res.Rows = append(res.Rows, Row{
			"employeeId": e.ID,
			"name":       e.Name(),
			"level":      nil,
			"path":       nil,
			"manager":    managerName(e),
			"orphan":     true,
		})
	}
	return res, nil
}

func departmentSummary(_ Runner, s *store.Store, _ Params) (Result, error) {
	depts := slices.Clone(s.Departments())
	slices.SortStableFunc(depts, func(a, b store.Department) int { return strings.Compare(a.Name, b.Name) })

	heads := relational.LeftJoin(depts, s.EmployeesByID(), func(d store.Department) (int64, bool) {
		if d.HeadID == nil {
			return 0, false
		}
		return *d.HeadID, true
	})

	res := Result{
		Columns: []Column{
			col("departmentId", "ID", TypeInt),
			col("department", "Name", TypeString),
			col("location", "Location", TypeString),
			col("head", "Head", TypeString),
			col("employeeCount", "Employee Count", TypeInt),
			col("totalSalary", "Total Salary", TypeMoney),
			col("averageSalary", "Avg Salary", TypeMoney),
		},
	}
	byDept := s.EmployeesByDepartment()
	salary := func(e store.Employee) money.Money { return e.Salary }
	for _, h := range heads {
		d := h.Left
		head := noHead
		if e, ok := h.Right.Get(); ok {
			head = e.Name()
		}
		staff := byDept.Lookup(d.ID)
		res.Rows = append(res.Rows, Row{
			"departmentId":  d.ID,
			"department":    d.Name,
			"location":      d.Location,
			"head":          head,
			"employeeCount": len(staff),
			"totalSalary":   aggregate.SumOf(staff, salary),
			"averageSalary": aggregate.AvgMoneyOf(staff, salary),
		})
	}
	return res, nil
}

type listed = relational.Pair[relational.Pair[employeeDept, store.JobTitle], relational.Optional[store.Employee]]

// withTitleAndManager adds the job title and, by left join, the manager.
func withTitleAndManager(s *store.Store, staff []employeeDept) []listed {
	withTitle := relational.Join(staff, s.JobTitlesByID(), func(ed employeeDept) int64 { return ed.Left.JobTitleID })
	return relational.LeftJoin(withTitle, s.EmployeesByID(), func(r relational.Pair[employeeDept, store.JobTitle]) (int64, bool) {
		if r.Left.Left.ManagerID == nil {
			return 0, false
		}
		return *r.Left.Left.ManagerID, true
	})
}

func employeeDirectory(_ Runner, s *store.Store, p Params) (Result, error) {
	limit, err := intIn("limit", p.Limit, 50, 1, maxLimit)
	if err != nil {
		return Result{}, err
	}
	filter := strings.ToLower(strings.TrimSpace(p.Department))

	withDept := relational.Where(withDepartment(s, s.Employees()), func(ed employeeDept) bool {
		return filter == "" || strings.Contains(strings.ToLower(ed.Right.Name), filter)
	})
	withManager := withTitleAndManager(s, withDept)

	slices.SortStableFunc(withManager, func(a, b listed) int {
		ea, eb := a.Left.Left.Left, b.Left.Left.Left
		if c := strings.Compare(ea.LastName, eb.LastName); c != 0 {
			return c
		}
		if c := strings.Compare(ea.FirstName, eb.FirstName); c != 0 {
			return c
		}
		return cmp.Compare(ea.ID, eb.ID)
	})
	if len(withManager) > limit {
		withManager = withManager[:limit]
	}

	res := Result{
		Columns: []Column{
			col("employeeId", "ID", TypeInt),
			col("name", "Name", TypeString),
			col("email", "Email", TypeString),
			col("jobTitle", "Job Title", TypeString),
			col("department", "Department", TypeString),
			col("manager", "Manager", TypeString),
			col("hireDate", "Hire Date", TypeDate),
			col("salary", "Salary", TypeMoney),
		},
	}
	for _, r := range withManager {
		e := r.Left.Left.Left
		var manager any
		if m, ok := r.Right.Get(); ok {
			manager = m.Name()
		}
		res.Rows = append(res.Rows, Row{
			"employeeId": e.ID,
			"name":       e.Name(),
			"email":      e.Email,
			"jobTitle":   r.Left.Right.Name,
			"department": r.Left.Left.Right.Name,
			"manager":    manager,
			"hireDate":   date(e.HireDate),
			"salary":     e.Salary,
		})
	}
	return res, nil
}

// employeeDetail is the single-employee view. A missing id is a
// *store.NotFoundError.
func employeeDetail(_ Runner, s *store.Store, p Params) (Result, error) {
	if p.EmployeeID == nil {
		return Result{}, &ParameterError{Param: "employeeId", Value: "", Reason: "an employee id is required"}
	}
	if *p.EmployeeID < 1 {
		return Result{}, &ParameterError{Param: "employeeId", Value: *p.EmployeeID, Reason: "must be at least 1"}
	}
	e, err := s.Employee(*p.EmployeeID)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Title: "Employee " + e.Name(),
		Columns: []Column{
			col("employeeId", "ID", TypeInt),
			col("name", "Name", TypeString),
			col("gender", "Gender", TypeString),
			col("dateOfBirth", "Date of Birth", TypeDate),
			col("email", "Email", TypeString),
			col("phone", "Phone", TypeString),
			col("hireDate", "Hire Date", TypeDate),
			col("jobTitle", "Job Title", TypeString),
			col("department", "Department", TypeString),
			col("manager", "Manager", TypeString),
			col("salary", "Salary", TypeMoney),
		},
	}
	for _, r := range withTitleAndManager(s, withDepartment(s, []store.Employee{e})) {
		var manager any
		if m, ok := r.Right.Get(); ok {
			manager = m.Name()
		}
		var phone any
		if e.Phone != "" {
			phone = e.Phone
		}
		res.Rows = append(res.Rows, Row{
			"employeeId":  e.ID,
			"name":        e.Name(),
			"gender":      e.Gender,
			"dateOfBirth": date(e.DateOfBirth),
			"email":       e.Email,
			"phone":       phone,
			"hireDate":    date(e.HireDate),
			"jobTitle":    r.Left.Right.Name,
			"department":  r.Left.Left.Right.Name,
			"manager":     manager,
			"salary":      e.Salary,
		})
	}
	return res, nil
}
