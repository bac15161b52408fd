package report

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/store"
)

func multiProjects(_ Runner, s *store.Store, p Params) (Result, error) {
	minProjects, err := intIn("minProjects", p.MinProjects, 2, 0, maxLimit)
	if err != nil {
		return Result{}, err
	}

	// Employee -> Assignment -> Project, in employee then assignment order.
	staffed := relational.Join(s.Employees(), s.AssignmentsByEmployee(), func(e store.Employee) int64 { return e.ID })
	type membership struct {
		employee store.Employee
		project  store.Project
	}
	joined := relational.Join(staffed, s.ProjectsByID(), func(a relational.Pair[store.Employee, store.Assignment]) int64 {
		return a.Right.ProjectID
	})
	rows := relational.Select(joined, func(j relational.Pair[relational.Pair[store.Employee, store.Assignment], store.Project]) membership {
		return membership{employee: j.Left.Left, project: j.Right}
	})

	type entry struct {
		employee store.Employee
		count    int
		names    []string
	}
	var out []entry
	for _, g := range aggregate.GroupBy(rows, func(m membership) int64 { return m.employee.ID }).List() {
		count := aggregate.CountDistinctOf(g.Rows, func(m membership) int64 { return m.project.ID })
		if count <= minProjects {
			continue
		}
		names := relational.Select(relational.Distinct(g.Rows, func(m membership) int64 { return m.project.ID }),
			func(m membership) string { return m.project.Name })
		out = append(out, entry{employee: g.Rows[0].employee, count: count, names: names})
	}
	slices.SortStableFunc(out, func(a, b entry) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.employee.ID, b.employee.ID)
	})

	res := Result{
		Title: "Employees with more than " + strconv.Itoa(minProjects) + " Projects",
		Columns: []Column{
			col("employeeId", "ID", TypeInt),
			col("name", "Name", TypeString),
			col("email", "Email", TypeString),
			col("projectCount", "Project Count", TypeInt),
			col("projects", "Projects", TypeString),
		},
	}
	for _, e := range out {
		res.Rows = append(res.Rows, Row{
			"employeeId":   e.employee.ID,
			"name":         e.employee.Name(),
			"email":        e.employee.Email,
			"projectCount": e.count,
			"projects":     strings.Join(e.names, ", "),
		})
	}
	return res, nil
}

func projectBudget(_ Runner, s *store.Store, p Params) (Result, error) {
	asOf, err := p.asOf()
	if err != nil {
		return Result{}, err
	}

	ordered := slices.Clone(s.Projects())
	slices.SortStableFunc(ordered, func(a, b store.Project) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	type teamRow = relational.Pair[store.Project, relational.Optional[store.Assignment]]
	teams := relational.LeftJoin(ordered, s.AssignmentsByProject(), func(p store.Project) (int64, bool) { return p.ID, true })
	depts := s.DepartmentsByID()

	res := Result{
		Columns: []Column{
			col("projectId", "ID", TypeInt),
			col("project", "Project", TypeString),
			col("department", "Department", TypeString),
			col("startDate", "Start Date", TypeDate),
			col("endDate", "End Date", TypeDate),
			col("budget", "Budget", TypeMoney),
			col("teamSize", "Team Size", TypeInt),
			col("budgetPerEmployee", "Budget / Employee", TypeMoney),
			col("active", "Active", TypeBool),
		},
	}
	for _, g := range aggregate.GroupBy(teams, func(r teamRow) int64 { return r.Left.ID }).List() {
		proj := g.Rows[0].Left
		members := relational.Where(g.Rows, func(r teamRow) bool { return r.Right.Present() })
		team := aggregate.CountDistinctOf(members, func(r teamRow) int64 { return r.Right.OrElse(store.Assignment{}).EmployeeID })

		deptName := ""
		if d := depts.Lookup(proj.DepartmentID); len(d) > 0 {
			deptName = d[0].Name
		}
		res.Rows = append(res.Rows, Row{
			"projectId":         proj.ID,
			"project":           proj.Name,
			"department":        deptName,
			"startDate":         date(proj.StartDate),
			"endDate":           optionalDate(proj.EndDate),
			"budget":            proj.Budget,
			"teamSize":          team,
			"budgetPerEmployee": aggregate.MoneyPer(proj.Budget, int64(team)),
			"active":            proj.ActiveOn(asOf),
		})
	}
	return res, nil
}
