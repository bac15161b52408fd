package report

import (
	"slices"
	"strings"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/store"
	"go-hris-analytics/internal/window"
)

func reviewRanking(_ Runner, s *store.Store, p Params) (Result, error) {
	limit, err := intIn("limit", p.Limit, 3, 1, maxLimit)
	if err != nil {
		return Result{}, err
	}

	type scored struct {
		employee store.Employee
		dept     store.Department
		reviews  int
		avg      aggregate.Ratio
	}
	byEmployee := s.ReviewsByEmployee()
	var rows []scored
	for _, ed := range withDepartment(s, s.Employees()) {
		reviews := byEmployee.Lookup(ed.Left.ID)
		if len(reviews) == 0 {
			continue
		}
		rows = append(rows, scored{
			employee: ed.Left,
			dept:     ed.Right,
			reviews:  len(reviews),
			avg:      aggregate.AvgOf(reviews, func(r store.PerformanceReview) int { return r.Rating }).WithScale(2),
		})
	}
	slices.SortStableFunc(rows, func(a, b scored) int { return strings.Compare(a.dept.Name, b.dept.Name) })

	ranked := window.Rank(rows, window.Ordering[scored, int64]{
		Partition: func(r scored) int64 { return r.dept.ID },
		Compare:   func(a, b scored) int { return a.avg.Cmp(b.avg) },
		Direction: window.Desc,
		ID:        func(r scored) int64 { return r.employee.ID },
	})

	res := Result{
		Columns: []Column{
			col("department", "Department", TypeString),
			col("employeeId", "ID", TypeInt),
			col("name", "Name", TypeString),
			col("reviews", "Reviews", TypeInt),
			col("averageRating", "Avg Rating", TypeRatio),
			col("rank", "Rank", TypeInt),
		},
	}
	for _, r := range window.LimitPerPartition(ranked, limit) {
		res.Rows = append(res.Rows, Row{
			"department":    r.Row.dept.Name,
			"employeeId":    r.Row.employee.ID,
			"name":          r.Row.employee.Name(),
			"reviews":       r.Row.reviews,
			"averageRating": r.Row.avg,
			"rank":          r.Rank,
		})
	}
	return res, nil
}
