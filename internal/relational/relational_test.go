package relational_test

import (
	"slices"
	"testing"

	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/store"
	"go-hris-analytics/internal/store/storetest"

	"github.com/stretchr/testify/assert"
)

func TestJoin_UsesStoreIndexAndKeepsLeftOrder(t *testing.T) {
	s := storetest.MustLoad(t)

	// Projects of department 2 come first in the left input.
	left := []store.Project{}
	for _, id := range []int64{4, 1} {
		p, _ := s.Project(id)
		left = append(left, p)
	}

	pairs := relational.Join(left, s.AssignmentsByProject(), func(p store.Project) int64 { return p.ID })

	var got [][2]int64
	for _, pr := range pairs {
		got = append(got, [2]int64{pr.Left.ID, pr.Right.EmployeeID})
	}
	assert.Equal(t, [][2]int64{
		{4, 7}, {4, 6},
		{1, 7}, {1, 2}, {1, 3}, {1, 1}, {1, 6},
	}, got)
}

func TestLeftJoin_StorePrimaryKey(t *testing.T) {
	s := storetest.MustLoad(t)

	var _ relational.Lookup[int64, store.Employee] = s.EmployeesByID()

	pairs := relational.LeftJoin(s.Employees()[:2], s.EmployeesByID(), func(e store.Employee) (int64, bool) {
		if e.ManagerID == nil {
			return 0, false
		}
		return *e.ManagerID, true
	})

	assert.Len(t, pairs, 2)
	assert.False(t, pairs[0].Right.Present(), "Alice has no manager")
	m, ok := pairs[1].Right.Get()
	assert.True(t, ok)
	assert.Equal(t, "Alice Chen", m.Name())
}

func TestJoinOn_DropsUnmatched(t *testing.T) {
	type emp struct{ ID, Dept int64 }
	type dept struct {
		ID   int64
		Name string
	}

	pairs := relational.JoinOn(
		[]emp{{1, 10}, {2, 30}, {3, 10}},
		[]dept{{10, "Eng"}, {20, "Ops"}},
		func(e emp) int64 { return e.Dept },
		func(d dept) int64 { return d.ID },
	)

	assert.Len(t, pairs, 2)
	assert.Equal(t, int64(1), pairs[0].Left.ID)
	assert.Equal(t, int64(3), pairs[1].Left.ID)
	assert.Equal(t, "Eng", pairs[1].Right.Name)
}

func TestLeftJoin_MarksMissingSide(t *testing.T) {
	s := storetest.MustLoad(t)

	pairs := relational.LeftJoin(s.Projects(), s.AssignmentsByProject(), func(p store.Project) (int64, bool) { return p.ID, true })

	last := pairs[len(pairs)-1]
	assert.Equal(t, "Echo", last.Left.Name)
	assert.False(t, last.Right.Present())

	a, ok := pairs[0].Right.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(7), a.EmployeeID)
}

func TestLeftJoinOn_NilKey(t *testing.T) {
	s := storetest.MustLoad(t)

	pairs := relational.LeftJoinOn(s.Departments(), s.Employees(),
		func(d store.Department) (int64, bool) {
			if d.HeadID == nil {
				return 0, false
			}
			return *d.HeadID, true
		},
		func(e store.Employee) int64 { return e.ID },
	)

	assert.Len(t, pairs, 4)
	head, ok := pairs[1].Right.Get()
	assert.True(t, ok)
	assert.Equal(t, "Eve Davis", head.Name())

	heads := slices.Collect(relational.Project(slices.Values(pairs), func(p relational.Pair[store.Department, relational.Optional[store.Employee]]) string {
		if e, ok := p.Right.Get(); ok {
			return e.Name()
		}
		return "—"
	}))
	assert.Equal(t, []string{"Alice Chen", "Eve Davis", "—", "—"}, heads)
}

func TestFilter_IsLazy(t *testing.T) {
	calls := 0
	seq := relational.Filter(slices.Values([]int{1, 2, 3, 4, 5, 6}), func(v int) bool {
		calls++
		return v%2 == 0
	})
	assert.Equal(t, 0, calls)

	for v := range seq {
		if v == 4 {
			break
		}
	}
	assert.Equal(t, 4, calls)
}

func TestWhereSelectDistinct(t *testing.T) {
	s := storetest.MustLoad(t)

	absent := relational.Where(s.Attendance(), func(a store.AttendanceRecord) bool { return a.Status == store.AttendanceAbsent })
	ids := relational.Select(absent, func(a store.AttendanceRecord) int64 { return a.EmployeeID })
	assert.Equal(t, []int64{2, 4, 7, 7}, ids)

	unique := relational.Distinct(absent, func(a store.AttendanceRecord) int64 { return a.EmployeeID })
	assert.Len(t, unique, 3)
}

func TestOptional(t *testing.T) {
	assert.Equal(t, 5, relational.Some(5).OrElse(9))
	assert.Equal(t, 9, relational.None[int]().OrElse(9))
}
