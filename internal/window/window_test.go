package window_test

import (
	"testing"

	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
	"go-hris-analytics/internal/store/storetest"
	"go-hris-analytics/internal/window"

	"github.com/stretchr/testify/assert"
)

type emp struct {
	id     int64
	dept   string
	salary money.Money
}

func bySalaryDesc() window.Ordering[emp, string] {
	return window.Ordering[emp, string]{
		Partition: func(e emp) string { return e.dept },
		Compare:   window.By(func(e emp) money.Money { return e.salary }),
		Direction: window.Desc,
		ID:        func(e emp) int64 { return e.id },
	}
}

func ids(rows []window.Ranked[emp]) [][2]int64 {
	out := make([][2]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, [2]int64{r.Row.id, int64(r.Rank)})
	}
	return out
}

func TestRank_TopThreeWithTie(t *testing.T) {
	m := money.MustParse
	rows := []emp{
		{4, "Eng", m("90000")},
		{3, "Eng", m("110000")},
		{1, "Eng", m("140000")},
		{2, "Eng", m("110000")},
	}

	ranked := window.Rank(rows, bySalaryDesc())
	assert.Equal(t, [][2]int64{{1, 1}, {2, 2}, {3, 2}, {4, 4}}, ids(ranked))

	top := window.LimitPerPartition(ranked, 3)
	assert.Equal(t, [][2]int64{{1, 1}, {2, 2}, {3, 2}}, ids(top))
}

func TestRank_PartitionsInFirstAppearanceOrder(t *testing.T) {
	m := money.MustParse
	rows := []emp{
		{10, "Ops", m("50000")},
		{11, "Eng", m("70000")},
		{12, "Ops", m("60000")},
	}

	ranked := window.Rank(rows, bySalaryDesc())
	assert.Equal(t, [][2]int64{{12, 1}, {10, 2}, {11, 1}}, ids(ranked))
	assert.Equal(t, 0, ranked[0].Partition)
	assert.Equal(t, 1, ranked[2].Partition)
}

func TestRank_AscendingAndAllTied(t *testing.T) {
	m := money.MustParse
	rows := []emp{{3, "A", m("10")}, {1, "A", m("10")}, {2, "A", m("10")}}

	order := bySalaryDesc()
	order.Direction = window.Asc
	assert.Equal(t, [][2]int64{{1, 1}, {2, 1}, {3, 1}}, ids(window.Rank(rows, order)))
}

func TestLimitPerPartition_NeverExceedsN(t *testing.T) {
	m := money.MustParse
	rows := []emp{
		{1, "Eng", m("140000")},
		{2, "Eng", m("110000")},
		{3, "Eng", m("100000")},
		{4, "Eng", m("100000")},
		{5, "Ops", m("100000")},
	}

	top := window.LimitPerPartition(window.Rank(rows, bySalaryDesc()), 3)
	assert.Equal(t, [][2]int64{{1, 1}, {2, 2}, {3, 3}, {5, 1}}, ids(top))
}

func TestRank_FirstPlaceEarnsDepartmentMax(t *testing.T) {
	s := storetest.MustLoad(t)

	ranked := window.Rank(s.Employees(), window.Ordering[store.Employee, int64]{
		Partition: func(e store.Employee) int64 { return e.DepartmentID },
		Compare:   window.By(func(e store.Employee) money.Money { return e.Salary }),
		Direction: window.Desc,
		ID:        func(e store.Employee) int64 { return e.ID },
	})

	maxByDept := map[int64]money.Money{}
	for _, e := range s.Employees() {
		if e.Salary > maxByDept[e.DepartmentID] {
			maxByDept[e.DepartmentID] = e.Salary
		}
	}
	for _, r := range ranked {
		if r.Rank == 1 {
			assert.Equal(t, maxByDept[r.Row.DepartmentID], r.Row.Salary)
		}
	}
	assert.Len(t, ranked, len(s.Employees()))
}
