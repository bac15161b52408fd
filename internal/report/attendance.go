package report

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/store"
)

func attendanceReport(_ Runner, s *store.Store, p Params) (Result, error) {
	month, year, err := p.monthYear()
	if err != nil {
		return Result{}, err
	}

	inMonth := relational.Where(s.Attendance(), func(a store.AttendanceRecord) bool {
		return int(a.Date.Month()) == month && a.Date.Year() == year
	})
	type mark = relational.Pair[store.AttendanceRecord, employeeDept]
	marks := withStaff(s, inMonth, func(a store.AttendanceRecord) int64 { return a.EmployeeID })

	status := func(st store.AttendanceStatus) func(mark) bool {
		return func(m mark) bool { return m.Left.Status == st }
	}

	type deptRow struct {
		dept store.Department
		rec  aggregate.Record
	}
	var rows []deptRow
	for _, g := range aggregate.GroupBy(marks, func(m mark) int64 { return m.Right.Right.ID }).List() {
		rec := aggregate.Reduce(g.Rows,
			aggregate.CountIf("absent", status(store.AttendanceAbsent)),
			aggregate.CountIf("present", status(store.AttendancePresent)),
			aggregate.CountIf("onLeave", status(store.AttendanceOnLeave)),
			aggregate.CountIf("wfh", status(store.AttendanceWFH)),
			aggregate.Count[mark]("totalDays"),
			aggregate.RatioOf[mark]("absentRate", "absent", "totalDays"),
		)
		rows = append(rows, deptRow{dept: g.Rows[0].Right.Right, rec: rec})
	}
	slices.SortStableFunc(rows, func(a, b deptRow) int {
		if c := b.rec["absentRate"].(aggregate.Ratio).Cmp(a.rec["absentRate"].(aggregate.Ratio)); c != 0 {
			return c
		}
		return strings.Compare(a.dept.Name, b.dept.Name)
	})

	period := fmt.Sprintf("%04d-%02d", year, month)
	res := Result{
		Title: fmt.Sprintf("Monthly Attendance Report - %d/%d", month, year),
		Columns: []Column{
			col("department", "Department", TypeString),
			col("period", "Period", TypeString),
			col("absent", "Absent", TypeInt),
			col("present", "Present", TypeInt),
			col("onLeave", "On Leave", TypeInt),
			col("wfh", "WFH", TypeInt),
			col("totalDays", "Total Days", TypeInt),
			col("absentRate", "Absent Rate", TypeRatio),
		},
	}
	for _, r := range rows {
		row := Row{"department": r.dept.Name, "period": period}
		for k, v := range r.rec {
			row[k] = v
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

var (
	leaveTypeOrder   = []store.LeaveType{store.LeaveSick, store.LeaveCasual, store.LeaveVacation}
	leaveStatusOrder = []store.LeaveStatus{store.LeavePending, store.LeaveApproved, store.LeaveRejected}
)

func leaveSummary(_ Runner, s *store.Store, p Params) (Result, error) {
	year, err := intIn("year", p.Year, 0, 0, math.MaxInt)
	if err != nil {
		return Result{}, err
	}
	if year != 0 && year < 2000 {
		return Result{}, &ParameterError{Param: "year", Value: year, Reason: "must be 0 or at least 2000"}
	}

	leaves := relational.Where(s.Leaves(), func(l store.LeaveRequest) bool {
		return year == 0 || l.StartDate.Year() == year
	})
	type key struct {
		typ    store.LeaveType
		status store.LeaveStatus
	}
	groups := aggregate.GroupBy(leaves, func(l store.LeaveRequest) key { return key{l.Type, l.Status} })

	title := "Leave Requests"
	if year != 0 {
		title = fmt.Sprintf("Leave Requests - %d", year)
	}
	res := Result{
		Title: title,
		Columns: []Column{
			col("type", "Type", TypeString),
			col("status", "Status", TypeString),
			col("requests", "Requests", TypeInt),
			col("totalDays", "Total Days", TypeInt),
			col("averageDays", "Avg Days", TypeRatio),
		},
	}
	for _, t := range leaveTypeOrder {
		for _, st := range leaveStatusOrder {
			rows := groups.Get(key{t, st})
			if len(rows) == 0 {
				continue
			}
			days := aggregate.SumOf(rows, func(l store.LeaveRequest) int { return l.Days() })
			res.Rows = append(res.Rows, Row{
				"type":        string(t),
				"status":      string(st),
				"requests":    len(rows),
				"totalDays":   days,
				"averageDays": aggregate.NewRatio(int64(days), int64(len(rows))).WithScale(2),
			})
		}
	}
	return res, nil
}
