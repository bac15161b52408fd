// Package storetest holds a small, fully consistent company used by tests
// across the engine packages.
package storetest

import (
	"testing"
	"time"

	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
)

// AsOf is the reference day the fixture's expectations are computed for.
var AsOf = store.Date(2024, time.July, 1)

func end(t time.Time) *time.Time { return &t }

func mins(h, m int) *store.TimeOfDay {
	v := store.TimeOfDay(h*60 + m)
	return &v
}

// Snapshot returns a fresh copy of the fixture on every call.
func Snapshot() store.Snapshot {
	m := money.MustParse
	d := store.Date
	return store.Snapshot{
		JobTitles: []store.JobTitle{
			{ID: 1, Name: "Engineer", MinSalary: m("80000"), MaxSalary: m("160000")},
			{ID: 2, Name: "Manager", MinSalary: m("100000"), MaxSalary: m("200000")},
			{ID: 3, Name: "Analyst", MinSalary: m("50000"), MaxSalary: m("100000")},
			{ID: 4, Name: "HR Specialist", MinSalary: m("45000"), MaxSalary: m("90000")},
		},
		Departments: []store.Department{
			{ID: 1, Name: "Engineering", Location: "San Francisco", HeadID: store.Ref(1)},
			{ID: 2, Name: "Finance", Location: "New York", HeadID: store.Ref(5)},
			{ID: 3, Name: "HR", Location: "Austin"},
			{ID: 4, Name: "Legal", Location: "Boston"},
		},
		Employees: []store.Employee{
			{ID: 1, FirstName: "Alice", LastName: "Chen", Gender: "F", DateOfBirth: d(1980, 3, 14), Email: "alice.chen@example.com", HireDate: d(2015, 1, 5), JobTitleID: 2, DepartmentID: 1, Salary: m("140000")},
			{ID: 2, FirstName: "Bob", LastName: "Smith", Gender: "M", DateOfBirth: d(1988, 7, 2), Email: "bob.smith@example.com", HireDate: d(2018, 4, 16), JobTitleID: 1, DepartmentID: 1, ManagerID: store.Ref(1), Salary: m("110000")},
			{ID: 3, FirstName: "Carol", LastName: "Jones", Gender: "F", DateOfBirth: d(1990, 11, 23), Email: "carol.jones@example.com", HireDate: d(2019, 9, 1), JobTitleID: 1, DepartmentID: 1, ManagerID: store.Ref(1), Salary: m("110000")},
			{ID: 4, FirstName: "Dan", LastName: "Brown", Gender: "M", DateOfBirth: d(1995, 5, 30), Email: "dan.brown@example.com", HireDate: d(2022, 2, 14), JobTitleID: 1, DepartmentID: 1, ManagerID: store.Ref(2), Salary: m("90000")},
			{ID: 5, FirstName: "Eve", LastName: "Davis", Gender: "F", DateOfBirth: d(1982, 1, 9), Email: "eve.davis@example.com", HireDate: d(2016, 6, 20), JobTitleID: 2, DepartmentID: 2, ManagerID: store.Ref(1), Salary: m("130000")},
			{ID: 6, FirstName: "Frank", LastName: "Miller", Gender: "M", DateOfBirth: d(1992, 8, 17), Email: "frank.miller@example.com", HireDate: d(2020, 3, 2), JobTitleID: 3, DepartmentID: 2, ManagerID: store.Ref(5), Salary: m("70000")},
			{ID: 7, FirstName: "Grace", LastName: "Lee", Gender: "F", DateOfBirth: d(1993, 12, 4), Email: "grace.lee@example.com", HireDate: d(2021, 7, 12), JobTitleID: 3, DepartmentID: 2, ManagerID: store.Ref(5), Salary: m("85000")},
			{ID: 8, FirstName: "Henry", LastName: "Wilson", Gender: "M", DateOfBirth: d(1986, 4, 27), Email: "henry.wilson@example.com", Phone: "555-0108", HireDate: d(2017, 10, 30), JobTitleID: 4, DepartmentID: 3, ManagerID: store.Ref(1), Salary: m("60000")},
		},
		Projects: []store.Project{
			{ID: 1, Name: "Apollo", DepartmentID: 1, StartDate: d(2024, 1, 1), EndDate: end(d(2024, 12, 31)), Budget: m("500000")},
			{ID: 2, Name: "Borealis", DepartmentID: 1, StartDate: d(2024, 6, 1), Budget: m("300000")},
			{ID: 3, Name: "Cirrus", DepartmentID: 2, StartDate: d(2023, 1, 1), EndDate: end(d(2023, 12, 31)), Budget: m("200000")},
			{ID: 4, Name: "Delta", DepartmentID: 2, StartDate: d(2024, 3, 1), Budget: m("150000")},
			{ID: 5, Name: "Echo", DepartmentID: 3, StartDate: d(2025, 1, 1), Budget: m("100000")},
		},
		Assignments: []store.Assignment{
			{EmployeeID: 7, ProjectID: 1, Role: "Analyst", AllocationPercent: 25},
			{EmployeeID: 2, ProjectID: 1, Role: "Developer", AllocationPercent: 60},
			{EmployeeID: 7, ProjectID: 2, Role: "Analyst", AllocationPercent: 25},
			{EmployeeID: 2, ProjectID: 2, Role: "Developer", AllocationPercent: 40},
			{EmployeeID: 7, ProjectID: 3, Role: "Analyst", AllocationPercent: 25},
			{EmployeeID: 3, ProjectID: 1, Role: "Developer", AllocationPercent: 100},
			{EmployeeID: 7, ProjectID: 4, Role: "Analyst", AllocationPercent: 25},
			{EmployeeID: 6, ProjectID: 3, Role: "Analyst", AllocationPercent: 50},
			{EmployeeID: 6, ProjectID: 4, Role: "Analyst", AllocationPercent: 40},
			{EmployeeID: 1, ProjectID: 1, Role: "Lead", AllocationPercent: 20},
			{EmployeeID: 4, ProjectID: 2, Role: "Developer", AllocationPercent: 100},
			{EmployeeID: 6, ProjectID: 1, Role: "Reviewer", AllocationPercent: 10},
		},
		Attendance: []store.AttendanceRecord{
			{ID: 1, EmployeeID: 2, Date: d(2024, 3, 1), CheckIn: mins(9, 0), CheckOut: mins(17, 30), Status: store.AttendancePresent},
			{ID: 2, EmployeeID: 2, Date: d(2024, 3, 4), Status: store.AttendanceAbsent},
			{ID: 3, EmployeeID: 2, Date: d(2024, 3, 5), CheckIn: mins(8, 45), CheckOut: mins(17, 0), Status: store.AttendanceWFH},
			{ID: 4, EmployeeID: 3, Date: d(2024, 3, 1), CheckIn: mins(9, 10), CheckOut: mins(18, 0), Status: store.AttendancePresent},
			{ID: 5, EmployeeID: 3, Date: d(2024, 3, 4), CheckIn: mins(9, 0), CheckOut: mins(17, 0), Status: store.AttendancePresent},
			{ID: 6, EmployeeID: 4, Date: d(2024, 3, 1), Status: store.AttendanceAbsent},
			{ID: 7, EmployeeID: 6, Date: d(2024, 3, 1), CheckIn: mins(8, 30), CheckOut: mins(16, 30), Status: store.AttendancePresent},
			{ID: 8, EmployeeID: 6, Date: d(2024, 3, 4), Status: store.AttendanceOnLeave},
			{ID: 9, EmployeeID: 7, Date: d(2024, 3, 1), Status: store.AttendanceAbsent},
			{ID: 10, EmployeeID: 7, Date: d(2024, 3, 4), Status: store.AttendanceAbsent},
			{ID: 11, EmployeeID: 8, Date: d(2024, 3, 1), CheckIn: mins(9, 0), CheckOut: mins(17, 0), Status: store.AttendancePresent},
			{ID: 12, EmployeeID: 2, Date: d(2024, 4, 1), CheckIn: mins(9, 0), CheckOut: mins(17, 0), Status: store.AttendancePresent},
		},
		Leaves: []store.LeaveRequest{
			{ID: 1, EmployeeID: 2, StartDate: d(2024, 2, 5), EndDate: d(2024, 2, 7), Type: store.LeaveVacation, Status: store.LeaveApproved, ApproverID: store.Ref(1)},
			{ID: 2, EmployeeID: 6, StartDate: d(2024, 3, 4), EndDate: d(2024, 3, 4), Type: store.LeaveSick, Status: store.LeaveApproved, ApproverID: store.Ref(5)},
			{ID: 3, EmployeeID: 7, StartDate: d(2024, 7, 1), EndDate: d(2024, 7, 10), Type: store.LeaveVacation, Status: store.LeavePending},
			{ID: 4, EmployeeID: 8, StartDate: d(2024, 5, 2), EndDate: d(2024, 5, 3), Type: store.LeaveCasual, Status: store.LeaveRejected, ApproverID: store.Ref(1)},
			{ID: 5, EmployeeID: 3, StartDate: d(2023, 12, 20), EndDate: d(2023, 12, 22), Type: store.LeaveVacation, Status: store.LeaveApproved, ApproverID: store.Ref(1)},
		},
		Reviews: []store.PerformanceReview{
			{ID: 1, EmployeeID: 2, ReviewerID: 1, Date: d(2024, 1, 15), Rating: 4, Comments: "Solid delivery"},
			{ID: 2, EmployeeID: 3, ReviewerID: 1, Date: d(2024, 1, 15), Rating: 5, Comments: "Outstanding"},
			{ID: 3, EmployeeID: 4, ReviewerID: 2, Date: d(2024, 1, 20), Rating: 3},
			{ID: 4, EmployeeID: 6, ReviewerID: 5, Date: d(2024, 2, 1), Rating: 4},
			{ID: 5, EmployeeID: 7, ReviewerID: 5, Date: d(2024, 2, 1), Rating: 5},
			{ID: 6, EmployeeID: 2, ReviewerID: 1, Date: d(2023, 1, 15), Rating: 2, Comments: "Needs focus"},
			{ID: 7, EmployeeID: 8, ReviewerID: 1, Date: d(2024, 2, 10), Rating: 3},
		},
		Payroll: payroll(),
	}
}

func payroll() []store.PayrollRecord {
	m := money.MustParse
	type slip struct {
		employee                      int64
		basic, allowances, deductions string
	}
	slips := []slip{
		{1, "11000", "1000", "2000"},
		{2, "9000", "500", "1500"},
		{5, "10000", "800", "1800"},
		{6, "6000", "300", "800"},
		{8, "5000", "200", "700"},
	}

	var out []store.PayrollRecord
	id := int64(1)
	for month := 1; month <= 3; month++ {
		for _, s := range slips {
			p := store.PayrollRecord{
				ID: id, EmployeeID: s.employee, Month: month, Year: 2024,
				BasicSalary: m(s.basic), Allowances: m(s.allowances), Deductions: m(s.deductions),
			}
			p.NetSalary = p.ExpectedNet()
			out = append(out, p)
			id++
		}
	}
	// A stored net that does not reconcile.
	out[len(out)-1].NetSalary += m("100")

	out = append(out, store.PayrollRecord{
		ID: id, EmployeeID: 1, Month: 12, Year: 2023,
		BasicSalary: m("11000"), Allowances: m("1000"), Deductions: m("2000"), NetSalary: m("10000"),
	})
	return out
}

// MustLoad loads Snapshot and fails the test on error.
func MustLoad(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Load(Snapshot())
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return s
}
