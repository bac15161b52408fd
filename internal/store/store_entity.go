package store

import (
	"time"

	"go-hris-analytics/internal/shared/money"
)

type Kind string

const (
	KindJobTitle   Kind = "JobTitle"
	KindDepartment Kind = "Department"
	KindEmployee   Kind = "Employee"
	KindProject    Kind = "Project"
	KindAssignment Kind = "Assignment"
	KindAttendance Kind = "Attendance"
	KindLeave      Kind = "LeaveRequest"
	KindReview     Kind = "PerformanceReview"
	KindPayroll    Kind = "Payroll"
)

// Kinds lists every entity type in load order.
var Kinds = []Kind{
	KindJobTitle, KindDepartment, KindEmployee, KindProject, KindAssignment,
	KindAttendance, KindLeave, KindReview, KindPayroll,
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceOnLeave AttendanceStatus = "OnLeave"
	AttendanceWFH     AttendanceStatus = "WFH"
)

// AttendanceStatuses is the fixed column order used by attendance reports.
var AttendanceStatuses = []AttendanceStatus{AttendanceAbsent, AttendancePresent, AttendanceOnLeave, AttendanceWFH}

type LeaveType string

const (
	LeaveSick     LeaveType = "Sick"
	LeaveCasual   LeaveType = "Casual"
	LeaveVacation LeaveType = "Vacation"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

type JobTitle struct {
	ID        int64
	Name      string
	MinSalary money.Money
	MaxSalary money.Money
}

type Department struct {
	ID       int64
	Name     string
	Location string
	HeadID   *int64
}

type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Gender       string
	DateOfBirth  time.Time
	Email        string
	Phone        string
	HireDate     time.Time
	JobTitleID   int64
	DepartmentID int64
	ManagerID    *int64
	Salary       money.Money
}

// Name is "First Last".
func (e Employee) Name() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Project struct {
	ID           int64
	Name         string
	DepartmentID int64
	StartDate    time.Time
	EndDate      *time.Time
	Budget       money.Money
}

// ActiveOn reports whether day falls inside [StartDate, EndDate].
// A project without an end date is open-ended.
func (p Project) ActiveOn(day time.Time) bool {
	d := Day(day)
	if d.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !d.After(*p.EndDate)
}

// Assignment links an employee to a project; its key is (EmployeeID, ProjectID).
type Assignment struct {
	EmployeeID        int64
	ProjectID         int64
	Role              string
	AllocationPercent float64
}

// TimeOfDay is minutes since midnight.
type TimeOfDay int

type AttendanceRecord struct {
	ID         int64
	EmployeeID int64
	Date       time.Time
	CheckIn    *TimeOfDay
	CheckOut   *TimeOfDay
	Status     AttendanceStatus
}

type LeaveRequest struct {
	ID         int64
	EmployeeID int64
	StartDate  time.Time
	EndDate    time.Time
	Type       LeaveType
	Status     LeaveStatus
	ApproverID *int64
}

// Days counts calendar days, both ends inclusive.
func (l LeaveRequest) Days() int {
	return int(Day(l.EndDate).Sub(Day(l.StartDate)).Hours()/24) + 1
}

type PerformanceReview struct {
	ID         int64
	EmployeeID int64
	ReviewerID int64
	Date       time.Time
	Rating     int
	Comments   string
}

type PayrollRecord struct {
	ID          int64
	EmployeeID  int64
	Month       int
	Year        int
	BasicSalary money.Money
	Allowances  money.Money
	Deductions  money.Money
	NetSalary   money.Money
}

// ExpectedNet is basic + allowances - deductions.
func (p PayrollRecord) ExpectedNet() money.Money {
	return p.BasicSalary + p.Allowances - p.Deductions
}

// NetMismatch reports whether the stored net differs from ExpectedNet.
func (p PayrollRecord) NetMismatch() bool {
	return p.NetSalary != p.ExpectedNet()
}

// Snapshot is one ordered collection per entity type, as produced by a loader.
type Snapshot struct {
	JobTitles   []JobTitle
	Departments []Department
	Employees   []Employee
	Projects    []Project
	Assignments []Assignment
	Attendance  []AttendanceRecord
	Leaves      []LeaveRequest
	Reviews     []PerformanceReview
	Payroll     []PayrollRecord
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date is a shorthand for a UTC calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Ref returns a pointer to id, for nullable references.
func Ref(id int64) *int64 { return &id }
