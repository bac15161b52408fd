package loader

import (
	"database/sql"
	"time"

	"go-hris-analytics/internal/shared/money"
)

// Row types mirror the source HR schema, whose tables and columns are
// PascalCase.

type JobTitleRow struct {
	JobTitleID   int64       `gorm:"column:JobTitleID;primaryKey"`
	JobTitleName string      `gorm:"column:JobTitleName"`
	MinSalary    money.Money `gorm:"column:MinSalary"`
	MaxSalary    money.Money `gorm:"column:MaxSalary"`
}

func (JobTitleRow) TableName() string { return "JobTitles" }

type DepartmentRow struct {
	DepartmentID   int64         `gorm:"column:DepartmentID;primaryKey"`
	DepartmentName string        `gorm:"column:DepartmentName"`
	Location       string        `gorm:"column:Location"`
	HeadID         sql.NullInt64 `gorm:"column:HeadID"`
}

func (DepartmentRow) TableName() string { return "Departments" }

type EmployeeRow struct {
	EmployeeID   int64          `gorm:"column:EmployeeID;primaryKey"`
	FirstName    string         `gorm:"column:FirstName"`
	LastName     string         `gorm:"column:LastName"`
	Gender       string         `gorm:"column:Gender"`
	DOB          sql.NullTime   `gorm:"column:DOB"`
	Email        string         `gorm:"column:Email"`
	Phone        sql.NullString `gorm:"column:Phone"`
	HireDate     time.Time      `gorm:"column:HireDate"`
	JobTitleID   int64          `gorm:"column:JobTitleID"`
	DepartmentID int64          `gorm:"column:DepartmentID"`
	ManagerID    sql.NullInt64  `gorm:"column:ManagerID"`
	Salary       money.Money    `gorm:"column:Salary"`
}

func (EmployeeRow) TableName() string { return "Employees" }

type ProjectRow struct {
	ProjectID    int64        `gorm:"column:ProjectID;primaryKey"`
	ProjectName  string       `gorm:"column:ProjectName"`
	DepartmentID int64        `gorm:"column:DepartmentID"`
	StartDate    time.Time    `gorm:"column:StartDate"`
	EndDate      sql.NullTime `gorm:"column:EndDate"`
	Budget       money.Money  `gorm:"column:Budget"`
}

func (ProjectRow) TableName() string { return "Projects" }

type EmployeeProjectRow struct {
	EmployeeID        int64           `gorm:"column:EmployeeID;primaryKey"`
	ProjectID         int64           `gorm:"column:ProjectID;primaryKey"`
	Role              string          `gorm:"column:Role"`
	AllocationPercent sql.NullFloat64 `gorm:"column:AllocationPercent"`
}

func (EmployeeProjectRow) TableName() string { return "EmployeeProjects" }

// AttendanceRow keeps check-in/out as text: sqlite stores TIME as "HH:MM:SS"
// and postgres renders it the same way when cast.
type AttendanceRow struct {
	AttendanceID int64          `gorm:"column:AttendanceID;primaryKey"`
	EmployeeID   int64          `gorm:"column:EmployeeID"`
	Date         time.Time      `gorm:"column:Date"`
	CheckInTime  sql.NullString `gorm:"column:CheckInTime"`
	CheckOutTime sql.NullString `gorm:"column:CheckOutTime"`
	Status       string         `gorm:"column:Status"`
}

func (AttendanceRow) TableName() string { return "Attendance" }

type LeaveRequestRow struct {
	LeaveID    int64          `gorm:"column:LeaveID;primaryKey"`
	EmployeeID int64          `gorm:"column:EmployeeID"`
	StartDate  time.Time      `gorm:"column:StartDate"`
	EndDate    time.Time      `gorm:"column:EndDate"`
	LeaveType  string         `gorm:"column:LeaveType"`
	Status     sql.NullString `gorm:"column:Status"`
	ApprovedBy sql.NullInt64  `gorm:"column:ApprovedBy"`
}

func (LeaveRequestRow) TableName() string { return "LeaveRequests" }

type PerformanceReviewRow struct {
	ReviewID   int64          `gorm:"column:ReviewID;primaryKey"`
	EmployeeID int64          `gorm:"column:EmployeeID"`
	ReviewerID int64          `gorm:"column:ReviewerID"`
	ReviewDate time.Time      `gorm:"column:ReviewDate"`
	Rating     int            `gorm:"column:Rating"`
	Comments   sql.NullString `gorm:"column:Comments"`
}

func (PerformanceReviewRow) TableName() string { return "PerformanceReviews" }

type PayrollRow struct {
	PayrollID   int64       `gorm:"column:PayrollID;primaryKey"`
	EmployeeID  int64       `gorm:"column:EmployeeID"`
	Month       int         `gorm:"column:Month"`
	Year        int         `gorm:"column:Year"`
	BasicSalary money.Money `gorm:"column:BasicSalary"`
	Allowances  money.Money `gorm:"column:Allowances"`
	Deductions  money.Money `gorm:"column:Deductions"`
	NetSalary   money.Money `gorm:"column:NetSalary"`
}

func (PayrollRow) TableName() string { return "Payroll" }

// Tables lists the source tables in load order.
var Tables = []string{
	JobTitleRow{}.TableName(),
	DepartmentRow{}.TableName(),
	EmployeeRow{}.TableName(),
	ProjectRow{}.TableName(),
	EmployeeProjectRow{}.TableName(),
	AttendanceRow{}.TableName(),
	LeaveRequestRow{}.TableName(),
	PerformanceReviewRow{}.TableName(),
	PayrollRow{}.TableName(),
}
