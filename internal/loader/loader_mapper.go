package loader

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-hris-analytics/internal/store"
)

// defaultAllocation is applied when EmployeeProjects.AllocationPercent is NULL.
const defaultAllocation = 100.0

type rawSnapshot struct {
	jobTitles   []JobTitleRow
	departments []DepartmentRow
	employees   []EmployeeRow
	projects    []ProjectRow
	assignments []EmployeeProjectRow
	attendance  []AttendanceRow
	leaves      []LeaveRequestRow
	reviews     []PerformanceReviewRow
	payroll     []PayrollRow
}

// FieldError reports a value the engine cannot represent, such as an
// unparseable check-in time.
type FieldError struct {
	Table  string
	Key    int64
	Column string
	Value  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s[%d].%s: cannot parse %q", e.Table, e.Key, e.Column, e.Value)
}

func (r rawSnapshot) toSnapshot() (store.Snapshot, error) {
	snap := store.Snapshot{
		JobTitles:   make([]store.JobTitle, 0, len(r.jobTitles)),
		Departments: make([]store.Department, 0, len(r.departments)),
		Employees:   make([]store.Employee, 0, len(r.employees)),
		Projects:    make([]store.Project, 0, len(r.projects)),
		Assignments: make([]store.Assignment, 0, len(r.assignments)),
		Attendance:  make([]store.AttendanceRecord, 0, len(r.attendance)),
		Leaves:      make([]store.LeaveRequest, 0, len(r.leaves)),
		Reviews:     make([]store.PerformanceReview, 0, len(r.reviews)),
		Payroll:     make([]store.PayrollRecord, 0, len(r.payroll)),
	}

	for _, row := range r.jobTitles {
		snap.JobTitles = append(snap.JobTitles, store.JobTitle{
			ID:        row.JobTitleID,
			Name:      row.JobTitleName,
			MinSalary: row.MinSalary,
			MaxSalary: row.MaxSalary,
		})
	}
	for _, row := range r.departments {
		snap.Departments = append(snap.Departments, store.Department{
			ID:       row.DepartmentID,
			Name:     row.DepartmentName,
			Location: row.Location,
			HeadID:   nullID(row.HeadID),
		})
	}
	for _, row := range r.employees {
		snap.Employees = append(snap.Employees, store.Employee{
			ID:           row.EmployeeID,
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Gender:       row.Gender,
			DateOfBirth:  row.DOB.Time,
			Email:        row.Email,
			Phone:        row.Phone.String,
			HireDate:     row.HireDate,
			JobTitleID:   row.JobTitleID,
			DepartmentID: row.DepartmentID,
			ManagerID:    nullID(row.ManagerID),
			Salary:       row.Salary,
		})
	}
	for _, row := range r.projects {
		p := store.Project{
			ID:           row.ProjectID,
			Name:         row.ProjectName,
			DepartmentID: row.DepartmentID,
			StartDate:    row.StartDate,
			Budget:       row.Budget,
		}
		if row.EndDate.Valid {
			end := row.EndDate.Time
			p.EndDate = &end
		}
		snap.Projects = append(snap.Projects, p)
	}
	for _, row := range r.assignments {
		alloc := defaultAllocation
		if row.AllocationPercent.Valid {
			alloc = row.AllocationPercent.Float64
		}
		snap.Assignments = append(snap.Assignments, store.Assignment{
			EmployeeID:        row.EmployeeID,
			ProjectID:         row.ProjectID,
			Role:              row.Role,
			AllocationPercent: alloc,
		})
	}
	for _, row := range r.attendance {
		in, err := parseTimeOfDay(row.CheckInTime)
		if err != nil {
			return store.Snapshot{}, &FieldError{Table: AttendanceRow{}.TableName(), Key: row.AttendanceID, Column: "CheckInTime", Value: row.CheckInTime.String}
		}
		out, err := parseTimeOfDay(row.CheckOutTime)
		if err != nil {
			return store.Snapshot{}, &FieldError{Table: AttendanceRow{}.TableName(), Key: row.AttendanceID, Column: "CheckOutTime", Value: row.CheckOutTime.String}
		}
		snap.Attendance = append(snap.Attendance, store.AttendanceRecord{
			ID:         row.AttendanceID,
			EmployeeID: row.EmployeeID,
			Date:       row.Date,
			CheckIn:    in,
			CheckOut:   out,
			Status:     store.AttendanceStatus(row.Status),
		})
	}
	for _, row := range r.leaves {
		snap.Leaves = append(snap.Leaves, store.LeaveRequest{
			ID:         row.LeaveID,
			EmployeeID: row.EmployeeID,
			StartDate:  row.StartDate,
			EndDate:    row.EndDate,
			Type:       store.LeaveType(row.LeaveType),
			Status:     store.LeaveStatus(row.Status.String),
			ApproverID: nullID(row.ApprovedBy),
		})
	}
	for _, row := range r.reviews {
		snap.Reviews = append(snap.Reviews, store.PerformanceReview{
			ID:         row.ReviewID,
			EmployeeID: row.EmployeeID,
			ReviewerID: row.ReviewerID,
			Date:       row.ReviewDate,
			Rating:     row.Rating,
			Comments:   row.Comments.String,
		})
	}
	for _, row := range r.payroll {
		snap.Payroll = append(snap.Payroll, store.PayrollRecord{
			ID:          row.PayrollID,
			EmployeeID:  row.EmployeeID,
			Month:       row.Month,
			Year:        row.Year,
			BasicSalary: row.BasicSalary,
			Allowances:  row.Allowances,
			Deductions:  row.Deductions,
			NetSalary:   row.NetSalary,
		})
	}
	return snap, nil
}

func nullID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return store.Ref(v.Int64)
}

// parseTimeOfDay accepts "HH:MM", "HH:MM:SS" and "HH:MM:SS.ffffff"; seconds
// are dropped.
func parseTimeOfDay(v sql.NullString) (*store.TimeOfDay, error) {
	s := strings.TrimSpace(v.String)
	if !v.Valid || s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return nil, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return nil, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		if _, err := time.Parse("05", parts[2]); err != nil {
			return nil, fmt.Errorf("invalid second in %q", s)
		}
	}
	tod := store.TimeOfDay(h*60 + m)
	return &tod, nil
}
