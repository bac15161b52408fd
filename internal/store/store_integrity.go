package store

import (
	"fmt"
	"strings"
)

type validator struct {
	violations []Violation
}

func (v *validator) add(kind Kind, key, field, reason string) {
	v.violations = append(v.violations, Violation{Kind: kind, Key: key, Field: field, Reason: reason})
}

func (v *validator) addf(kind Kind, id int64, field, format string, args ...any) {
	v.add(kind, fmt.Sprint(id), field, fmt.Sprintf(format, args...))
}

func (s *Store) validate(v *validator) {
	s.validateJobTitles(v)
	s.validateDepartments(v)
	s.validateEmployees(v)
	s.validateProjects(v)
	s.validateAssignments(v)
	s.validateAttendance(v)
	s.validateLeaves(v)
	s.validateReviews(v)
	s.validatePayroll(v)
}

func (s *Store) validateJobTitles(v *validator) {
	names := make(map[string]int64, len(s.jobTitles))
	for _, jt := range s.jobTitles {
		if strings.TrimSpace(jt.Name) == "" {
			v.addf(KindJobTitle, jt.ID, "Name", "is required")
		} else if other, dup := names[jt.Name]; dup {
			v.addf(KindJobTitle, jt.ID, "Name", "%q already used by job title %d", jt.Name, other)
		} else {
			names[jt.Name] = jt.ID
		}
		if jt.MinSalary > jt.MaxSalary {
			v.addf(KindJobTitle, jt.ID, "MinSalary", "min salary %s exceeds max salary %s", jt.MinSalary, jt.MaxSalary)
		}
	}
}

func (s *Store) validateDepartments(v *validator) {
	names := make(map[string]int64, len(s.departments))
	for _, d := range s.departments {
		if strings.TrimSpace(d.Name) == "" {
			v.addf(KindDepartment, d.ID, "Name", "is required")
		} else if other, dup := names[d.Name]; dup {
			v.addf(KindDepartment, d.ID, "Name", "%q already used by department %d", d.Name, other)
		} else {
			names[d.Name] = d.ID
		}
		if d.HeadID != nil {
			s.requireEmployee(v, KindDepartment, d.ID, "HeadID", *d.HeadID)
		}
	}
}

var genders = map[string]bool{"M": true, "F": true, "O": true}

func (s *Store) validateEmployees(v *validator) {
	emails := make(map[string]int64, len(s.employees))
	for _, e := range s.employees {
		if e.Gender != "" && !genders[e.Gender] {
			v.addf(KindEmployee, e.ID, "Gender", "%q is not one of M, F, O", e.Gender)
		}

		email := strings.ToLower(strings.TrimSpace(e.Email))
		if email == "" {
			v.addf(KindEmployee, e.ID, "Email", "is required")
		} else if other, dup := emails[email]; dup {
			v.addf(KindEmployee, e.ID, "Email", "%q already used by employee %d", e.Email, other)
		} else {
			emails[email] = e.ID
		}

		s.requireDepartment(v, KindEmployee, e.ID, "DepartmentID", e.DepartmentID)
		// Cycles, including self-management, are left to the hierarchy engine.
		if e.ManagerID != nil {
			s.requireEmployee(v, KindEmployee, e.ID, "ManagerID", *e.ManagerID)
		}

		i, ok := s.jobTitleByID[e.JobTitleID]
		if !ok {
			v.addf(KindEmployee, e.ID, "JobTitleID", "job title %d does not exist", e.JobTitleID)
			continue
		}
		jt := s.jobTitles[i]
		if e.Salary < jt.MinSalary || e.Salary > jt.MaxSalary {
			v.addf(KindEmployee, e.ID, "Salary", "%s outside %q band [%s, %s]", e.Salary, jt.Name, jt.MinSalary, jt.MaxSalary)
		}
	}
}

func (s *Store) validateProjects(v *validator) {
	for _, p := range s.projects {
		s.requireDepartment(v, KindProject, p.ID, "DepartmentID", p.DepartmentID)
		if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
			v.addf(KindProject, p.ID, "EndDate", "ends %s before it starts %s", p.EndDate.Format(dateLayout), p.StartDate.Format(dateLayout))
		}
		if p.Budget < 0 {
			v.addf(KindProject, p.ID, "Budget", "must not be negative")
		}
	}
}

func (s *Store) validateAssignments(v *validator) {
	type pair struct{ employee, project int64 }
	seen := make(map[pair]bool, len(s.assignments))
	for _, a := range s.assignments {
		key := fmt.Sprintf("%d/%d", a.EmployeeID, a.ProjectID)
		if _, ok := s.employeeByID[a.EmployeeID]; !ok {
			v.add(KindAssignment, key, "EmployeeID", fmt.Sprintf("employee %d does not exist", a.EmployeeID))
		}
		if _, ok := s.projectByID[a.ProjectID]; !ok {
			v.add(KindAssignment, key, "ProjectID", fmt.Sprintf("project %d does not exist", a.ProjectID))
		}
		k := pair{a.EmployeeID, a.ProjectID}
		if seen[k] {
			v.add(KindAssignment, key, "ProjectID", "duplicate assignment")
		}
		seen[k] = true
		if a.AllocationPercent < 0 || a.AllocationPercent > 100 {
			v.add(KindAssignment, key, "AllocationPercent", fmt.Sprintf("%g is outside 0..100", a.AllocationPercent))
		}
	}
}

func (s *Store) validateAttendance(v *validator) {
	for _, a := range s.attendance {
		s.requireEmployee(v, KindAttendance, a.ID, "EmployeeID", a.EmployeeID)
		switch a.Status {
		case AttendancePresent, AttendanceAbsent, AttendanceOnLeave, AttendanceWFH:
		default:
			v.addf(KindAttendance, a.ID, "Status", "unknown status %q", a.Status)
		}
		if a.CheckIn != nil && a.CheckOut != nil && *a.CheckOut < *a.CheckIn {
			v.addf(KindAttendance, a.ID, "CheckOut", "check-out before check-in")
		}
	}
}

func (s *Store) validateLeaves(v *validator) {
	for _, l := range s.leaves {
		s.requireEmployee(v, KindLeave, l.ID, "EmployeeID", l.EmployeeID)
		if l.ApproverID != nil {
			s.requireEmployee(v, KindLeave, l.ID, "ApproverID", *l.ApproverID)
		}
		if l.EndDate.Before(l.StartDate) {
			v.addf(KindLeave, l.ID, "EndDate", "ends %s before it starts %s", l.EndDate.Format(dateLayout), l.StartDate.Format(dateLayout))
		}
		switch l.Type {
		case LeaveSick, LeaveCasual, LeaveVacation:
		default:
			v.addf(KindLeave, l.ID, "Type", "unknown leave type %q", l.Type)
		}
		switch l.Status {
		case LeavePending, LeaveApproved, LeaveRejected:
		default:
			v.addf(KindLeave, l.ID, "Status", "unknown leave status %q", l.Status)
		}
	}
}

func (s *Store) validateReviews(v *validator) {
	for _, r := range s.reviews {
		s.requireEmployee(v, KindReview, r.ID, "EmployeeID", r.EmployeeID)
		s.requireEmployee(v, KindReview, r.ID, "ReviewerID", r.ReviewerID)
		if r.Rating < 1 || r.Rating > 5 {
			v.addf(KindReview, r.ID, "Rating", "%d is outside 1..5", r.Rating)
		}
	}
}

func (s *Store) validatePayroll(v *validator) {
	for _, p := range s.payroll {
		s.requireEmployee(v, KindPayroll, p.ID, "EmployeeID", p.EmployeeID)
		if p.Month < 1 || p.Month > 12 {
			v.addf(KindPayroll, p.ID, "Month", "%d is outside 1..12", p.Month)
		}
		if p.Year < 2000 {
			v.addf(KindPayroll, p.ID, "Year", "%d is before 2000", p.Year)
		}
	}
}

func (s *Store) requireEmployee(v *validator, kind Kind, id int64, field string, employeeID int64) {
	if _, ok := s.employeeByID[employeeID]; !ok {
		v.addf(kind, id, field, "employee %d does not exist", employeeID)
	}
}

func (s *Store) requireDepartment(v *validator, kind Kind, id int64, field string, departmentID int64) {
	if _, ok := s.departmentByID[departmentID]; !ok {
		v.addf(kind, id, field, "department %d does not exist", departmentID)
	}
}

const dateLayout = "2006-01-02"
