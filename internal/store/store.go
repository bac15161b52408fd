package store

import (
	"fmt"
)

// Store owns one immutable snapshot. Every index is built in Load and only
// read afterwards, so a *Store may be shared by concurrent report runs.
type Store struct {
	jobTitles   []JobTitle
	departments []Department
	employees   []Employee
	projects    []Project
	assignments []Assignment
	attendance  []AttendanceRecord
	leaves      []LeaveRequest
	reviews     []PerformanceReview
	payroll     []PayrollRecord

	jobTitleByID   map[int64]int
	departmentByID map[int64]int
	employeeByID   map[int64]int
	projectByID    map[int64]int
	attendanceByID map[int64]int
	leaveByID      map[int64]int
	reviewByID     map[int64]int
	payrollByID    map[int64]int

	employeesByDepartment Index[Employee]
	employeesByJobTitle   Index[Employee]
	employeesByManager    Index[Employee]
	projectsByDepartment  Index[Project]
	assignmentsByEmployee Index[Assignment]
	assignmentsByProject  Index[Assignment]
	attendanceByEmployee  Index[AttendanceRecord]
	leavesByEmployee      Index[LeaveRequest]
	reviewsByEmployee     Index[PerformanceReview]
	reviewsByReviewer     Index[PerformanceReview]
	payrollByEmployee     Index[PayrollRecord]
}

// Load copies snap, normalizes dates to calendar days, validates every
// relational invariant and builds the indices. Any violation returns an
// *IntegrityError listing all of them and no Store.
func Load(snap Snapshot) (*Store, error) {
	s := &Store{
		jobTitles:   append([]JobTitle(nil), snap.JobTitles...),
		departments: append([]Department(nil), snap.Departments...),
		employees:   append([]Employee(nil), snap.Employees...),
		projects:    append([]Project(nil), snap.Projects...),
		assignments: append([]Assignment(nil), snap.Assignments...),
		attendance:  append([]AttendanceRecord(nil), snap.Attendance...),
		leaves:      append([]LeaveRequest(nil), snap.Leaves...),
		reviews:     append([]PerformanceReview(nil), snap.Reviews...),
		payroll:     append([]PayrollRecord(nil), snap.Payroll...),
	}
	s.normalize()

	v := &validator{}
	s.jobTitleByID = primaryIndex(v, KindJobTitle, s.jobTitles, func(r JobTitle) int64 { return r.ID })
	s.departmentByID = primaryIndex(v, KindDepartment, s.departments, func(r Department) int64 { return r.ID })
	s.employeeByID = primaryIndex(v, KindEmployee, s.employees, func(r Employee) int64 { return r.ID })
	s.projectByID = primaryIndex(v, KindProject, s.projects, func(r Project) int64 { return r.ID })
	s.attendanceByID = primaryIndex(v, KindAttendance, s.attendance, func(r AttendanceRecord) int64 { return r.ID })
	s.leaveByID = primaryIndex(v, KindLeave, s.leaves, func(r LeaveRequest) int64 { return r.ID })
	s.reviewByID = primaryIndex(v, KindReview, s.reviews, func(r PerformanceReview) int64 { return r.ID })
	s.payrollByID = primaryIndex(v, KindPayroll, s.payroll, func(r PayrollRecord) int64 { return r.ID })

	s.validate(v)
	if len(v.violations) > 0 {
		return nil, &IntegrityError{Violations: v.violations}
	}

	s.employeesByDepartment = IndexBy(s.employees, func(e Employee) (int64, bool) { return e.DepartmentID, true })
	s.employeesByJobTitle = IndexBy(s.employees, func(e Employee) (int64, bool) { return e.JobTitleID, true })
	s.employeesByManager = IndexBy(s.employees, func(e Employee) (int64, bool) { return ref(e.ManagerID) })
	s.projectsByDepartment = IndexBy(s.projects, func(p Project) (int64, bool) { return p.DepartmentID, true })
	s.assignmentsByEmployee = IndexBy(s.assignments, func(a Assignment) (int64, bool) { return a.EmployeeID, true })
	s.assignmentsByProject = IndexBy(s.assignments, func(a Assignment) (int64, bool) { return a.ProjectID, true })
	s.attendanceByEmployee = IndexBy(s.attendance, func(a AttendanceRecord) (int64, bool) { return a.EmployeeID, true })
	s.leavesByEmployee = IndexBy(s.leaves, func(l LeaveRequest) (int64, bool) { return l.EmployeeID, true })
	s.reviewsByEmployee = IndexBy(s.reviews, func(r PerformanceReview) (int64, bool) { return r.EmployeeID, true })
	s.reviewsByReviewer = IndexBy(s.reviews, func(r PerformanceReview) (int64, bool) { return r.ReviewerID, true })
	s.payrollByEmployee = IndexBy(s.payroll, func(p PayrollRecord) (int64, bool) { return p.EmployeeID, true })

	return s, nil
}

func (s *Store) normalize() {
	for i := range s.employees {
		e := &s.employees[i]
		e.DateOfBirth = Day(e.DateOfBirth)
		e.HireDate = Day(e.HireDate)
	}
	for i := range s.projects {
		p := &s.projects[i]
		p.StartDate = Day(p.StartDate)
		if p.EndDate != nil {
			end := Day(*p.EndDate)
			p.EndDate = &end
		}
	}
	for i := range s.attendance {
		s.attendance[i].Date = Day(s.attendance[i].Date)
	}
	for i := range s.leaves {
		l := &s.leaves[i]
		l.StartDate = Day(l.StartDate)
		l.EndDate = Day(l.EndDate)
		if l.Status == "" {
			l.Status = LeavePending
		}
	}
	for i := range s.reviews {
		s.reviews[i].Date = Day(s.reviews[i].Date)
	}
}

func primaryIndex[T any](v *validator, kind Kind, rows []T, id func(T) int64) map[int64]int {
	byID := make(map[int64]int, len(rows))
	for i, r := range rows {
		k := id(r)
		if k <= 0 {
			v.add(kind, fmt.Sprintf("#%d", i), "ID", "must be a positive integer")
			continue
		}
		if _, dup := byID[k]; dup {
			v.add(kind, fmt.Sprint(k), "ID", "duplicate primary key")
			continue
		}
		byID[k] = i
	}
	return byID
}

// Get returns the record of kind with the given id. Assignments have a
// composite key and are reached through AssignmentsByEmployee/ByProject.
func (s *Store) Get(kind Kind, id int64) (any, error) {
	switch kind {
	case KindJobTitle:
		return s.JobTitle(id)
	case KindDepartment:
		return s.Department(id)
	case KindEmployee:
		return s.Employee(id)
	case KindProject:
		return s.Project(id)
	case KindAttendance:
		return lookup(s.attendance, s.attendanceByID, kind, id)
	case KindLeave:
		return lookup(s.leaves, s.leaveByID, kind, id)
	case KindReview:
		return lookup(s.reviews, s.reviewByID, kind, id)
	case KindPayroll:
		return lookup(s.payroll, s.payrollByID, kind, id)
	}
	return nil, fmt.Errorf("get: entity type %q has no single-column key", kind)
}

func lookup[T any](rows []T, byID map[int64]int, kind Kind, id int64) (T, error) {
	i, ok := byID[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Kind: kind, ID: id}
	}
	return rows[i], nil
}

func (s *Store) JobTitle(id int64) (JobTitle, error) {
	return lookup(s.jobTitles, s.jobTitleByID, KindJobTitle, id)
}

func (s *Store) Department(id int64) (Department, error) {
	return lookup(s.departments, s.departmentByID, KindDepartment, id)
}

func (s *Store) Employee(id int64) (Employee, error) {
	return lookup(s.employees, s.employeeByID, KindEmployee, id)
}

func (s *Store) Project(id int64) (Project, error) {
	return lookup(s.projects, s.projectByID, KindProject, id)
}

// Primary key lookups for joins. They reuse the indices built by Load.

func (s *Store) JobTitlesByID() Keyed[JobTitle] {
	return Keyed[JobTitle]{rows: s.jobTitles, byID: s.jobTitleByID}
}

func (s *Store) DepartmentsByID() Keyed[Department] {
	return Keyed[Department]{rows: s.departments, byID: s.departmentByID}
}

func (s *Store) EmployeesByID() Keyed[Employee] {
	return Keyed[Employee]{rows: s.employees, byID: s.employeeByID}
}

func (s *Store) ProjectsByID() Keyed[Project] {
	return Keyed[Project]{rows: s.projects, byID: s.projectByID}
}

// Collections, in load order. Callers must not modify the returned slices.

func (s *Store) JobTitles() []JobTitle { return s.jobTitles }
func (s *Store) Departments() []Department { return s.departments }
func (s *Store) Employees() []Employee { return s.employees }
func (s *Store) Projects() []Project { return s.projects }
func (s *Store) Assignments() []Assignment { return s.assignments }
func (s *Store) Attendance() []AttendanceRecord { return s.attendance }
func (s *Store) Leaves() []LeaveRequest { return s.leaves }
func (s *Store) Reviews() []PerformanceReview { return s.reviews }
func (s *Store) Payroll() []PayrollRecord { return s.payroll }
func (s *Store) EmployeesByDepartment() Index[Employee] { return s.employeesByDepartment }
func (s *Store) EmployeesByJobTitle() Index[Employee] { return s.employeesByJobTitle }
func (s *Store) EmployeesByManager() Index[Employee] { return s.employeesByManager }
func (s *Store) ProjectsByDepartment() Index[Project] { return s.projectsByDepartment }
func (s *Store) AssignmentsByEmployee() Index[Assignment] { return s.assignmentsByEmployee }
func (s *Store) AssignmentsByProject() Index[Assignment] { return s.assignmentsByProject }
func (s *Store) AttendanceByEmployee() Index[AttendanceRecord] { return s.attendanceByEmployee }
func (s *Store) LeavesByEmployee() Index[LeaveRequest] { return s.leavesByEmployee }
func (s *Store) ReviewsByEmployee() Index[PerformanceReview] { return s.reviewsByEmployee }
func (s *Store) ReviewsByReviewer() Index[PerformanceReview] { return s.reviewsByReviewer }
func (s *Store) PayrollByEmployee() Index[PayrollRecord] { return s.payrollByEmployee }

// IndexBy returns the prebuilt foreign key index of kind on field, with rows
// boxed as any. Report code uses the typed accessors; this serves callers
// that pick the relation at run time.
func (s *Store) IndexBy(kind Kind, field string) (Index[any], error) {
	switch kind + "." + Kind(field) {
	case KindEmployee + ".DepartmentID":
		return boxed(s.employeesByDepartment), nil
	case KindEmployee + ".JobTitleID":
		return boxed(s.employeesByJobTitle), nil
	case KindEmployee + ".ManagerID":
		return boxed(s.employeesByManager), nil
	case KindProject + ".DepartmentID":
		return boxed(s.projectsByDepartment), nil
	case KindAssignment + ".EmployeeID":
		return boxed(s.assignmentsByEmployee), nil
	case KindAssignment + ".ProjectID":
		return boxed(s.assignmentsByProject), nil
	case KindAttendance + ".EmployeeID":
		return boxed(s.attendanceByEmployee), nil
	case KindLeave + ".EmployeeID":
		return boxed(s.leavesByEmployee), nil
	case KindReview + ".EmployeeID":
		return boxed(s.reviewsByEmployee), nil
	case KindReview + ".ReviewerID":
		return boxed(s.reviewsByReviewer), nil
	case KindPayroll + ".EmployeeID":
		return boxed(s.payrollByEmployee), nil
	}
	return Index[any]{}, fmt.Errorf("no index on %s.%s", kind, field)
}

func boxed[T any](ix Index[T]) Index[any] {
	out := Index[any]{rows: make(map[int64][]any, len(ix.rows))}
	for k, rows := range ix.rows {
		boxedRows := make([]any, len(rows))
		for i, r := range rows {
			boxedRows[i] = r
		}
		out.rows[k] = boxedRows
	}
	return out
}

// Counts returns the number of rows per entity type.
func (s *Store) Counts() map[Kind]int {
	return map[Kind]int{
		KindJobTitle:   len(s.jobTitles),
		KindDepartment: len(s.departments),
		KindEmployee:   len(s.employees),
		KindProject:    len(s.projects),
		KindAssignment: len(s.assignments),
		KindAttendance: len(s.attendance),
		KindLeave:      len(s.leaves),
		KindReview:     len(s.reviews),
		KindPayroll:    len(s.payroll),
	}
}
