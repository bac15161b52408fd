package report

import (
	"fmt"
	"slices"
	"strings"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/relational"
	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
)

type payslip = relational.Pair[store.PayrollRecord, employeeDept]

// payslips joins payroll records with their employee and department.
func payslips(s *store.Store, keep func(store.PayrollRecord) bool) []payslip {
	return withStaff(s, relational.Where(s.Payroll(), keep), func(p store.PayrollRecord) int64 { return p.EmployeeID })
}

func payrollCost(_ Runner, s *store.Store, p Params) (Result, error) {
	year, err := p.year()
	if err != nil {
		return Result{}, err
	}

	slips := payslips(s, func(r store.PayrollRecord) bool { return r.Year == year })

	type deptRow struct {
		dept store.Department
		rec  aggregate.Record
	}
	var rows []deptRow
	for _, g := range aggregate.GroupBy(slips, func(ps payslip) int64 { return ps.Right.Right.ID }).List() {
		rec := aggregate.Reduce(g.Rows,
			aggregate.CountDistinct("employees", func(ps payslip) int64 { return ps.Left.EmployeeID }),
			aggregate.Count[payslip]("records"),
			aggregate.Sum("basicSalary", func(ps payslip) money.Money { return ps.Left.BasicSalary }),
			aggregate.Sum("allowances", func(ps payslip) money.Money { return ps.Left.Allowances }),
			aggregate.Sum("deductions", func(ps payslip) money.Money { return ps.Left.Deductions }),
			aggregate.Sum("netSalary", func(ps payslip) money.Money { return ps.Left.NetSalary }),
			aggregate.MoneyRatioOf[payslip]("averageNetSalary", "netSalary", "records"),
			aggregate.CountIf("netMismatches", func(ps payslip) bool { return ps.Left.NetMismatch() }),
		)
		rows = append(rows, deptRow{dept: g.Rows[0].Right.Right, rec: rec})
	}
	slices.SortStableFunc(rows, func(a, b deptRow) int {
		an, bn := a.rec["netSalary"].(money.Money), b.rec["netSalary"].(money.Money)
		switch {
		case an > bn:
			return -1
		case an < bn:
			return 1
		}
		return strings.Compare(a.dept.Name, b.dept.Name)
	})

	res := Result{
		Title: fmt.Sprintf("Payroll Cost by Department - %d", year),
		Columns: []Column{
			col("department", "Department", TypeString),
			col("employees", "Employees", TypeInt),
			col("records", "Payslips", TypeInt),
			col("basicSalary", "Basic Salary", TypeMoney),
			col("allowances", "Allowances", TypeMoney),
			col("deductions", "Deductions", TypeMoney),
			col("netSalary", "Net Salary", TypeMoney),
			col("averageNetSalary", "Avg Net Salary", TypeMoney),
			col("netMismatches", "Net Mismatches", TypeInt),
		},
	}
	for _, r := range rows {
		row := Row{"department": r.dept.Name}
		for k, v := range r.rec {
			row[k] = v
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}
