package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/export"
	"go-hris-analytics/internal/report"

	"github.com/spf13/cobra"
)

type paramFlags struct {
	limit            int
	minProjects      int
	month            int
	year             int
	department       string
	asOf             string
	payrollYear      int
	payrollMonths    string
	ratingWindowDays int
	employeeID       int64
}

func (f *paramFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.limit, "limit", "l", 0, "top-salaries, review-ranking: rank cut-off; employee-directory, job-title-salaries: row cap")
	fs.IntVarP(&f.minProjects, "min-projects", "m", 2, "multi-projects: exclusive lower bound on project count")
	fs.IntVar(&f.month, "month", 0, "attendance-report: month 1-12 (default month of --as-of)")
	fs.IntVarP(&f.year, "year", "y", 0, "attendance-report, payroll-cost: year (default year of --as-of)")
	fs.StringVarP(&f.department, "department", "d", "", "employee-directory: department name filter")
	fs.StringVar(&f.asOf, "as-of", "", "reference date YYYY-MM-DD (default today)")
	fs.IntVar(&f.payrollYear, "payroll-year", 0, "dashboard: payroll year (default year of --as-of)")
	fs.StringVar(&f.payrollMonths, "payroll-months", "", "dashboard: comma separated payroll months (default 1,2,3)")
	fs.IntVar(&f.ratingWindowDays, "rating-window-days", 365, "dashboard: performance review window in days")
	fs.Int64Var(&f.employeeID, "employee-id", 0, "employee: id of the employee to show")
}

// params keeps only the flags given on the command line so every report
// applies its own defaults to the rest.
func (f *paramFlags) params(cmd *cobra.Command) (report.Params, error) {
	fs := cmd.Flags()
	q := analytics.ReportQuery{
		Department:    f.department,
		AsOf:          f.asOf,
		PayrollMonths: f.payrollMonths,
	}
	set := func(name string, v int, dst **int) {
		if fs.Changed(name) {
			*dst = report.Int(v)
		}
	}
	set("limit", f.limit, &q.Limit)
	set("min-projects", f.minProjects, &q.MinProjects)
	set("month", f.month, &q.Month)
	set("year", f.year, &q.Year)
	set("payroll-year", f.payrollYear, &q.PayrollYear)
	set("rating-window-days", f.ratingWindowDays, &q.RatingWindowDays)
	if fs.Changed("employee-id") {
		q.EmployeeID = report.ID(f.employeeID)
	}
	return q.ToParams()
}

func newQueryCmd(opts *rootOptions, open serviceOpener) *cobra.Command {
	var (
		pf     paramFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "query <report>",
		Short: "Run one report",
		Long:  "Runs a report from the catalog. See 'hrreport list' for the report names and their options.",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return report.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := pf.params(cmd)
			if err != nil {
				return err
			}

			svc, closeFn, err := open(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			file, err := svc.Export(cmd.Context(), args[0], p, f)
			if err != nil {
				return err
			}

			// Spreadsheets never go to a terminal.
			if output == "" && f == export.FormatXLSX {
				output = file.Name
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(file.Data)
				return err
			}
			if err := os.WriteFile(output, file.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %s to %s\n", args[0], output)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTable), "output format: table, csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	cmd.AddCommand(newRunAllCmd(opts, open))
	return cmd
}

func newRunAllCmd(opts *rootOptions, open serviceOpener) *cobra.Command {
	var (
		pf     paramFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "run-all",
		Short: "Run every report that needs no employee id and summarize the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.params(cmd)
			if err != nil {
				return err
			}

			svc, closeFn, err := open(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			var tables io.Writer
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				tables = f
			}

			failed := runAll(cmd.Context(), svc, p, cmd.OutOrStdout(), tables)
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "results saved to %s\n", output)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed", failed, len(report.BatchNames()))
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write every successful report as a table to this file")
	return cmd
}

// runAll runs the batch reports in catalog order. One failing report never
// stops the others. It returns the number of failures.
func runAll(ctx context.Context, svc analytics.Service, p report.Params, summary, tables io.Writer) int {
	names := report.BatchNames()
	fmt.Fprintf(summary, "Running %d reports\n", len(names))

	failed := 0
	for _, name := range names {
		file, err := svc.Export(ctx, name, p, export.FormatTable)
		if err == nil && tables != nil {
			_, err = fmt.Fprintf(tables, "%s\n", file.Data)
		}
		if err != nil {
			failed++
			fmt.Fprintf(summary, "  FAILED  %-20s %s\n", name, err)
			continue
		}
		fmt.Fprintf(summary, "  OK      %s\n", name)
	}

	fmt.Fprintf(summary, "%d succeeded, %d failed\n", len(names)-failed, failed)
	return failed
}
