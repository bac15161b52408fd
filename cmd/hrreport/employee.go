package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-hris-analytics/internal/export"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/store"

	"github.com/spf13/cobra"
)

func newEmployeeCmd(opts *rootOptions, open serviceOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Look up employees",
	}
	cmd.AddCommand(
		newEmployeeShowCmd(opts, open),
		newEmployeeListCmd(opts, open),
	)
	return cmd
}

func newEmployeeShowCmd(opts *rootOptions, open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one employee with job title, department and manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id < 1 {
				return fmt.Errorf("employee id must be a positive integer, got %q", args[0])
			}

			svc, closeFn, err := open(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.RunReport(cmd.Context(), "employee", report.Params{EmployeeID: report.ID(id)})
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("employee with id %d not found", id)
			}
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), resp.Result())
			return nil
		},
	}
}

func newEmployeeListCmd(opts *rootOptions, open serviceOpener) *cobra.Command {
	var (
		department string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees, optionally filtered by department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := report.Params{Department: strings.TrimSpace(department)}
			if cmd.Flags().Changed("limit") {
				p.Limit = report.Int(limit)
			}

			svc, closeFn, err := open(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			file, err := svc.Export(cmd.Context(), "employee-directory", p, export.FormatTable)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(file.Data)
			return err
		},
	}
	cmd.Flags().StringVarP(&department, "department", "d", "", "department name filter")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum rows, 1-1000")
	return cmd
}

// printRecord writes the first row of res as one "Label: value" line per
// column.
func printRecord(w io.Writer, res report.Result) {
	fmt.Fprintln(w, res.Title)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	if len(res.Rows) == 0 {
		return
	}
	for j, v := range res.Values(0) {
		c := res.Columns[j]
		value := export.Display(v, c.Type)
		if value == "" {
			value = "None"
		}
		fmt.Fprintf(w, "%s: %s\n", c.Label, value)
	}
}
