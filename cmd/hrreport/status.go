package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/export"
	"go-hris-analytics/internal/report"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions, open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show source table counts and whether a snapshot loads cleanly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			// A failed load is part of the status, not a command failure.
			_, _ = svc.Refresh(cmd.Context())

			status, err := svc.Status(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func printStatus(w io.Writer, s analytics.StatusResponse) {
	fmt.Fprintln(w, "Source tables:")
	for _, name := range slices.Sorted(maps.Keys(s.SourceTables)) {
		fmt.Fprintf(w, "  %-20s %d records\n", name, s.SourceTables[name])
	}

	fmt.Fprintln(w)
	if s.LoadedAt != nil {
		fmt.Fprintf(w, "Snapshot: %s loaded at %s\n", s.SnapshotVersion, s.LoadedAt.Format("2006-01-02 15:04:05"))
		for _, kind := range slices.Sorted(maps.Keys(s.Entities)) {
			fmt.Fprintf(w, "  %-20s %d\n", kind, s.Entities[kind])
		}
	} else {
		fmt.Fprintln(w, "Snapshot: not loaded")
	}
	if s.LastError != "" {
		fmt.Fprintf(w, "Last error: %s\n", s.LastError)
	}

	fmt.Fprintf(w, "\nReports: %s\n", strings.Join(s.Reports, ", "))
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the report catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return export.Table(cmd.OutOrStdout(), catalogResult(report.Catalog()))
		},
	}
}

func catalogResult(defs []report.Definition) report.Result {
	res := report.Result{
		Report: "catalog",
		Title:  "Reports",
		Columns: []report.Column{
			{Key: "name", Label: "Name", Type: report.TypeString},
			{Key: "title", Label: "Title", Type: report.TypeString},
			{Key: "options", Label: "Options", Type: report.TypeString},
		},
	}
	for _, d := range defs {
		options := make([]string, len(d.Params))
		for i, p := range d.Params {
			options[i] = p.Name
			if p.Default != "" {
				options[i] += "=" + p.Default
			}
		}
		res.Rows = append(res.Rows, report.Row{
			"name":    d.Name,
			"title":   d.Title,
			"options": strings.Join(options, ", "),
		})
	}
	return res
}
