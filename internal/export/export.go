// Package export renders report results for people and spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/money"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

const currency = "$"

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatCSV, FormatXLSX}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (f Format) Extension() string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}

// FileName is "<report>.<ext>", e.g. "payroll-cost.xlsx".
func FileName(res report.Result, f Format) string {
	return res.Report + "." + f.Extension()
}

// Write renders res to w in format f.
func Write(w io.Writer, res report.Result, f Format) error {
	switch f {
	case FormatTable:
		return Table(w, res)
	case FormatCSV:
		return CSV(w, res)
	case FormatXLSX:
		return XLSX(w, res)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// Table writes an aligned plain-text table headed by the report title.
func Table(w io.Writer, res report.Result) error {
	if _, err := fmt.Fprintln(w, res.Title); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(res.Columns))
	rules := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		labels[i] = c.Label
		rules[i] = strings.Repeat("-", len(c.Label))
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))

	for i := range res.Rows {
		cells := make([]string, len(res.Columns))
		for j, v := range res.Values(i) {
			cells[j] = Display(v, res.Columns[j].Type)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
	return err
}

// CSV writes a header of column labels and one record per row. Values are
// plain: money without symbol or separators, undefined ratios as "N/A".
func CSV(w io.Writer, res report.Result) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range res.Rows {
		record := make([]string, len(res.Columns))
		for j, v := range res.Values(i) {
			record[j] = Plain(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Display formats a value for people: money as "$1,234.50", undefined ratios
// as "N/A", missing values as empty. Currency ratios are money in any column.
func Display(v any, typ report.ColumnType) string {
	switch x := v.(type) {
	case nil:
		return ""
	case money.Money:
		return x.Format(currency)
	case aggregate.Ratio:
		if typ == report.TypeMoney || x.IsCurrency() {
			if m, ok := x.Money(); ok {
				return m.Format(currency)
			}
		}
		return x.String()
	case bool:
		if x {
			return "yes"
		}
		return "no"
	default:
		return Plain(v)
	}
}

// Plain formats a value for machines.
func Plain(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
