// Package report assembles the named HR reports. Every report is a pure
// function of a *store.Store and Params: the same inputs always produce the
// same rows in the same order.
package report

import (
	"time"
)

type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeString ColumnType = "string"
	TypeMoney  ColumnType = "money"
	TypeRatio  ColumnType = "ratio"
	TypeDate   ColumnType = "date"
	TypeBool   ColumnType = "bool"
	// TypeMixed columns hold a different kind of value per row (dashboard values).
	TypeMixed ColumnType = "mixed"
)

type Column struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type"`
}

// Row maps a column key to its value. Values are int, string, bool, nil,
// money.Money or aggregate.Ratio; dates are "2006-01-02" strings.
type Row map[string]any

type Result struct {
	Report  string   `json:"report"`
	Title   string   `json:"title"`
	Params  Params   `json:"params"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Values returns row i's values in column order.
func (r Result) Values(i int) []any {
	out := make([]any, len(r.Columns))
	for j, c := range r.Columns {
		out[j] = r.Rows[i][c.Key]
	}
	return out
}

// Column returns the values of one column, in row order.
func (r Result) Column(key string) []any {
	out := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row[key]
	}
	return out
}

const dateLayout = "2006-01-02"

func date(t time.Time) string { return t.Format(dateLayout) }

func optionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return date(*t)
}

func col(key, label string, typ ColumnType) Column {
	return Column{Key: key, Label: label, Type: typ}
}
