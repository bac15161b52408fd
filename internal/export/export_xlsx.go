package export

import (
	"io"

	"go-hris-analytics/internal/aggregate"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/money"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "Report"
	moneyFormat = "#,##0.00"
)

// XLSX writes a single-sheet workbook: the title in A1, headers on row 3 and
// data below. Money and defined ratios are numeric cells; undefined ratios
// are the text "N/A".
func XLSX(w io.Writer, res report.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(moneyFormat)})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheetName, "A1", res.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}

	const headerRow = 3
	for i, c := range res.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, c.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, colName, colName, columnWidth(c)); err != nil {
			return err
		}
	}

	for r := range res.Rows {
		for i, v := range res.Values(r) {
			cell, err := excelize.CoordinatesToCellName(i+1, headerRow+1+r)
			if err != nil {
				return err
			}
			value, isMoney := cellValue(v)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
			if isMoney {
				if err := f.SetCellStyle(sheetName, cell, cell, moneyStyle); err != nil {
					return err
				}
			}
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func cellValue(v any) (any, bool) {
	switch x := v.(type) {
	case money.Money:
		f, _ := x.Rat().Float64()
		return f, true
	case aggregate.Ratio:
		f, ok := x.Float64()
		if !ok {
			return aggregate.Undefined, false
		}
		return f, x.IsCurrency()
	case nil:
		return "", false
	default:
		return v, false
	}
}

func columnWidth(c report.Column) float64 {
	switch c.Type {
	case report.TypeMoney:
		return 16
	case report.TypeInt, report.TypeBool:
		return 10
	}
	if n := float64(len(c.Label)) + 4; n > 20 {
		return n
	}
	return 20
}

func ptr[T any](v T) *T { return &v }
