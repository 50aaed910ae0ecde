package output

import (
	"fmt"

	"github.com/flux/elementz/internal/report"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

const (
	usageSheet   = "Usage"
	missingSheet = "Missing"
)

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

// ExportUsageXLSX writes the element usage report as a workbook with a
// "Usage" sheet (one row per element/item pair) and a "Missing" sheet.
func ExportUsageXLSX(fs afero.Fs, path string, usage []report.ElementUsage, names func(string) string, missing []string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", usageSheet); err != nil {
		return err
	}
	headers := []string{"Symbol", "Element", "Item", "Quantity"}
	for i, h := range headers {
		if err := f.SetCellValue(usageSheet, fmt.Sprintf("%s1", colName(i+1)), h); err != nil {
			return err
		}
	}

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(usageSheet, "A1", fmt.Sprintf("%s1", colName(len(headers))), headerStyleID); err != nil {
		return err
	}

	row := 2
	for _, eu := range usage {
		for _, e := range eu.Entries {
			values := []any{eu.Symbol, names(eu.Symbol), e.Item, e.Quantity}
			if err := f.SetSheetRow(usageSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	if err := f.SetColWidth(usageSheet, "C", "C", 40); err != nil {
		return err
	}

	if _, err := f.NewSheet(missingSheet); err != nil {
		return err
	}
	if err := f.SetCellValue(missingSheet, "A1", "Symbol"); err != nil {
		return err
	}
	if err := f.SetCellValue(missingSheet, "B1", "Element"); err != nil {
		return err
	}
	if err := f.SetCellStyle(missingSheet, "A1", "B1", headerStyleID); err != nil {
		return err
	}
	for i, s := range missing {
		values := []any{s, names(s)}
		if err := f.SetSheetRow(missingSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteFile(fs, path, buf.Bytes())
}
