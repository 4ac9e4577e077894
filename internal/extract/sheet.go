package extract

import (
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// extractXlsx renders a modern workbook as text: each row becomes tab-joined
// cell values, sheets concatenated in workbook order. Empty cells render as
// empty strings.
func extractXlsx(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// extractXls renders a legacy binary workbook the same way as extractXlsx.
func extractXls(path string) (string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return "", err
	}

	var lines []string
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			var cells []string
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}

	return strings.Join(lines, "\n"), nil
}
