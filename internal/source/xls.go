package source

import (
	"fmt"

	"github.com/extrame/xls"
)

// XLSReader reads the first sheet of a legacy BIFF (.xls) workbook.
type XLSReader struct{}

const xlsCharset = "utf-8"

// Extensions returns the file extensions this reader handles.
func (r *XLSReader) Extensions() []string { return []string{".xls"} }

// Read loads the first sheet of the workbook at location. Rows missing from
// the file (blank separators) come back as empty rows so positions hold.
func (r *XLSReader) Read(location string) (Grid, error) {
	wb, err := xls.Open(location, xlsCharset)
	if err != nil {
		return nil, unreadable(location, err)
	}
	if wb.NumSheets() == 0 {
		return nil, unreadable(location, fmt.Errorf("workbook has no sheets"))
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, unreadable(location, fmt.Errorf("cannot open first sheet"))
	}

	grid := make(Grid, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		grid = append(grid, xlsRow(sheet, i))
	}
	return trimTrailingEmpty(grid), nil
}

// xlsRow returns the cells of row i. The library panics on rows absent from
// the sheet, which are reported as empty.
func xlsRow(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	cells = make([]string, row.LastCol())
	for c := range cells {
		cells[c] = row.Col(c)
	}
	return cells
}

func trimTrailingEmpty(g Grid) Grid {
	n := len(g)
	for n > 0 && isBlankRow(g[n-1]) {
		n--
	}
	return g[:n]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
