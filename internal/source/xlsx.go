package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first sheet of an Office Open XML workbook.
// Cells are returned unformatted, so dates arrive as Excel serial numbers.
type XLSXReader struct{}

// Extensions returns the file extensions this reader handles.
func (r *XLSXReader) Extensions() []string { return []string{".xlsx", ".xlsm"} }

// Read loads the first sheet of the workbook at location.
func (r *XLSXReader) Read(location string) (Grid, error) {
	f, err := excelize.OpenFile(location)
	if err != nil {
		return nil, unreadable(location, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, unreadable(location, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, unreadable(location, fmt.Errorf("reading sheet %q: %w", sheet, err))
	}
	return Grid(rows), nil
}
