package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVReader reads comma-separated exports. Rows may have differing widths.
// Completely empty lines are skipped by encoding/csv, so separator rows in
// CSV exports must carry their delimiters (",,,").
type CSVReader struct{}

// Extensions returns the file extensions this reader handles.
func (r *CSVReader) Extensions() []string { return []string{".csv"} }

// Read loads the CSV file at location.
func (r *CSVReader) Read(location string) (Grid, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, unreadable(location, err)
	}
	defer f.Close()

	grid, err := ParseCSV(f)
	if err != nil {
		return nil, unreadable(location, err)
	}
	return grid, nil
}

// ParseCSV reads every record from r into a Grid.
func ParseCSV(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return Grid(records), nil
}
