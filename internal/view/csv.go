package view

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/balans-dev/ledgermerge/internal/model"
)

// MarshalRecord converts a record to a CSV row in merged column order.
func MarshalRecord(r model.Record) []string {
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = Field(r, col)
	}
	return row
}

// WriteCSV writes the header row and one row per record. Fields containing
// a separator, quote or line break are quoted.
func WriteCSV(w io.Writer, header []string, rows []model.Record) error {
	if len(header) != len(Columns) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(Columns))
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
