// Package workbook renders the merged ledger as an .xlsx spreadsheet.
package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/report"
)

// SheetName is the name of the single worksheet.
const SheetName = "Merged Data"

const (
	headerRow    = 4
	firstDataRow = 5
	sourceCol    = 11
)

var colWidths = map[string]float64{
	"A": 12, "B": 15, "C": 8, "D": 8, "E": 30, "F": 20,
	"G": 15, "H": 12, "I": 12, "J": 8, "K": 15,
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// Build lays out m on a new workbook. The caller owns the returned file.
func Build(m *report.Model, cfg *config.Config) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	fills, err := sourceStyles(f, m.Sources(), cfg)
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &writer{f: f}
	w.caption(m, cfg)
	w.header(cfg.Labels.Columns)

	row := firstDataRow
	for _, r := range m.Records() {
		w.record(row, r, fills[r.SourceID])
		row++
	}
	w.summary(row+2, m, cfg)

	for col, width := range colWidths {
		w.check(f.SetColWidth(SheetName, col, col, width))
	}

	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("building workbook: %w", w.err)
	}
	return f, nil
}

// Write builds the workbook for m and writes it to out.
func Write(out io.Writer, m *report.Model, cfg *config.Config) error {
	f, err := Build(m, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// CompanyCaption joins the sources as "<id> (<company code>) + ...".
func CompanyCaption(sources []report.SourceInfo) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.ID
		if s.Header.CompanyCode != "" {
			parts[i] += " (" + s.Header.CompanyCode + ")"
		}
	}
	return strings.Join(parts, " + ")
}

// writer keeps the first error so the layout code reads top to bottom.
type writer struct {
	f   *excelize.File
	err error
}

func (w *writer) check(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *writer) set(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.check(err)
		return
	}
	w.check(w.f.SetCellValue(SheetName, cell, v))
}

func (w *writer) style(col, row, styleID int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.check(err)
		return
	}
	w.check(w.f.SetCellStyle(SheetName, cell, cell, styleID))
}

func (w *writer) newStyle(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	w.check(err)
	return id
}

func (w *writer) caption(m *report.Model, cfg *config.Config) {
	sources := m.Sources()
	acct := report.AccountCaption(sources, cfg)

	w.set(1, 1, acct.Code)
	w.set(2, 1, acct.Name)
	w.set(sourceCol, 1, cfg.Labels.Columns[sourceCol-1])

	w.set(1, 2, CompanyCaption(sources))
	if acct.Company != "" {
		w.set(2, 2, acct.Company+" - COMBINED")
	}
}

func (w *writer) header(labels []string) {
	id := w.newStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}},
		Border: thinBorder,
	})
	for i, label := range labels {
		w.set(i+1, headerRow, label)
		w.style(i+1, headerRow, id)
	}
}

// sourceStyles creates one bordered fill style per source, keyed by ID.
func sourceStyles(f *excelize.File, sources []report.SourceInfo, cfg *config.Config) (map[string]int, error) {
	styles := make(map[string]int, len(sources))
	for _, s := range sources {
		c := cfg.ColourFor(s.Index)
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.Fill}},
			Border: thinBorder,
		})
		if err != nil {
			return nil, fmt.Errorf("style for source %s: %w", s.ID, err)
		}
		styles[s.ID] = id
	}
	return styles, nil
}

func (w *writer) record(row int, r model.Record, styleID int) {
	values := []any{
		r.Code,
		r.Date.String(),
		r.Currency,
		r.Month,
		r.Description,
		r.ClosingRef,
		r.Note,
		amountCell(r.Debit.Valid, r.Debit.Decimal.InexactFloat64()),
		amountCell(r.Credit.Valid, r.Credit.Decimal.InexactFloat64()),
		r.Unit,
		r.SourceID,
	}
	for i, v := range values {
		if v != nil {
			w.set(i+1, row, v)
		}
		w.style(i+1, row, styleID)
	}
}

// amountCell keeps empty amounts as blank cells.
func amountCell(valid bool, v float64) any {
	if !valid {
		return nil
	}
	return v
}

func (w *writer) summary(row int, m *report.Model, cfg *config.Config) {
	bold := w.newStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	w.set(1, row, "SUMMARY")
	w.style(1, row, bold)
	for _, s := range m.Sources() {
		row++
		w.set(1, row, fmt.Sprintf("Total records from %s:", s.ID))
		w.set(2, row, s.Count)
	}
	row++
	w.set(1, row, "Combined total:")
	w.set(2, row, m.Len())

	row += 2
	w.set(1, row, fmt.Sprintf("Overlapping %s codes:", cfg.Labels.Columns[0]))
	w.style(1, row, bold)
	for _, code := range m.Overlap() {
		row++
		w.set(1, row, code)
	}
}
