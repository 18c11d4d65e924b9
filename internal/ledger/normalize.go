package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/source"
)

// Metadata rows above the column labels.
const (
	rowAccount = 0
	rowCompany = 1
)

// Excel serial dates outside this window are treated as plain numbers.
const (
	minSerialDate = 1
	maxSerialDate = 2958465 // 9999-12-31
)

// Normalizer converts raw grids into Records using a fixed layout.
type Normalizer struct {
	schema config.Schema
	log    zerolog.Logger
}

// NewNormalizer creates a Normalizer for the given layout.
func NewNormalizer(schema config.Schema, log zerolog.Logger) *Normalizer {
	return &Normalizer{schema: schema, log: log}
}

// Header extracts account and company metadata from the rows above the
// column labels. Missing cells are left empty.
func (n *Normalizer) Header(grid source.Grid) model.Header {
	var h model.Header
	if n.schema.HeaderRows > rowAccount && len(grid) > rowAccount {
		h.AccountCode = keyText(cell(grid[rowAccount], 0))
		h.AccountName = cell(grid[rowAccount], 1)
	}
	if n.schema.HeaderRows > rowCompany && len(grid) > rowCompany {
		h.CompanyCode = keyText(cell(grid[rowCompany], 0))
		h.CompanyName = cell(grid[rowCompany], 1)
	}
	return h
}

// Normalize maps every data row of grid to a Record tagged with src.ID, in
// row order. Header rows are dropped unconditionally and blank rows are
// skipped. A bad date or amount never fails the row: the date becomes
// unknown and the amount null.
func (n *Normalizer) Normalize(grid source.Grid, src model.Source) []model.Record {
	if len(grid) <= n.schema.HeaderRows {
		return nil
	}

	log := n.log.With().Str("source", src.ID).Logger()
	cols := n.schema.Columns

	var records []model.Record
	blank := 0
	for i, row := range grid[n.schema.HeaderRows:] {
		if isBlank(row) {
			blank++
			continue
		}
		rowNum := n.schema.HeaderRows + i + 1

		rawDate := cell(row, cols.Date)
		date, ok := n.parseDate(rawDate)
		if !ok && rawDate != "" {
			log.Warn().Int("row", rowNum).Str("value", rawDate).Msg("unparseable date, treating as unknown")
		}

		records = append(records, model.Record{
			Code:        keyText(cell(row, cols.Code)),
			Date:        date,
			Currency:    cell(row, cols.Currency),
			Month:       keyText(cell(row, cols.Month)),
			Description: cell(row, cols.Description),
			ClosingRef:  cell(row, cols.ClosingRef),
			Note:        cell(row, cols.Note),
			Debit:       parseAmount(log, rowNum, "debit", cell(row, cols.Debit)),
			Credit:      parseAmount(log, rowNum, "credit", cell(row, cols.Credit)),
			Unit:        keyText(cell(row, cols.Unit)),
			SourceID:    src.ID,
		})
	}

	log.Debug().Int("records", len(records)).Int("blank_rows", blank).Msg("normalized source")
	return records
}

// parseDate accepts an Excel serial number or any configured layout.
func (n *Normalizer) parseDate(s string) (model.Date, bool) {
	if s == "" {
		return model.Date{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < minSerialDate || f > maxSerialDate {
			return model.Date{}, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return model.Date{}, false
		}
		return model.DateOf(t), true
	}
	for _, layout := range n.schema.DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t), true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return model.DateOf(t), true
	}
	return model.Date{}, false
}

func parseAmount(log zerolog.Logger, rowNum int, field, s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		log.Warn().Int("row", rowNum).Str("field", field).Str("value", s).Msg("unparseable amount, treating as empty")
		return decimal.NullDecimal{}
	}
	// Ledgers are kept in whole cents.
	if r := d.Round(2); !r.Equal(d) {
		log.Debug().Int("row", rowNum).Str("field", field).Str("value", s).Str("rounded", r.String()).Msg("amount rounded to cents")
		d = r
	}
	return decimal.NewNullDecimal(d)
}

// cell returns the trimmed text at index i, or "" when the row is short or
// the column is absent from the layout.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// keyText drops the ".0" a numeric cell gains when a code is stored as a
// number ("100.0" -> "100").
func keyText(s string) string {
	if !strings.HasSuffix(s, ".0") {
		return s
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return s
	}
	return strings.TrimSuffix(s, ".0")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
