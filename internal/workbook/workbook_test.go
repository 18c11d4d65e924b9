package workbook

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/reconcile"
	"github.com/balans-dev/ledgermerge/internal/report"
)

func testModel() *report.Model {
	sources := model.NewSources([]string{"in/Hami.xlsx", "in/Zubeks.xlsx"})
	sources[0].Header = model.Header{AccountCode: "2200", AccountName: "Обврски кон добавувачи", CompanyCode: "6", CompanyName: "ТП БИЛАНС ЕЛИТ"}
	sources[1].Header = model.Header{AccountCode: "2200", CompanyCode: "40"}

	a := []model.Record{
		{Code: "100", Date: model.NewDate(2024, time.January, 5), Credit: model.Amount(decimal.NewFromInt(500)), Description: "Фактура", SourceID: "Hami"},
		{Code: "102", Month: "3", Note: "без датум", SourceID: "Hami"},
	}
	b := []model.Record{
		{Code: "100", Date: model.NewDate(2024, time.January, 1), Debit: model.Amount(decimal.RequireFromString("200.25")), SourceID: "Zubeks"},
	}
	return report.Build(sources, reconcile.Merge(a, b))
}

func readBack(t *testing.T, m *report.Model, cfg *config.Config) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, cfg))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, ref)
	require.NoError(t, err)
	return v
}

func TestWrite_Layout(t *testing.T) {
	f := readBack(t, testModel(), config.Default())

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	assert.Equal(t, "2200", cell(t, f, "A1"))
	assert.Equal(t, "Обврски кон добавувачи", cell(t, f, "B1"))
	assert.Equal(t, "Извор", cell(t, f, "K1"))
	assert.Equal(t, "Hami (6) + Zubeks (40)", cell(t, f, "A2"))
	assert.Equal(t, "ТП БИЛАНС ЕЛИТ - COMBINED", cell(t, f, "B2"))

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultColumnLabels, rows[3])
}

func TestWrite_RecordsInMergeOrder(t *testing.T) {
	f := readBack(t, testModel(), config.Default())

	// Unknown date first, then by date.
	assert.Equal(t, "102", cell(t, f, "A5"))
	assert.Equal(t, "", cell(t, f, "B5"))
	assert.Equal(t, "3", cell(t, f, "D5"))
	assert.Equal(t, "без датум", cell(t, f, "G5"))
	assert.Equal(t, "", cell(t, f, "H5"))
	assert.Equal(t, "Hami", cell(t, f, "K5"))

	assert.Equal(t, "100", cell(t, f, "A6"))
	assert.Equal(t, "2024-01-01", cell(t, f, "B6"))
	assert.Equal(t, "200.25", cell(t, f, "H6"))
	assert.Equal(t, "Zubeks", cell(t, f, "K6"))

	assert.Equal(t, "2024-01-05", cell(t, f, "B7"))
	assert.Equal(t, "500", cell(t, f, "I7"))
	assert.Equal(t, "Фактура", cell(t, f, "E7"))
}

func TestWrite_SourceFills(t *testing.T) {
	f := readBack(t, testModel(), config.Default())

	fill := func(ref string) string {
		id, err := f.GetCellStyle(SheetName, ref)
		require.NoError(t, err)
		st, err := f.GetStyle(id)
		require.NoError(t, err)
		require.NotEmpty(t, st.Fill.Color, ref)
		return st.Fill.Color[0]
	}

	assert.Equal(t, "E6F3FF", fill("A5"))
	assert.Equal(t, "E6F3FF", fill("K7"))
	assert.Equal(t, "FFF3E6", fill("A6"))
	assert.Equal(t, "CCCCCC", fill("A4"))
}

func TestWrite_Summary(t *testing.T) {
	f := readBack(t, testModel(), config.Default())

	// Three data rows (5-7), two blank rows, then the summary.
	assert.Equal(t, "SUMMARY", cell(t, f, "A10"))
	assert.Equal(t, "Total records from Hami:", cell(t, f, "A11"))
	assert.Equal(t, "2", cell(t, f, "B11"))
	assert.Equal(t, "Total records from Zubeks:", cell(t, f, "A12"))
	assert.Equal(t, "1", cell(t, f, "B12"))
	assert.Equal(t, "Combined total:", cell(t, f, "A13"))
	assert.Equal(t, "3", cell(t, f, "B13"))
	assert.Equal(t, "Overlapping Налог codes:", cell(t, f, "A15"))
	assert.Equal(t, "100", cell(t, f, "A16"))
	assert.Equal(t, "", cell(t, f, "A17"))
}

func TestWrite_ColumnWidths(t *testing.T) {
	f := readBack(t, testModel(), config.Default())

	w, err := f.GetColWidth(SheetName, "E")
	require.NoError(t, err)
	assert.Equal(t, 30.0, w)
	w, err = f.GetColWidth(SheetName, "K")
	require.NoError(t, err)
	assert.Equal(t, 15.0, w)
}

func TestWrite_Empty(t *testing.T) {
	m := report.Build(model.NewSources([]string{"A.xlsx", "B.xlsx"}), reconcile.Result{})
	f := readBack(t, m, config.Default())

	assert.Equal(t, "A + B", cell(t, f, "A2"))
	assert.Equal(t, "", cell(t, f, "B2"))
	assert.Equal(t, "SUMMARY", cell(t, f, "A7"))
	assert.Equal(t, "0", cell(t, f, "B10"))
}

func TestCompanyCaption(t *testing.T) {
	sources := []report.SourceInfo{
		{Source: model.Source{ID: "Hami", Header: model.Header{CompanyCode: "6"}}},
		{Source: model.Source{ID: "Zubeks"}},
	}
	assert.Equal(t, "Hami (6) + Zubeks", CompanyCaption(sources))
}
