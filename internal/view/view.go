package view

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/report"
)

// View is the filtered, sorted slice of the merged ledger and its
// aggregates.
type View struct {
	Rows    []model.Record
	Summary Summary
}

// Derive applies s to m: filter, stable sort, aggregate. m is not modified.
func Derive(m *report.Model, s State) View {
	var rows []model.Record
	for _, r := range m.Records() {
		if Matches(m, s.Filter, r) {
			rows = append(rows, r)
		}
	}
	Sort(rows, s.SortCol, s.Desc)
	return View{Rows: rows, Summary: Summarize(m.Sources(), rows)}
}

// Matches reports whether r passes every filter in f.
func Matches(m *report.Model, f Filter, r model.Record) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Code), q) && !strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	if f.Source != "" && r.SourceID != f.Source {
		return false
	}

	// Unknown dates compare as "", failing any lower bound.
	date := r.Date.String()
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}

	if f.Month != "" && r.Month != f.Month {
		return false
	}
	switch f.Overlap {
	case OverlapOnly:
		return m.IsOverlap(r.Code)
	case OverlapNone:
		return !m.IsOverlap(r.Code)
	}
	return true
}

// Sort stable-sorts rows by col. Descending order reverses the comparison,
// so equal keys keep their relative order either way.
func Sort(rows []model.Record, col Column, desc bool) {
	if col.Numeric() {
		keys := make([]decimal.Decimal, len(rows))
		for i, r := range rows {
			keys[i] = numericKey(r, col)
		}
		sort.Stable(&byKey[decimal.Decimal]{rows: rows, keys: keys, desc: desc, less: func(a, b decimal.Decimal) bool { return a.LessThan(b) }})
		return
	}

	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = Field(r, col)
	}
	sort.Stable(&byKey[string]{rows: rows, keys: keys, desc: desc, less: func(a, b string) bool { return a < b }})
}

type byKey[K any] struct {
	rows []model.Record
	keys []K
	desc bool
	less func(a, b K) bool
}

func (b *byKey[K]) Len() int { return len(b.rows) }

func (b *byKey[K]) Less(i, j int) bool {
	if b.desc {
		return b.less(b.keys[j], b.keys[i])
	}
	return b.less(b.keys[i], b.keys[j])
}

func (b *byKey[K]) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Field returns the text form of one column of r, as exported.
func Field(r model.Record, col Column) string {
	switch col {
	case ColCode:
		return r.Code
	case ColDate:
		return r.Date.String()
	case ColCurrency:
		return r.Currency
	case ColMonth:
		return r.Month
	case ColDescription:
		return r.Description
	case ColClosingRef:
		return r.ClosingRef
	case ColNote:
		return r.Note
	case ColDebit:
		return model.FormatAmount(r.Debit)
	case ColCredit:
		return model.FormatAmount(r.Credit)
	case ColUnit:
		return r.Unit
	case ColSource:
		return r.SourceID
	}
	return ""
}

// numericKey treats empty and non-numeric values as zero.
func numericKey(r model.Record, col Column) decimal.Decimal {
	switch col {
	case ColDebit:
		return r.DebitOrZero()
	case ColCredit:
		return r.CreditOrZero()
	}
	d, err := decimal.NewFromString(Field(r, col))
	if err != nil {
		return decimal.Zero
	}
	return d
}
