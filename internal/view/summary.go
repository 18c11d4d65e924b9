package view

import (
	"github.com/shopspring/decimal"

	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/report"
)

// Status classifies a balance.
type Status string

const (
	Settled   Status = "settled"
	Unsettled Status = "unsettled"
	Overpaid  Status = "overpaid"
)

// Totals are the sums over a set of records. A record with a positive credit
// counts as an invoice; one with a positive debit counts as a payment.
type Totals struct {
	Count    int
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Invoices int
	Payments int
}

func (t *Totals) add(r model.Record) {
	t.Count++
	t.Debit = t.Debit.Add(r.DebitOrZero())
	t.Credit = t.Credit.Add(r.CreditOrZero())
	if r.CreditOrZero().IsPositive() {
		t.Invoices++
	}
	if r.DebitOrZero().IsPositive() {
		t.Payments++
	}
}

// Balance is credit minus debit.
func (t Totals) Balance() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

// Status classifies the balance.
func (t Totals) Status() Status {
	switch t.Balance().Sign() {
	case 1:
		return Unsettled
	case -1:
		return Overpaid
	}
	return Settled
}

// SourceTotals are the totals of one source.
type SourceTotals struct {
	ID string
	Totals
}

// Stats describe a set of positive amounts. All fields are zero for an empty
// set.
type Stats struct {
	Count int
	Total decimal.Decimal
	Avg   decimal.Decimal // rounded to two places
	Min   decimal.Decimal
	Max   decimal.Decimal
}

func statsOf(amounts []decimal.Decimal) Stats {
	if len(amounts) == 0 {
		return Stats{}
	}
	s := Stats{Count: len(amounts), Min: amounts[0], Max: amounts[0]}
	for _, a := range amounts {
		s.Total = s.Total.Add(a)
		s.Min = decimal.Min(s.Min, a)
		s.Max = decimal.Max(s.Max, a)
	}
	s.Avg = s.Total.Div(decimal.NewFromInt(int64(len(amounts)))).Round(2)
	return s
}

// Summary aggregates a view.
type Summary struct {
	Totals
	Sources  []SourceTotals // in source order, including sources with no rows
	Invoices Stats
	Payments Stats
	Months   int // distinct non-empty month values
	First    model.Date
	Last     model.Date
}

// Summarize aggregates rows. sources fixes the order of the per-source
// totals; rows from unknown sources count only toward the overall totals.
func Summarize(sources []report.SourceInfo, rows []model.Record) Summary {
	sum := Summary{Sources: make([]SourceTotals, len(sources))}
	pos := make(map[string]int, len(sources))
	for i, s := range sources {
		sum.Sources[i].ID = s.ID
		pos[s.ID] = i
	}

	var invoices, payments []decimal.Decimal
	months := make(map[string]struct{})
	for _, r := range rows {
		sum.add(r)
		if i, ok := pos[r.SourceID]; ok {
			sum.Sources[i].add(r)
		}
		if c := r.CreditOrZero(); c.IsPositive() {
			invoices = append(invoices, c)
		}
		if d := r.DebitOrZero(); d.IsPositive() {
			payments = append(payments, d)
		}
		if r.Month != "" {
			months[r.Month] = struct{}{}
		}
		if r.Date.Valid {
			if !sum.First.Valid || r.Date.Before(sum.First) {
				sum.First = r.Date
			}
			if !sum.Last.Valid || sum.Last.Before(r.Date) {
				sum.Last = r.Date
			}
		}
	}

	sum.Invoices = statsOf(invoices)
	sum.Payments = statsOf(payments)
	sum.Months = len(months)
	return sum
}
