package model

import (
	"github.com/shopspring/decimal"
)

// Record is one ledger line from a source export.
type Record struct {
	Code        string // transaction code ("Налог"); one order may span many lines
	Date        Date
	Currency    string
	Month       string // VAT month code, used as a filter dimension
	Description string
	ClosingRef  string
	Note        string
	Debit       decimal.NullDecimal
	Credit      decimal.NullDecimal
	Unit        string
	SourceID    string
}

// DebitOrZero returns the debit amount, or zero when the cell was empty.
func (r Record) DebitOrZero() decimal.Decimal {
	if !r.Debit.Valid {
		return decimal.Zero
	}
	return r.Debit.Decimal
}

// CreditOrZero returns the credit amount, or zero when the cell was empty.
func (r Record) CreditOrZero() decimal.Decimal {
	if !r.Credit.Valid {
		return decimal.Zero
	}
	return r.Credit.Decimal
}

// Amount returns a nullable decimal from an amount.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// FormatAmount renders a nullable amount, empty when absent.
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
