package view

import (
	"fmt"
	"strings"
)

// Column names a sortable field of the merged ledger. Values match the keys
// of the report dataset.
type Column string

const (
	ColCode        Column = "code"
	ColDate        Column = "date"
	ColCurrency    Column = "currency"
	ColMonth       Column = "month"
	ColDescription Column = "description"
	ColClosingRef  Column = "closing_ref"
	ColNote        Column = "note"
	ColDebit       Column = "debit"
	ColCredit      Column = "credit"
	ColUnit        Column = "unit"
	ColSource      Column = "source"
)

// Columns lists every column in merged header order.
var Columns = []Column{
	ColCode, ColDate, ColCurrency, ColMonth, ColDescription, ColClosingRef,
	ColNote, ColDebit, ColCredit, ColUnit, ColSource,
}

// Numeric reports whether the column sorts by value rather than text.
func (c Column) Numeric() bool {
	return c == ColDebit || c == ColCredit || c == ColMonth
}

// ParseColumn resolves a column name.
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if string(c) == s {
			return c, nil
		}
	}
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = string(c)
	}
	return "", fmt.Errorf("unknown column %q (valid: %s)", s, strings.Join(names, ", "))
}

// OverlapMode restricts the view by overlap membership.
type OverlapMode string

const (
	OverlapAll  OverlapMode = ""
	OverlapOnly OverlapMode = "yes"
	OverlapNone OverlapMode = "no"
)

// ParseOverlapMode accepts all, only or none (and the report's yes/no).
func ParseOverlapMode(s string) (OverlapMode, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return OverlapAll, nil
	case "only", "yes":
		return OverlapOnly, nil
	case "none", "no":
		return OverlapNone, nil
	}
	return "", fmt.Errorf("unknown overlap mode %q (valid: all, only, none)", s)
}

// Filter holds the AND-combined view filters. Empty fields do not filter.
type Filter struct {
	Search  string // case-insensitive substring of code or description
	Source  string
	From    string // YYYY-MM-DD, inclusive
	To      string // YYYY-MM-DD, inclusive
	Month   string
	Overlap OverlapMode
}

// State is the full view state: filters plus sort order.
type State struct {
	Filter
	SortCol Column
	Desc    bool
}

// Initial returns the state a report opens with: no filters, sorted by date
// ascending.
func Initial() State {
	return State{SortCol: ColDate}
}

// Toggle returns the state after a click on a column header: the same column
// flips direction, another column sorts ascending.
func (s State) Toggle(col Column) State {
	if s.SortCol == col {
		s.Desc = !s.Desc
		return s
	}
	s.SortCol = col
	s.Desc = false
	return s
}
