package model

import (
	"time"
)

// DateFormat is the canonical text form of a calendar date.
const DateFormat = "2006-01-02"

// Date is an optional calendar date. The zero value is an unknown date.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a known date with the time of day stripped.
func NewDate(y int, m time.Month, d int) Date {
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String returns YYYY-MM-DD, or "" for an unknown date.
// Lexicographic order of the result matches chronological order.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateFormat)
}

// Before reports whether d sorts strictly before other.
// Unknown dates sort before every known date.
func (d Date) Before(other Date) bool {
	switch {
	case !d.Valid:
		return other.Valid
	case !other.Valid:
		return false
	default:
		return d.Time.Before(other.Time)
	}
}
