package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source identifies one input ledger export.
type Source struct {
	ID       string // derived from Location, e.g. "Zubeks" for "data/Zubeks.xlsx"
	Location string
	Index    int // position in the ordered source list, drives colour assignment
	Header   Header
}

// Header is the metadata found above the column labels of an export.
type Header struct {
	AccountCode string
	AccountName string
	CompanyCode string
	CompanyName string
}

// SourceID derives a source identifier from a location: the base name
// without its extension.
func SourceID(location string) string {
	base := filepath.Base(location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NewSources builds the ordered source list for the given locations. IDs are
// unique: a repeated base name gets a "#2", "#3", ... suffix in input order.
func NewSources(locations []string) []Source {
	sources := make([]Source, len(locations))
	taken := make(map[string]bool, len(locations))
	for i, loc := range locations {
		base := SourceID(loc)
		id := base
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s#%d", base, n)
		}
		taken[id] = true
		sources[i] = Source{ID: id, Location: loc, Index: i}
	}
	return sources
}
