package report

import (
	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/reconcile"
)

// SourceInfo is a source together with its record count in the merge.
type SourceInfo struct {
	model.Source
	Count int
}

// Model is the immutable result of one merge run. It is the only input of
// the spreadsheet writer, the report renderer and the view aggregator.
// Accessors return copies so callers cannot alter it.
type Model struct {
	records []model.Record
	overlap []string
	inBoth  map[string]struct{}
	sources []SourceInfo
}

// Build wraps a merge result and counts the records of each source.
func Build(sources []model.Source, res reconcile.Result) *Model {
	counts := make(map[string]int, len(sources))
	for _, r := range res.Records {
		counts[r.SourceID]++
	}

	infos := make([]SourceInfo, len(sources))
	for i, s := range sources {
		infos[i] = SourceInfo{Source: s, Count: counts[s.ID]}
	}

	inBoth := make(map[string]struct{}, len(res.Overlap))
	for _, code := range res.Overlap {
		inBoth[code] = struct{}{}
	}

	return &Model{
		records: append([]model.Record(nil), res.Records...),
		overlap: append([]string(nil), res.Overlap...),
		inBoth:  inBoth,
		sources: infos,
	}
}

// Records returns a copy of the merged records in merge order.
func (m *Model) Records() []model.Record {
	return append([]model.Record(nil), m.records...)
}

// Len returns the combined record count.
func (m *Model) Len() int { return len(m.records) }

// Overlap returns a copy of the sorted overlapping codes.
func (m *Model) Overlap() []string {
	return append([]string(nil), m.overlap...)
}

// IsOverlap reports whether code appears in every source.
func (m *Model) IsOverlap(code string) bool {
	_, ok := m.inBoth[code]
	return ok
}

// Sources returns a copy of the ordered sources with their counts.
func (m *Model) Sources() []SourceInfo {
	return append([]SourceInfo(nil), m.sources...)
}
