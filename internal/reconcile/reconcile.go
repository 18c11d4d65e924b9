package reconcile

import (
	"sort"

	"github.com/balans-dev/ledgermerge/internal/model"
)

// Result is the combined ledger and the codes shared by every source.
type Result struct {
	Records []model.Record
	Overlap []string // sorted
}

// Merge concatenates the normalized records of each source, in source order,
// and stable-sorts them by date with unknown dates first. Records with equal
// dates keep source order, then row order.
func Merge(sets ...[]model.Record) Result {
	n := 0
	for _, s := range sets {
		n += len(s)
	}

	merged := make([]model.Record, 0, n)
	for _, s := range sets {
		merged = append(merged, s...)
	}
	SortByDate(merged)

	return Result{Records: merged, Overlap: Overlap(sets...)}
}

// SortByDate stable-sorts records by date, unknown dates first.
func SortByDate(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

// Overlap returns the sorted distinct non-empty codes that appear in every
// set. With fewer than two sets nothing can overlap.
func Overlap(sets ...[]model.Record) []string {
	if len(sets) < 2 {
		return nil
	}

	common := codes(sets[0])
	for _, s := range sets[1:] {
		if len(common) == 0 {
			break
		}
		next := codes(s)
		for code := range common {
			if _, ok := next[code]; !ok {
				delete(common, code)
			}
		}
	}

	if len(common) == 0 {
		return nil
	}
	out := make([]string, 0, len(common))
	for code := range common {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func codes(records []model.Record) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Code == "" {
			continue
		}
		set[r.Code] = struct{}{}
	}
	return set
}
