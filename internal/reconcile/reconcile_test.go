package reconcile

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balans-dev/ledgermerge/internal/model"
)

func rec(src, code, date string) model.Record {
	r := model.Record{Code: code, SourceID: src}
	if t, err := time.Parse(model.DateFormat, date); err == nil {
		r.Date = model.DateOf(t)
	}
	return r
}

func TestMerge_Scenario(t *testing.T) {
	a := rec("A", "100", "2024-01-05")
	a.Credit = model.Amount(decimal.NewFromInt(500))
	b := rec("B", "100", "2024-01-01")
	b.Debit = model.Amount(decimal.NewFromInt(200))

	res := Merge([]model.Record{a}, []model.Record{b})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "B", res.Records[0].SourceID)
	assert.Equal(t, "A", res.Records[1].SourceID)
	assert.Equal(t, []string{"100"}, res.Overlap)
}

func TestMerge_EmptySecondSource(t *testing.T) {
	a := []model.Record{
		rec("A", "1", "2024-01-01"),
		rec("A", "2", "2024-01-02"),
		rec("A", "3", "2024-01-03"),
	}
	res := Merge(a, nil)
	assert.Equal(t, a, res.Records)
	assert.Empty(t, res.Overlap)
}

func TestMerge_BothEmpty(t *testing.T) {
	res := Merge(nil, nil)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Overlap)
}

func TestMerge_UnknownDateFirst(t *testing.T) {
	res := Merge(
		[]model.Record{rec("A", "1", "2020-01-01")},
		[]model.Record{rec("B", "2", "N/A")},
	)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "2", res.Records[0].Code)
	assert.False(t, res.Records[0].Date.Valid)
}

func TestMerge_StableTieBreak(t *testing.T) {
	a := []model.Record{
		rec("A", "a1", "2024-01-01"),
		rec("A", "a2", "2024-01-01"),
		rec("A", "a3", ""),
	}
	b := []model.Record{
		rec("B", "b1", ""),
		rec("B", "b2", "2024-01-01"),
		rec("B", "b3", "2024-01-01"),
	}
	res := Merge(a, b)

	var got []string
	for _, r := range res.Records {
		got = append(got, r.Code)
	}
	assert.Equal(t, []string{"a3", "b1", "a1", "a2", "b2", "b3"}, got)
}

func TestMerge_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	gen := func(src string, n int) []model.Record {
		out := make([]model.Record, n)
		for i := range out {
			date := ""
			if rng.Intn(5) > 0 {
				date = fmt.Sprintf("2024-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1)
			}
			out[i] = rec(src, fmt.Sprintf("%d", rng.Intn(30)), date)
			out[i].Note = fmt.Sprintf("%s-%d", src, i)
		}
		return out
	}

	for iter := 0; iter < 50; iter++ {
		a := gen("A", rng.Intn(40))
		b := gen("B", rng.Intn(40))
		res := Merge(a, b)

		// Count preservation.
		require.Len(t, res.Records, len(a)+len(b))

		// Non-decreasing, unknown first.
		seenKnown := false
		for i, r := range res.Records {
			if r.Date.Valid {
				seenKnown = true
			} else {
				assert.False(t, seenKnown, "unknown date after a known date at %d", i)
			}
			if i > 0 {
				assert.False(t, r.Date.Before(res.Records[i-1].Date), "order broken at %d", i)
			}
		}

		// Provenance: every record appears once, tagged with its source.
		origin := make(map[string]string)
		for _, r := range a {
			origin[r.Note] = "A"
		}
		for _, r := range b {
			origin[r.Note] = "B"
		}
		seen := make(map[string]bool)
		for _, r := range res.Records {
			assert.Equal(t, origin[r.Note], r.SourceID)
			assert.False(t, seen[r.Note], "duplicate record %s", r.Note)
			seen[r.Note] = true
		}

		// Overlap is the exact intersection.
		inA, inB := codes(a), codes(b)
		var want []string
		for code := range inA {
			if _, ok := inB[code]; ok {
				want = append(want, code)
			}
		}
		assert.ElementsMatch(t, want, res.Overlap)
	}
}

func TestOverlap_IgnoresEmptyCodes(t *testing.T) {
	got := Overlap(
		[]model.Record{rec("A", "", ""), rec("A", "7", "")},
		[]model.Record{rec("B", "", ""), rec("B", "8", "")},
	)
	assert.Empty(t, got)
}

func TestOverlap_Sorted(t *testing.T) {
	got := Overlap(
		[]model.Record{rec("A", "30", ""), rec("A", "10", ""), rec("A", "20", ""), rec("A", "10", "")},
		[]model.Record{rec("B", "20", ""), rec("B", "10", ""), rec("B", "30", "")},
	)
	assert.Equal(t, []string{"10", "20", "30"}, got)
}

func TestOverlap_SingleSource(t *testing.T) {
	assert.Empty(t, Overlap([]model.Record{rec("A", "1", "")}))
}

func TestOverlap_ThreeSources(t *testing.T) {
	got := Overlap(
		[]model.Record{rec("A", "1", ""), rec("A", "2", "")},
		[]model.Record{rec("B", "1", ""), rec("B", "2", "")},
		[]model.Record{rec("C", "2", "")},
	)
	assert.Equal(t, []string{"2"}, got)
}
