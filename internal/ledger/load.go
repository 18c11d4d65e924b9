package ledger

import (
	"context"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/logger"
	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/source"
)

// Loaded is the normalized content of every input, in input order.
type Loaded struct {
	Sources []model.Source
	Records [][]model.Record // Records[i] belongs to Sources[i]
}

// GridReader loads a raw grid from a location. *source.Registry satisfies it.
type GridReader interface {
	Read(location string) (source.Grid, error)
}

// Load reads and normalizes each location in order. The first unreadable
// source aborts the load.
func Load(ctx context.Context, reg GridReader, schema config.Schema, locations []string) (*Loaded, error) {
	log := logger.FromContext(ctx)
	n := NewNormalizer(schema, log)

	out := &Loaded{
		Sources: model.NewSources(locations),
		Records: make([][]model.Record, len(locations)),
	}
	for i := range out.Sources {
		src := &out.Sources[i]
		grid, err := reg.Read(src.Location)
		if err != nil {
			return nil, err
		}
		src.Header = n.Header(grid)
		out.Records[i] = n.Normalize(grid, *src)

		log.Info().
			Str("source", src.ID).
			Int("rows", len(grid)).
			Int("records", len(out.Records[i])).
			Msg("loaded source")
	}
	return out, nil
}
