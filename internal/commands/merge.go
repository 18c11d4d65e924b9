package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/ledger"
	"github.com/balans-dev/ledgermerge/internal/logger"
	"github.com/balans-dev/ledgermerge/internal/output"
	"github.com/balans-dev/ledgermerge/internal/reconcile"
	"github.com/balans-dev/ledgermerge/internal/report"
	"github.com/balans-dev/ledgermerge/internal/source"
	"github.com/balans-dev/ledgermerge/internal/workbook"
)

func newMergeCommand(a *app) *cobra.Command {
	var outPath string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "merge <source>...",
		Short: "Merge ledger exports into a workbook and an HTML report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" && reportPath == "" {
				return errors.New("nothing to write: both --out and --report are empty")
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			return runMerge(cmd.Context(), cmd.OutOrStdout(), cfg, args, outPath, reportPath, a.runID)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "merged.xlsx", "merged workbook path (empty to skip)")
	cmd.Flags().StringVar(&reportPath, "report", "report.html", "HTML report path (empty to skip)")

	return cmd
}

// buildModel runs the read, normalize and merge stages for locations.
func buildModel(ctx context.Context, cfg *config.Config, locations []string) (*report.Model, error) {
	loaded, err := ledger.Load(ctx, source.DefaultRegistry(), cfg.Schema, locations)
	if err != nil {
		return nil, err
	}
	res := reconcile.Merge(loaded.Records...)
	return report.Build(loaded.Sources, res), nil
}

func runMerge(ctx context.Context, w io.Writer, cfg *config.Config, locations []string, outPath, reportPath, runID string) error {
	log := logger.FromContext(ctx)

	m, err := buildModel(ctx, cfg, locations)
	if err != nil {
		return err
	}

	var artifacts []output.Artifact
	if outPath != "" {
		artifacts = append(artifacts, output.Artifact{
			Path: outPath,
			Render: func(out io.Writer) error {
				return workbook.Write(out, m, cfg)
			},
		})
	}
	if reportPath != "" {
		opts := report.Options{RunID: runID, Generated: time.Now()}
		artifacts = append(artifacts, output.Artifact{
			Path: reportPath,
			Render: func(out io.Writer) error {
				return report.Render(out, m, cfg, opts)
			},
		})
	}

	if err := output.WriteAll(log, artifacts...); err != nil {
		return err
	}

	log.Info().
		Int("records", m.Len()).
		Int("overlap", len(m.Overlap())).
		Msg("merge complete")

	for _, s := range m.Sources() {
		fmt.Fprintf(w, "%s: %d records\n", s.ID, s.Count)
	}
	fmt.Fprintf(w, "Combined: %d records, %d overlapping codes\n", m.Len(), len(m.Overlap()))
	for _, art := range artifacts {
		fmt.Fprintf(w, "Wrote %s\n", art.Path)
	}
	return nil
}
