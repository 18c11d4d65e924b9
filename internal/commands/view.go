package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/logger"
	"github.com/balans-dev/ledgermerge/internal/model"
	"github.com/balans-dev/ledgermerge/internal/output"
	"github.com/balans-dev/ledgermerge/internal/view"
)

type viewFlags struct {
	search  string
	source  string
	from    string
	to      string
	month   string
	overlap string
	sort    string
	desc    bool
	rows    bool
	csvPath string
}

func newViewCommand(a *app) *cobra.Command {
	var f viewFlags

	cmd := &cobra.Command{
		Use:   "view <source>...",
		Short: "Filter, sort and summarize the merged ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := f.state()
			if err != nil {
				return err
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cmd.OutOrStdout(), cfg, args, state, f.rows, f.csvPath)
		},
	}

	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive text in code or description")
	cmd.Flags().StringVar(&f.source, "source", "", "only records from this source ID")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.month, "month", "", "only records with this month code")
	cmd.Flags().StringVar(&f.overlap, "overlap", "all", "overlapping codes: all, only, none")
	cmd.Flags().StringVar(&f.sort, "sort", string(view.ColDate), "sort column")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&f.rows, "rows", false, "print the matching records")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "export the view to this CSV file")

	return cmd
}

func (f viewFlags) state() (view.State, error) {
	s := view.Initial()
	for _, d := range []struct{ name, value string }{{"from", f.from}, {"to", f.to}} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(model.DateFormat, d.value); err != nil {
			return s, fmt.Errorf("invalid --%s date %q: want YYYY-MM-DD", d.name, d.value)
		}
	}

	overlap, err := view.ParseOverlapMode(f.overlap)
	if err != nil {
		return s, err
	}
	col, err := view.ParseColumn(f.sort)
	if err != nil {
		return s, err
	}

	s.Filter = view.Filter{
		Search:  f.search,
		Source:  f.source,
		From:    f.from,
		To:      f.to,
		Month:   f.month,
		Overlap: overlap,
	}
	if col != s.SortCol {
		s = s.Toggle(col)
	}
	if f.desc {
		s = s.Toggle(col)
	}
	return s, nil
}

func runView(ctx context.Context, w io.Writer, cfg *config.Config, locations []string, state view.State, printRows bool, csvPath string) error {
	log := logger.FromContext(ctx)

	m, err := buildModel(ctx, cfg, locations)
	if err != nil {
		return err
	}
	v := view.Derive(m, state)

	if printRows {
		for _, r := range v.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Code, r.Date, r.Month, r.Description,
				model.FormatAmount(r.Debit), model.FormatAmount(r.Credit), r.SourceID)
		}
		fmt.Fprintln(w)
	}
	printSummary(w, m.Len(), len(m.Overlap()), v.Summary)

	if csvPath != "" {
		err := output.WriteAll(log, output.Artifact{
			Path: csvPath,
			Render: func(out io.Writer) error {
				return view.WriteCSV(out, cfg.Labels.Columns, v.Rows)
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", csvPath)
	}
	return nil
}

func printSummary(w io.Writer, total, overlap int, s view.Summary) {
	fmt.Fprintf(w, "Records: %d of %d\n", s.Count, total)
	fmt.Fprintf(w, "Debit: %s  Credit: %s  Balance: %s (%s)\n",
		s.Debit.StringFixed(2), s.Credit.StringFixed(2), s.Balance().StringFixed(2), s.Status())
	for _, st := range s.Sources {
		fmt.Fprintf(w, "  %s: %d records, debit %s, credit %s, balance %s\n",
			st.ID, st.Count, st.Debit.StringFixed(2), st.Credit.StringFixed(2), st.Balance().StringFixed(2))
	}
	fmt.Fprintf(w, "Invoices: %d, total %s, avg %s, min %s, max %s\n",
		s.Invoices.Count, s.Invoices.Total.StringFixed(2), s.Invoices.Avg.StringFixed(2),
		s.Invoices.Min.StringFixed(2), s.Invoices.Max.StringFixed(2))
	fmt.Fprintf(w, "Payments: %d, total %s, avg %s, min %s, max %s\n",
		s.Payments.Count, s.Payments.Total.StringFixed(2), s.Payments.Avg.StringFixed(2),
		s.Payments.Min.StringFixed(2), s.Payments.Max.StringFixed(2))

	dates := "-"
	if s.First.Valid {
		dates = s.First.String() + " .. " + s.Last.String()
	}
	fmt.Fprintf(w, "Months: %d  Dates: %s\n", s.Months, dates)
	fmt.Fprintf(w, "Overlapping codes: %d\n", overlap)
}
