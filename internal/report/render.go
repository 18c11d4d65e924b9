package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/model"
)

//go:embed assets/report.html.tmpl
var pageSource string

var page = template.Must(template.New("report").Parse(pageSource))

// Options stamps run metadata into the rendered page.
type Options struct {
	RunID     string
	Generated time.Time
}

// Dataset is the JSON literal embedded in the report page.
type Dataset struct {
	Title     string          `json:"title"`
	Account   AccountHeader   `json:"account"`
	Columns   []string        `json:"columns"`
	Sources   []DatasetSource `json:"sources"`
	Overlap   []string        `json:"overlap"`
	Records   []DatasetRecord `json:"records"`
	RunID     string          `json:"runId"`
	Generated string          `json:"generated"`
}

// AccountHeader is the combined account and company caption.
type AccountHeader struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// DatasetSource describes one source and its presentation colours.
type DatasetSource struct {
	ID     string `json:"id"`
	Count  int    `json:"count"`
	Fill   string `json:"fill"`
	Accent string `json:"accent"`
}

// DatasetRecord is one record in the embedded dataset. Amounts are decimal
// strings, or null when the cell was empty.
type DatasetRecord struct {
	Code        string  `json:"code"`
	Date        string  `json:"date"`
	Currency    string  `json:"currency"`
	Month       string  `json:"month"`
	Description string  `json:"description"`
	ClosingRef  string  `json:"closing_ref"`
	Note        string  `json:"note"`
	Debit       *string `json:"debit"`
	Credit      *string `json:"credit"`
	Unit        string  `json:"unit"`
	Source      string  `json:"source"`
}

// NewDataset flattens m into the embedded report dataset.
func NewDataset(m *Model, cfg *config.Config, opts Options) Dataset {
	sources := m.Sources()
	ds := Dataset{
		Title:     cfg.Labels.Title,
		Account:   AccountCaption(sources, cfg),
		Columns:   append([]string(nil), cfg.Labels.Columns...),
		Overlap:   m.Overlap(),
		RunID:     opts.RunID,
		Generated: opts.Generated.Format(time.RFC3339),
		Sources:   make([]DatasetSource, len(sources)),
	}
	if ds.Overlap == nil {
		ds.Overlap = []string{}
	}

	for i, s := range sources {
		c := cfg.ColourFor(s.Index)
		ds.Sources[i] = DatasetSource{ID: s.ID, Count: s.Count, Fill: "#" + c.Fill, Accent: "#" + c.Accent}
	}

	records := m.Records()
	ds.Records = make([]DatasetRecord, len(records))
	for i, r := range records {
		ds.Records[i] = DatasetRecord{
			Code:        r.Code,
			Date:        r.Date.String(),
			Currency:    r.Currency,
			Month:       r.Month,
			Description: r.Description,
			ClosingRef:  r.ClosingRef,
			Note:        r.Note,
			Debit:       amountPtr(r.Debit),
			Credit:      amountPtr(r.Credit),
			Unit:        r.Unit,
			Source:      r.SourceID,
		}
	}
	return ds
}

// AccountCaption resolves the account and combined company caption: config
// overrides first, then the first source's metadata rows.
func AccountCaption(sources []SourceInfo, cfg *config.Config) AccountHeader {
	var h AccountHeader
	if len(sources) > 0 {
		h.Code = sources[0].Header.AccountCode
		h.Name = sources[0].Header.AccountName
		h.Company = sources[0].Header.CompanyName
	}
	if cfg.Labels.AccountCode != "" {
		h.Code = cfg.Labels.AccountCode
	}
	if cfg.Labels.AccountName != "" {
		h.Name = cfg.Labels.AccountName
	}
	if cfg.Labels.CompanyName != "" {
		h.Company = cfg.Labels.CompanyName
	}
	return h
}

func amountPtr(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := model.FormatAmount(d)
	return &s
}

// Render writes the self-contained HTML report for m.
func Render(w io.Writer, m *Model, cfg *config.Config, opts Options) error {
	ds := NewDataset(m, cfg, opts)
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding report dataset: %w", err)
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title string
		Data  template.JS
	}{
		Title: ds.Title,
		Data:  template.JS(data),
	})
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
