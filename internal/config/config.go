package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level layout.yaml configuration.
type Config struct {
	Schema  Schema       `yaml:"schema"`
	Labels  LabelsConfig `yaml:"labels"`
	Palette []Colour     `yaml:"palette"`
}

// Schema describes the fixed layout of a ledger export: how many rows precede
// the data, and which column holds which field.
type Schema struct {
	HeaderRows  int      `yaml:"header_rows"`
	Columns     Columns  `yaml:"columns"`
	DateFormats []string `yaml:"date_formats"` // Go time layouts tried in order
}

// Columns maps record fields to zero-based column indexes in the raw grid.
// A negative index means the field is absent from the export.
type Columns struct {
	Code        int `yaml:"code"`
	Date        int `yaml:"date"`
	Currency    int `yaml:"currency"`
	Month       int `yaml:"month"`
	Description int `yaml:"description"`
	ClosingRef  int `yaml:"closing_ref"`
	Note        int `yaml:"note"`
	Debit       int `yaml:"debit"`
	Credit      int `yaml:"credit"`
	Unit        int `yaml:"unit"`
}

// LabelsConfig controls the text written into the spreadsheet and report.
type LabelsConfig struct {
	Columns     []string `yaml:"columns"` // merged header row, source label last
	AccountCode string   `yaml:"account_code,omitempty"`
	AccountName string   `yaml:"account_name,omitempty"`
	CompanyName string   `yaml:"company_name,omitempty"`
	Title       string   `yaml:"title"`
}

// Colour is one entry of the source palette.
type Colour struct {
	Fill   string `yaml:"fill"`   // spreadsheet row background, RRGGBB
	Accent string `yaml:"accent"` // report card border and badge, RRGGBB
}

// Load reads a layout.yaml file from disk. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the settings that would otherwise fail far from their cause.
func (c *Config) Validate() error {
	if c.Schema.HeaderRows < 0 {
		return fmt.Errorf("schema.header_rows must not be negative, got %d", c.Schema.HeaderRows)
	}
	if c.Schema.Columns.Date < 0 {
		return fmt.Errorf("schema.columns.date is required")
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must have at least one colour")
	}
	if len(c.Labels.Columns) != len(DefaultColumnLabels) {
		return fmt.Errorf("labels.columns must have %d entries, got %d", len(DefaultColumnLabels), len(c.Labels.Columns))
	}
	return nil
}

// ColourFor returns the palette entry for the source at index i. Sources
// beyond the palette length wrap around.
func (c *Config) ColourFor(i int) Colour {
	return c.Palette[i%len(c.Palette)]
}

// DefaultColumnLabels is the merged header row of the combined ledger.
var DefaultColumnLabels = []string{
	"Налог", "Дата", "Вал.", "м.ддв", "Опис", "Затворање", "Забелешка", "Долгува", "Побарува", "Един", "Извор",
}

// Default returns a Config describing the standard four-header-row export.
func Default() *Config {
	return &Config{
		Schema: Schema{
			HeaderRows: 4,
			Columns: Columns{
				Code:        0,
				Date:        1,
				Currency:    2,
				Month:       3,
				Description: 4,
				ClosingRef:  5,
				Note:        6,
				Debit:       7,
				Credit:      8,
				Unit:        9,
			},
			DateFormats: []string{
				"2006-01-02",
				"2006-01-02 15:04:05",
				"2006-01-02T15:04:05",
				"02.01.2006",
				"2.1.2006",
				"02/01/2006",
			},
		},
		Labels: LabelsConfig{
			Columns: append([]string(nil), DefaultColumnLabels...),
			Title:   "Сметководствена книга - Споени податоци",
		},
		Palette: []Colour{
			{Fill: "E6F3FF", Accent: "3498DB"},
			{Fill: "FFF3E6", Accent: "E67E22"},
			{Fill: "E8F8EE", Accent: "27AE60"},
			{Fill: "F4E6FF", Accent: "8E44AD"},
			{Fill: "FFFBE0", Accent: "D4AC0D"},
			{Fill: "E6FFFB", Accent: "16A085"},
		},
	}
}
