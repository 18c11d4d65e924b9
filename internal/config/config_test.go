package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Schema.HeaderRows = 2
	cfg.Schema.Columns.Unit = -1
	cfg.Labels.AccountCode = "2200"

	path := filepath.Join(t.TempDir(), "layout.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Schema.HeaderRows)
	assert.Equal(t, -1, got.Schema.Columns.Unit)
	assert.Equal(t, 1, got.Schema.Columns.Date)
	assert.Equal(t, "2200", got.Labels.AccountCode)
	assert.Equal(t, cfg.Schema.DateFormats, got.Schema.DateFormats)
	assert.Equal(t, cfg.Palette, got.Palette)
	assert.Equal(t, DefaultColumnLabels, got.Labels.Columns)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 4, cfg.Schema.HeaderRows)
	assert.Equal(t, 0, cfg.Schema.Columns.Code)
	assert.Equal(t, 1, cfg.Schema.Columns.Date)
	assert.Equal(t, 7, cfg.Schema.Columns.Debit)
	assert.Equal(t, 8, cfg.Schema.Columns.Credit)
	assert.Equal(t, 9, cfg.Schema.Columns.Unit)
	assert.Len(t, cfg.Labels.Columns, 11)
	assert.Equal(t, "Извор", cfg.Labels.Columns[10])
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema:\n  header_rows: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Schema.HeaderRows)
	assert.Equal(t, 1, cfg.Schema.Columns.Date)
	assert.NotEmpty(t, cfg.Palette)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labels:\n  columns: [a, b]\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "labels.columns")
}

func TestColourForWraps(t *testing.T) {
	cfg := Default()
	n := len(cfg.Palette)
	assert.Equal(t, cfg.Palette[0], cfg.ColourFor(0))
	assert.Equal(t, cfg.Palette[1], cfg.ColourFor(1))
	assert.Equal(t, cfg.Palette[0], cfg.ColourFor(n))
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "header_rows: 4")
	assert.Contains(t, contents, "closing_ref: 5")
	assert.Contains(t, contents, "fill: E6F3FF")
}
