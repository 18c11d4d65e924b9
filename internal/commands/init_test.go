package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balans-dev/ledgermerge/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "ledgermerge-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "ledgermerge")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/ledgermerge")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// runLedgermerge runs the binary in dir with a clean LEDGERMERGE_* environment.
func runLedgermerge(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	for _, kv := range os.Environ() {
		if len(kv) >= len("LEDGERMERGE_") && kv[:len("LEDGERMERGE_")] == "LEDGERMERGE_" {
			continue
		}
		cmd.Env = append(cmd.Env, kv)
	}
	cmd.Env = append(cmd.Env, env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func testdata(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return p
}

func TestVersion(t *testing.T) {
	out, err := runLedgermerge(t, t.TempDir(), nil, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "ledgermerge version dev")
}

func TestInitConfig_Default(t *testing.T) {
	dir := t.TempDir()
	out, err := runLedgermerge(t, dir, nil, "init-config")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote default config")

	cfg, err := config.Load(filepath.Join(dir, "ledgermerge.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInitConfig_Path(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "layout.yaml")
	_, err := runLedgermerge(t, dir, nil, "init-config", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "header_rows: 4")
	assert.Contains(t, string(data), "closing_ref: 5")
}

func TestInitConfig_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	out, err := runLedgermerge(t, dir, nil, "init-config", path)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	_, err = runLedgermerge(t, dir, nil, "init-config", path, "--force")
	require.NoError(t, err)
	_, err = config.Load(path)
	assert.NoError(t, err)
}
