package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/picaview/internal/page"
)

const samplePayload = `{
  "titles": ["Bin", "Model"],
  "rows": [["bin1", "alpha"], ["bin2", "beta"], ["bin3", "gamma"]],
  "models": [
    {"name": "alpha", "description": "First model."},
    {"name": "beta", "description": "Second model."},
    {"name": "gamma", "description": "Third model."}
  ]
}`

func resetRootCmdState() {
	resetFlags := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(resetFlags)
	rootCmd.PersistentFlags().VisitAll(resetFlags)
	configCmd.Flags().VisitAll(resetFlags)

	interactive = false
	output = ""
	configFile = ""
	debug = false
	noColor = false
	renderSnapshot = false
	startKeys = nil
	snapshotWidth = 0
	snapshotHeight = 0
	models = nil
	column = 0
	columnTitle = ""
	caseInsensitive = false
	configOutput = "yaml"
}

func writePayload(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetRootCmdState()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origPiped := stdinIsPiped
	stdinIsPiped = func() bool { return false }
	t.Cleanup(func() { stdinIsPiped = origPiped })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := Execute()
	return out.String(), err
}

func TestCLI_TableOutput(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	out, err := runCLI(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Bin")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "gamma")
}

func TestCLI_ModelFilterJSON(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	out, err := runCLI(t, path, "-o", "json", "--model", "alpha", "--model", "gamma")
	require.NoError(t, err)

	var snap page.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Rows, 2)
	assert.Equal(t, "^alpha$|^gamma$", snap.Expression)
	assert.Equal(t, []string{"alpha", "gamma"}, snap.Selected)
}

func TestCLI_CaseSensitiveByDefault(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	out, err := runCLI(t, path, "-o", "json", "-m", "Alpha")
	require.NoError(t, err)
	var snap page.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Empty(t, snap.Rows)

	out, err = runCLI(t, path, "-o", "json", "-m", "Alpha", "--case-insensitive")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Rows, 1)
}

func TestCLI_ConfigFileOverrides(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	cfgPath := writePayload(t, "config.yaml", "filter:\n  case_insensitive: true\noutput:\n  default: yaml\n")
	out, err := runCLI(t, path, "--config-file", cfgPath, "-m", "GAMMA")
	require.NoError(t, err)
	assert.Contains(t, out, "^GAMMA$")
	assert.Contains(t, out, "- bin3")
}

func TestCLI_ColumnTitle(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	out, err := runCLI(t, path, "-o", "json", "--column-title", "Bin", "-m", "bin2")
	require.NoError(t, err)
	var snap page.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 0, snap.Column)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "beta", snap.Rows[0][1])
}

func TestCLI_HTMLOutput(t *testing.T) {
	path := writePayload(t, "results.yaml", "rows:\n  - [bin1, alpha]\ntitles: [Bin, Model]\n")
	out, err := runCLI(t, path, "-o", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<label>filter Model</label>")
	assert.Contains(t, out, "<strong>alpha</strong>")
}

func TestCLI_Snapshot(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	out, err := runCLI(t, path, "--snapshot", "--no-color", "--width", "80", "--height", "24",
		"--press", "<Tab>", "--press", "gam<CR>", "--press", "<Esc>")
	require.NoError(t, err)
	assert.Contains(t, out, "filter Model:")
	assert.Contains(t, out, "showing 1 of 3 rows")
}

func TestCLI_SnapshotInfoDialog(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)
	out, err := runCLI(t, path, "--snapshot", "--no-color", "--width", "80", "--height", "24", "--press", "?")
	require.NoError(t, err)
	assert.Contains(t, out, "PICA models")
	assert.Contains(t, out, "Second model.")
}

func TestCLI_Stdin(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	_, err = f.WriteString(samplePayload)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	origStdin := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = origStdin
		_ = f.Close()
	})

	out, err := runCLI(t, "-", "-o", "json")
	require.NoError(t, err)
	var snap page.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Rows, 3)
}

func TestCLI_NoInputShowsHelp(t *testing.T) {
	out, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestCLI_Errors(t *testing.T) {
	path := writePayload(t, "results.json", samplePayload)

	_, err := runCLI(t, path, "-o", "pdf")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))

	_, err = runCLI(t, path, "--column", "-1")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))

	_, err = runCLI(t, path, "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))

	_, err = runCLI(t, path, "--column", "9")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))

	bad := writePayload(t, "bad.json", `{"rows": [["a", "b"]], "titles": ["only"]}`)
	_, err = runCLI(t, bad, "--column", "0")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))

	_, err = runCLI(t, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "picaview "))
}

func TestCLI_Config(t *testing.T) {
	out, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "column_title")
	assert.Contains(t, out, "title: PICA models")

	out, err = runCLI(t, "config", "-o", "json")
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &obj))
	assert.Contains(t, obj, "filter")

	out, err = runCLI(t, "config", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "# index of the column")

	_, err = runCLI(t, "config", "-o", "xml")
	assert.Equal(t, 2, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(usageErrorf("bad flag %q", "x")))
}
