package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

// setupHome writes a config with two sh plugins and points the runtime and
// cache directories into a temp dir.
func setupHome(t *testing.T, extra string) (configPath, counter string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache-home"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "run"), 0o700))

	counter = filepath.Join(dir, "calls")
	configPath = filepath.Join(dir, "config.yaml")
	contents := `cache:
  dir: ` + filepath.Join(dir, "cache") + `
plugins:
  apps:
    exec: ["sh", "-c", "echo x >> ` + counter + `; printf '%s\n' '{\"name\":\"Firefox\",\"actions\":[{\"name\":\"main\",\"exec\":\"firefox\"}]}' '{\"name\":\"Files\",\"actions\":[{\"name\":\"main\",\"exec\":\"nautilus\"}]}'"]
    cache: 300
  run:
    exec: ["sh", "-c", "printf '%s\n' '{\"name\":\"htop\",\"actions\":[{\"name\":\"main\",\"exec\":{\"terminal\":\"htop\"}}]}'"]
` + extra
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))
	return configPath, counter
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func countCalls(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(data), "x")
}

func TestListPrintsEntriesInDeclarationOrder(t *testing.T) {
	cfg, _ := setupHome(t, "")

	out, err := execute(t, "list", "--config", cfg)
	require.NoError(t, err)

	records := decodeLines(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, "entry", records[0]["type"])
	assert.Equal(t, "Firefox", records[0]["name"])
	assert.Equal(t, "apps", records[0]["plugin"])
	assert.Equal(t, "htop", records[2]["name"])
}

func TestListQueryAndLabels(t *testing.T) {
	cfg, _ := setupHome(t, "")

	out, err := execute(t, "list", "-c", cfg, "--query", "fi", "--labels")
	require.NoError(t, err)
	assert.Equal(t, "Firefox\nFiles\n", out)
}

func TestListRunFlagSelectsPlugins(t *testing.T) {
	cfg, _ := setupHome(t, "")

	out, err := execute(t, "list", "-c", cfg, "-r", "run", "--labels")
	require.NoError(t, err)
	assert.Equal(t, "htop\n", out)

	_, err = execute(t, "list", "-c", cfg, "-r", "nope")
	require.Error(t, err)
	assert.True(t, rmenuerrors.IsConfigError(err))
}

func TestListReusesCacheUntilRefreshOrClear(t *testing.T) {
	cfg, counter := setupHome(t, "")

	_, err := execute(t, "list", "-c", cfg)
	require.NoError(t, err)
	_, err = execute(t, "list", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, countCalls(t, counter))

	_, err = execute(t, "list", "-c", cfg, "--refresh")
	require.NoError(t, err)
	assert.Equal(t, 2, countCalls(t, counter))

	out, err := execute(t, "cache", "list", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "apps")
	assert.Contains(t, out, "valid")

	out, err = execute(t, "cache", "clear", "apps", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared apps.")

	_, err = execute(t, "list", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, countCalls(t, counter))

	out, err = execute(t, "cache", "clear", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared all")

	out, err = execute(t, "cache", "list", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No cached plugin results.")
}

func TestRootFallsBackToListWithoutTerminal(t *testing.T) {
	cfg, _ := setupHome(t, "")
	original := hasTerminal
	hasTerminal = func() bool { return false }
	t.Cleanup(func() { hasTerminal = original })

	out, err := execute(t, "-c", cfg)
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, out), 3)
}

func TestPluginsCommand(t *testing.T) {
	cfg, _ := setupHome(t, "plugin_order: [run, apps]\n")

	out, err := execute(t, "plugins", "-c", cfg)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "run"))
	assert.Contains(t, lines[2], "300s")
	assert.Contains(t, lines[2], `sh -c "echo x >>`)
	assert.Contains(t, lines[2], `'%s\n'`)
}

func TestQuoteArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"rofi-apps", "--all"}, "rofi-apps --all"},
		{[]string{"sh", "-c", "echo hi"}, `sh -c "echo hi"`},
		{[]string{"printf", "a\nb"}, `printf "a\nb"`},
		{[]string{"cmd", ""}, `cmd ""`},
		{[]string{"echo", `it's`}, `echo "it's"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteArgs(tt.args))
	}
}

func TestInvalidConfigIsAConfigError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins:\n  run: {cache: 30}\n"), 0o644))

	_, err := execute(t, "list", "-c", path)
	require.Error(t, err)
	assert.True(t, rmenuerrors.IsConfigError(err))

	_, err = execute(t, "list", "-c", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})

	version = "1.2.3"
	commit = "abcdef1"
	date = "2026-10-03"

	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "1.2.3")
	require.Contains(t, out, "abcdef1")
	require.Contains(t, out, "2026-10-03")
}
