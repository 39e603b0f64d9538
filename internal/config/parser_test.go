package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	validYAML := `page_size: 20
terminal: "foot -e"
plugins:
  run:
    exec: ["rmenu-run"]
    cache: 300
    options:
      jump_dist: 10
  drun:
    exec: ["rmenu-desktop", "--icons"]
    cache: onlogin
  ssh:
    exec: ["rmenu-ssh"]
    cache: never
keybinds:
  move_next: ["Arrow-Down", "Tab"]
`

	invalidYAML := `page_size: [1, 0]
plugins: {}
`

	missingExec := `plugins:
  run:
    cache: 60
`

	badCache := `plugins:
  run:
    exec: ["rmenu-run"]
    cache: sometimes
`

	duplicatePlugin := `plugins:
  run:
    exec: ["a"]
  run:
    exec: ["b"]
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:     "valid configuration is parsed",
			contents: validYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				require.Equal(t, 20, cfg.PageSize)
				require.Equal(t, DefaultJumpDist, cfg.JumpDist)
				require.True(t, cfg.IgnoreCase)
				require.Equal(t, []string{"Arrow-Down", "Tab"}, cfg.Keybinds.MoveNext)
				require.Equal(t, []string{"Enter"}, cfg.Keybinds.Exec)

				plugins := cfg.OrderedPlugins()
				require.Len(t, plugins, 3)
				require.Equal(t, "run", plugins[0].Name)
				require.Equal(t, "drun", plugins[1].Name)
				require.Equal(t, "ssh", plugins[2].Name)
				require.Equal(t, CacheAfter(300), plugins[0].Cache)
				require.Equal(t, CacheOnLogin, plugins[1].Cache.Mode)
				require.Equal(t, CacheNever, plugins[2].Cache.Mode)
				require.Equal(t, 10, *plugins[0].Overrides().JumpDist)
			},
		},
		{
			name:     "invalid yaml returns parse error",
			contents: invalidYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var parseErr *rmenuerrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Contains(t, parseErr.Message, "cannot unmarshal")
				require.Equal(t, 1, parseErr.Line)
			},
		},
		{
			name:     "missing exec returns validation error",
			contents: missingExec,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var validationErr *rmenuerrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "plugins[run].exec", validationErr.Field)
			},
		},
		{
			name:     "unknown cache policy is a parse error",
			contents: badCache,
			assert: func(t *testing.T, cfg *Config, err error) {
				var parseErr *rmenuerrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Equal(t, 4, parseErr.Line)
			},
		},
		{
			name:     "duplicate plugin names are rejected",
			contents: duplicatePlugin,
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *rmenuerrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "plugins.run", validationErr.Field)
				require.True(t, rmenuerrors.IsConfigError(err))
			},
		},
		{
			name:     "empty file yields defaults",
			contents: "",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, DefaultPageSize, cfg.PageSize)
				require.Empty(t, cfg.OrderedPlugins())
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := ParseConfig(writeConfig(t, "config.yaml", tc.contents))
			tc.assert(t, cfg, err)
		})
	}
}

func TestParseConfigTOML(t *testing.T) {
	t.Parallel()

	contents := `ignore_case = false
plugin_timeout = 3

[plugins.zeta]
exec = ["rmenu-zeta"]
cache = true

[plugins.alpha]
exec = ["rmenu-alpha"]
cache = 60
options = { timeout = 1, placeholder = "Alpha" }
`

	cfg, err := ParseConfig(writeConfig(t, "config.toml", contents))
	require.NoError(t, err)
	require.False(t, cfg.IgnoreCase)
	require.Equal(t, 3*time.Second, cfg.Timeout())

	plugins := cfg.OrderedPlugins()
	require.Len(t, plugins, 2)
	require.Equal(t, "zeta", plugins[0].Name)
	require.Equal(t, CacheOnLogin, plugins[0].Cache.Mode)
	require.Equal(t, "alpha", plugins[1].Name)
	require.Equal(t, time.Second, plugins[1].Timeout(cfg.Timeout()))
	require.Equal(t, "Alpha", *plugins[1].Overrides().Placeholder)
}

func TestParseConfigTOMLSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(writeConfig(t, "config.toml", "page_size = 1\n[plugins\n"))
	var parseErr *rmenuerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Positive(t, parseErr.Line)
}

func TestPluginOrderOverridesFileOrder(t *testing.T) {
	t.Parallel()

	contents := `plugin_order: [c, a]
plugins:
  a: {exec: ["a"]}
  b: {exec: ["b"]}
  c: {exec: ["c"]}
`
	cfg, err := ParseConfig(writeConfig(t, "config.yaml", contents))
	require.NoError(t, err)

	var names []string
	for _, p := range cfg.OrderedPlugins() {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"c", "a", "b"}, names)
}

func TestSelectPlugins(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Plugins = map[string]PluginConfig{
		"run":  {Exec: []string{"run"}},
		"drun": {Exec: []string{"drun"}},
	}

	selected, err := cfg.Select([]string{"drun"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	require.Equal(t, "drun", selected[0].Name)

	_, err = cfg.Select([]string{"nope"})
	var validationErr *rmenuerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	require.Equal(t, DefaultPageSize, cfg.PageSize)

	_, err = LoadOrDefault(missing, true)
	var parseErr *rmenuerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "cache"), ExpandHome("~/cache"))
	require.Equal(t, "/var/cache", ExpandHome("/var/cache"))

	cfg := Default()
	cfg.Cache.Dir = "/tmp/rmenu-cache"
	require.Equal(t, "/tmp/rmenu-cache", cfg.CacheDir())
}
