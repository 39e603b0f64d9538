package config

import (
	"time"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
)

const (
	DefaultPageSize      = 50
	DefaultJumpDist      = 5
	DefaultPluginTimeout = 10
)

// Config represents the full rmenu configuration document.
type Config struct {
	UseIcons      bool   `yaml:"use_icons" toml:"use_icons"`
	UseComments   bool   `yaml:"use_comments" toml:"use_comments"`
	IgnoreCase    bool   `yaml:"ignore_case" toml:"ignore_case"`
	SearchRegex   bool   `yaml:"search_regex" toml:"search_regex"`
	PageSize      int    `yaml:"page_size" toml:"page_size" validate:"min=1,max=10000"`
	JumpDist      int    `yaml:"jump_dist" toml:"jump_dist" validate:"min=1,max=10000"`
	PluginTimeout int    `yaml:"plugin_timeout" toml:"plugin_timeout" validate:"min=0,max=3600"`
	MaxParallel   int    `yaml:"max_parallel" toml:"max_parallel" validate:"min=0,max=64"`
	Terminal      string `yaml:"terminal" toml:"terminal"`

	Search   SearchConfig            `yaml:"search" toml:"search"`
	Window   map[string]any          `yaml:"window" toml:"window"`
	Cache    CacheConfig             `yaml:"cache" toml:"cache"`
	Plugins  map[string]PluginConfig `yaml:"plugins" toml:"plugins" validate:"dive,keys,plugin_name,endkeys"`
	Keybinds KeyConfig               `yaml:"keybinds" toml:"keybinds"`

	// PluginOrder overrides the declaration order taken from the file.
	PluginOrder []string `yaml:"plugin_order" toml:"plugin_order"`

	// order is the key order of the plugins table as written in the file.
	order []string
}

// SearchConfig holds query constraints and matching modes.
type SearchConfig struct {
	Restrict      string `yaml:"restrict" toml:"restrict"`
	MinLength     int    `yaml:"min_length" toml:"min_length" validate:"min=0"`
	MaxLength     int    `yaml:"max_length" toml:"max_length" validate:"min=0"`
	Placeholder   string `yaml:"placeholder" toml:"placeholder"`
	Fuzzy         bool   `yaml:"fuzzy" toml:"fuzzy"`
	MatchComments bool   `yaml:"match_comments" toml:"match_comments"`
}

// CacheConfig selects where plugin results are persisted.
type CacheConfig struct {
	Backend string `yaml:"backend" toml:"backend" validate:"omitempty,oneof=file sqlite"`
	Dir     string `yaml:"dir" toml:"dir"`
}

// PluginConfig describes a single data-source plugin.
type PluginConfig struct {
	Exec        []string               `yaml:"exec" toml:"exec" validate:"required,min=1,dive,required"`
	Cache       CacheSetting           `yaml:"cache" toml:"cache"`
	Placeholder string                 `yaml:"placeholder" toml:"placeholder"`
	Options     map[string]OptionValue `yaml:"options" toml:"options"`
}

// Plugin is a named PluginConfig in declaration order.
type Plugin struct {
	Name string
	PluginConfig
}

// Timeout returns the plugin deadline, falling back to the global one.
func (p Plugin) Timeout(global time.Duration) time.Duration {
	if v, ok := p.Options["timeout"]; ok {
		if secs, ok := v.AsInt(); ok && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return global
}

// WorkDir returns the optional working directory for the plugin process.
func (p Plugin) WorkDir() string {
	if v, ok := p.Options["workdir"]; ok {
		if dir, ok := v.AsString(); ok {
			return dir
		}
	}
	return ""
}

// Overrides converts the reserved option keys into launcher overrides.
func (p Plugin) Overrides() model.Options {
	var out model.Options
	if p.Placeholder != "" {
		placeholder := p.Placeholder
		out.Placeholder = &placeholder
	}
	for key, value := range p.Options {
		switch key {
		case "placeholder":
			if s, ok := value.AsString(); ok {
				out.Placeholder = &s
			}
		case "search_restrict":
			if s, ok := value.AsString(); ok {
				out.SearchRestrict = &s
			}
		case "search_min_length":
			if n, ok := value.AsInt(); ok {
				out.SearchMinLength = &n
			}
		case "search_max_length":
			if n, ok := value.AsInt(); ok {
				out.SearchMaxLength = &n
			}
		case "page_size":
			if n, ok := value.AsInt(); ok {
				out.PageSize = &n
			}
		case "jump_dist":
			if n, ok := value.AsInt(); ok {
				out.JumpDist = &n
			}
		case "key_exec":
			out.KeyExec = value.List()
		case "key_exit":
			out.KeyExit = value.List()
		case "key_move_next":
			out.KeyMoveNext = value.List()
		case "key_move_prev":
			out.KeyMovePrev = value.List()
		case "key_jump_next":
			out.KeyJumpNext = value.List()
		case "key_jump_prev":
			out.KeyJumpPrev = value.List()
		case "key_open_menu":
			out.KeyOpenMenu = value.List()
		case "key_close_menu":
			out.KeyCloseMenu = value.List()
		}
	}
	return out
}

// KeyConfig maps each launcher action to its chords.
type KeyConfig struct {
	Exec      []string `yaml:"exec" toml:"exec" validate:"dive,chord"`
	Exit      []string `yaml:"exit" toml:"exit" validate:"dive,chord"`
	MoveNext  []string `yaml:"move_next" toml:"move_next" validate:"dive,chord"`
	MovePrev  []string `yaml:"move_prev" toml:"move_prev" validate:"dive,chord"`
	JumpNext  []string `yaml:"jump_next" toml:"jump_next" validate:"dive,chord"`
	JumpPrev  []string `yaml:"jump_prev" toml:"jump_prev" validate:"dive,chord"`
	OpenMenu  []string `yaml:"open_menu" toml:"open_menu" validate:"dive,chord"`
	CloseMenu []string `yaml:"close_menu" toml:"close_menu" validate:"dive,chord"`
}

// ByAction returns the chord lists keyed by action.
func (k KeyConfig) ByAction() map[model.KeyAction][]string {
	return map[model.KeyAction][]string{
		model.ActionExec:      k.Exec,
		model.ActionExit:      k.Exit,
		model.ActionMoveNext:  k.MoveNext,
		model.ActionMovePrev:  k.MovePrev,
		model.ActionJumpNext:  k.JumpNext,
		model.ActionJumpPrev:  k.JumpPrev,
		model.ActionOpenMenu:  k.OpenMenu,
		model.ActionCloseMenu: k.CloseMenu,
	}
}

// Default returns the configuration used for anything the file leaves unset.
func Default() Config {
	return Config{
		UseIcons:      true,
		UseComments:   true,
		IgnoreCase:    true,
		SearchRegex:   false,
		PageSize:      DefaultPageSize,
		JumpDist:      DefaultJumpDist,
		PluginTimeout: DefaultPluginTimeout,
		Cache:         CacheConfig{Backend: "file"},
		Keybinds: KeyConfig{
			Exec:     []string{"Enter"},
			Exit:     []string{"Escape"},
			MoveNext: []string{"Arrow-Down"},
			MovePrev: []string{"Arrow-Up"},
			JumpNext: []string{"Page-Down"},
			JumpPrev: []string{"Page-Up"},
		},
	}
}

// Timeout returns the global plugin deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.PluginTimeout) * time.Second
}

// OrderedPlugins returns plugins in declaration order: PluginOrder when set,
// otherwise the order they appear in the file. Plugins absent from both are
// appended alphabetically.
func (c *Config) OrderedPlugins() []Plugin {
	names := c.PluginOrder
	if len(names) == 0 {
		names = c.order
	}

	seen := make(map[string]bool, len(c.Plugins))
	out := make([]Plugin, 0, len(c.Plugins))
	for _, name := range names {
		cfg, ok := c.Plugins[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Plugin{Name: name, PluginConfig: cfg})
	}

	for _, name := range sortedKeys(c.Plugins) {
		if !seen[name] {
			out = append(out, Plugin{Name: name, PluginConfig: c.Plugins[name]})
		}
	}
	return out
}

// Select returns the named plugins in the order requested.
func (c *Config) Select(names []string) ([]Plugin, error) {
	if len(names) == 0 {
		return c.OrderedPlugins(), nil
	}
	out := make([]Plugin, 0, len(names))
	for _, name := range names {
		cfg, ok := c.Plugins[name]
		if !ok {
			return nil, unknownPluginError(name)
		}
		out = append(out, Plugin{Name: name, PluginConfig: cfg})
	}
	return out, nil
}
