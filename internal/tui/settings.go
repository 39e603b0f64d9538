package tui

import (
	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
	"github.com/alexisbeaulieu97/rmenu/internal/search"
)

// settings is the effective launcher configuration once plugin overrides are
// layered over the file's values.
type settings struct {
	placeholder string
	pageSize    int
	keys        *config.KeyTable
	constraints search.Constraints
	// jumpDist is the jump stride per plugin; 0 means the global default.
	jumpDist map[string]int
}

// resolveSettings layers each plugin's configured options and then its
// runtime options record over cfg. Plugins later in declaration order win.
func resolveSettings(cfg *config.Config, plugins []config.Plugin, runtime map[string]model.Options) (settings, error) {
	st := settings{
		placeholder: cfg.Search.Placeholder,
		pageSize:    cfg.PageSize,
		jumpDist:    make(map[string]int, len(plugins)),
	}

	var merged model.Options
	for _, p := range plugins {
		own := p.Overrides().Merge(runtime[p.Name])
		merged = merged.Merge(own)
		st.jumpDist[p.Name] = 0
		if own.JumpDist != nil {
			st.jumpDist[p.Name] = *own.JumpDist
		}
	}

	if merged.Placeholder != nil {
		st.placeholder = *merged.Placeholder
	}
	if merged.PageSize != nil && *merged.PageSize > 0 {
		st.pageSize = *merged.PageSize
	}
	if st.pageSize < 1 {
		st.pageSize = config.DefaultPageSize
	}

	restrict, minLen, maxLen := cfg.Search.Restrict, cfg.Search.MinLength, cfg.Search.MaxLength
	if merged.SearchRestrict != nil {
		restrict = *merged.SearchRestrict
	}
	if merged.SearchMinLength != nil {
		minLen = *merged.SearchMinLength
	}
	if merged.SearchMaxLength != nil {
		maxLen = *merged.SearchMaxLength
	}
	constraints, err := search.NewConstraints(restrict, minLen, maxLen)
	if err != nil {
		return settings{}, err
	}
	st.constraints = constraints

	keys, err := config.NewKeyTable(cfg.Keybinds.ByAction(), merged.Keys())
	if err != nil {
		return settings{}, err
	}
	st.keys = keys
	return st, nil
}
