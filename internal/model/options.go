package model

// Options is a plugin-emitted override of launcher settings, delivered as a
// {"type":"options", ...} record alongside its entries. Nil fields leave the
// configured value untouched.
type Options struct {
	Placeholder     *string `json:"placeholder,omitempty"`
	SearchRestrict  *string `json:"search_restrict,omitempty"`
	SearchMinLength *int    `json:"search_min_length,omitempty"`
	SearchMaxLength *int    `json:"search_max_length,omitempty"`
	PageSize        *int    `json:"page_size,omitempty"`
	JumpDist        *int    `json:"jump_dist,omitempty"`

	KeyExec      []string `json:"key_exec,omitempty"`
	KeyExit      []string `json:"key_exit,omitempty"`
	KeyMoveNext  []string `json:"key_move_next,omitempty"`
	KeyMovePrev  []string `json:"key_move_prev,omitempty"`
	KeyJumpNext  []string `json:"key_jump_next,omitempty"`
	KeyJumpPrev  []string `json:"key_jump_prev,omitempty"`
	KeyOpenMenu  []string `json:"key_open_menu,omitempty"`
	KeyCloseMenu []string `json:"key_close_menu,omitempty"`
}

// Keys maps actions to overriding chord lists.
func (o Options) Keys() map[KeyAction][]string {
	out := make(map[KeyAction][]string)
	add := func(action KeyAction, chords []string) {
		if len(chords) > 0 {
			out[action] = chords
		}
	}
	add(ActionExec, o.KeyExec)
	add(ActionExit, o.KeyExit)
	add(ActionMoveNext, o.KeyMoveNext)
	add(ActionMovePrev, o.KeyMovePrev)
	add(ActionJumpNext, o.KeyJumpNext)
	add(ActionJumpPrev, o.KeyJumpPrev)
	add(ActionOpenMenu, o.KeyOpenMenu)
	add(ActionCloseMenu, o.KeyCloseMenu)
	return out
}

// Merge overlays non-nil fields of other onto o.
func (o Options) Merge(other Options) Options {
	if other.Placeholder != nil {
		o.Placeholder = other.Placeholder
	}
	if other.SearchRestrict != nil {
		o.SearchRestrict = other.SearchRestrict
	}
	if other.SearchMinLength != nil {
		o.SearchMinLength = other.SearchMinLength
	}
	if other.SearchMaxLength != nil {
		o.SearchMaxLength = other.SearchMaxLength
	}
	if other.PageSize != nil {
		o.PageSize = other.PageSize
	}
	if other.JumpDist != nil {
		o.JumpDist = other.JumpDist
	}
	if len(other.KeyExec) > 0 {
		o.KeyExec = other.KeyExec
	}
	if len(other.KeyExit) > 0 {
		o.KeyExit = other.KeyExit
	}
	if len(other.KeyMoveNext) > 0 {
		o.KeyMoveNext = other.KeyMoveNext
	}
	if len(other.KeyMovePrev) > 0 {
		o.KeyMovePrev = other.KeyMovePrev
	}
	if len(other.KeyJumpNext) > 0 {
		o.KeyJumpNext = other.KeyJumpNext
	}
	if len(other.KeyJumpPrev) > 0 {
		o.KeyJumpPrev = other.KeyJumpPrev
	}
	if len(other.KeyOpenMenu) > 0 {
		o.KeyOpenMenu = other.KeyOpenMenu
	}
	if len(other.KeyCloseMenu) > 0 {
		o.KeyCloseMenu = other.KeyCloseMenu
	}
	return o
}

// IsZero reports whether no override is set.
func (o Options) IsZero() bool {
	return o.Placeholder == nil && o.SearchRestrict == nil && o.SearchMinLength == nil &&
		o.SearchMaxLength == nil && o.PageSize == nil && o.JumpDist == nil && len(o.Keys()) == 0
}
