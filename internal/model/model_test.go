package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodUnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Method
	}{
		{name: "bare string is run", raw: `"firefox"`, want: Method{Kind: MethodRun, Command: "firefox"}},
		{name: "run object", raw: `{"run":"firefox --new-window"}`, want: Method{Kind: MethodRun, Command: "firefox --new-window"}},
		{name: "terminal object", raw: `{"terminal":"htop"}`, want: Method{Kind: MethodTerminal, Command: "htop"}},
		{name: "echo is case-insensitive", raw: `{"Echo":"hello"}`, want: Method{Kind: MethodEcho, Command: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Method
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMethodUnmarshalRejectsUnknown(t *testing.T) {
	var m Method
	require.Error(t, json.Unmarshal([]byte(`{"launch":"x"}`), &m))
	require.Error(t, json.Unmarshal([]byte(`{"run":"a","echo":"b"}`), &m))
	require.Error(t, json.Unmarshal([]byte(`42`), &m))
}

func TestMethodMarshalDefaultsToRun(t *testing.T) {
	data, err := json.Marshal(Method{Command: "ls"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"run":"ls"}`, string(data))
}

func TestEntrySubMenuAndDefaultAction(t *testing.T) {
	single := NewEntry("Firefox", "firefox", "Web Browser")
	assert.False(t, single.HasSubMenu())
	action, ok := single.DefaultAction()
	require.True(t, ok)
	assert.Equal(t, "firefox", action.Exec.Command)

	multi := single
	multi.Actions = append(multi.Actions, Action{Name: "private", Exec: Run("firefox --private-window")})
	assert.True(t, multi.HasSubMenu())

	parent := Entry{Name: "Power", Children: []Entry{NewEntry("Reboot", "systemctl reboot", "")}}
	assert.True(t, parent.HasSubMenu())
	_, ok = parent.DefaultAction()
	assert.False(t, ok)
}

func TestEntryLabelFallsBackToCommand(t *testing.T) {
	e := Entry{Actions: []Action{{Name: "main", Exec: Run("xterm")}}}
	assert.Equal(t, "xterm", e.Label())
}

func TestStampPluginRecursesAndCopies(t *testing.T) {
	entries := []Entry{{Name: "Power", Children: []Entry{{Name: "Reboot"}}}}
	stamped := StampPlugin(entries, "system")

	assert.Equal(t, "system", stamped[0].Plugin)
	assert.Equal(t, "system", stamped[0].Children[0].Plugin)
	assert.Empty(t, entries[0].Plugin)
	assert.Empty(t, entries[0].Children[0].Plugin)
}

func TestOptionsMergeAndKeys(t *testing.T) {
	placeholder := "Search apps"
	size := 100
	base := Options{PageSize: &size}
	merged := base.Merge(Options{Placeholder: &placeholder, KeyMoveNext: []string{"Ctrl+n"}})

	require.NotNil(t, merged.Placeholder)
	assert.Equal(t, "Search apps", *merged.Placeholder)
	assert.Equal(t, 100, *merged.PageSize)
	assert.Equal(t, map[KeyAction][]string{ActionMoveNext: {"Ctrl+n"}}, merged.Keys())
	assert.False(t, merged.IsZero())
	assert.True(t, Options{}.IsZero())
}
