package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCacheSetting(t *testing.T) {
	tests := []struct {
		in   string
		want CacheSetting
	}{
		{in: "never", want: CacheSetting{Mode: CacheNever}},
		{in: "", want: CacheSetting{Mode: CacheDisabled}},
		{in: "Disabled", want: CacheSetting{Mode: CacheDisabled}},
		{in: "false", want: CacheSetting{Mode: CacheDisabled}},
		{in: "true", want: CacheSetting{Mode: CacheOnLogin}},
		{in: "OnLogin", want: CacheSetting{Mode: CacheOnLogin}},
		{in: " 120 ", want: CacheAfter(120)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCacheSetting(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCacheSetting("-5")
	require.Error(t, err)
	_, err = ParseCacheSetting("weekly")
	require.Error(t, err)
}

func TestParseCacheSettingRejectsOverflowingDuration(t *testing.T) {
	got, err := ParseCacheSetting(strconv.FormatInt(MaxCacheSeconds, 10))
	require.NoError(t, err)
	assert.Positive(t, got.TTL())

	_, err = ParseCacheSetting("9999999999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never")

	_, err = ParseCacheSetting("99999999999999999999")
	require.Error(t, err)

	var v CacheSetting
	require.Error(t, v.UnmarshalTOML(int64(9999999999999)))
}

func TestCacheSettingYAML(t *testing.T) {
	var doc struct {
		A CacheSetting `yaml:"a"`
		B CacheSetting `yaml:"b"`
		C CacheSetting `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 30\nb: true\nc: false\n"), &doc))
	assert.Equal(t, 30*time.Second, doc.A.TTL())
	assert.Equal(t, CacheOnLogin, doc.B.Mode)
	assert.False(t, doc.C.Persisted())

	require.Error(t, yaml.Unmarshal([]byte("a: 9999999999999\n"), &doc))
}

func TestOptionValueYAML(t *testing.T) {
	var opts map[string]OptionValue
	require.NoError(t, yaml.Unmarshal([]byte(`
page_size: 20
ratio: 1.5
fuzzy: true
placeholder: Apps
keys: [ctrl+n, Tab]
`), &opts))

	n, ok := opts["page_size"].AsInt()
	require.True(t, ok)
	assert.Equal(t, 20, n)

	_, ok = opts["ratio"].AsInt()
	assert.False(t, ok)
	assert.Equal(t, "1.5", opts["ratio"].Format())

	b, ok := opts["fuzzy"].AsBool()
	require.True(t, ok)
	assert.True(t, b)

	s, ok := opts["placeholder"].AsString()
	require.True(t, ok)
	assert.Equal(t, "Apps", s)
	assert.Equal(t, []string{"Apps"}, opts["placeholder"].List())

	assert.Equal(t, OptionList, opts["keys"].Kind())
	assert.Equal(t, []string{"ctrl+n", "Tab"}, opts["keys"].List())

	require.Error(t, yaml.Unmarshal([]byte("bad: {a: 1}\n"), &opts))
}

func TestOptionValueTOML(t *testing.T) {
	var v OptionValue
	require.NoError(t, v.UnmarshalTOML(int64(7)))
	n, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, 7, n)

	require.NoError(t, v.UnmarshalTOML([]any{"a", int64(2)}))
	assert.Equal(t, []string{"a", "2"}, v.List())

	require.Error(t, v.UnmarshalTOML(map[string]any{}))
}
