package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheMode is the kind of cache policy attached to a plugin.
type CacheMode int

const (
	// CacheDisabled re-invokes the plugin on every collection.
	CacheDisabled CacheMode = iota
	// CacheDuration reuses results for a fixed number of seconds.
	CacheDuration
	// CacheOnLogin reuses results until the login session changes.
	CacheOnLogin
	// CacheNever keeps results until the cache is explicitly cleared.
	CacheNever
)

// MaxCacheSeconds is the longest duration policy whose TTL fits a time.Duration.
const MaxCacheSeconds = math.MaxInt64 / int64(time.Second)

// CacheSetting is a plugin's cache policy.
type CacheSetting struct {
	Mode    CacheMode
	Seconds int
}

// CacheAfter returns a duration-based policy.
func CacheAfter(seconds int) CacheSetting {
	return CacheSetting{Mode: CacheDuration, Seconds: seconds}
}

// TTL returns the validity window for CacheDuration policies.
func (c CacheSetting) TTL() time.Duration {
	return time.Duration(c.Seconds) * time.Second
}

// Persisted reports whether results under this policy are written to the store.
func (c CacheSetting) Persisted() bool {
	return c.Mode != CacheDisabled
}

func (c CacheSetting) String() string {
	switch c.Mode {
	case CacheDuration:
		return fmt.Sprintf("%ds", c.Seconds)
	case CacheOnLogin:
		return "onlogin"
	case CacheNever:
		return "never"
	default:
		return "disabled"
	}
}

// ParseCacheSetting accepts the textual forms used in configuration files.
func ParseCacheSetting(s string) (CacheSetting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "never":
		return CacheSetting{Mode: CacheNever}, nil
	case "", "false", "disable", "disabled":
		return CacheSetting{Mode: CacheDisabled}, nil
	case "true", "login", "onlogin":
		return CacheSetting{Mode: CacheOnLogin}, nil
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return CacheSetting{}, fmt.Errorf("invalid cache setting %q", s)
	}
	if secs <= 0 {
		return CacheSetting{}, fmt.Errorf("cache duration must be positive, got %d", secs)
	}
	if secs > MaxCacheSeconds {
		return CacheSetting{}, fmt.Errorf("cache duration %d exceeds %d seconds; use \"never\" instead", secs, MaxCacheSeconds)
	}
	return CacheAfter(int(secs)), nil
}

// UnmarshalYAML accepts booleans, integer seconds and the string forms.
func (c *CacheSetting) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cache setting must be a scalar", value.Line)
	}
	parsed, err := ParseCacheSetting(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *CacheSetting) UnmarshalTOML(data any) error {
	var parsed CacheSetting
	var err error
	switch v := data.(type) {
	case bool:
		parsed, err = ParseCacheSetting(strconv.FormatBool(v))
	case int64:
		parsed, err = ParseCacheSetting(strconv.FormatInt(v, 10))
	case string:
		parsed, err = ParseCacheSetting(v)
	default:
		return fmt.Errorf("cache setting has unsupported type %T", data)
	}
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
