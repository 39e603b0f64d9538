package errors

import (
	stdErrors "errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("config.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "config.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "config.yaml:12")
	require.True(t, IsConfigError(err))
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("plugins.run.exec", "exec must not be empty", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "plugins.run.exec", validationErr.Field)
	require.Contains(t, err.Error(), "exec must not be empty")
	require.True(t, IsConfigError(fmt.Errorf("load: %w", err)))
}

func TestPluginErrorMatchesKindSentinel(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("exec: \"nope\": executable file not found")
	err := fmt.Errorf("collect: %w", NewPluginError("run", KindSpawnFailed, underlying))

	require.ErrorIs(t, err, ErrSpawnFailed)
	require.NotErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, underlying)

	var pluginErr *PluginError
	require.ErrorAs(t, err, &pluginErr)
	require.Equal(t, "run", pluginErr.Plugin)
	require.Contains(t, err.Error(), "spawn_failed")
}

func TestPluginErrorNonZeroExitReportsCode(t *testing.T) {
	t.Parallel()

	err := &PluginError{Plugin: "drun", Kind: KindNonZeroExit, ExitCode: 3}
	require.Contains(t, err.Error(), "exit code 3")
	require.ErrorIs(t, err, ErrNonZeroExit)
}

func TestCacheErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("unexpected end of JSON input")
	err := NewCacheError("run", "read", underlying)

	var cacheErr *CacheError
	require.ErrorAs(t, err, &cacheErr)
	require.Equal(t, "read", cacheErr.Op)
	require.ErrorIs(t, err, underlying)
	require.False(t, IsConfigError(err))
}

func TestSearchErrorIsInvalidPattern(t *testing.T) {
	t.Parallel()

	_, compileErr := regexp.Compile("a(")
	require.Error(t, compileErr)

	err := NewSearchError("a(", compileErr)
	require.ErrorIs(t, err, ErrInvalidPattern)
	require.Contains(t, err.Error(), `"a("`)
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var pluginErr *PluginError
	var cacheErr *CacheError
	require.Equal(t, "", parseErr.Error())
	require.Nil(t, pluginErr.Unwrap())
	require.Equal(t, "", cacheErr.Error())
}
