package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

func shellPlugin(name, script string) config.Plugin {
	return config.Plugin{
		Name:         name,
		PluginConfig: config.PluginConfig{Exec: []string{"sh", "-c", script}},
	}
}

func TestRunnerDecodesEntriesAndOptions(t *testing.T) {
	t.Parallel()

	script := `echo '{"type":"entry","name":"Firefox","comment":"Web Browser","actions":[{"name":"main","exec":{"run":"firefox"}}]}'
echo ''
echo '{"name":"htop","actions":[{"name":"main","exec":{"terminal":"htop"}}]}'
echo '{"type":"options","placeholder":"Apps","key_move_next":["Tab"]}'
echo "$RMENU_PLUGIN" >&2`

	res, err := NewRunner(time.Second*5, logger.Nop()).Run(context.Background(), shellPlugin("apps", script))
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "Firefox", res.Entries[0].Name)
	assert.Equal(t, model.MethodTerminal, res.Entries[1].Actions[0].Exec.Kind)
	require.NotNil(t, res.Options.Placeholder)
	assert.Equal(t, "Apps", *res.Options.Placeholder)
	assert.Equal(t, []string{"Tab"}, res.Options.KeyMoveNext)
	assert.Equal(t, "apps", strings.TrimSpace(res.Stderr))
}

func TestRunnerSpawnFailure(t *testing.T) {
	t.Parallel()

	p := config.Plugin{Name: "missing", PluginConfig: config.PluginConfig{Exec: []string{"/nonexistent/rmenu-plugin"}}}
	_, err := NewRunner(time.Second, nil).Run(context.Background(), p)
	require.ErrorIs(t, err, rmenuerrors.ErrSpawnFailed)
}

func TestRunnerMalformedOutputDiscardsEntries(t *testing.T) {
	t.Parallel()

	script := `echo '{"name":"ok"}'; echo 'not json'; echo '{"name":"late"}'`
	res, err := NewRunner(time.Second*5, nil).Run(context.Background(), shellPlugin("bad", script))
	require.ErrorIs(t, err, rmenuerrors.ErrMalformedOutput)
	assert.Empty(t, res.Entries)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRunnerNonZeroExitKeepsPartialEntries(t *testing.T) {
	t.Parallel()

	script := `echo '{"name":"first"}'; echo 'boom' >&2; exit 3`
	res, err := NewRunner(time.Second*5, nil).Run(context.Background(), shellPlugin("partial", script))
	require.ErrorIs(t, err, rmenuerrors.ErrNonZeroExit)

	var pe *rmenuerrors.PluginError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.ExitCode)
	assert.Contains(t, err.Error(), "boom")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "first", res.Entries[0].Name)
}

func TestRunnerTimeoutKillsProcessGroup(t *testing.T) {
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "survived")
	p := shellPlugin("slow", `(sleep 2; touch `+marker+`) & echo '{"name":"early"}'; sleep 10`)
	p.Options = map[string]config.OptionValue{"timeout": config.NumberOption(1)}

	start := time.Now()
	_, err := NewRunner(time.Minute, nil).Run(context.Background(), p)
	require.ErrorIs(t, err, rmenuerrors.ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)

	time.Sleep(1500 * time.Millisecond)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "background child should have been killed with the group")
}

func TestRunnerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := NewRunner(time.Minute, nil).Run(ctx, shellPlugin("sleepy", "sleep 10"))
	require.ErrorIs(t, err, rmenuerrors.ErrCancelled)
}

func TestRunnerUsesWorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := shellPlugin("pwd", `printf '{"name":"%s"}\n' "$(pwd)"`)
	p.Options = map[string]config.OptionValue{"workdir": config.StringOption(dir)}

	res, err := NewRunner(time.Second*5, nil).Run(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(res.Entries[0].Name)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
