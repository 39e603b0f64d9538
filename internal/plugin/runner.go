package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

const (
	// EnvPluginName is set in every plugin's environment.
	EnvPluginName = "RMENU_PLUGIN"

	defaultWaitDelay = 2 * time.Second
	maxStderr        = 8 * 1024
)

// Runner launches plugin processes and decodes their output.
type Runner struct {
	timeout   time.Duration
	waitDelay time.Duration
	log       *logger.Logger
}

// NewRunner returns a Runner whose plugins get timeout unless they set their own.
func NewRunner(timeout time.Duration, log *logger.Logger) *Runner {
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultPluginTimeout) * time.Second
	}
	return &Runner{timeout: timeout, waitDelay: defaultWaitDelay, log: log}
}

type decoded struct {
	res Result
	err error
}

// Run executes one plugin to completion. The process runs in its own process
// group, which is killed when ctx ends or the plugin deadline passes. On
// NonZeroExit the entries parsed before exit are returned with the error.
func (r *Runner) Run(ctx context.Context, p config.Plugin) (Result, error) {
	if len(p.Exec) == 0 || strings.TrimSpace(p.Exec[0]) == "" {
		return Result{}, rmenuerrors.NewPluginError(p.Name, rmenuerrors.KindSpawnFailed, fmt.Errorf("empty command"))
	}

	runCtx, cancel := context.WithTimeout(ctx, p.Timeout(r.timeout))
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.Exec[0], p.Exec[1:]...)
	cmd.Env = append(os.Environ(), EnvPluginName+"="+p.Name)
	if dir := p.WorkDir(); dir != "" {
		cmd.Dir = config.ExpandHome(dir)
	}
	cmd.WaitDelay = r.waitDelay
	isolateProcessGroup(cmd)

	stderr := &boundedBuffer{max: maxStderr}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, rmenuerrors.NewPluginError(p.Name, rmenuerrors.KindSpawnFailed, err)
	}

	r.log.WithPlugin(p.Name).Debug("starting plugin " + strings.Join(p.Exec, " "))
	if err := cmd.Start(); err != nil {
		return Result{}, rmenuerrors.NewPluginError(p.Name, rmenuerrors.KindSpawnFailed, err)
	}

	done := make(chan decoded, 1)
	go func() {
		res, err := Decode(stdout)
		done <- decoded{res: res, err: err}
	}()

	var out decoded
	received := false
	select {
	case out = <-done:
		received = true
		if out.err != nil {
			// Stop a plugin that keeps writing after a bad record.
			cancel()
		}
	case <-runCtx.Done():
	}

	waitErr := cmd.Wait()
	if !received {
		out = <-done
	}
	out.res.Stderr = stderr.String()

	return classify(ctx, runCtx, p.Name, out, waitErr)
}

func classify(parent, runCtx context.Context, name string, out decoded, waitErr error) (Result, error) {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return Result{Stderr: out.res.Stderr}, rmenuerrors.NewPluginError(name, rmenuerrors.KindCancelled, parent.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return Result{Stderr: out.res.Stderr}, rmenuerrors.NewPluginError(name, rmenuerrors.KindTimeout, runCtx.Err())
	case out.err != nil:
		return Result{Stderr: out.res.Stderr}, rmenuerrors.NewPluginError(name, rmenuerrors.KindMalformedOutput, out.err)
	}

	if waitErr == nil || errors.Is(waitErr, exec.ErrWaitDelay) {
		return out.res, nil
	}

	pe := &rmenuerrors.PluginError{Plugin: name, Kind: rmenuerrors.KindNonZeroExit, ExitCode: -1, Err: waitErr}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		pe.ExitCode = exitErr.ExitCode()
	}
	if msg := strings.TrimSpace(out.res.Stderr); msg != "" {
		pe.Err = fmt.Errorf("%w: %s", waitErr, lastLine(msg))
	}
	return out.res, pe
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// boundedBuffer keeps the first max bytes written and drops the rest.
type boundedBuffer struct {
	max int
	buf []byte
}

var _ io.Writer = (*boundedBuffer)(nil)

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if room := b.max - len(b.buf); room > 0 {
		if len(p) > room {
			b.buf = append(b.buf, p[:room]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	return string(b.buf)
}
