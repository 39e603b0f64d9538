// Package launch hands the chosen action off to the system once the menu exits.
package launch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"

	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
)

// ErrEmptyCommand is returned for an action whose command line has no words.
var ErrEmptyCommand = errors.New("empty command")

// Launcher starts actions detached from rmenu.
type Launcher struct {
	terminal []string
	stdout   io.Writer
	log      *logger.Logger
	start    func(*exec.Cmd) error
}

// Option customises a Launcher.
type Option func(*Launcher)

// WithStdout sets where echo actions write.
func WithStdout(w io.Writer) Option {
	return func(l *Launcher) { l.stdout = w }
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Launcher) { l.log = log }
}

// WithStarter replaces the function that starts the process.
func WithStarter(start func(*exec.Cmd) error) Option {
	return func(l *Launcher) { l.start = start }
}

// New builds a Launcher. terminal is the command line that terminal actions
// are appended to, e.g. "foot -e".
func New(terminal string, opts ...Option) (*Launcher, error) {
	l := &Launcher{stdout: os.Stdout, start: startDetached}
	for _, opt := range opts {
		opt(l)
	}
	if terminal != "" {
		words, err := split(terminal)
		if err != nil {
			return nil, fmt.Errorf("parse terminal command: %w", err)
		}
		l.terminal = words
	}
	return l, nil
}

// Launch performs a single action.
func (l *Launcher) Launch(action model.Action) error {
	method := action.Exec
	switch method.Kind {
	case model.MethodEcho:
		_, err := fmt.Fprintln(l.stdout, method.Command)
		return err
	case model.MethodTerminal:
		if len(l.terminal) == 0 {
			return fmt.Errorf("action %q needs a terminal but none is configured", action.Name)
		}
		args, err := split(method.Command)
		if err != nil {
			return err
		}
		return l.run(append(append([]string(nil), l.terminal...), args...))
	case model.MethodRun, "":
		args, err := split(method.Command)
		if err != nil {
			return err
		}
		return l.run(args)
	default:
		return fmt.Errorf("unknown exec method %q", method.Kind)
	}
}

func (l *Launcher) run(args []string) error {
	cmd := exec.Command(args[0], args[1:]...)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("launch %s: %w", args[0], err)
	}
	l.log.WithFields(map[string]any{"argv": args}).Info("action launched")
	return nil
}

func split(line string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = true
	words, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return words, nil
}

// startDetached starts cmd in its own session with no stdio and lets it go.
func startDetached(cmd *exec.Cmd) error {
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
