package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rmenu/internal/cache"
	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/engine"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/plugin"
)

// appContext bundles the services a command needs.
type appContext struct {
	cfg       *config.Config
	log       *logger.Logger
	store     cache.Store
	scheduler *engine.Scheduler
}

// newAppContext loads configuration and opens the cache. Interactive runs log
// to a file so output never lands on the menu.
func newAppContext(cmd *cobra.Command, flags *rootFlags, interactive bool) (*appContext, error) {
	log, err := newLogger(cmd.ErrOrStderr(), flags, interactive)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	path := flags.configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadOrDefault(config.ExpandHome(path), explicit)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	store, err := cache.Open(cfg.Cache.Backend, cfg.CacheDir(), log)
	if err != nil {
		_ = log.Close()
		return nil, newCommandError("open the cache", cfg.CacheDir(), err, "Check that the cache directory is writable or set cache.dir.")
	}

	sched := engine.New(
		plugin.NewRunner(cfg.Timeout(), log),
		engine.WithStore(store),
		engine.WithSession(cache.NewRuntimeSession()),
		engine.WithLogger(log),
		engine.WithRefresh(flags.refresh),
		engine.WithMaxParallel(cfg.MaxParallel),
	)

	return &appContext{cfg: cfg, log: log, store: store, scheduler: sched}, nil
}

func newLogger(stderr io.Writer, flags *rootFlags, interactive bool) (*logger.Logger, error) {
	level := "warn"
	if interactive {
		level = "info"
	}
	if flags.verbose {
		level = "debug"
	}

	opts := logger.Options{Level: level, HumanReadable: true, Writer: stderr, FilePath: flags.logFile}
	if interactive && opts.FilePath == "" {
		opts.FilePath = config.DefaultLogPath()
	}
	return logger.New(opts)
}

func (a *appContext) Close() error {
	err := a.store.Close()
	if cerr := a.log.Close(); err == nil {
		err = cerr
	}
	return err
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error { return e.cause }
