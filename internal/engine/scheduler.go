package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/rmenu/internal/cache"
	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

// Scheduler collects entries from plugins, serving valid cached results and
// invoking the rest concurrently.
type Scheduler struct {
	runner      Invoker
	store       cache.Store
	session     cache.SessionProvider
	clock       cache.Clock
	log         *logger.Logger
	refresh     bool
	maxParallel int
}

// New creates a Scheduler around runner.
func New(runner Invoker, opts ...Option) *Scheduler {
	s := &Scheduler{runner: runner, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream starts every plugin and returns a channel that yields each plugin's
// result as soon as it is ready. The channel is closed once all plugins have
// reported; cancelling ctx kills plugins still running.
func (s *Scheduler) Stream(ctx context.Context, plugins []config.Plugin) <-chan PluginResult {
	out := make(chan PluginResult, len(plugins))

	workers := s.maxParallel
	if workers <= 0 || workers > len(plugins) {
		workers = len(plugins)
	}
	pool := make(chan struct{}, max(workers, 1))

	log := s.log.WithFields(map[string]any{"run": uuid.NewString()})
	log.Debug("collecting plugin results")

	var wg sync.WaitGroup
	for idx, p := range plugins {
		wg.Add(1)
		go func(idx int, p config.Plugin) {
			defer wg.Done()
			out <- s.collect(ctx, pool, log.WithPlugin(p.Name), idx, p)
		}(idx, p)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Collect drains Stream and merges entries in declaration order.
func (s *Scheduler) Collect(ctx context.Context, plugins []config.Plugin) ([]model.Entry, []PluginResult) {
	results := make([]PluginResult, len(plugins))
	for res := range s.Stream(ctx, plugins) {
		results[res.Index] = res
	}

	var entries []model.Entry
	for _, res := range results {
		entries = append(entries, res.Entries...)
	}
	return entries, results
}

func (s *Scheduler) collect(ctx context.Context, pool chan struct{}, log *logger.Logger, idx int, p config.Plugin) (result PluginResult) {
	start := time.Now()
	result = PluginResult{Plugin: p.Name, Index: idx}
	defer func() {
		result.Duration = time.Since(start)
		log.PluginDone(p.Name, len(result.Entries), result.FromCache, result.Duration, result.Err)
	}()

	caching := s.store != nil && p.Cache.Persisted()
	session := ""
	if caching {
		session = s.sessionID(log)
	}

	if caching && !s.refresh {
		rec, ok, err := s.store.Get(p.Name)
		if err != nil {
			log.Warn(err, "ignoring unreadable cache record")
		}
		if ok && cache.IsValid(rec, p.Cache, s.clock(), session) {
			result.Entries = model.StampPlugin(rec.Entries, p.Name)
			result.Options = rec.Options
			result.FromCache = true
			return result
		}
	}

	select {
	case pool <- struct{}{}:
		defer func() { <-pool }()
	case <-ctx.Done():
		result.Err = rmenuerrors.NewPluginError(p.Name, rmenuerrors.KindCancelled, ctx.Err())
		return result
	}

	res, err := s.runner.Run(ctx, p)
	result.Err = err
	if err != nil && !errors.Is(err, rmenuerrors.ErrNonZeroExit) {
		return result
	}

	result.Entries = model.StampPlugin(res.Entries, p.Name)
	result.Options = res.Options

	// Partial output from a failed run is shown but never persisted.
	if caching && err == nil {
		rec := cache.Record{
			Plugin:     p.Name,
			CapturedAt: s.clock(),
			Session:    session,
			Entries:    result.Entries,
			Options:    res.Options,
		}
		if perr := s.store.Put(rec); perr != nil {
			log.Warn(perr, "failed to write cache record")
		}
	}
	return result
}

func (s *Scheduler) sessionID(log *logger.Logger) string {
	if s.session == nil {
		return ""
	}
	id, err := s.session.SessionID()
	if err != nil {
		log.Warn(err, "session id unavailable")
		return ""
	}
	return id
}
