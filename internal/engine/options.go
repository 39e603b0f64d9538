package engine

import (
	"context"
	"time"

	"github.com/alexisbeaulieu97/rmenu/internal/cache"
	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
	"github.com/alexisbeaulieu97/rmenu/internal/plugin"
)

// Invoker runs a single plugin process.
type Invoker interface {
	Run(ctx context.Context, p config.Plugin) (plugin.Result, error)
}

// PluginResult is one plugin's contribution to a scheduling cycle.
type PluginResult struct {
	Plugin string
	// Index is the plugin's position in declaration order.
	Index     int
	Entries   []model.Entry
	Options   model.Options
	FromCache bool
	Err       error
	Duration  time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStore enables result caching.
func WithStore(store cache.Store) Option {
	return func(s *Scheduler) { s.store = store }
}

// WithSession sets how the current login session is identified for onlogin
// cache policies.
func WithSession(provider cache.SessionProvider) Option {
	return func(s *Scheduler) { s.session = provider }
}

// WithClock replaces the wall clock used for cache expiry.
func WithClock(clock cache.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithLogger sets the logger for per-plugin outcomes.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithRefresh ignores cached records; fresh results are still written back.
func WithRefresh(refresh bool) Option {
	return func(s *Scheduler) { s.refresh = refresh }
}

// WithMaxParallel bounds how many plugin processes run at once. Zero means
// one worker per plugin.
func WithMaxParallel(n int) Option {
	return func(s *Scheduler) { s.maxParallel = n }
}
