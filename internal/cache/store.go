// Package cache persists plugin results between launcher runs and decides
// whether a persisted result may be reused under a plugin's cache policy.
package cache

import (
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/rmenu/internal/config"
	"github.com/alexisbeaulieu97/rmenu/internal/logger"
	"github.com/alexisbeaulieu97/rmenu/internal/model"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Record is one plugin's persisted result.
type Record struct {
	Plugin     string        `json:"plugin"`
	CapturedAt time.Time     `json:"captured_at"`
	Session    string        `json:"session,omitempty"`
	Entries    []model.Entry `json:"entries"`
	Options    model.Options `json:"options,omitempty"`
}

// Store persists at most one record per plugin. Replacing a record is atomic:
// readers observe either the old record or the new one. A missing or
// unreadable record is reported as a miss, with the read error when there was one.
type Store interface {
	Get(name string) (Record, bool, error)
	Put(record Record) error
	Invalidate(name string) error
	Clear() error
	List() ([]Record, error)
	Close() error
}

// Clock returns the current time.
type Clock func() time.Time

// IsValid reports whether rec may be served under policy.
func IsValid(rec Record, policy config.CacheSetting, now time.Time, session string) bool {
	switch policy.Mode {
	case config.CacheDuration:
		return now.Sub(rec.CapturedAt) < policy.TTL()
	case config.CacheOnLogin:
		return rec.Session != "" && rec.Session == session
	case config.CacheNever:
		return true
	default:
		return false
	}
}

// Open returns the store for backend rooted at dir. A SQLite store that cannot
// be opened falls back to the file store.
func Open(backend, dir string, log *logger.Logger) (Store, error) {
	switch backend {
	case BackendSQLite:
		store, err := NewSQLiteStore(dir)
		if err == nil {
			return store, nil
		}
		log.Warn(err, "sqlite cache unavailable, using file cache")
	case "", BackendFile:
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
	return NewFileStore(dir)
}
