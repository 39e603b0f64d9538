package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

const fileSuffix = ".cache"

// FileStore keeps one JSON document per plugin in a directory.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileStore) lock(name string) func() {
	s.mu.Lock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid plugin name %q", name)
	}
	return filepath.Join(s.dir, name+fileSuffix), nil
}

// Get reads the record for name. Missing files are a plain miss; corrupt
// files are a miss with a CacheError.
func (s *FileStore) Get(name string) (Record, bool, error) {
	path, err := s.path(name)
	if err != nil {
		return Record{}, false, rmenuerrors.NewCacheError(name, "read", err)
	}

	unlock := s.lock(name)
	defer unlock()

	return readRecord(name, path)
}

func readRecord(name, path string) (Record, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, rmenuerrors.NewCacheError(name, "read", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, rmenuerrors.NewCacheError(name, "decode", err)
	}
	if rec.Plugin == "" {
		rec.Plugin = name
	}
	return rec, true, nil
}

// Put replaces the record atomically by writing a temp file and renaming it.
func (s *FileStore) Put(rec Record) error {
	path, err := s.path(rec.Plugin)
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "encode", err)
	}

	unlock := s.lock(rec.Plugin)
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, rec.Plugin+".*.tmp")
	if err != nil {
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return rmenuerrors.NewCacheError(rec.Plugin, "write", err)
	}
	return nil
}

// Invalidate removes the record for name, if any.
func (s *FileStore) Invalidate(name string) error {
	path, err := s.path(name)
	if err != nil {
		return rmenuerrors.NewCacheError(name, "invalidate", err)
	}

	unlock := s.lock(name)
	defer unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return rmenuerrors.NewCacheError(name, "invalidate", err)
	}
	return nil
}

// Clear removes every record.
func (s *FileStore) Clear() error {
	names, err := s.names()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.Invalidate(name); err != nil {
			return err
		}
	}
	return nil
}

// List returns all readable records sorted by plugin name. Corrupt records are skipped.
func (s *FileStore) List() ([]Record, error) {
	names, err := s.names()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(names))
	for _, name := range names {
		rec, ok, _ := s.Get(name)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *FileStore) names() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileSuffix))
	if err != nil {
		return nil, rmenuerrors.NewCacheError("", "list", err)
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(match), fileSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
