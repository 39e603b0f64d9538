package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SessionProvider identifies the current login session.
type SessionProvider interface {
	SessionID() (string, error)
}

// StaticSession is a fixed session id.
type StaticSession string

func (s StaticSession) SessionID() (string, error) {
	return string(s), nil
}

const bootIDPath = "/proc/sys/kernel/random/boot_id"

// RuntimeSession derives the session id from a token kept in the user's
// runtime directory, which exists for exactly one login session. Without a
// runtime directory it falls back to the kernel boot id, then to a token that
// lives only as long as the process. The id is computed once per process.
type RuntimeSession struct {
	runtimeDir string
	bootIDPath string

	once sync.Once
	id   string
	err  error
}

// NewRuntimeSession reads XDG_RUNTIME_DIR from the environment.
func NewRuntimeSession() *RuntimeSession {
	return &RuntimeSession{runtimeDir: os.Getenv("XDG_RUNTIME_DIR"), bootIDPath: bootIDPath}
}

func (s *RuntimeSession) SessionID() (string, error) {
	s.once.Do(func() {
		s.id, s.err = s.resolve()
	})
	return s.id, s.err
}

func (s *RuntimeSession) resolve() (string, error) {
	if s.runtimeDir != "" {
		if id, err := runtimeToken(filepath.Join(s.runtimeDir, "rmenu", "session")); err == nil {
			return id, nil
		}
	}
	if s.bootIDPath != "" {
		if data, err := os.ReadFile(s.bootIDPath); err == nil {
			if id := strings.TrimSpace(string(data)); id != "" {
				return "boot:" + id, nil
			}
		}
	}
	return "process:" + uuid.NewString(), nil
}

// runtimeToken returns the token at path, creating it when absent. The token
// is written to a private file first and hard-linked into place, so path only
// ever appears with its full contents; a launcher that loses the race reads
// the winner's token.
func runtimeToken(path string) (string, error) {
	if id, err := readToken(path); err == nil {
		return id, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	token := uuid.NewString()
	_, werr := tmp.WriteString(token + "\n")
	cerr := tmp.Close()
	if werr != nil {
		return "", werr
	}
	if cerr != nil {
		return "", cerr
	}

	if err := os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return readToken(path)
		}
		return "", err
	}
	return token, nil
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("empty session token in %s", path)
	}
	return id, nil
}
