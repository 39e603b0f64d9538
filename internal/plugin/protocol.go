package plugin

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
)

// MaxLineSize bounds a single protocol record on stdout.
const MaxLineSize = 1 << 20

// Result is everything a plugin produced in one invocation.
type Result struct {
	Entries []model.Entry
	// Options merges every options record the plugin emitted, in order.
	Options model.Options
	Stderr  string
}

type recordHeader struct {
	Type string          `json:"type"`
	Name json.RawMessage `json:"name"`
}

// Decode reads newline-delimited JSON records until EOF. Blank lines are
// skipped. Records already decoded are returned alongside any error.
func Decode(r io.Reader) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := res.decodeLine(scanner.Bytes()); err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return res, fmt.Errorf("line %d: record exceeds %d bytes", line+1, MaxLineSize)
		}
		return res, err
	}
	return res, nil
}

func (r *Result) decodeLine(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var head recordHeader
	if err := json.Unmarshal(raw, &head); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	switch strings.ToLower(head.Type) {
	case "entry":
		return r.decodeEntry(raw)
	case "options":
		var opts model.Options
		if err := json.Unmarshal(raw, &opts); err != nil {
			return fmt.Errorf("invalid options record: %w", err)
		}
		r.Options = r.Options.Merge(opts)
		return nil
	case "":
		if head.Name == nil {
			return fmt.Errorf("record has neither a type nor a name")
		}
		return r.decodeEntry(raw)
	default:
		return fmt.Errorf("unknown record type %q", head.Type)
	}
}

func (r *Result) decodeEntry(raw []byte) error {
	var entry model.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	if entry.Name == "" && len(entry.Actions) == 0 && len(entry.Children) == 0 {
		return fmt.Errorf("entry has no name, actions or children")
	}
	r.Entries = append(r.Entries, entry)
	return nil
}
