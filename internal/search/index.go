// Package search keeps the merged entry list and filters it against the
// current query.
//
// Entries are grouped in per-plugin blocks ordered by plugin declaration
// index, so a plugin that reports late slots into its configured position
// rather than the end of the list. Queries rank prefix matches first, then
// substring matches, then (optionally) fuzzy subsequence matches; within a
// tier the merge order is kept.
package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

// Options selects matching behavior.
type Options struct {
	IgnoreCase    bool
	Regex         bool
	Fuzzy         bool
	MatchComments bool
}

// Tier is the strength of a match.
type Tier int

const (
	TierAll Tier = iota
	TierPrefix
	TierSubstring
	TierFuzzy
)

// Match is one entry in a query result.
type Match struct {
	Entry model.Entry
	// Position is the entry's index in the merged list.
	Position int
	Tier     Tier
	// Highlights are byte offsets into the label for fuzzy matches.
	Highlights []int
}

type block struct {
	plugin  string
	order   int
	entries []model.Entry
}

// Index is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	opts   Options
	blocks []block
	merged []model.Entry
}

func NewIndex(opts Options) *Index {
	return &Index{opts: opts}
}

// SetEntries replaces the whole list.
func (ix *Index) SetEntries(entries []model.Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.blocks = []block{{entries: append([]model.Entry(nil), entries...)}}
	ix.rebuild()
}

// ReplaceBlock swaps in one plugin's entries in a single step.
func (ix *Index) ReplaceBlock(plugin string, order int, entries []model.Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	b := block{plugin: plugin, order: order, entries: append([]model.Entry(nil), entries...)}
	for i := range ix.blocks {
		if ix.blocks[i].plugin == plugin {
			ix.blocks[i] = b
			ix.rebuild()
			return
		}
	}

	at := sort.Search(len(ix.blocks), func(i int) bool { return ix.blocks[i].order > order })
	ix.blocks = append(ix.blocks, block{})
	copy(ix.blocks[at+1:], ix.blocks[at:])
	ix.blocks[at] = b
	ix.rebuild()
}

func (ix *Index) rebuild() {
	n := 0
	for _, b := range ix.blocks {
		n += len(b.entries)
	}
	merged := make([]model.Entry, 0, n)
	for _, b := range ix.blocks {
		merged = append(merged, b.entries...)
	}
	ix.merged = merged
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.merged)
}

// Query filters the merged list. With regex enabled an invalid pattern falls
// back to literal matching and the SearchError is returned with the results.
func (ix *Index) Query(text string) ([]Match, error) {
	ix.mu.RLock()
	entries := ix.merged
	opts := ix.opts
	ix.mu.RUnlock()

	if text == "" {
		out := make([]Match, len(entries))
		for i, e := range entries {
			out[i] = Match{Entry: e, Position: i, Tier: TierAll}
		}
		return out, nil
	}

	var (
		matcher  func(string) (Tier, bool)
		queryErr error
	)
	if opts.Regex {
		pattern := text
		if opts.IgnoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			queryErr = rmenuerrors.NewSearchError(text, err)
		} else {
			matcher = regexMatcher(re)
		}
	}
	if matcher == nil {
		matcher = literalMatcher(text, opts.IgnoreCase)
	}

	var prefix, substring []Match
	var rest []int
	for i, e := range entries {
		tier, ok := matcher(e.Label())
		if !ok && opts.MatchComments && e.Comment != "" {
			if _, cok := matcher(e.Comment); cok {
				tier, ok = TierSubstring, true
			}
		}
		switch {
		case !ok:
			rest = append(rest, i)
		case tier == TierPrefix:
			prefix = append(prefix, Match{Entry: e, Position: i, Tier: TierPrefix})
		default:
			substring = append(substring, Match{Entry: e, Position: i, Tier: TierSubstring})
		}
	}

	out := append(prefix, substring...)
	if opts.Fuzzy && !opts.Regex && len(rest) > 0 {
		out = append(out, fuzzyMatches(text, entries, rest)...)
	}
	return out, queryErr
}

func literalMatcher(query string, ignoreCase bool) func(string) (Tier, bool) {
	if ignoreCase {
		query = strings.ToLower(query)
	}
	return func(s string) (Tier, bool) {
		if ignoreCase {
			s = strings.ToLower(s)
		}
		switch {
		case strings.HasPrefix(s, query):
			return TierPrefix, true
		case strings.Contains(s, query):
			return TierSubstring, true
		}
		return 0, false
	}
}

func regexMatcher(re *regexp.Regexp) func(string) (Tier, bool) {
	return func(s string) (Tier, bool) {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return 0, false
		}
		if loc[0] == 0 {
			return TierPrefix, true
		}
		return TierSubstring, true
	}
}

// fuzzyMatches scores the entries that did not match literally.
func fuzzyMatches(query string, entries []model.Entry, candidates []int) []Match {
	labels := make([]string, len(candidates))
	for i, pos := range candidates {
		labels[i] = entries[pos].Label()
	}

	found := fuzzy.Find(query, labels)
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Score != found[j].Score {
			return found[i].Score > found[j].Score
		}
		return found[i].Index < found[j].Index
	})

	out := make([]Match, 0, len(found))
	for _, m := range found {
		pos := candidates[m.Index]
		out = append(out, Match{Entry: entries[pos], Position: pos, Tier: TierFuzzy, Highlights: m.MatchedIndexes})
	}
	return out
}
