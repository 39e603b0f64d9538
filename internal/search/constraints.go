package search

import (
	"regexp"
	"unicode/utf8"

	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

// Verdict is how the loop should treat a query edit.
type Verdict int

const (
	// Accept runs the query.
	Accept Verdict = iota
	// Reject refuses the edit and keeps the previous query.
	Reject
	// TooShort keeps the query text but shows the unfiltered list.
	TooShort
)

// Constraints limit which queries are searched.
type Constraints struct {
	restrict  *regexp.Regexp
	minLength int
	maxLength int
}

// NewConstraints compiles restrict; zero lengths disable the corresponding limit.
func NewConstraints(restrict string, minLength, maxLength int) (Constraints, error) {
	c := Constraints{minLength: minLength, maxLength: maxLength}
	if restrict != "" {
		re, err := regexp.Compile(restrict)
		if err != nil {
			return Constraints{}, rmenuerrors.NewSearchError(restrict, err)
		}
		c.restrict = re
	}
	return c, nil
}

// Check classifies query. The empty query is always accepted.
func (c Constraints) Check(query string) Verdict {
	if query == "" {
		return Accept
	}
	n := utf8.RuneCountInString(query)
	if c.maxLength > 0 && n > c.maxLength {
		return Reject
	}
	if c.restrict != nil && !c.restrict.MatchString(query) {
		return Reject
	}
	if c.minLength > 0 && n < c.minLength {
		return TooShort
	}
	return Accept
}
