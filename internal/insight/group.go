// Package insight defines named groups of line patterns and counts how many
// lines of a source file match each group.
package insight

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyName is returned when a group is constructed without a name.
	ErrEmptyName = errors.New("insight name is empty")

	// ErrNoPatterns is returned when a group is constructed without patterns.
	ErrNoPatterns = errors.New("insight has no patterns")
)

// Group is a named set of line patterns counted together as one column.
// A line is counted once if any pattern matches it.
type Group struct {
	Name     string
	Patterns []*regexp.Regexp
}

// NewGroup compiles patterns into a Group. Every pattern must compile.
func NewGroup(name string, patterns ...string) (*Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoPatterns)
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid pattern %q: %w", name, p, err)
		}
		compiled = append(compiled, re)
	}

	return &Group{
		Name:     name,
		Patterns: compiled,
	}, nil
}

// MustGroup is like NewGroup but panics on error. Only for compiled-in groups.
func MustGroup(name string, patterns ...string) *Group {
	g, err := NewGroup(name, patterns...)
	if err != nil {
		panic(err)
	}
	return g
}

// Match reports whether any pattern in the group matches line.
func (g *Group) Match(line string) bool {
	for _, re := range g.Patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// PatternStrings returns the source text of each pattern, in order.
func (g *Group) PatternStrings() []string {
	out := make([]string, len(g.Patterns))
	for i, re := range g.Patterns {
		out[i] = re.String()
	}
	return out
}
