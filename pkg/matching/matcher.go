// Package matching handles matching staged paths against rule patterns
package matching

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/gobwas/glob"

	"github.com/blairham/go-lint-staged/pkg/rules"
)

// RegexPrefix marks a pattern as a regular expression instead of a glob
const RegexPrefix = "re:"

// RegexMatchTimeout bounds a single regular expression match. A match that
// runs out of time counts as no match.
const RegexMatchTimeout = time.Second

// ErrInvalidPattern is returned when a pattern does not compile
var ErrInvalidPattern = errors.New("invalid pattern")

// Pattern is a compiled rule pattern
type Pattern struct {
	raw       string
	globs     []glob.Glob
	regex     *regexp2.Regexp
	matchBase bool
}

// Compile compiles a glob, or a regular expression when prefixed with "re:".
//
// Globs without a slash are matched against the basename of a path, globs with
// a slash against the whole slash-separated path. A leading "**/" also matches
// files at the top level.
func Compile(pattern string) (*Pattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	if expr, ok := strings.CutPrefix(pattern, RegexPrefix); ok {
		re, err := regexp2.Compile(expr, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		re.MatchTimeout = RegexMatchTimeout
		return &Pattern{raw: pattern, regex: re}, nil
	}

	p := &Pattern{raw: pattern, matchBase: !strings.Contains(pattern, "/")}

	sources := []string{pattern}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		sources = append(sources, rest)
	}

	for _, src := range sources {
		g, err := glob.Compile(src, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}
		p.globs = append(p.globs, g)
	}

	return p, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source pattern
func (p *Pattern) String() string {
	return p.raw
}

// Match reports whether file matches the pattern
func (p *Pattern) Match(file string) bool {
	file = filepath.ToSlash(file)

	if p.regex != nil {
		return p.matchRegex(file) || p.matchRegex(path.Base(file))
	}

	subject := file
	if p.matchBase {
		subject = path.Base(file)
	}

	for _, g := range p.globs {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

func (p *Pattern) matchRegex(s string) bool {
	matched, err := p.regex.MatchString(s)
	return err == nil && matched
}

// Matcher matches files against rules, caching compiled patterns
type Matcher struct {
	cache map[string]*Pattern
	mu    sync.Mutex
}

// NewMatcher creates a new file matcher
func NewMatcher() *Matcher {
	return &Matcher{cache: make(map[string]*Pattern)}
}

// Pattern returns the compiled form of pattern
func (m *Matcher) Pattern(pattern string) (*Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.cache[pattern]; ok {
		return p, nil
	}

	p, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	m.cache[pattern] = p
	return p, nil
}

// FilesForRule returns the files matching the rule's pattern, in input order
func (m *Matcher) FilesForRule(rule rules.Rule, files []string) ([]string, error) {
	p, err := m.Pattern(rule.Pattern)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, file := range files {
		if p.Match(file) {
			matched = append(matched, file)
		}
	}
	return matched, nil
}

// ValidateTable compiles every pattern in the table
func (m *Matcher) ValidateTable(table rules.Table) error {
	for i, rule := range table {
		if _, err := m.Pattern(rule.Pattern); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
