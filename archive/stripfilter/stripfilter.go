// Package stripfilter decides, for an archive entry path, whether it should
// be kept or stripped out of an output archive, based on an ordered list of
// include/exclude glob patterns.
//
// A Config is built once via Builder and is immutable and safe for
// concurrent use thereafter.
package stripfilter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBuilderUsed is returned by every Builder mutator once Build has already
// been called on it. A Builder is single-use: this mirrors the source this
// filter is drawn from, which treats a second build attempt as programmer
// error rather than something to silently tolerate.
var ErrBuilderUsed = errors.New("stripfilter: builder already used")

// Pattern is one ordered rule: paths matching Glob (Ant-style: "?" one
// character, "*" one path segment, "**" any number of segments) resolve to
// IsInclude.
type Pattern struct {
	Glob      string
	IsInclude bool
}

// Builder accumulates Patterns in the order added. The zero value is ready
// to use. A Builder may be used from only one goroutine.
type Builder struct {
	patterns []Pattern
	used     bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddInclude appends an include Pattern for each glob, in order.
func (b *Builder) AddInclude(globs ...string) error {
	return b.add(true, globs)
}

// AddExclude appends an exclude Pattern for each glob, in order.
func (b *Builder) AddExclude(globs ...string) error {
	return b.add(false, globs)
}

func (b *Builder) add(isInclude bool, globs []string) error {
	if b.used {
		return ErrBuilderUsed
	}
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("stripfilter: invalid glob pattern %q", g)
		}
		b.patterns = append(b.patterns, Pattern{Glob: g, IsInclude: isInclude})
	}
	return nil
}

// Build appends the two terminal patterns — exclude "**/*.class", then
// include "**/*" — and returns the resulting Config. After Build returns,
// the Builder is spent: every subsequent call to AddInclude or AddExclude
// returns ErrBuilderUsed.
func (b *Builder) Build() (*Config, error) {
	if b.used {
		return nil, ErrBuilderUsed
	}
	b.used = true

	patterns := append(b.patterns,
		Pattern{Glob: "**/*.class", IsInclude: false},
		Pattern{Glob: "**/*", IsInclude: true},
	)
	return &Config{patterns: patterns}, nil
}

// Config is an immutable, ordered list of Patterns produced by Builder.
type Config struct {
	patterns []Pattern
}

// Default is the filter produced by an empty Builder: strip ".class" files,
// keep everything else.
var Default = mustDefault()

func mustDefault() *Config {
	cfg, err := NewBuilder().Build()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Patterns returns the Config's patterns in evaluation order, including the
// two terminal patterns appended by Build.
func (c *Config) Patterns() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// ShouldInclude walks the pattern list in order and returns the IsInclude
// flag of the first Pattern whose glob matches entryPath. entryPath is
// normalized to forward slashes before matching, since archive entries are
// always "/"-separated regardless of host OS. The terminal "**/*" include
// pattern always matches, so this never runs off the end of the list.
func (c *Config) ShouldInclude(entryPath string) bool {
	clean := strings.ReplaceAll(entryPath, `\`, "/")
	clean = strings.TrimPrefix(clean, "/")
	for _, p := range c.patterns {
		// Patterns are validated at Build time; a match error here can only
		// mean the pattern outlived validation somehow, which can't happen.
		ok, err := doublestar.Match(p.Glob, clean)
		if err != nil {
			panic(fmt.Sprintf("stripfilter: pattern %q rejected a previously-validated match: %v", p.Glob, err))
		}
		if ok {
			return p.IsInclude
		}
	}
	panic("stripfilter: terminal \"**/*\" pattern failed to match " + entryPath)
}
