package session

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/crucible/pkg/config"
)

// Filter decides which elements read from the game the session will work
// with. Deny patterns are checked first; if any allow pattern is configured,
// an element must match one of them. Matching is case-insensitive glob.
type Filter struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewFilter compiles the configured patterns.
func NewFilter(cfg config.ElementFilterConfig) (*Filter, error) {
	f := &Filter{}

	for _, pattern := range cfg.AllowedPatterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid allowed pattern %q: %w", pattern, err)
		}
		f.allowed = append(f.allowed, g)
	}
	for _, pattern := range cfg.DeniedPatterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid denied pattern %q: %w", pattern, err)
		}
		f.denied = append(f.denied, g)
	}
	return f, nil
}

// Allow reports whether the session should use an element.
func (f *Filter) Allow(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}

	for _, g := range f.denied {
		if g.Match(lower) {
			return false
		}
	}
	if len(f.allowed) == 0 {
		return true
	}
	for _, g := range f.allowed {
		if g.Match(lower) {
			return true
		}
	}
	return false
}
