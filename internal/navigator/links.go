package navigator

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// LinkMatcher decides which links stay inside the site.
type LinkMatcher struct {
	patterns []string
}

// NewLinkMatcher validates patterns and returns a matcher for them.
func NewLinkMatcher(patterns []string) (*LinkMatcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid link pattern %q", p)
		}
	}
	return &LinkMatcher{patterns: patterns}, nil
}

// Match reports whether href is an in-site link. The fragment is ignored.
func (m *LinkMatcher) Match(href string) bool {
	path := ParseTarget(href).Path
	if path == "" {
		return false
	}
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
