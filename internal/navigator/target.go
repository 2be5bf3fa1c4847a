package navigator

import (
	"context"
	"strings"

	"github.com/ziadkadry99/docnav/internal/content"
)

// Target is a navigation destination: a path and an optional fragment.
type Target struct {
	Path   string
	Anchor string
}

// ParseTarget splits a URL path on its first '#'.
func ParseTarget(u string) Target {
	path, anchor, _ := strings.Cut(u, "#")
	return Target{Path: path, Anchor: anchor}
}

func (t Target) String() string {
	if t.Anchor == "" {
		return t.Path
	}
	return t.Path + "#" + t.Anchor
}

// State is stored with every history entry so that back, forward and reload
// return to the same article and scroll position.
type State struct {
	Path        string  `json:"path"`
	PageYOffset float64 `json:"pageYOffset"`
}

// History is the browser's session history as seen by the controller.
type History interface {
	// PushState adds an entry for url, making it the current location.
	PushState(state *State, url string)
	// ReplaceState replaces the state of the current entry.
	ReplaceState(state *State)
	// Location returns the current path and fragment (without '#').
	Location() (pathname, fragment string)
}

// PopStateSource is implemented by histories that report back/forward
// traversal.
type PopStateSource interface {
	OnPopState(fn func(*State))
}

// HashChangeSource is implemented by histories that report fragment-only
// navigation.
type HashChangeSource interface {
	OnHashChange(fn func())
}

// ScrollRestorer is implemented by histories whose host restores scroll
// positions on its own unless told not to.
type ScrollRestorer interface {
	DisableScrollRestoration()
}

// Fetcher retrieves articles asynchronously. done must run on the
// controller's scheduler, and must run even when ctx is canceled.
type Fetcher interface {
	Fetch(ctx context.Context, path string, done func(*content.Page, error))
}
