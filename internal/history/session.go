// Package history implements a browser-like session history for hosts
// without one, and persists it so a session can be resumed.
package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docnav/internal/navigator"
)

// ErrNoEntry is returned when traversing past either end of the history.
var ErrNoEntry = errors.New("no history entry")

// Entry is one step of the session history.
type Entry struct {
	URL   string
	State *navigator.State
}

// Session is a back/forward list of entries with a cursor. It satisfies
// navigator.History and reports traversal the way a browser does: popstate
// for every traversal, hashchange when only the fragment differs.
type Session struct {
	id      string
	entries []Entry
	index   int
	manual  bool

	popstate   func(*navigator.State)
	hashchange func()
}

// NewSession starts a history at url with a fresh session id.
func NewSession(url string) *Session {
	return &Session{
		id:      uuid.New().String(),
		entries: []Entry{{URL: url}},
	}
}

// Restore rebuilds a saved session.
func Restore(id string, entries []Entry, index int) (*Session, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("restoring session %s: %w", id, ErrNoEntry)
	}
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("restoring session %s: cursor %d outside %d entries", id, index, len(entries))
	}
	return &Session{
		id:      id,
		entries: append([]Entry(nil), entries...),
		index:   index,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) PushState(state *navigator.State, url string) {
	s.entries = append(s.entries[:s.index+1], Entry{URL: url, State: state})
	s.index++
}

func (s *Session) ReplaceState(state *navigator.State) {
	s.entries[s.index].State = state
}

func (s *Session) Location() (pathname, fragment string) {
	t := navigator.ParseTarget(s.entries[s.index].URL)
	return t.Path, t.Anchor
}

func (s *Session) OnPopState(fn func(*navigator.State)) {
	s.popstate = fn
}

func (s *Session) OnHashChange(fn func()) {
	s.hashchange = fn
}

func (s *Session) DisableScrollRestoration() {
	s.manual = true
}

// ManualScrollRestoration reports whether the navigator restores scroll
// positions itself.
func (s *Session) ManualScrollRestoration() bool {
	return s.manual
}

// SetFragment navigates to another fragment of the current page, adding an
// entry without state.
func (s *Session) SetFragment(fragment string) {
	pathname, current := s.Location()
	if fragment == current {
		return
	}
	s.PushState(nil, navigator.Target{Path: pathname, Anchor: fragment}.String())
	if s.hashchange != nil {
		s.hashchange()
	}
}

// Back moves to the previous entry.
func (s *Session) Back() error {
	return s.Go(-1)
}

// Forward moves to the next entry.
func (s *Session) Forward() error {
	return s.Go(1)
}

// Go moves the cursor by delta entries.
func (s *Session) Go(delta int) error {
	next := s.index + delta
	if delta == 0 || next < 0 || next >= len(s.entries) {
		return ErrNoEntry
	}
	from := navigator.ParseTarget(s.entries[s.index].URL)
	s.index = next
	to := navigator.ParseTarget(s.entries[s.index].URL)

	if s.popstate != nil {
		s.popstate(s.entries[s.index].State)
	}
	if from.Path == to.Path && from.Anchor != to.Anchor && s.hashchange != nil {
		s.hashchange()
	}
	return nil
}

// CanGoBack reports whether Back would succeed.
func (s *Session) CanGoBack() bool {
	return s.index > 0
}

// CanGoForward reports whether Forward would succeed.
func (s *Session) CanGoForward() bool {
	return s.index < len(s.entries)-1
}

// Entries returns a copy of the history.
func (s *Session) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Index returns the cursor position.
func (s *Session) Index() int {
	return s.index
}

// Current returns the entry at the cursor.
func (s *Session) Current() Entry {
	return s.entries[s.index]
}
