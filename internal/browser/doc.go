// Package browser binds the navigation engine to a live page when docnav is
// compiled for GOOS=js GOARCH=wasm.
//
// Elements wrap js.Value handles and keep a stable identity through an id
// stored on the DOM node, so the engine can compare elements and use them as
// map keys. History wraps window.history, Scheduler maps posts, timers and
// frames onto setTimeout and requestAnimationFrame, and console logging goes
// through the same masking handler as the CLI.
//
// Articles are fetched with content.Client: under js/wasm net/http issues
// requests through the Fetch API, so content.Async serves as the engine's
// fetcher unchanged.
package browser

import (
	"strings"

	"github.com/ziadkadry99/docnav/internal/navigator"
)

// idProperty is the DOM node property holding an element's wrapper id.
const idProperty = "__docnavID"

// registry numbers live wrappers. Ids are never reused, so a stale id left
// on a node cannot resolve to another element's wrapper.
type registry[T any] struct {
	next  int
	items map[int]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{items: make(map[int]T)}
}

func (r *registry[T]) add(v T) int {
	r.next++
	r.items[r.next] = v
	return r.next
}

func (r *registry[T]) get(id int) (T, bool) {
	v, ok := r.items[id]
	return v, ok
}

func (r *registry[T]) remove(id int) (T, bool) {
	v, ok := r.items[id]
	if ok {
		delete(r.items, id)
	}
	return v, ok
}

func (r *registry[T]) len() int { return len(r.items) }

// stateObject converts a history state to the plain object stored by the
// browser. A nil state is stored as null.
func stateObject(s *navigator.State) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{"path": s.Path, "pageYOffset": s.PageYOffset}
}

// fragment strips the leading # of location.hash.
func fragment(hash string) string {
	return strings.TrimPrefix(hash, "#")
}

// consoleMethod picks the console function for a formatted text record.
func consoleMethod(line string) string {
	switch {
	case strings.Contains(line, "level=ERROR"):
		return "error"
	case strings.Contains(line, "level=WARN"):
		return "warn"
	case strings.Contains(line, "level=DEBUG"):
		return "debug"
	}
	return "log"
}
