//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/ziadkadry99/docnav/internal/navigator"
)

// History wraps window.history and window.location.
type History struct {
	window js.Value
}

// NewHistory returns the window's history.
func NewHistory() *History {
	return &History{window: js.Global()}
}

func (h *History) history() js.Value  { return h.window.Get("history") }
func (h *History) location() js.Value { return h.window.Get("location") }

func stateValue(s *navigator.State) js.Value {
	if s == nil {
		return js.Null()
	}
	return js.ValueOf(stateObject(s))
}

func (h *History) PushState(state *navigator.State, url string) {
	h.history().Call("pushState", stateValue(state), "", url)
}

func (h *History) ReplaceState(state *navigator.State) {
	h.history().Call("replaceState", stateValue(state), h.window.Get("document").Get("title"))
}

func (h *History) Location() (pathname, frag string) {
	loc := h.location()
	return loc.Get("pathname").String(), fragment(loc.Get("hash").String())
}

// OnPopState delivers the state of every popstate event; entries without
// state yield nil.
func (h *History) OnPopState(fn func(*navigator.State)) {
	h.window.Call("addEventListener", "popstate", js.FuncOf(func(this js.Value, args []js.Value) any {
		s := args[0].Get("state")
		if s.IsNull() || s.IsUndefined() {
			fn(nil)
			return nil
		}
		fn(&navigator.State{
			Path:        s.Get("path").String(),
			PageYOffset: s.Get("pageYOffset").Float(),
		})
		return nil
	}))
}

func (h *History) OnHashChange(fn func()) {
	h.window.Call("addEventListener", "hashchange", js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	}))
}

// DisableScrollRestoration stops the browser from restoring the scroll
// position on traversal, where supported.
func (h *History) DisableScrollRestoration() {
	if hist := h.history(); !hist.Get("scrollRestoration").IsUndefined() {
		hist.Set("scrollRestoration", "manual")
	}
}
