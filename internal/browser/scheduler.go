//go:build js && wasm

package browser

import (
	"syscall/js"
	"time"
)

// Scheduler runs engine work on the page's event loop.
type Scheduler struct {
	window js.Value
}

// NewScheduler returns a Scheduler bound to the window.
func NewScheduler() *Scheduler {
	return &Scheduler{window: js.Global()}
}

// once wraps fn in a js.Func released after its first call.
func once(fn func(args []js.Value)) js.Func {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		fn(args)
		return nil
	})
	return cb
}

func (s *Scheduler) Post(fn func()) {
	s.window.Call("setTimeout", once(func([]js.Value) { fn() }), 0)
}

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	pending := true
	cb := once(func([]js.Value) {
		pending = false
		fn()
	})
	id := s.window.Call("setTimeout", cb, d.Milliseconds())
	return func() bool {
		if !pending {
			return false
		}
		pending = false
		s.window.Call("clearTimeout", id)
		cb.Release()
		return true
	}
}

func (s *Scheduler) RequestFrame(fn func(time.Duration)) {
	s.window.Call("requestAnimationFrame", once(func(args []js.Value) {
		ms := args[0].Float()
		fn(time.Duration(ms * float64(time.Millisecond)))
	}))
}
