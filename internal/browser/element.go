//go:build js && wasm

package browser

import (
	"strings"
	"syscall/js"

	"github.com/ziadkadry99/docnav/internal/dom"
)

// Document is the live page.
type Document struct {
	doc    js.Value
	window js.Value
	wrap   *registry[*Element]
}

// NewDocument wraps window.document.
func NewDocument() *Document {
	return &Document{
		doc:    js.Global().Get("document"),
		window: js.Global(),
		wrap:   newRegistry[*Element](),
	}
}

// Element returns the wrapper of v, creating it on first use. Null and
// non-element values yield a nil Element.
func (d *Document) Element(v js.Value) dom.Element {
	if e := d.element(v); e != nil {
		return e
	}
	return nil
}

func (d *Document) element(v js.Value) *Element {
	if v.IsNull() || v.IsUndefined() || v.Get("nodeType").Int() != 1 {
		return nil
	}
	if id := v.Get(idProperty); id.Type() == js.TypeNumber {
		if e, ok := d.wrap.get(id.Int()); ok {
			return e
		}
	}
	e := &Element{doc: d, v: v}
	v.Set(idProperty, d.wrap.add(e))
	return e
}

// forget drops the wrappers of every element below v and releases their
// click handlers.
func (d *Document) forget(v js.Value) {
	list := v.Call("querySelectorAll", "*")
	for i, n := 0, list.Length(); i < n; i++ {
		node := list.Index(i)
		id := node.Get(idProperty)
		if id.Type() != js.TypeNumber {
			continue
		}
		if e, ok := d.wrap.remove(id.Int()); ok && e.onclick.Truthy() {
			node.Set("onclick", js.Null())
			e.onclick.Release()
			e.onclick = js.Func{}
		}
		node.Delete(idProperty)
	}
}

func (d *Document) all(list js.Value) []dom.Element {
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		if e := d.element(list.Index(i)); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (d *Document) Title() string { return d.doc.Get("title").String() }
func (d *Document) SetTitle(title string) { d.doc.Set("title", title) }

func (d *Document) GetElementByID(id string) dom.Element {
	return d.Element(d.doc.Call("getElementById", id))
}

func (d *Document) QuerySelector(sel string) dom.Element {
	return d.Element(d.doc.Call("querySelector", sel))
}

func (d *Document) QueryAll(sel string) []dom.Element {
	return d.all(d.doc.Call("querySelectorAll", sel))
}

func (d *Document) ScrollingElement() dom.Element {
	return d.Element(d.doc.Get("scrollingElement"))
}

func (d *Document) ViewportHeight() float64 {
	return d.window.Get("innerHeight").Float()
}

func (d *Document) AddEventListener(typ string, fn func(*dom.Event)) func() {
	return d.listen(d.doc, typ, fn)
}

// listen registers fn on target and returns the function removing it.
func (d *Document) listen(target js.Value, typ string, fn func(*dom.Event)) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := d.event(args[0])
		fn(ev)
		if ev.DefaultPrevented() {
			args[0].Call("preventDefault")
		}
		return nil
	})
	target.Call("addEventListener", typ, cb)
	return func() {
		target.Call("removeEventListener", typ, cb)
		cb.Release()
	}
}

func (d *Document) event(v js.Value) *dom.Event {
	ev := &dom.Event{Type: v.Get("type").String()}
	if t := d.element(v.Get("target")); t != nil {
		ev.Target = t
	}
	if x := v.Get("clientX"); x.Type() == js.TypeNumber {
		ev.ClientX = x.Float()
		ev.ClientY = v.Get("clientY").Float()
	}
	return ev
}

// Element is a live DOM element.
type Element struct {
	doc     *Document
	v       js.Value
	onclick js.Func
}

func (e *Element) TagName() string { return strings.ToLower(e.v.Get("tagName").String()) }
func (e *Element) ID() string { return e.v.Get("id").String() }

func (e *Element) Attr(name string) string {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *Element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}
func (e *Element) AddClass(name string) { e.v.Get("classList").Call("add", name) }
func (e *Element) RemoveClass(name string) { e.v.Get("classList").Call("remove", name) }

func (e *Element) Style(prop string) string {
	return e.v.Get("style").Call("getPropertyValue", prop).String()
}
func (e *Element) SetStyle(prop, value string) { e.v.Get("style").Call("setProperty", prop, value) }
func (e *Element) RemoveStyle(prop string) { e.v.Get("style").Call("removeProperty", prop) }

func (e *Element) Parent() dom.Element { return e.doc.Element(e.v.Get("parentElement")) }
func (e *Element) PreviousElementSibling() dom.Element {
	return e.doc.Element(e.v.Get("previousElementSibling"))
}
func (e *Element) NextElementSibling() dom.Element {
	return e.doc.Element(e.v.Get("nextElementSibling"))
}
func (e *Element) FirstElementChild() dom.Element {
	return e.doc.Element(e.v.Get("firstElementChild"))
}

func (e *Element) Contains(other dom.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	return e.v.Call("contains", o.v).Bool()
}

func (e *Element) Query(sel string) dom.Element {
	return e.doc.Element(e.v.Call("querySelector", sel))
}

func (e *Element) QueryAll(sel string) []dom.Element {
	return e.doc.all(e.v.Call("querySelectorAll", sel))
}

func (e *Element) InnerHTML() string { return e.v.Get("innerHTML").String() }

func (e *Element) SetInnerHTML(fragment string) error {
	e.doc.forget(e.v)
	e.v.Set("innerHTML", fragment)
	return nil
}

func (e *Element) BoundingClientRect() dom.Rect {
	r := e.v.Call("getBoundingClientRect")
	return dom.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Right:  r.Get("right").Float(),
		Bottom: r.Get("bottom").Float(),
	}
}

func (e *Element) ScrollTop() float64 { return e.v.Get("scrollTop").Float() }
func (e *Element) SetScrollTop(offset float64) { e.v.Set("scrollTop", offset) }
func (e *Element) ScrollHeight() float64 { return e.v.Get("scrollHeight").Float() }
func (e *Element) ClientHeight() float64 { return e.v.Get("clientHeight").Float() }

// Reflow reads offsetWidth, which forces the browser to lay out the page.
func (e *Element) Reflow() { _ = e.v.Get("offsetWidth") }

func (e *Element) SetOnClick(fn func(*dom.Event)) {
	if e.onclick.Truthy() {
		e.onclick.Release()
	}
	e.onclick = js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := e.doc.event(args[0])
		fn(ev)
		if ev.DefaultPrevented() {
			args[0].Call("preventDefault")
			return false
		}
		return nil
	})
	e.v.Set("onclick", e.onclick)
}

func (e *Element) AddEventListener(typ string, fn func(*dom.Event)) func() {
	return e.doc.listen(e.v, typ, fn)
}
