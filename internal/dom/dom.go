// Package dom defines the document model the navigation engine drives.
//
// The engine only talks to the Element and Document interfaces. HTMLDocument
// is the in-memory implementation backed by golang.org/x/net/html; the
// browser host binds the same interfaces to the live page.
package dom

// Rect is a bounding box in viewport coordinates.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether the point lies inside r. Left and top edges are
// inclusive, right and bottom edges exclusive.
func (r Rect) Contains(x, y float64) bool {
	return r.Left <= x && x < r.Right && r.Top <= y && y < r.Bottom
}

// Height returns the vertical extent of r.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Event is a DOM event delivered to listeners.
type Event struct {
	Type    string
	Target  Element
	ClientX float64
	ClientY float64

	defaultPrevented bool
}

// PreventDefault suppresses the event's default action, such as following
// a link.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Element is a node of the page the engine can inspect and mutate.
//
// Methods that return an Element return a nil interface when there is no
// such element.
type Element interface {
	TagName() string
	ID() string
	Attr(name string) string

	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)

	Style(prop string) string
	SetStyle(prop, value string)
	RemoveStyle(prop string)

	Parent() Element
	PreviousElementSibling() Element
	NextElementSibling() Element
	FirstElementChild() Element
	Contains(other Element) bool
	Query(selector string) Element
	QueryAll(selector string) []Element

	InnerHTML() string
	SetInnerHTML(fragment string) error

	BoundingClientRect() Rect
	ScrollTop() float64
	SetScrollTop(offset float64)
	ScrollHeight() float64
	ClientHeight() float64
	// Reflow forces a synchronous layout pass.
	Reflow()

	// SetOnClick installs the element's single click handler, replacing any
	// previous one.
	SetOnClick(fn func(ev *Event))
	// AddEventListener registers fn for events of type typ and returns a
	// function that unregisters it.
	AddEventListener(typ string, fn func(ev *Event)) (remove func())
}

// Document is the page as a whole.
type Document interface {
	Title() string
	SetTitle(title string)
	GetElementByID(id string) Element
	QuerySelector(selector string) Element
	QueryAll(selector string) []Element
	// ScrollingElement is the element whose offset is the page scroll
	// position.
	ScrollingElement() Element
	ViewportHeight() float64
	// AddEventListener registers a document-level listener. Scroll events
	// of the scrolling element are delivered here as well.
	AddEventListener(typ string, fn func(ev *Event)) (remove func())
}
