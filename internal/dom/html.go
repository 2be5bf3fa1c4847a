package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/docnav/internal/loop"
)

// HTMLDocument is an in-memory Document parsed with golang.org/x/net/html.
//
// Geometry is not derived from CSS. Boxes are either assigned explicitly
// (SetBox, SetClientHeight, SetScrollHeight) or computed by the simple block
// flow in Layout. Transitions are emulated: changing an element's height
// while it has a transition style emits transitionend through the scheduler
// after the transition's duration.
type HTMLDocument struct {
	root      *html.Node
	nodes     map[*html.Node]*Node
	sched     loop.Scheduler
	listeners listenerSet
	selectors map[string]cascadia.SelectorGroup

	auto  *LayoutOptions
	dirty bool

	followed []string
}

// Parse builds a document from a full HTML page. sched may be nil, in which
// case transitionend is never emitted.
func Parse(src string, sched loop.Scheduler) (*HTMLDocument, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &HTMLDocument{
		root:      root,
		nodes:     make(map[*html.Node]*Node),
		sched:     sched,
		selectors: make(map[string]cascadia.SelectorGroup),
	}, nil
}

// Root returns the underlying document node.
func (d *HTMLDocument) Root() *html.Node {
	return d.root
}

// Wrap returns the Element for an element node of this document.
func (d *HTMLDocument) Wrap(n *html.Node) Element {
	if nd := d.node(n); nd != nil {
		return nd
	}
	return nil
}

func (d *HTMLDocument) node(n *html.Node) *Node {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if nd, ok := d.nodes[n]; ok {
		return nd
	}
	nd := &Node{doc: d, n: n}
	d.nodes[n] = nd
	return nd
}

func (d *HTMLDocument) selector(sel string) (cascadia.SelectorGroup, bool) {
	if g, ok := d.selectors[sel]; ok {
		return g, true
	}
	g, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, false
	}
	d.selectors[sel] = g
	return g, true
}

func (d *HTMLDocument) Title() string {
	t := d.QuerySelector("title")
	if t == nil {
		return ""
	}
	return textOf(t.(*Node).n)
}

func (d *HTMLDocument) SetTitle(title string) {
	var t *html.Node
	if el := d.QuerySelector("title"); el != nil {
		t = el.(*Node).n
	} else {
		t = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		parent := d.root
		if head := d.QuerySelector("head"); head != nil {
			parent = head.(*Node).n
		}
		parent.AppendChild(t)
	}
	for c := t.FirstChild; c != nil; c = t.FirstChild {
		t.RemoveChild(c)
	}
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

func (d *HTMLDocument) GetElementByID(id string) Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && attr(c, "id") == id {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(d.root)
	return d.Wrap(found)
}

func (d *HTMLDocument) QuerySelector(sel string) Element {
	g, ok := d.selector(sel)
	if !ok {
		return nil
	}
	return d.Wrap(cascadia.Query(d.root, g))
}

func (d *HTMLDocument) QueryAll(sel string) []Element {
	g, ok := d.selector(sel)
	if !ok {
		return nil
	}
	return d.wrapAll(cascadia.QueryAll(d.root, g))
}

func (d *HTMLDocument) wrapAll(nodes []*html.Node) []Element {
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.node(n))
	}
	return out
}

func (d *HTMLDocument) ScrollingElement() Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return d.node(c)
		}
	}
	return nil
}

func (d *HTMLDocument) ViewportHeight() float64 {
	if se := d.ScrollingElement(); se != nil {
		return se.ClientHeight()
	}
	return 0
}

func (d *HTMLDocument) AddEventListener(typ string, fn func(*Event)) func() {
	return d.listeners.add(typ, fn)
}

// ListenerCount reports how many document-level listeners of type typ are
// registered.
func (d *HTMLDocument) ListenerCount(typ string) int {
	return d.listeners.count(typ)
}

// Click dispatches a click on target at the given viewport coordinates. If
// no handler prevented the default action and the click landed inside a
// link, the link's href is recorded as followed. It reports whether the
// default action was prevented.
func (d *HTMLDocument) Click(target Element, x, y float64) bool {
	ev := &Event{Type: "click", Target: target, ClientX: x, ClientY: y}
	d.dispatch(target.(*Node), ev)
	if ev.defaultPrevented {
		return true
	}
	for n := target.(*Node).n; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == atom.A && hasAttr(n, "href") {
			d.followed = append(d.followed, attr(n, "href"))
			break
		}
	}
	return false
}

// Dispatch delivers an event of type typ to target and its ancestors, then
// to the document.
func (d *HTMLDocument) Dispatch(target Element, typ string) *Event {
	ev := &Event{Type: typ, Target: target}
	d.dispatch(target.(*Node), ev)
	return ev
}

// Followed returns the hrefs of links whose default action ran.
func (d *HTMLDocument) Followed() []string {
	return append([]string(nil), d.followed...)
}

func (d *HTMLDocument) dispatch(target *Node, ev *Event) {
	// The propagation path is fixed before any handler runs.
	var path []*Node
	for n := target.n; n != nil; n = n.Parent {
		if nd, ok := d.nodes[n]; ok {
			path = append(path, nd)
		}
	}
	for _, nd := range path {
		if ev.Type == "click" && nd.onclick != nil {
			nd.onclick(ev)
		}
		nd.listeners.dispatch(ev)
	}
	d.listeners.dispatch(ev)
}

// Node is an element of an HTMLDocument. Each html.Node has exactly one
// Node wrapper, so Nodes can be compared and used as map keys.
type Node struct {
	doc       *HTMLDocument
	n         *html.Node
	onclick   func(*Event)
	listeners listenerSet

	box             Rect
	scrollTop       float64
	clientHeight    float64
	scrollHeight    float64
	hasClientHeight bool
	hasScrollHeight bool
	reflows         int
}

// HTML returns the underlying html.Node.
func (e *Node) HTML() *html.Node {
	return e.n
}

func (e *Node) TagName() string {
	return e.n.Data
}

func (e *Node) ID() string {
	return attr(e.n, "id")
}

func (e *Node) Attr(name string) string {
	return attr(e.n, name)
}

func (e *Node) HasClass(name string) bool {
	for _, c := range strings.Fields(attr(e.n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Node) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	classes := append(strings.Fields(attr(e.n, "class")), name)
	setAttr(e.n, "class", strings.Join(classes, " "))
	e.doc.dirty = true
}

func (e *Node) RemoveClass(name string) {
	if !e.HasClass(name) {
		return
	}
	var kept []string
	for _, c := range strings.Fields(attr(e.n, "class")) {
		if c != name {
			kept = append(kept, c)
		}
	}
	setAttr(e.n, "class", strings.Join(kept, " "))
	e.doc.dirty = true
}

func (e *Node) Style(prop string) string {
	return parseStyle(attr(e.n, "style")).get(prop)
}

func (e *Node) SetStyle(prop, value string) {
	st := parseStyle(attr(e.n, "style"))
	old := st.get(prop)
	st.set(prop, value)
	setAttr(e.n, "style", st.String())
	e.doc.dirty = true

	if prop == "height" && old != value {
		e.scheduleTransitionEnd()
	}
}

func (e *Node) RemoveStyle(prop string) {
	st := parseStyle(attr(e.n, "style"))
	st.remove(prop)
	if len(st) == 0 {
		removeAttr(e.n, "style")
	} else {
		setAttr(e.n, "style", st.String())
	}
	e.doc.dirty = true
}

func (e *Node) scheduleTransitionEnd() {
	if e.doc.sched == nil {
		return
	}
	d, ok := transitionDuration(e.Style("transition"))
	if !ok {
		return
	}
	e.doc.sched.AfterFunc(d, func() {
		e.doc.Dispatch(e, "transitionend")
	})
}

func (e *Node) Parent() Element {
	return e.doc.Wrap(e.n.Parent)
}

func (e *Node) PreviousElementSibling() Element {
	for s := e.n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return e.doc.node(s)
		}
	}
	return nil
}

func (e *Node) NextElementSibling() Element {
	for s := e.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return e.doc.node(s)
		}
	}
	return nil
}

func (e *Node) FirstElementChild() Element {
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return e.doc.node(c)
		}
	}
	return nil
}

func (e *Node) Contains(other Element) bool {
	o, ok := other.(*Node)
	if !ok || o == nil {
		return false
	}
	for n := o.n; n != nil; n = n.Parent {
		if n == e.n {
			return true
		}
	}
	return false
}

func (e *Node) Query(sel string) Element {
	g, ok := e.doc.selector(sel)
	if !ok {
		return nil
	}
	return e.doc.Wrap(cascadia.Query(e.n, g))
}

func (e *Node) QueryAll(sel string) []Element {
	g, ok := e.doc.selector(sel)
	if !ok {
		return nil
	}
	return e.doc.wrapAll(cascadia.QueryAll(e.n, g))
}

func (e *Node) InnerHTML() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func (e *Node) SetInnerHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.n)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}
	for c := e.n.FirstChild; c != nil; c = e.n.FirstChild {
		e.doc.forget(c)
		e.n.RemoveChild(c)
	}
	for _, c := range nodes {
		e.n.AppendChild(c)
	}
	e.doc.dirty = true
	return nil
}

func (d *HTMLDocument) forget(n *html.Node) {
	delete(d.nodes, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

func (e *Node) BoundingClientRect() Rect {
	e.doc.ensureLayout()
	r := e.box
	var offset float64
	for p := e.n.Parent; p != nil; p = p.Parent {
		if nd, ok := e.doc.nodes[p]; ok {
			offset += nd.scrollTop
		}
	}
	r.Top -= offset
	r.Bottom -= offset
	return r
}

func (e *Node) ScrollTop() float64 {
	return e.scrollTop
}

// SetScrollTop clamps offset to the scrollable range and emits a scroll
// event when the position changes.
func (e *Node) SetScrollTop(offset float64) {
	max := e.ScrollHeight() - e.ClientHeight()
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	if offset == e.scrollTop {
		return
	}
	e.scrollTop = offset

	ev := &Event{Type: "scroll", Target: e}
	e.listeners.dispatch(ev)
	if se := e.doc.ScrollingElement(); se == Element(e) {
		e.doc.listeners.dispatch(ev)
	}
}

func (e *Node) ScrollHeight() float64 {
	e.doc.ensureLayout()
	if e.hasScrollHeight {
		return e.scrollHeight
	}
	bottom := e.box.Bottom
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if nd, ok := e.doc.nodes[c]; ok && nd.box.Bottom > bottom {
				bottom = nd.box.Bottom
			}
			walk(c)
		}
	}
	walk(e.n)
	h := bottom - e.box.Top
	if ch := e.ClientHeight(); h < ch {
		h = ch
	}
	return h
}

func (e *Node) ClientHeight() float64 {
	e.doc.ensureLayout()
	if e.hasClientHeight {
		return e.clientHeight
	}
	return e.box.Height()
}

func (e *Node) Reflow() {
	e.doc.ensureLayout()
	e.reflows++
}

// Reflows reports how many times Reflow was called.
func (e *Node) Reflows() int {
	return e.reflows
}

func (e *Node) SetOnClick(fn func(*Event)) {
	e.onclick = fn
}

// HasOnClick reports whether a click handler is installed.
func (e *Node) HasOnClick() bool {
	return e.onclick != nil
}

func (e *Node) AddEventListener(typ string, fn func(*Event)) func() {
	return e.listeners.add(typ, fn)
}

// ListenerCount reports how many listeners of type typ are registered on
// the element.
func (e *Node) ListenerCount(typ string) int {
	return e.listeners.count(typ)
}

// SetBox assigns the element's layout box in document coordinates.
func (e *Node) SetBox(r Rect) {
	e.box = r
}

// SetClientHeight fixes the element's visible height, making it a scroll
// container.
func (e *Node) SetClientHeight(h float64) {
	e.clientHeight = h
	e.hasClientHeight = true
}

// SetScrollHeight fixes the element's content height.
func (e *Node) SetScrollHeight(h float64) {
	e.scrollHeight = h
	e.hasScrollHeight = true
}

type listenerSet struct {
	next   int
	byType map[string][]listener
}

type listener struct {
	id int
	fn func(*Event)
}

func (s *listenerSet) add(typ string, fn func(*Event)) func() {
	if s.byType == nil {
		s.byType = make(map[string][]listener)
	}
	s.next++
	id := s.next
	s.byType[typ] = append(s.byType[typ], listener{id: id, fn: fn})
	return func() {
		ls := s.byType[typ]
		for i, l := range ls {
			if l.id == id {
				s.byType[typ] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (s *listenerSet) dispatch(ev *Event) {
	ls := append([]listener(nil), s.byType[ev.Type]...)
	for _, l := range ls {
		l.fn(ev)
	}
}

func (s *listenerSet) count(typ string) int {
	return len(s.byType[typ])
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
