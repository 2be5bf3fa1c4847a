package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// LayoutOptions configures the block flow computed by Layout.
type LayoutOptions struct {
	// LineHeight is the height of one line of text.
	LineHeight float64
	// Width is the width assigned to every box.
	Width float64
	// Viewport is the client height of the scrolling element.
	Viewport float64
	// Hidden reports elements that take no space, standing in for the
	// stylesheet. Elements with an inline display: none are always hidden.
	Hidden func(Element) bool
}

// inline elements share the line of a parent that carries its own text.
var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "em": true, "i": true,
	"img": true, "kbd": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true,
}

// SetAutoLayout makes the document recompute Layout whenever geometry is
// read after a mutation.
func (d *HTMLDocument) SetAutoLayout(opts LayoutOptions) {
	d.auto = &opts
	d.dirty = true
}

func (d *HTMLDocument) ensureLayout() {
	if d.auto != nil && d.dirty {
		d.dirty = false
		d.Layout(*d.auto)
	}
}

// Layout assigns every element a box by stacking blocks top to bottom. An
// element with its own text occupies one line; its children follow below.
func (d *HTMLDocument) Layout(opts LayoutOptions) {
	se, _ := d.ScrollingElement().(*Node)
	if se == nil {
		return
	}
	if opts.Viewport > 0 {
		se.SetClientHeight(opts.Viewport)
	}
	d.layout(se, 0, opts)
}

func (d *HTMLDocument) layout(e *Node, y float64, opts LayoutOptions) float64 {
	top := y
	if e.hidden(opts) {
		d.collapse(e.n, y, opts.Width)
		return y
	}
	own := hasOwnText(e.n)
	if own {
		y += opts.LineHeight
	}
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		child := d.node(c)
		if child == nil {
			continue
		}
		if own && inline[c.Data] {
			d.layout(child, top, opts)
			continue
		}
		y = d.layout(child, y, opts)
	}
	e.box = Rect{Top: top, Right: opts.Width, Bottom: y}
	return y
}

// collapse gives n and every wrapped descendant an empty box at y.
func (d *HTMLDocument) collapse(n *html.Node, y, width float64) {
	if nd, ok := d.nodes[n]; ok {
		nd.box = Rect{Top: y, Right: width, Bottom: y}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.collapse(c, y, width)
	}
}

func (e *Node) hidden(opts LayoutOptions) bool {
	switch e.n.Data {
	case "head", "script", "style", "title":
		return true
	}
	if strings.EqualFold(e.Style("display"), "none") {
		return true
	}
	return opts.Hidden != nil && opts.Hidden(e)
}

func hasOwnText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}
