// Package anchor marks the heading a URL fragment points at.
package anchor

import "github.com/ziadkadry99/docnav/internal/dom"

// HighlightedClass marks the current jump target.
const HighlightedClass = "highlighted"

// Highlighter tracks the single highlighted heading of a document.
type Highlighter struct {
	doc     dom.Document
	current dom.Element
}

// New creates a Highlighter for doc.
func New(doc dom.Document) *Highlighter {
	return &Highlighter{doc: doc}
}

// Highlight clears the previous highlight and marks the element enclosing
// the anchor with the given id. Heading anchors are empty markers nested
// inside the visible heading, so the marker goes on the anchor's parent.
// An unknown or empty id only clears.
func (h *Highlighter) Highlight(id string) {
	if h.current != nil {
		h.current.RemoveClass(HighlightedClass)
		h.current = nil
	}
	target := h.doc.GetElementByID(id)
	if target == nil {
		return
	}
	if parent := target.Parent(); parent != nil {
		parent.AddClass(HighlightedClass)
		h.current = parent
	}
}

// Current returns the highlighted element, or nil.
func (h *Highlighter) Current() dom.Element {
	return h.current
}
