package anchor

import (
	"testing"

	"github.com/ziadkadry99/docnav/internal/dom"
)

func newDoc(t *testing.T) *dom.HTMLDocument {
	t.Helper()
	doc, err := dom.Parse(`<html><body><article id="article">
<h2><span id="install"></span>Install</h2>
<h2><span id="usage"></span>Usage</h2>
</article></body></html>`, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestHighlightMarksParentHeading(t *testing.T) {
	doc := newDoc(t)
	h := New(doc)

	h.Highlight("install")
	heading := doc.GetElementByID("install").Parent()
	if !heading.HasClass(HighlightedClass) {
		t.Fatal("heading should be highlighted")
	}
	if doc.GetElementByID("install").HasClass(HighlightedClass) {
		t.Error("the anchor span itself should not carry the marker")
	}
	if h.Current() != heading {
		t.Error("Current() should be the heading")
	}
}

func TestHighlightMovesMarker(t *testing.T) {
	doc := newDoc(t)
	h := New(doc)

	h.Highlight("install")
	h.Highlight("usage")

	if got := len(doc.QueryAll("." + HighlightedClass)); got != 1 {
		t.Fatalf("highlighted elements = %d, want 1", got)
	}
	if !doc.GetElementByID("usage").Parent().HasClass(HighlightedClass) {
		t.Error("usage heading should be highlighted")
	}
}

func TestUnknownIDClears(t *testing.T) {
	doc := newDoc(t)
	h := New(doc)

	h.Highlight("install")
	h.Highlight("nope")
	if got := len(doc.QueryAll("." + HighlightedClass)); got != 0 {
		t.Errorf("highlighted elements = %d, want 0", got)
	}
	if h.Current() != nil {
		t.Error("Current() should be nil")
	}

	h.Highlight("")
	if h.Current() != nil {
		t.Error("empty id should leave nothing highlighted")
	}
}
