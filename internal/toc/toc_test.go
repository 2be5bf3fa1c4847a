package toc

import (
	"testing"
	"time"

	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/loop"
)

const sidebarHTML = `<html><body><div class="sidebar"><div class="scroller"><div class="inner"><ul>
<a href="/docs/intro"><li class="selectable"><span>Intro</span></li></a>
<a href="/docs/guide"><li class="selectable caret"><span>Guide</span></li></a>
<ul class="nested">
<a href="/docs/guide/setup"><li class="selectable"><span>Setup</span></li></a>
<li class="selectable caret"><span>Advanced</span></li>
<ul class="nested">
<a href="/docs/guide/advanced/tuning"><li class="selectable"><span>Tuning</span></li></a>
</ul>
</ul>
</ul></div></div></div></body></html>`

type scrollCall struct {
	container, item dom.Element
	alignToTop      bool
}

type recordingScroller struct {
	calls []scrollCall
}

func (r *recordingScroller) ScrollIntoView(container, item dom.Element, alignToTop bool) {
	r.calls = append(r.calls, scrollCall{container, item, alignToTop})
}

type fixture struct {
	sched    *loop.Manual
	doc      *dom.HTMLDocument
	scroller *recordingScroller
	toc      *Synchronizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sched := loop.NewManual()
	doc, err := dom.Parse(sidebarHTML, sched)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sidebar := doc.QuerySelector(".sidebar")
	rec := &recordingScroller{}
	return &fixture{
		sched:    sched,
		doc:      doc,
		scroller: rec,
		toc:      New(sidebar, sidebar.FirstElementChild(), rec, sched, 0),
	}
}

func (f *fixture) entry(href string) dom.Element {
	return f.doc.QuerySelector(`a[href="` + href + `"] li`)
}

func (f *fixture) marked(class string) []dom.Element {
	return f.doc.QueryAll("." + class)
}

func TestSelectMarksAndExpands(t *testing.T) {
	f := newFixture(t)
	f.toc.Select("/docs/guide/advanced/tuning")

	tuning := f.entry("/docs/guide/advanced/tuning")
	if !tuning.HasClass(SelectedClass) {
		t.Fatal("tuning entry should be selected")
	}
	if f.toc.Selected() != tuning {
		t.Error("Selected() should be the tuning entry")
	}

	for _, group := range f.doc.QueryAll("ul.nested") {
		if !group.HasClass(ActiveClass) {
			t.Errorf("enclosing group %q should be expanded", group.Attr("class"))
		}
	}
	if got := len(f.marked(CaretDownClass)); got != 2 {
		t.Errorf("carets down = %d, want 2", got)
	}
	for _, caret := range f.doc.QueryAll(".caret") {
		if !caret.HasClass(CaretDownClass) {
			t.Errorf("caret %q should point down", caret.Attr("class"))
		}
	}

	if len(f.scroller.calls) != 1 {
		t.Fatalf("scroll calls = %d, want 1", len(f.scroller.calls))
	}
	call := f.scroller.calls[0]
	if call.item != tuning || call.alignToTop {
		t.Errorf("scroll call = %+v, want minimal scroll to tuning", call)
	}
	if call.container != f.doc.QuerySelector(".scroller") {
		t.Error("scroll container should be the sidebar scroller")
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.toc.Select("/docs/guide/setup")
	first := f.toc.Selected()
	active := len(f.marked(ActiveClass))
	down := len(f.marked(CaretDownClass))

	f.toc.Select("/docs/guide/setup")
	if f.toc.Selected() != first {
		t.Error("second Select chose a different entry")
	}
	if got := len(f.marked(SelectedClass)); got != 1 {
		t.Errorf("selected entries = %d, want 1", got)
	}
	if got := len(f.marked(ActiveClass)); got != active {
		t.Errorf("expanded groups = %d, want %d", got, active)
	}
	if got := len(f.marked(CaretDownClass)); got != down {
		t.Errorf("carets down = %d, want %d", got, down)
	}
}

func TestSelectMovesSelection(t *testing.T) {
	f := newFixture(t)
	f.toc.Select("/docs/guide/setup")
	f.toc.Select("/docs/intro")

	if got := len(f.marked(SelectedClass)); got != 1 {
		t.Fatalf("selected entries = %d, want 1", got)
	}
	if !f.entry("/docs/intro").HasClass(SelectedClass) {
		t.Error("intro should be selected")
	}
}

func TestSelectUnknownPathClears(t *testing.T) {
	f := newFixture(t)
	f.toc.Select("/docs/intro")
	f.toc.Select("/docs/not-indexed")

	if f.toc.Selected() != nil {
		t.Error("Selected() should be nil")
	}
	if got := len(f.marked(SelectedClass)); got != 0 {
		t.Errorf("selected entries = %d, want 0", got)
	}
	if len(f.scroller.calls) != 1 {
		t.Errorf("scroll calls = %d, want only the first selection", len(f.scroller.calls))
	}
}

func TestAdopt(t *testing.T) {
	f := newFixture(t)
	f.entry("/docs/intro").AddClass(SelectedClass)
	f.toc.Adopt()
	f.toc.Select("/docs/guide")
	if f.entry("/docs/intro").HasClass(SelectedClass) {
		t.Error("adopted selection should be cleared by the next Select")
	}
}

func TestGroupOf(t *testing.T) {
	f := newFixture(t)
	linked := f.entry("/docs/guide")
	if g := GroupOf(linked); g == nil || !g.HasClass("nested") {
		t.Errorf("GroupOf(linked caret) = %v, want nested list", g)
	}
	unlinked := f.doc.QueryAll(".caret")[1]
	if g := GroupOf(unlinked); g == nil || g.Query(`a[href="/docs/guide/advanced/tuning"]`) == nil {
		t.Errorf("GroupOf(unlinked caret) = %v, want the tuning list", g)
	}
}

func TestToggleOpenThenClose(t *testing.T) {
	f := newFixture(t)
	caret := f.entry("/docs/guide")
	group := GroupOf(caret).(*dom.Node)
	group.SetScrollHeight(120)

	f.toc.Toggle(caret)
	if !caret.HasClass(CaretDownClass) || !group.HasClass(ActiveClass) {
		t.Fatal("open should mark caret and group")
	}
	if got := group.Style("height"); got != "120px" {
		t.Errorf("height during open = %q, want 120px", got)
	}
	if got := group.Style("transition"); got != "height 0.15s ease-out" {
		t.Errorf("transition = %q", got)
	}

	f.sched.Advance(150 * time.Millisecond)
	if got := group.Attr("style"); got != "" {
		t.Errorf("style after open = %q, want cleared", got)
	}
	if got := group.ListenerCount("transitionend"); got != 0 {
		t.Errorf("transitionend listeners = %d, want 0", got)
	}

	f.toc.Toggle(caret)
	if caret.HasClass(CaretDownClass) || group.HasClass(ActiveClass) {
		t.Fatal("close should clear caret and group markers")
	}
	if got := group.Style("height"); got != "120px" {
		t.Errorf("height before transition = %q, want 120px", got)
	}
	if got := group.Style("display"); got != "block" {
		t.Errorf("display during close = %q, want block", got)
	}

	f.sched.Frame()
	if got := group.Style("transition"); got != "height 0.15s ease-out" {
		t.Errorf("transition after first frame = %q", got)
	}
	f.sched.Frame()
	if got := group.Style("height"); got != "0px" {
		t.Errorf("height after second frame = %q, want 0px", got)
	}

	f.sched.Advance(150 * time.Millisecond)
	if got := group.Attr("style"); got != "" {
		t.Errorf("style after close = %q, want cleared", got)
	}
	if got := group.ListenerCount("transitionend"); got != 0 {
		t.Errorf("transitionend listeners = %d, want 0", got)
	}
}

func TestBindTogglesRespondsToClicks(t *testing.T) {
	f := newFixture(t)
	f.toc.BindToggles()

	caret := f.doc.QueryAll(".caret")[1]
	f.doc.Click(caret, 0, 0)
	if !caret.HasClass(CaretDownClass) {
		t.Error("clicking the caret should open its group")
	}
}
