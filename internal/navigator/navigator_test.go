package navigator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/loop"
	"github.com/ziadkadry99/docnav/internal/pagecache"
)

const frame = 16 * time.Millisecond

const pageHTML = `<html><head><title>Start</title></head><body>
<div id="three-lines"><span class="icon">menu</span></div>
<div id="get-involved">Get involved</div>
<div class="get-involved-popup"><div class="content">Contribute</div></div>
<div class="sidebar"><div class="scroller"><div class="inner"><ul>
<a href="/docs/intro"><li class="selectable"><span>Intro</span></li></a>
<a href="/docs/guide"><li class="selectable caret"><span>Guide</span></li></a>
<ul class="nested">
<a href="/docs/guide/setup"><li class="selectable"><span>Setup</span></li></a>
</ul>
<a href="https://example.com/"><li class="selectable"><span>Elsewhere</span></li></a>
</ul></div></div></div>
<article id="article"><p>start <a href="/docs/guide">guide</a></p></article>
</body></html>`

type histEntry struct {
	url   string
	state *State
}

type fakeHistory struct {
	entries    []histEntry
	index      int
	ignorePush bool
	popstate   func(*State)
	hashchange func()
	manual     bool
}

func newFakeHistory(url string) *fakeHistory {
	return &fakeHistory{entries: []histEntry{{url: url}}}
}

func (h *fakeHistory) PushState(s *State, url string) {
	if h.ignorePush {
		return
	}
	h.entries = append(h.entries[:h.index+1], histEntry{url: url, state: s})
	h.index++
}

func (h *fakeHistory) ReplaceState(s *State) {
	h.entries[h.index].state = s
}

func (h *fakeHistory) Location() (string, string) {
	t := ParseTarget(h.entries[h.index].url)
	return t.Path, t.Anchor
}

func (h *fakeHistory) OnPopState(fn func(*State)) { h.popstate = fn }
func (h *fakeHistory) OnHashChange(fn func())     { h.hashchange = fn }
func (h *fakeHistory) DisableScrollRestoration()  { h.manual = true }

func (h *fakeHistory) current() histEntry {
	return h.entries[h.index]
}

type fetchCall struct {
	ctx  context.Context
	path string
	done func(*content.Page, error)
}

func (c *fetchCall) succeed(title, body string) {
	c.done(&content.Page{Path: c.path, Title: title, BodyHTML: body}, nil)
}

func (c *fetchCall) fail() {
	c.done(nil, &content.StatusError{Code: 500})
}

type fakeFetcher struct {
	calls []*fetchCall
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string, done func(*content.Page, error)) {
	f.calls = append(f.calls, &fetchCall{ctx: ctx, path: path, done: done})
}

func (f *fakeFetcher) last() *fetchCall {
	return f.calls[len(f.calls)-1]
}

type fixture struct {
	sched   *loop.Manual
	doc     *dom.HTMLDocument
	history *fakeHistory
	fetcher *fakeFetcher
	logs    *bytes.Buffer
	c       *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sched := loop.NewManual()
	doc, err := dom.Parse(pageHTML, sched)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc.SetAutoLayout(dom.LayoutOptions{LineHeight: 20, Width: 300, Viewport: 100})

	logs := &bytes.Buffer{}
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := &fixture{
		sched:   sched,
		doc:     doc,
		history: newFakeHistory("/docs/intro"),
		fetcher: &fakeFetcher{},
		logs:    logs,
	}
	f.c, err = New(doc, f.history, f.fetcher, sched, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func (f *fixture) article() string {
	return f.doc.GetElementByID("article").InnerHTML()
}

func (f *fixture) entry(href string) dom.Element {
	return f.doc.QuerySelector(`.sidebar a[href="` + href + `"] li`)
}

func (f *fixture) page() *dom.Node {
	return f.doc.ScrollingElement().(*dom.Node)
}

func paragraphs(n int) string {
	return strings.Repeat("<p>line</p>", n)
}

func TestNavigateFromCache(t *testing.T) {
	f := newFixture(t)
	f.c.Cache().Put(pagecache.Entry{Path: "/docs/intro", Title: "Intro", BodyHTML: "<h1>Intro</h1>"})

	f.c.Navigate(Target{Path: "/docs/intro"}, true, 0)

	if got := f.doc.Title(); got != "Intro" {
		t.Errorf("title: got %q, want %q", got, "Intro")
	}
	if got := f.article(); got != "<h1>Intro</h1>" {
		t.Errorf("article: got %q, want %q", got, "<h1>Intro</h1>")
	}
	if len(f.history.entries) != 2 || f.history.current().url != "/docs/intro" {
		t.Errorf("history: got %+v, want a pushed entry for /docs/intro", f.history.entries)
	}
	if !f.entry("/docs/intro").HasClass("selected") {
		t.Error("sidebar entry for /docs/intro should be selected")
	}
	if len(f.fetcher.calls) != 0 {
		t.Errorf("fetches: got %d, want 0", len(f.fetcher.calls))
	}
	if f.c.Pending() {
		t.Error("cached navigation should not leave a request pending")
	}
	if st := f.history.current().state; st == nil || st.Path != "/docs/intro" || st.PageYOffset != 0 {
		t.Errorf("saved state: got %+v", st)
	}
}

func TestNavigateFetchesAndCaches(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)

	if !f.c.Pending() {
		t.Fatal("navigation should be pending")
	}
	if len(f.fetcher.calls) != 1 || f.fetcher.last().path != "/docs/guide" {
		t.Fatalf("fetches: got %+v", f.fetcher.calls)
	}
	if pathname, _ := f.history.Location(); pathname != "/docs/guide" {
		t.Errorf("location should update before the content arrives, got %q", pathname)
	}
	if !f.entry("/docs/guide").HasClass("selected") {
		t.Error("sidebar should react before the content arrives")
	}
	if got := f.article(); !strings.Contains(got, "start") {
		t.Errorf("article replaced too early: %q", got)
	}

	f.fetcher.last().succeed("Guide", "<h1>Guide</h1>")
	if got := f.doc.Title(); got != "Guide" {
		t.Errorf("title: got %q", got)
	}
	if got := f.article(); got != "<h1>Guide</h1>" {
		t.Errorf("article: got %q", got)
	}
	if f.c.Pending() {
		t.Error("request should have settled")
	}
	if _, ok := f.c.Cache().Get("/docs/guide"); !ok {
		t.Error("fetched article should be cached")
	}

	f.c.Navigate(ParseTarget("/docs/intro"), true, 0)
	f.fetcher.last().succeed("Intro", "<h1>Intro</h1>")
	f.c.Navigate(ParseTarget("/docs/guide#setup"), true, 0)
	if len(f.fetcher.calls) != 2 {
		t.Errorf("fetches: got %d, want the cached path served locally", len(f.fetcher.calls))
	}
	if got := f.article(); got != "<h1>Guide</h1>" {
		t.Errorf("article: got %q", got)
	}
}

func TestSupersededResponseIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(ParseTarget("/docs/intro"), true, 0)
	a := f.fetcher.last()
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)
	b := f.fetcher.last()

	if !errors.Is(a.ctx.Err(), context.Canceled) {
		t.Errorf("first request context: got %v, want canceled", a.ctx.Err())
	}

	b.succeed("Guide", "<h1>Guide</h1>")
	a.succeed("Intro", "<h1>Intro</h1>")

	if got := f.article(); got != "<h1>Guide</h1>" {
		t.Errorf("article: got %q, want the latest navigation", got)
	}
	if got := f.doc.Title(); got != "Guide" {
		t.Errorf("title: got %q", got)
	}
	if _, ok := f.c.Cache().Get("/docs/intro"); ok {
		t.Error("superseded response must not be cached")
	}
}

func TestSupersededResponseBeforeLatest(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(ParseTarget("/docs/intro"), true, 0)
	a := f.fetcher.last()
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)
	b := f.fetcher.last()

	a.succeed("Intro", "<h1>Intro</h1>")
	if !f.c.Pending() {
		t.Fatal("stale completion must not settle the current request")
	}
	if got := f.article(); strings.Contains(got, "Intro") {
		t.Fatalf("stale completion applied: %q", got)
	}

	b.succeed("Guide", "<h1>Guide</h1>")
	if got := f.article(); got != "<h1>Guide</h1>" {
		t.Errorf("article: got %q", got)
	}
}

func TestSpinnerAfterDelay(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)

	f.sched.Advance(749 * time.Millisecond)
	if f.c.SpinnerShown() {
		t.Fatal("spinner shown before the delay")
	}
	f.sched.Advance(time.Millisecond)
	if !f.c.SpinnerShown() || !strings.Contains(f.article(), "<svg") {
		t.Fatalf("spinner should be shown after 750ms, article %q", f.article())
	}
	if !strings.Contains(f.logs.String(), "navigation: spinner shown") {
		t.Error("spinner should be logged")
	}

	f.fetcher.last().succeed("Guide", "<h1>Guide</h1>")
	if f.c.SpinnerShown() {
		t.Error("spinner should clear on success")
	}
	if got := f.article(); got != "<h1>Guide</h1>" {
		t.Errorf("article: got %q", got)
	}
	if got := f.sched.PendingTimers(); got != 0 {
		t.Errorf("pending timers: got %d, want 0", got)
	}
}

func TestSpinnerClearedOnFailure(t *testing.T) {
	f := newFixture(t)
	before := f.article()
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)
	f.sched.Advance(time.Second)
	if !f.c.SpinnerShown() {
		t.Fatal("spinner should be shown")
	}

	f.fetcher.last().fail()
	if f.c.SpinnerShown() {
		t.Error("spinner should clear on failure")
	}
	if got := f.article(); got != before {
		t.Errorf("article: got %q, want the prior article %q", got, before)
	}
	if f.c.Pending() {
		t.Error("failed request should settle")
	}
	if !strings.Contains(f.logs.String(), "navigation: fetch failed") {
		t.Error("failure should be logged")
	}

	link := f.doc.QuerySelector(`#article a`).(*dom.Node)
	if !link.HasOnClick() {
		t.Error("links in the restored article should be bound")
	}
}

// rejectingArticle fails SetInnerHTML for one fragment.
type rejectingArticle struct {
	dom.Element
	reject string
}

func (a *rejectingArticle) SetInnerHTML(fragment string) error {
	if fragment == a.reject {
		return errors.New("fragment rejected")
	}
	return a.Element.SetInnerHTML(fragment)
}

type rejectingDoc struct {
	*dom.HTMLDocument
	article *rejectingArticle
}

func (d *rejectingDoc) GetElementByID(id string) dom.Element {
	if id == "article" {
		return d.article
	}
	return d.HTMLDocument.GetElementByID(id)
}

func TestSpinnerClearedWhenArticleRejected(t *testing.T) {
	sched := loop.NewManual()
	page, err := dom.Parse(pageHTML, sched)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	page.SetAutoLayout(dom.LayoutOptions{LineHeight: 20, Width: 300, Viewport: 100})
	doc := &rejectingDoc{
		HTMLDocument: page,
		article:      &rejectingArticle{Element: page.GetElementByID("article"), reject: "<p>broken</p>"},
	}
	before := doc.article.InnerHTML()

	logs := &bytes.Buffer{}
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(logs, nil))
	fetcher := &fakeFetcher{}
	c, err := New(doc, newFakeHistory("/docs/intro"), fetcher, sched, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Navigate(ParseTarget("/docs/guide"), true, 0)
	sched.Advance(time.Second)
	if !c.SpinnerShown() {
		t.Fatal("spinner should be shown")
	}

	fetcher.last().succeed("Guide", "<p>broken</p>")
	if c.SpinnerShown() {
		t.Error("spinner should clear when the article cannot be replaced")
	}
	if got := doc.article.InnerHTML(); got != before {
		t.Errorf("article: got %q, want the prior article %q", got, before)
	}
	if c.Pending() {
		t.Error("request should settle")
	}
	if !strings.Contains(logs.String(), "navigation: replacing article") {
		t.Error("the failed replacement should be logged")
	}
}

func TestFailureWithoutSpinnerLeavesArticle(t *testing.T) {
	f := newFixture(t)
	before := f.article()
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)
	f.fetcher.last().fail()

	if got := f.article(); got != before {
		t.Errorf("article: got %q, want %q", got, before)
	}
	if f.c.Cache().Len() != 0 {
		t.Error("failed fetch must not be cached")
	}
	if f.sched.PendingTimers() != 0 {
		t.Error("spinner timer should be stopped")
	}
	f.sched.Advance(time.Second)
	if f.c.SpinnerShown() {
		t.Error("spinner shown after the request settled")
	}
}

func TestSpinnerTimerFollowsCurrentRequest(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(ParseTarget("/docs/intro"), true, 0)
	f.sched.Advance(500 * time.Millisecond)
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)

	if got := f.sched.PendingTimers(); got != 1 {
		t.Fatalf("pending timers: got %d, want only the current request's", got)
	}
	f.sched.Advance(500 * time.Millisecond)
	if f.c.SpinnerShown() {
		t.Fatal("superseded request's timer fired")
	}
	f.sched.Advance(250 * time.Millisecond)
	if !f.c.SpinnerShown() {
		t.Fatal("current request's spinner should show 750ms after it started")
	}
}

func TestSpinnerCarriesAcrossSupersededRequest(t *testing.T) {
	f := newFixture(t)
	before := f.article()
	f.c.Navigate(ParseTarget("/docs/intro"), true, 0)
	f.sched.Advance(time.Second)
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)
	f.sched.Advance(time.Second)

	if !f.c.SpinnerShown() {
		t.Fatal("spinner should stay up while the next request is pending")
	}
	f.fetcher.last().fail()
	if got := f.article(); got != before {
		t.Errorf("article: got %q, want %q", got, before)
	}
}

func TestPopStateRestoresOffset(t *testing.T) {
	f := newFixture(t)
	f.c.Cache().Put(pagecache.Entry{Path: "/docs/intro", Title: "Intro", BodyHTML: paragraphs(30)})

	f.c.HandlePopState(&State{Path: "/docs/intro", PageYOffset: 120})

	if len(f.history.entries) != 1 {
		t.Errorf("history entries: got %d, want no push", len(f.history.entries))
	}
	if got := f.page().ScrollTop(); got != 120 {
		t.Errorf("page offset: got %v, want 120", got)
	}
	if st := f.history.current().state; st == nil || st.PageYOffset != 120 || st.Path != "/docs/intro" {
		t.Errorf("saved state: got %+v", st)
	}
}

func TestPopStateWithoutStateIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.c.HandlePopState(nil)
	if len(f.fetcher.calls) != 0 || f.c.Pending() {
		t.Error("popstate without state should not navigate")
	}
}

func TestPopStateAfterFetchRestoresOffset(t *testing.T) {
	f := newFixture(t)
	f.c.HandlePopState(&State{Path: "/docs/guide", PageYOffset: 60})
	f.history.entries[0].url = "/docs/guide"
	f.fetcher.last().succeed("Guide", paragraphs(30))

	if got := f.page().ScrollTop(); got != 60 {
		t.Errorf("page offset: got %v, want 60", got)
	}
}

func TestForwardAnchorScrollsToHeading(t *testing.T) {
	f := newFixture(t)
	body := paragraphs(5) + `<h2><span id="usage"></span>Usage</h2>` + paragraphs(30)
	f.c.Cache().Put(pagecache.Entry{Path: "/docs/guide", Title: "Guide", BodyHTML: body})

	f.c.Navigate(ParseTarget("/docs/guide#usage"), true, 0)
	heading := f.doc.GetElementByID("usage").Parent()
	if !heading.HasClass("highlighted") {
		t.Fatal("heading should be highlighted")
	}
	if f.history.current().url != "/docs/guide#usage" {
		t.Errorf("pushed url: got %q", f.history.current().url)
	}

	f.sched.RunFrames(frame, 100)
	if got := heading.BoundingClientRect().Top; got != 50 {
		t.Errorf("heading top: got %v, want 50", got)
	}
}

func TestForwardMissingAnchorRestoresOffset(t *testing.T) {
	f := newFixture(t)
	f.c.Cache().Put(pagecache.Entry{Path: "/docs/guide", Title: "Guide", BodyHTML: paragraphs(30)})
	f.page().SetScrollTop(200)

	f.c.Navigate(ParseTarget("/docs/guide#nowhere"), true, 0)
	if got := f.page().ScrollTop(); got != 0 {
		t.Errorf("page offset: got %v, want 0", got)
	}
	if f.c.Scroller().Active() != 0 {
		t.Error("no animation expected for a missing anchor")
	}
}

func TestLocationDesyncIsLogged(t *testing.T) {
	f := newFixture(t)
	f.history.ignorePush = true
	f.c.Navigate(ParseTarget("/docs/guide"), true, 0)

	out := f.logs.String()
	if !strings.Contains(out, "navigation: location out of sync") || !strings.Contains(out, "location=/docs/intro") {
		t.Errorf("desync not logged: %q", out)
	}
}

func TestNewRequiresSidebarAndArticle(t *testing.T) {
	doc, err := dom.Parse(`<html><body><div class="sidebar"></div></body></html>`, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := New(doc, newFakeHistory("/"), &fakeFetcher{}, loop.NewManual(), DefaultOptions()); err == nil {
		t.Error("expected an error for a page without an article")
	}

	opts := DefaultOptions()
	opts.LinkPatterns = []string{"/docs/[**"}
	doc, _ = dom.Parse(pageHTML, nil)
	if _, err := New(doc, newFakeHistory("/"), &fakeFetcher{}, loop.NewManual(), opts); err == nil {
		t.Error("expected an error for an invalid link pattern")
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in           string
		path, anchor string
	}{
		{"/docs/intro", "/docs/intro", ""},
		{"/docs/intro#usage", "/docs/intro", "usage"},
		{"/docs/intro#a#b", "/docs/intro", "a#b"},
		{"#top", "", "top"},
	}
	for _, tt := range tests {
		got := ParseTarget(tt.in)
		if got.Path != tt.path || got.Anchor != tt.anchor {
			t.Errorf("ParseTarget(%q): got %+v", tt.in, got)
		}
		if got.String() != tt.in {
			t.Errorf("String(): got %q, want %q", got.String(), tt.in)
		}
	}
}

func TestLinkMatcher(t *testing.T) {
	m, err := NewLinkMatcher([]string{"/docs/**", "/api/*.html"})
	if err != nil {
		t.Fatalf("NewLinkMatcher: %v", err)
	}
	tests := []struct {
		href string
		want bool
	}{
		{"/docs/intro", true},
		{"/docs/guide/setup#install", true},
		{"/api/index.html", true},
		{"/api/v1/index.html", false},
		{"/blog/post", false},
		{"https://example.com/docs/intro", false},
		{"#local", false},
	}
	for _, tt := range tests {
		if got := m.Match(tt.href); got != tt.want {
			t.Errorf("Match(%q): got %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestDefaultLinkPatternsNeedDocsPrefix(t *testing.T) {
	m, err := NewLinkMatcher(DefaultOptions().LinkPatterns)
	if err != nil {
		t.Fatalf("NewLinkMatcher: %v", err)
	}
	tests := []struct {
		href string
		want bool
	}{
		{"/docs/", true},
		{"/docs/intro", true},
		{"/docs/guide/setup#install", true},
		{"/docs", false},
		{"/docs#top", false},
		{"/docsfoo", false},
		{"/", false},
	}
	for _, tt := range tests {
		if got := m.Match(tt.href); got != tt.want {
			t.Errorf("Match(%q): got %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestHitBoxRect(t *testing.T) {
	got := DefaultCaretHitBox.Rect(dom.Rect{Left: 100, Top: 40, Right: 160, Bottom: 60})
	want := dom.Rect{Left: 73, Top: 33, Right: 100, Bottom: 60}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
