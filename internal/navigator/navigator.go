// Package navigator loads documentation articles in place.
//
// A Controller intercepts clicks on in-site links, fetches the article
// fragment for the destination, swaps it into the page and keeps the
// session history, the sidebar table of contents and the scroll position in
// step. At most one fetch is outstanding: starting a navigation cancels the
// previous one, and a completion that is no longer current is discarded.
//
// All methods must be called from the scheduler's loop.
package navigator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/docnav/internal/anchor"
	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/loop"
	"github.com/ziadkadry99/docnav/internal/pagecache"
	"github.com/ziadkadry99/docnav/internal/popup"
	"github.com/ziadkadry99/docnav/internal/scroll"
	"github.com/ziadkadry99/docnav/internal/toc"
)

// Controller orchestrates navigation for one page session.
type Controller struct {
	doc     dom.Document
	history History
	fetcher Fetcher
	sched   loop.Scheduler
	opts    Options
	logger  *slog.Logger

	sidebar dom.Element
	article dom.Element
	links   *LinkMatcher

	cache   *pagecache.Cache
	scroll  *scroll.Animator
	toc     *toc.Synchronizer
	anchors *anchor.Highlighter
	popups  *popup.Manager

	current *request
	// beforeSpinner holds the article markup replaced by the spinner while
	// the spinner is on screen.
	beforeSpinner *string
}

// request is one in-flight fetch. Its identity is the cancellation token:
// only the request still referenced by Controller.current may apply.
type request struct {
	target        Target
	forward       bool
	restoreOffset float64
	cancel        context.CancelFunc
	stopSpinner   func() bool
}

// New creates a Controller for doc. The sidebar and article must exist.
func New(doc dom.Document, history History, fetcher Fetcher, sched loop.Scheduler, opts Options) (*Controller, error) {
	opts.fill()

	sidebar := doc.QuerySelector(opts.SidebarSelector)
	if sidebar == nil {
		return nil, fmt.Errorf("sidebar %q not found", opts.SidebarSelector)
	}
	article := doc.GetElementByID(opts.ArticleID)
	if article == nil {
		return nil, fmt.Errorf("article #%s not found", opts.ArticleID)
	}
	links, err := NewLinkMatcher(opts.LinkPatterns)
	if err != nil {
		return nil, err
	}

	container := sidebar.FirstElementChild()
	if container == nil {
		container = sidebar
	}
	animator := scroll.New(sched, doc.ViewportHeight, opts.Scroll)

	return &Controller{
		doc:     doc,
		history: history,
		fetcher: fetcher,
		sched:   sched,
		opts:    opts,
		logger:  opts.Logger,
		sidebar: sidebar,
		article: article,
		links:   links,
		cache:   pagecache.New(opts.CacheCapacity),
		scroll:  animator,
		toc:     toc.New(sidebar, container, animator, sched, opts.CollapseDuration),
		anchors: anchor.New(doc),
		popups:  popup.New(doc),
	}, nil
}

// Navigate shows the article for target. A forward navigation pushes a
// history entry and, if target names an anchor, scrolls to it; otherwise the
// page is scrolled to restoreOffset once the article is in place.
func (c *Controller) Navigate(target Target, forward bool, restoreOffset float64) {
	c.abort()

	if forward {
		c.history.PushState(nil, target.String())
	}
	if pathname, _ := c.history.Location(); pathname != target.Path {
		c.logger.Warn("navigation: location out of sync", "location", pathname, "path", target.Path)
	}

	c.toc.Select(target.Path)

	if entry, ok := c.cache.Get(target.Path); ok {
		c.apply(target, forward, restoreOffset, entry)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &request{
		target:        target,
		forward:       forward,
		restoreOffset: restoreOffset,
		cancel:        cancel,
	}
	c.current = r
	r.stopSpinner = c.sched.AfterFunc(c.opts.SpinnerDelay, func() { c.showSpinner(r) })
	c.fetcher.Fetch(ctx, target.Path, func(page *content.Page, err error) {
		c.complete(r, page, err)
	})
}

// abort cancels the in-flight request, if any.
func (c *Controller) abort() {
	r := c.current
	if r == nil {
		return
	}
	c.current = nil
	r.stopSpinner()
	r.cancel()
}

func (c *Controller) showSpinner(r *request) {
	if c.current != r || c.beforeSpinner != nil {
		return
	}
	prior := c.article.InnerHTML()
	if err := c.article.SetInnerHTML(c.opts.SpinnerHTML); err != nil {
		c.logger.Error("navigation: showing spinner", "error", err)
		return
	}
	c.beforeSpinner = &prior
	c.logger.Debug("navigation: spinner shown", "path", r.target.Path)
}

func (c *Controller) complete(r *request, page *content.Page, err error) {
	if c.current != r {
		return
	}
	c.current = nil
	r.stopSpinner()
	r.cancel()

	if err != nil {
		c.logger.Warn("navigation: fetch failed", "path", r.target.Path, "error", err)
		c.clearSpinner()
		return
	}

	entry := pagecache.Entry{Path: r.target.Path, Title: page.Title, BodyHTML: page.BodyHTML}
	c.apply(r.target, r.forward, r.restoreOffset, entry)
	c.cache.Put(entry)
}

// clearSpinner puts back the article the spinner replaced.
func (c *Controller) clearSpinner() {
	if c.beforeSpinner == nil {
		return
	}
	prior := *c.beforeSpinner
	c.beforeSpinner = nil
	if err := c.article.SetInnerHTML(prior); err != nil {
		c.logger.Error("navigation: restoring article", "error", err)
		return
	}
	c.BindLinks(c.article)
}

func (c *Controller) apply(target Target, forward bool, restoreOffset float64, entry pagecache.Entry) {
	c.doc.SetTitle(entry.Title)
	if err := c.article.SetInnerHTML(entry.BodyHTML); err != nil {
		c.logger.Error("navigation: replacing article", "path", entry.Path, "error", err)
		c.clearSpinner()
		return
	}
	c.beforeSpinner = nil
	c.BindLinks(c.article)

	page := c.doc.ScrollingElement()
	if target.Anchor != "" {
		c.anchors.Highlight(target.Anchor)
	}
	if heading := c.anchors.Current(); forward && target.Anchor != "" && heading != nil {
		c.scroll.ScrollIntoView(page, heading, true)
	} else if page != nil {
		page.SetScrollTop(restoreOffset)
	}
	c.SavePageState()
}

// SavePageState records the current location and page offset in the
// current history entry.
func (c *Controller) SavePageState() {
	pathname, fragment := c.history.Location()
	var offset float64
	if page := c.doc.ScrollingElement(); page != nil {
		offset = page.ScrollTop()
	}
	c.history.ReplaceState(&State{
		Path:        Target{Path: pathname, Anchor: fragment}.String(),
		PageYOffset: offset,
	})
}

// HandlePopState replays a history entry reached by back or forward.
// Entries without state are left to the host.
func (c *Controller) HandlePopState(state *State) {
	if state == nil {
		return
	}
	c.popups.Cancel()
	c.Navigate(ParseTarget(state.Path), false, state.PageYOffset)
}

// HandleHashChange highlights the heading named by the current fragment.
func (c *Controller) HandleHashChange() {
	_, fragment := c.history.Location()
	c.anchors.Highlight(fragment)
}

// Pending reports whether a fetch is in flight.
func (c *Controller) Pending() bool {
	return c.current != nil
}

// SpinnerShown reports whether the loading spinner occupies the article.
func (c *Controller) SpinnerShown() bool {
	return c.beforeSpinner != nil
}

// Cache returns the article cache.
func (c *Controller) Cache() *pagecache.Cache { return c.cache }

// TOC returns the sidebar synchronizer.
func (c *Controller) TOC() *toc.Synchronizer { return c.toc }

// Popups returns the popup manager.
func (c *Controller) Popups() *popup.Manager { return c.popups }

// Anchors returns the heading highlighter.
func (c *Controller) Anchors() *anchor.Highlighter { return c.anchors }

// Scroller returns the scroll animator.
func (c *Controller) Scroller() *scroll.Animator { return c.scroll }

// Sidebar returns the sidebar element.
func (c *Controller) Sidebar() dom.Element { return c.sidebar }

// Article returns the article element.
func (c *Controller) Article() dom.Element { return c.article }

// Links returns the in-site link matcher.
func (c *Controller) Links() *LinkMatcher { return c.links }
