// Package terminal implements docnav's interactive terminal client. A
// Browser loads a documentation page into the headless document, boots the
// navigation engine on it and renders the result as text.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/history"
	"github.com/ziadkadry99/docnav/internal/loop"
	"github.com/ziadkadry99/docnav/internal/navigator"
	"github.com/ziadkadry99/docnav/internal/popup"
	"github.com/ziadkadry99/docnav/internal/toc"
)

// ErrNoMenuButton is returned by ToggleSidebar when the page has no menu
// button.
var ErrNoMenuButton = errors.New("page has no menu button")

// Options configures a Browser.
type Options struct {
	Navigator navigator.Options
	Layout    dom.LayoutOptions
	Width     int
}

// Browser is one page session in the terminal. Its methods must run on the
// scheduler's loop, like the controller it drives.
type Browser struct {
	doc      *dom.HTMLDocument
	session  *history.Session
	nav      *navigator.Controller
	opts     Options
	renderer *Renderer
	logger   *slog.Logger
}

// LoadDocument fetches the full page the session is positioned at.
func LoadDocument(ctx context.Context, client *content.Client, session *history.Session) (string, error) {
	pathname, _ := session.Location()
	src, err := client.FetchDocument(ctx, pathname)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", pathname, err)
	}
	return src, nil
}

// New builds the page from src and boots the navigation engine on it. When
// the session's current entry carries a saved state, its scroll offset is
// restored.
func New(src string, session *history.Session, fetcher navigator.Fetcher, sched loop.Scheduler, opts Options) (*Browser, error) {
	doc, err := dom.Parse(src, sched)
	if err != nil {
		return nil, err
	}
	layout := opts.Layout
	if layout.Hidden == nil {
		layout.Hidden = Hidden(opts.Navigator)
	}
	doc.SetAutoLayout(layout)

	nav, err := navigator.New(doc, session, fetcher, sched, opts.Navigator)
	if err != nil {
		return nil, err
	}
	logger := opts.Navigator.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Browser{
		doc:      doc,
		session:  session,
		nav:      nav,
		opts:     opts,
		renderer: &Renderer{Width: opts.Width},
		logger:   logger,
	}
	nav.Boot()

	if state := session.Current().State; state != nil {
		if se := doc.ScrollingElement(); se != nil {
			se.SetScrollTop(state.PageYOffset)
		}
	}
	return b, nil
}

// Hidden returns the layout visibility rules of the documentation theme:
// popups take no space until expanded and closed sidebar groups collapse.
func Hidden(opts navigator.Options) func(dom.Element) bool {
	sidebar := strings.TrimPrefix(opts.SidebarSelector, ".")
	menu := strings.TrimPrefix(opts.GetInvolvedMenu, ".")
	return func(e dom.Element) bool {
		if e.HasClass(popup.ExpandedClass) || e.ID() == opts.ArticleID {
			return false
		}
		if e.HasClass(sidebar) || e.HasClass(menu) {
			return true
		}
		return collapsedGroup(e)
	}
}

// Document returns the headless page.
func (b *Browser) Document() *dom.HTMLDocument { return b.doc }

// Controller returns the navigation engine driving the page.
func (b *Browser) Controller() *navigator.Controller { return b.nav }

// Session returns the page's history.
func (b *Browser) Session() *history.Session { return b.session }

// Busy reports whether a fetch or a scroll animation is still running.
func (b *Browser) Busy() bool {
	return b.nav.Pending() || b.nav.Scroller().Active() > 0
}

// Links returns the numbered links of the page: the visible sidebar
// entries followed by the links of the article.
func (b *Browser) Links() []Link {
	var links []Link
	add := func(el dom.Element) {
		href := el.Attr("href")
		if href == "" {
			return
		}
		links = append(links, Link{
			Index:   len(links) + 1,
			Text:    collapse(selection(el).Text()),
			Href:    href,
			InSite:  b.nav.Links().Match(href),
			Element: el,
		})
	}
	sidebar := b.nav.Sidebar()
	for _, a := range sidebar.QueryAll("a[href]") {
		if tocVisible(b.doc, a.(*dom.Node).HTML(), sidebar) {
			add(a)
		}
	}
	for _, a := range b.nav.Article().QueryAll("a[href]") {
		add(a)
	}
	return links
}

// Groups returns the visible collapsible sidebar entries.
func (b *Browser) Groups() []Group {
	sidebar := b.nav.Sidebar()
	var groups []Group
	for _, caret := range sidebar.QueryAll("." + toc.CaretClass) {
		if !tocVisible(b.doc, caret.(*dom.Node).HTML(), sidebar) {
			continue
		}
		groups = append(groups, Group{
			Label: inlineText(selection(caret), nil),
			Open:  caret.HasClass(toc.CaretDownClass),
			Caret: caret,
		})
	}
	return groups
}

// Follow clicks link. It reports whether the engine took the click; links
// it leaves alone would be followed by a full page load.
func (b *Browser) Follow(link Link) bool {
	box := link.Element.BoundingClientRect()
	taken := b.doc.Click(link.Element, box.Left+1, box.Top+1)
	if !taken {
		b.logger.Debug("terminal: link left to the host", "href", link.Href)
	}
	return taken
}

// ToggleGroup clicks the caret glyph of g.
func (b *Browser) ToggleGroup(g Group) {
	var x, y float64
	if label := g.Caret.Query("span"); label != nil {
		hit := b.opts.Navigator.CaretHitBox.Rect(label.BoundingClientRect())
		x, y = (hit.Left+hit.Right)/2, (hit.Top+hit.Bottom)/2
	}
	b.doc.Click(g.Caret, x, y)
}

// ToggleSidebar clicks the menu button that shows the sidebar as a popup.
func (b *Browser) ToggleSidebar() error {
	button := b.doc.GetElementByID(b.opts.Navigator.MenuButtonID)
	if button == nil {
		return ErrNoMenuButton
	}
	b.doc.Click(button, 0, 0)
	return nil
}

// Back moves one entry back in the session history.
func (b *Browser) Back() error {
	return b.session.Back()
}

// Forward moves one entry forward in the session history.
func (b *Browser) Forward() error {
	return b.session.Forward()
}

// ScrollBy moves the page scroll position by delta pixels.
func (b *Browser) ScrollBy(delta float64) {
	se := b.doc.ScrollingElement()
	if se == nil {
		return
	}
	se.SetScrollTop(se.ScrollTop() + delta)
}

// ScrollPage moves the page by pages viewports, keeping one line of context.
func (b *Browser) ScrollPage(pages float64) {
	step := b.doc.ViewportHeight() - b.opts.Layout.LineHeight
	if step <= 0 {
		step = b.doc.ViewportHeight()
	}
	b.ScrollBy(pages * step)
}

// Render writes the page: title and location, the table of contents, the
// visible part of the article and the scroll position.
func (b *Browser) Render(w io.Writer) {
	links := b.Links()
	numbers := make(map[*html.Node]int, len(links))
	for _, l := range links {
		numbers[l.Element.(*dom.Node).HTML()] = l.Index
	}

	pathname, fragment := b.session.Location()
	location := pathname
	if fragment != "" {
		location += "#" + fragment
	}
	fmt.Fprintf(w, "%s  (%s)\n\n", b.doc.Title(), location)

	if b.nav.Popups().Open() == b.nav.Sidebar() {
		fmt.Fprintln(w, "[menu]")
	}
	b.renderer.Sidebar(w, b.doc, b.nav.Sidebar(), numbers)
	fmt.Fprintln(w)

	if b.nav.SpinnerShown() {
		fmt.Fprintln(w, "  Loading...")
	} else {
		b.renderer.Article(w, b.doc, b.nav.Article(), numbers)
	}

	if se := b.doc.ScrollingElement(); se != nil {
		max := se.ScrollHeight() - se.ClientHeight()
		fmt.Fprintf(w, "\n-- %.0f/%.0f --\n", se.ScrollTop(), max)
	}
}
