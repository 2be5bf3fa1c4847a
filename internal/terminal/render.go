package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/docnav/internal/anchor"
	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/toc"
)

// DefaultWidth is the wrap width used when none is configured or detected.
const DefaultWidth = 80

// Markers drawn in front of sidebar entries and article lines.
const (
	markSelected    = "*"
	markHighlighted = ">"
	markOpen        = "v"
	markClosed      = ">"
)

var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "code": true, "em": true,
	"i": true, "img": true, "kbd": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true,
}

var skipped = map[string]bool{
	"head": true, "script": true, "style": true, "title": true, "svg": true,
}

// Link is a numbered link of the rendered page.
type Link struct {
	Index   int
	Text    string
	Href    string
	InSite  bool
	Element dom.Element
}

// Group is a collapsible sidebar entry.
type Group struct {
	Label string
	Open  bool
	Caret dom.Element
}

// Renderer draws a headless page as wrapped text.
type Renderer struct {
	Width int
}

type line struct {
	el     dom.Element
	prefix string
	text   string
	pre    bool
}

func (r *Renderer) width() int {
	if r.Width > 0 {
		return r.Width
	}
	return DefaultWidth
}

// Sidebar writes the visible table of contents entries.
func (r *Renderer) Sidebar(w io.Writer, doc *dom.HTMLDocument, sidebar dom.Element, numbers map[*html.Node]int) {
	sel := selection(sidebar)
	if sel == nil {
		return
	}
	sel.Find("li").Each(func(_ int, li *goquery.Selection) {
		if !tocVisible(doc, li.Get(0), sidebar) {
			return
		}
		el := doc.Wrap(li.Get(0))
		label := inlineText(li, nil)
		if label == "" {
			return
		}

		mark := " "
		if el.HasClass(toc.SelectedClass) {
			mark = markSelected
		}
		caret := " "
		if el.HasClass(toc.CaretClass) {
			caret = markClosed
			if el.HasClass(toc.CaretDownClass) {
				caret = markOpen
			}
		}
		a := li.Closest("a[href]")
		if a.Length() == 0 {
			a = li.ChildrenFiltered("a[href]").First()
		}
		if a.Length() > 0 {
			if n, ok := numbers[a.Get(0)]; ok {
				label = fmt.Sprintf("%s [%d]", label, n)
			}
		}

		indent := strings.Repeat("  ", depth(li.Get(0), sidebar))
		prefix := mark + caret + " " + indent
		r.write(w, prefix, strings.Repeat(" ", runewidth.StringWidth(prefix)), label)
	})
}

// Article writes the lines of root that intersect the viewport.
func (r *Renderer) Article(w io.Writer, doc *dom.HTMLDocument, root dom.Element, numbers map[*html.Node]int) {
	sel := selection(root)
	if sel == nil {
		return
	}
	var lines []line
	r.collect(doc, sel, numbers, &lines)

	viewport := doc.ViewportHeight()
	for _, l := range lines {
		box := l.el.BoundingClientRect()
		if box.Height() <= 0 || box.Bottom <= 0 || (viewport > 0 && box.Top >= viewport) {
			continue
		}
		if l.pre {
			for _, s := range strings.Split(strings.TrimRight(l.text, "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", runewidth.Truncate(s, r.width()-4, "…"))
			}
			continue
		}
		mark := "  "
		if l.el.HasClass(anchor.HighlightedClass) {
			mark = markHighlighted + " "
		}
		prefix := mark + l.prefix
		r.write(w, prefix, strings.Repeat(" ", runewidth.StringWidth(prefix)), l.text)
	}
}

// collect mirrors the headless block flow: an element with text of its own
// is one line including its inline children, other elements contribute
// their children.
func (r *Renderer) collect(doc *dom.HTMLDocument, s *goquery.Selection, numbers map[*html.Node]int, out *[]line) {
	n := s.Get(0)
	if n.Type != html.ElementNode || skipped[n.Data] {
		return
	}
	el := doc.Wrap(n)
	if strings.EqualFold(el.Style("display"), "none") {
		return
	}
	if n.Data == "pre" {
		*out = append(*out, line{el: el, text: s.Text(), pre: true})
		return
	}

	own := hasOwnText(n)
	if own {
		text := inlineText(s, numbers)
		if i, ok := numbers[n]; ok {
			text += fmt.Sprintf("[%d]", i)
		}
		*out = append(*out, line{el: el, prefix: prefixOf(n), text: text})
	}
	s.Children().Each(func(_ int, c *goquery.Selection) {
		if own && inline[goquery.NodeName(c)] {
			return
		}
		r.collect(doc, c, numbers, out)
	})
}

func (r *Renderer) write(w io.Writer, first, rest, text string) {
	for i, l := range wrap(text, r.width()-runewidth.StringWidth(first)) {
		if i == 0 {
			fmt.Fprintf(w, "%s%s\n", first, l)
		} else {
			fmt.Fprintf(w, "%s%s\n", rest, l)
		}
	}
}

func prefixOf(n *html.Node) string {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return strings.Repeat("#", int(n.Data[1]-'0')) + " "
	case "li":
		return "- "
	case "blockquote":
		return "| "
	}
	return ""
}

// inlineText returns the text of s on its own line, with link numbers
// appended to numbered links.
func inlineText(s *goquery.Selection, numbers map[*html.Node]int) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				b.WriteString(c.Data)
			case c.Type == html.ElementNode && c.Data == "br":
				b.WriteString(" ")
			case c.Type == html.ElementNode && inline[c.Data]:
				walk(c)
				if i, ok := numbers[c]; ok {
					fmt.Fprintf(&b, "[%d]", i)
				}
			}
		}
	}
	walk(s.Get(0))
	return collapse(b.String())
}

// wrap breaks text into lines of at most width cells at spaces. Words wider
// than width get a line of their own.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += ww
	}
	if curWidth > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasOwnText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

func selection(el dom.Element) *goquery.Selection {
	nd, ok := el.(*dom.Node)
	if !ok || nd == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(nd.HTML()).Selection
}

// depth counts the lists between n and the sidebar's outermost list.
func depth(n *html.Node, sidebar dom.Element) int {
	root := sidebar.(*dom.Node).HTML()
	d := -1
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "ul" {
			d++
		}
	}
	if d < 0 {
		return 0
	}
	return d
}

// tocVisible reports whether every group enclosing n is open.
func tocVisible(doc *dom.HTMLDocument, n *html.Node, sidebar dom.Element) bool {
	root := sidebar.(*dom.Node).HTML()
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.Type != html.ElementNode || p.Data != "ul" {
			continue
		}
		if collapsedGroup(doc.Wrap(p)) {
			return false
		}
	}
	return true
}

// collapsedGroup reports whether el is a nested sidebar list that is
// closed and not in the middle of a transition.
func collapsedGroup(el dom.Element) bool {
	if el == nil || el.TagName() != "ul" {
		return false
	}
	parent := el.Parent()
	if parent == nil || parent.TagName() != "ul" {
		return false
	}
	return !el.HasClass(toc.ActiveClass) && el.Style("display") != "block"
}
