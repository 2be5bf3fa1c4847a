package navigator

import "github.com/ziadkadry99/docnav/internal/dom"

// HighlightClass marks the menu button while the pointer is over it.
const HighlightClass = "highlight"

// Boot wires the controller into a freshly loaded page: it binds links,
// group toggles and popup triggers, highlights the fragment of the initial
// location and subscribes to scroll and history events.
func (c *Controller) Boot() {
	if r, ok := c.history.(ScrollRestorer); ok {
		r.DisableScrollRestoration()
	}

	c.HandleHashChange()
	c.toc.BindToggles()

	if button := c.doc.GetElementByID(c.opts.GetInvolvedID); button != nil {
		button.AddEventListener("click", func(*dom.Event) {
			c.popups.Toggle(button, c.doc.QuerySelector(c.opts.GetInvolvedMenu))
		})
	}

	if button := c.doc.GetElementByID(c.opts.MenuButtonID); button != nil {
		button.AddEventListener("click", func(*dom.Event) {
			c.ToggleSidebar(button)
		})
		button.AddEventListener("mouseover", func(*dom.Event) {
			if icon := button.FirstElementChild(); icon != nil {
				icon.AddClass(HighlightClass)
			}
		})
		button.AddEventListener("mouseout", func(*dom.Event) {
			if icon := button.FirstElementChild(); icon != nil {
				icon.RemoveClass(HighlightClass)
			}
		})
	}

	c.BindLinks(c.sidebar)
	c.BindLinks(c.article)
	c.toc.Adopt()

	c.doc.AddEventListener("scroll", func(*dom.Event) { c.SavePageState() })
	if src, ok := c.history.(HashChangeSource); ok {
		src.OnHashChange(c.HandleHashChange)
	}
	if src, ok := c.history.(PopStateSource); ok {
		src.OnPopState(c.HandlePopState)
	}
}

// ToggleSidebar shows or hides the sidebar as a popup anchored at button.
// Showing it reveals the entry for the current location.
func (c *Controller) ToggleSidebar(button dom.Element) bool {
	if !c.popups.Toggle(button, c.sidebar) {
		return false
	}
	pathname, _ := c.history.Location()
	c.toc.Select(pathname)
	return true
}

// BindLinks routes clicks on in-site links under root through the
// controller. Binding replaces any handler installed earlier, so a subtree
// may be bound more than once.
func (c *Controller) BindLinks(root dom.Element) {
	for _, a := range root.QueryAll("a[href]") {
		href := a.Attr("href")
		if !c.links.Match(href) {
			continue
		}
		a := a
		a.SetOnClick(func(ev *dom.Event) {
			ev.PreventDefault()
			if c.onCaret(a, ev) {
				return
			}
			c.SavePageState()
			c.Navigate(ParseTarget(href), true, 0)
			c.popups.Cancel()
		})
	}
}

// onCaret reports whether a click on link landed on the caret glyph of the
// group entry it wraps. Such clicks only toggle the group.
func (c *Controller) onCaret(link dom.Element, ev *dom.Event) bool {
	label := link.Query(".selectable.caret span")
	if label == nil {
		return false
	}
	box := c.opts.CaretHitBox.Rect(label.BoundingClientRect())
	return box.Contains(ev.ClientX, ev.ClientY)
}
