// Package popup manages transient menus of which at most one is open.
package popup

import "github.com/ziadkadry99/docnav/internal/dom"

const (
	ExpandedClass        = "expanded"
	ExpandedContentClass = "expanded-content"
)

type state struct {
	trigger dom.Element
	menu    dom.Element
	remove  func()
}

// Manager opens and closes popup menus. Opening a menu closes whichever
// menu was open before, and an open menu closes on any click outside both
// its trigger and itself.
type Manager struct {
	doc  dom.Document
	open *state
}

// New creates a Manager listening for outside clicks on doc.
func New(doc dom.Document) *Manager {
	return &Manager{doc: doc}
}

// Toggle closes the open menu, then opens menu unless it was the one just
// closed. It reports whether menu is now open.
func (m *Manager) Toggle(trigger, menu dom.Element) bool {
	if menu == nil {
		return false
	}
	mustShow := m.open == nil || m.open.menu != menu
	m.Cancel()
	if !mustShow {
		return false
	}

	menu.AddClass(ExpandedClass)
	if content := menu.FirstElementChild(); content != nil {
		content.AddClass(ExpandedContentClass)
	}
	// Clearing the animation across a reflow makes it replay on every open.
	menu.SetStyle("animation", "none")
	menu.Reflow()
	menu.RemoveStyle("animation")

	st := &state{trigger: trigger, menu: menu}
	st.remove = m.doc.AddEventListener("click", func(ev *dom.Event) {
		if m.open != st {
			return
		}
		if contains(st.trigger, ev.Target) || contains(st.menu, ev.Target) {
			return
		}
		m.Cancel()
	})
	m.open = st
	return true
}

// Cancel closes the open menu, if any.
func (m *Manager) Cancel() {
	st := m.open
	if st == nil {
		return
	}
	m.open = nil
	if content := st.menu.FirstElementChild(); content != nil {
		content.RemoveClass(ExpandedContentClass)
	}
	st.menu.RemoveClass(ExpandedClass)
	st.remove()
}

// Open returns the open menu, or nil.
func (m *Manager) Open() dom.Element {
	if m.open == nil {
		return nil
	}
	return m.open.menu
}

func contains(el, target dom.Element) bool {
	return el != nil && target != nil && el.Contains(target)
}
