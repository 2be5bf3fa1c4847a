// Package toc keeps the sidebar table of contents in step with the article
// being displayed.
//
// The sidebar is a nested list. Linked entries are wrapped in their anchor
// (<a href><li>), and a group's entries follow its caret entry as a sibling
// <ul class="nested">:
//
//	<ul>
//	  <a href="/docs/guide"><li class="selectable caret"><span>Guide</span></li></a>
//	  <ul class="nested">...</ul>
//	</ul>
package toc

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/loop"
)

const (
	SelectedClass  = "selected"
	ActiveClass    = "active"
	CaretClass     = "caret"
	CaretDownClass = "caret-down"
)

// DefaultCollapseDuration is the length of the group open/close transition.
const DefaultCollapseDuration = 150 * time.Millisecond

// Scroller brings an item into view inside a scroll container.
type Scroller interface {
	ScrollIntoView(container, item dom.Element, alignToTop bool)
}

// Synchronizer selects sidebar entries and animates group disclosure.
type Synchronizer struct {
	sidebar   dom.Element
	container dom.Element
	scroller  Scroller
	sched     loop.Scheduler
	collapse  time.Duration

	selected dom.Element
}

// New creates a Synchronizer over the entries under sidebar. Selected
// entries are scrolled into view inside container.
func New(sidebar, container dom.Element, scroller Scroller, sched loop.Scheduler, collapse time.Duration) *Synchronizer {
	if collapse <= 0 {
		collapse = DefaultCollapseDuration
	}
	return &Synchronizer{
		sidebar:   sidebar,
		container: container,
		scroller:  scroller,
		sched:     sched,
		collapse:  collapse,
	}
}

// Select marks the entry linking to path, expands every group enclosing it
// and scrolls it into view. Paths without an entry leave nothing selected.
func (s *Synchronizer) Select(path string) {
	if s.selected != nil {
		s.selected.RemoveClass(SelectedClass)
		s.selected = nil
	}
	for _, li := range s.sidebar.QueryAll("li") {
		link := li.Parent()
		if link == nil || link.TagName() != "a" || link.Attr("href") != path {
			continue
		}
		li.AddClass(SelectedClass)
		s.selected = li
		expandTo(li)
		s.scroller.ScrollIntoView(s.container, li, false)
		return
	}
}

// Selected returns the selected entry, or nil.
func (s *Synchronizer) Selected() dom.Element {
	return s.selected
}

// Adopt takes over a selection rendered into the initial page.
func (s *Synchronizer) Adopt() {
	s.selected = s.sidebar.Query("." + SelectedClass)
}

// expandTo opens every group enclosing item.
func expandTo(item dom.Element) {
	parent := item.Parent()
	if parent != nil && parent.TagName() == "a" {
		parent = parent.Parent()
	}
	for parent != nil && parent.TagName() == "ul" {
		parent.AddClass(ActiveClass)
		if caret := parent.PreviousElementSibling(); caret != nil {
			if caret.TagName() == "a" {
				caret = caret.FirstElementChild()
			}
			if caret != nil {
				caret.AddClass(CaretDownClass)
			}
		}
		parent = parent.Parent()
	}
}

// BindToggles makes every caret entry open and close its group on click.
func (s *Synchronizer) BindToggles() {
	for _, caret := range s.sidebar.QueryAll("." + CaretClass) {
		caret := caret
		caret.AddEventListener("click", func(*dom.Event) { s.Toggle(caret) })
	}
}

// GroupOf returns the list disclosed by caret.
func GroupOf(caret dom.Element) dom.Element {
	if next := caret.NextElementSibling(); next != nil {
		return next
	}
	if parent := caret.Parent(); parent != nil {
		return parent.NextElementSibling()
	}
	return nil
}

// Toggle opens a closed group or closes an open one, animating its height.
func (s *Synchronizer) Toggle(caret dom.Element) {
	group := GroupOf(caret)
	if group == nil {
		return
	}
	if caret.HasClass(CaretDownClass) {
		s.close(caret, group)
	} else {
		s.open(caret, group)
	}
}

func (s *Synchronizer) close(caret, group dom.Element) {
	caret.RemoveClass(CaretDownClass)
	group.SetStyle("display", "block")
	group.SetStyle("height", px(group.ScrollHeight()))
	group.RemoveClass(ActiveClass)

	// The explicit height has to be applied before the transition starts,
	// and the transition before the height drops to zero.
	s.sched.RequestFrame(func(time.Duration) {
		group.SetStyle("transition", s.transition())
		s.sched.RequestFrame(func(time.Duration) {
			s.clearOnTransitionEnd(group)
			group.SetStyle("height", "0px")
		})
	})
}

func (s *Synchronizer) open(caret, group dom.Element) {
	caret.AddClass(CaretDownClass)
	group.SetStyle("display", "block")
	group.SetStyle("transition", s.transition())
	group.SetStyle("height", px(group.ScrollHeight()))
	group.AddClass(ActiveClass)
	s.clearOnTransitionEnd(group)
}

// clearOnTransitionEnd drops the inline overrides once group's own
// transition completes, returning it to the stylesheet's layout.
func (s *Synchronizer) clearOnTransitionEnd(group dom.Element) {
	var remove func()
	remove = group.AddEventListener("transitionend", func(ev *dom.Event) {
		if ev.Target != group {
			return
		}
		remove()
		group.RemoveStyle("display")
		group.RemoveStyle("transition")
		group.RemoveStyle("height")
	})
}

func (s *Synchronizer) transition() string {
	return fmt.Sprintf("height %gs ease-out", s.collapse.Seconds())
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
