package navigator

import (
	"log/slog"
	"time"

	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/pagecache"
	"github.com/ziadkadry99/docnav/internal/scroll"
	"github.com/ziadkadry99/docnav/internal/toc"
)

// DefaultSpinnerDelay is how long a fetch may run before the article is
// replaced by the loading spinner.
const DefaultSpinnerDelay = 750 * time.Millisecond

// DefaultSpinnerHTML is the placeholder shown while a slow fetch is pending.
const DefaultSpinnerHTML = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="32px" height="32px" viewBox="0 0 100 100" style="margin: 0 auto;">` +
	`<g>` +
	`<circle cx="50" cy="50" fill="none" stroke="#dbe6e8" stroke-width="12" r="36" />` +
	`<circle cx="50" cy="50" fill="none" stroke="#4aa5e0" stroke-width="12" r="36" stroke-dasharray="50 180" />` +
	`<animateTransform attributeName="transform" type="rotate" repeatCount="indefinite" dur="1s" values="0 50 50;360 50 50" keyTimes="0;1" />` +
	`</g>` +
	`</svg>`

// HitBox locates the caret glyph drawn before a sidebar entry's label,
// relative to the top-left corner of the label. The glyph is generated
// content and cannot be measured, so its extent is configured.
type HitBox struct {
	Left, Right float64
	Top, Bottom float64
	// Inflate grows the box on every side.
	Inflate float64
}

// DefaultCaretHitBox matches the theme's caret glyph.
var DefaultCaretHitBox = HitBox{Left: -19, Right: -8, Top: 1, Bottom: 12, Inflate: 8}

// Rect returns the hit box for a label whose bounding rect is label.
func (h HitBox) Rect(label dom.Rect) dom.Rect {
	return dom.Rect{
		Left:   label.Left + h.Left - h.Inflate,
		Top:    label.Top + h.Top - h.Inflate,
		Right:  label.Left + h.Right + h.Inflate,
		Bottom: label.Top + h.Bottom + h.Inflate,
	}
}

// Options configures a Controller.
type Options struct {
	SidebarSelector string
	ArticleID       string
	// GetInvolvedID and GetInvolvedMenu name the auxiliary popup's trigger
	// and menu. MenuButtonID names the trigger that shows the sidebar as a
	// popup on narrow screens. Any of them may be absent from the page.
	GetInvolvedID   string
	GetInvolvedMenu string
	MenuButtonID    string

	// LinkPatterns are doublestar globs matched against link paths; matching
	// links are loaded in place.
	LinkPatterns []string

	CacheCapacity    int
	SpinnerDelay     time.Duration
	SpinnerHTML      string
	CollapseDuration time.Duration
	Scroll           scroll.Options
	CaretHitBox      HitBox

	Logger *slog.Logger
}

// DefaultOptions returns the options matching the documentation theme.
func DefaultOptions() Options {
	return Options{
		SidebarSelector:  ".sidebar",
		ArticleID:        "article",
		GetInvolvedID:    "get-involved",
		GetInvolvedMenu:  ".get-involved-popup",
		MenuButtonID:     "three-lines",
		LinkPatterns:     []string{"/docs/*", "/docs/**/*"},
		CacheCapacity:    pagecache.DefaultCapacity,
		SpinnerDelay:     DefaultSpinnerDelay,
		SpinnerHTML:      DefaultSpinnerHTML,
		CollapseDuration: toc.DefaultCollapseDuration,
		Scroll:           scroll.DefaultOptions(),
		CaretHitBox:      DefaultCaretHitBox,
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.SidebarSelector == "" {
		o.SidebarSelector = d.SidebarSelector
	}
	if o.ArticleID == "" {
		o.ArticleID = d.ArticleID
	}
	if len(o.LinkPatterns) == 0 {
		o.LinkPatterns = d.LinkPatterns
	}
	if o.CacheCapacity <= 0 {
		o.CacheCapacity = d.CacheCapacity
	}
	if o.SpinnerDelay <= 0 {
		o.SpinnerDelay = d.SpinnerDelay
	}
	if o.SpinnerHTML == "" {
		o.SpinnerHTML = d.SpinnerHTML
	}
	if o.CollapseDuration <= 0 {
		o.CollapseDuration = d.CollapseDuration
	}
	if o.Scroll == (scroll.Options{}) {
		o.Scroll = d.Scroll
	}
	if o.CaretHitBox == (HitBox{}) {
		o.CaretHitBox = d.CaretHitBox
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
