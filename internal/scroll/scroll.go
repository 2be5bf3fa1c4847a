// Package scroll animates scroll offsets of one or more containers from a
// single shared frame loop.
package scroll

import (
	"time"

	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/loop"
)

// Options configures an Animator.
type Options struct {
	// Duration of every animation.
	Duration time.Duration
	// HeaderHeight is kept clear above items aligned to the top.
	HeaderHeight float64
	// MaxLead bounds how far from its target an animation starts, so long
	// jumps only animate their final stretch. Zero disables the bound.
	MaxLead float64
}

// DefaultOptions returns the timings used by the documentation site.
func DefaultOptions() Options {
	return Options{
		Duration:     100 * time.Millisecond,
		HeaderHeight: 50,
		MaxLead:      500,
	}
}

// Animation is the state of one container's scroll animation.
type Animation struct {
	Container dom.Element
	From, To  float64

	start   time.Duration
	started bool
}

// Animator drives scroll animations. There is at most one animation per
// container; a new request for an animating container retargets it.
type Animator struct {
	sched    loop.Scheduler
	viewport func() float64
	opts     Options

	active  map[dom.Element]*Animation
	running bool
}

// New creates an Animator. viewport reports the visible page height and
// bounds the bottom edge used for minimal alignment; it may be nil.
func New(sched loop.Scheduler, viewport func() float64, opts Options) *Animator {
	if opts.Duration <= 0 {
		opts.Duration = DefaultOptions().Duration
	}
	return &Animator{
		sched:    sched,
		viewport: viewport,
		opts:     opts,
		active:   make(map[dom.Element]*Animation),
	}
}

// ScrollIntoView animates container so item becomes visible. With
// alignToTop the item's top edge is placed HeaderHeight below the top of the
// viewport; otherwise the container scrolls only if the item is outside its
// visible region, and only as far as needed to reveal it.
func (a *Animator) ScrollIntoView(container, item dom.Element, alignToTop bool) {
	if container == nil || item == nil {
		return
	}
	ir := item.BoundingClientRect()

	var amount float64
	if alignToTop {
		amount = ir.Top - a.opts.HeaderHeight
	} else {
		cr := container.BoundingClientRect()
		amount = ir.Top - cr.Top
		if amount >= 0 {
			bottom := cr.Bottom
			if a.viewport != nil {
				if vh := a.viewport(); vh < bottom {
					bottom = vh
				}
			}
			amount = ir.Bottom - bottom
			if amount <= 0 {
				return
			}
		}
	}
	if amount == 0 {
		return
	}
	a.SmoothScrollTo(container, container.ScrollTop()+amount)
}

// SmoothScrollTo animates container's scroll offset to target, clamped to
// the container's scrollable range.
func (a *Animator) SmoothScrollTo(container dom.Element, target float64) {
	if container == nil {
		return
	}
	current := container.ScrollTop()
	to := clamp(target, 0, maxOffset(container))

	anim, ok := a.active[container]
	if !ok {
		if to == current {
			return
		}
		anim = &Animation{Container: container}
		a.active[container] = anim
	}
	anim.To = to
	anim.From = current
	if a.opts.MaxLead > 0 {
		anim.From = clamp(current, to-a.opts.MaxLead, to+a.opts.MaxLead)
	}
	anim.started = false

	if !a.running {
		a.running = true
		a.sched.RequestFrame(a.tick)
	}
}

// Active returns the number of containers currently animating.
func (a *Animator) Active() int {
	return len(a.active)
}

// Animating returns the animation for container, if any.
func (a *Animator) Animating(container dom.Element) (Animation, bool) {
	anim, ok := a.active[container]
	if !ok {
		return Animation{}, false
	}
	return *anim, true
}

func (a *Animator) tick(now time.Duration) {
	for container, anim := range a.active {
		if !anim.started {
			anim.start = now
			anim.started = true
			continue
		}
		f := float64(now-anim.start) / float64(a.opts.Duration)
		if f < 1 {
			container.SetScrollTop(anim.To*f + anim.From*(1-f))
			continue
		}
		container.SetScrollTop(anim.To)
		delete(a.active, container)
	}

	if len(a.active) > 0 {
		a.sched.RequestFrame(a.tick)
		return
	}
	a.running = false
}

func maxOffset(container dom.Element) float64 {
	m := container.ScrollHeight() - container.ClientHeight()
	if m < 0 {
		return 0
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
