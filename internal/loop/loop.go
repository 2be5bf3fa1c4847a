// Package loop provides the single-threaded main loop the navigation engine
// runs on. Every mutation of engine state happens inside a task executed by
// the loop: network completions, timers and frame ticks are all posted to it.
package loop

import (
	"context"
	"sync"
	"time"
)

// Scheduler is the set of primitives the engine uses to defer work onto the
// main loop.
type Scheduler interface {
	// Post queues fn to run on the loop. Safe to call from any goroutine.
	Post(fn func())
	// AfterFunc runs fn on the loop once d has elapsed. The returned stop
	// function cancels the timer and reports whether it was still pending.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
	// RequestFrame runs fn on the next frame tick. now is the tick time
	// measured from the loop's epoch.
	RequestFrame(fn func(now time.Duration))
}

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop is the goroutine-backed Scheduler used by real hosts.
type Loop struct {
	interval time.Duration
	epoch    time.Time
	wake     chan struct{}

	mu     sync.Mutex
	tasks  []func()
	frames []func(time.Duration)
}

// New creates a loop that delivers frame ticks every interval.
func New(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		interval: interval,
		epoch:    time.Now(),
		wake:     make(chan struct{}, 1),
	}
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}

func (l *Loop) RequestFrame(fn func(time.Duration)) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Run executes posted tasks and frame callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.drain()
		case t := <-ticker.C:
			l.drain()
			l.frame(t.Sub(l.epoch))
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			fn()
		}
	}
}

func (l *Loop) frame(now time.Duration) {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, fn := range frames {
		fn(now)
	}
}
