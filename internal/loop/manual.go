package loop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Scheduler driven explicitly by its owner.
// Nothing runs until Flush, Advance or Frame is called. Tests use it to step
// timers, frame ticks and asynchronous completions one at a time.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	queue  []func()
	timers []*manualTimer
	frames []func(time.Duration)
}

type manualTimer struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewManual returns a Manual scheduler with its clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	m.mu.Unlock()

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, pending := range m.timers {
			if pending == t {
				m.timers = append(m.timers[:i], m.timers[i+1:]...)
				return true
			}
		}
		return false
	}
}

func (m *Manual) RequestFrame(fn func(time.Duration)) {
	m.mu.Lock()
	m.frames = append(m.frames, fn)
	m.mu.Unlock()
}

// Now returns the manual clock.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Flush runs posted tasks, including tasks they post, until the queue is empty.
func (m *Manual) Flush() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
	}
}

// Advance moves the clock forward by d, firing due timers in order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.Slice(m.timers, func(i, j int) bool {
			if m.timers[i].at != m.timers[j].at {
				return m.timers[i].at < m.timers[j].at
			}
			return m.timers[i].seq < m.timers[j].seq
		})
		if len(m.timers) == 0 || m.timers[0].at > target {
			m.now = target
			m.mu.Unlock()
			m.Flush()
			return
		}
		t := m.timers[0]
		m.timers = m.timers[1:]
		m.now = t.at
		m.mu.Unlock()

		t.fn()
		m.Flush()
	}
}

// Frame delivers one frame tick at the current clock.
func (m *Manual) Frame() {
	m.mu.Lock()
	frames := m.frames
	m.frames = nil
	now := m.now
	m.mu.Unlock()

	for _, fn := range frames {
		fn(now)
	}
	m.Flush()
}

// PendingFrames reports how many frame callbacks are waiting for a tick.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// PendingTimers reports how many timers have not fired or been stopped.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// RunFrames advances the clock by interval and ticks until no frame callback
// is pending or max ticks have run. It returns the number of ticks delivered.
func (m *Manual) RunFrames(interval time.Duration, max int) int {
	n := 0
	for n < max && m.PendingFrames() > 0 {
		m.Advance(interval)
		m.Frame()
		n++
	}
	return n
}
