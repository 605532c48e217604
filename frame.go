package infinitable

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler defers a callback to the next frame boundary. The returned
// cancel func drops the callback if it has not run yet.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// ImmediateScheduler runs callbacks synchronously. Scroll notifications are
// then rendered as they arrive, with no coalescing.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(fn func()) func() {
	fn()
	return func() {}
}

// ManualScheduler queues callbacks until Tick is called. It stands in for a
// display loop in tests and headless rendering.
type ManualScheduler struct {
	queue []*frameTask
}

type frameTask struct {
	fn       func()
	canceled bool
}

func (m *ManualScheduler) Schedule(fn func()) func() {
	t := &frameTask{fn: fn}
	m.queue = append(m.queue, t)
	return func() { t.canceled = true }
}

// Pending returns the number of queued, uncanceled callbacks.
func (m *ManualScheduler) Pending() int {
	n := 0
	for _, t := range m.queue {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Tick runs every callback queued before the call. Callbacks scheduled
// while ticking wait for the next Tick.
func (m *ManualScheduler) Tick() {
	due := m.queue
	m.queue = nil
	for _, t := range due {
		if !t.canceled {
			t.fn()
		}
	}
}

// FrameLoop is a fixed-rate frame clock that also serializes events onto
// the goroutine calling Run. Engine state touched by posted events and
// scheduled frames is therefore owned by that single goroutine.
type FrameLoop struct {
	mu       sync.Mutex
	events   []func()
	frames   []*frameTask
	interval time.Duration
	wake     chan struct{}
}

// NewFrameLoop creates a frame loop running at fps frames per second.
func NewFrameLoop(fps int) *FrameLoop {
	return &FrameLoop{
		interval: frameInterval(fps),
		wake:     make(chan struct{}, 1),
	}
}

// Post runs fn on the loop goroutine as soon as possible. Safe to call from
// any goroutine.
func (l *FrameLoop) Post(fn func()) {
	l.mu.Lock()
	l.events = append(l.events, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
		// already woken
	}
}

// Schedule runs fn on the loop goroutine at the next tick.
func (l *FrameLoop) Schedule(fn func()) func() {
	t := &frameTask{fn: fn}
	l.mu.Lock()
	l.frames = append(l.frames, t)
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		t.canceled = true
		l.mu.Unlock()
	}
}

// Run processes events and frames until ctx is done.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.mu.Lock()
			events := l.events
			l.events = nil
			l.mu.Unlock()
			for _, fn := range events {
				fn()
			}
		case <-ticker.C:
			l.mu.Lock()
			due := l.frames
			l.frames = nil
			l.mu.Unlock()
			for _, t := range due {
				l.mu.Lock()
				skip := t.canceled
				l.mu.Unlock()
				if !skip {
					t.fn()
				}
			}
		}
	}
}

// FrameMsg is delivered to a bubbletea program when a scheduled frame is
// due. Pass it to TeaScheduler.Update.
type FrameMsg struct {
	id int
}

// TeaScheduler adapts frame scheduling to bubbletea's message loop:
// Schedule queues the callback and Cmd returns the tick command that
// will deliver the frame.
type TeaScheduler struct {
	ManualScheduler
	interval time.Duration
	armed    bool
	id       int
}

// NewTeaScheduler creates a bubbletea frame port at fps frames per second.
func NewTeaScheduler(fps int) *TeaScheduler {
	return &TeaScheduler{interval: frameInterval(fps)}
}

// Cmd returns the tick for the next frame if work is waiting and no tick is
// in flight, nil otherwise. Call it at the end of every Update.
func (t *TeaScheduler) Cmd() tea.Cmd {
	if t.armed || t.Pending() == 0 {
		return nil
	}
	t.armed = true
	t.id++
	id := t.id
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return FrameMsg{id: id}
	})
}

// Update runs the due callbacks when msg is this scheduler's frame and
// reports whether it consumed msg.
func (t *TeaScheduler) Update(msg tea.Msg) bool {
	f, ok := msg.(FrameMsg)
	if !ok || f.id != t.id {
		return false
	}
	t.armed = false
	t.Tick()
	return true
}

func frameInterval(fps int) time.Duration {
	if fps < 1 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
