package infinitable

import (
	"fmt"
	"log/slog"
)

// RowFactory builds and measures render targets. A target is whatever the
// environment draws a row with; the scroller treats it as an opaque handle.
type RowFactory[T comparable] interface {
	// Construct returns a fresh target for the row at displayIndex. It is
	// also called with index 0 to build the height probe.
	Construct(displayIndex int) T
	// Measure returns the rendered height of a materialized target.
	Measure(target T) int
}

// RowUpdater is implemented by factories that can repaint a recycled target
// in place. Without it recycled targets are discarded and rebuilt.
type RowUpdater[T comparable] interface {
	Update(target T, displayIndex int)
}

// RowReleaser is implemented by factories whose targets hold resources that
// must be handed back when a target is dropped for good.
type RowReleaser[T comparable] interface {
	Release(target T)
}

// Viewport is the scrolling surface the scroller windows over. Offsets and
// extents are in the same unit as row heights.
type Viewport interface {
	ScrollOffset() int
	Extent() int
	SetScrollOffset(offset int)
}

// ScrollerStats counts factory traffic. Useful for debugging and tests.
type ScrollerStats struct {
	Renders    int // passes that changed the window
	Constructs int
	Updates    int
	Discards   int // recycled targets dropped because there is no updater
	Releases   int
}

// Scroller materializes only the rows inside the viewport plus a buffer on
// either side, recycling targets as rows leave and enter the window.
//
// All methods must be called from the goroutine that owns the viewport.
type Scroller[T comparable] struct {
	vp       Viewport
	factory  RowFactory[T]
	updater  RowUpdater[T]  // nil if the factory can't update
	releaser RowReleaser[T] // nil if targets need no disposal
	sched    Scheduler
	log      *slog.Logger

	rowCount   int
	rowHeight  int
	measured   bool
	bufferSize int

	// visible holds the displayed targets in ascending display index order;
	// tags is the side table from target to its display index.
	visible []T
	tags    map[T]int
	pool    []T

	lastStart int
	lastEnd   int

	pending   bool
	cancel    func()
	destroyed bool

	stats ScrollerStats
}

// ScrollerOption configures a Scroller.
type ScrollerOption func(*scrollerConfig)

type scrollerConfig struct {
	rowHeight  int
	bufferSize int
	sched      Scheduler
	log        *slog.Logger
}

// WithRowHeight sets the row height used until a probe row is measured.
func WithRowHeight(h int) ScrollerOption {
	return func(c *scrollerConfig) {
		if h > 0 {
			c.rowHeight = h
		}
	}
}

// WithBufferSize sets how many rows are materialized beyond each edge of
// the viewport.
func WithBufferSize(n int) ScrollerOption {
	return func(c *scrollerConfig) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}

// WithScheduler sets the frame scheduler used to coalesce scroll
// notifications. The default runs renders synchronously.
func WithScheduler(s Scheduler) ScrollerOption {
	return func(c *scrollerConfig) { c.sched = s }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) ScrollerOption {
	return func(c *scrollerConfig) { c.log = l }
}

// NewScroller creates a scroller over vp. Nothing is materialized until
// SetRowCount is called.
func NewScroller[T comparable](vp Viewport, factory RowFactory[T], opts ...ScrollerOption) *Scroller[T] {
	cfg := scrollerConfig{rowHeight: 1, bufferSize: 20, sched: ImmediateScheduler{}, log: defaultLogger}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Scroller[T]{
		vp:         vp,
		factory:    factory,
		sched:      cfg.sched,
		log:        cfg.log,
		rowHeight:  cfg.rowHeight,
		bufferSize: cfg.bufferSize,
		tags:       make(map[T]int),
		lastStart:  -1,
		lastEnd:    -1,
	}
	s.updater, _ = factory.(RowUpdater[T])
	s.releaser, _ = factory.(RowReleaser[T])
	return s
}

// SetRowCount declares the number of rows in display-index space and
// re-renders the window from scratch at the current scroll offset.
func (s *Scroller[T]) SetRowCount(n int) {
	if s.destroyed {
		return
	}
	s.rowCount = max(n, 0)
	s.measure()
	s.invalidate()
	s.render()
}

// NotifyScroll records a scroll. Bursts of notifications before the next
// frame collapse into one render that sees the latest offset.
func (s *Scroller[T]) NotifyScroll() {
	if s.destroyed || s.pending {
		return
	}
	s.pending = true
	cancel := s.sched.Schedule(s.frame)
	if s.pending {
		s.cancel = cancel
	}
}

func (s *Scroller[T]) frame() {
	if !s.pending {
		return
	}
	s.pending = false
	s.cancel = nil
	s.render()
}

// ScrollToTop jumps to the first row and renders immediately.
func (s *Scroller[T]) ScrollToTop() {
	if s.destroyed {
		return
	}
	s.vp.SetScrollOffset(0)
	s.render()
}

// ScrollToIndex jumps so that display index i is at the top of the
// viewport and renders immediately.
func (s *Scroller[T]) ScrollToIndex(i int) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if i < 0 || i >= s.rowCount {
		return fmt.Errorf("scroll to row %d of %d: %w", i, s.rowCount, ErrIndexOutOfRange)
	}
	s.vp.SetScrollOffset(i * s.rowHeight)
	s.render()
	return nil
}

// Refresh drops every target, pooled ones included, and rebuilds the
// visible rows. Use it when rows must repaint without a count change.
func (s *Scroller[T]) Refresh() {
	if s.destroyed {
		return
	}
	s.invalidate()
	s.releaseAll(s.pool)
	s.pool = s.pool[:0]
	s.render()
}

// Destroy cancels any pending frame, releases every target and detaches
// from the viewport. The scroller is unusable afterwards.
func (s *Scroller[T]) Destroy() {
	if s.destroyed {
		return
	}
	if s.pending {
		s.pending = false
		if s.cancel != nil {
			s.cancel()
		}
		s.cancel = nil
	}
	s.invalidate()
	s.releaseAll(s.pool)
	s.pool = nil
	s.visible = nil
	s.destroyed = true
	s.vp = nil
	s.log.Debug("scroller destroyed", "stats", s.stats)
}

// Range returns the materialized display range [start, end). It is (0, 0)
// when nothing is rendered.
func (s *Scroller[T]) Range() (start, end int) {
	if s.lastStart < 0 {
		return 0, 0
	}
	return s.lastStart, s.lastEnd
}

// Visible returns the displayed targets in ascending display index order.
func (s *Scroller[T]) Visible() []T {
	return s.visible
}

// IndexOf returns the display index a displayed target currently shows.
func (s *Scroller[T]) IndexOf(target T) (int, bool) {
	i, ok := s.tags[target]
	return i, ok
}

// Offset is where the first visible target sits: start × rowHeight.
// Targets after it follow in natural flow.
func (s *Scroller[T]) Offset() int {
	start, _ := s.Range()
	return start * s.rowHeight
}

// TotalExtent is the full logical length, rowCount × rowHeight, whatever
// the number of materialized rows.
func (s *Scroller[T]) TotalExtent() int {
	return s.rowCount * s.rowHeight
}

func (s *Scroller[T]) RowCount() int        { return s.rowCount }
func (s *Scroller[T]) RowHeight() int       { return s.rowHeight }
func (s *Scroller[T]) Measured() bool       { return s.measured }
func (s *Scroller[T]) PoolLen() int         { return len(s.pool) }
func (s *Scroller[T]) Stats() ScrollerStats { return s.stats }
func (s *Scroller[T]) Destroyed() bool      { return s.destroyed }

// measure probes row 0 once. A zero height keeps the default and the probe
// is retried on the next non-empty SetRowCount.
func (s *Scroller[T]) measure() {
	if s.measured || s.rowCount == 0 {
		return
	}
	probe := s.factory.Construct(0)
	s.stats.Constructs++
	if h := s.factory.Measure(probe); h > 0 {
		s.rowHeight = h
		s.measured = true
		s.log.Debug("row height measured", "height", h)
	} else {
		s.log.Debug("probe row measured zero, keeping default", "height", s.rowHeight)
	}
	s.pool = append(s.pool, probe)
}

// window computes the range to materialize for the current offset.
func (s *Scroller[T]) window() (start, end int) {
	h := s.rowHeight
	off := s.vp.ScrollOffset()
	ext := s.vp.Extent()
	start = off/h - s.bufferSize
	end = (off+ext+h-1)/h + s.bufferSize
	return clamp(start, 0, s.rowCount), clamp(end, 0, s.rowCount)
}

func (s *Scroller[T]) render() {
	if s.rowCount == 0 {
		s.invalidate()
		s.trimPool()
		return
	}
	start, end := s.window()
	if start == s.lastStart && end == s.lastEnd {
		return
	}

	shown := make(map[int]T, len(s.visible))
	for _, t := range s.visible {
		i := s.tags[t]
		if i < start || i >= end {
			delete(s.tags, t)
			s.pool = append(s.pool, t)
			continue
		}
		shown[i] = t
	}

	next := make([]T, 0, end-start)
	for i := start; i < end; i++ {
		t, ok := shown[i]
		if !ok {
			t = s.obtain(i)
			s.tags[t] = i
		}
		next = append(next, t)
	}
	s.visible = next
	s.trimPool()

	s.lastStart, s.lastEnd = start, end
	s.stats.Renders++
	if verbose() {
		s.log.Debug("window rendered", "start", start, "end", end, "pool", len(s.pool))
	}
}

// obtain returns a target for display index i, recycling when it can.
func (s *Scroller[T]) obtain(i int) T {
	if n := len(s.pool); n > 0 {
		t := s.pool[n-1]
		var zero T
		s.pool[n-1] = zero
		s.pool = s.pool[:n-1]
		if s.updater != nil {
			s.updater.Update(t, i)
			s.stats.Updates++
			return t
		}
		s.stats.Discards++
		s.release(t)
	}
	s.stats.Constructs++
	return s.factory.Construct(i)
}

// trimPool keeps at most bufferSize spare targets.
func (s *Scroller[T]) trimPool() {
	if len(s.pool) <= s.bufferSize {
		return
	}
	s.releaseAll(s.pool[s.bufferSize:])
	clear(s.pool[s.bufferSize:])
	s.pool = s.pool[:s.bufferSize]
}

// invalidate moves every displayed target to the pool and forgets the last
// rendered range.
func (s *Scroller[T]) invalidate() {
	for _, t := range s.visible {
		delete(s.tags, t)
		s.pool = append(s.pool, t)
	}
	s.visible = s.visible[:0]
	s.lastStart, s.lastEnd = -1, -1
}

func (s *Scroller[T]) releaseAll(ts []T) {
	for _, t := range ts {
		s.release(t)
	}
}

func (s *Scroller[T]) release(t T) {
	s.stats.Releases++
	if s.releaser != nil {
		s.releaser.Release(t)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
