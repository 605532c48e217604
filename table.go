package infinitable

import (
	"fmt"
	"log/slog"
	"strings"
)

// RowHandler is called when a row is activated.
type RowHandler[T any] func(datasetIndex int, row *T)

// Table composes the scroller, the index map, the selection and a search
// filter into a virtualized table over a slice of rows.
//
//	t := NewTable(vp, columns, DefaultConfig())
//	t.SetData(rows)
//	t.SetQuery("^error")
//	t.Click(0)           // select the first visible row
type Table[T any] struct {
	columns   []Column[T]
	styles    Styles
	log       *slog.Logger
	vp        Viewport
	data      []T
	index     IndexMap
	selection *Selection
	filter    *SearchFilter[T]
	scroller  *Scroller[*RowView]
	handler   RowHandler[T]

	selectedOnly bool // explicit toggle, independent of the query text
	resetting    bool // SetData in progress, row count not yet updated
}

// TableOption configures a Table.
type TableOption[T any] func(*tableConfig[T])

type tableConfig[T any] struct {
	sched   Scheduler
	log     *slog.Logger
	styles  Styles
	extract func(*T) string
	handler RowHandler[T]
}

// WithTableScheduler sets the frame scheduler for scroll coalescing.
func WithTableScheduler[T any](s Scheduler) TableOption[T] {
	return func(c *tableConfig[T]) { c.sched = s }
}

// WithTableLogger sets the logger.
func WithTableLogger[T any](l *slog.Logger) TableOption[T] {
	return func(c *tableConfig[T]) { c.log = l }
}

// WithStyles sets the row styles.
func WithStyles[T any](s Styles) TableOption[T] {
	return func(c *tableConfig[T]) { c.styles = s }
}

// WithSearchText sets the text searched for each row. By default the
// formatted values of every column are searched.
func WithSearchText[T any](fn func(*T) string) TableOption[T] {
	return func(c *tableConfig[T]) { c.extract = fn }
}

// WithRowHandler sets the handler called by Activate.
func WithRowHandler[T any](fn RowHandler[T]) TableOption[T] {
	return func(c *tableConfig[T]) { c.handler = fn }
}

// NewTable creates an empty table over vp. cfg is assumed valid; an
// unknown selection mode falls back to multi.
func NewTable[T any](vp Viewport, columns []Column[T], cfg Config, opts ...TableOption[T]) *Table[T] {
	tc := tableConfig[T]{sched: ImmediateScheduler{}, log: defaultLogger, styles: DefaultStyles()}
	for _, opt := range opts {
		opt(&tc)
	}
	mode, err := ParseSelectionMode(cfg.SelectionMode)
	if err != nil {
		tc.log.Warn("unknown selection mode, using multi", "err", err)
	}

	t := &Table[T]{
		columns:   columns,
		styles:    tc.styles,
		log:       tc.log,
		vp:        vp,
		selection: NewSelection(mode),
		handler:   tc.handler,
	}
	extract := tc.extract
	if extract == nil {
		extract = t.searchText
	}
	t.filter = NewSearchFilter(extract).SelectedQuery(cfg.selectedQuery())
	t.scroller = NewScroller[*RowView](vp, tableRows[T]{t: t},
		WithRowHeight(cfg.RowHeight),
		WithBufferSize(cfg.BufferSize),
		WithScheduler(tc.sched),
		WithLogger(tc.log),
	)
	t.selection.OnChange(func([]int) {
		t.selectionChanged()
	})
	return t
}

// SetData replaces the dataset. The selection is cleared, the current query
// is re-applied and the view starts again at the top.
func (t *Table[T]) SetData(rows []T) {
	t.data = rows
	t.index.Reset(len(rows))
	t.resetting = true
	t.selection.Clear()
	t.resetting = false
	res := t.filter.SetData(rows)
	if t.selectedOnly {
		res = SelectedOnly
	}
	t.applyFilter(res)
}

// SetQuery runs a search. The configured selected-only query shows the
// selection instead of matches.
func (t *Table[T]) SetQuery(q string) {
	res := t.filter.Update(q)
	if t.selectedOnly {
		res = SelectedOnly
	}
	t.applyFilter(res)
}

// Query returns the current search text.
func (t *Table[T]) Query() string {
	return t.filter.Query()
}

// OnFilterChanged applies a filter result produced outside the table.
func (t *Table[T]) OnFilterChanged(res FilterResult) {
	t.applyFilter(res)
}

// ShowSelectedOnly restricts the view to the selection, or goes back to
// the current query when off.
func (t *Table[T]) ShowSelectedOnly(on bool) {
	t.selectedOnly = on
	if on {
		t.applyFilter(SelectedOnly)
		return
	}
	t.applyFilter(t.filter.Result())
}

// SelectedOnly reports whether the view shows only selected rows.
func (t *Table[T]) SelectedOnly() bool {
	return t.index.Mode() == ViewSelected
}

func (t *Table[T]) applyFilter(res FilterResult) {
	if err := t.index.Apply(len(t.data), res, t.selection.Selected()); err != nil {
		t.log.Error("filter result rejected", "err", err)
		t.index.Reset(len(t.data))
	}
	t.scroller.SetRowCount(t.index.Len())
	t.scroller.ScrollToTop()
}

func (t *Table[T]) selectionChanged() {
	if t.resetting {
		return
	}
	t.scroller.Refresh()
}

// Click applies a row click at display index d to the selection.
func (t *Table[T]) Click(d int) error {
	ds, err := t.index.Resolve(d)
	if err != nil {
		return fmt.Errorf("click: %w", err)
	}
	t.selection.Click(ds)
	return nil
}

// ClickDataset applies a row click by dataset index.
func (t *Table[T]) ClickDataset(ds int) error {
	if ds < 0 || ds >= len(t.data) {
		return fmt.Errorf("click dataset row %d of %d: %w", ds, len(t.data), ErrIndexOutOfRange)
	}
	t.selection.Click(ds)
	return nil
}

// Activate calls the row handler for display index d.
func (t *Table[T]) Activate(d int) error {
	ds, err := t.index.Resolve(d)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	if t.handler != nil {
		t.handler(ds, &t.data[ds])
	}
	return nil
}

// SetRowHandler replaces the activation handler.
func (t *Table[T]) SetRowHandler(fn RowHandler[T]) {
	t.handler = fn
}

// RowHandler returns the activation handler.
func (t *Table[T]) RowHandler() RowHandler[T] {
	return t.handler
}

// Selected returns the selected dataset indices, ascending.
func (t *Table[T]) Selected() []int {
	return t.selection.Selected()
}

// IsSelected reports whether dataset row ds is selected.
func (t *Table[T]) IsSelected(ds int) bool {
	return t.selection.IsSelected(ds)
}

// SelectedDisplayIndices returns the display indices of selected rows.
func (t *Table[T]) SelectedDisplayIndices() []int {
	return t.index.SelectedDisplayIndices(t.selection)
}

// SelectedData returns the selected rows in dataset order.
func (t *Table[T]) SelectedData() []T {
	return SelectedData(t.selection, t.data)
}

// ClearSelection empties the selection and repaints.
func (t *Table[T]) ClearSelection() {
	t.selection.Clear()
}

// SelectionMode returns the selection policy.
func (t *Table[T]) SelectionMode() SelectionMode {
	return t.selection.Mode()
}

// Data returns the full dataset.
func (t *Table[T]) Data() []T {
	return t.data
}

// FilteredData returns the rows in display order.
func (t *Table[T]) FilteredData() []T {
	out := make([]T, t.index.Len())
	for d := range out {
		ds, _ := t.index.Resolve(d)
		out[d] = t.data[ds]
	}
	return out
}

// DisplayIndices returns the display-to-dataset mapping.
func (t *Table[T]) DisplayIndices() []int {
	return t.index.Indices()
}

// DisplayCount returns the number of rows in the current view.
func (t *Table[T]) DisplayCount() int {
	return t.index.Len()
}

// Resolve maps a display index to its dataset index.
func (t *Table[T]) Resolve(d int) (int, error) {
	return t.index.Resolve(d)
}

// ScrollToTop jumps to the first row.
func (t *Table[T]) ScrollToTop() {
	t.scroller.ScrollToTop()
}

// ScrollToIndex jumps to display index d.
func (t *Table[T]) ScrollToIndex(d int) error {
	return t.scroller.ScrollToIndex(d)
}

// NotifyScroll tells the table the viewport offset changed.
func (t *Table[T]) NotifyScroll() {
	t.scroller.NotifyScroll()
}

// Refresh repaints every visible row.
func (t *Table[T]) Refresh() {
	t.scroller.Refresh()
}

// Scroller exposes the windowing engine.
func (t *Table[T]) Scroller() *Scroller[*RowView] {
	return t.scroller
}

// Destroy releases the scroller and the selection.
func (t *Table[T]) Destroy() {
	t.scroller.Destroy()
	t.selection.Destroy()
	t.data = nil
	t.index.Reset(0)
}

// RowAt returns the display index rendered on body line y of the viewport,
// or false if the line is empty.
func (t *Table[T]) RowAt(y int) (int, bool) {
	if y < 0 || y >= t.vp.Extent() {
		return 0, false
	}
	h := t.scroller.RowHeight()
	d := (t.vp.ScrollOffset() + y) / h
	if d >= t.index.Len() {
		return 0, false
	}
	return d, true
}

// Body renders the visible rows clipped to the viewport. mark, if not nil,
// decorates the lines of the row at a display index.
func (t *Table[T]) Body(mark func(d int, line string) string) []string {
	off, ext := t.vp.ScrollOffset(), t.vp.Extent()
	lines := make([]string, 0, ext)
	y := t.scroller.Offset()
	for _, v := range t.scroller.Visible() {
		d, _ := t.scroller.IndexOf(v)
		for _, line := range v.Lines() {
			if y >= off && y < off+ext {
				if mark != nil {
					line = mark(d, line)
				}
				lines = append(lines, line)
			}
			y++
		}
	}
	return lines
}

// View renders the header and the visible rows.
func (t *Table[T]) View() string {
	var b strings.Builder
	b.WriteString(t.header())
	for _, line := range t.Body(nil) {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

// searchText is the default search extraction: the formatted cells.
func (t *Table[T]) searchText(row *T) string {
	b := getBuilder()
	for i := range t.columns {
		s, _ := t.columns[i].text(row)
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return putBuilder(b)
}
