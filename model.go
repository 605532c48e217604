package infinitable

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// wheelLines is how far one mouse wheel notch scrolls.
const wheelLines = 3

// chromeLines is the search line, the header and the status line.
const chromeLines = 3

// Model is a bubbletea front end for a Table. It owns the scroll offset and
// so acts as the table's viewport.
type Model[T any] struct {
	table  *Table[T]
	frames *TeaScheduler
	keys   KeyMap
	styles Styles
	search textinput.Model

	width     int
	height    int
	offset    int
	cursor    int
	searching bool
	err       error
}

// NewModel creates a table model sized width × height terminal cells.
func NewModel[T any](columns []Column[T], cfg Config, width, height int, opts ...TableOption[T]) *Model[T] {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search, " + cfg.selectedQuery() + " for the selection"

	m := &Model[T]{
		frames: NewTeaScheduler(cfg.FrameRate),
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		search: ti,
		width:  width,
		height: height,
	}
	opts = append([]TableOption[T]{WithTableScheduler[T](m.frames)}, opts...)
	m.table = NewTable[T](m, columns, cfg, opts...)
	m.styles = m.table.styles
	return m
}

// Table returns the underlying table.
func (m *Model[T]) Table() *Table[T] {
	return m.table
}

// Cursor returns the display index under the cursor.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// SetData replaces the rows shown.
func (m *Model[T]) SetData(rows []T) {
	m.cursor = 0
	m.table.SetData(rows)
}

// ScrollOffset implements Viewport.
func (m *Model[T]) ScrollOffset() int {
	return m.offset
}

// Extent implements Viewport: the lines available for rows.
func (m *Model[T]) Extent() int {
	return max(m.height-chromeLines, 0)
}

// SetScrollOffset implements Viewport, clamping to the scrollable range.
func (m *Model[T]) SetScrollOffset(offset int) {
	limit := 0
	if m.table != nil {
		limit = max(m.table.scroller.TotalExtent()-m.Extent(), 0)
	}
	m.offset = clamp(offset, 0, limit)
}

func (m *Model[T]) Init() tea.Cmd {
	return nil
}

func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.frames.Update(msg) {
		return m, m.frames.Cmd()
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-len(m.search.Prompt)-1, 1)
		m.SetScrollOffset(m.offset)
		m.table.NotifyScroll()

	case tea.MouseMsg:
		m.err = nil
		m.handleMouse(msg)

	case tea.KeyMsg:
		m.err = nil
		if m.searching {
			cmds = append(cmds, m.handleSearchKey(msg))
			break
		}
		cmd := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.frames.Cmd())
	return m, tea.Batch(cmds...)
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	page := max(m.Extent()/m.table.scroller.RowHeight(), 1)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(page)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-page)
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.table.ScrollToTop()
	case key.Matches(msg, m.keys.End):
		m.moveCursor(m.table.DisplayCount())
	case key.Matches(msg, m.keys.Toggle):
		m.err = m.table.Click(m.cursor)
	case key.Matches(msg, m.keys.Activate):
		m.err = m.table.Activate(m.cursor)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.table.Query() != "" {
			m.search.SetValue("")
			m.applyQuery()
		}
	case key.Matches(msg, m.keys.SelectedOnly):
		m.cursor = 0
		m.table.ShowSelectedOnly(!m.table.selectedOnly)
	case key.Matches(msg, m.keys.ClearSelection):
		m.table.ClearSelection()
	}
	return nil
}

func (m *Model[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyQuery()
		return nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.table.Query() {
		m.applyQuery()
	}
	return cmd
}

func (m *Model[T]) applyQuery() {
	m.cursor = 0
	m.table.SetQuery(m.search.Value())
}

func (m *Model[T]) handleMouse(msg tea.MouseMsg) {
	h := m.table.scroller.RowHeight()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.SetScrollOffset(m.offset - wheelLines*h)
		m.table.NotifyScroll()
	case tea.MouseButtonWheelDown:
		m.SetScrollOffset(m.offset + wheelLines*h)
		m.table.NotifyScroll()
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		// body starts below the search line and the header
		if d, ok := m.table.RowAt(msg.Y - 2); ok {
			m.cursor = d
			m.err = m.table.Click(d)
		}
	}
}

// moveCursor moves the cursor by delta rows and scrolls it into view.
func (m *Model[T]) moveCursor(delta int) {
	n := m.table.DisplayCount()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)

	h := m.table.scroller.RowHeight()
	rows := max(m.Extent()/h, 1)
	top := m.offset / h
	switch {
	case m.cursor < top:
		m.err = m.table.ScrollToIndex(m.cursor)
	case m.cursor >= top+rows:
		m.err = m.table.ScrollToIndex(max(m.cursor-rows+1, 0))
	}
}

func (m *Model[T]) View() string {
	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.table.header())
	b.WriteByte('\n')

	body := m.table.Body(func(d int, line string) string {
		if d == m.cursor {
			return m.styles.Cursor.Render(line)
		}
		return line
	})
	for i := 0; i < m.Extent(); i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Status.Render(m.status()))
	return b.String()
}

func (m *Model[T]) status() string {
	if m.err != nil {
		return m.err.Error()
	}
	t := m.table
	view := "all"
	if t.SelectedOnly() {
		view = "selected only"
	}
	var help []string
	for _, k := range m.keys.ShortHelp() {
		help = append(help, k.Help().Key+" "+k.Help().Desc)
	}
	return fmt.Sprintf("%d/%d rows · %d selected · %s · %s",
		t.DisplayCount(), len(t.Data()), len(t.Selected()), view, strings.Join(help, " · "))
}
