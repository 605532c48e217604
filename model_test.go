package infinitable

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *Model[service] {
	t.Helper()
	m := NewModel(serviceColumns(), DefaultConfig(), 80, 6,
		WithTableLogger[service](NewLogger(testWriter{t})))
	m.SetData(services)
	return m
}

func press(m *Model[service], msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// quits reports whether cmd, possibly batched, ends the program.
func quits(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if quits(c) {
				return true
			}
		}
	}
	return false
}

func TestModelNavigation(t *testing.T) {
	t.Run("extent leaves room for the chrome", func(t *testing.T) {
		m := newTestModel(t)
		assert.Equal(t, 3, m.Extent())
	})

	t.Run("cursor moves and scrolls into view", func(t *testing.T) {
		m := newTestModel(t)
		press(m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
		assert.Equal(t, 2, m.Cursor())
		assert.Zero(t, m.ScrollOffset())

		press(m, runes("j"), runes("j"), runes("j"))
		assert.Equal(t, 4, m.Cursor())
		assert.Equal(t, 2, m.ScrollOffset())

		press(m, runes("g"))
		assert.Zero(t, m.Cursor())
		assert.Zero(t, m.ScrollOffset())

		press(m, runes("G"))
		assert.Equal(t, 4, m.Cursor())
	})

	t.Run("scroll offset is clamped to the rows", func(t *testing.T) {
		m := newTestModel(t)
		m.SetScrollOffset(100)
		assert.Equal(t, 2, m.ScrollOffset())
		m.SetScrollOffset(-5)
		assert.Zero(t, m.ScrollOffset())
	})

	t.Run("wheel scrolls are rendered on the next frame", func(t *testing.T) {
		m := newTestModel(t)
		cmd := press(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
		assert.Equal(t, 2, m.ScrollOffset())
		assert.NotNil(t, cmd)
		assert.Equal(t, 1, m.frames.Pending())

		press(m, FrameMsg{id: m.frames.id})
		assert.Zero(t, m.frames.Pending())
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t)
		assert.True(t, quits(press(m, runes("q"))))
	})
}

func TestModelSelection(t *testing.T) {
	t.Run("space toggles the row under the cursor", func(t *testing.T) {
		m := newTestModel(t)
		press(m, runes("j"), tea.KeyMsg{Type: tea.KeySpace})
		assert.Equal(t, []int{1}, m.Table().Selected())
		press(m, runes("x"))
		assert.Empty(t, m.Table().Selected())
	})

	t.Run("left click selects the row under the pointer", func(t *testing.T) {
		m := newTestModel(t)
		press(m, tea.MouseMsg{Y: 4, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
		assert.Equal(t, 2, m.Cursor())
		assert.Equal(t, []int{2}, m.Table().Selected())

		press(m, tea.MouseMsg{Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
		assert.Equal(t, []int{2}, m.Table().Selected())
	})

	t.Run("selected only view and clear", func(t *testing.T) {
		m := newTestModel(t)
		press(m, runes("x"), runes("G"), runes("x"), runes("s"))
		assert.True(t, m.Table().SelectedOnly())
		assert.Equal(t, []int{0, 4}, m.Table().DisplayIndices())
		assert.Zero(t, m.Cursor())

		press(m, runes("s"))
		assert.False(t, m.Table().SelectedOnly())

		press(m, runes("c"))
		assert.Empty(t, m.Table().Selected())
	})

	t.Run("enter activates the row under the cursor", func(t *testing.T) {
		var opened []int
		m := NewModel(serviceColumns(), DefaultConfig(), 80, 6,
			WithTableLogger[service](NewLogger(testWriter{t})),
			WithRowHandler[service](func(ds int, _ *service) { opened = append(opened, ds) }))
		m.SetData(services)

		press(m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, []int{1}, opened)
	})
}

func TestModelSearch(t *testing.T) {
	t.Run("typing filters the rows", func(t *testing.T) {
		m := newTestModel(t)
		press(m, runes("/"), runes("^"), runes("a"), runes("p"), runes("i"))
		assert.Equal(t, "^api", m.Table().Query())
		assert.Equal(t, 2, m.Table().DisplayCount())
		assert.Contains(t, m.View(), "2/5 rows")
	})

	t.Run("enter keeps the query and esc clears it", func(t *testing.T) {
		m := newTestModel(t)
		press(m, runes("/"), runes("'"), runes("bill"), tea.KeyMsg{Type: tea.KeyEnter})
		require.Equal(t, 1, m.Table().DisplayCount())

		// keys act on the table again
		press(m, runes("x"))
		assert.Equal(t, []int{2}, m.Table().Selected())

		press(m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Empty(t, m.Table().Query())
		assert.Equal(t, 5, m.Table().DisplayCount())
	})

	t.Run("esc while searching drops the query", func(t *testing.T) {
		m := newTestModel(t)
		press(m, runes("/"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})
		assert.Empty(t, m.Table().Query())
		assert.Equal(t, 5, m.Table().DisplayCount())
	})

	t.Run("the selected query shows the selection", func(t *testing.T) {
		m := newTestModel(t)
		press(m, runes("j"), runes("x"), runes("/"), runes(":selected"))
		assert.True(t, m.Table().SelectedOnly())
		assert.Equal(t, []int{1}, m.Table().DisplayIndices())
	})
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "name")
	assert.Contains(t, view, "api-gateway")
	assert.Contains(t, view, "5/5 rows")
	assert.NotContains(t, view, "api-docs")

	press(m, runes("G"))
	assert.Contains(t, m.View(), "api-docs")
}
