package infinitable

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles controls how the table paints its rows.
type Styles struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	AltRow   lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Status   lipgloss.Style
	Gap      int
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		Row:      lipgloss.NewStyle(),
		AltRow:   lipgloss.NewStyle().Background(lipgloss.Color("234")),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255")),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Gap:      2,
	}
}

// RowView is the terminal render target for one table row. It is painted
// in place when recycled.
type RowView struct {
	text     string
	dataset  int
	selected bool
}

// String returns the painted row.
func (r *RowView) String() string {
	return r.text
}

// Lines returns the painted row split into terminal lines.
func (r *RowView) Lines() []string {
	return strings.Split(r.text, "\n")
}

// Dataset returns the dataset index the row was last painted from.
func (r *RowView) Dataset() int {
	return r.dataset
}

// Selected reports whether the row was painted as selected.
func (r *RowView) Selected() bool {
	return r.selected
}

// tableRows is the RowFactory the table hands its scroller: it resolves a
// display index to a dataset row and paints the row's cells.
type tableRows[T any] struct {
	t *Table[T]
}

func (f tableRows[T]) Construct(displayIndex int) *RowView {
	v := &RowView{}
	f.paint(v, displayIndex)
	return v
}

func (f tableRows[T]) Update(v *RowView, displayIndex int) {
	f.paint(v, displayIndex)
}

func (f tableRows[T]) Measure(v *RowView) int {
	if v.text == "" {
		return 0
	}
	return lipgloss.Height(v.text)
}

func (f tableRows[T]) paint(v *RowView, displayIndex int) {
	t := f.t
	ds, err := t.index.Resolve(displayIndex)
	if err != nil {
		t.log.Error("paint row", "display", displayIndex, "err", err)
		v.text, v.dataset, v.selected = "", -1, false
		return
	}
	row := &t.data[ds]
	v.dataset = ds
	v.selected = t.selection.IsSelected(ds)

	base := t.styles.Row
	if displayIndex%2 == 1 {
		base = t.styles.AltRow
	}
	if v.selected {
		base = t.styles.Selected
	}
	v.text = t.renderCells(row, base)
}

// renderCells formats every column of row and joins the cells.
func (t *Table[T]) renderCells(row *T, base lipgloss.Style) string {
	gap := base.Render(strings.Repeat(" ", t.styles.Gap))
	b := getBuilder()
	for i := range t.columns {
		c := &t.columns[i]
		if i > 0 {
			b.WriteString(gap)
		}
		s, raw := c.text(row)
		cell := fit(s, c.width(), c.cfg.align)
		style := base
		if c.cfg.style != nil {
			if st := c.cfg.style(raw); st != nil {
				style = st.Inherit(base)
			}
		}
		b.WriteString(style.Render(cell))
	}
	return putBuilder(b)
}

// header renders the column titles.
func (t *Table[T]) header() string {
	gap := t.styles.Header.Render(strings.Repeat(" ", t.styles.Gap))
	b := getBuilder()
	for i := range t.columns {
		c := &t.columns[i]
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteString(t.styles.Header.Render(fit(c.Title, c.width(), c.cfg.align)))
	}
	return putBuilder(b)
}
