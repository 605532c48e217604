package infinitable

import (
	"fmt"
	"slices"
)

// ViewMode says which rows the display index space covers.
type ViewMode uint8

const (
	ViewAll      ViewMode = iota // the filter result, or the whole dataset
	ViewSelected                 // only selected rows, ascending
)

func (m ViewMode) String() string {
	if m == ViewSelected {
		return "selected-only"
	}
	return "all"
}

// IndexMap maps display indices (what the scroller windows over) to dataset
// indices. The mapping is rebuilt from scratch on every change and never
// depends on its previous state.
type IndexMap struct {
	datasetSize int
	mapping     []int
	mode        ViewMode
}

// Reset makes the mapping the identity over a dataset of n rows.
func (m *IndexMap) Reset(n int) {
	m.datasetSize = n
	m.mode = ViewAll
	m.mapping = identity(m.mapping[:0], n)
}

// Apply rebuilds the mapping for a dataset of n rows from a filter result.
// selected is only consulted for FilterSelected and may be in any order.
// On error the previous mapping is left untouched.
func (m *IndexMap) Apply(n int, res FilterResult, selected []int) error {
	var next []int
	mode := ViewAll
	switch res.Kind {
	case FilterNone:
		next = identity(nil, n)
	case FilterSelected:
		next = slices.Clone(selected)
		slices.Sort(next)
		next = slices.Compact(next)
		mode = ViewSelected
	default:
		next = slices.Clone(res.Indices)
	}
	for _, ds := range next {
		if ds < 0 || ds >= n {
			return fmt.Errorf("map dataset index %d of %d: %w", ds, n, ErrIndexOutOfRange)
		}
	}
	m.datasetSize = n
	m.mapping = next
	m.mode = mode
	return nil
}

// Resolve returns the dataset index shown at display index d.
func (m *IndexMap) Resolve(d int) (int, error) {
	if d < 0 || d >= len(m.mapping) {
		return -1, fmt.Errorf("resolve display index %d of %d: %w", d, len(m.mapping), ErrIndexOutOfRange)
	}
	return m.mapping[d], nil
}

// Len returns the display count.
func (m *IndexMap) Len() int {
	return len(m.mapping)
}

// DatasetSize returns the size of the dataset the mapping was built for.
func (m *IndexMap) DatasetSize() int {
	return m.datasetSize
}

// Mode returns the current view mode.
func (m *IndexMap) Mode() ViewMode {
	return m.mode
}

// Indices returns a copy of the display-to-dataset mapping.
func (m *IndexMap) Indices() []int {
	return slices.Clone(m.mapping)
}

// SelectedDisplayIndices returns, in ascending order, the display indices
// whose dataset row is selected.
func (m *IndexMap) SelectedDisplayIndices(sel *Selection) []int {
	var out []int
	if sel.Len() == 0 {
		return out
	}
	for d, ds := range m.mapping {
		if sel.IsSelected(ds) {
			out = append(out, d)
		}
	}
	return out
}

func identity(dst []int, n int) []int {
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = i
	}
	return dst
}
