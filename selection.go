package infinitable

import (
	"fmt"
	"slices"
	"strings"
)

// SelectionMode is the membership policy of a Selection.
type SelectionMode int

const (
	SelectMulti  SelectionMode = iota // each click toggles its row independently
	SelectSingle                      // at most one row is selected
)

func (m SelectionMode) String() string {
	switch m {
	case SelectSingle:
		return "single"
	case SelectMulti:
		return "multi"
	default:
		return fmt.Sprintf("SelectionMode(%d)", int(m))
	}
}

// ParseSelectionMode converts "single" or "multi" (any case) to a mode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return SelectSingle, nil
	case "multi", "":
		return SelectMulti, nil
	}
	return SelectMulti, fmt.Errorf("%w: %q", ErrInvalidSelectionMode, s)
}

// Selection is a set of dataset indices. Membership is always expressed in
// dataset-index space so it survives any re-filtering of the view.
type Selection struct {
	mode     SelectionMode
	members  map[int]struct{}
	onChange func(selected []int)
}

// NewSelection creates an empty selection with the given mode.
func NewSelection(mode SelectionMode) *Selection {
	return &Selection{
		mode:    mode,
		members: make(map[int]struct{}),
	}
}

// Mode returns the membership policy.
func (s *Selection) Mode() SelectionMode {
	return s.mode
}

// OnChange registers the observer called after every mutation with the new
// ascending selection. The call happens before the mutating method returns.
func (s *Selection) OnChange(fn func(selected []int)) {
	s.onChange = fn
}

// Click applies a row click. In single mode clicking the sole selected row
// clears the selection and clicking any other row replaces it. In multi mode
// the clicked row is toggled.
func (s *Selection) Click(datasetIndex int) {
	_, had := s.members[datasetIndex]
	if s.mode == SelectSingle && !had {
		clear(s.members)
	}
	if had {
		delete(s.members, datasetIndex)
	} else {
		s.members[datasetIndex] = struct{}{}
	}
	s.notify()
}

// Clear empties the selection unconditionally.
func (s *Selection) Clear() {
	clear(s.members)
	s.notify()
}

// IsSelected reports whether datasetIndex is a member.
func (s *Selection) IsSelected(datasetIndex int) bool {
	_, ok := s.members[datasetIndex]
	return ok
}

// Len returns the number of selected rows.
func (s *Selection) Len() int {
	return len(s.members)
}

// Selected returns the members in ascending order regardless of click order.
func (s *Selection) Selected() []int {
	out := make([]int, 0, len(s.members))
	for i := range s.members {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Destroy drops all members without notifying the observer.
func (s *Selection) Destroy() {
	clear(s.members)
	s.onChange = nil
}

func (s *Selection) notify() {
	if s.onChange != nil {
		s.onChange(s.Selected())
	}
}

// SelectedData returns the rows of data that are selected, in ascending
// dataset order. Indices past the end of data are skipped.
func SelectedData[T any](s *Selection, data []T) []T {
	sel := s.Selected()
	out := make([]T, 0, len(sel))
	for _, i := range sel {
		if i >= 0 && i < len(data) {
			out = append(out, data[i])
		}
	}
	return out
}
