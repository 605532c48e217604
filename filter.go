package infinitable

import (
	"cmp"
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/util"
)

// FilterKind says how a FilterResult maps onto the display.
type FilterKind uint8

const (
	FilterNone     FilterKind = iota // no filter, the display is the whole dataset
	FilterSelected                   // the display is the current selection
	FilterIndices                    // the display is exactly Indices, in order
)

// FilterResult is what a filter hands to the index mapping layer on every
// query change.
type FilterResult struct {
	Kind    FilterKind
	Indices []int // surviving dataset indices, only for FilterIndices
}

// NoFilter is the identity result.
var NoFilter = FilterResult{Kind: FilterNone}

// SelectedOnly is the result that restricts the view to selected rows.
var SelectedOnly = FilterResult{Kind: FilterSelected}

// Matching wraps an explicit ordered list of dataset indices.
func Matching(indices []int) FilterResult {
	return FilterResult{Kind: FilterIndices, Indices: indices}
}

// SearchFilter ranks rows against an fzf query. It has no UI opinions: it
// only turns a query into a FilterResult over the rows it was given.
//
//	f := NewSearchFilter(func(p *Pkg) string { return p.Name })
//	f.SetData(pkgs)
//	res := f.Update("^net")   // res.Indices are dataset indices, best first
type SearchFilter[T any] struct {
	rows          []T
	extract       func(*T) string
	selectedQuery string

	raw     string
	query   Query
	result  FilterResult
	scratch []rankedRow
	slab    *util.Slab
}

type rankedRow struct {
	index int
	score int
}

// NewSearchFilter creates a filter that searches the text extract returns
// for each row.
func NewSearchFilter[T any](extract func(*T) string) *SearchFilter[T] {
	return &SearchFilter[T]{
		extract:       extract,
		selectedQuery: DefaultSelectedQuery,
		result:        NoFilter,
		slab:          util.MakeSlab(100*1024, 2048),
	}
}

// SelectedQuery changes the query that yields SelectedOnly. It is compared
// against the trimmed, lower-cased input.
func (f *SearchFilter[T]) SelectedQuery(q string) *SearchFilter[T] {
	f.selectedQuery = strings.ToLower(strings.TrimSpace(q))
	return f
}

// SetData replaces the searchable rows and re-applies the current query.
func (f *SearchFilter[T]) SetData(rows []T) FilterResult {
	f.rows = rows
	return f.apply()
}

// Update re-filters with a new query. Repeating the current query returns
// the cached result.
func (f *SearchFilter[T]) Update(raw string) FilterResult {
	if raw == f.raw {
		return f.result
	}
	f.raw = raw
	return f.apply()
}

// Result returns the result of the last query.
func (f *SearchFilter[T]) Result() FilterResult {
	return f.result
}

// Query returns the raw query text.
func (f *SearchFilter[T]) Query() string {
	return f.raw
}

// Active reports whether a query other than the blank one is applied.
func (f *SearchFilter[T]) Active() bool {
	return f.result.Kind != FilterNone
}

func (f *SearchFilter[T]) apply() FilterResult {
	norm := strings.ToLower(strings.TrimSpace(f.raw))
	if norm == "" {
		f.query = Query{}
		f.result = NoFilter
		return f.result
	}
	if norm == f.selectedQuery {
		f.query = Query{}
		f.result = SelectedOnly
		return f.result
	}

	f.query = ParseQuery(f.raw)
	ranked := f.scratch[:0]
	for i := range f.rows {
		if score, ok := f.query.Score(f.extract(&f.rows[i]), f.slab); ok {
			ranked = append(ranked, rankedRow{index: i, score: score})
		}
	}
	// best score first, dataset order breaks ties
	slices.SortStableFunc(ranked, func(a, b rankedRow) int {
		return cmp.Compare(b.score, a.score)
	})
	f.scratch = ranked

	indices := make([]int, len(ranked))
	for i, r := range ranked {
		indices[i] = r.index
	}
	f.result = Matching(indices)
	return f.result
}
