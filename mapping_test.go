package infinitable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexMap(t *testing.T) {
	t.Run("reset is the identity", func(t *testing.T) {
		var m IndexMap
		m.Reset(4)
		assert.Equal(t, []int{0, 1, 2, 3}, m.Indices())
		assert.Equal(t, 4, m.DatasetSize())
		assert.Equal(t, ViewAll, m.Mode())
	})

	t.Run("explicit indices resolve in the order given", func(t *testing.T) {
		var m IndexMap
		m.Reset(1000)
		require.NoError(t, m.Apply(1000, Matching([]int{5, 42, 999}), nil))

		assert.Equal(t, 3, m.Len())
		for d, want := range []int{5, 42, 999} {
			got, err := m.Resolve(d)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("no filter maps every row", func(t *testing.T) {
		var m IndexMap
		require.NoError(t, m.Apply(3, Matching([]int{2}), nil))
		require.NoError(t, m.Apply(3, NoFilter, nil))
		assert.Equal(t, []int{0, 1, 2}, m.Indices())
	})

	t.Run("selected only is ascending regardless of click order", func(t *testing.T) {
		var m IndexMap
		require.NoError(t, m.Apply(10, SelectedOnly, []int{7, 3, 7}))
		assert.Equal(t, []int{3, 7}, m.Indices())
		assert.Equal(t, ViewSelected, m.Mode())
		assert.Equal(t, "selected-only", m.Mode().String())
	})

	t.Run("empty selection gives an empty view", func(t *testing.T) {
		var m IndexMap
		require.NoError(t, m.Apply(10, SelectedOnly, nil))
		assert.Zero(t, m.Len())
		_, err := m.Resolve(0)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	})

	t.Run("out of range results are rejected and the mapping kept", func(t *testing.T) {
		var m IndexMap
		m.Reset(5)
		err := m.Apply(5, Matching([]int{1, 5}), nil)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, m.Indices())

		err = m.Apply(5, SelectedOnly, []int{-1})
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, ViewAll, m.Mode())
	})

	t.Run("resolve rejects indices outside the display", func(t *testing.T) {
		var m IndexMap
		m.Reset(2)
		_, err := m.Resolve(2)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = m.Resolve(-1)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	})

	t.Run("mapping does not alias the filter result", func(t *testing.T) {
		var m IndexMap
		in := []int{4, 2}
		require.NoError(t, m.Apply(5, Matching(in), nil))
		in[0] = 0
		got, _ := m.Resolve(0)
		assert.Equal(t, 4, got)
	})

	t.Run("selected display indices follow the mapping", func(t *testing.T) {
		var m IndexMap
		require.NoError(t, m.Apply(100, Matching([]int{50, 10, 70, 20}), nil))
		sel := NewSelection(SelectMulti)
		sel.Click(70)
		sel.Click(10)
		sel.Click(99)

		assert.Equal(t, []int{1, 2}, m.SelectedDisplayIndices(sel))
		assert.Empty(t, m.SelectedDisplayIndices(NewSelection(SelectMulti)))
	})
}
