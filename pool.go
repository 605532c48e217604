package infinitable

import (
	"strings"
	"sync"
)

// Builder pool - every row repaint formats a full line of cells
var builderPool = sync.Pool{
	New: func() any { return new(strings.Builder) },
}

// getBuilder gets an empty builder from the pool.
func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

// putBuilder returns b to the pool and hands back what was built.
func putBuilder(b *strings.Builder) string {
	s := b.String()
	builderPool.Put(b)
	return s
}
