package infinitable

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	var buf bytes.Buffer
	log := NewLogger(&buf)

	log.Debug("hidden")
	assert.False(t, verbose())
	assert.Empty(t, buf.String())

	SetVerbose(true)
	log.Debug("shown", "rows", 3)
	assert.True(t, verbose())
	assert.Contains(t, buf.String(), "msg=shown rows=3")
}
