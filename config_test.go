package infinitable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "infinitable.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("no path gives the defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file gives the defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("keys override defaults and absent keys keep them", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, `
row_height = 2
selection_mode = "single"
selected_query = "@sel"
`))
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.RowHeight)
		assert.Equal(t, "single", cfg.SelectionMode)
		assert.Equal(t, "@sel", cfg.selectedQuery())
		assert.Equal(t, 20, cfg.BufferSize)
		assert.Equal(t, 60, cfg.FrameRate)
	})

	t.Run("malformed toml is an error", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "row_height = = 3"))
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		for _, body := range []string{
			"row_height = 0",
			"buffer_size = -1",
			"frame_rate = 0",
			`selection_mode = "many"`,
			`selected_query = "  "`,
		} {
			_, err := LoadConfig(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig, body)
		}
	})
}

func TestConfigSelectedQuery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SelectedQuery = "  :SEL "
	assert.Equal(t, ":sel", cfg.selectedQuery())

	cfg.SelectedQuery = ""
	assert.Equal(t, DefaultSelectedQuery, cfg.selectedQuery())
}
