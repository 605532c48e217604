package infinitable

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultSelectedQuery is the search query that switches the table into the
// selected-only view.
const DefaultSelectedQuery = ":selected"

// Config holds the table settings. It is usually loaded from a TOML file:
//
//	row_height     = 1
//	buffer_size    = 20
//	selection_mode = "multi"
//	frame_rate     = 60
type Config struct {
	RowHeight     int    `toml:"row_height"`     // default row height until the first measurement
	BufferSize    int    `toml:"buffer_size"`    // rows materialized above and below the viewport
	SelectionMode string `toml:"selection_mode"` // "single" or "multi"
	FrameRate     int    `toml:"frame_rate"`     // frames per second for coalesced scroll renders
	SelectedQuery string `toml:"selected_query"` // query that shows the selection only
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		RowHeight:     1,
		BufferSize:    20,
		SelectionMode: SelectMulti.String(),
		FrameRate:     60,
		SelectedQuery: DefaultSelectedQuery,
	}
}

// LoadConfig reads a TOML config file. Keys that are absent keep their
// default value; a missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.RowHeight < 1 {
		return fmt.Errorf("%w: row_height must be positive, got %d", ErrInvalidConfig, c.RowHeight)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: buffer_size must not be negative, got %d", ErrInvalidConfig, c.BufferSize)
	}
	if c.FrameRate < 1 {
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalidConfig, c.FrameRate)
	}
	if _, err := ParseSelectionMode(c.SelectionMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(c.SelectedQuery) == "" {
		return fmt.Errorf("%w: selected_query must not be blank", ErrInvalidConfig)
	}
	return nil
}

// selectedQuery returns the normalized selected-only query.
func (c Config) selectedQuery() string {
	q := strings.ToLower(strings.TrimSpace(c.SelectedQuery))
	if q == "" {
		return DefaultSelectedQuery
	}
	return q
}
