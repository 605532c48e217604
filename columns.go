package infinitable

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Align is the horizontal alignment of a column.
type Align uint8

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column describes how one field of a row is shown.
type Column[T any] struct {
	Title string
	Width int // cells; 0 sizes the column to its title
	Value func(row *T) any

	cfg columnConfig
}

// ColumnOption configures a column's formatting.
type ColumnOption func(*columnConfig)

type columnConfig struct {
	align  Align
	format func(any) string
	style  func(any) *lipgloss.Style
}

// NewColumn creates a column that shows value(row) under title.
func NewColumn[T any](title string, width int, value func(row *T) any, opts ...ColumnOption) Column[T] {
	c := Column[T]{Title: title, Width: width, Value: value}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// AlignTo sets the column alignment.
func AlignTo(a Align) ColumnOption {
	return func(c *columnConfig) { c.align = a }
}

// Format sets the function that turns the field value into cell text.
func Format(fn func(any) string) ColumnOption {
	return func(c *columnConfig) { c.format = fn }
}

// CellStyle sets a per-value cell style. Returning nil keeps the row style.
func CellStyle(fn func(any) *lipgloss.Style) ColumnOption {
	return func(c *columnConfig) { c.style = fn }
}

// Number right-aligns numbers with thousands separators.
func Number(decimals int) ColumnOption {
	return func(c *columnConfig) {
		c.align = AlignRight
		c.format = func(v any) string { return groupThousands(strconv.FormatFloat(asFloat(v), 'f', decimals, 64)) }
	}
}

// Currency is Number with a symbol in front.
func Currency(symbol string, decimals int) ColumnOption {
	return func(c *columnConfig) {
		c.align = AlignRight
		c.format = func(v any) string {
			s := groupThousands(strconv.FormatFloat(asFloat(v), 'f', decimals, 64))
			if strings.HasPrefix(s, "-") {
				return "-" + symbol + s[1:]
			}
			return symbol + s
		}
	}
}

// Percent shows numbers as percentages.
func Percent(decimals int) ColumnOption {
	return func(c *columnConfig) {
		c.align = AlignRight
		c.format = func(v any) string { return strconv.FormatFloat(asFloat(v), 'f', decimals, 64) + "%" }
	}
}

// Bytes shows numbers as human readable sizes (1024 based).
func Bytes() ColumnOption {
	return func(c *columnConfig) {
		c.align = AlignRight
		c.format = func(v any) string { return humanBytes(asFloat(v)) }
	}
}

// Bool shows booleans with the given labels.
func Bool(yes, no string) ColumnOption {
	return func(c *columnConfig) {
		c.align = AlignCenter
		c.format = func(v any) string {
			if b, _ := v.(bool); b {
				return yes
			}
			return no
		}
	}
}

// width returns the cell width of the column.
func (c *Column[T]) width() int {
	if c.Width > 0 {
		return c.Width
	}
	return max(runewidth.StringWidth(c.Title), 1)
}

// text returns the formatted value of the column for row.
func (c *Column[T]) text(row *T) (string, any) {
	if c.Value == nil {
		return "", nil
	}
	v := c.Value(row)
	if c.cfg.format != nil {
		return c.cfg.format(v), v
	}
	switch x := v.(type) {
	case string:
		return x, v
	case nil:
		return "", v
	}
	return fmt.Sprint(v), v
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int, a Align) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	switch a {
	case AlignRight:
		return runewidth.FillLeft(s, w)
	case AlignCenter:
		pad := w - runewidth.StringWidth(s)
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return runewidth.FillRight(s, w)
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func humanBytes(n float64) string {
	if n < 0 {
		return "-" + humanBytes(-n)
	}
	if n < 1 {
		return "0 B"
	}
	units := [...]string{"B", "KB", "MB", "GB", "TB", "PB"}
	exp := min(int(math.Log(n)/math.Log(1024)), len(units)-1)
	v := n / math.Pow(1024, float64(exp))
	if exp == 0 {
		return fmt.Sprintf("%.0f %s", v, units[exp])
	}
	return fmt.Sprintf("%.1f %s", v, units[exp])
}
