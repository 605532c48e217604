package infinitable

import "errors"

var (
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrDestroyed            = errors.New("scroller destroyed")
	ErrInvalidSelectionMode = errors.New("invalid selection mode")
	ErrInvalidConfig        = errors.New("invalid config")
)
