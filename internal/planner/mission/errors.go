package mission

import "errors"

var (
	// ErrInvalidIndex - индекс вставки вне границ последовательности.
	ErrInvalidIndex = errors.New("invalid index")
	ErrBadNumbering = errors.New("sequence numbers out of order")
)
