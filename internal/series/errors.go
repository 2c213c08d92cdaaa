package series

import (
	"errors"
	"fmt"
)

// ErrOutOfRange reports a buffer access outside [0, Len()).
var ErrOutOfRange = errors.New("index out of range")

// RangeError carries the offending index. It matches ErrOutOfRange with errors.Is.
type RangeError struct {
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("series: index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
