package rope

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates an offset or offset pair outside the valid range.
// It is the only error kind returned by rope operations.
var ErrOutOfRange = errors.New("offset out of range")

// RangeError describes a rejected offset argument.
type RangeError struct {
	// Op is the operation that rejected the arguments.
	Op string
	// Start and End are the offending offsets. For single-offset operations
	// End equals Start.
	Start, End int
	// Len is the length of the text the operation was applied to.
	Len int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Start == e.End {
		return fmt.Sprintf("rope: %s: offset %d out of bounds for length %d", e.Op, e.Start, e.Len)
	}
	return fmt.Sprintf("rope: %s: range [%d, %d) out of bounds for length %d", e.Op, e.Start, e.End, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// checkOffset validates 0 <= i <= length.
func checkOffset(op string, i, length int) error {
	if i < 0 || i > length {
		return &RangeError{Op: op, Start: i, End: i, Len: length}
	}
	return nil
}

// checkIndex validates 0 <= i < length.
func checkIndex(op string, i, length int) error {
	if i < 0 || i >= length {
		return &RangeError{Op: op, Start: i, End: i, Len: length}
	}
	return nil
}

// checkRange validates 0 <= start <= end <= length.
func checkRange(op string, start, end, length int) error {
	if start < 0 || end < start || end > length {
		return &RangeError{Op: op, Start: start, End: end, Len: length}
	}
	return nil
}
