package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when the supplied window is smaller than the
	// operation requires. It is always wrapped in a *BoundsError.
	ErrOutOfBounds = errors.New("wire: buffer out of bounds")
	// ErrVarintOverflow is returned when a varint needs more than 5 bytes.
	ErrVarintOverflow = errors.New("wire: varint overflows uint32")
	// ErrUnexpectedEOF is returned when the input ends before the terminating
	// byte of a varint.
	ErrUnexpectedEOF = errors.New("wire: unexpected end of input reading varint")
)

// BoundsError reports which operation ran out of room and by how much.
type BoundsError struct {
	Op   string
	Need int
	Have int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("wire: %s: need %d bytes, have %d", e.Op, e.Need, e.Have)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

func outOfBounds(op string, need, have int) error {
	return &BoundsError{Op: op, Need: need, Have: have}
}
