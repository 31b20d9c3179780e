package swiftmt

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural reports missing or out-of-order top-level block markers.
	ErrStructural = errors.New("invalid SWIFT MT799 message format")
	// ErrBlockMissing reports a block the segmenter could not delimit.
	ErrBlockMissing = errors.New("block is missing or invalid")
	// ErrInsufficientLength reports block content shorter than its fixed layout.
	ErrInsufficientLength = errors.New("insufficient length")
	// ErrUnterminatedSubfield reports a trailer sub-field without a closing brace.
	ErrUnterminatedSubfield = errors.New("unterminated sub-field")
)

// BlockError is returned for every rejection raised by this package. It names
// the block that failed and wraps one of the sentinel errors above.
type BlockError struct {
	Err error
	// Detail is a short description of what was found.
	Detail string
	// Field is the sub-field tag for trailer errors (e.g. "MAC").
	Field string
	Block BlockID
	// Want and Got carry the required and actual lengths for ErrInsufficientLength.
	Want int
	Got  int
}

func (e *BlockError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInsufficientLength):
		return fmt.Sprintf("%s: %v: need %d characters, got %d", e.Block, e.Err, e.Want, e.Got)
	case errors.Is(e.Err, ErrUnterminatedSubfield):
		return fmt.Sprintf("%s: %v {%s:", e.Block, e.Err, e.Field)
	case e.Detail != "":
		return fmt.Sprintf("%s: %v: %s", e.Block, e.Err, e.Detail)
	default:
		return fmt.Sprintf("%s: %v", e.Block, e.Err)
	}
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// FailedBlock returns the block named by err, if err is (or wraps) a *BlockError.
func FailedBlock(err error) (BlockID, bool) {
	var be *BlockError
	if errors.As(err, &be) {
		return be.Block, true
	}
	return 0, false
}
