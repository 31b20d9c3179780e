// Package swiftmt parses SWIFT MT799 free-format messages: the four-block FIN
// envelope ({1:} basic header, {2:} application header, {4:} text block and
// {5:} trailer) and the fields carried in each block.
//
// The package is pure: every function works on an immutable input string, keeps
// no state between calls and performs no I/O, so it is safe for concurrent use.
package swiftmt

import (
	"strconv"
	"strings"
)

// BlockID identifies one of the top-level blocks of a FIN message.
type BlockID int

const (
	BlockBasicHeader       BlockID = 1
	BlockApplicationHeader BlockID = 2
	BlockText              BlockID = 4
	BlockTrailer           BlockID = 5
)

// Blocks lists the block identifiers in wire order.
var Blocks = []BlockID{BlockBasicHeader, BlockApplicationHeader, BlockText, BlockTrailer}

// Marker returns the literal that opens the block, e.g. "{1:".
func (b BlockID) Marker() string {
	return "{" + strconv.Itoa(int(b)) + ":"
}

// String returns the human readable block name.
func (b BlockID) String() string {
	switch b {
	case BlockBasicHeader:
		return "Basic Header Block"
	case BlockApplicationHeader:
		return "Application Header Block"
	case BlockText:
		return "Text Block"
	case BlockTrailer:
		return "Trailer Block"
	default:
		return "Block " + strconv.Itoa(int(b))
	}
}

// BlockSet holds the raw span of every top-level block, markers included.
// A span is empty when the block could not be located.
type BlockSet struct {
	BasicHeader       string
	ApplicationHeader string
	Text              string
	Trailer           string
}

// Span returns the raw span for the given block.
func (s BlockSet) Span(id BlockID) string {
	switch id {
	case BlockBasicHeader:
		return s.BasicHeader
	case BlockApplicationHeader:
		return s.ApplicationHeader
	case BlockText:
		return s.Text
	case BlockTrailer:
		return s.Trailer
	default:
		return ""
	}
}

// Missing returns the blocks whose span is empty, in wire order.
func (s BlockSet) Missing() []BlockID {
	var missing []BlockID
	for _, id := range Blocks {
		if strings.TrimSpace(s.Span(id)) == "" {
			missing = append(missing, id)
		}
	}
	return missing
}
