package swiftmt

import (
	"fmt"
	"strings"
)

// Segmentation policy names accepted by NewSegmenter.
const (
	PolicyLookahead = "lookahead"
	PolicyLineScan  = "linescan"
)

// Segmenter splits a raw message into its four top-level block spans.
//
// Neither implementation balances braces: a literal "{5:" inside the text
// block ends the text block there, and a "{2:" inside the basic header ends
// the basic header there. Such input yields spans that fail field extraction
// or carry truncated text.
type Segmenter interface {
	Segment(raw string) BlockSet
}

// NewSegmenter returns the segmenter for the named policy. An empty name
// selects the lookahead policy.
func NewSegmenter(policy string) (Segmenter, error) {
	switch strings.ToLower(policy) {
	case "", PolicyLookahead:
		return LookaheadSegmenter{}, nil
	case PolicyLineScan:
		return LineScanSegmenter{}, nil
	default:
		return nil, fmt.Errorf("unknown segmentation policy %q", policy)
	}
}

// Segment splits raw with the default (lookahead) segmenter.
func Segment(raw string) BlockSet {
	return LookaheadSegmenter{}.Segment(raw)
}

// LookaheadSegmenter delimits every block from its own marker up to the marker
// of the block that follows it, or the end of input. The basic header,
// application header and trailer must end with "}" (trailing whitespace is
// ignored); the text block has no closing requirement.
type LookaheadSegmenter struct{}

func (LookaheadSegmenter) Segment(raw string) BlockSet {
	return BlockSet{
		BasicHeader:       closedSpan(raw, BlockBasicHeader, BlockApplicationHeader),
		ApplicationHeader: closedSpan(raw, BlockApplicationHeader, BlockText),
		Text:              openSpan(raw, BlockText, BlockTrailer),
		Trailer:           closedSpan(raw, BlockTrailer, 0),
	}
}

// spanUntil returns raw from the first marker of id up to, not including, the
// next marker of next after it. A zero next runs to the end of input.
func spanUntil(raw string, id, next BlockID) (string, bool) {
	start := strings.Index(raw, id.Marker())
	if start < 0 {
		return "", false
	}
	rest := raw[start:]
	if next == 0 {
		return rest, true
	}
	body := len(id.Marker())
	if end := strings.Index(rest[body:], next.Marker()); end >= 0 {
		return rest[:body+end], true
	}
	return rest, true
}

func closedSpan(raw string, id, next BlockID) string {
	span, ok := spanUntil(raw, id, next)
	if !ok {
		return ""
	}
	span = strings.TrimRight(span, " \t\r\n")
	if !strings.HasSuffix(span, "}") {
		return ""
	}
	return span
}

func openSpan(raw string, id, next BlockID) string {
	span, ok := spanUntil(raw, id, next)
	if !ok {
		return ""
	}
	return strings.TrimRight(span, " \t\r\n")
}

// LineScanSegmenter reads the message line by line. A line starting with a
// block marker opens that block; the basic header, application header and
// trailer are exactly that one line, while the text block collects every
// following line until one starts with the trailer marker.
type LineScanSegmenter struct{}

func (LineScanSegmenter) Segment(raw string) BlockSet {
	var (
		set    BlockSet
		text   strings.Builder
		inText bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if inText {
			if !strings.HasPrefix(line, BlockTrailer.Marker()) {
				text.WriteString(line)
				text.WriteByte('\n')
				continue
			}
			inText = false
			set.Text = text.String()
		}

		switch {
		case strings.HasPrefix(line, BlockBasicHeader.Marker()):
			set.BasicHeader = line
		case strings.HasPrefix(line, BlockApplicationHeader.Marker()):
			set.ApplicationHeader = line
		case strings.HasPrefix(line, BlockText.Marker()):
			inText = true
			text.Reset()
			text.WriteString(line)
			text.WriteByte('\n')
		case strings.HasPrefix(line, BlockTrailer.Marker()):
			set.Trailer = line
		}
	}

	if inText {
		set.Text = text.String()
	}
	return set
}
