package swiftmt

// BasicHeader holds the fields of block 1.
//
// Layout of the block content (25 characters):
//
//	F 01 PRCBBGSFAXXX 1111 111111
//	| |  |            |    +-- sequence number (6)
//	| |  |            +------- session number (4)
//	| |  +-------------------- logical terminal address (12)
//	| +----------------------- service level (2)
//	+------------------------- application identifier (1)
type BasicHeader struct {
	MessageTypeCode string
	ServiceLevel    string
	SenderBIC       string
	SessionNumber   string
	SequenceNumber  string
}

// ApplicationHeader holds the fields of block 2. Direction is normally "I" or
// "O" but is not checked.
type ApplicationHeader struct {
	Direction      string
	MessageType    string
	ReceiverBIC    string
	SenderBIC      string
	SessionNumber  string
	SequenceNumber string
	Priority       string
}

// layout is a sequence of fixed field widths.
type layout []int

func (l layout) width() int {
	total := 0
	for _, w := range l {
		total += w
	}
	return total
}

// slice cuts content into consecutive fields. content must be at least
// l.width() bytes long.
func (l layout) slice(content string) []string {
	fields := make([]string, len(l))
	pos := 0
	for i, w := range l {
		fields[i] = content[pos : pos+w]
		pos += w
	}
	return fields
}

var (
	basicHeaderLayout       = layout{1, 2, 12, 4, 6}
	applicationHeaderLayout = layout{1, 3, 12, 11, 4, 6, 1}
)

// BasicHeaderLength is the content length of block 1.
var BasicHeaderLength = basicHeaderLayout.width()

// ApplicationHeaderMinLength is the minimum content length of block 2.
var ApplicationHeaderMinLength = applicationHeaderLayout.width()

// minSpanLength covers the "{N:" marker and the closing "}".
const minSpanLength = 4

// blockContent strips the three character marker and the trailing brace from
// span and checks the remainder holds at least min bytes.
func blockContent(id BlockID, span string, min int) (string, error) {
	if len(span) < minSpanLength {
		return "", &BlockError{Block: id, Err: ErrInsufficientLength, Want: minSpanLength, Got: len(span)}
	}
	content := span[3 : len(span)-1]
	if len(content) < min {
		return "", &BlockError{Block: id, Err: ErrInsufficientLength, Want: min, Got: len(content)}
	}
	return content, nil
}

// ExtractBasicHeader decodes the block 1 span, e.g.
// "{1:F01PRCBBGSFAXXX1111111111}". Content beyond the 25 character layout is
// ignored. Fields are returned verbatim.
func ExtractBasicHeader(span string) (BasicHeader, error) {
	content, err := blockContent(BlockBasicHeader, span, BasicHeaderLength)
	if err != nil {
		return BasicHeader{}, err
	}

	f := basicHeaderLayout.slice(content)
	return BasicHeader{
		MessageTypeCode: f[0],
		ServiceLevel:    f[1],
		SenderBIC:       f[2],
		SessionNumber:   f[3],
		SequenceNumber:  f[4],
	}, nil
}

// ExtractApplicationHeader decodes the block 2 span, e.g.
// "{2:O7991111111111ABGRSWACAXXX11111111111111111111N}". The content must
// hold at least 38 characters; anything after the priority is ignored.
func ExtractApplicationHeader(span string) (ApplicationHeader, error) {
	content, err := blockContent(BlockApplicationHeader, span, ApplicationHeaderMinLength)
	if err != nil {
		return ApplicationHeader{}, err
	}

	f := applicationHeaderLayout.slice(content)
	return ApplicationHeader{
		Direction:      f[0],
		MessageType:    f[1],
		ReceiverBIC:    f[2],
		SenderBIC:      f[3],
		SessionNumber:  f[4],
		SequenceNumber: f[5],
		Priority:       f[6],
	}, nil
}
