package swiftmt

import "strings"

// Text block tags recognised by ParseTextBlock.
const (
	TagTransactionReference = "20"
	TagRelatedReference     = "21"
	TagNarrative            = "79"
)

// recognizedTags is the closed set of tags that open a new field. Any other
// ":NN:" line is continuation text of the open field.
var recognizedTags = map[string]struct{}{
	TagTransactionReference: {},
	TagRelatedReference:     {},
	TagNarrative:            {},
}

// TextField is one tag/value pair of the text block.
type TextField struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// TextFields is the ordered result of ParseTextBlock. Fields keep the order in
// which their tag first appeared. The zero value is an empty field set.
type TextFields struct {
	fields []TextField
	index  map[string]int
}

// Get returns the value of tag and whether it was present.
func (t TextFields) Get(tag string) (string, bool) {
	i, ok := t.index[tag]
	if !ok {
		return "", false
	}
	return t.fields[i].Value, true
}

// Value returns the value of tag, or "" when absent.
func (t TextFields) Value(tag string) string {
	v, _ := t.Get(tag)
	return v
}

// Fields returns a copy of the fields in order.
func (t TextFields) Fields() []TextField {
	out := make([]TextField, len(t.fields))
	copy(out, t.fields)
	return out
}

// Len returns the number of distinct tags.
func (t TextFields) Len() int {
	return len(t.fields)
}

// set opens tag with value. A repeated tag replaces the earlier value but
// keeps its original position.
func (t *TextFields) set(tag, value string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[tag]; ok {
		t.fields[i].Value = value
		return
	}
	t.index[tag] = len(t.fields)
	t.fields = append(t.fields, TextField{Tag: tag, Value: value})
}

func (t *TextFields) appendLine(tag, line string) {
	i := t.index[tag]
	t.fields[i].Value += "\n" + line
}

// ParseTextBlock splits the block 4 span into tag/value fields.
//
// Lines starting with ":20:", ":21:" or ":79:" open a field whose value is the
// rest of the line; every other line, blank lines included, is appended to the
// open field separated by "\n". Lines before the first tag are dropped. Values
// and continuation lines are trimmed. A block without recognised tags yields
// an empty TextFields.
func ParseTextBlock(span string) TextFields {
	var fields TextFields

	content := trimTextTerminator(strings.TrimPrefix(span, BlockText.Marker()))
	if content == "" {
		return fields
	}

	current := ""
	for _, line := range strings.Split(content, "\n") {
		if tag, ok := tagOf(line); ok {
			current = tag
			fields.set(tag, strings.TrimSpace(line[4:]))
			continue
		}
		if current != "" {
			fields.appendLine(current, strings.TrimSpace(line))
		}
	}
	return fields
}

// tagOf reports the recognised tag opening line, if any.
func tagOf(line string) (string, bool) {
	if len(line) < 4 || line[0] != ':' || line[3] != ':' {
		return "", false
	}
	tag := line[1:3]
	_, ok := recognizedTags[tag]
	return tag, ok
}

// trimTextTerminator removes surrounding whitespace and the "-}" block
// terminator when present.
func trimTextTerminator(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasSuffix(content, "}") {
		content = strings.TrimSuffix(content, "}")
		content = strings.TrimSuffix(content, "-")
	}
	return strings.TrimSpace(content)
}
