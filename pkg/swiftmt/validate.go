package swiftmt

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation policy names accepted by NewValidator.
const (
	PolicyOrdering = "ordering"
	PolicyPattern  = "pattern"
)

// Validator decides whether a raw message is structurally acceptable for
// segmentation. Validators only look at marker order; brace balance, nesting
// and block lengths are left to the field extractors.
type Validator interface {
	Validate(raw string) error
}

// NewValidator returns the validator for the named policy. An empty name
// selects the ordering policy.
func NewValidator(policy string) (Validator, error) {
	switch strings.ToLower(policy) {
	case "", PolicyOrdering:
		return OrderingValidator{}, nil
	case PolicyPattern:
		return PatternValidator{}, nil
	default:
		return nil, fmt.Errorf("unknown validation policy %q", policy)
	}
}

// IsWellFormed reports whether raw passes the default (ordering) validator.
func IsWellFormed(raw string) bool {
	return OrderingValidator{}.Validate(raw) == nil
}

// OrderingValidator accepts a message when all four block markers are present
// and their first occurrences appear in wire order.
type OrderingValidator struct{}

func (OrderingValidator) Validate(raw string) error {
	if raw == "" {
		return &BlockError{Block: BlockBasicHeader, Err: ErrStructural, Detail: "empty message"}
	}

	prev := -1
	var prevID BlockID
	for _, id := range Blocks {
		idx := strings.Index(raw, id.Marker())
		if idx < 0 {
			return &BlockError{Block: id, Err: ErrStructural, Detail: fmt.Sprintf("marker %s not found", id.Marker())}
		}
		if idx <= prev {
			return &BlockError{
				Block:  id,
				Err:    ErrStructural,
				Detail: fmt.Sprintf("marker %s appears before %s", id.Marker(), prevID.Marker()),
			}
		}
		prev, prevID = idx, id
	}
	return nil
}

// envelopePattern finds the four markers in order followed by a closing brace,
// anywhere in the text.
var envelopePattern = regexp.MustCompile(`(?s)\{1:.*?\{2:.*?\{4:.*?\{5:.*?\}`)

// PatternValidator accepts a message when a single pass over the whole text
// finds {1:, {2:, {4: and {5: in that relative order followed by a "}".
// Unlike OrderingValidator it ignores earlier out-of-order occurrences.
type PatternValidator struct{}

func (PatternValidator) Validate(raw string) error {
	if raw == "" {
		return &BlockError{Block: BlockBasicHeader, Err: ErrStructural, Detail: "empty message"}
	}
	if !envelopePattern.MatchString(raw) {
		return &BlockError{Block: firstUnmatched(raw), Err: ErrStructural, Detail: "block markers not found in order"}
	}
	return nil
}

// firstUnmatched returns the first block whose marker cannot be found after
// the previous one. It is only used to name the block in error messages.
func firstUnmatched(raw string) BlockID {
	pos := 0
	for _, id := range Blocks {
		idx := strings.Index(raw[pos:], id.Marker())
		if idx < 0 {
			return id
		}
		pos += idx + len(id.Marker())
	}
	return BlockTrailer
}
