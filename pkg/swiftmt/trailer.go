package swiftmt

import "strings"

// Trailer sub-field tags.
const (
	SubfieldMAC      = "MAC"
	SubfieldChecksum = "CHK"
)

// Trailer holds the block 5 sub-fields. Absent sub-fields are empty strings.
type Trailer struct {
	Checksum         string
	DigitalSignature string
}

// ExtractTrailer decodes the block 5 span, e.g. "{5:{MAC:ABCDEF}{CHK:123456}}".
// Sub-fields are located independently; a marker without a closing brace is
// reported as ErrUnterminatedSubfield.
func ExtractTrailer(span string) (Trailer, error) {
	content, err := blockContent(BlockTrailer, span, 0)
	if err != nil {
		return Trailer{}, err
	}
	content = strings.TrimSpace(content)

	mac, err := subfield(content, SubfieldMAC)
	if err != nil {
		return Trailer{}, err
	}
	chk, err := subfield(content, SubfieldChecksum)
	if err != nil {
		return Trailer{}, err
	}

	return Trailer{Checksum: chk, DigitalSignature: mac}, nil
}

// subfield returns the value between "{tag:" and the next "}".
func subfield(content, tag string) (string, error) {
	marker := "{" + tag + ":"
	start := strings.Index(content, marker)
	if start < 0 {
		return "", nil
	}
	valueStart := start + len(marker)
	end := strings.IndexByte(content[valueStart:], '}')
	if end < 0 {
		return "", &BlockError{Block: BlockTrailer, Err: ErrUnterminatedSubfield, Field: tag}
	}
	return content[valueStart : valueStart+end], nil
}
