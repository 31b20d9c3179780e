package swiftmt_test

import "strings"

const (
	basicContent = "F01PRCBBGSFAXXX1111111111"
	appContent   = "I799BANKBEBBAXXXPRCBBGSFAXX1234567890N"
	textSpan     = "{4:\n:20:REF1\n:21:REF2\n:79:Line one\nLine two\n-}"
	trailerSpan  = "{5:{MAC:ABCDEF}{CHK:123456}}"
)

// sampleMessage is a single-line envelope with no separators between blocks.
func sampleMessage() string {
	return "{1:" + basicContent + "}" + "{2:" + appContent + "}" + textSpan + trailerSpan
}

// sampleMultiline puts each block on its own line, the way files usually arrive.
func sampleMultiline() string {
	return strings.Join([]string{
		"{1:" + basicContent + "}",
		"{2:" + appContent + "}",
		textSpan,
		trailerSpan,
		"",
	}, "\n")
}
