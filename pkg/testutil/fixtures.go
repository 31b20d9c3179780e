// Package testutil holds shared fixtures and container helpers for tests.
package testutil

import (
	"strings"

	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestRecordID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestRecordID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// Sample MT799 building blocks.
const (
	SampleBasicHeader       = "{1:F01PRCBBGSFAXXX1111111111}"
	SampleApplicationHeader = "{2:I799BANKBEBBAXXXPRCBBGSFAXX1234567890N}"
	SampleTextBlock         = "{4:\n:20:REF1\n:21:REF2\n:79:Line one\nLine two\n-}"
	SampleTrailer           = "{5:{MAC:ABCDEF}{CHK:123456}}"
)

// SampleMT799 returns a well-formed message with every block on its own line.
func SampleMT799() string {
	return strings.Join([]string{SampleBasicHeader, SampleApplicationHeader, SampleTextBlock, SampleTrailer}, "\n") + "\n"
}

// MT799WithRefs returns SampleMT799 with the given references and narrative.
func MT799WithRefs(transactionRef, relatedRef, narrative string) string {
	text := "{4:\n:20:" + transactionRef + "\n:21:" + relatedRef + "\n:79:" + narrative + "\n-}"
	return strings.Join([]string{SampleBasicHeader, SampleApplicationHeader, text, SampleTrailer}, "\n") + "\n"
}
