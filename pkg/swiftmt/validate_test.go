package swiftmt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		ordering    bool
		pattern     bool
		failedBlock swiftmt.BlockID
	}{
		{name: "well formed", raw: sampleMessage(), ordering: true, pattern: true},
		{name: "well formed multiline", raw: sampleMultiline(), ordering: true, pattern: true},
		{name: "empty", raw: "", failedBlock: swiftmt.BlockBasicHeader},
		{name: "trailer before text", raw: "{1:a}{2:b}{5:c}{4:d}", failedBlock: swiftmt.BlockTrailer},
		{name: "missing application header", raw: "{1:a}{4:d}{5:c}", failedBlock: swiftmt.BlockApplicationHeader},
		{name: "missing basic header", raw: "{2:b}{4:d}{5:c}", failedBlock: swiftmt.BlockBasicHeader},
		{name: "only text", raw: ":20:REF1\n:79:hello", failedBlock: swiftmt.BlockBasicHeader},
		{
			// A stray trailer marker ahead of the envelope trips the ordering
			// policy but not the pattern policy.
			name:        "stray leading trailer marker",
			raw:         "{5:}" + sampleMessage(),
			pattern:     true,
			failedBlock: swiftmt.BlockTrailer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderingErr := swiftmt.OrderingValidator{}.Validate(tt.raw)
			patternErr := swiftmt.PatternValidator{}.Validate(tt.raw)

			assert.Equal(t, tt.ordering, orderingErr == nil, "ordering: %v", orderingErr)
			assert.Equal(t, tt.pattern, patternErr == nil, "pattern: %v", patternErr)
			assert.Equal(t, tt.ordering, swiftmt.IsWellFormed(tt.raw))

			if !tt.ordering {
				assert.ErrorIs(t, orderingErr, swiftmt.ErrStructural)
				block, ok := swiftmt.FailedBlock(orderingErr)
				require.True(t, ok)
				assert.Equal(t, tt.failedBlock, block)
			}
			if !tt.pattern {
				assert.ErrorIs(t, patternErr, swiftmt.ErrStructural)
			}
		})
	}
}

func TestOrderingValidator_ErrorDetail(t *testing.T) {
	err := swiftmt.OrderingValidator{}.Validate("{1:a}{2:b}{5:c}{4:d}")
	require.Error(t, err)

	var be *swiftmt.BlockError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, swiftmt.BlockTrailer, be.Block)
	assert.Equal(t, "Trailer Block: invalid SWIFT MT799 message format: marker {5: appears before {4:", err.Error())
}

func TestNewValidator(t *testing.T) {
	v, err := swiftmt.NewValidator("")
	require.NoError(t, err)
	assert.IsType(t, swiftmt.OrderingValidator{}, v)

	v, err = swiftmt.NewValidator("PATTERN")
	require.NoError(t, err)
	assert.IsType(t, swiftmt.PatternValidator{}, v)

	_, err = swiftmt.NewValidator("fuzzy")
	assert.Error(t, err)
}
