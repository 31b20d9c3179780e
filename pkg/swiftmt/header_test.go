package swiftmt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

func TestExtractBasicHeader(t *testing.T) {
	h, err := swiftmt.ExtractBasicHeader("{1:" + basicContent + "}")
	require.NoError(t, err)

	assert.Equal(t, swiftmt.BasicHeader{
		MessageTypeCode: "F",
		ServiceLevel:    "01",
		SenderBIC:       "PRCBBGSFAXXX",
		SessionNumber:   "1111",
		SequenceNumber:  "111111",
	}, h)
}

func TestExtractBasicHeader_Length(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "exactly 25", content: strings.Repeat("A", 25)},
		{name: "longer than layout", content: strings.Repeat("B", 30)},
		{name: "24", content: strings.Repeat("A", 24), wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := swiftmt.ExtractBasicHeader("{1:" + tt.content + "}")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, swiftmt.ErrInsufficientLength)

			var be *swiftmt.BlockError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, swiftmt.BlockBasicHeader, be.Block)
			assert.Equal(t, 25, be.Want)
			assert.Equal(t, len(tt.content), be.Got)
		})
	}
}

func TestExtractBasicHeader_ShortSpan(t *testing.T) {
	_, err := swiftmt.ExtractBasicHeader("{1:")
	require.Error(t, err)

	var be *swiftmt.BlockError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 4, be.Want)
	assert.Equal(t, 3, be.Got)
	assert.Equal(t, "Basic Header Block: insufficient length: need 4 characters, got 3", err.Error())
}

func TestExtractBasicHeader_Verbatim(t *testing.T) {
	h, err := swiftmt.ExtractBasicHeader("{1:x-- lower case bic 99 ééé}")
	require.NoError(t, err)
	assert.Equal(t, "x", h.MessageTypeCode)
	assert.Equal(t, "--", h.ServiceLevel)
	assert.Equal(t, " lower case ", h.SenderBIC)
}

func TestExtractApplicationHeader(t *testing.T) {
	h, err := swiftmt.ExtractApplicationHeader("{2:" + appContent + "}")
	require.NoError(t, err)

	assert.Equal(t, swiftmt.ApplicationHeader{
		Direction:      "I",
		MessageType:    "799",
		ReceiverBIC:    "BANKBEBBAXXX",
		SenderBIC:      "PRCBBGSFAXX",
		SessionNumber:  "1234",
		SequenceNumber: "567890",
		Priority:       "N",
	}, h)
}

func TestExtractApplicationHeader_Length(t *testing.T) {
	_, err := swiftmt.ExtractApplicationHeader("{2:" + strings.Repeat("O", 38) + "}")
	assert.NoError(t, err)

	_, err = swiftmt.ExtractApplicationHeader("{2:" + appContent + "XYZ}")
	assert.NoError(t, err)

	_, err = swiftmt.ExtractApplicationHeader("{2:" + strings.Repeat("O", 37) + "}")
	require.Error(t, err)
	assert.ErrorIs(t, err, swiftmt.ErrInsufficientLength)

	block, ok := swiftmt.FailedBlock(err)
	require.True(t, ok)
	assert.Equal(t, swiftmt.BlockApplicationHeader, block)
	assert.Equal(t, "Application Header Block: insufficient length: need 38 characters, got 37", err.Error())
}
