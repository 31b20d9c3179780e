package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
)

func TestMessageCodec_Registered(t *testing.T) {
	codec := encoding.GetCodecV2(CodecName)
	require.NotNil(t, codec)
	assert.Equal(t, CodecName, codec.Name())
}

func TestMessageCodec_SplitBuffers(t *testing.T) {
	codec := messageCodec{}

	out, err := codec.Marshal(&ValidateMessageRequest{Content: "{1:F01}"})
	require.NoError(t, err)
	raw := out.Materialize()

	// gRPC may deliver a frame in several buffers.
	in := mem.BufferSlice{mem.SliceBuffer(raw[:5]), mem.SliceBuffer(raw[5:])}

	var req ValidateMessageRequest
	require.NoError(t, codec.Unmarshal(in, &req))
	assert.Equal(t, "{1:F01}", req.Content)
}

func TestMessageCodec_Errors(t *testing.T) {
	codec := messageCodec{}

	_, err := codec.Marshal(make(chan int))
	assert.ErrorContains(t, err, "marshal chan int")

	var req ValidateMessageRequest
	err = codec.Unmarshal(mem.BufferSlice{mem.SliceBuffer("{")}, &req)
	assert.ErrorContains(t, err, "unmarshal *grpc.ValidateMessageRequest")
}
