package valueobject

import (
	"fmt"
	"strings"
)

// Channel identifies how a message entered the service.
type Channel struct {
	value string
}

var (
	ChannelHTTP  = Channel{value: "HTTP"}
	ChannelGRPC  = Channel{value: "GRPC"}
	ChannelKafka = Channel{value: "KAFKA"}
)

var validChannels = map[string]Channel{
	ChannelHTTP.value:  ChannelHTTP,
	ChannelGRPC.value:  ChannelGRPC,
	ChannelKafka.value: ChannelKafka,
}

// NewChannel parses a channel name, case-insensitively.
func NewChannel(s string) (Channel, error) {
	c, ok := validChannels[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return Channel{}, fmt.Errorf("invalid ingestion channel: %q", s)
	}
	return c, nil
}

func (c Channel) String() string { return c.value }
func (c Channel) IsZero() bool { return c.value == "" }
