package midcodecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func TestStartAckCodec_MatchesScenario1Bytes(t *testing.T) {
	// A worked start-handshake data frame payload, after the 20-byte header.
	payload := []byte("010001020103Teste Airbag             ")
	require.Len(t, payload, 37)

	codec := startAckCodec{}

	parsed, err := codec.Parse(&message.Message{MID: 2, Payload: payload}, mid.ParseOptions{})
	require.NoError(t, err)

	got, ok := parsed.Payload.(StartAckPayload)
	require.True(t, ok)
	assert.Equal(t, 1, got.CellID)
	assert.Equal(t, 1, got.ChannelID)
	assert.Equal(t, "Teste Airbag", got.ControllerName)

	serialized, err := codec.Serialize(&message.Message{MID: 2, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, payload, serialized.Payload)
}

func TestStartAckCodec_SerializeRejectsWrongType(t *testing.T) {
	codec := startAckCodec{}

	_, err := codec.Serialize(&message.Message{MID: 2, Payload: "oops"}, mid.SerializeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, message.ErrInvalidPayload)
}

func TestStartRequestCodec_EmptyPayload(t *testing.T) {
	codec := startRequestCodec{}

	serialized, err := codec.Serialize(&message.Message{MID: 1}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Empty(t, serialized.Payload)
}
