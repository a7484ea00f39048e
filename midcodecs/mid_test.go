package midcodecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func TestCommandAcceptedCodec_RoundTripWithoutError(t *testing.T) {
	codec := commandAcceptedCodec{}

	parsed, err := codec.Parse(&message.Message{MID: 5, Payload: []byte("0062")}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(CommandAcceptedPayload)
	assert.Equal(t, uint16(62), got.MIDNumber)
	assert.False(t, got.HasError)

	serialized, err := codec.Serialize(&message.Message{MID: 5, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("0062"), serialized.Payload)
}

func TestCommandAcceptedCodec_RoundTripWithError(t *testing.T) {
	codec := commandAcceptedCodec{}

	parsed, err := codec.Parse(&message.Message{MID: 5, Payload: []byte("006207")}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(CommandAcceptedPayload)
	assert.True(t, got.HasError)
	assert.Equal(t, 7, got.ErrorCode)

	serialized, err := codec.Serialize(&message.Message{MID: 5, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("006207"), serialized.Payload)
}

func TestSubscriptionCodec_RoundTrip(t *testing.T) {
	codec := subscriptionCodec{}

	parsed, err := codec.Parse(&message.Message{MID: 8, Payload: []byte("0101")}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(SubscriptionPayload)
	assert.Equal(t, uint16(101), got.TargetMID)

	serialized, err := codec.Serialize(&message.Message{MID: 8, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("0101"), serialized.Payload)
}

func TestKeepAliveCodec_EmptyPayload(t *testing.T) {
	codec := noopCodec{}

	parsed, err := codec.Parse(&message.Message{MID: 10}, mid.ParseOptions{})
	require.NoError(t, err)

	serialized, err := codec.Serialize(parsed, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Empty(t, serialized.Payload)
}

func TestTighteningResultDataCodec_RoundTrip(t *testing.T) {
	codec := tighteningResultDataCodec{}
	assert.True(t, codec.IsPublishType())

	payload := "01" + "00012" + "003" + "01" + "001" + "0001" + "abc"

	parsed, err := codec.Parse(&message.Message{MID: 62, Payload: []byte(payload)}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(TighteningResultPayload)
	require.Len(t, got.DataFields, 1)
	assert.Equal(t, "00012", got.DataFields[0].ParameterID)
	assert.Equal(t, "torque final target", got.DataFields[0].ParameterName)

	serialized, err := codec.Serialize(&message.Message{MID: 62, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte(payload), serialized.Payload)
}

func TestCurveDataCodec_RoundTrip(t *testing.T) {
	codec := curveDataCodec{}
	assert.True(t, codec.IsPublishType())

	resolution := "00000" + "00099" + "003" + "01" + "202" + "001"
	dataField := "02214" + "003" + "01" + "001" + "0001" + "2.0"
	samples := []byte{0x00, 0x02, 0x00, 0x04}

	payload := "01" + resolution + "01" + dataField + "0002"
	full := append([]byte(payload), samples...)

	parsed, err := codec.Parse(&message.Message{MID: 102, Payload: full}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(CurveDataPayload)
	require.Len(t, got.ResolutionFields, 1)
	require.Len(t, got.DataFields, 1)
	require.Len(t, got.Samples, 2)

	assert.InDelta(t, 4.0, got.Samples[0].Value, 0.0001) // raw=2, coefficient=2.0
	assert.InDelta(t, 8.0, got.Samples[1].Value, 0.0001) // raw=4, coefficient=2.0
	assert.Equal(t, got.Samples[0].Timestamp.Add(time.Millisecond), got.Samples[1].Timestamp)

	serialized, err := codec.Serialize(&message.Message{MID: 102, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, full, serialized.Payload)
}

func TestAckCodec_RoundTrip(t *testing.T) {
	codec := ackCodec{}

	parsed, err := codec.Parse(&message.Message{MID: message.PositiveAckMID, Payload: []byte("0002")}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(AckPayload)
	assert.Equal(t, uint16(2), got.MIDNumber)

	serialized, err := codec.Serialize(&message.Message{MID: message.PositiveAckMID, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("0002"), serialized.Payload)
}

func TestNackCodec_RoundTrip(t *testing.T) {
	codec := nackCodec{}

	parsed, err := codec.Parse(&message.Message{MID: message.NegativeAckMID, Payload: []byte("000205")}, mid.ParseOptions{})
	require.NoError(t, err)

	got := parsed.Payload.(NackPayload)
	assert.Equal(t, uint16(2), got.MIDNumber)
	assert.Equal(t, 5, got.ErrorCode)

	serialized, err := codec.Serialize(&message.Message{MID: message.NegativeAckMID, Payload: got}, mid.SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("000205"), serialized.Payload)
}
