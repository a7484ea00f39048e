package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diwakrZha/node-open-protocol-v2/logger"
	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// frameBytes builds a well-formed frame for mid with the given payload and
// default header fields, for use as test fixtures.
func frameBytes(t *testing.T, mid int, payload string) []byte {
	t.Helper()

	s := NewSerializer()
	b, err := s.Serialize(&message.Message{MID: uint16(mid), Payload: []byte(payload)})
	require.NoError(t, err)

	return b
}

func TestParser_ChunkBoundaryIdempotence(t *testing.T) {
	full := append(frameBytes(t, 1, "AA"), frameBytes(t, 2, "BBBB")...)

	// Whole buffer at once.
	p1 := NewParser()
	got1, err := p1.Feed(full)
	require.NoError(t, err)
	require.Len(t, got1, 2)

	// Byte-at-a-time.
	p2 := NewParser()
	var got2 []*message.Message
	for i := range full {
		msgs, err := p2.Feed(full[i : i+1])
		require.NoError(t, err)
		got2 = append(got2, msgs...)
	}
	require.Len(t, got2, 2)

	for i := range got1 {
		assert.Equal(t, got1[i].MID, got2[i].MID)
		assert.Equal(t, got1[i].Payload, got2[i].Payload)
	}
}

func TestParser_PartialHeaderAcrossChunks(t *testing.T) {
	full := frameBytes(t, 2, "hello world")
	p := NewParser()

	msgs, err := p.Feed(full[:10])
	require.NoError(t, err)
	require.Empty(t, msgs)

	msgs, err = p.Feed(full[10:])
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint16(2), msgs[0].MID)
	assert.Equal(t, []byte("hello world"), msgs[0].Payload)
}

func TestParser_PartialPayloadAcrossChunks(t *testing.T) {
	full := frameBytes(t, 2, "0123456789")
	p := NewParser()

	split := message.HeaderSize + 3
	msgs, err := p.Feed(full[:split])
	require.NoError(t, err)
	require.Empty(t, msgs)

	msgs, err = p.Feed(full[split:])
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte("0123456789"), msgs[0].Payload)
}

func TestParser_PartialBetweenPayloadAndTerminator(t *testing.T) {
	full := frameBytes(t, 2, "abc")
	p := NewParser()

	msgs, err := p.Feed(full[:len(full)-1])
	require.NoError(t, err)
	require.Empty(t, msgs)

	msgs, err = p.Feed(full[len(full)-1:])
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestParser_InvalidLength(t *testing.T) {
	p := NewParser()

	_, err := p.Feed([]byte("00AA00010010     00  0000\x00"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, message.ErrInvalidLength))
}

func TestParser_InvalidMid(t *testing.T) {
	p := NewParser()

	_, err := p.Feed([]byte("002000AA001     00  0000\x00"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, message.ErrInvalidMid))
}

func TestParser_InvalidTerminator(t *testing.T) {
	p := NewParser()

	frame := frameBytes(t, 2, "x")
	frame[len(frame)-1] = 'Z'

	_, err := p.Feed(frame)
	require.Error(t, err)
	assert.True(t, errors.Is(err, message.ErrInvalidTerminator))
}

func TestParser_MID900WithoutTerminator(t *testing.T) {
	p := NewParser()

	frame := frameBytes(t, 900, "") // Serialize already omits the terminator for 900.
	msgs, err := p.Feed(frame)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint16(900), msgs[0].MID)
}

func TestParser_DefaultFieldsOnSpaces(t *testing.T) {
	p := NewParser()

	// All optional fields left as spaces/zero: revision, noAck, station,
	// spindle, sequence should all resolve to their documented defaults.
	hdr := []byte("0020" + "0002" + "   " + " " + "  " + "  " + "  " + "0" + "0")
	require.Len(t, hdr, message.HeaderSize)
	frame := append(append([]byte{}, hdr...), 0x00)

	msgs, err := p.Feed(frame)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	m := msgs[0]
	assert.Equal(t, uint16(2), m.MID)
	assert.Equal(t, uint16(message.MinRevision), m.Revision)
	assert.False(t, m.NoAck)
	assert.Equal(t, uint8(0), m.StationID)
	assert.Equal(t, uint8(0), m.SpindleID)
	assert.Equal(t, uint8(0), m.SequenceNumber)
}

func TestParser_LogsDebugOnNonDigitLength(t *testing.T) {
	ml := logger.NewMockLogger()
	ml.On("Debug", "frame: non-digit length field", mock.Anything).Return()

	p := NewParser(WithLogger(ml))

	_, err := p.Feed([]byte("00AA00010010     00  0000\x00"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, message.ErrInvalidLength))

	ml.AssertCalled(t, "Debug", "frame: non-digit length field", mock.Anything)
}

func TestParser_RawDataMode(t *testing.T) {
	p := NewParser(WithRawData(true))

	full := frameBytes(t, 2, "xyz")
	msgs, err := p.Feed(full)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, full, msgs[0].Raw)
}
