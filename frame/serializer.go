package frame

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// Serializer encodes a Message into its framed wire representation.
//
// Serializer is a pure function: it performs no I/O and holds no state of
// its own beyond configuration.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer { return &Serializer{} }

// Serialize validates msg's header fields (substituting the documented
// defaults for zero-valued fields exactly as the Parser accepts them),
// computes the length field, and returns the framed bytes: 20-byte header,
// payload, and (unless the MID is 900/901) a trailing NUL terminator.
//
// msg.Payload must already be []byte or string; use the mid package's
// Registry to encode a structured payload first.
func (s *Serializer) Serialize(msg *message.Message) ([]byte, error) {
	if msg.MID < message.MinMID || msg.MID > message.MaxMID {
		return nil, message.ErrInvalidMid
	}

	revision := int(msg.Revision)
	if revision == 0 {
		revision = message.MinRevision
	}
	if revision < message.MinRevision || revision > message.MaxRevision {
		return nil, message.ErrInvalidRevision
	}

	if int(msg.StationID) < message.MinStationID || int(msg.StationID) > message.MaxStationID {
		return nil, message.ErrInvalidStationID
	}
	if int(msg.SpindleID) < message.MinSpindleID || int(msg.SpindleID) > message.MaxSpindleID {
		return nil, message.ErrInvalidSpindleID
	}
	if int(msg.SequenceNumber) < message.MinSequenceNumber || int(msg.SequenceNumber) > message.MaxSequenceNumber {
		return nil, message.ErrInvalidSequenceNumber
	}
	if int(msg.MessageParts) < message.MinMessageParts || int(msg.MessageParts) > message.MaxMessageParts {
		return nil, message.ErrInvalidMessageParts
	}
	if int(msg.MessageNumber) < message.MinMessageNumber || int(msg.MessageNumber) > message.MaxMessageNumber {
		return nil, message.ErrInvalidMessageNumber
	}

	payload, err := msg.PayloadBytes()
	if err != nil {
		return nil, err
	}

	if len(payload) > message.MaxPartPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds per-part maximum of %d", message.ErrTooLarge, len(payload), message.MaxPartPayloadSize)
	}

	length := message.HeaderSize + len(payload)
	if length > message.MaxFrameLength {
		return nil, fmt.Errorf("%w: encoded length %d exceeds %d", message.ErrTooLarge, length, message.MaxFrameLength)
	}

	requireTerminator := msg.MID != midNoTerminatorA && msg.MID != midNoTerminatorB
	total := length
	if requireTerminator {
		total++
	}

	buf := make([]byte, total)

	putNumericField(buf[0:4], length, 4)
	putNumericField(buf[4:8], int(msg.MID), 4)
	putNumericField(buf[8:11], revision, 3)
	putNoAck(buf[11:12], msg.NoAck)
	putNumericField(buf[12:14], int(msg.StationID), 2)
	putNumericField(buf[14:16], int(msg.SpindleID), 2)
	putNumericField(buf[16:18], int(msg.SequenceNumber), 2)
	putNumericField(buf[18:19], int(msg.MessageParts), 1)
	putNumericField(buf[19:20], int(msg.MessageNumber), 1)
	copy(buf[message.HeaderSize:length], payload)

	if requireTerminator {
		buf[length] = 0x00
	}

	return buf, nil
}
