// Package message defines the in-memory representation of an Open Protocol
// message, shared by the frame (wire framing), mid (payload codec) and
// linklayer (reliability) packages.
//
// A Message carries the 20-byte ASCII header fields described by the Open
// Protocol wire format plus a variant Payload: raw bytes (as produced by the
// frame parser), ASCII text, or a decoded record produced by a MID codec.
package message

import "fmt"

// Field range limits, per the Open Protocol wire header layout.
const (
	MinMID = 1
	MaxMID = 9999

	MinRevision = 1
	MaxRevision = 999

	MinStationID = 0
	MaxStationID = 99

	MinSpindleID = 0
	MaxSpindleID = 99

	MinSequenceNumber = 0
	MaxSequenceNumber = 99

	MinMessageParts = 0
	MaxMessageParts = 9

	MinMessageNumber = 0
	MaxMessageNumber = 9

	// HeaderSize is the fixed-width ASCII header length in bytes, excluding
	// the trailing NUL terminator.
	HeaderSize = 20

	// MaxFrameLength is the largest value the 4-digit length field can hold.
	MaxFrameLength = 9999

	// MaxPartPayloadSize is the maximum payload bytes carried by a single
	// frame/part, per the Link Layer's multi-part splitting rule.
	MaxPartPayloadSize = 9979

	// MaxParts is the maximum number of parts a single logical message may
	// be split into.
	MaxParts = 9

	// MaxTotalPayloadSize is the largest payload a single logical message
	// can carry once split across MaxParts parts of MaxPartPayloadSize each.
	MaxTotalPayloadSize = MaxParts * MaxPartPayloadSize
)

// Reserved MIDs with Link Layer or registry significance.
const (
	CommandAcceptedMID = 5
	SubscribeMID       = 8
	UnsubscribeMID     = 9
	PositiveAckMID     = 9997
	NegativeAckMID     = 9998
)

// ByteEncoder is implemented by decoded payload records (produced by a MID
// codec's Parse) that know how to serialize themselves back to bytes. The
// MID registry's Serialize stage uses this to turn a structured payload
// back into wire bytes.
type ByteEncoder interface {
	ToBytes() []byte
}

// Message is the in-memory representation of a single Open Protocol
// message, inbound or outbound, before or after MID decoding.
type Message struct {
	MID            uint16
	Revision       uint16
	NoAck          bool
	StationID      uint8
	SpindleID      uint8
	SequenceNumber uint8
	MessageParts   uint8
	MessageNumber  uint8

	// Payload holds []byte (raw), string (ASCII text) or a decoded record
	// implementing ByteEncoder, depending on which pipeline stage last
	// touched the message.
	Payload any

	// IsAck marks an application-level acknowledgement reply; the Link
	// Layer will not itself demand an ack for such a message.
	IsAck bool

	// Raw holds the original framed bytes, populated only when raw-data
	// mode is enabled on the Link Layer.
	Raw []byte
}

// IsPositiveAck reports whether the message is a Link Layer POSITIVE_ACK.
func (m *Message) IsPositiveAck() bool { return m.MID == PositiveAckMID }

// IsNegativeAck reports whether the message is a Link Layer NEGATIVE_ACK.
func (m *Message) IsNegativeAck() bool { return m.MID == NegativeAckMID }

// IsAckMID reports whether the message's MID is one of the Link Layer's
// own ack MIDs (POSITIVE_ACK or NEGATIVE_ACK).
func (m *Message) IsAckMID() bool { return m.IsPositiveAck() || m.IsNegativeAck() }

// PayloadBytes coerces Payload into a byte slice, as required right before
// handing a Message to the frame Serializer. It accepts []byte, string and
// any ByteEncoder. It returns ErrUnknownMid if the payload is none of
// these.
func (m *Message) PayloadBytes() ([]byte, error) {
	switch p := m.Payload.(type) {
	case nil:
		return nil, nil
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	case ByteEncoder:
		return p.ToBytes(), nil
	default:
		return nil, fmt.Errorf("%w: payload type %T is neither text, bytes nor ByteEncoder", ErrUnknownMid, p)
	}
}

// Clone returns a shallow copy of the message with Payload and Raw
// re-sliced (not deep-copied) so the returned Message can be mutated
// (e.g. header fields) without affecting the original.
func (m *Message) Clone() *Message {
	clone := *m

	return &clone
}

// Key returns the duplicate-detection / ack-matching composite key: the
// pairing of MID and sequence number used by the Link Layer's last
// delivered message and pending-write bookkeeping.
func (m *Message) Key() [2]uint16 {
	return [2]uint16{m.MID, uint16(m.SequenceNumber)}
}
