package midcodecs

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func init() {
	register(message.PositiveAckMID, ackCodec{})
	register(message.NegativeAckMID, nackCodec{})
}

// AckPayload is the decoded payload of MID 9997, POSITIVE_ACK: the MID
// being acknowledged, as 4 ASCII digits. The Link Layer
// handles ack dispatch itself rather than routing through the registry;
// this codec exists so Registry.SupportedMIDs() reports the MID and so a
// bare ack still round-trips outside the Link Layer's special-casing.
type AckPayload struct {
	MIDNumber uint16
}

// ToBytes implements message.ByteEncoder.
func (p AckPayload) ToBytes() []byte { return midField(p.MIDNumber) }

type ackCodec struct{}

func (ackCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	payload, err := checkPayloadBytes(msg)
	if err != nil {
		return nil, err
	}

	c := mid.NewCursor(payload)

	midNumber, err := c.ReadNumber("midNumber", 4)
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = AckPayload{MIDNumber: uint16(midNumber)} //nolint:gosec // bounded by MaxMID

	return out, nil
}

func (ackCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(AckPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 9997 payload must be AckPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (ackCodec) SupportedRevisions() []int { return revisions1() }

// NackPayload is the decoded payload of MID 9998, NEGATIVE_ACK: the MID
// being rejected plus a 2-digit error code.
type NackPayload struct {
	MIDNumber uint16
	ErrorCode int
}

// ToBytes implements message.ByteEncoder.
func (p NackPayload) ToBytes() []byte {
	buf := midField(p.MIDNumber)

	return append(buf, []byte(fmt.Sprintf("%02d", p.ErrorCode))...)
}

type nackCodec struct{}

func (nackCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	payload, err := checkPayloadBytes(msg)
	if err != nil {
		return nil, err
	}

	c := mid.NewCursor(payload)

	midNumber, err := c.ReadNumber("midNumber", 4)
	if err != nil {
		return nil, err
	}

	errorCode, err := c.ReadNumber("errorCode", 2)
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = NackPayload{MIDNumber: uint16(midNumber), ErrorCode: errorCode} //nolint:gosec // bounded by MaxMID

	return out, nil
}

func (nackCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(NackPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 9998 payload must be NackPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (nackCodec) SupportedRevisions() []int { return revisions1() }
