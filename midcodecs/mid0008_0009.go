package midcodecs

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func init() {
	register(message.SubscribeMID, subscriptionCodec{})
	register(message.UnsubscribeMID, subscriptionCodec{})
}

// SubscriptionPayload is the decoded payload of MID 0008 (Subscribe) and
// MID 0009 (Unsubscribe): the target MID, as 4 ASCII digits, produced by
// the registry's subscribe/unsubscribe rewrite and also
// independently parseable when a caller issues an explicit subscribe or
// unsubscribe request.
type SubscriptionPayload struct {
	TargetMID uint16
}

// ToBytes implements message.ByteEncoder.
func (p SubscriptionPayload) ToBytes() []byte { return midField(p.TargetMID) }

type subscriptionCodec struct{}

func (subscriptionCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	payload, err := checkPayloadBytes(msg)
	if err != nil {
		return nil, err
	}

	c := mid.NewCursor(payload)

	targetMID, err := c.ReadNumber("targetMID", 4)
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = SubscriptionPayload{TargetMID: uint16(targetMID)} //nolint:gosec // bounded by MaxMID

	return out, nil
}

func (subscriptionCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(SubscriptionPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 8/9 payload must be SubscriptionPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (subscriptionCodec) SupportedRevisions() []int { return revisions1() }
