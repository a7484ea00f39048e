package midcodecs

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func init() {
	register(message.CommandAcceptedMID, commandAcceptedCodec{})
}

// CommandAcceptedPayload is the decoded payload of MID 0005, Command
// accepted / command error: the MID being acknowledged, as 4 ASCII
// digits, produced by the registry's isAck rewrite and
// also independently parseable when a peer sends MID 0005 directly. An
// optional trailing 2-digit error code marks a command error reply
// instead of a plain accept.
type CommandAcceptedPayload struct {
	MIDNumber uint16
	ErrorCode int
	HasError  bool
}

// ToBytes implements message.ByteEncoder.
func (p CommandAcceptedPayload) ToBytes() []byte {
	buf := midField(p.MIDNumber)
	if p.HasError {
		buf = append(buf, []byte(fmt.Sprintf("%02d", p.ErrorCode))...)
	}

	return buf
}

type commandAcceptedCodec struct{}

func (commandAcceptedCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
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
	result := CommandAcceptedPayload{MIDNumber: uint16(midNumber)} //nolint:gosec // bounded by MaxMID

	if c.Remaining() >= 2 {
		errorCode, err := c.ReadNumber("errorCode", 2)
		if err != nil {
			return nil, err
		}

		result.ErrorCode = errorCode
		result.HasError = true
	}

	out.Payload = result

	return out, nil
}

func (commandAcceptedCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(CommandAcceptedPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 5 payload must be CommandAcceptedPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (commandAcceptedCodec) SupportedRevisions() []int { return revisions1() }
