package midcodecs

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func init() {
	register(1, startRequestCodec{})
	register(2, startAckCodec{})
}

// startRequestCodec handles MID 0001, Communication start request. The
// payload is empty; the request carries no fields of its own in revision 1.
type startRequestCodec struct{}

func (startRequestCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = struct{}{}

	return out, nil
}

func (startRequestCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte(nil)

	return out, nil
}

func (startRequestCodec) SupportedRevisions() []int { return revisions1() }

// StartAckPayload is the decoded payload of MID 0002, Communication start
// acknowledge. Its wire layout is pinned to the documented start-handshake
// 37-byte payload: six 2-digit numeric fields (cell ID, channel ID and
// four identification fields whose exact names the upstream protocol
// leaves as controller-specific metadata) followed by a 25-character,
// space-padded controller name.
type StartAckPayload struct {
	CellID                  int
	OpenProtocolVersion     int
	ChannelID               int
	ControllerSWVersionMain int
	ControllerSWVersionMid  int
	ControllerSWVersionSub  int
	ControllerName          string
}

// ToBytes implements message.ByteEncoder.
func (p StartAckPayload) ToBytes() []byte {
	buf := make([]byte, 0, 37)
	buf = append(buf, []byte(fmt.Sprintf("%02d", p.CellID))...)
	buf = append(buf, []byte(fmt.Sprintf("%02d", p.OpenProtocolVersion))...)
	buf = append(buf, []byte(fmt.Sprintf("%02d", p.ChannelID))...)
	buf = append(buf, []byte(fmt.Sprintf("%02d", p.ControllerSWVersionMain))...)
	buf = append(buf, []byte(fmt.Sprintf("%02d", p.ControllerSWVersionMid))...)
	buf = append(buf, []byte(fmt.Sprintf("%02d", p.ControllerSWVersionSub))...)
	buf = append(buf, []byte(fmt.Sprintf("%-25s", p.ControllerName))...)

	return buf
}

type startAckCodec struct{}

func (startAckCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	payload, err := checkPayloadBytes(msg)
	if err != nil {
		return nil, err
	}

	c := mid.NewCursor(payload)

	cellID, err := c.ReadNumber("cellID", 2)
	if err != nil {
		return nil, err
	}

	openProtocolVersion, err := c.ReadNumber("openProtocolVersion", 2)
	if err != nil {
		return nil, err
	}

	channelID, err := c.ReadNumber("channelID", 2)
	if err != nil {
		return nil, err
	}

	swMain, err := c.ReadNumber("controllerSWVersionMain", 2)
	if err != nil {
		return nil, err
	}

	swMid, err := c.ReadNumber("controllerSWVersionMid", 2)
	if err != nil {
		return nil, err
	}

	swSub, err := c.ReadNumber("controllerSWVersionSub", 2)
	if err != nil {
		return nil, err
	}

	controllerName, err := c.ReadString("controllerName", 25)
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = StartAckPayload{
		CellID:                  cellID,
		OpenProtocolVersion:     openProtocolVersion,
		ChannelID:               channelID,
		ControllerSWVersionMain: swMain,
		ControllerSWVersionMid:  swMid,
		ControllerSWVersionSub:  swSub,
		ControllerName:          controllerName,
	}

	return out, nil
}

func (startAckCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(StartAckPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 2 payload must be StartAckPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (startAckCodec) SupportedRevisions() []int { return revisions1() }
