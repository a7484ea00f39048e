package midcodecs

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func init() {
	register(61, tighteningResultRequestCodec{})
	register(62, tighteningResultDataCodec{})
}

// tighteningResultRequestCodec handles MID 0061, Last tightening result
// data upload request. The payload is empty; the request carries no
// fields of its own.
type tighteningResultRequestCodec struct{}

func (tighteningResultRequestCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = struct{}{}

	return out, nil
}

func (tighteningResultRequestCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte(nil)

	return out, nil
}

func (tighteningResultRequestCodec) SupportedRevisions() []int { return revisions1() }

// TighteningResultPayload is the decoded payload of MID 0062, Last
// tightening result data: a 2-digit record count followed by that many
// Data Field records, exercising mid.Cursor.ReadDataFields
// and the parameterID/unit code tables.
type TighteningResultPayload struct {
	DataFields []mid.DataField
}

// ToBytes implements message.ByteEncoder.
func (p TighteningResultPayload) ToBytes() []byte {
	buf := []byte(fmt.Sprintf("%02d", len(p.DataFields)))

	for _, f := range p.DataFields {
		buf = append(buf, []byte(fmt.Sprintf("%5s", f.ParameterID))...)
		buf = append(buf, []byte(fmt.Sprintf("%03d", f.Length))...)
		buf = append(buf, []byte(fmt.Sprintf("%02d", f.DataType))...)
		buf = append(buf, []byte(fmt.Sprintf("%03d", f.Unit))...)
		buf = append(buf, []byte(fmt.Sprintf("%04d", f.StepNumber))...)
		buf = append(buf, f.DataValue...)
	}

	return buf
}

// tighteningResultDataCodec is a publish-type MID: subscribing to it is
// the canonical way a caller asks to receive tightening results
// asynchronously.
type tighteningResultDataCodec struct{}

func (tighteningResultDataCodec) IsPublishType() bool { return true }

func (tighteningResultDataCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	payload, err := checkPayloadBytes(msg)
	if err != nil {
		return nil, err
	}

	c := mid.NewCursor(payload)

	count, err := c.ReadNumber("dataFieldCount", 2)
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = TighteningResultPayload{DataFields: c.ReadDataFields(count)}

	return out, nil
}

func (tighteningResultDataCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(TighteningResultPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 62 payload must be TighteningResultPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (tighteningResultDataCodec) SupportedRevisions() []int { return revisions1() }
