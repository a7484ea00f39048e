package midcodecs

import (
	"fmt"
	"time"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

func init() {
	register(101, curveDataRequestCodec{})
	register(102, curveDataCodec{})
}

// curveDataRequestCodec handles MID 0101, Curve data upload request. The
// payload is empty; the request carries no fields of its own.
type curveDataRequestCodec struct{}

func (curveDataRequestCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = struct{}{}

	return out, nil
}

func (curveDataRequestCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte(nil)

	return out, nil
}

func (curveDataRequestCodec) SupportedRevisions() []int { return revisions1() }

// CurveDataPayload is the decoded payload of MID 0102, Curve data: a
// Resolution Field header describing the curve's index range and time
// base, a sibling Data Field group supplying the scaling coefficient
// (parameterID 02213/02214), and the resulting Trace Samples.
//
// Wire layout: 2-digit Resolution Field count, that many Resolution Field
// records, 2-digit Data Field count, that many Data Field records,
// 4-digit sample count, then that many 2-byte samples. The first
// Resolution Field's Unit and TimeValue drive the trace's time base; Trace
// Sample timestamps are relative to an arbitrary zero (callers needing
// wall-clock time add their own connection epoch).
type CurveDataPayload struct {
	ResolutionFields []mid.ResolutionField
	DataFields       []mid.DataField
	Samples          []mid.TraceSample
}

// ToBytes implements message.ByteEncoder.
func (p CurveDataPayload) ToBytes() []byte {
	buf := []byte(fmt.Sprintf("%02d", len(p.ResolutionFields)))
	for _, f := range p.ResolutionFields {
		buf = append(buf, []byte(fmt.Sprintf("%05d", f.FirstIndex))...)
		buf = append(buf, []byte(fmt.Sprintf("%05d", f.LastIndex))...)
		buf = append(buf, []byte(fmt.Sprintf("%03d", f.Length))...)
		buf = append(buf, []byte(fmt.Sprintf("%02d", f.DataType))...)
		buf = append(buf, []byte(fmt.Sprintf("%03d", f.Unit))...)
		buf = append(buf, f.TimeValue...)
	}

	buf = append(buf, []byte(fmt.Sprintf("%02d", len(p.DataFields)))...)
	for _, f := range p.DataFields {
		buf = append(buf, []byte(fmt.Sprintf("%5s", f.ParameterID))...)
		buf = append(buf, []byte(fmt.Sprintf("%03d", f.Length))...)
		buf = append(buf, []byte(fmt.Sprintf("%02d", f.DataType))...)
		buf = append(buf, []byte(fmt.Sprintf("%03d", f.Unit))...)
		buf = append(buf, []byte(fmt.Sprintf("%04d", f.StepNumber))...)
		buf = append(buf, f.DataValue...)
	}

	buf = append(buf, []byte(fmt.Sprintf("%04d", len(p.Samples)))...)
	for _, s := range p.Samples {
		buf = append(buf, byte(uint16(s.Raw)>>8), byte(uint16(s.Raw))) //nolint:gosec // intentional two's-complement split
	}

	return buf
}

// curveDataCodec is a publish-type MID: subscribing to it asks to receive
// trace curves asynchronously.
type curveDataCodec struct{}

func (curveDataCodec) IsPublishType() bool { return true }

func (curveDataCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	payload, err := checkPayloadBytes(msg)
	if err != nil {
		return nil, err
	}

	c := mid.NewCursor(payload)

	resolutionCount, err := c.ReadNumber("resolutionFieldCount", 2)
	if err != nil {
		return nil, err
	}

	resolutionFields, err := c.ReadResolutionFields(resolutionCount)
	if err != nil {
		return nil, err
	}

	dataFieldCount, err := c.ReadNumber("dataFieldCount", 2)
	if err != nil {
		return nil, err
	}

	dataFields := c.ReadDataFields(dataFieldCount)

	sampleCount, err := c.ReadNumber("sampleCount", 4)
	if err != nil {
		return nil, err
	}

	coefficient, err := mid.CurveCoefficient(dataFields)
	if err != nil {
		return nil, err
	}

	var timeValue int64
	unit := 0

	if len(resolutionFields) > 0 {
		unit = resolutionFields[0].Unit

		tv, err := parseResolutionTimeValue(resolutionFields[0])
		if err != nil {
			return nil, err
		}

		timeValue = tv
	}

	samples, err := c.ReadTraceSamples(sampleCount, time.Time{}, timeValue, unit, coefficient)
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = CurveDataPayload{
		ResolutionFields: resolutionFields,
		DataFields:       dataFields,
		Samples:          samples,
	}

	return out, nil
}

func (curveDataCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	payload, ok := msg.Payload.(CurveDataPayload)
	if !ok {
		return nil, fmt.Errorf("%w: MID 102 payload must be CurveDataPayload, got %T", message.ErrInvalidPayload, msg.Payload)
	}

	out := msg.Clone()
	out.Payload = payload.ToBytes()

	return out, nil
}

func (curveDataCodec) SupportedRevisions() []int { return revisions1() }

func parseResolutionTimeValue(f mid.ResolutionField) (int64, error) {
	c := mid.NewCursor(f.TimeValue)

	v, err := c.ReadNumber("timeValue", len(f.TimeValue))
	if err != nil {
		return 0, err
	}

	return int64(v), nil
}
