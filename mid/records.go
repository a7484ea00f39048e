package mid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// DataField is a single repeating Data Field record.
type DataField struct {
	ParameterID   string
	ParameterName string
	Length        int
	DataType      int
	Unit          int
	UnitName      string
	StepNumber    int
	DataValue     []byte
}

// ResolutionField is a single repeating Resolution Field record, per
// parsing.
type ResolutionField struct {
	FirstIndex int
	LastIndex  int
	Length     int
	DataType   int
	Unit       int
	UnitName   string
	TimeValue  []byte
}

// TraceSample is a single decoded curve sample, scaled and timestamped per
// the sibling Data Field coefficient and the Resolution Field's time base.
type TraceSample struct {
	Raw       int16
	Value     float64
	Timestamp time.Time
}

// ReadDataFields reads up to count repeating Data Field records starting
// at the cursor's current position. Parsing is tolerant: the first
// malformed sub-field or short read stops the scan and returns the records
// parsed so far, with no error — the device is treated as out-of-spec,
// not the message as unparseable. This asymmetry versus
// ReadResolutionFields is intentional.
func (c *Cursor) ReadDataFields(count int) []DataField {
	fields := make([]DataField, 0, count)

	for i := 0; i < count; i++ {
		start := c.pos

		parameterID, err := c.ReadRawString("parameterID", 5)
		if err != nil {
			c.pos = start

			break
		}

		length, err := c.ReadNumber("length", 3)
		if err != nil {
			c.pos = start

			break
		}

		dataType, err := c.ReadNumber("dataType", 2)
		if err != nil {
			c.pos = start

			break
		}

		unit, err := c.ReadNumber("unit", 3)
		if err != nil {
			c.pos = start

			break
		}

		stepNumber, err := c.ReadNumber("stepNumber", 4)
		if err != nil {
			c.pos = start

			break
		}

		value, err := c.ReadBytes("dataValue", length)
		if err != nil {
			c.pos = start

			break
		}

		fields = append(fields, DataField{
			ParameterID:   parameterID,
			ParameterName: ParameterName(parameterID),
			Length:        length,
			DataType:      dataType,
			Unit:          unit,
			UnitName:      UnitName(unit),
			StepNumber:    stepNumber,
			DataValue:     value,
		})
	}

	return fields
}

// ReadResolutionFields reads exactly count repeating Resolution Field
// records. Unlike ReadDataFields, any malformed record fails the entire
// read: Resolution Fields describe the curve geometry that every Trace
// Sample depends on, so a short or malformed record cannot be tolerated.
func (c *Cursor) ReadResolutionFields(count int) ([]ResolutionField, error) {
	fields := make([]ResolutionField, 0, count)

	for i := 0; i < count; i++ {
		firstIndex, err := c.ReadNumber("firstIndex", 5)
		if err != nil {
			return nil, err
		}

		lastIndex, err := c.ReadNumber("lastIndex", 5)
		if err != nil {
			return nil, err
		}

		length, err := c.ReadNumber("length", 3)
		if err != nil {
			return nil, err
		}

		dataType, err := c.ReadNumber("dataType", 2)
		if err != nil {
			return nil, err
		}

		unit, err := c.ReadNumber("unit", 3)
		if err != nil {
			return nil, err
		}

		timeValue, err := c.ReadBytes("timeValue", length)
		if err != nil {
			return nil, err
		}

		fields = append(fields, ResolutionField{
			FirstIndex: firstIndex,
			LastIndex:  lastIndex,
			Length:     length,
			DataType:   dataType,
			Unit:       unit,
			UnitName:   UnitName(unit),
			TimeValue:  timeValue,
		})
	}

	return fields, nil
}

// CurveCoefficient extracts the trace curve scaling coefficient from a
// sibling Data Field group: parameterID "02213" carries a
// reciprocal coefficient (scale = 1/value), "02214" carries a direct one
// (scale = value). Neither present is a parse error.
func CurveCoefficient(fields []DataField) (float64, error) {
	for _, f := range fields {
		switch f.ParameterID {
		case "02213":
			v, err := parseDataValueFloat(f.DataValue)
			if err != nil {
				return 0, err
			}
			if v == 0 {
				return 0, fmt.Errorf("%w: reciprocal coefficient is zero", message.ErrInvalidPayload)
			}

			return 1 / v, nil
		case "02214":
			return parseDataValueFloat(f.DataValue)
		}
	}

	return 0, fmt.Errorf("%w: no 02213/02214 coefficient Data Field present", message.ErrInvalidPayload)
}

func parseDataValueFloat(b []byte) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coefficient field %q is not numeric", message.ErrInvalidPayload, b)
	}

	return v, nil
}

// ReadTraceSamples reads count 16-bit big-endian two's-complement samples,
// scaling each by coefficient and timestamping it by advancing
// baseTimestamp by timeValue × unit-multiplier × index.
func (c *Cursor) ReadTraceSamples(count int, baseTimestamp time.Time, timeValue int64, unit int, coefficient float64) ([]TraceSample, error) {
	samples := make([]TraceSample, 0, count)
	multiplier := timeUnitMultiplier(unit)

	for i := 0; i < count; i++ {
		raw, err := c.take("traceSample", 2)
		if err != nil {
			return nil, err
		}

		v := int16(uint16(raw[0])<<8 | uint16(raw[1])) //nolint:gosec // intentional two's-complement reinterpretation

		offset := time.Duration(timeValue*multiplier*int64(i)) * time.Millisecond

		samples = append(samples, TraceSample{
			Raw:       v,
			Value:     float64(v) * coefficient,
			Timestamp: baseTimestamp.Add(offset),
		})
	}

	return samples, nil
}
