package frame

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/internal/queue"
	"github.com/diwakrZha/node-open-protocol-v2/logger"
	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// midNoTerminatorA and midNoTerminatorB are the MIDs whose frames never
// carry a trailing NUL terminator.
const (
	midNoTerminatorA = 900
	midNoTerminatorB = 901
)

// Parser slices framed messages out of an arbitrary-boundary byte stream.
//
// Parser is a pure, stateful transform: Feed appends a chunk to an internal
// carry buffer and returns every complete frame the buffer now yields. A
// partial frame straddling a chunk boundary is rewound and retained for the
// next Feed call; Parser never emits a partial Message.
//
// Parser is not safe for concurrent use; the caller (normally a single
// linklayer protocol loop) must serialize calls to Feed.
type Parser struct {
	logger  logger.Logger
	rawData bool

	carry []byte
	ready queue.Queue
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the Parser's logger. Defaults to logger.GetLogger().
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithRawData enables attaching the original framed bytes to each parsed
// Message's Raw field.
func WithRawData(enabled bool) Option {
	return func(p *Parser) { p.rawData = enabled }
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: logger.GetLogger(),
		ready:  queue.NewSliceQueue(4),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Feed appends chunk to the carry buffer and extracts every complete frame
// now available, in order.
//
// On a framing error (invalid length, invalid MID, a field out of range, or
// a missing terminator), Feed returns the frames successfully parsed before
// the error, plus the error itself. The byte immediately after the failed
// frame's declared length is NOT skipped automatically — once out of sync,
// there is no reliable resynchronization point, so the caller should treat
// the stream as desynchronized (this matches the Link Layer's policy of
// surfacing the error upward and, for multi-part reassembly, discarding the
// partial buffer).
func (p *Parser) Feed(chunk []byte) ([]*message.Message, error) {
	if len(chunk) > 0 {
		p.carry = append(p.carry, chunk...)
	}

	buf := p.carry
	pos := 0

	for {
		start := pos

		if len(buf)-pos < 4 {
			break
		}

		lengthField := buf[pos : pos+4]
		if !isAllDigits(lengthField) {
			p.rewind(buf, start)
			p.logger.Debug("frame: non-digit length field", "pos", start)

			return p.drain(), message.ErrInvalidLength
		}

		length := atoiDigits(lengthField)
		if length < 1 || length > message.MaxFrameLength {
			p.rewind(buf, start)

			return p.drain(), message.ErrInvalidLength
		}

		if len(buf)-pos < 8 {
			p.rewind(buf, start)

			return p.drain(), nil
		}

		midField := buf[pos+4 : pos+8]
		if !isAllDigits(midField) {
			p.rewind(buf, start)

			return p.drain(), message.ErrInvalidMid
		}

		mid := atoiDigits(midField)
		if mid < message.MinMID || mid > message.MaxMID {
			p.rewind(buf, start)

			return p.drain(), message.ErrInvalidMid
		}

		requireTerminator := mid != midNoTerminatorA && mid != midNoTerminatorB
		required := length
		if requireTerminator {
			required++
		}

		if len(buf)-pos < required {
			p.rewind(buf, start)

			return p.drain(), nil
		}

		if requireTerminator && buf[pos+length] != 0x00 {
			p.rewind(buf, start)

			return p.drain(), message.ErrInvalidTerminator
		}

		msg, err := p.decodeFrame(buf[pos:pos+length], uint16(mid))
		if err != nil {
			p.rewind(buf, start)

			return p.drain(), err
		}

		if p.rawData {
			raw := make([]byte, required)
			copy(raw, buf[pos:pos+required])
			msg.Raw = raw
		}

		p.ready.Enqueue(msg)
		pos += required
	}

	p.rewind(buf, pos)

	return p.drain(), nil
}

// decodeFrame decodes the header fields and payload of a single frame
// whose length byte has already been validated, given frameBytes =
// buf[pos:pos+length] (header + payload, no terminator).
func (p *Parser) decodeFrame(frameBytes []byte, mid uint16) (*message.Message, error) {
	if len(frameBytes) < message.HeaderSize {
		return nil, fmt.Errorf("%w: frame shorter than header", message.ErrInvalidLength)
	}

	revision, err := parseNumericField(frameBytes[8:11], message.MinRevision, message.MinRevision, message.MaxRevision, message.ErrInvalidRevision)
	if err != nil {
		return nil, err
	}

	noAck, err := parseNoAck(frameBytes[11:12])
	if err != nil {
		return nil, err
	}

	stationID, err := parseNumericField(frameBytes[12:14], 0, message.MinStationID, message.MaxStationID, message.ErrInvalidStationID)
	if err != nil {
		return nil, err
	}

	spindleID, err := parseNumericField(frameBytes[14:16], 0, message.MinSpindleID, message.MaxSpindleID, message.ErrInvalidSpindleID)
	if err != nil {
		return nil, err
	}

	sequenceNumber, err := parseNumericField(frameBytes[16:18], 0, message.MinSequenceNumber, message.MaxSequenceNumber, message.ErrInvalidSequenceNumber)
	if err != nil {
		return nil, err
	}

	messageParts, err := parseNumericField(frameBytes[18:19], 0, message.MinMessageParts, message.MaxMessageParts, message.ErrInvalidMessageParts)
	if err != nil {
		return nil, err
	}

	messageNumber, err := parseNumericField(frameBytes[19:20], 0, message.MinMessageNumber, message.MaxMessageNumber, message.ErrInvalidMessageNumber)
	if err != nil {
		return nil, err
	}

	payload := frameBytes[message.HeaderSize:]

	msg := &message.Message{
		MID:            mid,
		Revision:       uint16(revision), //nolint:gosec // bounded by MaxRevision
		NoAck:          noAck,
		StationID:      uint8(stationID),      //nolint:gosec // bounded by MaxStationID
		SpindleID:      uint8(spindleID),      //nolint:gosec // bounded by MaxSpindleID
		SequenceNumber: uint8(sequenceNumber), //nolint:gosec // bounded by MaxSequenceNumber
		MessageParts:   uint8(messageParts),   //nolint:gosec // bounded by MaxMessageParts
		MessageNumber:  uint8(messageNumber),  //nolint:gosec // bounded by MaxMessageNumber
		Payload:        append([]byte(nil), payload...),
	}

	return msg, nil
}

// rewind discards bytes [0, consumed) from buf and stores the remainder as
// the new carry buffer, so the next Feed call resumes exactly where parsing
// stopped.
func (p *Parser) rewind(buf []byte, consumed int) {
	remaining := len(buf) - consumed
	carry := make([]byte, remaining)
	copy(carry, buf[consumed:])
	p.carry = carry
}

// drain empties the ready queue into a slice, in FIFO order.
func (p *Parser) drain() []*message.Message {
	if p.ready.IsEmpty() {
		return nil
	}

	out := make([]*message.Message, 0, p.ready.Length())
	for !p.ready.IsEmpty() {
		v, _ := p.ready.Dequeue().(*message.Message)
		out = append(out, v)
	}

	return out
}
