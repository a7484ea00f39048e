package message

import "errors"

// Field validation errors, returned by the frame Parser and Serializer
// when a header field cannot be decoded/encoded within its declared range.
var (
	ErrInvalidLength         = errors.New("openprotocol: invalid length field")
	ErrInvalidMid            = errors.New("openprotocol: invalid MID field") //nolint:revive // spelled per the Open Protocol wire field name
	ErrInvalidRevision       = errors.New("openprotocol: invalid revision field")
	ErrInvalidNoAck          = errors.New("openprotocol: invalid no-ack field")
	ErrInvalidStationID      = errors.New("openprotocol: invalid station ID field")
	ErrInvalidSpindleID      = errors.New("openprotocol: invalid spindle ID field")
	ErrInvalidSequenceNumber = errors.New("openprotocol: invalid sequence number field")
	ErrInvalidMessageParts   = errors.New("openprotocol: invalid message parts field")
	ErrInvalidMessageNumber  = errors.New("openprotocol: invalid message number field")
	ErrInvalidTerminator     = errors.New("openprotocol: missing or invalid NUL terminator")
	ErrInvalidPayload        = errors.New("openprotocol: invalid payload")
)

// Link Layer and registry errors.
var (
	ErrTooLarge                   = errors.New("openprotocol: payload exceeds protocol maximum size")
	ErrUnsupportedRevision        = errors.New("openprotocol: unsupported MID revision")
	ErrInconsistencyMessageNumber = errors.New("openprotocol: message number inconsistent with expected part sequence")
	ErrAckMismatch                = errors.New("openprotocol: ack mismatch (negative ack or MID/sequence disagreement)")
	ErrTimeout                    = errors.New("openprotocol: retransmit retries exhausted")
	ErrUnknownMid                 = errors.New("openprotocol: unknown MID, payload is neither text nor bytes") //nolint:revive // spelled per the Open Protocol wire field name
)
