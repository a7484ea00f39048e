package linklayer

import "github.com/diwakrZha/node-open-protocol-v2/message"

// assembler reassembles a multi-part logical message from its consecutive
// frames, tracking continuation by messageNumber/messageParts: no
// reassembly deadline timer, since the Link Layer NACKs immediately on a
// messageNumber mismatch instead of waiting out one.
//
// assembler is owned exclusively by the protocol loop goroutine; it needs no
// locking of its own.
type assembler struct {
	active   bool
	first    *message.Message
	expected uint8
	payload  []byte
}

// reset discards any in-progress reassembly.
func (a *assembler) reset() {
	a.active = false
	a.first = nil
	a.expected = 0
	a.payload = nil
}

// feed folds a single inbound frame into the reassembly state.
//
// It returns (reassembled, true, nil) once the final part completes a
// logical message, with reassembled.Payload holding the concatenated bytes
// of every part. It returns (nil, false, nil) when msg is not part of a
// multi-part message (messageParts == 0), so the caller should continue
// treating msg as a single frame. It returns (nil, false, err) on a
// messageNumber inconsistency; the caller is responsible
// for NACKing and has already had the partial buffer discarded by this call.
func (a *assembler) feed(msg *message.Message) (*message.Message, bool, error) {
	if msg.MessageParts == 0 {
		return nil, false, nil
	}

	if !a.active {
		a.active = true
		a.first = msg.Clone()
		a.expected = 1
		a.payload = nil
	}

	if msg.MessageNumber != a.expected {
		a.reset()

		return nil, false, message.ErrInconsistencyMessageNumber
	}

	payloadBytes, ok := msg.Payload.([]byte)
	if !ok {
		a.reset()

		return nil, false, message.ErrInvalidPayload
	}

	a.payload = append(a.payload, payloadBytes...)

	if msg.MessageNumber != msg.MessageParts {
		a.expected++

		return nil, false, nil
	}

	reassembled := a.first
	reassembled.MessageNumber = msg.MessageParts
	reassembled.Payload = a.payload

	a.reset()

	return reassembled, true, nil
}
