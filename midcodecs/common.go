package midcodecs

import (
	"fmt"

	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

// midField encodes a MID number as the 4-ASCII-digit field used by the
// command-accepted, subscribe/unsubscribe and ack payload conventions.
func midField(m uint16) []byte { return []byte(fmt.Sprintf("%04d", m)) }

// checkPayloadBytes coerces msg.Payload to raw bytes for a codec whose
// Serialize is handed an already-encoded payload (string/[]byte) rather
// than a structured record.
func checkPayloadBytes(msg *message.Message) ([]byte, error) {
	b, err := msg.PayloadBytes()
	if err != nil {
		return nil, err
	}

	return b, nil
}

// revisions1 is the SupportedRevisions result shared by every codec in
// this package: each only understands revision 1.
func revisions1() []int { return []int{1} }

var _ mid.Codec = (*noopCodec)(nil)

// noopCodec backs the smallest possible leaf: an empty-payload MID whose
// Parse/Serialize both round-trip zero bytes.
type noopCodec struct{}

func (noopCodec) Parse(msg *message.Message, _ mid.ParseOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = struct{}{}

	return out, nil
}

func (noopCodec) Serialize(msg *message.Message, _ mid.SerializeOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte(nil)

	return out, nil
}

func (noopCodec) SupportedRevisions() []int { return revisions1() }
