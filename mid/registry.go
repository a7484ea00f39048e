package mid

import (
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// ParseOptions configures a single Parse call.
type ParseOptions struct {
	// Revision selects which of a codec's supported revisions to decode
	// against. Zero means "use the message's own Revision field".
	Revision int
}

// SerializeOptions configures a single Serialize call, carrying the
// subscription/ack rewrite conventions.
type SerializeOptions struct {
	// IsAck, when set, rewrites the outgoing message to MID 5 (command
	// accepted) with the original MID as a 4-ASCII-digit payload,
	// regardless of which codec (if any) is registered for the message's
	// MID.
	IsAck bool

	// Subscribe/Unsubscribe, when set, rewrite the outgoing message to
	// MID 8 (subscribe) or MID 9 (unsubscribe) with the target MID as a
	// 4-ASCII-digit payload. Only meaningful for a codec that declares
	// itself a PublishType.
	Subscribe   bool
	Unsubscribe bool
}

// Codec decodes and encodes the payload of one or more MIDs. A leaf codec
// is registered against every MID it handles; the registry looks codecs up
// by MID and delegates.
type Codec interface {
	// Parse takes a Message whose Payload is raw bytes and returns a
	// Message whose Payload is a structured record.
	Parse(msg *message.Message, opts ParseOptions) (*message.Message, error)

	// Serialize takes a Message whose Payload is a structured record (or
	// already bytes/text) and returns a Message whose Payload is raw
	// bytes ready for the frame Serializer.
	Serialize(msg *message.Message, opts SerializeOptions) (*message.Message, error)

	// SupportedRevisions lists the MID revisions this codec understands.
	SupportedRevisions() []int
}

// PublishType is implemented by codecs whose MID is a valid subscription
// target (an asynchronous event stream such as tightening results, alarms
// or trace curves). The registry only honors SerializeOptions.Subscribe/
// Unsubscribe for a codec that implements this and returns true.
type PublishType interface {
	IsPublishType() bool
}

// Registry is a per-MID codec lookup table, populated once at startup and
// read-mostly thereafter. It uses xsync.MapOf rather than a mutex-guarded
// map, since lookups vastly outnumber the one-time registrations done at
// init().
type Registry struct {
	codecs *xsync.MapOf[uint16, Codec]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codecs: xsync.NewMapOf[uint16, Codec]()}
}

// Register associates a codec with mid. Registering the same MID twice
// replaces the previous codec; this is normally only done once, at
// process startup, from a midcodecs leaf's init().
func (r *Registry) Register(mid uint16, codec Codec) {
	r.codecs.Store(mid, codec)
}

// Lookup returns the codec registered for mid, if any.
func (r *Registry) Lookup(mid uint16) (Codec, bool) {
	return r.codecs.Load(mid)
}

// SupportedMIDs returns every MID with a registered codec, sorted
// ascending.
func (r *Registry) SupportedMIDs() []uint16 {
	mids := make([]uint16, 0, r.codecs.Size())

	r.codecs.Range(func(m uint16, _ Codec) bool {
		mids = append(mids, m)

		return true
	})

	sort.Slice(mids, func(i, j int) bool { return mids[i] < mids[j] })

	return mids
}

// Parse decodes msg.Payload (raw bytes) via the codec registered for
// msg.MID. If no codec is registered, the unknown-MID fallback delivers
// the payload as raw bytes.
func (r *Registry) Parse(msg *message.Message, opts ParseOptions) (*message.Message, error) {
	codec, ok := r.Lookup(msg.MID)
	if !ok {
		return msg, nil
	}

	revision := opts.Revision
	if revision == 0 {
		revision = int(msg.Revision)
	}

	if !supportsRevision(codec, revision) {
		return nil, fmt.Errorf("%w: MID %d revision %d", message.ErrUnsupportedRevision, msg.MID, revision)
	}

	return codec.Parse(msg, opts)
}

// Serialize encodes msg.Payload into raw bytes, applying the ack and
// subscription rewrite conventions before delegating to
// the registered codec (if any). If no codec is registered, the
// unknown-MID fallback accepts any byte-like payload and passes it
// through unchanged.
func (r *Registry) Serialize(msg *message.Message, opts SerializeOptions) (*message.Message, error) {
	if opts.IsAck {
		return ackRewrite(msg)
	}

	codec, ok := r.Lookup(msg.MID)
	if !ok {
		return passthroughSerialize(msg)
	}

	if opts.Subscribe || opts.Unsubscribe {
		if pt, ok := codec.(PublishType); ok && pt.IsPublishType() {
			return subscriptionRewrite(msg, opts.Unsubscribe)
		}
	}

	return codec.Serialize(msg, opts)
}

func supportsRevision(codec Codec, revision int) bool {
	for _, r := range codec.SupportedRevisions() {
		if r == revision {
			return true
		}
	}

	return false
}

// ackRewrite implements the "isAck" Serialize convention: rewrite to MID 5
// (command accepted) with the original MID as a 4-ASCII-digit payload.
func ackRewrite(msg *message.Message) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte(fmt.Sprintf("%04d", msg.MID))
	out.MID = message.CommandAcceptedMID
	out.IsAck = true

	return out, nil
}

// subscriptionRewrite implements the subscribe/unsubscribe Serialize
// convention: rewrite to MID 8 or 9 with the target MID as a
// 4-ASCII-digit payload.
func subscriptionRewrite(msg *message.Message, unsubscribe bool) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte(fmt.Sprintf("%04d", msg.MID))

	if unsubscribe {
		out.MID = message.UnsubscribeMID
	} else {
		out.MID = message.SubscribeMID
	}

	return out, nil
}

// passthroughSerialize implements the unknown-MID Serialize fallback:
// accept any byte-like payload as-is.
func passthroughSerialize(msg *message.Message) (*message.Message, error) {
	payload, err := msg.PayloadBytes()
	if err != nil {
		return nil, err
	}

	out := msg.Clone()
	out.Payload = payload

	return out, nil
}

// Default is the process-wide registry populated by midcodecs leaf init()
// functions. A caller that wants an isolated registry (e.g. for tests that
// register a fake codec) should construct its own with NewRegistry
// instead.
var Default = NewRegistry()

// Register associates a codec with mid in the Default registry.
func Register(mid uint16, codec Codec) { Default.Register(mid, codec) }
