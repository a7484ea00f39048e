package mid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwakrZha/node-open-protocol-v2/message"
)

type fakeCodec struct {
	publishType bool
	revisions   []int
}

func (f *fakeCodec) Parse(msg *message.Message, _ ParseOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = "parsed"

	return out, nil
}

func (f *fakeCodec) Serialize(msg *message.Message, _ SerializeOptions) (*message.Message, error) {
	out := msg.Clone()
	out.Payload = []byte("serialized")

	return out, nil
}

func (f *fakeCodec) SupportedRevisions() []int { return f.revisions }

func (f *fakeCodec) IsPublishType() bool { return f.publishType }

func TestRegistry_RegisterLookupSupportedMIDs(t *testing.T) {
	r := NewRegistry()
	r.Register(62, &fakeCodec{revisions: []int{1}})
	r.Register(2, &fakeCodec{revisions: []int{1}})

	_, ok := r.Lookup(2)
	assert.True(t, ok)

	_, ok = r.Lookup(999)
	assert.False(t, ok)

	assert.Equal(t, []uint16{2, 62}, r.SupportedMIDs())
}

func TestRegistry_ParseUnknownMidPassesThrough(t *testing.T) {
	r := NewRegistry()

	msg := &message.Message{MID: 4242, Payload: []byte("raw")}
	out, err := r.Parse(msg, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), out.Payload)
}

func TestRegistry_ParseUnsupportedRevision(t *testing.T) {
	r := NewRegistry()
	r.Register(2, &fakeCodec{revisions: []int{1}})

	_, err := r.Parse(&message.Message{MID: 2, Revision: 2, Payload: []byte("x")}, ParseOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, message.ErrUnsupportedRevision)
}

func TestRegistry_SerializeIsAckRewrite(t *testing.T) {
	r := NewRegistry()

	out, err := r.Serialize(&message.Message{MID: 61}, SerializeOptions{IsAck: true})
	require.NoError(t, err)
	assert.Equal(t, uint16(message.CommandAcceptedMID), out.MID)
	assert.Equal(t, []byte("0061"), out.Payload)
	assert.True(t, out.IsAck)
}

func TestRegistry_SerializeSubscribeRewrite(t *testing.T) {
	r := NewRegistry()
	r.Register(62, &fakeCodec{revisions: []int{1}, publishType: true})

	out, err := r.Serialize(&message.Message{MID: 62}, SerializeOptions{Subscribe: true})
	require.NoError(t, err)
	assert.Equal(t, uint16(message.SubscribeMID), out.MID)
	assert.Equal(t, []byte("0062"), out.Payload)
}

func TestRegistry_SerializeUnsubscribeRewrite(t *testing.T) {
	r := NewRegistry()
	r.Register(62, &fakeCodec{revisions: []int{1}, publishType: true})

	out, err := r.Serialize(&message.Message{MID: 62}, SerializeOptions{Unsubscribe: true})
	require.NoError(t, err)
	assert.Equal(t, uint16(message.UnsubscribeMID), out.MID)
}

func TestRegistry_SerializeSubscribeIgnoredForNonPublishCodec(t *testing.T) {
	r := NewRegistry()
	r.Register(1, &fakeCodec{revisions: []int{1}, publishType: false})

	out, err := r.Serialize(&message.Message{MID: 1}, SerializeOptions{Subscribe: true})
	require.NoError(t, err)
	assert.Equal(t, uint16(1), out.MID)
	assert.Equal(t, []byte("serialized"), out.Payload)
}

func TestRegistry_SerializeUnknownMidPassthrough(t *testing.T) {
	r := NewRegistry()

	out, err := r.Serialize(&message.Message{MID: 4242, Payload: []byte("bytes")}, SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), out.Payload)
}

func TestRegistry_SerializeUnknownMidUnknownPayloadType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Serialize(&message.Message{MID: 4242, Payload: 42}, SerializeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, message.ErrUnknownMid)
}
