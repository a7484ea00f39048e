package linklayer

import (
	"time"

	"github.com/diwakrZha/node-open-protocol-v2/internal/pool"
	"github.com/diwakrZha/node-open-protocol-v2/message"
)

// pendingWrite tracks a single outstanding outbound write awaiting its
// ack: the completion callback is modelled as a
// single-shot consumable (take-and-null), never a bare function reference,
// so an ack arrival racing a timer fire can never fire the callback twice.
type pendingWrite struct {
	mid            uint16
	sequenceNumber uint8
	frames         [][]byte
	resends        int
	timer          *time.Timer
	onComplete     func(error)
}

// complete fires the stored callback at most once, then clears it.
func (p *pendingWrite) complete(err error) {
	if p == nil || p.onComplete == nil {
		return
	}

	cb := p.onComplete
	p.onComplete = nil
	cb(err)
}

// stopTimer releases the pooled retransmit timer, if one is armed.
func (p *pendingWrite) stopTimer() {
	if p == nil || p.timer == nil {
		return
	}

	pool.PutTimer(p.timer)
	p.timer = nil
}

// writeRequest is a caller's enqueued Write call, handed to the protocol
// loop through the outbound queue.
type writeRequest struct {
	msg         *message.Message
	onComplete  func(error)
	subscribe   bool
	unsubscribe bool
}

// complete fires the stored callback at most once, then clears it, mirroring
// pendingWrite.complete's single-shot contract.
func (r *writeRequest) complete(err error) {
	if r == nil || r.onComplete == nil {
		return
	}

	cb := r.onComplete
	r.onComplete = nil
	cb(err)
}

// WriteOption configures a single Write call, carrying the MID registry's
// subscribe/unsubscribe Serialize conventions up to the
// Link Layer's public API.
type WriteOption func(*writeRequest)

// WithSubscribe requests the subscribe rewrite (registered MID → 8) for a
// publish-type MID's Write call.
func WithSubscribe() WriteOption {
	return func(r *writeRequest) { r.subscribe = true }
}

// WithUnsubscribe requests the unsubscribe rewrite (registered MID → 9)
// for a publish-type MID's Write call.
func WithUnsubscribe() WriteOption {
	return func(r *writeRequest) { r.unsubscribe = true }
}
