package linklayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/diwakrZha/node-open-protocol-v2/frame"
	"github.com/diwakrZha/node-open-protocol-v2/internal/pool"
	"github.com/diwakrZha/node-open-protocol-v2/internal/queue"
	"github.com/diwakrZha/node-open-protocol-v2/logger"
	"github.com/diwakrZha/node-open-protocol-v2/message"
	"github.com/diwakrZha/node-open-protocol-v2/mid"
)

// ErrClosed is returned to a Write callback when the write could not be
// accepted because the LinkLayer has been destroyed.
var ErrClosed = errors.New("openprotocol: link layer destroyed")

// Transport is the byte-stream connection a LinkLayer drives. Any net.Conn
// satisfies it; tests commonly use net.Pipe or an in-memory fake.
//
// The LinkLayer owns neither the lifecycle nor the Close of a Transport:
// it is handed in by the caller and is never closed here.
type Transport interface {
	io.Reader
	io.Writer
}

// deadlineSetter is implemented by transports (like net.Conn) that support
// read deadlines. The LinkLayer uses this, when available, to poll for
// inbound data in short bursts rather than blocking the reader goroutine
// forever, so Destroy can actually stop the reader promptly.
type deadlineSetter interface {
	SetReadDeadline(t time.Time) error
}

// pollInterval bounds how long a single deadline-aware Read blocks before
// the reader goroutine rechecks for shutdown; Open Protocol has no idle
// linktest cadence of its own to size this against.
const pollInterval = 200 * time.Millisecond

const readBufferSize = 8192

// readResult is one outcome of a single Transport.Read call, handed from
// the reader goroutine to the protocol loop.
type readResult struct {
	data []byte
	err  error
}

// LinkLayer implements the Open Protocol Link Layer: sequencing,
// multi-part reassembly, ack dispatch, retry and duplicate suppression,
// layered over the frame package's byte-stream framing and the mid
// package's codec registry.
//
// All protocol-relevant mutable state (sequence counters, the pending
// write, the reassembly buffer, the last-delivered key) is owned
// exclusively by the single loop goroutine started in New; callers only
// ever interact with LinkLayer through its channel-backed methods, so none
// of that state needs its own lock.
type LinkLayer struct {
	cfg       *Config
	transport Transport
	logger    logger.Logger

	parser     *frame.Parser
	serializer *frame.Serializer

	opState atomicOpState
	task    *loopTask

	writeCh  chan *writeRequest
	readCh   chan readResult
	messages chan *message.Message
	errs     chan error
	serrs    chan error

	// Loop-owned protocol state. Touched only inside run().
	outboundSeq      uint8
	expectedPeerSeq  uint8
	hasLastDelivered bool
	lastDelivered    [2]uint16
	assembler        assembler
	pending          *pendingWrite
	deferred         queue.Queue
}

// New creates a LinkLayer over transport and immediately starts its
// reader and protocol-loop goroutines. The LinkLayer starts in
// InactiveState; call Activate to engage full sequencing.
func New(ctx context.Context, transport Transport, opts ...Option) *LinkLayer {
	cfg := NewConfig(opts...)

	l := &LinkLayer{
		cfg:        cfg,
		transport:  transport,
		logger:     cfg.logger,
		parser:     frame.NewParser(frame.WithRawData(cfg.rawData), frame.WithLogger(cfg.logger)),
		serializer: frame.NewSerializer(),
		writeCh:    make(chan *writeRequest, senderQueueSize),
		readCh:     make(chan readResult, 1),
		messages:   make(chan *message.Message, deliveryQueueSize),
		errs:       make(chan error, deliveryQueueSize),
		serrs:      make(chan error, deliveryQueueSize),
		deferred:   queue.NewSliceQueue(4),
	}

	l.task = newLoopTask(ctx, cfg.logger)
	l.task.Start(l.readLoop)
	l.task.Start(l.run)

	return l
}

// Messages returns the channel of successfully decoded, reassembled,
// de-duplicated inbound Messages.
func (l *LinkLayer) Messages() <-chan *message.Message { return l.messages }

// Errors returns the channel of inbound/protocol errors (framing
// failures, sequencing violations, reassembly inconsistencies).
func (l *LinkLayer) Errors() <-chan error { return l.errs }

// ErrorsSerializer returns the channel of outbound encoding failures,
// for a dedicated errorSerializer stream.
func (l *LinkLayer) ErrorsSerializer() <-chan error { return l.serrs }

// Activate engages full Link Layer sequencing: outbound writes are
// stamped with sequence numbers and tracked for ack/retry, and inbound
// messages are sequence-checked.
func (l *LinkLayer) Activate() { l.opState.Set(ActiveState) }

// Deactivate returns the LinkLayer to its default Inactive mode: no
// sequencing, no acks, no retries.
func (l *LinkLayer) Deactivate() { l.opState.Set(InactiveState) }

// State reports the LinkLayer's current sequencing mode.
func (l *LinkLayer) State() OpState { return l.opState.Get() }

// Write enqueues msg for transmission. onComplete fires exactly once: on
// immediate (ack-path or inactive-mode) send, on ack arrival, on retry
// exhaustion, or on a serializer error. If the LinkLayer has been
// destroyed, onComplete fires immediately with ErrClosed.
func (l *LinkLayer) Write(msg *message.Message, onComplete func(error), opts ...WriteOption) {
	req := &writeRequest{msg: msg, onComplete: onComplete}
	for _, opt := range opts {
		opt(req)
	}

	if l.task.ctx.Err() != nil {
		req.complete(ErrClosed)

		return
	}

	select {
	case l.writeCh <- req:
	case <-l.task.ctx.Done():
		req.complete(ErrClosed)
	}
}

// Destroy cancels the retransmit timer and both inner goroutines. The
// pending write and any writes queued behind it complete with ErrClosed;
// a write still waiting in the outbound channel when the loop exits
// receives no callback.
func (l *LinkLayer) Destroy() {
	l.task.Stop()
	l.task.Wait()
}

// readLoop repeatedly reads from the transport and forwards each chunk
// (or terminal error) to the protocol loop. When the transport supports
// read deadlines, it polls in short bursts so it notices context
// cancellation promptly instead of blocking forever in Read.
func (l *LinkLayer) readLoop(ctx context.Context) {
	buf := make([]byte, readBufferSize)

	deadliner, hasDeadline := l.transport.(deadlineSetter)

	for {
		if ctx.Err() != nil {
			return
		}

		if hasDeadline {
			_ = deadliner.SetReadDeadline(time.Now().Add(pollInterval))
		}

		n, err := l.transport.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case l.readCh <- readResult{data: chunk}:
			case <-ctx.Done():
				return
			}
		}

		if err != nil {
			if hasDeadline && isTimeout(err) {
				continue
			}

			select {
			case l.readCh <- readResult{err: err}:
			case <-ctx.Done():
			}

			return
		}
	}
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}

	return false
}

// run is the single cooperative protocol-loop goroutine: it owns every
// piece of Link Layer state and is the only goroutine that touches it,
// so none of that state needs its own lock.
func (l *LinkLayer) run(ctx context.Context) {
	defer l.cleanup()

	for {
		timerC := l.pendingTimerChan()

		select {
		case <-ctx.Done():
			return

		case req := <-l.writeCh:
			l.handleWrite(req)

		case res := <-l.readCh:
			l.handleRead(res)

		case <-timerC:
			l.handleRetransmitTimeout()
		}
	}
}

func (l *LinkLayer) pendingTimerChan() <-chan time.Time {
	if l.pending == nil || l.pending.timer == nil {
		return nil
	}

	return l.pending.timer.C
}

func (l *LinkLayer) cleanup() {
	if l.pending != nil {
		l.pending.stopTimer()
		l.pending.complete(ErrClosed)
		l.pending = nil
	}

	for !l.deferred.IsEmpty() {
		req, _ := l.deferred.Dequeue().(*writeRequest)
		req.complete(ErrClosed)
	}
}

// --- Outbound path ---

func (l *LinkLayer) handleWrite(req *writeRequest) {
	serOpts := mid.SerializeOptions{
		IsAck:       req.msg.IsAck,
		Subscribe:   req.subscribe,
		Unsubscribe: req.unsubscribe,
	}

	encoded, err := l.cfg.registry.Serialize(req.msg, serOpts)
	if err != nil {
		l.emitSerializerError(err)
		req.complete(err)

		return
	}

	ackPath := req.msg.IsAck || req.msg.MID == message.PositiveAckMID || req.msg.MID == message.NegativeAckMID
	active := l.opState.IsActive()

	if ackPath || !active {
		l.sendImmediate(encoded, req)

		return
	}

	if l.pending != nil {
		l.deferred.Enqueue(req)

		return
	}

	l.sendSequenced(encoded, req)
}

// sendImmediate serializes and writes msg without sequencing or retry
// tracking, firing req's completion unconditionally, per the
// ack and inactive-mode outbound rules.
func (l *LinkLayer) sendImmediate(encoded *message.Message, req *writeRequest) {
	frames, err := l.buildFrames(encoded, 0)
	if err != nil {
		l.emitSerializerError(err)
		req.complete(err)

		return
	}

	var writeErr error
	for _, f := range frames {
		if _, writeErr = l.transport.Write(f); writeErr != nil {
			break
		}
	}

	req.complete(writeErr)
}

// sendSequenced stamps a fresh sequence number on encoded, splits it into
// frames, writes them, and arms the retransmit timer, per the
// active non-ack outbound rule.
func (l *LinkLayer) sendSequenced(encoded *message.Message, req *writeRequest) {
	seq := nextOutboundSeq(l.outboundSeq)

	frames, err := l.buildFrames(encoded, seq)
	if err != nil {
		l.emitSerializerError(err)
		req.complete(err)

		return
	}

	l.outboundSeq = seq

	for _, f := range frames {
		if _, err := l.transport.Write(f); err != nil {
			l.releaseOutboundSeq()
			req.complete(err)

			return
		}
	}

	l.pending = &pendingWrite{
		mid:            encoded.MID,
		sequenceNumber: seq,
		frames:         frames,
		onComplete:     req.onComplete,
		timer:          pool.GetTimer(l.cfg.timeout),
	}
}

// releaseOutboundSeq reverts the last assigned outbound sequence number so
// the next write reuses it, matching the propagation policy for a
// failed send.
func (l *LinkLayer) releaseOutboundSeq() {
	l.outboundSeq = prevOutboundSeq(l.outboundSeq)
}

// buildFrames encodes encoded's payload into one or more framed,
// sequence-stamped wire frames, splitting at the 9979-byte per-part
// payload cap and rejecting anything over the 9-part protocol maximum.
func (l *LinkLayer) buildFrames(encoded *message.Message, seq uint8) ([][]byte, error) {
	payload, err := encoded.PayloadBytes()
	if err != nil {
		return nil, err
	}

	n := len(payload)
	parts := 1
	if n > 0 {
		parts = (n + message.MaxPartPayloadSize - 1) / message.MaxPartPayloadSize
	}

	if parts > message.MaxParts {
		return nil, fmt.Errorf("%w: %d-byte payload needs %d parts, protocol allows %d", message.ErrTooLarge, n, parts, message.MaxParts)
	}

	frames := make([][]byte, 0, parts)

	for i := 0; i < parts; i++ {
		start := i * message.MaxPartPayloadSize
		end := start + message.MaxPartPayloadSize
		if end > n {
			end = n
		}

		part := encoded.Clone()
		part.SequenceNumber = seq

		if parts > 1 {
			part.MessageParts = uint8(parts)  //nolint:gosec // parts <= MaxParts
			part.MessageNumber = uint8(i + 1) //nolint:gosec // i+1 <= parts <= MaxParts
		} else {
			part.MessageParts = 0
			part.MessageNumber = 0
		}

		part.Payload = payload[start:end]

		frameBytes, err := l.serializer.Serialize(part)
		if err != nil {
			return nil, err
		}

		frames = append(frames, frameBytes)
	}

	return frames, nil
}

func (l *LinkLayer) emitSerializerError(err error) {
	select {
	case l.serrs <- err:
	default:
		l.logger.Warn("linklayer: errorSerializer channel full, dropping", "error", err)
	}
}

func (l *LinkLayer) emitError(err error) {
	select {
	case l.errs <- err:
	default:
		l.logger.Warn("linklayer: error channel full, dropping", "error", err)
	}
}

// handleRetransmitTimeout re-sends the pending write's frames, or fails
// its completion with Timeout once retries are exhausted.
func (l *LinkLayer) handleRetransmitTimeout() {
	p := l.pending
	if p == nil {
		return
	}

	if p.resends >= l.cfg.retryLimit {
		p.stopTimer()
		l.pending = nil
		p.complete(message.ErrTimeout)
		l.drainDeferred()

		return
	}

	p.resends++

	for _, f := range p.frames {
		if _, err := l.transport.Write(f); err != nil {
			l.logger.Error("linklayer: retransmit write failed", "error", err)

			break
		}
	}

	p.timer = pool.GetTimer(l.cfg.timeout)
}

// drainDeferred pops the next queued non-ack write (if any) onto the
// pending slot, preserving outbound call order once the in-flight write
// has completed.
func (l *LinkLayer) drainDeferred() {
	for l.pending == nil && !l.deferred.IsEmpty() {
		next, _ := l.deferred.Dequeue().(*writeRequest)
		l.handleWrite(next)
	}
}

// --- Inbound path ---

func (l *LinkLayer) handleRead(res readResult) {
	if res.err != nil {
		if !errors.Is(res.err, io.EOF) {
			l.emitError(res.err)
		}

		return
	}

	msgs, err := l.parser.Feed(res.data)
	for _, msg := range msgs {
		l.processInbound(msg)
	}

	if err != nil {
		l.emitError(err)
	}
}

func (l *LinkLayer) processInbound(msg *message.Message) {
	reassembled := msg

	if msg.MessageParts > 0 {
		r, done, err := l.assembler.feed(msg)
		if err != nil {
			if l.opState.IsActive() {
				l.sendNack(msg.MID, nackInconsistencyMessageNumber)
			}

			l.emitError(err)

			return
		}

		if !done {
			return
		}

		reassembled = r
	}

	// Duplicate detection runs once per logical message, after reassembly:
	// every part of a multi-part message shares the same stamped
	// sequenceNumber, so checking msg.Key() per physical frame would
	// decrement expectedPeerSeq once per part instead of once per message.
	key := reassembled.Key()

	duplicate := false
	if l.hasLastDelivered && key == l.lastDelivered {
		duplicate = true
		l.expectedPeerSeq = prevAckSeq(l.expectedPeerSeq)
	}

	if reassembled.IsAckMID() {
		l.handleAckDispatch(reassembled)

		return
	}

	if l.opState.IsActive() && reassembled.SequenceNumber != 0 {
		expected := nextAckSeq(l.expectedPeerSeq)
		if reassembled.SequenceNumber != expected {
			l.sendNack(reassembled.MID, nackInvalidSequenceNumber)
			l.emitError(message.ErrInvalidSequenceNumber)

			return
		}

		l.expectedPeerSeq = expected
		l.sendPositiveAck(nextAckSeq(l.expectedPeerSeq), reassembled.MID)
	}

	if duplicate {
		return
	}

	l.lastDelivered = key
	l.hasLastDelivered = true

	out := reassembled
	if !l.cfg.MidParsingDisabled(reassembled.MID) {
		parsed, err := l.cfg.registry.Parse(reassembled, mid.ParseOptions{})
		if err != nil {
			l.emitError(err)

			return
		}

		out = parsed
	}

	l.deliver(out)
}

func (l *LinkLayer) deliver(msg *message.Message) {
	select {
	case l.messages <- msg:
	case <-l.task.ctx.Done():
	}
}

// handleAckDispatch resolves an inbound POSITIVE_ACK/NEGATIVE_ACK against
// the current pending write, per the Link Layer's Dispatch rule.
func (l *LinkLayer) handleAckDispatch(ack *message.Message) {
	p := l.pending
	if p == nil {
		l.logger.Debug("linklayer: ack received with no pending write", "mid", ack.MID, "seq", ack.SequenceNumber)

		return
	}

	p.stopTimer()
	l.pending = nil

	defer l.drainDeferred()

	if ack.MID == message.NegativeAckMID {
		p.complete(message.ErrAckMismatch)

		return
	}

	ackedMid, err := readAckedMid(ack)
	if err != nil || ackedMid != p.mid || ack.SequenceNumber != p.sequenceNumber {
		p.complete(message.ErrAckMismatch)

		return
	}

	p.complete(nil)
}

func readAckedMid(ack *message.Message) (uint16, error) {
	payload, ok := ack.Payload.([]byte)
	if !ok || len(payload) < 4 {
		return 0, message.ErrInvalidPayload
	}

	c := mid.NewCursor(payload)

	v, err := c.ReadNumber("midNumber", 4)
	if err != nil {
		return 0, err
	}

	return uint16(v), nil //nolint:gosec // bounded by MaxMID
}

// NACK error codes. The protocol leaves the exact MID 0900/0901 wire
// encoding, including NACK error codes, as an open question; these two
// values are this implementation's fixed choice, documented in DESIGN.md.
const (
	nackInvalidSequenceNumber      = 1
	nackInconsistencyMessageNumber = 2
)

func (l *LinkLayer) sendPositiveAck(seq uint8, peerMid uint16) {
	l.emitRaw(&message.Message{
		MID:            message.PositiveAckMID,
		SequenceNumber: seq,
		Payload:        midDigits(peerMid),
	})
}

func (l *LinkLayer) sendNack(peerMid uint16, code int) {
	payload := midDigits(peerMid)
	payload = append(payload, []byte(fmt.Sprintf("%02d", code))...)

	l.emitRaw(&message.Message{
		MID:            message.NegativeAckMID,
		SequenceNumber: nextAckSeq(l.expectedPeerSeq),
		Payload:        payload,
	})
}

// emitRaw serializes and writes a Link Layer-internal frame (an ack or
// nack) directly, bypassing the MID registry and the pending-write/retry
// machinery entirely.
func (l *LinkLayer) emitRaw(msg *message.Message) {
	frameBytes, err := l.serializer.Serialize(msg)
	if err != nil {
		l.logger.Error("linklayer: failed to serialize internal ack/nack", "mid", msg.MID, "error", err)

		return
	}

	if _, err := l.transport.Write(frameBytes); err != nil {
		l.logger.Error("linklayer: failed to write internal ack/nack", "mid", msg.MID, "error", err)
	}
}

func midDigits(m uint16) []byte { return []byte(fmt.Sprintf("%04d", m)) }

// nextOutboundSeq advances an outbound sequence number: monotonic 1..99,
// wrapping to 1 after 99.
func nextOutboundSeq(seq uint8) uint8 {
	if seq >= 99 {
		return 1
	}

	return seq + 1
}

// prevOutboundSeq reverses nextOutboundSeq, for releaseOutboundSeq.
func prevOutboundSeq(seq uint8) uint8 {
	if seq <= 1 {
		return 99
	}

	return seq - 1
}

// nextAckSeq computes the peer-sequence-plus-one value used both to match
// an inbound non-ack message and to stamp the POSITIVE_ACK/NEGATIVE_ACK
// reply: wraps 99 to 0.
func nextAckSeq(seq uint8) uint8 {
	if seq >= 99 {
		return 0
	}

	return seq + 1
}

// prevAckSeq reverses nextAckSeq, used to re-arm duplicate-frame
// detection for a retransmitted frame without re-delivering it.
func prevAckSeq(seq uint8) uint8 {
	if seq == 0 {
		return 99
	}

	return seq - 1
}
