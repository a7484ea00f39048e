// Package linklayer implements the Open Protocol Link Layer: the
// application-level reliability protocol layered over the frame package's
// byte-stream framing. It assigns sequence numbers, reassembles multi-part
// messages, emits and consumes positive/negative acknowledgements, retries
// unacknowledged writes up to a configured limit, and suppresses duplicate
// frames.
//
// A LinkLayer wraps a caller-owned transport (anything satisfying
// io.ReadWriter, normally a net.Conn) and drives it from a single
// cooperative protocol-loop goroutine, matching the single-threaded
// concurrency model: one task owns the transport, the
// retransmit timer, and every mutable field, so no internal locking is
// needed for that state. Callers interact with the loop only through
// channel-backed operations (Write, the Messages/Errors/ErrorsSerializer
// streams) and the Activate/Deactivate/Destroy lifecycle calls.
package linklayer
