package linklayer

import "sync/atomic"

// OpState is a LinkLayer's sequencing mode.
type OpState uint32

const (
	// InactiveState is the default: sequence numbers are zero on both
	// sides, no acks are expected, and no retries are tracked.
	InactiveState OpState = iota
	// ActiveState engages the full sequencing protocol.
	ActiveState
)

func (st OpState) String() string {
	switch st {
	case InactiveState:
		return "Inactive"
	case ActiveState:
		return "Active"
	default:
		return "Unknown"
	}
}

// atomicOpState is a lock-free OpState holder: Open Protocol's Link Layer
// only has two states and no illegal transitions to guard, so Set is
// unconditional rather than compare-and-swap gated.
type atomicOpState struct {
	state atomic.Uint32
}

func (st *atomicOpState) Get() OpState { return OpState(st.state.Load()) }

func (st *atomicOpState) Set(s OpState) { st.state.Store(uint32(s)) }

func (st *atomicOpState) IsActive() bool { return st.Get() == ActiveState }
