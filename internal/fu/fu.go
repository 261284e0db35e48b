// Package fu implements a functional unit: a fixed-latency, pipelined
// delay line that a pipeline implementation dispatches instructions
// into for execution and later drains for writeback.
package fu

import (
	"github.com/coredump/tinyrv-sim/internal/simport"
	"github.com/coredump/tinyrv-sim/internal/trace"
)

// Entry is what a pipeline dispatches to a unit's Input and later
// reads back from its Output.
type Entry struct {
	Trace    *trace.Trace
	RobIndex int
	RsIndex  int
}

// Unit is a functional unit. It never stalls and accepts a new entry
// every cycle regardless of how many are already in flight, since each
// entry carries its own independent delay through Output.
type Unit struct {
	Input  simport.Port[Entry]
	Output simport.Port[Entry]

	latency int
}

// New creates a unit with the given fixed execution latency in cycles.
func New(latency int) *Unit {
	return &Unit{latency: latency}
}

// Tick drains one entry from Input, if present, and re-sends it on
// Output delayed by the unit's latency.
func (u *Unit) Tick() {
	if u.Input.Empty() {
		return
	}
	entry := u.Input.Front()
	u.Output.Send(entry, u.latency)
	u.Input.Pop()
}
