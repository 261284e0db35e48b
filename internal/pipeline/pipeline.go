// Package pipeline defines the shared contract both pipeline
// implementations (out-of-order scoreboard and in-order) satisfy, plus
// the small FIFO latch the in-order pipeline uses between its stages.
package pipeline

import (
	"io"

	"github.com/coredump/tinyrv-sim/internal/trace"
)

// Pipeline is the per-cycle interface a Core drives in strict
// commit, writeback, execute, issue order.
type Pipeline interface {
	// Tick advances any delay ports the pipeline owns internally (the
	// out-of-order pipeline's reorder buffer) and performs any
	// bookkeeping that must happen once per cycle ahead of the stage
	// calls below. It is a no-op for pipelines with no internal delay
	// state.
	Tick()

	// Issue attempts to admit trace into the pipeline. It returns false
	// on a structural hazard, in which case the caller must retry trace
	// on a later cycle without fetching a new instruction.
	Issue(tr *trace.Trace) bool

	// Execute dispatches any ready instructions to their functional
	// units and returns the ones dispatched this cycle, for logging.
	Execute() []*trace.Trace

	// Writeback drains at most one functional unit's output and
	// returns its trace, or nil if none was ready.
	Writeback() *trace.Trace

	// Commit retires at most one instruction and returns its trace, or
	// nil if none retired this cycle.
	Commit() *trace.Trace

	// Dump writes internal pipeline state to w, for debugging.
	Dump(w io.Writer)
}

// Latch is a simple FIFO of in-flight traces, used to connect adjacent
// stages of the in-order pipeline.
type Latch struct {
	queue []*trace.Trace
}

// Empty reports whether the latch holds no trace.
func (l *Latch) Empty() bool {
	return len(l.queue) == 0
}

// Front returns the oldest trace without removing it. Callers must
// check Empty first.
func (l *Latch) Front() *trace.Trace {
	return l.queue[0]
}

// Push appends tr to the latch.
func (l *Latch) Push(tr *trace.Trace) {
	l.queue = append(l.queue, tr)
}

// Pop removes the oldest trace. Callers must check Empty first.
func (l *Latch) Pop() {
	l.queue = l.queue[1:]
}

// Clear discards every trace in the latch.
func (l *Latch) Clear() {
	l.queue = nil
}
