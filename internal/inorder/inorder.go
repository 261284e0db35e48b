// Package inorder implements the simpler in-order pipeline: a single
// issue latch and a single writeback latch, with a register-in-use
// bitmap enforcing RAW/WAW/WAR hazards by stalling issue rather than
// renaming.
package inorder

import (
	"io"

	"github.com/coredump/tinyrv-sim/internal/fu"
	"github.com/coredump/tinyrv-sim/internal/pipeline"
	"github.com/coredump/tinyrv-sim/internal/trace"
)

// Pipeline is the in-order pipeline. It satisfies pipeline.Pipeline.
type Pipeline struct {
	fus []*fu.Unit // indexed by trace.FUType

	issueLatch pipeline.Latch
	wbLatch    pipeline.Latch
	inUse      []bool // register-in-use bitmap, indexed by register
}

// New creates an in-order pipeline dispatching into fus (indexed by
// trace.FUType), tracking hazards over numRegs architectural registers.
func New(fus []*fu.Unit, numRegs int) *Pipeline {
	return &Pipeline{
		fus:   fus,
		inUse: make([]bool, numRegs),
	}
}

// Tick is a no-op: the in-order pipeline's latches are plain FIFOs
// with no internal delay state to advance.
func (p *Pipeline) Tick() {}

// Issue stalls if tr's source or destination registers (other than
// x0) are marked in-use by an earlier, not-yet-written-back
// instruction; otherwise it marks the destination register in-use and
// admits tr to the issue latch.
func (p *Pipeline) Issue(tr *trace.Trace) bool {
	if tr.Rs1 != trace.NoReg && p.inUse[tr.Rs1] {
		return false
	}
	if tr.Rs2 != trace.NoReg && p.inUse[tr.Rs2] {
		return false
	}
	if tr.Rd != trace.NoReg && p.inUse[tr.Rd] {
		return false
	}

	if tr.Rd != trace.NoReg {
		p.inUse[tr.Rd] = true
	}

	p.issueLatch.Push(tr)
	return true
}

// Execute dequeues at most one trace from the issue latch and sends it
// to its functional unit with zero delay.
func (p *Pipeline) Execute() []*trace.Trace {
	if p.issueLatch.Empty() {
		return nil
	}
	tr := p.issueLatch.Front()
	p.fus[tr.FUType].Input.Send(fu.Entry{Trace: tr}, 0)
	p.issueLatch.Pop()
	return []*trace.Trace{tr}
}

// Writeback processes the first functional unit (in ALU, LSU, CSR
// order) with a ready output, clears its destination register's
// in-use bit, and pushes it to the writeback latch.
func (p *Pipeline) Writeback() *trace.Trace {
	for _, u := range p.fus {
		if u.Output.Empty() {
			continue
		}
		entry := u.Output.Front()
		if entry.Trace.Rd != trace.NoReg {
			p.inUse[entry.Trace.Rd] = false
		}
		p.wbLatch.Push(entry.Trace)
		u.Output.Pop()
		return entry.Trace
	}
	return nil
}

// Commit dequeues at most one trace from the writeback latch.
func (p *Pipeline) Commit() *trace.Trace {
	if p.wbLatch.Empty() {
		return nil
	}
	tr := p.wbLatch.Front()
	p.wbLatch.Pop()
	return tr
}

// Dump is a no-op; the in-order pipeline keeps no state worth
// dumping beyond the traces already visible through its latches.
func (p *Pipeline) Dump(w io.Writer) {}
