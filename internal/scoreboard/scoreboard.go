// Package scoreboard implements the out-of-order pipeline: register
// renaming through a register alias table, structural hazard tracking
// through a reservation station, and in-order retirement through a
// reorder buffer.
package scoreboard

import (
	"io"

	"github.com/coredump/tinyrv-sim/internal/fu"
	"github.com/coredump/tinyrv-sim/internal/rat"
	"github.com/coredump/tinyrv-sim/internal/rob"
	"github.com/coredump/tinyrv-sim/internal/rs"
	"github.com/coredump/tinyrv-sim/internal/rst"
	"github.com/coredump/tinyrv-sim/internal/trace"
)

// Pipeline is the out-of-order scoreboard pipeline. It satisfies
// pipeline.Pipeline.
type Pipeline struct {
	fus []*fu.Unit // indexed by trace.FUType

	rat *rat.Table
	rs  *rs.Station
	rst *rst.Table
	rob *rob.Buffer
}

// New creates a scoreboard pipeline dispatching into fus (indexed by
// trace.FUType), with numRSs reservation station entries, robSize
// reorder buffer entries, and numRegs architectural registers.
func New(fus []*fu.Unit, numRSs uint32, robSize, numRegs int) *Pipeline {
	rat := rat.New(numRegs)
	return &Pipeline{
		fus: fus,
		rat: rat,
		rs:  rs.New(numRSs),
		rst: rst.New(robSize),
		rob: rob.New(rat, robSize),
	}
}

// Tick advances the reorder buffer's internal ports and runs its
// completion/commit-preparation bookkeeping.
func (p *Pipeline) Tick() {
	p.rob.Completed.Advance()
	p.rob.Committed.Advance()
	p.rob.Tick()
}

// Issue renames tr's operands against the RAT/RST, allocates a reorder
// buffer entry, and pushes tr into the reservation station. It returns
// false without allocating anything if the reservation station is
// full.
func (p *Pipeline) Issue(tr *trace.Trace) bool {
	if p.rs.IsFull() {
		return false
	}

	rob1, rob2 := rat.None, rat.None
	if tr.Rs1 != trace.NoReg {
		rob1 = p.rat.Get(tr.Rs1)
	}
	if tr.Rs2 != trace.NoReg {
		rob2 = p.rat.Get(tr.Rs2)
	}

	rs1 := rst.None
	if rob1 != rat.None {
		rs1 = p.rst.Get(rob1)
	}
	rs2 := rst.None
	if rob2 != rat.None {
		rs2 = p.rst.Get(rob2)
	}

	robIndex := p.rob.Allocate(tr)

	if tr.WB {
		p.rat.Set(tr.Rd, robIndex)
	}

	rsIndex := p.rs.Push(tr, robIndex, rs1, rs2)
	p.rst.Set(robIndex, int(rsIndex))

	return true
}

// Execute dispatches every reservation station entry whose operands
// are both available (rs1/rs2 index == rs.None) and that has not yet
// been dispatched, sending it to its functional unit's Input port with
// zero delay so the unit can pick it up this same cycle.
func (p *Pipeline) Execute() []*trace.Trace {
	var traces []*trace.Trace
	for i := uint32(0); i < p.rs.Size(); i++ {
		entry := p.rs.Entry(i)
		if !entry.Valid || entry.Running {
			continue
		}
		if entry.Rs1Index != rs.None || entry.Rs2Index != rs.None {
			continue
		}
		entry.Running = true
		p.fus[entry.Trace.FUType].Input.Send(fu.Entry{
			Trace:    entry.Trace,
			RobIndex: entry.RobIndex,
			RsIndex:  int(i),
		}, 0)
		traces = append(traces, entry.Trace)
	}
	return traces
}

// Writeback processes the first functional unit (in ALU, LSU, CSR
// order) with a ready output: it broadcasts the completing RS index to
// every reservation station entry waiting on it, clears the register
// status table entry, signals the reorder buffer, and frees the
// reservation station slot. At most one functional unit is drained per
// cycle.
func (p *Pipeline) Writeback() *trace.Trace {
	for _, u := range p.fus {
		if u.Output.Empty() {
			continue
		}
		entry := u.Output.Front()

		for i := uint32(0); i < p.rs.Size(); i++ {
			rsEntry := p.rs.Entry(i)
			if !rsEntry.Valid {
				continue
			}
			if rsEntry.Rs1Index == entry.RsIndex {
				rsEntry.Rs1Index = rs.None
			}
			if rsEntry.Rs2Index == entry.RsIndex {
				rsEntry.Rs2Index = rs.None
			}
		}

		p.rst.Set(entry.RobIndex, rst.None)
		p.rob.Completed.Send(entry.RobIndex, 0)
		p.rs.Remove(uint32(entry.RsIndex))
		u.Output.Pop()

		return entry.Trace
	}
	return nil
}

// Commit returns the next trace retired by the reorder buffer this
// cycle, or nil.
func (p *Pipeline) Commit() *trace.Trace {
	if p.rob.Committed.Empty() {
		return nil
	}
	tr := p.rob.Committed.Front()
	p.rob.Committed.Pop()
	return tr
}

// Dump writes the reservation station and reorder buffer state to w.
func (p *Pipeline) Dump(w io.Writer) {
	p.rs.Dump(w)
	p.rob.Dump(w)
}
