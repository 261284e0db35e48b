// Package core implements the tick orchestrator that ties a functional
// emulator, a set of functional units, a pipeline (out-of-order or
// in-order), and a branch predictor together into a single-hart,
// cycle-level simulation.
package core

import (
	"github.com/coredump/tinyrv-sim/internal/fu"
	"github.com/coredump/tinyrv-sim/internal/gshare"
	"github.com/coredump/tinyrv-sim/internal/inorder"
	"github.com/coredump/tinyrv-sim/internal/pipeline"
	"github.com/coredump/tinyrv-sim/internal/ram"
	"github.com/coredump/tinyrv-sim/internal/scoreboard"
	"github.com/coredump/tinyrv-sim/internal/trace"
)

// Emulator is the functional collaborator a Core drives once per
// cycle: it fetches and executes one architectural instruction per
// Step call and produces the trace the pipeline schedules.
type Emulator interface {
	Step() *trace.Trace
	CheckExit(riscvTest bool) (exitcode uint32, exited bool)
	AttachRAM(r *ram.RAM)
	Clear()
}

// Config is the subset of simulator configuration a Core needs to
// build its pipeline and functional units.
type Config struct {
	NumRegs     int
	NumRSs      uint32
	RobSize     int
	AluLatency  int
	LsuLatency  int
	CsrLatency  int
	OOOEnabled  bool
	GshareEnabled bool
}

// PerfStats accumulates the counters shown in the simulator's final
// performance summary line.
type PerfStats struct {
	Cycles uint64
	Instrs uint64
}

// Core owns the emulator, functional units, pipeline, and branch
// predictor, and drives them one cycle at a time via Tick.
type Core struct {
	emulator Emulator
	fus      []*fu.Unit // indexed by trace.FUType
	pipeline pipeline.Pipeline
	gshare   *gshare.Predictor

	gshareEnabled bool

	branchStalls  int
	stalledTrace  *trace.Trace
	fetchedInstrs uint64

	PerfStats PerfStats
}

// New builds a Core from cfg, driving emulator as its functional
// collaborator.
func New(cfg Config, emulator Emulator) *Core {
	fus := []*fu.Unit{
		trace.ALU: fu.New(cfg.AluLatency),
		trace.LSU: fu.New(cfg.LsuLatency),
		trace.CSR: fu.New(cfg.CsrLatency),
	}

	var pipe pipeline.Pipeline
	if cfg.OOOEnabled {
		pipe = scoreboard.New(fus, cfg.NumRSs, cfg.RobSize, cfg.NumRegs)
	} else {
		pipe = inorder.New(fus, cfg.NumRegs)
	}

	return &Core{
		emulator:      emulator,
		fus:           fus,
		pipeline:      pipe,
		gshare:        gshare.New(),
		gshareEnabled: cfg.GshareEnabled,
	}
}

// AttachRAM attaches ram to the Core's emulator.
func (c *Core) AttachRAM(r *ram.RAM) {
	c.emulator.AttachRAM(r)
}

// Tick advances the simulation by exactly one cycle: global port
// advancement, the pipeline's internal bookkeeping, then the four
// pipeline stages in commit, writeback, execute, issue order, with
// each functional unit's own delay-line tick run between execute and
// issue.
//
// Functional units tick after execute within the same cycle so an
// instruction dispatched this cycle is visible in its unit's Input
// immediately and re-queued onto Output with the unit's configured
// latency — giving a combinational-looking dispatch an accurate
// multi-cycle completion time without a separate "dispatch" cycle.
func (c *Core) Tick() {
	for _, u := range c.fus {
		u.Input.Advance()
		u.Output.Advance()
	}
	c.pipeline.Tick()

	if tr := c.pipeline.Commit(); tr != nil {
		c.PerfStats.Instrs++
	}
	c.pipeline.Writeback()
	c.pipeline.Execute()

	for _, u := range c.fus {
		u.Tick()
	}

	c.issue()

	c.PerfStats.Cycles++
}

func (c *Core) issue() {
	tr := c.stalledTrace

	if c.branchStalls != 0 {
		c.branchStalls--
		return
	}

	if tr == nil {
		// Once the program has exited, stop fetching: the instruction
		// after an ECALL/EBREAK is not guaranteed to exist, and letting
		// already-fetched instructions drain is enough for Running to
		// go false once the exiting instruction itself commits.
		if _, exited := c.emulator.CheckExit(false); exited {
			return
		}

		tr = c.emulator.Step()
		c.stalledTrace = tr
		c.fetchedInstrs++

		if tr.FUType == trace.ALU && tr.AluOp == trace.BRANCH {
			if c.gshareEnabled {
				if !c.gshare.Predict(tr) {
					c.branchStalls = 2
					return
				}
			} else {
				c.branchStalls = 2
				return
			}
		}
	}

	if !c.pipeline.Issue(tr) {
		return
	}

	c.stalledTrace = nil
}

// Running reports whether the Core still has work to do: either it has
// not fetched its first instruction yet, or some fetched instruction
// has not yet retired.
func (c *Core) Running() bool {
	return c.fetchedInstrs == 0 || c.PerfStats.Instrs != c.fetchedInstrs
}

// CheckExit reports whether the emulator has executed a program exit
// (ECALL/EBREAK) and, if so, its exit code.
func (c *Core) CheckExit(riscvTest bool) (uint32, bool) {
	return c.emulator.CheckExit(riscvTest)
}
