// Package simulator is the top-level driver: it loads a workload,
// wires a single Core to its emulator and RAM, and runs the simulation
// to completion or a cycle bound, exposing summary statistics.
package simulator

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/coredump/tinyrv-sim/internal/config"
	"github.com/coredump/tinyrv-sim/internal/core"
	"github.com/coredump/tinyrv-sim/internal/emulator"
	"github.com/coredump/tinyrv-sim/internal/ram"
)

// Statistics summarizes a completed (or stopped) run.
type Statistics struct {
	TotalCycles  uint64
	Instrs       uint64
	IPC          float64
	ExitCode     uint32
	ExitedCleanly bool
}

// Simulator wires a Core to its collaborators and drives it cycle by
// cycle.
type Simulator struct {
	config  *config.Config
	core    *core.Core
	running atomic.Bool
	stop    chan struct{}
	stats   Statistics
}

// New builds a Simulator from cfg: it loads cfg.WorkloadPath, attaches
// a RAM writing console output to console, and constructs the Core.
func New(cfg *config.Config, console io.Writer) (*Simulator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration provided")
	}

	program, err := emulator.LoadProgram(cfg.WorkloadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workload: %w", err)
	}

	emu := emulator.New(program.Instrs, cfg.NumRegs)

	c := core.New(core.Config{
		NumRegs:       cfg.NumRegs,
		NumRSs:        uint32(cfg.NumRSs),
		RobSize:       cfg.RobSize,
		AluLatency:    cfg.AluLatency,
		LsuLatency:    cfg.LsuLatency,
		CsrLatency:    cfg.CsrLatency,
		OOOEnabled:    cfg.OOOEnabled,
		GshareEnabled: cfg.GshareEnabled,
	}, emu)

	c.AttachRAM(ram.New(uint32(cfg.RamSize), console))

	return &Simulator{
		config: cfg,
		core:   c,
		stop:   make(chan struct{}),
	}, nil
}

// Run ticks the Core until it runs out of work, the program exits, or
// cycles is reached, whichever comes first.
func (s *Simulator) Run(cycles int64) error {
	if cycles <= 0 {
		return fmt.Errorf("cycle count must be greater than 0")
	}

	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("simulation is already running")
	}
	defer s.running.Store(false)

	if s.config.MaxCycles > 0 && cycles > s.config.MaxCycles {
		cycles = s.config.MaxCycles
	}

	var i int64
	for ; i < cycles; i++ {
		select {
		case <-s.stop:
			s.calculateStatistics(i)
			return nil
		default:
		}

		if !s.core.Running() {
			break
		}

		s.core.Tick()
	}

	s.calculateStatistics(i)

	return nil
}

func (s *Simulator) calculateStatistics(cycles int64) {
	s.stats.TotalCycles = s.core.PerfStats.Cycles
	s.stats.Instrs = s.core.PerfStats.Instrs

	if s.stats.TotalCycles > 0 {
		s.stats.IPC = float64(s.stats.Instrs) / float64(s.stats.TotalCycles)
	}

	if code, exited := s.core.CheckExit(false); exited {
		s.stats.ExitCode = code
		s.stats.ExitedCleanly = true
	}
}

// GetStatistics returns a copy of the simulator's summary statistics.
func (s *Simulator) GetStatistics() Statistics {
	return s.stats
}

// Shutdown requests that a running simulation stop at its next cycle
// boundary.
func (s *Simulator) Shutdown() {
	if !s.running.Load() {
		return
	}
	close(s.stop)
}
