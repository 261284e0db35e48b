package simulator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/coredump/tinyrv-sim/internal/config"
)

// writeWorkload writes a minimal YAML workload to dir and returns its path.
func writeWorkload(t *testing.T, dir, instrs string) string {
	t.Helper()
	path := filepath.Join(dir, "workload.yaml")
	if err := os.WriteFile(path, []byte("instrs:\n"+instrs), 0o644); err != nil {
		t.Fatalf("writeWorkload: %v", err)
	}
	return path
}

func newTestConfig(t *testing.T, workload string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorkloadPath = workload
	cfg.NumRSs = 2
	cfg.RobSize = 4
	return cfg
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, &bytes.Buffer{})
	if err == nil {
		t.Fatal("New() with nil config should return error")
	}
}

func TestNew_MissingWorkload(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WorkloadPath = filepath.Join(t.TempDir(), "does-not-exist.yaml")
	_, err := New(cfg, &bytes.Buffer{})
	if err == nil {
		t.Fatal("New() with a missing workload file should return error")
	}
}

func TestRun_RetiresEveryFetchedInstruction(t *testing.T) {
	dir := t.TempDir()
	workload := writeWorkload(t, dir, `
  - {op: addi, rd: 1, rs1: 0, imm: 5}
  - {op: addi, rd: 2, rs1: 0, imm: 7}
  - {op: add, rd: 3, rs1: 1, rs2: 2}
  - {op: ecall}
`)

	cfg := newTestConfig(t, workload)
	var console bytes.Buffer
	sim, err := New(cfg, &console)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := sim.Run(1000); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := sim.GetStatistics()
	if stats.Instrs != 4 {
		t.Errorf("Instrs = %d, want 4", stats.Instrs)
	}
	if !stats.ExitedCleanly {
		t.Errorf("ExitedCleanly = false, want true")
	}
	if stats.TotalCycles == 0 {
		t.Errorf("TotalCycles = 0, want > 0")
	}
	if stats.IPC <= 0 {
		t.Errorf("IPC = %f, want > 0", stats.IPC)
	}
}

func TestRun_NegativeCycles(t *testing.T) {
	dir := t.TempDir()
	workload := writeWorkload(t, dir, `
  - {op: ecall}
`)
	cfg := newTestConfig(t, workload)
	sim, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := sim.Run(-10); err == nil {
		t.Fatal("Run() with negative cycles should return error")
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	workload := writeWorkload(t, dir, `
  - {op: ecall}
`)
	cfg := newTestConfig(t, workload)
	sim, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sim.running.Store(true)
	if err := sim.Run(100); err == nil {
		t.Fatal("Run() while already running should return error")
	}
	sim.running.Store(false)
}

func TestRun_CycleBudgetExhaustedWithoutExit(t *testing.T) {
	dir := t.TempDir()
	// A branch to itself (offset 0) is always taken and never exits on its own.
	workload := writeWorkload(t, dir, `
  - {op: beq, rs1: 0, rs2: 0, imm: 0}
`)
	cfg := newTestConfig(t, workload)
	sim, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := sim.Run(50); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := sim.GetStatistics()
	if stats.ExitedCleanly {
		t.Errorf("ExitedCleanly = true, want false for a looping program")
	}
	if stats.TotalCycles != 50 {
		t.Errorf("TotalCycles = %d, want 50", stats.TotalCycles)
	}
}

func TestRun_ConsoleWrite(t *testing.T) {
	dir := t.TempDir()
	workload := writeWorkload(t, dir, `
  - {op: addi, rd: 1, rs1: 0, imm: 65}
  - {op: addi, rd: 2, rs1: 0, imm: -65536}
  - {op: sw, rs1: 2, rs2: 1, imm: 0}
  - {op: ecall}
`)
	cfg := newTestConfig(t, workload)
	var console bytes.Buffer
	sim, err := New(cfg, &console)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := sim.Run(1000); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if console.Len() != 1 || console.Bytes()[0] != 'A' {
		t.Errorf("console output = %q, want %q", console.Bytes(), "A")
	}
}
