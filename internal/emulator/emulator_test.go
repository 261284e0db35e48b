package emulator

import (
	"testing"

	"github.com/coredump/tinyrv-sim/internal/ram"
	"github.com/coredump/tinyrv-sim/internal/trace"
)

func TestStep_Addi(t *testing.T) {
	e := New([]Instr{{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 5}}, 8)
	tr := e.Step()

	if tr.FUType != trace.ALU || tr.AluOp != trace.ARITH {
		t.Errorf("addi trace FUType/AluOp = %v/%v, want ALU/ARITH", tr.FUType, tr.AluOp)
	}
	if !tr.WB || tr.Rd != 1 {
		t.Errorf("addi trace WB/Rd = %v/%d, want true/1", tr.WB, tr.Rd)
	}
}

func TestStep_AddiSkipsWritebackForX0(t *testing.T) {
	e := New([]Instr{{Op: OpAddi, Rd: 0, Rs1: 0, Imm: 5}}, 8)
	tr := e.Step()

	if tr.WB {
		t.Errorf("addi targeting x0 should not request writeback")
	}
}

func TestStep_AddComputesSum(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 3},
		{Op: OpAddi, Rd: 2, Rs1: 0, Imm: 4},
		{Op: OpAdd, Rd: 3, Rs1: 1, Rs2: 2},
	}, 8)
	e.Step()
	e.Step()
	e.Step()

	if got := e.regs[3]; got != 7 {
		t.Errorf("x3 = %d, want 7", got)
	}
}

func TestStep_SubComputesDifference(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 10},
		{Op: OpAddi, Rd: 2, Rs1: 0, Imm: 3},
		{Op: OpSub, Rd: 3, Rs1: 1, Rs2: 2},
	}, 8)
	e.Step()
	e.Step()
	e.Step()

	if got := e.regs[3]; got != 7 {
		t.Errorf("x3 = %d, want 7", got)
	}
}

func TestStep_BeqTakenBranchesPC(t *testing.T) {
	e := New([]Instr{
		{Op: OpBeq, Rs1: 0, Rs2: 0, Imm: 16},
	}, 8)
	e.Step()

	if e.pc != 16 {
		t.Errorf("pc after taken beq = %d, want 16", e.pc)
	}
}

func TestStep_BeqNotTakenFallsThrough(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 1},
		{Op: OpBeq, Rs1: 0, Rs2: 1, Imm: 16},
	}, 8)
	e.Step()
	e.Step()

	if e.pc != 8 {
		t.Errorf("pc after not-taken beq = %d, want 8", e.pc)
	}
}

func TestStep_BneTakenWhenOperandsDiffer(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 1},
		{Op: OpBne, Rs1: 0, Rs2: 1, Imm: -4},
	}, 8)
	e.Step()
	e.Step()

	if e.pc != 0 {
		t.Errorf("pc after taken bne = %d, want 0", e.pc)
	}
}

func TestStep_BranchTraceNeverWritesBack(t *testing.T) {
	e := New([]Instr{{Op: OpBeq, Rs1: 0, Rs2: 0, Imm: 0}}, 8)
	tr := e.Step()
	if tr.WB {
		t.Errorf("branch traces must never request writeback")
	}
}

func TestStep_LoadStoreRoundTrip(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 0x40},  // x1 = base address
		{Op: OpAddi, Rd: 2, Rs1: 0, Imm: 0x2A},  // x2 = 42
		{Op: OpSw, Rs1: 1, Rs2: 2, Imm: 0},
		{Op: OpLw, Rd: 3, Rs1: 1, Imm: 0},
	}, 8)
	e.AttachRAM(ram.New(256, nil))

	e.Step()
	e.Step()
	swTrace := e.Step()
	lwTrace := e.Step()

	if swTrace.FUType != trace.LSU || swTrace.LsuOp != trace.STORE {
		t.Errorf("sw trace FUType/LsuOp = %v/%v, want LSU/STORE", swTrace.FUType, swTrace.LsuOp)
	}
	if lwTrace.FUType != trace.LSU || lwTrace.LsuOp != trace.LOAD {
		t.Errorf("lw trace FUType/LsuOp = %v/%v, want LSU/LOAD", lwTrace.FUType, lwTrace.LsuOp)
	}
	if got := e.regs[3]; got != 42 {
		t.Errorf("x3 after load = %d, want 42", got)
	}
	if swTrace.Mem.Addr != 0x40 || swTrace.Mem.Size != 4 {
		t.Errorf("sw trace Mem = %+v, want Addr=0x40 Size=4", swTrace.Mem)
	}
}

func TestStep_CsrrwSwapsValues(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 9},
		{Op: OpCsrrw, Rd: 2, Rs1: 1, Imm: 0x300},
	}, 8)
	e.Step()
	tr := e.Step()

	if tr.FUType != trace.CSR || tr.CsrOp != trace.CSRRW {
		t.Errorf("csrrw trace FUType/CsrOp = %v/%v, want CSR/CSRRW", tr.FUType, tr.CsrOp)
	}
	if got := e.csrs[0x300]; got != 9 {
		t.Errorf("csr[0x300] = %d, want 9", got)
	}
	if got := e.regs[2]; got != 0 {
		t.Errorf("x2 (old csr value) = %d, want 0", got)
	}
}

func TestStep_CsrrsSetsBits(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 0x0F},
		{Op: OpCsrrw, Rd: 0, Rs1: 1, Imm: 0x300},
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 0xF0},
		{Op: OpCsrrs, Rd: 0, Rs1: 1, Imm: 0x300},
	}, 8)
	for i := 0; i < 4; i++ {
		e.Step()
	}
	if got := e.csrs[0x300]; got != 0xFF {
		t.Errorf("csr[0x300] = 0x%x, want 0xFF", got)
	}
}

func TestStep_CsrrcClearsBits(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 0xFF},
		{Op: OpCsrrw, Rd: 0, Rs1: 1, Imm: 0x300},
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 0x0F},
		{Op: OpCsrrc, Rd: 0, Rs1: 1, Imm: 0x300},
	}, 8)
	for i := 0; i < 4; i++ {
		e.Step()
	}
	if got := e.csrs[0x300]; got != 0xF0 {
		t.Errorf("csr[0x300] = 0x%x, want 0xF0", got)
	}
}

func TestCheckExit_FalseBeforeExit(t *testing.T) {
	e := New([]Instr{{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 1}}, 8)
	if _, exited := e.CheckExit(false); exited {
		t.Errorf("CheckExit should be false before any ECALL/EBREAK")
	}
}

func TestCheckExit_TrueAfterEcall(t *testing.T) {
	e := New([]Instr{{Op: OpEcall}}, 8)
	e.Step()

	code, exited := e.CheckExit(false)
	if !exited {
		t.Fatalf("CheckExit should be true after ECALL")
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0 (x3 default)", code)
	}
}

func TestCheckExit_RiscvTestInvertsCode(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 3, Rs1: 0, Imm: 1},
		{Op: OpEbreak},
	}, 8)
	e.Step()
	e.Step()

	code, exited := e.CheckExit(true)
	if !exited {
		t.Fatalf("CheckExit should be true after EBREAK")
	}
	if code != 0 {
		t.Errorf("riscv-test exit code = %d, want 0 (1 - 1)", code)
	}
}

func TestStep_PanicsPastEndOfProgram(t *testing.T) {
	e := New([]Instr{{Op: OpEcall}}, 8)
	e.Step()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("Step past the end of the program should panic")
		}
	}()
	e.Step()
}

func TestClear_ResetsArchitecturalState(t *testing.T) {
	e := New([]Instr{
		{Op: OpAddi, Rd: 1, Rs1: 0, Imm: 5},
		{Op: OpEcall},
	}, 8)
	e.Step()
	e.Step()

	e.Clear()

	if e.pc != 0 {
		t.Errorf("pc after Clear() = %d, want 0", e.pc)
	}
	if e.regs[1] != 0 {
		t.Errorf("x1 after Clear() = %d, want 0", e.regs[1])
	}
	if _, exited := e.CheckExit(false); exited {
		t.Errorf("CheckExit should be false after Clear()")
	}
}
