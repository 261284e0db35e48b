// Package trace defines the per-instruction record ("pipeline trace")
// that flows between pipeline stages, plus the enumerations that
// classify which functional unit an instruction needs and what it asks
// that unit to do.
package trace

import "fmt"

// FUType names a functional unit kind. Every instruction targets
// exactly one.
type FUType int

const (
	ALU FUType = iota
	LSU
	CSR
)

func (t FUType) String() string {
	switch t {
	case ALU:
		return "ALU"
	case LSU:
		return "LSU"
	case CSR:
		return "CSR"
	default:
		return fmt.Sprintf("FUType(%d)", int(t))
	}
}

// AluOp is the operation an ALU-targeted instruction performs.
type AluOp int

const (
	ARITH AluOp = iota
	BRANCH
	SYSCALL
)

func (op AluOp) String() string {
	switch op {
	case ARITH:
		return "ARITH"
	case BRANCH:
		return "BRANCH"
	case SYSCALL:
		return "SYSCALL"
	default:
		return fmt.Sprintf("AluOp(%d)", int(op))
	}
}

// LsuOp is the operation an LSU-targeted instruction performs.
type LsuOp int

const (
	LOAD LsuOp = iota
	STORE
	FENCE
)

func (op LsuOp) String() string {
	switch op {
	case LOAD:
		return "LOAD"
	case STORE:
		return "STORE"
	case FENCE:
		return "FENCE"
	default:
		return fmt.Sprintf("LsuOp(%d)", int(op))
	}
}

// CsrOp is the operation a CSR-targeted instruction performs.
type CsrOp int

const (
	CSRRW CsrOp = iota
	CSRRS
	CSRRC
)

func (op CsrOp) String() string {
	switch op {
	case CSRRW:
		return "CSRRW"
	case CSRRS:
		return "CSRRS"
	case CSRRC:
		return "CSRRC"
	default:
		return fmt.Sprintf("CsrOp(%d)", int(op))
	}
}

// MemAddrSize is the side data an LSU trace carries: the effective
// address and access width of its memory operation.
type MemAddrSize struct {
	Addr uint64
	Size uint32
}

// NoReg marks the absence of a register operand. Register 0 (x0) is
// also used by the architecture as "hardwired zero", so both the
// "no operand" and "x0" cases share this value; nothing in the
// pipeline ever needs to tell them apart because x0 is never a
// dependency source (RAT/RST lookups are skipped whenever an operand
// index equals NoReg) and is never a writeback destination.
const NoReg = 0

// Trace is the opaque-to-the-pipeline record an instruction carries
// from fetch through commit. The pipeline reads PC/Rd/Rs1/Rs2/WB/FUType
// to drive hazard tracking and dispatch; AluOp/LsuOp/CsrOp and Mem
// exist only for the functional unit that executes the instruction.
type Trace struct {
	UUID uint64
	PC   uint32

	Rd  uint32
	Rs1 uint32
	Rs2 uint32
	WB  bool

	FUType FUType

	// Exactly one of these is meaningful, selected by FUType.
	AluOp AluOp
	LsuOp LsuOp
	CsrOp CsrOp

	// Set only when FUType == LSU.
	Mem MemAddrSize
}

func (t *Trace) String() string {
	var op string
	switch t.FUType {
	case ALU:
		op = t.AluOp.String()
	case LSU:
		op = t.LsuOp.String()
	case CSR:
		op = t.CsrOp.String()
	}
	s := fmt.Sprintf("PC=0x%x, wb=%v", t.PC, t.WB)
	if t.WB {
		s += fmt.Sprintf(", rd=x%d", t.Rd)
	}
	s += fmt.Sprintf(", ex=%s/%s (#%d)", t.FUType, op, t.UUID)
	return s
}
