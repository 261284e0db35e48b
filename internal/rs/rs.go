// Package rs implements the reservation station: a fixed-capacity,
// unordered pool of in-flight instructions waiting for their operands
// to become available before they can be dispatched to a functional
// unit.
package rs

import (
	"fmt"
	"io"

	"github.com/coredump/tinyrv-sim/internal/trace"
)

// None marks an operand as already available (no producing entry).
const None = -1

// Entry is one reservation station slot.
type Entry struct {
	Valid    bool
	Running  bool
	RobIndex int
	Rs1Index int // producing RS index, or None if rs1 is available
	Rs2Index int // producing RS index, or None if rs2 is available
	Trace    *trace.Trace
}

// Station is a fixed-size reservation station. Free slots are tracked
// with an unordered free list (indices/watermark), not a FIFO: Push
// takes the next free index off the watermark, Remove swaps the freed
// index back under the watermark. Both are O(1); there is no ordering
// guarantee among free slots.
type Station struct {
	store      []Entry
	indices    []uint32
	nextIndex  uint32
}

// New creates a station with the given number of entries.
func New(size uint32) *Station {
	s := &Station{
		store:   make([]Entry, size),
		indices: make([]uint32, size),
	}
	for i := range s.indices {
		s.indices[i] = uint32(i)
	}
	return s
}

// Push allocates a slot for trace, recording its ROB index and the
// producing RS index of each not-yet-available operand. It panics if
// the station is full; callers must check IsFull first.
func (s *Station) Push(tr *trace.Trace, robIndex, rs1Index, rs2Index int) uint32 {
	if s.IsFull() {
		panic("rs: push on full reservation station")
	}
	index := s.indices[s.nextIndex]
	s.nextIndex++
	s.store[index] = Entry{
		Valid:    true,
		Running:  false,
		RobIndex: robIndex,
		Rs1Index: rs1Index,
		Rs2Index: rs2Index,
		Trace:    tr,
	}
	return index
}

// Remove frees index, returning it to the pool.
func (s *Station) Remove(index uint32) {
	if s.IsEmpty() {
		panic("rs: remove from empty reservation station")
	}
	s.store[index].Valid = false
	s.nextIndex--
	s.indices[s.nextIndex] = index
}

// Entry returns a pointer to the entry at index for in-place mutation.
func (s *Station) Entry(index uint32) *Entry {
	return &s.store[index]
}

// Size returns the station's total capacity.
func (s *Station) Size() uint32 {
	return uint32(len(s.store))
}

// IsFull reports whether every slot is occupied.
func (s *Station) IsFull() bool {
	return s.nextIndex == uint32(len(s.store))
}

// IsEmpty reports whether no slot is occupied.
func (s *Station) IsEmpty() bool {
	return s.nextIndex == 0
}

// Dump writes the occupied entries to w in declaration order, for
// debugging.
func (s *Station) Dump(w io.Writer) {
	for i := range s.store {
		e := &s.store[i]
		if !e.Valid {
			continue
		}
		fmt.Fprintf(w, "RS[%d] rob=%d, running=%v, rs1=%d, rs2=%d, trace=%s\n",
			i, e.RobIndex, e.Running, e.Rs1Index, e.Rs2Index, e.Trace)
	}
}
