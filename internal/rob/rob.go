// Package rob implements the reorder buffer: a circular in-order queue
// of in-flight instructions that lets functional units complete out of
// order while architectural state still commits in program order.
package rob

import (
	"fmt"
	"io"

	"github.com/coredump/tinyrv-sim/internal/rat"
	"github.com/coredump/tinyrv-sim/internal/simport"
	"github.com/coredump/tinyrv-sim/internal/trace"
)

type entry struct {
	trace     *trace.Trace
	completed bool
}

// Buffer is a fixed-capacity reorder buffer. Completed carries ROB
// indices signaled complete by a functional unit's writeback; Committed
// carries the traces that have retired in program order.
type Buffer struct {
	Completed simport.Port[int]
	Committed simport.Port[*trace.Trace]

	rat   *rat.Table
	store []entry
	head  int
	tail  int
	count int
}

// New creates a buffer with the given capacity, backed by rat for the
// RAT-clearing check performed on commit.
func New(rat *rat.Table, size int) *Buffer {
	return &Buffer{
		rat:   rat,
		store: make([]entry, size),
	}
}

// Tick drains at most one freshly-arrived Completed signal (marking
// that entry complete) and then, independent of whether a signal
// arrived this cycle, commits the head entry if it is already
// complete. Checking head completion unconditionally — rather than
// only in direct response to a Completed signal for the head itself —
// is required: an entry that completes while not at head never
// receives a second Completed signal once it becomes head, so gating
// the check behind a fresh signal would strand it uncommitted forever.
// At most one entry commits per cycle.
func (b *Buffer) Tick() {
	if b.IsEmpty() {
		return
	}

	if !b.Completed.Empty() {
		robIndex := b.Completed.Front()
		b.store[robIndex].completed = true
		b.Completed.Pop()
	}

	head := &b.store[b.head]
	if head.trace == nil || !head.completed {
		return
	}

	if head.trace.WB && b.rat.Get(head.trace.Rd) == b.head {
		b.rat.Set(head.trace.Rd, rat.None)
	}

	b.Committed.Send(head.trace, 0)

	head.trace = nil
	head.completed = false
	b.head = (b.head + 1) % len(b.store)
	b.count--
}

// Allocate reserves the tail slot for trace and returns its ROB index.
// It panics if the buffer is full; callers must check IsFull first.
func (b *Buffer) Allocate(tr *trace.Trace) int {
	if b.IsFull() {
		panic("rob: allocate on full reorder buffer")
	}
	index := b.tail
	b.store[index] = entry{trace: tr}
	b.tail = (b.tail + 1) % len(b.store)
	b.count++
	return index
}

// IsFull reports whether every slot between head and tail is occupied.
func (b *Buffer) IsFull() bool {
	return b.count == len(b.store)
}

// IsEmpty reports whether no slot is occupied.
func (b *Buffer) IsEmpty() bool {
	return b.count == 0
}

// Dump writes the occupied entries to w in slot-index order (not
// head-first), marking the head entry, for debugging.
func (b *Buffer) Dump(w io.Writer) {
	for i, e := range b.store {
		if e.trace == nil {
			continue
		}
		fmt.Fprintf(w, "ROB[%d] completed=%v, head=%v, trace=%s\n",
			i, e.completed, i == b.head, e.trace)
	}
}
