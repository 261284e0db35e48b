// Package rat implements the register alias table: the mapping from
// an architectural register to the in-flight reorder buffer entry that
// will produce its next value, used by the out-of-order pipeline to
// rename operands at issue time.
package rat

// None marks a register whose value currently lives in the
// architectural register file rather than an in-flight ROB entry.
const None = -1

// Table is a fixed-size register alias table, one entry per
// architectural register.
type Table struct {
	store []int
}

// New creates a table for numRegs architectural registers, all
// initially mapped to None.
func New(numRegs int) *Table {
	store := make([]int, numRegs)
	for i := range store {
		store[i] = None
	}
	return &Table{store: store}
}

// Get returns the ROB index currently producing index's value, or None.
func (t *Table) Get(index uint32) int {
	return t.store[index]
}

// Set records that the ROB entry value will next produce index's value.
func (t *Table) Set(index uint32, value int) {
	t.store[index] = value
}
