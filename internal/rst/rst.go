// Package rst implements the register status table: the inverse of a
// reservation station entry's rob_index, mapping a reorder buffer
// index back to the reservation station entry that will produce its
// value. It is consulted at issue time to resolve an operand's
// producer and cleared at writeback once that producer has broadcast.
package rst

// None marks a ROB index with no outstanding producer in the
// reservation station.
const None = -1

// Table is a fixed-size register status table, one entry per reorder
// buffer slot.
type Table struct {
	store []int
}

// New creates a table sized to robSize ROB entries, all initially
// mapped to None.
func New(robSize int) *Table {
	store := make([]int, robSize)
	for i := range store {
		store[i] = None
	}
	return &Table{store: store}
}

// Get returns the reservation station index producing robIndex's
// value, or None.
func (t *Table) Get(robIndex int) int {
	return t.store[robIndex]
}

// Set records rsIndex as the producer for robIndex.
func (t *Table) Set(robIndex, rsIndex int) {
	t.store[robIndex] = rsIndex
}
