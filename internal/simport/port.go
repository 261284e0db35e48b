// Package simport implements the timed single-producer/single-consumer
// queue used to carry values between pipeline stages and functional
// units. A value sent with a positive delay becomes visible to the
// consumer only after that many subsequent global tick advances; a
// value sent with delay 0 is visible to any consumer that runs later
// in the same tick.
package simport

// Port is a generic timed FIFO. The zero value is ready to use.
type Port[T any] struct {
	pending []pendingEntry[T]
	ready   []T
}

type pendingEntry[T any] struct {
	value T
	delay int
}

// Send enqueues value. With delay <= 0 it is visible immediately to any
// consumer running later this tick; otherwise it becomes visible after
// `delay` further calls to Advance.
func (p *Port[T]) Send(value T, delay int) {
	if delay <= 0 {
		p.ready = append(p.ready, value)
		return
	}
	p.pending = append(p.pending, pendingEntry[T]{value: value, delay: delay})
}

// Advance decrements every pending entry's delay counter, promoting any
// that reach zero into the ready queue. It must run once per global
// tick, before stage logic, for every port in the simulation.
func (p *Port[T]) Advance() {
	if len(p.pending) == 0 {
		return
	}
	kept := p.pending[:0]
	for _, e := range p.pending {
		e.delay--
		if e.delay <= 0 {
			p.ready = append(p.ready, e.value)
		} else {
			kept = append(kept, e)
		}
	}
	p.pending = kept
}

// Empty reports whether the ready queue has a value available now.
func (p *Port[T]) Empty() bool {
	return len(p.ready) == 0
}

// Front returns the oldest ready value without removing it. Callers
// must check Empty first.
func (p *Port[T]) Front() T {
	return p.ready[0]
}

// Pop removes the oldest ready value. Callers must check Empty first.
func (p *Port[T]) Pop() {
	p.ready = p.ready[1:]
}
