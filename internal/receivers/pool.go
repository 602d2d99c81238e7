// Package receivers implements the filtered one-shot waiter pool behind
// Gateway.Receive: a caller registers a predicate and blocks; the first
// inbound message matching any registered predicate is routed to it,
// first-match-wins, and that waiter is removed. Grounded on fjagepy's
// ChannelFilter (a OneShotChannel plus a filter function, with tryput()
// applying the filter before delivering).
package receivers

import (
	"sync"

	"github.com/nsilva/fjagego/internal/onewait"
)

// Pool holds waiters for messages of type T.
type Pool[T any] struct {
	mu      sync.Mutex
	waiters []*entry[T]
}

type entry[T any] struct {
	match func(T) (bool, bool) // (matched, predicateFaulted)
	cell  *onewait.Cell[T]
}

// New returns an empty Pool.
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Register adds a waiter with the given match predicate (recovered from
// panics; a faulting predicate is treated as a non-match, see Dispatch) and
// returns the cell the caller should Get from.
func (p *Pool[T]) Register(match func(T) bool) *onewait.Cell[T] {
	cell := onewait.New[T]()
	safe := func(v T) (matched bool, faulted bool) {
		defer func() {
			if r := recover(); r != nil {
				matched, faulted = false, true
			}
		}()
		return match(v), false
	}
	p.mu.Lock()
	p.waiters = append(p.waiters, &entry[T]{match: safe, cell: cell})
	p.mu.Unlock()
	return cell
}

// Unregister removes a waiter's cell from the pool without delivering
// anything to it, used when a caller's wait times out or its context is
// cancelled before a match arrived.
func (p *Pool[T]) Unregister(cell *onewait.Cell[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.waiters {
		if e.cell == cell {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}

// Dispatch offers v to waiters in FIFO registration order, delivering to and
// removing the first whose predicate matches. It reports whether a waiter
// claimed v, and separately whether any predicate panicked while being
// consulted (the caller may want to log this as ErrPredicateFault; the
// faulting waiter is treated as a non-match and stays registered, since a
// predicate bug in one waiter should not cost another waiter its message).
func (p *Pool[T]) Dispatch(v T) (claimed bool, anyFault bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.waiters {
		matched, faulted := e.match(v)
		if faulted {
			anyFault = true
			continue
		}
		if matched {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			e.cell.Put(v)
			return true, anyFault
		}
	}
	return false, anyFault
}

// Len reports the number of currently registered waiters.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiters)
}

// CloseAll closes every waiter's cell, used on Gateway shutdown.
func (p *Pool[T]) CloseAll() {
	p.mu.Lock()
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()
	for _, e := range waiters {
		e.cell.Close()
	}
}
