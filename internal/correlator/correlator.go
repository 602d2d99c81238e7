// Package correlator implements the pending-action table behind the
// gateway's platform metadata queries: an outbound frame is
// registered under its id before being written to the transport, and the
// matching inbound reply is routed back to the waiter by that same id.
//
// Grounded on creachadair/jrpc2's Client: a mutex-guarded
// map[string]*Response keyed by request id, entries created just before
// send and removed by whichever of "reply arrived" or "context cancelled"
// happens first (jrpc2's waitComplete/deliverLocked pair).
package correlator

import (
	"context"
	"sync"

	"github.com/nsilva/fjagego/internal/onewait"
)

// Correlator tracks pending actions of result type T keyed by string id.
type Correlator[T any] struct {
	mu      sync.Mutex
	pending map[string]*onewait.Cell[T]
}

// New returns an empty Correlator.
func New[T any]() *Correlator[T] {
	return &Correlator[T]{pending: make(map[string]*onewait.Cell[T])}
}

// Register creates and stores a waiting cell for id. Callers must call
// Forget(id) once they stop waiting (on timeout, cancellation, or after
// Deliver already removed it) to avoid leaking entries for ids that never
// receive a reply.
func (c *Correlator[T]) Register(id string) *onewait.Cell[T] {
	cell := onewait.New[T]()
	c.mu.Lock()
	c.pending[id] = cell
	c.mu.Unlock()
	return cell
}

// Deliver routes v to the pending cell registered under id, if any. It
// reports whether a waiter was found. The entry is removed either way is
// not true: only a found entry is removed, since delivering to an id with
// no waiter means the frame arrived after the waiter gave up or was never
// ours to begin with.
func (c *Correlator[T]) Deliver(id string, v T) bool {
	c.mu.Lock()
	cell, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	cell.Put(v)
	return true
}

// Forget removes id's pending entry without delivering anything, closing
// its cell so any blocked Get returns onewait.ErrClosed.
func (c *Correlator[T]) Forget(id string) {
	c.mu.Lock()
	cell, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if ok {
		cell.Close()
	}
}

// Wait registers id, waits for a reply or ctx cancellation, and forgets the
// entry before returning. This is the usual way callers interact with a
// Correlator: Register is exposed separately for cases (platform queries
// sent ahead of their context) where the registration must happen before
// the frame is written to the transport.
func (c *Correlator[T]) Wait(ctx context.Context, id string) (T, error) {
	cell := c.Register(id)
	defer c.Forget(id)
	return cell.Get(ctx)
}

// Len reports the number of pending entries; used by internal/metrics.
func (c *Correlator[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// CloseAll closes every pending cell, unblocking their Gets with
// onewait.ErrClosed. Used when the owning Gateway shuts down, mirroring
// jrpc2's stopLocked cancelling every outstanding call.
func (c *Correlator[T]) CloseAll() {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]*onewait.Cell[T])
	c.mu.Unlock()
	for _, cell := range pending {
		cell.Close()
	}
}
