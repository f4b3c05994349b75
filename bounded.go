package conduit

import (
	"context"
	"sync"

	"github.com/destel/conduit/internal/ringbuffer"
)

// boundedChan is a channel with a fixed capacity, including the rendezvous case
// of capacity zero.
//
// All state is guarded by mu. At most one of recvQ and sendQ is non-empty at any
// time: a receiver only hangs when the buffer is empty and no sender is waiting,
// and a sender only hangs when the buffer is full. Dead waiters are pruned
// lazily, whenever a queue head is examined.
type boundedChan[T any] struct {
	mu       sync.Mutex
	closed   bool
	capacity int

	buf   ringbuffer.Buffer[T]
	recvQ ringbuffer.Buffer[recvWaiter[T]]
	sendQ ringbuffer.Buffer[sendWaiter[T]]
}

func (c *boundedChan[T]) Cap() int {
	return c.capacity
}

func (c *boundedChan[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneRecvQ()
	c.pruneSendQ()

	return c.buf.Len() + c.sendQ.Len() - c.recvQ.Len()
}

// Close drains both waiter queues in FIFO order, settling every live waiter
// with failure. Closing an already closed channel is a no-op beyond that drain,
// which is empty the second time around.
func (c *boundedChan[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	for {
		w, ok := c.recvQ.Read()
		if !ok {
			break
		}
		if w.abort() {
			continue
		}
		var zero T
		w.settle(false, zero)
	}

	for {
		w, ok := c.sendQ.Read()
		if !ok {
			break
		}
		if w.abort() {
			continue
		}
		w.settle(false, nil)
	}
}

func (c *boundedChan[T]) TrySend(v T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Closed
	}
	if c.trySendLocked(v) {
		return Ok
	}
	return Exhausted
}

func (c *boundedChan[T]) Send(ctx context.Context, v T) Outcome {
	c.mu.Lock()

	if ctx.Err() != nil {
		c.mu.Unlock()
		return Canceled
	}
	if c.closed {
		c.mu.Unlock()
		return Closed
	}
	if c.trySendLocked(v) {
		c.mu.Unlock()
		return Ok
	}

	// No room. Hang a waiter holding the value and block until it is settled
	// by a receiver, by Close, or by ctx.
	done := make(chan struct{})
	outcome := Ok
	settled := false // guarded by c.mu; whoever flips it owns the completion
	isSettled := func() bool { return settled }

	c.sendQ.Write(sendWaiter[T]{
		abort: isSettled,
		dead:  isSettled,
		settle: func(ok bool, dst *T) {
			settled = true
			if ok {
				*dst = v
			} else {
				outcome = Closed
			}
			close(done)
		},
	})
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if settled {
			return
		}
		settled = true
		outcome = Canceled
		close(done)
	})
	defer stop()

	<-done
	return outcome
}

func (c *boundedChan[T]) SendSched(v T, abort func() bool, onSettled func(ok bool)) {
	if abort == nil {
		abort = neverAbort
	}
	c.schedSend(v, abort, abort, onSettled)
}

func (c *boundedChan[T]) schedSend(v T, abort, dead func() bool, onSettled func(ok bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		onSettled(false)
		return
	}
	if c.trySendLocked(v) {
		onSettled(true)
		return
	}

	c.sendQ.Write(sendWaiter[T]{
		abort: abort,
		dead:  dead,
		settle: func(ok bool, dst *T) {
			if ok {
				*dst = v
			}
			onSettled(ok)
		},
	})
}

func (c *boundedChan[T]) TryRecv() (T, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.closed {
		return zero, Closed
	}
	if v, ok := c.tryRecvLocked(); ok {
		return v, Ok
	}
	return zero, Exhausted
}

func (c *boundedChan[T]) Recv(ctx context.Context) (T, Outcome) {
	c.mu.Lock()

	var zero T
	if ctx.Err() != nil {
		c.mu.Unlock()
		return zero, Canceled
	}
	if c.closed {
		c.mu.Unlock()
		return zero, Closed
	}
	if v, ok := c.tryRecvLocked(); ok {
		c.mu.Unlock()
		return v, Ok
	}

	done := make(chan struct{})
	var value T
	outcome := Ok
	settled := false // guarded by c.mu
	isSettled := func() bool { return settled }

	c.recvQ.Write(recvWaiter[T]{
		abort: isSettled,
		dead:  isSettled,
		settle: func(ok bool, v T) {
			settled = true
			if ok {
				value = v
			} else {
				outcome = Closed
			}
			close(done)
		},
	})
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if settled {
			return
		}
		settled = true
		outcome = Canceled
		close(done)
	})
	defer stop()

	<-done
	return value, outcome
}

func (c *boundedChan[T]) RecvSched(abort func() bool, onSettled func(ok bool, value T)) {
	if abort == nil {
		abort = neverAbort
	}
	c.schedRecv(abort, abort, onSettled)
}

func (c *boundedChan[T]) schedRecv(abort, dead func() bool, onSettled func(ok bool, value T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		var zero T
		onSettled(false, zero)
		return
	}
	if v, ok := c.tryRecvLocked(); ok {
		onSettled(true, v)
		return
	}

	c.recvQ.Write(recvWaiter[T]{abort: abort, dead: dead, settle: onSettled})
}

// trySendLocked commits a send immediately if possible: first by handing v to
// the oldest live hanging receiver, then by buffering it. Dead receivers
// encountered on the way are discarded.
func (c *boundedChan[T]) trySendLocked(v T) bool {
	for {
		w, ok := c.recvQ.Read()
		if !ok {
			break
		}
		if w.abort() {
			continue
		}

		w.settle(true, v)
		return true
	}

	if c.buf.Len() < c.capacity {
		c.buf.Write(v)
		return true
	}

	return false
}

// tryRecvLocked commits a receive immediately if possible. When a value is
// taken from the buffer, hanging senders are promoted into the freed space so
// that the buffer refills in FIFO order. On a rendezvous channel the value is
// handed off directly from the oldest live hanging sender.
func (c *boundedChan[T]) tryRecvLocked() (T, bool) {
	if v, ok := c.buf.Read(); ok {
		for c.buf.Len() < c.capacity {
			w, ok := c.sendQ.Read()
			if !ok {
				break
			}
			if w.abort() {
				continue
			}

			var slot T
			w.settle(true, &slot)
			c.buf.Write(slot)
		}
		return v, true
	}

	for {
		w, ok := c.sendQ.Read()
		if !ok {
			break
		}
		if w.abort() {
			continue
		}

		var v T
		w.settle(true, &v)
		return v, true
	}

	var zero T
	return zero, false
}

func (c *boundedChan[T]) pruneRecvQ() {
	for {
		w, ok := c.recvQ.Peek()
		if !ok || !w.dead() {
			return
		}
		c.recvQ.Discard()
	}
}

func (c *boundedChan[T]) pruneSendQ() {
	for {
		w, ok := c.sendQ.Peek()
		if !ok || !w.dead() {
			return
		}
		c.sendQ.Discard()
	}
}
