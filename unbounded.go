package conduit

import (
	"context"
	"sync"

	"github.com/destel/conduit/internal/ringbuffer"
)

// unboundedChan is a channel whose buffer grows without limit. Sends never
// hang: a value is either handed to a waiting receiver or buffered, so there
// is no send waiter queue at all and only receivers ever block.
type unboundedChan[T any] struct {
	mu     sync.Mutex
	closed bool

	buf   ringbuffer.Buffer[T]
	recvQ ringbuffer.Buffer[recvWaiter[T]]
}

func (c *unboundedChan[T]) Cap() int {
	return Unbounded
}

func (c *unboundedChan[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneRecvQ()

	return c.buf.Len() - c.recvQ.Len()
}

func (c *unboundedChan[T]) Close() {
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
}

// TrySend never returns [Exhausted]: an unbounded channel refuses a value only
// when it is closed.
func (c *unboundedChan[T]) TrySend(v T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Closed
	}
	c.sendLocked(v)
	return Ok
}

// Send never suspends on an unbounded channel.
func (c *unboundedChan[T]) Send(ctx context.Context, v T) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		return Canceled
	}
	if c.closed {
		return Closed
	}
	c.sendLocked(v)
	return Ok
}

func (c *unboundedChan[T]) SendSched(v T, abort func() bool, onSettled func(ok bool)) {
	if abort == nil {
		abort = neverAbort
	}
	c.schedSend(v, abort, abort, onSettled)
}

func (c *unboundedChan[T]) schedSend(v T, abort, dead func() bool, onSettled func(ok bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		onSettled(false)
		return
	}
	c.sendLocked(v)
	onSettled(true)
}

func (c *unboundedChan[T]) TryRecv() (T, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.closed {
		return zero, Closed
	}
	if v, ok := c.buf.Read(); ok {
		return v, Ok
	}
	return zero, Exhausted
}

func (c *unboundedChan[T]) Recv(ctx context.Context) (T, Outcome) {
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
	if v, ok := c.buf.Read(); ok {
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

func (c *unboundedChan[T]) RecvSched(abort func() bool, onSettled func(ok bool, value T)) {
	if abort == nil {
		abort = neverAbort
	}
	c.schedRecv(abort, abort, onSettled)
}

func (c *unboundedChan[T]) schedRecv(abort, dead func() bool, onSettled func(ok bool, value T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		var zero T
		onSettled(false, zero)
		return
	}
	if v, ok := c.buf.Read(); ok {
		onSettled(true, v)
		return
	}

	c.recvQ.Write(recvWaiter[T]{abort: abort, dead: dead, settle: onSettled})
}

// sendLocked hands v to the oldest live hanging receiver, or buffers it.
// It cannot fail.
func (c *unboundedChan[T]) sendLocked(v T) {
	for {
		w, ok := c.recvQ.Read()
		if !ok {
			break
		}
		if w.abort() {
			continue
		}

		w.settle(true, v)
		return
	}

	c.buf.Write(v)
}

func (c *unboundedChan[T]) pruneRecvQ() {
	for {
		w, ok := c.recvQ.Peek()
		if !ok || !w.dead() {
			return
		}
		c.recvQ.Discard()
	}
}
