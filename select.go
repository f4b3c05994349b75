package conduit

import (
	"context"
	"sync"
)

// Op is a pending channel operation, built with [SendOp] or [RecvOp] and
// passed to [Select], [TrySelect] or [SelectElse].
type Op interface {
	// tryExecute attempts the operation without blocking. It reports false only
	// when the operation could not make immediate progress; if the channel is
	// closed, the operation settles with ok=false and tryExecute reports true.
	tryExecute() bool

	// schedule registers the operation on its channel, tied to the select's
	// shared commit point.
	schedule(s *selectState)
}

type sendOp[T any] struct {
	s         Sender[T]
	value     T
	onSettled func(ok bool)
}

// SendOp builds a pending send of v for use with [Select]. The optional
// onSettled callback fires with true if the send commits, or with false if the
// channel is closed first. It never fires if another operation wins the select.
func SendOp[T any](s Sender[T], v T, onSettled ...func(ok bool)) Op {
	op := sendOp[T]{s: s, value: v}
	if len(onSettled) > 0 && onSettled[0] != nil {
		op.onSettled = onSettled[0]
	} else {
		op.onSettled = func(bool) {}
	}
	return op
}

func (op sendOp[T]) tryExecute() bool {
	outcome := op.s.TrySend(op.value)
	if outcome == Exhausted {
		return false
	}

	op.onSettled(outcome == Ok)
	return true
}

func (op sendOp[T]) schedule(s *selectState) {
	op.s.schedSend(op.value, s.claimCheck, s.deadCheck, func(ok bool) {
		s.force()
		op.onSettled(ok)
		s.finish()
	})
}

type recvOp[T any] struct {
	r         Receiver[T]
	onSettled func(ok bool, value T)
}

// RecvOp builds a pending receive for use with [Select]. The optional
// onSettled callback fires with the received value if the receive commits, or
// with ok=false if the channel is closed first. It never fires if another
// operation wins the select.
func RecvOp[T any](r Receiver[T], onSettled ...func(ok bool, value T)) Op {
	op := recvOp[T]{r: r}
	if len(onSettled) > 0 && onSettled[0] != nil {
		op.onSettled = onSettled[0]
	} else {
		op.onSettled = func(bool, T) {}
	}
	return op
}

func (op recvOp[T]) tryExecute() bool {
	v, outcome := op.r.TryRecv()
	if outcome == Exhausted {
		return false
	}

	op.onSettled(outcome == Ok, v)
	return true
}

func (op recvOp[T]) schedule(s *selectState) {
	op.r.schedRecv(s.claimCheck, s.deadCheck, func(ok bool, v T) {
		s.force()
		op.onSettled(ok, v)
		s.finish()
	})
}

// selectState is the coordination point shared by all operations of one
// Select call.
//
// Exclusive commit works without cross-channel locking: a channel about to
// settle a select-armed waiter evaluates the waiter's abort predicate, which
// is claimCheck. The first claim atomically transitions the select from
// pending to done and permits that settlement; every later claim sees the
// select as done and discards its waiter. The settlement that won then runs
// the operation's callback and signals the select, so Select does not return
// before the winning callback has completed.
//
// deadCheck is the pure counterpart used by pruning paths: it reads the flag
// without committing, so a concurrent Size cannot steal the commit.
type selectState struct {
	mu   sync.Mutex
	done bool

	once    sync.Once
	settled chan struct{}
}

func newSelectState() *selectState {
	return &selectState{settled: make(chan struct{})}
}

// claim attempts to transition the select from pending to done.
// It reports whether the caller won the exclusive right to settle.
func (s *selectState) claim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return false
	}
	s.done = true
	return true
}

// claimCheck is the abort predicate shared by all armed operations:
// abort if the select is already done, otherwise commit to this waiter.
func (s *selectState) claimCheck() bool {
	return !s.claim()
}

// deadCheck reports whether the select is done, without side effects.
func (s *selectState) deadCheck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// force marks the select done regardless of who claimed it. It covers the
// synchronous settlement path, where an operation settles during arming
// without its abort predicate ever being evaluated.
func (s *selectState) force() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// finish unblocks Select.
func (s *selectState) finish() {
	s.once.Do(func() { close(s.settled) })
}

// Select waits on the given operations and commits exactly one of them.
//
// Operations are first tried in order without blocking; the first one that can
// make progress settles and Select returns. Otherwise all operations are
// registered on their channels, sharing a single commit point: the first
// channel able to settle one of them claims the select, fires that operation's
// callback, and unblocks Select. The remaining operations are aborted and
// their callbacks never fire; their queue records are discarded lazily by
// their channels, which is harmless since the abort predicate stays valid
// after Select returns.
//
// When ctx is done before any operation settles, Select unblocks and all
// operations are aborted. A closed channel settles its operation with ok=false
// and counts as the committed one. With no operations, Select blocks until ctx
// is done.
func Select(ctx context.Context, ops ...Op) {
	for _, op := range ops {
		if op.tryExecute() {
			return
		}
	}

	s := newSelectState()

	stop := context.AfterFunc(ctx, func() {
		if s.claim() {
			s.finish()
		}
	})
	defer stop()

	for _, op := range ops {
		// An operation may settle synchronously while arming; the rest are
		// then not armed at all.
		if s.deadCheck() {
			break
		}
		op.schedule(s)
	}

	<-s.settled
}

// TrySelect tries each operation once, in order, without blocking. It reports
// whether one of them settled.
func TrySelect(ops ...Op) bool {
	for _, op := range ops {
		if op.tryExecute() {
			return true
		}
	}
	return false
}

// SelectElse tries each operation once, in order, without blocking, and calls
// fallback if none of them settled. It never waits.
func SelectElse(fallback func(), ops ...Op) {
	if !TrySelect(ops...) && fallback != nil {
		fallback()
	}
}
