package conduit

import "context"

// Unbounded is the capacity value that makes [New] return an unbounded channel.
const Unbounded = -1

// Receiver is the receiving half of a channel.
// Channel implementations come from this package; the interface cannot be
// implemented outside of it.
type Receiver[T any] interface {
	// TryRecv attempts to receive a value without blocking.
	// It returns [Exhausted] when no value is immediately available.
	TryRecv() (T, Outcome)

	// Recv receives a value, blocking until one is available, the channel is
	// closed, or ctx is done.
	Recv(ctx context.Context) (T, Outcome)

	// RecvSched registers a receive intent and returns immediately.
	// onSettled fires exactly once, on the goroutine that commits the receive,
	// with ok=false if the channel was closed first. If the operation can
	// commit immediately, or the channel is already closed, onSettled fires
	// synchronously before RecvSched returns.
	//
	// abort is evaluated once the intent is queued, each time the channel
	// examines it; a true result discards the intent and onSettled never
	// fires. It must be side-effect free. A nil abort never aborts.
	//
	// onSettled runs with the channel lock held and must not call back into
	// the same channel.
	RecvSched(abort func() bool, onSettled func(ok bool, value T))

	// Close closes the channel. It is idempotent, never fails, and wakes every
	// blocked or scheduled operation with [Closed].
	Close()

	// Cap returns the channel's capacity: 0 for rendezvous, N for bounded,
	// [Unbounded] for unbounded channels.
	Cap() int

	// Size reports the number of buffered values plus hanging senders minus
	// hanging receivers. It is negative when receivers are blocked on an empty
	// channel and can exceed Cap when senders are blocked on a full one.
	// It is a diagnostic: the value may be stale by the time it is observed.
	Size() int

	// schedRecv is the full form of RecvSched, taking the settlement-time
	// abort predicate and the pure liveness predicate separately. Only select
	// needs the distinction.
	schedRecv(abort, dead func() bool, onSettled func(ok bool, value T))
}

// Sender is the sending half of a channel.
// Channel implementations come from this package; the interface cannot be
// implemented outside of it.
type Sender[T any] interface {
	// TrySend attempts to send v without blocking.
	// It returns [Exhausted] when the channel cannot accept v immediately.
	TrySend(v T) Outcome

	// Send sends v, blocking until the value is accepted, the channel is
	// closed, or ctx is done.
	Send(ctx context.Context, v T) Outcome

	// SendSched registers a send intent and returns immediately.
	// onSettled fires exactly once, on the goroutine that commits the send,
	// with ok=false if the channel was closed first. If the operation can
	// commit immediately, or the channel is already closed, onSettled fires
	// synchronously before SendSched returns.
	//
	// abort is evaluated once the intent is queued, each time the channel
	// examines it; a true result discards the intent and onSettled never
	// fires. It must be side-effect free. A nil abort never aborts.
	//
	// onSettled runs with the channel lock held and must not call back into
	// the same channel.
	SendSched(v T, abort func() bool, onSettled func(ok bool))

	// Close closes the channel. It is idempotent, never fails, and wakes every
	// blocked or scheduled operation with [Closed].
	Close()

	// Cap returns the channel's capacity: 0 for rendezvous, N for bounded,
	// [Unbounded] for unbounded channels.
	Cap() int

	// Size reports the number of buffered values plus hanging senders minus
	// hanging receivers. It is negative when receivers are blocked on an empty
	// channel and can exceed Cap when senders are blocked on a full one.
	// It is a diagnostic: the value may be stale by the time it is observed.
	Size() int

	// schedSend is the full form of SendSched; see Receiver.schedRecv.
	schedSend(v T, abort, dead func() bool, onSettled func(ok bool))
}

// Chan is a channel usable from both sides.
type Chan[T any] interface {
	Sender[T]
	Receiver[T]
}

// New returns an open, empty channel of the given capacity.
// Capacity 0 gives a rendezvous channel, a positive capacity gives a bounded
// channel, and [Unbounded] (or any negative value) gives an unbounded one.
func New[T any](capacity int) Chan[T] {
	if capacity < 0 {
		return NewUnbounded[T]()
	}
	return &boundedChan[T]{capacity: capacity}
}

// NewUnbounded returns an open, empty unbounded channel.
func NewUnbounded[T any]() Chan[T] {
	return &unboundedChan[T]{}
}

// SendValue sends v without a cancellation context, blocking until the value is
// accepted, and reports whether the send committed.
func SendValue[T any](s Sender[T], v T) bool {
	return s.Send(context.Background(), v) == Ok
}

// RecvValue receives a value without a cancellation context, blocking until one
// is available, and reports whether the receive committed.
func RecvValue[T any](r Receiver[T]) (T, bool) {
	v, outcome := r.Recv(context.Background())
	return v, outcome == Ok
}
